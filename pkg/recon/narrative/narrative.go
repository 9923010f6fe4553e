// Package narrative builds and ranks competing explanations of one run's
// evidence. Narratives snapshot the fact store: they copy the facts they
// reference and stay valid after the store is reset.
package narrative

import (
	"math"
	"sort"

	"github.com/chainrecon/chainrecon/pkg/recon/fact"
)

// Canonical variant identifiers. The catalogue is fixed; ranking decides
// which variants survive truncation.
const (
	VariantFull           = 1
	VariantConservative   = 2
	VariantHighConfidence = 3
	VariantDirect         = 4
	VariantMinimal        = 5
)

// Thresholds for the catalogue filters.
const (
	highConfidenceCut = 0.5
	// directCut approximates "one inference step from evidence"; it is a
	// confidence heuristic, not a structural depth guarantee.
	directCut = 0.3
	// directRuleLimit caps the Direct variant's applied-rule records.
	directRuleLimit = 2
)

// Breakdown itemizes a narrative score.
//
// score = 0.4·mean + 0.3·coverage + 0.2·parsimony + 0.1·hypotheticalPenalty
type Breakdown struct {
	MeanConfidence      float64
	Coverage            float64
	Parsimony           float64
	HypotheticalPenalty float64
	Total               float64
}

// Narrative is one immutable candidate explanation: a subset of facts, the
// applied-rule records that justify them, and a derived score.
type Narrative struct {
	ID        int
	Label     string
	Facts     []fact.Fact
	Rules     []fact.AppliedRule
	Score     float64
	Breakdown Breakdown
}

// Generate builds the fixed variant catalogue from the current store
// snapshot, scores each narrative, sorts by descending score (stable, ties
// keep catalogue order) and truncates to maxVariants. No new inference is
// performed.
func Generate(s *fact.Store, maxVariants int) []Narrative {
	if maxVariants <= 0 {
		maxVariants = 5
	}

	facts := s.All()
	applied := s.Applied()
	totalObserved := 0
	for _, f := range facts {
		if f.Origin == fact.Observed {
			totalObserved++
		}
	}

	narratives := []Narrative{
		build(VariantFull, "Full inference chain (all rules applied)",
			facts, applied, totalObserved),

		build(VariantConservative, "Conservative (no hypothetical steps)",
			filterFacts(facts, func(f fact.Fact) bool { return f.Origin != fact.Hypothetical }),
			applied, totalObserved),

		build(VariantHighConfidence, "High-confidence only (conf > 0.5)",
			filterFacts(facts, func(f fact.Fact) bool { return f.Confidence > highConfidenceCut }),
			filterRules(applied, func(r fact.AppliedRule) bool { return r.Base > highConfidenceCut }),
			totalObserved),

		build(VariantDirect, "Observed + direct inferences only",
			filterFacts(facts, func(f fact.Fact) bool {
				return f.Origin == fact.Observed ||
					(f.Origin == fact.Inferred && f.Confidence > directCut)
			}),
			head(applied, directRuleLimit), totalObserved),

		build(VariantMinimal, "Minimal (observed evidence only)",
			filterFacts(facts, func(f fact.Fact) bool { return f.Origin == fact.Observed }),
			nil, totalObserved),
	}

	sort.SliceStable(narratives, func(i, j int) bool {
		return narratives[i].Score > narratives[j].Score
	})
	if len(narratives) > maxVariants {
		narratives = narratives[:maxVariants]
	}
	return narratives
}

func build(id int, label string, facts []fact.Fact, applied []fact.AppliedRule, totalObserved int) Narrative {
	n := Narrative{
		ID:    id,
		Label: label,
		Facts: facts,
		Rules: append([]fact.AppliedRule(nil), applied...),
	}
	n.Breakdown = score(n, totalObserved)
	n.Score = n.Breakdown.Total
	return n
}

// score computes the composite quality score. An empty narrative scores zero.
func score(n Narrative, totalObserved int) Breakdown {
	if len(n.Facts) == 0 {
		return Breakdown{}
	}

	sum := 0.0
	observed, hypothetical := 0, 0
	for _, f := range n.Facts {
		sum += f.Confidence
		switch f.Origin {
		case fact.Observed:
			observed++
		case fact.Hypothetical:
			hypothetical++
		}
	}

	b := Breakdown{
		MeanConfidence:      sum / float64(len(n.Facts)),
		Parsimony:           1.0 / (1.0 + 0.1*float64(len(n.Rules))),
		HypotheticalPenalty: math.Pow(0.8, float64(hypothetical)),
	}
	if totalObserved > 0 {
		b.Coverage = float64(observed) / float64(totalObserved)
	}
	b.Total = 0.4*b.MeanConfidence + 0.3*b.Coverage + 0.2*b.Parsimony + 0.1*b.HypotheticalPenalty
	return b
}

func filterFacts(facts []fact.Fact, keep func(fact.Fact) bool) []fact.Fact {
	var out []fact.Fact
	for _, f := range facts {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}

func filterRules(applied []fact.AppliedRule, keep func(fact.AppliedRule) bool) []fact.AppliedRule {
	var out []fact.AppliedRule
	for _, r := range applied {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func head(applied []fact.AppliedRule, n int) []fact.AppliedRule {
	if len(applied) <= n {
		return append([]fact.AppliedRule(nil), applied...)
	}
	return append([]fact.AppliedRule(nil), applied[:n]...)
}
