// Package render writes human-readable reports of a run: the ordered attack
// narrative, per-origin confidence listings with factor annotations, and the
// competing-narrative comparison. It only reads the fact store.
package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/chainrecon/chainrecon/pkg/recon/fact"
	"github.com/chainrecon/chainrecon/pkg/recon/narrative"
)

// WriteNarrative prints the applied-rule sequence and the confidence scores
// of all current facts, grouped by origin.
func WriteNarrative(w io.Writer, s *fact.Store) {
	fmt.Fprintln(w, titleStyle.Render("Reconstructed Attack Narrative"))
	fmt.Fprintln(w)
	for _, step := range s.Applied() {
		fmt.Fprintf(w, "[%d] %s %s\n",
			step.Seq,
			ruleStyle.Render(step.Name),
			mutedStyle.Render(fmt.Sprintf("(tactic: %s, confidence: %.2f)", step.Tactic, step.Base)))
	}
	if len(s.Applied()) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("(no rules fired)"))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, titleStyle.Render("Fact Confidence Scores"))

	writeOriginSection(w, "Observed (from logs)", observedStyle, s.ByOrigin(fact.Observed))
	writeOriginSection(w, "Inferred (via rules)", inferredStyle, s.ByOrigin(fact.Inferred))

	hypothetical := s.ByOrigin(fact.Hypothetical)
	if len(hypothetical) > 0 {
		fmt.Fprintf(w, "\n%s\n", hypotheticalStyle.Render("Hypothetical (missing-step inference)"))
		sortByConfidence(hypothetical)
		for _, f := range hypothetical {
			fmt.Fprintf(w, "  %s: %.2f\n", hypotheticalStyle.Render(f.ID.String()), f.Confidence)
			if f.Hypothesis != nil {
				fmt.Fprintf(w, "    reason: %s\n", f.Hypothesis.Reason)
				fmt.Fprintf(w, "    mechanism: %s\n", f.Hypothesis.Mechanism)
			}
		}
	}
}

func writeOriginSection(w io.Writer, heading string, style interface{ Render(...string) string }, facts []fact.Fact) {
	if len(facts) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s:\n", heading)
	sortByConfidence(facts)
	for _, f := range facts {
		annotation := factorAnnotation(f)
		if annotation != "" {
			annotation = " " + mutedStyle.Render("["+annotation+"]")
		}
		fmt.Fprintf(w, "  %s: %.2f%s\n", style.Render(f.ID.String()), f.Confidence, annotation)
	}
}

// factorAnnotation names the penalties that moved an inferred fact's
// confidence below its base.
func factorAnnotation(f fact.Fact) string {
	d := f.Derived
	if d == nil {
		return ""
	}
	var parts []string
	switch d.Outcome {
	case "causality_violation":
		parts = append(parts, "CAUSALITY VIOLATION")
	case "time_gap_exceeded":
		parts = append(parts, fmt.Sprintf("time gap exceeded: %.2f", d.TimeGap))
	default:
		if d.TimeGap < 1.0 {
			parts = append(parts, fmt.Sprintf("temporal penalty: %.2f", d.TimeGap))
		}
	}
	if d.Absence < 1.0 {
		parts = append(parts, fmt.Sprintf("missing evidence: %.2f", d.Absence))
	}
	if d.Decay < 1.0 {
		parts = append(parts, fmt.Sprintf("time decay: %.2f", d.Decay))
	}
	if d.Negative < 1.0 {
		parts = append(parts, fmt.Sprintf("contradicted: %.2f", d.Negative))
	}
	return strings.Join(parts, ", ")
}

// WriteNarratives prints the top competing narratives, their comparison, and
// the recommendation.
func WriteNarratives(w io.Writer, narratives []narrative.Narrative, topN int) {
	if topN <= 0 || topN > len(narratives) {
		topN = len(narratives)
	}
	top := narratives[:topN]

	fmt.Fprintln(w, titleStyle.Render("Competing Attack Narratives"))
	for _, n := range top {
		fmt.Fprintf(w, "\n#%d %s %s\n", n.ID,
			scoreStyle.Render(fmt.Sprintf("score=%.3f", n.Score)),
			mutedStyle.Render(n.Label))
		fmt.Fprintf(w, "  %s\n", summarize(n))
		for _, r := range n.Rules {
			fmt.Fprintf(w, "  -> %s (tactic: %s)\n", ruleStyle.Render(r.Name), r.Tactic)
		}
	}

	if len(top) > 1 {
		cmp := narrative.Compare(top)
		fmt.Fprintf(w, "\n%s\n", titleStyle.Render("Narrative Comparison"))
		fmt.Fprintf(w, "shared by all (%d):\n", len(cmp.Shared))
		for _, id := range cmp.Shared {
			fmt.Fprintf(w, "  %s\n", id)
		}
		for _, n := range top {
			unique := cmp.Unique[n.ID]
			if len(unique) == 0 {
				fmt.Fprintf(w, "unique to #%d: %s\n", n.ID, mutedStyle.Render("(none)"))
				continue
			}
			names := make([]string, len(unique))
			for i, id := range unique {
				names[i] = id.String()
			}
			fmt.Fprintf(w, "unique to #%d: %s\n", n.ID, strings.Join(names, ", "))
		}
	}

	if len(top) > 0 {
		best := top[0]
		fmt.Fprintf(w, "\n%s\n", titleStyle.Render("Recommendation"))
		fmt.Fprintf(w, "best narrative: #%d (score %.3f): %s\n", best.ID, best.Score, best.Label)
	}
}

func summarize(n narrative.Narrative) string {
	observed, inferred, hypothetical := 0, 0, 0
	for _, f := range n.Facts {
		switch f.Origin {
		case fact.Observed:
			observed++
		case fact.Inferred:
			inferred++
		case fact.Hypothetical:
			hypothetical++
		}
	}
	return fmt.Sprintf("%d steps, %d observed, %d inferred, %d hypothetical, avg_conf=%.2f",
		len(n.Rules), observed, inferred, hypothetical, n.Breakdown.MeanConfidence)
}

func sortByConfidence(facts []fact.Fact) {
	sort.SliceStable(facts, func(i, j int) bool {
		return facts[i].Confidence > facts[j].Confidence
	})
}
