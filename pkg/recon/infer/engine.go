// Package infer implements the forward-chaining rule evaluator. It scans the
// rule set to a fixpoint, firing each rule at most once, and materializes
// postconditions with confidences computed by the confidence model.
package infer

import (
	"time"

	"github.com/chainrecon/chainrecon/pkg/recon/confidence"
	"github.com/chainrecon/chainrecon/pkg/recon/fact"
	"github.com/chainrecon/chainrecon/pkg/recon/rules"
)

// Engine evaluates rules against a fact store. It is the only component that
// writes inferred facts.
type Engine struct {
	store *fact.Store
	model *confidence.Model
	now   func() int64
}

// New creates an engine over the given store and confidence model. A nil now
// falls back to wall-clock Unix seconds; tests and replays inject a
// simulated clock instead.
func New(store *fact.Store, model *confidence.Model, now func() int64) *Engine {
	if model == nil {
		model = confidence.NewModel(nil, 0)
	}
	if now == nil {
		now = func() int64 { return time.Now().Unix() }
	}
	return &Engine{store: store, model: model, now: now}
}

// Run evaluates the rule set to a fixpoint and returns the number of facts
// derived. Termination is guaranteed: the rule set is finite, each rule fires
// at most once, and a pass without progress ends the loop.
func (e *Engine) Run(ruleSet []rules.Rule) int {
	derived := 0
	changed := true
	for changed {
		changed = false

		for i := range ruleSet {
			r := &ruleSet[i]
			if e.store.WasApplied(r.Name) {
				continue
			}

			latestPre, ok := e.latestPreconditionTime(r)
			if !ok {
				continue
			}

			firing := latestPre
			if now := e.now(); now > firing {
				firing = now
			}

			derived += e.fire(r, latestPre, firing)
			changed = true
		}
	}
	return derived
}

// latestPreconditionTime checks the full precondition set against current
// facts and returns the latest precondition timestamp. A missing
// precondition means the rule does not fire this pass; that is not an error.
func (e *Engine) latestPreconditionTime(r *rules.Rule) (int64, bool) {
	if len(r.Pre) == 0 {
		return 0, false
	}
	var latest int64
	for i, pre := range r.Pre {
		f, ok := e.store.Get(pre)
		if !ok {
			return 0, false
		}
		if i == 0 || f.Time > latest {
			latest = f.Time
		}
	}
	return latest, true
}

// fire materializes the rule's postconditions and records the firing. It
// returns the number of new facts.
func (e *Engine) fire(r *rules.Rule, latestPre, firing int64) int {
	firingSeq := e.store.NextSeq()

	parents := make([]float64, len(r.Pre))
	for i, pre := range r.Pre {
		parents[i] = e.store.Confidence(pre)
	}
	logs := e.store.Logs()

	derived := 0
	for _, post := range r.Post {
		if existing, ok := e.store.Get(post); ok {
			// Evidence shows the effect before its cause: a causality
			// violation. The fact is suppressed to near-zero confidence
			// and never re-materialized.
			if existing.Time < latestPre {
				e.store.SetConfidence(post, confidence.ViolationConfidence)
			}
			continue
		}

		gap := firing - latestPre
		timeGap, outcome := confidence.TimeGap(gap, r.MaxTimeGap)
		if outcome == confidence.OutcomeCausalityViolation {
			continue
		}
		absence := e.model.Absence(post, logs)
		decay := e.model.Decay(firing, e.now())
		negative := confidence.Negative(e.store.NegativeCount(post))

		conf := confidence.Compose(r.Base, parents, timeGap, absence, decay, negative)

		e.store.AddInferred(post, firing, conf, fact.Derivation{
			Rule:     r.Name,
			TimeGap:  timeGap,
			Absence:  absence,
			Decay:    decay,
			Negative: negative,
			Outcome:  string(outcome),
		})
		derived++
	}

	e.store.MarkApplied(fact.AppliedRule{
		Name:   r.Name,
		Tactic: r.Tactic,
		Base:   r.Base,
		Seq:    firingSeq,
		Pre:    append([]fact.ID(nil), r.Pre...),
		Post:   append([]fact.ID(nil), r.Post...),
	})
	return derived
}
