// Package recon reconstructs plausible attack narratives from batches of
// discrete security events. The Analyzer is the explicit reasoning context:
// it owns the fact store, the rule set, and the confidence model, and runs
// the pipeline ingest → inference → missing-step reconstruction → competing
// narratives over one event batch at a time.
package recon

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/chainrecon/chainrecon/pkg/recon/confidence"
	"github.com/chainrecon/chainrecon/pkg/recon/event"
	"github.com/chainrecon/chainrecon/pkg/recon/fact"
	"github.com/chainrecon/chainrecon/pkg/recon/graph"
	"github.com/chainrecon/chainrecon/pkg/recon/hypothesis"
	"github.com/chainrecon/chainrecon/pkg/recon/infer"
	"github.com/chainrecon/chainrecon/pkg/recon/narrative"
	"github.com/chainrecon/chainrecon/pkg/recon/rules"
	"github.com/chainrecon/chainrecon/pkg/recon/signal"
)

// Options configures an Analyzer. Zero values select the built-in rule set,
// the default expected-evidence registry, a one-hour decay half-life, entry
// host "A", wall-clock time, and five narrative variants.
type Options struct {
	Rules       []rules.Rule
	Expected    map[fact.Kind][]string
	HalfLife    int64
	InitialHost string
	Now         func() int64
	MaxVariants int
}

// Analyzer is the reasoning context for attack narrative reconstruction.
// It is not safe for concurrent runs; callers sharing one Analyzer must
// serialize externally.
type Analyzer struct {
	runID       string
	store       *fact.Store
	model       *confidence.Model
	ruleSet     []rules.Rule
	now         func() int64
	initialHost string
	maxVariants int
	entropy     *ulid.MonotonicEntropy
}

// New creates an Analyzer with an empty fact store and a fresh run id.
func New(opts Options) *Analyzer {
	if opts.Rules == nil {
		opts.Rules = rules.DefaultRuleSet()
	}
	if opts.Now == nil {
		opts.Now = func() int64 { return time.Now().Unix() }
	}
	if opts.InitialHost == "" {
		opts.InitialHost = "A"
	}
	if opts.MaxVariants <= 0 {
		opts.MaxVariants = 5
	}

	a := &Analyzer{
		store:       fact.NewStore(),
		model:       confidence.NewModel(opts.Expected, opts.HalfLife),
		ruleSet:     opts.Rules,
		now:         opts.Now,
		initialHost: opts.InitialHost,
		maxVariants: opts.MaxVariants,
		entropy:     ulid.Monotonic(rand.Reader, 0),
	}
	a.runID = a.newRunID()
	return a
}

func (a *Analyzer) newRunID() string {
	return ulid.MustNew(ulid.Now(), a.entropy).String()
}

// RunID identifies the current run; Reset mints a new one.
func (a *Analyzer) RunID() string { return a.runID }

// Store exposes the fact store for read-only traversal by explanation and
// visualization adapters.
func (a *Analyzer) Store() *fact.Store { return a.store }

// Ingest applies one batch of log records: each record is remembered for
// absence-of-evidence checks, its negative signals are indexed, and its
// positive signals become observed facts with confidence 1.0. Records with
// unknown event types contribute nothing.
func (a *Analyzer) Ingest(batch []event.Record) {
	for _, rec := range batch {
		a.store.RecordLog(rec)

		for _, id := range signal.ExtractNegative(rec) {
			a.store.AddNegativeEvidence(id, rec)
		}
		for _, sig := range signal.Extract(rec) {
			a.store.AddObserved(sig.ID, sig.Time, rec)
		}
	}
}

// Infer evaluates the rule set to a fixpoint and returns the number of facts
// derived.
func (a *Analyzer) Infer() int {
	return infer.New(a.store, a.model, a.now).Run(a.ruleSet)
}

// DetectGaps reports evidence gaps without synthesizing facts.
func (a *Analyzer) DetectGaps() []hypothesis.Gap {
	return hypothesis.New(a.store, a.now, a.initialHost).DetectGaps()
}

// ReconstructMissing synthesizes hypothetical facts for unexplained observed
// evidence and returns how many were created. Call after Infer.
func (a *Analyzer) ReconstructMissing() int {
	return hypothesis.New(a.store, a.now, a.initialHost).InferMissing()
}

// Narratives builds, scores, and ranks the competing-narrative catalogue
// from the current fact store snapshot.
func (a *Analyzer) Narratives() []narrative.Narrative {
	return narrative.Generate(a.store, a.maxVariants)
}

// Graph rebuilds the derived causal graph for external renderers.
func (a *Analyzer) Graph() *graph.Graph {
	return graph.Build(a.store)
}

// Reset replaces all run state and mints a new run id. Narratives generated
// before the reset remain valid.
func (a *Analyzer) Reset() {
	a.store.Reset()
	a.runID = a.newRunID()
}
