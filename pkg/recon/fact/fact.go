// Package fact holds the reasoning context for one analysis run: the fact
// store, the negative-evidence index, the ingested log batch, and the ordered
// record of rule firings. A Store is created empty, filled by ingestion and
// inference, and either discarded or explicitly Reset before the next run.
package fact

import (
	"github.com/chainrecon/chainrecon/pkg/recon/event"
)

// Origin says how a fact entered the store.
type Origin string

const (
	// Observed facts come straight from log evidence and carry confidence 1.0.
	Observed Origin = "observed"
	// Inferred facts were derived by a rule firing.
	Inferred Origin = "inferred"
	// Hypothetical facts were synthesized to explain a gap in the evidence.
	Hypothetical Origin = "hypothetical"
)

// Derivation records which rule produced an inferred fact and the penalty
// factors that went into its confidence.
type Derivation struct {
	Rule     string
	TimeGap  float64
	Absence  float64
	Decay    float64
	Negative float64
	// Outcome is empty, "time_gap_exceeded", or "causality_violation".
	Outcome string
}

// Hypothesis explains why a hypothetical fact was needed.
type Hypothesis struct {
	Reason    string
	Mechanism string
}

// Fact is a named proposition about attacker capability. Time is event time
// in Unix seconds, Seq a store-wide monotonic sequence number assigned at
// creation and used for stable output ordering.
//
// Exactly one of Evidence, Derived, Hypothesis is populated, matching Origin.
type Fact struct {
	ID         ID
	Origin     Origin
	Confidence float64
	Time       int64
	Seq        int

	Evidence   []event.Record
	Derived    *Derivation
	Hypothesis *Hypothesis
}

// AppliedRule is one entry of the ordered rule-firing log, the primary attack
// narrative. Seq is the sequence number drawn at firing time. Pre and Post are
// kept so the causal graph can be rebuilt without re-running inference.
type AppliedRule struct {
	Name   string
	Tactic string
	Base   float64
	Seq    int
	Pre    []ID
	Post   []ID
}
