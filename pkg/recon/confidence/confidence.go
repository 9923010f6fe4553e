// Package confidence implements the multi-factor confidence model shared by
// the inference engine and the narrative ranker.
//
// confidence = min(base, min(parent confidences))
//              × timeGap × absence × decay × negative
//
// Every factor is pure, total over its domain, and individually bounded to
// [0,1]; out-of-range inputs take explicit branches instead of propagating
// errors. Floors apply per factor, not to the product.
package confidence

import (
	"math"

	"github.com/chainrecon/chainrecon/pkg/recon/event"
	"github.com/chainrecon/chainrecon/pkg/recon/fact"
)

// Outcome classifies the temporal relationship between a rule's preconditions
// and its firing time.
type Outcome string

const (
	OutcomeOK                 Outcome = ""
	OutcomeGapExceeded        Outcome = "time_gap_exceeded"
	OutcomeCausalityViolation Outcome = "causality_violation"
)

// Policy values of the model.
const (
	// ViolationConfidence is assigned to a postcondition whose observed
	// evidence predates its cause. The fact is suppressed, not removed.
	ViolationConfidence = 0.01

	// DefaultHalfLife is the age-decay half-life in seconds.
	DefaultHalfLife int64 = 3600

	withinGapFloor = 0.7
	exceededFloor  = 0.1
	absencePenalty = 0.5
	decayFloor     = 0.3
	negativeBase   = 0.8
)

// TimeGap computes the temporal penalty for a firing gap in seconds. maxGap
// nil means the rule declares no temporal budget. The returned factor is in
// [0,1]; a negative gap is a causality violation and yields 0.
func TimeGap(gap int64, maxGap *int64) (float64, Outcome) {
	if gap < 0 {
		return 0.0, OutcomeCausalityViolation
	}
	if maxGap == nil {
		return 1.0, OutcomeOK
	}
	budget := *maxGap
	if budget == 0 {
		// Guard against division by zero: a zero budget tolerates no gap
		// at all, so any positive gap exceeds it immediately.
		if gap == 0 {
			return 1.0, OutcomeOK
		}
		return exceededFloor, OutcomeGapExceeded
	}
	if gap > budget {
		excess := float64(gap-budget) / float64(budget)
		return math.Max(math.Pow(0.5, excess), exceededFloor), OutcomeGapExceeded
	}
	penalty := 1.0 - 0.3*float64(gap)/float64(budget)
	return math.Max(penalty, withinGapFloor), OutcomeOK
}

// Negative discounts a fact by the number of logs contradicting it.
func Negative(contradictions int) float64 {
	if contradictions <= 0 {
		return 1.0
	}
	return math.Pow(negativeBase, float64(contradictions))
}

// Compose combines the base confidence, the parent confidences, and the four
// penalty factors into the final confidence.
func Compose(base float64, parents []float64, timeGap, absence, decay, negative float64) float64 {
	conf := base
	for _, p := range parents {
		if p < conf {
			conf = p
		}
	}
	return conf * timeGap * absence * decay * negative
}

// Model carries the run-scoped parameters of the confidence computation: the
// expected-evidence registry for absence checks and the decay half-life.
type Model struct {
	expected map[fact.Kind][]string
	halfLife int64
}

// NewModel builds a model. A nil registry falls back to
// DefaultExpectedEvidence; a non-positive half-life to DefaultHalfLife.
func NewModel(expected map[fact.Kind][]string, halfLife int64) *Model {
	if expected == nil {
		expected = DefaultExpectedEvidence()
	}
	if halfLife <= 0 {
		halfLife = DefaultHalfLife
	}
	return &Model{expected: expected, halfLife: halfLife}
}

// DefaultExpectedEvidence maps derived fact kinds to the log types that
// should corroborate them on the same host.
func DefaultExpectedEvidence() map[fact.Kind][]string {
	return map[fact.Kind][]string{
		fact.CredentialDumped: {event.TypeLSASSAccess, event.TypeProcDump},
		fact.AdminAccess:      {event.TypeSudo, event.TypePrivEsc},
		fact.NetworkAccess:    {event.TypeSMBSession, event.TypeRDPSession},
	}
}

// Absence returns 0.5 when the identifier's kind expects corroborating log
// types and none was observed for its host in the ingested batch, 1.0
// otherwise. Kinds without a registry entry are never penalized.
func (m *Model) Absence(id fact.ID, logs []event.Record) float64 {
	expected, ok := m.expected[id.Kind]
	if !ok {
		return 1.0
	}
	for _, rec := range logs {
		if rec.Host != id.Host {
			continue
		}
		for _, et := range expected {
			if rec.EventType == et {
				return 1.0
			}
		}
	}
	return absencePenalty
}

// Decay applies exponential half-life decay to the fact time's age relative
// to now, floored at 0.3. A fact not yet aged (now <= t) decays nothing.
func (m *Model) Decay(t, now int64) float64 {
	age := now - t
	if age <= 0 {
		return 1.0
	}
	d := math.Pow(0.5, float64(age)/float64(m.halfLife))
	return math.Max(d, decayFloor)
}
