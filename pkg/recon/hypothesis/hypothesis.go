// Package hypothesis implements the abductive missing-step reconstructor. It
// runs strictly after inference, scans observed facts for gaps the rules
// could not bridge, and synthesizes low-confidence hypothetical facts whose
// provenance says why they were needed.
package hypothesis

import (
	"fmt"
	"time"

	"github.com/chainrecon/chainrecon/pkg/recon/fact"
)

// Policy confidences for synthesized facts; both sit below the lowest
// rule-based confidence in the system.
const (
	PrecursorConfidence = 0.3
	LateralConfidence   = 0.25
)

// MechanismUnknown marks a hypothetical fact whose enabling technique is not
// evidenced at all.
const (
	MechanismUnknown           = "unknown"
	MechanismUnknownNoEvidence = "unknown (no evidence found)"
)

// Gap is a reported hole in the attack chain: an observed fact whose required
// precursor is not a current fact.
type Gap struct {
	Missing  fact.ID
	Observed fact.ID
	Reason   string
}

// Reconstructor detects and fills gaps in one store. InitialHost names the
// intrusion entry point; user access there needs no lateral explanation.
type Reconstructor struct {
	store       *fact.Store
	now         func() int64
	initialHost string
}

// New creates a reconstructor. A nil now falls back to wall-clock Unix
// seconds; an empty initial host defaults to "A".
func New(store *fact.Store, now func() int64, initialHost string) *Reconstructor {
	if now == nil {
		now = func() int64 { return time.Now().Unix() }
	}
	if initialHost == "" {
		initialHost = "A"
	}
	return &Reconstructor{store: store, now: now, initialHost: initialHost}
}

// DetectGaps reports observed advanced-access facts that lack their
// prerequisite user access, without synthesizing anything.
func (r *Reconstructor) DetectGaps() []Gap {
	var gaps []Gap
	for _, f := range r.store.ByOrigin(fact.Observed) {
		switch f.ID.Kind {
		case fact.AdminAccess, fact.CredentialDumped:
			user := fact.ID{Kind: fact.UserAccess, Host: f.ID.Host}
			if !r.store.Exists(user) {
				gaps = append(gaps, Gap{
					Missing:  user,
					Observed: f.ID,
					Reason:   "advanced access observed without initial access",
				})
			}
		}
	}
	return gaps
}

// InferMissing synthesizes hypothetical facts for two gap patterns and
// returns how many were created.
//
// Precursor gap: observed admin access without user access on the same host.
// Lateral-movement gap: observed user access on a non-initial host without
// both network reachability into it and a prior credential dump anywhere.
//
// Synthesized facts overwrite any existing identifier: hypothesis generation
// is the final word on whether a fact is explained.
func (r *Reconstructor) InferMissing() int {
	type candidate struct {
		id         fact.ID
		confidence float64
		hyp        fact.Hypothesis
	}

	var candidates []candidate
	seen := make(map[fact.ID]struct{})
	add := func(c candidate) {
		if _, dup := seen[c.id]; dup {
			return
		}
		seen[c.id] = struct{}{}
		candidates = append(candidates, c)
	}

	all := r.store.All()
	for _, f := range r.store.ByOrigin(fact.Observed) {
		switch f.ID.Kind {
		case fact.AdminAccess:
			user := fact.ID{Kind: fact.UserAccess, Host: f.ID.Host}
			if !r.store.Exists(user) {
				add(candidate{
					id:         user,
					confidence: PrecursorConfidence,
					hyp: fact.Hypothesis{
						Reason:    fmt.Sprintf("required for observed %s", f.ID),
						Mechanism: MechanismUnknown,
					},
				})
			}

		case fact.UserAccess:
			if f.ID.Host == r.initialHost {
				continue
			}
			reachable, credentialed := false, false
			for _, g := range all {
				if g.ID.Kind == fact.NetworkAccess && g.ID.Host == f.ID.Host {
					reachable = true
				}
				if g.ID.Kind == fact.CredentialDumped {
					credentialed = true
				}
			}
			if !(reachable && credentialed) {
				add(candidate{
					id:         fact.ID{Kind: fact.LateralMovement, Host: f.ID.Host, Src: "unknown"},
					confidence: LateralConfidence,
					hyp: fact.Hypothesis{
						Reason:    fmt.Sprintf("necessary to explain observed %s", f.ID),
						Mechanism: MechanismUnknownNoEvidence,
					},
				})
			}
		}
	}

	now := r.now()
	for _, c := range candidates {
		r.store.AddHypothetical(c.id, now, c.confidence, c.hyp)
	}
	return len(candidates)
}
