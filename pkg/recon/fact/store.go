package fact

import (
	"sort"
	"sync"

	"github.com/chainrecon/chainrecon/pkg/recon/event"
)

// Store owns all mutable reasoning state for one run. Facts are never
// deleted; corrections happen by confidence adjustment only. The store is
// safe for concurrent reads, but a single run is expected to drive it from
// one goroutine (rule-applied-once bookkeeping is not partitioned per run).
type Store struct {
	mu       sync.RWMutex
	facts    map[ID]*Fact
	order    []ID
	logs     []event.Record
	negative map[ID][]event.Record
	applied  []AppliedRule
	fired    map[string]struct{}
	seq      int
}

// NewStore creates an empty store.
func NewStore() *Store {
	s := &Store{}
	s.init()
	return s
}

func (s *Store) init() {
	s.facts = make(map[ID]*Fact)
	s.order = nil
	s.logs = nil
	s.negative = make(map[ID][]event.Record)
	s.applied = nil
	s.fired = make(map[string]struct{})
	s.seq = 0
}

// Reset atomically replaces all internal containers, preparing the store for
// an independent run. Narratives snapshotted earlier remain valid.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.init()
}

// NextSeq returns the next value of the store-wide monotonic counter. Both
// fact creation and rule firings draw from it.
func (s *Store) NextSeq() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextSeqLocked()
}

func (s *Store) nextSeqLocked() int {
	s.seq++
	return s.seq
}

// RecordLog remembers a raw ingested record. The full batch is consulted
// later for absence-of-evidence checks.
func (s *Store) RecordLog(rec event.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, rec)
}

// Logs returns the ingested batch in arrival order.
func (s *Store) Logs() []event.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]event.Record, len(s.logs))
	copy(out, s.logs)
	return out
}

// AddObserved records a fact seen directly in log evidence, with confidence
// 1.0. If the fact already exists the call only accumulates evidence; origin,
// confidence and timestamp are left untouched.
func (s *Store) AddObserved(id ID, ts int64, evidence event.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f, ok := s.facts[id]; ok {
		f.Evidence = append(f.Evidence, evidence)
		return
	}
	f := &Fact{
		ID:         id,
		Origin:     Observed,
		Confidence: 1.0,
		Time:       ts,
		Seq:        s.nextSeqLocked(),
		Evidence:   []event.Record{evidence},
	}
	s.facts[id] = f
	s.order = append(s.order, id)
}

// AddInferred materializes a rule-derived fact. Callers must have checked
// that no fact with this identifier exists; an existing entry is left as is.
func (s *Store) AddInferred(id ID, ts int64, conf float64, d Derivation) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.facts[id]; ok {
		return
	}
	deriv := d
	f := &Fact{
		ID:         id,
		Origin:     Inferred,
		Confidence: conf,
		Time:       ts,
		Seq:        s.nextSeqLocked(),
		Derived:    &deriv,
	}
	s.facts[id] = f
	s.order = append(s.order, id)
}

// AddHypothetical records a synthesized fact. Hypothesis generation runs
// strictly after inference and is the final word on whether an identifier is
// explained, so an existing fact is overwritten with hypothetical origin and
// confidence. The original sequence number is kept for stable ordering.
func (s *Store) AddHypothetical(id ID, ts int64, conf float64, h Hypothesis) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hyp := h
	if f, ok := s.facts[id]; ok {
		f.Origin = Hypothetical
		f.Confidence = conf
		f.Time = ts
		f.Evidence = nil
		f.Derived = nil
		f.Hypothesis = &hyp
		return
	}
	f := &Fact{
		ID:         id,
		Origin:     Hypothetical,
		Confidence: conf,
		Time:       ts,
		Seq:        s.nextSeqLocked(),
		Hypothesis: &hyp,
	}
	s.facts[id] = f
	s.order = append(s.order, id)
}

// AddNegativeEvidence appends a contradicting log to the identifier's
// contradiction list. Negative evidence never removes a fact; it only
// discounts confidence when the fact is derived.
func (s *Store) AddNegativeEvidence(id ID, rec event.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.negative[id] = append(s.negative[id], rec)
}

// NegativeCount returns how many logs contradict the identifier.
func (s *Store) NegativeCount(id ID) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.negative[id])
}

// NegativeEvidence returns the contradicting logs recorded for an identifier.
func (s *Store) NegativeEvidence(id ID) []event.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	recs := s.negative[id]
	out := make([]event.Record, len(recs))
	copy(out, recs)
	return out
}

// Exists reports whether the identifier is a current fact.
func (s *Store) Exists(id ID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.facts[id]
	return ok
}

// Get returns a copy of the fact for the identifier.
func (s *Store) Get(id ID) (Fact, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if f, ok := s.facts[id]; ok {
		return copyFact(f), true
	}
	return Fact{}, false
}

// Confidence returns the identifier's current confidence, 0 if absent.
func (s *Store) Confidence(id ID) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if f, ok := s.facts[id]; ok {
		return f.Confidence
	}
	return 0
}

// SetConfidence adjusts a fact's confidence in place. Used for causality
// clamping; a missing identifier is a no-op.
func (s *Store) SetConfidence(id ID, conf float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.facts[id]; ok {
		f.Confidence = conf
	}
}

// All returns copies of every fact ordered by sequence number.
func (s *Store) All() []Fact {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Fact, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, copyFact(s.facts[id]))
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Seq < out[j].Seq })
	return out
}

// ByOrigin returns copies of the facts with the given origin, ordered by
// sequence number.
func (s *Store) ByOrigin(origin Origin) []Fact {
	all := s.All()
	out := all[:0:0]
	for _, f := range all {
		if f.Origin == origin {
			out = append(out, f)
		}
	}
	return out
}

// CountByOrigin returns how many current facts carry the given origin.
func (s *Store) CountByOrigin(origin Origin) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, f := range s.facts {
		if f.Origin == origin {
			n++
		}
	}
	return n
}

// MarkApplied appends a rule firing to the applied-rule log.
func (s *Store) MarkApplied(r AppliedRule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applied = append(s.applied, r)
	s.fired[r.Name] = struct{}{}
}

// WasApplied reports whether the named rule has already fired this run.
func (s *Store) WasApplied(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.fired[name]
	return ok
}

// Applied returns the rule firings in firing order.
func (s *Store) Applied() []AppliedRule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]AppliedRule, len(s.applied))
	copy(out, s.applied)
	return out
}

func copyFact(f *Fact) Fact {
	out := *f
	if f.Evidence != nil {
		out.Evidence = make([]event.Record, len(f.Evidence))
		copy(out.Evidence, f.Evidence)
	}
	if f.Derived != nil {
		d := *f.Derived
		out.Derived = &d
	}
	if f.Hypothesis != nil {
		h := *f.Hypothesis
		out.Hypothesis = &h
	}
	return out
}
