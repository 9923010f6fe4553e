package recon

import (
	"strings"
	"testing"

	"github.com/chainrecon/chainrecon/pkg/recon/event"
	"github.com/chainrecon/chainrecon/pkg/recon/fact"
	"github.com/chainrecon/chainrecon/pkg/recon/rules"
)

const t0 int64 = 1_700_000_000

// canonicalBatch is the two-host intrusion used throughout: entry on A,
// privilege escalation and credential theft there, then a hop to B.
func canonicalBatch() []event.Record {
	return []event.Record{
		{EventType: event.TypeLogin, Timestamp: t0, Host: "A", User: "alice", Privilege: "user"},
		{EventType: event.TypeSMBSession, Timestamp: t0 + 300, Src: "A", Dst: "B"},
		{EventType: event.TypeSudo, Timestamp: t0 + 600, Host: "A", User: "alice"},
		{EventType: event.TypeLSASSAccess, Timestamp: t0 + 900, Host: "A"},
	}
}

func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	return New(Options{Now: func() int64 { return t0 + 900 }})
}

func TestPipeline(t *testing.T) {
	a := newTestAnalyzer(t)
	a.Ingest(canonicalBatch())

	if n := a.Store().CountByOrigin(fact.Observed); n != 4 {
		t.Fatalf("observed facts = %d, want 4", n)
	}

	if derived := a.Infer(); derived != 2 {
		t.Errorf("derived = %d, want 2", derived)
	}
	if synthesized := a.ReconstructMissing(); synthesized != 0 {
		t.Errorf("fully explained chain synthesized %d hypotheses", synthesized)
	}

	userB, ok := a.Store().Get(fact.ID{Kind: fact.UserAccess, Host: "B"})
	if !ok || userB.Origin != fact.Inferred {
		t.Fatalf("user_access:B = %+v", userB)
	}
	if userB.Confidence != 0.6 {
		t.Errorf("user_access:B confidence = %v, want 0.6", userB.Confidence)
	}

	ns := a.Narratives()
	if len(ns) != 5 {
		t.Fatalf("narratives = %d, want 5", len(ns))
	}
	if ns[0].Score <= 0 || ns[0].Score > 1 {
		t.Errorf("top score %v outside (0,1]", ns[0].Score)
	}

	g := a.Graph()
	if n := len(g.Nodes()); n != 10 {
		t.Errorf("graph nodes = %d, want 6 facts + 4 rule firings", n)
	}
}

func TestUnknownEventsIgnored(t *testing.T) {
	a := newTestAnalyzer(t)
	a.Ingest([]event.Record{
		{EventType: "dns_query", Timestamp: t0, Host: "A"},
		{EventType: event.TypeLogin, Timestamp: t0, Host: "A", Privilege: "admin"},
	})
	if n := a.Store().CountByOrigin(fact.Observed); n != 0 {
		t.Errorf("unmapped events produced %d facts", n)
	}
	if logs := a.Store().Logs(); len(logs) != 2 {
		t.Errorf("all records should be retained for absence checks, got %d", len(logs))
	}
}

func TestMissingStepReconstruction(t *testing.T) {
	// Only a sudo event: the precursor login is absent and the gap report and
	// the synthesized fact must both say so.
	a := newTestAnalyzer(t)
	a.Ingest([]event.Record{
		{EventType: event.TypeSudo, Timestamp: t0, Host: "A", User: "alice"},
	})
	a.Infer()

	gaps := a.DetectGaps()
	if len(gaps) != 1 {
		t.Fatalf("gaps = %d, want 1", len(gaps))
	}

	if synthesized := a.ReconstructMissing(); synthesized != 1 {
		t.Fatalf("synthesized = %d, want 1", synthesized)
	}
	user, ok := a.Store().Get(fact.ID{Kind: fact.UserAccess, Host: "A"})
	if !ok || user.Origin != fact.Hypothetical {
		t.Fatalf("user_access:A = %+v", user)
	}
	if user.Hypothesis == nil || !strings.Contains(user.Hypothesis.Reason, "admin_access:A") {
		t.Errorf("hypothesis provenance: %+v", user.Hypothesis)
	}
}

func TestVulnGatedRules(t *testing.T) {
	a := New(Options{
		Rules: rules.VulnGatedRuleSet(),
		Now:   func() int64 { return t0 + 900 },
	})
	a.Ingest(canonicalBatch())
	if derived := a.Infer(); derived != 0 {
		t.Errorf("no vulnerability facts asserted, yet %d facts derived", derived)
	}
}

func TestResetMintsNewRun(t *testing.T) {
	a := newTestAnalyzer(t)
	a.Ingest(canonicalBatch())
	a.Infer()
	ns := a.Narratives()

	first := a.RunID()
	if first == "" {
		t.Fatal("empty run id")
	}

	a.Reset()
	if a.RunID() == first {
		t.Error("reset did not mint a new run id")
	}
	if all := a.Store().All(); len(all) != 0 {
		t.Errorf("store not empty after reset: %d facts", len(all))
	}

	// Narratives snapshot the store; the reset must not hollow them out.
	for _, n := range ns {
		if n.Score > 0 && len(n.Facts) == 0 {
			t.Errorf("narrative %q lost its facts after reset", n.Label)
		}
	}

	// A fresh batch on the same analyzer starts numbering from scratch.
	a.Ingest(canonicalBatch())
	all := a.Store().All()
	if len(all) == 0 || all[0].Seq != 1 {
		t.Errorf("sequence numbering did not restart: %+v", all)
	}
}
