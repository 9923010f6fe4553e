package signal

import (
	"testing"

	"github.com/chainrecon/chainrecon/pkg/recon/event"
	"github.com/chainrecon/chainrecon/pkg/recon/fact"
)

func TestExtractPositive(t *testing.T) {
	cases := []struct {
		rec  event.Record
		want []fact.ID
	}{
		{
			event.Record{EventType: event.TypeLogin, Host: "A", Privilege: "user", Timestamp: 100},
			[]fact.ID{{Kind: fact.UserAccess, Host: "A"}},
		},
		{
			// Admin logins are not user-access signals.
			event.Record{EventType: event.TypeLogin, Host: "A", Privilege: "admin", Timestamp: 100},
			nil,
		},
		{
			event.Record{EventType: event.TypeSudo, Host: "B", Timestamp: 100},
			[]fact.ID{{Kind: fact.AdminAccess, Host: "B"}},
		},
		{
			event.Record{EventType: event.TypeLSASSAccess, Host: "A", Timestamp: 100},
			[]fact.ID{{Kind: fact.CredentialDumped, Host: "A"}},
		},
		{
			event.Record{EventType: event.TypeSMBSession, Src: "A", Dst: "B", Timestamp: 100},
			[]fact.ID{{Kind: fact.NetworkAccess, Host: "B", Src: "A"}},
		},
		{
			// Unknown event types contribute nothing, and must not panic.
			event.Record{EventType: "dns_query", Host: "A", Timestamp: 100},
			nil,
		},
	}

	for _, c := range cases {
		got := Extract(c.rec)
		if len(got) != len(c.want) {
			t.Errorf("Extract(%s): got %d signals, want %d", c.rec.EventType, len(got), len(c.want))
			continue
		}
		for i := range got {
			if got[i].ID != c.want[i] {
				t.Errorf("Extract(%s): got %s, want %s", c.rec.EventType, got[i].ID, c.want[i])
			}
			if got[i].Time != c.rec.Timestamp {
				t.Errorf("Extract(%s): signal time %d, want record time %d", c.rec.EventType, got[i].Time, c.rec.Timestamp)
			}
		}
	}
}

func TestExtractNegative(t *testing.T) {
	logout := ExtractNegative(event.Record{EventType: event.TypeLogout, Host: "A"})
	if len(logout) != 2 {
		t.Fatalf("logout should contradict user and admin access, got %v", logout)
	}
	if logout[0] != (fact.ID{Kind: fact.UserAccess, Host: "A"}) ||
		logout[1] != (fact.ID{Kind: fact.AdminAccess, Host: "A"}) {
		t.Errorf("logout contradictions wrong: %v", logout)
	}

	failed := ExtractNegative(event.Record{EventType: event.TypeLoginFailed, Host: "B"})
	if len(failed) != 1 || failed[0] != (fact.ID{Kind: fact.UserAccess, Host: "B"}) {
		t.Errorf("login_failed contradictions wrong: %v", failed)
	}

	edr := ExtractNegative(event.Record{EventType: event.TypeEDRBlock, Host: "A"})
	if len(edr) != 1 || edr[0] != (fact.ID{Kind: fact.CredentialDumped, Host: "A"}) {
		t.Errorf("edr_block contradictions wrong: %v", edr)
	}

	fw := ExtractNegative(event.Record{EventType: event.TypeFirewallBlock, Src: "A", Dst: "B"})
	if len(fw) != 1 || fw[0] != (fact.ID{Kind: fact.NetworkAccess, Host: "B", Src: "A"}) {
		t.Errorf("firewall_block contradictions wrong: %v", fw)
	}

	if got := ExtractNegative(event.Record{EventType: "dns_query"}); len(got) != 0 {
		t.Errorf("unknown type should contradict nothing, got %v", got)
	}
}
