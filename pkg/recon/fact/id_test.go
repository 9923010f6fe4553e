package fact

import (
	"errors"
	"testing"

	"github.com/chainrecon/chainrecon/pkg/recon/internalerr"
)

func TestIDString(t *testing.T) {
	cases := []struct {
		id   ID
		want string
	}{
		{ID{Kind: UserAccess, Host: "A"}, "user_access:A"},
		{ID{Kind: AdminAccess, Host: "web-01"}, "admin_access:web-01"},
		{ID{Kind: NetworkAccess, Host: "B", Src: "A"}, "network_access:A_to_B"},
		{ID{Kind: LateralMovement, Host: "B", Src: "unknown"}, "lateral_movement:unknown_to_B"},
	}
	for _, c := range cases {
		if got := c.id.String(); got != c.want {
			t.Errorf("String(%+v) = %q, want %q", c.id, got, c.want)
		}
	}
}

func TestParseRoundTrip(t *testing.T) {
	inputs := []string{
		"user_access:A",
		"credential_dumped:db-02",
		"network_access:A_to_B",
		"lateral_movement:unknown_to_C",
		"vuln_privesc:B",
	}
	for _, in := range inputs {
		id, err := Parse(in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", in, err)
		}
		if got := id.String(); got != in {
			t.Errorf("round trip %q -> %q", in, got)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	for _, in := range []string{"", "user_access", ":A", "user_access:", "network_access:_to_B"} {
		if _, err := Parse(in); err == nil {
			t.Errorf("Parse(%q) should fail", in)
		} else if !errors.Is(err, internalerr.ErrInvalidInput) {
			t.Errorf("Parse(%q) error should wrap ErrInvalidInput, got %v", in, err)
		}
	}
}
