package fact

import (
	"fmt"
	"strings"

	"github.com/chainrecon/chainrecon/pkg/recon/internalerr"
)

// Kind classifies what capability a fact asserts. The set is open so rule
// authors can introduce their own kinds (vulnerability markers, for example).
type Kind string

const (
	UserAccess       Kind = "user_access"
	AdminAccess      Kind = "admin_access"
	CredentialDumped Kind = "credential_dumped"
	NetworkAccess    Kind = "network_access"
	LateralMovement  Kind = "lateral_movement"
	VulnPrivesc      Kind = "vuln_privesc"
	VulnLateral      Kind = "vuln_lateral"
)

// ID is a structured fact identifier. Host is the target of the asserted
// capability. Src is set only for reachability-style kinds (network access,
// lateral movement) and names where the capability originates.
//
// IDs are comparable values; two facts are the same proposition exactly when
// their IDs are equal.
type ID struct {
	Kind Kind
	Host string
	Src  string
}

// String renders the identifier in its wire spelling: "kind:host" or
// "kind:src_to_host" when a source is present.
func (id ID) String() string {
	if id.Src != "" {
		return string(id.Kind) + ":" + id.Src + "_to_" + id.Host
	}
	return string(id.Kind) + ":" + id.Host
}

// Parse converts a wire spelling back into a structured identifier.
// Accepted forms: "kind:host" and "kind:src_to_host".
func Parse(s string) (ID, error) {
	kind, rest, ok := strings.Cut(s, ":")
	if !ok || kind == "" || rest == "" {
		return ID{}, fmt.Errorf("%w: fact identifier %q", internalerr.ErrInvalidInput, s)
	}
	if src, dst, found := strings.Cut(rest, "_to_"); found {
		if src == "" || dst == "" {
			return ID{}, fmt.Errorf("%w: fact identifier %q", internalerr.ErrInvalidInput, s)
		}
		return ID{Kind: Kind(kind), Host: dst, Src: src}, nil
	}
	return ID{Kind: Kind(kind), Host: rest}, nil
}
