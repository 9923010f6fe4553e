// Package rules defines the declarative causal rules the inference engine
// evaluates. Rules are immutable, loaded once per run, and fire at most once:
// preconditions are closed sets of concrete fact identifiers, so firing is
// keyed by rule name alone.
package rules

import (
	"github.com/chainrecon/chainrecon/pkg/recon/fact"
)

// Common tactic labels. The tactic is free-form classification used for
// display, never for reasoning.
const (
	TacticPrivilegeEscalation = "Privilege Escalation"
	TacticCredentialAccess    = "Credential Access"
	TacticLateralMovement     = "Lateral Movement"
)

// Rule maps a precondition set (AND semantics, no negation) to a
// postcondition set with a base confidence. MaxTimeGap, when set, bounds the
// permissible gap in seconds between the latest satisfied precondition and
// the rule firing; nil means no temporal budget. A zero budget means any
// positive gap exceeds it immediately.
type Rule struct {
	Name       string
	Pre        []fact.ID
	Post       []fact.ID
	Base       float64
	Tactic     string
	MaxTimeGap *int64
}

// MaxGap is a convenience for building rule literals with a temporal budget.
func MaxGap(seconds int64) *int64 { return &seconds }

// DefaultRuleSet is the built-in two-host lateral movement chain: escalate on
// the entry host, dump credentials, move laterally, escalate again.
func DefaultRuleSet() []Rule {
	return []Rule{
		{
			Name:   "Privilege Escalation on A",
			Pre:    []fact.ID{{Kind: fact.UserAccess, Host: "A"}},
			Post:   []fact.ID{{Kind: fact.AdminAccess, Host: "A"}},
			Base:   0.7,
			Tactic: TacticPrivilegeEscalation,
		},
		{
			Name:   "Credential Dumping on A",
			Pre:    []fact.ID{{Kind: fact.AdminAccess, Host: "A"}},
			Post:   []fact.ID{{Kind: fact.CredentialDumped, Host: "A"}},
			Base:   0.8,
			Tactic: TacticCredentialAccess,
		},
		{
			Name: "Lateral Movement A_to_B",
			Pre: []fact.ID{
				{Kind: fact.CredentialDumped, Host: "A"},
				{Kind: fact.NetworkAccess, Host: "B", Src: "A"},
			},
			Post:   []fact.ID{{Kind: fact.UserAccess, Host: "B"}},
			Base:   0.6,
			Tactic: TacticLateralMovement,
		},
		{
			Name:   "Privilege Escalation on B",
			Pre:    []fact.ID{{Kind: fact.UserAccess, Host: "B"}},
			Post:   []fact.ID{{Kind: fact.AdminAccess, Host: "B"}},
			Base:   0.7,
			Tactic: TacticPrivilegeEscalation,
		},
	}
}

// VulnGatedRuleSet is the stricter variant of the default chain: the
// escalation and lateral-movement steps additionally require a matching
// vulnerability marker, so the chain only advances onto hosts known to be
// exploitable. Credential dumping stays ungated; admin access alone is
// considered enough to dump.
func VulnGatedRuleSet() []Rule {
	return []Rule{
		{
			Name: "Privilege Escalation on A",
			Pre: []fact.ID{
				{Kind: fact.UserAccess, Host: "A"},
				{Kind: fact.VulnPrivesc, Host: "A"},
			},
			Post:   []fact.ID{{Kind: fact.AdminAccess, Host: "A"}},
			Base:   0.7,
			Tactic: TacticPrivilegeEscalation,
		},
		{
			Name:   "Credential Dumping on A",
			Pre:    []fact.ID{{Kind: fact.AdminAccess, Host: "A"}},
			Post:   []fact.ID{{Kind: fact.CredentialDumped, Host: "A"}},
			Base:   0.8,
			Tactic: TacticCredentialAccess,
		},
		{
			Name: "Lateral Movement A_to_B",
			Pre: []fact.ID{
				{Kind: fact.CredentialDumped, Host: "A"},
				{Kind: fact.NetworkAccess, Host: "B", Src: "A"},
				{Kind: fact.VulnLateral, Host: "B"},
			},
			Post:   []fact.ID{{Kind: fact.UserAccess, Host: "B"}},
			Base:   0.6,
			Tactic: TacticLateralMovement,
		},
		{
			Name: "Privilege Escalation on B",
			Pre: []fact.ID{
				{Kind: fact.UserAccess, Host: "B"},
				{Kind: fact.VulnPrivesc, Host: "B"},
			},
			Post:   []fact.ID{{Kind: fact.AdminAccess, Host: "B"}},
			Base:   0.7,
			Tactic: TacticPrivilegeEscalation,
		},
	}
}
