package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/chainrecon/chainrecon/pkg/recon/fact"
	"github.com/chainrecon/chainrecon/pkg/recon/internalerr"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadRules(t *testing.T) {
	path := writeFile(t, "rules.yaml", `
rules:
  - name: Privilege Escalation on A
    pre: [user_access:A]
    post: [admin_access:A]
    confidence: 0.7
    tactic: privilege-escalation
  - name: Lateral Movement A_to_B
    pre: [credential_dumped:A, network_access:A_to_B]
    post: [user_access:B]
    confidence: 0.6
    tactic: lateral-movement
    max_time_gap: 3600
`)

	loaded, err := LoadRules(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 2 {
		t.Fatalf("want 2 rules, got %d", len(loaded))
	}

	pe := loaded[0]
	if pe.Name != "Privilege Escalation on A" || pe.Base != 0.7 {
		t.Errorf("first rule: %+v", pe)
	}
	if len(pe.Pre) != 1 || pe.Pre[0] != (fact.ID{Kind: fact.UserAccess, Host: "A"}) {
		t.Errorf("preconditions: %v", pe.Pre)
	}
	if pe.MaxTimeGap != nil {
		t.Error("first rule should have no time budget")
	}

	lat := loaded[1]
	if len(lat.Pre) != 2 || lat.Pre[1] != (fact.ID{Kind: fact.NetworkAccess, Host: "B", Src: "A"}) {
		t.Errorf("lateral preconditions: %v", lat.Pre)
	}
	if lat.MaxTimeGap == nil || *lat.MaxTimeGap != 3600 {
		t.Errorf("lateral time budget: %v", lat.MaxTimeGap)
	}
}

func TestLoadRulesEmptyFile(t *testing.T) {
	path := writeFile(t, "rules.yaml", "rules: []\n")
	if _, err := LoadRules(path); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestLoadRulesValidation(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"missing name", `
rules:
  - pre: [user_access:A]
    post: [admin_access:A]
    confidence: 0.7
    tactic: privilege-escalation
`},
		{"no preconditions", `
rules:
  - name: r
    pre: []
    post: [admin_access:A]
    confidence: 0.7
    tactic: privilege-escalation
`},
		{"bad fact id", `
rules:
  - name: r
    pre: [not-a-fact-id]
    post: [admin_access:A]
    confidence: 0.7
    tactic: privilege-escalation
`},
		{"confidence out of range", `
rules:
  - name: r
    pre: [user_access:A]
    post: [admin_access:A]
    confidence: 1.5
    tactic: privilege-escalation
`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeFile(t, "rules.yaml", tc.yaml)
			if _, err := LoadRules(path); !errors.Is(err, internalerr.ErrInvalidRule) {
				t.Errorf("err = %v, want ErrInvalidRule", err)
			}
		})
	}
}

func TestLoadRulesDuplicateName(t *testing.T) {
	path := writeFile(t, "rules.yaml", `
rules:
  - name: r
    pre: [user_access:A]
    post: [admin_access:A]
    confidence: 0.7
    tactic: privilege-escalation
  - name: r
    pre: [admin_access:A]
    post: [credential_dumped:A]
    confidence: 0.8
    tactic: credential-access
`)
	if _, err := LoadRules(path); !errors.Is(err, internalerr.ErrInvalidRule) {
		t.Errorf("err = %v, want ErrInvalidRule", err)
	}
}

func TestLoadEvidence(t *testing.T) {
	path := writeFile(t, "evidence.yaml", `
expected_evidence:
  credential_dumped: [lsass_access, proc_dump]
  admin_access: [sudo]
`)
	expected, err := LoadEvidence(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := expected[fact.CredentialDumped]; len(got) != 2 || got[0] != "lsass_access" {
		t.Errorf("credential_dumped evidence = %v", got)
	}
	if got := expected[fact.AdminAccess]; len(got) != 1 || got[0] != "sudo" {
		t.Errorf("admin_access evidence = %v", got)
	}
}

func TestLoadEvidenceEmpty(t *testing.T) {
	path := writeFile(t, "evidence.yaml", "expected_evidence: {}\n")
	if _, err := LoadEvidence(path); !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Errorf("err = %v, want ErrInvalidConfig", err)
	}
}

func TestLoaderDefaults(t *testing.T) {
	comp, err := (&Loader{}).Load()
	if err != nil {
		t.Fatal(err)
	}
	if len(comp.Rules) == 0 {
		t.Error("default rule set is empty")
	}
	if len(comp.Expected) == 0 {
		t.Error("default evidence registry is empty")
	}
}

func TestLoaderMissingFile(t *testing.T) {
	l := &Loader{RulesPath: filepath.Join(t.TempDir(), "absent.yaml")}
	if _, err := l.Load(); err == nil {
		t.Error("want error for missing rules file")
	}
}
