package config

import (
	"fmt"

	"github.com/chainrecon/chainrecon/pkg/recon/confidence"
	"github.com/chainrecon/chainrecon/pkg/recon/fact"
	"github.com/chainrecon/chainrecon/pkg/recon/rules"
)

// Loader loads all configuration files and falls back to the built-ins for
// paths left empty.
type Loader struct {
	RulesPath    string
	EvidencePath string
}

// Components holds the loaded configuration.
type Components struct {
	Rules    []rules.Rule
	Expected map[fact.Kind][]string
}

// Load reads the configured files and returns initialized components.
func (l *Loader) Load() (*Components, error) {
	comp := &Components{}

	if l.RulesPath != "" {
		loaded, err := LoadRules(l.RulesPath)
		if err != nil {
			return nil, fmt.Errorf("load rules: %w", err)
		}
		comp.Rules = loaded
	} else {
		comp.Rules = rules.DefaultRuleSet()
	}

	if l.EvidencePath != "" {
		expected, err := LoadEvidence(l.EvidencePath)
		if err != nil {
			return nil, fmt.Errorf("load evidence config: %w", err)
		}
		comp.Expected = expected
	} else {
		comp.Expected = confidence.DefaultExpectedEvidence()
	}

	return comp, nil
}
