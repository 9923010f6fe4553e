// Package config loads rule sets and the expected-evidence registry from
// YAML files. Loaded rule files are validated against the schema before they
// reach the inference engine.
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/chainrecon/chainrecon/pkg/recon/fact"
	"github.com/chainrecon/chainrecon/pkg/recon/internalerr"
	"github.com/chainrecon/chainrecon/pkg/recon/rules"
)

// ruleSpec is the YAML shape of one rule.
type ruleSpec struct {
	Name       string   `yaml:"name" validate:"required"`
	Pre        []string `yaml:"pre" validate:"required,min=1,dive,fact_id"`
	Post       []string `yaml:"post" validate:"required,min=1,dive,fact_id"`
	Confidence float64  `yaml:"confidence" validate:"gte=0,lte=1"`
	Tactic     string   `yaml:"tactic" validate:"required"`
	MaxTimeGap *int64   `yaml:"max_time_gap" validate:"omitempty,gte=0"`
}

type ruleFile struct {
	Rules []ruleSpec `yaml:"rules"`
}

type evidenceFile struct {
	ExpectedEvidence map[string][]string `yaml:"expected_evidence"`
}

func newValidator() *validator.Validate {
	v := validator.New()

	// A valid fact identifier round-trips through the structured parser.
	v.RegisterValidation("fact_id", func(fl validator.FieldLevel) bool {
		_, err := fact.Parse(fl.Field().String())
		return err == nil
	})

	return v
}

// LoadRules reads and validates a rule file. Rule order is preserved: it is
// an evaluation hint that decides applied-rule sequence numbers when several
// rules become satisfiable in the same pass.
func LoadRules(path string) ([]rules.Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}

	var rf ruleFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	if len(rf.Rules) == 0 {
		return nil, fmt.Errorf("%w: no rules in %s", internalerr.ErrInvalidConfig, path)
	}

	v := newValidator()
	out := make([]rules.Rule, 0, len(rf.Rules))
	seen := make(map[string]struct{}, len(rf.Rules))
	for i, spec := range rf.Rules {
		if err := v.Struct(spec); err != nil {
			return nil, fmt.Errorf("%w: rule %d (%s): %v", internalerr.ErrInvalidRule, i, spec.Name, err)
		}
		if _, dup := seen[spec.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate rule name %q", internalerr.ErrInvalidRule, spec.Name)
		}
		seen[spec.Name] = struct{}{}

		r := rules.Rule{
			Name:       spec.Name,
			Base:       spec.Confidence,
			Tactic:     spec.Tactic,
			MaxTimeGap: spec.MaxTimeGap,
		}
		for _, s := range spec.Pre {
			id, err := fact.Parse(s)
			if err != nil {
				return nil, fmt.Errorf("rule %q precondition: %w", spec.Name, err)
			}
			r.Pre = append(r.Pre, id)
		}
		for _, s := range spec.Post {
			id, err := fact.Parse(s)
			if err != nil {
				return nil, fmt.Errorf("rule %q postcondition: %w", spec.Name, err)
			}
			r.Post = append(r.Post, id)
		}
		out = append(out, r)
	}
	return out, nil
}

// LoadEvidence reads an expected-evidence registry mapping fact kinds to the
// log types that corroborate them.
func LoadEvidence(path string) (map[fact.Kind][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read evidence config: %w", err)
	}

	var ef evidenceFile
	if err := yaml.Unmarshal(data, &ef); err != nil {
		return nil, fmt.Errorf("parse evidence config: %w", err)
	}
	if len(ef.ExpectedEvidence) == 0 {
		return nil, fmt.Errorf("%w: no expected_evidence entries in %s", internalerr.ErrInvalidConfig, path)
	}

	out := make(map[fact.Kind][]string, len(ef.ExpectedEvidence))
	for kind, types := range ef.ExpectedEvidence {
		out[fact.Kind(kind)] = append([]string(nil), types...)
	}
	return out, nil
}
