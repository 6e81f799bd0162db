package build

import (
	"errors"
	"fmt"
)

type (
	Config     []RuleConfig // mandatory, at least 1
	RuleConfig struct {
		Name     string        `yaml:"name"`     // optional
		Selector string        `yaml:"selector"` // mandatory
		Tags     string        `yaml:"tags"`     // mandatory
		Apply    []ApplyConfig `yaml:"apply"`    // mandatory, at least 1
	}
	ApplyConfig struct {
		Selector string `yaml:"selector"` // optional, everything when empty
		Tags     string `yaml:"tags"`     // optional
		Template string `yaml:"template"` // mandatory
	}
)

func validateConfig(cfg Config) error {
	if len(cfg) == 0 {
		return errors.New("empty config, need at least 1 rule")
	}
	for i, rule := range cfg {
		if err := validateRule(rule); err != nil {
			return fmt.Errorf("%v (rule %s[%d])", err, rule.Name, i+1)
		}
	}
	return nil
}

func validateRule(rule RuleConfig) error {
	switch {
	case rule.Selector == "":
		return errors.New("'rule->selector' not set")
	case rule.Tags == "":
		return errors.New("'rule->tags' not set")
	case len(rule.Apply) == 0:
		return errors.New("'rule->apply' not set, need at least 1 rule apply")
	}
	for j, apply := range rule.Apply {
		if apply.Template == "" {
			return fmt.Errorf("'rule->apply->template' not set (apply [%d])", j+1)
		}
	}
	return nil
}
