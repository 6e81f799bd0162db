package build

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/dashrun/dash/pipeline/model"
	"github.com/dashrun/dash/pkg/funcmap"
	"github.com/dashrun/dash/pkg/log"

	"github.com/rs/zerolog"
)

type (
	Manager struct {
		rules []*buildRule
		buf   bytes.Buffer
		log   zerolog.Logger
	}
	buildRule struct {
		name  string
		id    int
		sr    model.Selector
		tags  model.Tags
		apply []*ruleApply
	}
	ruleApply struct {
		id   int
		sr   model.Selector
		tags model.Tags
		tmpl *template.Template
	}
)

func New(cfg Config) (*Manager, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("build manager config validation: %v", err)
	}
	mgr, err := initManager(cfg)
	if err != nil {
		return nil, fmt.Errorf("build manager initialization: %v", err)
	}
	return mgr, nil
}

// Build renders one config per matching rule apply. Renders that are blank
// after trimming are dropped.
func (m *Manager) Build(target model.Target) (configs []model.Config) {
	for _, rule := range m.rules {
		if !rule.sr.Matches(target.Tags()) {
			continue
		}

		for _, apply := range rule.apply {
			if !apply.sr.Matches(target.Tags()) {
				continue
			}

			m.buf.Reset()
			if err := apply.tmpl.Execute(&m.buf, target); err != nil {
				m.log.Warn().Err(err).Msgf("failed to execute rule apply '%d/%d' on target '%s'",
					rule.id, apply.id, target.TUID())
				continue
			}

			conf := strings.TrimSpace(m.buf.String())
			if conf == "" {
				m.log.Debug().Msgf("rule apply '%d/%d' rendered nothing for target '%s'",
					rule.id, apply.id, target.TUID())
				continue
			}

			cfg := model.Config{
				Tags: model.NewTags(),
				Conf: conf,
			}
			cfg.Tags.Merge(rule.tags)
			cfg.Tags.Merge(apply.tags)
			configs = append(configs, cfg)
		}
	}
	if len(configs) > 0 {
		m.log.Info().Msgf("built %d config(s) for target '%s'", len(configs), target.TUID())
	}
	return configs
}

func initManager(conf Config) (*Manager, error) {
	mgr := &Manager{
		log: log.New("build manager"),
	}

	for i, cfg := range conf {
		rule := buildRule{id: i + 1, name: cfg.Name}

		sr, err := model.ParseSelector(cfg.Selector)
		if err != nil {
			return nil, fmt.Errorf("rule '%d' selector: %v", rule.id, err)
		}
		rule.sr = sr

		if rule.tags, err = model.ParseTags(cfg.Tags); err != nil {
			return nil, fmt.Errorf("rule '%d' tags: %v", rule.id, err)
		}

		for j, cfg := range cfg.Apply {
			apply, err := newRuleApply(j+1, cfg)
			if err != nil {
				return nil, fmt.Errorf("rule '%d' apply '%d': %v", rule.id, j+1, err)
			}
			rule.apply = append(rule.apply, apply)
		}
		mgr.rules = append(mgr.rules, &rule)
	}
	return mgr, nil
}

func newRuleApply(id int, cfg ApplyConfig) (*ruleApply, error) {
	sr, err := model.ParseSelector(cfg.Selector)
	if err != nil {
		return nil, fmt.Errorf("selector: %v", err)
	}
	tags, err := model.ParseTags(cfg.Tags)
	if err != nil {
		return nil, fmt.Errorf("tags: %v", err)
	}
	tmpl, err := template.New("root").
		Option("missingkey=error").
		Funcs(funcmap.FuncMap).
		Parse(cfg.Template)
	if err != nil {
		return nil, fmt.Errorf("template: %v", err)
	}
	return &ruleApply{id: id, sr: sr, tags: tags, tmpl: tmpl}, nil
}
