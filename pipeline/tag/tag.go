package tag

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
		rules []*tagRule
		buf   bytes.Buffer
		log   zerolog.Logger
	}
	tagRule struct {
		name  string
		id    int
		sr    model.Selector
		tags  model.Tags
		final bool
		match []*ruleMatch
	}
	ruleMatch struct {
		id   int
		sr   model.Selector
		tags model.Tags
		expr *template.Template
	}
)

func New(cfg Config) (*Manager, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("tag manager config validation: %v", err)
	}
	mgr, err := initManager(cfg)
	if err != nil {
		return nil, fmt.Errorf("tag manager initialization: %v", err)
	}
	return mgr, nil
}

// Tag runs the rules in order against the target, merging the tags of every
// rule match whose expression renders "true". Later rules see the tags added
// by earlier ones.
func (m *Manager) Tag(target model.Target) {
	for _, rule := range m.rules {
		if !rule.sr.Matches(target.Tags()) {
			continue
		}

		var matched bool
		for _, match := range rule.match {
			if !match.sr.Matches(target.Tags()) {
				continue
			}

			m.buf.Reset()
			if err := match.expr.Execute(&m.buf, target); err != nil {
				m.log.Warn().Err(err).Msgf("failed to execute rule match '%d/%d' on target '%s'",
					rule.id, match.id, target.TUID())
				continue
			}
			if strings.TrimSpace(m.buf.String()) != "true" {
				continue
			}

			matched = true
			target.Tags().Merge(rule.tags)
			target.Tags().Merge(match.tags)
			m.log.Debug().Msgf("matched target '%s', tags: %s", target.TUID(), target.Tags())
		}

		if matched && rule.final {
			return
		}
	}
}

func initManager(conf Config) (*Manager, error) {
	mgr := &Manager{
		log: log.New("tag manager"),
	}

	for i, cfg := range conf {
		rule := tagRule{id: i + 1, name: cfg.Name, final: cfg.Final}

		sr, err := model.ParseSelector(cfg.Selector)
		if err != nil {
			return nil, fmt.Errorf("rule '%d' selector: %v", rule.id, err)
		}
		rule.sr = sr

		if rule.tags, err = model.ParseTags(cfg.Tags); err != nil {
			return nil, fmt.Errorf("rule '%d' tags: %v", rule.id, err)
		}

		for j, cfg := range cfg.Match {
			match, err := newRuleMatch(j+1, cfg)
			if err != nil {
				return nil, fmt.Errorf("rule '%d' match '%d': %v", rule.id, j+1, err)
			}
			rule.match = append(rule.match, match)
		}
		mgr.rules = append(mgr.rules, &rule)
	}
	return mgr, nil
}

func newRuleMatch(id int, cfg MatchConfig) (*ruleMatch, error) {
	sr, err := model.ParseSelector(cfg.Selector)
	if err != nil {
		return nil, fmt.Errorf("selector: %v", err)
	}
	tags, err := model.ParseTags(cfg.Tags)
	if err != nil {
		return nil, fmt.Errorf("tags: %v", err)
	}
	expr, err := parseTemplate(cfg.Expr)
	if err != nil {
		return nil, fmt.Errorf("expr: %v", err)
	}
	return &ruleMatch{id: id, sr: sr, tags: tags, expr: expr}, nil
}

func parseTemplate(line string) (*template.Template, error) {
	return template.New("root").
		Option("missingkey=error").
		Funcs(funcmap.FuncMap).
		Parse(line)
}
