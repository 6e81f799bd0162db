// Package static discovers workouts written inline in a plan config.
package static

import (
	"context"
	"errors"
	"fmt"

	"github.com/dashrun/dash/pipeline/model"
	"github.com/dashrun/dash/pkg/log"
	"github.com/dashrun/dash/pkg/workout"

	"github.com/rs/zerolog"
)

type (
	Config struct {
		Name     string          `yaml:"name"` // mandatory
		Tags     string          `yaml:"tags"` // mandatory
		Workouts []WorkoutConfig `yaml:"workouts"`
	}
	WorkoutConfig struct {
		Name     string `yaml:"name"`    // mandatory
		Tags     string `yaml:"tags"`    // optional
		Notation string `yaml:"workout"` // mandatory
	}
)

func validateConfig(cfg Config) error {
	switch {
	case cfg.Name == "":
		return errors.New("'name' not set")
	case cfg.Tags == "":
		return errors.New("'tags' not set")
	case len(cfg.Workouts) == 0:
		return errors.New("'workouts' not set, need at least 1 workout")
	}
	seen := make(map[string]bool)
	for i, w := range cfg.Workouts {
		if w.Name == "" {
			return fmt.Errorf("'workouts->name' not set [%d]", i+1)
		}
		if w.Notation == "" {
			return fmt.Errorf("'workouts->workout' not set [%d]", i+1)
		}
		if seen[w.Name] {
			return fmt.Errorf("duplicate workout name: '%s'", w.Name)
		}
		seen[w.Name] = true
	}
	return nil
}

// Discovery sends its single group once and then stays idle.
type Discovery struct {
	source string
	group  model.Group
	log    zerolog.Logger
}

func NewDiscovery(cfg Config, paces *workout.PaceMap) (*Discovery, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("static discovery config validation: %v", err)
	}
	d, err := initDiscovery(cfg, paces)
	if err != nil {
		return nil, fmt.Errorf("static discovery initialization ('%s'): %v", cfg.Name, err)
	}
	return d, nil
}

func initDiscovery(cfg Config, paces *workout.PaceMap) (*Discovery, error) {
	tags, err := model.ParseTags(cfg.Tags)
	if err != nil {
		return nil, fmt.Errorf("parse config->tags: %v", err)
	}

	d := &Discovery{
		source: "static/" + cfg.Name,
		log:    log.New("static discovery"),
	}

	var targets []model.Target
	for i, w := range cfg.Workouts {
		wTags, err := model.ParseTags(w.Tags)
		if err != nil {
			return nil, fmt.Errorf("parse workout '%d' tags: %v", i+1, err)
		}
		tgt, err := model.NewWorkoutTarget(d.source, w.Name, w.Notation, paces)
		if err != nil {
			return nil, fmt.Errorf("workout '%s': %v", w.Name, err)
		}
		if err := tgt.EstimateErr(); err != nil {
			d.log.Warn().Err(err).Msgf("workout '%s' mileage not estimated", tgt.TUID())
		}
		tgt.Tags().Merge(tags)
		tgt.Tags().Merge(wTags)
		targets = append(targets, tgt)
	}
	d.group = model.NewGroup(d.source, targets...)
	return d, nil
}

func (d *Discovery) String() string {
	return fmt.Sprintf("static discovery (%s)", d.source)
}

func (d *Discovery) Discover(ctx context.Context, in chan<- []model.Group) {
	select {
	case <-ctx.Done():
		return
	case in <- []model.Group{d.group}:
	}
	<-ctx.Done()
}
