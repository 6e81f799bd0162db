// Package config holds the plan configs read by the providers.
package config

import (
	"github.com/dashrun/dash/pipeline/build"
	"github.com/dashrun/dash/pipeline/discovery"
	"github.com/dashrun/dash/pipeline/export"
	"github.com/dashrun/dash/pipeline/tag"
	"github.com/dashrun/dash/pkg/workout"

	"github.com/ilyam8/hashstructure"
)

// Config is a plan config read from Source. A nil Plan means the source
// is gone or holds nothing.
type Config struct {
	Plan   *PlanConfig
	Source string
}

type PlanConfig struct {
	Name      string                 `yaml:"name"`
	Paces     *workout.PaceMapConfig `yaml:"paces"` // optional, no mileage estimates when not set
	Discovery discovery.Config       `yaml:"discovery"`
	Tag       tag.Config             `yaml:"tag"`
	Build     build.Config           `yaml:"build"`
	Export    export.Config          `yaml:"export"`
}

// Hash never fails: hashstructure only rejects func, chan and complex128
// values and a PlanConfig is plain decoded YAML.
func (c PlanConfig) Hash() uint64 { hash, _ := hashstructure.Hash(c, nil); return hash }

// PaceMap returns nil when no paces are configured.
func (c PlanConfig) PaceMap() (*workout.PaceMap, error) {
	if c.Paces == nil {
		return nil, nil
	}
	pm, err := c.Paces.PaceMap()
	if err != nil {
		return nil, err
	}
	return &pm, nil
}
