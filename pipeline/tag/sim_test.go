package tag

import (
	"fmt"
	"testing"

	"github.com/dashrun/dash/pipeline/model"
	"github.com/dashrun/dash/pkg/workout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type (
	tagSim struct {
		cfg     Config
		invalid bool
		inputs  []tagSimInput
	}
	tagSimInput struct {
		desc         string
		target       *model.WorkoutTarget
		expectedTags model.Tags
	}
)

func (sim tagSim) run(t *testing.T) {
	mgr, err := New(sim.cfg)

	if sim.invalid {
		require.Error(t, err)
		return
	}

	require.NoError(t, err)
	require.NotNil(t, mgr)

	for i, input := range sim.inputs {
		name := fmt.Sprintf("input:'%s'[%d], target:'%s', expected tags:'%s'",
			input.desc, i+1, input.target, input.expectedTags)

		mgr.Tag(input.target)
		assert.Equalf(t, input.expectedTags, input.target.Tags(), name)
	}
}

var testPaces = &workout.PaceMap{
	Zones: map[workout.HeartRateZone]workout.PaceRange{
		workout.Z1: {Min: workout.Pace{Time: 660, Unit: workout.Miles}, Max: workout.Pace{Time: 600, Unit: workout.Miles}},
		workout.Z4: {Min: workout.Pace{Time: 420, Unit: workout.Miles}, Max: workout.Pace{Time: 400, Unit: workout.Miles}},
	},
	Default: workout.Z1,
}

func newTarget(name, notation, tags string) *model.WorkoutTarget {
	tgt, err := model.NewWorkoutTarget("static/test", name, notation, testPaces)
	if err != nil {
		panic(err)
	}
	tgt.Tags().Merge(model.MustParseTags(tags))
	return tgt
}
