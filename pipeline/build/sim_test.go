package build

import (
	"fmt"
	"testing"

	"github.com/dashrun/dash/pipeline/model"
	"github.com/dashrun/dash/pkg/workout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type (
	buildSim struct {
		cfg     Config
		invalid bool
		values  []buildSimValue
	}
	buildSimValue struct {
		desc     string
		target   *model.WorkoutTarget
		wantCfgs []model.Config
	}
)

func (sim buildSim) run(t *testing.T) {
	mgr, err := New(sim.cfg)

	if sim.invalid {
		require.Error(t, err)
		return
	}

	require.NoError(t, err)
	require.NotNil(t, mgr)

	for i, value := range sim.values {
		name := fmt.Sprintf("test value:'%s'[%d], target:'%s', wantConfigs:'%v'",
			value.desc, i+1, value.target, value.wantCfgs)

		actualCfgs := mgr.Build(value.target)
		assert.Equalf(t, value.wantCfgs, actualCfgs, name)
	}
}

var testPaces = &workout.PaceMap{
	Zones: map[workout.HeartRateZone]workout.PaceRange{
		workout.Z1: {Min: workout.Pace{Time: 600, Unit: workout.Miles}, Max: workout.Pace{Time: 480, Unit: workout.Miles}},
	},
	Default: workout.Z1,
}

func newTarget(name, notation, tags string, labels map[string]string) *model.WorkoutTarget {
	tgt, err := model.NewWorkoutTarget("static/test", name, notation, testPaces)
	if err != nil {
		panic(err)
	}
	if labels != nil {
		tgt.WithLabels(labels)
	}
	tgt.Tags().Merge(model.MustParseTags(tags))
	return tgt
}
