package mileage

import (
	"errors"
	"testing"

	"github.com/dashrun/dash/pkg/parser"
	"github.com/dashrun/dash/pkg/workout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func perMile(minutes float64) workout.Pace {
	return workout.Pace{Time: minutes * 60, Unit: workout.Miles}
}

var paces = workout.PaceMap{
	Zones: map[workout.HeartRateZone]workout.PaceRange{
		workout.Z1: {Min: perMile(20), Max: perMile(10)},
		workout.Z2: {Min: perMile(10), Max: perMile(9)},
		workout.Z3: {Min: perMile(9), Max: perMile(7)},
		workout.Z4: {Min: perMile(7), Max: perMile(6)},
		workout.Z5: {Min: perMile(6), Max: perMile(5)},
	},
	Default: workout.Z1,
}

func TestOf(t *testing.T) {
	tests := map[string]struct {
		workout workout.Workout
		wantMin [2]float64
		wantMax [2]float64
	}{
		"empty workout": {
			workout: workout.Workout{},
			wantMin: [2]float64{0, 0},
			wantMax: [2]float64{0, 0},
		},
		"warmup and cooldown": {
			// Z2 10 min: 1.0-1.11, Z1 5 min: 0.25-0.5
			workout: workout.Workout{
				Warmup:   &workout.WorkoutStep{Goal: workout.Duration(10, workout.Minutes), Alert: workout.HeartRate(workout.Z2)},
				Cooldown: &workout.WorkoutStep{Goal: workout.Duration(5, workout.Minutes), Alert: workout.HeartRate(workout.Z1)},
			},
			wantMin: [2]float64{1.25, 1.3},
			wantMax: [2]float64{1.61, 1.62},
		},
		"repeated intervals": {
			// Z5 1 min x3: 0.5-0.6, Z1 2 min x3: 0.3-0.6
			workout: workout.Workout{
				Intervals: []workout.IntervalBlock{
					{
						Repeats: workout.Repeats(3),
						Steps: []workout.IntervalStep{
							{Step: workout.WorkoutStep{Goal: workout.Duration(1, workout.Minutes), Alert: workout.HeartRate(workout.Z5)}},
							{Step: workout.WorkoutStep{Goal: workout.Duration(2, workout.Minutes), Alert: workout.HeartRate(workout.Z1)}, HasRecovery: true},
						},
					},
				},
			},
			wantMin: [2]float64{0.8, 0.9},
			wantMax: [2]float64{1.2, 1.3},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			m, err := Of(paces, test.workout)
			require.NoError(t, err)

			assert.GreaterOrEqual(t, m.Min, test.wantMin[0])
			assert.LessOrEqual(t, m.Min, test.wantMin[1])
			assert.GreaterOrEqual(t, m.Max, test.wantMax[0])
			assert.LessOrEqual(t, m.Max, test.wantMax[1])
		})
	}
}

func TestOf_ParsedWorkout(t *testing.T) {
	w := parser.MustParse("1 mile warmup + 3 x (0.5 miles @z3 + 1 mile recovery) + 0.5 miles cooldown")

	m, err := Of(paces, w)
	require.NoError(t, err)
	assert.InDelta(t, 6.0, m.Min, 1e-9)
	assert.InDelta(t, 6.0, m.Max, 1e-9)
}

func TestOf_ZoneNotFound(t *testing.T) {
	sparse := workout.PaceMap{
		Zones:   map[workout.HeartRateZone]workout.PaceRange{workout.Z1: {Min: perMile(12), Max: perMile(10)}},
		Default: workout.Z1,
	}
	w := parser.MustParse("10 min warmup + 5 min @z4")

	_, err := Of(sparse, w)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrZoneNotFound))
	assert.Contains(t, err.Error(), "interval 1 step 1")
}

func TestOf_BadPace(t *testing.T) {
	tests := map[string]struct {
		paces   workout.PaceMap
		workout workout.Workout
	}{
		"zero pace alert": {
			paces: paces,
			workout: workout.Workout{Intervals: []workout.IntervalBlock{{Steps: []workout.IntervalStep{
				{Step: workout.WorkoutStep{Goal: workout.Duration(30, workout.Minutes), Alert: workout.PaceThreshold(perMile(0))}},
			}}}},
		},
		"zero pace in zone": {
			paces: workout.PaceMap{
				Zones:   map[workout.HeartRateZone]workout.PaceRange{workout.Z1: {Min: perMile(10), Max: perMile(0)}},
				Default: workout.Z1,
			},
			workout: parser.MustParse("30 min"),
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Of(test.paces, test.workout)
			assert.True(t, errors.Is(err, workout.ErrBadPace))
		})
	}
}

func TestOf_DefaultZoneNotFound(t *testing.T) {
	_, err := Of(workout.PaceMap{}, parser.MustParse("10 min"))
	assert.True(t, errors.Is(err, ErrZoneNotFound))
}

func TestLengthUnitConversions(t *testing.T) {
	assert.Equal(t, 1.0, DistanceToMiles(1, workout.Miles))
	assert.Equal(t, 0.621371, DistanceToMiles(1, workout.Kilometers))
	assert.Equal(t, 0.000621371, DistanceToMiles(1, workout.Meters))
	assert.Equal(t, 0.000568182, DistanceToMiles(1, workout.Yards))
	assert.Equal(t, 0.000189394, DistanceToMiles(1, workout.Feet))
}

func TestDurationToMiles(t *testing.T) {
	r := workout.PaceRange{Min: perMile(10), Max: perMile(8)}

	seconds := DurationToMiles(r, 10*60, workout.Seconds)
	assert.Equal(t, 1.0, seconds.Min)
	assert.Equal(t, 1.25, seconds.Max)

	minutes := DurationToMiles(r, 10, workout.Minutes)
	assert.Equal(t, 1.0, minutes.Min)
	assert.Equal(t, 1.25, minutes.Max)

	hours := DurationToMiles(r, 1, workout.Hours)
	assert.Equal(t, 6.0, hours.Min)
	assert.Equal(t, 7.5, hours.Max)
}

func TestStep(t *testing.T) {
	tests := map[string]struct {
		step    workout.WorkoutStep
		wantMin float64
		wantMax float64
		delta   float64
	}{
		"distance": {
			step:    workout.WorkoutStep{Goal: workout.Distance(5, workout.Miles)},
			wantMin: 5, wantMax: 5,
		},
		"duration with pace threshold": {
			step:    workout.WorkoutStep{Goal: workout.Duration(30, workout.Minutes), Alert: workout.PaceThreshold(perMile(10))},
			wantMin: 3, wantMax: 3,
		},
		"duration with heart rate zone": {
			// Z3 9-7 min/mile for 60 minutes
			step:    workout.WorkoutStep{Goal: workout.Duration(60, workout.Minutes), Alert: workout.HeartRate(workout.Z3)},
			wantMin: 60.0 / 9, wantMax: 60.0 / 7, delta: 1e-9,
		},
		"duration with pace range": {
			step:    workout.WorkoutStep{Goal: workout.Duration(30, workout.Minutes), Alert: workout.PaceBetween(perMile(10), perMile(8))},
			wantMin: 3, wantMax: 3.75,
		},
		"duration without alert uses default zone": {
			step:    workout.WorkoutStep{Goal: workout.Duration(20, workout.Minutes)},
			wantMin: 1, wantMax: 2,
		},
		"duration with metric pace": {
			step: workout.WorkoutStep{
				Goal:  workout.Duration(50, workout.Minutes),
				Alert: workout.PaceThreshold(workout.Pace{Time: 5 * 60, Unit: workout.Kilometers}),
			},
			wantMin: 10 * 0.621371, wantMax: 10 * 0.621371, delta: 1e-9,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			m, err := Step(paces, test.step)
			require.NoError(t, err)

			assert.InDelta(t, test.wantMin, m.Min, test.delta)
			assert.InDelta(t, test.wantMax, m.Max, test.delta)
		})
	}
}
