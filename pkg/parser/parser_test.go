package parser

import (
	"errors"
	"testing"

	"github.com/dashrun/dash/pkg/workout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	z3 := workout.HeartRate(workout.Z3)

	tests := map[string]struct {
		input string
		want  workout.Workout
	}{
		"warmup, repeat block and cooldown": {
			input: "1 mile warmup + 3 x (0.5 miles @z3 + 1 mile recovery) + 0.5 miles cooldown",
			want: workout.Workout{
				Warmup: &workout.WorkoutStep{Goal: workout.Distance(1, workout.Miles)},
				Intervals: []workout.IntervalBlock{
					{
						Repeats: workout.Repeats(3),
						Steps: []workout.IntervalStep{
							{Step: workout.WorkoutStep{Goal: workout.Distance(0.5, workout.Miles), Alert: z3}},
							{Step: workout.WorkoutStep{Goal: workout.Distance(1, workout.Miles)}, HasRecovery: true},
						},
					},
				},
				Cooldown: &workout.WorkoutStep{Goal: workout.Distance(0.5, workout.Miles)},
			},
		},
		"no warmup and cooldown": {
			input: "3 x (0.5 miles @z3 + 1 mile recovery)",
			want: workout.Workout{
				Intervals: []workout.IntervalBlock{
					{
						Repeats: workout.Repeats(3),
						Steps: []workout.IntervalStep{
							{Step: workout.WorkoutStep{Goal: workout.Distance(0.5, workout.Miles), Alert: z3}},
							{Step: workout.WorkoutStep{Goal: workout.Distance(1, workout.Miles)}, HasRecovery: true},
						},
					},
				},
			},
		},
		"pace threshold": {
			input: "1 mile @7:30/mile",
			want: workout.Workout{
				Intervals: []workout.IntervalBlock{
					{Steps: []workout.IntervalStep{{Step: workout.WorkoutStep{
						Goal:  workout.Distance(1, workout.Miles),
						Alert: workout.PaceThreshold(workout.Pace{Time: 450, Unit: workout.Miles}),
					}}}},
				},
			},
		},
		"pace range": {
			input: "1 mile @7:30-8:00/mile",
			want: workout.Workout{
				Intervals: []workout.IntervalBlock{
					{Steps: []workout.IntervalStep{{Step: workout.WorkoutStep{
						Goal: workout.Distance(1, workout.Miles),
						Alert: workout.PaceBetween(
							workout.Pace{Time: 450, Unit: workout.Miles},
							workout.Pace{Time: 480, Unit: workout.Miles},
						),
					}}}},
				},
			},
		},
		"compact spacing and case": {
			input: "2x(400M @Z5+200m RECOVERY)",
			want: workout.Workout{
				Intervals: []workout.IntervalBlock{
					{
						Repeats: workout.Repeats(2),
						Steps: []workout.IntervalStep{
							{Step: workout.WorkoutStep{Goal: workout.Distance(400, workout.Meters), Alert: workout.HeartRate(workout.Z5)}},
							{Step: workout.WorkoutStep{Goal: workout.Distance(200, workout.Meters)}, HasRecovery: true},
						},
					},
				},
			},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			w, err := Parse(test.input)
			require.NoError(t, err)
			assert.Equal(t, test.want, w)
		})
	}
}

func TestParse_DurationGoal(t *testing.T) {
	w, err := Parse("30 minutes warmup + 3 x (5 minutes @z4 + 2 minutes recovery) + 15 minutes cooldown")
	require.NoError(t, err)

	require.NotNil(t, w.Warmup)
	assert.Equal(t, workout.Duration(30, workout.Minutes), w.Warmup.Goal)
	require.NotNil(t, w.Cooldown)
	assert.Equal(t, workout.Duration(15, workout.Minutes), w.Cooldown.Goal)
	require.Len(t, w.Intervals, 1)
	assert.Equal(t, workout.HeartRate(workout.Z4), w.Intervals[0].Steps[0].Step.Alert)
}

func TestParse_HeartRateZones(t *testing.T) {
	w, err := Parse("1 mile @z1 + 1 mile @z2 + 1 mile @z3 + 1 mile @z4 + 1 mile @z5")
	require.NoError(t, err)
	require.Len(t, w.Intervals, 5)

	zones := []workout.HeartRateZone{workout.Z1, workout.Z2, workout.Z3, workout.Z4, workout.Z5}
	for i, zone := range zones {
		alert := w.Intervals[i].Steps[0].Step.Alert
		require.NotNil(t, alert)
		assert.Equal(t, workout.AlertHeartRate, alert.Kind)
		assert.Equal(t, zone, alert.Zone)
		assert.Nil(t, w.Intervals[i].Repeats)
	}
}

func TestParse_LengthUnits(t *testing.T) {
	w, err := Parse("1 mile + 1000 meters + 100 yards + 1000 feet + 1 kilometer + 5 km + 3 mi")
	require.NoError(t, err)

	units := []workout.LengthUnit{
		workout.Miles, workout.Meters, workout.Yards, workout.Feet,
		workout.Kilometers, workout.Kilometers, workout.Miles,
	}
	require.Len(t, w.Intervals, len(units))
	for i, unit := range units {
		goal := w.Intervals[i].Steps[0].Step.Goal
		assert.Equal(t, workout.GoalDistance, goal.Kind)
		assert.Equal(t, unit, goal.Length)
	}
}

func TestParse_TimeUnits(t *testing.T) {
	w, err := Parse("30 seconds + 5 minutes + 1 hour + 90 sec + 10 min")
	require.NoError(t, err)

	units := []workout.TimeUnit{workout.Seconds, workout.Minutes, workout.Hours, workout.Seconds, workout.Minutes}
	require.Len(t, w.Intervals, len(units))
	for i, unit := range units {
		goal := w.Intervals[i].Steps[0].Step.Goal
		assert.Equal(t, workout.GoalDuration, goal.Kind)
		assert.Equal(t, unit, goal.Time)
	}
}

func TestParse_MultipleIntervals(t *testing.T) {
	w, err := Parse("1 mile warmup + 3 x (0.5 miles @z3 + 1 mile recovery) + 2 x (1 mile @z4) + 0.5 miles cooldown")
	require.NoError(t, err)
	require.Len(t, w.Intervals, 2)

	assert.Equal(t, workout.Repeats(3), w.Intervals[0].Repeats)
	assert.Len(t, w.Intervals[0].Steps, 2)
	assert.Equal(t, workout.Repeats(2), w.Intervals[1].Repeats)
	require.Len(t, w.Intervals[1].Steps, 1)
	assert.Equal(t, workout.HeartRate(workout.Z4), w.Intervals[1].Steps[0].Step.Alert)
}

func TestParse_InvalidInput(t *testing.T) {
	tests := map[string]string{
		"empty string":              "",
		"blank string":              "   ",
		"invalid format":            "invalid",
		"invalid alert":             "1 mile @invalid",
		"missing unit":              "1 @z3",
		"invalid pace format":       "1 mile @7:invalid/mile",
		"invalid pace range format": "1 mile @7:30-8:invalid/mile",
		"pace seconds overflow":     "1 mile @7:75/mile",
		"pace without unit":         "1 mile @7:30",
		"zero pace":                 "30 minutes @0:00/mile",
		"zero pace range bound":     "30 minutes @8:00-0:00/mile",
		"unknown zone":              "1 mile @z6",
		"trailing plus":             "1 mile +",
		"trailing words":            "1 mile fast",
		"unclosed block":            "3 x (1 mile",
		"empty block":               "3 x ()",
		"zero repeats":              "0 x (1 mile)",
		"fractional repeats":        "1.5 x (1 mile)",
		"warmup only":               "1 mile warmup",
		"warmup not first":          "1 mile + 1 mile warmup + 1 mile",
		"cooldown not last":         "1 mile + 1 mile cooldown + 1 mile",
		"unexpected character":      "1 mile ; 2 miles",
		"bad number":                "1.2.3 miles",
	}

	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(input)
			require.Errorf(t, err, "expected error for input: '%s'", input)

			var perr *Error
			assert.True(t, errors.As(err, &perr))
		})
	}
}

func TestError_Position(t *testing.T) {
	_, err := Parse("1 mile @invalid")
	require.Error(t, err)

	var perr *Error
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, 8, perr.Offset)
	assert.Equal(t, 1, perr.Line)
	assert.Equal(t, 9, perr.Column)
	assert.Contains(t, perr.Error(), "parse error at 1:9")
	assert.Contains(t, perr.Pretty(), "1 | 1 mile @invalid")
	assert.Contains(t, perr.Pretty(), "  |         ^")
}

func TestError_NonASCII(t *testing.T) {
	tests := map[string]struct {
		input      string
		wantOffset int
		wantColumn int
		wantMsg    string
	}{
		"check mark":  {input: "1 mile ✓", wantOffset: 7, wantColumn: 8, wantMsg: "unexpected character '✓'"},
		"accented":    {input: "1 mile @é", wantOffset: 8, wantColumn: 9, wantMsg: "unexpected character 'é'"},
		"second line": {input: "1 mile\n+ 2 x ✓", wantOffset: 13, wantColumn: 7, wantMsg: "unexpected character '✓'"},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(test.input)

			var perr *Error
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, test.wantOffset, perr.Offset)
			assert.Equal(t, test.wantColumn, perr.Column)
			assert.Equal(t, test.wantMsg, perr.Msg)
		})
	}
}

func TestParse_RoundTrip(t *testing.T) {
	inputs := []string{
		"1 mile warmup + 3 x (0.5 miles @z3 + 1 mile recovery) + 0.5 miles cooldown",
		"30 min warmup + 4 x (1 km @4:10-4:20/km + 90 sec recovery) + 10 min cooldown",
		"5 miles @7:30/mile",
		"20 min @z2 + 400 m + 100 yd + 50 ft",
	}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			w, err := Parse(input)
			require.NoError(t, err)

			again, err := Parse(w.String())
			require.NoError(t, err)
			assert.Equal(t, w, again)
			assert.Equal(t, input, w.String())
		})
	}
}
