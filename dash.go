// Package dash parses running workout notation and estimates how many miles a
// workout covers. It re-exports the core types so callers need a single import.
//
//	w, err := dash.GetWorkout("1 mile warmup + 3 x (0.5 miles @z3 + 1 mile recovery) + 0.5 miles cooldown")
//	m, err := dash.GetMileage(paces, w)
package dash

import (
	"github.com/dashrun/dash/pkg/mileage"
	"github.com/dashrun/dash/pkg/parser"
	"github.com/dashrun/dash/pkg/workout"
)

type (
	Workout       = workout.Workout
	IntervalBlock = workout.IntervalBlock
	IntervalStep  = workout.IntervalStep
	WorkoutStep   = workout.WorkoutStep
	Goal          = workout.Goal
	Alert         = workout.Alert
	Pace          = workout.Pace
	PaceRange     = workout.PaceRange
	PaceMap       = workout.PaceMap
	Mileage       = workout.Mileage
	LengthUnit    = workout.LengthUnit
	TimeUnit      = workout.TimeUnit
	HeartRateZone = workout.HeartRateZone

	// ParseError is returned by GetWorkout for malformed notation.
	ParseError = parser.Error
)

const (
	Miles      = workout.Miles
	Yards      = workout.Yards
	Feet       = workout.Feet
	Meters     = workout.Meters
	Kilometers = workout.Kilometers

	Seconds = workout.Seconds
	Minutes = workout.Minutes
	Hours   = workout.Hours

	Z1 = workout.Z1
	Z2 = workout.Z2
	Z3 = workout.Z3
	Z4 = workout.Z4
	Z5 = workout.Z5
)

// ErrZoneNotFound is returned by GetMileage when a step needs a zone the pace map lacks.
var ErrZoneNotFound = mileage.ErrZoneNotFound

func GetWorkout(input string) (Workout, error) {
	return parser.Parse(input)
}

func GetMileage(paces PaceMap, w Workout) (Mileage, error) {
	return mileage.Of(paces, w)
}

// LoadPaceMap reads a YAML pace map file.
func LoadPaceMap(path string) (PaceMap, error) {
	return workout.LoadPaceMap(path)
}
