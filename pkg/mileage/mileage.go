// Package mileage estimates the distance covered by a workout.
package mileage

import (
	"errors"
	"fmt"

	"github.com/dashrun/dash/pkg/workout"
)

var ErrZoneNotFound = errors.New("heart rate zone not found in pace map")

// Of returns the minimum and maximum miles covered by w. Distance steps count
// exactly; duration steps are converted using the step's pace alert, the
// pace map range of its heart rate zone, or the pace map default zone.
func Of(paces workout.PaceMap, w workout.Workout) (workout.Mileage, error) {
	var total workout.Mileage

	if w.Warmup != nil {
		m, err := Step(paces, *w.Warmup)
		if err != nil {
			return workout.Mileage{}, fmt.Errorf("warmup: %w", err)
		}
		total = total.Add(m)
	}

	for i, block := range w.Intervals {
		repeats := 1.0
		if block.Repeats != nil {
			repeats = float64(*block.Repeats)
		}
		for j, step := range block.Steps {
			m, err := Step(paces, step.Step)
			if err != nil {
				return workout.Mileage{}, fmt.Errorf("interval %d step %d: %w", i+1, j+1, err)
			}
			total = total.Add(m.Scale(repeats))
		}
	}

	if w.Cooldown != nil {
		m, err := Step(paces, *w.Cooldown)
		if err != nil {
			return workout.Mileage{}, fmt.Errorf("cooldown: %w", err)
		}
		total = total.Add(m)
	}

	return total, nil
}

// Step returns the mileage of a single step.
func Step(paces workout.PaceMap, step workout.WorkoutStep) (workout.Mileage, error) {
	if step.Goal.Kind == workout.GoalDistance {
		miles := DistanceToMiles(step.Goal.Value, step.Goal.Length)
		return workout.Mileage{Min: miles, Max: miles}, nil
	}

	r, err := paceRange(paces, step.Alert)
	if err != nil {
		return workout.Mileage{}, err
	}
	if err := r.Validate(); err != nil {
		return workout.Mileage{}, err
	}
	return DurationToMiles(r, step.Goal.Value, step.Goal.Time), nil
}

func paceRange(paces workout.PaceMap, alert *workout.Alert) (workout.PaceRange, error) {
	zone := paces.Default
	if alert != nil {
		switch alert.Kind {
		case workout.AlertPaceThreshold:
			return workout.PaceRange{Min: alert.Pace, Max: alert.Pace}, nil
		case workout.AlertPaceRange:
			return alert.Range, nil
		case workout.AlertHeartRate:
			zone = alert.Zone
		}
	}
	r, ok := paces.Lookup(zone)
	if !ok {
		return workout.PaceRange{}, fmt.Errorf("%w: %s", ErrZoneNotFound, zone)
	}
	return r, nil
}

func DistanceToMiles(value float64, unit workout.LengthUnit) float64 {
	return value * unit.InMiles()
}

func TimeToSeconds(value float64, unit workout.TimeUnit) float64 {
	return value * unit.InSeconds()
}

// DurationToMiles converts running for value units of time at the given pace
// range into miles. Min uses the range Min pace and Max the range Max pace.
func DurationToMiles(r workout.PaceRange, value float64, unit workout.TimeUnit) workout.Mileage {
	seconds := TimeToSeconds(value, unit)
	return workout.Mileage{
		Min: seconds / r.Min.PerMile(),
		Max: seconds / r.Max.PerMile(),
	}
}
