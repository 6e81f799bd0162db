// Package workout holds the data model shared by the parser, the mileage
// estimator and the binding layers.
package workout

import (
	"errors"
	"fmt"
)

type (
	Workout struct {
		Warmup    *WorkoutStep    `json:"warmup"`
		Intervals []IntervalBlock `json:"intervals"`
		Cooldown  *WorkoutStep    `json:"cooldown"`
	}
	IntervalBlock struct {
		// Repeats is nil for a block written without a "N x (...)" prefix.
		Repeats *uint32        `json:"repeats"`
		Steps   []IntervalStep `json:"steps"`
	}
	IntervalStep struct {
		Step        WorkoutStep `json:"step"`
		HasRecovery bool        `json:"has_recovery"`
	}
	WorkoutStep struct {
		Goal  Goal   `json:"goal"`
		Alert *Alert `json:"alert"`
	}
)

type GoalKind int

const (
	GoalDistance GoalKind = iota
	GoalDuration
)

// Goal is either a distance (Value in Length units) or a duration (Value in Time units).
type Goal struct {
	Kind   GoalKind
	Value  float64
	Length LengthUnit
	Time   TimeUnit
}

func Distance(value float64, unit LengthUnit) Goal {
	return Goal{Kind: GoalDistance, Value: value, Length: unit}
}

func Duration(value float64, unit TimeUnit) Goal {
	return Goal{Kind: GoalDuration, Value: value, Time: unit}
}

type AlertKind int

const (
	AlertHeartRate AlertKind = iota
	AlertPaceThreshold
	AlertPaceRange
)

type Alert struct {
	Kind AlertKind
	// Zone is set for AlertHeartRate.
	Zone HeartRateZone
	// Pace is set for AlertPaceThreshold.
	Pace Pace
	// Range is set for AlertPaceRange.
	Range PaceRange
}

func HeartRate(zone HeartRateZone) *Alert {
	return &Alert{Kind: AlertHeartRate, Zone: zone}
}

func PaceThreshold(pace Pace) *Alert {
	return &Alert{Kind: AlertPaceThreshold, Pace: pace}
}

func PaceBetween(min, max Pace) *Alert {
	return &Alert{Kind: AlertPaceRange, Range: PaceRange{Min: min, Max: max}}
}

// Pace is the time, in seconds, needed to cover one Unit.
type Pace struct {
	Time float64    `json:"time"`
	Unit LengthUnit `json:"unit"`
}

type PaceRange struct {
	Min Pace `json:"min"`
	Max Pace `json:"max"`
}

// PaceMap maps heart rate zones to the pace range a runner holds in them.
// Default is used for duration steps that carry no alert.
type PaceMap struct {
	Zones   map[HeartRateZone]PaceRange `json:"zones"`
	Default HeartRateZone               `json:"default"`
}

func (pm PaceMap) Lookup(zone HeartRateZone) (PaceRange, bool) {
	r, ok := pm.Zones[zone]
	return r, ok
}

// ErrBadPace is returned for a pace that covers no distance, such as 0:00/mile.
var ErrBadPace = errors.New("pace must be above 0:00")

func (p Pace) Validate() error {
	if !(p.Time > 0) {
		return fmt.Errorf("%w: %s", ErrBadPace, p)
	}
	return nil
}

func (r PaceRange) Validate() error {
	if err := r.Min.Validate(); err != nil {
		return err
	}
	return r.Max.Validate()
}

func (pm PaceMap) Validate() error {
	for zone, r := range pm.Zones {
		if err := r.Validate(); err != nil {
			return fmt.Errorf("zone %s: %w", zone, err)
		}
	}
	return nil
}

// Validate checks the paces of every alert.
func (w Workout) Validate() error {
	if w.Warmup != nil {
		if err := w.Warmup.Validate(); err != nil {
			return fmt.Errorf("warmup: %w", err)
		}
	}
	for i, block := range w.Intervals {
		for j, step := range block.Steps {
			if err := step.Step.Validate(); err != nil {
				return fmt.Errorf("interval %d step %d: %w", i+1, j+1, err)
			}
		}
	}
	if w.Cooldown != nil {
		if err := w.Cooldown.Validate(); err != nil {
			return fmt.Errorf("cooldown: %w", err)
		}
	}
	return nil
}

func (s WorkoutStep) Validate() error {
	if s.Alert == nil {
		return nil
	}
	switch s.Alert.Kind {
	case AlertPaceThreshold:
		return s.Alert.Pace.Validate()
	case AlertPaceRange:
		return s.Alert.Range.Validate()
	}
	return nil
}

type Mileage struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (m Mileage) Add(other Mileage) Mileage {
	return Mileage{Min: m.Min + other.Min, Max: m.Max + other.Max}
}

func (m Mileage) Scale(n float64) Mileage {
	return Mileage{Min: m.Min * n, Max: m.Max * n}
}

func Repeats(n uint32) *uint32 { return &n }

// StepCount returns the number of steps run, repeats included.
func (w Workout) StepCount() uint64 {
	var n uint64
	if w.Warmup != nil {
		n++
	}
	for _, block := range w.Intervals {
		repeats := uint64(1)
		if block.Repeats != nil {
			repeats = uint64(*block.Repeats)
		}
		n += uint64(len(block.Steps)) * repeats
	}
	if w.Cooldown != nil {
		n++
	}
	return n
}

// Steps returns every step of the workout in execution order, repeats unrolled.
func (w Workout) Steps() []WorkoutStep {
	var steps []WorkoutStep
	if w.Warmup != nil {
		steps = append(steps, *w.Warmup)
	}
	for _, block := range w.Intervals {
		n := uint32(1)
		if block.Repeats != nil {
			n = *block.Repeats
		}
		for i := uint32(0); i < n; i++ {
			for _, step := range block.Steps {
				steps = append(steps, step.Step)
			}
		}
	}
	if w.Cooldown != nil {
		steps = append(steps, *w.Cooldown)
	}
	return steps
}
