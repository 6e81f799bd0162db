package workout

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Goal and Alert are encoded as single-key objects naming the variant, e.g.
// {"Distance":{"value":1,"unit":"Miles"}} or {"HeartRate":"Z3"}.

type (
	distanceJSON struct {
		Value float64    `json:"value"`
		Unit  LengthUnit `json:"unit"`
	}
	durationJSON struct {
		Value float64  `json:"value"`
		Unit  TimeUnit `json:"unit"`
	}
	goalJSON struct {
		Distance *distanceJSON `json:"Distance,omitempty"`
		Duration *durationJSON `json:"Duration,omitempty"`
	}
	alertJSON struct {
		HeartRate     *HeartRateZone `json:"HeartRate,omitempty"`
		PaceThreshold *Pace          `json:"PaceThreshold,omitempty"`
		PaceRange     *PaceRange     `json:"PaceRange,omitempty"`
	}
)

func (g Goal) MarshalJSON() ([]byte, error) {
	var v goalJSON
	switch g.Kind {
	case GoalDistance:
		v.Distance = &distanceJSON{Value: g.Value, Unit: g.Length}
	case GoalDuration:
		v.Duration = &durationJSON{Value: g.Value, Unit: g.Time}
	default:
		return nil, fmt.Errorf("unknown goal kind %d", g.Kind)
	}
	return json.Marshal(v)
}

func (g *Goal) UnmarshalJSON(data []byte) error {
	var v goalJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch {
	case v.Distance != nil && v.Duration == nil:
		*g = Distance(v.Distance.Value, v.Distance.Unit)
	case v.Duration != nil && v.Distance == nil:
		*g = Duration(v.Duration.Value, v.Duration.Unit)
	default:
		return errors.New("goal: want exactly one of 'Distance' or 'Duration'")
	}
	return nil
}

func (a Alert) MarshalJSON() ([]byte, error) {
	var v alertJSON
	switch a.Kind {
	case AlertHeartRate:
		zone := a.Zone
		v.HeartRate = &zone
	case AlertPaceThreshold:
		pace := a.Pace
		v.PaceThreshold = &pace
	case AlertPaceRange:
		r := a.Range
		v.PaceRange = &r
	default:
		return nil, fmt.Errorf("unknown alert kind %d", a.Kind)
	}
	return json.Marshal(v)
}

func (a *Alert) UnmarshalJSON(data []byte) error {
	var v alertJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	n := 0
	if v.HeartRate != nil {
		n++
		*a = Alert{Kind: AlertHeartRate, Zone: *v.HeartRate}
	}
	if v.PaceThreshold != nil {
		n++
		*a = Alert{Kind: AlertPaceThreshold, Pace: *v.PaceThreshold}
	}
	if v.PaceRange != nil {
		n++
		*a = Alert{Kind: AlertPaceRange, Range: *v.PaceRange}
	}
	if n != 1 {
		return errors.New("alert: want exactly one of 'HeartRate', 'PaceThreshold' or 'PaceRange'")
	}
	return nil
}

// MarshalJSON always emits "intervals" as a list, never null.
func (w Workout) MarshalJSON() ([]byte, error) {
	type plain Workout
	v := plain(w)
	if v.Intervals == nil {
		v.Intervals = []IntervalBlock{}
	}
	return json.Marshal(v)
}

func (b IntervalBlock) MarshalJSON() ([]byte, error) {
	type plain IntervalBlock
	v := plain(b)
	if v.Steps == nil {
		v.Steps = []IntervalStep{}
	}
	return json.Marshal(v)
}
