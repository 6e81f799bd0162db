package workout

import (
	"strconv"
	"strings"
)

// String renders the workout in the notation accepted by the parser.
func (w Workout) String() string {
	var parts []string
	if w.Warmup != nil {
		parts = append(parts, w.Warmup.String()+" warmup")
	}
	for _, block := range w.Intervals {
		parts = append(parts, block.String())
	}
	if w.Cooldown != nil {
		parts = append(parts, w.Cooldown.String()+" cooldown")
	}
	return strings.Join(parts, " + ")
}

func (b IntervalBlock) String() string {
	steps := make([]string, 0, len(b.Steps))
	for _, s := range b.Steps {
		steps = append(steps, s.String())
	}
	inner := strings.Join(steps, " + ")
	if b.Repeats == nil {
		return inner
	}
	return strconv.FormatUint(uint64(*b.Repeats), 10) + " x (" + inner + ")"
}

func (s IntervalStep) String() string {
	if s.HasRecovery {
		return s.Step.String() + " recovery"
	}
	return s.Step.String()
}

func (s WorkoutStep) String() string {
	if s.Alert == nil {
		return s.Goal.String()
	}
	return s.Goal.String() + " @" + s.Alert.String()
}

func (g Goal) String() string {
	value := strconv.FormatFloat(g.Value, 'f', -1, 64)
	if g.Kind == GoalDuration {
		return value + " " + g.Time.Abbrev()
	}
	if g.Length == Miles && g.Value != 1 {
		return value + " miles"
	}
	return value + " " + g.Length.Abbrev()
}

func (a Alert) String() string {
	switch a.Kind {
	case AlertHeartRate:
		return strings.ToLower(a.Zone.String())
	case AlertPaceThreshold:
		return a.Pace.String()
	case AlertPaceRange:
		return FormatClock(a.Range.Min.Time) + "-" + FormatClock(a.Range.Max.Time) + "/" + a.Range.Min.Unit.Abbrev()
	}
	return ""
}
