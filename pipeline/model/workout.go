package model

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dashrun/dash/pkg/mileage"
	"github.com/dashrun/dash/pkg/parser"
	"github.com/dashrun/dash/pkg/workout"

	"github.com/ilyam8/hashstructure"
)

// WorkoutTarget is a parsed workout found by a discoverer. Templates see its
// exported fields, e.g. {{.Name}} or {{miles .Mileage.Max}}.
type WorkoutTarget struct {
	Base        `hash:"ignore"`
	hash        uint64
	tuid        string
	estimateErr error

	Source   string
	Name     string
	Notation string
	Labels   map[string]string

	Workout workout.Workout
	// Mileage is only meaningful when Estimated is set.
	Mileage   workout.Mileage
	Estimated bool
}

// NewWorkoutTarget parses notation and, given a pace map, estimates its
// mileage. A failed estimate leaves Estimated unset, only a parse failure is an error.
func NewWorkoutTarget(source, name, notation string, paces *workout.PaceMap) (*WorkoutTarget, error) {
	w, err := parser.Parse(notation)
	if err != nil {
		return nil, err
	}

	t := &WorkoutTarget{
		tuid:     source + "/" + name,
		Source:   source,
		Name:     name,
		Notation: notation,
		Workout:  w,
	}
	if paces != nil {
		if m, err := mileage.Of(*paces, w); err != nil {
			t.estimateErr = err
		} else {
			t.Mileage, t.Estimated = m, true
		}
	}
	return t, nil
}

// WithLabels sets the labels and recomputes the hash.
func (t *WorkoutTarget) WithLabels(labels map[string]string) *WorkoutTarget {
	t.Labels = labels
	t.hash = 0
	return t
}

// Hash covers the exported fields, none of which hashstructure rejects.
func (t *WorkoutTarget) Hash() uint64 {
	if t.hash == 0 {
		t.hash, _ = hashstructure.Hash(t, nil)
	}
	return t.hash
}

func (t *WorkoutTarget) TUID() string        { return t.tuid }
func (t *WorkoutTarget) EstimateErr() error  { return t.estimateErr }
func (t *WorkoutTarget) Steps() uint64       { return t.Workout.StepCount() }
func (t *WorkoutTarget) String() string      { return fmt.Sprintf("%s: %s", t.Name, t.Workout) }
func (t *WorkoutTarget) HasWarmup() bool     { return t.Workout.Warmup != nil }
func (t *WorkoutTarget) HasCooldown() bool   { return t.Workout.Cooldown != nil }
func (t *WorkoutTarget) IntervalBlocks() int { return len(t.Workout.Intervals) }

// Entry is one workout definition in a workout list.
type Entry struct {
	Line     int
	Name     string
	Notation string
}

var reNamed = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_.-]*)\s*:\s*(.*)$`)

// ParseEntries reads a workout list: one workout per line, either
// "name: notation" or bare notation named after its line number. Blank
// lines and lines starting with '#' are skipped.
func ParseEntries(data string) []Entry {
	var entries []Entry
	for i, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		e := Entry{Line: i + 1, Name: fmt.Sprintf("line%d", i+1), Notation: line}
		if m := reNamed.FindStringSubmatch(line); m != nil {
			e.Name, e.Notation = m[1], strings.TrimSpace(m[2])
		}
		entries = append(entries, e)
	}
	return entries
}
