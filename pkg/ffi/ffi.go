package ffi

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dashrun/dash/pkg/mileage"
	"github.com/dashrun/dash/pkg/parser"
	"github.com/dashrun/dash/pkg/workout"
)

// GetWorkoutJSON parses notation and returns the workout encoded as JSON.
func GetWorkoutJSON(input string) (string, error) {
	w, err := parser.Parse(input)
	if err != nil {
		return "", err
	}
	return encode(w)
}

// GetMileageJSON estimates the mileage of a JSON encoded workout with a JSON
// encoded pace map and returns it as {"min":..,"max":..}.
func GetMileageJSON(paceMapJSON, workoutJSON string) (string, error) {
	paces, err := decodePaceMap(paceMapJSON)
	if err != nil {
		return "", err
	}
	var w workout.Workout
	if err := decode(workoutJSON, &w); err != nil {
		return "", fmt.Errorf("workout: %w", err)
	}
	if err := w.Validate(); err != nil {
		return "", fmt.Errorf("workout: %w: %v", ErrInvalidArgument, err)
	}
	return mileageJSON(paces, w)
}

type Handle uint64

// Registry owns the workouts handed to the host as handles. Handles start
// from 1 and are never reused. It is safe for concurrent use.
type Registry struct {
	mu       sync.Mutex
	last     Handle
	workouts map[Handle]workout.Workout
}

func NewRegistry() *Registry {
	return &Registry{workouts: make(map[Handle]workout.Workout)}
}

// Parse parses notation and stores the result under a new handle.
func (r *Registry) Parse(input string) (Handle, error) {
	w, err := parser.Parse(input)
	if err != nil {
		return 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.last++
	r.workouts[r.last] = w
	return r.last, nil
}

func (r *Registry) Workout(h Handle) (workout.Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.workouts[h]
	if !ok {
		return workout.Workout{}, fmt.Errorf("%w: %d", ErrInvalidHandle, h)
	}
	return w, nil
}

func (r *Registry) JSON(h Handle) (string, error) {
	w, err := r.Workout(h)
	if err != nil {
		return "", err
	}
	return encode(w)
}

func (r *Registry) Mileage(h Handle, paceMapJSON string) (string, error) {
	w, err := r.Workout(h)
	if err != nil {
		return "", err
	}
	paces, err := decodePaceMap(paceMapJSON)
	if err != nil {
		return "", err
	}
	return mileageJSON(paces, w)
}

// Release drops the workout behind h. Releasing an unknown or already
// released handle fails with ErrInvalidHandle.
func (r *Registry) Release(h Handle) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.workouts[h]; !ok {
		return fmt.Errorf("%w: %d", ErrInvalidHandle, h)
	}
	delete(r.workouts, h)
	return nil
}

// Len returns the number of live handles.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.workouts)
}

func mileageJSON(paces workout.PaceMap, w workout.Workout) (string, error) {
	m, err := mileage.Of(paces, w)
	if err != nil {
		return "", err
	}
	return encode(m)
}

// decodePaceMap decodes a JSON pace map. A missing default zone means Z1.
func decodePaceMap(data string) (workout.PaceMap, error) {
	var paces workout.PaceMap
	if err := decode(data, &paces); err != nil {
		return workout.PaceMap{}, fmt.Errorf("pace map: %w", err)
	}
	if paces.Default == 0 {
		paces.Default = workout.Z1
	}
	if err := paces.Validate(); err != nil {
		return workout.PaceMap{}, fmt.Errorf("pace map: %w: %v", ErrInvalidArgument, err)
	}
	return paces, nil
}

func decode(data string, v interface{}) error {
	if data == "" {
		return fmt.Errorf("%w: empty input", ErrInvalidArgument)
	}
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return nil
}

func encode(v interface{}) (string, error) {
	bs, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(bs), nil
}
