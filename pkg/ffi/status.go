// Package ffi is the host-facing surface of the core: integer status codes,
// JSON encoded values and opaque workout handles. cmd/libdash exposes it over
// the C ABI.
package ffi

import (
	"errors"
	"sync"

	"github.com/dashrun/dash/pkg/mileage"
	"github.com/dashrun/dash/pkg/parser"
	"github.com/dashrun/dash/pkg/workout"
)

type Status int

const (
	StatusOK Status = iota
	StatusParse
	StatusInvalidArgument
	StatusInvalidHandle
	StatusZoneNotFound
	StatusInternal
)

var statusNames = map[Status]string{
	StatusOK:              "OK",
	StatusParse:           "PARSE",
	StatusInvalidArgument: "INVALID_ARGUMENT",
	StatusInvalidHandle:   "INVALID_HANDLE",
	StatusZoneNotFound:    "ZONE_NOT_FOUND",
	StatusInternal:        "INTERNAL",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrInvalidHandle   = errors.New("invalid workout handle")
)

// StatusOf maps an error returned by this package to the status reported to the host.
func StatusOf(err error) Status {
	var perr *parser.Error

	switch {
	case err == nil:
		return StatusOK
	case errors.As(err, &perr):
		return StatusParse
	case errors.Is(err, mileage.ErrZoneNotFound):
		return StatusZoneNotFound
	case errors.Is(err, ErrInvalidHandle):
		return StatusInvalidHandle
	case errors.Is(err, ErrInvalidArgument), errors.Is(err, workout.ErrBadPace):
		return StatusInvalidArgument
	default:
		return StatusInternal
	}
}

// ErrorSlot keeps the message of the last failed call.
type ErrorSlot struct {
	mu  sync.Mutex
	msg string
}

// Set records err (a nil err clears the slot) and returns its status.
func (s *ErrorSlot) Set(err error) Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err == nil {
		s.msg = ""
	} else {
		s.msg = err.Error()
	}
	return StatusOf(err)
}

func (s *ErrorSlot) Get() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.msg
}
