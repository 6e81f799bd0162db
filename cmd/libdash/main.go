// Command libdash builds the C ABI of the core:
//
//	go build -buildmode=c-shared -o libdash.so ./cmd/libdash
//
// Every char* written to an out parameter, and the one returned by
// dash_last_error, is owned by the caller and must be released with
// dash_string_free. Handles must be released with dash_workout_release.
package main

/*
#include <stdint.h>
#include <stdlib.h>
*/
import "C"
import (
	"unsafe"

	"github.com/dashrun/dash/pkg/ffi"
)

var (
	registry = ffi.NewRegistry()
	lastErr  ffi.ErrorSlot
)

//export dash_get_workout
func dash_get_workout(input *C.char, out **C.char) C.int {
	if input == nil || out == nil {
		return result(ffi.ErrInvalidArgument)
	}
	s, err := ffi.GetWorkoutJSON(C.GoString(input))
	return write(out, s, err)
}

//export dash_get_mileage
func dash_get_mileage(paceMapJSON, workoutJSON *C.char, out **C.char) C.int {
	if paceMapJSON == nil || workoutJSON == nil || out == nil {
		return result(ffi.ErrInvalidArgument)
	}
	s, err := ffi.GetMileageJSON(C.GoString(paceMapJSON), C.GoString(workoutJSON))
	return write(out, s, err)
}

//export dash_workout_parse
func dash_workout_parse(input *C.char, handle *C.uint64_t) C.int {
	if input == nil || handle == nil {
		return result(ffi.ErrInvalidArgument)
	}
	h, err := registry.Parse(C.GoString(input))
	if err != nil {
		return result(err)
	}
	*handle = C.uint64_t(h)
	return result(nil)
}

//export dash_workout_json
func dash_workout_json(handle C.uint64_t, out **C.char) C.int {
	if out == nil {
		return result(ffi.ErrInvalidArgument)
	}
	s, err := registry.JSON(ffi.Handle(handle))
	return write(out, s, err)
}

//export dash_workout_mileage
func dash_workout_mileage(handle C.uint64_t, paceMapJSON *C.char, out **C.char) C.int {
	if paceMapJSON == nil || out == nil {
		return result(ffi.ErrInvalidArgument)
	}
	s, err := registry.Mileage(ffi.Handle(handle), C.GoString(paceMapJSON))
	return write(out, s, err)
}

//export dash_workout_release
func dash_workout_release(handle C.uint64_t) C.int {
	return result(registry.Release(ffi.Handle(handle)))
}

//export dash_string_free
func dash_string_free(s *C.char) {
	if s != nil {
		C.free(unsafe.Pointer(s))
	}
}

//export dash_last_error
func dash_last_error() *C.char {
	msg := lastErr.Get()
	if msg == "" {
		return nil
	}
	return C.CString(msg)
}

func write(out **C.char, s string, err error) C.int {
	if err != nil {
		return result(err)
	}
	*out = C.CString(s)
	return result(nil)
}

// result keeps the message of a failure until the next failure.
func result(err error) C.int {
	if err == nil {
		return C.int(ffi.StatusOK)
	}
	return C.int(lastErr.Set(err))
}

func main() {}
