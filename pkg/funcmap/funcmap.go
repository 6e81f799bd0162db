// Package funcmap is the template function set used by tag conditions and
// build templates: sprig's text functions plus matching and workout formatting helpers.
package funcmap

import (
	"reflect"
	"regexp"
	"strconv"
	"sync"
	"text/template"

	"github.com/dashrun/dash/pkg/workout"

	"github.com/Masterminds/sprig/v3"
	"github.com/gobwas/glob"
)

var FuncMap = func() template.FuncMap {
	fm := sprig.TxtFuncMap()
	for name, fn := range custom {
		fm[name] = fn
	}
	return fm
}()

var custom = template.FuncMap{
	"glob":   globAny,
	"re":     regexpAny,
	"equal":  equalAny,
	"hasKey": hasKeyAny,
	"miles":  formatMiles,
	"clock":  workout.FormatClock,
	"pace":   formatPace,
}

// globAny reports whether value matches any of the patterns.
func globAny(value, pattern string, rest ...string) bool {
	if globOnce(value, pattern) {
		return true
	}
	for _, p := range rest {
		if globOnce(value, p) {
			return true
		}
	}
	return false
}

func regexpAny(value, pattern string, rest ...string) bool {
	if regexpOnce(value, pattern) {
		return true
	}
	for _, p := range rest {
		if regexpOnce(value, p) {
			return true
		}
	}
	return false
}

func equalAny(value, pattern string, rest ...string) bool {
	if value == pattern {
		return true
	}
	for _, p := range rest {
		if value == p {
			return true
		}
	}
	return false
}

// hasKeyAny reports whether the map has any of the keys. Non maps have no keys.
func hasKeyAny(value interface{}, key string, rest ...string) bool {
	v := reflect.Indirect(reflect.ValueOf(value))
	if v.Kind() != reflect.Map || v.Type().Key().Kind() != reflect.String {
		return false
	}
	keys := append([]string{key}, rest...)
	for _, k := range keys {
		if k == "" {
			continue
		}
		if v.MapIndex(reflect.ValueOf(k).Convert(v.Type().Key())).IsValid() {
			return true
		}
	}
	return false
}

// formatMiles renders a distance with two decimals, e.g. "6.25".
func formatMiles(miles float64) string {
	return strconv.FormatFloat(miles, 'f', 2, 64)
}

func formatPace(p workout.Pace) string {
	return p.String()
}

func globOnce(value, pattern string) bool {
	g, _ := globStore(pattern)
	return g != nil && g.Match(value)
}

func regexpOnce(value, pattern string) bool {
	r, _ := regexpStore(pattern)
	return r != nil && r.MatchString(value)
}

var globStore = func() func(pattern string) (glob.Glob, error) {
	var mu sync.Mutex
	store := make(map[string]struct {
		g   glob.Glob
		err error
	})

	return func(pattern string) (glob.Glob, error) {
		if pattern == "" {
			return nil, nil
		}
		mu.Lock()
		defer mu.Unlock()
		r, ok := store[pattern]
		if !ok {
			r.g, r.err = glob.Compile(pattern, '/')
			store[pattern] = r
		}
		return r.g, r.err
	}
}()

var regexpStore = func() func(pattern string) (*regexp.Regexp, error) {
	var mu sync.Mutex
	store := make(map[string]struct {
		r   *regexp.Regexp
		err error
	})

	return func(pattern string) (*regexp.Regexp, error) {
		if pattern == "" {
			return nil, nil
		}
		mu.Lock()
		defer mu.Unlock()
		r, ok := store[pattern]
		if !ok {
			r.r, r.err = regexp.Compile(pattern)
			store[pattern] = r
		}
		return r.r, r.err
	}
}()
