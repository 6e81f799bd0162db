package workout

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"
)

// ParseClock parses "m:ss" into seconds. Seconds must be two digits below 60.
func ParseClock(s string) (float64, error) {
	idx := strings.IndexByte(s, ':')
	if idx <= 0 || idx == len(s)-1 {
		return 0, fmt.Errorf("bad clock '%s', want m:ss", s)
	}
	mm, ss := s[:idx], s[idx+1:]
	if !isDigits(mm) || !isDigits(ss) || len(ss) != 2 {
		return 0, fmt.Errorf("bad clock '%s', want m:ss", s)
	}
	min, _ := strconv.Atoi(mm)
	sec, _ := strconv.Atoi(ss)
	if sec >= 60 {
		return 0, fmt.Errorf("bad clock '%s', seconds must be below 60", s)
	}
	return float64(min*60 + sec), nil
}

// FormatClock renders seconds as "m:ss", rounding to the nearest second.
func FormatClock(seconds float64) string {
	total := int(math.Round(seconds))
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// ParsePace parses "7:30/mile".
func ParsePace(s string) (Pace, error) {
	s = strings.TrimSpace(s)
	idx := strings.IndexByte(s, '/')
	if idx < 0 {
		return Pace{}, fmt.Errorf("bad pace '%s', want m:ss/unit", s)
	}
	t, err := ParseClock(strings.TrimSpace(s[:idx]))
	if err != nil {
		return Pace{}, err
	}
	unit, ok := ParseLengthUnit(strings.TrimSpace(s[idx+1:]))
	if !ok {
		return Pace{}, fmt.Errorf("bad pace '%s', unknown length unit", s)
	}
	pace := Pace{Time: t, Unit: unit}
	if err := pace.Validate(); err != nil {
		return Pace{}, err
	}
	return pace, nil
}

func (p Pace) String() string {
	return FormatClock(p.Time) + "/" + p.Unit.Abbrev()
}

// PerMile returns the pace expressed in seconds per mile.
func (p Pace) PerMile() float64 {
	return p.Time / p.Unit.InMiles()
}

type (
	PaceMapConfig struct {
		Default string                     `yaml:"default"` // optional, z1 when empty
		Zones   map[string]PaceRangeConfig `yaml:"zones"`   // mandatory, at least 1
	}
	PaceRangeConfig struct {
		Min string `yaml:"min"` // mandatory
		Max string `yaml:"max"` // mandatory
	}
)

// PaceMap converts the config into a PaceMap. The default zone must be one of the zones.
func (c PaceMapConfig) PaceMap() (PaceMap, error) {
	if len(c.Zones) == 0 {
		return PaceMap{}, errors.New("'paces->zones' not set")
	}
	pm := PaceMap{Zones: make(map[HeartRateZone]PaceRange), Default: Z1}
	if c.Default != "" {
		z, ok := ParseHeartRateZone(c.Default)
		if !ok {
			return PaceMap{}, fmt.Errorf("'paces->default' bad zone '%s'", c.Default)
		}
		pm.Default = z
	}

	names := make([]string, 0, len(c.Zones))
	for name := range c.Zones {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		z, ok := ParseHeartRateZone(name)
		if !ok {
			return PaceMap{}, fmt.Errorf("'paces->zones' bad zone '%s'", name)
		}
		rc := c.Zones[name]
		if rc.Min == "" || rc.Max == "" {
			return PaceMap{}, fmt.Errorf("'paces->zones->%s' min and max must be set", name)
		}
		min, err := ParsePace(rc.Min)
		if err != nil {
			return PaceMap{}, fmt.Errorf("'paces->zones->%s->min': %v", name, err)
		}
		max, err := ParsePace(rc.Max)
		if err != nil {
			return PaceMap{}, fmt.Errorf("'paces->zones->%s->max': %v", name, err)
		}
		pm.Zones[z] = PaceRange{Min: min, Max: max}
	}

	if _, ok := pm.Zones[pm.Default]; !ok {
		return PaceMap{}, fmt.Errorf("'paces->default' zone %s has no pace range", pm.Default)
	}
	return pm, nil
}

// LoadPaceMap reads a YAML pace map file.
func LoadPaceMap(path string) (PaceMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return PaceMap{}, err
	}
	defer f.Close()

	var cfg PaceMapConfig
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return PaceMap{}, fmt.Errorf("decode '%s': %v", path, err)
	}
	return cfg.PaceMap()
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
