package workout

import (
	"fmt"
	"strings"
)

type LengthUnit int

const (
	Miles LengthUnit = iota
	Yards
	Feet
	Meters
	Kilometers
)

var lengthNames = map[LengthUnit]string{
	Miles:      "Miles",
	Yards:      "Yards",
	Feet:       "Feet",
	Meters:     "Meters",
	Kilometers: "Kilometers",
}

var lengthWords = map[string]LengthUnit{
	"mile": Miles, "miles": Miles, "mi": Miles,
	"yard": Yards, "yards": Yards, "yd": Yards, "yds": Yards,
	"foot": Feet, "feet": Feet, "ft": Feet,
	"meter": Meters, "meters": Meters, "metre": Meters, "metres": Meters, "m": Meters,
	"kilometer": Kilometers, "kilometers": Kilometers, "kilometre": Kilometers, "kilometres": Kilometers, "km": Kilometers,
}

// milesPer holds how many miles one unit is.
var milesPer = map[LengthUnit]float64{
	Miles:      1.0,
	Yards:      0.000568182,
	Feet:       0.000189394,
	Meters:     0.000621371,
	Kilometers: 0.621371,
}

func (u LengthUnit) String() string {
	if s, ok := lengthNames[u]; ok {
		return s
	}
	return fmt.Sprintf("LengthUnit(%d)", int(u))
}

// Abbrev is the short form used when rendering notation.
func (u LengthUnit) Abbrev() string {
	switch u {
	case Miles:
		return "mile"
	case Yards:
		return "yd"
	case Feet:
		return "ft"
	case Meters:
		return "m"
	case Kilometers:
		return "km"
	}
	return u.String()
}

// InMiles returns how many miles one unit is.
func (u LengthUnit) InMiles() float64 { return milesPer[u] }

func ParseLengthUnit(word string) (LengthUnit, bool) {
	word = strings.ToLower(word)
	if u, ok := lengthWords[word]; ok {
		return u, true
	}
	for u, name := range lengthNames {
		if strings.ToLower(name) == word {
			return u, true
		}
	}
	return 0, false
}

func (u LengthUnit) MarshalText() ([]byte, error) {
	if _, ok := lengthNames[u]; !ok {
		return nil, fmt.Errorf("unknown length unit %d", int(u))
	}
	return []byte(u.String()), nil
}

func (u *LengthUnit) UnmarshalText(text []byte) error {
	v, ok := ParseLengthUnit(string(text))
	if !ok {
		return fmt.Errorf("unknown length unit '%s'", text)
	}
	*u = v
	return nil
}

type TimeUnit int

const (
	Seconds TimeUnit = iota
	Minutes
	Hours
)

var timeNames = map[TimeUnit]string{
	Seconds: "Seconds",
	Minutes: "Minutes",
	Hours:   "Hours",
}

var timeWords = map[string]TimeUnit{
	"second": Seconds, "seconds": Seconds, "sec": Seconds, "secs": Seconds, "s": Seconds,
	"minute": Minutes, "minutes": Minutes, "min": Minutes, "mins": Minutes,
	"hour": Hours, "hours": Hours, "hr": Hours, "hrs": Hours, "h": Hours,
}

func (u TimeUnit) String() string {
	if s, ok := timeNames[u]; ok {
		return s
	}
	return fmt.Sprintf("TimeUnit(%d)", int(u))
}

func (u TimeUnit) Abbrev() string {
	switch u {
	case Seconds:
		return "sec"
	case Minutes:
		return "min"
	case Hours:
		return "hr"
	}
	return u.String()
}

// InSeconds returns how many seconds one unit is.
func (u TimeUnit) InSeconds() float64 {
	switch u {
	case Minutes:
		return 60
	case Hours:
		return 3600
	default:
		return 1
	}
}

func ParseTimeUnit(word string) (TimeUnit, bool) {
	word = strings.ToLower(word)
	if u, ok := timeWords[word]; ok {
		return u, true
	}
	return 0, false
}

func (u TimeUnit) MarshalText() ([]byte, error) {
	if _, ok := timeNames[u]; !ok {
		return nil, fmt.Errorf("unknown time unit %d", int(u))
	}
	return []byte(u.String()), nil
}

func (u *TimeUnit) UnmarshalText(text []byte) error {
	v, ok := ParseTimeUnit(string(text))
	if !ok {
		return fmt.Errorf("unknown time unit '%s'", text)
	}
	*u = v
	return nil
}

type HeartRateZone int

const (
	Z1 HeartRateZone = iota + 1
	Z2
	Z3
	Z4
	Z5
)

func (z HeartRateZone) Valid() bool { return z >= Z1 && z <= Z5 }

func (z HeartRateZone) String() string {
	if z.Valid() {
		return fmt.Sprintf("Z%d", int(z))
	}
	return fmt.Sprintf("HeartRateZone(%d)", int(z))
}

func ParseHeartRateZone(word string) (HeartRateZone, bool) {
	word = strings.ToLower(word)
	if len(word) != 2 || word[0] != 'z' {
		return 0, false
	}
	z := HeartRateZone(word[1] - '0')
	return z, z.Valid()
}

func (z HeartRateZone) MarshalText() ([]byte, error) {
	if !z.Valid() {
		return nil, fmt.Errorf("unknown heart rate zone %d", int(z))
	}
	return []byte(z.String()), nil
}

func (z *HeartRateZone) UnmarshalText(text []byte) error {
	v, ok := ParseHeartRateZone(string(text))
	if !ok {
		return fmt.Errorf("unknown heart rate zone '%s'", text)
	}
	*z = v
	return nil
}
