package model

import (
	"fmt"
	"strings"
)

// Selector decides whether a set of tags is selected.
//
// Syntax: space separated words, all of which must match. A word is '*'
// (anything), a tag, '!tag' (tag absent) or several of these joined by '|'
// where any may match, e.g. "workout !draft tempo|intervals".
type Selector interface {
	Matches(Tags) bool
}

type (
	exactSelector string
	trueSelector  struct{}
	negSelector   struct{ Selector }
	orSelector    []Selector
	andSelector   []Selector
)

func (s exactSelector) Matches(tags Tags) bool { _, ok := tags[string(s)]; return ok }
func (trueSelector) Matches(Tags) bool         { return true }
func (s negSelector) Matches(tags Tags) bool   { return !s.Selector.Matches(tags) }

func (s orSelector) Matches(tags Tags) bool {
	for _, sr := range s {
		if sr.Matches(tags) {
			return true
		}
	}
	return false
}

func (s andSelector) Matches(tags Tags) bool {
	for _, sr := range s {
		if !sr.Matches(tags) {
			return false
		}
	}
	return true
}

// ParseSelector parses a selector line. An empty line selects everything.
func ParseSelector(line string) (Selector, error) {
	words := strings.Fields(line)
	switch len(words) {
	case 0:
		return trueSelector{}, nil
	case 1:
		return parseWord(words[0])
	}

	var and andSelector
	for _, word := range words {
		sr, err := parseWord(word)
		if err != nil {
			return nil, err
		}
		and = append(and, sr)
	}
	return and, nil
}

func MustParseSelector(line string) Selector {
	sr, err := ParseSelector(line)
	if err != nil {
		panic(fmt.Sprintf("selector '%s' parse error: %v", line, err))
	}
	return sr
}

func parseWord(word string) (Selector, error) {
	terms := strings.Split(word, "|")
	if len(terms) == 1 {
		return parseTerm(word)
	}

	var or orSelector
	for _, term := range terms {
		sr, err := parseTerm(term)
		if err != nil {
			return nil, fmt.Errorf("selector '%s': %v", word, err)
		}
		or = append(or, sr)
	}
	return or, nil
}

func parseTerm(term string) (Selector, error) {
	switch {
	case term == "*":
		return trueSelector{}, nil
	case strings.HasPrefix(term, "!"):
		sr, err := parseTerm(term[1:])
		if err != nil {
			return nil, err
		}
		return negSelector{sr}, nil
	case isTagName(term) && !strings.HasPrefix(term, "-"):
		return exactSelector(term), nil
	default:
		return nil, fmt.Errorf("bad selector term '%s'", term)
	}
}
