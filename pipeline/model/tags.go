package model

import (
	"fmt"
	"sort"
	"strings"
)

// Tags is a set of words attached to targets and configs. Selectors match on them.
type Tags map[string]struct{}

func NewTags() Tags {
	return Tags{}
}

// Merge adds tags, a tag prefixed with '-' removes the tag instead.
func (t Tags) Merge(tags Tags) {
	for tag := range tags {
		if strings.HasPrefix(tag, "-") {
			delete(t, tag[1:])
		} else {
			t[tag] = struct{}{}
		}
	}
}

func (t Tags) Has(tag string) bool {
	_, ok := t[tag]
	return ok
}

func (t Tags) Clone() Tags {
	ts := make(Tags, len(t))
	for tag := range t {
		ts[tag] = struct{}{}
	}
	return ts
}

func (t Tags) List() []string {
	ts := make([]string, 0, len(t))
	for tag := range t {
		ts = append(ts, tag)
	}
	sort.Strings(ts)
	return ts
}

func (t Tags) String() string {
	return fmt.Sprintf("{%s}", strings.Join(t.List(), ", "))
}

// ParseTags parses a space separated list of tags. Each tag may be prefixed
// with '-' to mark it for removal on Merge.
func ParseTags(line string) (Tags, error) {
	tags := NewTags()
	for _, tag := range strings.Fields(line) {
		if !isTagName(strings.TrimPrefix(tag, "-")) {
			return nil, fmt.Errorf("bad tag '%s'", tag)
		}
		tags[tag] = struct{}{}
	}
	return tags, nil
}

func MustParseTags(line string) Tags {
	tags, err := ParseTags(line)
	if err != nil {
		panic(fmt.Sprintf("tags '%s' parse error: %v", line, err))
	}
	return tags
}

func isTagName(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '_', c == '-', c == '.', c == '/', c == '=', c == ':':
		default:
			return false
		}
	}
	return true
}
