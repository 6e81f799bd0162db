package export

import (
	"sort"

	"github.com/dashrun/dash/pipeline/model"
)

// cache counts how many targets currently produce each config text.
type cache map[string]int

func (c cache) put(cfg model.Config) (changed bool) {
	count, ok := c[cfg.Conf]
	if !cfg.Stale {
		c[cfg.Conf]++
		return !ok
	}
	if !ok {
		return false
	}
	if count--; count > 0 {
		c[cfg.Conf] = count
		return false
	}
	delete(c, cfg.Conf)
	return true
}

func (c cache) lines() []string {
	lines := make([]string, 0, len(c))
	for conf := range c {
		lines = append(lines, conf)
	}
	sort.Strings(lines)
	return lines
}
