package discovery

import (
	"sort"
	"sync"

	"github.com/dashrun/dash/pipeline/model"
)

// cache keeps the latest group per source until it is sent.
type cache struct {
	mu    sync.Mutex
	items map[string]model.Group
}

func newCache() *cache {
	return &cache{
		items: make(map[string]model.Group),
	}
}

func (c *cache) update(groups []model.Group) {
	for _, group := range groups {
		if group != nil {
			c.items[group.Source()] = group
		}
	}
}

func (c *cache) reset() {
	for key := range c.items {
		delete(c.items, key)
	}
}

func (c *cache) asList() []model.Group {
	groups := make([]model.Group, 0, len(c.items))
	for _, group := range c.items {
		groups = append(groups, group)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Source() < groups[j].Source() })
	return groups
}
