// Package pipeline wires discovery, tagging, building and exporting of
// workouts for one plan config.
package pipeline

import (
	"context"
	"sort"
	"sync"

	"github.com/dashrun/dash/pipeline/model"
	"github.com/dashrun/dash/pkg/log"

	"github.com/rs/zerolog"
)

type Discoverer interface {
	Discover(ctx context.Context, in chan<- []model.Group)
}

type Tagger interface {
	Tag(model.Target)
}

type Builder interface {
	Build(model.Target) []model.Config
}

type Exporter interface {
	Export(ctx context.Context, out <-chan []model.Config)
}

type (
	Pipeline struct {
		Discoverer
		Tagger
		Builder
		Exporter

		cache cache
		log   zerolog.Logger
	}
	cache      map[string]groupCache // source:hash:configs
	groupCache map[uint64][]model.Config
)

func New(discoverer Discoverer, tagger Tagger, builder Builder, exporter Exporter) *Pipeline {
	return &Pipeline{
		Discoverer: discoverer,
		Tagger:     tagger,
		Builder:    builder,
		Exporter:   exporter,
		cache:      make(cache),
		log:        log.New("pipeline"),
	}
}

func (p *Pipeline) Run(ctx context.Context) {
	p.log.Info().Msg("instance is started")
	defer p.log.Info().Msg("instance is stopped")

	var wg sync.WaitGroup
	disc := make(chan []model.Group)
	exp := make(chan []model.Config)

	wg.Add(1)
	go func() { defer wg.Done(); p.Discover(ctx, disc) }()

	wg.Add(1)
	go func() { defer wg.Done(); p.processLoop(ctx, disc, exp) }()

	wg.Add(1)
	go func() { defer wg.Done(); p.Export(ctx, exp) }()

	wg.Wait()
}

func (p *Pipeline) processLoop(ctx context.Context, disc chan []model.Group, export chan []model.Config) {
	for {
		select {
		case <-ctx.Done():
			return
		case groups := <-disc:
			configs := p.process(groups)
			if len(configs) == 0 {
				continue
			}
			select {
			case <-ctx.Done():
			case export <- configs:
			}
		}
	}
}

func (p *Pipeline) process(groups []model.Group) (configs []model.Config) {
	for _, group := range groups {
		if len(group.Targets()) == 0 {
			configs = append(configs, p.handleEmpty(group)...)
		} else {
			configs = append(configs, p.handleNotEmpty(group)...)
		}
	}
	return configs
}

func (p *Pipeline) handleEmpty(group model.Group) []model.Config {
	grpCache, exist := p.cache[group.Source()]
	if !exist {
		return nil
	}
	delete(p.cache, group.Source())

	p.log.Info().Msgf("source '%s' is gone, withdrawing %d target(s)", group.Source(), len(grpCache))
	return stale(grpCache.drain(func(uint64) bool { return true }))
}

func (p *Pipeline) handleNotEmpty(group model.Group) (configs []model.Config) {
	grpCache, exist := p.cache[group.Source()]
	if !exist {
		grpCache = make(groupCache)
		p.cache[group.Source()] = grpCache
	}

	seen := make(map[uint64]bool)
	var added int
	for _, target := range group.Targets() {
		if target == nil {
			continue
		}
		seen[target.Hash()] = true

		if _, ok := grpCache[target.Hash()]; ok {
			continue
		}

		p.Tag(target)
		cfgs := p.Build(target)
		added++

		grpCache[target.Hash()] = cfgs
		configs = append(configs, cfgs...)
	}

	var removed []model.Config
	if exist {
		removed = grpCache.drain(func(hash uint64) bool { return !seen[hash] })
	}
	if added > 0 || len(removed) > 0 {
		p.log.Debug().Msgf("source '%s': %d new target(s), %d stale config(s)", group.Source(), added, len(removed))
	}
	return append(configs, stale(removed)...)
}

// drain removes the entries selected by fn and returns their configs ordered by hash.
func (c groupCache) drain(fn func(hash uint64) bool) (configs []model.Config) {
	hashes := make([]uint64, 0, len(c))
	for hash := range c {
		if fn(hash) {
			hashes = append(hashes, hash)
		}
	}
	sort.Slice(hashes, func(i, j int) bool { return hashes[i] < hashes[j] })

	for _, hash := range hashes {
		configs = append(configs, c[hash]...)
		delete(c, hash)
	}
	return configs
}

func stale(configs []model.Config) []model.Config {
	for i := range configs {
		configs[i].Stale = true
	}
	return configs
}
