// Package manager runs one planner pipeline per plan config source.
package manager

import (
	"context"
	"fmt"
	"sync"

	"github.com/dashrun/dash/manager/config"
	"github.com/dashrun/dash/pipeline"
	"github.com/dashrun/dash/pipeline/build"
	"github.com/dashrun/dash/pipeline/discovery"
	"github.com/dashrun/dash/pipeline/export"
	"github.com/dashrun/dash/pipeline/tag"
	"github.com/dashrun/dash/pkg/log"

	"github.com/rs/zerolog"
)

type (
	Manager struct {
		prov ConfigProvider

		factory factory

		cache     map[string]uint64
		pipelines map[string]func()
		log       zerolog.Logger
	}
	ConfigProvider interface {
		Run(ctx context.Context)
		Configs() chan []config.Config
	}
	planPipeline interface {
		Run(ctx context.Context)
	}
	factory interface {
		create(cfg config.PlanConfig) (planPipeline, error)
	}
	factoryFunc func(cfg config.PlanConfig) (planPipeline, error)
)

func (f factoryFunc) create(cfg config.PlanConfig) (planPipeline, error) { return f(cfg) }

func New(provider ConfigProvider) *Manager {
	return &Manager{
		prov:      provider,
		factory:   factoryFunc(newPipeline),
		cache:     make(map[string]uint64),
		pipelines: make(map[string]func()),
		log:       log.New("pipeline manager"),
	}
}

func (m *Manager) Run(ctx context.Context) {
	m.log.Info().Msg("instance is started")
	defer m.log.Info().Msg("instance is stopped")
	defer m.cleanup()

	var wg sync.WaitGroup

	wg.Add(1)
	go func() { defer wg.Done(); m.prov.Run(ctx) }()

	wg.Add(1)
	go func() { defer wg.Done(); m.run(ctx) }()

	wg.Wait()
}

func (m *Manager) cleanup() {
	for _, stop := range m.pipelines {
		stop()
	}
}

func (m *Manager) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case cfgs := <-m.prov.Configs():
			for _, cfg := range cfgs {
				select {
				case <-ctx.Done():
					return
				default:
					m.process(ctx, cfg)
				}
			}
		}
	}
}

func (m *Manager) process(ctx context.Context, cfg config.Config) {
	if cfg.Source == "" {
		return
	}

	if cfg.Plan == nil {
		delete(m.cache, cfg.Source)
		m.handleRemoveConfig(cfg)
		return
	}

	if hash, ok := m.cache[cfg.Source]; !ok || hash != cfg.Plan.Hash() {
		m.cache[cfg.Source] = cfg.Plan.Hash()
		m.handleNewConfig(ctx, cfg)
	}
}

func (m *Manager) handleRemoveConfig(cfg config.Config) {
	if stop, ok := m.pipelines[cfg.Source]; ok {
		m.log.Info().Msgf("stopping pipeline for removed config '%s'", cfg.Source)
		delete(m.pipelines, cfg.Source)
		stop()
	}
}

func (m *Manager) handleNewConfig(ctx context.Context, cfg config.Config) {
	p, err := m.factory.create(*cfg.Plan)
	if err != nil {
		m.log.Error().Err(err).Msgf("failed to create pipeline for '%s'", cfg.Source)
		return
	}

	if stop, ok := m.pipelines[cfg.Source]; ok {
		m.log.Info().Msgf("restarting pipeline for changed config '%s'", cfg.Source)
		stop()
	} else {
		m.log.Info().Msgf("starting pipeline '%s' for config '%s'", cfg.Plan.Name, cfg.Source)
	}

	var wg sync.WaitGroup
	pipelineCtx, cancel := context.WithCancel(ctx)

	wg.Add(1)
	go func() { defer wg.Done(); p.Run(pipelineCtx) }()
	stop := func() { cancel(); wg.Wait() }

	m.pipelines[cfg.Source] = stop
}

func newPipeline(cfg config.PlanConfig) (planPipeline, error) {
	paces, err := cfg.PaceMap()
	if err != nil {
		return nil, fmt.Errorf("plan '%s' paces: %v", cfg.Name, err)
	}
	exporter, err := export.New(cfg.Export)
	if err != nil {
		return nil, err
	}
	builder, err := build.New(cfg.Build)
	if err != nil {
		return nil, err
	}
	tagger, err := tag.New(cfg.Tag)
	if err != nil {
		return nil, err
	}
	discoverer, err := discovery.New(cfg.Discovery, paces)
	if err != nil {
		return nil, err
	}
	return pipeline.New(discoverer, tagger, builder, exporter), nil
}
