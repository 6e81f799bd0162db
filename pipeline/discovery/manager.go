package discovery

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dashrun/dash/pipeline/discovery/file"
	"github.com/dashrun/dash/pipeline/discovery/kubernetes"
	"github.com/dashrun/dash/pipeline/discovery/static"
	"github.com/dashrun/dash/pipeline/model"
	"github.com/dashrun/dash/pkg/log"
	"github.com/dashrun/dash/pkg/workout"

	"github.com/rs/zerolog"
)

type Config struct {
	Static []static.Config     `yaml:"static"`
	File   []file.Config       `yaml:"file"`
	K8S    []kubernetes.Config `yaml:"k8s"`
}

func validateConfig(cfg Config) error {
	if len(cfg.Static) == 0 && len(cfg.File) == 0 && len(cfg.K8S) == 0 {
		return errors.New("empty config, need at least 1 discoverer")
	}
	return nil
}

type (
	discoverer interface {
		Discover(ctx context.Context, in chan<- []model.Group)
	}
	Manager struct {
		discoverers []discoverer
		send        chan struct{}
		sendEvery   time.Duration
		cache       *cache
		log         zerolog.Logger
	}
)

// New creates the discoverers named in cfg. Workouts are estimated with
// paces, a nil paces leaves every target unestimated.
func New(cfg Config, paces *workout.PaceMap) (*Manager, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("discovery manager config validation: %v", err)
	}
	mgr := &Manager{
		send:        make(chan struct{}, 1),
		sendEvery:   2 * time.Second,
		discoverers: make([]discoverer, 0),
		cache:       newCache(),
		log:         log.New("discovery manager"),
	}
	if err := mgr.registerDiscoverers(cfg, paces); err != nil {
		return nil, fmt.Errorf("discovery manager initialization: %v", err)
	}

	mgr.log.Info().Msgf("registered: %v", mgr.discoverers)
	return mgr, nil
}

func (m *Manager) registerDiscoverers(conf Config, paces *workout.PaceMap) error {
	for _, cfg := range conf.Static {
		d, err := static.NewDiscovery(cfg, paces)
		if err != nil {
			return err
		}
		m.discoverers = append(m.discoverers, d)
	}
	for _, cfg := range conf.File {
		d, err := file.NewDiscovery(cfg, paces)
		if err != nil {
			return err
		}
		m.discoverers = append(m.discoverers, d)
	}
	for _, cfg := range conf.K8S {
		d, err := kubernetes.NewDiscovery(cfg, paces)
		if err != nil {
			return err
		}
		m.discoverers = append(m.discoverers, d)
	}
	return nil
}

func (m *Manager) Discover(ctx context.Context, in chan<- []model.Group) {
	m.log.Info().Msg("instance is started")
	defer m.log.Info().Msg("instance is stopped")

	var wg sync.WaitGroup

	for _, d := range m.discoverers {
		wg.Add(1)
		go func(d discoverer) { defer wg.Done(); m.runDiscoverer(ctx, d) }(d)
	}

	wg.Add(1)
	go func() { defer wg.Done(); m.run(ctx, in) }()

	wg.Wait()
}

func (m *Manager) runDiscoverer(ctx context.Context, d discoverer) {
	updates := make(chan []model.Group)
	go d.Discover(ctx, updates)

	for {
		select {
		case <-ctx.Done():
			return
		case groups, ok := <-updates:
			if !ok {
				return
			}
			func() {
				m.cache.mu.Lock()
				defer m.cache.mu.Unlock()

				m.cache.update(groups)
				m.triggerSend()
			}()
		}
	}
}

func (m *Manager) run(ctx context.Context, in chan<- []model.Group) {
	tk := time.NewTicker(m.sendEvery)
	defer tk.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tk.C:
			select {
			case <-m.send:
				m.trySend(in)
			default:
			}
		}
	}
}

func (m *Manager) trySend(in chan<- []model.Group) {
	m.cache.mu.Lock()
	defer m.cache.mu.Unlock()

	select {
	case in <- m.cache.asList():
		m.cache.reset()
	default:
		m.triggerSend()
	}
}

func (m *Manager) triggerSend() {
	select {
	case m.send <- struct{}{}:
	default:
	}
}
