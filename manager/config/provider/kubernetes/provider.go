// Package kubernetes provides a plan config stored under a ConfigMap key.
package kubernetes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dashrun/dash/manager/config"
	"github.com/dashrun/dash/pkg/k8s"
	"github.com/dashrun/dash/pkg/log"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"
	apiv1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/fields"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/watch"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/cache"
	"k8s.io/client-go/util/workqueue"
)

type Config struct {
	Namespace string // optional, all namespaces when empty
	ConfigMap string // mandatory
	Key       string // mandatory
}

func validateConfig(cfg Config) error {
	if cfg.ConfigMap == "" {
		return errors.New("config map not set")
	}
	if cfg.Key == "" {
		return errors.New("config map key not set")
	}
	return nil
}

// Provider watches one ConfigMap by name and sends the plan stored under Key.
// A deleted ConfigMap, or one without Key, sends a config with no plan.
type Provider struct {
	namespace string
	cmap      string
	cmapKey   string
	client    kubernetes.Interface
	inf       cache.SharedInformer
	queue     *workqueue.Type
	configCh  chan []config.Config
	started   chan struct{}
	log       zerolog.Logger
}

func NewProvider(cfg Config) (*Provider, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("config validation: %v", err)
	}
	client, err := k8s.Clientset()
	if err != nil {
		return nil, fmt.Errorf("initialization: %v", err)
	}
	return newProvider(cfg, client), nil
}

func newProvider(cfg Config, client kubernetes.Interface) *Provider {
	return &Provider{
		namespace: cfg.Namespace,
		cmap:      cfg.ConfigMap,
		cmapKey:   cfg.Key,
		client:    client,
		configCh:  make(chan []config.Config),
		started:   make(chan struct{}),
		queue:     workqueue.NewNamed("plan configmap"),
		log:       log.New("k8s config provider"),
	}
}

func (p *Provider) String() string {
	return source(p.namespace, p.cmap, p.cmapKey)
}

func (p *Provider) Configs() chan []config.Config {
	return p.configCh
}

func (p *Provider) Run(ctx context.Context) {
	p.log.Info().Msgf("instance is started, watching '%s'", p)
	defer p.log.Info().Msg("instance is stopped")
	defer p.queue.ShutDown()

	p.inf = p.setupInformer(ctx)
	go p.inf.Run(ctx.Done())

	if !cache.WaitForCacheSync(ctx.Done(), p.inf.HasSynced) {
		p.log.Error().Msg("unable to sync caches")
		return
	}

	go func() {
		for p.processOnce(ctx) {
		}
	}()
	close(p.started)

	<-ctx.Done()
}

const resyncPeriod = 10 * time.Minute

func (p *Provider) setupInformer(ctx context.Context) cache.SharedInformer {
	client := p.client.CoreV1().ConfigMaps(p.namespace)
	byName := fields.OneTermEqualSelector("metadata.name", p.cmap).String()

	lw := &cache.ListWatch{
		ListFunc: func(options metav1.ListOptions) (runtime.Object, error) {
			options.FieldSelector = byName
			return client.List(ctx, options)
		},
		WatchFunc: func(options metav1.ListOptions) (watch.Interface, error) {
			options.FieldSelector = byName
			return client.Watch(ctx, options)
		},
	}

	inf := cache.NewSharedInformer(lw, &apiv1.ConfigMap{}, resyncPeriod)
	inf.AddEventHandler(cache.ResourceEventHandlerFuncs{
		AddFunc:    p.enqueue,
		UpdateFunc: func(_, obj interface{}) { p.enqueue(obj) },
		DeleteFunc: p.enqueue,
	})
	return inf
}

// enqueue also checks the name, not every client honors field selectors.
func (p *Provider) enqueue(obj interface{}) {
	if cmap, ok := obj.(*apiv1.ConfigMap); ok && cmap.Name != p.cmap {
		return
	}
	if key, err := cache.DeletionHandlingMetaNamespaceKeyFunc(obj); err == nil {
		p.queue.Add(key)
	}
}

func (p *Provider) processOnce(ctx context.Context) bool {
	item, shutdown := p.queue.Get()
	if shutdown {
		return false
	}
	defer p.queue.Done(item)

	key := item.(string)
	namespace, name, err := cache.SplitMetaNamespaceKey(key)
	if err != nil || name != p.cmap {
		return true
	}
	obj, exists, err := p.inf.GetStore().GetByKey(key)
	if err != nil {
		return true
	}
	if !exists {
		p.send(ctx, config.Config{Source: source(namespace, name, p.cmapKey)})
		return true
	}
	cmap, ok := obj.(*apiv1.ConfigMap)
	if !ok {
		p.log.Warn().Msgf("received unexpected object type: %T", obj)
		return true
	}
	if cfg, ok := p.buildConfig(cmap); ok {
		p.send(ctx, cfg)
	}
	return true
}

// buildConfig returns false when the key holds a plan that does not decode.
func (p *Provider) buildConfig(cmap *apiv1.ConfigMap) (config.Config, bool) {
	cfg := config.Config{Source: source(cmap.Namespace, cmap.Name, p.cmapKey)}

	data, ok := cmap.Data[p.cmapKey]
	if !ok {
		p.log.Debug().Msgf("cmap '%s/%s' has no '%s' key", cmap.Namespace, cmap.Name, p.cmapKey)
		return cfg, true
	}

	var plan config.PlanConfig
	if err := yaml.Unmarshal([]byte(data), &plan); err != nil {
		p.log.Error().Err(err).Msgf("decode cmap '%s/%s' key '%s'", cmap.Namespace, cmap.Name, p.cmapKey)
		return cfg, false
	}
	if plan.Name == "" {
		plan.Name = cmap.Name
	}
	cfg.Plan = &plan
	return cfg, true
}

func (p *Provider) send(ctx context.Context, cfg config.Config) {
	select {
	case <-ctx.Done():
	case p.configCh <- []config.Config{cfg}:
	}
}

func source(namespace, name, key string) string {
	return fmt.Sprintf("k8s/cmap/%s/%s:%s", namespace, name, key)
}
