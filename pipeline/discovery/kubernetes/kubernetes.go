// Package kubernetes discovers workouts stored in ConfigMaps.
package kubernetes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dashrun/dash/pipeline/model"
	"github.com/dashrun/dash/pkg/k8s"
	"github.com/dashrun/dash/pkg/log"
	"github.com/dashrun/dash/pkg/workout"

	"github.com/rs/zerolog"
	apiv1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/watch"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/tools/cache"
	"k8s.io/client-go/util/workqueue"
)

// DataKeySuffix marks the ConfigMap data keys that hold workout lists.
const DataKeySuffix = ".dash"

type Config struct {
	Tags       string   `yaml:"tags"`       // mandatory
	Namespaces []string `yaml:"namespaces"` // optional, all namespaces when empty
	Selector   struct {
		Label string `yaml:"label"`
		Field string `yaml:"field"`
	} `yaml:"selector"`
}

func validateConfig(cfg Config) error {
	if cfg.Tags == "" {
		return errors.New("'tags' not set")
	}
	return nil
}

type (
	discoverer interface {
		Discover(ctx context.Context, ch chan<- []model.Group)
	}
	Discovery struct {
		tags          model.Tags
		namespaces    []string
		selectorLabel string
		selectorField string
		paces         *workout.PaceMap
		client        kubernetes.Interface
		discoverers   []discoverer
		started       chan struct{}
		log           zerolog.Logger
	}
)

func NewDiscovery(cfg Config, paces *workout.PaceMap) (*Discovery, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("k8s discovery config validation: %v", err)
	}

	client, err := k8s.Clientset()
	if err != nil {
		return nil, fmt.Errorf("k8s discovery initialization: create clientset: %v", err)
	}
	d, err := initDiscovery(cfg, paces, client)
	if err != nil {
		return nil, fmt.Errorf("k8s discovery initialization: %v", err)
	}
	return d, nil
}

func initDiscovery(cfg Config, paces *workout.PaceMap, client kubernetes.Interface) (*Discovery, error) {
	tags, err := model.ParseTags(cfg.Tags)
	if err != nil {
		return nil, fmt.Errorf("parse config->tags: %v", err)
	}
	namespaces := cfg.Namespaces
	if len(namespaces) == 0 {
		namespaces = []string{apiv1.NamespaceAll}
	}

	d := &Discovery{
		tags:          tags,
		namespaces:    namespaces,
		selectorLabel: cfg.Selector.Label,
		selectorField: cfg.Selector.Field,
		paces:         paces,
		client:        client,
		discoverers:   make([]discoverer, 0, len(namespaces)),
		started:       make(chan struct{}),
		log:           log.New("k8s discovery manager"),
	}
	return d, nil
}

func (d *Discovery) String() string {
	return fmt.Sprintf("k8s discovery manager (%s)", strings.Join(d.namespaces, ","))
}

const resyncPeriod = 10 * time.Minute

func (d *Discovery) Discover(ctx context.Context, in chan<- []model.Group) {
	for _, namespace := range d.namespaces {
		d.discoverers = append(d.discoverers, d.setupConfigMapDiscoverer(ctx, namespace))
	}

	d.log.Info().Msgf("registered: %v", d.discoverers)

	var wg sync.WaitGroup
	updates := make(chan []model.Group)

	for _, dd := range d.discoverers {
		wg.Add(1)
		go func(dd discoverer) { defer wg.Done(); dd.Discover(ctx, updates) }(dd)
	}

	wg.Add(1)
	go func() { defer wg.Done(); d.run(ctx, updates, in) }()

	close(d.started)

	wg.Wait()
}

func (d *Discovery) run(ctx context.Context, updates chan []model.Group, in chan<- []model.Group) {
	for {
		select {
		case <-ctx.Done():
			return
		case groups := <-updates:
			for _, group := range groups {
				for _, t := range group.Targets() {
					t.Tags().Merge(d.tags)
				}
			}
			select {
			case <-ctx.Done():
				return
			case in <- groups:
			}
		}
	}
}

func (d *Discovery) setupConfigMapDiscoverer(ctx context.Context, namespace string) *ConfigMap {
	cmap := d.client.CoreV1().ConfigMaps(namespace)
	lw := &cache.ListWatch{
		ListFunc: func(options metav1.ListOptions) (runtime.Object, error) {
			options.FieldSelector = d.selectorField
			options.LabelSelector = d.selectorLabel
			return cmap.List(ctx, options)
		},
		WatchFunc: func(options metav1.ListOptions) (watch.Interface, error) {
			options.FieldSelector = d.selectorField
			options.LabelSelector = d.selectorLabel
			return cmap.Watch(ctx, options)
		},
	}
	inf := cache.NewSharedInformer(lw, &apiv1.ConfigMap{}, resyncPeriod)
	return NewConfigMap(inf, d.paces)
}

func enqueue(queue *workqueue.Type, obj interface{}) {
	key, err := cache.DeletionHandlingMetaNamespaceKeyFunc(obj)
	if err != nil {
		return
	}
	queue.Add(key)
}

func send(ctx context.Context, in chan<- []model.Group, group model.Group) {
	if group == nil {
		return
	}
	select {
	case <-ctx.Done():
	case in <- []model.Group{group}:
	}
}
