package kubernetes

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dashrun/dash/pipeline/model"
	"github.com/dashrun/dash/pkg/log"
	"github.com/dashrun/dash/pkg/workout"

	"github.com/rs/zerolog"
	apiv1 "k8s.io/api/core/v1"
	"k8s.io/client-go/tools/cache"
	"k8s.io/client-go/util/workqueue"
)

// ConfigMap turns every watched ConfigMap into one group. Each data key
// ending in DataKeySuffix is a workout list.
type ConfigMap struct {
	informer cache.SharedInformer
	queue    *workqueue.Type
	paces    *workout.PaceMap
	log      zerolog.Logger
}

func NewConfigMap(inf cache.SharedInformer, paces *workout.PaceMap) *ConfigMap {
	if inf == nil {
		panic("nil configmap informer")
	}

	queue := workqueue.NewNamed("configmap")
	inf.AddEventHandler(cache.ResourceEventHandlerFuncs{
		AddFunc:    func(obj interface{}) { enqueue(queue, obj) },
		UpdateFunc: func(_, obj interface{}) { enqueue(queue, obj) },
		DeleteFunc: func(obj interface{}) { enqueue(queue, obj) },
	})

	return &ConfigMap{
		informer: inf,
		queue:    queue,
		paces:    paces,
		log:      log.New("k8s configmap discovery"),
	}
}

func (c ConfigMap) String() string {
	return "k8s configmap discovery"
}

func (c *ConfigMap) Discover(ctx context.Context, in chan<- []model.Group) {
	defer c.queue.ShutDown()

	go c.informer.Run(ctx.Done())

	if !cache.WaitForCacheSync(ctx.Done(), c.informer.HasSynced) {
		return
	}
	go func() {
		for c.processOnce(ctx, in) {
		}
	}()
	<-ctx.Done()
}

func (c *ConfigMap) processOnce(ctx context.Context, in chan<- []model.Group) bool {
	item, shutdown := c.queue.Get()
	if shutdown {
		return false
	}
	defer c.queue.Done(item)

	key := item.(string)
	namespace, name, err := cache.SplitMetaNamespaceKey(key)
	if err != nil {
		return true
	}
	obj, exists, err := c.informer.GetStore().GetByKey(key)
	if err != nil {
		return true
	}
	if !exists {
		send(ctx, in, model.NewGroup(cmapSourceFromNsName(namespace, name)))
		return true
	}
	cmap, ok := obj.(*apiv1.ConfigMap)
	if !ok {
		c.log.Warn().Msgf("received unexpected object type: %T", obj)
		return true
	}
	send(ctx, in, c.buildGroup(cmap))
	return true
}

func (c *ConfigMap) buildGroup(cmap *apiv1.ConfigMap) model.Group {
	source := cmapSource(cmap)

	keys := make([]string, 0, len(cmap.Data))
	for key := range cmap.Data {
		if strings.HasSuffix(key, DataKeySuffix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var targets []model.Target
	for _, key := range keys {
		labels := c.buildLabels(cmap, key)

		for _, e := range model.ParseEntries(cmap.Data[key]) {
			tgt, err := model.NewWorkoutTarget(source, e.Name, e.Notation, c.paces)
			if err != nil {
				c.log.Warn().Err(err).Msgf("%s[%s]:%d: skipping workout '%s'", source, key, e.Line, e.Name)
				continue
			}
			if err := tgt.EstimateErr(); err != nil {
				c.log.Warn().Err(err).Msgf("%s[%s]:%d: workout '%s' mileage not estimated", source, key, e.Line, e.Name)
			}
			targets = append(targets, tgt.WithLabels(labels))
		}
	}
	return model.NewGroup(source, targets...)
}

// buildLabels copies the ConfigMap labels and adds where the workout came from.
func (c *ConfigMap) buildLabels(cmap *apiv1.ConfigMap, key string) map[string]string {
	labels := make(map[string]string, len(cmap.Labels)+3)
	for k, v := range cmap.Labels {
		labels[k] = v
	}
	labels["namespace"] = cmap.Namespace
	labels["configmap"] = cmap.Name
	labels["key"] = key
	return labels
}

func cmapSource(cmap *apiv1.ConfigMap) string {
	return cmapSourceFromNsName(cmap.Namespace, cmap.Name)
}

func cmapSourceFromNsName(namespace, name string) string {
	return fmt.Sprintf("k8s/cmap/%s/%s", namespace, name)
}
