package kubernetes

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/dashrun/dash/pipeline/model"
	"github.com/dashrun/dash/pkg/workout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/kubernetes/fake"
	"k8s.io/client-go/tools/cache"
)

const (
	startWaitTimeout  = time.Second * 3
	finishWaitTimeout = time.Second * 5
)

type discoverySim struct {
	discovery          *Discovery
	runAfterSync       func(ctx context.Context)
	sortBeforeVerify   bool
	expectedGroupsSrcs []string
	verify             func(t *testing.T, groups []model.Group)
}

func (sim discoverySim) run(t *testing.T) []model.Group {
	t.Helper()
	require.NotNil(t, sim.discovery)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in, out := make(chan []model.Group), make(chan []model.Group)
	go sim.collectGroups(t, in, out)
	go sim.discovery.Discover(ctx, in)

	select {
	case <-sim.discovery.started:
	case <-time.After(startWaitTimeout):
		t.Fatalf("discovery %s failed to start in %s", sim.discovery.discoverers, startWaitTimeout)
	}

	synced := cache.WaitForCacheSync(ctx.Done(), sim.discovery.hasSynced)
	require.Truef(t, synced, "discovery %s failed to sync", sim.discovery.discoverers)

	if sim.runAfterSync != nil {
		sim.runAfterSync(ctx)
	}

	groups := <-out

	if sim.sortBeforeVerify {
		sortGroups(groups)
	}

	var srcs []string
	for _, g := range groups {
		srcs = append(srcs, g.Source())
	}
	assert.Equal(t, sim.expectedGroupsSrcs, srcs)

	if sim.verify != nil {
		sim.verify(t, groups)
	}
	return groups
}

func (sim discoverySim) collectGroups(t *testing.T, in, out chan []model.Group) {
	var groups []model.Group
loop:
	for {
		select {
		case inGroups := <-in:
			if groups = append(groups, inGroups...); len(groups) >= len(sim.expectedGroupsSrcs) {
				break loop
			}
		case <-time.After(finishWaitTimeout):
			t.Logf("discovery %s timed out after %s, got %d groups, expected %d, some events are skipped",
				sim.discovery.discoverers, finishWaitTimeout, len(groups), len(sim.expectedGroupsSrcs))
			break loop
		}
	}
	out <- groups
}

func (d *Discovery) hasSynced() bool {
	for _, dd := range d.discoverers {
		cm, ok := dd.(*ConfigMap)
		if !ok || !cm.informer.HasSynced() {
			return false
		}
	}
	return true
}

var testPaces = &workout.PaceMap{
	Zones: map[workout.HeartRateZone]workout.PaceRange{
		workout.Z1: {Min: workout.Pace{Time: 600, Unit: workout.Miles}, Max: workout.Pace{Time: 480, Unit: workout.Miles}},
	},
	Default: workout.Z1,
}

func prepareDiscovery(cfg Config, objects ...runtime.Object) (*Discovery, kubernetes.Interface) {
	client := fake.NewSimpleClientset(objects...)
	d, err := initDiscovery(cfg, testPaces, client)
	if err != nil {
		panic(err)
	}
	return d, client
}

func sortGroups(groups []model.Group) {
	sort.Slice(groups, func(i, j int) bool { return groups[i].Source() < groups[j].Source() })
}
