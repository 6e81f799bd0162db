package discovery

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dashrun/dash/pipeline/model"
	"github.com/dashrun/dash/pkg/log"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type discoverySim struct {
	mgr             *Manager
	collectDelay    time.Duration
	expectedBatches [][]model.Group
}

func (sim discoverySim) run(t *testing.T) {
	t.Helper()
	require.NotNil(t, sim.mgr)

	in, out := make(chan []model.Group), make(chan [][]model.Group)
	go sim.collectBatches(t, in, out)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sim.mgr.Discover(ctx, in)

	actualBatches := <-out

	assert.Equal(t, sim.expectedBatches, actualBatches)
}

func (sim discoverySim) collectBatches(t *testing.T, in chan []model.Group, out chan [][]model.Group) {
	time.Sleep(sim.collectDelay)

	timeout := sim.mgr.sendEvery*4 + time.Second
	var batches [][]model.Group
loop:
	for {
		select {
		case groups := <-in:
			if batches = append(batches, groups); len(batches) >= len(sim.expectedBatches) {
				break loop
			}
		case <-time.After(timeout):
			t.Logf("discovery %v timed out after %s, got %d batches, expected %d",
				sim.mgr.discoverers, timeout, len(batches), len(sim.expectedBatches))
			break loop
		}
	}
	out <- batches
}

func newTestManager(sendEvery time.Duration, discoverers ...discoverer) *Manager {
	return &Manager{
		discoverers: discoverers,
		send:        make(chan struct{}, 1),
		sendEvery:   sendEvery,
		cache:       newCache(),
		log:         log.New("discovery manager"),
	}
}

func newTestGroup(source string, notations ...string) model.Group {
	var targets []model.Target
	for i, notation := range notations {
		tgt, err := model.NewWorkoutTarget(source, fmt.Sprintf("w%d", i+1), notation, nil)
		if err != nil {
			panic(err)
		}
		targets = append(targets, tgt)
	}
	return model.NewGroup(source, targets...)
}

type (
	mockDiscoverer struct {
		name  string
		sends []mockSend
	}
	mockSend struct {
		after  time.Duration
		groups []model.Group
	}
)

func (d mockDiscoverer) Discover(ctx context.Context, in chan<- []model.Group) {
	for _, send := range d.sends {
		select {
		case <-ctx.Done():
			return
		case <-time.After(send.after):
		}
		select {
		case <-ctx.Done():
			return
		case in <- send.groups:
		}
	}
	<-ctx.Done()
}

func (d mockDiscoverer) String() string { return d.name }
