package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dashrun/dash/pipeline/model"
	"github.com/dashrun/dash/pkg/workout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPaces = &workout.PaceMap{
	Zones: map[workout.HeartRateZone]workout.PaceRange{
		workout.Z1: {Min: workout.Pace{Time: 600, Unit: workout.Miles}, Max: workout.Pace{Time: 480, Unit: workout.Miles}},
	},
	Default: workout.Z1,
}

func TestNewDiscovery(t *testing.T) {
	tests := map[string]struct {
		cfg     Config
		wantErr bool
	}{
		"valid config": {
			cfg: Config{Tags: "file", Include: []string{"/plans/*.dash"}, Exclude: []string{"**/draft-*"}},
		},
		"tags not set": {
			cfg:     Config{Include: []string{"/plans/*.dash"}},
			wantErr: true,
		},
		"include not set": {
			cfg:     Config{Tags: "file"},
			wantErr: true,
		},
		"bad include pattern": {
			cfg:     Config{Tags: "file", Include: []string{"/plans/[.dash"}},
			wantErr: true,
		},
		"bad exclude pattern": {
			cfg:     Config{Tags: "file", Include: []string{"/plans/*.dash"}, Exclude: []string{"/plans/[a"}},
			wantErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			d, err := NewDiscovery(test.cfg, testPaces)

			if test.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, d)
			}
		})
	}
}

func TestDiscovery_Discover(t *testing.T) {
	dir := t.TempDir()
	week := filepath.Join(dir, "week.dash")
	draft := filepath.Join(dir, "draft-week.dash")

	writeFile(t, week, "# week 1\neasy: 30 min\n\n20 min\nbroken: 10 min +\n")
	writeFile(t, draft, "easy: 30 min\n")

	d, err := NewDiscovery(Config{
		Tags:    "file",
		Include: []string{filepath.Join(dir, "*.dash")},
		Exclude: []string{"**/draft-*"},
	}, testPaces)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan []model.Group)
	done := make(chan struct{})
	go func() { defer close(done); d.Discover(ctx, in) }()

	groups := receive(t, in)
	require.Len(t, groups, 1)
	assert.Equal(t, "file/"+week, groups[0].Source())

	targets := groups[0].Targets()
	require.Len(t, targets, 2)

	easy := targets[0].(*model.WorkoutTarget)
	assert.Equal(t, "easy", easy.Name)
	assert.Equal(t, "30 min", easy.Notation)
	assert.Equal(t, model.Tags{"file": {}}, easy.Tags())
	assert.Equal(t, "week.dash", easy.Labels["file"])
	assert.Equal(t, "line4", targets[1].(*model.WorkoutTarget).Name)

	require.NoError(t, os.Remove(week))

	groups = receive(t, in)
	require.Len(t, groups, 1)
	assert.Equal(t, "file/"+week, groups[0].Source())
	assert.Empty(t, groups[0].Targets())

	cancel()
	<-done
}

func writeFile(t *testing.T, path, data string) {
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))
}

func receive(t *testing.T, in chan []model.Group) []model.Group {
	select {
	case groups := <-in:
		return groups
	case <-time.After(time.Second * 15):
		t.Fatal("file discovery timed out")
	}
	return nil
}
