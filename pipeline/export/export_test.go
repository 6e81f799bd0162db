package export

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dashrun/dash/pipeline/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache_Put(t *testing.T) {
	c := make(cache)

	assert.True(t, c.put(model.Config{Conf: "a"}))
	assert.False(t, c.put(model.Config{Conf: "a"}))
	assert.True(t, c.put(model.Config{Conf: "b"}))
	assert.Equal(t, []string{"a", "b"}, c.lines())

	assert.False(t, c.put(model.Config{Conf: "a", Stale: true}))
	assert.True(t, c.put(model.Config{Conf: "a", Stale: true}))
	assert.False(t, c.put(model.Config{Conf: "a", Stale: true}))
	assert.Equal(t, []string{"b"}, c.lines())
}

func TestFile_Export(t *testing.T) {
	tests := map[string]struct {
		selector string
		batches  [][]model.Config
		want     string
	}{
		"sorted lines": {
			selector: "*",
			batches: [][]model.Config{
				{{Conf: "tempo: 5.00 mi"}, {Conf: "easy: 3.00 mi"}},
			},
			want: "easy: 3.00 mi\ntempo: 5.00 mi\n",
		},
		"stale config withdrawn": {
			selector: "*",
			batches: [][]model.Config{
				{{Conf: "tempo: 5.00 mi"}, {Conf: "easy: 3.00 mi"}},
				{{Conf: "easy: 3.00 mi", Stale: true}},
			},
			want: "tempo: 5.00 mi\n",
		},
		"everything withdrawn": {
			selector: "*",
			batches: [][]model.Config{
				{{Conf: "easy: 3.00 mi"}},
				{{Conf: "easy: 3.00 mi", Stale: true}},
			},
			want: "",
		},
		"selector applied": {
			selector: "long",
			batches: [][]model.Config{
				{
					{Conf: "easy: 3.00 mi", Tags: model.MustParseTags("short")},
					{Conf: "long: 14.00 mi", Tags: model.MustParseTags("long")},
				},
			},
			want: "long: 14.00 mi\n",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			filename := filepath.Join(t.TempDir(), "week.txt")
			f := NewFile(model.MustParseSelector(test.selector), filename)

			runExporter(f, test.batches)

			bs, err := os.ReadFile(filename)
			require.NoError(t, err)
			assert.Equal(t, test.want, string(bs))
		})
	}
}

func TestStdout_Export(t *testing.T) {
	var buf bytes.Buffer
	s := NewStdout(model.MustParseSelector("*"), &buf)

	s.dirty = process(s.sr, s.cache, []model.Config{{Conf: "b"}, {Conf: "a"}})
	s.flush()
	s.flush()

	want := "-----------------------WORKOUTS(2)-----------------------\na\nb\n"
	assert.Equal(t, want, buf.String())
}

func runExporter(e exporter, batches [][]model.Config) {
	ctx, cancel := context.WithCancel(context.Background())
	out := make(chan []model.Config)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() { defer wg.Done(); e.Export(ctx, out) }()

	for _, cfgs := range batches {
		out <- cfgs
	}
	cancel()
	wg.Wait()
}
