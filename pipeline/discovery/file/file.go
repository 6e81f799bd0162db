// Package file discovers workouts in watched workout list files.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dashrun/dash/pipeline/model"
	"github.com/dashrun/dash/pkg/log"
	"github.com/dashrun/dash/pkg/workout"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
	"github.com/rs/zerolog"
)

type Config struct {
	Tags    string   `yaml:"tags"`    // mandatory
	Include []string `yaml:"include"` // mandatory, filepath.Glob patterns
	Exclude []string `yaml:"exclude"` // optional, glob patterns matched against the full path
}

func validateConfig(cfg Config) error {
	if cfg.Tags == "" {
		return errors.New("'tags' not set")
	}
	if len(cfg.Include) == 0 {
		return errors.New("'include' not set, need at least 1 pattern")
	}
	for i, pattern := range cfg.Include {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("bad 'include' pattern '%s' [%d]: %v", pattern, i+1, err)
		}
	}
	return nil
}

type (
	Discovery struct {
		tags         model.Tags
		include      []string
		exclude      []glob.Glob
		paces        *workout.PaceMap
		refreshEvery time.Duration
		watcher      *fsnotify.Watcher
		cache        cache
		log          zerolog.Logger
	}
	cache map[string]time.Time
)

func (c cache) lookup(path string) (time.Time, bool) { v, ok := c[path]; return v, ok }
func (c cache) has(path string) bool                 { _, ok := c.lookup(path); return ok }
func (c cache) remove(path string)                   { delete(c, path) }
func (c cache) put(path string, modTime time.Time)   { c[path] = modTime }

func NewDiscovery(cfg Config, paces *workout.PaceMap) (*Discovery, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("file discovery config validation: %v", err)
	}
	d, err := initDiscovery(cfg, paces)
	if err != nil {
		return nil, fmt.Errorf("file discovery initialization: %v", err)
	}
	return d, nil
}

func initDiscovery(cfg Config, paces *workout.PaceMap) (*Discovery, error) {
	tags, err := model.ParseTags(cfg.Tags)
	if err != nil {
		return nil, fmt.Errorf("parse config->tags: %v", err)
	}
	d := &Discovery{
		tags:         tags,
		include:      cfg.Include,
		paces:        paces,
		refreshEvery: time.Second * 10,
		cache:        make(cache),
		log:          log.New("file discovery"),
	}
	for _, pattern := range cfg.Exclude {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("parse config->exclude '%s': %v", pattern, err)
		}
		d.exclude = append(d.exclude, g)
	}
	return d, nil
}

func (d *Discovery) String() string {
	return fmt.Sprintf("file discovery (%v)", d.include)
}

func (d *Discovery) Discover(ctx context.Context, in chan<- []model.Group) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		d.log.Error().Err(err).Msg("failed to create file watcher")
		return
	}

	d.watcher = watcher
	defer d.stop()
	d.refresh(ctx, in)

	tk := time.NewTicker(d.refreshEvery)
	defer tk.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tk.C:
			d.refresh(ctx, in)
		case event := <-d.watcher.Events:
			if event.Name == "" || isChmod(event) || !d.fileMatches(event.Name) {
				break
			}
			if isCreate(event) && d.cache.has(event.Name) {
				// vim "backupcopy=no" case, already collected after Rename event.
				break
			}
			if isRename(event) {
				// editors often rename the old file and write a new one,
				// wait for it to not send an empty group in between.
				time.Sleep(time.Millisecond * 100)
			}
			d.refresh(ctx, in)
		case err := <-d.watcher.Errors:
			if err != nil {
				d.log.Warn().Err(err).Msg("file watcher error")
			}
		}
	}
}

func (d *Discovery) refresh(ctx context.Context, in chan<- []model.Group) {
	select {
	case <-ctx.Done():
		return
	default:
	}

	var groups []model.Group
	seen := make(map[string]bool)

	for _, file := range d.listFiles() {
		fi, err := os.Lstat(file)
		if err != nil || !fi.Mode().IsRegular() {
			continue
		}

		seen[file] = true
		if v, ok := d.cache.lookup(file); ok && v.Equal(fi.ModTime()) {
			continue
		}
		d.cache.put(file, fi.ModTime())

		group, err := d.readGroup(file)
		if err != nil {
			d.log.Warn().Err(err).Msgf("failed to read '%s'", file)
			continue
		}
		groups = append(groups, group)
	}

	for name := range d.cache {
		if seen[name] {
			continue
		}
		d.cache.remove(name)
		groups = append(groups, model.NewGroup(fileSource(name)))
	}

	if len(groups) > 0 {
		d.send(ctx, in, groups)
	}
	d.watchDirs()
}

func (d *Discovery) readGroup(file string) (model.Group, error) {
	bs, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	source := fileSource(file)
	labels := map[string]string{
		"path": file,
		"dir":  filepath.Dir(file),
		"file": filepath.Base(file),
	}

	var targets []model.Target
	for _, e := range model.ParseEntries(string(bs)) {
		tgt, err := model.NewWorkoutTarget(source, e.Name, e.Notation, d.paces)
		if err != nil {
			d.log.Warn().Err(err).Msgf("%s:%d: skipping workout '%s'", file, e.Line, e.Name)
			continue
		}
		if err := tgt.EstimateErr(); err != nil {
			d.log.Warn().Err(err).Msgf("%s:%d: workout '%s' mileage not estimated", file, e.Line, e.Name)
		}
		tgt.WithLabels(labels)
		tgt.Tags().Merge(d.tags)
		targets = append(targets, tgt)
	}
	return model.NewGroup(source, targets...), nil
}

func (d *Discovery) fileMatches(file string) bool {
	if d.excluded(file) {
		return false
	}
	for _, pattern := range d.include {
		if ok, _ := filepath.Match(pattern, file); ok {
			return true
		}
	}
	return false
}

func (d *Discovery) excluded(file string) bool {
	for _, g := range d.exclude {
		if g.Match(file) {
			return true
		}
	}
	return false
}

func (d *Discovery) listFiles() (files []string) {
	for _, pattern := range d.include {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			continue
		}
		for _, file := range matches {
			if !d.excluded(file) {
				files = append(files, file)
			}
		}
	}
	return files
}

func (d *Discovery) watchDirs() {
	for _, pattern := range d.include {
		dir := filepath.Dir(pattern)
		if err := d.watcher.Add(dir); err != nil {
			d.log.Debug().Err(err).Msgf("failed to watch '%s'", dir)
		}
	}
}

func (d *Discovery) stop() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// closing the watcher deadlocks unless all events and errors are drained.
	go func() {
		for {
			select {
			case <-d.watcher.Errors:
			case <-d.watcher.Events:
			case <-ctx.Done():
				return
			}
		}
	}()

	_ = d.watcher.Close()
}

func (d *Discovery) send(ctx context.Context, in chan<- []model.Group, groups []model.Group) {
	select {
	case <-ctx.Done():
	case in <- groups:
	}
}

func fileSource(path string) string { return "file/" + path }

func isChmod(event fsnotify.Event) bool {
	return event.Op^fsnotify.Chmod == 0
}

func isRename(event fsnotify.Event) bool {
	return event.Op&fsnotify.Rename == fsnotify.Rename
}

func isCreate(event fsnotify.Event) bool {
	return event.Op&fsnotify.Create == fsnotify.Create
}
