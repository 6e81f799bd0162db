package export

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dashrun/dash/pipeline/model"
	"github.com/dashrun/dash/pkg/log"

	"github.com/rs/zerolog"
)

const flushEvery = time.Second

// File keeps a file holding every selected config, one per line, sorted.
// The file is rewritten on the next flush after the set changes.
type File struct {
	sr    model.Selector
	file  string
	cache cache
	dirty bool
	log   zerolog.Logger
}

func NewFile(sr model.Selector, file string) *File {
	return &File{
		sr:    sr,
		file:  file,
		cache: make(cache),
		log:   log.New("file export"),
	}
}

func (f File) String() string {
	return fmt.Sprintf("file exporter (%s)", f.file)
}

func (f *File) Export(ctx context.Context, out <-chan []model.Config) {
	f.log.Info().Msgf("instance is started (%s)", f.file)
	defer f.log.Info().Msgf("instance is stopped (%s)", f.file)

	tk := time.NewTicker(flushEvery)
	defer tk.Stop()

	for {
		select {
		case <-ctx.Done():
			f.flush()
			return
		case cfgs := <-out:
			f.dirty = process(f.sr, f.cache, cfgs) || f.dirty
		case <-tk.C:
			f.flush()
		}
	}
}

func (f *File) flush() {
	if !f.dirty {
		return
	}
	if err := f.write(); err != nil {
		f.log.Warn().Err(err).Msgf("failed to write '%s'", f.file)
		return
	}
	f.dirty = false
	f.log.Info().Msgf("wrote %d config(s) to '%s'", len(f.cache), f.file)
}

// write replaces the file atomically via a temporary file in the same directory.
func (f *File) write() error {
	tmp, err := os.CreateTemp(filepath.Dir(f.file), "."+filepath.Base(f.file)+".*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err := writeLines(tmp, f.cache.lines()); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.file)
}

// Stdout prints the whole selected config set after each change.
type Stdout struct {
	sr    model.Selector
	wr    io.Writer
	cache cache
	dirty bool
}

func NewStdout(sr model.Selector, wr io.Writer) *Stdout {
	if wr == nil {
		wr = os.Stdout
	}
	return &Stdout{
		sr:    sr,
		wr:    wr,
		cache: make(cache),
	}
}

func (s Stdout) String() string {
	return "stdout exporter"
}

func (s *Stdout) Export(ctx context.Context, out <-chan []model.Config) {
	tk := time.NewTicker(flushEvery)
	defer tk.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case cfgs := <-out:
			s.dirty = process(s.sr, s.cache, cfgs) || s.dirty
		case <-tk.C:
			s.flush()
		}
	}
}

func (s *Stdout) flush() {
	if !s.dirty {
		return
	}
	s.dirty = false

	lines := s.cache.lines()
	_, _ = fmt.Fprintf(s.wr, "-----------------------WORKOUTS(%d)-----------------------\n", len(lines))
	_ = writeLines(s.wr, lines)
}

func process(sr model.Selector, c cache, cfgs []model.Config) (changed bool) {
	for _, cfg := range cfgs {
		if !sr.Matches(cfg.Tags) {
			continue
		}
		if c.put(cfg) {
			changed = true
		}
	}
	return changed
}

func writeLines(w io.Writer, lines []string) error {
	wr := bufio.NewWriterSize(w, 4096*4)
	for _, line := range lines {
		if _, err := wr.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	return wr.Flush()
}
