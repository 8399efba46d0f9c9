// Package timelog appends step timings to per-category log files. It is a
// side-effect-only port: callers fire a measurement and move on, and a sink
// failure never surfaces to the request that produced the measurement.
package timelog

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type Sink interface {
	// Append records one duration under a category. It must not block the
	// caller and must not fail the caller.
	Append(category string, d time.Duration)
}

// Nop discards all measurements. Used when no log directory is configured.
type Nop struct{}

func (Nop) Append(string, time.Duration) {}

// FileSink appends one millisecond value per line to
// <dir>/<category>_times.log. Appends from concurrent requests are
// serialized so lines never interleave.
type FileSink struct {
	dir    string
	logger *slog.Logger

	mu sync.Mutex
	wg sync.WaitGroup
}

func NewFileSink(dir string, logger *slog.Logger) (*FileSink, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create timing log dir: %w", err)
	}
	return &FileSink{dir: dir, logger: logger}, nil
}

func (s *FileSink) Append(category string, d time.Duration) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.append(category, d); err != nil {
			s.logger.Warn("timing log append failed", "category", category, "err", err)
		}
	}()
}

func (s *FileSink) append(category string, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.dir, category+"_times.log")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = fmt.Fprintf(f, "%d\n", d.Milliseconds())
	return err
}

// Flush waits for in-flight appends. Called on shutdown.
func (s *FileSink) Flush() {
	s.wg.Wait()
}
