package scratch

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Sweeper removes orphaned scratch files left behind by crashed requests.
// Request handlers release their own files; the sweeper is a safety net, not
// the primary cleanup path.
type Sweeper struct {
	logger    *slog.Logger
	retention time.Duration
	stores    []*Store
}

func NewSweeper(logger *slog.Logger, retention time.Duration, stores ...*Store) *Sweeper {
	return &Sweeper{
		logger:    logger,
		retention: retention,
		stores:    stores,
	}
}

// StartSweepSchedule begins regular sweeps of all registered stores.
func (s *Sweeper) StartSweepSchedule(interval time.Duration) {
	ticker := time.NewTicker(interval)

	go func() {
		for range ticker.C {
			s.Sweep()
		}
	}()

	s.logger.Info("Scratch sweeper started",
		slog.Duration("retention", s.retention),
		slog.Duration("interval", interval))
}

// Sweep removes files older than the retention period from every store.
func (s *Sweeper) Sweep() {
	cutoff := time.Now().Add(-s.retention)

	for _, store := range s.stores {
		entries, err := os.ReadDir(store.Dir())
		if err != nil {
			s.logger.Error("Error reading scratch directory",
				slog.String("dir", store.Dir()),
				slog.String("error", err.Error()))
			continue
		}

		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			if info.ModTime().Before(cutoff) {
				path := filepath.Join(store.Dir(), entry.Name())
				s.logger.Info("Removing orphaned scratch file",
					slog.String("path", path),
					slog.Time("modified_time", info.ModTime()))
				if err := os.Remove(path); err != nil {
					s.logger.Error("Failed to remove scratch file",
						slog.String("path", path),
						slog.String("error", err.Error()))
				}
			}
		}
	}
}
