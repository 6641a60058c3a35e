package eta

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ethmon/ethmon/internal/domain"
	"github.com/ethmon/ethmon/internal/slotlog"
)

// ErrNoSamples means no file in the scanned directory produced a single
// progress sample. There is no meaningful report without an end sample.
var ErrNoSamples = errors.New("no progress samples found in log directory")

// Extrema holds the representative samples picked while folding over every
// parseable line in the log directory.
//
// The two bounded windows deliberately differ in how they pick their start:
// last-day takes the smallest slot within 24h, last-hour the earliest
// timestamp within 1h. The asymmetry is inherited behavior that downstream
// operators rely on.
type Extrema struct {
	End           *domain.ProgressSample // latest ObservedAt overall
	AllTimeStart  *domain.ProgressSample // smallest Slot, subject to the optional floor
	LastDayStart  *domain.ProgressSample // smallest Slot within the last 24h
	LastHourStart *domain.ProgressSample // earliest ObservedAt within the last hour
}

// ScanDir reads every log file in dir (non-recursive, extension starting
// with ".log", case-insensitive) and folds all parseable progress lines into
// the per-window extrema. Iteration order does not affect the result.
//
// allTimeFloor, when non-nil, restricts the all-time window to samples
// observed at or after that instant. Operators use it to exclude a known
// outage or backfill period from the full-sync rate.
//
// A missing directory is fatal; an unreadable individual file is logged and
// skipped so one rotated-away file cannot kill the whole report.
func ScanDir(dir string, now time.Time, allTimeFloor *time.Time) (*Extrema, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read log directory %s: %w", dir, err)
	}

	dayAgo := now.Add(-24 * time.Hour)
	hourAgo := now.Add(-time.Hour)

	ext := &Extrema{}
	for _, entry := range entries {
		if entry.IsDir() || !hasLogExtension(entry.Name()) {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			log.Warn().Err(err).Str("file", path).Msg("Skipping unreadable log file")
			continue
		}

		log.Info().Str("file", path).Msg("Parsing log file")
		for _, line := range strings.Split(string(data), "\n") {
			sample := slotlog.Parse(line)
			if sample == nil {
				continue
			}
			ext.observe(sample, dayAgo, hourAgo, allTimeFloor)
		}
	}

	if ext.End == nil {
		return nil, ErrNoSamples
	}
	return ext, nil
}

// hasLogExtension reports whether the file name carries a log extension.
// Rotated files like sync.log1 or sync.LOG.2 still count.
func hasLogExtension(name string) bool {
	return strings.HasPrefix(strings.ToLower(filepath.Ext(name)), ".log")
}

// observe folds one sample into the running extrema.
func (e *Extrema) observe(s *domain.ProgressSample, dayAgo, hourAgo time.Time, allTimeFloor *time.Time) {
	if allTimeFloor == nil || !s.ObservedAt.Before(*allTimeFloor) {
		if e.AllTimeStart == nil || s.Slot < e.AllTimeStart.Slot {
			e.AllTimeStart = s
		}
	}

	if e.End == nil || s.ObservedAt.After(e.End.ObservedAt) {
		e.End = s
	}

	if !s.ObservedAt.Before(dayAgo) {
		if e.LastDayStart == nil || s.Slot < e.LastDayStart.Slot {
			e.LastDayStart = s
		}
	}

	if !s.ObservedAt.Before(hourAgo) {
		if e.LastHourStart == nil || s.ObservedAt.Before(e.LastHourStart.ObservedAt) {
			e.LastHourStart = s
		}
	}
}
