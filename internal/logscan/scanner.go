package logscan

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Summary reports warning/error line counts for one client log file.
//
// TotalCount deliberately includes the empty segment produced by splitting
// on the trailing newline: a file of N lines ending in "\n" counts as N+1.
// Existing consumers compare these percentages across runs, so the counting
// quirk is kept.
type Summary struct {
	Missing      bool
	ErrorCount   int
	WarningCount int
	TotalCount   int
	ErrorRate    string
	WarningRate  string
}

// MarshalJSON collapses a missing file to {"missing": true}, matching the
// shape scripts already grep for.
func (s Summary) MarshalJSON() ([]byte, error) {
	if s.Missing {
		return json.Marshal(map[string]bool{"missing": true})
	}
	return json.Marshal(map[string]any{
		"error_count":   s.ErrorCount,
		"warning_count": s.WarningCount,
		"total_count":   s.TotalCount,
		"error_rate":    s.ErrorRate,
		"warning_rate":  s.WarningRate,
	})
}

// Scan counts lines containing the warning and error markers. A line
// containing both counts as an error only. A nonexistent file yields a
// Summary with Missing set; any other read failure is returned as an error.
func Scan(path, warnMarker, errMarker string) (*Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Summary{Missing: true}, nil
		}
		return nil, fmt.Errorf("failed to read log file %s: %w", path, err)
	}

	s := &Summary{}
	for _, line := range strings.Split(string(data), "\n") {
		switch {
		case strings.Contains(line, errMarker):
			s.ErrorCount++
		case strings.Contains(line, warnMarker):
			s.WarningCount++
		}
		s.TotalCount++
	}

	s.ErrorRate = fmt.Sprintf("%.2f %%", 100*float64(s.ErrorCount)/float64(s.TotalCount))
	s.WarningRate = fmt.Sprintf("%.2f %%", 100*float64(s.WarningCount)/float64(s.TotalCount))
	return s, nil
}
