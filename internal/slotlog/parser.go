package slotlog

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ethmon/ethmon/internal/domain"
)

// Prysm has changed the shape of its initial-sync progress line over
// releases. Both shapes carry the same triple: timestamp, last processed
// slot, chain head slot. Matchers are tried in order, newest format first;
// the first match wins.
var matchers = []*regexp.Regexp{
	// time="2024-06-15 10:30:45.123" level=info msg="Processing block 0xabc. 5000/10000 ..."
	// The slot pair must follow a sentence-ending period so it is not
	// confused with other slashed numbers in the line.
	regexp.MustCompile(`^time="([\d\-:\s.]+)" level=.*\. (\d+)/(\d+) .*$`),
	// time="2024-06-15 10:30:45.123" level=info msg="..." latestProcessedSlot/currentSlot="3000/9000" ...
	regexp.MustCompile(`^time="([\d\-:\s.]+)" level=.*latestProcessedSlot/currentSlot="(\d+)/(\d+)".*$`),
}

const timestampLayout = "2006-01-02 15:04:05"

// Parse extracts a progress sample from a single log line.
// Returns nil for lines that match neither format; most lines in a sync log
// do not match, so this is the common case and not an error.
func Parse(line string) *domain.ProgressSample {
	for _, matcher := range matchers {
		groups := matcher.FindStringSubmatch(line)
		if groups == nil {
			continue
		}

		observedAt, err := parseTimestamp(groups[1])
		if err != nil {
			continue
		}
		slot, err := strconv.ParseInt(groups[2], 10, 64)
		if err != nil {
			continue
		}
		currentSlot, err := strconv.ParseInt(groups[3], 10, 64)
		if err != nil {
			continue
		}

		return &domain.ProgressSample{
			ObservedAt:  observedAt,
			Slot:        slot,
			CurrentSlot: currentSlot,
		}
	}

	return nil
}

// parseTimestamp interprets the log timestamp as UTC with second precision.
// Fractional seconds are dropped; Prysm emits them inconsistently across
// versions.
func parseTimestamp(s string) (time.Time, error) {
	if idx := strings.IndexByte(s, '.'); idx != -1 {
		s = s[:idx]
	}
	return time.Parse(timestampLayout, s)
}
