package eta

import (
	"fmt"
	"io"
	"time"

	"github.com/ethmon/ethmon/internal/domain"
)

const stampLayout = "2006-01-02 15:04"

// WriteReport renders the multi-window ETA report. The labels are stable:
// operators and scripts grep for them.
//
// A window that cannot produce an estimate (no samples, or a degenerate
// rate) gets a labeled failure line; the remaining windows still print.
func WriteReport(w io.Writer, ext *Extrema, now time.Time) {
	fmt.Fprintf(w, "Last log (UTC): %s\n", ext.End.ObservedAt.Format(stampLayout))
	fmt.Fprintf(w, "Last processed slot: %d\n\n", ext.End.Slot)

	writeWindow(w, "Full Sync Start (UTC)", ext.AllTimeStart, ext.End, now)
	writeWindow(w, "Last Day Start (UTC)", ext.LastDayStart, ext.End, now)
	writeWindow(w, "Last Hour Start (UTC)", ext.LastHourStart, ext.End, now)
}

func writeWindow(w io.Writer, label string, start, end *domain.ProgressSample, now time.Time) {
	if start == nil {
		fmt.Fprintf(w, "%s: no samples within this window\n\n", label)
		return
	}

	fmt.Fprintf(w, "%s: %s\n", label, start.ObservedAt.Format(stampLayout))

	est, err := Compute(start, end)
	if err != nil {
		fmt.Fprintf(w, "cannot estimate: %v\n\n", err)
		return
	}

	fmt.Fprintf(w, "%s\n\n", FormatEstimate(est, now))
}

// FormatEstimate renders the single-line throughput summary for one window.
func FormatEstimate(est *Estimate, now time.Time) string {
	base := fmt.Sprintf("%d slots processed in %s, aka %.1f slots/second, %.2f%% of the chain synced",
		est.SlotsProcessed, est.Elapsed, est.SlotsPerSecond, est.PercentSynced)

	if est.LosingGround {
		return base + ", LOSING GROUND: new slots arrive faster than they are processed"
	}

	finish := now.Add(est.Remaining).UTC()
	return base + fmt.Sprintf(", estimated finish at %s", finish.Format(stampLayout))
}
