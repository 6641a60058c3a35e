package eta

import (
	"errors"
	"time"

	"github.com/ethmon/ethmon/internal/domain"
)

// secondsPerSlot is the beacon chain slot cadence: one new slot appears
// every 12 seconds regardless of how fast old ones are processed.
const secondsPerSlot = 12.0

var (
	// ErrNoElapsed means start and end carry the same timestamp, so no rate
	// can be derived. Happens when a window contains a single sample.
	ErrNoElapsed = errors.New("start and end samples carry the same timestamp")

	// ErrStalled means the processing speed exactly equals the slot
	// cadence: the backlog neither grows nor shrinks and no finish time
	// exists. Kept distinct from the losing-ground state, which is a valid
	// reportable outcome rather than a failure.
	ErrStalled = errors.New("processing speed exactly matches the slot cadence")
)

// Estimate is the throughput summary for one window.
type Estimate struct {
	SlotsProcessed int64
	Elapsed        time.Duration
	SlotsPerSecond float64
	CoverSpeed     float64 // net backlog-closing rate, slots/second
	RemainingSlots int64
	PercentSynced  float64       // end.Slot over end.CurrentSlot, 0..100
	LosingGround   bool          // head advances faster than the node processes
	Remaining      time.Duration // zero when LosingGround
}

// Compute derives an ETA estimate from a (start, end) sample pair.
// end.ObservedAt must not precede start.ObservedAt.
//
// The raw processing speed overstates progress because the chain head is a
// moving target: a new slot arrives every 12 seconds. Subtracting that
// cadence gives the net rate at which the backlog actually shrinks, which
// is what determines the finish time.
func Compute(start, end *domain.ProgressSample) (*Estimate, error) {
	elapsed := end.ObservedAt.Sub(start.ObservedAt)
	if elapsed <= 0 {
		return nil, ErrNoElapsed
	}

	est := &Estimate{
		SlotsProcessed: end.Slot - start.Slot,
		Elapsed:        elapsed,
		RemainingSlots: end.CurrentSlot - end.Slot,
	}
	est.SlotsPerSecond = float64(est.SlotsProcessed) / elapsed.Seconds()
	est.CoverSpeed = est.SlotsPerSecond - 1.0/secondsPerSlot
	if end.CurrentSlot > 0 {
		est.PercentSynced = 100 * float64(end.Slot) / float64(end.CurrentSlot)
	}

	switch {
	case est.CoverSpeed == 0:
		return nil, ErrStalled
	case est.CoverSpeed < 0:
		est.LosingGround = true
	default:
		est.Remaining = time.Duration(float64(est.RemainingSlots) / est.CoverSpeed * float64(time.Second))
	}

	return est, nil
}
