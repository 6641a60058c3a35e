package domain

import "time"

// ProgressSample is one observation extracted from a consensus-client log
// line during historical sync: how far the node has processed and where the
// chain head was at that moment.
type ProgressSample struct {
	ObservedAt  time.Time // log line timestamp, UTC, second precision
	Slot        int64     // last processed slot
	CurrentSlot int64     // chain head slot at observation time
}
