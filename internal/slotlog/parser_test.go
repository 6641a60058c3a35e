package slotlog

import (
	"testing"
	"time"

	"github.com/ethmon/ethmon/internal/domain"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		line string
		want *domain.ProgressSample
	}{
		{
			name: "new format",
			line: `time="2024-06-15 10:30:45.123" level=info msg="Processing block blah. 5000/10000 some stuff" prefix=initial-sync`,
			want: &domain.ProgressSample{
				ObservedAt:  time.Date(2024, 6, 15, 10, 30, 45, 0, time.UTC),
				Slot:        5000,
				CurrentSlot: 10000,
			},
		},
		{
			name: "new format without fractional seconds",
			line: `time="2024-06-15 10:30:45" level=info msg="Processing block 0xabc. 123/456 more text" prefix=initial-sync`,
			want: &domain.ProgressSample{
				ObservedAt:  time.Date(2024, 6, 15, 10, 30, 45, 0, time.UTC),
				Slot:        123,
				CurrentSlot: 456,
			},
		},
		{
			name: "new format swapped pair is taken literally",
			line: `time="2024-06-15 10:30:45.123" level=info msg="Processing block blah. 10000/5000 some stuff" prefix=initial-sync`,
			want: &domain.ProgressSample{
				ObservedAt:  time.Date(2024, 6, 15, 10, 30, 45, 0, time.UTC),
				Slot:        10000,
				CurrentSlot: 5000,
			},
		},
		{
			name: "legacy format",
			line: `time="2024-06-15 10:30:45.123" level=info msg="something" latestProcessedSlot/currentSlot="3000/9000" other stuff`,
			want: &domain.ProgressSample{
				ObservedAt:  time.Date(2024, 6, 15, 10, 30, 45, 0, time.UTC),
				Slot:        3000,
				CurrentSlot: 9000,
			},
		},
		{
			name: "random line",
			line: "some random log line with no matching data",
			want: nil,
		},
		{
			name: "timestamped line without a slot pair",
			line: `time="2024-06-15 10:30:45.000" level=info msg="unrelated"`,
			want: nil,
		},
		{
			name: "empty line",
			line: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.line)

			if tt.want == nil {
				if got != nil {
					t.Fatalf("Parse() = %+v, want nil", got)
				}
				return
			}

			if got == nil {
				t.Fatalf("Parse() = nil, want %+v", tt.want)
			}
			if !got.ObservedAt.Equal(tt.want.ObservedAt) {
				t.Errorf("ObservedAt = %v, want %v", got.ObservedAt, tt.want.ObservedAt)
			}
			if got.Slot != tt.want.Slot {
				t.Errorf("Slot = %d, want %d", got.Slot, tt.want.Slot)
			}
			if got.CurrentSlot != tt.want.CurrentSlot {
				t.Errorf("CurrentSlot = %d, want %d", got.CurrentSlot, tt.want.CurrentSlot)
			}
		})
	}
}

func TestParse_LegacyOnlyWhenNewFormatMisses(t *testing.T) {
	// The legacy line contains no ". P/T " token, so only the legacy matcher
	// can extract it. A line matching the new format must never fall through.
	legacy := `time="2024-06-15 10:30:45.123" level=info msg="x" latestProcessedSlot/currentSlot="3000/9000" tail`
	got := Parse(legacy)
	if got == nil || got.Slot != 3000 || got.CurrentSlot != 9000 {
		t.Fatalf("Parse(legacy) = %+v, want Slot=3000 CurrentSlot=9000", got)
	}

	// This line satisfies both shapes; the new-format pair must win.
	both := `time="2024-06-15 10:30:45.123" level=info msg="Processing block blah. 5000/10000 x" latestProcessedSlot/currentSlot="3000/9000" tail`
	got = Parse(both)
	if got == nil || got.Slot != 5000 || got.CurrentSlot != 10000 {
		t.Fatalf("Parse(both) = %+v, want new-format pair 5000/10000", got)
	}
}
