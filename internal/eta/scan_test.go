package eta

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func progressLine(ts time.Time, slot, current int64) string {
	return fmt.Sprintf(`time="%s" level=info msg="Processing block blah. %d/%d some stuff" prefix=initial-sync`+"\n",
		ts.UTC().Format("2006-01-02 15:04:05.000"), slot, current)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestScanDir_WindowSelection(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	writeFile(t, dir, "a.log",
		progressLine(now.Add(-3*24*time.Hour), 500, 50000)+
			progressLine(now.Add(-2*24*time.Hour), 5000, 50000))
	writeFile(t, dir, "b.log",
		progressLine(now.Add(-12*time.Hour), 30000, 50000)+
			progressLine(now.Add(-30*time.Minute), 42000, 50000))

	ext, err := ScanDir(dir, now, nil)
	if err != nil {
		t.Fatalf("ScanDir() error = %v", err)
	}

	if ext.End == nil || ext.End.Slot != 42000 {
		t.Errorf("End = %+v, want the minute -30 sample (slot 42000)", ext.End)
	}
	if ext.AllTimeStart == nil || ext.AllTimeStart.Slot != 500 {
		t.Errorf("AllTimeStart = %+v, want the day -3 sample (slot 500)", ext.AllTimeStart)
	}
	if ext.LastDayStart == nil || ext.LastDayStart.Slot != 30000 {
		t.Errorf("LastDayStart = %+v, want smallest slot within 24h (30000)", ext.LastDayStart)
	}
	if ext.LastHourStart == nil || ext.LastHourStart.Slot != 42000 {
		t.Errorf("LastHourStart = %+v, want the only sample within 1h (slot 42000)", ext.LastHourStart)
	}
}

func TestScanDir_LastDayPicksSmallestSlot(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	// The later entry carries the smaller slot: last-day must pick by slot,
	// not by time.
	writeFile(t, dir, "sync.log",
		progressLine(now.Add(-10*time.Hour), 25000, 50000)+
			progressLine(now.Add(-5*time.Hour), 20000, 50000)+
			progressLine(now.Add(-time.Minute), 45000, 50000))

	ext, err := ScanDir(dir, now, nil)
	if err != nil {
		t.Fatalf("ScanDir() error = %v", err)
	}
	if ext.LastDayStart.Slot != 20000 {
		t.Errorf("LastDayStart.Slot = %d, want 20000", ext.LastDayStart.Slot)
	}
}

func TestScanDir_LastHourPicksEarliestTime(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	// Within the hour window the earlier entry wins even though its slot is
	// larger than a later one would be; the tie-break dimension differs from
	// the last-day window on purpose.
	writeFile(t, dir, "sync.log",
		progressLine(now.Add(-50*time.Minute), 42000, 50000)+
			progressLine(now.Add(-30*time.Minute), 41000, 50000)+
			progressLine(now.Add(-time.Minute), 45000, 50000))

	ext, err := ScanDir(dir, now, nil)
	if err != nil {
		t.Fatalf("ScanDir() error = %v", err)
	}
	if ext.LastHourStart.Slot != 42000 {
		t.Errorf("LastHourStart.Slot = %d, want 42000 (earliest within the hour)", ext.LastHourStart.Slot)
	}
}

func TestScanDir_FileFilter(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	// Ignored: wrong extension. Its sample would otherwise win all-time.
	writeFile(t, dir, "old.txt", progressLine(now.Add(-5*24*time.Hour), 1, 50000))
	// Rotated log files still count.
	writeFile(t, dir, "sync.log1", progressLine(now.Add(-2*time.Hour), 30000, 50000))
	writeFile(t, dir, "sync.LOG", progressLine(now.Add(-time.Minute), 45000, 50000))

	ext, err := ScanDir(dir, now, nil)
	if err != nil {
		t.Fatalf("ScanDir() error = %v", err)
	}
	if ext.AllTimeStart.Slot != 30000 {
		t.Errorf("AllTimeStart.Slot = %d, want 30000 (txt file must be ignored)", ext.AllTimeStart.Slot)
	}
	if ext.End.Slot != 45000 {
		t.Errorf("End.Slot = %d, want 45000", ext.End.Slot)
	}
}

func TestScanDir_NonMatchingLinesSkipped(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	writeFile(t, dir, "sync.log",
		"some random non-matching line\n"+
			progressLine(now.Add(-time.Hour), 40000, 50000)+
			"another irrelevant line\n"+
			progressLine(now.Add(-time.Minute), 45000, 50000))

	ext, err := ScanDir(dir, now, nil)
	if err != nil {
		t.Fatalf("ScanDir() error = %v", err)
	}
	if ext.End.Slot != 45000 {
		t.Errorf("End.Slot = %d, want 45000", ext.End.Slot)
	}
}

func TestScanDir_AllTimeFloor(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	writeFile(t, dir, "sync.log",
		progressLine(now.Add(-3*24*time.Hour), 500, 50000)+
			progressLine(now.Add(-12*time.Hour), 30000, 50000)+
			progressLine(now.Add(-time.Minute), 45000, 50000))

	floor := now.Add(-24 * time.Hour)
	ext, err := ScanDir(dir, now, &floor)
	if err != nil {
		t.Fatalf("ScanDir() error = %v", err)
	}

	// The day -3 sample is below the floor; the all-time window starts at
	// the smallest slot among the remaining samples.
	if ext.AllTimeStart.Slot != 30000 {
		t.Errorf("AllTimeStart.Slot = %d, want 30000", ext.AllTimeStart.Slot)
	}
	// The end sample is unaffected by the floor.
	if ext.End.Slot != 45000 {
		t.Errorf("End.Slot = %d, want 45000", ext.End.Slot)
	}
}

func TestScanDir_NoSamples(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "sync.log", "nothing useful here\n")

	_, err := ScanDir(dir, time.Now().UTC(), nil)
	if !errors.Is(err, ErrNoSamples) {
		t.Fatalf("ScanDir() error = %v, want ErrNoSamples", err)
	}
}

func TestScanDir_MissingDirectory(t *testing.T) {
	_, err := ScanDir(filepath.Join(t.TempDir(), "does-not-exist"), time.Now().UTC(), nil)
	if err == nil {
		t.Fatal("ScanDir() error = nil, want error for missing directory")
	}
}

func TestScanDir_Idempotent(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	writeFile(t, dir, "a.log",
		progressLine(now.Add(-2*24*time.Hour), 1000, 50000)+
			progressLine(now.Add(-time.Minute), 45000, 50000))

	first, err := ScanDir(dir, now, nil)
	if err != nil {
		t.Fatalf("ScanDir() error = %v", err)
	}
	second, err := ScanDir(dir, now, nil)
	if err != nil {
		t.Fatalf("ScanDir() second run error = %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Errorf("re-running the scan changed the result:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}
