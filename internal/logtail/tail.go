package logtail

import (
	"fmt"
	"os"
	"strings"
)

// Tail returns the last n lines of the file at path. n <= 0 means the whole
// file.
//
// A missing or unreadable file is reported inline in the returned text, so a
// triage request can still describe the other client's log instead of
// aborting.
func Tail(path string, n int) string {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Sprintf("ERROR: Log file not found at %s", path)
		}
		return fmt.Sprintf("ERROR reading %s: %v", path, err)
	}
	if len(data) == 0 {
		return ""
	}

	text := string(data)
	hadTrailingNewline := strings.HasSuffix(text, "\n")
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	if n > 0 && len(lines) > n {
		lines = lines[len(lines)-n:]
	}

	out := strings.Join(lines, "\n")
	if hadTrailingNewline {
		out += "\n"
	}
	return out
}
