package logstore

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the layout of the bracketed timestamp prefixing each entry.
const TimestampLayout = "2006-01-02 15:04:05"

// Entry is a single timestamped line in a category file.
type Entry struct {
	Time time.Time
	Text string
}

// String renders the entry in its on-disk form, without the trailing newline.
func (e Entry) String() string {
	return fmt.Sprintf("[%s] %s", e.Time.Format(TimestampLayout), e.Text)
}

// ParseEntry parses a stored line back into an Entry. The timestamp is
// interpreted in local time, matching how it was written.
func ParseEntry(line string) (Entry, error) {
	line = strings.TrimRight(line, "\r\n")
	if !strings.HasPrefix(line, "[") {
		return Entry{}, fmt.Errorf("malformed entry %q: missing timestamp", line)
	}
	end := strings.Index(line, "] ")
	if end < 0 {
		return Entry{}, fmt.Errorf("malformed entry %q: unterminated timestamp", line)
	}
	ts, err := time.ParseInLocation(TimestampLayout, line[1:end], time.Local)
	if err != nil {
		return Entry{}, fmt.Errorf("malformed entry %q: %w", line, err)
	}
	return Entry{Time: ts, Text: line[end+2:]}, nil
}

// sanitizeText folds line breaks so one append always produces exactly one line.
func sanitizeText(text string) string {
	if !strings.ContainsAny(text, "\r\n") {
		return text
	}
	return strings.Join(strings.FieldsFunc(text, func(r rune) bool { return r == '\r' || r == '\n' }), " ")
}
