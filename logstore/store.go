package logstore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/activitylog/logging"
)

// DefaultDir is the directory used when Options.Dir is empty.
const DefaultDir = "activity_logs"

// Options configures a Store.
type Options struct {
	// Dir holds one file per category. Created on the first append.
	Dir string
	// Categories is the ordered, fixed category set accepted by the store.
	Categories []Category
	// Extension is appended to the category name to form its file name.
	Extension string
	// Now stamps new entries. Defaults to time.Now.
	Now func() time.Time
	// Logger receives structured diagnostics. Defaults to NoOpLogger.
	Logger logging.Logger
}

// Status describes the outcome of a successful read.
type Status int

const (
	// StatusOK means the file exists and holds at least one line.
	StatusOK Status = iota
	// StatusMissing means no file has been written for the category yet.
	StatusMissing
	// StatusEmpty means the file exists but holds no lines.
	StatusEmpty
)

// ReadResult is the outcome of Store.Read.
type ReadResult struct {
	Category Category
	File     string
	Status   Status
	Lines    []string // stored lines without trailing newlines, oldest first
}

// Text renders the lines newline-terminated, as they appear on disk.
func (r ReadResult) Text() string {
	if len(r.Lines) == 0 {
		return ""
	}
	return strings.Join(r.Lines, "\n") + "\n"
}

// Entries parses the returned lines.
func (r ReadResult) Entries() ([]Entry, error) {
	entries := make([]Entry, 0, len(r.Lines))
	for _, line := range r.Lines {
		e, err := ParseEntry(line)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Store appends and reads category log files. A Store is safe for concurrent
// use; writes to the same category are serialized.
type Store struct {
	opts  Options
	files map[Category]string
	locks map[Category]*sync.Mutex
}

// New creates a Store. Unset options fall back to the defaults.
func New(optFns ...func(o *Options)) *Store {
	opts := Options{
		Dir:        DefaultDir,
		Categories: DefaultCategories,
		Extension:  ".txt",
		Now:        time.Now,
		Logger:     logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Dir == "" {
		opts.Dir = DefaultDir
	}
	if len(opts.Categories) == 0 {
		opts.Categories = DefaultCategories
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	s := &Store{
		files: make(map[Category]string, len(opts.Categories)),
		locks: make(map[Category]*sync.Mutex, len(opts.Categories)),
	}

	categories := make([]Category, 0, len(opts.Categories))
	for _, c := range opts.Categories {
		c = normalizeCategory(string(c))
		if c == "" {
			continue
		}
		if _, dup := s.files[c]; dup {
			continue
		}
		categories = append(categories, c)
		s.files[c] = string(c) + opts.Extension
		s.locks[c] = &sync.Mutex{}
	}
	opts.Categories = categories
	s.opts = opts

	return s
}

// Dir returns the directory holding the category files.
func (s *Store) Dir() string { return s.opts.Dir }

// Categories returns the configured categories in order.
func (s *Store) Categories() []Category {
	out := make([]Category, len(s.opts.Categories))
	copy(out, s.opts.Categories)
	return out
}

// FileName returns the file name backing a category, or "" if unknown.
func (s *Store) FileName(c Category) string { return s.files[c] }

// Path returns the full path of the file backing a category, or "" if unknown.
func (s *Store) Path(c Category) string {
	name, ok := s.files[c]
	if !ok {
		return ""
	}
	return filepath.Join(s.opts.Dir, name)
}

// ParseCategory resolves a case-insensitive token to a configured category.
func (s *Store) ParseCategory(token string) (Category, error) {
	c := normalizeCategory(token)
	if _, ok := s.files[c]; !ok {
		return "", &Error{
			Kind: KindUnknownCategory,
			Op:   "parse",
			Err:  fmt.Errorf("%w %q: must be one of %s", ErrUnknownCategory, token, JoinCategories(s.opts.Categories)),
		}
	}
	return c, nil
}

// Append writes one entry stamped with the current time to the category file.
func (s *Store) Append(c Category, text string) (Entry, error) {
	path := s.Path(c)
	if path == "" {
		return Entry{}, s.unknown("append", c)
	}

	mu := s.locks[c]
	mu.Lock()
	defer mu.Unlock()

	entry := Entry{Time: s.opts.Now(), Text: sanitizeText(text)}

	if err := os.MkdirAll(s.opts.Dir, 0o755); err != nil {
		return Entry{}, s.ioError("append", c, err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return Entry{}, s.ioError("append", c, err)
	}

	// Single write per entry.
	if _, err := f.WriteString(entry.String() + "\n"); err != nil {
		f.Close()
		return Entry{}, s.ioError("append", c, err)
	}
	if err := f.Close(); err != nil {
		return Entry{}, s.ioError("append", c, err)
	}

	s.opts.Logger.Debug("logstore.append", "category", string(c), "file", path)

	return entry, nil
}

// Read returns the category's lines. n == 0 returns every line, n > 0 the
// last n lines in their original order. A missing or empty file is reported
// through ReadResult.Status, not as an error.
func (s *Store) Read(c Category, n int) (ReadResult, error) {
	path := s.Path(c)
	if path == "" {
		return ReadResult{}, s.unknown("read", c)
	}
	if n < 0 {
		return ReadResult{}, &Error{Kind: KindInvalidCount, Op: "read", Category: c, Err: fmt.Errorf("%w: %d", ErrInvalidCount, n)}
	}

	res := ReadResult{Category: c, File: s.files[c]}

	mu := s.locks[c]
	mu.Lock()
	data, err := os.ReadFile(path)
	mu.Unlock()

	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			res.Status = StatusMissing
			return res, nil
		}
		return ReadResult{}, s.ioError("read", c, err)
	}

	lines := splitLines(string(data))
	if len(lines) == 0 {
		res.Status = StatusEmpty
		return res, nil
	}
	if n > 0 && n < len(lines) {
		lines = lines[len(lines)-n:]
	}
	res.Lines = lines

	s.opts.Logger.Debug("logstore.read", "category", string(c), "lines", len(lines))

	return res, nil
}

// Log appends an entry and reports the outcome as text. It never fails.
func (s *Store) Log(c Category, text string) string {
	name := s.displayName(c)
	entry, err := s.Append(c, text)
	if err != nil {
		s.opts.Logger.Error("logstore.append_failed", "category", string(c), "error", err.Error())
		return fmt.Sprintf("Error writing to %s: %v", name, cause(err))
	}
	return fmt.Sprintf("Updated %s with entry: %s", name, entry.Text)
}

// ReadText reads a category and renders the outcome as text: the requested
// lines, a "no logs" or "empty" notice, or an error description.
func (s *Store) ReadText(c Category, n int) string {
	name := s.displayName(c)
	res, err := s.Read(c, n)
	if err != nil {
		s.opts.Logger.Error("logstore.read_failed", "category", string(c), "error", err.Error())
		return fmt.Sprintf("Error reading from %s: %v", name, cause(err))
	}
	switch res.Status {
	case StatusMissing:
		return fmt.Sprintf("No logs found in %s", name)
	case StatusEmpty:
		return fmt.Sprintf("%s is empty.", name)
	default:
		return res.Text()
	}
}

func (s *Store) displayName(c Category) string {
	if name, ok := s.files[c]; ok {
		return name
	}
	return string(c)
}

func (s *Store) unknown(op string, c Category) error {
	return &Error{
		Kind:     KindUnknownCategory,
		Op:       op,
		Category: c,
		Err:      fmt.Errorf("%w: must be one of %s", ErrUnknownCategory, JoinCategories(s.opts.Categories)),
	}
}

func (s *Store) ioError(op string, c Category, err error) error {
	return &Error{Kind: KindIO, Op: op, Category: c, Err: err}
}

// cause strips the Error envelope so text results read naturally.
func cause(err error) error {
	var se *Error
	if errors.As(err, &se) {
		return se.Err
	}
	return err
}

// splitLines splits file content into lines, dropping the terminator of the
// final line.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	content = strings.TrimSuffix(content, "\n")
	lines := strings.Split(content, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
