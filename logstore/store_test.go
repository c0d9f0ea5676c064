package logstore

import (
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var entryPattern = regexp.MustCompile(`^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\] `)

// steppingClock returns a clock advancing one second per call.
func steppingClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	now := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := now
		now = now.Add(time.Second)
		return t
	}
}

func newTestStore(t *testing.T, optFns ...func(o *Options)) *Store {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "activity_logs")
	fns := append([]func(o *Options){func(o *Options) {
		o.Dir = dir
		o.Now = steppingClock(time.Date(2026, 10, 19, 9, 30, 0, 0, time.Local))
	}}, optFns...)
	return New(fns...)
}

func TestNew_Defaults(t *testing.T) {
	s := New()
	assert.Equal(t, DefaultDir, s.Dir())
	assert.Equal(t, []Category{CategoryRoute, CategoryTask, CategoryLearning}, s.Categories())
	assert.Equal(t, "route.txt", s.FileName(CategoryRoute))
	assert.Equal(t, filepath.Join(DefaultDir, "learning.txt"), s.Path(CategoryLearning))
	assert.Empty(t, s.FileName("bogus"))
}

func TestNew_CustomCategories(t *testing.T) {
	s := New(func(o *Options) {
		o.Categories = []Category{"Meal", "meal", " sleep "}
		o.Extension = ".log"
	})
	assert.Equal(t, []Category{"meal", "sleep"}, s.Categories())
	assert.Equal(t, "sleep.log", s.FileName("sleep"))
}

func TestParseCategory(t *testing.T) {
	s := New()

	c, err := s.ParseCategory("  ROUTE ")
	require.NoError(t, err)
	assert.Equal(t, CategoryRoute, c)

	_, err = s.ParseCategory("badcategory")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownCategory))
	kind, ok := KindOf(err)
	assert.True(t, ok)
	assert.Equal(t, KindUnknownCategory, kind)
}

func TestAppend_ThenReadAll(t *testing.T) {
	s := newTestStore(t)

	_, statErr := os.Stat(s.Dir())
	assert.True(t, os.IsNotExist(statErr), "directory is created lazily")

	msg := s.Log(CategoryRoute, "I took marthalli route today")
	assert.Equal(t, "Updated route.txt with entry: I took marthalli route today", msg)

	res, err := s.Read(CategoryRoute, 0)
	require.NoError(t, err)
	assert.Equal(t, StatusOK, res.Status)
	require.Len(t, res.Lines, 1)
	assert.Regexp(t, entryPattern, res.Lines[0])
	assert.True(t, strings.HasSuffix(res.Lines[0], "I took marthalli route today"))
	assert.Equal(t, "[2026-10-19 09:30:00] I took marthalli route today\n", res.Text())
}

func TestRead_LastN(t *testing.T) {
	s := newTestStore(t)
	for _, text := range []string{"one", "two", "three", "four"} {
		_, err := s.Append(CategoryTask, text)
		require.NoError(t, err)
	}

	tests := []struct {
		name string
		n    int
		want []string
	}{
		{"all", 0, []string{"one", "two", "three", "four"}},
		{"fewer than stored", 2, []string{"three", "four"}},
		{"exactly stored", 4, []string{"one", "two", "three", "four"}},
		{"more than stored", 10, []string{"one", "two", "three", "four"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.Read(CategoryTask, tt.n)
			require.NoError(t, err)
			entries, err := res.Entries()
			require.NoError(t, err)
			got := make([]string, len(entries))
			for i, e := range entries {
				got[i] = e.Text
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRead_NegativeCount(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Read(CategoryTask, -1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidCount))
}

func TestRead_MissingAndEmpty(t *testing.T) {
	s := newTestStore(t)

	res, err := s.Read(CategoryLearning, 0)
	require.NoError(t, err)
	assert.Equal(t, StatusMissing, res.Status)
	assert.Equal(t, "No logs found in learning.txt", s.ReadText(CategoryLearning, 0))

	require.NoError(t, os.MkdirAll(s.Dir(), 0o755))
	require.NoError(t, os.WriteFile(s.Path(CategoryLearning), nil, 0o644))

	res, err = s.Read(CategoryLearning, 3)
	require.NoError(t, err)
	assert.Equal(t, StatusEmpty, res.Status)
	assert.Equal(t, "learning.txt is empty.", s.ReadText(CategoryLearning, 3))
}

func TestReadText_LastOneAfterSecondAppend(t *testing.T) {
	s := newTestStore(t)
	s.Log(CategoryRoute, "I took marthalli route today")
	s.Log(CategoryRoute, "I took the ring road")

	out := s.ReadText(CategoryRoute, 1)
	assert.Equal(t, "[2026-10-19 09:30:01] I took the ring road\n", out)
}

func TestReadText_Idempotent(t *testing.T) {
	s := newTestStore(t)
	s.Log(CategoryTask, "I completed task of sales ppt creation")
	s.Log(CategoryTask, "I reviewed the budget")

	first := s.ReadText(CategoryTask, 0)
	second := s.ReadText(CategoryTask, 0)
	assert.Equal(t, first, second)
}

func TestAppend_UnknownCategory(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Append("meal", "lunch")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownCategory))

	msg := s.Log("meal", "lunch")
	assert.True(t, strings.HasPrefix(msg, "Error writing to meal: "), msg)
}

func TestAppend_IOErrorIsSoft(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	s := New(func(o *Options) { o.Dir = filepath.Join(blocker, "logs") })

	_, err := s.Append(CategoryRoute, "x")
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindIO, kind)

	msg := s.Log(CategoryRoute, "x")
	assert.True(t, strings.HasPrefix(msg, "Error writing to route.txt: "), msg)
}

func TestAppend_FoldsNewlines(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Append(CategoryLearning, "line one\nline two\r\n")
	require.NoError(t, err)

	res, err := s.Read(CategoryLearning, 0)
	require.NoError(t, err)
	require.Len(t, res.Lines, 1)
	assert.True(t, strings.HasSuffix(res.Lines[0], "line one line two"))
}

func TestLog_ConfirmsStoredText(t *testing.T) {
	s := newTestStore(t)

	msg := s.Log(CategoryRoute, "a\nb")
	assert.Equal(t, "Updated route.txt with entry: a b", msg)
	assert.Equal(t, "[2026-10-19 09:30:00] a b\n", s.ReadText(CategoryRoute, 0))
}

func TestRead_IOErrorIsSoft(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, os.MkdirAll(s.Path(CategoryTask), 0o755))

	_, err := s.Read(CategoryTask, 0)
	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindIO, kind)

	msg := s.ReadText(CategoryTask, 1)
	assert.True(t, strings.HasPrefix(msg, "Error reading from task.txt: "), msg)
}

func TestAppend_ConcurrentWritersKeepWholeLines(t *testing.T) {
	s := newTestStore(t, func(o *Options) { o.Now = time.Now })

	const writers, perWriter = 8, 25
	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				_, err := s.Append(CategoryRoute, "concurrent entry")
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	res, err := s.Read(CategoryRoute, 0)
	require.NoError(t, err)
	require.Len(t, res.Lines, writers*perWriter)
	for _, line := range res.Lines {
		assert.Regexp(t, entryPattern, line)
		assert.True(t, strings.HasSuffix(line, "concurrent entry"))
	}
}

func TestParseEntry(t *testing.T) {
	e, err := ParseEntry("[2026-10-19 09:30:00] I learned about reinforcement learning\n")
	require.NoError(t, err)
	assert.Equal(t, "I learned about reinforcement learning", e.Text)
	assert.Equal(t, 2026, e.Time.Year())
	assert.Equal(t, "[2026-10-19 09:30:00] I learned about reinforcement learning", e.String())

	for _, bad := range []string{"no stamp", "[2026-10-19 09:30:00 missing close", "[yesterday] text"} {
		_, err := ParseEntry(bad)
		assert.Error(t, err, bad)
	}
}
