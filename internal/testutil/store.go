package testutil

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/hupe1980/activitylog/logstore"
)

// Epoch is the first timestamp produced by SteppingClock in NewStore.
var Epoch = time.Date(2026, 10, 19, 9, 30, 0, 0, time.Local)

// SteppingClock returns a clock that starts at start and advances one second
// per call. It is safe for concurrent use.
func SteppingClock(start time.Time) func() time.Time {
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

// NewStore returns a store writing below t.TempDir() and stamping entries
// with SteppingClock(Epoch). Extra option functions run last.
func NewStore(t testing.TB, optFns ...func(o *logstore.Options)) *logstore.Store {
	t.Helper()
	dir := filepath.Join(t.TempDir(), logstore.DefaultDir)
	fns := append([]func(o *logstore.Options){func(o *logstore.Options) {
		o.Dir = dir
		o.Now = SteppingClock(Epoch)
	}}, optFns...)
	return logstore.New(fns...)
}
