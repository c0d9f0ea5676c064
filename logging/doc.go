// Package logging provides the minimal logging interface used across activitylog.
//
// Components accept a Logger so callers decide where structured output goes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (tests, the default)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "text", false)
//	store := logstore.New(func(o *logstore.Options) { o.Logger = logger })
package logging
