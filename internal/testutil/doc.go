// Package testutil contains helpers shared by package tests: isolated stores
// rooted in a test temp directory, a deterministic clock, and builders for
// model content. They are not intended for production usage.
package testutil
