// Package logstore persists activity entries in append-only text files, one
// file per category. Every entry is a single line of the form
//
//	[2006-01-02 15:04:05] free text
//
// Files are created lazily on the first write and are never rewritten,
// compacted or truncated by this package.
//
// The typed API (Append, Read) reports failures as *Error values. The text API
// (Log, ReadText) renders every outcome, including failures, as a human
// readable string for callers such as language model tools that cannot act on
// Go errors.
package logstore
