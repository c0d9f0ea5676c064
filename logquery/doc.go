// Package logquery parses the search command grammar
//
//	search <category>: last <N>
//	search <category>: all
//
// and resolves it against a logstore.Store. Matching is case-insensitive.
package logquery
