package logquery

import (
	"errors"

	"github.com/hupe1980/activitylog/logging"
	"github.com/hupe1980/activitylog/logstore"
)

// Searcher answers search commands from a Store.
type Searcher struct {
	store  *logstore.Store
	logger logging.Logger
}

// SearcherOptions configures a Searcher.
type SearcherOptions struct {
	Logger logging.Logger
}

// NewSearcher binds a Searcher to a store.
func NewSearcher(store *logstore.Store, optFns ...func(o *SearcherOptions)) *Searcher {
	opts := SearcherOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	return &Searcher{store: store, logger: opts.Logger}
}

// Parse parses a command against the store's categories.
func (s *Searcher) Parse(command string) (Query, error) {
	return Parse(command, s.store.Categories())
}

// Find runs a parsed query against the store.
func (s *Searcher) Find(q Query) (logstore.ReadResult, error) {
	return s.store.Read(q.Category, q.Last)
}

// Search parses and runs a command, rendering every outcome as text. Parse
// failures yield their error message; read outcomes are rendered by the store.
func (s *Searcher) Search(command string) string {
	q, err := s.Parse(command)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			s.logger.Warn("logquery.parse_failed", "kind", pe.Kind.String(), "input", command)
			return pe.Message
		}
		return "Error searching logs: " + err.Error()
	}

	s.logger.Debug("logquery.search", "query", q.String())

	return s.store.ReadText(q.Category, q.Last)
}
