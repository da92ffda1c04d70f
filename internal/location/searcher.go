package location

import (
	"context"
	"time"
)

// Searcher debounces interactive location searches against a Service.
type Searcher struct {
	svc   Service
	guard *LatestWins[[]SearchResult]
}

// NewSearcher creates a searcher. onResults receives the results of the last
// query of each burst.
func NewSearcher(svc Service, debounce time.Duration, onResults func(Result[[]SearchResult])) *Searcher {
	return &Searcher{svc: svc, guard: NewLatestWins(debounce, onResults)}
}

// Query submits query, superseding any earlier one.
func (s *Searcher) Query(ctx context.Context, query string) uint64 {
	return s.guard.Submit(ctx, func(ctx context.Context) ([]SearchResult, error) {
		return s.svc.Search(ctx, query)
	})
}

// Latest returns the last applied search results.
func (s *Searcher) Latest() (Result[[]SearchResult], bool) {
	return s.guard.Latest()
}

// Stop discards pending and in-flight queries.
func (s *Searcher) Stop() {
	s.guard.Stop()
}
