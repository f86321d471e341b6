package newsdoc

import "context"

// Searcher queries an external news search provider.
type Searcher interface {
	// Search returns the provider's ranked candidates for term.
	// Failures of the provider call are reported as *UpstreamError.
	Search(ctx context.Context, term string) ([]*Item, error)
}

// Resolver turns a search term into extracted articles.
type Resolver interface {
	// Resolve returns one Article per search result, in ranking order.
	// Returns EINVALID if term is empty and an *UpstreamError if the
	// search provider call fails.
	Resolve(ctx context.Context, term string) ([]*Article, error)
}
