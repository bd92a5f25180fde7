package sqlgraph

import (
	"context"

	"github.com/syssam/relq"
)

// Fetcher fetches the records of one entity whose column equals a key,
// already converted to record form. Types created by NewType implement it.
type Fetcher interface {
	// Spec returns the spec of the fetched entity.
	Spec() *EntitySpec
	// FetchByForeignKey returns a slice of records when many is true and a
	// single record (or its nil value) otherwise. A nil key fetches nothing.
	FetchByForeignKey(ctx context.Context, s *Session, key any, column string, req *RelationRequest, many bool) (any, error)
}

// Registry maps entity names to their fetchers. It is built once at startup
// and is safe for concurrent use since it is never modified afterwards.
type Registry struct {
	fetchers map[string]Fetcher
}

// NewRegistry returns a registry of the given fetchers, keyed by entity name.
func NewRegistry(fetchers ...Fetcher) *Registry {
	r := &Registry{fetchers: make(map[string]Fetcher, len(fetchers))}
	for _, f := range fetchers {
		r.fetchers[f.Spec().Name] = f
	}
	return r
}

// Fetcher returns the fetcher of the named entity.
func (r *Registry) Fetcher(name string) (Fetcher, error) {
	if r != nil {
		if f, ok := r.fetchers[name]; ok {
			return f, nil
		}
	}
	return nil, relq.NewFetcherMissingError(name)
}

// Spec returns the spec of the named entity.
func (r *Registry) Spec(name string) (*EntitySpec, error) {
	f, err := r.Fetcher(name)
	if err != nil {
		return nil, err
	}
	return f.Spec(), nil
}
