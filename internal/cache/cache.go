package cache

import "context"

// SuggestionCache holds short-lived product suggestion results keyed by
// customer class and search term. Values are JSON-encoded.
type SuggestionCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
}

type NoopCache struct{}

func NewNoop() NoopCache { return NoopCache{} }

func (NoopCache) Get(_ context.Context, _ string, _ any) (bool, error) {
	return false, nil
}

func (NoopCache) Set(_ context.Context, _ string, _ any) error {
	return nil
}
