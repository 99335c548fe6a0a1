package domain

import "context"

// Client is the upstream REST collaborator. It handles auth headers and
// retries; path templates reaching it have had :name placeholders
// substituted already.
type Client interface {
	API(path, userID, sessionID string) Request
}

// Request is a single upstream call under construction. Query and Version
// return the receiver for chaining.
type Request interface {
	Query(params map[string]string) Request
	Version(v string) Request
	Get(ctx context.Context) (map[string]any, error)
	Post(ctx context.Context, body map[string]any) (map[string]any, error)
	Put(ctx context.Context, body map[string]any) (map[string]any, error)
	Patch(ctx context.Context, body map[string]any) (map[string]any, error)
	Delete(ctx context.Context) (map[string]any, error)
}
