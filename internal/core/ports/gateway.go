package ports

import (
	"context"
	"net/url"
)

// Gateway is the single egress point for all HTTP calls against the
// back-office API. Implementations attach the current bearer token (if
// any) immediately before transmission and unwrap the response
// envelope, so callers deal only in decoded payloads and the domain
// error taxonomy.
type Gateway interface {
	Get(ctx context.Context, path string, query url.Values, out any) error
	Post(ctx context.Context, path string, body, out any) error
	Put(ctx context.Context, path string, body, out any) error
	Patch(ctx context.Context, path string, body, out any) error
	Delete(ctx context.Context, path string) error
}
