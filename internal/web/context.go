package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/tsimport/internal/core"
	"github.com/JonMunkholm/tsimport/internal/web/middleware"
)

// withRequestMetadata copies the client address and User-Agent into ctx for import logs.
func withRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	ctx = core.ContextWithClientIP(ctx, middleware.ClientIP(r))
	return core.ContextWithUserAgent(ctx, r.Header.Get("User-Agent"))
}
