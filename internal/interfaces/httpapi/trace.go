package httpapi

import (
	"context"
	"net/http"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

var apiTracer = otel.Tracer("matchday/internal/interfaces/httpapi")
var noopSpan = trace.SpanFromContext(context.Background())

// untracedPaths are probes and static docs.
var untracedPaths = map[string]struct{}{
	"/healthz":      {},
	"/health":       {},
	"/livez":        {},
	"/readyz":       {},
	"/openapi.yaml": {},
}

// startSpan opens a child span for handlers only. Without a parent (filtered routes)
// it returns a no-op span so helpers never start root traces.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if !trace.SpanFromContext(ctx).SpanContext().IsValid() || !shouldCreateHTTPAPISpan(name) {
		return ctx, noopSpan
	}
	return apiTracer.Start(ctx, name)
}

func shouldCreateHTTPAPISpan(name string) bool {
	return strings.HasPrefix(name, "httpapi.Handler.")
}

func RequestTracing(next http.Handler) http.Handler {
	return otelhttp.NewHandler(next, "matchday-http",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + spanRoute(r.URL.Path)
		}),
		otelhttp.WithFilter(func(r *http.Request) bool {
			return shouldTraceRequest(r.URL.Path)
		}),
	)
}

func shouldTraceRequest(path string) bool {
	_, skip := untracedPaths[strings.ToLower(strings.TrimSpace(path))]
	return !skip
}

// spanRoute collapses league, match, client and fixture ids so span names stay bounded.
func spanRoute(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i := 1; i < len(segments); i++ {
		switch segments[i-1] {
		case "leagues":
			segments[i] = "{leagueID}"
		case "matches":
			segments[i] = "{matchID}"
		case "favorites":
			segments[i] = "{clientID}"
			if i+1 < len(segments) {
				segments[i+1] = "{fixtureID}"
			}
		}
	}
	return "/" + strings.Join(segments, "/")
}
