package httpapi

import (
	"net/http"

	"github.com/riskibarqy/matchday/internal/platform/logging"
)

type RouterOptions struct {
	Logger             *logging.Logger
	CORSAllowedOrigins []string
	// DocsEnabled exposes /openapi.yaml and /docs.
	DocsEnabled bool
}

func NewRouter(handler *Handler, opts RouterOptions) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}

	mux := http.NewServeMux()
	registerSystemRoutes(mux, handler)
	if opts.DocsEnabled {
		registerDocsRoutes(mux, handler)
	}
	registerPublicDomainRoutes(mux, handler)
	registerLiveRoutes(mux, handler)
	registerFavoriteRoutes(mux, handler)

	return RequestID(RequestTracing(RequestLogging(logger, CORS(opts.CORSAllowedOrigins, recoverPanic(logger, mux)))))
}

func recoverPanic(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := startSpan(r.Context(), "httpapi.recoverPanic")
		defer span.End()

		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.ErrorContext(ctx, "panic recovered", "panic", rec)
				writeInternalError(ctx, w)
			}
		}()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
