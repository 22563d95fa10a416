package api

import (
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/fasthttp/router"
	"github.com/redis/go-redis/v9"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/propagation"

	"github.com/pixelforge/nexus/internal/api/authenticator"
	"github.com/pixelforge/nexus/internal/api/controllers"
	"github.com/pixelforge/nexus/internal/api/ratelimit"
	"github.com/pixelforge/nexus/internal/api/response"
	"github.com/pixelforge/nexus/internal/perrors"
	"github.com/pixelforge/nexus/internal/services/session"
)

var tracePropagator = propagation.TraceContext{}

func (s *Server) initRoutes() fasthttp.RequestHandler {
	r := router.New()

	r.GET("/api/health", func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusOK)
		_, _ = ctx.Write([]byte("OK"))
	})

	auth, err := authenticator.New(s.conf)
	if err != nil {
		log.Fatal(err)
	}

	var limiter ratelimit.Limiter
	if s.conf.REDIS_ADDR != "" {
		limiter = ratelimit.NewRedisLimiter(redis.NewClient(&redis.Options{
			Addr:     s.conf.REDIS_ADDR,
			Password: s.conf.REDIS_PASSWORD,
		}), "")
		slog.Info("Using Redis login rate limiter", slog.String("addr", s.conf.REDIS_ADDR))
	} else {
		limiter = ratelimit.NewInMemoryLimiter()
	}

	controllers.RegisterAuthRoutes(r, s.services, auth, limiter, s.conf.COOKIE_SECURE)
	controllers.RegisterUserRoutes(r, s.services)
	controllers.RegisterProjectRoutes(r, s.services)
	controllers.RegisterDocumentRoutes(r, s.services)
	controllers.RegisterSuggestionRoutes(r, s.services)
	controllers.RegisterAdminRoutes(r, s.services)

	return s.withMiddlewares(r.Handler)
}

func (s *Server) withMiddlewares(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		applyCORS(ctx)
		if string(ctx.Method()) == fasthttp.MethodOptions {
			ctx.SetStatusCode(fasthttp.StatusNoContent)
			return
		}

		start := time.Now()
		uri := ctx.URI()
		requestURI := string(uri.FullURI())
		slog.Info("Started processing", slog.String("method", string(ctx.Method())), slog.String("request_uri", requestURI))

		h := http.Header{}
		ctx.Request.Header.VisitAll(func(k, v []byte) {
			h[string(k)] = []string{string(v)}
		})
		traceCtx := tracePropagator.Extract(ctx, propagation.HeaderCarrier(h))
		ctx.SetUserValue("traceCtx", traceCtx)

		// Resolve the session cookie to a user. Unknown and expired tokens
		// resolve to nil, which protected routes reject below.
		token := string(ctx.Request.Header.Cookie(session.CookieName))
		u, err := s.services.Session.Resolve(traceCtx, token)
		if err != nil {
			response.NewResponse[any](traceCtx, "Failed to resolve session", nil).
				WithError(perrors.NewErrInternalServerError("Failed to resolve session", err)).
				Write(ctx)
			return
		}

		if u != nil {
			ctx.SetUserValue("user", u)
		} else if !isPublicRoute(ctx) {
			response.NewResponse[any](traceCtx, "Authentication required", nil).
				WithError(perrors.NewErrUnauthorized("Authentication required", errors.New("no valid session"))).
				Write(ctx)
			return
		}

		next(ctx)

		slog.Info("Finished processing", slog.String("method", string(ctx.Method())), slog.String("request_uri", requestURI), slog.Duration("duration", time.Since(start)))
	}
}

func applyCORS(ctx *fasthttp.RequestCtx) {
	headers := &ctx.Response.Header
	headers.Set("Access-Control-Allow-Origin", string(ctx.Request.Header.Peek("Origin")))
	headers.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS,PATCH")
	headers.Set("Access-Control-Allow-Headers", os.Getenv("ALLOWED_HEADERS"))
	headers.Set("Access-Control-Allow-Credentials", "true")
}

func isPublicRoute(ctx *fasthttp.RequestCtx) bool {
	path := string(ctx.Path())

	// Logout stays public: revoking an absent session is a no-op
	publicAuthRoutes := []string{
		"/api/auth/login",
		"/api/auth/logout",
		"/api/auth/enabled",
		"/api/auth/sso/login",
		"/api/auth/sso/callback",
	}

	switch {
	case path == "/api/health":
		return true
	default:
		for _, route := range publicAuthRoutes {
			if path == route {
				return true
			}
		}
		return false
	}
}
