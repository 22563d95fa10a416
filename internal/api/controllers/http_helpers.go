package controllers

import (
	"context"
	"errors"
	"fmt"

	json "github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"github.com/pixelforge/nexus/internal/api/response"
	"github.com/pixelforge/nexus/internal/perrors"
	"github.com/pixelforge/nexus/internal/services/access"
	"github.com/pixelforge/nexus/internal/services/user"
)

// requestContext returns a baseline context for handlers. fasthttp does not
// provide a standard context, so the middleware stores the extracted trace
// context under "traceCtx" and we fall back to Background.
func requestContext(ctx *fasthttp.RequestCtx) context.Context {
	if traceCtx, ok := ctx.UserValue("traceCtx").(context.Context); ok {
		return traceCtx
	}

	return context.Background()
}

// currentUser returns the session user stored by the auth middleware, or nil
// on public routes.
func currentUser(ctx *fasthttp.RequestCtx) *user.User {
	u, _ := ctx.UserValue("user").(*user.User)
	return u
}

func parseBody(ctx *fasthttp.RequestCtx, target any) error {
	body := ctx.PostBody()
	if len(body) == 0 {
		return errors.New("request body is empty")
	}

	return json.Unmarshal(body, target)
}

func writeError(ctx *fasthttp.RequestCtx, stdCtx context.Context, message string, err error) {
	response.NewResponse[any](stdCtx, message, nil).WithError(err).Write(ctx)
}

func writeOK(ctx *fasthttp.RequestCtx, stdCtx context.Context, message string, data any) {
	response.NewResponse(stdCtx, message, data).Write(ctx)
}

func pathParam(ctx *fasthttp.RequestCtx, key string) (string, error) {
	val := ctx.UserValue(key)
	if val == nil {
		return "", fmt.Errorf("%s is required", key)
	}

	return fmt.Sprint(val), nil
}

func pathParamUUID(ctx *fasthttp.RequestCtx, key string) (uuid.UUID, error) {
	val, err := pathParam(ctx, key)
	if err != nil {
		return uuid.Nil, err
	}

	return uuid.Parse(val)
}

// writeRoleError maps gate failures: missing session is 401, a role outside
// the allow-list is 403.
func writeRoleError(ctx *fasthttp.RequestCtx, stdCtx context.Context, err error) {
	switch {
	case errors.Is(err, access.ErrAuthenticationRequired):
		writeError(ctx, stdCtx, "Authentication required", perrors.NewErrUnauthorized("Authentication required", err))
	case errors.Is(err, access.ErrInsufficientPermissions):
		writeError(ctx, stdCtx, "Insufficient permissions", perrors.NewErrForbidden("Insufficient permissions", err))
	default:
		writeError(ctx, stdCtx, "Access check failed", perrors.NewErrInternalServerError("Access check failed", err))
	}
}

// writeOwnershipError maps resource-level checks: a user whose role passed
// the gate but who has no qualifying relationship to the project gets 403.
func writeOwnershipError(ctx *fasthttp.RequestCtx, stdCtx context.Context, err error) {
	switch {
	case errors.Is(err, access.ErrAuthenticationRequired):
		writeError(ctx, stdCtx, "Authentication required", perrors.NewErrUnauthorized("Authentication required", err))
	case errors.Is(err, access.ErrAccessDenied):
		writeError(ctx, stdCtx, "Access denied", perrors.NewErrForbidden("Access denied", err))
	default:
		writeError(ctx, stdCtx, "Access check failed", perrors.NewErrInternalServerError("Access check failed", err))
	}
}

// clientIP prefers X-Forwarded-For so limits follow the real client behind a
// proxy, falling back to the peer address.
func clientIP(ctx *fasthttp.RequestCtx) string {
	if fwd := ctx.Request.Header.Peek("X-Forwarded-For"); len(fwd) > 0 {
		for i, c := range fwd {
			if c == ',' {
				return string(fwd[:i])
			}
		}
		return string(fwd)
	}

	return ctx.RemoteIP().String()
}
