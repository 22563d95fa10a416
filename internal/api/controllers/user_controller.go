package controllers

import (
	"errors"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"github.com/pixelforge/nexus/internal/perrors"
	"github.com/pixelforge/nexus/internal/services"
	"github.com/pixelforge/nexus/internal/services/access"
	"github.com/pixelforge/nexus/internal/services/activity"
	"github.com/pixelforge/nexus/internal/services/user"
)

func RegisterUserRoutes(r *router.Router, svc *services.Services) {
	// Create user (admin only)
	r.POST("/api/users", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		caller, err := access.RequireRole(currentUser(ctx), user.RoleAdmin)
		if err != nil {
			writeRoleError(ctx, stdCtx, err)
			return
		}

		var body user.CreateUserRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		created, err := svc.User.Create(stdCtx, &body)
		if err != nil {
			switch {
			case errors.Is(err, user.ErrUserAlreadyExists):
				writeError(ctx, stdCtx, "User with this email already exists", perrors.NewErrConflict("User with this email already exists", err))
			case errors.Is(err, user.ErrPasswordTooShort):
				writeError(ctx, stdCtx, "Password must be at least 8 characters", perrors.NewErrInvalidRequest("Password must be at least 8 characters", err))
			default:
				writeError(ctx, stdCtx, "Failed to create user", perrors.NewErrInvalidRequest("Failed to create user", err))
			}
			return
		}

		svc.Activity.Record(stdCtx, &activity.Event{
			UserID:    caller.ID,
			UserEmail: caller.Email,
			Action:    activity.ActionUserCreate,
			Target:    created.ID,
			Detail:    created.Email,
		})

		writeOK(ctx, stdCtx, "User created successfully", created.Summary())
	})

	// List users (admin only)
	r.GET("/api/users", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		if _, err := access.RequireRole(currentUser(ctx), user.RoleAdmin); err != nil {
			writeRoleError(ctx, stdCtx, err)
			return
		}

		users, err := svc.User.List(stdCtx)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to list users", perrors.NewErrInternalServerError("Failed to list users", err))
			return
		}

		summaries := make([]*user.Summary, 0, len(users))
		for _, u := range users {
			summaries = append(summaries, u.Summary())
		}

		writeOK(ctx, stdCtx, "Users retrieved successfully", summaries)
	})
}
