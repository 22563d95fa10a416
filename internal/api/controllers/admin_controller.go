package controllers

import (
	"strconv"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"github.com/pixelforge/nexus/internal/perrors"
	"github.com/pixelforge/nexus/internal/services"
	"github.com/pixelforge/nexus/internal/services/access"
	"github.com/pixelforge/nexus/internal/services/user"
)

func RegisterAdminRoutes(r *router.Router, svc *services.Services) {
	// Dashboard aggregates (admin only)
	r.GET("/api/admin/stats", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		if _, err := access.RequireRole(currentUser(ctx), user.RoleAdmin); err != nil {
			writeRoleError(ctx, stdCtx, err)
			return
		}

		stats, err := svc.Project.Stats(stdCtx)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to get stats", perrors.NewErrInternalServerError("Failed to get stats", err))
			return
		}

		userCount, err := svc.User.Count(stdCtx)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to count users", perrors.NewErrInternalServerError("Failed to count users", err))
			return
		}

		writeOK(ctx, stdCtx, "Stats retrieved successfully", map[string]any{
			"total_projects":     stats.TotalProjects,
			"active_projects":    stats.ActiveProjects,
			"completed_projects": stats.CompletedProjects,
			"recent_projects":    stats.RecentProjects,
			"total_users":        userCount,
		})
	})

	// Recent audit-log entries (admin only). Empty when ClickHouse is not
	// configured.
	r.GET("/api/admin/activity", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		if _, err := access.RequireRole(currentUser(ctx), user.RoleAdmin); err != nil {
			writeRoleError(ctx, stdCtx, err)
			return
		}

		limit, _ := strconv.Atoi(string(ctx.QueryArgs().Peek("limit")))

		events, err := svc.Activity.List(stdCtx, limit)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to list activity", perrors.NewErrInternalServerError("Failed to list activity", err))
			return
		}

		writeOK(ctx, stdCtx, "Activity retrieved successfully", events)
	})
}
