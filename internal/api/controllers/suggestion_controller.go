package controllers

import (
	"errors"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"github.com/pixelforge/nexus/internal/perrors"
	"github.com/pixelforge/nexus/internal/services"
	"github.com/pixelforge/nexus/internal/services/access"
	"github.com/pixelforge/nexus/internal/services/activity"
	"github.com/pixelforge/nexus/internal/services/suggestion"
	"github.com/pixelforge/nexus/internal/services/user"
)

type SuggestionsRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func RegisterSuggestionRoutes(r *router.Router, svc *services.Services) {
	// Project management suggestions (any authenticated user)
	r.POST("/api/ai/project-suggestions", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		caller, err := access.RequireRole(currentUser(ctx), user.RoleAdmin, user.RoleProjectLead, user.RoleDeveloper)
		if err != nil {
			writeRoleError(ctx, stdCtx, err)
			return
		}

		if svc.Suggestion == nil {
			writeError(ctx, stdCtx, "AI suggestions are not configured", perrors.NewErrNotFound("AI suggestions are not configured", errors.New("no generator configured")))
			return
		}

		var body SuggestionsRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		if body.Name == "" || body.Description == "" {
			writeError(ctx, stdCtx, "Project name and description are required", perrors.NewErrInvalidRequest("Project name and description are required", errors.New("missing fields")))
			return
		}

		text := svc.Suggestion.ProjectSuggestions(stdCtx, body.Name, body.Description)

		svc.Activity.Record(stdCtx, &activity.Event{
			UserID:    caller.ID,
			UserEmail: caller.Email,
			Action:    activity.ActionSuggestionQuery,
			Detail:    body.Name,
		})

		writeOK(ctx, stdCtx, "success", map[string]any{
			"suggestions": text,
		})
	})

	// Risk analysis (admin or lead)
	r.POST("/api/ai/project-risks", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		caller, err := access.RequireRole(currentUser(ctx), user.RoleAdmin, user.RoleProjectLead)
		if err != nil {
			writeRoleError(ctx, stdCtx, err)
			return
		}

		if svc.Suggestion == nil {
			writeError(ctx, stdCtx, "AI suggestions are not configured", perrors.NewErrNotFound("AI suggestions are not configured", errors.New("no generator configured")))
			return
		}

		var body suggestion.RiskInput
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		if body.Name == "" || body.Description == "" {
			writeError(ctx, stdCtx, "Project name and description are required", perrors.NewErrInvalidRequest("Project name and description are required", errors.New("missing fields")))
			return
		}

		text := svc.Suggestion.ProjectRisks(stdCtx, &body)

		svc.Activity.Record(stdCtx, &activity.Event{
			UserID:    caller.ID,
			UserEmail: caller.Email,
			Action:    activity.ActionRiskQuery,
			Detail:    body.Name,
		})

		writeOK(ctx, stdCtx, "success", map[string]any{
			"risks": text,
		})
	})
}
