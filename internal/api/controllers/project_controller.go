package controllers

import (
	"errors"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"github.com/pixelforge/nexus/internal/perrors"
	"github.com/pixelforge/nexus/internal/services"
	"github.com/pixelforge/nexus/internal/services/access"
	"github.com/pixelforge/nexus/internal/services/activity"
	project2 "github.com/pixelforge/nexus/internal/services/project"
	"github.com/pixelforge/nexus/internal/services/user"
)

func RegisterProjectRoutes(r *router.Router, svc *services.Services) {
	// Create project (admin only)
	r.POST("/api/projects", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		caller, err := access.RequireRole(currentUser(ctx), user.RoleAdmin)
		if err != nil {
			writeRoleError(ctx, stdCtx, err)
			return
		}

		var body project2.CreateProjectRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		created, err := svc.Project.Create(stdCtx, &body, caller.ID)
		if err != nil {
			switch {
			case errors.Is(err, project2.ErrInvalidDeadline):
				writeError(ctx, stdCtx, "Deadline must be a date in YYYY-MM-DD form", perrors.NewErrInvalidRequest("Deadline must be a date in YYYY-MM-DD form", err))
			default:
				writeError(ctx, stdCtx, "Failed to create project", perrors.NewErrInvalidRequest("Failed to create project", err))
			}
			return
		}

		svc.Activity.Record(stdCtx, &activity.Event{
			UserID:    caller.ID,
			UserEmail: caller.Email,
			Action:    activity.ActionProjectCreate,
			Target:    created.ID.String(),
			Detail:    created.Name,
		})

		writeOK(ctx, stdCtx, "Project created successfully", created)
	})

	// List projects visible to the caller
	r.GET("/api/projects", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		caller, err := access.RequireRole(currentUser(ctx), user.RoleAdmin, user.RoleProjectLead, user.RoleDeveloper)
		if err != nil {
			writeRoleError(ctx, stdCtx, err)
			return
		}

		projects, err := svc.Project.ListFor(stdCtx, caller)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to list projects", perrors.NewErrInternalServerError("Failed to list projects", err))
			return
		}

		writeOK(ctx, stdCtx, "Projects retrieved successfully", projects)
	})

	// Developer dashboard: projects the caller is assigned to. The allow-list
	// is exactly {developer}; admins and leads have their own views.
	r.GET("/api/projects/assigned", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		caller, err := access.RequireRole(currentUser(ctx), user.RoleDeveloper)
		if err != nil {
			writeRoleError(ctx, stdCtx, err)
			return
		}

		projects, err := svc.Project.ListAssigned(stdCtx, caller.ID)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to list assigned projects", perrors.NewErrInternalServerError("Failed to list assigned projects", err))
			return
		}

		writeOK(ctx, stdCtx, "Projects retrieved successfully", projects)
	})

	// Lead dashboard: projects the caller leads or created
	r.GET("/api/projects/lead", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		caller, err := access.RequireRole(currentUser(ctx), user.RoleProjectLead)
		if err != nil {
			writeRoleError(ctx, stdCtx, err)
			return
		}

		projects, err := svc.Project.ListLead(stdCtx, caller.ID)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to list lead projects", perrors.NewErrInternalServerError("Failed to list lead projects", err))
			return
		}

		writeOK(ctx, stdCtx, "Projects retrieved successfully", projects)
	})

	// Get one project: details with team members and documents
	r.GET("/api/projects/{id}", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		caller, err := access.RequireRole(currentUser(ctx), user.RoleAdmin, user.RoleProjectLead, user.RoleDeveloper)
		if err != nil {
			writeRoleError(ctx, stdCtx, err)
			return
		}

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		if err := svc.Access.CanViewProject(stdCtx, caller, id.String()); err != nil {
			writeOwnershipError(ctx, stdCtx, err)
			return
		}

		p, err := svc.Project.GetByID(stdCtx, id.String())
		if err != nil {
			if errors.Is(err, project2.ErrProjectNotFound) {
				writeError(ctx, stdCtx, "Project not found", perrors.NewErrNotFound("Project not found", err))
				return
			}
			writeError(ctx, stdCtx, "Failed to get project", perrors.NewErrInternalServerError("Failed to get project", err))
			return
		}

		team, err := svc.Project.TeamMembers(stdCtx, id.String())
		if err != nil {
			writeError(ctx, stdCtx, "Failed to list team members", perrors.NewErrInternalServerError("Failed to list team members", err))
			return
		}

		docs, err := svc.Document.ListByProject(stdCtx, id.String())
		if err != nil {
			writeError(ctx, stdCtx, "Failed to list documents", perrors.NewErrInternalServerError("Failed to list documents", err))
			return
		}

		writeOK(ctx, stdCtx, "Project retrieved successfully", map[string]any{
			"project":   p,
			"team":      team,
			"documents": docs,
		})
	})

	// Update project status (admin only)
	r.PATCH("/api/projects/{id}/status", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		caller, err := access.RequireRole(currentUser(ctx), user.RoleAdmin)
		if err != nil {
			writeRoleError(ctx, stdCtx, err)
			return
		}

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		var body project2.UpdateStatusRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		if err := svc.Project.UpdateStatus(stdCtx, id.String(), body.Status); err != nil {
			switch {
			case errors.Is(err, project2.ErrInvalidStatus):
				writeError(ctx, stdCtx, "Status must be active or completed", perrors.NewErrInvalidRequest("Status must be active or completed", err))
			case errors.Is(err, project2.ErrProjectNotFound):
				writeError(ctx, stdCtx, "Project not found", perrors.NewErrNotFound("Project not found", err))
			default:
				writeError(ctx, stdCtx, "Failed to update status", perrors.NewErrInternalServerError("Failed to update status", err))
			}
			return
		}

		svc.Activity.Record(stdCtx, &activity.Event{
			UserID:    caller.ID,
			UserEmail: caller.Email,
			Action:    activity.ActionProjectStatus,
			Target:    id.String(),
			Detail:    string(body.Status),
		})

		writeOK(ctx, stdCtx, "Status updated successfully", map[string]any{
			"status": body.Status,
		})
	})

	// Replace the developer team (admin, or the project's creator/lead)
	r.POST("/api/projects/{id}/assign", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		caller, err := access.RequireRole(currentUser(ctx), user.RoleAdmin, user.RoleProjectLead)
		if err != nil {
			writeRoleError(ctx, stdCtx, err)
			return
		}

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		if err := svc.Access.CanManageProject(stdCtx, caller, id.String()); err != nil {
			writeOwnershipError(ctx, stdCtx, err)
			return
		}

		var body project2.AssignTeamRequest
		if err := parseBody(ctx, &body); err != nil {
			writeError(ctx, stdCtx, "Invalid request body", perrors.NewErrInvalidRequest("Invalid request body", err))
			return
		}

		if err := svc.Project.AssignDevelopers(stdCtx, id.String(), body.DeveloperIDs); err != nil {
			if errors.Is(err, project2.ErrProjectNotFound) {
				writeError(ctx, stdCtx, "Project not found", perrors.NewErrNotFound("Project not found", err))
				return
			}
			writeError(ctx, stdCtx, "Failed to update assignments", perrors.NewErrInternalServerError("Failed to update assignments", err))
			return
		}

		svc.Activity.Record(stdCtx, &activity.Event{
			UserID:    caller.ID,
			UserEmail: caller.Email,
			Action:    activity.ActionProjectAssign,
			Target:    id.String(),
		})

		writeOK(ctx, stdCtx, "Team updated successfully", map[string]any{
			"assigned": len(body.DeveloperIDs),
		})
	})

	// Developer options for the assignment dialog (admin, creator, or lead)
	r.GET("/api/projects/{id}/developers", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		caller, err := access.RequireRole(currentUser(ctx), user.RoleAdmin, user.RoleProjectLead)
		if err != nil {
			writeRoleError(ctx, stdCtx, err)
			return
		}

		id, err := pathParamUUID(ctx, "id")
		if err != nil {
			writeError(ctx, stdCtx, "Invalid ID format", perrors.NewErrInvalidRequest("Invalid ID format", err))
			return
		}

		if err := svc.Access.CanManageProject(stdCtx, caller, id.String()); err != nil {
			writeOwnershipError(ctx, stdCtx, err)
			return
		}

		developers, err := svc.Project.ListDevelopers(stdCtx, id.String())
		if err != nil {
			writeError(ctx, stdCtx, "Failed to list developers", perrors.NewErrInternalServerError("Failed to list developers", err))
			return
		}

		writeOK(ctx, stdCtx, "Developers retrieved successfully", developers)
	})
}
