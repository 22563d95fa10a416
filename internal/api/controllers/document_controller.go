package controllers

import (
	"errors"
	"fmt"

	"github.com/fasthttp/router"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"github.com/pixelforge/nexus/internal/perrors"
	"github.com/pixelforge/nexus/internal/services"
	"github.com/pixelforge/nexus/internal/services/access"
	"github.com/pixelforge/nexus/internal/services/activity"
	document2 "github.com/pixelforge/nexus/internal/services/document"
	"github.com/pixelforge/nexus/internal/services/user"
)

// maxUploadSize caps document uploads at 32 MiB
const maxUploadSize = 32 << 20

func RegisterDocumentRoutes(r *router.Router, svc *services.Services) {
	// Upload a document (admin, or the project's creator/lead). Multipart
	// form with "file" and "projectId" fields.
	r.POST("/api/documents/upload", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		caller, err := access.RequireRole(currentUser(ctx), user.RoleAdmin, user.RoleProjectLead)
		if err != nil {
			writeRoleError(ctx, stdCtx, err)
			return
		}

		id, err := uuid.ParseBytes(ctx.FormValue("projectId"))
		if err != nil {
			writeError(ctx, stdCtx, "A valid projectId is required", perrors.NewErrInvalidRequest("A valid projectId is required", err))
			return
		}

		if err := svc.Access.CanManageProject(stdCtx, caller, id.String()); err != nil {
			writeOwnershipError(ctx, stdCtx, err)
			return
		}

		header, err := ctx.FormFile("file")
		if err != nil {
			writeError(ctx, stdCtx, "File is required", perrors.NewErrInvalidRequest("File is required", err))
			return
		}

		if header.Size > maxUploadSize {
			writeError(ctx, stdCtx, "File exceeds the 32MB limit", perrors.NewErrInvalidRequest("File exceeds the 32MB limit", fmt.Errorf("file size %d exceeds limit", header.Size)))
			return
		}

		f, err := header.Open()
		if err != nil {
			writeError(ctx, stdCtx, "Failed to read file", perrors.NewErrInternalServerError("Failed to read file", err))
			return
		}
		defer f.Close()

		doc, err := svc.Document.Upload(stdCtx, id, caller.ID, header.Filename, header.Header.Get("Content-Type"), f)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to upload document", perrors.NewErrInternalServerError("Failed to upload document", err))
			return
		}

		svc.Activity.Record(stdCtx, &activity.Event{
			UserID:    caller.ID,
			UserEmail: caller.Email,
			Action:    activity.ActionDocumentUpload,
			Target:    doc.ID.String(),
			Detail:    doc.Name,
		})

		writeOK(ctx, stdCtx, "Document uploaded successfully", doc)
	})

	// Download a document. Access follows the owning project's view check.
	r.GET("/api/documents/{id}", func(ctx *fasthttp.RequestCtx) {
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

		doc, err := svc.Document.GetByID(stdCtx, id.String())
		if err != nil {
			if errors.Is(err, document2.ErrDocumentNotFound) {
				writeError(ctx, stdCtx, "Document not found", perrors.NewErrNotFound("Document not found", err))
				return
			}
			writeError(ctx, stdCtx, "Failed to get document", perrors.NewErrInternalServerError("Failed to get document", err))
			return
		}

		if err := svc.Access.CanViewProject(stdCtx, caller, doc.ProjectID.String()); err != nil {
			writeOwnershipError(ctx, stdCtx, err)
			return
		}

		content, err := svc.Document.OpenContent(doc)
		if err != nil {
			writeError(ctx, stdCtx, "Failed to open document", perrors.NewErrInternalServerError("Failed to open document", err))
			return
		}

		ctx.Response.Header.Set("Content-Type", doc.MimeType)
		ctx.Response.Header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Name))
		// fasthttp closes the stream after serving since it implements io.Closer
		ctx.Response.SetBodyStream(content, int(doc.FileSize))
	})
}
