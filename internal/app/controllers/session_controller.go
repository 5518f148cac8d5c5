package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/nnpgpt/internal/app/models"
	"github.com/yigit/nnpgpt/internal/app/models/dto"
	"github.com/yigit/nnpgpt/internal/app/services"
	"github.com/yigit/nnpgpt/internal/middleware"
)

// SessionController handles the node lifecycle and session mutations
type SessionController struct {
	sessionService *services.SessionService
}

// NewSessionController creates a new SessionController
func NewSessionController(sessionService *services.SessionService) *SessionController {
	return &SessionController{sessionService: sessionService}
}

// CreateSession starts a new node
// @Summary Start a session node
// @Tags sessions
// @Produce json
// @Success 201 {object} dto.APIResponse{data=session.Snapshot}
// @Failure 503 {object} dto.APIResponse "Too many active sessions"
// @Router /sessions [post]
func (c *SessionController) CreateSession(ctx *gin.Context) {
	snap, err := c.sessionService.CreateSession(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(snap))
}

// GetSession returns the node snapshot
// @Summary Get session snapshot
// @Tags sessions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session node ID"
// @Success 200 {object} dto.APIResponse{data=session.Snapshot}
// @Router /sessions/{id} [get]
func (c *SessionController) GetSession(ctx *gin.Context) {
	snap, err := c.sessionService.GetSession(ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, snap)
}

// Login wipes the node and authenticates it
// @Summary Log in to a session node
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session node ID"
// @Param request body dto.LoginRequest true "Role and optional course"
// @Success 200 {object} dto.APIResponse{data=dto.LoginResponse}
// @Failure 400 {object} dto.APIResponse "Validation failed"
// @Failure 401 {object} dto.APIResponse "Invalid credentials"
// @Failure 404 {object} dto.APIResponse "Session or course not found"
// @Failure 429 {object} dto.APIResponse "Too many requests"
// @Router /sessions/{id}/login [post]
func (c *SessionController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(ctx, &req) {
		return
	}

	resp, err := c.sessionService.Login(ctx.Request.Context(), ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp)
}

// Logout returns the node to the unauthenticated state
func (c *SessionController) Logout(ctx *gin.Context) {
	snap, err := c.sessionService.Logout(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, snap)
}

// SelectCourse binds or unbinds the session's course
func (c *SessionController) SelectCourse(ctx *gin.Context) {
	var req dto.SelectCourseRequest
	if !bindJSON(ctx, &req) {
		return
	}

	snap, err := c.sessionService.SelectCourse(ctx.Request.Context(), ctx.Param("id"), req.CourseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, snap)
}

// UploadFiles accepts a multipart form with one or more "files" parts
// @Summary Upload documents
// @Tags vault
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session node ID"
// @Param files formData file true "Documents"
// @Success 201 {object} dto.APIResponse{data=dto.UploadResponse}
// @Router /sessions/{id}/files [post]
func (c *SessionController) UploadFiles(ctx *gin.Context) {
	form, err := ctx.MultipartForm()
	if err != nil {
		var maxErr *http.MaxBytesError
		status := http.StatusBadRequest
		if errors.As(err, &maxErr) {
			status = http.StatusRequestEntityTooLarge
		}
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid multipart form").
			WithDetails(err.Error())
		ctx.JSON(status, dto.NewErrorResponse(errorDetail))
		return
	}

	resp, err := c.sessionService.UploadFiles(ctx.Request.Context(), ctx.Param("id"), form.File["files"])
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(resp))
}

// UpdateFile edits a vault entry
func (c *SessionController) UpdateFile(ctx *gin.Context) {
	var req dto.UpdateFileRequest
	if !bindJSON(ctx, &req) {
		return
	}

	updated, err := c.sessionService.UpdateFile(ctx.Request.Context(), ctx.Param("id"), ctx.Param("fileId"), req.ToPatch())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, updated)
}

// DeleteFile removes a vault entry
func (c *SessionController) DeleteFile(ctx *gin.Context) {
	snap, err := c.sessionService.DeleteFile(ctx.Request.Context(), ctx.Param("id"), ctx.Param("fileId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, snap)
}

// SelectFile points the preview pane at a file
func (c *SessionController) SelectFile(ctx *gin.Context) {
	var req dto.SelectFileRequest
	if !bindJSON(ctx, &req) {
		return
	}

	snap, err := c.sessionService.SelectFile(ctx.Param("id"), req.FileID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, snap)
}

// SetActiveTab switches the workspace tab
func (c *SessionController) SetActiveTab(ctx *gin.Context) {
	var req dto.SetTabRequest
	if !bindJSON(ctx, &req) {
		return
	}

	snap, err := c.sessionService.SetActiveTab(ctx.Param("id"), models.Tab(req.Tab))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, snap)
}

// RecordUsage adds to the usage counter
func (c *SessionController) RecordUsage(ctx *gin.Context) {
	var req dto.RecordUsageRequest
	if !bindJSON(ctx, &req) {
		return
	}

	usage, err := c.sessionService.RecordUsage(ctx.Param("id"), req.Increment)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, usage)
}
