package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/nnpgpt/internal/app/services"
	"github.com/yigit/nnpgpt/internal/middleware"
)

// PreviewController serves the preview pane
type PreviewController struct {
	previewService *services.PreviewService
}

// NewPreviewController creates a new PreviewController
func NewPreviewController(previewService *services.PreviewService) *PreviewController {
	return &PreviewController{previewService: previewService}
}

// GetPreview returns the preview of the selected file
func (c *PreviewController) GetPreview(ctx *gin.Context) {
	resp, err := c.previewService.Preview(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp)
}
