package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/nnpgpt/internal/app/models"
	"github.com/yigit/nnpgpt/internal/app/models/dto"
	"github.com/yigit/nnpgpt/internal/app/services"
	"github.com/yigit/nnpgpt/internal/middleware"
)

// ThemeController reads and writes client theme preferences
type ThemeController struct {
	themeService *services.ThemeService
}

// NewThemeController creates a new ThemeController
func NewThemeController(themeService *services.ThemeService) *ThemeController {
	return &ThemeController{themeService: themeService}
}

// GetTheme returns the client's mode
func (c *ThemeController) GetTheme(ctx *gin.Context) {
	clientID := ctx.Param("clientId")
	mode, err := c.themeService.Get(clientID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, dto.ThemeResponse{ClientID: clientID, Mode: mode})
}

// SetTheme stores the client's mode
func (c *ThemeController) SetTheme(ctx *gin.Context) {
	var req dto.ThemeRequest
	if !bindJSON(ctx, &req) {
		return
	}

	clientID := ctx.Param("clientId")
	mode := models.ThemeMode(req.Mode)
	if err := c.themeService.Set(clientID, mode); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, dto.ThemeResponse{ClientID: clientID, Mode: mode})
}

// ToggleTheme flips the client's mode
func (c *ThemeController) ToggleTheme(ctx *gin.Context) {
	clientID := ctx.Param("clientId")
	mode, err := c.themeService.Toggle(clientID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, dto.ThemeResponse{ClientID: clientID, Mode: mode})
}
