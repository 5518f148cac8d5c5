package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/nnpgpt/internal/app/models/dto"
	"github.com/yigit/nnpgpt/internal/app/services"
	"github.com/yigit/nnpgpt/internal/middleware"
)

// ChatController handles chat exchanges
type ChatController struct {
	chatService services.ChatService
}

// NewChatController creates a new ChatController
func NewChatController(chatService services.ChatService) *ChatController {
	return &ChatController{chatService: chatService}
}

// Send runs one chat exchange
// @Summary Send a chat prompt
// @Tags chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Session node ID"
// @Param request body dto.ChatRequest true "Prompt"
// @Success 200 {object} dto.APIResponse{data=dto.ChatResponse}
// @Failure 409 {object} dto.APIResponse "Course not selected or chat tab inactive"
// @Router /sessions/{id}/chat [post]
func (c *ChatController) Send(ctx *gin.Context) {
	var req dto.ChatRequest
	if !bindJSON(ctx, &req) {
		return
	}

	resp, err := c.chatService.Send(ctx.Request.Context(), ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	respondOK(ctx, resp)
}
