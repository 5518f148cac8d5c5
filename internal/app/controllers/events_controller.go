package controllers

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/nnpgpt/internal/pkg/websocket"
)

// EventsController upgrades authorised clients to the node's event stream
type EventsController struct {
	hub *websocket.Hub
}

// NewEventsController creates a new EventsController
func NewEventsController(hub *websocket.Hub) *EventsController {
	return &EventsController{hub: hub}
}

// Stream subscribes the connection to the :id node. The upgrader has already
// answered the client when it fails, so errors are only logged by the hub.
func (c *EventsController) Stream(ctx *gin.Context) {
	_ = c.hub.Serve(ctx, ctx.Param("id"))
}
