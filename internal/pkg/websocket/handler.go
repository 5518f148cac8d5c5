package websocket

import (
	"github.com/gin-gonic/gin"
)

// Serve upgrades the request and subscribes the connection to topic.
// Authorization must already have happened.
func (h *Hub) Serve(c *gin.Context, topic string) error {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().Err(err).Str("sessionID", topic).Msg("Failed to upgrade connection to WebSocket")
		return err
	}

	client := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		topic:  topic,
		logger: h.logger,
	}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return nil
	}

	go client.writePump()
	go client.readPump()
	return nil
}
