package chat

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Handler upgrades HTTP requests to websocket connections and hands them to
// the hub.
type Handler struct {
	hub      *Hub
	gateway  *Gateway
	upgrader websocket.Upgrader
}

func NewHandler(hub *Hub, gateway *Gateway) *Handler {
	return &Handler{
		hub:     hub,
		gateway: gateway,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser clients connect from a separately served frontend.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Serve upgrades the connection and starts its read/write pumps.
func (h *Handler) Serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ Websocket upgrade failed: %v", err)
		return
	}

	client := newClient(h.hub, h.gateway, conn)
	go client.writePump()
	go client.readPump()

	log.Println("✅ Socket connected")
}
