package chat

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 32
)

// Client is one live websocket connection. Room membership is tied to the
// connection: when the socket closes the client leaves every room it joined.
type Client struct {
	hub     *Hub
	gateway *Gateway
	conn    *websocket.Conn
	send    chan Event
}

func newClient(hub *Hub, gateway *Gateway, conn *websocket.Conn) *Client {
	return &Client{
		hub:     hub,
		gateway: gateway,
		conn:    conn,
		send:    make(chan Event, sendBuffer),
	}
}

type inboundEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type joinPrivateData struct {
	UserID string `json:"user_id"`
}

type privateMessageData struct {
	SenderID   string `json:"sender_id"`
	ReceiverID string `json:"receiver_id"`
	Text       string `json:"text"`
}

type groupMessageData struct {
	SenderID string `json:"sender_id"`
	Text     string `json:"text"`
}

// readPump reads client events off the socket and dispatches them to the
// gateway until the connection drops.
func (c *Client) readPump() {
	defer func() {
		c.hub.Remove(c)
		close(c.send)
		c.conn.Close()
		log.Println("⛔ User disconnected")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var event inboundEvent
		if err := c.conn.ReadJSON(&event); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("❌ Websocket read error: %v", err)
			}
			return
		}
		c.dispatch(event)
	}
}

func (c *Client) dispatch(event inboundEvent) {
	ctx := context.Background()

	switch event.Event {
	case "join-private":
		var data joinPrivateData
		if err := json.Unmarshal(event.Data, &data); err != nil || data.UserID == "" {
			return
		}
		c.gateway.JoinPrivate(c, data.UserID)

	case "join-group":
		c.gateway.JoinGroup(c)

	case "private-message":
		var data privateMessageData
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return
		}
		c.gateway.SendPrivate(ctx, data.SenderID, data.ReceiverID, data.Text)

	case "group-message":
		var data groupMessageData
		if err := json.Unmarshal(event.Data, &data); err != nil {
			return
		}
		c.gateway.SendGroup(ctx, data.SenderID, data.Text)

	default:
		log.Printf("⚠️  Unknown chat event: %s", event.Event)
	}
}

// writePump pushes queued events to the socket and keeps the connection
// alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
