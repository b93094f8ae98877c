package chat

import (
	"context"
	"log"
	"time"

	"workforce/internal/model"
	"workforce/internal/repository"

	"github.com/google/uuid"
)

// Gateway applies the messaging rules between the transport and the stores:
// it admits or rejects events, persists admitted messages, then publishes
// them to the delivery rooms. Persist-then-deliver ordering is strict; a
// failed write means no delivery at all.
type Gateway struct {
	hub       *Hub
	messages  repository.MessageRepositoryInterface
	employees repository.EmployeeRepositoryInterface
	now       func() time.Time
}

func NewGateway(hub *Hub, messages repository.MessageRepositoryInterface, employees repository.EmployeeRepositoryInterface) *Gateway {
	return &Gateway{
		hub:       hub,
		messages:  messages,
		employees: employees,
		now:       time.Now,
	}
}

// Participant is the {name, role} snapshot attached to delivered messages,
// resolved at send time.
type Participant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role string `json:"role"`
}

// MessagePayload is the enriched message delivered to clients.
type MessagePayload struct {
	ID        string       `json:"id"`
	Sender    Participant  `json:"sender"`
	Receiver  *Participant `json:"receiver,omitempty"`
	Text      string       `json:"text"`
	IsGroup   bool         `json:"is_group"`
	Timestamp time.Time    `json:"timestamp"`
}

// JoinPrivate subscribes the connection to the account's own delivery room.
// Every open connection of the same account shares this room, so multi-device
// fan-out needs no extra bookkeeping.
func (g *Gateway) JoinPrivate(c *Client, accountID string) {
	g.hub.Join(accountID, c)
	log.Printf("🔒 User %s joined their private room", accountID)
}

// JoinGroup subscribes the connection to the shared group room.
func (g *Gateway) JoinGroup(c *Client) {
	g.hub.Join(GroupRoom, c)
	log.Println("🌐 User joined the group chat")
}

// SendPrivate admits, persists and delivers one private message. Private
// chat is only valid across the admin/employee boundary; a rejected message
// produces an error event for the sender alone. A participant that does not
// resolve means a stale or malformed client event and is dropped silently.
func (g *Gateway) SendPrivate(ctx context.Context, senderID, receiverID, text string) {
	senderUUID, err := uuid.Parse(senderID)
	if err != nil {
		return
	}
	receiverUUID, err := uuid.Parse(receiverID)
	if err != nil {
		return
	}

	sender, err := g.employees.GetByID(ctx, senderUUID)
	if err != nil {
		log.Printf("❌ Error resolving private message sender: %v", err)
		return
	}
	receiver, err := g.employees.GetByID(ctx, receiverUUID)
	if err != nil {
		log.Printf("❌ Error resolving private message receiver: %v", err)
		return
	}
	if sender == nil || receiver == nil {
		return
	}

	if !PrivateAllowed(ParseRole(sender.Role), ParseRole(receiver.Role)) {
		log.Printf("⛔ Blocked private msg: %s (%s) → %s (%s)", sender.Name, sender.Role, receiver.Name, receiver.Role)
		g.hub.Publish(senderID, Event{
			Name: "error-message",
			Data: "Only Admin ↔ Employee private chat is allowed.",
		})
		return
	}

	message := &model.Message{
		SenderID:   senderUUID,
		ReceiverID: &receiverUUID,
		Text:       text,
		IsGroup:    false,
		Timestamp:  g.now(),
	}
	if err := g.messages.Create(ctx, message); err != nil {
		// At-most-once: no retry, no confirmation, no delivery.
		log.Printf("❌ Error saving private message: %v", err)
		return
	}

	payload := MessagePayload{
		ID:     message.ID.String(),
		Sender: Participant{ID: sender.ID.String(), Name: sender.Name, Role: sender.Role},
		Receiver: &Participant{
			ID:   receiver.ID.String(),
			Name: receiver.Name,
			Role: receiver.Role,
		},
		Text:      text,
		IsGroup:   false,
		Timestamp: message.Timestamp,
	}
	g.hub.Publish(senderID, Event{Name: "private-message", Data: payload})
	g.hub.Publish(receiverID, Event{Name: "private-message", Data: payload})

	log.Printf("✉️ Private: %s → %s", sender.Name, receiver.Name)
}

// SendGroup admits, persists and delivers one group message. Any resolvable
// sender may post; an unknown sender gets an error event back.
func (g *Gateway) SendGroup(ctx context.Context, senderID, text string) {
	senderUUID, err := uuid.Parse(senderID)
	if err != nil {
		g.hub.Publish(senderID, Event{Name: "error-message", Data: "Sender not recognized."})
		return
	}

	sender, err := g.employees.GetByID(ctx, senderUUID)
	if err != nil {
		log.Printf("❌ Error resolving group message sender: %v", err)
		return
	}
	if sender == nil {
		log.Println("⛔ Group message blocked: sender not found")
		g.hub.Publish(senderID, Event{Name: "error-message", Data: "Sender not recognized."})
		return
	}

	message := &model.Message{
		SenderID:  senderUUID,
		Text:      text,
		IsGroup:   true,
		Timestamp: g.now(),
	}
	if err := g.messages.Create(ctx, message); err != nil {
		log.Printf("❌ Error saving group message: %v", err)
		return
	}

	payload := MessagePayload{
		ID:        message.ID.String(),
		Sender:    Participant{ID: sender.ID.String(), Name: sender.Name, Role: sender.Role},
		Text:      text,
		IsGroup:   true,
		Timestamp: message.Timestamp,
	}
	g.hub.Publish(GroupRoom, Event{Name: "group-message", Data: payload})

	log.Printf("📢 Group: %s", sender.Name)
}
