package handler

import (
	"net/http"
	"time"

	"workforce/internal/model"
	"workforce/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MessageHandler struct {
	repo repository.MessageRepositoryInterface
}

func NewMessageHandler(repo repository.MessageRepositoryInterface) *MessageHandler {
	return &MessageHandler{repo: repo}
}

// MessageResponse is one stored chat message
type MessageResponse struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID *string   `json:"receiver_id,omitempty"`
	Text       string    `json:"text"`
	IsGroup    bool      `json:"is_group"`
	Timestamp  time.Time `json:"timestamp"`
}

func newMessageResponse(m *model.Message) MessageResponse {
	resp := MessageResponse{
		ID:        m.ID.String(),
		SenderID:  m.SenderID.String(),
		Text:      m.Text,
		IsGroup:   m.IsGroup,
		Timestamp: m.Timestamp,
	}
	if m.ReceiverID != nil {
		receiver := m.ReceiverID.String()
		resp.ReceiverID = &receiver
	}
	return resp
}

// GetPrivate returns the caller's conversation with another account,
// oldest first.
func (h *MessageHandler) GetPrivate(c *gin.Context) {
	callerID, ok := authenticatedID(c)
	if !ok {
		return
	}

	otherID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID format"})
		return
	}

	messages, err := h.repo.ListPrivate(c.Request.Context(), callerID, otherID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve messages"})
		return
	}

	list := make([]MessageResponse, 0, len(messages))
	for i := range messages {
		list = append(list, newMessageResponse(&messages[i]))
	}
	c.JSON(http.StatusOK, list)
}

// GetGroup returns the shared group room's history, oldest first.
func (h *MessageHandler) GetGroup(c *gin.Context) {
	messages, err := h.repo.ListGroup(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve messages"})
		return
	}

	list := make([]MessageResponse, 0, len(messages))
	for i := range messages {
		list = append(list, newMessageResponse(&messages[i]))
	}
	c.JSON(http.StatusOK, list)
}
