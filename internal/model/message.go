package model

import (
	"time"

	"github.com/google/uuid"
)

// Message is a persisted chat message. ReceiverID is nil exactly when the
// message went to the shared group room.
type Message struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	SenderID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	ReceiverID *uuid.UUID `gorm:"type:uuid;index"`
	Text       string     `gorm:"not null"`
	IsGroup    bool       `gorm:"not null;default:false"`
	Timestamp  time.Time  `gorm:"not null;index"`
}
