package model

import (
	"time"

	"github.com/google/uuid"
)

// GroupMember is a snapshot of an employee taken when the group was created.
// It deliberately copies name and email instead of referencing the live
// employee row, so later profile edits do not rewrite existing groups.
type GroupMember struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	GroupID    uuid.UUID `gorm:"type:uuid;not null;index"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null"`
	Name       string    `gorm:"not null"`
	Email      string    `gorm:"not null"`
}

type Group struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name        string    `gorm:"not null"`
	Description string
	CreatedBy   uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time

	Members []GroupMember `gorm:"foreignKey:GroupID"`
	Creator Employee      `gorm:"foreignKey:CreatedBy"`
}
