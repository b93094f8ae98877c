package model

import (
	"time"

	"github.com/google/uuid"
)

// Account roles
const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

type Employee struct {
	ID             uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name           string    `gorm:"not null"`
	Email          string    `gorm:"uniqueIndex;not null"`
	Phone          string    `gorm:"uniqueIndex;not null"`
	AadharNo       string    `gorm:"uniqueIndex;not null"`
	PhotoPath      *string
	Role           string    `gorm:"not null;check:role IN ('admin', 'employee')"`
	Username       string    `gorm:"uniqueIndex;not null"`
	HashedPassword string    `gorm:"not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}
