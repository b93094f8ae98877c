package model

import (
	"time"

	"github.com/google/uuid"
)

// Task statuses
const (
	StatusPending    = "Pending"
	StatusProcessing = "Processing"
	StatusCompleted  = "Completed"
)

// Submission is one entry of a task's work ledger. Entries are append-only:
// a resubmission adds a new row, it never touches earlier ones.
type Submission struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	TaskID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Seq         int       `gorm:"not null"`
	Remark      string    `gorm:"not null"`
	PhotoPath   *string
	SubmittedAt time.Time `gorm:"not null"`
}

type Task struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	EmployeeID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Description string    `gorm:"not null"`
	Status      string    `gorm:"not null;default:'Pending';check:status IN ('Pending', 'Processing', 'Completed')"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	CompletedAt *time.Time

	Submissions []Submission `gorm:"foreignKey:TaskID"`
	Employee    Employee     `gorm:"foreignKey:EmployeeID"`
}

// Evidence is the current remark/photo of a task, derived from the last
// ledger entry.
type Evidence struct {
	Remark      string    `json:"remark"`
	PhotoPath   *string   `json:"photo_path,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// LatestEvidence returns the last submission as the task's current evidence,
// or nil when nothing has been submitted yet. Submissions must already be
// loaded in ledger order.
func (t *Task) LatestEvidence() *Evidence {
	if len(t.Submissions) == 0 {
		return nil
	}
	last := t.Submissions[len(t.Submissions)-1]
	return &Evidence{
		Remark:      last.Remark,
		PhotoPath:   last.PhotoPath,
		SubmittedAt: last.SubmittedAt,
	}
}
