package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"workforce/internal/model"
)

var (
	ErrTaskNotFound = errors.New("task not found")

	// ErrTaskNotProcessing is returned by MarkCompleted when the task is no
	// longer (or not yet) in the Processing state.
	ErrTaskNotProcessing = errors.New("task not in processing status")
)

type TaskRepository struct {
	db *gorm.DB
}

type TaskRepositoryInterface interface {
	Create(ctx context.Context, task *model.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error)
	GetByEmployeeID(ctx context.Context, employeeID uuid.UUID) ([]model.Task, error)
	GetActiveByEmployeeID(ctx context.Context, employeeID uuid.UUID) ([]model.Task, error)
	AppendSubmission(ctx context.Context, taskID uuid.UUID, remark string, photoPath *string, at time.Time) (*model.Submission, error)
	MarkCompleted(ctx context.Context, taskID uuid.UUID, at time.Time) error
}

var _ TaskRepositoryInterface = (*TaskRepository)(nil)

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create adds a new task to the database
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// GetByID retrieves a task with its submission ledger in append order
func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	result := r.db.WithContext(ctx).
		Preload("Submissions", func(db *gorm.DB) *gorm.DB {
			return db.Order("seq")
		}).
		First(&task, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, result.Error
	}
	return &task, nil
}

// GetByEmployeeID retrieves all tasks of one employee, ledgers included
func (r *TaskRepository) GetByEmployeeID(ctx context.Context, employeeID uuid.UUID) ([]model.Task, error) {
	var tasks []model.Task
	result := r.db.WithContext(ctx).
		Preload("Submissions", func(db *gorm.DB) *gorm.DB {
			return db.Order("seq")
		}).
		Where("employee_id = ?", employeeID).
		Order("created_at").
		Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

// GetActiveByEmployeeID retrieves the employee's Pending and Processing tasks
func (r *TaskRepository) GetActiveByEmployeeID(ctx context.Context, employeeID uuid.UUID) ([]model.Task, error) {
	var tasks []model.Task
	result := r.db.WithContext(ctx).
		Preload("Submissions", func(db *gorm.DB) *gorm.DB {
			return db.Order("seq")
		}).
		Where("employee_id = ? AND status IN ?", employeeID, []string{model.StatusPending, model.StatusProcessing}).
		Order("created_at").
		Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

// AppendSubmission appends one ledger entry and flips the task to Processing
// in a single transaction, so a reader never observes the new submission
// without the status change or vice versa. Seq is assigned from the current
// ledger length, making the returned submission's Seq its 1-based ordinal.
func (r *TaskRepository) AppendSubmission(ctx context.Context, taskID uuid.UUID, remark string, photoPath *string, at time.Time) (*model.Submission, error) {
	var sub model.Submission
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Submission{}).Where("task_id = ?", taskID).Count(&count).Error; err != nil {
			return err
		}

		sub = model.Submission{
			TaskID:      taskID,
			Seq:         int(count) + 1,
			Remark:      remark,
			PhotoPath:   photoPath,
			SubmittedAt: at,
		}
		if err := tx.Create(&sub).Error; err != nil {
			return err
		}

		result := tx.Model(&model.Task{}).
			Where("id = ?", taskID).
			Update("status", model.StatusProcessing)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrTaskNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// MarkCompleted transitions a Processing task to Completed and stamps
// completed_at. The status guard in the WHERE clause makes the transition
// race-safe: a concurrent complete loses and gets ErrTaskNotProcessing.
func (r *TaskRepository) MarkCompleted(ctx context.Context, taskID uuid.UUID, at time.Time) error {
	result := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ? AND status = ?", taskID, model.StatusProcessing).
		Updates(map[string]interface{}{
			"status":       model.StatusCompleted,
			"completed_at": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotProcessing
	}
	return nil
}
