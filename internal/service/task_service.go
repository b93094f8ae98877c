package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"workforce/internal/model"
	"workforce/internal/repository"

	"github.com/google/uuid"
)

// TaskService owns the task lifecycle: assignment, work submission against
// the append-only ledger, admin completion, and the read-side folds used by
// reporting. All status transitions go through here.
type TaskService struct {
	tasks     repository.TaskRepositoryInterface
	employees repository.EmployeeRepositoryInterface
	groups    repository.GroupRepositoryInterface
	now       func() time.Time
}

func NewTaskService(
	tasks repository.TaskRepositoryInterface,
	employees repository.EmployeeRepositoryInterface,
	groups repository.GroupRepositoryInterface,
) *TaskService {
	return &TaskService{
		tasks:     tasks,
		employees: employees,
		groups:    groups,
		now:       time.Now,
	}
}

// TaskView is a task annotated with its derived current evidence.
type TaskView struct {
	ID               string          `json:"id"`
	EmployeeID       string          `json:"employee_id"`
	Description      string          `json:"description"`
	Status           string          `json:"status"`
	CreatedAt        time.Time       `json:"created_at"`
	CompletedAt      *time.Time      `json:"completed_at,omitempty"`
	TotalSubmissions int             `json:"total_submissions"`
	Latest           *model.Evidence `json:"latest,omitempty"`
}

// SubmitResult reports one accepted work submission. Ordinal is the 1-based
// position of the submission in the task's ledger, so callers can tell a
// first submission (1) from a resubmission (>1).
type SubmitResult struct {
	Task    TaskView  `json:"task"`
	Ordinal int       `json:"submission_number"`
	At      time.Time `json:"submitted_at"`
}

// TargetResult is the outcome of one target of a bulk assignment.
type TargetResult struct {
	EmployeeID string    `json:"employee_id"`
	Name       string    `json:"name"`
	Task       *TaskView `json:"task,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// AssignmentResult aggregates a bulk assignment. AssignedCount counts only
// the tasks actually created; failed targets stay in Targets with an error.
type AssignmentResult struct {
	AssignedCount int            `json:"assigned_count"`
	Description   string         `json:"description"`
	Targets       []TargetResult `json:"targets"`
}

// SubmissionView is one numbered ledger entry of a task history.
type SubmissionView struct {
	ID          string    `json:"id"`
	Number      int       `json:"submission_number"`
	Remark      string    `json:"remark"`
	PhotoPath   *string   `json:"photo_path,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// TaskHistory is the full ledger of one task plus its owner's profile.
type TaskHistory struct {
	Task        TaskView         `json:"task"`
	Employee    *model.Employee  `json:"employee,omitempty"`
	Submissions []SubmissionView `json:"submissions"`
}

// StatusCounts groups an employee's tasks by lifecycle state.
type StatusCounts struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	Processing int `json:"processing"`
	Pending    int `json:"pending"`
}

// EmployeeReport is one row of the admin report.
type EmployeeReport struct {
	EmployeeID string   `json:"employee_id"`
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone"`
	PhotoPath  *string  `json:"photo_path,omitempty"`
	StatusCounts
	Tasks []TaskView `json:"tasks"`
}

// Dashboard is the employee's own counters plus full task history.
type Dashboard struct {
	StatusCounts
	History []TaskView `json:"history"`
}

func newTaskView(t *model.Task) TaskView {
	return TaskView{
		ID:               t.ID.String(),
		EmployeeID:       t.EmployeeID.String(),
		Description:      t.Description,
		Status:           t.Status,
		CreatedAt:        t.CreatedAt,
		CompletedAt:      t.CompletedAt,
		TotalSubmissions: len(t.Submissions),
		Latest:           t.LatestEvidence(),
	}
}

// SubmitWork appends one entry to the task's ledger and moves the task to
// Processing. Resubmission is allowed any number of times until an admin
// completes the task; earlier entries are never overwritten.
func (s *TaskService) SubmitWork(ctx context.Context, taskID, employeeID uuid.UUID, remark string, photoPath *string) (*SubmitResult, error) {
	remark = strings.TrimSpace(remark)
	if remark == "" {
		return nil, ErrEmptyRemark
	}

	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.EmployeeID != employeeID {
		return nil, ErrNotTaskOwner
	}
	if task.Status == model.StatusCompleted {
		return nil, ErrTaskCompleted
	}

	sub, err := s.tasks.AppendSubmission(ctx, taskID, remark, photoPath, s.now())
	if err != nil {
		return nil, err
	}

	updated, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	return &SubmitResult{
		Task:    newTaskView(updated),
		Ordinal: sub.Seq,
		At:      sub.SubmittedAt,
	}, nil
}

// CompleteTask is the admin-only terminal transition. Only a Processing task
// can be completed; the ledger is left untouched and the last submission
// stands as the accepted evidence.
func (s *TaskService) CompleteTask(ctx context.Context, taskID uuid.UUID) (*TaskView, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status != model.StatusProcessing {
		return nil, ErrNotProcessing
	}

	if err := s.tasks.MarkCompleted(ctx, taskID, s.now()); err != nil {
		// Lost a race against another completion attempt.
		if err == repository.ErrTaskNotProcessing {
			return nil, ErrNotProcessing
		}
		return nil, err
	}

	updated, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	view := newTaskView(updated)
	return &view, nil
}

// AssignToOne creates a single Pending task with an empty ledger.
func (s *TaskService) AssignToOne(ctx context.Context, employeeID uuid.UUID, description string) (*TaskView, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrEmptyDescription
	}

	employee, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, repository.ErrEmployeeNotFound
	}

	task := &model.Task{
		EmployeeID:  employeeID,
		Description: description,
		Status:      model.StatusPending,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	view := newTaskView(task)
	return &view, nil
}

type assignTarget struct {
	employeeID uuid.UUID
	name       string
}

// AssignToAll creates one independent task per employee with role employee.
func (s *TaskService) AssignToAll(ctx context.Context, description string) (*AssignmentResult, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrEmptyDescription
	}

	employees, err := s.employees.ListByRole(ctx, model.RoleEmployee)
	if err != nil {
		return nil, err
	}
	if len(employees) == 0 {
		return nil, ErrNoEmployees
	}

	targets := make([]assignTarget, len(employees))
	for i, e := range employees {
		targets[i] = assignTarget{employeeID: e.ID, name: e.Name}
	}
	return s.fanOut(ctx, targets, description), nil
}

// AssignToGroup creates one independent task per member snapshot of a group.
// Snapshots are used as stored at group creation; the live employee table is
// not consulted.
func (s *TaskService) AssignToGroup(ctx context.Context, groupID uuid.UUID, description string) (*AssignmentResult, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, ErrEmptyDescription
	}

	group, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if len(group.Members) == 0 {
		return nil, ErrEmptyGroup
	}

	targets := make([]assignTarget, len(group.Members))
	for i, m := range group.Members {
		targets[i] = assignTarget{employeeID: m.EmployeeID, name: m.Name}
	}
	return s.fanOut(ctx, targets, description), nil
}

// fanOut attempts every target independently and waits for all of them.
// One failed insert does not block or roll back the others; the failure is
// reported on its own target entry.
func (s *TaskService) fanOut(ctx context.Context, targets []assignTarget, description string) *AssignmentResult {
	results := make([]TargetResult, len(targets))

	var wg sync.WaitGroup
	for i, target := range targets {
		wg.Add(1)
		go func(i int, target assignTarget) {
			defer wg.Done()

			results[i] = TargetResult{
				EmployeeID: target.employeeID.String(),
				Name:       target.name,
			}

			task := &model.Task{
				EmployeeID:  target.employeeID,
				Description: description,
				Status:      model.StatusPending,
			}
			if err := s.tasks.Create(ctx, task); err != nil {
				results[i].Error = err.Error()
				return
			}
			view := newTaskView(task)
			results[i].Task = &view
		}(i, target)
	}
	wg.Wait()

	result := &AssignmentResult{
		Description: description,
		Targets:     results,
	}
	for _, r := range results {
		if r.Task != nil {
			result.AssignedCount++
		}
	}
	return result
}

// Report folds every employee's tasks into per-status counters plus the
// annotated task list. Pure read, no mutation.
func (s *TaskService) Report(ctx context.Context) ([]EmployeeReport, error) {
	employees, err := s.employees.ListByRole(ctx, model.RoleEmployee)
	if err != nil {
		return nil, err
	}

	report := make([]EmployeeReport, 0, len(employees))
	for _, emp := range employees {
		tasks, err := s.tasks.GetByEmployeeID(ctx, emp.ID)
		if err != nil {
			return nil, err
		}

		row := EmployeeReport{
			EmployeeID: emp.ID.String(),
			Name:       emp.Name,
			Email:      emp.Email,
			Phone:      emp.Phone,
			PhotoPath:  emp.PhotoPath,
			Tasks:      make([]TaskView, 0, len(tasks)),
		}
		for i := range tasks {
			row.Tasks = append(row.Tasks, newTaskView(&tasks[i]))
		}
		row.StatusCounts = countByStatus(tasks)
		report = append(report, row)
	}
	return report, nil
}

// TaskHistory returns the full numbered ledger of one task.
func (s *TaskService) TaskHistory(ctx context.Context, taskID uuid.UUID) (*TaskHistory, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	employee, err := s.employees.GetByID(ctx, task.EmployeeID)
	if err != nil {
		return nil, err
	}

	history := &TaskHistory{
		Task:        newTaskView(task),
		Employee:    employee,
		Submissions: make([]SubmissionView, 0, len(task.Submissions)),
	}
	for i, sub := range task.Submissions {
		history.Submissions = append(history.Submissions, SubmissionView{
			ID:          sub.ID.String(),
			Number:      i + 1,
			Remark:      sub.Remark,
			PhotoPath:   sub.PhotoPath,
			SubmittedAt: sub.SubmittedAt,
		})
	}
	return history, nil
}

// ListActiveTasks returns the employee's Pending and Processing tasks.
func (s *TaskService) ListActiveTasks(ctx context.Context, employeeID uuid.UUID) ([]TaskView, error) {
	tasks, err := s.tasks.GetActiveByEmployeeID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	views := make([]TaskView, 0, len(tasks))
	for i := range tasks {
		views = append(views, newTaskView(&tasks[i]))
	}
	return views, nil
}

// Dashboard returns the calling employee's counters and full history.
func (s *TaskService) Dashboard(ctx context.Context, employeeID uuid.UUID) (*Dashboard, error) {
	tasks, err := s.tasks.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	dashboard := &Dashboard{
		StatusCounts: countByStatus(tasks),
		History:      make([]TaskView, 0, len(tasks)),
	}
	for i := range tasks {
		dashboard.History = append(dashboard.History, newTaskView(&tasks[i]))
	}
	return dashboard, nil
}

func countByStatus(tasks []model.Task) StatusCounts {
	counts := StatusCounts{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case model.StatusCompleted:
			counts.Completed++
		case model.StatusProcessing:
			counts.Processing++
		case model.StatusPending:
			counts.Pending++
		}
	}
	return counts
}
