package service_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"workforce/internal/model"
	"workforce/internal/repository"
	"workforce/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory stores. The lifecycle properties under test are stateful across
// many calls, so fakes work better here than call-by-call mocks.

type fakeTaskRepo struct {
	mu      sync.Mutex
	tasks   map[uuid.UUID]*model.Task
	failFor map[uuid.UUID]error // employeeID -> error injected on Create
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{
		tasks:   make(map[uuid.UUID]*model.Task),
		failFor: make(map[uuid.UUID]error),
	}
}

func (r *fakeTaskRepo) Create(_ context.Context, task *model.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.failFor[task.EmployeeID]; err != nil {
		return err
	}
	if task.ID == uuid.Nil {
		task.ID = uuid.New()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}
	stored := *task
	stored.Submissions = append([]model.Submission(nil), task.Submissions...)
	r.tasks[task.ID] = &stored
	return nil
}

func (r *fakeTaskRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.tasks[id]
	if !ok {
		return nil, repository.ErrTaskNotFound
	}
	copied := *stored
	copied.Submissions = append([]model.Submission(nil), stored.Submissions...)
	sort.Slice(copied.Submissions, func(i, j int) bool {
		return copied.Submissions[i].Seq < copied.Submissions[j].Seq
	})
	return &copied, nil
}

func (r *fakeTaskRepo) GetByEmployeeID(ctx context.Context, employeeID uuid.UUID) ([]model.Task, error) {
	r.mu.Lock()
	ids := make([]uuid.UUID, 0)
	for id, t := range r.tasks {
		if t.EmployeeID == employeeID {
			ids = append(ids, id)
		}
	}
	r.mu.Unlock()

	tasks := make([]model.Task, 0, len(ids))
	for _, id := range ids {
		t, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].CreatedAt.Before(tasks[j].CreatedAt) })
	return tasks, nil
}

func (r *fakeTaskRepo) GetActiveByEmployeeID(ctx context.Context, employeeID uuid.UUID) ([]model.Task, error) {
	all, err := r.GetByEmployeeID(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	active := make([]model.Task, 0, len(all))
	for _, t := range all {
		if t.Status == model.StatusPending || t.Status == model.StatusProcessing {
			active = append(active, t)
		}
	}
	return active, nil
}

func (r *fakeTaskRepo) AppendSubmission(_ context.Context, taskID uuid.UUID, remark string, photoPath *string, at time.Time) (*model.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[taskID]
	if !ok {
		return nil, repository.ErrTaskNotFound
	}
	sub := model.Submission{
		ID:          uuid.New(),
		TaskID:      taskID,
		Seq:         len(task.Submissions) + 1,
		Remark:      remark,
		PhotoPath:   photoPath,
		SubmittedAt: at,
	}
	task.Submissions = append(task.Submissions, sub)
	task.Status = model.StatusProcessing
	return &sub, nil
}

func (r *fakeTaskRepo) MarkCompleted(_ context.Context, taskID uuid.UUID, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[taskID]
	if !ok {
		return repository.ErrTaskNotProcessing
	}
	if task.Status != model.StatusProcessing {
		return repository.ErrTaskNotProcessing
	}
	task.Status = model.StatusCompleted
	completedAt := at
	task.CompletedAt = &completedAt
	return nil
}

type fakeEmployeeRepo struct {
	mu        sync.Mutex
	employees map[uuid.UUID]*model.Employee
}

func newFakeEmployeeRepo() *fakeEmployeeRepo {
	return &fakeEmployeeRepo{employees: make(map[uuid.UUID]*model.Employee)}
}

func (r *fakeEmployeeRepo) add(name, role string) *model.Employee {
	r.mu.Lock()
	defer r.mu.Unlock()

	e := &model.Employee{
		ID:        uuid.New(),
		Name:      name,
		Email:     name + "@example.com",
		Role:      role,
		CreatedAt: time.Now(),
	}
	r.employees[e.ID] = e
	return e
}

func (r *fakeEmployeeRepo) rename(id uuid.UUID, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.employees[id].Name = name
	r.employees[id].Email = name + "@example.com"
}

func (r *fakeEmployeeRepo) Create(_ context.Context, e *model.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.employees[e.ID] = e
	return nil
}

func (r *fakeEmployeeRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.employees[id]
	if !ok {
		return nil, nil
	}
	copied := *e
	return &copied, nil
}

func (r *fakeEmployeeRepo) FindByLogin(context.Context, string) (*model.Employee, error) {
	return nil, nil
}

func (r *fakeEmployeeRepo) FindConflict(context.Context, string, string, string, string) (*model.Employee, error) {
	return nil, nil
}

func (r *fakeEmployeeRepo) ListByRole(_ context.Context, role string) ([]model.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := make([]model.Employee, 0)
	for _, e := range r.employees {
		if e.Role == role {
			list = append(list, *e)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

func (r *fakeEmployeeRepo) ListAll(_ context.Context) ([]model.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := make([]model.Employee, 0, len(r.employees))
	for _, e := range r.employees {
		list = append(list, *e)
	}
	return list, nil
}

type fakeGroupRepo struct {
	mu     sync.Mutex
	groups map[uuid.UUID]*model.Group
}

func newFakeGroupRepo() *fakeGroupRepo {
	return &fakeGroupRepo{groups: make(map[uuid.UUID]*model.Group)}
}

func (r *fakeGroupRepo) Create(_ context.Context, g *model.Group) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	stored := *g
	stored.Members = append([]model.GroupMember(nil), g.Members...)
	r.groups[g.ID] = &stored
	return nil
}

func (r *fakeGroupRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.groups[id]
	if !ok {
		return nil, repository.ErrGroupNotFound
	}
	copied := *g
	copied.Members = append([]model.GroupMember(nil), g.Members...)
	return &copied, nil
}

func (r *fakeGroupRepo) FindByNameAndCreator(context.Context, string, uuid.UUID) (*model.Group, error) {
	return nil, nil
}

func (r *fakeGroupRepo) List(_ context.Context) ([]model.Group, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list := make([]model.Group, 0, len(r.groups))
	for _, g := range r.groups {
		list = append(list, *g)
	}
	return list, nil
}

type fixture struct {
	tasks     *fakeTaskRepo
	employees *fakeEmployeeRepo
	groups    *fakeGroupRepo
	service   *service.TaskService
}

func setup() *fixture {
	tasks := newFakeTaskRepo()
	employees := newFakeEmployeeRepo()
	groups := newFakeGroupRepo()
	return &fixture{
		tasks:     tasks,
		employees: employees,
		groups:    groups,
		service:   service.NewTaskService(tasks, employees, groups),
	}
}

func (f *fixture) assignTask(t *testing.T, employeeID uuid.UUID) uuid.UUID {
	t.Helper()
	view, err := f.service.AssignToOne(context.Background(), employeeID, "inspect pump house")
	require.NoError(t, err)
	id, err := uuid.Parse(view.ID)
	require.NoError(t, err)
	return id
}

func TestSubmitWork_LedgerOrderingAndLatestView(t *testing.T) {
	f := setup()
	emp := f.employees.add("asha", model.RoleEmployee)
	taskID := f.assignTask(t, emp.ID)

	const n = 5
	for i := 1; i <= n; i++ {
		remark := fmt.Sprintf("attempt %d", i)
		result, err := f.service.SubmitWork(context.Background(), taskID, emp.ID, remark, nil)
		require.NoError(t, err)

		assert.Equal(t, i, result.Ordinal)
		assert.Equal(t, i, result.Task.TotalSubmissions)
		require.NotNil(t, result.Task.Latest)
		assert.Equal(t, remark, result.Task.Latest.Remark)
	}

	history, err := f.service.TaskHistory(context.Background(), taskID)
	require.NoError(t, err)
	require.Len(t, history.Submissions, n)
	for i, sub := range history.Submissions {
		assert.Equal(t, i+1, sub.Number)
		assert.Equal(t, fmt.Sprintf("attempt %d", i+1), sub.Remark)
	}
}

func TestSubmitWork_PendingMovesToProcessingOnce(t *testing.T) {
	f := setup()
	emp := f.employees.add("asha", model.RoleEmployee)
	taskID := f.assignTask(t, emp.ID)

	first, err := f.service.SubmitWork(context.Background(), taskID, emp.ID, "done", nil)
	require.NoError(t, err)
	assert.Equal(t, model.StatusProcessing, first.Task.Status)

	second, err := f.service.SubmitWork(context.Background(), taskID, emp.ID, "redo", nil)
	require.NoError(t, err)
	assert.Equal(t, model.StatusProcessing, second.Task.Status)
	assert.Equal(t, 2, second.Ordinal)
}

func TestSubmitWork_Failures(t *testing.T) {
	f := setup()
	owner := f.employees.add("asha", model.RoleEmployee)
	other := f.employees.add("ravi", model.RoleEmployee)
	taskID := f.assignTask(t, owner.ID)

	_, err := f.service.SubmitWork(context.Background(), taskID, owner.ID, "   ", nil)
	assert.ErrorIs(t, err, service.ErrEmptyRemark)

	_, err = f.service.SubmitWork(context.Background(), uuid.New(), owner.ID, "done", nil)
	assert.ErrorIs(t, err, repository.ErrTaskNotFound)

	_, err = f.service.SubmitWork(context.Background(), taskID, other.ID, "done", nil)
	assert.ErrorIs(t, err, service.ErrNotTaskOwner)
}

func TestCompleteTask_LifecycleGuards(t *testing.T) {
	f := setup()
	emp := f.employees.add("asha", model.RoleEmployee)
	taskID := f.assignTask(t, emp.ID)

	// Nothing submitted yet, nothing to review.
	_, err := f.service.CompleteTask(context.Background(), taskID)
	assert.ErrorIs(t, err, service.ErrNotProcessing)

	_, err = f.service.SubmitWork(context.Background(), taskID, emp.ID, "done", nil)
	require.NoError(t, err)

	completed, err := f.service.CompleteTask(context.Background(), taskID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)
	completedAt := *completed.CompletedAt

	// Re-completing is illegal and must not touch completedAt.
	_, err = f.service.CompleteTask(context.Background(), taskID)
	assert.ErrorIs(t, err, service.ErrNotProcessing)

	history, err := f.service.TaskHistory(context.Background(), taskID)
	require.NoError(t, err)
	require.NotNil(t, history.Task.CompletedAt)
	assert.Equal(t, completedAt, *history.Task.CompletedAt)

	// Completed is terminal for the employee too.
	_, err = f.service.SubmitWork(context.Background(), taskID, emp.ID, "late work", nil)
	assert.ErrorIs(t, err, service.ErrTaskCompleted)
}

func TestAssignToAll_Completeness(t *testing.T) {
	f := setup()
	f.employees.add("boss", model.RoleAdmin)
	e1 := f.employees.add("asha", model.RoleEmployee)
	e2 := f.employees.add("ravi", model.RoleEmployee)
	e3 := f.employees.add("meena", model.RoleEmployee)

	result, err := f.service.AssignToAll(context.Background(), "monthly audit")
	require.NoError(t, err)

	assert.Equal(t, 3, result.AssignedCount)
	require.Len(t, result.Targets, 3)

	seen := make(map[string]bool)
	for _, target := range result.Targets {
		require.NotNil(t, target.Task)
		assert.Equal(t, model.StatusPending, target.Task.Status)
		assert.Equal(t, 0, target.Task.TotalSubmissions)
		assert.Nil(t, target.Task.Latest)
		assert.False(t, seen[target.EmployeeID], "duplicate target %s", target.EmployeeID)
		seen[target.EmployeeID] = true
	}
	for _, e := range []*model.Employee{e1, e2, e3} {
		assert.True(t, seen[e.ID.String()])
	}
}

func TestAssignToAll_NoEmployees(t *testing.T) {
	f := setup()
	f.employees.add("boss", model.RoleAdmin)

	_, err := f.service.AssignToAll(context.Background(), "monthly audit")
	assert.ErrorIs(t, err, service.ErrNoEmployees)
}

func TestAssignToAll_PartialFailureDoesNotBlockSiblings(t *testing.T) {
	f := setup()
	e1 := f.employees.add("asha", model.RoleEmployee)
	e2 := f.employees.add("ravi", model.RoleEmployee)
	e3 := f.employees.add("meena", model.RoleEmployee)
	f.tasks.failFor[e2.ID] = assert.AnError

	result, err := f.service.AssignToAll(context.Background(), "monthly audit")
	require.NoError(t, err)

	assert.Equal(t, 2, result.AssignedCount)
	for _, target := range result.Targets {
		switch target.EmployeeID {
		case e2.ID.String():
			assert.Nil(t, target.Task)
			assert.NotEmpty(t, target.Error)
		case e1.ID.String(), e3.ID.String():
			assert.NotNil(t, target.Task)
			assert.Empty(t, target.Error)
		default:
			t.Fatalf("unexpected target %s", target.EmployeeID)
		}
	}
}

func TestAssignToGroup_UsesSnapshotNotLiveDirectory(t *testing.T) {
	f := setup()
	admin := f.employees.add("boss", model.RoleAdmin)
	e1 := f.employees.add("asha", model.RoleEmployee)
	e2 := f.employees.add("ravi", model.RoleEmployee)

	group := &model.Group{
		Name:      "night shift",
		CreatedBy: admin.ID,
		Members: []model.GroupMember{
			{EmployeeID: e1.ID, Name: e1.Name, Email: e1.Email},
			{EmployeeID: e2.ID, Name: e2.Name, Email: e2.Email},
		},
	}
	require.NoError(t, f.groups.Create(context.Background(), group))

	// Renaming an employee after group creation must not leak into the
	// snapshot or the assignment results.
	f.employees.rename(e1.ID, "asha-renamed")

	stored, err := f.groups.GetByID(context.Background(), group.ID)
	require.NoError(t, err)
	assert.Equal(t, "asha", stored.Members[0].Name)

	result, err := f.service.AssignToGroup(context.Background(), group.ID, "night rounds")
	require.NoError(t, err)
	assert.Equal(t, 2, result.AssignedCount)
	assert.Equal(t, "asha", result.Targets[0].Name)

	tasks, err := f.tasks.GetByEmployeeID(context.Background(), e1.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, model.StatusPending, tasks[0].Status)
}

func TestAssignToGroup_Failures(t *testing.T) {
	f := setup()
	admin := f.employees.add("boss", model.RoleAdmin)

	_, err := f.service.AssignToGroup(context.Background(), uuid.New(), "rounds")
	assert.ErrorIs(t, err, repository.ErrGroupNotFound)

	group := &model.Group{Name: "empty", CreatedBy: admin.ID}
	require.NoError(t, f.groups.Create(context.Background(), group))

	_, err = f.service.AssignToGroup(context.Background(), group.ID, "rounds")
	assert.ErrorIs(t, err, service.ErrEmptyGroup)
}

func TestAssign_ValidationAndMissingEmployee(t *testing.T) {
	f := setup()
	emp := f.employees.add("asha", model.RoleEmployee)

	_, err := f.service.AssignToOne(context.Background(), emp.ID, "  ")
	assert.ErrorIs(t, err, service.ErrEmptyDescription)

	_, err = f.service.AssignToOne(context.Background(), uuid.New(), "rounds")
	assert.ErrorIs(t, err, repository.ErrEmployeeNotFound)
}

func TestReportAndDashboard_Counters(t *testing.T) {
	f := setup()
	emp := f.employees.add("asha", model.RoleEmployee)

	pending := f.assignTask(t, emp.ID)
	processing := f.assignTask(t, emp.ID)
	completed := f.assignTask(t, emp.ID)
	_ = pending

	_, err := f.service.SubmitWork(context.Background(), processing, emp.ID, "in progress", nil)
	require.NoError(t, err)
	_, err = f.service.SubmitWork(context.Background(), completed, emp.ID, "done", nil)
	require.NoError(t, err)
	_, err = f.service.CompleteTask(context.Background(), completed)
	require.NoError(t, err)

	report, err := f.service.Report(context.Background())
	require.NoError(t, err)
	require.Len(t, report, 1)
	row := report[0]
	assert.Equal(t, 3, row.Total)
	assert.Equal(t, 1, row.Pending)
	assert.Equal(t, 1, row.Processing)
	assert.Equal(t, 1, row.Completed)
	assert.Len(t, row.Tasks, 3)

	dashboard, err := f.service.Dashboard(context.Background(), emp.ID)
	require.NoError(t, err)
	assert.Equal(t, row.StatusCounts, dashboard.StatusCounts)
	assert.Len(t, dashboard.History, 3)

	active, err := f.service.ListActiveTasks(context.Background(), emp.ID)
	require.NoError(t, err)
	assert.Len(t, active, 2)
}

func TestEndToEndLifecycle(t *testing.T) {
	f := setup()
	emp := f.employees.add("asha", model.RoleEmployee)

	view, err := f.service.AssignToOne(context.Background(), emp.ID, "fix the gate")
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, view.Status)
	assert.Equal(t, 0, view.TotalSubmissions)
	taskID, err := uuid.Parse(view.ID)
	require.NoError(t, err)

	first, err := f.service.SubmitWork(context.Background(), taskID, emp.ID, "done", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Ordinal)
	assert.Equal(t, model.StatusProcessing, first.Task.Status)
	assert.Equal(t, "done", first.Task.Latest.Remark)

	second, err := f.service.SubmitWork(context.Background(), taskID, emp.ID, "redo", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Ordinal)
	assert.Equal(t, model.StatusProcessing, second.Task.Status)
	assert.Equal(t, 2, second.Task.TotalSubmissions)

	completed, err := f.service.CompleteTask(context.Background(), taskID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, completed.Status)
	assert.NotNil(t, completed.CompletedAt)

	_, err = f.service.SubmitWork(context.Background(), taskID, emp.ID, "too late", nil)
	assert.ErrorIs(t, err, service.ErrTaskCompleted)
}
