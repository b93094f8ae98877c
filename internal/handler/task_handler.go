package handler

import (
	"errors"
	"fmt"
	"net/http"

	"workforce/internal/middleware"
	"workforce/internal/repository"
	"workforce/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TaskHandler struct {
	service   *service.TaskService
	uploadDir string
}

func NewTaskHandler(service *service.TaskService, uploadDir string) *TaskHandler {
	return &TaskHandler{service: service, uploadDir: uploadDir}
}

// AssignTaskRequest represents a single-employee assignment
type AssignTaskRequest struct {
	EmployeeID  string `json:"employee_id" binding:"required,uuid"`
	Description string `json:"description" binding:"required"`
}

// AssignBroadcastRequest represents an assign-to-all request
type AssignBroadcastRequest struct {
	Description string `json:"description" binding:"required"`
}

// AssignGroupRequest represents an assignment to a group snapshot
type AssignGroupRequest struct {
	GroupID     string `json:"group_id" binding:"required,uuid"`
	Description string `json:"description" binding:"required"`
}

// taskError maps lifecycle errors to HTTP statuses so clients can tell the
// failure kinds apart: 400 validation, 403 not owner, 404 missing resource,
// 409 wrong lifecycle state.
func taskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
	case errors.Is(err, repository.ErrEmployeeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Employee not found"})
	case errors.Is(err, repository.ErrGroupNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
	case errors.Is(err, service.ErrNotTaskOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
	case errors.Is(err, service.ErrTaskCompleted), errors.Is(err, service.ErrNotProcessing):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrEmptyRemark),
		errors.Is(err, service.ErrEmptyDescription),
		errors.Is(err, service.ErrNoEmployees),
		errors.Is(err, service.ErrEmptyGroup):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
	}
}

// Assign creates one Pending task for one employee.
func (h *TaskHandler) Assign(c *gin.Context) {
	var req AssignTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	employeeID, err := uuid.Parse(req.EmployeeID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid employee ID format"})
		return
	}

	task, err := h.service.AssignToOne(c.Request.Context(), employeeID, req.Description)
	if err != nil {
		taskError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// AssignToAll creates one Pending task per employee.
func (h *TaskHandler) AssignToAll(c *gin.Context) {
	var req AssignBroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Task description is required"})
		return
	}

	result, err := h.service.AssignToAll(c.Request.Context(), req.Description)
	if err != nil {
		taskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":        "Task assigned to all employees",
		"assigned_count": result.AssignedCount,
		"description":    result.Description,
		"targets":        result.Targets,
	})
}

// AssignToGroup creates one Pending task per member snapshot of a group.
func (h *TaskHandler) AssignToGroup(c *gin.Context) {
	var req AssignGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	groupID, err := uuid.Parse(req.GroupID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID format"})
		return
	}

	result, err := h.service.AssignToGroup(c.Request.Context(), groupID, req.Description)
	if err != nil {
		taskError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":        "Task assigned to group members",
		"assigned_count": result.AssignedCount,
		"description":    result.Description,
		"targets":        result.Targets,
	})
}

// Complete marks a Processing task as Completed.
func (h *TaskHandler) Complete(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	task, err := h.service.CompleteTask(c.Request.Context(), taskID)
	if err != nil {
		taskError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Task marked as completed by admin",
		"task":    task,
	})
}

// Report returns per-employee status counters with annotated task lists.
func (h *TaskHandler) Report(c *gin.Context) {
	report, err := h.service.Report(c.Request.Context())
	if err != nil {
		taskError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// History returns the full numbered submission ledger of one task.
func (h *TaskHandler) History(c *gin.Context) {
	taskID, err := uuid.Parse(c.Param("taskId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	history, err := h.service.TaskHistory(c.Request.Context(), taskID)
	if err != nil {
		taskError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}

// MyTasks lists the calling employee's Pending and Processing tasks.
func (h *TaskHandler) MyTasks(c *gin.Context) {
	employeeID, ok := authenticatedID(c)
	if !ok {
		return
	}

	tasks, err := h.service.ListActiveTasks(c.Request.Context(), employeeID)
	if err != nil {
		taskError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// SubmitWork appends a submission to the calling employee's task.
func (h *TaskHandler) SubmitWork(c *gin.Context) {
	employeeID, ok := authenticatedID(c)
	if !ok {
		return
	}

	taskID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid task ID format"})
		return
	}

	remark := c.PostForm("remark")

	photoPath, err := savePhoto(c, "photo", h.uploadDir, "work")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store photo"})
		return
	}

	result, err := h.service.SubmitWork(c.Request.Context(), taskID, employeeID, remark, photoPath)
	if err != nil {
		taskError(c, err)
		return
	}

	message := "Work submitted successfully. Waiting for admin approval."
	if result.Ordinal > 1 {
		message = fmt.Sprintf("Work resubmitted successfully! This is submission #%d. Updated work sent to admin.", result.Ordinal)
	}

	c.JSON(http.StatusOK, gin.H{
		"message":           message,
		"task":              result.Task,
		"submission_number": result.Ordinal,
	})
}

// Dashboard returns the calling employee's counters and task history.
func (h *TaskHandler) Dashboard(c *gin.Context) {
	employeeID, ok := authenticatedID(c)
	if !ok {
		return
	}

	dashboard, err := h.service.Dashboard(c.Request.Context(), employeeID)
	if err != nil {
		taskError(c, err)
		return
	}
	c.JSON(http.StatusOK, dashboard)
}

// authenticatedID pulls the authenticated account id out of the gin context.
func authenticatedID(c *gin.Context) (uuid.UUID, bool) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return uuid.Nil, false
	}

	id, ok := userID.(uuid.UUID)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID format"})
		return uuid.Nil, false
	}
	return id, true
}
