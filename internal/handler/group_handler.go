package handler

import (
	"errors"
	"net/http"

	"workforce/internal/model"
	"workforce/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type GroupHandler struct {
	groupRepo    repository.GroupRepositoryInterface
	employeeRepo repository.EmployeeRepositoryInterface
}

func NewGroupHandler(groupRepo repository.GroupRepositoryInterface, employeeRepo repository.EmployeeRepositoryInterface) *GroupHandler {
	return &GroupHandler{groupRepo: groupRepo, employeeRepo: employeeRepo}
}

// CreateGroupRequest represents a new group with its member list
type CreateGroupRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	MemberIDs   []string `json:"member_ids" binding:"required,min=1,dive,uuid"`
}

// GroupMemberResponse is one member snapshot
type GroupMemberResponse struct {
	EmployeeID string `json:"employee_id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
}

// GroupResponse represents a stored group
type GroupResponse struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	CreatedBy   string                `json:"created_by"`
	Members     []GroupMemberResponse `json:"members"`
}

func newGroupResponse(g *model.Group) GroupResponse {
	resp := GroupResponse{
		ID:          g.ID.String(),
		Name:        g.Name,
		Description: g.Description,
		CreatedBy:   g.CreatedBy.String(),
		Members:     make([]GroupMemberResponse, 0, len(g.Members)),
	}
	for _, m := range g.Members {
		resp.Members = append(resp.Members, GroupMemberResponse{
			EmployeeID: m.EmployeeID.String(),
			Name:       m.Name,
			Email:      m.Email,
		})
	}
	return resp
}

// Create stores a group with a point-in-time snapshot of each member's name
// and email. Later employee edits do not touch the snapshot.
func (h *GroupHandler) Create(c *gin.Context) {
	adminID, ok := authenticatedID(c)
	if !ok {
		return
	}

	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	existing, err := h.groupRepo.FindByNameAndCreator(c.Request.Context(), req.Name, adminID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to check group name"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "You already have a group with this name"})
		return
	}

	members := make([]model.GroupMember, 0, len(req.MemberIDs))
	for _, idStr := range req.MemberIDs {
		employeeID, err := uuid.Parse(idStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member ID format"})
			return
		}

		employee, err := h.employeeRepo.GetByID(c.Request.Context(), employeeID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve member"})
			return
		}
		if employee == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Member not found: " + idStr})
			return
		}

		members = append(members, model.GroupMember{
			EmployeeID: employee.ID,
			Name:       employee.Name,
			Email:      employee.Email,
		})
	}

	group := &model.Group{
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   adminID,
		Members:     members,
	}
	if err := h.groupRepo.Create(c.Request.Context(), group); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create group"})
		return
	}

	c.JSON(http.StatusCreated, newGroupResponse(group))
}

// GetAll lists every group with its member snapshots.
func (h *GroupHandler) GetAll(c *gin.Context) {
	groups, err := h.groupRepo.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve groups"})
		return
	}

	list := make([]GroupResponse, 0, len(groups))
	for i := range groups {
		list = append(list, newGroupResponse(&groups[i]))
	}
	c.JSON(http.StatusOK, list)
}

// GetByID returns one group.
func (h *GroupHandler) GetByID(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID format"})
		return
	}

	group, err := h.groupRepo.GetByID(c.Request.Context(), groupID)
	if err != nil {
		if errors.Is(err, repository.ErrGroupNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve group"})
		return
	}
	c.JSON(http.StatusOK, newGroupResponse(group))
}
