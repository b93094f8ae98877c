package handler

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"workforce/internal/model"
	"workforce/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type EmployeeHandler struct {
	repo      repository.EmployeeRepositoryInterface
	uploadDir string
}

func NewEmployeeHandler(repo repository.EmployeeRepositoryInterface, uploadDir string) *EmployeeHandler {
	return &EmployeeHandler{repo: repo, uploadDir: uploadDir}
}

// AddEmployeeRequest represents the admin's create-employee form.
type AddEmployeeRequest struct {
	Name     string `form:"name" binding:"required"`
	Email    string `form:"email" binding:"required,email"`
	Phone    string `form:"phone" binding:"required,len=10,numeric"`
	AadharNo string `form:"aadhar_no" binding:"required,len=12,numeric"`
	Role     string `form:"role" binding:"required,oneof=admin employee"`
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required,min=6"`
}

// EmployeeResponse is an account profile without credentials.
type EmployeeResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	AadharNo  string    `json:"aadhar_no"`
	PhotoPath *string   `json:"photo_path,omitempty"`
	Role      string    `json:"role"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

func newEmployeeResponse(e *model.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:        e.ID.String(),
		Name:      e.Name,
		Email:     e.Email,
		Phone:     e.Phone,
		AadharNo:  e.AadharNo,
		PhotoPath: e.PhotoPath,
		Role:      e.Role,
		Username:  e.Username,
		CreatedAt: e.CreatedAt,
	}
}

// AddEmployee creates an account on behalf of an admin.
func (h *EmployeeHandler) AddEmployee(c *gin.Context) {
	var req AddEmployeeRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	req.Email = strings.ToLower(req.Email)

	existing, err := h.repo.FindConflict(c.Request.Context(), req.Username, req.Email, req.Phone, req.AadharNo)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Employee already exists with this username, email, phone, or Aadhar number"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Hash error"})
		return
	}

	photoPath, err := savePhoto(c, "photo", filepath.Join(h.uploadDir, "profiles"), "profile")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store photo"})
		return
	}

	employee := &model.Employee{
		ID:             uuid.New(),
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		AadharNo:       req.AadharNo,
		PhotoPath:      photoPath,
		Role:           req.Role,
		Username:       req.Username,
		HashedPassword: string(hash),
	}
	if err := h.repo.Create(c.Request.Context(), employee); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Create failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Employee added successfully",
		"employee": newEmployeeResponse(employee),
	})
}

// GetEmployees lists accounts with role employee.
func (h *EmployeeHandler) GetEmployees(c *gin.Context) {
	employees, err := h.repo.ListByRole(c.Request.Context(), model.RoleEmployee)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve employees"})
		return
	}

	list := make([]EmployeeResponse, 0, len(employees))
	for i := range employees {
		list = append(list, newEmployeeResponse(&employees[i]))
	}
	c.JSON(http.StatusOK, list)
}

// ListUsers returns the public profile of every account, for the chat user
// directory.
func (h *EmployeeHandler) ListUsers(c *gin.Context) {
	users, err := h.repo.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	list := make([]EmployeeResponse, 0, len(users))
	for i := range users {
		list = append(list, newEmployeeResponse(&users[i]))
	}
	c.JSON(http.StatusOK, list)
}
