package handler

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"workforce/internal/auth"
	"workforce/internal/model"
	"workforce/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	repo      repository.EmployeeRepositoryInterface
	jwtSecret string
	tokenTTL  time.Duration
	uploadDir string
}

func NewAuthHandler(repo repository.EmployeeRepositoryInterface, jwtSecret string, tokenTTL time.Duration, uploadDir string) *AuthHandler {
	return &AuthHandler{
		repo:      repo,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTL,
		uploadDir: uploadDir,
	}
}

// SignupRequest represents the signup form. The profile photo travels as a
// separate multipart file field.
type SignupRequest struct {
	Name     string `form:"name" binding:"required"`
	Email    string `form:"email" binding:"required,email"`
	Phone    string `form:"phone" binding:"required,len=10,numeric"`
	AadharNo string `form:"aadhar_no" binding:"required,len=12,numeric"`
	Role     string `form:"role" binding:"omitempty,oneof=admin employee"`
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned by both login and signup.
type AuthResponse struct {
	Message  string `json:"message,omitempty"`
	Token    string `json:"token"`
	ID       string `json:"id"`
	Role     string `json:"role"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
}

// Signup registers a new account. Role defaults to employee.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	req.Email = strings.ToLower(req.Email)
	if req.Role == "" {
		req.Role = model.RoleEmployee
	}

	existing, err := h.repo.FindConflict(c.Request.Context(), req.Username, req.Email, req.Phone, req.AadharNo)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "User already exists with this username, email, phone, or Aadhar number"})
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

	user := &model.Employee{
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
	if err := h.repo.Create(c.Request.Context(), user); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Create failed"})
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Role, h.jwtSecret, h.tokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Token error"})
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{
		Message:  "Signup successful",
		Token:    token,
		ID:       user.ID.String(),
		Role:     user.Role,
		Username: user.Username,
		Name:     user.Name,
	})
}

// Login authenticates by username or email plus password.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	user, err := h.repo.FindByLogin(c.Request.Context(), req.Username)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error"})
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Role, h.jwtSecret, h.tokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Token error"})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{
		Token:    token,
		ID:       user.ID.String(),
		Role:     user.Role,
		Username: user.Username,
		Name:     user.Name,
	})
}
