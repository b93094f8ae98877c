package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"workforce/internal/chat"
	"workforce/internal/config"
	"workforce/internal/handler"
	"workforce/internal/middleware"
	"workforce/internal/model"
	"workforce/internal/repository"
	"workforce/internal/service"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Server struct {
	Engine *gin.Engine
	DB     *gorm.DB
	Config *config.Config
}

func Init(cfg *config.Config) (*Server, error) {
	// Setup GORM
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("❌ failed to connect to DB: %w", err)
	}
	log.Println("✅ Connected to database")

	if err := db.AutoMigrate(
		&model.Employee{},
		&model.Task{},
		&model.Submission{},
		&model.Group{},
		&model.GroupMember{},
		&model.Message{},
	); err != nil {
		return nil, fmt.Errorf("❌ failed to migrate schema: %w", err)
	}

	// Upload directories must exist before the first multipart request
	for _, dir := range []string{cfg.UploadDir, filepath.Join(cfg.UploadDir, "profiles")} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("❌ failed to create upload dir %s: %w", dir, err)
		}
	}

	// Setup Gin
	r := gin.Default()
	r.Static("/uploads", cfg.UploadDir)

	// Initialize repositories
	employeeRepo := repository.NewEmployeeRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	// Initialize services
	taskService := service.NewTaskService(taskRepo, employeeRepo, groupRepo)

	// Initialize realtime chat
	hub := chat.NewHub()
	gateway := chat.NewGateway(hub, messageRepo, employeeRepo)
	chatHandler := chat.NewHandler(hub, gateway)

	// Initialize handlers
	tokenTTL := time.Duration(cfg.JWTExpiryHours) * time.Hour
	authHandler := handler.NewAuthHandler(employeeRepo, cfg.JWTSecret, tokenTTL, cfg.UploadDir)
	employeeHandler := handler.NewEmployeeHandler(employeeRepo, cfg.UploadDir)
	taskHandler := handler.NewTaskHandler(taskService, cfg.UploadDir)
	groupHandler := handler.NewGroupHandler(groupRepo, employeeRepo)
	messageHandler := handler.NewMessageHandler(messageRepo)

	// Public routes
	r.POST("/auth/signup", authHandler.Signup)
	r.POST("/auth/login", authHandler.Login)
	r.GET("/api/users", employeeHandler.ListUsers)
	r.GET("/ws", chatHandler.Serve)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Admin routes
	admin := r.Group("/admin")
	admin.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), middleware.RequireRole(model.RoleAdmin))
	{
		admin.POST("/employee", employeeHandler.AddEmployee)
		admin.GET("/employees", employeeHandler.GetEmployees)

		admin.POST("/assign-task", taskHandler.Assign)
		admin.POST("/assign-task-to-all", taskHandler.AssignToAll)
		admin.POST("/assign-task-to-group", taskHandler.AssignToGroup)
		admin.POST("/complete-task/:id", taskHandler.Complete)
		admin.GET("/report", taskHandler.Report)
		admin.GET("/task-history/:taskId", taskHandler.History)

		admin.POST("/groups", groupHandler.Create)
		admin.GET("/groups", groupHandler.GetAll)
		admin.GET("/groups/:id", groupHandler.GetByID)
	}

	// Employee routes
	employee := r.Group("/employee")
	employee.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), middleware.RequireRole(model.RoleEmployee))
	{
		employee.GET("/tasks", taskHandler.MyTasks)
		employee.POST("/submit-work/:id", taskHandler.SubmitWork)
		employee.GET("/dashboard", taskHandler.Dashboard)
	}

	// Message history, any authenticated account
	messages := r.Group("/messages")
	messages.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		messages.GET("/private/:userId", messageHandler.GetPrivate)
		messages.GET("/group", messageHandler.GetGroup)
	}

	return &Server{
		Engine: r,
		DB:     db,
		Config: cfg,
	}, nil
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		log.Printf("🚀 Server running on port %s\n", s.Config.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Failed to listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %s", err)
	}

	if sqlDB, err := s.DB.DB(); err == nil {
		sqlDB.Close()
	}

	log.Println("✅ Server exited properly")
}
