package repository

import (
	"context"
	"errors"

	"workforce/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EmployeeRepository struct {
	db *gorm.DB
}

type EmployeeRepositoryInterface interface {
	Create(ctx context.Context, employee *model.Employee) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Employee, error)
	FindByLogin(ctx context.Context, login string) (*model.Employee, error)
	FindConflict(ctx context.Context, username, email, phone, aadharNo string) (*model.Employee, error)
	ListByRole(ctx context.Context, role string) ([]model.Employee, error)
	ListAll(ctx context.Context) ([]model.Employee, error)
}

var _ EmployeeRepositoryInterface = (*EmployeeRepository)(nil)

func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) Create(ctx context.Context, employee *model.Employee) error {
	return r.db.WithContext(ctx).Create(employee).Error
}

func (r *EmployeeRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Employee, error) {
	var employee model.Employee
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&employee).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

// FindByLogin looks an account up by username or email, for login.
func (r *EmployeeRepository) FindByLogin(ctx context.Context, login string) (*model.Employee, error) {
	var employee model.Employee
	err := r.db.WithContext(ctx).
		Where("username = ? OR email = ?", login, login).
		First(&employee).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

// FindConflict returns an existing account that already claims any of the
// unique identity fields, or nil when all four are free.
func (r *EmployeeRepository) FindConflict(ctx context.Context, username, email, phone, aadharNo string) (*model.Employee, error) {
	var employee model.Employee
	err := r.db.WithContext(ctx).
		Where("username = ? OR email = ? OR phone = ? OR aadhar_no = ?", username, email, phone, aadharNo).
		First(&employee).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *EmployeeRepository) ListByRole(ctx context.Context, role string) ([]model.Employee, error) {
	var employees []model.Employee
	err := r.db.WithContext(ctx).Where("role = ?", role).Order("created_at").Find(&employees).Error
	return employees, err
}

func (r *EmployeeRepository) ListAll(ctx context.Context) ([]model.Employee, error) {
	var employees []model.Employee
	err := r.db.WithContext(ctx).Order("created_at").Find(&employees).Error
	return employees, err
}
