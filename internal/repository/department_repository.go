package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/careplane/hospital-records/internal/database"
	"github.com/careplane/hospital-records/internal/models"
	"gorm.io/gorm"
)

// DepartmentRepository handles department database operations
type DepartmentRepository struct{}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository() *DepartmentRepository {
	return &DepartmentRepository{}
}

// Create inserts a new department
func (r *DepartmentRepository) Create(ctx context.Context, dept *models.Department) error {
	if err := database.DB.WithContext(ctx).Create(dept).Error; err != nil {
		return fmt.Errorf("failed to create department: %w", err)
	}
	return nil
}

// GetByID retrieves a department by primary key
func (r *DepartmentRepository) GetByID(ctx context.Context, id uint) (*models.Department, error) {
	var dept models.Department
	if err := database.DB.WithContext(ctx).First(&dept, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get department: %w", err)
	}
	return &dept, nil
}

// List retrieves all departments
func (r *DepartmentRepository) List(ctx context.Context) ([]models.Department, error) {
	var depts []models.Department
	if err := database.DB.WithContext(ctx).Order("id ASC").Find(&depts).Error; err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return depts, nil
}

// Update saves a department
func (r *DepartmentRepository) Update(ctx context.Context, dept *models.Department) error {
	if err := database.DB.WithContext(ctx).Save(dept).Error; err != nil {
		return fmt.Errorf("failed to update department: %w", err)
	}
	return nil
}

// Delete removes a department. The foreign keys on accounts and
// patient_records cascade, so dependent rows go with it.
func (r *DepartmentRepository) Delete(ctx context.Context, id uint) error {
	if err := database.DB.WithContext(ctx).Delete(&models.Department{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete department: %w", err)
	}
	return nil
}
