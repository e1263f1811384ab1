package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/careplane/hospital-records/internal/database"
	"github.com/careplane/hospital-records/internal/models"
	"gorm.io/gorm"
)

// RecordRepository handles patient record database operations
type RecordRepository struct{}

// NewRecordRepository creates a new patient record repository
func NewRecordRepository() *RecordRepository {
	return &RecordRepository{}
}

// Create inserts a new patient record
func (r *RecordRepository) Create(ctx context.Context, record *models.PatientRecord) error {
	if err := database.DB.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create patient record: %w", err)
	}
	return nil
}

// GetByID retrieves a patient record by primary key
func (r *RecordRepository) GetByID(ctx context.Context, id uint) (*models.PatientRecord, error) {
	var record models.PatientRecord
	if err := database.DB.WithContext(ctx).First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get patient record: %w", err)
	}
	return &record, nil
}

// List retrieves all patient records
func (r *RecordRepository) List(ctx context.Context) ([]models.PatientRecord, error) {
	var records []models.PatientRecord
	if err := database.DB.WithContext(ctx).Order("record_id ASC").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to list patient records: %w", err)
	}
	return records, nil
}

// Update saves a patient record
func (r *RecordRepository) Update(ctx context.Context, record *models.PatientRecord) error {
	if err := database.DB.WithContext(ctx).Save(record).Error; err != nil {
		return fmt.Errorf("failed to update patient record: %w", err)
	}
	return nil
}

// Delete removes a patient record
func (r *RecordRepository) Delete(ctx context.Context, id uint) error {
	if err := database.DB.WithContext(ctx).Delete(&models.PatientRecord{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete patient record: %w", err)
	}
	return nil
}
