package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/careplane/hospital-records/internal/database"
	"github.com/careplane/hospital-records/internal/models"
	"gorm.io/gorm"
)

// AccountRepository handles account database operations
type AccountRepository struct{}

// NewAccountRepository creates a new account repository
func NewAccountRepository() *AccountRepository {
	return &AccountRepository{}
}

// Create inserts a new account
func (r *AccountRepository) Create(ctx context.Context, account *models.Account) error {
	if err := database.DB.WithContext(ctx).Create(account).Error; err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}
	return nil
}

// GetByID retrieves an account by primary key
func (r *AccountRepository) GetByID(ctx context.Context, id uint) (*models.Account, error) {
	var account models.Account
	if err := database.DB.WithContext(ctx).First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return &account, nil
}

// GetByEmail retrieves the first account with the given email. Email is not
// unique in the store; first-by-id wins, matching the identity reconciliation
// semantics.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	var account models.Account
	if err := database.DB.WithContext(ctx).
		Where("email = ?", email).
		Order("id ASC").
		First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get account by email: %w", err)
	}
	return &account, nil
}

// ListByRole retrieves all accounts with the given role
func (r *AccountRepository) ListByRole(ctx context.Context, role string) ([]models.Account, error) {
	var accounts []models.Account
	if err := database.DB.WithContext(ctx).
		Where("role = ?", role).
		Order("id ASC").
		Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// ListByRoleAndDepartment retrieves all accounts with the given role assigned
// to the given department
func (r *AccountRepository) ListByRoleAndDepartment(ctx context.Context, role string, departmentID uint) ([]models.Account, error) {
	var accounts []models.Account
	if err := database.DB.WithContext(ctx).
		Where("role = ? AND department_id = ?", role, departmentID).
		Order("id ASC").
		Find(&accounts).Error; err != nil {
		return nil, fmt.Errorf("failed to list department accounts: %w", err)
	}
	return accounts, nil
}

// Update saves an account
func (r *AccountRepository) Update(ctx context.Context, account *models.Account) error {
	if err := database.DB.WithContext(ctx).Save(account).Error; err != nil {
		return fmt.Errorf("failed to update account: %w", err)
	}
	return nil
}

// Delete removes an account
func (r *AccountRepository) Delete(ctx context.Context, id uint) error {
	if err := database.DB.WithContext(ctx).Delete(&models.Account{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	return nil
}
