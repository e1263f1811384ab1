package services

import (
	"context"
	"errors"
	"time"

	"github.com/careplane/hospital-records/internal/models"
)

// DepartmentStore is the persistence contract for departments
type DepartmentStore interface {
	Create(ctx context.Context, dept *models.Department) error
	GetByID(ctx context.Context, id uint) (*models.Department, error)
	List(ctx context.Context) ([]models.Department, error)
	Update(ctx context.Context, dept *models.Department) error
	Delete(ctx context.Context, id uint) error
}

// AccountStore is the persistence contract for accounts
type AccountStore interface {
	Create(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id uint) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	ListByRole(ctx context.Context, role string) ([]models.Account, error)
	ListByRoleAndDepartment(ctx context.Context, role string, departmentID uint) ([]models.Account, error)
	Update(ctx context.Context, account *models.Account) error
	Delete(ctx context.Context, id uint) error
}

// RecordStore is the persistence contract for patient records
type RecordStore interface {
	Create(ctx context.Context, record *models.PatientRecord) error
	GetByID(ctx context.Context, id uint) (*models.PatientRecord, error)
	List(ctx context.Context) ([]models.PatientRecord, error)
	Update(ctx context.Context, record *models.PatientRecord) error
	Delete(ctx context.Context, id uint) error
}

// RegistryService implements the resource operations shared by all handler
// groups: payload validation, department reference resolution, uniform
// full-replace update semantics, and identity reconciliation.
type RegistryService struct {
	departments DepartmentStore
	accounts    AccountStore
	records     RecordStore
	now         func() time.Time
}

// NewRegistryService creates a new registry service
func NewRegistryService(departments DepartmentStore, accounts AccountStore, records RecordStore) *RegistryService {
	return &RegistryService{
		departments: departments,
		accounts:    accounts,
		records:     records,
		now:         time.Now,
	}
}

// resolveDepartment checks that an optional department reference points at an
// existing row. A dangling reference maps to ErrDepartmentNotFound so the
// handlers can emit the dedicated error payload.
func (s *RegistryService) resolveDepartment(ctx context.Context, id *uint) error {
	if id == nil {
		return nil
	}
	if _, err := s.departments.GetByID(ctx, *id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrDepartmentNotFound
		}
		return err
	}
	return nil
}

// CreateDepartment validates the payload and inserts a new department
func (s *RegistryService) CreateDepartment(ctx context.Context, req *models.DepartmentRequest) (*models.Department, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	dept := &models.Department{
		Name:           *req.Name,
		Diagnostics:    *req.Diagnostics,
		Location:       *req.Location,
		Specialization: *req.Specialization,
	}
	if err := s.departments.Create(ctx, dept); err != nil {
		return nil, err
	}
	return dept, nil
}

// GetDepartment retrieves a department by id
func (s *RegistryService) GetDepartment(ctx context.Context, id uint) (*models.Department, error) {
	return s.departments.GetByID(ctx, id)
}

// ListDepartments retrieves all departments
func (s *RegistryService) ListDepartments(ctx context.Context) ([]models.Department, error) {
	return s.departments.List(ctx)
}

// ReplaceDepartment overwrites every mutable field of an existing department.
// The id is immutable.
func (s *RegistryService) ReplaceDepartment(ctx context.Context, id uint, req *models.DepartmentRequest) (*models.Department, error) {
	dept, err := s.departments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	dept.Name = *req.Name
	dept.Diagnostics = *req.Diagnostics
	dept.Location = *req.Location
	dept.Specialization = *req.Specialization
	if err := s.departments.Update(ctx, dept); err != nil {
		return nil, err
	}
	return dept, nil
}

// DeleteDepartment removes a department; accounts and patient records
// referencing it are removed by the store's cascading foreign keys.
func (s *RegistryService) DeleteDepartment(ctx context.Context, id uint) error {
	if _, err := s.departments.GetByID(ctx, id); err != nil {
		return err
	}
	return s.departments.Delete(ctx, id)
}

// RegisterAccount validates the payload, resolves the optional department
// reference, and inserts a new account. When forcedRole is non-empty it
// overrides any role in the payload (the /doctors/ and /patients/ collection
// endpoints fix the role themselves); otherwise the payload must carry one.
func (s *RegistryService) RegisterAccount(ctx context.Context, req *models.AccountRequest, forcedRole string) (*models.Account, error) {
	if err := req.Validate(forcedRole == ""); err != nil {
		return nil, err
	}
	if err := s.resolveDepartment(ctx, req.Department); err != nil {
		return nil, err
	}
	role := forcedRole
	if role == "" {
		role = *req.Role
	}
	account := &models.Account{
		Email:        *req.Email,
		Name:         *req.Name,
		Role:         role,
		DepartmentID: req.Department,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// GetAccount retrieves an account by id
func (s *RegistryService) GetAccount(ctx context.Context, id uint) (*models.Account, error) {
	return s.accounts.GetByID(ctx, id)
}

// ListAccountsByRole retrieves all accounts with the given role
func (s *RegistryService) ListAccountsByRole(ctx context.Context, role string) ([]models.Account, error) {
	return s.accounts.ListByRole(ctx, role)
}

// ListDepartmentAccounts retrieves all accounts with the given role assigned
// to a department. The department must exist.
func (s *RegistryService) ListDepartmentAccounts(ctx context.Context, departmentID uint, role string) ([]models.Account, error) {
	if _, err := s.departments.GetByID(ctx, departmentID); err != nil {
		return nil, err
	}
	return s.accounts.ListByRoleAndDepartment(ctx, role, departmentID)
}

// ReplaceAccount overwrites every mutable field of an existing account,
// including its department assignment. The id is immutable.
func (s *RegistryService) ReplaceAccount(ctx context.Context, id uint, req *models.AccountRequest) (*models.Account, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(true); err != nil {
		return nil, err
	}
	if err := s.resolveDepartment(ctx, req.Department); err != nil {
		return nil, err
	}
	account.Email = *req.Email
	account.Name = *req.Name
	account.Role = *req.Role
	account.DepartmentID = req.Department
	if err := s.accounts.Update(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// DeleteAccount removes an account
func (s *RegistryService) DeleteAccount(ctx context.Context, id uint) error {
	if _, err := s.accounts.GetByID(ctx, id); err != nil {
		return err
	}
	return s.accounts.Delete(ctx, id)
}

// CreateRecord validates the payload, resolves the required department
// reference, stamps the creation time from the server clock, and inserts a
// new patient record.
func (s *RegistryService) CreateRecord(ctx context.Context, req *models.PatientRecordRequest) (*models.PatientRecord, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.resolveDepartment(ctx, req.Department); err != nil {
		return nil, err
	}
	record := &models.PatientRecord{
		Patient:      *req.Patient,
		CreatedDate:  s.now().UTC(),
		Diagnostics:  *req.Diagnostics,
		Observations: *req.Observations,
		Treatments:   *req.Treatments,
		DepartmentID: *req.Department,
		Misc:         *req.Misc,
	}
	if err := s.records.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// GetRecord retrieves a patient record by id
func (s *RegistryService) GetRecord(ctx context.Context, id uint) (*models.PatientRecord, error) {
	return s.records.GetByID(ctx, id)
}

// ListRecords retrieves all patient records
func (s *RegistryService) ListRecords(ctx context.Context) ([]models.PatientRecord, error) {
	return s.records.List(ctx)
}

// ReplaceRecord overwrites every mutable field of an existing patient record.
// record_id and created_date are immutable.
func (s *RegistryService) ReplaceRecord(ctx context.Context, id uint, req *models.PatientRecordRequest) (*models.PatientRecord, error) {
	record, err := s.records.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.resolveDepartment(ctx, req.Department); err != nil {
		return nil, err
	}
	record.Patient = *req.Patient
	record.Diagnostics = *req.Diagnostics
	record.Observations = *req.Observations
	record.Treatments = *req.Treatments
	record.DepartmentID = *req.Department
	record.Misc = *req.Misc
	if err := s.records.Update(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// DeleteRecord removes a patient record
func (s *RegistryService) DeleteRecord(ctx context.Context, id uint) error {
	if _, err := s.records.GetByID(ctx, id); err != nil {
		return err
	}
	return s.records.Delete(ctx, id)
}

// ReconcileIdentity links an external identity to an account by its email
// claim. The first login for an unknown email creates a patient account;
// later logins reuse the existing row.
func (s *RegistryService) ReconcileIdentity(ctx context.Context, email, name string) (*models.Account, error) {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}
	account = &models.Account{
		Email: email,
		Name:  name,
		Role:  models.RolePatient,
	}
	if err := s.accounts.Create(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}
