package models

// Account roles used by the role-scoped endpoints. Role is free text in the
// store; these are just the two values the API filters on.
const (
	RoleDoctor  = "doctor"
	RolePatient = "patient"
)

// Account represents a doctor or patient account. Authentication is handled
// entirely by the external identity provider, so no credential is stored here.
type Account struct {
	ID           uint        `gorm:"primaryKey" json:"id"`
	Email        string      `gorm:"type:varchar(255);not null;index" json:"email"`
	Name         string      `gorm:"type:varchar(255);not null" json:"name"`
	Role         string      `gorm:"type:varchar(255);not null;index" json:"role"`
	DepartmentID *uint       `gorm:"index" json:"department"`
	Department   *Department `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// TableName overrides the table name
func (Account) TableName() string {
	return "accounts"
}

// AccountRequest represents a request to create or replace an account.
// Department is optional; the other fields are required by presence.
type AccountRequest struct {
	Email      *string `json:"email"`
	Name       *string `json:"name"`
	Role       *string `json:"role"`
	Department *uint   `json:"department"`
}

// Validate checks that every required field is present. The doctor and
// patient collection endpoints force the role themselves, so only the
// generic register endpoint requires it in the body.
func (r *AccountRequest) Validate(requireRole bool) error {
	switch {
	case r.Email == nil:
		return &ValidationError{Field: "email"}
	case r.Name == nil:
		return &ValidationError{Field: "name"}
	case requireRole && r.Role == nil:
		return &ValidationError{Field: "role"}
	}
	return nil
}
