package models

// Department represents a hospital department
type Department struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	Name           string `gorm:"type:varchar(255);not null" json:"name"`
	Diagnostics    string `gorm:"type:text" json:"diagnostics"`
	Location       string `gorm:"type:varchar(255)" json:"location"`
	Specialization string `gorm:"type:varchar(255)" json:"specialization"`
}

// TableName overrides the table name
func (Department) TableName() string {
	return "departments"
}

// DepartmentRequest represents a request to create or replace a department.
// Fields are pointers so that an absent key can be told apart from an empty
// value; the API only checks presence, not content.
type DepartmentRequest struct {
	Name           *string `json:"name"`
	Diagnostics    *string `json:"diagnostics"`
	Location       *string `json:"location"`
	Specialization *string `json:"specialization"`
}

// Validate checks that every required field is present
func (r *DepartmentRequest) Validate() error {
	switch {
	case r.Name == nil:
		return &ValidationError{Field: "name"}
	case r.Diagnostics == nil:
		return &ValidationError{Field: "diagnostics"}
	case r.Location == nil:
		return &ValidationError{Field: "location"}
	case r.Specialization == nil:
		return &ValidationError{Field: "specialization"}
	}
	return nil
}
