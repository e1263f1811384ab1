package models

import "time"

// PatientRecord represents a clinical record. The patient field is a free-text
// name, not a reference to an Account. CreatedDate is set from the server
// clock at creation and never changes afterwards.
type PatientRecord struct {
	RecordID     uint        `gorm:"primaryKey;column:record_id" json:"record_id"`
	Patient      string      `gorm:"type:text;not null" json:"patient"`
	CreatedDate  time.Time   `gorm:"column:created_date" json:"created_date"`
	Diagnostics  string      `gorm:"type:text" json:"diagnostics"`
	Observations string      `gorm:"type:text" json:"observations"`
	Treatments   string      `gorm:"type:text" json:"treatments"`
	DepartmentID uint        `gorm:"not null;index" json:"department"`
	Department   *Department `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Misc         string      `gorm:"type:text" json:"misc"`
}

// TableName overrides the table name
func (PatientRecord) TableName() string {
	return "patient_records"
}

// PatientRecordRequest represents a request to create or replace a patient
// record. Every field is required; the department reference must resolve.
type PatientRecordRequest struct {
	Patient      *string `json:"patient"`
	Diagnostics  *string `json:"diagnostics"`
	Observations *string `json:"observations"`
	Treatments   *string `json:"treatments"`
	Department   *uint   `json:"department"`
	Misc         *string `json:"misc"`
}

// Validate checks that every required field is present
func (r *PatientRecordRequest) Validate() error {
	switch {
	case r.Patient == nil:
		return &ValidationError{Field: "patient"}
	case r.Diagnostics == nil:
		return &ValidationError{Field: "diagnostics"}
	case r.Observations == nil:
		return &ValidationError{Field: "observations"}
	case r.Treatments == nil:
		return &ValidationError{Field: "treatments"}
	case r.Department == nil:
		return &ValidationError{Field: "department"}
	case r.Misc == nil:
		return &ValidationError{Field: "misc"}
	}
	return nil
}
