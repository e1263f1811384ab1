package handlers

import (
	"net/http"

	"github.com/careplane/hospital-records/internal/models"
	"github.com/careplane/hospital-records/internal/services"
)

// RecordHandler serves the /patient_records resource
type RecordHandler struct {
	registry *services.RegistryService
}

// NewRecordHandler creates a new patient record handler
func NewRecordHandler(registry *services.RegistryService) *RecordHandler {
	return &RecordHandler{registry: registry}
}

// List returns all patient records
func (h *RecordHandler) List(w http.ResponseWriter, r *http.Request) {
	records, err := h.registry.ListRecords(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, records)
}

// Create creates a new patient record with created_date stamped from the
// server clock
func (h *RecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.PatientRecordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	record, err := h.registry.CreateRecord(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, record)
}

// Get returns one patient record by id
func (h *RecordHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	record, err := h.registry.GetRecord(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, record)
}

// Replace overwrites every mutable field of a patient record; record_id and
// created_date are immutable
func (h *RecordHandler) Replace(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	var req models.PatientRecordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	record, err := h.registry.ReplaceRecord(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, record)
}

// Delete removes a patient record
func (h *RecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	if err := h.registry.DeleteRecord(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
