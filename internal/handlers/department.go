package handlers

import (
	"net/http"

	"github.com/careplane/hospital-records/internal/models"
	"github.com/careplane/hospital-records/internal/services"
)

// DepartmentHandler serves the /departments resource
type DepartmentHandler struct {
	registry *services.RegistryService
}

// NewDepartmentHandler creates a new department handler
func NewDepartmentHandler(registry *services.RegistryService) *DepartmentHandler {
	return &DepartmentHandler{registry: registry}
}

// List returns all departments
func (h *DepartmentHandler) List(w http.ResponseWriter, r *http.Request) {
	depts, err := h.registry.ListDepartments(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, depts)
}

// Create creates a new department. Creation responds 200 with the stored
// entity, generated id included.
func (h *DepartmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.DepartmentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	dept, err := h.registry.CreateDepartment(r.Context(), &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dept)
}

// Get returns one department by id
func (h *DepartmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	dept, err := h.registry.GetDepartment(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dept)
}

// Replace overwrites every mutable field of a department
func (h *DepartmentHandler) Replace(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	var req models.DepartmentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	dept, err := h.registry.ReplaceDepartment(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dept)
}

// Delete removes a department and, by cascade, its accounts and patient
// records
func (h *DepartmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	if err := h.registry.DeleteDepartment(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListDoctors returns the doctors assigned to a department
func (h *DepartmentHandler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	h.listAccounts(w, r, models.RoleDoctor)
}

// ListPatients returns the patients assigned to a department
func (h *DepartmentHandler) ListPatients(w http.ResponseWriter, r *http.Request) {
	h.listAccounts(w, r, models.RolePatient)
}

func (h *DepartmentHandler) listAccounts(w http.ResponseWriter, r *http.Request, role string) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	accounts, err := h.registry.ListDepartmentAccounts(r.Context(), id, role)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, accounts)
}
