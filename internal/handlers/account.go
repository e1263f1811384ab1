package handlers

import (
	"net/http"

	"github.com/careplane/hospital-records/internal/models"
	"github.com/careplane/hospital-records/internal/services"
)

// AccountHandler serves the /register, /doctors and /patients resources.
// Doctors and patients are the same entity addressed through role-scoped
// collections; the detail routes address any account by id.
type AccountHandler struct {
	registry *services.RegistryService
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(registry *services.RegistryService) *AccountHandler {
	return &AccountHandler{registry: registry}
}

// Register creates an account with a caller-supplied role
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, "")
}

// ListDoctors returns all accounts with the doctor role
func (h *AccountHandler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, models.RoleDoctor)
}

// CreateDoctor creates an account with the doctor role
func (h *AccountHandler) CreateDoctor(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, models.RoleDoctor)
}

// ListPatients returns all accounts with the patient role
func (h *AccountHandler) ListPatients(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, models.RolePatient)
}

// CreatePatient creates an account with the patient role
func (h *AccountHandler) CreatePatient(w http.ResponseWriter, r *http.Request) {
	h.create(w, r, models.RolePatient)
}

func (h *AccountHandler) list(w http.ResponseWriter, r *http.Request, role string) {
	accounts, err := h.registry.ListAccountsByRole(r.Context(), role)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, accounts)
}

func (h *AccountHandler) create(w http.ResponseWriter, r *http.Request, forcedRole string) {
	var req models.AccountRequest
	if !decodeBody(w, r, &req) {
		return
	}

	account, err := h.registry.RegisterAccount(r.Context(), &req, forcedRole)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, account)
}

// Get returns one account by id
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	account, err := h.registry.GetAccount(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, account)
}

// Replace overwrites every mutable field of an account, including its
// department assignment
func (h *AccountHandler) Replace(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	var req models.AccountRequest
	if !decodeBody(w, r, &req) {
		return
	}

	account, err := h.registry.ReplaceAccount(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, account)
}

// Delete removes an account
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	if err := h.registry.DeleteAccount(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
