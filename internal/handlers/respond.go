package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/careplane/hospital-records/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

// respondServiceError maps service errors onto the API's failure contract:
// a missing body field is a structured 400, a dangling department reference
// is a 404 with the dedicated payload, a missing primary entity is a bare
// 404 with an empty body, and anything else is a logged 500.
func respondServiceError(w http.ResponseWriter, err error) {
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		respondError(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, models.ErrDepartmentNotFound):
		respondError(w, http.StatusNotFound, "Department does not exist")
	case errors.Is(err, models.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
	default:
		log.Error().Err(err).Msg("Request failed")
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// urlID parses the {id} route parameter. A non-numeric id behaves like a
// miss: bare 404.
func urlID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		w.WriteHeader(http.StatusNotFound)
		return 0, false
	}
	return uint(id), true
}

// decodeBody decodes a JSON request body into dst
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
