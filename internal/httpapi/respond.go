package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"roomscout/internal/domain"
	"roomscout/internal/lib/logger/sl"
	"roomscout/internal/services/favorites"
	"roomscout/internal/services/insights"
	"roomscout/internal/services/profile"
	"roomscout/internal/services/recommend"
	"roomscout/internal/services/roommate"
)

// errorResponse — единый формат ошибки API.
type errorResponse struct {
	Error         string   `json:"error"`
	Field         string   `json:"field,omitempty"`
	MissingFields []string `json:"missing_fields,omitempty"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error("failed to encode response", sl.Err(err))
	}
}

// respondError — маппинг доменных ошибок на HTTP-статусы. Всё, что не
// распознано, отдаётся как 500 без деталей внутреннего устройства.
func (s *Server) respondError(w http.ResponseWriter, err error) {
	var (
		criteriaErr   *domain.CriteriaError
		incompleteErr *recommend.ProfileIncompleteError
	)

	switch {
	case errors.As(err, &criteriaErr):
		s.respondJSON(w, http.StatusBadRequest, errorResponse{
			Error: criteriaErr.Error(),
			Field: criteriaErr.Field,
		})
	case errors.As(err, &incompleteErr):
		s.respondJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:         "profile incomplete",
			MissingFields: incompleteErr.MissingFields,
		})
	case errors.Is(err, insights.ErrListingNotFound),
		errors.Is(err, favorites.ErrListingNotFound),
		errors.Is(err, roommate.ErrListingNotFound):
		s.respondJSON(w, http.StatusNotFound, errorResponse{Error: "listing not found"})
	case errors.Is(err, profile.ErrUserNotFound),
		errors.Is(err, recommend.ErrUserNotFound),
		errors.Is(err, roommate.ErrUserNotFound):
		s.respondJSON(w, http.StatusNotFound, errorResponse{Error: "user not found"})
	case errors.Is(err, roommate.ErrAlreadyOptedIn):
		s.respondJSON(w, http.StatusConflict, errorResponse{Error: "already opted in"})
	case errors.Is(err, roommate.ErrNotOptedIn):
		s.respondJSON(w, http.StatusConflict, errorResponse{Error: "not opted in"})
	case errors.Is(err, profile.ErrNothingToUpdate):
		s.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "no fields to update"})
	case errors.Is(err, profile.ErrUnknownPreference):
		s.respondJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown preference value"})
	case errors.Is(err, context.DeadlineExceeded):
		s.respondJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "upstream unavailable"})
	default:
		s.log.Error("unhandled error", sl.Err(err))
		s.respondJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func (s *Server) respondBadRequest(w http.ResponseWriter, msg string) {
	s.respondJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}
