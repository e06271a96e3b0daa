package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/samber/lo"

	"roomscout/internal/domain"
	"roomscout/internal/services/favorites"
)

type toggleFavoriteRequest struct {
	ListingID int64 `json:"listing_id" validate:"required,gt=0"`
}

// handleToggleFavorite — POST /favorites. Добавляет объявление в избранное
// либо убирает, если оно там уже было.
func (s *Server) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	var req toggleFavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondBadRequest(w, "invalid JSON body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.respondBadRequest(w, "listing_id is required and must be positive")
		return
	}

	outcome, err := s.favorites.Toggle(r.Context(), userID, req.ListingID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	status := http.StatusOK
	if outcome == favorites.OutcomeAdded {
		status = http.StatusCreated
	}
	s.respondJSON(w, status, map[string]string{"outcome": string(outcome)})
}

// handleRemoveFavorite — DELETE /favorites/{listingID}.
func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	listingID, ok := s.listingIDParam(w, r, "listingID")
	if !ok {
		return
	}

	removed, err := s.favorites.Remove(r.Context(), userID, listingID)
	if err != nil {
		s.respondError(w, err)
		return
	}
	if !removed {
		s.respondJSON(w, http.StatusNotFound, errorResponse{Error: "favorite not found"})
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"outcome": "removed"})
}

// handleListFavorites — GET /favorites.
func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	items, err := s.favorites.List(r.Context(), userID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"favorites": lo.Map(items, func(l domain.ListingSummary, _ int) listingSummaryDTO { return toListingSummaryDTO(l) }),
	})
}
