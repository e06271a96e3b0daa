package httpapi

import (
	"net/http"

	"github.com/samber/lo"

	"roomscout/internal/domain"
)

// handleOptIn — POST /roommate/listings/{id}/opt-in.
func (s *Server) handleOptIn(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	listingID, ok := s.listingIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := s.roommate.OptIn(r.Context(), userID, listingID); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]string{"outcome": "opted_in"})
}

// handleOptOut — DELETE /roommate/listings/{id}/opt-in.
func (s *Server) handleOptOut(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	listingID, ok := s.listingIDParam(w, r, "id")
	if !ok {
		return
	}

	if err := s.roommate.OptOut(r.Context(), userID, listingID); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"outcome": "opted_out"})
}

// handleOptInStatus — GET /roommate/listings/{id}/opt-in/status.
func (s *Server) handleOptInStatus(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	listingID, ok := s.listingIDParam(w, r, "id")
	if !ok {
		return
	}

	optedIn, err := s.roommate.Status(r.Context(), userID, listingID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]bool{"opted_in": optedIn})
}

// handleListRoommates — GET /roommate/listings/{id}/roommates.
func (s *Server) handleListRoommates(w http.ResponseWriter, r *http.Request) {
	listingID, ok := s.listingIDParam(w, r, "id")
	if !ok {
		return
	}

	roommates, err := s.roommate.ListRoommates(r.Context(), listingID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"roommates": lo.Map(roommates, func(rm domain.Roommate, _ int) roommateDTO {
			return roommateDTO{
				UserID:    rm.UserID,
				FirstName: rm.FirstName,
				LastName:  rm.LastName,
				Email:     rm.Email,
			}
		}),
	})
}

// handleCheckPreferences — GET /roommate/preferences/check. Возвращает,
// полон ли профиль для соседства, и список недостающих полей.
func (s *Server) handleCheckPreferences(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	missing, err := s.roommate.CheckPreferences(r.Context(), userID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"complete":       len(missing) == 0,
		"missing_fields": missing,
	})
}
