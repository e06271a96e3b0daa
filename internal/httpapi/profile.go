package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"roomscout/internal/domain"
)

type createUserRequest struct {
	FirstName string `json:"first_name" validate:"required,min=1,max=100"`
	LastName  string `json:"last_name" validate:"required,min=1,max=100"`
	Email     string `json:"email" validate:"required,email"`
}

// handleCreateUser — POST /users. Upsert карточки: идентификатор берётся
// из заголовка, повторный вызов обновляет имя и почту.
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondBadRequest(w, "invalid JSON body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.respondBadRequest(w, "first_name, last_name and email are required")
		return
	}

	user := domain.User{
		ID:        userID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	}
	if err := s.profile.EnsureUser(r.Context(), user); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]string{"user_id": userID})
}

// preferencesUpdateRequest — частичное обновление профиля. nil-поле
// означает "не менять". Lifestyle-поля принимают текстовые описания
// справочников; неизвестное описание отклоняется на уровне хранилища.
type preferencesUpdateRequest struct {
	MinBudget     *float64 `json:"min_budget" validate:"omitempty,gte=0"`
	MaxBudget     *float64 `json:"max_budget" validate:"omitempty,gt=0"`
	WorkZipCode   *string  `json:"work_zip_code" validate:"omitempty,min=3,max=10"`
	WorkLatitude  *float64 `json:"work_latitude" validate:"omitempty,gte=-90,lte=90"`
	WorkLongitude *float64 `json:"work_longitude" validate:"omitempty,gte=-180,lte=180"`

	RoommateStatus     *string `json:"roommate_status" validate:"omitempty,min=1,max=100"`
	SleepTime          *string `json:"sleep_time" validate:"omitempty,min=1,max=100"`
	WakeTime           *string `json:"wake_time" validate:"omitempty,min=1,max=100"`
	Cleanliness        *string `json:"cleanliness" validate:"omitempty,min=1,max=100"`
	NoiseTolerance     *string `json:"noise_tolerance" validate:"omitempty,min=1,max=100"`
	GuestFrequency     *string `json:"guest_frequency" validate:"omitempty,min=1,max=100"`
	SmokingPreference  *string `json:"smoking_preference" validate:"omitempty,min=1,max=100"`
	DrinkingPreference *string `json:"drinking_preference" validate:"omitempty,min=1,max=100"`
	PetPreference      *string `json:"pet_preference" validate:"omitempty,min=1,max=100"`
}

// handleGetPreferences — GET /users/{id}/preferences.
func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(chi.URLParam(r, "id"))
	if userID == "" {
		s.respondBadRequest(w, "invalid user id")
		return
	}

	prefs, err := s.profile.GetPreferences(r.Context(), userID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, toPreferencesDTO(prefs))
}

// handleUpdatePreferences — PUT /users/{id}/preferences.
func (s *Server) handleUpdatePreferences(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(chi.URLParam(r, "id"))
	if userID == "" {
		s.respondBadRequest(w, "invalid user id")
		return
	}

	var req preferencesUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondBadRequest(w, "invalid JSON body")
		return
	}
	if err := s.validate.Struct(req); err != nil {
		s.respondBadRequest(w, "validation failed: "+err.Error())
		return
	}
	if req.MinBudget != nil && req.MaxBudget != nil && *req.MaxBudget < *req.MinBudget {
		s.respondBadRequest(w, "max_budget must be >= min_budget")
		return
	}
	// Рабочая локация обновляется только парой координат.
	if (req.WorkLatitude == nil) != (req.WorkLongitude == nil) {
		s.respondBadRequest(w, "work_latitude and work_longitude must be provided together")
		return
	}

	update := domain.PreferencesUpdate{
		MinBudget:          req.MinBudget,
		MaxBudget:          req.MaxBudget,
		WorkZipCode:        req.WorkZipCode,
		WorkLatitude:       req.WorkLatitude,
		WorkLongitude:      req.WorkLongitude,
		RoommateStatus:     req.RoommateStatus,
		SleepTime:          req.SleepTime,
		WakeTime:           req.WakeTime,
		Cleanliness:        req.Cleanliness,
		NoiseTolerance:     req.NoiseTolerance,
		GuestFrequency:     req.GuestFrequency,
		SmokingPreference:  req.SmokingPreference,
		DrinkingPreference: req.DrinkingPreference,
		PetPreference:      req.PetPreference,
	}

	prefs, err := s.profile.UpdatePreferences(r.Context(), userID, update)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, toPreferencesDTO(prefs))
}
