package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"roomscout/internal/domain"
)

// handleSearch — GET /listings/search. Все критерии приходят query-параметрами
// и валидируются нормализатором до обращения к хранилищу.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := domain.SearchParams{
		Region:          q.Get("region"),
		Latitude:        q.Get("latitude"),
		Longitude:       q.Get("longitude"),
		MinRating:       q.Get("min_rating"),
		MinPrice:        q.Get("min_price"),
		MaxPrice:        q.Get("max_price"),
		Distance:        q.Get("distance"),
		RoomType:        q.Get("room_type"),
		Places:          q["places"],
		Amenities:       q["amenities"],
		Page:            q.Get("page"),
		PageSize:        q.Get("page_size"),
		IncludeFitScore: q.Get("include_fit_score"),
	}

	userID, _ := UserID(r.Context())

	result, err := s.search.Search(r.Context(), params, userID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	resp := searchResponseDTO{
		paginatedListingsDTO: toPaginatedListingsDTO(result.Listings),
		FellBack:             result.FellBack,
	}
	if result.FitScore != nil {
		dto := toFitScoreDTO(*result.FitScore)
		resp.FitScore = &dto
	}

	s.respondJSON(w, http.StatusOK, resp)
}

// handleInsights — GET /listings/{id}/insights.
func (s *Server) handleInsights(w http.ResponseWriter, r *http.Request) {
	listingID, ok := s.listingIDParam(w, r, "id")
	if !ok {
		return
	}

	result, err := s.insights.GetListingInsights(r.Context(), listingID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, toInsightsDTO(result))
}

// handleRecommendations — GET /listings/recommendations.
func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserID(r.Context())

	q := r.URL.Query()
	page := parseQueryInt(q.Get("page"), 1)
	pageSize := parseQueryInt(q.Get("page_size"), domain.DefaultPageSize)
	pager := domain.NewPager(int32(page), int32(pageSize))

	result, err := s.recommend.GetRecommendations(r.Context(), userID, pager)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, toPaginatedListingsDTO(result))
}

// handleFitScore — GET /listings/fit-score?latitude&longitude.
// Идентификатор пользователя опционален: без него действует бюджетная
// вилка по умолчанию.
func (s *Server) handleFitScore(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	lat, latErr := strconv.ParseFloat(q.Get("latitude"), 64)
	lng, lngErr := strconv.ParseFloat(q.Get("longitude"), 64)
	if latErr != nil || lngErr != nil {
		s.respondBadRequest(w, "latitude and longitude are required numeric parameters")
		return
	}

	anchor := domain.Point{Latitude: lat, Longitude: lng}
	if !anchor.Valid() {
		s.respondBadRequest(w, "coordinates out of range")
		return
	}

	userID, _ := UserID(r.Context())

	score, err := s.fitScore.ScoreArea(r.Context(), anchor, userID)
	if err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, toFitScoreDTO(score))
}

// listingIDParam — разбор path-параметра идентификатора объявления.
func (s *Server) listingIDParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		s.respondBadRequest(w, "invalid listing id")
		return 0, false
	}
	return id, true
}

func parseQueryInt(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return def
	}
	return v
}
