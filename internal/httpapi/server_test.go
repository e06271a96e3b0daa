package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomscout/internal/domain"
	"roomscout/internal/services/favorites"
	"roomscout/internal/services/insights"
	"roomscout/internal/services/recommend"
	"roomscout/internal/services/roommate"
	"roomscout/internal/services/search"
)

// Function-field моки сервисного слоя.

type MockSearchService struct {
	SearchFunc func(ctx context.Context, params domain.SearchParams, userID string) (*search.Result, error)
}

func (m *MockSearchService) Search(ctx context.Context, params domain.SearchParams, userID string) (*search.Result, error) {
	return m.SearchFunc(ctx, params, userID)
}

type MockInsightsService struct {
	GetListingInsightsFunc func(ctx context.Context, listingID int64) (*insights.ListingInsights, error)
}

func (m *MockInsightsService) GetListingInsights(ctx context.Context, listingID int64) (*insights.ListingInsights, error) {
	return m.GetListingInsightsFunc(ctx, listingID)
}

type MockRecommendService struct {
	GetRecommendationsFunc func(ctx context.Context, userID string, pager *domain.Pager) (*domain.PaginatedResult[domain.ListingSummary], error)
}

func (m *MockRecommendService) GetRecommendations(ctx context.Context, userID string, pager *domain.Pager) (*domain.PaginatedResult[domain.ListingSummary], error) {
	return m.GetRecommendationsFunc(ctx, userID, pager)
}

type MockFitScoreService struct {
	ScoreAreaFunc func(ctx context.Context, anchor domain.Point, userID string) (domain.FitScore, error)
}

func (m *MockFitScoreService) ScoreArea(ctx context.Context, anchor domain.Point, userID string) (domain.FitScore, error) {
	return m.ScoreAreaFunc(ctx, anchor, userID)
}

type MockFavoritesService struct {
	ToggleFunc func(ctx context.Context, userID string, listingID int64) (favorites.ToggleOutcome, error)
	RemoveFunc func(ctx context.Context, userID string, listingID int64) (bool, error)
	ListFunc   func(ctx context.Context, userID string) ([]domain.ListingSummary, error)
}

func (m *MockFavoritesService) Toggle(ctx context.Context, userID string, listingID int64) (favorites.ToggleOutcome, error) {
	return m.ToggleFunc(ctx, userID, listingID)
}

func (m *MockFavoritesService) Remove(ctx context.Context, userID string, listingID int64) (bool, error) {
	return m.RemoveFunc(ctx, userID, listingID)
}

func (m *MockFavoritesService) List(ctx context.Context, userID string) ([]domain.ListingSummary, error) {
	return m.ListFunc(ctx, userID)
}

type MockRoommateService struct {
	OptInFunc            func(ctx context.Context, userID string, listingID int64) error
	OptOutFunc           func(ctx context.Context, userID string, listingID int64) error
	StatusFunc           func(ctx context.Context, userID string, listingID int64) (bool, error)
	ListRoommatesFunc    func(ctx context.Context, listingID int64) ([]domain.Roommate, error)
	CheckPreferencesFunc func(ctx context.Context, userID string) ([]string, error)
}

func (m *MockRoommateService) OptIn(ctx context.Context, userID string, listingID int64) error {
	return m.OptInFunc(ctx, userID, listingID)
}

func (m *MockRoommateService) OptOut(ctx context.Context, userID string, listingID int64) error {
	return m.OptOutFunc(ctx, userID, listingID)
}

func (m *MockRoommateService) Status(ctx context.Context, userID string, listingID int64) (bool, error) {
	return m.StatusFunc(ctx, userID, listingID)
}

func (m *MockRoommateService) ListRoommates(ctx context.Context, listingID int64) ([]domain.Roommate, error) {
	return m.ListRoommatesFunc(ctx, listingID)
}

func (m *MockRoommateService) CheckPreferences(ctx context.Context, userID string) ([]string, error) {
	return m.CheckPreferencesFunc(ctx, userID)
}

type MockProfileService struct {
	EnsureUserFunc        func(ctx context.Context, user domain.User) error
	GetPreferencesFunc    func(ctx context.Context, userID string) (domain.UserPreferences, error)
	UpdatePreferencesFunc func(ctx context.Context, userID string, update domain.PreferencesUpdate) (domain.UserPreferences, error)
}

func (m *MockProfileService) EnsureUser(ctx context.Context, user domain.User) error {
	return m.EnsureUserFunc(ctx, user)
}

func (m *MockProfileService) GetPreferences(ctx context.Context, userID string) (domain.UserPreferences, error) {
	return m.GetPreferencesFunc(ctx, userID)
}

func (m *MockProfileService) UpdatePreferences(ctx context.Context, userID string, update domain.PreferencesUpdate) (domain.UserPreferences, error) {
	return m.UpdatePreferencesFunc(ctx, userID, update)
}

type serverMocks struct {
	search    *MockSearchService
	insights  *MockInsightsService
	recommend *MockRecommendService
	fitScore  *MockFitScoreService
	favorites *MockFavoritesService
	roommate  *MockRoommateService
	profile   *MockProfileService
}

func newTestServer() (*Server, *serverMocks) {
	mocks := &serverMocks{
		search:    &MockSearchService{},
		insights:  &MockInsightsService{},
		recommend: &MockRecommendService{},
		fitScore:  &MockFitScoreService{},
		favorites: &MockFavoritesService{},
		roommate:  &MockRoommateService{},
		profile:   &MockProfileService{},
	}
	log := slog.New(slog.NewTextHandler(os.Stdout, nil))
	srv := NewServer(log, mocks.search, mocks.insights, mocks.recommend,
		mocks.fitScore, mocks.favorites, mocks.roommate, mocks.profile, 15*time.Second)
	return srv, mocks
}

func doRequest(t *testing.T, handler http.Handler, method, target, userID string, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if userID != "" {
		req.Header.Set(identityHeader, userID)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestSearch_CriteriaErrorReturns400WithField(t *testing.T) {
	srv, mocks := newTestServer()
	mocks.search.SearchFunc = func(ctx context.Context, params domain.SearchParams, userID string) (*search.Result, error) {
		_, err := domain.NormalizeCriteria(params)
		return nil, fmt.Errorf("search.Service.Search: %w", err)
	}

	rec := doRequest(t, srv.Router(), http.MethodGet, "/listings/search?region=Denver&min_rating=7", "", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "min_rating", resp.Field)
}

func TestSearch_PassesRawParamsAndIdentity(t *testing.T) {
	srv, mocks := newTestServer()

	var gotParams domain.SearchParams
	var gotUser string
	mocks.search.SearchFunc = func(ctx context.Context, params domain.SearchParams, userID string) (*search.Result, error) {
		gotParams = params
		gotUser = userID
		return &search.Result{Listings: &domain.PaginatedResult[domain.ListingSummary]{Page: 1, PageSize: 20}}, nil
	}

	rec := doRequest(t, srv.Router(), http.MethodGet,
		"/listings/search?region=Denver&places=gym&places=park&amenities=wifi&page=2", "user-1", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Denver", gotParams.Region)
	assert.Equal(t, []string{"gym", "park"}, gotParams.Places)
	assert.Equal(t, []string{"wifi"}, gotParams.Amenities)
	assert.Equal(t, "2", gotParams.Page)
	assert.Equal(t, "user-1", gotUser)
}

func TestInsights_NotFoundReturns404(t *testing.T) {
	srv, mocks := newTestServer()
	mocks.insights.GetListingInsightsFunc = func(ctx context.Context, listingID int64) (*insights.ListingInsights, error) {
		return nil, fmt.Errorf("insights.Service.GetListingInsights: %w", insights.ErrListingNotFound)
	}

	rec := doRequest(t, srv.Router(), http.MethodGet, "/listings/404/insights", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInsights_BadIDReturns400(t *testing.T) {
	srv, _ := newTestServer()

	rec := doRequest(t, srv.Router(), http.MethodGet, "/listings/abc/insights", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecommendations_RequiresIdentity(t *testing.T) {
	srv, _ := newTestServer()

	rec := doRequest(t, srv.Router(), http.MethodGet, "/listings/recommendations", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRecommendations_ProfileIncompleteReturns422(t *testing.T) {
	srv, mocks := newTestServer()
	mocks.recommend.GetRecommendationsFunc = func(ctx context.Context, userID string, pager *domain.Pager) (*domain.PaginatedResult[domain.ListingSummary], error) {
		return nil, fmt.Errorf("recommend.Service.GetRecommendations: %w",
			&recommend.ProfileIncompleteError{MissingFields: []string{"min_budget", "work_location"}})
	}

	rec := doRequest(t, srv.Router(), http.MethodGet, "/listings/recommendations", "user-1", "")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, []string{"min_budget", "work_location"}, resp.MissingFields)
}

func TestFitScore_RequiresCoordinates(t *testing.T) {
	srv, _ := newTestServer()

	rec := doRequest(t, srv.Router(), http.MethodGet, "/listings/fit-score", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, srv.Router(), http.MethodGet, "/listings/fit-score?latitude=95&longitude=10", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFitScore_OK(t *testing.T) {
	srv, mocks := newTestServer()
	mocks.fitScore.ScoreAreaFunc = func(ctx context.Context, anchor domain.Point, userID string) (domain.FitScore, error) {
		assert.Equal(t, domain.Point{Latitude: 39.7392, Longitude: -104.9903}, anchor)
		return domain.FitScore{Score: 0.85, Label: "Great"}, nil
	}

	rec := doRequest(t, srv.Router(), http.MethodGet,
		"/listings/fit-score?latitude=39.7392&longitude=-104.9903", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp fitScoreDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Great", resp.Label)
}

func TestToggleFavorite_Statuses(t *testing.T) {
	srv, mocks := newTestServer()

	mocks.favorites.ToggleFunc = func(ctx context.Context, userID string, listingID int64) (favorites.ToggleOutcome, error) {
		return favorites.OutcomeAdded, nil
	}
	rec := doRequest(t, srv.Router(), http.MethodPost, "/favorites", "user-1", `{"listing_id": 1001}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	mocks.favorites.ToggleFunc = func(ctx context.Context, userID string, listingID int64) (favorites.ToggleOutcome, error) {
		return favorites.OutcomeRemoved, nil
	}
	rec = doRequest(t, srv.Router(), http.MethodPost, "/favorites", "user-1", `{"listing_id": 1001}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestToggleFavorite_InvalidBody(t *testing.T) {
	srv, _ := newTestServer()

	rec := doRequest(t, srv.Router(), http.MethodPost, "/favorites", "user-1", `{"listing_id": 0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, srv.Router(), http.MethodPost, "/favorites", "user-1", `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOptIn_ConflictReturns409(t *testing.T) {
	srv, mocks := newTestServer()
	mocks.roommate.OptInFunc = func(ctx context.Context, userID string, listingID int64) error {
		return fmt.Errorf("roommate.Service.OptIn: %w", roommate.ErrAlreadyOptedIn)
	}

	rec := doRequest(t, srv.Router(), http.MethodPost, "/roommate/listings/1001/opt-in", "user-1", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestOptOut_NotOptedInReturns409(t *testing.T) {
	srv, mocks := newTestServer()
	mocks.roommate.OptOutFunc = func(ctx context.Context, userID string, listingID int64) error {
		return fmt.Errorf("roommate.Service.OptOut: %w", roommate.ErrNotOptedIn)
	}

	rec := doRequest(t, srv.Router(), http.MethodDelete, "/roommate/listings/1001/opt-in", "user-1", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateUser_UpsertsWithHeaderIdentity(t *testing.T) {
	srv, mocks := newTestServer()

	var gotUser domain.User
	mocks.profile.EnsureUserFunc = func(ctx context.Context, user domain.User) error {
		gotUser = user
		return nil
	}

	rec := doRequest(t, srv.Router(), http.MethodPost, "/users", "user-1",
		`{"first_name": "Dana", "last_name": "Whitfield", "email": "dana@example.com"}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	// Идентификатор берётся из заголовка, не из тела.
	assert.Equal(t, "user-1", gotUser.ID)
	assert.Equal(t, "Dana", gotUser.FirstName)
	assert.Equal(t, "dana@example.com", gotUser.Email)
}

func TestCreateUser_RequiresIdentity(t *testing.T) {
	srv, _ := newTestServer()

	rec := doRequest(t, srv.Router(), http.MethodPost, "/users", "",
		`{"first_name": "Dana", "last_name": "Whitfield", "email": "dana@example.com"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateUser_MissingFields(t *testing.T) {
	srv, _ := newTestServer()

	rec := doRequest(t, srv.Router(), http.MethodPost, "/users", "user-1",
		`{"first_name": "Dana"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, srv.Router(), http.MethodPost, "/users", "user-1",
		`{"first_name": "Dana", "last_name": "Whitfield", "email": "not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdatePreferences_Validation(t *testing.T) {
	srv, _ := newTestServer()

	// Вилка наизнанку.
	rec := doRequest(t, srv.Router(), http.MethodPut, "/users/user-1/preferences", "",
		`{"min_budget": 2000, "max_budget": 500}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Широта без долготы.
	rec = doRequest(t, srv.Router(), http.MethodPut, "/users/user-1/preferences", "",
		`{"work_latitude": 39.7}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Широта за пределами диапазона.
	rec = doRequest(t, srv.Router(), http.MethodPut, "/users/user-1/preferences", "",
		`{"work_latitude": 95, "work_longitude": 10}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdatePreferences_OK(t *testing.T) {
	srv, mocks := newTestServer()

	var gotUpdate domain.PreferencesUpdate
	mocks.profile.UpdatePreferencesFunc = func(ctx context.Context, userID string, update domain.PreferencesUpdate) (domain.UserPreferences, error) {
		gotUpdate = update
		min := *update.MinBudget
		return domain.UserPreferences{UserID: userID, MinBudget: &min}, nil
	}

	rec := doRequest(t, srv.Router(), http.MethodPut, "/users/user-1/preferences", "",
		`{"min_budget": 900, "roommate_status": "Open to roommates"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, gotUpdate.MinBudget)
	assert.Equal(t, 900.0, *gotUpdate.MinBudget)
	require.NotNil(t, gotUpdate.RoommateStatus)
	assert.Equal(t, "Open to roommates", *gotUpdate.RoommateStatus)
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer()

	rec := doRequest(t, srv.Router(), http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}
