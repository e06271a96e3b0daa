package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/rs/cors"

	"roomscout/internal/domain"
	"roomscout/internal/services/favorites"
	"roomscout/internal/services/insights"
	"roomscout/internal/services/search"
)

// SearchService — поиск объявлений по сырым параметрам запроса.
type SearchService interface {
	Search(ctx context.Context, params domain.SearchParams, userID string) (*search.Result, error)
}

// InsightsService — агрегированная карточка объявления.
type InsightsService interface {
	GetListingInsights(ctx context.Context, listingID int64) (*insights.ListingInsights, error)
}

// RecommendService — персональные рекомендации.
type RecommendService interface {
	GetRecommendations(ctx context.Context, userID string, pager *domain.Pager) (*domain.PaginatedResult[domain.ListingSummary], error)
}

// FitScoreService — fit score района по якорной точке.
type FitScoreService interface {
	ScoreArea(ctx context.Context, anchor domain.Point, userID string) (domain.FitScore, error)
}

// FavoritesService — избранные объявления пользователя.
type FavoritesService interface {
	Toggle(ctx context.Context, userID string, listingID int64) (favorites.ToggleOutcome, error)
	Remove(ctx context.Context, userID string, listingID int64) (bool, error)
	List(ctx context.Context, userID string) ([]domain.ListingSummary, error)
}

// RoommateService — отклики на соседство.
type RoommateService interface {
	OptIn(ctx context.Context, userID string, listingID int64) error
	OptOut(ctx context.Context, userID string, listingID int64) error
	Status(ctx context.Context, userID string, listingID int64) (bool, error)
	ListRoommates(ctx context.Context, listingID int64) ([]domain.Roommate, error)
	CheckPreferences(ctx context.Context, userID string) ([]string, error)
}

// ProfileService — карточка пользователя и профиль предпочтений.
type ProfileService interface {
	EnsureUser(ctx context.Context, user domain.User) error
	GetPreferences(ctx context.Context, userID string) (domain.UserPreferences, error)
	UpdatePreferences(ctx context.Context, userID string, update domain.PreferencesUpdate) (domain.UserPreferences, error)
}

type Server struct {
	log          *slog.Logger
	search       SearchService
	insights     InsightsService
	recommend    RecommendService
	fitScore     FitScoreService
	favorites    FavoritesService
	roommate     RoommateService
	profile      ProfileService
	validate     *validator.Validate
	queryTimeout time.Duration
}

func NewServer(
	log *slog.Logger,
	searchSvc SearchService,
	insightsSvc InsightsService,
	recommendSvc RecommendService,
	fitScoreSvc FitScoreService,
	favoritesSvc FavoritesService,
	roommateSvc RoommateService,
	profileSvc ProfileService,
	queryTimeout time.Duration,
) *Server {
	return &Server{
		log:          log,
		search:       searchSvc,
		insights:     insightsSvc,
		recommend:    recommendSvc,
		fitScore:     fitScoreSvc,
		favorites:    favoritesSvc,
		roommate:     roommateSvc,
		profile:      profileSvc,
		validate:     validator.New(),
		queryTimeout: queryTimeout,
	}
}

// Router собирает все маршруты API. Браузерные клиенты ходят напрямую,
// поэтому CORS открыт, как в исходном деплое.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(Identity)
	r.Use(s.QueryTimeout)

	r.Get("/healthz", s.handleHealth)

	r.Route("/listings", func(r chi.Router) {
		r.Get("/search", s.handleSearch)
		r.Get("/recommendations", s.RequireUser(s.handleRecommendations))
		r.Get("/fit-score", s.handleFitScore)
		r.Get("/{id}/insights", s.handleInsights)
	})

	r.Route("/favorites", func(r chi.Router) {
		r.Post("/", s.RequireUser(s.handleToggleFavorite))
		r.Delete("/{listingID}", s.RequireUser(s.handleRemoveFavorite))
		r.Get("/", s.RequireUser(s.handleListFavorites))
	})

	r.Route("/roommate", func(r chi.Router) {
		r.Post("/listings/{id}/opt-in", s.RequireUser(s.handleOptIn))
		r.Delete("/listings/{id}/opt-in", s.RequireUser(s.handleOptOut))
		r.Get("/listings/{id}/opt-in/status", s.RequireUser(s.handleOptInStatus))
		r.Get("/listings/{id}/roommates", s.handleListRoommates)
		r.Get("/preferences/check", s.RequireUser(s.handleCheckPreferences))
	})

	r.Post("/users", s.RequireUser(s.handleCreateUser))

	r.Route("/users/{id}/preferences", func(r chi.Router) {
		r.Get("/", s.handleGetPreferences)
		r.Put("/", s.handleUpdatePreferences)
	})

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Content-Type", identityHeader},
	})

	return c.Handler(r)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
