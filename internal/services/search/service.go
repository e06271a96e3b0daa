package search

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"roomscout/internal/domain"
	"roomscout/internal/lib/events"
	"roomscout/internal/lib/logger/sl"
)

// ListingSearcher — движок фильтрации поверх хранилища.
type ListingSearcher interface {
	Search(ctx context.Context, c domain.SearchCriteria) (*domain.PaginatedResult[domain.ListingSummary], error)
	SearchRegionOnly(ctx context.Context, region string, pager *domain.Pager) (*domain.PaginatedResult[domain.ListingSummary], error)
}

// FitScorer — расчёт fit score по якорной точке.
type FitScorer interface {
	ScoreArea(ctx context.Context, anchor domain.Point, userID string) (domain.FitScore, error)
}

type Service struct {
	log            *slog.Logger
	listings       ListingSearcher
	scorer         FitScorer
	publisher      events.Publisher
	regionFallback bool
}

func New(log *slog.Logger, listings ListingSearcher, scorer FitScorer, publisher events.Publisher, regionFallback bool) *Service {
	return &Service{
		log:            log,
		listings:       listings,
		scorer:         scorer,
		publisher:      publisher,
		regionFallback: regionFallback,
	}
}

// Result — выдача поиска: окно страницы, полный счётчик и, по запросу,
// fit score района. FellBack выставляется на region-only деградации.
type Result struct {
	Listings *domain.PaginatedResult[domain.ListingSummary]
	FitScore *domain.FitScore
	FellBack bool
}

// Search — нормализация критериев и выполнение поиска. Ошибки валидации
// возвращаются до единого обращения к хранилищу.
func (s *Service) Search(ctx context.Context, params domain.SearchParams, userID string) (*Result, error) {
	const op = "search.Service.Search"
	log := s.log.With(slog.String("op", op))

	criteria, err := domain.NormalizeCriteria(params)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	page, err := s.listings.Search(ctx, criteria)
	if err != nil {
		log.Error("search failed", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := &Result{Listings: page}

	// Fallback только для регионального пути: маскировать пустую выдачу
	// точного proximity-поиска деградацией нельзя.
	if page.TotalCount == 0 && criteria.Mode == domain.SearchModeRegion && s.regionFallback {
		log.Info("combined filter yielded no rows, falling back to region-only",
			slog.String("region", criteria.Region))

		fallback, err := s.listings.SearchRegionOnly(ctx, criteria.Region, criteria.Pager)
		if err != nil {
			log.Error("region fallback failed", sl.Err(err))
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result.Listings = fallback
		result.FellBack = true
	}

	if criteria.IncludeFitScore && criteria.Mode == domain.SearchModePoint {
		score, err := s.scorer.ScoreArea(ctx, criteria.Point, userID)
		if err != nil {
			// Fit score — дополнение к выдаче, его сбой выдачу не ломает.
			log.Warn("failed to score search area", sl.Err(err))
		} else {
			result.FitScore = &score
		}
	}

	s.publishSearchEvent(criteria, userID, result.Listings.TotalCount)

	return result, nil
}

// publishSearchEvent — асинхронная публикация события поиска.
// Контекст запроса не переиспользуется: публикация переживает ответ.
func (s *Service) publishSearchEvent(c domain.SearchCriteria, userID string, total int32) {
	evt := events.SearchEvent{
		EventID:   uuid.NewString(),
		UserID:    userID,
		Mode:      string(c.Mode),
		Region:    c.Region,
		Places:    c.Places,
		RoomType:  c.RoomType.String(),
		Total:     total,
		CreatedAt: time.Now(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.publisher.PublishSearch(ctx, evt)
	}()
}
