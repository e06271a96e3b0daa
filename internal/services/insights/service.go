package insights

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"roomscout/internal/domain"
	"roomscout/internal/lib/cache"
	"roomscout/internal/lib/logger/sl"
	"roomscout/internal/lib/pictures"
	"roomscout/internal/repository"
)

// maxNearbyPlaces — сколько ближайших мест попадает в карточку.
const maxNearbyPlaces = 10

var ErrListingNotFound = errors.New("listing not found")

// ListingProvider — чтение объявления и его связанных сущностей.
type ListingProvider interface {
	GetByID(ctx context.Context, id int64) (domain.Listing, error)
	GetAmenities(ctx context.Context, listingID int64) (domain.AmenityFlags, error)
	GetReviewBreakdown(ctx context.Context, listingID int64) (*domain.ReviewSummary, *domain.ReviewComponents, error)
}

// PlaceProvider — места и криминальная статистика вокруг точки.
type PlaceProvider interface {
	NearbyPlaces(ctx context.Context, anchor domain.Point, radiusM float64, limit int) ([]domain.NearbyPlace, error)
	CrimeStats(ctx context.Context, anchor domain.Point, radiusM float64, since time.Time) (domain.CrimeStats, error)
}

type Service struct {
	log             *slog.Logger
	listings        ListingProvider
	places          PlaceProvider
	cache           cache.Cache
	picturesRes     pictures.Resolver
	cacheTTL        time.Duration
	crimeWindowDays int
	now             func() time.Time
}

func New(log *slog.Logger, listings ListingProvider, places PlaceProvider, c cache.Cache, res pictures.Resolver, cacheTTL time.Duration, crimeWindowDays int) *Service {
	return &Service{
		log:             log,
		listings:        listings,
		places:          places,
		cache:           c,
		picturesRes:     res,
		cacheTTL:        cacheTTL,
		crimeWindowDays: crimeWindowDays,
		now:             time.Now,
	}
}

// ReviewInfo — агрегат отзывов с разбивкой. nil, если отзывов нет.
type ReviewInfo struct {
	NumberOfReviews int32
	Rating          *float64
	Components      domain.ReviewComponents
}

// ListingInsights — read model карточки объявления: атрибуты, удобства,
// отзывы, криминальная сводка и ближайшие места одним ответом.
type ListingInsights struct {
	Listing      domain.Listing
	Amenities    domain.AmenityFlags
	Reviews      *ReviewInfo
	CrimeStats   domain.CrimeStats
	NearbyPlaces []domain.NearbyPlace
}

// GetListingInsights — карточка объявления. Кэш — только ускоритель:
// промах или сбой кэша прозрачно уходят в хранилище, наполнение
// fire-and-forget, корректность от кэша не зависит.
func (s *Service) GetListingInsights(ctx context.Context, listingID int64) (*ListingInsights, error) {
	const op = "insights.Service.GetListingInsights"

	cacheKey := fmt.Sprintf("insights:%d", listingID)
	if data, ok := s.cache.Get(ctx, cacheKey); ok {
		var cached ListingInsights
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
		s.log.Debug("corrupt cache entry, refetching", slog.String("key", cacheKey))
	}

	listing, err := s.listings.GetByID(ctx, listingID)
	if err != nil {
		if errors.Is(err, repository.ErrListingNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrListingNotFound)
		}
		s.log.Error("failed to get listing", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	listing.PictureURL = s.picturesRes.Resolve(ctx, listing.PictureURL)

	amenities, err := s.listings.GetAmenities(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	summary, components, err := s.listings.GetReviewBreakdown(ctx, listingID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	var reviews *ReviewInfo
	if summary != nil {
		reviews = &ReviewInfo{
			NumberOfReviews: summary.NumberOfReviews,
			Rating:          summary.Rating,
		}
		if components != nil {
			reviews.Components = *components
		}
	}

	result := &ListingInsights{
		Listing:   listing,
		Amenities: amenities,
		Reviews:   reviews,
	}

	// Гео-секции считаются только при валидной точке (fail closed).
	if listing.Point.Valid() {
		since := s.now().AddDate(0, 0, -s.crimeWindowDays)
		crimeStats, err := s.places.CrimeStats(ctx, listing.Point, domain.FitCrimeRadiusM, since)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result.CrimeStats = crimeStats

		nearby, err := s.places.NearbyPlaces(ctx, listing.Point, domain.PlaceMicroRadiusM, maxNearbyPlaces)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result.NearbyPlaces = nearby
	}

	if data, err := json.Marshal(result); err == nil {
		go s.cache.Set(context.WithoutCancel(ctx), cacheKey, data, s.cacheTTL)
	}

	return result, nil
}
