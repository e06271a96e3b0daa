package fitscore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"roomscout/internal/domain"
	"roomscout/internal/lib/logger/sl"
	"roomscout/internal/repository"
)

// ListingProvider — объявления с отзывами вокруг якорной точки.
type ListingProvider interface {
	NearbyWithReviews(ctx context.Context, anchor domain.Point, radiusM float64) ([]domain.RatedListing, error)
}

// CrimeProvider — количество преступлений вокруг точки за окно.
type CrimeProvider interface {
	CrimeCount(ctx context.Context, anchor domain.Point, radiusM float64, since time.Time) (int64, error)
}

// ProfileProvider — профиль предпочтений для бюджетной вилки.
type ProfileProvider interface {
	GetPreferences(ctx context.Context, userID string) (domain.UserPreferences, error)
}

type Service struct {
	log             *slog.Logger
	listings        ListingProvider
	crimes          CrimeProvider
	profiles        ProfileProvider
	weights         domain.FitWeights
	crimeWindowDays int
	now             func() time.Time
}

func New(log *slog.Logger, listings ListingProvider, crimes CrimeProvider, profiles ProfileProvider, crimeWindowDays int) *Service {
	return &Service{
		log:             log,
		listings:        listings,
		crimes:          crimes,
		profiles:        profiles,
		weights:         domain.DefaultFitWeights(),
		crimeWindowDays: crimeWindowDays,
		now:             time.Now,
	}
}

// ScoreArea — fit score района вокруг якорной точки для пользователя.
// Пустой userID или отсутствующий профиль означают бюджетную вилку по
// умолчанию; ошибкой это не является.
func (s *Service) ScoreArea(ctx context.Context, anchor domain.Point, userID string) (domain.FitScore, error) {
	const op = "fitscore.Service.ScoreArea"

	if !anchor.Valid() {
		return domain.FitScore{}, fmt.Errorf("%s: invalid anchor point", op)
	}

	minBudget, maxBudget := s.budgetBand(ctx, userID)

	nearby, err := s.listings.NearbyWithReviews(ctx, anchor, domain.FitListingsRadiusM)
	if err != nil {
		s.log.Error("failed to gather nearby listings", sl.Err(err))
		return domain.FitScore{}, fmt.Errorf("%s: %w", op, err)
	}

	since := s.now().AddDate(0, 0, -s.crimeWindowDays)
	crimeCount, err := s.crimes.CrimeCount(ctx, anchor, domain.FitCrimeRadiusM, since)
	if err != nil {
		s.log.Error("failed to count nearby crime", sl.Err(err))
		return domain.FitScore{}, fmt.Errorf("%s: %w", op, err)
	}

	// Пустой район: price/review подскоры определены как 0, композит
	// вырождается в взвешенный crime-подскор. SampledListings == 0
	// позволяет вызывающему отличить "плохой район" от "нет данных".
	var priceScore, reviewScore float64
	if len(nearby) > 0 {
		var priceSum, reviewSum float64
		for _, l := range nearby {
			priceSum += domain.PriceFitScore(l.PricePerMonth, minBudget, maxBudget)
			reviewSum += l.Rating / 5
		}
		priceScore = priceSum / float64(len(nearby))
		reviewScore = reviewSum / float64(len(nearby))
	}

	crimeScore := domain.CrimeScore(crimeCount)
	composite := domain.CompositeFitScore(s.weights, priceScore, crimeScore, reviewScore)

	return domain.FitScore{
		Score:           composite,
		Label:           domain.FitLabel(composite),
		PriceScore:      priceScore,
		ReviewScore:     reviewScore,
		CrimeScore:      crimeScore,
		SampledListings: len(nearby),
		CrimeCount:      crimeCount,
	}, nil
}

// budgetBand — бюджетная вилка пользователя либо значения по умолчанию.
func (s *Service) budgetBand(ctx context.Context, userID string) (float64, float64) {
	if userID == "" {
		return domain.DefaultMinBudget, domain.DefaultMaxBudget
	}

	prefs, err := s.profiles.GetPreferences(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrUserNotFound) {
			s.log.Warn("failed to load preferences, using default budget",
				slog.String("user_id", userID), sl.Err(err))
		}
		return domain.DefaultMinBudget, domain.DefaultMaxBudget
	}
	if !prefs.HasBudgetBand() {
		return domain.DefaultMinBudget, domain.DefaultMaxBudget
	}

	return *prefs.MinBudget, *prefs.MaxBudget
}
