package fitscore

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomscout/internal/domain"
	"roomscout/internal/repository"
)

// MockListingProvider — мок выборки объявлений вокруг точки.
type MockListingProvider struct {
	NearbyWithReviewsFunc func(ctx context.Context, anchor domain.Point, radiusM float64) ([]domain.RatedListing, error)
}

func (m *MockListingProvider) NearbyWithReviews(ctx context.Context, anchor domain.Point, radiusM float64) ([]domain.RatedListing, error) {
	return m.NearbyWithReviewsFunc(ctx, anchor, radiusM)
}

// MockCrimeProvider — мок подсчёта преступлений.
type MockCrimeProvider struct {
	CrimeCountFunc func(ctx context.Context, anchor domain.Point, radiusM float64, since time.Time) (int64, error)
}

func (m *MockCrimeProvider) CrimeCount(ctx context.Context, anchor domain.Point, radiusM float64, since time.Time) (int64, error) {
	return m.CrimeCountFunc(ctx, anchor, radiusM, since)
}

// MockProfileProvider — мок профиля предпочтений.
type MockProfileProvider struct {
	GetPreferencesFunc func(ctx context.Context, userID string) (domain.UserPreferences, error)
}

func (m *MockProfileProvider) GetPreferences(ctx context.Context, userID string) (domain.UserPreferences, error) {
	return m.GetPreferencesFunc(ctx, userID)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func anchorPoint() domain.Point {
	return domain.Point{Latitude: 39.7392, Longitude: -104.9903}
}

func TestScoreArea_HappyPath(t *testing.T) {
	listings := &MockListingProvider{
		NearbyWithReviewsFunc: func(ctx context.Context, anchor domain.Point, radiusM float64) ([]domain.RatedListing, error) {
			assert.Equal(t, float64(domain.FitListingsRadiusM), radiusM)
			return []domain.RatedListing{
				{ID: 1, PricePerMonth: 1000, Rating: 5},
				{ID: 2, PricePerMonth: 2000, Rating: 4},
			}, nil
		},
	}
	crimes := &MockCrimeProvider{
		CrimeCountFunc: func(ctx context.Context, anchor domain.Point, radiusM float64, since time.Time) (int64, error) {
			assert.Equal(t, float64(domain.FitCrimeRadiusM), radiusM)
			return 0, nil
		},
	}
	profiles := &MockProfileProvider{
		GetPreferencesFunc: func(ctx context.Context, userID string) (domain.UserPreferences, error) {
			min, max := 500.0, 3000.0
			return domain.UserPreferences{UserID: userID, MinBudget: &min, MaxBudget: &max}, nil
		},
	}

	svc := New(testLogger(), listings, crimes, profiles, 365)

	score, err := svc.ScoreArea(context.Background(), anchorPoint(), "user-1")
	require.NoError(t, err)

	// Обе цены в вилке: price=1.0; рейтинги (5/5 + 4/5)/2 = 0.9; crime=1.0.
	assert.Equal(t, 1.0, score.PriceScore)
	assert.InDelta(t, 0.9, score.ReviewScore, 1e-9)
	assert.Equal(t, 1.0, score.CrimeScore)
	assert.Equal(t, 2, score.SampledListings)
	assert.Equal(t, int64(0), score.CrimeCount)
	assert.Equal(t, "Great", score.Label)
}

func TestScoreArea_EmptyNeighborhood(t *testing.T) {
	listings := &MockListingProvider{
		NearbyWithReviewsFunc: func(ctx context.Context, anchor domain.Point, radiusM float64) ([]domain.RatedListing, error) {
			return nil, nil
		},
	}
	crimes := &MockCrimeProvider{
		CrimeCountFunc: func(ctx context.Context, anchor domain.Point, radiusM float64, since time.Time) (int64, error) {
			return 100, nil
		},
	}
	profiles := &MockProfileProvider{
		GetPreferencesFunc: func(ctx context.Context, userID string) (domain.UserPreferences, error) {
			return domain.UserPreferences{}, repository.ErrUserNotFound
		},
	}

	svc := New(testLogger(), listings, crimes, profiles, 365)

	// Пустой район — определённый результат, а не ошибка.
	score, err := svc.ScoreArea(context.Background(), anchorPoint(), "ghost")
	require.NoError(t, err)

	assert.Zero(t, score.PriceScore)
	assert.Zero(t, score.ReviewScore)
	assert.Zero(t, score.SampledListings)

	// Композит вырождается во взвешенный crime-подскор: 0.35 * 0.8 = 0.28.
	assert.Equal(t, 0.8, score.CrimeScore)
	assert.Equal(t, 0.28, score.Score)
	assert.Equal(t, "Not ideal", score.Label)
}

func TestScoreArea_DefaultBudgetWithoutUser(t *testing.T) {
	var gotPrefsCall bool
	listings := &MockListingProvider{
		NearbyWithReviewsFunc: func(ctx context.Context, anchor domain.Point, radiusM float64) ([]domain.RatedListing, error) {
			// Цена в дефолтной вилке 500-3000.
			return []domain.RatedListing{{ID: 1, PricePerMonth: 2500, Rating: 5}}, nil
		},
	}
	crimes := &MockCrimeProvider{
		CrimeCountFunc: func(ctx context.Context, anchor domain.Point, radiusM float64, since time.Time) (int64, error) {
			return 0, nil
		},
	}
	profiles := &MockProfileProvider{
		GetPreferencesFunc: func(ctx context.Context, userID string) (domain.UserPreferences, error) {
			gotPrefsCall = true
			return domain.UserPreferences{}, nil
		},
	}

	svc := New(testLogger(), listings, crimes, profiles, 365)

	score, err := svc.ScoreArea(context.Background(), anchorPoint(), "")
	require.NoError(t, err)

	// Без пользователя профиль даже не запрашивается.
	assert.False(t, gotPrefsCall)
	assert.Equal(t, 1.0, score.PriceScore)
}

func TestScoreArea_BudgetBandIncomplete(t *testing.T) {
	listings := &MockListingProvider{
		NearbyWithReviewsFunc: func(ctx context.Context, anchor domain.Point, radiusM float64) ([]domain.RatedListing, error) {
			// 400 ниже дефолтного минимума 500 — подскор 0.8.
			return []domain.RatedListing{{ID: 1, PricePerMonth: 400, Rating: 5}}, nil
		},
	}
	crimes := &MockCrimeProvider{
		CrimeCountFunc: func(ctx context.Context, anchor domain.Point, radiusM float64, since time.Time) (int64, error) {
			return 0, nil
		},
	}
	min := 100.0
	profiles := &MockProfileProvider{
		GetPreferencesFunc: func(ctx context.Context, userID string) (domain.UserPreferences, error) {
			// Только минимум без максимума — вилка неполная, берём дефолт.
			return domain.UserPreferences{UserID: userID, MinBudget: &min}, nil
		},
	}

	svc := New(testLogger(), listings, crimes, profiles, 365)

	score, err := svc.ScoreArea(context.Background(), anchorPoint(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 0.8, score.PriceScore)
}

func TestScoreArea_InvalidAnchor(t *testing.T) {
	svc := New(testLogger(), &MockListingProvider{}, &MockCrimeProvider{}, &MockProfileProvider{}, 365)

	_, err := svc.ScoreArea(context.Background(), domain.Point{}, "user-1")
	assert.Error(t, err)
}

func TestScoreArea_CrimeWindow(t *testing.T) {
	var gotSince time.Time
	listings := &MockListingProvider{
		NearbyWithReviewsFunc: func(ctx context.Context, anchor domain.Point, radiusM float64) ([]domain.RatedListing, error) {
			return nil, nil
		},
	}
	crimes := &MockCrimeProvider{
		CrimeCountFunc: func(ctx context.Context, anchor domain.Point, radiusM float64, since time.Time) (int64, error) {
			gotSince = since
			return 0, nil
		},
	}
	profiles := &MockProfileProvider{
		GetPreferencesFunc: func(ctx context.Context, userID string) (domain.UserPreferences, error) {
			return domain.UserPreferences{}, nil
		},
	}

	svc := New(testLogger(), listings, crimes, profiles, 30)
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	_, err := svc.ScoreArea(context.Background(), anchorPoint(), "")
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, -30), gotSince)
}

func TestScoreArea_ListingErrorPropagates(t *testing.T) {
	boom := errors.New("db down")
	listings := &MockListingProvider{
		NearbyWithReviewsFunc: func(ctx context.Context, anchor domain.Point, radiusM float64) ([]domain.RatedListing, error) {
			return nil, boom
		},
	}
	svc := New(testLogger(), listings, &MockCrimeProvider{}, &MockProfileProvider{}, 365)

	_, err := svc.ScoreArea(context.Background(), anchorPoint(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}
