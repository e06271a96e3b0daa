package recommend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"roomscout/internal/domain"
	"roomscout/internal/lib/logger/sl"
	"roomscout/internal/repository"
)

var ErrUserNotFound = errors.New("user not found")

// ProfileIncompleteError — профиль недостаточен для рекомендаций.
// Перечисляет поля, которые нужно заполнить.
type ProfileIncompleteError struct {
	MissingFields []string
}

func (e *ProfileIncompleteError) Error() string {
	return "profile incomplete: missing " + strings.Join(e.MissingFields, ", ")
}

// Recommender — выборка кандидатов вокруг якорной точки.
type Recommender interface {
	Recommend(ctx context.Context, anchor domain.Point, radiusM float64, roomTypes []domain.RoomType, pager *domain.Pager) (*domain.PaginatedResult[domain.ListingSummary], error)
}

// ProfileProvider — профиль предпочтений пользователя.
type ProfileProvider interface {
	GetPreferences(ctx context.Context, userID string) (domain.UserPreferences, error)
}

type Service struct {
	log      *slog.Logger
	listings Recommender
	profiles ProfileProvider
	radiusM  float64
}

func New(log *slog.Logger, listings Recommender, profiles ProfileProvider) *Service {
	return &Service{
		log:      log,
		listings: listings,
		profiles: profiles,
		radiusM:  domain.DefaultSearchRadiusM,
	}
}

// requiredFields — минимум профиля, без которого рекомендации не считаются:
// бюджетная вилка и рабочая локация.
func requiredFields(p domain.UserPreferences) []string {
	var missing []string
	if p.MinBudget == nil {
		missing = append(missing, "min_budget")
	}
	if p.MaxBudget == nil {
		missing = append(missing, "max_budget")
	}
	if p.WorkPoint == nil || !p.WorkPoint.Valid() {
		missing = append(missing, "work_location")
	}
	return missing
}

// GetRecommendations — персональная выдача вокруг рабочей локации.
// Тип размещения выводится из статуса соседства; неполный профиль
// возвращается как ProfileIncompleteError со списком недостающих полей.
func (s *Service) GetRecommendations(ctx context.Context, userID string, pager *domain.Pager) (*domain.PaginatedResult[domain.ListingSummary], error) {
	const op = "recommend.Service.GetRecommendations"
	log := s.log.With(slog.String("op", op), slog.String("user_id", userID))

	prefs, err := s.profiles.GetPreferences(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		log.Error("failed to load preferences", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if missing := requiredFields(prefs); len(missing) > 0 {
		return nil, fmt.Errorf("%s: %w", op, &ProfileIncompleteError{MissingFields: missing})
	}

	roomTypes := prefs.AllowedRoomTypes()

	page, err := s.listings.Recommend(ctx, *prefs.WorkPoint, s.radiusM, roomTypes, pager)
	if err != nil {
		log.Error("recommendation query failed", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return page, nil
}
