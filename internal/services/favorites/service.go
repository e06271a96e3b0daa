package favorites

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"roomscout/internal/domain"
	"roomscout/internal/lib/logger/sl"
)

var ErrListingNotFound = errors.New("listing not found")

// ToggleOutcome — результат переключения избранного.
type ToggleOutcome string

const (
	OutcomeAdded   ToggleOutcome = "added"
	OutcomeRemoved ToggleOutcome = "removed"
)

// FavoriteStore — хранилище пар (пользователь, объявление).
type FavoriteStore interface {
	Add(ctx context.Context, userID string, listingID int64) (bool, error)
	Remove(ctx context.Context, userID string, listingID int64) (bool, error)
	List(ctx context.Context, userID string) ([]domain.ListingSummary, error)
}

// ListingChecker — проверка существования объявления.
type ListingChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type Service struct {
	log       *slog.Logger
	favorites FavoriteStore
	listings  ListingChecker
}

func New(log *slog.Logger, favorites FavoriteStore, listings ListingChecker) *Service {
	return &Service{log: log, favorites: favorites, listings: listings}
}

// Toggle — добавляет объявление в избранное либо убирает, если оно там уже
// есть. При гонке двух одинаковых запросов идемпотентная вставка схлопывает
// их в remove-путь.
func (s *Service) Toggle(ctx context.Context, userID string, listingID int64) (ToggleOutcome, error) {
	const op = "favorites.Service.Toggle"
	log := s.log.With(slog.String("op", op), slog.String("user_id", userID), slog.Int64("listing_id", listingID))

	exists, err := s.listings.Exists(ctx, listingID)
	if err != nil {
		log.Error("failed to check listing", sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return "", fmt.Errorf("%s: %w", op, ErrListingNotFound)
	}

	added, err := s.favorites.Add(ctx, userID, listingID)
	if err != nil {
		log.Error("failed to add favorite", sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if added {
		return OutcomeAdded, nil
	}

	if _, err := s.favorites.Remove(ctx, userID, listingID); err != nil {
		log.Error("failed to remove favorite", sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return OutcomeRemoved, nil
}

// Remove — явное удаление из избранного. false, если пары не было.
func (s *Service) Remove(ctx context.Context, userID string, listingID int64) (bool, error) {
	const op = "favorites.Service.Remove"

	removed, err := s.favorites.Remove(ctx, userID, listingID)
	if err != nil {
		s.log.Error("failed to remove favorite", slog.String("op", op), sl.Err(err))
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return removed, nil
}

// List — избранные объявления пользователя, свежесохранённые первыми.
func (s *Service) List(ctx context.Context, userID string) ([]domain.ListingSummary, error) {
	const op = "favorites.Service.List"

	items, err := s.favorites.List(ctx, userID)
	if err != nil {
		s.log.Error("failed to list favorites", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}
