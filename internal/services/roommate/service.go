package roommate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"roomscout/internal/domain"
	"roomscout/internal/lib/logger/sl"
	"roomscout/internal/repository"
)

var (
	ErrListingNotFound = errors.New("listing not found")
	ErrUserNotFound    = errors.New("user not found")
	ErrAlreadyOptedIn  = errors.New("already opted in")
	ErrNotOptedIn      = errors.New("not opted in")
)

// OptInStore — хранилище откликов на соседство.
type OptInStore interface {
	OptIn(ctx context.Context, userID string, listingID int64) (bool, error)
	OptOut(ctx context.Context, userID string, listingID int64) (bool, error)
	IsOptedIn(ctx context.Context, userID string, listingID int64) (bool, error)
	ListByListing(ctx context.Context, listingID int64) ([]domain.Roommate, error)
}

// ListingChecker — проверка существования объявления.
type ListingChecker interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// ProfileProvider — профиль предпочтений для проверки полноты.
type ProfileProvider interface {
	GetPreferences(ctx context.Context, userID string) (domain.UserPreferences, error)
}

type Service struct {
	log      *slog.Logger
	optIns   OptInStore
	listings ListingChecker
	profiles ProfileProvider
}

func New(log *slog.Logger, optIns OptInStore, listings ListingChecker, profiles ProfileProvider) *Service {
	return &Service{log: log, optIns: optIns, listings: listings, profiles: profiles}
}

// OptIn — отклик пользователя на соседство по объявлению. Повторный отклик
// возвращается как ErrAlreadyOptedIn, а не как успех: клиенту важно отличать
// новое состояние от уже существовавшего.
func (s *Service) OptIn(ctx context.Context, userID string, listingID int64) error {
	const op = "roommate.Service.OptIn"
	log := s.log.With(slog.String("op", op), slog.String("user_id", userID), slog.Int64("listing_id", listingID))

	if err := s.ensureListing(ctx, listingID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	created, err := s.optIns.OptIn(ctx, userID, listingID)
	if err != nil {
		log.Error("failed to opt in", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	if !created {
		return fmt.Errorf("%s: %w", op, ErrAlreadyOptedIn)
	}

	log.Info("user opted in")
	return nil
}

// OptOut — отзыв отклика. Отсутствующий отклик — ErrNotOptedIn.
func (s *Service) OptOut(ctx context.Context, userID string, listingID int64) error {
	const op = "roommate.Service.OptOut"
	log := s.log.With(slog.String("op", op), slog.String("user_id", userID), slog.Int64("listing_id", listingID))

	if err := s.ensureListing(ctx, listingID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	removed, err := s.optIns.OptOut(ctx, userID, listingID)
	if err != nil {
		log.Error("failed to opt out", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	if !removed {
		return fmt.Errorf("%s: %w", op, ErrNotOptedIn)
	}

	log.Info("user opted out")
	return nil
}

// Status — откликался ли пользователь на объявление.
func (s *Service) Status(ctx context.Context, userID string, listingID int64) (bool, error) {
	const op = "roommate.Service.Status"

	if err := s.ensureListing(ctx, listingID); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	optedIn, err := s.optIns.IsOptedIn(ctx, userID, listingID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return optedIn, nil
}

// ListRoommates — все откликнувшиеся по объявлению, в порядке откликов.
func (s *Service) ListRoommates(ctx context.Context, listingID int64) ([]domain.Roommate, error) {
	const op = "roommate.Service.ListRoommates"

	if err := s.ensureListing(ctx, listingID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	roommates, err := s.optIns.ListByListing(ctx, listingID)
	if err != nil {
		s.log.Error("failed to list roommates", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return roommates, nil
}

// CheckPreferences — полон ли профиль пользователя для соседства.
// Возвращает список незаполненных полей; пустой список — профиль полон.
func (s *Service) CheckPreferences(ctx context.Context, userID string) ([]string, error) {
	const op = "roommate.Service.CheckPreferences"

	prefs, err := s.profiles.GetPreferences(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return prefs.IncompleteFields(), nil
}

func (s *Service) ensureListing(ctx context.Context, listingID int64) error {
	exists, err := s.listings.Exists(ctx, listingID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrListingNotFound
	}
	return nil
}
