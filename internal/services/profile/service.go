package profile

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
	ErrUserNotFound      = errors.New("user not found")
	ErrNothingToUpdate   = errors.New("nothing to update")
	ErrUnknownPreference = errors.New("unknown preference value")
)

// ProfileStore — хранилище карточек пользователей и их предпочтений.
type ProfileStore interface {
	CreateOrUpdateUser(ctx context.Context, user domain.User) error
	GetPreferences(ctx context.Context, userID string) (domain.UserPreferences, error)
	UpdatePreferences(ctx context.Context, userID string, update domain.PreferencesUpdate) error
}

type Service struct {
	log   *slog.Logger
	users ProfileStore
}

func New(log *slog.Logger, users ProfileStore) *Service {
	return &Service{log: log, users: users}
}

// EnsureUser — upsert карточки по внешнему идентификатору. Аутентификация
// внешняя, карточка заводится при первом обращении.
func (s *Service) EnsureUser(ctx context.Context, user domain.User) error {
	const op = "profile.Service.EnsureUser"

	if err := s.users.CreateOrUpdateUser(ctx, user); err != nil {
		s.log.Error("failed to upsert user", slog.String("op", op), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetPreferences — профиль предпочтений пользователя.
func (s *Service) GetPreferences(ctx context.Context, userID string) (domain.UserPreferences, error) {
	const op = "profile.Service.GetPreferences"

	prefs, err := s.users.GetPreferences(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.UserPreferences{}, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		s.log.Error("failed to load preferences", slog.String("op", op), sl.Err(err))
		return domain.UserPreferences{}, fmt.Errorf("%s: %w", op, err)
	}
	return prefs, nil
}

// UpdatePreferences — частичное обновление профиля и возврат свежего
// состояния. Неизвестные описания справочников — ErrUnknownPreference.
func (s *Service) UpdatePreferences(ctx context.Context, userID string, update domain.PreferencesUpdate) (domain.UserPreferences, error) {
	const op = "profile.Service.UpdatePreferences"
	log := s.log.With(slog.String("op", op), slog.String("user_id", userID))

	if err := s.users.UpdatePreferences(ctx, userID, update); err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			return domain.UserPreferences{}, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		case errors.Is(err, repository.ErrNoFieldsToUpdate):
			return domain.UserPreferences{}, fmt.Errorf("%s: %w", op, ErrNothingToUpdate)
		case errors.Is(err, repository.ErrUnknownPreference):
			return domain.UserPreferences{}, fmt.Errorf("%s: %w", op, ErrUnknownPreference)
		}
		log.Error("failed to update preferences", sl.Err(err))
		return domain.UserPreferences{}, fmt.Errorf("%s: %w", op, err)
	}

	prefs, err := s.users.GetPreferences(ctx, userID)
	if err != nil {
		return domain.UserPreferences{}, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("preferences updated")
	return prefs, nil
}
