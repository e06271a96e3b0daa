package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrListingNotFound   = errors.New("listing not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrNoFieldsToUpdate  = errors.New("no fields to update")
	ErrUnknownPreference = errors.New("unknown preference value")
	ErrAlreadyExists     = errors.New("already exists")
)

// IsUniqueViolation проверяет, что ошибка — нарушение уникального ограничения.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
