package roommate_repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"roomscout/internal/domain"
	"roomscout/internal/repository"
)

type RoommateRepository struct {
	db  *pgxpool.Pool
	log *slog.Logger
}

func NewRoommateRepository(db *pgxpool.Pool, log *slog.Logger) *RoommateRepository {
	return &RoommateRepository{db: db, log: log}
}

// OptIn — отклик на соседство. false, если пользователь уже откликался:
// конкурентные дубли гасятся уникальным ограничением, а не проверкой перед
// вставкой.
func (r *RoommateRepository) OptIn(ctx context.Context, userID string, listingID int64) (bool, error) {
	const op = "RoommateRepository.OptIn"

	query := `
		INSERT INTO listing_roommate_opt_ins (user_id, listing_id, opted_in_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, listing_id) DO NOTHING
	`
	tag, err := r.db.Exec(ctx, query, userID, listingID)
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return false, nil
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return tag.RowsAffected() > 0, nil
}

// OptOut — отзыв отклика. false, если отклика не было.
func (r *RoommateRepository) OptOut(ctx context.Context, userID string, listingID int64) (bool, error) {
	const op = "RoommateRepository.OptOut"

	query := `DELETE FROM listing_roommate_opt_ins WHERE user_id = $1 AND listing_id = $2`

	tag, err := r.db.Exec(ctx, query, userID, listingID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return tag.RowsAffected() > 0, nil
}

// IsOptedIn — откликался ли пользователь на объявление.
func (r *RoommateRepository) IsOptedIn(ctx context.Context, userID string, listingID int64) (bool, error) {
	const op = "RoommateRepository.IsOptedIn"

	var optedIn bool
	err := r.db.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM listing_roommate_opt_ins WHERE user_id = $1 AND listing_id = $2)",
		userID, listingID).Scan(&optedIn)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return optedIn, nil
}

// ListByListing — все откликнувшиеся пользователи по объявлению.
func (r *RoommateRepository) ListByListing(ctx context.Context, listingID int64) ([]domain.Roommate, error) {
	const op = "RoommateRepository.ListByListing"

	query := `
		SELECT u.user_id, u.first_name, u.last_name, u.email
		FROM listing_roommate_opt_ins ro
		JOIN users u ON ro.user_id = u.user_id
		WHERE ro.listing_id = $1
		ORDER BY ro.opted_in_at ASC
	`

	rows, err := r.db.Query(ctx, query, listingID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var roommates []domain.Roommate
	for rows.Next() {
		var rm domain.Roommate
		if err := rows.Scan(&rm.UserID, &rm.FirstName, &rm.LastName, &rm.Email); err != nil {
			return nil, fmt.Errorf("%s: scan failed: %w", op, err)
		}
		roommates = append(roommates, rm)
	}

	return roommates, rows.Err()
}
