package favorite_repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"roomscout/internal/domain"
)

type FavoriteRepository struct {
	db  *pgxpool.Pool
	log *slog.Logger
}

func NewFavoriteRepository(db *pgxpool.Pool, log *slog.Logger) *FavoriteRepository {
	return &FavoriteRepository{db: db, log: log}
}

// Add — идемпотентное добавление в избранное. false, если пара уже была.
func (r *FavoriteRepository) Add(ctx context.Context, userID string, listingID int64) (bool, error) {
	const op = "FavoriteRepository.Add"

	query := `
		INSERT INTO user_favorites (user_id, listing_id, saved_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, listing_id) DO NOTHING
	`
	tag, err := r.db.Exec(ctx, query, userID, listingID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return tag.RowsAffected() > 0, nil
}

// Remove — идемпотентное удаление из избранного. false, если пары не было.
func (r *FavoriteRepository) Remove(ctx context.Context, userID string, listingID int64) (bool, error) {
	const op = "FavoriteRepository.Remove"

	query := `DELETE FROM user_favorites WHERE user_id = $1 AND listing_id = $2`

	tag, err := r.db.Exec(ctx, query, userID, listingID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return tag.RowsAffected() > 0, nil
}

// List — избранные объявления пользователя, свежесохранённые первыми.
func (r *FavoriteRepository) List(ctx context.Context, userID string) ([]domain.ListingSummary, error) {
	const op = "FavoriteRepository.List"

	query := `
		SELECT
			l.id, l.name, l.description, l.price_per_month, l.room_type,
			l.bedrooms, l.beds, l.latitude, l.longitude, l.picture_url,
			rs.review_scores_rating AS rating
		FROM user_favorites uf
		JOIN airbnb_listings l ON uf.listing_id = l.id
		LEFT JOIN airbnb_review_summary rs ON rs.listing_id = l.id
		WHERE uf.user_id = $1
		ORDER BY uf.saved_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var items []domain.ListingSummary
	for rows.Next() {
		var (
			item     domain.ListingSummary
			roomType string
		)
		if err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.Description,
			&item.PricePerMonth,
			&roomType,
			&item.Bedrooms,
			&item.Beds,
			&item.Point.Latitude,
			&item.Point.Longitude,
			&item.PictureURL,
			&item.Rating,
		); err != nil {
			return nil, fmt.Errorf("%s: scan failed: %w", op, err)
		}
		item.RoomType = domain.RoomTypeFromDB(roomType)
		items = append(items, item)
	}

	return items, rows.Err()
}
