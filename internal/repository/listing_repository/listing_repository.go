package listing_repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"roomscout/internal/domain"
	"roomscout/internal/repository"
)

type ListingRepository struct {
	db  *pgxpool.Pool
	log *slog.Logger
}

func NewListingRepository(db *pgxpool.Pool, log *slog.Logger) *ListingRepository {
	return &ListingRepository{db: db, log: log}
}

// Search — выполняет поиск объявлений по нормализованным критериям.
// Общее количество считается отдельным запросом по всему eligible-набору,
// окно страницы — вторым запросом с тем же набором предикатов.
func (r *ListingRepository) Search(ctx context.Context, c domain.SearchCriteria) (*domain.PaginatedResult[domain.ListingSummary], error) {
	const op = "ListingRepository.Search"

	q := buildSearchQuery(c)

	var total int32
	if err := r.db.QueryRow(ctx, q.countSQL, q.countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("%s: count failed: %w", op, err)
	}

	items, err := r.queryListings(ctx, q.pageSQL, q.pageArgs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &domain.PaginatedResult[domain.ListingSummary]{
		Items:      items,
		Page:       c.Pager.Page(),
		PageSize:   c.Pager.PageSize(),
		TotalCount: total,
	}, nil
}

// SearchRegionOnly — деградированная выборка по региону без остальных
// предикатов. Используется только fallback-политикой регионального поиска.
func (r *ListingRepository) SearchRegionOnly(ctx context.Context, region string, pager *domain.Pager) (*domain.PaginatedResult[domain.ListingSummary], error) {
	const op = "ListingRepository.SearchRegionOnly"

	countSQL := `
		SELECT COUNT(*)
		FROM airbnb_listings l
		WHERE l.region ILIKE $1
	`
	var total int32
	if err := r.db.QueryRow(ctx, countSQL, region).Scan(&total); err != nil {
		return nil, fmt.Errorf("%s: count failed: %w", op, err)
	}

	pageSQL := `
		SELECT` + listingColumns + `
		FROM airbnb_listings l
		LEFT JOIN airbnb_review_summary rs ON rs.listing_id = l.id
		WHERE l.region ILIKE $1` + searchOrderBy + `
		LIMIT $2 OFFSET $3
	`
	items, err := r.queryListings(ctx, pageSQL, []any{region, pager.Limit(), pager.Offset()})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &domain.PaginatedResult[domain.ListingSummary]{
		Items:      items,
		Page:       pager.Page(),
		PageSize:   pager.PageSize(),
		TotalCount: total,
	}, nil
}

// Recommend — выборка рекомендаций вокруг рабочей локации пользователя.
func (r *ListingRepository) Recommend(ctx context.Context, anchor domain.Point, radiusM float64, roomTypes []domain.RoomType, pager *domain.Pager) (*domain.PaginatedResult[domain.ListingSummary], error) {
	const op = "ListingRepository.Recommend"

	q := buildRecommendQuery(anchor, radiusM, roomTypes, pager)

	var total int32
	if err := r.db.QueryRow(ctx, q.countSQL, q.countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("%s: count failed: %w", op, err)
	}

	items, err := r.queryListings(ctx, q.pageSQL, q.pageArgs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &domain.PaginatedResult[domain.ListingSummary]{
		Items:      items,
		Page:       pager.Page(),
		PageSize:   pager.PageSize(),
		TotalCount: total,
	}, nil
}

func (r *ListingRepository) queryListings(ctx context.Context, sql string, args []any) ([]domain.ListingSummary, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
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
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		item.RoomType = domain.RoomTypeFromDB(roomType)
		items = append(items, item)
	}

	return items, rows.Err()
}

// GetByID — получает объявление по ID вместе с агрегированным рейтингом.
func (r *ListingRepository) GetByID(ctx context.Context, id int64) (domain.Listing, error) {
	const op = "ListingRepository.GetByID"

	query := `
		SELECT
			l.id, l.name, l.description, l.price_per_month, l.room_type,
			l.bedrooms, l.beds, l.latitude, l.longitude, l.region, l.picture_url,
			rs.review_scores_rating
		FROM airbnb_listings l
		LEFT JOIN airbnb_review_summary rs ON rs.listing_id = l.id
		WHERE l.id = $1
	`

	var (
		l        domain.Listing
		roomType string
	)
	err := r.db.QueryRow(ctx, query, id).Scan(
		&l.ID,
		&l.Name,
		&l.Description,
		&l.PricePerMonth,
		&roomType,
		&l.Bedrooms,
		&l.Beds,
		&l.Point.Latitude,
		&l.Point.Longitude,
		&l.Region,
		&l.PictureURL,
		&l.Rating,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Listing{}, fmt.Errorf("%s: %w", op, repository.ErrListingNotFound)
		}
		return domain.Listing{}, fmt.Errorf("%s: %w", op, err)
	}
	l.RoomType = domain.RoomTypeFromDB(roomType)

	return l, nil
}

// Exists проверяет наличие объявления.
func (r *ListingRepository) Exists(ctx context.Context, id int64) (bool, error) {
	const op = "ListingRepository.Exists"

	var exists bool
	err := r.db.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM airbnb_listings WHERE id = $1)", id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// GetAmenities — флаги удобств объявления.
func (r *ListingRepository) GetAmenities(ctx context.Context, listingID int64) (domain.AmenityFlags, error) {
	const op = "ListingRepository.GetAmenities"

	query := `
		SELECT
			listing_id, has_wifi, has_kitchen, has_air_conditioning, has_parking,
			has_washer, has_dryer, has_heating, has_tv
		FROM airbnb_amenities
		WHERE listing_id = $1
	`

	var a domain.AmenityFlags
	err := r.db.QueryRow(ctx, query, listingID).Scan(
		&a.ListingID,
		&a.HasWifi,
		&a.HasKitchen,
		&a.HasAirConditioning,
		&a.HasParking,
		&a.HasWasher,
		&a.HasDryer,
		&a.HasHeating,
		&a.HasTV,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Строки удобств может не быть — считаем все флаги выключенными.
			return domain.AmenityFlags{ListingID: listingID}, nil
		}
		return domain.AmenityFlags{}, fmt.Errorf("%s: %w", op, err)
	}

	return a, nil
}

// GetReviewBreakdown — агрегат отзывов и разбивка по составляющим.
// (nil, nil, nil) означает, что отзывов по объявлению нет.
func (r *ListingRepository) GetReviewBreakdown(ctx context.Context, listingID int64) (*domain.ReviewSummary, *domain.ReviewComponents, error) {
	const op = "ListingRepository.GetReviewBreakdown"

	query := `
		SELECT
			rs.listing_id, rs.number_of_reviews, rs.review_scores_rating,
			rc.review_scores_cleanliness, rc.review_scores_location, rc.review_scores_value
		FROM airbnb_review_summary rs
		LEFT JOIN airbnb_review_components rc ON rc.listing_id = rs.listing_id
		WHERE rs.listing_id = $1
	`

	var (
		summary    domain.ReviewSummary
		components domain.ReviewComponents
	)
	err := r.db.QueryRow(ctx, query, listingID).Scan(
		&summary.ListingID,
		&summary.NumberOfReviews,
		&summary.Rating,
		&components.Cleanliness,
		&components.Location,
		&components.Value,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	return &summary, &components, nil
}

// NearbyWithReviews — объявления с агрегатом отзывов в радиусе от точки.
// Проекция минимальная: цена и рейтинг для расчёта fit score.
func (r *ListingRepository) NearbyWithReviews(ctx context.Context, anchor domain.Point, radiusM float64) ([]domain.RatedListing, error) {
	const op = "ListingRepository.NearbyWithReviews"

	query := `
		SELECT l.id, l.price_per_month, rs.review_scores_rating
		FROM airbnb_listings l
		JOIN airbnb_review_summary rs ON rs.listing_id = l.id
		WHERE rs.number_of_reviews > 0
			AND rs.review_scores_rating IS NOT NULL
			AND ST_DWithin(` + listingGeog + `,
				ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3)
	`

	rows, err := r.db.Query(ctx, query, anchor.Longitude, anchor.Latitude, radiusM)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var items []domain.RatedListing
	for rows.Next() {
		var item domain.RatedListing
		if err := rows.Scan(&item.ID, &item.PricePerMonth, &item.Rating); err != nil {
			return nil, fmt.Errorf("%s: scan failed: %w", op, err)
		}
		items = append(items, item)
	}

	return items, rows.Err()
}
