package place_repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"roomscout/internal/domain"
)

type PlaceRepository struct {
	db  *pgxpool.Pool
	log *slog.Logger
}

func NewPlaceRepository(db *pgxpool.Pool, log *slog.Logger) *PlaceRepository {
	return &PlaceRepository{db: db, log: log}
}

// NearbyPlaces — точки интереса всех категорий в радиусе от точки,
// ближайшие первыми, не больше limit.
func (r *PlaceRepository) NearbyPlaces(ctx context.Context, anchor domain.Point, radiusM float64, limit int) ([]domain.NearbyPlace, error) {
	const op = "PlaceRepository.NearbyPlaces"

	var (
		unions []string
		args   = []any{anchor.Longitude, anchor.Latitude, radiusM}
		argNum = 4
	)
	// Категории объединяются UNION ALL по всем таблицам маппинга.
	// Идентификаторы таблиц/колонок проверены при старте процесса.
	for _, name := range sortedCategoryNames() {
		target, _ := domain.ResolvePlaceCategory(name)
		unions = append(unions, fmt.Sprintf(
			"SELECT $%d::text AS category, name, latitude, longitude FROM %s WHERE %s = $%d",
			argNum, target.Table, target.Column, argNum+1))
		args = append(args, name, target.Value)
		argNum += 2
	}

	query := fmt.Sprintf(`
		SELECT category, name, latitude, longitude,
			ST_Distance(
				ST_SetSRID(ST_MakePoint(longitude, latitude), 4326)::geography,
				ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography
			) AS distance_m
		FROM (%s) p
		WHERE ST_DWithin(
			ST_SetSRID(ST_MakePoint(longitude, latitude), 4326)::geography,
			ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3)
		ORDER BY distance_m ASC
		LIMIT $%d
	`, strings.Join(unions, " UNION ALL "), argNum)
	args = append(args, limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var places []domain.NearbyPlace
	for rows.Next() {
		var p domain.NearbyPlace
		if err := rows.Scan(&p.Category, &p.Name, &p.Point.Latitude, &p.Point.Longitude, &p.DistanceM); err != nil {
			return nil, fmt.Errorf("%s: scan failed: %w", op, err)
		}
		places = append(places, p)
	}

	return places, rows.Err()
}

// CrimeStats — количество и самая частая категория преступлений в радиусе
// от точки за скользящее окно. Отдельные события не возвращаются.
func (r *PlaceRepository) CrimeStats(ctx context.Context, anchor domain.Point, radiusM float64, since time.Time) (domain.CrimeStats, error) {
	const op = "PlaceRepository.CrimeStats"

	stats := domain.CrimeStats{RadiusM: radiusM, Since: since}

	countQuery := `
		SELECT COUNT(*)
		FROM crime c
		WHERE c.occurred_on >= $1
			AND ST_DWithin(
				ST_SetSRID(ST_MakePoint(c.longitude, c.latitude), 4326)::geography,
				ST_SetSRID(ST_MakePoint($2, $3), 4326)::geography, $4)
	`
	if err := r.db.QueryRow(ctx, countQuery, since, anchor.Longitude, anchor.Latitude, radiusM).Scan(&stats.Total); err != nil {
		return domain.CrimeStats{}, fmt.Errorf("%s: count failed: %w", op, err)
	}

	if stats.Total == 0 {
		return stats, nil
	}

	topQuery := `
		SELECT c.offense_category
		FROM crime c
		WHERE c.occurred_on >= $1
			AND ST_DWithin(
				ST_SetSRID(ST_MakePoint(c.longitude, c.latitude), 4326)::geography,
				ST_SetSRID(ST_MakePoint($2, $3), 4326)::geography, $4)
		GROUP BY c.offense_category
		ORDER BY COUNT(*) DESC, c.offense_category ASC
		LIMIT 1
	`
	var top string
	err := r.db.QueryRow(ctx, topQuery, since, anchor.Longitude, anchor.Latitude, radiusM).Scan(&top)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return domain.CrimeStats{}, fmt.Errorf("%s: top category failed: %w", op, err)
	}
	if err == nil {
		stats.TopCategory = &top
	}

	return stats, nil
}

// CrimeCount — только количество событий, для fit score.
func (r *PlaceRepository) CrimeCount(ctx context.Context, anchor domain.Point, radiusM float64, since time.Time) (int64, error) {
	const op = "PlaceRepository.CrimeCount"

	query := `
		SELECT COUNT(*)
		FROM crime c
		WHERE c.occurred_on >= $1
			AND ST_DWithin(
				ST_SetSRID(ST_MakePoint(c.longitude, c.latitude), 4326)::geography,
				ST_SetSRID(ST_MakePoint($2, $3), 4326)::geography, $4)
	`
	var count int64
	if err := r.db.QueryRow(ctx, query, since, anchor.Longitude, anchor.Latitude, radiusM).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// sortedCategoryNames — имена категорий в стабильном порядке,
// чтобы текст запроса не менялся от порядка обхода map.
func sortedCategoryNames() []string {
	names := make([]string, 0, len(domain.PlaceCategories))
	for name := range domain.PlaceCategories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
