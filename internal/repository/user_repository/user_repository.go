package user_repository

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

type UserRepository struct {
	db  *pgxpool.Pool
	log *slog.Logger
}

func NewUserRepository(db *pgxpool.Pool, log *slog.Logger) *UserRepository {
	return &UserRepository{db: db, log: log}
}

// lookupTables — справочники lifestyle-предпочтений: поле → (таблица, id-колонка).
// Описания приходят текстом и резолвятся в id перед записью.
var lookupTables = map[string][2]string{
	"roommate_status":     {"roommate_status", "roommate_status_id"},
	"sleep_time":          {"sleep_time", "sleep_time_id"},
	"wake_time":           {"wake_time", "wake_time_id"},
	"cleanliness":         {"cleanliness", "cleanliness_id"},
	"noise_tolerance":     {"noise_tolerance", "noise_tolerance_id"},
	"guest_frequency":     {"guest_frequency", "guest_frequency_id"},
	"smoking_preference":  {"smoking_preference", "smoking_preference_id"},
	"drinking_preference": {"drinking_preference", "drinking_preference_id"},
	"pet_preference":      {"pet_preference", "pet_preference_id"},
}

// CreateOrUpdateUser — upsert карточки пользователя по внешнему идентификатору.
func (r *UserRepository) CreateOrUpdateUser(ctx context.Context, user domain.User) error {
	const op = "UserRepository.CreateOrUpdateUser"

	query := `
		INSERT INTO users (user_id, first_name, last_name, email, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			email = EXCLUDED.email
	`
	if _, err := r.db.Exec(ctx, query, user.ID, user.FirstName, user.LastName, user.Email); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetPreferences — профиль предпочтений с текстовыми описаниями из справочников.
func (r *UserRepository) GetPreferences(ctx context.Context, userID string) (domain.UserPreferences, error) {
	const op = "UserRepository.GetPreferences"

	query := `
		SELECT
			u.user_id, u.min_budget, u.max_budget, u.work_zip_code,
			u.work_latitude, u.work_longitude,
			rs.description, st.description, wt.description,
			cl.description, nt.description, gf.description,
			sp.description, dp.description, pp.description
		FROM users u
		LEFT JOIN roommate_status rs ON u.roommate_status_id = rs.roommate_status_id
		LEFT JOIN sleep_time st ON u.sleep_time_id = st.sleep_time_id
		LEFT JOIN wake_time wt ON u.wake_time_id = wt.wake_time_id
		LEFT JOIN cleanliness cl ON u.cleanliness_id = cl.cleanliness_id
		LEFT JOIN noise_tolerance nt ON u.noise_tolerance_id = nt.noise_tolerance_id
		LEFT JOIN guest_frequency gf ON u.guest_frequency_id = gf.guest_frequency_id
		LEFT JOIN smoking_preference sp ON u.smoking_preference_id = sp.smoking_preference_id
		LEFT JOIN drinking_preference dp ON u.drinking_preference_id = dp.drinking_preference_id
		LEFT JOIN pet_preference pp ON u.pet_preference_id = pp.pet_preference_id
		WHERE u.user_id = $1
	`

	var (
		p       domain.UserPreferences
		workLat *float64
		workLng *float64
	)
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&p.UserID,
		&p.MinBudget,
		&p.MaxBudget,
		&p.WorkZipCode,
		&workLat,
		&workLng,
		&p.RoommateStatus,
		&p.SleepTime,
		&p.WakeTime,
		&p.Cleanliness,
		&p.NoiseTolerance,
		&p.GuestFrequency,
		&p.SmokingPreference,
		&p.DrinkingPreference,
		&p.PetPreference,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.UserPreferences{}, fmt.Errorf("%s: %w", op, repository.ErrUserNotFound)
		}
		return domain.UserPreferences{}, fmt.Errorf("%s: %w", op, err)
	}

	if workLat != nil && workLng != nil {
		p.WorkPoint = &domain.Point{Latitude: *workLat, Longitude: *workLng}
	}

	return p, nil
}

// UpdatePreferences — частичное обновление профиля. Описания справочных
// полей резолвятся в id; неизвестное описание — ErrUnknownPreference.
func (r *UserRepository) UpdatePreferences(ctx context.Context, userID string, update domain.PreferencesUpdate) error {
	const op = "UserRepository.UpdatePreferences"

	setClauses := []string{}
	params := []interface{}{}
	paramCount := 1

	addSet := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, paramCount))
		params = append(params, value)
		paramCount++
	}

	if update.MinBudget != nil {
		addSet("min_budget", *update.MinBudget)
	}
	if update.MaxBudget != nil {
		addSet("max_budget", *update.MaxBudget)
	}
	if update.WorkZipCode != nil {
		addSet("work_zip_code", *update.WorkZipCode)
	}
	if update.WorkLatitude != nil {
		addSet("work_latitude", *update.WorkLatitude)
	}
	if update.WorkLongitude != nil {
		addSet("work_longitude", *update.WorkLongitude)
	}

	lookups := map[string]*string{
		"roommate_status":     update.RoommateStatus,
		"sleep_time":          update.SleepTime,
		"wake_time":           update.WakeTime,
		"cleanliness":         update.Cleanliness,
		"noise_tolerance":     update.NoiseTolerance,
		"guest_frequency":     update.GuestFrequency,
		"smoking_preference":  update.SmokingPreference,
		"drinking_preference": update.DrinkingPreference,
		"pet_preference":      update.PetPreference,
	}
	for _, field := range lookupFieldOrder {
		value := lookups[field]
		if value == nil {
			continue
		}
		id, err := r.resolveLookup(ctx, field, *value)
		if err != nil {
			return fmt.Errorf("%s: %s: %w", op, field, err)
		}
		addSet(lookupTables[field][1], id)
	}

	if len(setClauses) == 0 {
		return fmt.Errorf("%s: %w", op, repository.ErrNoFieldsToUpdate)
	}

	query := "UPDATE users SET "
	for i, clause := range setClauses {
		if i > 0 {
			query += ", "
		}
		query += clause
	}
	query += fmt.Sprintf(" WHERE user_id = $%d", paramCount)
	params = append(params, userID)

	tag, err := r.db.Exec(ctx, query, params...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, repository.ErrUserNotFound)
	}

	return nil
}

// lookupFieldOrder — стабильный порядок резолва справочников.
var lookupFieldOrder = []string{
	"roommate_status", "sleep_time", "wake_time", "cleanliness",
	"noise_tolerance", "guest_frequency", "smoking_preference",
	"drinking_preference", "pet_preference",
}

// resolveLookup — id записи справочника по текстовому описанию.
func (r *UserRepository) resolveLookup(ctx context.Context, field, description string) (int32, error) {
	table := lookupTables[field]

	query := fmt.Sprintf("SELECT %s FROM %s WHERE description = $1", table[1], table[0])

	var id int32
	err := r.db.QueryRow(ctx, query, description).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, fmt.Errorf("%q: %w", description, repository.ErrUnknownPreference)
		}
		return 0, err
	}
	return id, nil
}
