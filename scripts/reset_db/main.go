// Скрипт для сброса и посева dev-БД.
// Запуск: go run scripts/reset_db/main.go

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

func main() {
	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		log.Fatal("DATABASE_URL is required")
	}

	fmt.Println("Connecting to database...")
	fmt.Printf("Host: %s\n", extractHost(connStr))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close(ctx)

	fmt.Println("Connected successfully!")

	commands := []string{
		// ЧАСТЬ 1: ПОЛНАЯ ОЧИСТКА БД
		"DROP TABLE IF EXISTS listing_roommate_opt_ins CASCADE",
		"DROP TABLE IF EXISTS user_favorites CASCADE",
		"DROP TABLE IF EXISTS users CASCADE",
		"DROP TABLE IF EXISTS roommate_status, sleep_time, wake_time, cleanliness, noise_tolerance, guest_frequency, smoking_preference, drinking_preference, pet_preference CASCADE",
		"DROP TABLE IF EXISTS crime CASCADE",
		"DROP TABLE IF EXISTS leisure, shop, amenity CASCADE",
		"DROP TABLE IF EXISTS airbnb_review_components CASCADE",
		"DROP TABLE IF EXISTS airbnb_review_summary CASCADE",
		"DROP TABLE IF EXISTS airbnb_amenities CASCADE",
		"DROP TABLE IF EXISTS airbnb_listings CASCADE",

		// ЧАСТЬ 2: РАСШИРЕНИЯ
		"CREATE EXTENSION IF NOT EXISTS postgis",

		// ЧАСТЬ 3: ОБЪЯВЛЕНИЯ И ИХ СПУТНИКИ
		`CREATE TABLE IF NOT EXISTS airbnb_listings (
			id              BIGINT PRIMARY KEY,
			name            TEXT             NOT NULL,
			description     TEXT             NOT NULL DEFAULT '',
			price_per_month DOUBLE PRECISION NOT NULL,
			room_type       TEXT             NOT NULL,
			bedrooms        INT,
			beds            INT,
			latitude        DOUBLE PRECISION NOT NULL,
			longitude       DOUBLE PRECISION NOT NULL,
			region          TEXT             NOT NULL DEFAULT '',
			picture_url     TEXT             NOT NULL DEFAULT ''
		)`,

		`CREATE TABLE IF NOT EXISTS airbnb_amenities (
			listing_id           BIGINT PRIMARY KEY REFERENCES airbnb_listings(id),
			has_wifi             BOOLEAN NOT NULL DEFAULT FALSE,
			has_kitchen          BOOLEAN NOT NULL DEFAULT FALSE,
			has_air_conditioning BOOLEAN NOT NULL DEFAULT FALSE,
			has_parking          BOOLEAN NOT NULL DEFAULT FALSE,
			has_washer           BOOLEAN NOT NULL DEFAULT FALSE,
			has_dryer            BOOLEAN NOT NULL DEFAULT FALSE,
			has_heating          BOOLEAN NOT NULL DEFAULT FALSE,
			has_tv               BOOLEAN NOT NULL DEFAULT FALSE
		)`,

		`CREATE TABLE IF NOT EXISTS airbnb_review_summary (
			listing_id           BIGINT PRIMARY KEY REFERENCES airbnb_listings(id),
			number_of_reviews    INT NOT NULL DEFAULT 0,
			review_scores_rating DOUBLE PRECISION
		)`,

		`CREATE TABLE IF NOT EXISTS airbnb_review_components (
			listing_id                BIGINT PRIMARY KEY REFERENCES airbnb_listings(id),
			review_scores_cleanliness DOUBLE PRECISION,
			review_scores_location    DOUBLE PRECISION,
			review_scores_value       DOUBLE PRECISION
		)`,

		// ЧАСТЬ 4: МЕСТА И ПРЕСТУПЛЕНИЯ
		`CREATE TABLE IF NOT EXISTS leisure (
			id           BIGSERIAL PRIMARY KEY,
			name         TEXT,
			leisure_type TEXT             NOT NULL,
			latitude     DOUBLE PRECISION NOT NULL,
			longitude    DOUBLE PRECISION NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS shop (
			id        BIGSERIAL PRIMARY KEY,
			name      TEXT,
			shop_type TEXT             NOT NULL,
			latitude  DOUBLE PRECISION NOT NULL,
			longitude DOUBLE PRECISION NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS amenity (
			id           BIGSERIAL PRIMARY KEY,
			name         TEXT,
			amenity_type TEXT             NOT NULL,
			latitude     DOUBLE PRECISION NOT NULL,
			longitude    DOUBLE PRECISION NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS crime (
			id               BIGSERIAL PRIMARY KEY,
			offense_category TEXT             NOT NULL,
			latitude         DOUBLE PRECISION NOT NULL,
			longitude        DOUBLE PRECISION NOT NULL,
			occurred_on      DATE             NOT NULL
		)`,

		// ЧАСТЬ 5: ПОЛЬЗОВАТЕЛИ И СПРАВОЧНИКИ
		`CREATE TABLE IF NOT EXISTS roommate_status (roommate_status_id SERIAL PRIMARY KEY, description TEXT UNIQUE NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS sleep_time (sleep_time_id SERIAL PRIMARY KEY, description TEXT UNIQUE NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS wake_time (wake_time_id SERIAL PRIMARY KEY, description TEXT UNIQUE NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS cleanliness (cleanliness_id SERIAL PRIMARY KEY, description TEXT UNIQUE NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS noise_tolerance (noise_tolerance_id SERIAL PRIMARY KEY, description TEXT UNIQUE NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS guest_frequency (guest_frequency_id SERIAL PRIMARY KEY, description TEXT UNIQUE NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS smoking_preference (smoking_preference_id SERIAL PRIMARY KEY, description TEXT UNIQUE NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS drinking_preference (drinking_preference_id SERIAL PRIMARY KEY, description TEXT UNIQUE NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS pet_preference (pet_preference_id SERIAL PRIMARY KEY, description TEXT UNIQUE NOT NULL)`,

		`CREATE TABLE IF NOT EXISTS users (
			user_id                TEXT PRIMARY KEY,
			first_name             TEXT NOT NULL DEFAULT '',
			last_name              TEXT NOT NULL DEFAULT '',
			email                  TEXT NOT NULL DEFAULT '',
			min_budget             DOUBLE PRECISION,
			max_budget             DOUBLE PRECISION,
			work_zip_code          TEXT,
			work_latitude          DOUBLE PRECISION,
			work_longitude         DOUBLE PRECISION,
			roommate_status_id     INT REFERENCES roommate_status(roommate_status_id),
			sleep_time_id          INT REFERENCES sleep_time(sleep_time_id),
			wake_time_id           INT REFERENCES wake_time(wake_time_id),
			cleanliness_id         INT REFERENCES cleanliness(cleanliness_id),
			noise_tolerance_id     INT REFERENCES noise_tolerance(noise_tolerance_id),
			guest_frequency_id     INT REFERENCES guest_frequency(guest_frequency_id),
			smoking_preference_id  INT REFERENCES smoking_preference(smoking_preference_id),
			drinking_preference_id INT REFERENCES drinking_preference(drinking_preference_id),
			pet_preference_id      INT REFERENCES pet_preference(pet_preference_id),
			created_at             TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS user_favorites (
			user_id    TEXT   NOT NULL REFERENCES users(user_id),
			listing_id BIGINT NOT NULL REFERENCES airbnb_listings(id),
			saved_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (user_id, listing_id)
		)`,

		`CREATE TABLE IF NOT EXISTS listing_roommate_opt_ins (
			user_id     TEXT   NOT NULL REFERENCES users(user_id),
			listing_id  BIGINT NOT NULL REFERENCES airbnb_listings(id),
			opted_in_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (user_id, listing_id)
		)`,

		// Индексы под гео-предикаты
		`CREATE INDEX IF NOT EXISTS idx_listings_geog ON airbnb_listings
			USING GIST ((ST_SetSRID(ST_MakePoint(longitude, latitude), 4326)::geography))`,
		`CREATE INDEX IF NOT EXISTS idx_crime_geog ON crime
			USING GIST ((ST_SetSRID(ST_MakePoint(longitude, latitude), 4326)::geography))`,
	}

	fmt.Println("\nExecuting schema commands...")
	for i, cmd := range commands {
		_, err := conn.Exec(ctx, cmd)
		if err != nil {
			log.Printf("Warning on command %d: %v", i+1, err)
		} else {
			fmt.Printf("  [%d/%d] OK\n", i+1, len(commands))
		}
	}

	// ЧАСТЬ 6: СПРАВОЧНЫЕ ДАННЫЕ
	fmt.Println("\nSeeding lookup tables...")
	lookups := map[string][]string{
		"roommate_status":     {"Open to roommates", "Prefers to live alone", "Undecided"},
		"sleep_time":          {"Before 10pm", "10pm-midnight", "After midnight"},
		"wake_time":           {"Before 6am", "6am-8am", "After 8am"},
		"cleanliness":         {"Very tidy", "Average", "Relaxed"},
		"noise_tolerance":     {"Quiet", "Moderate", "Lively"},
		"guest_frequency":     {"Rarely", "Sometimes", "Often"},
		"smoking_preference":  {"No smoking", "Outside only", "Smoking ok"},
		"drinking_preference": {"No drinking", "Social drinking", "Drinking ok"},
		"pet_preference":      {"No pets", "Cats ok", "Dogs ok", "All pets ok"},
	}
	for table, values := range lookups {
		for _, v := range values {
			_, err := conn.Exec(ctx,
				fmt.Sprintf("INSERT INTO %s (description) VALUES ($1) ON CONFLICT (description) DO NOTHING", table), v)
			if err != nil {
				log.Printf("Warning seeding %s: %v", table, err)
			}
		}
	}
	fmt.Println("  Lookup tables seeded OK")

	// ЧАСТЬ 7: ТЕСТОВЫЕ ДАННЫЕ
	fmt.Println("Inserting test listings...")
	_, err = conn.Exec(ctx, `
		INSERT INTO airbnb_listings (id, name, description, price_per_month, room_type, bedrooms, beds, latitude, longitude, region, picture_url)
		VALUES
			(1001, 'Sunny room near Capitol Hill', 'Bright private room, walking distance to cafes', 1200, 'Private room', 1, 1, 39.7400, -104.9800, 'Denver', ''),
			(1002, 'Modern studio downtown', 'Compact studio with city views', 1850, 'Entire home/apt', 1, 1, 39.7450, -104.9900, 'Denver', ''),
			(1003, 'Shared loft by the park', 'Shared loft, great for students', 800, 'Shared room', 2, 2, 39.7510, -104.9950, 'Denver', ''),
			(1004, 'Quiet two-bedroom apartment', 'Family friendly, parking included', 2400, 'Entire home/apt', 2, 3, 39.7300, -104.9700, 'Denver', '')
		ON CONFLICT (id) DO NOTHING
	`)
	if err != nil {
		log.Printf("Warning inserting listings: %v", err)
	} else {
		fmt.Println("  Listings inserted OK")
	}

	_, err = conn.Exec(ctx, `
		INSERT INTO airbnb_amenities (listing_id, has_wifi, has_kitchen, has_air_conditioning, has_parking, has_washer, has_dryer, has_heating, has_tv)
		VALUES
			(1001, TRUE, TRUE, FALSE, FALSE, TRUE, FALSE, TRUE, TRUE),
			(1002, TRUE, TRUE, TRUE, TRUE, TRUE, TRUE, TRUE, TRUE),
			(1003, TRUE, FALSE, FALSE, FALSE, FALSE, FALSE, TRUE, FALSE),
			(1004, TRUE, TRUE, TRUE, TRUE, TRUE, TRUE, TRUE, TRUE)
		ON CONFLICT (listing_id) DO NOTHING
	`)
	if err != nil {
		log.Printf("Warning inserting amenities: %v", err)
	}

	_, err = conn.Exec(ctx, `
		INSERT INTO airbnb_review_summary (listing_id, number_of_reviews, review_scores_rating)
		VALUES (1001, 42, 4.7), (1002, 15, 4.9), (1003, 3, 3.8), (1004, 0, NULL)
		ON CONFLICT (listing_id) DO NOTHING
	`)
	if err != nil {
		log.Printf("Warning inserting review summary: %v", err)
	}

	_, err = conn.Exec(ctx, `
		INSERT INTO airbnb_review_components (listing_id, review_scores_cleanliness, review_scores_location, review_scores_value)
		VALUES (1001, 4.8, 4.6, 4.5), (1002, 5.0, 4.9, 4.7), (1003, 3.5, 4.2, 4.0)
		ON CONFLICT (listing_id) DO NOTHING
	`)
	if err != nil {
		log.Printf("Warning inserting review components: %v", err)
	}

	fmt.Println("Inserting test places and crime...")
	_, err = conn.Exec(ctx, `
		INSERT INTO leisure (name, leisure_type, latitude, longitude) VALUES
			('Iron Works Gym', 'fitness_centre', 39.7402, -104.9805),
			('Cheesman Park', 'park', 39.7320, -104.9660);
		INSERT INTO shop (name, shop_type, latitude, longitude) VALUES
			('Corner Supermarket', 'supermarket', 39.7448, -104.9895),
			('Green Grocery', 'grocery', 39.7405, -104.9810);
		INSERT INTO amenity (name, amenity_type, latitude, longitude) VALUES
			('Central Library', 'library', 39.7370, -104.9890),
			('Morning Cafe', 'cafe', 39.7452, -104.9902);
		INSERT INTO crime (offense_category, latitude, longitude, occurred_on) VALUES
			('theft', 39.7410, -104.9820, NOW() - INTERVAL '30 days'),
			('burglary', 39.7420, -104.9830, NOW() - INTERVAL '90 days'),
			('theft', 39.7430, -104.9840, NOW() - INTERVAL '200 days')
	`)
	if err != nil {
		log.Printf("Warning inserting places/crime: %v", err)
	}

	fmt.Println("Inserting test user...")
	_, err = conn.Exec(ctx, `
		INSERT INTO users (user_id, first_name, last_name, email, min_budget, max_budget, work_zip_code, work_latitude, work_longitude, roommate_status_id)
		VALUES ('demo-user-1', 'Dana', 'Whitfield', 'dana.whitfield@example.com', 900, 2000, '80203', 39.7392, -104.9903,
			(SELECT roommate_status_id FROM roommate_status WHERE description = 'Open to roommates'))
		ON CONFLICT (user_id) DO NOTHING
	`)
	if err != nil {
		log.Printf("Warning inserting user: %v", err)
	} else {
		fmt.Println("  User inserted OK")
	}

	// ЧАСТЬ 8: ПРОВЕРКА
	fmt.Println("\n=== VERIFICATION ===")

	var listingCount, placeCount, crimeCount, userCount int
	conn.QueryRow(ctx, "SELECT count(*) FROM airbnb_listings").Scan(&listingCount)
	conn.QueryRow(ctx, "SELECT (SELECT count(*) FROM leisure) + (SELECT count(*) FROM shop) + (SELECT count(*) FROM amenity)").Scan(&placeCount)
	conn.QueryRow(ctx, "SELECT count(*) FROM crime").Scan(&crimeCount)
	conn.QueryRow(ctx, "SELECT count(*) FROM users").Scan(&userCount)

	fmt.Printf("Listings: %d\n", listingCount)
	fmt.Printf("Places:   %d\n", placeCount)
	fmt.Printf("Crime:    %d\n", crimeCount)
	fmt.Printf("Users:    %d\n", userCount)

	var postgisVersion string
	if err := conn.QueryRow(ctx, "SELECT PostGIS_Version()").Scan(&postgisVersion); err == nil {
		fmt.Printf("\nPostGIS: %s\n", postgisVersion)
	}

	fmt.Println("\n=== DATABASE RESET COMPLETE ===")
	fmt.Println("Demo user: demo-user-1 (pass it in the X-User-Id header)")
}

func extractHost(connStr string) string {
	parts := strings.Split(connStr, "@")
	if len(parts) > 1 {
		hostPart := strings.Split(parts[1], "/")[0]
		return hostPart
	}
	return "unknown"
}
