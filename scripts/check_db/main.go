// Скрипт проверки схемы: соединение, PostGIS и наличие всех таблиц.
// Запуск: go run scripts/check_db/main.go

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/jackc/pgx/v5"
)

var requiredTables = []string{
	"airbnb_listings",
	"airbnb_amenities",
	"airbnb_review_summary",
	"airbnb_review_components",
	"leisure",
	"shop",
	"amenity",
	"crime",
	"users",
	"roommate_status",
	"sleep_time",
	"wake_time",
	"cleanliness",
	"noise_tolerance",
	"guest_frequency",
	"smoking_preference",
	"drinking_preference",
	"pet_preference",
	"user_favorites",
	"listing_roommate_opt_ins",
}

func main() {
	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		color.Red("DATABASE_URL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	fmt.Println("Connecting to database...")
	conn, err := pgx.Connect(ctx, connStr)
	if err != nil {
		color.Red("Connection failed: %v", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)
	color.Green("Connected OK")

	var postgisVersion string
	if err := conn.QueryRow(ctx, "SELECT PostGIS_Version()").Scan(&postgisVersion); err != nil {
		color.Red("PostGIS is not installed: %v", err)
		os.Exit(1)
	}
	color.Green("PostGIS %s", postgisVersion)

	fmt.Println("\nChecking tables...")
	missing := 0
	for _, table := range requiredTables {
		var exists bool
		err := conn.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = 'public' AND table_name = $1)",
			table).Scan(&exists)
		if err != nil {
			color.Red("  %-28s check failed: %v", table, err)
			missing++
			continue
		}
		if !exists {
			color.Red("  %-28s MISSING", table)
			missing++
			continue
		}

		var count int64
		if err := conn.QueryRow(ctx, "SELECT count(*) FROM "+table).Scan(&count); err != nil {
			color.Yellow("  %-28s exists, count failed: %v", table, err)
			continue
		}
		color.Green("  %-28s %d rows", table, count)
	}

	fmt.Println()
	if missing > 0 {
		color.Red("%d table(s) missing — run scripts/reset_db first", missing)
		os.Exit(1)
	}
	color.Green("Schema OK")
}
