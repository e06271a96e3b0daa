package app

import (
	"log/slog"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"

	"roomscout/internal/config"
	"roomscout/internal/httpapi"
	"roomscout/internal/lib/cache"
	"roomscout/internal/lib/events"
	"roomscout/internal/lib/logger/sl"
	"roomscout/internal/lib/pictures"
	"roomscout/internal/repository/favorite_repository"
	"roomscout/internal/repository/listing_repository"
	"roomscout/internal/repository/place_repository"
	"roomscout/internal/repository/roommate_repository"
	"roomscout/internal/repository/user_repository"
	"roomscout/internal/services/favorites"
	"roomscout/internal/services/fitscore"
	"roomscout/internal/services/insights"
	"roomscout/internal/services/profile"
	"roomscout/internal/services/recommend"
	"roomscout/internal/services/roommate"
	"roomscout/internal/services/search"
)

type App struct {
	Router    http.Handler
	Publisher events.Publisher
}

// New собирает приложение: репозитории поверх пула, сервисы поверх
// репозиториев, HTTP-сервер поверх сервисов. Опциональные подсистемы
// (кэш, события, картинки) при выключенном флаге заменяются no-op.
func New(log *slog.Logger, pool *pgxpool.Pool, cfg *config.Config) *App {
	listingRepository := listing_repository.NewListingRepository(pool, log)
	placeRepository := place_repository.NewPlaceRepository(pool, log)
	userRepository := user_repository.NewUserRepository(pool, log)
	favoriteRepository := favorite_repository.NewFavoriteRepository(pool, log)
	roommateRepository := roommate_repository.NewRoommateRepository(pool, log)

	insightsCache := buildCache(log, cfg.Cache)
	publisher := buildPublisher(log, cfg.Events)
	pictureResolver := buildPictureResolver(log, cfg.Pictures)

	log.Info("optional subsystems",
		slog.Bool("cache_enabled", cfg.Cache.Enabled),
		slog.Bool("events_enabled", cfg.Events.Enabled),
		slog.Bool("pictures_enabled", cfg.Pictures.Enabled),
	)

	fitScoreService := fitscore.New(log, listingRepository, placeRepository, userRepository, cfg.FitScore.CrimeWindowDays)
	searchService := search.New(log, listingRepository, fitScoreService, publisher, cfg.Search.RegionFallback)
	insightsService := insights.New(log, listingRepository, placeRepository, insightsCache, pictureResolver,
		cfg.Cache.TTL, cfg.FitScore.CrimeWindowDays)
	recommendService := recommend.New(log, listingRepository, userRepository)
	favoritesService := favorites.New(log, favoriteRepository, listingRepository)
	roommateService := roommate.New(log, roommateRepository, listingRepository, userRepository)
	profileService := profile.New(log, userRepository)

	server := httpapi.NewServer(
		log,
		searchService,
		insightsService,
		recommendService,
		fitScoreService,
		favoritesService,
		roommateService,
		profileService,
		cfg.Search.QueryTimeout,
	)

	return &App{
		Router:    server.Router(),
		Publisher: publisher,
	}
}

func buildCache(log *slog.Logger, cfg config.CacheConfig) cache.Cache {
	if !cfg.Enabled {
		return cache.NewNoop()
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.Addr, DB: cfg.DB})
	return cache.NewRedis(client, log)
}

func buildPublisher(log *slog.Logger, cfg config.EventsConfig) events.Publisher {
	if !cfg.Enabled {
		return events.NewNoop()
	}
	return events.NewKafka(cfg.Broker, cfg.Topic, log)
}

func buildPictureResolver(log *slog.Logger, cfg config.PicturesConfig) pictures.Resolver {
	if !cfg.Enabled {
		return pictures.NewPassthrough()
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		// Картинки — не критический путь: деградируем до passthrough.
		log.Error("failed to init object storage client, pictures disabled", sl.Err(err))
		return pictures.NewPassthrough()
	}
	return pictures.NewMinio(client, cfg.Bucket, cfg.URLExpiry, log)
}
