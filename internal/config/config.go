package config

import (
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env         string `env:"ENV" env-default:"local"`
	DatabaseURL string `env:"DATABASE_URL" env-required:"true"`
	HTTP        HTTPConfig
	Cache       CacheConfig
	Events      EventsConfig
	Pictures    PicturesConfig
	Search      SearchConfig
	FitScore    FitScoreConfig
}

type HTTPConfig struct {
	Port            int           `env:"HTTP_PORT" env-default:"3000"`
	ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"30s"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// CacheConfig — конфигурация best-effort кэша карточек объявлений.
type CacheConfig struct {
	Enabled bool          `env:"CACHE_ENABLE" env-default:"false"`
	Addr    string        `env:"CACHE_REDIS_ADDR" env-default:"localhost:6379"`
	DB      int           `env:"CACHE_REDIS_DB" env-default:"0"`
	TTL     time.Duration `env:"CACHE_TTL" env-default:"10m"`
}

// EventsConfig — конфигурация публикации поисковых событий.
type EventsConfig struct {
	Enabled bool   `env:"EVENTS_ENABLE" env-default:"false"`
	Broker  string `env:"EVENTS_KAFKA_BROKER" env-default:"localhost:9092"`
	Topic   string `env:"EVENTS_KAFKA_TOPIC" env-default:"roomscout.search.requests"`
}

// PicturesConfig — конфигурация объектного хранилища картинок.
type PicturesConfig struct {
	Enabled   bool          `env:"PICTURES_ENABLE" env-default:"false"`
	Endpoint  string        `env:"PICTURES_MINIO_ENDPOINT"`
	Bucket    string        `env:"PICTURES_MINIO_BUCKET" env-default:"listing-pictures"`
	AccessKey string        `env:"PICTURES_MINIO_ACCESS_KEY"`
	SecretKey string        `env:"PICTURES_MINIO_SECRET_KEY"`
	UseSSL    bool          `env:"PICTURES_MINIO_USE_SSL" env-default:"false"`
	URLExpiry time.Duration `env:"PICTURES_URL_EXPIRY" env-default:"24h"`
}

// SearchConfig — политика поиска.
type SearchConfig struct {
	// RegionFallback включает деградацию до region-only выдачи, когда
	// комбинированный региональный фильтр дал ноль строк. На поиск
	// точка+радиус не влияет.
	RegionFallback bool `env:"SEARCH_REGION_FALLBACK" env-default:"true"`
	// QueryTimeout — верхняя граница одного запроса к хранилищу
	QueryTimeout time.Duration `env:"SEARCH_QUERY_TIMEOUT" env-default:"15s"`
}

// FitScoreConfig — настройки расчёта fit score.
type FitScoreConfig struct {
	// CrimeWindowDays — скользящее окно подсчёта преступлений, дни
	CrimeWindowDays int `env:"FITSCORE_CRIME_WINDOW_DAYS" env-default:"365"`
}

func MustLoad() *Config {
	// .env подхватывается для локальной разработки; в остальных средах
	// файла нет и это не ошибка.
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		panic("cannot read config from environment: " + err.Error())
	}
	return &cfg
}
