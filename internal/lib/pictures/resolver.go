package pictures

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"

	"roomscout/internal/lib/logger/sl"
)

// Resolver превращает хранимую ссылку на картинку объявления в URL,
// пригодный для клиента. Часть выгрузок хранит готовые http-ссылки,
// часть — ключи объектов в хранилище.
type Resolver interface {
	Resolve(ctx context.Context, ref string) string
}

type minioResolver struct {
	client *minio.Client
	bucket string
	expiry time.Duration
	log    *slog.Logger
}

// NewMinio — резолвер поверх объектного хранилища: ключи объектов
// подписываются presigned-ссылками, готовые URL проходят насквозь.
func NewMinio(client *minio.Client, bucket string, expiry time.Duration, log *slog.Logger) Resolver {
	return &minioResolver{client: client, bucket: bucket, expiry: expiry, log: log}
}

func (r *minioResolver) Resolve(ctx context.Context, ref string) string {
	if ref == "" || strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}

	u, err := r.client.PresignedGetObject(ctx, r.bucket, ref, r.expiry, url.Values{})
	if err != nil {
		// Картинка — не причина ронять запрос: отдаём ключ как есть.
		r.log.Warn("failed to presign picture", slog.String("ref", ref), sl.Err(err))
		return ref
	}
	return u.String()
}

type passthrough struct{}

// NewPassthrough — резолвер для выключенного хранилища: ссылки как есть.
func NewPassthrough() Resolver {
	return passthrough{}
}

func (passthrough) Resolve(ctx context.Context, ref string) string { return ref }
