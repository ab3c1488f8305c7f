package otp

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rasoilink/rasoilink-backend/pkg/db/models"
)

type codeStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Del(ctx context.Context, keys ...string) error
}

type codeKeyer interface {
	OTPKey(phone string) string
	OTPAttemptsKey(phone string) string
}

type userStore interface {
	FindOrCreateByPhone(ctx context.Context, phone string) (*models.User, error)
}

type vendorFinder interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Vendor, error)
}

type supplierFinder interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Supplier, error)
}

type sessionCreator interface {
	Create(ctx context.Context, accessID string, userID uuid.UUID) error
}
