package auth

import (
	"context"
	"errors"
	"time"

	"cafehere/model"
	"cafehere/repository"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ErrAlreadyBlacklisted is returned by Add when the jti was recorded before.
var ErrAlreadyBlacklisted = errors.New("token already blacklisted")

// Blacklist records refresh token ids that may not be used again.
// Add must be atomic: of two concurrent calls with the same jti exactly one succeeds.
type Blacklist interface {
	Add(ctx context.Context, jti string, userUUID uuid.UUID, expiresAt time.Time) error
	Contains(ctx context.Context, jti string) (bool, error)
	// FlushExpired drops entries whose token expired anyway and reports how many were removed.
	FlushExpired(ctx context.Context) (int64, error)
}

// DatabaseBlacklist stores entries in the blacklisted_tokens table; the unique
// jti index provides atomicity.
type DatabaseBlacklist struct {
	db *gorm.DB
}

func NewDatabaseBlacklist(db *gorm.DB) *DatabaseBlacklist {
	return &DatabaseBlacklist{db: db}
}

func (b *DatabaseBlacklist) Add(ctx context.Context, jti string, userUUID uuid.UUID, expiresAt time.Time) error {
	entry := &model.BlacklistedToken{
		JTI:           jti,
		UserUUID:      userUUID,
		ExpiresAt:     expiresAt,
		BlacklistedAt: time.Now(),
	}
	err := repository.Translate(b.db.WithContext(ctx).Create(entry).Error)
	if errors.Is(err, repository.ErrDuplicate) {
		return ErrAlreadyBlacklisted
	}
	return err
}

func (b *DatabaseBlacklist) Contains(ctx context.Context, jti string) (bool, error) {
	var count int64
	err := b.db.WithContext(ctx).Model(&model.BlacklistedToken{}).Where("jti = ?", jti).Count(&count).Error
	return count > 0, err
}

func (b *DatabaseBlacklist) FlushExpired(ctx context.Context) (int64, error) {
	res := b.db.WithContext(ctx).Where("expires_at < ?", time.Now()).Delete(&model.BlacklistedToken{})
	return res.RowsAffected, res.Error
}

// RedisBlacklist keeps one key per jti with a TTL equal to the token's
// remaining lifetime, so expired entries vanish on their own.
type RedisBlacklist struct {
	rdb    *redis.Client
	prefix string
}

func NewRedisBlacklist(rdb *redis.Client) *RedisBlacklist {
	return &RedisBlacklist{rdb: rdb, prefix: "cafehere:blacklist:"}
}

func (b *RedisBlacklist) Add(ctx context.Context, jti string, userUUID uuid.UUID, expiresAt time.Time) error {
	ok, err := b.rdb.SetNX(ctx, b.prefix+jti, userUUID.String(), remaining(expiresAt)).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrAlreadyBlacklisted
	}
	return nil
}

func (b *RedisBlacklist) Contains(ctx context.Context, jti string) (bool, error) {
	n, err := b.rdb.Exists(ctx, b.prefix+jti).Result()
	return n > 0, err
}

func (b *RedisBlacklist) FlushExpired(context.Context) (int64, error) {
	return 0, nil
}

// MemoryBlacklist is a process-local blacklist for development and tests.
type MemoryBlacklist struct {
	c *cache.Cache
}

func NewMemoryBlacklist() *MemoryBlacklist {
	return &MemoryBlacklist{c: cache.New(cache.NoExpiration, 10*time.Minute)}
}

func (b *MemoryBlacklist) Add(_ context.Context, jti string, userUUID uuid.UUID, expiresAt time.Time) error {
	if err := b.c.Add(jti, userUUID, remaining(expiresAt)); err != nil {
		return ErrAlreadyBlacklisted
	}
	return nil
}

func (b *MemoryBlacklist) Contains(_ context.Context, jti string) (bool, error) {
	_, found := b.c.Get(jti)
	return found, nil
}

func (b *MemoryBlacklist) FlushExpired(context.Context) (int64, error) {
	before := b.c.ItemCount()
	b.c.DeleteExpired()
	return int64(before - b.c.ItemCount()), nil
}

// remaining never returns a non-positive TTL: zero means "no expiry" to both
// redis and go-cache.
func remaining(expiresAt time.Time) time.Duration {
	if ttl := time.Until(expiresAt); ttl > time.Second {
		return ttl
	}
	return time.Second
}
