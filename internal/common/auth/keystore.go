// internal/common/auth/keystore.go
package auth

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"time"

	"ecommerce-gateway/internal/common/logger"

	"github.com/redis/go-redis/v9"
)

const lookupQuery = `SELECT active FROM api_keys WHERE key_hash = $1`

// Keystore validates API keys against Postgres with a Redis read-through
// cache. Only key hashes ever touch storage or the cache.
type Keystore struct {
	db       *sql.DB
	redis    *redis.Client
	cacheTTL time.Duration
	logger   logger.Logger
}

// NewKeystore creates a Keystore. redisClient may be nil, which disables the
// cache layer.
func NewKeystore(db *sql.DB, redisClient *redis.Client, cacheTTL time.Duration, log logger.Logger) *Keystore {
	return &Keystore{
		db:       db,
		redis:    redisClient,
		cacheTTL: cacheTTL,
		logger:   log.WithFields(map[string]interface{}{"component": "keystore"}),
	}
}

// Validate reports whether key is an active API key. Cache failures degrade to
// a database lookup; only database failures surface as errors.
func (k *Keystore) Validate(ctx context.Context, key string) (bool, error) {
	hash := hashKey(key)

	if cached, ok := k.cacheGet(ctx, hash); ok {
		return cached, nil
	}

	var active bool
	err := k.db.QueryRowContext(ctx, lookupQuery, hash).Scan(&active)
	if errors.Is(err, sql.ErrNoRows) {
		k.cacheSet(ctx, hash, false)
		return false, nil
	}
	if err != nil {
		return false, err
	}

	k.cacheSet(ctx, hash, active)
	return active, nil
}

func (k *Keystore) cacheGet(ctx context.Context, hash string) (bool, bool) {
	if k.redis == nil {
		return false, false
	}
	val, err := k.redis.Get(ctx, cacheKey(hash)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			k.logger.Warn("api key cache read failed", map[string]interface{}{"error": err.Error()})
		}
		return false, false
	}
	return val == "1", true
}

func (k *Keystore) cacheSet(ctx context.Context, hash string, active bool) {
	if k.redis == nil {
		return
	}
	val := "0"
	if active {
		val = "1"
	}
	if err := k.redis.Set(ctx, cacheKey(hash), val, k.cacheTTL).Err(); err != nil {
		k.logger.Warn("api key cache write failed", map[string]interface{}{"error": err.Error()})
	}
}

func cacheKey(hash string) string {
	return "apikey:" + hash
}

func hashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
