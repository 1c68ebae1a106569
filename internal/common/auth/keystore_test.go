// internal/common/auth/keystore_test.go
package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"ecommerce-gateway/internal/common/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHash(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}

func TestValidateActiveKey(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT active FROM api_keys").
		WithArgs(testHash("secret-key")).
		WillReturnRows(sqlmock.NewRows([]string{"active"}).AddRow(true))

	ks := NewKeystore(db, nil, time.Minute, logger.NewTestLogger(t))

	ok, err := ks.Validate(context.Background(), "secret-key")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateInactiveKey(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT active FROM api_keys").
		WithArgs(testHash("revoked-key")).
		WillReturnRows(sqlmock.NewRows([]string{"active"}).AddRow(false))

	ks := NewKeystore(db, nil, time.Minute, logger.NewTestLogger(t))

	ok, err := ks.Validate(context.Background(), "revoked-key")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestValidateUnknownKey(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT active FROM api_keys").
		WithArgs(testHash("nope")).
		WillReturnRows(sqlmock.NewRows([]string{"active"}))

	ks := NewKeystore(db, nil, time.Minute, logger.NewTestLogger(t))

	ok, err := ks.Validate(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestValidateDatabaseError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT active FROM api_keys").
		WithArgs(testHash("any")).
		WillReturnError(errors.New("connection reset"))

	ks := NewKeystore(db, nil, time.Minute, logger.NewTestLogger(t))

	_, err = ks.Validate(context.Background(), "any")
	assert.Error(t, err)
}

func TestValidateCachesResult(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	// The database answers exactly once; the second lookup must be a cache hit.
	mock.ExpectQuery("SELECT active FROM api_keys").
		WithArgs(testHash("secret-key")).
		WillReturnRows(sqlmock.NewRows([]string{"active"}).AddRow(true))

	ks := NewKeystore(db, rdb, time.Minute, logger.NewTestLogger(t))
	ctx := context.Background()

	ok, err := ks.Validate(ctx, "secret-key")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = ks.Validate(ctx, "secret-key")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())

	cached, err := mr.Get("apikey:" + testHash("secret-key"))
	require.NoError(t, err)
	assert.Equal(t, "1", cached)
}

func TestValidateCachesNegativeResult(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	mock.ExpectQuery("SELECT active FROM api_keys").
		WithArgs(testHash("nope")).
		WillReturnRows(sqlmock.NewRows([]string{"active"}))

	ks := NewKeystore(db, rdb, time.Minute, logger.NewTestLogger(t))
	ctx := context.Background()

	ok, err := ks.Validate(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = ks.Validate(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateCacheFailureFallsBackToDatabase(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rdb, redisMock := redismock.NewClientMock()
	defer rdb.Close()

	hash := testHash("secret-key")
	redisMock.ExpectGet("apikey:" + hash).SetErr(errors.New("connection refused"))
	redisMock.ExpectSet("apikey:"+hash, "1", time.Minute).SetErr(errors.New("connection refused"))

	mock.ExpectQuery("SELECT active FROM api_keys").
		WithArgs(hash).
		WillReturnRows(sqlmock.NewRows([]string{"active"}).AddRow(true))

	ks := NewKeystore(db, rdb, time.Minute, logger.NewTestLogger(t))

	ok, err := ks.Validate(context.Background(), "secret-key")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.NoError(t, redisMock.ExpectationsWereMet())
}
