package database_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"storefront/internal/database"
	"storefront/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// memoryDSN names a private in-memory SQLite database shared by all pool connections of one test.
func memoryDSN(t *testing.T) string {
	return fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
}

func TestOpen_SQLiteMigratesSchema(t *testing.T) {
	db, err := database.Open("sqlite", memoryDSN(t), zap.NewNop())
	require.NoError(t, err)

	assert.True(t, db.Migrator().HasTable(&models.User{}))
	assert.True(t, db.Migrator().HasTable(&models.Product{}))
	assert.True(t, db.Migrator().HasIndex(&models.User{}, "Email"))
}

func TestOpen_TranslatesDuplicateKey(t *testing.T) {
	db, err := database.Open("sqlite", memoryDSN(t), zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, db.Create(&models.User{Name: "A", Email: "a@x.com", Password: "digest"}).Error)
	err = db.Create(&models.User{Name: "B", Email: "a@x.com", Password: "digest"}).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := database.Open("oracle", "", zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestZapLogger_Trace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := database.NewZapLogger(zap.New(core))
	sql := func() (string, int64) { return "SELECT 1", 1 }
	now := time.Now()
	ctx := context.Background()

	l.Trace(ctx, now, sql, gorm.ErrRecordNotFound)
	assert.Equal(t, 0, logs.Len())

	l.Trace(ctx, now, sql, errors.New("boom"))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "query failed", logs.All()[0].Message)

	l.Trace(ctx, now.Add(-time.Second), sql, nil)
	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "slow query", logs.All()[1].Message)

	l.LogMode(gormlogger.Silent).Trace(ctx, now, sql, errors.New("boom"))
	assert.Equal(t, 2, logs.Len())
}
