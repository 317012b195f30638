package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"restaurant-seating-backend/config"
	"restaurant-seating-backend/internal/model"
)

func TestInit_SQLiteMigrates(t *testing.T) {
	gormDB, err := Init(&config.DatabaseConfig{
		Driver:   "sqlite",
		DSN:      "file:db_init_test?mode=memory&cache=shared",
		LogLevel: "silent",
	})
	require.NoError(t, err)
	sqlDB, _ := gormDB.DB()
	defer sqlDB.Close()

	for _, m := range []any{&model.Area{}, &model.Table{}, &model.Reservation{}} {
		assert.True(t, gormDB.Migrator().HasTable(m), "expected table for %T", m)
	}
}

func TestInit_RejectsUnknownDriver(t *testing.T) {
	_, err := Init(&config.DatabaseConfig{Driver: "oracle"})
	assert.Error(t, err)
}

func TestInit_PostgresRequiresDSN(t *testing.T) {
	_, err := Init(&config.DatabaseConfig{Driver: "postgres"})
	assert.Error(t, err)
}

func TestLogLevel(t *testing.T) {
	assert.Equal(t, logger.Silent, logLevel("silent"))
	assert.Equal(t, logger.Info, logLevel("INFO"))
	assert.Equal(t, logger.Warn, logLevel(""))
}
