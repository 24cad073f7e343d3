package bootstrap

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestRuntime_Close(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	mock.ExpectClose()
	rt := &Runtime{DB: db, Redis: rdb}
	require.NoError(t, rt.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.ErrorIs(t, rdb.Ping(t.Context()).Err(), redis.ErrClosed)
}

func TestRuntime_CloseWithoutConnections(t *testing.T) {
	assert.NoError(t, (&Runtime{}).Close())
}
