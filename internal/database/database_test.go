package database

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
)

func TestOpenPingsTheStore(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectPing()
	db, err := Open(postgres.New(postgres.Config{Conn: sqlDB}), Options{Environment: "test"})
	require.NoError(t, err)
	assert.NotNil(t, db)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenFailsWhenPingFails(t *testing.T) {
	sqlDB, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer sqlDB.Close()

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	_, err = Open(postgres.New(postgres.Config{Conn: sqlDB}), Options{Environment: "production"})
	assert.ErrorContains(t, err, "failed to ping database")
}
