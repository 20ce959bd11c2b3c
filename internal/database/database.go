package database

import (
	"context"
	"fmt"
	"time"

	pkgLogger "github.com/guiaturistica/reportes-api/pkg/logger"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Options tunes the connection pool and query logging
type Options struct {
	Environment   string
	SlowThreshold time.Duration
	MaxOpenConns  int
	MaxIdleConns  int
	PingTimeout   time.Duration
}

func (o Options) withDefaults() Options {
	if o.SlowThreshold <= 0 {
		o.SlowThreshold = 200 * time.Millisecond
	}
	if o.MaxOpenConns <= 0 {
		o.MaxOpenConns = 20
	}
	if o.MaxIdleConns <= 0 {
		o.MaxIdleConns = 5
	}
	if o.PingTimeout <= 0 {
		o.PingTimeout = 5 * time.Second
	}
	return o
}

// Connect opens the hosted record store
func Connect(databaseURL string, opts Options) (*gorm.DB, error) {
	return Open(postgres.Open(databaseURL), opts)
}

// Open connects through any gorm dialector and pings once within
// PingTimeout. The report engine only reads, so default write transactions
// are skipped.
func Open(dialector gorm.Dialector, opts Options) (*gorm.DB, error) {
	opts = opts.withDefaults()

	logLevel := logger.Warn
	if opts.Environment != "production" {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 pkgLogger.NewGormLogger(logLevel, opts.SlowThreshold),
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		DisableAutomaticPing:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Hour)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), opts.PingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
