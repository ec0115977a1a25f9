// Package postgres opens the shared gorm connection used by every postgres adapter.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Pool bounds the underlying database/sql pool.
type Pool struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultPool suits a single API or worker replica.
var DefaultPool = Pool{MaxOpenConns: 20, MaxIdleConns: 5, ConnMaxLifetime: 30 * time.Minute}

type options struct {
	pool        Pool
	pingTimeout time.Duration
	logLevel    gormlogger.LogLevel
}

// Option adjusts Connect.
type Option func(*options)

func WithPool(pool Pool) Option {
	return func(o *options) { o.pool = pool }
}

// WithSQLLogging makes gorm log every statement.
func WithSQLLogging() Option {
	return func(o *options) { o.logLevel = gormlogger.Info }
}

// Connect opens dsn, applies the pool limits and pings within five seconds.
// Constraint violations surface as gorm.ErrDuplicatedKey.
func Connect(ctx context.Context, dsn string, opts ...Option) (*gorm.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("postgres DSN is empty")
	}
	o := options{pool: DefaultPool, pingTimeout: 5 * time.Second, logLevel: gormlogger.Warn}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(o.logLevel),
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(o.pool.MaxOpenConns)
	sqlDB.SetMaxIdleConns(o.pool.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(o.pool.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, o.pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}
