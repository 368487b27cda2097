package data

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	dbPool *pgxpool.Pool
	pgOnce sync.Once
)

// NewPool returns the shared pool for DB_CONN
//
//	the test pool (TEST_DB_CONN) is never shared so tests can close it freely
func NewPool(ctx context.Context, isTest bool) (*pgxpool.Pool, error) {
	if isTest {
		connString := os.Getenv("TEST_DB_CONN")
		if connString == "" {
			return nil, errors.New("TEST_DB_CONN is not set")
		}
		return newPool(ctx, connString)
	}

	var poolErr error
	pgOnce.Do(func() {
		connString := os.Getenv("DB_CONN")
		if connString == "" {
			poolErr = errors.New("DB_CONN is not set")
			return
		}
		dbPool, poolErr = newPool(ctx, connString)
	})
	if poolErr != nil {
		return nil, poolErr
	}
	if dbPool == nil {
		return nil, errors.New("connection pool failed to start earlier")
	}
	return dbPool, nil
}

func newPool(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		log.Error(fmt.Errorf("Invalid database connection string: %w", err))
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		log.Error(fmt.Errorf("Unable to create connection pool: %w", err))
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		log.Error(fmt.Errorf("Unable to reach the database: %w", err))
		return nil, err
	}
	log.WithFields(log.Fields{
		"host":     config.ConnConfig.Host,
		"database": config.ConnConfig.Database,
		"maxConns": config.MaxConns,
	}).Debug("Connection pool ready")
	return pool, nil
}
