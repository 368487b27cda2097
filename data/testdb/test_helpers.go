package testdb

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/Pjt727/cample/data"
	"github.com/Pjt727/cample/migrations"
	"github.com/golang-migrate/migrate/v4"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SetupTestDb resets the test database by running every down then every up migration
func SetupTestDb() error {
	testDb := os.Getenv("TEST_DB_CONN")
	if testDb == "" {
		return errors.New("TEST_DB_CONN is not set")
	}

	m, err := migrations.New(testDb)
	if err != nil {
		return err
	}
	defer m.Close()
	err = m.Down()
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	err = m.Up()
	if err != nil {
		return err
	}
	return nil
}

// Pool skips the test when no test database is configured
//
//	otherwise the database is reset and a pool closed at the end of the test is returned
func Pool(t testing.TB) *pgxpool.Pool {
	t.Helper()
	if os.Getenv("TEST_DB_CONN") == "" {
		t.Skip("TEST_DB_CONN is not set")
	}
	if err := SetupTestDb(); err != nil {
		t.Fatalf("could not reset the test database: %v", err)
	}
	pool, err := data.NewPool(context.Background(), true)
	if err != nil {
		t.Fatalf("could not connect to the test database: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}
