package testutil

import (
	"context"
	"database/sql"
	"os"

	"github.com/pressly/goose/v3"

	"github.com/travilink/trip-scheduler/migrations"
)

// SchedulerTables are the tables the migrations own.
var SchedulerTables = []string{"drivers", "vehicles", "trips", "trip_sequences"}

// NewMigrator returns a goose provider over the embedded scheduler migrations.
func NewMigrator(db *sql.DB) (*goose.Provider, error) {
	return goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
}

// MigrateForMain brings the test database up to the latest schema from a
// package's TestMain. It is a no-op when TEST_DATABASE_URL is unset, and
// panics on any other failure.
func MigrateForMain() {
	dsn := os.Getenv(DSNEnv)
	if dsn == "" {
		return
	}
	db := MustOpenSQLDB(dsn)
	defer db.Close()

	provider, err := NewMigrator(db)
	if err != nil {
		panic("testutil.MigrateForMain: goose provider: " + err.Error())
	}
	if _, err := provider.Up(context.Background()); err != nil {
		panic("testutil.MigrateForMain: up: " + err.Error())
	}
}

// TableExists reports whether table is in the public schema.
func TableExists(ctx context.Context, db *sql.DB, table string) (bool, error) {
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name = $1
		)`
	var exists bool
	err := db.QueryRowContext(ctx, q, table).Scan(&exists)
	return exists, err
}

// ConstraintExists reports whether a constraint with that name is defined.
func ConstraintExists(ctx context.Context, db *sql.DB, name string) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = $1)`, name).Scan(&exists)
	return exists, err
}
