// internal/storage/migrate.go
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5"
	_ "github.com/lib/pq"
)

const migrationPath = "migrations"

// runMigrations brings the asset_records and listing_image_settings tables
// up to date on startup.
func runMigrations(db *sql.DB) error {
	const op = "storage.runMigrations"

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("%s: %v", op, err)
	}

	if err := goose.Up(db, migrationPath); err != nil {
		if errors.Is(err, goose.ErrNoNextVersion) {
			return nil
		}
		return fmt.Errorf("%s: %v", op, err)
	}
	log.Println("database migrations applied")
	return nil
}
