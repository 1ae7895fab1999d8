package database

import (
	"database/sql"
	"embed"
	"path"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*/*.sql
var migrationsFS embed.FS

// SetupGoose points goose at the embedded migrations of the given engine
// and returns their directory.
func SetupGoose(engine string) (string, error) {
	dialect := "postgres"
	if engine == "sqlite" {
		dialect = "sqlite3"
	}
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect(dialect); err != nil {
		return "", errors.Wrap(err, "setting goose dialect")
	}
	return path.Join("migrations", engine), nil
}

// Migrate applies all pending migrations.
func Migrate(db *sql.DB, engine string) error {
	dir, err := SetupGoose(engine)
	if err != nil {
		return err
	}
	if err = goose.Up(db, dir); err != nil {
		return errors.Wrap(err, "migrating database")
	}
	return nil
}
