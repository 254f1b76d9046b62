package migrations

import (
	"database/sql"
	"embed"

	log "github.com/Sirupsen/logrus"
	"github.com/pkg/errors"
	migrate "github.com/rubenv/sql-migrate"
)

//go:embed *.sql
var files embed.FS

const dialect = "postgres"

var set = migrate.MigrationSet{TableName: "schema_migrations"}

// Source serves the embedded migration files.
func Source() migrate.MigrationSource {
	return &migrate.EmbedFileSystemMigrationSource{FileSystem: files, Root: "."}
}

// ApplyUp runs every embedded migration not yet recorded in schema_migrations.
func ApplyUp(db *sql.DB) (int, error) {
	n, err := set.Exec(db, dialect, Source(), migrate.Up)
	if err != nil {
		return n, errors.Wrap(err, "apply migrations")
	}
	log.Infof("Applied %d migrations", n)
	return n, nil
}

// ApplyDown rolls back the last steps applied migrations.
func ApplyDown(db *sql.DB, steps int) (int, error) {
	// zero means all to sql-migrate
	if steps < 1 {
		return 0, errors.Errorf("steps must be positive, got %d", steps)
	}
	n, err := set.ExecMax(db, dialect, Source(), migrate.Down, steps)
	if err != nil {
		return n, errors.Wrap(err, "roll back migrations")
	}
	log.Infof("Rolled back %d migrations", n)
	return n, nil
}
