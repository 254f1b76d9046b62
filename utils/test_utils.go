package utils

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/karchag/karchag-backend/migrations"
)

// ErrNoTestDB is returned when no test database is configured.
// Suites check for it and skip.
var ErrNoTestDB = errors.New("test.db-url is not configured")

type TestDBManager struct {
	DB     *sql.DB
	testDB string
}

// InitTestDB creates a throw-away database and applies all migrations to it.
func (m *TestDBManager) InitTestDB() error {
	url := viper.GetString("test.db-url")
	template := viper.GetString("test.url-template")
	if url == "" || template == "" {
		return ErrNoTestDB
	}

	m.testDB = fmt.Sprintf("test_karchag_%s", strings.ToLower(GenerateName(10)))

	// Open connection to RDBMS
	db, err := sql.Open("postgres", url)
	if err != nil {
		return err
	}

	// Create a new temporary test database
	if _, err := db.Exec("CREATE DATABASE " + m.testDB); err != nil {
		db.Close()
		return err
	}

	// Close first connection and connect to temp database
	db.Close()
	m.DB, err = sql.Open("postgres", fmt.Sprintf(template, m.testDB))
	if err != nil {
		return err
	}

	_, err = migrations.ApplyUp(m.DB)
	return err
}

func (m *TestDBManager) DestroyTestDB() error {
	if m.DB == nil {
		return nil
	}

	// Close temp DB
	if err := m.DB.Close(); err != nil {
		return err
	}

	db, err := sql.Open("postgres", viper.GetString("test.db-url"))
	if err != nil {
		return err
	}
	defer db.Close()

	// Drop test DB
	_, err = db.Exec("DROP DATABASE " + m.testDB)
	return err
}
