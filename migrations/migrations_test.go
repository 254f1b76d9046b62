package migrations

import (
	"strings"
	"testing"

	migrate "github.com/rubenv/sql-migrate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	ms, err := Source().FindMigrations()
	require.Nil(t, err)
	require.True(t, len(ms) >= 2)
	for i := 1; i < len(ms); i++ {
		assert.True(t, ms[i-1].Id < ms[i].Id, "sorted by name")
	}
	for _, m := range ms {
		assert.NotEmpty(t, m.Up, m.Id)
		assert.NotEmpty(t, m.Down, m.Id)
	}

	// functions with $$ bodies stay a single statement
	var fn string
	for _, m := range ms {
		for _, stmt := range m.Up {
			if strings.Contains(stmt, "FUNCTION audit_logs_username") {
				fn = stmt
			}
		}
	}
	require.NotEmpty(t, fn)
	assert.Equal(t, 2, strings.Count(fn, "$$"))
}

func TestParseAnnotations(t *testing.T) {
	src := `-- +migrate Up
CREATE TABLE a (
  id BIGSERIAL PRIMARY KEY
);
CREATE INDEX a_idx ON a (id);

-- +migrate Down
DROP TABLE a;
`
	m, err := migrate.ParseMigration("x.sql", strings.NewReader(src))
	require.Nil(t, err)
	assert.Len(t, m.Up, 2)
	assert.Len(t, m.Down, 1)
}

func TestApplyDownSteps(t *testing.T) {
	_, err := ApplyDown(nil, 0)
	assert.NotNil(t, err)
}
