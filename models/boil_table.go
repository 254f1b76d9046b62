package models

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/sqlboiler/v4/boil"
	"github.com/volatiletech/sqlboiler/v4/queries"
	"github.com/volatiletech/sqlboiler/v4/queries/qm"
	"github.com/volatiletech/strmangle"
)

// Query is a query against a single table whose rows bind into T.
type Query[T any] struct {
	*queries.Query
	table string
}

func newTableQuery[T any](table string, mods []qm.QueryMod) Query[T] {
	mods = append(mods, qm.From(quoteIdent(table)))
	q := NewQuery(mods...)
	if len(queries.GetSelect(q)) == 0 {
		queries.SetSelect(q, []string{quoteIdent(table) + ".*"})
	}

	return Query[T]{Query: q, table: table}
}

// One returns a single row from the query.
// Returns sql.ErrNoRows when nothing matches.
func (q Query[T]) One(ctx context.Context, exec boil.ContextExecutor) (*T, error) {
	o := new(T)

	queries.SetLimit(q.Query, 1)

	err := q.Bind(ctx, exec, o)
	if err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, errors.Wrapf(err, "models: failed to execute a one query for %s", q.table)
	}

	return o, nil
}

// All returns all rows from the query.
func (q Query[T]) All(ctx context.Context, exec boil.ContextExecutor) ([]*T, error) {
	var o []*T

	err := q.Bind(ctx, exec, &o)
	if err != nil {
		return nil, errors.Wrapf(err, "models: failed to assign all query results to %s slice", q.table)
	}

	return o, nil
}

// Count returns the count of all rows matching the query.
// Don't pass ordering or paging mods to a counted query.
func (q Query[T]) Count(ctx context.Context, exec boil.ContextExecutor) (int64, error) {
	var count int64

	queries.SetSelect(q.Query, nil)
	queries.SetCount(q.Query)

	err := q.Query.QueryRowContext(ctx, exec).Scan(&count)
	if err != nil {
		return 0, errors.Wrapf(err, "models: failed to count %s rows", q.table)
	}

	return count, nil
}

// Exists checks if the row exists in the table.
func (q Query[T]) Exists(ctx context.Context, exec boil.ContextExecutor) (bool, error) {
	var count int64

	queries.SetSelect(q.Query, nil)
	queries.SetCount(q.Query)
	queries.SetLimit(q.Query, 1)

	err := q.Query.QueryRowContext(ctx, exec).Scan(&count)
	if err != nil {
		return false, errors.Wrapf(err, "models: failed to check if %s exists", q.table)
	}

	return count > 0, nil
}

// DeleteAll deletes all matching rows.
func (q Query[T]) DeleteAll(ctx context.Context, exec boil.ContextExecutor) (int64, error) {
	queries.SetDelete(q.Query)

	result, err := q.Query.ExecContext(ctx, exec)
	if err != nil {
		return 0, errors.Wrapf(err, "models: unable to delete all from %s", q.table)
	}

	rowsAff, err := result.RowsAffected()
	if err != nil {
		return 0, errors.Wrapf(err, "models: failed to get rows affected by deleteall for %s", q.table)
	}

	return rowsAff, nil
}

func quoteIdent(s string) string {
	return `"` + s + `"`
}

func now() time.Time {
	return time.Now().In(boil.GetLocation())
}

// insertRow inserts the given column values and binds the stored row back into o.
func insertRow(ctx context.Context, exec boil.ContextExecutor, table string, cols []string, vals []interface{}, o interface{}) error {
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING *",
		quoteIdent(table),
		strings.Join(strmangle.IdentQuoteSlice('"', '"', cols), ","),
		strmangle.Placeholders(dialect.UseIndexPlaceholders, len(cols), 1, 1))

	if boil.DebugMode {
		fmt.Fprintln(boil.DebugWriter, query)
		fmt.Fprintln(boil.DebugWriter, vals)
	}

	err := queries.Raw(query, vals...).Bind(ctx, exec, o)
	return errors.Wrapf(err, "models: unable to insert into %s", table)
}

// updateRow updates the given columns of the row with this id and binds the stored row back into o.
func updateRow(ctx context.Context, exec boil.ContextExecutor, table string, id int64, cols []string, vals []interface{}, o interface{}) error {
	query := fmt.Sprintf("UPDATE %s SET %s WHERE \"id\"=$%d RETURNING *",
		quoteIdent(table),
		strmangle.SetParamNames("\"", "\"", 1, cols),
		len(cols)+1)
	args := append(vals, id)

	if boil.DebugMode {
		fmt.Fprintln(boil.DebugWriter, query)
		fmt.Fprintln(boil.DebugWriter, args)
	}

	err := queries.Raw(query, args...).Bind(ctx, exec, o)
	if err != nil {
		if errors.Cause(err) == sql.ErrNoRows {
			return sql.ErrNoRows
		}
		return errors.Wrapf(err, "models: unable to update %s row", table)
	}

	return nil
}

// deleteRow deletes the row with this id.
func deleteRow(ctx context.Context, exec boil.ContextExecutor, table string, id int64) (int64, error) {
	query := fmt.Sprintf("DELETE FROM %s WHERE \"id\"=$1", quoteIdent(table))

	if boil.DebugMode {
		fmt.Fprintln(boil.DebugWriter, query)
		fmt.Fprintln(boil.DebugWriter, id)
	}

	result, err := exec.ExecContext(ctx, query, id)
	if err != nil {
		return 0, errors.Wrapf(err, "models: unable to delete from %s", table)
	}

	rowsAff, err := result.RowsAffected()
	if err != nil {
		return 0, errors.Wrapf(err, "models: failed to get rows affected by delete for %s", table)
	}

	return rowsAff, nil
}
