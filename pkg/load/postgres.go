package load

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"

	"article-etl/pkg/dataset"
)

// InsertMode controls what happens when the target table already exists.
type InsertMode string

const (
	// Append inserts into the existing table.
	Append InsertMode = "append"
	// Replace drops and recreates the table before inserting.
	Replace InsertMode = "replace"
)

// PostgresClient is a thin wrapper around a sql.DB handle for the
// reference/lookup sink.
type PostgresClient struct {
	db  *sql.DB
	dsn string
}

// NewPostgresClient constructs a client for the given DSN. Connect must be
// called before use.
func NewPostgresClient(dsn string) *PostgresClient {
	return &PostgresClient{dsn: dsn}
}

// Connect initializes the underlying sql.DB handle and verifies
// connectivity.
func (c *PostgresClient) Connect(ctx context.Context) error {
	if c.dsn == "" {
		return fmt.Errorf("postgres DSN is required")
	}

	db, err := sql.Open("pgx", c.dsn)
	if err != nil {
		return fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("ping postgres: %w", err)
	}

	c.db = db
	return nil
}

// Close closes the underlying sql.DB handle.
func (c *PostgresClient) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// ExecFile executes an entire SQL file (schema creation, seeds).
func (c *PostgresClient) ExecFile(ctx context.Context, path string) error {
	script, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read SQL file %s: %w", path, err)
	}
	if _, err := c.db.ExecContext(ctx, string(script)); err != nil {
		return fmt.Errorf("execute SQL file %s: %w", path, err)
	}
	return nil
}

// InsertTable writes a dataset table into the named database table. Replace
// mode drops and recreates the table with all-text columns; append mode
// inserts into the existing table. The whole operation runs in one
// transaction.
func (c *PostgresClient) InsertTable(ctx context.Context, t *dataset.Table, tableName string, mode InsertMode) error {
	columns := t.Columns()
	if len(columns) == 0 {
		return fmt.Errorf("table for %s has no columns", tableName)
	}

	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if mode == Replace {
		if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quoteIdent(tableName)); err != nil {
			return fmt.Errorf("drop table %s: %w", tableName, err)
		}
		if _, err := tx.ExecContext(ctx, createTableSQL(tableName, columns)); err != nil {
			return fmt.Errorf("create table %s: %w", tableName, err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, insertSQL(tableName, columns))
	if err != nil {
		return fmt.Errorf("prepare insert for %s: %w", tableName, err)
	}
	defer stmt.Close()

	for r := 0; r < t.Len(); r++ {
		values := make([]any, len(columns))
		for i, col := range columns {
			values[i] = t.Get(r, col)
		}
		if _, err := stmt.ExecContext(ctx, values...); err != nil {
			return fmt.Errorf("insert into %s: %w", tableName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit insert into %s: %w", tableName, err)
	}
	return nil
}

// createTableSQL builds an all-text CREATE TABLE statement for replace mode.
func createTableSQL(tableName string, columns []string) string {
	defs := make([]string, len(columns))
	for i, col := range columns {
		defs[i] = quoteIdent(col) + " TEXT"
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(tableName), strings.Join(defs, ", "))
}

// insertSQL builds a positional-placeholder INSERT statement.
func insertSQL(tableName string, columns []string) string {
	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = quoteIdent(col)
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(tableName), strings.Join(quoted, ", "), strings.Join(placeholders, ", "))
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
