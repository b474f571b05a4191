package sessions

import (
	"context"
	"database/sql"
	"embed"
	"strings"

	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteKeyValue keeps the key-value area in a sqlite file so a session survives restarts.
type SQLiteKeyValue struct {
	db *sql.DB
}

var _ KeyValue = (*SQLiteKeyValue)(nil)

// OpenSQLiteKeyValue opens (or creates) the database at path and applies the schema migrations.
func OpenSQLiteKeyValue(ctx context.Context, path string) (*SQLiteKeyValue, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("[OpenSQLiteKeyValue] path is required")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "[OpenSQLiteKeyValue] sql.Open")
	}
	// One connection so ":memory:" databases are shared and writes are serialised.
	db.SetMaxOpenConns(1)

	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteKeyValue{db: db}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(gooseLogger{})
	if err := goose.SetDialect("sqlite3"); err != nil {
		return errors.Wrap(err, "[migrate] goose.SetDialect")
	}
	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return errors.Wrap(err, "[migrate] goose.Up")
	}
	return nil
}

func (s *SQLiteKeyValue) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM key_values WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, "[SQLiteKeyValue.Get]")
	}
	return value, true, nil
}

func (s *SQLiteKeyValue) Set(key, value string) error {
	_, err := s.db.Exec(`INSERT INTO key_values (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return errors.Wrap(err, "[SQLiteKeyValue.Set]")
	}
	return nil
}

func (s *SQLiteKeyValue) Remove(keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")
	args := make([]any, len(keys))
	for i, k := range keys {
		args[i] = k
	}
	if _, err := s.db.Exec(`DELETE FROM key_values WHERE key IN (`+placeholders+`)`, args...); err != nil {
		return errors.Wrap(err, "[SQLiteKeyValue.Remove]")
	}
	return nil
}

func (s *SQLiteKeyValue) Close() error {
	return s.db.Close()
}

type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...interface{}) {
	log.Debug().Msgf(strings.TrimSpace(format), v...)
}

func (gooseLogger) Fatalf(format string, v ...interface{}) {
	log.Error().Msgf(strings.TrimSpace(format), v...)
}
