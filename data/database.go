package data

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	_ "github.com/go-sql-driver/mysql" // Драйвер MySQL, регистрируется при импорте
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3" // Драйвер SQLite для локальной разработки и тестов
)

// Options - параметры подключения и пула соединений.
type Options struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Database - общий пул подключений вместе с диалектом SQL.
// Создается один раз при старте и передается во все компоненты.
type Database struct {
	*sqlx.DB
	Dialect Dialect
}

// NewDatabase оборачивает готовое подключение (например, sqlmock в тестах).
func NewDatabase(db *sqlx.DB, dialect Dialect) *Database {
	return &Database{DB: db, Dialect: dialect}
}

// Open подключается к БД, настраивает пул и проверяет соединение.
func Open(ctx context.Context, opts Options, log *slog.Logger) (*Database, error) {
	dialect, err := DialectFor(opts.Driver)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.ConnectContext(ctx, opts.Driver, opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", opts.Driver, err)
	}

	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	// SetMaxIdleConns(0) закрыл бы соединение с in-memory SQLite вместе с данными.
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	log.InfoContext(ctx, "database connected", "driver", opts.Driver, "max_open_conns", opts.MaxOpenConns)
	return NewDatabase(db, dialect), nil
}

// Version возвращает версию сервера БД. Используется проверкой состояния.
func (d *Database) Version(ctx context.Context) (string, error) {
	var version string
	if err := d.GetContext(ctx, &version, d.Dialect.VersionQuery()); err != nil {
		return "", fmt.Errorf("query server version: %w", err)
	}
	return version, nil
}

var databaseNamePattern = regexp.MustCompile(`^[A-Za-z0-9_$]+$`)

// CreateMySQLDatabase создает базу name на сервере MySQL, если ее нет.
// serverDSN не должен указывать базу данных.
func CreateMySQLDatabase(ctx context.Context, serverDSN, name string) error {
	if !databaseNamePattern.MatchString(name) {
		return fmt.Errorf("invalid database name %q", name)
	}
	db, err := sqlx.ConnectContext(ctx, DriverMySQL, serverDSN)
	if err != nil {
		return fmt.Errorf("failed to connect to mysql server: %w", err)
	}
	defer db.Close()

	query := fmt.Sprintf("CREATE DATABASE IF NOT EXISTS `%s` CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci", name)
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create database %s: %w", name, err)
	}
	return nil
}
