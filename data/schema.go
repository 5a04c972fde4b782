package data

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Column - колонка целевой схемы с определениями для каждого диалекта.
type Column struct {
	Name   string
	MySQL  string
	SQLite string
}

// TableSpec - целевая схема таблицы. Порядок колонок важен: новые колонки
// в MySQL добавляются после предыдущей по списку.
type TableSpec struct {
	Name             string
	Columns          []Column
	MySQLConstraints []string
}

// ColumnNames возвращает имена колонок в порядке схемы.
func (t TableSpec) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// UsersTable - схема таблицы пользователей.
var UsersTable = TableSpec{
	Name: "users",
	Columns: []Column{
		{"id", "INT AUTO_INCREMENT PRIMARY KEY", "INTEGER PRIMARY KEY AUTOINCREMENT"},
		{"name", "VARCHAR(100) NOT NULL", "TEXT NOT NULL DEFAULT ''"},
		{"last_name", "VARCHAR(100) NOT NULL", "TEXT NOT NULL DEFAULT ''"},
		{"username", "VARCHAR(100) NOT NULL UNIQUE", "TEXT NOT NULL DEFAULT '' UNIQUE"},
		{"country", "VARCHAR(80) NOT NULL DEFAULT 'Chile'", "TEXT NOT NULL DEFAULT 'Chile'"},
		{"region", "VARCHAR(120) NOT NULL", "TEXT NOT NULL DEFAULT ''"},
		{"commune", "VARCHAR(120) NOT NULL", "TEXT NOT NULL DEFAULT ''"},
		{"sex", "VARCHAR(10) NOT NULL", "TEXT NOT NULL DEFAULT ''"},
		{"birthdate", "DATE NOT NULL", "DATE NOT NULL DEFAULT '1970-01-01'"},
		{"email", "VARCHAR(150) NOT NULL UNIQUE", "TEXT NOT NULL DEFAULT '' UNIQUE"},
		{"password_hash", "VARCHAR(255) NOT NULL", "TEXT NOT NULL DEFAULT ''"},
		{"avatar_url", "VARCHAR(255) NULL", "TEXT NULL"},
		{"created_at", "TIMESTAMP DEFAULT CURRENT_TIMESTAMP", "DATETIME DEFAULT CURRENT_TIMESTAMP"},
	},
}

// NotesTable - схема таблицы заметок. Ссылка на пользователя обнуляется
// при его удалении, заметка остается.
var NotesTable = TableSpec{
	Name: "notes",
	Columns: []Column{
		{"id", "INT AUTO_INCREMENT PRIMARY KEY", "INTEGER PRIMARY KEY AUTOINCREMENT"},
		{"user_id", "INT NULL", "INTEGER NULL REFERENCES users(id) ON DELETE SET NULL ON UPDATE CASCADE"},
		{"title", "VARCHAR(200) NOT NULL", "TEXT NOT NULL DEFAULT ''"},
		{"content", "TEXT", "TEXT"},
		{"image_url", "VARCHAR(255) NULL", "TEXT NULL"},
		{"video_url", "VARCHAR(255) NULL", "TEXT NULL"},
		{"audio_url", "VARCHAR(255) NULL", "TEXT NULL"},
		{"tags", "VARCHAR(255) NULL", "TEXT NULL"},
		{"pinned", "TINYINT(1) DEFAULT 0", "BOOLEAN NOT NULL DEFAULT 0"},
		{"created_at", "TIMESTAMP DEFAULT CURRENT_TIMESTAMP", "DATETIME DEFAULT CURRENT_TIMESTAMP"},
		{"updated_at", "TIMESTAMP NULL DEFAULT NULL ON UPDATE CURRENT_TIMESTAMP", "DATETIME NULL"},
	},
	MySQLConstraints: []string{
		"CONSTRAINT fk_notes_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE SET NULL ON UPDATE CASCADE",
	},
}

// Synchronizer приводит схему БД к целевой: создает таблицы и добавляет
// недостающие колонки. Только добавляет, ничего не удаляет и не меняет.
type Synchronizer struct {
	db  *Database
	log *slog.Logger
}

// NewSynchronizer создает синхронизатор схемы.
func NewSynchronizer(db *Database, log *slog.Logger) *Synchronizer {
	return &Synchronizer{db: db, log: log}
}

// SyncAll синхронизирует все таблицы в порядке внешних ключей.
func (s *Synchronizer) SyncAll(ctx context.Context) error {
	for _, t := range []TableSpec{UsersTable, NotesTable} {
		if err := s.Ensure(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

// Ensure создает таблицу, если ее нет, и добавляет отсутствующие колонки.
// Повторный вызов при совпадающей схеме ничего не меняет.
// При ошибке посередине схема может остаться между версиями; следующий вызов
// продолжит с того же места.
func (s *Synchronizer) Ensure(ctx context.Context, t TableSpec) error {
	if _, err := s.db.ExecContext(ctx, s.db.Dialect.CreateTableSQL(t)); err != nil {
		return fmt.Errorf("Ensure %s: create table: %w", t.Name, err)
	}

	existing, err := s.Columns(ctx, t.Name)
	if err != nil {
		return fmt.Errorf("Ensure %s: %w", t.Name, err)
	}
	present := make(map[string]bool, len(existing))
	for _, name := range existing {
		present[strings.ToLower(name)] = true
	}

	after := ""
	for _, col := range t.Columns {
		if !present[strings.ToLower(col.Name)] {
			ddl := s.db.Dialect.AddColumnSQL(t, col, after)
			if _, err := s.db.ExecContext(ctx, ddl); err != nil {
				return fmt.Errorf("Ensure %s: add column %s: %w", t.Name, col.Name, err)
			}
			s.log.InfoContext(ctx, "schema column added", "table", t.Name, "column", col.Name)
		}
		after = col.Name
	}
	return nil
}

// Columns возвращает имена существующих колонок таблицы.
func (s *Synchronizer) Columns(ctx context.Context, table string) ([]string, error) {
	var names []string
	if err := s.db.SelectContext(ctx, &names, s.db.Dialect.ColumnsQuery(), table); err != nil {
		return nil, fmt.Errorf("list columns of %s: %w", table, err)
	}
	return names, nil
}
