package data

import (
	"fmt"
	"strings"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite3"
)

// Dialect скрывает различия DDL и служебных запросов между MySQL и SQLite.
// Запросы к данным пишутся на общем подмножестве SQL и в диалект не входят.
type Dialect interface {
	// Name возвращает имя драйвера database/sql.
	Name() string
	// CreateTableSQL строит CREATE TABLE IF NOT EXISTS с полной целевой схемой.
	CreateTableSQL(t TableSpec) string
	// AddColumnSQL строит ALTER TABLE ... ADD COLUMN. after - имя предыдущей
	// колонки в целевой схеме, пустое для первой.
	AddColumnSQL(t TableSpec, col Column, after string) string
	// ColumnsQuery возвращает запрос имен существующих колонок; единственный
	// аргумент - имя таблицы.
	ColumnsQuery() string
	// VersionQuery возвращает запрос версии сервера БД.
	VersionQuery() string
}

// DialectFor возвращает диалект для имени драйвера.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case DriverMySQL:
		return mysqlDialect{}, nil
	case DriverSQLite:
		return sqliteDialect{}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

type mysqlDialect struct{}

func (mysqlDialect) Name() string { return DriverMySQL }

func (mysqlDialect) CreateTableSQL(t TableSpec) string {
	defs := make([]string, 0, len(t.Columns)+len(t.MySQLConstraints))
	for _, c := range t.Columns {
		defs = append(defs, c.Name+" "+c.MySQL)
	}
	defs = append(defs, t.MySQLConstraints...)
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n) ENGINE=InnoDB", t.Name, strings.Join(defs, ",\n  "))
}

func (mysqlDialect) AddColumnSQL(t TableSpec, col Column, after string) string {
	position := "FIRST"
	if after != "" {
		position = "AFTER " + after
	}
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s %s", t.Name, col.Name, col.MySQL, position)
}

func (mysqlDialect) ColumnsQuery() string {
	return `SELECT COLUMN_NAME FROM INFORMATION_SCHEMA.COLUMNS WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ?`
}

func (mysqlDialect) VersionQuery() string { return `SELECT VERSION()` }

type sqliteDialect struct{}

func (sqliteDialect) Name() string { return DriverSQLite }

func (sqliteDialect) CreateTableSQL(t TableSpec) string {
	defs := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		defs = append(defs, c.Name+" "+c.SQLite)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n)", t.Name, strings.Join(defs, ",\n  "))
}

// AddColumnSQL для SQLite: позиционирования нет, а ADD COLUMN не допускает
// UNIQUE и непостоянных значений по умолчанию, поэтому они отбрасываются.
func (sqliteDialect) AddColumnSQL(t TableSpec, col Column, _ string) string {
	def := strings.ReplaceAll(col.SQLite, " UNIQUE", "")
	def = strings.ReplaceAll(def, " DEFAULT CURRENT_TIMESTAMP", "")
	return fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", t.Name, col.Name, def)
}

func (sqliteDialect) ColumnsQuery() string {
	return `SELECT name FROM pragma_table_info(?)`
}

func (sqliteDialect) VersionQuery() string { return `SELECT sqlite_version()` }
