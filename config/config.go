// Package config собирает настройки сервера: значения по умолчанию,
// затем необязательный TOML-файл, затем переменные окружения.
// Флаги командной строки применяются поверх в main.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/pelletier/go-toml/v2"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// HTTP - параметры HTTP-сервера. Таймауты в секундах.
type HTTP struct {
	Addr                     string   `toml:"addr"`
	ReadHeaderTimeoutSeconds int      `toml:"read_header_timeout_seconds"`
	ReadTimeoutSeconds       int      `toml:"read_timeout_seconds"`
	WriteTimeoutSeconds      int      `toml:"write_timeout_seconds"`
	IdleTimeoutSeconds       int      `toml:"idle_timeout_seconds"`
	ShutdownTimeoutSeconds   int      `toml:"shutdown_timeout_seconds"`
	MaxBodyBytes             int64    `toml:"max_body_bytes"`
	AllowedOrigins           []string `toml:"allowed_origins"`
}

// Database - параметры подключения к БД.
type Database struct {
	Driver                 string `toml:"driver"` // mysql или sqlite3
	Host                   string `toml:"host"`
	Port                   int    `toml:"port"`
	User                   string `toml:"user"`
	Password               string `toml:"password"`
	Name                   string `toml:"name"`
	SQLitePath             string `toml:"sqlite_path"`
	MaxOpenConns           int    `toml:"max_open_conns"`
	MaxIdleConns           int    `toml:"max_idle_conns"`
	ConnMaxLifetimeSeconds int    `toml:"conn_max_lifetime_seconds"`
}

// Media - параметры хранения загруженных файлов.
type Media struct {
	UploadsDir      string `toml:"uploads_dir"`
	CleanupReplaced bool   `toml:"cleanup_replaced"` // удалять замененные и осиротевшие файлы
}

// Session - параметры сессий.
type Session struct {
	TTLHours int `toml:"ttl_hours"`
}

// Log - параметры журнала.
type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // text или json
}

// Config - полная конфигурация сервера.
type Config struct {
	Env      string   `toml:"env"`
	HTTP     HTTP     `toml:"http"`
	Database Database `toml:"database"`
	Media    Media    `toml:"media"`
	Session  Session  `toml:"session"`
	Log      Log      `toml:"log"`
}

// LoadDefaults заполняет Config значениями для локальной разработки.
func (c *Config) LoadDefaults() {
	c.Env = EnvDevelopment
	c.HTTP = HTTP{
		Addr:                     ":3001",
		ReadHeaderTimeoutSeconds: 10,
		ReadTimeoutSeconds:       60,
		WriteTimeoutSeconds:      60,
		IdleTimeoutSeconds:       120,
		ShutdownTimeoutSeconds:   15,
		MaxBodyBytes:             64 << 20,
		AllowedOrigins:           []string{"*"},
	}
	c.Database = Database{
		Driver:                 "mysql",
		Host:                   "localhost",
		Port:                   3306,
		User:                   "root",
		Name:                   "allnotes",
		SQLitePath:             "allnotes.db",
		MaxOpenConns:           10,
		MaxIdleConns:           10,
		ConnMaxLifetimeSeconds: 300,
	}
	c.Media = Media{UploadsDir: "uploads"}
	c.Session = Session{TTLHours: 7 * 24}
	c.Log = Log{Level: "info", Format: "text"}
}

// Load строит Config: значения по умолчанию, файл path (если задан),
// затем переменные окружения. Результат проверяется Validate.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// applyEnv накладывает переменные окружения, совместимые с прежним .env.
func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	str("APP_ENV", &c.Env)
	if _, ok := lookup("APP_ENV"); !ok {
		str("NODE_ENV", &c.Env)
	}
	str("DB_DRIVER", &c.Database.Driver)
	str("DB_HOST", &c.Database.Host)
	str("DB_USER", &c.Database.User)
	str("DB_PASSWORD", &c.Database.Password)
	str("DB_NAME", &c.Database.Name)
	str("SQLITE_PATH", &c.Database.SQLitePath)
	str("UPLOADS_DIR", &c.Media.UploadsDir)
	str("LOG_LEVEL", &c.Log.Level)
	str("LOG_FORMAT", &c.Log.Format)

	if v, ok := lookup("DB_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid DB_PORT %q: %w", v, err)
		}
		c.Database.Port = port
	}
	if v, ok := lookup("PORT"); ok && v != "" {
		if _, err := strconv.Atoi(v); err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.HTTP.Addr = ":" + v
	}
	return nil
}

// Validate проверяет согласованность настроек.
func (c *Config) Validate() error {
	var errs []error
	if c.Env != EnvDevelopment && c.Env != EnvProduction {
		errs = append(errs, fmt.Errorf("env must be %q or %q, got %q", EnvDevelopment, EnvProduction, c.Env))
	}
	if c.HTTP.Addr == "" {
		errs = append(errs, errors.New("http.addr is required"))
	}
	switch c.Database.Driver {
	case "mysql":
		if c.Database.Host == "" || c.Database.Name == "" {
			errs = append(errs, errors.New("database.host and database.name are required for mysql"))
		}
	case "sqlite3":
		if c.Database.SQLitePath == "" {
			errs = append(errs, errors.New("database.sqlite_path is required for sqlite3"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported database.driver %q", c.Database.Driver))
	}
	if c.Database.MaxOpenConns <= 0 {
		errs = append(errs, errors.New("database.max_open_conns must be positive"))
	}
	if c.Media.UploadsDir == "" {
		errs = append(errs, errors.New("media.uploads_dir is required"))
	}
	return errors.Join(errs...)
}

// IsProduction сообщает, запущен ли сервер в production.
func (c *Config) IsProduction() bool { return c.Env == EnvProduction }

// SessionTTL возвращает срок жизни сессии.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Session.TTLHours) * time.Hour
}

// ConnMaxLifetime возвращает максимальное время жизни соединения.
func (c *Config) ConnMaxLifetime() time.Duration {
	return time.Duration(c.Database.ConnMaxLifetimeSeconds) * time.Second
}

// Seconds переводит число секунд из конфигурации в time.Duration.
func Seconds(n int) time.Duration { return time.Duration(n) * time.Second }

// DSN возвращает строку подключения для выбранного драйвера.
func (c *Config) DSN() string {
	if c.Database.Driver == "sqlite3" {
		return c.Database.SQLitePath + "?_foreign_keys=on&_loc=auto"
	}
	return c.mysqlConfig(c.Database.Name).FormatDSN()
}

// ServerDSN возвращает DSN MySQL без имени базы, для ее создания.
func (c *Config) ServerDSN() string {
	return c.mysqlConfig("").FormatDSN()
}

func (c *Config) mysqlConfig(dbName string) *mysql.Config {
	mc := mysql.NewConfig()
	mc.User = c.Database.User
	mc.Passwd = c.Database.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(c.Database.Host, strconv.Itoa(c.Database.Port))
	mc.DBName = dbName
	mc.ParseTime = true
	mc.Loc = time.UTC
	mc.Collation = "utf8mb4_unicode_ci"
	return mc
}
