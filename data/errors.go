package data

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound возвращается, когда запись не найдена.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate возвращается при нарушении уникальности (username, email).
	ErrDuplicate = errors.New("duplicate entry")
	// ErrValidation - базовая ошибка для некорректных входных данных.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidCredentials - неверный email или пароль. Не уточняет, что именно.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// mysqlDuplicateEntry - код ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// ValidationError описывает некорректное поле запроса.
// errors.Is(err, ErrValidation) для нее истинно.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Is реализует сравнение с ErrValidation.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsDuplicate сообщает, является ли ошибка нарушением уникального ключа.
func IsDuplicate(err error) bool { return errors.Is(err, ErrDuplicate) }

// mapDBError переводит ошибки драйверов в ошибки пакета.
// Нарушение уникальности (MySQL 1062, SQLite UNIQUE) становится ErrDuplicate,
// остальные ошибки возвращаются как есть.
func mapDBError(err error) error {
	if err == nil {
		return nil
	}

	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == mysqlDuplicateEntry {
		return fmt.Errorf("%w: %s", ErrDuplicate, me.Message)
	}

	var se sqlite3.Error
	if errors.As(err, &se) && se.Code == sqlite3.ErrConstraint &&
		(se.ExtendedCode == sqlite3.ErrConstraintUnique || se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey) {
		return fmt.Errorf("%w: %s", ErrDuplicate, se.Error())
	}

	return err
}
