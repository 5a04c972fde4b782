package data

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"allnotes_server_go/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapDBError(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'ana' for key 'username'"}
	assert.ErrorIs(t, mapDBError(dup), ErrDuplicate)
	assert.ErrorIs(t, mapDBError(fmt.Errorf("insert: %w", dup)), ErrDuplicate)

	other := &mysql.MySQLError{Number: 1146, Message: "Table doesn't exist"}
	assert.Same(t, other, mapDBError(other))
	assert.NoError(t, mapDBError(nil))
	assert.False(t, IsDuplicate(errors.New("boom")))
}

func TestMapDBError_SQLiteUnique(t *testing.T) {
	db := openTestDB(t)
	_, err := db.Exec(`INSERT INTO users (name, email) VALUES ('a', 'same@example.cl')`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO users (name, username, email) VALUES ('b', 'other', 'same@example.cl')`)
	require.Error(t, err)

	assert.True(t, IsDuplicate(mapDBError(err)))
}

func TestValidationError(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", validationf("title is required"))
	assert.ErrorIs(t, err, ErrValidation)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "title is required", ve.Msg)
}

func TestUserStoreCreate_MySQLDuplicate(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	mock.ExpectExec(`INSERT INTO users`).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'ana@example.cl' for key 'email'"})

	store := NewUserStore(sqlx.NewDb(mockDB, DriverMySQL), nil, discardLogger())
	_, err = store.Create(context.Background(), models.SignupRequest{
		Name: "Ana", LastName: "Rojas", Username: "ana", Region: "RM", Commune: "Ñuñoa",
		Sex: "F", Birthdate: "1990-05-01", Email: "ana@example.cl", Password: "pw", TermsAccepted: true,
	})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}
