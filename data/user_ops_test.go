package data

import (
	"context"
	"strings"
	"testing"
	"time"

	"allnotes_server_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signupRequest(username, email string) models.SignupRequest {
	return models.SignupRequest{
		Name:          "Ana",
		LastName:      "Rojas",
		Username:      username,
		Region:        "Biobío",
		Commune:       "Concepción",
		Sex:           "F",
		Birthdate:     "1990-05-01",
		Email:         email,
		Password:      "s3cret-pass",
		TermsAccepted: true,
	}
}

func newTestUserStore(t *testing.T, opts ...UserStoreOption) *UserStore {
	t.Helper()
	return NewUserStore(openTestDB(t).DB, newTestStorage(t), discardLogger(), opts...)
}

func TestUserStore_CreateStoresHash(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	store := newTestUserStore(t, WithUserClock(func() time.Time { return created }))
	ctx := context.Background()

	id, err := store.Create(ctx, signupRequest("ana", "ana@example.cl"))
	require.NoError(t, err)

	user, err := store.GetByID(ctx, id)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	assert.True(t, strings.HasPrefix(user.PasswordHash, "$2a$10$"), user.PasswordHash)
	assert.True(t, CheckPasswordHash("s3cret-pass", user.PasswordHash))
	assert.Equal(t, models.DefaultCountry, user.Country)
	assert.Equal(t, "1990-05-01", user.Birthdate.Format(models.BirthdateLayout))
	assert.Nil(t, user.AvatarURL)
	assert.True(t, created.Equal(user.CreatedAt), user.CreatedAt)
}

func TestUserStore_CreateValidation(t *testing.T) {
	store := newTestUserStore(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*models.SignupRequest)
	}{
		{"missing email", func(r *models.SignupRequest) { r.Email = "" }},
		{"blank name", func(r *models.SignupRequest) { r.Name = "  " }},
		{"missing commune", func(r *models.SignupRequest) { r.Commune = "" }},
		{"terms not accepted", func(r *models.SignupRequest) { r.TermsAccepted = false }},
		{"bad birthdate", func(r *models.SignupRequest) { r.Birthdate = "01/05/1990" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := signupRequest("ana", "ana@example.cl")
			tt.mutate(&req)
			_, err := store.Create(ctx, req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestUserStore_CreateDuplicate(t *testing.T) {
	store := newTestUserStore(t)
	ctx := context.Background()

	_, err := store.Create(ctx, signupRequest("ana", "ana@example.cl"))
	require.NoError(t, err)

	_, err = store.Create(ctx, signupRequest("ana", "otra@example.cl"))
	assert.ErrorIs(t, err, ErrDuplicate)
	_, err = store.Create(ctx, signupRequest("otra", "ana@example.cl"))
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestUserStore_Authenticate(t *testing.T) {
	store := newTestUserStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx, signupRequest("ana", "ana@example.cl"))
	require.NoError(t, err)

	user, err := store.Authenticate(ctx, "ana@example.cl", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, id, user.ID)

	_, err = store.Authenticate(ctx, "ana@example.cl", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = store.Authenticate(ctx, "nadie@example.cl", "s3cret-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = store.Authenticate(ctx, "", "s3cret-pass")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUserStore_GetByIDNotFound(t *testing.T) {
	store := newTestUserStore(t)
	_, err := store.GetByID(context.Background(), 7)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserStore_UpdateProfile(t *testing.T) {
	store := newTestUserStore(t)
	ctx := context.Background()

	id, err := store.Create(ctx, signupRequest("ana", "ana@example.cl"))
	require.NoError(t, err)
	_, err = store.Create(ctx, signupRequest("beto", "beto@example.cl"))
	require.NoError(t, err)

	user, err := store.UpdateProfile(ctx, id, models.ProfileUpdateRequest{
		Name: "Ana María", LastName: "Rojas", Username: "anamaria", Email: "ana@example.cl",
		Country: "Argentina", Commune: "Talcahuano", Birthdate: "1991-02-03",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana María", user.Name)
	assert.Equal(t, "anamaria", user.Username)
	assert.Equal(t, models.DefaultCountry, user.Country)
	assert.Equal(t, "Biobío", user.Region)
	assert.Equal(t, "Talcahuano", user.Commune)
	assert.Equal(t, "1991-02-03", user.Birthdate.Format(models.BirthdateLayout))

	_, err = store.UpdateProfile(ctx, id, models.ProfileUpdateRequest{
		Name: "Ana", LastName: "Rojas", Username: "beto", Email: "ana@example.cl",
	})
	assert.ErrorIs(t, err, ErrDuplicate)

	_, err = store.UpdateProfile(ctx, id, models.ProfileUpdateRequest{Name: "Ana"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = store.UpdateProfile(ctx, 999, models.ProfileUpdateRequest{
		Name: "X", LastName: "Y", Username: "xy", Email: "xy@example.cl",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserStore_UpdateAvatar(t *testing.T) {
	storage := newTestStorage(t)
	store := NewUserStore(openTestDB(t).DB, storage, discardLogger(), WithAvatarCleanup(true))
	ctx := context.Background()

	id, err := store.Create(ctx, signupRequest("ana", "ana@example.cl"))
	require.NoError(t, err)

	_, err = store.UpdateAvatar(ctx, id, "data:video/mp4;base64,AAAA")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = store.UpdateAvatar(ctx, id, "")
	assert.ErrorIs(t, err, ErrValidation)

	first, err := store.UpdateAvatar(ctx, id, pngDataURL())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first, "/uploads/avatar-"), first)
	assert.True(t, fileExists(uploadPath(storage, first)))

	second, err := store.UpdateAvatar(ctx, id, pngDataURL())
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.False(t, fileExists(uploadPath(storage, first)))

	user, err := store.GetByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, user.AvatarURL)
	assert.Equal(t, second, *user.AvatarURL)

	_, err = store.UpdateAvatar(ctx, id+1, pngDataURL())
	assert.ErrorIs(t, err, ErrNotFound)
}
