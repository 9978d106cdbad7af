package storage_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/martynshik/event-manager/internal/migrations"
	"github.com/martynshik/event-manager/internal/models"
	"github.com/martynshik/event-manager/internal/storage"
)

func setupStorage(t *testing.T) *storage.Storage {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	st, err := storage.New(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.DB.Close() })

	migrationsPath, err := filepath.Abs("../../migrations")
	require.NoError(t, err)
	require.NoError(t, migrations.Run(st.DB, migrationsPath))

	return st
}

func registerTestUser(t *testing.T, st *storage.Storage, email, role string) string {
	t.Helper()
	uid, err := st.RegisterUser(context.Background(), models.User{
		Name:         "test user",
		Email:        email,
		PasswordHash: "$2a$10$fakefakefakefakefakefake",
		Role:         role,
	})
	require.NoError(t, err)
	return uid
}

func TestStorage_RegisterUser(t *testing.T) {
	st := setupStorage(t)
	ctx := context.Background()

	uid := registerTestUser(t, st, "first@example.com", "admin")
	assert.NotEmpty(t, uid)

	got, err := st.GetUserByEmail(ctx, "first@example.com")
	require.NoError(t, err)
	assert.Equal(t, uid, got.UID)
	assert.Equal(t, "admin", got.Role)

	// Повторная регистрация с тем же email должна упереться в уникальный индекс.
	_, err = st.RegisterUser(ctx, models.User{
		Name:         "someone else",
		Email:        "first@example.com",
		PasswordHash: "$2a$10$fakefakefakefakefakefake",
		Role:         "user",
	})
	assert.ErrorIs(t, err, storage.ErrEmailTaken)
}

func TestStorage_GetUserByEmail_NotFound(t *testing.T) {
	st := setupStorage(t)

	_, err := st.GetUserByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}

func TestStorage_EventCRUD(t *testing.T) {
	st := setupStorage(t)
	ctx := context.Background()

	uid := registerTestUser(t, st, "owner@example.com", "admin")
	date, _ := time.Parse("2006-01-02", "2025-03-01")

	id, err := st.CreateEvent(ctx, models.Event{
		Title:       "Annual Gala",
		Description: "Yearly fundraiser",
		Date:        date,
		UserUID:     &uid,
	})
	require.NoError(t, err)
	assert.Greater(t, id, 0)

	got, err := st.ReadEvent(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Annual Gala", got.Title)
	require.NotNil(t, got.UserUID)
	assert.Equal(t, uid, *got.UserUID)

	count, err := st.UpdateEvent(ctx, models.Event{
		Title:       "Annual Gala 2025",
		Description: "Yearly fundraiser, updated",
		Date:        date.AddDate(0, 0, 1),
	}, id)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err = st.ReadEvent(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Annual Gala 2025", got.Title)

	deleted, err := st.RemoveEvent(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	// Удаление безвозвратное: записи больше нет.
	_, err = st.ReadEvent(ctx, id)
	assert.ErrorIs(t, err, storage.ErrEventNotFound)
}

func TestStorage_UpdateEvent_MissingID(t *testing.T) {
	st := setupStorage(t)

	count, err := st.UpdateEvent(context.Background(), models.Event{
		Title:       "Ghost event",
		Description: "does not exist",
		Date:        time.Now(),
	}, 12345)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestStorage_ListEvents_Pagination(t *testing.T) {
	st := setupStorage(t)
	ctx := context.Background()

	uid := registerTestUser(t, st, "pager@example.com", "admin")
	date, _ := time.Parse("2006-01-02", "2025-06-15")
	for i := 0; i < 15; i++ {
		_, err := st.CreateEvent(ctx, models.Event{
			Title:       "Listed event",
			Description: "pagination fixture",
			Date:        date,
			UserUID:     &uid,
		})
		require.NoError(t, err)
	}

	page, err := st.ListEvents(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, page, 10)

	rest, err := st.ListEvents(ctx, 10, 10)
	require.NoError(t, err)
	assert.Len(t, rest, 5)
}

func TestStorage_Tokens_BulkRevoke(t *testing.T) {
	st := setupStorage(t)
	ctx := context.Background()

	uid := registerTestUser(t, st, "sessions@example.com", "user")

	jtis := []string{
		"0b6bd95e-0000-4000-8000-000000000001",
		"0b6bd95e-0000-4000-8000-000000000002",
		"0b6bd95e-0000-4000-8000-000000000003",
	}
	for _, jti := range jtis {
		_, err := st.SaveToken(ctx, models.AccessToken{
			UserUID: uid,
			Name:    "sessions@example.com",
			JTI:     jti,
		})
		require.NoError(t, err)
	}

	exists, err := st.TokenExists(ctx, jtis[0])
	require.NoError(t, err)
	assert.True(t, exists)

	listed, err := st.ListTokenJTIs(ctx, uid)
	require.NoError(t, err)
	assert.ElementsMatch(t, jtis, listed)

	deleted, err := st.DeleteUserTokens(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, len(jtis), deleted)

	for _, jti := range jtis {
		exists, err = st.TokenExists(ctx, jti)
		require.NoError(t, err)
		assert.False(t, exists)
	}
}
