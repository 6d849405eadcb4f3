package user_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lifeweeks/lifeweeks/internal/test_utils"
	"github.com/lifeweeks/lifeweeks/pkg/user"
	"github.com/lifeweeks/lifeweeks/pkg/weeks"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

var pgContainer *postgres.PostgresContainer
var openDb func() *pgxpool.Pool

func TestMain(m *testing.M) {
	pgContainer, openDb = test_utils.TestWithDB()
	code := m.Run()
	if err := testcontainers.TerminateContainer(pgContainer); err != nil {
		log.Errorf("failed to terminate container: %s", err)
	}
	os.Exit(code)
}

func setupTestRepository(t *testing.T) (context.Context, *user.UserRepoImpl) {
	ctx := context.Background()
	db := openDb()
	t.Cleanup(func() {
		db.Close()
		err := pgContainer.Restore(ctx)
		require.NoError(t, err)
	})
	return ctx, user.NewUserRepo(db)
}

func newUser(username string) user.User {
	dateOfBirth := weeks.DateOf(time.Date(1990, time.June, 15, 0, 0, 0, 0, time.UTC))
	return user.User{
		Uid:           username + "-uid",
		Username:      username,
		DisplayName:   "Display " + username,
		DateOfBirth:   &dateOfBirth,
		LifespanYears: 80,
		Settings:      user.Settings{Timezone: "Europe/Warsaw"},
	}
}

func TestUserRepoImpl_CreateUser(t *testing.T) {
	t.Run("stores all fields", func(t *testing.T) {
		// given
		ctx, repo := setupTestRepository(t)

		// when
		id, err := repo.CreateUser(ctx, newUser("ada"))
		require.NoError(t, err)

		// then
		stored, err := repo.GetUser(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "ada-uid", stored.Uid)
		assert.Equal(t, "ada", stored.Username)
		assert.Equal(t, "Display ada", stored.DisplayName)
		require.NotNil(t, stored.DateOfBirth)
		assert.Equal(t, "1990-06-15", stored.DateOfBirth.String())
		assert.Equal(t, 80, stored.LifespanYears)
		assert.Equal(t, "Europe/Warsaw", stored.Settings.Timezone)
		assert.False(t, stored.IsDeleted())

		byUid, err := repo.GetUserByUid(ctx, "ada-uid")
		require.NoError(t, err)
		assert.Equal(t, id, byUid.Id)
	})

	t.Run("stores a user without birth date", func(t *testing.T) {
		ctx, repo := setupTestRepository(t)
		u := newUser("bob")
		u.DateOfBirth = nil

		id, err := repo.CreateUser(ctx, u)
		require.NoError(t, err)

		stored, err := repo.GetUser(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, stored.DateOfBirth)
	})

	t.Run("rejects duplicate username", func(t *testing.T) {
		ctx, repo := setupTestRepository(t)
		_, err := repo.CreateUser(ctx, newUser("ada"))
		require.NoError(t, err)
		duplicate := newUser("ada")
		duplicate.Uid = "other-uid"

		_, err = repo.CreateUser(ctx, duplicate)

		assert.ErrorIs(t, err, user.ErrUsernameTaken)
	})
}

func TestUserRepoImpl_GetUser_NotFound(t *testing.T) {
	ctx, repo := setupTestRepository(t)

	_, err := repo.GetUser(ctx, 999)
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	_, err = repo.GetUserByUid(ctx, "missing")
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestUserRepoImpl_UpdateUser(t *testing.T) {
	// given
	ctx, repo := setupTestRepository(t)
	id, err := repo.CreateUser(ctx, newUser("ada"))
	require.NoError(t, err)
	dateOfBirth := weeks.DateOf(time.Date(1985, time.December, 10, 0, 0, 0, 0, time.UTC))

	// when
	updated, err := repo.UpdateUser(ctx, id, user.User{
		DisplayName:   "Ada L.",
		DateOfBirth:   &dateOfBirth,
		LifespanYears: 95,
		Settings:      user.Settings{Timezone: "UTC"},
	})

	// then
	require.NoError(t, err)
	assert.Equal(t, "ada", updated.Username)
	assert.Equal(t, "Ada L.", updated.DisplayName)
	assert.Equal(t, "1985-12-10", updated.DateOfBirth.String())
	assert.Equal(t, 95, updated.LifespanYears)
	assert.Equal(t, "UTC", updated.Settings.Timezone)

	_, err = repo.UpdateUser(ctx, 999, updated)
	assert.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestUserRepoImpl_SoftDeleteAndRestore(t *testing.T) {
	ctx, repo := setupTestRepository(t)
	id, err := repo.CreateUser(ctx, newUser("ada"))
	require.NoError(t, err)
	deletedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, repo.SoftDeleteUser(ctx, id, deletedAt))
	assert.ErrorIs(t, repo.SoftDeleteUser(ctx, id, deletedAt), user.ErrUserNotFound)

	stored, err := repo.GetUser(ctx, id)
	require.NoError(t, err)
	require.True(t, stored.IsDeleted())
	assert.True(t, deletedAt.Equal(*stored.DeletedAt))

	_, err = repo.UpdateUser(ctx, id, stored)
	assert.ErrorIs(t, err, user.ErrUserNotFound)

	require.NoError(t, repo.RestoreUser(ctx, id))
	assert.ErrorIs(t, repo.RestoreUser(ctx, id), user.ErrUserNotFound)

	stored, err = repo.GetUser(ctx, id)
	require.NoError(t, err)
	assert.False(t, stored.IsDeleted())
}

func TestUserRepoImpl_ListUsers(t *testing.T) {
	ctx, repo := setupTestRepository(t)
	ids := map[string]int{}
	for _, name := range []string{"alice", "albert", "bob", "carol"} {
		id, err := repo.CreateUser(ctx, newUser(name))
		require.NoError(t, err)
		ids[name] = id
	}
	require.NoError(t, repo.SoftDeleteUser(ctx, ids["carol"], time.Now()))

	tests := []struct {
		name     string
		filter   user.ListFilter
		expected []string
	}{
		{"active users", user.ListFilter{Limit: 10}, []string{"alice", "albert", "bob"}},
		{"including deleted", user.ListFilter{Limit: 10, IncludeDeleted: true}, []string{"alice", "albert", "bob", "carol"}},
		{"search is case insensitive", user.ListFilter{Limit: 10, Search: "AL"}, []string{"alice", "albert"}},
		{"paged", user.ListFilter{Limit: 2, Offset: 1}, []string{"albert", "bob"}},
		{"past the end", user.ListFilter{Limit: 2, Offset: 10}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users, err := repo.ListUsers(ctx, tt.filter)
			require.NoError(t, err)

			usernames := make([]string, 0, len(users))
			for _, u := range users {
				usernames = append(usernames, u.Username)
			}
			assert.Equal(t, tt.expected, usernames)
		})
	}
}

func TestUserRepoImpl_IsUsernameAvailable(t *testing.T) {
	ctx, repo := setupTestRepository(t)
	_, err := repo.CreateUser(ctx, newUser("ada"))
	require.NoError(t, err)

	available, err := repo.IsUsernameAvailable(ctx, "ada")
	require.NoError(t, err)
	assert.False(t, available)

	available, err = repo.IsUsernameAvailable(ctx, "grace")
	require.NoError(t, err)
	assert.True(t, available)
}
