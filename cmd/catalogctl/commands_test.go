package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-catalog/internal/domains/user/model"
	"library-catalog/internal/domains/user/repository"
	"library-catalog/internal/infrastructure/database"
)

// useSQLite points the commands at a fresh SQLite file and returns its path.
func useSQLite(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "catalog.db")
	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_DRIVER", database.DialectSQLite)
	t.Setenv("DB_SQLITE_PATH", path)
	t.Setenv("REDIS_ENABLED", "false")
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// lookupUser reads a user straight from the database file.
func lookupUser(t *testing.T, path, username string) *model.User {
	t.Helper()

	db, err := database.OpenSQLite(path)
	require.NoError(t, err)
	store := database.NewStore(db, database.DialectSQLite)
	defer store.Close()

	u, err := repository.NewSQLRepository(store).GetByUsername(context.Background(), username)
	require.NoError(t, err)
	return u
}

func createSuperuser(t *testing.T, username string) {
	t.Helper()

	out, err := execute(t, "createsuperuser",
		"--username", username,
		"--email", username+"@example.com",
		"--first-name", "Head",
		"--last-name", "Librarian",
		"--password", "administrator",
	)
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("Superuser %q created.\n", username), out)
}

func TestMigrate(t *testing.T) {
	useSQLite(t)

	out, err := execute(t, "migrate")
	require.NoError(t, err)
	assert.Equal(t, "Schema is up to date (sqlite).\n", out)

	// Running it again is harmless.
	_, err = execute(t, "migrate")
	assert.NoError(t, err)
}

func TestCreateSuperuser(t *testing.T) {
	path := useSQLite(t)

	createSuperuser(t, "admin")

	u := lookupUser(t, path, "admin")
	assert.True(t, u.IsStaff)
	assert.Equal(t, "admin@example.com", u.Email)
	assert.Equal(t, "Head", u.FirstName)
	assert.NotEqual(t, "administrator", u.PasswordHash)
}

func TestCreateSuperuser_ReportsFieldErrors(t *testing.T) {
	useSQLite(t)

	_, err := execute(t, "createsuperuser", "--username", "admin", "--email", "not-an-email", "--password", "short")
	require.Error(t, err)
	assert.Equal(t, "email: enter a valid email address\npassword: password must be 8-128 characters", err.Error())

	createSuperuser(t, "admin")

	_, err = execute(t, "createsuperuser", "--username", "admin", "--email", "other@example.com", "--password", "administrator")
	require.Error(t, err)
	assert.Equal(t, "username: "+model.ErrUsernameTaken.Error(), err.Error())
}

func TestCreateSuperuser_RequiresFlags(t *testing.T) {
	useSQLite(t)

	_, err := execute(t, "createsuperuser", "--password", "administrator")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "username")
	assert.Contains(t, err.Error(), "email")
}

func TestPromoteAndRevoke(t *testing.T) {
	path := useSQLite(t)
	createSuperuser(t, "admin")

	out, err := execute(t, "promote", "admin", "--revoke")
	require.NoError(t, err)
	assert.Equal(t, "admin is no longer staff.\n", out)
	assert.False(t, lookupUser(t, path, "admin").IsStaff)

	out, err = execute(t, "promote", "admin")
	require.NoError(t, err)
	assert.Equal(t, "admin is now staff.\n", out)
	assert.True(t, lookupUser(t, path, "admin").IsStaff)
}

func TestPromote_UnknownUser(t *testing.T) {
	useSQLite(t)

	_, err := execute(t, "promote", "ghost")
	require.Error(t, err)
	assert.Equal(t, `user "ghost" does not exist`, err.Error())

	_, err = execute(t, "promote")
	assert.Error(t, err)
}

func TestDescribe(t *testing.T) {
	err := describe(validation.Errors{
		"username": errors.New("this username is already taken"),
		"email":    errors.New("enter a valid email address"),
	})
	assert.Equal(t, "email: enter a valid email address\nusername: this username is already taken", err.Error())

	plain := errors.New("database is locked")
	assert.Same(t, plain, describe(plain))
}
