package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"notekeeper/internal/repository/sqlite"
)

func newTestUserService(t *testing.T) (UserService, *sql.DB) {
	t.Helper()

	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := sqlite.NewUserRepository(db)
	require.NoError(t, repo.Init(context.Background()))
	return NewUserService(repo), db
}

func TestUserService_RegisterAndAuthenticate(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "ann", "A@X.com", "p1")
	require.NoError(t, err)
	require.NotZero(t, user.ID)
	require.Equal(t, "a@x.com", user.Email)
	require.Empty(t, user.PasswordHash)

	got, err := svc.Authenticate(ctx, "a@x.com", "p1")
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)

	// email lookup is case-insensitive through normalization
	got, err = svc.Authenticate(ctx, "A@x.COM", "p1")
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)
}

func TestUserService_RegisterValidation(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()

	cases := []struct {
		name     string
		username string
		email    string
		password string
	}{
		{"missing username", "", "a@x.com", "p1"},
		{"missing email", "ann", "", "p1"},
		{"missing password", "ann", "a@x.com", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.username, tc.email, tc.password)
			require.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestUserService_RegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "ann", "a@x.com", "p1")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "ann2", "a@x.com", "p2")
	require.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestUserService_AuthenticateUniformFailure(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "ann", "a@x.com", "p1")
	require.NoError(t, err)

	// unknown email and wrong password must be indistinguishable
	_, errUnknown := svc.Authenticate(ctx, "nobody@x.com", "p1")
	_, errWrong := svc.Authenticate(ctx, "a@x.com", "bad")

	require.ErrorIs(t, errUnknown, ErrInvalidCredentials)
	require.ErrorIs(t, errWrong, ErrInvalidCredentials)
	require.Equal(t, errUnknown.Error(), errWrong.Error())
}

func TestUserService_PasswordStoredHashed(t *testing.T) {
	svc, db := newTestUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "ann", "a@x.com", "p1")
	require.NoError(t, err)

	var stored string
	require.NoError(t, db.QueryRowContext(ctx, `SELECT password_hash FROM users WHERE email = ?`, "a@x.com").Scan(&stored))
	require.NotEqual(t, "p1", stored)
	require.Contains(t, stored, "$2") // bcrypt prefix
}

func TestUserService_GetByIDExcludesCredential(t *testing.T) {
	svc, _ := newTestUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, "ann", "a@x.com", "p1")
	require.NoError(t, err)

	got, err := svc.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "ann", got.Username)
	require.Empty(t, got.PasswordHash)
}
