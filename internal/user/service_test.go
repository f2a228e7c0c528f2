package user_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck/internal/auth"
	"github.com/taskdeck/taskdeck/internal/config"
	"github.com/taskdeck/taskdeck/internal/user"
	userrepo "github.com/taskdeck/taskdeck/internal/user/repositoryimpl"
	"github.com/taskdeck/taskdeck/pkg/cerr"
	"github.com/taskdeck/taskdeck/pkg/storage"
)

func newService(t *testing.T) (*user.Service, *auth.TokenService) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	tokens := auth.NewTokenService(&config.AuthEnv{JWTSecret: "test-secret", TokenTTL: time.Hour})
	return user.NewService(userrepo.NewYAMLRepository(store), tokens), tokens
}

func TestRegisterIssuesToken(t *testing.T) {
	ctx := context.Background()
	svc, tokens := newService(t)

	u, token, err := svc.Register(ctx, " Alice@Example.COM ", "Alice", "correct horse")
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", u.Email)
	assert.Equal(t, "Alice", u.Name)
	assert.Equal(t, user.RoleMember, u.Role)
	assert.NotEqual(t, "correct horse", u.PasswordHash)

	identity, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, identity.ID)
	assert.Equal(t, u.Email, identity.Email)
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	tests := []struct {
		name     string
		email    string
		userName string
		password string
	}{
		{"bad email", "not-an-email", "Alice", "correct horse"},
		{"empty name", "alice@example.com", "  ", "correct horse"},
		{"short password", "alice@example.com", "Alice", "short"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Register(ctx, tt.email, tt.userName, tt.password)
			require.Error(t, err)
			assert.True(t, cerr.IsCode(err, cerr.InvalidArgument))
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	_, _, err := svc.Register(ctx, "alice@example.com", "Alice", "correct horse")
	require.NoError(t, err)

	// Emails are matched case-insensitively.
	_, _, err = svc.Register(ctx, "ALICE@example.com", "Alice Again", "correct horse")
	require.Error(t, err)
	assert.True(t, cerr.IsCode(err, cerr.AlreadyExists))
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc, tokens := newService(t)

	registered, _, err := svc.Register(ctx, "alice@example.com", "Alice", "correct horse")
	require.NoError(t, err)

	u, token, err := svc.Login(ctx, "alice@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, u.ID)

	identity, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, identity.ID)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	_, _, err := svc.Register(ctx, "alice@example.com", "Alice", "correct horse")
	require.NoError(t, err)

	_, _, wrongPassword := svc.Login(ctx, "alice@example.com", "wrong password")
	require.Error(t, wrongPassword)
	assert.True(t, cerr.IsCode(wrongPassword, cerr.Unauthenticated))

	_, _, unknownEmail := svc.Login(ctx, "bob@example.com", "correct horse")
	require.Error(t, unknownEmail)
	assert.True(t, cerr.IsCode(unknownEmail, cerr.Unauthenticated))

	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	registered, _, err := svc.Register(ctx, "alice@example.com", "Alice", "correct horse")
	require.NoError(t, err)

	summary := svc.Resolve(ctx, registered.ID)
	require.NotNil(t, summary)
	assert.Equal(t, "Alice", summary.Name)
	assert.Equal(t, "alice@example.com", summary.Email)

	// A deleted or never-known account still resolves to a bare id.
	ghost := svc.Resolve(ctx, "ghost-id")
	require.NotNil(t, ghost)
	assert.Equal(t, "ghost-id", ghost.ID)
	assert.Empty(t, ghost.Name)

	assert.Nil(t, svc.Resolve(ctx, ""))
}
