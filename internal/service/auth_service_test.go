package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

func newAuthService(t *testing.T) (*AuthService, *repository.MemoryStore) {
	t.Helper()
	store := repository.NewMemoryStore()
	cfg := config.Config{Auth: config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 15,
		BcryptCost:            bcrypt.MinCost,
	}}
	return NewAuthService(cfg, AuthDependencies{CustomerRepo: store.Customers(), AdminRepo: store.Admins()}), store
}

func TestRegisterAndLoginCustomer(t *testing.T) {
	svc, store := newAuthService(t)
	ctx := context.Background()

	session, err := svc.RegisterCustomer(ctx, " Cleo ", "Cleo@Desk.test", "password123")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCustomer, session.Identity.Role)
	assert.Equal(t, "cleo@desk.test", session.Email)
	assert.Equal(t, "Cleo", session.Name)

	identity, err := svc.Tokens().ParseToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.Identity, identity)

	stored, err := store.Customers().GetByID(ctx, identity.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "password123", stored.PasswordHash)

	login, err := svc.LoginCustomer(ctx, "cleo@desk.test", "password123")
	require.NoError(t, err)
	assert.Equal(t, identity.ID, login.Identity.ID)

	_, err = svc.RegisterCustomer(ctx, "Other", "CLEO@desk.test", "password456")
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.RegisterCustomer(ctx, "Cleo", "cleo@desk.test", "password123")
	require.NoError(t, err)

	_, wrongPassword := svc.LoginCustomer(ctx, "cleo@desk.test", "nope-nope")
	_, unknownEmail := svc.LoginCustomer(ctx, "ghost@desk.test", "password123")
	require.Error(t, wrongPassword)
	require.Error(t, unknownEmail)
	assert.Equal(t, apperrors.ToDomainError(wrongPassword).Message, apperrors.ToDomainError(unknownEmail).Message)
	assert.True(t, apperrors.IsKind(wrongPassword, apperrors.KindAuthentication))

	_, err = svc.LoginAdmin(ctx, "cleo@desk.test", "password123")
	assert.True(t, apperrors.IsKind(err, apperrors.KindAuthentication))
}

func TestCreateAdminAndLogin(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	admin, err := svc.CreateAdmin(ctx, "Ada", "ada@desk.test", "correct-horse")
	require.NoError(t, err)
	assert.Positive(t, admin.ID)

	session, err := svc.LoginAdmin(ctx, "ADA@desk.test", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, session.Identity.Role)
	assert.Equal(t, admin.ID, session.Identity.ID)

	_, err = svc.CreateAdmin(ctx, "Ada", "ada@desk.test", "correct-horse")
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = svc.CreateAdmin(ctx, "Short", "short@desk.test", "1234")
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	first, created, err := svc.EnsureAdmin(ctx, "Root", "Root@Desk.test", "correct-horse")
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := svc.EnsureAdmin(ctx, "Root again", "root@desk.test", "another-password")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	session, err := svc.LoginAdmin(ctx, "root@desk.test", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, first.ID, session.Identity.ID)

	_, _, err = svc.EnsureAdmin(ctx, "Weak", "weak@desk.test", "short")
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}
