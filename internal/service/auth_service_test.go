package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/helixdesk/helixdesk/internal/auth"
	"github.com/helixdesk/helixdesk/internal/domain"
)

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserRepo) {
	t.Helper()
	hash, err := auth.HashPassword("correct horse", bcrypt.MinCost)
	require.NoError(t, err)

	token := "hx-abcdefghijklmnopqrstuvwxyzABCDEF"
	users := newFakeUserRepo(
		&domain.User{ID: "dev-1", Username: "devin", PasswordHash: hash, Name: "Devin", Role: domain.RoleDeveloper},
		&domain.User{ID: "cust-1", Username: "cleo", Name: "Cleo", Role: domain.RoleCustomer, ClientToken: &token},
	)
	return NewAuthService(users, auth.NewTokenManager("test-secret", 60)), users
}

func TestLogin(t *testing.T) {
	svc, _ := newAuthFixture(t)
	ctx := context.Background()

	session, err := svc.Login(ctx, "devin", "correct horse")
	require.NoError(t, err)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, "dev-1", session.User.ID)
	assert.Empty(t, session.User.PasswordHash)
	assert.True(t, session.ExpiresAt.After(timeNow()))

	_, err = svc.Login(ctx, "devin", "wrong")
	assertCode(t, err, "UNAUTHORIZED")

	_, err = svc.Login(ctx, "nobody", "correct horse")
	assertCode(t, err, "UNAUTHORIZED")

	_, err = svc.Login(ctx, "", "")
	assertCode(t, err, "VALIDATION_FAILED")
}

func TestLoginTokenRoundTrip(t *testing.T) {
	svc, _ := newAuthFixture(t)
	tokens := auth.NewTokenManager("test-secret", 60)

	session, err := svc.Login(context.Background(), "devin", "correct horse")
	require.NoError(t, err)

	claims, err := tokens.ParseToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, "dev-1", claims.UserID)
	assert.Equal(t, domain.RoleDeveloper, claims.Role)
}

func TestLoginAsCustomer(t *testing.T) {
	svc, users := newAuthFixture(t)
	ctx := context.Background()

	session, err := svc.LoginAsCustomer(ctx, "hx-abcdefghijklmnopqrstuvwxyzABCDEF")
	require.NoError(t, err)
	assert.Equal(t, "cust-1", session.User.ID)

	_, err = svc.LoginAsCustomer(ctx, "hx-bogus")
	assertCode(t, err, "UNAUTHORIZED")

	_, err = svc.LoginAsCustomer(ctx, "")
	assertCode(t, err, "VALIDATION_FAILED")

	// A token on a non-customer row never grants access.
	staffToken := "hx-staff-token-should-never-happen00"
	users.users["dev-2"] = domain.User{ID: "dev-2", Role: domain.RoleDeveloper, ClientToken: &staffToken}
	_, err = svc.LoginAsCustomer(ctx, staffToken)
	assertCode(t, err, "UNAUTHORIZED")
}
