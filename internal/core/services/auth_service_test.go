package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"tienda-console/internal/adapters/api"
	"tienda-console/internal/adapters/persistence/repositories"
	"tienda-console/internal/core/domain"
	"tienda-console/internal/core/query"
	"tienda-console/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthAPI struct {
	login       api.AuthResult
	loginErr    error
	register    api.AuthResult
	loginCalls  int
	registerReq *api.Registration
}

func (f *fakeAuthAPI) Login(context.Context, api.Credentials) (api.AuthResult, error) {
	f.loginCalls++
	return f.login, f.loginErr
}

func (f *fakeAuthAPI) Register(_ context.Context, reg api.Registration) (api.AuthResult, error) {
	f.registerReq = &reg
	return f.register, nil
}

func newAuthFixture(fake *fakeAuthAPI) (*AuthService, *SessionService, context.Context) {
	sessions := NewSessionService(repositories.NewMemoryStore(), logger.Discard())
	cache := query.New(query.Options{Logger: logger.Discard()})
	carts := NewCartService(newFakeCartAPI(), cache, time.Second, logger.Discard())
	return NewAuthService(fake, sessions, carts, logger.Discard()), sessions, WithSessionID(context.Background(), "sid-auth")
}

func adminResult() api.AuthResult {
	return api.AuthResult{
		AccessToken:  "access",
		RefreshToken: "refresh",
		User:         &domain.UserSummary{ID: 1, Nombre: "Ana", Rol: domain.RoleAdmin},
	}
}

func TestLoginStoresSession(t *testing.T) {
	fake := &fakeAuthAPI{login: adminResult()}
	svc, sessions, ctx := newAuthFixture(fake)

	sess, err := svc.Login(ctx, &LoginInput{Username: "ana", Password: "secreto"})
	require.NoError(t, err)
	assert.Equal(t, domain.SessionAdmin, sess.Kind)

	stored, err := sessions.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, stored.Role())
}

func TestLoginWrongPassword(t *testing.T) {
	fake := &fakeAuthAPI{loginErr: &domain.APIError{Status: 401, Message: "Credenciales inválidas"}}
	svc, _, ctx := newAuthFixture(fake)

	_, err := svc.Login(ctx, &LoginInput{Username: "ana", Password: "mala"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginIncompleteAnswer(t *testing.T) {
	fake := &fakeAuthAPI{login: api.AuthResult{AccessToken: "only-access"}}
	svc, sessions, ctx := newAuthFixture(fake)

	_, err := svc.Login(ctx, &LoginInput{Username: "ana", Password: "secreto"})
	var apiErr *domain.APIError
	require.True(t, errors.As(err, &apiErr))

	stored, _ := sessions.Load(ctx)
	assert.False(t, stored.Authenticated())
}

func TestRegisterValidation(t *testing.T) {
	fake := &fakeAuthAPI{}
	svc, _, ctx := newAuthFixture(fake)

	_, err := svc.Register(ctx, &RegisterInput{
		Nombre: "Ana", Apellido: "Gómez", Username: "an",
		Email: "no-es-correo", Password: "123", ConfirmPassword: "456",
	}, true)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	for _, field := range []string{"username", "email", "password", "confirmPassword"} {
		assert.Contains(t, verr.Fields, field)
	}
	assert.Nil(t, fake.registerReq, "invalid forms never reach the backend")
}

func TestRegisterFallsBackToLogin(t *testing.T) {
	user := adminResult()
	user.User.Rol = domain.RoleUser
	fake := &fakeAuthAPI{login: user}
	svc, _, ctx := newAuthFixture(fake)

	sess, err := svc.Register(ctx, &RegisterInput{
		Nombre: "Ana", Apellido: "Gómez", Username: "anag",
		Email: "ana@example.com", Password: "secreto", ConfirmPassword: "secreto",
	}, true)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionUser, sess.Kind)
	assert.Equal(t, 1, fake.loginCalls)
	require.NotNil(t, fake.registerReq)
	assert.Equal(t, "anag", fake.registerReq.Username)
}

func TestRegisterClosed(t *testing.T) {
	svc, _, ctx := newAuthFixture(&fakeAuthAPI{})
	_, err := svc.Register(ctx, &RegisterInput{}, false)
	assert.ErrorIs(t, err, ErrRegistrationClosed)
}

func TestLogoutClearsSession(t *testing.T) {
	fake := &fakeAuthAPI{login: adminResult()}
	svc, sessions, ctx := newAuthFixture(fake)
	_, err := svc.Login(ctx, &LoginInput{Username: "ana", Password: "secreto"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx))
	stored, err := sessions.Load(ctx)
	require.NoError(t, err)
	assert.False(t, stored.Authenticated())
}
