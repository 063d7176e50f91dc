package services

import (
	"context"
	"errors"
	"net/http"

	"tienda-console/internal/adapters/api"
	"tienda-console/internal/core/domain"
	"tienda-console/internal/pkg/validation"

	"github.com/sirupsen/logrus"
)

// Auth errors
var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrRegistrationClosed  = errors.New("registration is disabled")
	errIncompleteAuthReply = &domain.APIError{Status: http.StatusBadGateway, Message: "La respuesta de autenticación está incompleta"}
)

// AuthAPI is the authentication surface of the backend
type AuthAPI interface {
	Login(ctx context.Context, creds api.Credentials) (api.AuthResult, error)
	Register(ctx context.Context, reg api.Registration) (api.AuthResult, error)
}

// AuthService logs sessions in and out
type AuthService struct {
	api      AuthAPI
	sessions *SessionService
	carts    *CartService
	log      logrus.FieldLogger
}

// NewAuthService creates a new auth service
func NewAuthService(authAPI AuthAPI, sessions *SessionService, carts *CartService, log logrus.FieldLogger) *AuthService {
	return &AuthService{
		api:      authAPI,
		sessions: sessions,
		carts:    carts,
		log:      log.WithField("component", "auth"),
	}
}

// LoginInput represents login input
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// RegisterInput represents registration input
type RegisterInput struct {
	Nombre          string `json:"nombre" validate:"required,min=2,max=80"`
	Apellido        string `json:"apellido" validate:"required,min=2,max=80"`
	Username        string `json:"username" validate:"required,min=3,max=50"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

// Login authenticates against the backend and stores the session
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (domain.Session, error) {
	if err := validation.Struct(input); err != nil {
		return domain.Session{}, err
	}

	res, err := s.api.Login(ctx, api.Credentials{Username: input.Username, Password: input.Password})
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			return domain.Session{}, ErrInvalidCredentials
		}
		return domain.Session{}, err
	}

	sess, err := s.store(ctx, res)
	if err != nil {
		return domain.Session{}, err
	}
	s.log.WithFields(logrus.Fields{"user": sess.User.ID, "rol": sess.User.Rol}).Info("✅ user logged in")
	return sess, nil
}

// Register creates an account and logs it in. When the register answer carries
// no tokens the credentials are used for a regular login.
func (s *AuthService) Register(ctx context.Context, input *RegisterInput, allowed bool) (domain.Session, error) {
	if !allowed {
		return domain.Session{}, ErrRegistrationClosed
	}
	if err := validation.Struct(input); err != nil {
		return domain.Session{}, err
	}

	res, err := s.api.Register(ctx, api.Registration{
		Nombre:   input.Nombre,
		Apellido: input.Apellido,
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		return domain.Session{}, err
	}
	s.log.WithField("username", input.Username).Info("✅ user registered")

	if res.AccessToken == "" || res.RefreshToken == "" || res.User == nil {
		return s.Login(ctx, &LoginInput{Username: input.Username, Password: input.Password})
	}
	return s.store(ctx, res)
}

func (s *AuthService) store(ctx context.Context, res api.AuthResult) (domain.Session, error) {
	if res.AccessToken == "" || res.RefreshToken == "" || res.User == nil || !res.User.Rol.Valid() {
		return domain.Session{}, errIncompleteAuthReply
	}
	kind := domain.SessionUser
	if res.User.Rol == domain.RoleAdmin {
		kind = domain.SessionAdmin
	}
	sess := domain.Session{
		Kind:         kind,
		AccessToken:  res.AccessToken,
		RefreshToken: res.RefreshToken,
		User:         res.User,
	}
	if err := s.sessions.Save(ctx, sess); err != nil {
		return domain.Session{}, err
	}
	return sess, nil
}

// Logout forgets the local session; the backend keeps no session to end
func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.sessions.Clear(ctx); err != nil {
		return err
	}
	if sid, ok := SessionIDFrom(ctx); ok && s.carts != nil {
		s.carts.Forget(sid)
	}
	return nil
}

// Current returns the validated session of the request
func (s *AuthService) Current(ctx context.Context) (domain.Session, error) {
	return s.sessions.Load(ctx)
}
