package services

import (
	"context"
	"errors"
	"time"

	"tienda-console/internal/core/domain"
	"tienda-console/internal/core/query"
	"tienda-console/internal/pkg/validation"

	"github.com/sirupsen/logrus"
)

// User service errors
var (
	ErrCannotDeleteSelf    = errors.New("cannot delete your own account")
	ErrCannotChangeOwnRole = errors.New("cannot change your own role")
)

// UserAPI is the user surface of the backend
type UserAPI interface {
	ListUsers(ctx context.Context, filter domain.UserFilter) ([]domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	CreateUser(ctx context.Context, in domain.UserInput) (*domain.User, error)
	UpdateUser(ctx context.Context, id int64, in domain.UserInput) (*domain.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// UserService handles user management and the own profile
type UserService struct {
	api       UserAPI
	cache     *query.Cache
	staleTime time.Duration
	log       logrus.FieldLogger
}

// NewUserService creates a new user service
func NewUserService(api UserAPI, cache *query.Cache, staleTime time.Duration, log logrus.FieldLogger) *UserService {
	return &UserService{api: api, cache: cache, staleTime: staleTime, log: log.WithField("component", "users")}
}

// List filters on the server by search term and role
func (s *UserService) List(ctx context.Context, filter domain.UserFilter) ([]domain.User, error) {
	if filter.Rol != "" && !filter.Rol.Valid() {
		return nil, domain.NewValidationError("rol", "Rol no válido")
	}
	return query.Fetch(ctx, s.cache, query.Key{qUsers, filter}, func(ctx context.Context) ([]domain.User, error) {
		return s.api.ListUsers(ctx, filter)
	}, query.StaleTime(s.staleTime))
}

func (s *UserService) Get(ctx context.Context, id int64) (*domain.User, error) {
	return query.Fetch(ctx, s.cache, query.Key{qUser, id}, func(ctx context.Context) (*domain.User, error) {
		return s.api.GetUser(ctx, id)
	}, query.StaleTime(s.staleTime))
}

// Create requires a password on top of the form rules
func (s *UserService) Create(ctx context.Context, in domain.UserInput) (*domain.User, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if in.Password == "" {
		return nil, domain.NewValidationError("password", "El campo 'password' es obligatorio.")
	}
	user, err := s.api.CreateUser(ctx, in)
	if err != nil {
		return nil, err
	}
	s.invalidate(user.ID)
	s.log.WithField("user", user.ID).Info("✅ user created")
	return user, nil
}

// Update edits a user on behalf of actor; admins cannot demote themselves
func (s *UserService) Update(ctx context.Context, actor domain.UserSummary, id int64, in domain.UserInput) (*domain.User, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if actor.ID == id && in.Rol != actor.Rol {
		return nil, ErrCannotChangeOwnRole
	}
	user, err := s.api.UpdateUser(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.invalidate(id)
	return user, nil
}

// UpdateProfile edits the actor's own account keeping its role
func (s *UserService) UpdateProfile(ctx context.Context, actor domain.UserSummary, in domain.UserInput) (*domain.User, error) {
	in.Rol = actor.Rol
	return s.Update(ctx, actor, actor.ID, in)
}

// Delete removes a user; confirmed must be true and nobody deletes themselves
func (s *UserService) Delete(ctx context.Context, actor domain.UserSummary, id int64, confirmed bool) error {
	if actor.ID == id {
		return ErrCannotDeleteSelf
	}
	if !confirmed {
		return domain.ErrConfirmationRequired
	}
	if err := s.api.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.invalidate(id)
	s.log.WithField("user", id).Info("🗑️ user deleted")
	return nil
}

func (s *UserService) invalidate(id int64) {
	s.cache.Invalidate(query.Key{qUsers}, query.Key{qUser, id}, query.Key{qReports})
}
