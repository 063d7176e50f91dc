package services

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"tienda-console/internal/adapters/persistence/repositories"
	"tienda-console/internal/core/domain"

	"github.com/sirupsen/logrus"
)

// Session storage keys, scoped per session id
const (
	KeyToken        = "token"
	KeyRefreshToken = "refreshToken"
	KeyUser         = "user"
	keyFlash        = "flash"
)

// ErrNoSessionID means the context carries no session id
var ErrNoSessionID = errors.New("no session id in context")

type sessionIDKey struct{}

// WithSessionID attaches the browser (or CLI) session id to ctx
func WithSessionID(ctx context.Context, sid string) context.Context {
	return context.WithValue(ctx, sessionIDKey{}, sid)
}

// SessionIDFrom returns the session id carried by ctx
func SessionIDFrom(ctx context.Context) (string, bool) {
	sid, ok := ctx.Value(sessionIDKey{}).(string)
	return sid, ok && sid != ""
}

// SessionService loads and stores session credentials in the key/value store
type SessionService struct {
	store repositories.KeyValueStore
	log   logrus.FieldLogger
}

// NewSessionService creates a new session service
func NewSessionService(store repositories.KeyValueStore, log logrus.FieldLogger) *SessionService {
	return &SessionService{store: store, log: log.WithField("component", "session")}
}

func (s *SessionService) scoped(ctx context.Context) (repositories.KeyValueStore, error) {
	sid, ok := SessionIDFrom(ctx)
	if !ok {
		return nil, ErrNoSessionID
	}
	return repositories.SessionNamespace(s.store, sid), nil
}

// Load reads the three session keys in one call and validates their shape.
// Anything that does not parse into a User or Admin session is a Guest.
func (s *SessionService) Load(ctx context.Context) (domain.Session, error) {
	store, err := s.scoped(ctx)
	if err != nil {
		return domain.Session{}, nil
	}
	values, err := store.GetMany(ctx, KeyToken, KeyRefreshToken, KeyUser)
	if err != nil {
		return domain.Session{}, err
	}
	return ParseSession(values[KeyToken], values[KeyRefreshToken], values[KeyUser]), nil
}

// ParseSession validates raw stored values into a tagged session
func ParseSession(token, refreshToken, userJSON string) domain.Session {
	guest := domain.Session{Kind: domain.SessionGuest}
	if strings.TrimSpace(token) == "" || strings.TrimSpace(refreshToken) == "" || userJSON == "" {
		return guest
	}

	var user domain.UserSummary
	dec := json.NewDecoder(strings.NewReader(userJSON))
	if err := dec.Decode(&user); err != nil {
		return guest
	}
	if user.ID <= 0 || !user.Rol.Valid() {
		return guest
	}

	kind := domain.SessionUser
	if user.Rol == domain.RoleAdmin {
		kind = domain.SessionAdmin
	}
	return domain.Session{
		Kind:         kind,
		AccessToken:  token,
		RefreshToken: refreshToken,
		User:         &user,
	}
}

// Save writes the whole session in one atomic update
func (s *SessionService) Save(ctx context.Context, sess domain.Session) error {
	store, err := s.scoped(ctx)
	if err != nil {
		return err
	}
	values := map[string]string{
		KeyToken:        sess.AccessToken,
		KeyRefreshToken: sess.RefreshToken,
	}
	if sess.User != nil {
		data, err := json.Marshal(sess.User)
		if err != nil {
			return err
		}
		values[KeyUser] = string(data)
	}
	return store.SetMany(ctx, values)
}

// SaveTokens stores a renewed access token and, when rotated, the refresh token
func (s *SessionService) SaveTokens(ctx context.Context, access, refresh string) error {
	store, err := s.scoped(ctx)
	if err != nil {
		return err
	}
	values := map[string]string{KeyToken: access}
	if refresh != "" {
		values[KeyRefreshToken] = refresh
	}
	return store.SetMany(ctx, values)
}

// Clear removes the credentials of the session
func (s *SessionService) Clear(ctx context.Context) error {
	store, err := s.scoped(ctx)
	if err != nil {
		return err
	}
	return store.Remove(ctx, KeyToken, KeyRefreshToken, KeyUser)
}

// SetFlash stores a one-shot message shown on the next page
func (s *SessionService) SetFlash(ctx context.Context, msg string) error {
	store, err := s.scoped(ctx)
	if err != nil {
		return err
	}
	return store.Set(ctx, keyFlash, msg)
}

// PopFlash returns and removes the pending flash message
func (s *SessionService) PopFlash(ctx context.Context) string {
	store, err := s.scoped(ctx)
	if err != nil {
		return ""
	}
	msg, ok, err := store.Get(ctx, keyFlash)
	if err != nil || !ok {
		return ""
	}
	if err := store.Remove(ctx, keyFlash); err != nil {
		s.log.WithError(err).Warn("failed to clear flash message")
	}
	return msg
}
