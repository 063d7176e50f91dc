package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"tienda-console/internal/pkg/jwt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// RenewThreshold is the low-water mark below which a still valid token is
// renewed in the background
const RenewThreshold = 2 * time.Minute

var errNoRefreshToken = errors.New("no refresh token stored")

// Refresher exchanges a refresh token for a new access token; rotated is empty
// when the refresh token was not rotated
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (access, rotated string, err error)
}

// TokenManager hands out access tokens that are valid now, renewing them
// against the backend when they are close to or past expiry
type TokenManager struct {
	sessions     *SessionService
	refresher    Refresher
	group        singleflight.Group
	now          func() time.Time
	renewTimeout time.Duration
	log          logrus.FieldLogger
	background   sync.WaitGroup
}

// NewTokenManager creates a new token manager
func NewTokenManager(sessions *SessionService, refresher Refresher, log logrus.FieldLogger) *TokenManager {
	return &TokenManager{
		sessions:     sessions,
		refresher:    refresher,
		now:          time.Now,
		renewTimeout: 15 * time.Second,
		log:          log.WithField("component", "token"),
	}
}

// Token implements api.TokenSource
func (m *TokenManager) Token(ctx context.Context) (string, bool) {
	return m.GetValidToken(ctx)
}

// GetValidToken never fails loudly: false means the caller has no usable token
func (m *TokenManager) GetValidToken(ctx context.Context) (string, bool) {
	sess, err := m.sessions.Load(ctx)
	if err != nil {
		m.log.WithError(err).Warn("⚠️ failed to load session")
		return "", false
	}
	if !sess.Authenticated() {
		return "", false
	}

	remaining, err := jwt.TimeUntilExpiry(sess.AccessToken, m.now())
	if err != nil || remaining <= 0 {
		return m.Renew(ctx)
	}

	if remaining < RenewThreshold {
		m.renewInBackground(ctx)
	}
	return sess.AccessToken, true
}

// Renew exchanges the stored refresh token for a new access token. At most one
// renewal per session is in flight; concurrent callers share its result and
// each gives up on its own ctx. Stored credentials are left untouched on failure.
func (m *TokenManager) Renew(ctx context.Context) (string, bool) {
	sid, ok := SessionIDFrom(ctx)
	if !ok {
		return "", false
	}

	// the flight outlives the caller that started it
	ch := m.group.DoChan(sid, func() (interface{}, error) {
		flight, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.renewTimeout)
		defer cancel()
		return m.renew(flight)
	})

	select {
	case <-ctx.Done():
		return "", false
	case res := <-ch:
		if res.Err != nil {
			m.log.WithError(res.Err).WithField("session", shortID(sid)).Info("token renewal failed")
			return "", false
		}
		return res.Val.(string), true
	}
}

func (m *TokenManager) renew(ctx context.Context) (string, error) {
	sess, err := m.sessions.Load(ctx)
	if err != nil {
		return "", err
	}
	if sess.RefreshToken == "" {
		return "", errNoRefreshToken
	}

	// another caller may have renewed while we waited for the flight
	if remaining, err := jwt.TimeUntilExpiry(sess.AccessToken, m.now()); err == nil && remaining >= RenewThreshold {
		return sess.AccessToken, nil
	}

	access, rotated, err := m.refresher.Refresh(ctx, sess.RefreshToken)
	if err != nil {
		return "", err
	}
	if err := m.sessions.SaveTokens(ctx, access, rotated); err != nil {
		return "", err
	}
	m.log.WithField("session", shortID(sessionID(ctx))).Debug("🔄 access token renewed")
	return access, nil
}

// renewInBackground renews with a context detached from the request so the
// current call returns immediately
func (m *TokenManager) renewInBackground(ctx context.Context) {
	bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.renewTimeout)
	m.background.Add(1)
	go func() {
		defer m.background.Done()
		defer cancel()
		m.Renew(bg)
	}()
}

// Wait blocks until background renewals finish; used on shutdown
func (m *TokenManager) Wait() {
	m.background.Wait()
}

func sessionID(ctx context.Context) string {
	sid, _ := SessionIDFrom(ctx)
	return sid
}

func shortID(sid string) string {
	if len(sid) > 8 {
		return sid[:8]
	}
	return sid
}
