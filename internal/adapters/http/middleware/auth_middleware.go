package middleware

import (
	"time"

	"tienda-console/internal/config"
	"tienda-console/internal/core/domain"
	"tienda-console/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SessionCookie names the cookie carrying the browser session id
const SessionCookie = "sid"

const (
	sessionLocal = "session"
	loggerLocal  = "logger"
)

// PermissionDenied is the flash message of a failed role check
const PermissionDenied = "No tienes permisos para acceder a esa sección"

// Session establishes the browser session id and loads the stored session once
// per request. Later handlers read it with CurrentSession.
func Session(sessions *services.SessionService, cfg *config.Config, log logrus.FieldLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqLog := log.WithField("path", c.Path())
		if rid, ok := c.Locals("requestid").(string); ok {
			reqLog = reqLog.WithField("request_id", rid)
		}
		c.Locals(loggerLocal, reqLog)

		// 1. Reuse the cookie when it holds a valid id
		sid := c.Cookies(SessionCookie)
		if _, err := uuid.Parse(sid); err != nil {
			sid = uuid.NewString()
			c.Cookie(&fiber.Cookie{
				Name:     SessionCookie,
				Value:    sid,
				Path:     "/",
				Domain:   cfg.Cookie.Domain,
				MaxAge:   int(cfg.Storage.SessionMaxAge / time.Second),
				Secure:   cfg.Cookie.Secure,
				HTTPOnly: true,
				SameSite: cfg.Cookie.SameSite,
			})
		}

		// 2. Make it visible to every service call of this request
		ctx := services.WithSessionID(c.UserContext(), sid)
		c.SetUserContext(ctx)

		// 3. Load and validate the stored session
		sess, err := sessions.Load(ctx)
		if err != nil {
			reqLog.WithError(err).Warn("⚠️ failed to load session, treating as guest")
			sess = domain.Session{}
		}
		c.Locals(sessionLocal, sess)

		return c.Next()
	}
}

// CurrentSession returns the session loaded by the Session middleware
func CurrentSession(c *fiber.Ctx) domain.Session {
	sess, _ := c.Locals(sessionLocal).(domain.Session)
	return sess
}

// RequestLogger returns the logger of the current request
func RequestLogger(c *fiber.Ctx) logrus.FieldLogger {
	if l, ok := c.Locals(loggerLocal).(logrus.FieldLogger); ok {
		return l
	}
	return logrus.StandardLogger()
}

// RequireAuth redirects guests to the login page
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !CurrentSession(c).Authenticated() {
			return c.Redirect("/login", fiber.StatusFound)
		}
		return c.Next()
	}
}

// RequireRole lets through sessions whose role is one of roles. Guests go to
// the login page; other roles go home with a permission message.
func RequireRole(sessions *services.SessionService, roles ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := CurrentSession(c)
		if !sess.Authenticated() {
			return c.Redirect("/login", fiber.StatusFound)
		}

		for _, role := range roles {
			if sess.Role() == role {
				return c.Next()
			}
		}

		if err := sessions.SetFlash(c.UserContext(), PermissionDenied); err != nil {
			RequestLogger(c).WithError(err).Warn("failed to store permission message")
		}
		return c.Redirect("/", fiber.StatusFound)
	}
}

// RequireAdmin middleware allows only ADMIN role
func RequireAdmin(sessions *services.SessionService) fiber.Handler {
	return RequireRole(sessions, domain.RoleAdmin)
}

// RequireAnyRole middleware allows any authenticated role
func RequireAnyRole(sessions *services.SessionService) fiber.Handler {
	return RequireRole(sessions, domain.RoleAdmin, domain.RoleUser)
}
