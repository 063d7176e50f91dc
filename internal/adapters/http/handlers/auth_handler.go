package handlers

import (
	"errors"
	"strings"

	"tienda-console/internal/adapters/http/middleware"
	"tienda-console/internal/core/domain"
	"tienda-console/internal/core/services"
	"tienda-console/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles login, registration and logout
type AuthHandler struct {
	authService   *services.AuthService
	sessions      *services.SessionService
	configService *services.StoreConfigService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, sessions *services.SessionService, configService *services.StoreConfigService) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		sessions:      sessions,
		configService: configService,
	}
}

// sessionView is what the pages learn about the current session
type sessionView struct {
	Authenticated bool   `json:"authenticated"`
	Kind          string `json:"kind"`
	UserID        int64  `json:"userId,omitempty"`
	Nombre        string `json:"nombre,omitempty"`
	Rol           string `json:"rol,omitempty"`
}

func currentSessionView(c *fiber.Ctx) sessionView {
	return sessionViewOf(middleware.CurrentSession(c))
}

func sessionViewOf(sess domain.Session) sessionView {
	v := sessionView{Authenticated: sess.Authenticated(), Kind: sess.Kind.String()}
	if sess.Authenticated() && sess.User != nil {
		v.UserID = sess.User.ID
		v.Nombre = sess.User.Nombre
		v.Rol = string(sess.User.Rol)
	}
	return v
}

// LoginPage returns the login view
// @Summary Login page
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Router /login [get]
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	if middleware.CurrentSession(c).Authenticated() {
		return c.Redirect("/", fiber.StatusFound)
	}
	return response.Success(c, "", fiber.Map{
		"flash": h.sessions.PopFlash(c.UserContext()),
	})
}

// Login handles user login
// @Summary Login
// @Description Authenticate against the store backend and open a session
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.LoginInput true "Credentials"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req services.LoginInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Solicitud no válida")
	}
	req.Username = strings.TrimSpace(req.Username)

	sess, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return response.Unauthorized(c, "Usuario o contraseña incorrectos")
		}
		return response.FromError(c, err, "No se pudo iniciar sesión")
	}

	redirect := "/"
	if sess.Role() == domain.RoleAdmin {
		redirect = "/admin"
	}
	return response.Success(c, "Bienvenido, "+sess.User.Nombre, fiber.Map{
		"session":  sessionViewOf(sess),
		"redirect": redirect,
	})
}

// RegisterPage returns the registration view
func (h *AuthHandler) RegisterPage(c *fiber.Ctx) error {
	cfg, err := h.configService.Get(c.UserContext())
	if err != nil {
		return response.FromError(c, err, "No se pudo cargar la configuración")
	}
	return response.Success(c, "", fiber.Map{
		"permitirRegistro": cfg.Funciones.PermitirRegistro,
	})
}

// Register handles user registration
// @Summary Register
// @Description Create an account and open a session
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.RegisterInput true "Registration data"
// @Success 201 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req services.RegisterInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Solicitud no válida")
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	cfg, err := h.configService.Get(c.UserContext())
	if err != nil {
		return response.FromError(c, err, "No se pudo cargar la configuración")
	}

	sess, err := h.authService.Register(c.UserContext(), &req, cfg.Funciones.PermitirRegistro)
	if err != nil {
		if errors.Is(err, services.ErrRegistrationClosed) {
			return response.Forbidden(c, "El registro de nuevas cuentas está deshabilitado")
		}
		return response.FromError(c, err, "No se pudo completar el registro")
	}

	return response.Created(c, "Cuenta creada", fiber.Map{
		"session":  sessionViewOf(sess),
		"redirect": "/",
	})
}

// Logout handles user logout
// @Summary Logout
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Router /logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.authService.Logout(c.UserContext()); err != nil {
		return response.InternalServerError(c, "No se pudo cerrar la sesión")
	}
	return response.Success(c, "Sesión cerrada", fiber.Map{"redirect": "/login"})
}

// Me returns the session of the request
// @Summary Current session
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Router /me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	return response.Success(c, "", currentSessionView(c))
}
