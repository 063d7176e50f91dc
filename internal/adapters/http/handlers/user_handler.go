package handlers

import (
	"errors"
	"strings"

	"tienda-console/internal/adapters/http/middleware"
	"tienda-console/internal/core/domain"
	"tienda-console/internal/core/services"
	"tienda-console/internal/pkg/pagination"
	"tienda-console/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles the own profile and admin user management
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func actor(c *fiber.Ctx) domain.UserSummary {
	sess := middleware.CurrentSession(c)
	if sess.User == nil {
		return domain.UserSummary{}
	}
	return *sess.User
}

// GetProfile returns the logged in user's account
// @Summary Get my profile
// @Tags Profile
// @Produce json
// @Success 200 {object} response.Response{data=domain.User}
// @Router /perfil [get]
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	user, err := h.userService.Get(c.UserContext(), actor(c).ID)
	if err != nil {
		return response.FromError(c, err, "No se pudo cargar tu perfil")
	}
	return response.Success(c, "", user)
}

// UpdateProfile edits the logged in user's account
// @Summary Update my profile
// @Tags Profile
// @Accept json
// @Produce json
// @Param body body domain.UserInput true "Profile data"
// @Success 200 {object} response.Response{data=domain.User}
// @Failure 422 {object} response.Response
// @Router /perfil [put]
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	var req domain.UserInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Solicitud no válida")
	}

	user, err := h.userService.UpdateProfile(c.UserContext(), actor(c), req)
	if err != nil {
		return response.FromError(c, err, "No se pudo actualizar tu perfil")
	}
	return response.Success(c, "Perfil actualizado", user)
}

// ListUsers lists users (admin)
// @Summary List users
// @Tags Admin
// @Produce json
// @Param search query string false "Search term"
// @Param rol query string false "Role" Enums(ADMIN, USER)
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(20)
// @Success 200 {object} response.Response
// @Router /admin/usuarios [get]
func (h *UserHandler) ListUsers(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	filter := domain.UserFilter{
		Search: strings.TrimSpace(c.Query("search")),
		Rol:    domain.Role(strings.ToUpper(c.Query("rol"))),
	}

	users, err := h.userService.List(c.UserContext(), filter)
	if err != nil {
		return response.FromError(c, err, "No se pudieron cargar los usuarios")
	}
	return response.Success(c, "", pagination.Paginate(users, params))
}

// GetUser returns one user (admin)
// @Summary Get user
// @Tags Admin
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} response.Response{data=domain.User}
// @Failure 404 {object} response.Response
// @Router /admin/usuarios/{id} [get]
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err, "")
	}
	user, err := h.userService.Get(c.UserContext(), id)
	if err != nil {
		return response.FromError(c, err, "No se pudo cargar el usuario")
	}
	return response.Success(c, "", user)
}

// CreateUser creates a user (admin)
// @Summary Create user
// @Tags Admin
// @Accept json
// @Produce json
// @Param body body domain.UserInput true "User data"
// @Success 201 {object} response.Response{data=domain.User}
// @Failure 422 {object} response.Response
// @Router /admin/usuarios [post]
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var req domain.UserInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Solicitud no válida")
	}

	user, err := h.userService.Create(c.UserContext(), req)
	if err != nil {
		return response.FromError(c, err, "No se pudo crear el usuario")
	}
	return response.Created(c, "Usuario creado", user)
}

// UpdateUser edits a user (admin)
// @Summary Update user
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param body body domain.UserInput true "User data"
// @Success 200 {object} response.Response{data=domain.User}
// @Failure 403 {object} response.Response
// @Router /admin/usuarios/{id} [put]
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err, "")
	}
	var req domain.UserInput
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Solicitud no válida")
	}

	user, err := h.userService.Update(c.UserContext(), actor(c), id, req)
	if err != nil {
		if errors.Is(err, services.ErrCannotChangeOwnRole) {
			return response.Forbidden(c, "No puedes cambiar tu propio rol")
		}
		return response.FromError(c, err, "No se pudo actualizar el usuario")
	}
	return response.Success(c, "Usuario actualizado", user)
}

// DeleteUser removes a user (admin); requires ?confirmar=true
// @Summary Delete user
// @Tags Admin
// @Produce json
// @Param id path int true "User ID"
// @Param confirmar query bool true "Confirmation"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 428 {object} response.Response
// @Router /admin/usuarios/{id} [delete]
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return response.FromError(c, err, "")
	}

	if err := h.userService.Delete(c.UserContext(), actor(c), id, confirmed(c)); err != nil {
		if errors.Is(err, services.ErrCannotDeleteSelf) {
			return response.Forbidden(c, "No puedes eliminar tu propia cuenta")
		}
		return response.FromError(c, err, "No se pudo eliminar el usuario")
	}
	return response.Success(c, "Usuario eliminado", nil)
}
