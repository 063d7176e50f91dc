package api

import (
	"context"
	"net/http"

	"tienda-console/internal/core/domain"
)

// Credentials is the login form
type Credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Registration is the payload of the register endpoint
type Registration struct {
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is a normalized login/register answer
type AuthResult struct {
	AccessToken  string
	RefreshToken string
	User         *domain.UserSummary
}

// authPayload accepts both the nested and the flat user shapes
type authPayload struct {
	Token        string              `json:"token"`
	AccessToken  string              `json:"accessToken"`
	RefreshToken string              `json:"refreshToken"`
	User         *domain.UserSummary `json:"user"`
	Usuario      *domain.UserSummary `json:"usuario"`
	ID           int64               `json:"id"`
	Nombre       string              `json:"nombre"`
	Username     string              `json:"username"`
	Rol          domain.Role         `json:"rol"`
}

func (p authPayload) result() AuthResult {
	res := AuthResult{AccessToken: p.AccessToken, RefreshToken: p.RefreshToken}
	if res.AccessToken == "" {
		res.AccessToken = p.Token
	}
	switch {
	case p.User != nil:
		res.User = p.User
	case p.Usuario != nil:
		res.User = p.Usuario
	case p.ID != 0 || p.Rol != "":
		name := p.Nombre
		if name == "" {
			name = p.Username
		}
		res.User = &domain.UserSummary{ID: p.ID, Nombre: name, Rol: p.Rol}
	}
	return res
}

// Login exchanges credentials for a token pair
func (c *Client) Login(ctx context.Context, creds Credentials) (AuthResult, error) {
	var p authPayload
	if err := c.do(ctx, request{method: http.MethodPost, path: "/api/auth/login", body: creds}, &p); err != nil {
		return AuthResult{}, err
	}
	return p.result(), nil
}

// Register creates a USER account. The answer may or may not carry tokens.
func (c *Client) Register(ctx context.Context, reg Registration) (AuthResult, error) {
	var p authPayload
	if err := c.do(ctx, request{method: http.MethodPost, path: "/api/auth/register", body: reg}, &p); err != nil {
		return AuthResult{}, err
	}
	return p.result(), nil
}

// Refresh asks for a new access token. The rotated refresh token is empty when
// the backend did not rotate it.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (access, rotated string, err error) {
	var p authPayload
	body := map[string]string{"refreshToken": refreshToken}
	if err := c.do(ctx, request{method: http.MethodPost, path: "/api/auth/refresh", body: body}, &p); err != nil {
		return "", "", err
	}
	res := p.result()
	if res.AccessToken == "" {
		return "", "", &domain.APIError{Status: http.StatusBadGateway, Message: "la respuesta de renovación no contiene token"}
	}
	return res.AccessToken, res.RefreshToken, nil
}
