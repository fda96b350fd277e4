package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"biblioteca-backend/internal/usecase/auth"
)

type AuthHandler struct{ uc *auth.Usecase }

func NewAuthHandler(uc *auth.Usecase) *AuthHandler { return &AuthHandler{uc: uc} }

func (h *AuthHandler) LoginUser(c echo.Context) error {
	var req auth.LoginInput
	if ok, resp := bindAndValidate(c, &req); !ok {
		return resp
	}
	dto, err := h.uc.LoginUser(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AuthHandler) LoginClient(c echo.Context) error {
	var req auth.LoginInput
	if ok, resp := bindAndValidate(c, &req); !ok {
		return resp
	}
	dto, err := h.uc.LoginClient(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type forgotPasswordReq struct {
	Email string `json:"email" validate:"required,email"`
}

// ForgotPassword always answers 200 so the endpoint cannot be used to probe
// which emails exist.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotPasswordReq
	if ok, resp := bindAndValidate(c, &req); !ok {
		return resp
	}
	if err := h.uc.ForgotPassword(c.Request().Context(), req.Email); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

type resetPasswordReq struct {
	Token       string `json:"token" validate:"required,hex32"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordReq
	if ok, resp := bindAndValidate(c, &req); !ok {
		return resp
	}
	if err := h.uc.ResetPassword(c.Request().Context(), req.Token, req.NewPassword); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
