package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"biblioteca-backend/internal/usecase/emailaccount"
	"biblioteca-backend/internal/usecase/policy"
)

type LibraryHandler struct {
	policies *policy.Usecase
	email    *emailaccount.Usecase
}

func NewLibraryHandler(policies *policy.Usecase, email *emailaccount.Usecase) *LibraryHandler {
	return &LibraryHandler{policies: policies, email: email}
}

func libraryID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

func (h *LibraryHandler) GetLoanPolicy(c echo.Context) error {
	libID, err := libraryID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid library id"})
	}
	p, err := h.policies.GetLoanPolicy(c.Request().Context(), libID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *LibraryHandler) PutLoanPolicy(c echo.Context) error {
	libID, err := libraryID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid library id"})
	}
	var req policy.LoanPolicyInput
	if ok, resp := bindAndValidate(c, &req); !ok {
		return resp
	}
	p, err := h.policies.PutLoanPolicy(c.Request().Context(), libID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *LibraryHandler) GetFinePolicy(c echo.Context) error {
	libID, err := libraryID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid library id"})
	}
	p, err := h.policies.GetFinePolicy(c.Request().Context(), libID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *LibraryHandler) PutFinePolicy(c echo.Context) error {
	libID, err := libraryID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid library id"})
	}
	var req policy.FinePolicyInput
	if ok, resp := bindAndValidate(c, &req); !ok {
		return resp
	}
	p, err := h.policies.PutFinePolicy(c.Request().Context(), libID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *LibraryHandler) GetNotificationSetting(c echo.Context) error {
	libID, err := libraryID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid library id"})
	}
	s, err := h.policies.GetNotificationSetting(c.Request().Context(), libID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *LibraryHandler) PutNotificationSetting(c echo.Context) error {
	libID, err := libraryID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid library id"})
	}
	var req policy.NotificationSettingInput
	if ok, resp := bindAndValidate(c, &req); !ok {
		return resp
	}
	s, err := h.policies.PutNotificationSetting(c.Request().Context(), libID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *LibraryHandler) GetEmailAccount(c echo.Context) error {
	libID, err := libraryID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid library id"})
	}
	a, err := h.policies.GetEmailAccount(c.Request().Context(), libID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *LibraryHandler) PutEmailAccount(c echo.Context) error {
	libID, err := libraryID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid library id"})
	}
	var req policy.EmailAccountInput
	if ok, resp := bindAndValidate(c, &req); !ok {
		return resp
	}
	a, err := h.policies.PutEmailAccount(c.Request().Context(), libID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

// AuthorizeGoogle hands the admin the consent URL; the browser redirect
// happens client-side.
func (h *LibraryHandler) AuthorizeGoogle(c echo.Context) error {
	libID, err := libraryID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid library id"})
	}
	url, err := h.email.AuthorizationURL(c.Request().Context(), libID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"authorization_url": url})
}

type oauthCallbackReq struct {
	Code  string `json:"code" validate:"required"`
	State string `json:"state" validate:"required"`
}

func (h *LibraryHandler) OAuthCallback(c echo.Context) error {
	libID, err := libraryID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid library id"})
	}
	var req oauthCallbackReq
	if ok, resp := bindAndValidate(c, &req); !ok {
		return resp
	}
	a, err := h.email.HandleCallback(c.Request().Context(), libID, req.Code, req.State)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *LibraryHandler) RefreshEmailToken(c echo.Context) error {
	libID, err := libraryID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid library id"})
	}
	a, err := h.policies.GetEmailAccount(c.Request().Context(), libID)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.email.RefreshAccessToken(c.Request().Context(), a); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *LibraryHandler) RevokeEmailAuthorization(c echo.Context) error {
	libID, err := libraryID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid library id"})
	}
	a, err := h.email.Revoke(c.Request().Context(), libID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, a)
}
