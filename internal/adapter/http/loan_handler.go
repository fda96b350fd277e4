package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"biblioteca-backend/internal/adapter/middleware"
	domainLoan "biblioteca-backend/internal/domain/loan"
	"biblioteca-backend/internal/domain/user"
	"biblioteca-backend/internal/usecase/loan"
)

type LoanHandler struct {
	uc    *loan.Usecase
	users user.Repository
}

func NewLoanHandler(uc *loan.Usecase, users user.Repository) *LoanHandler {
	return &LoanHandler{uc: uc, users: users}
}

func (h *LoanHandler) Create(c echo.Context) error {
	var req loan.CreateLoanInput
	if ok, resp := bindAndValidate(c, &req); !ok {
		return resp
	}
	dto, err := h.uc.Create(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *LoanHandler) Get(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) List(c echo.Context) error {
	f := domainLoan.Filter{}
	if v := c.QueryParam("library_id"); v != "" {
		f.LibraryID, _ = strconv.ParseUint(v, 10, 64)
	}
	if v := c.QueryParam("status"); v != "" {
		f.Status = domainLoan.Status(v)
	}
	if v := c.QueryParam("overdue"); v != "" {
		f.Overdue, _ = strconv.ParseBool(v)
	}
	dtos, err := h.uc.List(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

// Return records the returning staff user from the authenticated context.
func (h *LoanHandler) Return(c echo.Context) error {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "not authenticated"})
	}
	usr, err := h.users.GetByUserID(c.Request().Context(), actor.PublicID)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unknown user"})
	}
	dto, err := h.uc.Return(c.Request().Context(), c.Param("loan_id"), usr.ID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Renew(c echo.Context) error {
	dto, err := h.uc.Renew(c.Request().Context(), c.Param("loan_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanHandler) Delete(c echo.Context) error {
	if err := h.uc.Delete(c.Request().Context(), c.Param("loan_id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
