package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"biblioteca-backend/internal/usecase/client"
	"biblioteca-backend/internal/usecase/loan"
)

type ClientHandler struct {
	uc    *client.Usecase
	loans *loan.Usecase
}

func NewClientHandler(uc *client.Usecase, loans *loan.Usecase) *ClientHandler {
	return &ClientHandler{uc: uc, loans: loans}
}

func (h *ClientHandler) Create(c echo.Context) error {
	var req client.CreateClientInput
	if ok, resp := bindAndValidate(c, &req); !ok {
		return resp
	}
	dto, err := h.uc.Create(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *ClientHandler) Get(c echo.Context) error {
	dto, err := h.uc.Get(c.Request().Context(), c.Param("client_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ClientHandler) List(c echo.Context) error {
	var libraryID uint64
	if v := c.QueryParam("library_id"); v != "" {
		libraryID, _ = strconv.ParseUint(v, 10, 64)
	}
	dtos, err := h.uc.List(c.Request().Context(), libraryID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}

func (h *ClientHandler) Update(c echo.Context) error {
	var req client.UpdateClientInput
	if ok, resp := bindAndValidate(c, &req); !ok {
		return resp
	}
	dto, err := h.uc.Update(c.Request().Context(), c.Param("client_id"), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ClientHandler) Delete(c echo.Context) error {
	if err := h.uc.Delete(c.Request().Context(), c.Param("client_id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// LoanHistory lists every loan ever issued to one member.
func (h *ClientHandler) LoanHistory(c echo.Context) error {
	dtos, err := h.loans.ListByClient(c.Request().Context(), c.Param("client_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dtos)
}
