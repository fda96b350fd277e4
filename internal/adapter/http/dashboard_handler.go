package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"biblioteca-backend/internal/adapter/middleware"
	"biblioteca-backend/internal/usecase/dashboard"
)

type DashboardHandler struct{ uc *dashboard.Usecase }

func NewDashboardHandler(uc *dashboard.Usecase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// scope defaults to the actor's own library; an explicit library_id query
// param may widen it (0 = all).
func dashboardScope(c echo.Context) uint64 {
	if v := c.QueryParam("library_id"); v != "" {
		id, _ := strconv.ParseUint(v, 10, 64)
		return id
	}
	if actor, ok := middleware.ActorFrom(c); ok {
		return actor.LibraryID
	}
	return 0
}

func (h *DashboardHandler) Stats(c echo.Context) error {
	s, err := h.uc.Stats(c.Request().Context(), dashboardScope(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *DashboardHandler) Overdue(c echo.Context) error {
	alerts, err := h.uc.Overdue(c.Request().Context(), dashboardScope(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, alerts)
}

func (h *DashboardHandler) LoansPerMonth(c echo.Context) error {
	series, err := h.uc.LoansPerMonth(c.Request().Context(), dashboardScope(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, series)
}
