package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	domainCatalog "biblioteca-backend/internal/domain/catalog"
	"biblioteca-backend/internal/usecase/catalog"
)

type CatalogHandler struct{ uc *catalog.Usecase }

func NewCatalogHandler(uc *catalog.Usecase) *CatalogHandler { return &CatalogHandler{uc: uc} }

// ---- books ----

func (h *CatalogHandler) CreateBook(c echo.Context) error {
	var req catalog.BookInput
	if ok, resp := bindAndValidate(c, &req); !ok {
		return resp
	}
	b, err := h.uc.CreateBook(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}

func (h *CatalogHandler) GetBook(c echo.Context) error {
	b, err := h.uc.GetBook(c.Request().Context(), c.Param("book_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *CatalogHandler) ListBooks(c echo.Context) error {
	f := domainCatalog.BookFilter{
		Title:  c.QueryParam("title"),
		Author: c.QueryParam("author"),
		ISBN:   c.QueryParam("isbn"),
	}
	if v := c.QueryParam("library_id"); v != "" {
		f.LibraryID, _ = strconv.ParseUint(v, 10, 64)
	}
	if v := c.QueryParam("category_id"); v != "" {
		f.CategoryID, _ = strconv.ParseUint(v, 10, 64)
	}
	bs, err := h.uc.ListBooks(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, bs)
}

func (h *CatalogHandler) UpdateBook(c echo.Context) error {
	var req catalog.BookInput
	if ok, resp := bindAndValidate(c, &req); !ok {
		return resp
	}
	b, err := h.uc.UpdateBook(c.Request().Context(), c.Param("book_id"), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *CatalogHandler) DeleteBook(c echo.Context) error {
	if err := h.uc.DeleteBook(c.Request().Context(), c.Param("book_id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ---- categories ----

func (h *CatalogHandler) CreateCategory(c echo.Context) error {
	var req catalog.CategoryInput
	if ok, resp := bindAndValidate(c, &req); !ok {
		return resp
	}
	cat, err := h.uc.CreateCategory(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, cat)
}

func (h *CatalogHandler) ListCategories(c echo.Context) error {
	var libraryID uint64
	if v := c.QueryParam("library_id"); v != "" {
		libraryID, _ = strconv.ParseUint(v, 10, 64)
	}
	cats, err := h.uc.ListCategories(c.Request().Context(), libraryID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, cats)
}

func (h *CatalogHandler) UpdateCategory(c echo.Context) error {
	catID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid category id"})
	}
	var req catalog.CategoryInput
	if ok, resp := bindAndValidate(c, &req); !ok {
		return resp
	}
	cat, err := h.uc.UpdateCategory(c.Request().Context(), catID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CatalogHandler) DeleteCategory(c echo.Context) error {
	catID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid category id"})
	}
	if err := h.uc.DeleteCategory(c.Request().Context(), catID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ---- copies ----

func (h *CatalogHandler) CreateCopy(c echo.Context) error {
	var req catalog.CopyInput
	if ok, resp := bindAndValidate(c, &req); !ok {
		return resp
	}
	cp, err := h.uc.CreateCopy(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, cp)
}

func (h *CatalogHandler) GetCopy(c echo.Context) error {
	cp, err := h.uc.GetCopy(c.Request().Context(), c.Param("copy_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, cp)
}

func (h *CatalogHandler) ListCopies(c echo.Context) error {
	bookID := c.QueryParam("book_id")
	if bookID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "book_id query parameter is required"})
	}
	cps, err := h.uc.ListCopiesByBook(c.Request().Context(), bookID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, cps)
}

func (h *CatalogHandler) UpdateCopy(c echo.Context) error {
	var req catalog.CopyUpdateInput
	if ok, resp := bindAndValidate(c, &req); !ok {
		return resp
	}
	cp, err := h.uc.UpdateCopy(c.Request().Context(), c.Param("copy_id"), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, cp)
}

func (h *CatalogHandler) DeleteCopy(c echo.Context) error {
	if err := h.uc.DeleteCopy(c.Request().Context(), c.Param("copy_id")); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
