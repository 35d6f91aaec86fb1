package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-escape-reservation/internal/service"
)

// CatalogHandler serves the bookable times and themes: public listings
// plus admin create/delete.
type CatalogHandler struct {
	Times  *service.TimeService
	Themes *service.ThemeService
}

func NewCatalogHandler(times *service.TimeService, themes *service.ThemeService) *CatalogHandler {
	return &CatalogHandler{Times: times, Themes: themes}
}

type createTimeReq struct {
	StartAt string `json:"startAt"`
}

type createThemeReq struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
}

// ListTimes handles GET /times.
func (h *CatalogHandler) ListTimes(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	list, err := h.Times.List(ctx)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": list})
}

// CreateTime handles POST /admin/times.
func (h *CatalogHandler) CreateTime(c echo.Context) error {
	var req createTimeReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	t, err := h.Times.Create(ctx, req.StartAt)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

// DeleteTime handles DELETE /admin/times/:id.
func (h *CatalogHandler) DeleteTime(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return badRequest(c, "invalid time id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	if err := h.Times.Delete(ctx, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListThemes handles GET /themes.
func (h *CatalogHandler) ListThemes(c echo.Context) error {
	ctx, cancel := requestContext(c)
	defer cancel()
	list, err := h.Themes.List(ctx)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": list})
}

// CreateTheme handles POST /admin/themes.
func (h *CatalogHandler) CreateTheme(c echo.Context) error {
	var req createThemeReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	t, err := h.Themes.Create(ctx, req.Name, req.Description, req.Thumbnail)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, t)
}

// DeleteTheme handles DELETE /admin/themes/:id.
func (h *CatalogHandler) DeleteTheme(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return badRequest(c, "invalid theme id")
	}
	ctx, cancel := requestContext(c)
	defer cancel()
	if err := h.Themes.Delete(ctx, id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
