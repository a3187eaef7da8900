package servagri

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Each handler is one stateless round-trip: bind the JSON body, run a
// single store operation, shape the response. Wrong-method requests never
// reach a handler; the router rejects them and httpErrorHandler shapes
// the 405 body.

func (a *App) handleListNews(c echo.Context) error {
	items, err := a.Store.ListNews()
	if err != nil {
		return err
	}
	if items == nil {
		items = []NewsItem{}
	}
	return c.JSON(http.StatusOK, items)
}

func (a *App) handleAddNews(c echo.Context) error {
	var n NewsItem
	if err := c.Bind(&n); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON body")
	}
	created, err := a.Store.CreateNews(n)
	if err != nil {
		return apiError(err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (a *App) handleUpdateNews(c echo.Context) error {
	var n NewsItem
	if err := c.Bind(&n); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON body")
	}
	updated, err := a.Store.UpdateNews(n)
	if err != nil {
		return apiError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (a *App) handleDeleteNews(c echo.Context) error {
	var req deleteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON body")
	}
	if err := a.Store.DeleteNews(req.ID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (a *App) handleListProjects(c echo.Context) error {
	items, err := a.Store.ListProjects()
	if err != nil {
		return err
	}
	if items == nil {
		items = []ProjectItem{}
	}
	return c.JSON(http.StatusOK, items)
}

func (a *App) handleAddProject(c echo.Context) error {
	var p ProjectItem
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON body")
	}
	created, err := a.Store.CreateProject(p)
	if err != nil {
		return apiError(err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (a *App) handleUpdateProject(c echo.Context) error {
	var p ProjectItem
	if err := c.Bind(&p); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON body")
	}
	updated, err := a.Store.UpdateProject(p)
	if err != nil {
		return apiError(err)
	}
	return c.JSON(http.StatusOK, updated)
}

func (a *App) handleDeleteProject(c echo.Context) error {
	var req deleteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid JSON body")
	}
	if err := a.Store.DeleteProject(req.ID); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// apiError maps the tagged store errors onto HTTP statuses. Anything
// unrecognized falls through to the error handler's generic 500.
func apiError(err error) error {
	switch {
	case errors.Is(err, ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Not Found")
	case errors.Is(err, ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, "Version Conflict")
	}
	return err
}

// httpErrorHandler shapes every error as {"error": message}. Server-side
// failures collapse to a generic body; the 405 and 500 bodies match the
// fixed strings the admin client expects.
func (a *App) httpErrorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	msg := "Internal Server Error"

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if s, ok := he.Message.(string); ok {
			msg = s
		} else {
			msg = http.StatusText(code)
		}
	}
	if code >= http.StatusInternalServerError {
		c.Logger().Error(err)
		msg = "Internal Server Error"
	}
	if c.Response().Committed {
		return
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	_ = c.JSON(code, map[string]string{"error": msg})
}
