package handler

import (
	"net/http"

	"cinema/internal/domain/model"
	mw "cinema/internal/middleware"
	"cinema/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

func getUserIDFromContext(c echo.Context) (int64, bool) {
	v := c.Get(mw.CtxUserIDKey)
	id, ok := v.(int64)
	if !ok || id <= 0 {
		return 0, false
	}
	return id, true
}

func getUserGroupFromContext(c echo.Context) (model.UserGroup, bool) {
	v := c.Get(mw.CtxUserGroupKey)
	g, ok := v.(string)
	if !ok || g == "" {
		return "", false
	}
	return model.UserGroup(g), true
}
