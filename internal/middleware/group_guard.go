package middleware

import (
	"net/http"

	"cinema/internal/domain/model"

	"github.com/labstack/echo/v4"
)

//contextに入っているgroupが許可リストに含まれるかを確認します。

func GroupGuard(allowed ...model.UserGroup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rawGroup := c.Get(CtxUserGroupKey)
			group, ok := rawGroup.(string)
			if !ok || group == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			for _, g := range allowed {
				if group == string(g) {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, errorJSON("insufficient permissions"))
		}
	}
}
