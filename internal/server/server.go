package server

import (
	"net/http"

	"cinema/internal/config"
	"cinema/internal/handler"
	mw "cinema/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// echoのValidatorフックにvalidator/v10を差し込む
type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

type Handlers struct {
	Auth    *handler.AuthHandler
	Movie   *handler.MovieHandler
	Cart    *handler.CartHandler
	Order   *handler.OrderHandler
	Payment *handler.PaymentHandler
}

// ルーティングとミドルウェアを組み立てたechoを返す
func New(cfg config.Config, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Validator = &CustomValidator{validator: validator.New()}

	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(mw.PrometheusMiddleware())

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	v1 := e.Group("/api/v1")
	h.Auth.RegisterRoutes(v1)
	h.Movie.RegisterRoutes(v1, cfg)
	h.Cart.RegisterRoutes(v1, cfg)
	h.Order.RegisterRoutes(v1, cfg)
	h.Payment.RegisterRoutes(v1, cfg)

	return e
}

func Start(e *echo.Echo, port string) error {
	return e.Start(":" + port)
}
