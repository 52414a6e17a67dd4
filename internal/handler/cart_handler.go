package handler

import (
	"net/http"
	"strconv"

	"cinema/internal/config"
	"cinema/internal/domain/model"
	mw "cinema/internal/middleware"
	"cinema/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /carts のHTTP
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

type AddCartItemRequest struct {
	MovieID int64 `json:"movie_id" validate:"required,gt=0"`
}

// /carts 配下を登録（要認証）
func (h *CartHandler) RegisterRoutes(g *echo.Group, cfg config.Config) {
	cg := g.Group("/carts")
	cg.Use(mw.AuthJWT(cfg))

	cg.GET("", h.get)
	cg.POST("/items", h.addItem)
	cg.DELETE("/items/:movie_id", h.removeItem)
	cg.DELETE("", h.clear)

	cg.GET("/all", h.listAll, mw.GroupGuard(model.GroupAdmin))
}

func (h *CartHandler) get(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.Get(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) addItem(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req AddCartItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid input data"})
	}

	out, err := h.uc.AddItem(c.Request().Context(), userID, req.MovieID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *CartHandler) removeItem(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	movieID, err := strconv.ParseInt(c.Param("movie_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid movie_id"})
	}

	out, err := h.uc.RemoveItem(c.Request().Context(), userID, movieID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) clear(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	if err := h.uc.Clear(c.Request().Context(), userID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) listAll(c echo.Context) error {
	out, err := h.uc.ListAll(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
