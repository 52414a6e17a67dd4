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

// /movies のHTTP
type MovieHandler struct {
	uc *usecase.MovieUsecase
}

// DI
func NewMovieHandler(uc *usecase.MovieUsecase) *MovieHandler {
	return &MovieHandler{uc: uc}
}

// 閲覧は公開、登録はadmin/moderator、削除はadminのみ
func (h *MovieHandler) RegisterRoutes(g *echo.Group, cfg config.Config) {
	g.GET("/movies", h.list)
	g.GET("/movies/purchased", h.listPurchased, mw.AuthJWT(cfg))
	g.GET("/movies/:id", h.detail)

	g.POST("/movies", h.create,
		mw.AuthJWT(cfg), mw.GroupGuard(model.GroupAdmin, model.GroupModerator))
	g.DELETE("/movies/:id", h.delete,
		mw.AuthJWT(cfg), mw.GroupGuard(model.GroupAdmin))
}

func (h *MovieHandler) list(c echo.Context) error {
	// page（default 1）
	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
		}
		page = p
	}

	// per_page（default 10）
	perPage := 0
	if v := c.QueryParam("per_page"); v != "" {
		pp, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid per_page"})
		}
		perPage = pp
	}

	sort := c.QueryParam("sort")

	out, err := h.uc.List(c.Request().Context(), page, perPage, sort)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *MovieHandler) listPurchased(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.ListPurchased(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *MovieHandler) detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	m, err := h.uc.Detail(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

func (h *MovieHandler) create(c echo.Context) error {
	var req usecase.CreateMovieRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid input data"})
	}

	m, err := h.uc.Create(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, m)
}

func (h *MovieHandler) delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.Delete(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
