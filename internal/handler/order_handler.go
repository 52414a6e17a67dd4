package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"cinema/internal/config"
	"cinema/internal/domain/model"
	mw "cinema/internal/middleware"
	repo "cinema/internal/repository"
	"cinema/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /orders のHTTP
type OrderHandler struct {
	uc *usecase.OrderUsecase
}

// DI
func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

type RefundRequest struct {
	OrderID int64 `json:"order_id" validate:"required,gt=0"`
}

// /orders 配下を登録（要認証）
func (h *OrderHandler) RegisterRoutes(g *echo.Group, cfg config.Config) {
	og := g.Group("/orders")
	og.Use(mw.AuthJWT(cfg))

	og.POST("", h.create)
	og.GET("", h.list)
	og.POST("/refund", h.refund)
}

func (h *OrderHandler) create(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.uc.Create(c.Request().Context(), userID)
	if err != nil {
		mw.RecordPaymentOperation("checkout", false)
		return writeError(c, err)
	}

	mw.RecordPaymentOperation("checkout", true)
	return c.JSON(http.StatusCreated, out)
}

// 一般ユーザーは自分の注文、adminはクエリで絞り込み
func (h *OrderHandler) list(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	group, _ := getUserGroupFromContext(c)
	if group != model.GroupAdmin {
		out, err := h.uc.ListMine(c.Request().Context(), userID)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(http.StatusOK, out)
	}

	f, err := parseAdminOrderFilter(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	out, err := h.uc.ListAdmin(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *OrderHandler) refund(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	var req RefundRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid input data"})
	}

	out, err := h.uc.Refund(c.Request().Context(), userID, req.OrderID)
	if err != nil {
		mw.RecordPaymentOperation("refund", false)
		return writeError(c, err)
	}

	mw.RecordPaymentOperation("refund", true)
	return c.JSON(http.StatusOK, out)
}

func parseAdminOrderFilter(c echo.Context) (repo.AdminOrderListFilter, error) {
	var f repo.AdminOrderListFilter

	if v := c.QueryParam("user_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return f, errors.New("invalid user_id")
		}
		f.UserID = &id
	}

	if v := c.QueryParam("date"); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			return f, errors.New("invalid date")
		}
		f.Date = &d
	}

	f.Status = c.QueryParam("status")
	return f, nil
}
