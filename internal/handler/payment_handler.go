package handler

import (
	"net/http"
	"strconv"
	"time"

	"cinema/internal/config"
	mw "cinema/internal/middleware"
	repo "cinema/internal/repository"
	"cinema/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /payments のHTTP。success/cancelはゲートウェイからのリダイレクト先なので認証なし。
type PaymentHandler struct {
	uc *usecase.PaymentUsecase
}

// DI
func NewPaymentHandler(uc *usecase.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

// /payments 配下を登録
func (h *PaymentHandler) RegisterRoutes(g *echo.Group, cfg config.Config) {
	pg := g.Group("/payments")

	//コールバックはブラウザリダイレクトで届くため認証を要求しない
	pg.GET("/success", h.success)
	pg.GET("/cancel", h.cancel)

	pg.GET("", h.list, mw.AuthJWT(cfg))
}

func (h *PaymentHandler) success(c echo.Context) error {
	paymentID, err := strconv.ParseInt(c.QueryParam("payment_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid payment_id"})
	}

	out, err := h.uc.Success(c.Request().Context(), paymentID)
	if err != nil {
		mw.RecordPaymentOperation("success_callback", false)
		return writeError(c, err)
	}

	mw.RecordPaymentOperation("success_callback", true)
	return c.JSON(http.StatusOK, out)
}

func (h *PaymentHandler) cancel(c echo.Context) error {
	paymentID, err := strconv.ParseInt(c.QueryParam("payment_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid payment_id"})
	}

	out, err := h.uc.Cancel(c.Request().Context(), paymentID)
	if err != nil {
		mw.RecordPaymentOperation("cancel_callback", false)
		return writeError(c, err)
	}

	mw.RecordPaymentOperation("cancel_callback", true)
	return c.JSON(http.StatusOK, out)
}

// 一般ユーザーは自分の決済、adminはクエリで絞り込み
func (h *PaymentHandler) list(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}
	group, _ := getUserGroupFromContext(c)

	var f repo.AdminPaymentListFilter
	if v := c.QueryParam("user_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user_id"})
		}
		f.UserID = &id
	}
	if v := c.QueryParam("date"); v != "" {
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid date"})
		}
		f.Date = &d
	}
	f.Status = c.QueryParam("status")

	out, err := h.uc.List(c.Request().Context(), userID, group, f)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
