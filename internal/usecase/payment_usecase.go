package usecase

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"cinema/internal/domain/model"
	repo "cinema/internal/repository"
)

// PaymentUsecase はゲートウェイからのコールバックと決済履歴を扱う。
type PaymentUsecase struct {
	tx        repo.TransactionManager
	gateway   PaymentGateway
	publisher EmailPublisher
}

// DI
func NewPaymentUsecase(tx repo.TransactionManager, gateway PaymentGateway, publisher EmailPublisher) *PaymentUsecase {
	return &PaymentUsecase{tx: tx, gateway: gateway, publisher: publisher}
}

type PaymentSuccessOutput struct {
	Message    string  `json:"message"`
	AmountPaid float64 `json:"amount_paid"`
	Currency   string  `json:"currency"`
}

type PaymentCancelOutput struct {
	Message    string  `json:"message"`
	PayHere    string  `json:"pay_here"`
	AmountDue  float64 `json:"amount_due"`
	Currency   string  `json:"currency"`
}

type PaymentListItem struct {
	Date   time.Time `json:"date"`
	Amount float64   `json:"amount"`
	Status string    `json:"status"`
}

// 成功コールバック。決済・注文を確定し、所有権を付与してカートを消す。
// 同じコールバックの再送はPurchaseのunique制約によりno-opになる。
func (u *PaymentUsecase) Success(ctx context.Context, paymentID int64) (PaymentSuccessOutput, error) {
	if paymentID <= 0 {
		return PaymentSuccessOutput{}, NewHTTPError(http.StatusBadRequest, "invalid payment_id")
	}

	var (
		out       PaymentSuccessOutput
		userEmail string
		amount    float64
	)

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Payments().FindByID(ctx, paymentID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "payment not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//ゲートウェイ側の金額で突き合わせる
		sess, err := u.gateway.RetrieveSession(ctx, p.ExternalSessionID)
		if err != nil {
			return NewHTTPError(http.StatusBadGateway, "payment gateway error")
		}

		if err := r.Payments().UpdateStatus(ctx, p.ID, model.PaymentStatusSuccessful); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Orders().UpdateStatus(ctx, p.OrderID, model.OrderStatusPaid); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, p.OrderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		purchases := make([]model.Purchase, 0, len(items))
		for _, it := range items {
			purchases = append(purchases, model.Purchase{
				UserID:  p.UserID,
				MovieID: it.MovieID,
			})
		}
		if err := r.Purchases().CreateBulkIgnoreDuplicates(ctx, purchases); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//カートは決済成功で削除。再送時は既に消えている。
		if err := r.Carts().DeleteByUserID(ctx, p.UserID); err != nil && err != repo.ErrNotFound {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		user, err := r.Users().FindByID(ctx, p.UserID)
		if err == nil {
			userEmail = user.Email
		}
		amount = p.Amount

		out = PaymentSuccessOutput{
			Message:    "Payment successful",
			AmountPaid: float64(sess.AmountTotal) / 100,
			Currency:   sess.Currency,
		}
		return nil
	})

	if err != nil {
		return PaymentSuccessOutput{}, err
	}

	//通知はfire-and-forget。失敗しても決済は確定済み。
	if userEmail != "" {
		if pubErr := u.publisher.PublishEmail(ctx, userEmail,
			fmt.Sprintf("Your payment of %.2f was successful", amount),
			"Thanks for buying movies!",
		); pubErr != nil {
			log.Printf("payment: email publish failed: %v", pubErr)
		}
	}

	return out, nil
}

// キャンセルコールバック。決済と注文をキャンセルする。所有権は触らない。
func (u *PaymentUsecase) Cancel(ctx context.Context, paymentID int64) (PaymentCancelOutput, error) {
	if paymentID <= 0 {
		return PaymentCancelOutput{}, NewHTTPError(http.StatusBadRequest, "invalid payment_id")
	}

	var out PaymentCancelOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Payments().FindByID(ctx, paymentID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "payment not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		sess, err := u.gateway.RetrieveSession(ctx, p.ExternalSessionID)
		if err != nil {
			return NewHTTPError(http.StatusBadGateway, "payment gateway error")
		}

		if err := r.Payments().UpdateStatus(ctx, p.ID, model.PaymentStatusCanceled); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Orders().UpdateStatus(ctx, p.OrderID, model.OrderStatusCanceled); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = PaymentCancelOutput{
			Message:   "Payment was cancelled. You can pay within 24 hours",
			PayHere:   sess.URL,
			AmountDue: float64(sess.AmountTotal) / 100,
			Currency:  sess.Currency,
		}
		return nil
	})

	if err != nil {
		return PaymentCancelOutput{}, err
	}
	return out, nil
}

// 決済履歴。一般ユーザーは自分の分だけ、管理者は絞り込み付きで全件。
func (u *PaymentUsecase) List(ctx context.Context, userID int64, group model.UserGroup, f repo.AdminPaymentListFilter) ([]PaymentListItem, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var payments []model.Payment

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		var err error
		if group == model.GroupAdmin {
			payments, err = r.Payments().ListAdmin(ctx, f)
		} else {
			payments, err = r.Payments().ListByUserID(ctx, userID)
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	out := make([]PaymentListItem, 0, len(payments))
	for _, p := range payments {
		out = append(out, PaymentListItem{
			Date:   p.CreatedAt,
			Amount: p.Amount,
			Status: string(p.Status),
		})
	}
	return out, nil
}
