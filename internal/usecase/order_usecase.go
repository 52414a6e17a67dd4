package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cinema/internal/domain/model"
	repo "cinema/internal/repository"
)

// OrderUsecase はカート→注文→決済セッションの遷移を担当する。
// 注文作成と決済セッション作成は同一トランザクション。ゲートウェイ呼び出しが
// 失敗したら注文・決済・明細を全部ロールバックする。
type OrderUsecase struct {
	tx        repo.TransactionManager
	gateway   PaymentGateway
	publicURL string
}

// DI
func NewOrderUsecase(tx repo.TransactionManager, gateway PaymentGateway, publicURL string) *OrderUsecase {
	return &OrderUsecase{tx: tx, gateway: gateway, publicURL: publicURL}
}

type OrderOutput struct {
	ID          int64     `json:"id"`
	Date        time.Time `json:"date"`
	Movies      []string  `json:"movies"`
	TotalAmount float64   `json:"total_amount"`
	Status      string    `json:"status"`
	CheckoutURL string    `json:"checkout_url,omitempty"`
}

// 注文作成。カート内容のスナップショットと決済セッションを一度に作る。
func (u *OrderUsecase) Create(ctx context.Context, userID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		cart, err := r.Carts().FindByUserID(ctx, userID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusBadRequest, "cart is empty")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		cartItems, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(cartItems) == 0 {
			return NewHTTPError(http.StatusBadRequest, "cart is empty")
		}

		movieIDs := make([]int64, 0, len(cartItems))
		for _, ci := range cartItems {
			movieIDs = append(movieIDs, ci.MovieID)
		}

		//参照先の映画が消えていたら整合性エラー
		movies, err := r.Movies().FindByIDs(ctx, movieIDs)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(movies) != len(movieIDs) {
			return NewHTTPError(http.StatusBadRequest, "invalid movies data")
		}

		//同じ映画セットのpending注文があれば二重チェックアウト
		dup, err := u.hasDuplicatePendingOrder(ctx, r, userID, movieIDs)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if dup {
			return NewHTTPError(http.StatusBadRequest, "pending order with the same movies already exists")
		}

		//合計はカート追加時ではなく注文時点の価格
		var total float64
		names := make([]string, 0, len(movies))
		for _, m := range movies {
			total += m.Price
			names = append(names, m.Name)
		}

		orderID, err := r.Orders().Create(ctx, model.Order{
			UserID:      userID,
			Status:      model.OrderStatusPending,
			TotalAmount: total,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		orderItems := make([]model.OrderItem, 0, len(movies))
		for _, m := range movies {
			orderItems = append(orderItems, model.OrderItem{
				OrderID:      orderID,
				MovieID:      m.ID,
				PriceAtOrder: m.Price,
			})
		}

		created, err := r.OrderItems().CreateBulk(ctx, orderItems)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		checkoutURL, err := u.createPaymentSession(ctx, r, userID, orderID, total, names, created)
		if err != nil {
			return err
		}

		out = OrderOutput{
			ID:          orderID,
			Date:        time.Now(),
			Movies:      names,
			TotalAmount: total,
			Status:      string(model.OrderStatusPending),
			CheckoutURL: checkoutURL,
		}
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// 決済セッション作成。注文作成と同じトランザクション内で呼ぶこと。
func (u *OrderUsecase) createPaymentSession(
	ctx context.Context,
	r repo.TxRepos,
	userID int64,
	orderID int64,
	total float64,
	movieNames []string,
	orderItems []model.OrderItem,
) (string, error) {
	paymentID, err := r.Payments().Create(ctx, model.Payment{
		UserID:  userID,
		OrderID: orderID,
		Status:  model.PaymentStatusPending,
		Amount:  total,
	})
	if err != nil {
		return "", NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//小数2桁通貨のセント変換。100倍して切り捨て。
	sess, err := u.gateway.CreateCheckoutSession(ctx, CreateCheckoutInput{
		ProductName: strings.Join(movieNames, " "),
		AmountMinor: int64(total * 100),
		SuccessURL:  fmt.Sprintf("%s/api/v1/payments/success?payment_id=%d", u.publicURL, paymentID),
		CancelURL:   fmt.Sprintf("%s/api/v1/payments/cancel?payment_id=%d", u.publicURL, paymentID),
	})
	if err != nil {
		//外部呼び出し失敗は注文ごとロールバック
		return "", NewHTTPError(http.StatusBadGateway, "payment gateway error")
	}

	if err := r.Payments().SetExternalSessionID(ctx, paymentID, sess.ID); err != nil {
		return "", NewHTTPError(http.StatusInternalServerError, "db error")
	}

	paymentItems := make([]model.PaymentItem, 0, len(orderItems))
	for _, oi := range orderItems {
		paymentItems = append(paymentItems, model.PaymentItem{
			PaymentID:      paymentID,
			OrderItemID:    oi.ID,
			PriceAtPayment: oi.PriceAtOrder,
		})
	}
	if err := r.PaymentItems().CreateBulk(ctx, paymentItems); err != nil {
		return "", NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return sess.URL, nil
}

// pending注文の映画セットが候補と完全一致するか
func (u *OrderUsecase) hasDuplicatePendingOrder(ctx context.Context, r repo.TxRepos, userID int64, movieIDs []int64) (bool, error) {
	pending, err := r.Orders().ListPendingByUserID(ctx, userID)
	if err != nil {
		return false, err
	}

	want := make(map[int64]struct{}, len(movieIDs))
	for _, id := range movieIDs {
		want[id] = struct{}{}
	}

	for _, o := range pending {
		items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
		if err != nil {
			return false, err
		}
		if len(items) != len(want) {
			continue
		}

		same := true
		for _, it := range items {
			if _, ok := want[it.MovieID]; !ok {
				same = false
				break
			}
		}
		if same {
			return true, nil
		}
	}
	return false, nil
}

// 自分の注文一覧
func (u *OrderUsecase) ListMine(ctx context.Context, userID int64) ([]OrderOutput, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var outs []OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().ListByUserID(ctx, userID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		outs, err = u.toOutputs(ctx, r, orders)
		return err
	})
	if err != nil {
		return nil, err
	}
	return outs, nil
}

// 管理者用の注文一覧（ユーザー・日付・ステータスで絞り込み）
func (u *OrderUsecase) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]OrderOutput, error) {
	var outs []OrderOutput
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, err := r.Orders().ListAdmin(ctx, f)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		outs, err = u.toOutputs(ctx, r, orders)
		return err
	})
	if err != nil {
		return nil, err
	}
	return outs, nil
}

// 返金。注文キャンセル・決済返金・所有権剥奪を原子的に行う。
func (u *OrderUsecase) Refund(ctx context.Context, userID int64, orderID int64) (MessageResponse, error) {
	if userID <= 0 {
		return MessageResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return MessageResponse{}, NewHTTPError(http.StatusBadRequest, "invalid order_id")
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "order not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if o.UserID != userID {
			return NewHTTPError(http.StatusForbidden, "forbidden")
		}

		p, err := r.Payments().FindLatestByOrderID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusBadRequest, "order has no payment")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if p.Status == model.PaymentStatusRefunded {
			return NewHTTPError(http.StatusBadRequest, "payment already refunded")
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, model.OrderStatusCanceled); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Payments().UpdateStatus(ctx, p.ID, model.PaymentStatusRefunded); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//注文に含まれる映画の所有権だけを剥奪
		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		movieIDs := make([]int64, 0, len(items))
		for _, it := range items {
			movieIDs = append(movieIDs, it.MovieID)
		}
		if err := r.Purchases().DeleteByUserAndMovieIDs(ctx, userID, movieIDs); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})

	if err != nil {
		return MessageResponse{}, err
	}
	return MessageResponse{Message: "order refunded"}, nil
}

func (u *OrderUsecase) toOutputs(ctx context.Context, r repo.TxRepos, orders []model.Order) ([]OrderOutput, error) {
	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
		if err != nil {
			return nil, NewHTTPError(http.StatusInternalServerError, "db error")
		}

		movieIDs := make([]int64, 0, len(items))
		for _, it := range items {
			movieIDs = append(movieIDs, it.MovieID)
		}
		movies, err := r.Movies().FindByIDs(ctx, movieIDs)
		if err != nil {
			return nil, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		names := make([]string, 0, len(movies))
		for _, m := range movies {
			names = append(names, m.Name)
		}

		outs = append(outs, OrderOutput{
			ID:          o.ID,
			Date:        o.CreatedAt,
			Movies:      names,
			TotalAmount: o.TotalAmount,
			Status:      string(o.Status),
		})
	}
	return outs, nil
}
