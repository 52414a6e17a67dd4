package usecase_test

import (
	"context"
	"testing"

	"cinema/internal/domain/model"
	repo "cinema/internal/repository"
	"cinema/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newPaymentFixture() (*usecase.PaymentUsecase, *UserRepoMock, *CartRepoMock, *OrderRepoMock, *OrderItemRepoMock, *PaymentRepoMock, *PurchaseRepoMock, *GatewayMock, *PublisherMock) {
	users := &UserRepoMock{}
	carts := &CartRepoMock{}
	orders := &OrderRepoMock{}
	orderItems := &OrderItemRepoMock{}
	payments := &PaymentRepoMock{}
	purchases := &PurchaseRepoMock{}
	gw := &GatewayMock{}
	pub := &PublisherMock{}

	txRepos := &TxReposMock{
		users:      users,
		carts:      carts,
		orders:     orders,
		orderItems: orderItems,
		payments:   payments,
		purchases:  purchases,
	}

	uc := usecase.NewPaymentUsecase(&TxManagerMock{Repos: txRepos}, gw, pub)
	return uc, users, carts, orders, orderItems, payments, purchases, gw, pub
}

func TestPaymentSuccess_UnknownPayment(t *testing.T) {
	uc, _, _, orders, _, payments, _, _, _ := newPaymentFixture()

	payments.On("FindByID", mock.Anything, int64(999)).Return(model.Payment{}, repo.ErrNotFound)

	_, err := uc.Success(context.Background(), 999)

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 404, he.Status)
	orders.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentSuccess_Transitions(t *testing.T) {
	uc, users, carts, orders, orderItems, payments, purchases, gw, pub := newPaymentFixture()

	payments.On("FindByID", mock.Anything, int64(77)).Return(model.Payment{
		ID: 77, UserID: 1, OrderID: 55, Status: model.PaymentStatusPending,
		Amount: 22.98, ExternalSessionID: "cs_123",
	}, nil)
	gw.On("RetrieveSession", mock.Anything, "cs_123").Return(usecase.CheckoutSession{
		ID: "cs_123", AmountTotal: 2298, Currency: "usd",
	}, nil)
	payments.On("UpdateStatus", mock.Anything, int64(77), model.PaymentStatusSuccessful).Return(nil)
	orders.On("UpdateStatus", mock.Anything, int64(55), model.OrderStatusPaid).Return(nil)
	orderItems.On("ListByOrderID", mock.Anything, int64(55)).Return([]model.OrderItem{
		{ID: 501, OrderID: 55, MovieID: 100},
		{ID: 502, OrderID: 55, MovieID: 200},
	}, nil)
	purchases.On("CreateBulkIgnoreDuplicates", mock.Anything, mock.MatchedBy(func(ps []model.Purchase) bool {
		return len(ps) == 2 && ps[0].UserID == 1 && ps[0].MovieID == 100
	})).Return(nil)
	carts.On("DeleteByUserID", mock.Anything, int64(1)).Return(nil)
	users.On("FindByID", mock.Anything, int64(1)).Return(model.User{ID: 1, Email: "a@b.c"}, nil)
	pub.On("PublishEmail", mock.Anything, "a@b.c", mock.Anything, mock.Anything).Return(nil)

	out, err := uc.Success(context.Background(), 77)

	assert.NoError(t, err)
	assert.Equal(t, "Payment successful", out.Message)
	assert.InDelta(t, 22.98, out.AmountPaid, 0.001)
	assert.Equal(t, "usd", out.Currency)
	payments.AssertExpectations(t)
	orders.AssertExpectations(t)
	purchases.AssertExpectations(t)
}

// コールバック再送。カートが既に消えていてもエラーにしない。
func TestPaymentSuccess_ReplayIsIdempotent(t *testing.T) {
	uc, users, carts, orders, orderItems, payments, purchases, gw, pub := newPaymentFixture()

	payments.On("FindByID", mock.Anything, int64(77)).Return(model.Payment{
		ID: 77, UserID: 1, OrderID: 55, Status: model.PaymentStatusSuccessful,
		Amount: 22.98, ExternalSessionID: "cs_123",
	}, nil)
	gw.On("RetrieveSession", mock.Anything, "cs_123").Return(usecase.CheckoutSession{
		ID: "cs_123", AmountTotal: 2298, Currency: "usd",
	}, nil)
	payments.On("UpdateStatus", mock.Anything, int64(77), model.PaymentStatusSuccessful).Return(nil)
	orders.On("UpdateStatus", mock.Anything, int64(55), model.OrderStatusPaid).Return(nil)
	orderItems.On("ListByOrderID", mock.Anything, int64(55)).Return([]model.OrderItem{
		{ID: 501, OrderID: 55, MovieID: 100},
	}, nil)
	//unique制約に当たった行はスキップされるだけ
	purchases.On("CreateBulkIgnoreDuplicates", mock.Anything, mock.Anything).Return(nil)
	carts.On("DeleteByUserID", mock.Anything, int64(1)).Return(repo.ErrNotFound)
	users.On("FindByID", mock.Anything, int64(1)).Return(model.User{ID: 1, Email: "a@b.c"}, nil)
	pub.On("PublishEmail", mock.Anything, "a@b.c", mock.Anything, mock.Anything).Return(nil)

	out, err := uc.Success(context.Background(), 77)

	assert.NoError(t, err)
	assert.Equal(t, "Payment successful", out.Message)
}

func TestPaymentCancel(t *testing.T) {
	uc, _, carts, orders, _, payments, purchases, gw, _ := newPaymentFixture()

	payments.On("FindByID", mock.Anything, int64(77)).Return(model.Payment{
		ID: 77, UserID: 1, OrderID: 55, Status: model.PaymentStatusPending,
		Amount: 22.98, ExternalSessionID: "cs_123",
	}, nil)
	gw.On("RetrieveSession", mock.Anything, "cs_123").Return(usecase.CheckoutSession{
		ID: "cs_123", URL: "https://checkout.test/cs_123", AmountTotal: 2298, Currency: "usd",
	}, nil)
	payments.On("UpdateStatus", mock.Anything, int64(77), model.PaymentStatusCanceled).Return(nil)
	orders.On("UpdateStatus", mock.Anything, int64(55), model.OrderStatusCanceled).Return(nil)

	out, err := uc.Cancel(context.Background(), 77)

	assert.NoError(t, err)
	assert.Equal(t, "https://checkout.test/cs_123", out.PayHere)
	assert.InDelta(t, 22.98, out.AmountDue, 0.001)

	//キャンセルでは所有権もカートも触らない
	purchases.AssertNotCalled(t, "CreateBulkIgnoreDuplicates", mock.Anything, mock.Anything)
	carts.AssertNotCalled(t, "DeleteByUserID", mock.Anything, mock.Anything)
}

func TestPaymentList_AdminFilter(t *testing.T) {
	uc, _, _, _, _, payments, _, _, _ := newPaymentFixture()

	uid := int64(2)
	f := repo.AdminPaymentListFilter{UserID: &uid, Status: "successful"}
	payments.On("ListAdmin", mock.Anything, f).Return([]model.Payment{
		{ID: 1, UserID: 2, Amount: 9.99, Status: model.PaymentStatusSuccessful},
	}, nil)

	out, err := uc.List(context.Background(), 1, model.GroupAdmin, f)

	assert.NoError(t, err)
	assert.Len(t, out, 1)
	assert.Equal(t, "successful", out[0].Status)
}

func TestPaymentList_RegularUserIgnoresFilter(t *testing.T) {
	uc, _, _, _, _, payments, _, _, _ := newPaymentFixture()

	uid := int64(2)
	f := repo.AdminPaymentListFilter{UserID: &uid}
	payments.On("ListByUserID", mock.Anything, int64(1)).Return([]model.Payment{
		{ID: 1, UserID: 1, Amount: 12.99, Status: model.PaymentStatusPending},
	}, nil)

	out, err := uc.List(context.Background(), 1, model.GroupUser, f)

	assert.NoError(t, err)
	assert.Len(t, out, 1)
	payments.AssertNotCalled(t, "ListAdmin", mock.Anything, mock.Anything)
}
