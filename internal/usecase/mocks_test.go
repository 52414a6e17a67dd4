package usecase_test

import (
	"context"
	"time"

	"cinema/internal/domain/model"
	repo "cinema/internal/repository"
	"cinema/internal/usecase"

	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(m.Repos)
}

type TxReposMock struct {
	users        repo.UserRepository
	tokens       repo.TokenRepository
	movies       repo.MovieRepository
	carts        repo.CartRepository
	cartItems    repo.CartItemRepository
	orders       repo.OrderRepository
	orderItems   repo.OrderItemRepository
	payments     repo.PaymentRepository
	paymentItems repo.PaymentItemRepository
	purchases    repo.PurchaseRepository
}

func (r *TxReposMock) Users() repo.UserRepository               { return r.users }
func (r *TxReposMock) Tokens() repo.TokenRepository             { return r.tokens }
func (r *TxReposMock) Movies() repo.MovieRepository             { return r.movies }
func (r *TxReposMock) Carts() repo.CartRepository               { return r.carts }
func (r *TxReposMock) CartItems() repo.CartItemRepository       { return r.cartItems }
func (r *TxReposMock) Orders() repo.OrderRepository             { return r.orders }
func (r *TxReposMock) OrderItems() repo.OrderItemRepository     { return r.orderItems }
func (r *TxReposMock) Payments() repo.PaymentRepository         { return r.payments }
func (r *TxReposMock) PaymentItems() repo.PaymentItemRepository { return r.paymentItems }
func (r *TxReposMock) Purchases() repo.PurchaseRepository       { return r.purchases }

// =====================
// Repository mocks
// =====================

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, u *model.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByID(ctx context.Context, id int64) (model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) SetActive(ctx context.Context, userID int64, active bool) error {
	args := m.Called(ctx, userID, active)
	return args.Error(0)
}

func (m *UserRepoMock) UpdatePassword(ctx context.Context, userID int64, hashed string) error {
	args := m.Called(ctx, userID, hashed)
	return args.Error(0)
}

type TokenRepoMock struct{ mock.Mock }

func (m *TokenRepoMock) CreateActivation(ctx context.Context, t model.ActivationToken) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *TokenRepoMock) FindActivation(ctx context.Context, token string) (model.ActivationToken, error) {
	args := m.Called(ctx, token)
	t, _ := args.Get(0).(model.ActivationToken)
	return t, args.Error(1)
}

func (m *TokenRepoMock) DeleteActivation(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *TokenRepoMock) DeleteExpiredActivations(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *TokenRepoMock) CreateReset(ctx context.Context, t model.PasswordResetToken) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *TokenRepoMock) FindReset(ctx context.Context, token string) (model.PasswordResetToken, error) {
	args := m.Called(ctx, token)
	t, _ := args.Get(0).(model.PasswordResetToken)
	return t, args.Error(1)
}

func (m *TokenRepoMock) DeleteReset(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *TokenRepoMock) CreateRefresh(ctx context.Context, t model.RefreshToken) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *TokenRepoMock) FindRefresh(ctx context.Context, token string) (model.RefreshToken, error) {
	args := m.Called(ctx, token)
	t, _ := args.Get(0).(model.RefreshToken)
	return t, args.Error(1)
}

func (m *TokenRepoMock) DeleteRefresh(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MovieRepoMock struct{ mock.Mock }

func (m *MovieRepoMock) List(ctx context.Context, q repo.MovieListQuery) ([]model.Movie, int64, error) {
	args := m.Called(ctx, q)
	movies, _ := args.Get(0).([]model.Movie)
	return movies, args.Get(1).(int64), args.Error(2)
}

func (m *MovieRepoMock) FindByID(ctx context.Context, id int64) (model.Movie, error) {
	args := m.Called(ctx, id)
	mv, _ := args.Get(0).(model.Movie)
	return mv, args.Error(1)
}

func (m *MovieRepoMock) FindByIDs(ctx context.Context, ids []int64) ([]model.Movie, error) {
	args := m.Called(ctx, ids)
	movies, _ := args.Get(0).([]model.Movie)
	return movies, args.Error(1)
}

func (m *MovieRepoMock) Create(ctx context.Context, mv *model.Movie) error {
	args := m.Called(ctx, mv)
	return args.Error(0)
}

func (m *MovieRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MovieRepoMock) EnsureGenres(ctx context.Context, names []string) ([]model.Genre, error) {
	args := m.Called(ctx, names)
	gs, _ := args.Get(0).([]model.Genre)
	return gs, args.Error(1)
}

func (m *MovieRepoMock) EnsureStars(ctx context.Context, names []string) ([]model.Star, error) {
	args := m.Called(ctx, names)
	ss, _ := args.Get(0).([]model.Star)
	return ss, args.Error(1)
}

func (m *MovieRepoMock) EnsureDirectors(ctx context.Context, names []string) ([]model.Director, error) {
	args := m.Called(ctx, names)
	ds, _ := args.Get(0).([]model.Director)
	return ds, args.Error(1)
}

func (m *MovieRepoMock) EnsureCertification(ctx context.Context, name string) (model.Certification, error) {
	args := m.Called(ctx, name)
	c, _ := args.Get(0).(model.Certification)
	return c, args.Error(1)
}

type CartRepoMock struct{ mock.Mock }

func (m *CartRepoMock) FindByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) DeleteByUserID(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *CartRepoMock) ListAll(ctx context.Context) ([]model.Cart, error) {
	args := m.Called(ctx)
	cs, _ := args.Get(0).([]model.Cart)
	return cs, args.Error(1)
}

type CartItemRepoMock struct{ mock.Mock }

func (m *CartItemRepoMock) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, cartID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartItemRepoMock) FindByCartAndMovie(ctx context.Context, cartID int64, movieID int64) (model.CartItem, error) {
	args := m.Called(ctx, cartID, movieID)
	it, _ := args.Get(0).(model.CartItem)
	return it, args.Error(1)
}

func (m *CartItemRepoMock) Create(ctx context.Context, item model.CartItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *CartItemRepoMock) DeleteByID(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.Order, error) {
	args := m.Called(ctx, userID)
	os, _ := args.Get(0).([]model.Order)
	return os, args.Error(1)
}

func (m *OrderRepoMock) ListPendingByUserID(ctx context.Context, userID int64) ([]model.Order, error) {
	args := m.Called(ctx, userID)
	os, _ := args.Get(0).([]model.Order)
	return os, args.Error(1)
}

func (m *OrderRepoMock) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, error) {
	args := m.Called(ctx, f)
	os, _ := args.Get(0).([]model.Order)
	return os, args.Error(1)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, items []model.OrderItem) ([]model.OrderItem, error) {
	args := m.Called(ctx, items)
	created, _ := args.Get(0).([]model.OrderItem)
	return created, args.Error(1)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

type PaymentRepoMock struct{ mock.Mock }

func (m *PaymentRepoMock) FindByID(ctx context.Context, paymentID int64) (model.Payment, error) {
	args := m.Called(ctx, paymentID)
	p, _ := args.Get(0).(model.Payment)
	return p, args.Error(1)
}

func (m *PaymentRepoMock) Create(ctx context.Context, p model.Payment) (int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(int64), args.Error(1)
}

func (m *PaymentRepoMock) UpdateStatus(ctx context.Context, paymentID int64, status model.PaymentStatus) error {
	args := m.Called(ctx, paymentID, status)
	return args.Error(0)
}

func (m *PaymentRepoMock) SetExternalSessionID(ctx context.Context, paymentID int64, sessionID string) error {
	args := m.Called(ctx, paymentID, sessionID)
	return args.Error(0)
}

func (m *PaymentRepoMock) FindLatestByOrderID(ctx context.Context, orderID int64) (model.Payment, error) {
	args := m.Called(ctx, orderID)
	p, _ := args.Get(0).(model.Payment)
	return p, args.Error(1)
}

func (m *PaymentRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.Payment, error) {
	args := m.Called(ctx, userID)
	ps, _ := args.Get(0).([]model.Payment)
	return ps, args.Error(1)
}

func (m *PaymentRepoMock) ListAdmin(ctx context.Context, f repo.AdminPaymentListFilter) ([]model.Payment, error) {
	args := m.Called(ctx, f)
	ps, _ := args.Get(0).([]model.Payment)
	return ps, args.Error(1)
}

type PaymentItemRepoMock struct{ mock.Mock }

func (m *PaymentItemRepoMock) CreateBulk(ctx context.Context, items []model.PaymentItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

func (m *PaymentItemRepoMock) ListByPaymentID(ctx context.Context, paymentID int64) ([]model.PaymentItem, error) {
	args := m.Called(ctx, paymentID)
	items, _ := args.Get(0).([]model.PaymentItem)
	return items, args.Error(1)
}

type PurchaseRepoMock struct{ mock.Mock }

func (m *PurchaseRepoMock) Exists(ctx context.Context, userID int64, movieID int64) (bool, error) {
	args := m.Called(ctx, userID, movieID)
	return args.Bool(0), args.Error(1)
}

func (m *PurchaseRepoMock) CreateBulkIgnoreDuplicates(ctx context.Context, purchases []model.Purchase) error {
	args := m.Called(ctx, purchases)
	return args.Error(0)
}

func (m *PurchaseRepoMock) DeleteByUserAndMovieIDs(ctx context.Context, userID int64, movieIDs []int64) error {
	args := m.Called(ctx, userID, movieIDs)
	return args.Error(0)
}

func (m *PurchaseRepoMock) ExistsByMovieID(ctx context.Context, movieID int64) (bool, error) {
	args := m.Called(ctx, movieID)
	return args.Bool(0), args.Error(1)
}

func (m *PurchaseRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.Purchase, error) {
	args := m.Called(ctx, userID)
	ps, _ := args.Get(0).([]model.Purchase)
	return ps, args.Error(1)
}

// =====================
// Gateway / Publisher mocks
// =====================

type GatewayMock struct{ mock.Mock }

func (m *GatewayMock) CreateCheckoutSession(ctx context.Context, in usecase.CreateCheckoutInput) (usecase.CheckoutSession, error) {
	args := m.Called(ctx, in)
	s, _ := args.Get(0).(usecase.CheckoutSession)
	return s, args.Error(1)
}

func (m *GatewayMock) RetrieveSession(ctx context.Context, sessionID string) (usecase.CheckoutSession, error) {
	args := m.Called(ctx, sessionID)
	s, _ := args.Get(0).(usecase.CheckoutSession)
	return s, args.Error(1)
}

type PublisherMock struct{ mock.Mock }

func (m *PublisherMock) PublishEmail(ctx context.Context, to string, subject string, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}
