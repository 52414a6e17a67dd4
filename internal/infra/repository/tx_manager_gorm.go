package repository

import (
	"context"

	repo "cinema/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
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

func (r *txReposGorm) Users() repo.UserRepository               { return r.users }
func (r *txReposGorm) Tokens() repo.TokenRepository             { return r.tokens }
func (r *txReposGorm) Movies() repo.MovieRepository             { return r.movies }
func (r *txReposGorm) Carts() repo.CartRepository               { return r.carts }
func (r *txReposGorm) CartItems() repo.CartItemRepository       { return r.cartItems }
func (r *txReposGorm) Orders() repo.OrderRepository             { return r.orders }
func (r *txReposGorm) OrderItems() repo.OrderItemRepository     { return r.orderItems }
func (r *txReposGorm) Payments() repo.PaymentRepository         { return r.payments }
func (r *txReposGorm) PaymentItems() repo.PaymentItemRepository { return r.paymentItems }
func (r *txReposGorm) Purchases() repo.PurchaseRepository       { return r.purchases }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			users:        NewUserGormRepository(tx),
			tokens:       NewTokenGormRepository(tx),
			movies:       NewMovieGormRepository(tx),
			carts:        NewCartGormRepository(tx),
			cartItems:    NewCartGormRepository(tx),
			orders:       NewOrderGormRepository(tx),
			orderItems:   NewOrderItemGormRepository(tx),
			payments:     NewPaymentGormRepository(tx),
			paymentItems: NewPaymentItemGormRepository(tx),
			purchases:    NewPurchaseGormRepository(tx),
		}
		return fn(r)
	})
}
