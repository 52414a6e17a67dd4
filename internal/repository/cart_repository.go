package repository

import (
	"context"

	"cinema/internal/domain/model"
)

type CartRepository interface {
	FindByUserID(ctx context.Context, userID int64) (model.Cart, error)
	// 初回追加時に遅延作成する
	GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error)
	// カート本体と明細をまとめて消す
	DeleteByUserID(ctx context.Context, userID int64) error
	ListAll(ctx context.Context) ([]model.Cart, error)
}

type CartItemRepository interface {
	ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error)
	FindByCartAndMovie(ctx context.Context, cartID int64, movieID int64) (model.CartItem, error)
	Create(ctx context.Context, item model.CartItem) error
	DeleteByID(ctx context.Context, id int64) error
}
