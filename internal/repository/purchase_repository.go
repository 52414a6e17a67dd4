package repository

import (
	"context"

	"cinema/internal/domain/model"
)

type PurchaseRepository interface {
	Exists(ctx context.Context, userID int64, movieID int64) (bool, error)
	// (user_id, movie_id) のunique制約に衝突した行は黙ってスキップする。
	// successコールバックの再送をno-opにするため。
	CreateBulkIgnoreDuplicates(ctx context.Context, purchases []model.Purchase) error
	DeleteByUserAndMovieIDs(ctx context.Context, userID int64, movieIDs []int64) error
	// 映画削除のガード
	ExistsByMovieID(ctx context.Context, movieID int64) (bool, error)
	ListByUserID(ctx context.Context, userID int64) ([]model.Purchase, error)
}
