package repository

import (
	"context"
	"errors"

	"cinema/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 一覧検索。並び順は呼び出し側が明示する（暗黙のデフォルト順は持たない）。
type MovieListQuery struct {
	Page    int
	PerPage int
	Sort    string // id_desc / price_asc / price_desc / year_desc
}

type MovieRepository interface {
	List(ctx context.Context, q MovieListQuery) ([]model.Movie, int64, error)
	FindByID(ctx context.Context, id int64) (model.Movie, error)
	FindByIDs(ctx context.Context, ids []int64) ([]model.Movie, error)
	Create(ctx context.Context, m *model.Movie) error
	Delete(ctx context.Context, id int64) error

	// 参照データはname指定でget-or-create
	EnsureGenres(ctx context.Context, names []string) ([]model.Genre, error)
	EnsureStars(ctx context.Context, names []string) ([]model.Star, error)
	EnsureDirectors(ctx context.Context, names []string) ([]model.Director, error)
	EnsureCertification(ctx context.Context, name string) (model.Certification, error)
}
