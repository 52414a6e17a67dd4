package repository

import (
	"context"
	"errors"

	"cinema/internal/domain/model"
	repo "cinema/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type MovieGormRepository struct {
	db *gorm.DB
}

// DI
func NewMovieGormRepository(db *gorm.DB) *MovieGormRepository {
	return &MovieGormRepository{db: db}
}

func (r *MovieGormRepository) List(ctx context.Context, q repo.MovieListQuery) ([]model.Movie, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Movie{}).Count(&total).Error; err != nil {
		return []model.Movie{}, 0, err
	}

	// 並び順は明示指定のみ
	order := "id desc"
	switch q.Sort {
	case "", "id_desc":
	case "price_asc":
		order = "price asc"
	case "price_desc":
		order = "price desc"
	case "year_desc":
		order = "year desc"
	}

	var items []model.Movie
	offset := (q.Page - 1) * q.PerPage
	err := r.db.WithContext(ctx).
		Preload("Genres").
		Order(order).
		Limit(q.PerPage).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return []model.Movie{}, 0, err
	}

	return items, total, nil
}

func (r *MovieGormRepository) FindByID(ctx context.Context, id int64) (model.Movie, error) {
	var m model.Movie
	err := r.db.WithContext(ctx).
		Preload("Certification").
		Preload("Genres").
		Preload("Stars").
		Preload("Directors").
		Where("id = ?", id).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Movie{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Movie{}, err
	}
	return m, nil
}

func (r *MovieGormRepository) FindByIDs(ctx context.Context, ids []int64) ([]model.Movie, error) {
	var items []model.Movie
	if len(ids) == 0 {
		return items, nil
	}
	err := r.db.WithContext(ctx).
		Preload("Genres").
		Where("id IN ?", ids).
		Find(&items).Error
	if err != nil {
		return []model.Movie{}, err
	}
	return items, nil
}

func (r *MovieGormRepository) Create(ctx context.Context, m *model.Movie) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *MovieGormRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&model.Movie{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// name指定でget-or-create
func (r *MovieGormRepository) EnsureGenres(ctx context.Context, names []string) ([]model.Genre, error) {
	out := make([]model.Genre, 0, len(names))
	for _, name := range names {
		g := model.Genre{Name: name}
		err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&g).Error
		if err != nil {
			return nil, err
		}
		if g.ID == 0 {
			if err := r.db.WithContext(ctx).Where("name = ?", name).First(&g).Error; err != nil {
				return nil, err
			}
		}
		out = append(out, g)
	}
	return out, nil
}

func (r *MovieGormRepository) EnsureStars(ctx context.Context, names []string) ([]model.Star, error) {
	out := make([]model.Star, 0, len(names))
	for _, name := range names {
		s := model.Star{Name: name}
		err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&s).Error
		if err != nil {
			return nil, err
		}
		if s.ID == 0 {
			if err := r.db.WithContext(ctx).Where("name = ?", name).First(&s).Error; err != nil {
				return nil, err
			}
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *MovieGormRepository) EnsureDirectors(ctx context.Context, names []string) ([]model.Director, error) {
	out := make([]model.Director, 0, len(names))
	for _, name := range names {
		d := model.Director{Name: name}
		err := r.db.WithContext(ctx).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&d).Error
		if err != nil {
			return nil, err
		}
		if d.ID == 0 {
			if err := r.db.WithContext(ctx).Where("name = ?", name).First(&d).Error; err != nil {
				return nil, err
			}
		}
		out = append(out, d)
	}
	return out, nil
}

func (r *MovieGormRepository) EnsureCertification(ctx context.Context, name string) (model.Certification, error) {
	c := model.Certification{Name: name}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&c).Error
	if err != nil {
		return model.Certification{}, err
	}
	if c.ID == 0 {
		if err := r.db.WithContext(ctx).Where("name = ?", name).First(&c).Error; err != nil {
			return model.Certification{}, err
		}
	}
	return c, nil
}
