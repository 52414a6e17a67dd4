package usecase

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"

	"cinema/internal/domain/model"
	repo "cinema/internal/repository"

	"github.com/google/uuid"
)

const (
	defaultPerPage = 10
	maxPerPage     = 20
)

// MovieCache は映画詳細のキャッシュ。nilなら無効。
type MovieCache interface {
	Get(ctx context.Context, id int64) (model.Movie, bool)
	Set(ctx context.Context, m model.Movie)
	Invalidate(ctx context.Context, id int64)
}

// MovieUsecase はカタログの閲覧・管理を担当する。
type MovieUsecase struct {
	movieRepo    repo.MovieRepository
	purchaseRepo repo.PurchaseRepository
	cache        MovieCache
	publicURL    string
}

// DI
func NewMovieUsecase(
	movieRepo repo.MovieRepository,
	purchaseRepo repo.PurchaseRepository,
	cache MovieCache,
	publicURL string,
) *MovieUsecase {
	return &MovieUsecase{
		movieRepo:    movieRepo,
		purchaseRepo: purchaseRepo,
		cache:        cache,
		publicURL:    publicURL,
	}
}

type MovieListItem struct {
	ID     int64    `json:"id"`
	Name   string   `json:"name"`
	Year   int      `json:"year"`
	IMDb   float64  `json:"imdb"`
	Price  float64  `json:"price"`
	Genres []string `json:"genres"`
}

type MovieListResponse struct {
	Movies     []MovieListItem `json:"movies"`
	Page       int             `json:"page"`
	PerPage    int             `json:"per_page"`
	TotalItems int64           `json:"total_items"`
	TotalPages int             `json:"total_pages"`
	Prev       string          `json:"prev,omitempty"`
	Next       string          `json:"next,omitempty"`
}

type CreateMovieRequest struct {
	Name          string   `json:"name" validate:"required"`
	Year          int      `json:"year" validate:"required,gte=1888"`
	Time          int      `json:"time" validate:"required,gt=0"`
	IMDb          float64  `json:"imdb" validate:"gte=0,lte=10"`
	Votes         int64    `json:"votes" validate:"gte=0"`
	MetaScore     float64  `json:"meta_score"`
	Gross         float64  `json:"gross"`
	Description   string   `json:"description"`
	Price         float64  `json:"price" validate:"required,gt=0"`
	Certification string   `json:"certification" validate:"required"`
	Genres        []string `json:"genres" validate:"required,min=1"`
	Stars         []string `json:"stars" validate:"required,min=1"`
	Directors     []string `json:"directors" validate:"required,min=1"`
}

var allowedSorts = map[string]struct{}{
	"id_desc":    {},
	"price_asc":  {},
	"price_desc": {},
	"year_desc":  {},
}

// 一覧。ページ範囲外・0件は404。
func (u *MovieUsecase) List(ctx context.Context, page int, perPage int, sort string) (MovieListResponse, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	if sort == "" {
		sort = "id_desc"
	}
	if _, ok := allowedSorts[sort]; !ok {
		return MovieListResponse{}, NewHTTPError(http.StatusBadRequest, "invalid sort parameter")
	}

	movies, total, err := u.movieRepo.List(ctx, repo.MovieListQuery{
		Page:    page,
		PerPage: perPage,
		Sort:    sort,
	})
	if err != nil {
		return MovieListResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if len(movies) == 0 {
		return MovieListResponse{}, NewHTTPError(http.StatusNotFound, "no movies found")
	}

	items := make([]MovieListItem, 0, len(movies))
	for _, m := range movies {
		genres := make([]string, 0, len(m.Genres))
		for _, g := range m.Genres {
			genres = append(genres, g.Name)
		}
		items = append(items, MovieListItem{
			ID:     m.ID,
			Name:   m.Name,
			Year:   m.Year,
			IMDb:   m.IMDb,
			Price:  m.Price,
			Genres: genres,
		})
	}

	totalPages := int(math.Ceil(float64(total) / float64(perPage)))

	resp := MovieListResponse{
		Movies:     items,
		Page:       page,
		PerPage:    perPage,
		TotalItems: total,
		TotalPages: totalPages,
	}
	if page > 1 {
		resp.Prev = u.pageLink(page-1, perPage, sort)
	}
	if page < totalPages {
		resp.Next = u.pageLink(page+1, perPage, sort)
	}
	return resp, nil
}

func (u *MovieUsecase) pageLink(page int, perPage int, sort string) string {
	return fmt.Sprintf("%s/api/v1/movies?page=%d&per_page=%d&sort=%s", u.publicURL, page, perPage, sort)
}

// 詳細。キャッシュ→DBの順に引く。
func (u *MovieUsecase) Detail(ctx context.Context, id int64) (model.Movie, error) {
	if id <= 0 {
		return model.Movie{}, NewHTTPError(http.StatusBadRequest, "invalid movie_id")
	}

	if u.cache != nil {
		if m, ok := u.cache.Get(ctx, id); ok {
			return m, nil
		}
	}

	m, err := u.movieRepo.FindByID(ctx, id)
	if err == repo.ErrNotFound {
		return model.Movie{}, NewHTTPError(http.StatusNotFound, "movie not found")
	}
	if err != nil {
		return model.Movie{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if u.cache != nil {
		u.cache.Set(ctx, m)
	}
	return m, nil
}

// 購入済みの映画一覧。台帳から所有作品を引く。
func (u *MovieUsecase) ListPurchased(ctx context.Context, userID int64) ([]MovieListItem, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	purchases, err := u.purchaseRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	movieIDs := make([]int64, 0, len(purchases))
	for _, p := range purchases {
		movieIDs = append(movieIDs, p.MovieID)
	}

	movies, err := u.movieRepo.FindByIDs(ctx, movieIDs)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items := make([]MovieListItem, 0, len(movies))
	for _, m := range movies {
		genres := make([]string, 0, len(m.Genres))
		for _, g := range m.Genres {
			genres = append(genres, g.Name)
		}
		items = append(items, MovieListItem{
			ID:     m.ID,
			Name:   m.Name,
			Year:   m.Year,
			IMDb:   m.IMDb,
			Price:  m.Price,
			Genres: genres,
		})
	}
	return items, nil
}

// 登録（admin/moderator）。参照データはget-or-create。
func (u *MovieUsecase) Create(ctx context.Context, req CreateMovieRequest) (model.Movie, error) {
	genres, err := u.movieRepo.EnsureGenres(ctx, normalizeNames(req.Genres))
	if err != nil {
		return model.Movie{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	stars, err := u.movieRepo.EnsureStars(ctx, normalizeNames(req.Stars))
	if err != nil {
		return model.Movie{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	directors, err := u.movieRepo.EnsureDirectors(ctx, normalizeNames(req.Directors))
	if err != nil {
		return model.Movie{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	cert, err := u.movieRepo.EnsureCertification(ctx, strings.TrimSpace(req.Certification))
	if err != nil {
		return model.Movie{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	m := model.Movie{
		UUID:            uuid.NewString(),
		Name:            strings.TrimSpace(req.Name),
		Year:            req.Year,
		Time:            req.Time,
		IMDb:            req.IMDb,
		Votes:           req.Votes,
		MetaScore:       req.MetaScore,
		Gross:           req.Gross,
		Description:     req.Description,
		Price:           req.Price,
		CertificationID: cert.ID,
		Certification:   cert,
		Genres:          genres,
		Stars:           stars,
		Directors:       directors,
	}

	//name+year+timeのunique制約違反は重複登録
	if err := u.movieRepo.Create(ctx, &m); err != nil {
		return model.Movie{}, NewHTTPError(http.StatusBadRequest, "movie already exists")
	}
	return m, nil
}

// 削除（admin）。購入台帳に載っている映画は消せない。
func (u *MovieUsecase) Delete(ctx context.Context, id int64) (MessageResponse, error) {
	if id <= 0 {
		return MessageResponse{}, NewHTTPError(http.StatusBadRequest, "invalid movie_id")
	}

	if _, err := u.movieRepo.FindByID(ctx, id); err == repo.ErrNotFound {
		return MessageResponse{}, NewHTTPError(http.StatusNotFound, "movie not found")
	} else if err != nil {
		return MessageResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	owned, err := u.purchaseRepo.ExistsByMovieID(ctx, id)
	if err != nil {
		return MessageResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if owned {
		return MessageResponse{}, NewHTTPError(http.StatusBadRequest, "movie has been purchased and cannot be deleted")
	}

	if err := u.movieRepo.Delete(ctx, id); err != nil {
		return MessageResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if u.cache != nil {
		u.cache.Invalidate(ctx, id)
	}
	return MessageResponse{Message: "movie deleted"}, nil
}

func normalizeNames(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
