package usecase_test

import (
	"context"
	"errors"
	"testing"

	"cinema/internal/domain/model"
	repo "cinema/internal/repository"
	"cinema/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// インメモリのキャッシュ偽物
type fakeMovieCache struct {
	store map[int64]model.Movie
}

func newFakeMovieCache() *fakeMovieCache {
	return &fakeMovieCache{store: map[int64]model.Movie{}}
}

func (c *fakeMovieCache) Get(_ context.Context, id int64) (model.Movie, bool) {
	m, ok := c.store[id]
	return m, ok
}

func (c *fakeMovieCache) Set(_ context.Context, m model.Movie) {
	c.store[m.ID] = m
}

func (c *fakeMovieCache) Invalidate(_ context.Context, id int64) {
	delete(c.store, id)
}

func newMovieFixture(cache usecase.MovieCache) (*usecase.MovieUsecase, *MovieRepoMock, *PurchaseRepoMock) {
	movies := &MovieRepoMock{}
	purchases := &PurchaseRepoMock{}
	uc := usecase.NewMovieUsecase(movies, purchases, cache, publicURL)
	return uc, movies, purchases
}

func TestMovieList_InvalidSort(t *testing.T) {
	uc, _, _ := newMovieFixture(nil)

	_, err := uc.List(context.Background(), 1, 10, "name_asc")

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 400, he.Status)
}

func TestMovieList_EmptyPageIs404(t *testing.T) {
	uc, movies, _ := newMovieFixture(nil)

	movies.On("List", mock.Anything, mock.Anything).Return([]model.Movie{}, int64(0), nil)

	_, err := uc.List(context.Background(), 99, 10, "id_desc")

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 404, he.Status)
	assert.Equal(t, "no movies found", he.Message)
}

func TestMovieList_PaginationLinks(t *testing.T) {
	uc, movies, _ := newMovieFixture(nil)

	movies.On("List", mock.Anything, repo.MovieListQuery{Page: 2, PerPage: 10, Sort: "price_asc"}).
		Return([]model.Movie{{ID: 11, Name: "Heat", Price: 12.99}}, int64(35), nil)

	out, err := uc.List(context.Background(), 2, 10, "price_asc")

	assert.NoError(t, err)
	assert.Equal(t, int64(35), out.TotalItems)
	assert.Equal(t, 4, out.TotalPages)
	assert.Equal(t, publicURL+"/api/v1/movies?page=1&per_page=10&sort=price_asc", out.Prev)
	assert.Equal(t, publicURL+"/api/v1/movies?page=3&per_page=10&sort=price_asc", out.Next)
}

func TestMovieList_PerPageClamped(t *testing.T) {
	uc, movies, _ := newMovieFixture(nil)

	//per_pageは最大20に丸められる
	movies.On("List", mock.Anything, repo.MovieListQuery{Page: 1, PerPage: 20, Sort: "id_desc"}).
		Return([]model.Movie{{ID: 1, Name: "Heat"}}, int64(1), nil)

	out, err := uc.List(context.Background(), 1, 500, "id_desc")

	assert.NoError(t, err)
	assert.Equal(t, 20, out.PerPage)
	movies.AssertExpectations(t)
}

func TestMovieDetail_CacheHitSkipsDB(t *testing.T) {
	cache := newFakeMovieCache()
	cache.Set(context.Background(), model.Movie{ID: 100, Name: "Heat"})
	uc, movies, _ := newMovieFixture(cache)

	m, err := uc.Detail(context.Background(), 100)

	assert.NoError(t, err)
	assert.Equal(t, "Heat", m.Name)
	movies.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestMovieDetail_CacheMissFillsCache(t *testing.T) {
	cache := newFakeMovieCache()
	uc, movies, _ := newMovieFixture(cache)

	movies.On("FindByID", mock.Anything, int64(100)).Return(model.Movie{ID: 100, Name: "Heat"}, nil)

	m, err := uc.Detail(context.Background(), 100)

	assert.NoError(t, err)
	assert.Equal(t, "Heat", m.Name)

	cached, ok := cache.Get(context.Background(), 100)
	assert.True(t, ok)
	assert.Equal(t, "Heat", cached.Name)
}

func TestMovieListPurchased(t *testing.T) {
	uc, movies, purchases := newMovieFixture(nil)

	purchases.On("ListByUserID", mock.Anything, int64(1)).Return([]model.Purchase{
		{ID: 1, UserID: 1, MovieID: 100},
		{ID: 2, UserID: 1, MovieID: 200},
	}, nil)
	movies.On("FindByIDs", mock.Anything, []int64{100, 200}).Return([]model.Movie{
		{ID: 100, Name: "Heat", Price: 12.99},
		{ID: 200, Name: "Ronin", Price: 9.99},
	}, nil)

	out, err := uc.ListPurchased(context.Background(), 1)

	assert.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Heat", out[0].Name)
}

func TestMovieCreate_EnsuresReferences(t *testing.T) {
	uc, movies, _ := newMovieFixture(nil)

	movies.On("EnsureGenres", mock.Anything, []string{"Crime", "Drama"}).Return([]model.Genre{
		{ID: 1, Name: "Crime"}, {ID: 2, Name: "Drama"},
	}, nil)
	movies.On("EnsureStars", mock.Anything, []string{"Al Pacino"}).Return([]model.Star{
		{ID: 3, Name: "Al Pacino"},
	}, nil)
	movies.On("EnsureDirectors", mock.Anything, []string{"Michael Mann"}).Return([]model.Director{
		{ID: 4, Name: "Michael Mann"},
	}, nil)
	movies.On("EnsureCertification", mock.Anything, "R").Return(model.Certification{ID: 5, Name: "R"}, nil)
	movies.On("Create", mock.Anything, mock.MatchedBy(func(m *model.Movie) bool {
		return m.Name == "Heat" && m.UUID != "" && m.CertificationID == 5 && len(m.Genres) == 2
	})).Return(nil)

	m, err := uc.Create(context.Background(), usecase.CreateMovieRequest{
		Name: "Heat", Year: 1995, Time: 170, IMDb: 8.3,
		Price: 12.99, Certification: "R",
		Genres:    []string{"Crime", " Drama ", "Crime"}, //重複と空白は正規化される
		Stars:     []string{"Al Pacino"},
		Directors: []string{"Michael Mann"},
	})

	assert.NoError(t, err)
	assert.Equal(t, "Heat", m.Name)
	movies.AssertExpectations(t)
}

func TestMovieCreate_Duplicate(t *testing.T) {
	uc, movies, _ := newMovieFixture(nil)

	movies.On("EnsureGenres", mock.Anything, mock.Anything).Return([]model.Genre{{ID: 1, Name: "Crime"}}, nil)
	movies.On("EnsureStars", mock.Anything, mock.Anything).Return([]model.Star{{ID: 3, Name: "Al Pacino"}}, nil)
	movies.On("EnsureDirectors", mock.Anything, mock.Anything).Return([]model.Director{{ID: 4, Name: "Michael Mann"}}, nil)
	movies.On("EnsureCertification", mock.Anything, "R").Return(model.Certification{ID: 5, Name: "R"}, nil)
	movies.On("Create", mock.Anything, mock.Anything).Return(errors.New("duplicate key value violates unique constraint"))

	_, err := uc.Create(context.Background(), usecase.CreateMovieRequest{
		Name: "Heat", Year: 1995, Time: 170, Price: 12.99, Certification: "R",
		Genres: []string{"Crime"}, Stars: []string{"Al Pacino"}, Directors: []string{"Michael Mann"},
	})

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 400, he.Status)
	assert.Equal(t, "movie already exists", he.Message)
}

// 購入台帳に載っている映画は削除できない
func TestMovieDelete_GatedByPurchases(t *testing.T) {
	uc, movies, purchases := newMovieFixture(nil)

	movies.On("FindByID", mock.Anything, int64(100)).Return(model.Movie{ID: 100, Name: "Heat"}, nil)
	purchases.On("ExistsByMovieID", mock.Anything, int64(100)).Return(true, nil)

	_, err := uc.Delete(context.Background(), 100)

	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 400, he.Status)
	assert.Equal(t, "movie has been purchased and cannot be deleted", he.Message)
	movies.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestMovieDelete_InvalidatesCache(t *testing.T) {
	cache := newFakeMovieCache()
	cache.Set(context.Background(), model.Movie{ID: 100, Name: "Heat"})
	uc, movies, purchases := newMovieFixture(cache)

	movies.On("FindByID", mock.Anything, int64(100)).Return(model.Movie{ID: 100, Name: "Heat"}, nil)
	purchases.On("ExistsByMovieID", mock.Anything, int64(100)).Return(false, nil)
	movies.On("Delete", mock.Anything, int64(100)).Return(nil)

	out, err := uc.Delete(context.Background(), 100)

	assert.NoError(t, err)
	assert.Equal(t, "movie deleted", out.Message)

	_, ok := cache.Get(context.Background(), 100)
	assert.False(t, ok)
}
