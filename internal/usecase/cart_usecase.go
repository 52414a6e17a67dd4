package usecase

import (
	"context"
	"fmt"
	"net/http"

	"cinema/internal/domain/model"
	repo "cinema/internal/repository"
)

// CartUsecase は /carts の業務ロジック。
// カートは初回追加時に遅延作成し、決済成功時に削除される。
type CartUsecase struct {
	cartRepo     repo.CartRepository
	cartItemRepo repo.CartItemRepository
	movieRepo    repo.MovieRepository
	purchaseRepo repo.PurchaseRepository
}

// DI
func NewCartUsecase(
	cartRepo repo.CartRepository,
	cartItemRepo repo.CartItemRepository,
	movieRepo repo.MovieRepository,
	purchaseRepo repo.PurchaseRepository,
) *CartUsecase {
	return &CartUsecase{
		cartRepo:     cartRepo,
		cartItemRepo: cartItemRepo,
		movieRepo:    movieRepo,
		purchaseRepo: purchaseRepo,
	}
}

// 表示用に映画情報を非正規化して返す
type CartItemResponse struct {
	MovieID int64    `json:"movie_id"`
	Name    string   `json:"name"`
	Price   float64  `json:"price"`
	Year    int      `json:"year"`
	Genres  []string `json:"genres"`
}

type CartResponse struct {
	UserID int64              `json:"user_id"`
	Items  []CartItemResponse `json:"items"`
	Total  float64            `json:"total"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// カートに追加。購入済み・重複はエラー。
func (u *CartUsecase) AddItem(ctx context.Context, userID int64, movieID int64) (MessageResponse, error) {
	if userID <= 0 {
		return MessageResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if movieID <= 0 {
		return MessageResponse{}, NewHTTPError(http.StatusBadRequest, "invalid movie_id")
	}

	//購入済みチェック（台帳に行があれば再購入不可）
	bought, err := u.purchaseRepo.Exists(ctx, userID, movieID)
	if err != nil {
		return MessageResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if bought {
		return MessageResponse{}, NewHTTPError(http.StatusBadRequest, "you have already bought this movie")
	}

	movie, err := u.movieRepo.FindByID(ctx, movieID)
	if err == repo.ErrNotFound {
		return MessageResponse{}, NewHTTPError(http.StatusBadRequest, "invalid input data")
	}
	if err != nil {
		return MessageResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//カートが無ければ作る
	cart, err := u.cartRepo.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return MessageResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//同じ映画は1明細まで
	_, err = u.cartItemRepo.FindByCartAndMovie(ctx, cart.ID, movieID)
	if err == nil {
		return MessageResponse{}, NewHTTPError(http.StatusBadRequest, "movie is already in cart")
	}
	if err != repo.ErrNotFound {
		return MessageResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.cartItemRepo.Create(ctx, model.CartItem{
		CartID:  cart.ID,
		MovieID: movieID,
	}); err != nil {
		return MessageResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return MessageResponse{Message: fmt.Sprintf("%s added in cart successfully", movie.Name)}, nil
}

// カートから1明細を削除
func (u *CartUsecase) RemoveItem(ctx context.Context, userID int64, movieID int64) (MessageResponse, error) {
	if userID <= 0 {
		return MessageResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := u.cartRepo.FindByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		return MessageResponse{}, NewHTTPError(http.StatusBadRequest, "cart not found")
	}
	if err != nil {
		return MessageResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	item, err := u.cartItemRepo.FindByCartAndMovie(ctx, cart.ID, movieID)
	if err == repo.ErrNotFound {
		return MessageResponse{}, NewHTTPError(http.StatusBadRequest, "movie is not in cart")
	}
	if err != nil {
		return MessageResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.cartItemRepo.DeleteByID(ctx, item.ID); err != nil {
		return MessageResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return MessageResponse{Message: "movie was deleted from cart successfully"}, nil
}

// カートを明細ごと削除
func (u *CartUsecase) Clear(ctx context.Context, userID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	err := u.cartRepo.DeleteByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "cart not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// 自分のカートを取得
func (u *CartUsecase) Get(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := u.cartRepo.FindByUserID(ctx, userID)
	if err == repo.ErrNotFound {
		//カート未作成は空として返す
		return CartResponse{UserID: userID, Items: []CartItemResponse{}}, nil
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, userID, cart.ID)
}

// 全ユーザーのカートを取得（管理者のみ）
func (u *CartUsecase) ListAll(ctx context.Context) ([]CartResponse, error) {
	carts, err := u.cartRepo.ListAll(ctx)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := make([]CartResponse, 0, len(carts))
	for _, cart := range carts {
		resp, err := u.buildCartResponse(ctx, cart.UserID, cart.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, resp)
	}
	return out, nil
}

func (u *CartUsecase) buildCartResponse(ctx context.Context, userID int64, cartID int64) (CartResponse, error) {
	items, err := u.cartItemRepo.ListByCartID(ctx, cartID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	movieIDs := make([]int64, 0, len(items))
	for _, it := range items {
		movieIDs = append(movieIDs, it.MovieID)
	}

	movies, err := u.movieRepo.FindByIDs(ctx, movieIDs)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	byID := make(map[int64]model.Movie, len(movies))
	for _, m := range movies {
		byID[m.ID] = m
	}

	respItems := make([]CartItemResponse, 0, len(items))
	var total float64
	for _, it := range items {
		m, ok := byID[it.MovieID]
		if !ok {
			continue
		}

		genres := make([]string, 0, len(m.Genres))
		for _, g := range m.Genres {
			genres = append(genres, g.Name)
		}

		respItems = append(respItems, CartItemResponse{
			MovieID: m.ID,
			Name:    m.Name,
			Price:   m.Price,
			Year:    m.Year,
			Genres:  genres,
		})
		total += m.Price
	}

	return CartResponse{UserID: userID, Items: respItems, Total: total}, nil
}
