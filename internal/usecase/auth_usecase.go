package usecase

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"cinema/internal/domain/model"
	repo "cinema/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// accesstokenの有効期限
const accessTokenTTL = 30 * time.Minute

// refreshtokenの有効期限
const refreshTokenTTL = 14 * 24 * time.Hour

// 有効化トークンの有効期限
const activationTokenTTL = 24 * time.Hour

// パスワードリセットトークンの有効期限
const resetTokenTTL = 1 * time.Hour

// AuthUsecase はアカウント登録・有効化・ログイン・トークン更新を担当する。
type AuthUsecase struct {
	users     repo.UserRepository
	tokens    repo.TokenRepository
	publisher EmailPublisher
	jwtSecret string
	publicURL string
}

// DI
func NewAuthUsecase(
	users repo.UserRepository,
	tokens repo.TokenRepository,
	publisher EmailPublisher,
	jwtSecret string,
	publicURL string,
) *AuthUsecase {
	return &AuthUsecase{
		users:     users,
		tokens:    tokens,
		publisher: publisher,
		jwtSecret: jwtSecret,
		publicURL: publicURL,
	}
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

type TokenPairResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// 登録。ユーザーはis_active=falseで作り、有効化リンクをメールで送る。
func (u *AuthUsecase) Register(ctx context.Context, req RegisterRequest) (MessageResponse, error) {
	if _, err := u.users.FindByEmail(ctx, req.Email); err == nil {
		return MessageResponse{}, NewHTTPError(http.StatusBadRequest, "email already registered")
	} else if err != repo.ErrNotFound {
		return MessageResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//パスワードは必ずハッシュ化して保存
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return MessageResponse{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	user := model.User{
		Email:          req.Email,
		HashedPassword: string(hash),
		Group:          model.GroupUser,
		IsActive:       false,
	}
	if err := u.users.Create(ctx, &user); err != nil {
		return MessageResponse{}, NewHTTPError(http.StatusBadRequest, "email already registered")
	}

	token := uuid.NewString()
	if err := u.tokens.CreateActivation(ctx, model.ActivationToken{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(activationTokenTTL),
	}); err != nil {
		return MessageResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//メールはfire-and-forget。キューが落ちていても登録は成立する。
	link := fmt.Sprintf("%s/api/v1/accounts/activate/%s", u.publicURL, token)
	if pubErr := u.publisher.PublishEmail(ctx, user.Email,
		"Activate your account",
		fmt.Sprintf("Follow the link to activate your account: %s", link),
	); pubErr != nil {
		log.Printf("auth: activation email publish failed: %v", pubErr)
	}

	return MessageResponse{Message: "user registered, check your email to activate the account"}, nil
}

// アカウント有効化。使用済み・期限切れトークンは400。
func (u *AuthUsecase) Activate(ctx context.Context, token string) (MessageResponse, error) {
	t, err := u.tokens.FindActivation(ctx, token)
	if err == repo.ErrNotFound {
		return MessageResponse{}, NewHTTPError(http.StatusBadRequest, "invalid activation token")
	}
	if err != nil {
		return MessageResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if time.Now().After(t.ExpiresAt) {
		_ = u.tokens.DeleteActivation(ctx, t.ID)
		return MessageResponse{}, NewHTTPError(http.StatusBadRequest, "activation token expired")
	}

	if err := u.users.SetActive(ctx, t.UserID, true); err != nil {
		return MessageResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if err := u.tokens.DeleteActivation(ctx, t.ID); err != nil {
		return MessageResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return MessageResponse{Message: "account activated"}, nil
}

// ログイン。未有効化は403。
func (u *AuthUsecase) Login(ctx context.Context, req LoginRequest) (TokenPairResponse, error) {
	user, err := u.users.FindByEmail(ctx, req.Email)
	if err == repo.ErrNotFound {
		return TokenPairResponse{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return TokenPairResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		return TokenPairResponse{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	if !user.IsActive {
		return TokenPairResponse{}, NewHTTPError(http.StatusForbidden, "account is not activated")
	}

	return u.issueTokenPair(ctx, user)
}

// リフレッシュ。旧refresh tokenは削除してローテーションする。
func (u *AuthUsecase) Refresh(ctx context.Context, refreshToken string) (TokenPairResponse, error) {
	rt, err := u.tokens.FindRefresh(ctx, refreshToken)
	if err == repo.ErrNotFound {
		return TokenPairResponse{}, NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
	}
	if err != nil {
		return TokenPairResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if time.Now().After(rt.ExpiresAt) {
		_ = u.tokens.DeleteRefresh(ctx, rt.ID)
		return TokenPairResponse{}, NewHTTPError(http.StatusUnauthorized, "refresh token expired")
	}

	user, err := u.users.FindByID(ctx, rt.UserID)
	if err != nil {
		return TokenPairResponse{}, NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
	}
	if !user.IsActive {
		return TokenPairResponse{}, NewHTTPError(http.StatusForbidden, "account is not activated")
	}

	if err := u.tokens.DeleteRefresh(ctx, rt.ID); err != nil {
		return TokenPairResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.issueTokenPair(ctx, user)
}

// パスワードリセット要求。存在しないemailでも200を返す（列挙防止）。
func (u *AuthUsecase) ForgotPassword(ctx context.Context, req ForgotPasswordRequest) (MessageResponse, error) {
	resp := MessageResponse{Message: "if the email exists, a reset link has been sent"}

	user, err := u.users.FindByEmail(ctx, req.Email)
	if err == repo.ErrNotFound {
		return resp, nil
	}
	if err != nil {
		return MessageResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	token := uuid.NewString()
	if err := u.tokens.CreateReset(ctx, model.PasswordResetToken{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: time.Now().Add(resetTokenTTL),
	}); err != nil {
		return MessageResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if pubErr := u.publisher.PublishEmail(ctx, user.Email,
		"Reset your password",
		fmt.Sprintf("Use this token to reset your password: %s", token),
	); pubErr != nil {
		log.Printf("auth: reset email publish failed: %v", pubErr)
	}

	return resp, nil
}

// パスワード再設定。トークンは使い捨て。
func (u *AuthUsecase) ResetPassword(ctx context.Context, req ResetPasswordRequest) (MessageResponse, error) {
	t, err := u.tokens.FindReset(ctx, req.Token)
	if err == repo.ErrNotFound {
		return MessageResponse{}, NewHTTPError(http.StatusBadRequest, "invalid reset token")
	}
	if err != nil {
		return MessageResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if time.Now().After(t.ExpiresAt) {
		_ = u.tokens.DeleteReset(ctx, t.ID)
		return MessageResponse{}, NewHTTPError(http.StatusBadRequest, "reset token expired")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return MessageResponse{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	if err := u.users.UpdatePassword(ctx, t.UserID, string(hash)); err != nil {
		return MessageResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if err := u.tokens.DeleteReset(ctx, t.ID); err != nil {
		return MessageResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return MessageResponse{Message: "password updated"}, nil
}

// 期限切れ有効化トークンの掃除。定期タスクから呼ばれる。
func (u *AuthUsecase) CleanupExpiredActivations(ctx context.Context) (int64, error) {
	return u.tokens.DeleteExpiredActivations(ctx, time.Now())
}

// jwt発行 + refresh token保存
func (u *AuthUsecase) issueTokenPair(ctx context.Context, user model.User) (TokenPairResponse, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"group":   string(user.Group),
		"iat":     now.Unix(),
		"exp":     now.Add(accessTokenTTL).Unix(),
	}

	access, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(u.jwtSecret))
	if err != nil {
		return TokenPairResponse{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	refresh := uuid.NewString()
	if err := u.tokens.CreateRefresh(ctx, model.RefreshToken{
		UserID:    user.ID,
		Token:     refresh,
		ExpiresAt: now.Add(refreshTokenTTL),
	}); err != nil {
		return TokenPairResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return TokenPairResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int(accessTokenTTL.Seconds()),
	}, nil
}
