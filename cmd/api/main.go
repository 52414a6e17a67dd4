package main

import (
	"context"
	"log"
	"time"

	"cinema/internal/config"
	"cinema/internal/domain/model"
	"cinema/internal/handler"
	"cinema/internal/infra/cache"
	"cinema/internal/infra/db"
	"cinema/internal/infra/gateway"
	infraRepo "cinema/internal/infra/repository"
	"cinema/internal/queue"
	"cinema/internal/server"
	"cinema/internal/usecase"

	"github.com/joho/godotenv"
)

func main() {
	//.envは無くてもよい（本番は環境変数で渡す）
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	gormDB, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("db: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.ActivationToken{},
		&model.PasswordResetToken{},
		&model.RefreshToken{},
		&model.Certification{},
		&model.Genre{},
		&model.Star{},
		&model.Director{},
		&model.Movie{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.Payment{},
		&model.PaymentItem{},
		&model.Purchase{},
	); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	tokenRepo := infraRepo.NewTokenGormRepository(gormDB)
	movieRepo := infraRepo.NewMovieGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	purchaseRepo := infraRepo.NewPurchaseGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//外部サービス
	stripeGW := gateway.NewStripeGateway(cfg.StripeSecretKey)
	publisher := queue.NewPublisher(cfg.AmqpURL)

	var movieCache usecase.MovieCache
	if cfg.RedisAddr != "" {
		movieCache = cache.NewMovieCache(cfg.RedisAddr, 10*time.Minute)
	}

	//Usecase生成
	authUC := usecase.NewAuthUsecase(userRepo, tokenRepo, publisher, cfg.JWTSecret, cfg.PublicBaseURL)
	movieUC := usecase.NewMovieUsecase(movieRepo, purchaseRepo, movieCache, cfg.PublicBaseURL)
	cartUC := usecase.NewCartUsecase(cartRepo, cartRepo, movieRepo, purchaseRepo)
	orderUC := usecase.NewOrderUsecase(txManager, stripeGW, cfg.PublicBaseURL)
	paymentUC := usecase.NewPaymentUsecase(txManager, stripeGW, publisher)

	//期限切れ有効化トークンの定期削除
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			n, err := authUC.CleanupExpiredActivations(context.Background())
			if err != nil {
				log.Printf("cleanup: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("cleanup: deleted %d expired activation tokens", n)
			}
		}
	}()

	e := server.New(cfg, server.Handlers{
		Auth:    handler.NewAuthHandler(authUC),
		Movie:   handler.NewMovieHandler(movieUC),
		Cart:    handler.NewCartHandler(cartUC),
		Order:   handler.NewOrderHandler(orderUC),
		Payment: handler.NewPaymentHandler(paymentUC),
	})

	if err := server.Start(e, cfg.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
