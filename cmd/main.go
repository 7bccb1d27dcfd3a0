package main

import (
	"context"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	authapp "github.com/blipwear/blip-server/application/auth"
	cartapp "github.com/blipwear/blip-server/application/cart"
	orderapp "github.com/blipwear/blip-server/application/order"
	productapp "github.com/blipwear/blip-server/application/product"
	"github.com/blipwear/blip-server/cmd/config"
	redisclient "github.com/blipwear/blip-server/cmd/redis"
	_ "github.com/blipwear/blip-server/docs"
	"github.com/blipwear/blip-server/migrations"
	cartRepo "github.com/blipwear/blip-server/repository/cart"
	orderRepo "github.com/blipwear/blip-server/repository/order"
	otpRepo "github.com/blipwear/blip-server/repository/otp"
	productRepo "github.com/blipwear/blip-server/repository/product"
	redisRepo "github.com/blipwear/blip-server/repository/redis"
	txRepo "github.com/blipwear/blip-server/repository/tx"
	userRepo "github.com/blipwear/blip-server/repository/user"
	"github.com/blipwear/blip-server/thirdparty/rabbitmq"
	"github.com/blipwear/blip-server/transport"
	"github.com/blipwear/blip-server/utils/logger"
)

// @title BLIP Rental API
// @version 1.0
// @description Clothing rental backend: catalog, OTP auth, cart and orders
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration from environment variables
	cfg := config.Load()

	// Initialize global logger
	if err := logger.Init(cfg.Environment); err != nil {
		panic(err)
	}
	defer logger.Close()

	logger.Info("Starting server", zap.String("env", cfg.Environment))

	ctx := context.Background()

	// Connect to database
	db, err := sqlx.Connect("mysql", cfg.GetDSN())
	if err != nil {
		logger.Fatal("err connect db", zap.Error(err))
	}

	// Set database connection pool settings
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	// Apply schema migrations
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("mysql"); err != nil {
		logger.Fatal("err goose dialect", zap.Error(err))
	}
	if err := goose.UpContext(ctx, db.DB, "."); err != nil {
		logger.Fatal("err run migrations", zap.Error(err))
	}

	// Initialize Redis client
	if err := redisclient.New(cfg); err != nil {
		logger.Fatal("err connect redis", zap.Error(err))
	}
	defer func() {
		_ = redisclient.Close()
	}()

	// Initialize RabbitMQ publisher for order expiration
	publisher, err := rabbitmq.NewPublisher(cfg.RabbitMQ.Host, cfg.RabbitMQ.Port, cfg.RabbitMQ.User, cfg.RabbitMQ.Password)
	if err != nil {
		logger.Fatal("err connect rabbitmq", zap.Error(err))
	}
	defer func() {
		_ = publisher.Close()
	}()

	// Initialize repositories
	TxRepo := txRepo.NewTxRepository(db)
	UserRepo := userRepo.NewUserRepository(db)
	OTPRepo := otpRepo.NewOTPRepository(db)
	ProductRepo := productRepo.NewProductRepository(db)
	CartRepo := cartRepo.NewCartRepository(db)
	OrderRepo := orderRepo.NewOrderRepository(db)
	RedisRepo := redisRepo.NewRepository()

	// Initialize application layers
	AuthApp := authapp.NewAuthApp(cfg, TxRepo, OTPRepo, UserRepo, RedisRepo)
	ProductApp := productapp.NewProductApp(ProductRepo)
	CartApp := cartapp.NewCartApp(CartRepo, ProductRepo)
	OrderApp := orderapp.NewOrderApp(cfg, TxRepo, OrderRepo, CartRepo, ProductRepo, publisher)

	// Seed the default admin account on an empty install
	if err := AuthApp.EnsureAdminUser(ctx); err != nil {
		logger.Fatal("err ensure admin user", zap.Error(err))
	}

	// Start the order expiration consumer
	consumer, err := rabbitmq.NewConsumer(cfg.RabbitMQ.Host, cfg.RabbitMQ.Port, cfg.RabbitMQ.User, cfg.RabbitMQ.Password, OrderApp.ExpireOrder)
	if err != nil {
		logger.Fatal("err connect rabbitmq consumer", zap.Error(err))
	}
	defer func() {
		_ = consumer.Close()
	}()
	if err := consumer.Start(ctx); err != nil {
		logger.Fatal("err start consumer", zap.Error(err))
	}

	httpTransport := transport.NewTransport(AuthApp, ProductApp, CartApp, OrderApp)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      httpTransport,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	logger.Info("HTTP server running", zap.String("port", cfg.Server.Port))
	err = server.ListenAndServe()
	if err != nil {
		logger.Fatal("failed server", zap.Error(err))
	}
}
