package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/shopeasy/shopeasy-engine/config"
	"github.com/shopeasy/shopeasy-engine/internal/application"
	"github.com/shopeasy/shopeasy-engine/internal/catalog"
	"github.com/shopeasy/shopeasy-engine/internal/container"
	"github.com/shopeasy/shopeasy-engine/internal/domain/repository"
	pginfra "github.com/shopeasy/shopeasy-engine/internal/infrastructure/postgres"
	"github.com/shopeasy/shopeasy-engine/internal/infrastructure/redisstore"
	"github.com/shopeasy/shopeasy-engine/internal/interface/middleware"
	"github.com/shopeasy/shopeasy-engine/internal/router"
	"github.com/shopeasy/shopeasy-engine/pkg/helpers"
	"github.com/shopeasy/shopeasy-engine/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	// Redis is always needed (rate limiting), and is the default store backend
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()

	var store repository.Store
	switch cfg.StoreBackend {
	case "postgres":
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()
		if err := runMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil && !errors.Is(migrate.ErrNoChange, err) {
			log.Fatalf("migration failed: %v", err)
		}
		container.SetPGPool(pool)
		store = pginfra.NewStore(pool, cfg.StoreNamespace)
	case "redis", "":
		store = redisstore.New(rdb, cfg.StoreNamespace)
	default:
		log.Fatalf("unknown store backend %q", cfg.StoreBackend)
	}

	// GCS backs avatar uploads; the feature degrades gracefully without it
	gcsClient, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
	if err != nil {
		logger.WithError(err).Warn("GCS unavailable, avatar uploads disabled")
		gcsClient = nil
	} else {
		defer func() { _ = gcsClient.Close() }()
	}

	// Elasticsearch backs catalog search; in-memory matching covers its absence
	esClient, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		logger.WithError(err).Warn("elasticsearch unavailable, catalog search runs in memory")
		esClient = nil
	}

	// RabbitMQ carries OTP mail jobs to the email worker
	rabbitPub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
	if err != nil {
		logger.WithError(err).Warn("rabbitmq unavailable, otp mails will not be sent")
		rabbitPub = nil
	} else {
		defer rabbitPub.Close()
	}

	jwtManager := helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.AccessTTL, cfg.RefreshTTL)

	// Services load their persisted state up front
	accounts := application.NewAccountService(store, jwtManager, gcsClient, cfg.GCSBucket, logger, application.AccountConfig{
		ResetTTL:          cfg.PasswordResetTTL,
		MinPasswordLength: cfg.MinPasswordLength,
		MinNameLength:     cfg.MinNameLength,
	})
	cart, err := application.NewCartService(ctx, store, logger, application.Pricing{
		ShippingFlatFee:  cfg.ShippingFlatFee,
		FreeShippingOver: cfg.FreeShippingOver,
	})
	if err != nil {
		log.Fatalf("failed to load cart: %v", err)
	}
	wishlist, err := application.NewWishlistService(ctx, store, logger)
	if err != nil {
		log.Fatalf("failed to load wishlist: %v", err)
	}
	accounts.AttachSessionScoped(cart, wishlist)
	orders := application.NewOrderService(store, cart, accounts, logger, cfg.OrderIDPrefix)
	cat := catalog.New(esClient, cfg.ESCatalogIndex, logger)

	// Provide singletons to container for registry auto-wiring
	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetStore(store)
	container.SetRedis(rdb)
	container.SetGCS(gcsClient)
	container.SetES(esClient)
	container.SetJWT(jwtManager)
	container.SetRabbitPub(rabbitPub)
	container.SetAccounts(accounts)
	container.SetCart(cart)
	container.SetWishlist(wishlist)
	container.SetOrders(orders)
	container.SetCatalog(cat)

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	r.Use(cors.New(corsCfg))
	if cfg.Env == "development" || cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}

	reg := router.NewRegistry(r)
	router.InitModules(reg)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(http.ErrServerClosed, err) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatalf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

func runMigrations(dsn string, migrationsDir string, logger *logrus.Logger) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", migrationsDir), "postgres", driver)
	if err != nil {
		return err
	}
	logger.Info("running migrations...")
	err = m.Up()
	if errors.Is(migrate.ErrNoChange, err) {
		logger.Info("no migrations to run")
		return nil
	}
	return err
}
