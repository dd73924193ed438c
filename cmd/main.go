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

	"github.com/oksasatya/servicemart/config"
	"github.com/oksasatya/servicemart/internal/application"
	"github.com/oksasatya/servicemart/internal/container"
	repo "github.com/oksasatya/servicemart/internal/domain/repository"
	"github.com/oksasatya/servicemart/internal/infrastructure/events"
	"github.com/oksasatya/servicemart/internal/infrastructure/memory"
	"github.com/oksasatya/servicemart/internal/infrastructure/payments"
	pginfra "github.com/oksasatya/servicemart/internal/infrastructure/postgres"
	"github.com/oksasatya/servicemart/internal/infrastructure/redisstore"
	"github.com/oksasatya/servicemart/internal/infrastructure/search"
	"github.com/oksasatya/servicemart/internal/interface/middleware"
	"github.com/oksasatya/servicemart/internal/router"
	"github.com/oksasatya/servicemart/pkg/helpers"
	"github.com/oksasatya/servicemart/pkg/mailer"
	mailtpl "github.com/oksasatya/servicemart/pkg/mailer/templates"
	"github.com/oksasatya/servicemart/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	// Storage
	var repos repo.Set
	switch cfg.StorageDriver {
	case "memory":
		logger.Warn("using in-memory storage; data is lost on restart")
		repos = memory.New().Set()
	default:
		pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
		if err != nil {
			log.Fatalf("failed to connect to postgres: %v", err)
		}
		defer pool.Close()
		if err := runMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
		container.SetPGPool(pool)
		repos = pginfra.NewSet(pool)
	}

	// Redis holds sessions, pending registrations and rate limit buckets
	rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer func() { _ = rdb.Close() }()
	if err := helpers.RedisPing(ctx, rdb, 5*time.Second); err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}

	deps := application.Deps{
		Repos:     repos,
		Pending:   redisstore.NewRegistrationStore(rdb, cfg.OTPTTL, cfg.OTPResendDelay),
		Sessions:  redisstore.NewSessionStore(rdb),
		JWT:       helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL),
		Payments:  payments.NewStripeGateway(cfg.StripeSecretKey, cfg.StripeCurrency),
		Events:    events.Nop{},
		Brand:     mailtpl.Brand{AppName: cfg.AppName, ClientURL: cfg.ClientURL, SupportURL: cfg.SupportURL},
		ClientURL: cfg.ClientURL,
		Logger:    logger,
	}

	// GCS uploads
	if cfg.GCSBucket != "" {
		gcsClient, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			log.Fatalf("failed to init GCS client: %v", err)
		}
		defer func() { _ = gcsClient.Close() }()
		container.SetGCS(gcsClient)
		deps.Files = helpers.NewGCSUploader(gcsClient, cfg.GCSBucket)
	} else {
		logger.Warn("GCS_BUCKET not set; uploads are disabled")
	}

	// Mail goes through RabbitMQ to the email worker
	if cfg.MailSendEnabled {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			log.Fatalf("failed to connect to rabbitmq: %v", err)
		}
		defer pub.Close()
		container.SetRabbitPub(pub)
		deps.Mail = pub
	} else {
		deps.Mail = mailer.LogQueue{Logger: logger}
	}

	// Product search
	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			log.Fatalf("failed to init elasticsearch: %v", err)
		}
		idx := search.NewProductIndex(es, cfg.ESProductsIndex)
		if err := idx.Ensure(ctx); err != nil {
			logger.WithError(err).Warn("product index unavailable; search falls back to postgres")
		} else {
			container.SetES(es)
			deps.Search = idx
		}
	}

	// Order events
	var producer *events.Producer
	if brokers := cfg.KafkaBrokerList(); len(brokers) > 0 {
		producer = events.NewProducer(brokers, cfg.KafkaOrderTopic, 256, logger)
		producer.Start()
		deps.Events = producer
	}

	// Provide singletons to container for registry auto-wiring
	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetRedis(rdb)
	container.SetJWT(deps.JWT)
	container.SetCookies(helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure))
	container.SetSessions(deps.Sessions)
	container.SetAccounts(repos.Accounts)
	container.SetServices(application.NewServices(deps))

	// Gin engine and global middleware
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders:    []string{"Content-Length", middleware.HeaderRequestID, "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	r.Use(cors.New(corsCfg))
	if cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}

	reg := router.NewRegistry(r)
	router.InitModules(reg)
	logger.WithField("routes", reg.RegisterAll()).Info("routes registered")

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
		logger.WithError(err).Error("server forced to shutdown")
	}
	if producer != nil {
		producer.Close()
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
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migrations to run")
		return nil
	}
	return err
}
