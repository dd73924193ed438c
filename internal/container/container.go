package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/servicemart/config"
	"github.com/oksasatya/servicemart/internal/application"
	repo "github.com/oksasatya/servicemart/internal/domain/repository"
	"github.com/oksasatya/servicemart/internal/infrastructure/redisstore"
	"github.com/oksasatya/servicemart/pkg/helpers"
)

// app-level container to share constructed components across packages.
// Router modules pull their dependencies from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	gcsClient   *storage.Client
	esClient    *elasticsearch.Client
	rabbitPub   *helpers.RabbitPublisher

	jwtManager *helpers.JWTManager
	cookies    *helpers.Manager
	sessions   *redisstore.SessionStore
	accounts   repo.AccountRepository
	services   *application.Services
)

func SetConfig(c *config.Config)              { cfg = c }
func GetConfig() *config.Config               { return cfg }
func SetLogger(l *logrus.Logger)              { logger = l }
func GetLogger() *logrus.Logger               { return logger }
func SetPGPool(p *pgxpool.Pool)               { pgPool = p }
func GetPGPool() *pgxpool.Pool                { return pgPool }
func SetRedis(r *redis.Client)                { redisClient = r }
func GetRedis() *redis.Client                 { return redisClient }
func SetGCS(s *storage.Client)                { gcsClient = s }
func GetGCS() *storage.Client                 { return gcsClient }
func SetES(c *elasticsearch.Client)           { esClient = c }
func GetES() *elasticsearch.Client            { return esClient }
func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }

func SetJWT(m *helpers.JWTManager)            { jwtManager = m }
func GetJWT() *helpers.JWTManager             { return jwtManager }
func SetCookies(m *helpers.Manager)           { cookies = m }
func GetCookies() *helpers.Manager            { return cookies }
func SetSessions(s *redisstore.SessionStore)  { sessions = s }
func GetSessions() *redisstore.SessionStore   { return sessions }
func SetAccounts(r repo.AccountRepository)    { accounts = r }
func GetAccounts() repo.AccountRepository     { return accounts }
func SetServices(s *application.Services)     { services = s }
func GetServices() *application.Services      { return services }
