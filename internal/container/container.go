package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/shopeasy/shopeasy-engine/config"
	"github.com/shopeasy/shopeasy-engine/internal/application"
	"github.com/shopeasy/shopeasy-engine/internal/catalog"
	"github.com/shopeasy/shopeasy-engine/internal/domain/repository"
	"github.com/shopeasy/shopeasy-engine/pkg/helpers"
)

// app-level container to share constructed components across packages.
// Router modules auto-wire their handlers from these singletons; main is the
// only writer.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	store       repository.Store
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	gcsClient   *storage.Client
	esClient    *elasticsearch.Client

	jwtManager *helpers.JWTManager
	rabbitPub  *helpers.RabbitPublisher

	accountSvc  *application.AccountService
	cartSvc     *application.CartService
	wishlistSvc *application.WishlistService
	orderSvc    *application.OrderService
	catalogSvc  *catalog.Catalog
)

func SetConfig(c *config.Config)      { cfg = c }
func GetConfig() *config.Config       { return cfg }
func SetLogger(l *logrus.Logger)      { logger = l }
func GetLogger() *logrus.Logger       { return logger }
func SetStore(s repository.Store)     { store = s }
func GetStore() repository.Store      { return store }
func SetPGPool(p *pgxpool.Pool)       { pgPool = p }
func GetPGPool() *pgxpool.Pool        { return pgPool }
func SetRedis(r *redis.Client)        { redisClient = r }
func GetRedis() *redis.Client         { return redisClient }
func SetGCS(s *storage.Client)        { gcsClient = s }
func GetGCS() *storage.Client         { return gcsClient }
func SetES(c *elasticsearch.Client)   { esClient = c }
func GetES() *elasticsearch.Client    { return esClient }
func SetJWT(m *helpers.JWTManager)    { jwtManager = m }

func GetJWT() *helpers.JWTManager {
	if jwtManager != nil {
		return jwtManager
	}
	return helpers.DefaultJWT()
}

func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }

func SetAccounts(s *application.AccountService)  { accountSvc = s }
func GetAccounts() *application.AccountService   { return accountSvc }
func SetCart(s *application.CartService)         { cartSvc = s }
func GetCart() *application.CartService          { return cartSvc }
func SetWishlist(s *application.WishlistService) { wishlistSvc = s }
func GetWishlist() *application.WishlistService  { return wishlistSvc }
func SetOrders(s *application.OrderService)      { orderSvc = s }
func GetOrders() *application.OrderService       { return orderSvc }
func SetCatalog(c *catalog.Catalog)              { catalogSvc = c }
func GetCatalog() *catalog.Catalog               { return catalogSvc }
