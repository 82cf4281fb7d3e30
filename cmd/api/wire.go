//go:build wireinject
// +build wireinject

// Wire依赖注入配置
// 运行 `wire gen ./cmd/api` 生成wire_gen.go,
// main.go当前采用手动组装,两种方式构造的依赖链一致。
package main

import (
	"github.com/gin-gonic/gin"
	"github.com/google/wire"
	goredis "github.com/redis/go-redis/v9"

	appBook "github.com/xiebiao/bookshop/internal/application/book"
	appCart "github.com/xiebiao/bookshop/internal/application/cart"
	appCategory "github.com/xiebiao/bookshop/internal/application/category"
	appOrder "github.com/xiebiao/bookshop/internal/application/order"
	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/cart"
	"github.com/xiebiao/bookshop/internal/domain/category"
	"github.com/xiebiao/bookshop/internal/domain/event"
	"github.com/xiebiao/bookshop/internal/domain/order"
	"github.com/xiebiao/bookshop/internal/domain/transaction"
	"github.com/xiebiao/bookshop/internal/infrastructure/config"
	"github.com/xiebiao/bookshop/internal/infrastructure/messaging"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookshop/internal/interface/http/handler"
	"github.com/xiebiao/bookshop/internal/interface/http/middleware"
)

// infrastructureSet 基础设施层:配置、数据库、Redis
var infrastructureSet = wire.NewSet(
	provideConfig,
	provideDatabaseConfig,
	provideRedisConfig,
	mysql.NewDB,
	redis.NewClient,
)

// repositorySet 仓储层
var repositorySet = wire.NewSet(
	mysql.NewBookRepository,
	wire.Bind(new(book.Repository), new(*mysql.BookRepository)),
	mysql.NewCategoryRepository,
	wire.Bind(new(category.Repository), new(*mysql.CategoryRepository)),
	mysql.NewCartRepository,
	wire.Bind(new(cart.Repository), new(*mysql.CartRepository)),
	mysql.NewOrderRepository,
	wire.Bind(new(order.Repository), new(*mysql.OrderRepository)),
	mysql.NewTxManager,
	wire.Bind(new(transaction.Manager), new(*mysql.TxManager)),
	provideBookCache,
)

// domainSet 领域层
var domainSet = wire.NewSet(
	book.NewService,
)

// applicationSet 应用层
var applicationSet = wire.NewSet(
	appBook.NewBookUseCase,
	appCategory.NewCategoryUseCase,
	appCart.NewCartUseCase,
	appCart.NewCheckoutUseCase,
	appOrder.NewCreateOrderUseCase,
	appOrder.NewUpdateStatusUseCase,
	appOrder.NewGetOrderUseCase,
)

// handlerSet 接口层
var handlerSet = wire.NewSet(
	handler.NewBookHandler,
	handler.NewCategoryHandler,
	handler.NewCartHandler,
	handler.NewOrderHandler,
)

func provideConfig() (*config.Config, error) {
	return config.Load("")
}

func provideDatabaseConfig(cfg *config.Config) config.DatabaseConfig {
	return cfg.Database
}

func provideRedisConfig(cfg *config.Config) config.RedisConfig {
	return cfg.Redis
}

func provideBookCache(cfg *config.Config, client *goredis.Client) *redis.BookCache {
	return redis.NewBookCache(client, cfg.Cache.BookTTL)
}

// provideEventPublisher 按配置选择RabbitMQ发布器或空实现
func provideEventPublisher(cfg *config.Config) (event.Publisher, error) {
	if !cfg.RabbitMQ.Enabled {
		return messaging.NopPublisher{}, nil
	}
	return messaging.NewEventPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
}

// provideGinEngine 创建Gin引擎并注册全部路由
func provideGinEngine(
	cfg *config.Config,
	bookHandler *handler.BookHandler,
	categoryHandler *handler.CategoryHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.CORS())

	registerRoutes(r, bookHandler, categoryHandler, cartHandler, orderHandler)
	return r
}

// InitializeApp 组装整个应用,返回配置好的Gin引擎
func InitializeApp() (*gin.Engine, error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		handlerSet,
		provideEventPublisher,
		provideGinEngine,
	)
	return nil, nil
}
