package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/xiebiao/bookshop/docs"
	appBook "github.com/xiebiao/bookshop/internal/application/book"
	appCart "github.com/xiebiao/bookshop/internal/application/cart"
	appCategory "github.com/xiebiao/bookshop/internal/application/category"
	appOrder "github.com/xiebiao/bookshop/internal/application/order"
	"github.com/xiebiao/bookshop/internal/domain/book"
	"github.com/xiebiao/bookshop/internal/domain/event"
	"github.com/xiebiao/bookshop/internal/infrastructure/config"
	"github.com/xiebiao/bookshop/internal/infrastructure/messaging"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/mysql"
	"github.com/xiebiao/bookshop/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/bookshop/internal/interface/http/handler"
	"github.com/xiebiao/bookshop/internal/interface/http/middleware"
	"github.com/xiebiao/bookshop/pkg/logger"
	"github.com/xiebiao/bookshop/pkg/metrics"
	"github.com/xiebiao/bookshop/pkg/response"
)

// @title          Bookshop API
// @version        1.0
// @description    网上书店服务:图书、分类、购物车与订单
// @BasePath       /api/v1
func main() {
	configPath := flag.String("config", "", "配置文件路径")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	if err := logger.Init(logger.Config{
		Level:        cfg.Log.Level,
		Format:       cfg.Log.Format,
		Output:       cfg.Log.Output,
		EnableCaller: cfg.Log.EnableCaller,
	}); err != nil {
		log.Fatalf("初始化日志失败: %v", err)
	}
	defer logger.Sync()

	metrics.Init()

	db, err := mysql.NewDB(cfg.Database)
	if err != nil {
		logger.L.Fatal("初始化数据库失败", zap.Error(err))
	}

	redisClient, err := redis.NewClient(cfg.Redis)
	if err != nil {
		logger.L.Fatal("初始化Redis失败", zap.Error(err))
	}

	var publisher event.Publisher
	if cfg.RabbitMQ.Enabled {
		mqPublisher, err := messaging.NewEventPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange)
		if err != nil {
			logger.L.Fatal("初始化消息队列失败", zap.Error(err))
		}
		defer mqPublisher.Close()
		publisher = mqPublisher
	} else {
		publisher = messaging.NopPublisher{}
	}

	// 依赖组装:Repository ← Service ← UseCase ← Handler
	bookRepo := mysql.NewBookRepository(db)
	categoryRepo := mysql.NewCategoryRepository(db)
	cartRepo := mysql.NewCartRepository(db)
	orderRepo := mysql.NewOrderRepository(db)
	txManager := mysql.NewTxManager(db)
	bookCache := redis.NewBookCache(redisClient, cfg.Cache.BookTTL)

	bookService := book.NewService(bookRepo)

	bookUseCase := appBook.NewBookUseCase(bookService, bookRepo, bookCache, publisher)
	categoryUseCase := appCategory.NewCategoryUseCase(categoryRepo, bookRepo)
	cartUseCase := appCart.NewCartUseCase(cartRepo, bookRepo)
	createOrderUC := appOrder.NewCreateOrderUseCase(orderRepo, bookRepo, txManager, publisher)
	updateStatusUC := appOrder.NewUpdateStatusUseCase(orderRepo, publisher)
	getOrderUC := appOrder.NewGetOrderUseCase(orderRepo)
	checkoutUseCase := appCart.NewCheckoutUseCase(cartRepo, bookRepo, orderRepo, createOrderUC, publisher)

	bookHandler := handler.NewBookHandler(bookUseCase)
	categoryHandler := handler.NewCategoryHandler(categoryUseCase)
	cartHandler := handler.NewCartHandler(cartUseCase, checkoutUseCase)
	orderHandler := handler.NewOrderHandler(createOrderUC, updateStatusUC, getOrderUC)

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.CORS())

	registerRoutes(r, bookHandler, categoryHandler, cartHandler, orderHandler)

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.L.Info("服务启动", zap.String("addr", cfg.Server.Addr()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.L.Fatal("启动服务失败", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.L.Info("收到退出信号,开始优雅关闭")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.L.Error("关闭服务失败", zap.Error(err))
	}
	logger.L.Info("服务已退出")
}

// registerRoutes 注册路由
func registerRoutes(
	r *gin.Engine,
	bookHandler *handler.BookHandler,
	categoryHandler *handler.CategoryHandler,
	cartHandler *handler.CartHandler,
	orderHandler *handler.OrderHandler,
) {
	// 健康检查
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// Prometheus指标
	r.GET("/metrics", metrics.Handler())

	// Swagger文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		books := v1.Group("/books")
		{
			books.POST("", bookHandler.Publish)
			books.GET("", bookHandler.List)
			books.GET("/:id", bookHandler.Get)
			books.PUT("/:id", bookHandler.Update)
			books.PATCH("/:id/price", bookHandler.UpdatePrice)
			books.PATCH("/:id/stock", bookHandler.AdjustStock)
			books.DELETE("/:id", bookHandler.Delete)
		}

		categories := v1.Group("/categories")
		{
			categories.POST("", categoryHandler.Create)
			categories.GET("", categoryHandler.List)
			categories.GET("/:id", categoryHandler.Get)
			categories.PUT("/:id", categoryHandler.Update)
			categories.DELETE("/:id", categoryHandler.Delete)
			categories.GET("/:id/books", categoryHandler.ListBooks)
		}

		carts := v1.Group("/carts")
		{
			carts.POST("", cartHandler.Create)
			carts.GET("", cartHandler.GetByCustomer)
			carts.GET("/:id", cartHandler.Get)
			carts.DELETE("/:id", cartHandler.Delete)
			carts.POST("/:id/items", cartHandler.AddItem)
			carts.PUT("/:id/items/:item_id", cartHandler.UpdateItem)
			carts.DELETE("/:id/items/:item_id", cartHandler.RemoveItem)
			carts.POST("/:id/checkout", cartHandler.Checkout)
		}

		orders := v1.Group("/orders")
		{
			orders.POST("", orderHandler.Create)
			orders.GET("", orderHandler.List)
			orders.GET("/:id", orderHandler.Get)
			orders.PATCH("/:id/status", orderHandler.UpdateStatus)
		}
	}
}
