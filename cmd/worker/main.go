// 事件消费Worker:订阅订单与库存事件,输出通知日志。
// 与API服务独立部署,MQ不可用时直接退出交由进程管理器重启。
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/xiebiao/bookshop/internal/domain/event"
	"github.com/xiebiao/bookshop/internal/infrastructure/config"
	"github.com/xiebiao/bookshop/pkg/logger"
	"github.com/xiebiao/bookshop/pkg/mq"
)

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

	consumer, err := mq.NewConsumer(
		cfg.RabbitMQ.URL,
		cfg.RabbitMQ.Exchange,
		"topic",
		"bookshop.notifications",
		[]string{"order.*", "stock.*", "cart.*"},
	)
	if err != nil {
		logger.L.Fatal("初始化消费者失败", zap.Error(err))
	}
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.L.Info("收到退出信号")
		cancel()
	}()

	logger.L.Info("通知Worker启动", zap.String("exchange", cfg.RabbitMQ.Exchange))
	if err := consumer.Consume(ctx, handleEvent); err != nil && err != context.Canceled {
		logger.L.Fatal("消费失败", zap.Error(err))
	}
}

// handleEvent 按路由键分发事件
// 返回error时消息重新入队,处理必须幂等
func handleEvent(routingKey string, body []byte) error {
	switch routingKey {
	case event.RoutingKeyOrderCreated:
		var evt event.OrderCreatedEvent
		if err := json.Unmarshal(body, &evt); err != nil {
			logger.L.Warn("事件解析失败,丢弃", zap.String("routing_key", routingKey), zap.Error(err))
			return nil
		}
		logger.L.Info("通知:订单已创建",
			zap.String("order_no", evt.OrderNo),
			zap.String("customer", evt.CustomerEmail),
			zap.Int64("total", evt.Total))

	case event.RoutingKeyOrderStatusChanged:
		var evt event.OrderStatusChangedEvent
		if err := json.Unmarshal(body, &evt); err != nil {
			logger.L.Warn("事件解析失败,丢弃", zap.String("routing_key", routingKey), zap.Error(err))
			return nil
		}
		logger.L.Info("通知:订单状态变更",
			zap.String("order_no", evt.OrderNo),
			zap.String("from", evt.OldStatus),
			zap.String("to", evt.NewStatus))

	case event.RoutingKeyStockAdjusted:
		var evt event.StockAdjustedEvent
		if err := json.Unmarshal(body, &evt); err != nil {
			logger.L.Warn("事件解析失败,丢弃", zap.String("routing_key", routingKey), zap.Error(err))
			return nil
		}
		if evt.NewStock == 0 {
			logger.L.Warn("库存告警:已售罄", zap.Uint("book_id", evt.BookID))
		} else {
			logger.L.Info("库存变动",
				zap.Uint("book_id", evt.BookID),
				zap.Int("delta", evt.Delta),
				zap.Int("new_stock", evt.NewStock))
		}

	case event.RoutingKeyCartCheckedOut:
		var evt event.CartCheckedOutEvent
		if err := json.Unmarshal(body, &evt); err != nil {
			logger.L.Warn("事件解析失败,丢弃", zap.String("routing_key", routingKey), zap.Error(err))
			return nil
		}
		logger.L.Info("通知:购物车已结算",
			zap.String("customer", evt.CustomerEmail),
			zap.String("order_no", evt.OrderNo))

	default:
		logger.L.Debug("忽略未知事件", zap.String("routing_key", routingKey))
	}
	return nil
}
