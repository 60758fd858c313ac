package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/config"
	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/handler"
	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/repository"
	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/service"
	"github.com/sysu-ecnc-dev/room-schedule/backend/internal/storage"
)

func main() {
	/**********************************************
	 * 加载配置
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("无法加载配置文件", "error", err)
		os.Exit(1)
	}

	/**********************************************
	 * 创建 logger
	 **********************************************/
	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	/**********************************************
	 * 打开存储后端
	 **********************************************/
	ctx, cancel := context.WithTimeout(context.Background(), cfg.OperationTimeout()*2)
	defer cancel()

	blobs, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("无法打开存储后端", "driver", cfg.Storage.Driver, "error", err)
		return
	}
	defer blobs.Close()

	/**********************************************
	 * 创建 repository 和 service
	 **********************************************/
	repo := repository.NewRepository(cfg, blobs, logger)
	metrics := handler.NewMetrics()

	svc, err := service.New(cfg, repo, logger, service.WithObserver(metrics))
	if err != nil {
		logger.Error("无法加载排班数据", "error", err)
		return
	}
	defer svc.Close()

	/**********************************************
	 * 连接 rabbitmq，未配置时不发送排班通知
	 **********************************************/
	var publisher handler.Publisher
	if cfg.RabbitMQ.DSN != "" {
		conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
		if err != nil {
			logger.Error("无法连接到 rabbitmq", "error", err)
			return
		}
		defer conn.Close()

		// 建立通道
		ch, err := conn.Channel()
		if err != nil {
			logger.Error("无法建立通道", "error", err)
			return
		}
		defer ch.Close()

		// 声明队列
		_, err = ch.QueueDeclare(
			cfg.RabbitMQ.Queue,
			true,
			false,
			false,
			false,
			nil,
		)
		if err != nil {
			logger.Error("无法声明队列", "error", err)
			return
		}

		publisher = handler.NewAMQPPublisher(ch, cfg.RabbitMQ.Queue)
	} else {
		logger.Warn("未配置 RABBITMQ_DSN，排班通知已关闭")
	}

	/**********************************************
	 * 创建 handler
	 **********************************************/
	h, err := handler.NewHandler(cfg, svc, publisher, metrics)
	if err != nil {
		logger.Error("无法创建 handler", "error", err)
		return
	}
	h.RegisterRoutes()

	/**********************************************
	 * 启动 HTTP 服务器
	 **********************************************/
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      h.Mux,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("正在启动服务器...", "port", cfg.Server.Port, "storage", blobs.Driver())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("无法启动服务器", slog.String("error", err.Error()))
			quit <- syscall.SIGTERM
		}
	}()

	<-quit
	logger.Info("正在关闭服务器...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("关闭服务器失败", slog.String("error", err.Error()))
	}

	// 重试之前未能保存的数据块
	if pending := svc.Pending(); len(pending) > 0 {
		if err := svc.Flush(); err != nil {
			logger.Error("退出前仍有数据未能保存", "keys", pending, "error", err)
		}
	}
	logger.Info("服务器已成功关闭")
}
