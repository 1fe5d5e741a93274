// Package main はAPIサーバーのエントリーポイントです。
package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yourusername/img2pdf/internal/config"
	"github.com/yourusername/img2pdf/internal/convert"
	"github.com/yourusername/img2pdf/internal/jobs"
	"github.com/yourusername/img2pdf/internal/logging"
	"github.com/yourusername/img2pdf/internal/storage"
)

func main() {
	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	ctx := context.Background()

	// GCSクライアントの初期化
	store, err := storage.NewGCS(ctx)
	if err != nil {
		log.Fatalf("Failed to create storage client: %v", err)
	}
	defer store.Close()

	// Pub/Subパブリッシャーの初期化
	publisher, err := jobs.NewPubSubPublisher(ctx, cfg.GCPProject, cfg.PubSubTopic, logger)
	if err != nil {
		log.Fatalf("Failed to create publisher: %v", err)
	}
	defer publisher.Close()

	// 変換エンジンの初期化
	engine := convert.NewEngine(store, convert.Options{
		MaxPages:          cfg.MaxPages,
		MaxImageBytes:     cfg.MaxImageBytes,
		MaxImageDimension: cfg.MaxImageDimension,
	}, logger)

	// Ginのモードを設定
	gin.SetMode(cfg.GinMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logging.RequestLogger(logger))

	// CORSミドルウェアの設定
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = strings.Split(cfg.CORSAllowedOrigins, ",")
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Type",
		"Accept",
	}
	router.Use(cors.New(corsConfig))

	setupRoutes(router, cfg, store, publisher, engine, logger)

	// サーバーの起動
	addr := ":" + cfg.Port
	logger.Info("starting api server",
		slog.String("addr", addr),
		slog.String("mode", cfg.GinMode),
	)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// handleHealth はヘルスチェックエンドポイントのハンドラーです。
func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "img2pdf-api",
	})
}

// setupRoutes はAPIとワーカーエンドポイントの配線を行います。
func setupRoutes(
	router *gin.Engine,
	cfg *config.Config,
	store storage.BlobStore,
	publisher jobs.Publisher,
	engine *convert.Engine,
	logger *slog.Logger,
) {
	router.GET("/health", handleHealth)

	opts := convert.HandlerOptions{
		InputBucket:       cfg.InputBucket,
		OutputBucket:      cfg.OutputBucket,
		StoragePublicHost: cfg.StoragePublicHost,
	}

	api := router.Group("/api")
	{
		api.POST("/convert", convert.SubmitHandler(store, publisher, opts, logger))
		api.GET("/jobs/:id", convert.StatusHandler(store, opts))
	}

	// キューバックエンドからのPush配信を受けるワーカーエンドポイント
	router.POST("/pubsub/push", jobs.PushHandler(engine, cfg.WorkerConcurrency, logger))
}
