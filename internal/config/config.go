// Package config は環境変数から設定を読み込み、アプリケーション全体で使用する設定を提供します。
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config はアプリケーションの設定を保持する構造体です。
type Config struct {
	// サーバー設定
	Port    string // APIサーバーのポート番号
	GinMode string // Ginの実行モード (debug, release, test)

	// CORS設定
	CORSAllowedOrigins string // CORS許可オリジン（カンマ区切り）

	// ログ設定
	LogLevel  string // ログレベル (debug, info, warn, error)
	LogFormat string // ログ形式 (console, json)

	// GCP設定
	GCPProject        string // GCPプロジェクトID
	PubSubTopic       string // 変換ジョブを送信するPub/Subトピック
	InputBucket       string // 入力画像を保存するGCSバケット
	OutputBucket      string // 変換結果PDFを保存するGCSバケット
	StoragePublicHost string // 成果物の公開URLに使用するホスト名

	// 変換制限
	MaxPages          int   // 1ジョブあたりの最大ページ数（=入力画像数）
	MaxImageBytes     int64 // 入力画像1枚あたりの最大サイズ（バイト）
	MaxImageDimension int   // デコード後ラスタの最大辺長（ピクセル）

	// ワーカー設定
	WorkerConcurrency int // Pushエンドポイントの同時処理数上限
}

// Load は環境変数から設定を読み込みます。
// .env.local ファイルが存在する場合はそこから読み込みます。
func Load() (*Config, error) {
	loadEnvFile()

	config := &Config{
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),

		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),

		GCPProject:        getEnv("GCP_PROJECT", ""),
		PubSubTopic:       getEnv("PUBSUB_TOPIC", "pdf-jobs"),
		InputBucket:       getEnv("INPUT_BUCKET", ""),
		OutputBucket:      getEnv("OUTPUT_BUCKET", ""),
		StoragePublicHost: getEnv("STORAGE_PUBLIC_HOST", "storage.googleapis.com"),

		MaxPages:          getEnvAsInt("MAX_PAGES", 20),
		MaxImageBytes:     getEnvAsInt64("MAX_IMAGE_BYTES", 20*1024*1024), // 20MB
		MaxImageDimension: getEnvAsInt("MAX_IMAGE_DIMENSION", 4000),

		WorkerConcurrency: getEnvAsInt("WORKER_CONCURRENCY", 4),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func loadEnvFile() {
	if err := godotenv.Load(".env.local"); err == nil {
		return
	}

	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	parent := filepath.Dir(cwd)
	if parent == "" || parent == cwd {
		return
	}

	_ = godotenv.Load(filepath.Join(parent, ".env.local"))
}

// Validate は設定の妥当性を検証します。
func (c *Config) Validate() error {
	if c.MaxPages <= 0 {
		return fmt.Errorf("MAX_PAGES must be positive")
	}
	if c.MaxImageBytes <= 0 {
		return fmt.Errorf("MAX_IMAGE_BYTES must be positive")
	}
	if c.MaxImageDimension <= 0 {
		return fmt.Errorf("MAX_IMAGE_DIMENSION must be positive")
	}
	if c.WorkerConcurrency <= 0 {
		return fmt.Errorf("WORKER_CONCURRENCY must be positive")
	}

	// ローカル開発ではGCP設定は任意
	// 本番環境では厳格にチェックする
	if c.GinMode == "release" {
		if c.GCPProject == "" {
			return fmt.Errorf("GCP_PROJECT is required in release mode")
		}
		if c.PubSubTopic == "" {
			return fmt.Errorf("PUBSUB_TOPIC is required in release mode")
		}
		if c.InputBucket == "" {
			return fmt.Errorf("INPUT_BUCKET is required in release mode")
		}
		if c.OutputBucket == "" {
			return fmt.Errorf("OUTPUT_BUCKET is required in release mode")
		}
	}

	return nil
}

// getEnv は環境変数を取得し、存在しない場合はデフォルト値を返します。
func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt は環境変数を整数として取得します。
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsInt64 は環境変数を64ビット整数として取得します。
func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil {
		return defaultValue
	}
	return value
}
