// Package logging はアプリケーション共通のロガー生成を提供します。
package logging

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// New は指定されたレベル・形式の *slog.Logger を生成します。
// format が "json" の場合はJSONハンドラー、それ以外は tint によるコンソール出力になります。
func New(level, format string) *slog.Logger {
	lv := parseLevel(level)

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lv})
	default:
		handler = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      lv,
			TimeFormat: time.RFC3339,
		})
	}

	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
