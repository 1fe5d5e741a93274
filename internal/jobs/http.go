package jobs

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/semaphore"
)

// Converter はジョブ記述子を処理できる変換エンジンが実装します。
type Converter interface {
	Convert(ctx context.Context, job *Descriptor) (string, error)
}

// PushHandler は POST /pubsub/push のハンドラーを返します。
// 処理成功または意図的な無視の場合のみ2xxを返し、それ以外は5xxで再配信させます。
// 同時処理数は concurrency で明示的に制限されます。
func PushHandler(conv Converter, concurrency int, logger *slog.Logger) gin.HandlerFunc {
	if concurrency <= 0 {
		concurrency = 1
	}
	sem := semaphore.NewWeighted(int64(concurrency))

	return func(c *gin.Context) {
		var req PushRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.Error("invalid push envelope", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{
				"code":    "INVALID_ENVELOPE",
				"message": "Pushエンベロープの解析に失敗しました。",
			})
			return
		}

		payload, err := base64.StdEncoding.DecodeString(req.Message.Data)
		if err != nil {
			logger.Error("invalid message data",
				slog.String("messageId", req.Message.MessageID),
				slog.String("error", err.Error()),
			)
			c.JSON(http.StatusInternalServerError, gin.H{
				"code":    "INVALID_ENVELOPE",
				"message": "メッセージ本文のbase64復号に失敗しました。",
			})
			return
		}

		job, err := DecodeDescriptor(payload)
		if err != nil {
			logger.Error("invalid job descriptor",
				slog.String("messageId", req.Message.MessageID),
				slog.String("error", err.Error()),
			)
			c.JSON(http.StatusInternalServerError, gin.H{
				"code":    "INVALID_DESCRIPTOR",
				"message": "ジョブ記述子の解析に失敗しました。",
			})
			return
		}

		// 未知の種別・スキーマは確認応答して破棄する。
		// 再配信しても処理できるようにはならないため。
		if job.Type != TypeImageToPDF {
			logger.Warn("ignoring job with unknown type",
				slog.String("jobId", job.JobID),
				slog.String("type", job.Type),
			)
			c.JSON(http.StatusOK, gin.H{
				"status":  "ignored",
				"type":    job.Type,
				"message": "未対応のジョブ種別のため無視しました。",
			})
			return
		}
		if job.SchemaVersion > SchemaVersion {
			logger.Warn("ignoring job with unknown schema version",
				slog.String("jobId", job.JobID),
				slog.Int("schemaVersion", job.SchemaVersion),
			)
			c.JSON(http.StatusOK, gin.H{
				"status":  "ignored",
				"message": "未対応のスキーマバージョンのため無視しました。",
			})
			return
		}

		// 同時処理数の上限。空きが出るまでブロックし、キュー側の
		// タイムアウト・再配信に委ねる。
		if err := sem.Acquire(c.Request.Context(), 1); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"code":    "WORKER_BUSY",
				"message": "ワーカーが混雑しています。",
			})
			return
		}
		defer sem.Release(1)

		output, err := conv.Convert(c.Request.Context(), job)
		if err != nil {
			logger.Error("job processing failed",
				slog.String("jobId", job.JobID),
				slog.String("messageId", req.Message.MessageID),
				slog.String("error", err.Error()),
			)
			respondWithError(c, err)
			return
		}

		logger.Info("job completed",
			slog.String("jobId", job.JobID),
			slog.String("output", output),
		)
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"jobId":  job.JobID,
			"output": output,
		})
	}
}

// respondWithError は変換エンジンの分類コードを5xx応答へ引き写します。
// コードを持たないエラーは PROCESSING_FAILED として返します。
func respondWithError(c *gin.Context, err error) {
	code := "PROCESSING_FAILED"
	var coded interface{ ErrorCode() string }
	if errors.As(err, &coded) {
		code = coded.ErrorCode()
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"code":    code,
		"message": err.Error(),
	})
}
