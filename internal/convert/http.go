package convert

import (
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yourusername/img2pdf/internal/jobs"
	"github.com/yourusername/img2pdf/internal/storage"
)

// HandlerOptions は投入・ステータスハンドラーの設定です。
type HandlerOptions struct {
	InputBucket       string
	OutputBucket      string
	StoragePublicHost string
}

// SubmitHandler は POST /api/convert のハンドラーを返します。
// 画像をすべて入力バケットへ保存してからジョブ記述子を発行します。
// この順序により、即座にデキューしたワーカーでも入力を必ず参照できます。
func SubmitHandler(store storage.BlobStore, pub jobs.Publisher, opts HandlerOptions, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		form, err := c.MultipartForm()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    "INVALID_INPUT",
				"message": "multipart/form-data で画像ファイルを送信してください。",
			})
			return
		}
		defer form.RemoveAll()

		files := collectFiles(form)
		if len(files) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    "INVALID_INPUT",
				"message": "アップロードされた画像ファイルが見つかりません。",
			})
			return
		}

		ctx := c.Request.Context()
		objects := make([]string, 0, len(files))
		for _, fh := range files {
			data, err := readFile(fh)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{
					"code":    "INTERNAL_ERROR",
					"message": "アップロードファイルの読み込みに失敗しました。",
				})
				return
			}
			if len(data) == 0 {
				continue
			}

			object := inputObjectName(fh.Filename)
			contentType := mimetype.Detect(data).String()
			if err := store.Put(ctx, opts.InputBucket, object, data, contentType); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{
					"code":    "STORE_ERROR",
					"message": "入力画像の保存に失敗しました。",
				})
				return
			}
			objects = append(objects, object)
		}

		if len(objects) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    "INVALID_INPUT",
				"message": "空でない画像ファイルが1つも含まれていません。",
			})
			return
		}

		jobID := uuid.NewString()
		job := &jobs.Descriptor{
			SchemaVersion: jobs.SchemaVersion,
			JobID:         jobID,
			InputBucket:   opts.InputBucket,
			InputObjects:  objects,
			OutputBucket:  opts.OutputBucket,
			Type:          jobs.TypeImageToPDF,
		}

		// 発行に失敗した場合、保存済みオブジェクトは孤児として残る。
		// 保持期間はストア側のライフサイクルポリシーに委ねる。
		if err := pub.Publish(ctx, job); err != nil {
			logger.Error("failed to publish job",
				slog.String("jobId", jobID),
				slog.String("error", err.Error()),
			)
			c.JSON(http.StatusBadGateway, gin.H{
				"code":    "QUEUE_ERROR",
				"message": "ジョブの発行に失敗しました。時間をおいて再度お試しください。",
			})
			return
		}

		logger.Info("job submitted",
			slog.String("jobId", jobID),
			slog.Int("inputObjects", len(objects)),
		)

		statusURL := "/api/jobs/" + jobID
		if c.PostForm("redirect") != "" {
			c.Redirect(http.StatusSeeOther, statusURL)
			return
		}

		c.JSON(http.StatusAccepted, gin.H{
			"jobId":        jobID,
			"statusUrl":    statusURL,
			"inputBucket":  opts.InputBucket,
			"inputObjects": objects,
			"output":       jobs.OutputLocation(opts.OutputBucket, jobID),
		})
	}
}

// StatusHandler は GET /api/jobs/:id のハンドラーを返します。
// ジョブの状態は保持せず、成果物オブジェクトの存在だけで判定します。
func StatusHandler(store storage.BlobStore, opts HandlerOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		jobID := strings.TrimSpace(c.Param("id"))
		if jobID == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    "INVALID_INPUT",
				"message": "jobId を指定してください。",
			})
			return
		}
		if err := uuid.Validate(jobID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"code":    "INVALID_JOB_ID",
				"message": "jobId の形式が不正です。",
			})
			return
		}

		object := jobs.OutputObject(jobID)
		exists, err := store.Exists(c.Request.Context(), opts.OutputBucket, object)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"code":    "INTERNAL_ERROR",
				"message": "ジョブ状態の確認に失敗しました。",
			})
			return
		}

		if !exists {
			c.JSON(http.StatusOK, gin.H{
				"jobId":   jobID,
				"status":  "processing",
				"message": "PDFを作成しています。しばらくしてから再度確認してください。",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"jobId":  jobID,
			"status": "ready",
			"url":    fmt.Sprintf("https://%s/%s/%s", opts.StoragePublicHost, opts.OutputBucket, object),
		})
	}
}

func collectFiles(form *multipart.Form) []*multipart.FileHeader {
	files := form.File["files[]"]
	if len(files) == 0 {
		files = form.File["files"]
	}
	if len(files) == 0 {
		files = form.File["file"]
	}

	accepted := make([]*multipart.FileHeader, 0, len(files))
	for _, fh := range files {
		if fh == nil || fh.Size == 0 {
			continue
		}
		accepted = append(accepted, fh)
	}
	return accepted
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// inputObjectName は衝突しないオブジェクト名を生成します。
// 元ファイル名の拡張子は保持されます。
func inputObjectName(filename string) string {
	ext := filepath.Ext(filename)
	return "uploads/" + uuid.NewString() + ext
}
