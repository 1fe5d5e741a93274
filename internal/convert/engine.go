// Package convert は画像セットから複数ページPDFを生成する変換エンジンを提供します。
package convert

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/yourusername/img2pdf/internal/jobs"
	"github.com/yourusername/img2pdf/internal/storage"
)

// Options は変換エンジンの制限値を保持します。
type Options struct {
	MaxPages          int   // 1ジョブあたりの最大ページ数
	MaxImageBytes     int64 // 入力画像1枚あたりの最大サイズ（バイト）
	MaxImageDimension int   // デコード後ラスタの最大辺長（ピクセル）
}

// Engine はジョブ記述子の内容だけを入力として変換を実行します。
// 同一記述子の再処理は同じ決定的な出力パスへの上書きとなるため、
// 再配信に対して安全です。
type Engine struct {
	store  storage.BlobStore
	opts   Options
	logger *slog.Logger
}

// NewEngine は Engine を初期化します。
func NewEngine(store storage.BlobStore, opts Options, logger *slog.Logger) *Engine {
	if opts.MaxPages <= 0 {
		opts.MaxPages = 20
	}
	if opts.MaxImageBytes <= 0 {
		opts.MaxImageBytes = 20 * 1024 * 1024
	}
	if opts.MaxImageDimension <= 0 {
		opts.MaxImageDimension = 4000
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store:  store,
		opts:   opts,
		logger: logger,
	}
}

// Convert は記述子の入力画像列を1つのPDFへ変換し、出力ロケーションを返します。
// 受入検査・デコードのいずれかが失敗した場合はジョブ全体を中断し、
// 出力は一切書き込まれません。
func (e *Engine) Convert(ctx context.Context, job *jobs.Descriptor) (string, error) {
	start := time.Now()

	if err := e.admit(job); err != nil {
		return "", err
	}

	pages := make([]*pageImage, 0, len(job.InputObjects))
	for _, object := range job.InputObjects {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page, err := e.loadImage(ctx, job.InputBucket, object)
		if err != nil {
			return "", err
		}
		pages = append(pages, page)
	}

	data, err := composeDocument(pages)
	if err != nil {
		return "", newError("INTERNAL_ERROR", "PDFの生成に失敗しました。", err)
	}
	if err := verifyDocument(data, len(pages)); err != nil {
		return "", newError("INTERNAL_ERROR", "生成されたPDFの検証に失敗しました。", err)
	}

	outputObject := jobs.OutputObject(job.JobID)
	if err := e.store.Put(ctx, job.OutputBucket, outputObject, data, "application/pdf"); err != nil {
		return "", newError("STORE_ERROR", "変換結果の保存に失敗しました。", err)
	}

	location := jobs.OutputLocation(job.OutputBucket, job.JobID)
	e.logger.Info("conversion finished",
		slog.String("jobId", job.JobID),
		slog.Int("pages", len(pages)),
		slog.Int("outputBytes", len(data)),
		slog.Duration("elapsed", time.Since(start)),
	)
	return location, nil
}

// admit はジョブ全体の受入検査を行います。
func (e *Engine) admit(job *jobs.Descriptor) error {
	if job == nil || job.JobID == "" {
		return newError("INVALID_INPUT", "jobId が指定されていません。", nil)
	}
	if job.InputBucket == "" || job.OutputBucket == "" {
		return newError("INVALID_INPUT", "入出力バケットが指定されていません。", nil)
	}
	if len(job.InputObjects) == 0 {
		return newError("INVALID_INPUT", "入力オブジェクトが指定されていません。", nil)
	}
	if len(job.InputObjects) > e.opts.MaxPages {
		return newError("LIMIT_EXCEEDED",
			fmt.Sprintf("入力画像数が上限を超えています（%d枚、上限%d枚）。", len(job.InputObjects), e.opts.MaxPages), nil)
	}
	return nil
}

// loadImage は1オブジェクト分の受入検査とデコードを行います。
// サイズ検査はメタデータで内容の取得前に実施され、上限超えのオブジェクトは
// メモリに読み込まれません。
func (e *Engine) loadImage(ctx context.Context, bucket, object string) (*pageImage, error) {
	size, err := e.store.Stat(ctx, bucket, object)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, newError("OBJECT_NOT_FOUND",
				fmt.Sprintf("入力オブジェクトが見つかりません: %s", object), err)
		}
		return nil, newError("STORE_ERROR",
			fmt.Sprintf("入力オブジェクトの確認に失敗しました: %s", object), err)
	}
	if size > e.opts.MaxImageBytes {
		return nil, newError("LIMIT_EXCEEDED",
			fmt.Sprintf("入力画像のサイズが上限を超えています: %s（%dバイト、上限%dバイト）", object, size, e.opts.MaxImageBytes), nil)
	}

	data, err := e.store.Get(ctx, bucket, object)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, newError("OBJECT_NOT_FOUND",
				fmt.Sprintf("入力オブジェクトが見つかりません: %s", object), err)
		}
		return nil, newError("STORE_ERROR",
			fmt.Sprintf("入力オブジェクトの読み込みに失敗しました: %s", object), err)
	}

	// 確認と取得の間にオブジェクトが差し替えられた場合の再検査
	if int64(len(data)) > e.opts.MaxImageBytes {
		return nil, newError("LIMIT_EXCEEDED",
			fmt.Sprintf("入力画像のサイズが上限を超えています: %s（%dバイト、上限%dバイト）", object, len(data), e.opts.MaxImageBytes), nil)
	}

	page, err := decodeBounded(data, e.opts.MaxImageDimension)
	if err != nil {
		return nil, newError("UNSUPPORTED_IMAGE",
			fmt.Sprintf("画像として読み込めないオブジェクトです: %s", object), err)
	}
	return page, nil
}
