package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	gcstorage "cloud.google.com/go/storage"
)

// GCS は Google Cloud Storage を利用する BlobStore 実装です。
type GCS struct {
	client *gcstorage.Client
}

// NewGCS は GCS クライアントを初期化します。
// 認証情報は Application Default Credentials から解決されます。
func NewGCS(ctx context.Context) (*GCS, error) {
	client, err := gcstorage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return &GCS{client: client}, nil
}

// Close は内部クライアントを閉じます。
func (g *GCS) Close() error {
	return g.client.Close()
}

// Get はオブジェクトの内容を読み込みます。
func (g *GCS) Get(ctx context.Context, bucket, object string) ([]byte, error) {
	r, err := g.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		if errors.Is(err, gcstorage.ErrObjectNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to open gs://%s/%s: %w", bucket, object, err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read gs://%s/%s: %w", bucket, object, err)
	}
	return data, nil
}

// Put はオブジェクトを書き込みます。Writer の Close が成功した時点で
// オブジェクト全体がアトミックに作成されます。
func (g *GCS) Put(ctx context.Context, bucket, object string, data []byte, contentType string) error {
	w := g.client.Bucket(bucket).Object(object).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write gs://%s/%s: %w", bucket, object, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to commit gs://%s/%s: %w", bucket, object, err)
	}
	return nil
}

// Exists はオブジェクトの存在を確認します。
func (g *GCS) Exists(ctx context.Context, bucket, object string) (bool, error) {
	_, err := g.client.Bucket(bucket).Object(object).Attrs(ctx)
	if err != nil {
		if errors.Is(err, gcstorage.ErrObjectNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("failed to stat gs://%s/%s: %w", bucket, object, err)
	}
	return true, nil
}

// Stat はオブジェクトのメタデータからサイズを返します。内容は取得しません。
func (g *GCS) Stat(ctx context.Context, bucket, object string) (int64, error) {
	attrs, err := g.client.Bucket(bucket).Object(object).Attrs(ctx)
	if err != nil {
		if errors.Is(err, gcstorage.ErrObjectNotExist) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("failed to stat gs://%s/%s: %w", bucket, object, err)
	}
	return attrs.Size, nil
}
