// Package storage はオブジェクトストレージの抽象化レイヤーを提供します。
package storage

import (
	"context"
	"errors"
)

// ErrNotFound は指定されたオブジェクトが存在しない場合に返されます。
var ErrNotFound = errors.New("storage: object not found")

// BlobStore はバケット単位のオブジェクト操作を提供します。
// 実装は Put の完了時点でオブジェクト全体が読み取り可能になること
// （部分的な書き込みが観測されないこと）を保証します。
type BlobStore interface {
	// Get はオブジェクトの内容を返します。存在しない場合は ErrNotFound を返します。
	Get(ctx context.Context, bucket, object string) ([]byte, error)

	// Put はオブジェクトを作成します。既存のオブジェクトは上書きされます。
	Put(ctx context.Context, bucket, object string, data []byte, contentType string) error

	// Exists はオブジェクトの存在を確認します。
	Exists(ctx context.Context, bucket, object string) (bool, error)

	// Stat はオブジェクトの内容を取得せずにサイズ（バイト）を返します。
	// 存在しない場合は ErrNotFound を返します。
	Stat(ctx context.Context, bucket, object string) (int64, error)
}
