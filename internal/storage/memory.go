package storage

import (
	"context"
	"sync"
)

type memObject struct {
	data        []byte
	contentType string
}

// Memory はテストおよびローカル実行用のインメモリ BlobStore 実装です。
type Memory struct {
	mu      sync.RWMutex
	objects map[string]memObject
}

// NewMemory は空の Memory ストアを作成します。
func NewMemory() *Memory {
	return &Memory{objects: make(map[string]memObject)}
}

// Get はオブジェクトの内容のコピーを返します。
func (m *Memory) Get(ctx context.Context, bucket, object string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	obj, ok := m.objects[memKey(bucket, object)]
	if !ok {
		return nil, ErrNotFound
	}
	data := make([]byte, len(obj.data))
	copy(data, obj.data)
	return data, nil
}

// Put はオブジェクトを保存します。内容はコピーして保持されます。
func (m *Memory) Put(ctx context.Context, bucket, object string, data []byte, contentType string) error {
	stored := make([]byte, len(data))
	copy(stored, data)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[memKey(bucket, object)] = memObject{
		data:        stored,
		contentType: contentType,
	}
	return nil
}

// Exists はオブジェクトの存在を確認します。
func (m *Memory) Exists(ctx context.Context, bucket, object string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.objects[memKey(bucket, object)]
	return ok, nil
}

// Stat はオブジェクトのサイズを返します。
func (m *Memory) Stat(ctx context.Context, bucket, object string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	obj, ok := m.objects[memKey(bucket, object)]
	if !ok {
		return 0, ErrNotFound
	}
	return int64(len(obj.data)), nil
}

// ContentType は保存されたオブジェクトのContent-Typeを返します（テスト検証用）。
func (m *Memory) ContentType(bucket, object string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	obj, ok := m.objects[memKey(bucket, object)]
	if !ok {
		return "", false
	}
	return obj.contentType, true
}

func memKey(bucket, object string) string {
	return bucket + "/" + object
}
