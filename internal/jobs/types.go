// Package jobs は変換ジョブの記述子とキュー連携を提供します。
package jobs

import (
	"encoding/json"
	"fmt"
)

const (
	// TypeImageToPDF は画像セットをPDFへ変換するジョブ種別です。
	TypeImageToPDF = "IMAGE_TO_PDF"

	// SchemaVersion は現在の記述子スキーマのバージョンです。
	SchemaVersion = 1
)

// Descriptor は1件の変換ジョブを自己完結的に記述します。
// ワーカーはこの記述子だけでジョブを処理でき、他の状態ストアを必要としません。
type Descriptor struct {
	SchemaVersion int      `json:"schemaVersion,omitempty"`
	JobID         string   `json:"jobId"`
	InputBucket   string   `json:"inputBucket"`
	InputObjects  []string `json:"inputObjects"`
	OutputBucket  string   `json:"outputBucket"`
	Type          string   `json:"type"`
}

// OutputObject はジョブIDから成果物のオブジェクト名を導出します。
// この形式は変換エンジンとステータス解決の間の固定契約であり、変更は互換性を壊します。
func OutputObject(jobID string) string {
	return "jobs/" + jobID + "/output.pdf"
}

// OutputLocation は成果物の完全修飾ロケーションを返します。
func OutputLocation(bucket, jobID string) string {
	return fmt.Sprintf("gs://%s/%s", bucket, OutputObject(jobID))
}

// DecodeDescriptor はJSONを記述子へ復元します。
// 旧形式の単一オブジェクトフィールド inputObject も受理し、
// 1要素の inputObjects へ正規化します。
func DecodeDescriptor(data []byte) (*Descriptor, error) {
	var raw struct {
		SchemaVersion int      `json:"schemaVersion"`
		JobID         string   `json:"jobId"`
		InputBucket   string   `json:"inputBucket"`
		InputObject   string   `json:"inputObject"`
		InputObjects  []string `json:"inputObjects"`
		OutputBucket  string   `json:"outputBucket"`
		Type          string   `json:"type"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse job descriptor: %w", err)
	}

	objects := raw.InputObjects
	if len(objects) == 0 && raw.InputObject != "" {
		objects = []string{raw.InputObject}
	}

	return &Descriptor{
		SchemaVersion: raw.SchemaVersion,
		JobID:         raw.JobID,
		InputBucket:   raw.InputBucket,
		InputObjects:  objects,
		OutputBucket:  raw.OutputBucket,
		Type:          raw.Type,
	}, nil
}

// PushMessage はキューバックエンドからPush配信されるメッセージ本体です。
// Data には記述子JSONのbase64が入ります。
type PushMessage struct {
	Data        string            `json:"data"`
	Attributes  map[string]string `json:"attributes"`
	MessageID   string            `json:"messageId"`
	PublishTime string            `json:"publishTime"`
}

// PushRequest はPushエンドポイントへ届くエンベロープです。
type PushRequest struct {
	Message      PushMessage `json:"message"`
	Subscription string      `json:"subscription"`
}
