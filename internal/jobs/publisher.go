package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"cloud.google.com/go/pubsub"
)

// Publisher はジョブ記述子をキューへ発行します。
// Publish はキューバックエンドが受理を確認するまでブロックします。
type Publisher interface {
	Publish(ctx context.Context, job *Descriptor) error
}

// PubSubPublisher は Cloud Pub/Sub を利用する Publisher 実装です。
type PubSubPublisher struct {
	client *pubsub.Client
	topic  *pubsub.Topic
	logger *slog.Logger
}

// NewPubSubPublisher は Pub/Sub クライアントとトピックを初期化します。
func NewPubSubPublisher(ctx context.Context, projectID, topicID string, logger *slog.Logger) (*PubSubPublisher, error) {
	client, err := pubsub.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create pubsub client: %w", err)
	}
	return &PubSubPublisher{
		client: client,
		topic:  client.Topic(topicID),
		logger: logger,
	}, nil
}

// Close はトピックの送信バッファを破棄し、クライアントを閉じます。
func (p *PubSubPublisher) Close() error {
	p.topic.Stop()
	return p.client.Close()
}

// Publish は記述子をJSONとして発行し、サーバー確認が得られるまでブロックします。
func (p *PubSubPublisher) Publish(ctx context.Context, job *Descriptor) error {
	if job == nil {
		return fmt.Errorf("job is nil")
	}

	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal job descriptor: %w", err)
	}

	res := p.topic.Publish(ctx, &pubsub.Message{Data: payload})
	messageID, err := res.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to publish job %s: %w", job.JobID, err)
	}

	if p.logger != nil {
		p.logger.Info("job published",
			slog.String("jobId", job.JobID),
			slog.String("messageId", messageID),
			slog.Int("inputObjects", len(job.InputObjects)),
		)
	}
	return nil
}
