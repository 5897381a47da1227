// internal/cleanup/cleanup.go
package cleanup

import (
	"context"
	"fmt"
	"log"

	"github.com/segmentio/kafka-go"

	"brandassets/internal/blob"
)

// Queue publishes storage paths of blobs whose deletion failed after a
// committed upload or delete, so a background consumer can retry them.
type Queue struct {
	writer *kafka.Writer
}

func NewQueue(broker, topic string) *Queue {
	return &Queue{
		writer: kafka.NewWriter(kafka.WriterConfig{
			Brokers: []string{broker},
			Topic:   topic,
		}),
	}
}

func (q *Queue) EnqueueOrphan(ctx context.Context, path string) error {
	const op = "cleanup.EnqueueOrphan"

	if err := q.writer.WriteMessages(ctx, kafka.Message{Value: []byte(path)}); err != nil {
		return fmt.Errorf("%s: %v", op, err)
	}
	return nil
}

func (q *Queue) Close() error {
	return q.writer.Close()
}

// Run consumes orphaned-blob paths and retries the deletion. A path whose
// retry also fails is logged and dropped; the blob is unreferenced by any
// record, so the only cost is storage until an operator sweeps it.
func Run(ctx context.Context, broker, topic string, store blob.Store) {
	consumer := kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{broker},
		Topic:   topic,
		GroupID: "asset-cleanup-group",
	})
	defer consumer.Close()

	for {
		msg, err := consumer.ReadMessage(ctx)
		if err != nil {
			if err == context.Canceled {
				return
			}
			log.Printf("cleanup: error reading message: %v", err)
			continue
		}
		path := string(msg.Value)
		if err := store.Delete(path); err != nil {
			log.Printf("cleanup: retry delete of %s failed, giving up: %v", path, err)
			continue
		}
		log.Printf("cleanup: removed orphaned blob %s", path)
	}
}
