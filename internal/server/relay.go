package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/tliron/commonlog"
)

// Relay forwards applied operations between coedit instances through
// redis pub/sub, one channel per document.
type Relay struct {
	rdb *redis.Client
	log commonlog.Logger
}

func NewRelay(addr string) (*Relay, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Relay{
		rdb: rdb,
		log: commonlog.GetLogger("coedit.relay"),
	}, nil
}

func channelFor(docID string) string {
	return "coedit:" + docID
}

// Publish announces an applied operation to the document's channel.
func (r *Relay) Publish(ctx context.Context, msg ServerMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to encode relay frame: %w", err)
	}
	if err := r.rdb.Publish(ctx, channelFor(msg.DocumentID), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish relay frame: %w", err)
	}
	return nil
}

// Subscribe forwards frames published on docID's channel to deliver
// until ctx is cancelled. Malformed frames are dropped.
func (r *Relay) Subscribe(ctx context.Context, docID string, deliver func(ServerMessage)) {
	pubsub := r.rdb.Subscribe(ctx, channelFor(docID))
	ch := pubsub.Channel()

	go func() {
		defer pubsub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok {
					return
				}
				var msg ServerMessage
				if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
					r.log.Errorf("dropping malformed relay frame: %v", err)
					continue
				}
				deliver(msg)
			}
		}
	}()
}

func (r *Relay) Close() error {
	return r.rdb.Close()
}
