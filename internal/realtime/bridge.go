package realtime

import (
	"context"
	"fmt"
	"log"

	"github.com/go-redis/redis/v8"
)

// SyncChannel is the single logical push channel. The payload is opaque and
// never interpreted; a message only means "re-sync now".
const SyncChannel = "portal:sync"

// Publisher broadcasts an invalidation signal after every committed
// transition, reaching every connected client including the one that caused
// the change.
type Publisher struct {
	rdb *redis.Client
}

func NewPublisher(rdb *redis.Client) *Publisher {
	return &Publisher{rdb: rdb}
}

func (p *Publisher) Publish(ctx context.Context) error {
	return p.rdb.Publish(ctx, SyncChannel, "sync").Err()
}

// Bridge consumes push notifications and drives the debounced silent refresh
// of the entity store.
type Bridge struct {
	rdb       *redis.Client
	debouncer *Debouncer
	cancel    context.CancelFunc
}

func NewBridge(rdb *redis.Client, debouncer *Debouncer) *Bridge {
	return &Bridge{rdb: rdb, debouncer: debouncer}
}

// Connect opens the redis connection for the given URL.
func Connect(redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return rdb, nil
}

// Start subscribes to the sync channel and schedules a refresh per message
// until Stop is called.
func (b *Bridge) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel

	sub := b.rdb.Subscribe(ctx, SyncChannel)
	if _, err := sub.Receive(ctx); err != nil {
		cancel()
		return fmt.Errorf("failed to subscribe to %s: %w", SyncChannel, err)
	}

	go func() {
		defer sub.Close()
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				b.debouncer.Schedule()
			}
		}
	}()
	log.Printf("realtime bridge listening on %s", SyncChannel)
	return nil
}

// Stop ends the subscription and flushes any pending refresh.
func (b *Bridge) Stop() {
	if b.cancel != nil {
		b.cancel()
	}
	b.debouncer.Flush()
}
