package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// notifyChannel carries cross-process "events changed" signals. The message
// body is ignored; receipt alone triggers a reload.
const notifyChannel = "icct:events_updated"

// Notifier bridges Redis pub/sub to the refresh coordinator so admin
// mutations in one process reach catalogs served by another.
type Notifier struct {
	client *redis.Client
	sub    *redis.PubSub
	ch     chan struct{}
	log    zerolog.Logger
}

// NewNotifier subscribes to the change channel and starts forwarding
// messages. Forwarding coalesces: a pending signal already guarantees a
// reload.
func NewNotifier(ctx context.Context, client *redis.Client, log zerolog.Logger) (*Notifier, error) {
	sub := client.Subscribe(ctx, notifyChannel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("redis subscribe: %w", err)
	}

	n := &Notifier{
		client: client,
		sub:    sub,
		ch:     make(chan struct{}, 1),
		log:    log,
	}
	go n.forward()
	return n, nil
}

func (n *Notifier) forward() {
	for range n.sub.Channel() {
		select {
		case n.ch <- struct{}{}:
		default:
		}
	}
	close(n.ch)
}

func (n *Notifier) Publish(ctx context.Context) error {
	if err := n.client.Publish(ctx, notifyChannel, "1").Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

func (n *Notifier) C() <-chan struct{} { return n.ch }

func (n *Notifier) Close() error { return n.sub.Close() }
