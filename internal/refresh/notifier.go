package refresh

import "context"

// Notifier is the cross-process change channel. It carries no payload beyond
// "something changed": listeners perform a full reload of their data.
type Notifier interface {
	// Publish signals every subscriber, including those in other processes.
	Publish(ctx context.Context) error
	// C delivers one value per received notification.
	C() <-chan struct{}
	Close() error
}

// localNotifier is the in-process fallback used when Redis is unavailable.
// Publishes coalesce when the buffer is full; a pending signal already
// guarantees a reload.
type localNotifier struct {
	ch chan struct{}
}

// NewLocalNotifier returns a Notifier that only reaches this process.
func NewLocalNotifier() Notifier {
	return &localNotifier{ch: make(chan struct{}, 1)}
}

func (n *localNotifier) Publish(context.Context) error {
	select {
	case n.ch <- struct{}{}:
	default:
	}
	return nil
}

func (n *localNotifier) C() <-chan struct{} { return n.ch }

func (n *localNotifier) Close() error { return nil }
