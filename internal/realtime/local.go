package realtime

import (
	"context"
	"sync"
)

const subscriberBuffer = 32

// LocalBroker fans out in process. It serves single-instance deployments
// and tests; multi-instance deployments use RedisBroker.
type LocalBroker struct {
	mu     sync.Mutex
	subs   map[string]map[*localSub]struct{}
	closed bool
}

type localSub struct {
	ch   chan Message
	once sync.Once
}

func NewLocalBroker() *LocalBroker {
	return &LocalBroker{subs: make(map[string]map[*localSub]struct{})}
}

func (b *LocalBroker) Publish(_ context.Context, topic string, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for sub := range b.subs[topic] {
		select {
		case sub.ch <- Message{Topic: topic, Payload: payload}:
		default:
			// subscriber is behind; drop rather than block the publisher
		}
	}
	return nil
}

func (b *LocalBroker) Subscribe(ctx context.Context, topics ...string) (<-chan Message, func(), error) {
	sub := &localSub{ch: make(chan Message, subscriberBuffer)}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(sub.ch)
		return sub.ch, func() {}, nil
	}
	for _, t := range topics {
		if b.subs[t] == nil {
			b.subs[t] = make(map[*localSub]struct{})
		}
		b.subs[t][sub] = struct{}{}
	}
	b.mu.Unlock()

	cancel := func() {
		sub.once.Do(func() {
			b.mu.Lock()
			for _, t := range topics {
				delete(b.subs[t], sub)
				if len(b.subs[t]) == 0 {
					delete(b.subs, t)
				}
			}
			b.mu.Unlock()
			close(sub.ch)
		})
	}

	go func() {
		<-ctx.Done()
		cancel()
	}()
	return sub.ch, cancel, nil
}

// Close ends every subscription.
func (b *LocalBroker) Close() error {
	b.mu.Lock()
	b.closed = true
	all := make(map[*localSub]struct{})
	for _, set := range b.subs {
		for sub := range set {
			all[sub] = struct{}{}
		}
	}
	b.subs = make(map[string]map[*localSub]struct{})
	b.mu.Unlock()

	for sub := range all {
		sub.once.Do(func() { close(sub.ch) })
	}
	return nil
}
