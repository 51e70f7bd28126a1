package testutil

import (
	"context"
	"sync"

	"github.com/airtime-lab/backend/pkg/pubsub"
)

type PublishedPack struct {
	Topic string
	Pack  *pubsub.Pack
}

// MockPublisher records every published pack. PublishFunc, if set, decides
// the returned error. A nil *MockPublisher drops packs.
type MockPublisher struct {
	PublishFunc func(context.Context, string, *pubsub.Pack) error

	mu    sync.Mutex
	Packs []PublishedPack
}

func (m *MockPublisher) Publish(ctx context.Context, topic string, pack *pubsub.Pack) error {
	if m == nil {
		return nil
	}

	m.mu.Lock()
	m.Packs = append(m.Packs, PublishedPack{Topic: topic, Pack: pack})
	m.mu.Unlock()

	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, topic, pack)
	}

	return nil
}

func (m *MockPublisher) Topics() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	topics := []string{}
	for _, p := range m.Packs {
		topics = append(topics, p.Topic)
	}

	return topics
}
