package handlers

import (
	"context"
	"errors"
	"sync"

	"github.com/monicalopezucha/practica-final/internal/events"
)

// recordingPublisher captures published events for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
	events []events.BrandNotified
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, topic string, event any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	ev, ok := event.(events.BrandNotified)
	if !ok {
		return errors.New("unexpected event type")
	}
	p.topics = append(p.topics, topic)
	p.events = append(p.events, ev)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }
