package testhelpers

import (
	"context"
	"jobmarket-backend/lib/events"
	"sync"
)

// Publisher запоминает опубликованные события
type Publisher struct {
	mu     sync.Mutex
	events []events.Event
}

var _ events.Publisher = (*Publisher)(nil)

func NewPublisher() *Publisher {
	return &Publisher{}
}

func (p *Publisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *Publisher) Close() {}

func (p *Publisher) Events() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	result := make([]events.Event, len(p.events))
	copy(result, p.events)
	return result
}

func (p *Publisher) Types() []events.Type {
	result := []events.Type{}
	for _, event := range p.Events() {
		result = append(result, event.Type)
	}
	return result
}
