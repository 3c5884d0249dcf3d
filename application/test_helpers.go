package application

import (
	"context"

	"superfan/domain/events"
)

// RecordingEventSubscriber implements domain.EventSubscriber for testing
type RecordingEventSubscriber struct {
	Handlers map[events.EventType]func(context.Context, events.Event) error
	Error    error
}

func (s *RecordingEventSubscriber) Subscribe(eventType events.EventType, handler func(context.Context, events.Event) error) error {
	if s.Error != nil {
		return s.Error
	}
	if s.Handlers == nil {
		s.Handlers = make(map[events.EventType]func(context.Context, events.Event) error)
	}
	s.Handlers[eventType] = handler
	return nil
}

// RecordingLocalRegistrar implements LocalHandlerRegistrar for testing
type RecordingLocalRegistrar struct {
	Handlers map[events.EventType][]func(context.Context, events.Event) error
}

func (r *RecordingLocalRegistrar) RegisterLocalHandler(eventType events.EventType, handler func(ctx context.Context, event events.Event) error) {
	if r.Handlers == nil {
		r.Handlers = make(map[events.EventType][]func(context.Context, events.Event) error)
	}
	r.Handlers[eventType] = append(r.Handlers[eventType], handler)
}
