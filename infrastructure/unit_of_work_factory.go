package infrastructure

import (
	"context"

	"superfan/application"
	"superfan/database"
	"superfan/domain/events"
	"superfan/domain/interfaces"
	"superfan/repository"
)

// UnitOfWorkFactory implements the application.UnitOfWorkFactory interface
// It creates UnitOfWork instances that handle both database transactions and event publishing
type UnitOfWorkFactory struct {
	repoFactory interface {
		CreateForClubWithPublisher(clubID int64, transactionalPublisher interfaces.TransactionalEventPublisher) application.UnitOfWork
	}
	eventPublisher interfaces.EventPublisher
}

// NewUnitOfWorkFactory creates a new UnitOfWorkFactory
func NewUnitOfWorkFactory(db *database.DB, eventPublisher interfaces.EventPublisher) *UnitOfWorkFactory {
	repoFactory := repository.NewUnitOfWorkFactory(db)
	return &UnitOfWorkFactory{
		repoFactory:    repoFactory,
		eventPublisher: eventPublisher,
	}
}

// RegisterLocalHandler registers a handler that will be invoked locally for events
// This ensures events published within the same process are handled immediately
func (f *UnitOfWorkFactory) RegisterLocalHandler(eventType events.EventType, handler func(context.Context, events.Event) error) {
	// Register directly with the NATSEventPublisher
	if natsPublisher, ok := f.eventPublisher.(*NATSEventPublisher); ok {
		natsPublisher.RegisterLocalHandler(eventType, handler)
	}
}

// CreateForClub creates a new UnitOfWork with a transactional event publisher
func (f *UnitOfWorkFactory) CreateForClub(clubID int64) application.UnitOfWork {
	// Each unit of work gets its own transactional publisher so its events
	// flush on commit and vanish on rollback
	transactionalPublisher := NewNATSTransactionalPublisher(f.eventPublisher)

	return f.repoFactory.CreateForClubWithPublisher(clubID, transactionalPublisher)
}
