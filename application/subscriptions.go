package application

import (
	"context"

	"superfan/domain"
	"superfan/domain/entities"
	"superfan/domain/events"
	"superfan/infrastructure/observability"
)

// LocalHandlerRegistrar registers handlers that run in-process when a
// committed unit of work flushes its events, without a NATS round trip.
type LocalHandlerRegistrar interface {
	RegisterLocalHandler(eventType events.EventType, handler func(ctx context.Context, event events.Event) error)
}

// RegisterApplicationSubscriptions registers all application-level event
// subscriptions: the NATS-backed status change handler and the in-process
// metric handlers
func RegisterApplicationSubscriptions(
	subscriber domain.EventSubscriber,
	registrar LocalHandlerRegistrar,
	uowFactory UnitOfWorkFactory,
) error {
	registerMetricHandlers(registrar)

	// Create the status change event handler
	statusHandler := NewStatusChangeHandler(uowFactory)

	// Subscribe to status change events published by the ledger
	return subscriber.Subscribe(events.EventTypeStatusChanged,
		func(ctx context.Context, event events.Event) error {
			return statusHandler.HandleStatusChange(ctx, event)
		})
}

// registerMetricHandlers wires the points and redemption counters to the
// domain events that drive them. Local handlers run once per flush, so the
// counters are not inflated by JetStream redeliveries.
func registerMetricHandlers(registrar LocalHandlerRegistrar) {
	registrar.RegisterLocalHandler(events.EventTypePointsBalanceChanged,
		func(ctx context.Context, event events.Event) error {
			e, err := AssertEventType[events.PointsBalanceChangedEvent](event, "PointsBalanceChangedEvent")
			if err != nil {
				return err
			}
			if metrics := observability.GetMetrics(); metrics != nil {
				metrics.RecordPointsTransaction(string(e.TransactionType))
			}
			return nil
		})

	registrar.RegisterLocalHandler(events.EventTypeRewardRedeemed,
		func(ctx context.Context, event events.Event) error {
			e, err := AssertEventType[events.RewardRedeemedEvent](event, "RewardRedeemedEvent")
			if err != nil {
				return err
			}
			if metrics := observability.GetMetrics(); metrics != nil {
				metrics.RecordRedemption(string(e.State))
				if e.State == entities.RedemptionStateHeld {
					metrics.UpdateActiveHolds(1)
				}
			}
			return nil
		})

	registrar.RegisterLocalHandler(events.EventTypeRedemptionStateChange,
		func(ctx context.Context, event events.Event) error {
			e, err := AssertEventType[events.RedemptionStateChangedEvent](event, "RedemptionStateChangedEvent")
			if err != nil {
				return err
			}
			if metrics := observability.GetMetrics(); metrics != nil {
				metrics.RecordRedemption(string(e.NewState))
				if e.OldState == entities.RedemptionStateHeld {
					metrics.UpdateActiveHolds(-1)
				}
			}
			return nil
		})
}
