package application

import (
	"context"

	"superfan/application/dto"
)

// TapInHandler defines the interface for handling fan check-in events
// This is implemented by the application layer and called by the infrastructure layer
type TapInHandler interface {
	// HandleTapInScan processes a tap-in reported by the scanner service
	HandleTapInScan(ctx context.Context, scan dto.TapInScanDTO) error
}

// PurchaseHandler defines the interface for handling verified payment events
// This is implemented by the application layer and called by the infrastructure layer
type PurchaseHandler interface {
	// HandlePurchaseVerified processes a purchase confirmed by the payment service
	HandlePurchaseVerified(ctx context.Context, purchase dto.PurchaseVerifiedDTO) error
}

// StatusChangeHandler defines the interface for reacting to tier movements
type StatusChangeHandler interface {
	// HandleStatusChange processes StatusChangedEvent
	HandleStatusChange(ctx context.Context, event interface{}) error
}
