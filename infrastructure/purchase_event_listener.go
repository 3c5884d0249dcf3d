package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"

	"superfan/application"
	"superfan/application/dto"

	log "github.com/sirupsen/logrus"
)

// PurchaseEventListener handles payment-service NATS events and converts them to application DTOs
type PurchaseEventListener struct {
	purchaseHandler application.PurchaseHandler
}

// NewPurchaseEventListener creates a new purchase event listener
func NewPurchaseEventListener(purchaseHandler application.PurchaseHandler) *PurchaseEventListener {
	return &PurchaseEventListener{
		purchaseHandler: purchaseHandler,
	}
}

// HandlePurchaseVerified processes verified purchase events from NATS
func (l *PurchaseEventListener) HandlePurchaseVerified(ctx context.Context, data []byte) error {
	var envelope EventEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("failed to unmarshal purchase envelope: %w", err)
	}

	var purchase dto.PurchaseVerifiedDTO
	if err := json.Unmarshal(envelope.Payload, &purchase); err != nil {
		return fmt.Errorf("failed to unmarshal purchase payload: %w", err)
	}

	log.WithFields(log.Fields{
		"eventId":    envelope.EventID,
		"userID":     purchase.UserID,
		"clubID":     purchase.ClubID,
		"points":     purchase.Points,
		"grossCents": purchase.USDGrossCents,
		"ref":        purchase.Ref,
	}).Debug("Processing verified purchase")

	return l.purchaseHandler.HandlePurchaseVerified(ctx, purchase)
}
