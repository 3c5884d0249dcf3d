package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"

	"superfan/application"
	"superfan/application/dto"

	log "github.com/sirupsen/logrus"
)

// TapInEventListener handles scanner-service NATS events and converts them to application DTOs
type TapInEventListener struct {
	tapInHandler application.TapInHandler
}

// NewTapInEventListener creates a new tap-in event listener
func NewTapInEventListener(tapInHandler application.TapInHandler) *TapInEventListener {
	return &TapInEventListener{
		tapInHandler: tapInHandler,
	}
}

// HandleTapInScan processes tap-in scan events from NATS
func (l *TapInEventListener) HandleTapInScan(ctx context.Context, data []byte) error {
	var envelope EventEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return fmt.Errorf("failed to unmarshal tap-in envelope: %w", err)
	}

	var scan dto.TapInScanDTO
	if err := json.Unmarshal(envelope.Payload, &scan); err != nil {
		return fmt.Errorf("failed to unmarshal tap-in payload: %w", err)
	}

	log.WithFields(log.Fields{
		"eventId": envelope.EventID,
		"source":  scan.Source,
		"userID":  scan.UserID,
		"clubID":  scan.ClubID,
		"ref":     scan.Ref,
	}).Debug("Processing tap-in scan")

	return l.tapInHandler.HandleTapInScan(ctx, scan)
}
