package services

import (
	"context"
	"fmt"
	"math"

	"superfan/domain/entities"
	"superfan/domain/events"
	"superfan/domain/interfaces"
	log "github.com/sirupsen/logrus"
)

// ValidatePricingGuardrails checks a sell/settle price pair against bounds
// and returns every violated rule. It never short-circuits: an admin fixing
// prices sees all problems in one pass.
func ValidatePricingGuardrails(sellCents, settleCents int64, bounds entities.GuardrailBounds) []string {
	var violations []string

	if sellCents < bounds.MinSellCents {
		violations = append(violations, fmt.Sprintf("sell price %d cents is below the minimum %d cents", sellCents, bounds.MinSellCents))
	}
	if sellCents > bounds.MaxSellCents {
		violations = append(violations, fmt.Sprintf("sell price %d cents is above the maximum %d cents", sellCents, bounds.MaxSellCents))
	}
	if settleCents < bounds.MinSettleCents {
		violations = append(violations, fmt.Sprintf("settle price %d cents is below the minimum %d cents", settleCents, bounds.MinSettleCents))
	}
	if settleCents > bounds.MaxSettleCents {
		violations = append(violations, fmt.Sprintf("settle price %d cents is above the maximum %d cents", settleCents, bounds.MaxSettleCents))
	}

	// Solvency: each point sold must cover its settlement cost after the
	// platform fee and reserve withholding come off the top.
	minSolventSell := int64(math.Ceil(float64(settleCents) / (1 - entities.PlatformFeeRate - entities.ReserveRatioRate)))
	if sellCents < minSolventSell {
		violations = append(violations, fmt.Sprintf("sell price %d cents cannot cover settlement of %d cents after fee and reserve; needs at least %d cents", sellCents, settleCents, minSolventSell))
	}

	return violations
}

// pricingService implements the PricingService interface
type pricingService struct {
	clubRepo       interfaces.ClubRepository
	eventPublisher interfaces.EventPublisher
}

// NewPricingService creates a new pricing service
func NewPricingService(clubRepo interfaces.ClubRepository, eventPublisher interfaces.EventPublisher) interfaces.PricingService {
	return &pricingService{
		clubRepo:       clubRepo,
		eventPublisher: eventPublisher,
	}
}

// ValidateClubPricing checks a proposed price pair against the club's
// guardrail bounds. It has no side effects and is safe to call from
// preview surfaces.
func (s *pricingService) ValidateClubPricing(ctx context.Context, clubID int64, sellCents, settleCents int64) error {
	club, err := s.clubRepo.GetByID(ctx, clubID)
	if err != nil {
		return fmt.Errorf("failed to get club: %w", err)
	}
	if club == nil {
		return entities.ErrClubNotFound
	}

	if violations := ValidatePricingGuardrails(sellCents, settleCents, club.Bounds()); len(violations) > 0 {
		return &entities.GuardrailViolationError{Violations: violations}
	}
	return nil
}

// UpdateClubPricing validates and persists a new price pair. Prices are
// stored exactly as validated, never coerced into bounds.
func (s *pricingService) UpdateClubPricing(ctx context.Context, clubID int64, sellCents, settleCents int64) error {
	if err := s.ValidateClubPricing(ctx, clubID, sellCents, settleCents); err != nil {
		return err
	}

	if err := s.clubRepo.UpdatePricing(ctx, clubID, sellCents, settleCents); err != nil {
		return fmt.Errorf("failed to update club pricing: %w", err)
	}

	event := events.ClubPricingUpdatedEvent{
		ClubID:      clubID,
		SellCents:   sellCents,
		SettleCents: settleCents,
	}
	if err := s.eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish club pricing updated event")
	}

	log.WithFields(log.Fields{
		"clubID":      clubID,
		"sellCents":   sellCents,
		"settleCents": settleCents,
	}).Info("Club pricing updated")

	return nil
}
