package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"superfan/application/dto"
	"superfan/infrastructure"

	"github.com/google/uuid"
)

// EventType represents the type of event to publish
type EventType string

const (
	EventTapIn    EventType = "tap-in"
	EventPurchase EventType = "purchase"
	EventBatch    EventType = "batch"
)

// Config holds script configuration
type Config struct {
	Event       EventType
	UserID      int64
	ClubID      int64
	Source      string
	Override    float64
	Ref         string
	Points      float64
	BonusPoints float64
	GrossCents  int64
	SellCents   int64
	SettleCents int64
	Users       string
	Delay       time.Duration
	NATSServers string
	DryRun      bool
	Verbose     bool
}

func main() {
	config := parseFlags()

	if config.Verbose {
		log.Printf("Starting ingest event publisher with config: %+v", config)
	}

	ctx := context.Background()
	publisher := NewEventPublisher(config.NATSServers, config.DryRun, config.Verbose)

	if err := publisher.Connect(ctx); err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer publisher.Close()

	switch config.Event {
	case EventTapIn:
		if err := publisher.PublishTapIn(ctx, config); err != nil {
			log.Fatalf("Failed to publish tap-in: %v", err)
		}
	case EventPurchase:
		if err := publisher.PublishPurchase(ctx, config); err != nil {
			log.Fatalf("Failed to publish purchase: %v", err)
		}
	case EventBatch:
		if err := publisher.PublishBatch(ctx, config); err != nil {
			log.Fatalf("Failed to publish batch: %v", err)
		}
	default:
		log.Fatalf("Unknown event type: %s", config.Event)
	}

	log.Println("Event publishing completed successfully")
}

// parseFlags parses command-line flags and returns configuration
func parseFlags() *Config {
	config := &Config{}

	var eventStr string
	flag.StringVar(&eventStr, "event", "tap-in", "Event type: tap-in, purchase, batch")
	flag.Int64Var(&config.UserID, "user", 1001, "Fan user ID")
	flag.Int64Var(&config.ClubID, "club", 1, "Club ID")
	flag.StringVar(&config.Source, "source", "qr_code", "Tap-in source (qr_code, nfc, link, show_entry, merch_purchase, presave)")
	flag.Float64Var(&config.Override, "override", 0, "Point override for the scan (0 uses the source default)")
	flag.StringVar(&config.Ref, "ref", "", "Idempotency ref (auto-generated if empty)")
	flag.Float64Var(&config.Points, "points", 1000, "Purchased points for purchase events")
	flag.Float64Var(&config.BonusPoints, "bonus", 0, "Bonus points for purchase events")
	flag.Int64Var(&config.GrossCents, "gross-cents", 100000, "Gross USD charge in cents")
	flag.Int64Var(&config.SellCents, "sell-cents", 100, "Unit sell price in cents per point")
	flag.Int64Var(&config.SettleCents, "settle-cents", 50, "Unit settle price in cents per point")
	flag.StringVar(&config.Users, "users", "", "Comma-separated list of user IDs for batch mode")
	flag.DurationVar(&config.Delay, "delay", 2*time.Second, "Delay between events in batch mode")
	flag.StringVar(&config.NATSServers, "nats", "nats://localhost:4222", "NATS server addresses")
	flag.BoolVar(&config.DryRun, "dry-run", false, "Print messages without publishing")
	flag.BoolVar(&config.Verbose, "verbose", false, "Enable verbose logging")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Publish tap-in and purchase ingest events to NATS for testing.\n\n")
		fmt.Fprintf(os.Stderr, "Examples:\n")
		fmt.Fprintf(os.Stderr, "  # Scan a QR code for user 1001 in club 1\n")
		fmt.Fprintf(os.Stderr, "  %s --event=tap-in --user=1001 --club=1 --source=qr_code\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Award a show entry with an artist override\n")
		fmt.Fprintf(os.Stderr, "  %s --event=tap-in --user=1001 --club=1 --source=show_entry --override=250\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Verify a 1000 point purchase with a 100 point bonus\n")
		fmt.Fprintf(os.Stderr, "  %s --event=purchase --user=1001 --club=1 --points=1000 --bonus=100\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Batch test multiple fans\n")
		fmt.Fprintf(os.Stderr, "  %s --event=batch --club=1 --users='1001,1002,1003'\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	// Parse event type
	switch strings.ToLower(eventStr) {
	case "tap-in", "tapin", "scan":
		config.Event = EventTapIn
	case "purchase":
		config.Event = EventPurchase
	case "batch":
		config.Event = EventBatch
	default:
		log.Fatalf("Invalid event type: %s. Must be one of: tap-in, purchase, batch", eventStr)
	}

	// Generate ref if not provided
	if config.Ref == "" {
		config.Ref = fmt.Sprintf("test-%s-%d", config.Event, time.Now().Unix())
	}

	// Validate batch mode
	if config.Event == EventBatch && config.Users == "" {
		log.Fatalf("Batch mode requires --users parameter")
	}

	return config
}

// EventPublisher handles publishing events to NATS
type EventPublisher struct {
	natsServers string
	natsClient  *infrastructure.NATSClient
	dryRun      bool
	verbose     bool
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(natsServers string, dryRun, verbose bool) *EventPublisher {
	return &EventPublisher{
		natsServers: natsServers,
		natsClient:  infrastructure.NewNATSClient(natsServers),
		dryRun:      dryRun,
		verbose:     verbose,
	}
}

// Connect establishes connection to NATS
func (p *EventPublisher) Connect(ctx context.Context) error {
	if p.dryRun {
		log.Println("DRY RUN: Skipping NATS connection")
		return nil
	}

	if err := p.natsClient.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}

	// Ensure ingest event stream exists
	if err := p.natsClient.EnsureIngestEventStream(); err != nil {
		return fmt.Errorf("failed to ensure ingest event stream: %w", err)
	}

	if p.verbose {
		log.Println("Connected to NATS and ensured ingest event stream")
	}

	return nil
}

// Close closes the NATS connection
func (p *EventPublisher) Close() {
	if !p.dryRun && p.natsClient != nil {
		p.natsClient.Close()
	}
}

// PublishTapIn publishes a tap-in scan event
func (p *EventPublisher) PublishTapIn(ctx context.Context, config *Config) error {
	scan := dto.TapInScanDTO{
		UserID:    config.UserID,
		ClubID:    config.ClubID,
		Source:    config.Source,
		Ref:       config.Ref,
		ScannedAt: time.Now().UTC(),
	}
	if config.Override > 0 {
		override := config.Override
		scan.PointsOverride = &override
	}

	summary := fmt.Sprintf("Tap-In (%s) for user %d in club %d", scan.Source, scan.UserID, scan.ClubID)
	return p.publishEvent(ctx, "scans.tap_in", "tap_in_scan", "scanner-service", scan, summary)
}

// PublishPurchase publishes a purchase verified event
func (p *EventPublisher) PublishPurchase(ctx context.Context, config *Config) error {
	purchase := dto.PurchaseVerifiedDTO{
		UserID:          config.UserID,
		ClubID:          config.ClubID,
		Points:          config.Points,
		BonusPoints:     config.BonusPoints,
		USDGrossCents:   config.GrossCents,
		UnitSellCents:   config.SellCents,
		UnitSettleCents: config.SettleCents,
		Ref:             config.Ref,
		VerifiedAt:      time.Now().UTC(),
	}

	summary := fmt.Sprintf("Purchase of %.0f points (+%.0f bonus) for user %d in club %d",
		purchase.Points, purchase.BonusPoints, purchase.UserID, purchase.ClubID)
	return p.publishEvent(ctx, "payments.purchase_verified", "purchase_verified", "payments-service", purchase, summary)
}

// PublishBatch publishes tap-in events for multiple fans
func (p *EventPublisher) PublishBatch(ctx context.Context, config *Config) error {
	users := strings.Split(config.Users, ",")
	log.Printf("Publishing batch events for %d fans", len(users))

	sources := []string{"qr_code", "nfc", "link", "show_entry", "presave", "merch_purchase"}

	for i, user := range users {
		userID, err := strconv.ParseInt(strings.TrimSpace(user), 10, 64)
		if err != nil {
			log.Printf("Skipping invalid user ID: %s", user)
			continue
		}

		userConfig := *config // Copy config
		userConfig.UserID = userID
		userConfig.Source = sources[i%len(sources)]
		userConfig.Ref = fmt.Sprintf("batch-scan-%d-%d", time.Now().Unix(), i)

		log.Printf("Publishing %s tap-in for user %d", userConfig.Source, userID)
		if err := p.PublishTapIn(ctx, &userConfig); err != nil {
			log.Printf("Failed to publish tap-in for user %d: %v", userID, err)
			continue
		}

		// Small delay between fans
		if i < len(users)-1 {
			time.Sleep(config.Delay)
		}
	}

	return nil
}

// publishEvent wraps the payload in an ingest envelope and publishes it to NATS
func (p *EventPublisher) publishEvent(ctx context.Context, subject, eventType, sourceService string, payload any, summary string) error {
	payloadData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	envelope := infrastructure.EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     eventType,
		Timestamp:     time.Now().UTC(),
		SourceService: sourceService,
		Payload:       payloadData,
	}

	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}

	if p.verbose || p.dryRun {
		log.Printf("Event: %s", summary)
		log.Printf("Subject: %s", subject)
		log.Printf("Event ID: %s", envelope.EventID)
		log.Printf("Payload: %s", payloadData)
		log.Printf("Message size: %d bytes", len(data))
		log.Println("---")
	}

	if p.dryRun {
		log.Printf("DRY RUN: Would publish %s", summary)
		return nil
	}

	// Publish to NATS
	if err := p.natsClient.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("failed to publish to NATS: %w", err)
	}

	log.Printf("Published %s", summary)
	return nil
}
