package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"superfan/application"
	"superfan/config"
	"superfan/database"
	"superfan/infrastructure"
	"superfan/infrastructure/observability"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting superfan service...")

	// Load configuration
	cfg := config.Get()

	// Initialize metrics
	if err := observability.InitializeGlobalMetrics(ctx, cfg); err != nil {
		log.Printf("Failed to initialize metrics, continuing without them: %v", err)
	}

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize NATS connection
	log.Printf("Connecting to NATS at %s...", cfg.NATSServers)
	natsClient := infrastructure.NewNATSClient(cfg.NATSServers)
	if err := natsClient.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}
	log.Println("NATS connection established successfully")

	// Initialize event publisher
	log.Println("Initializing event publisher...")
	subjectMapper := infrastructure.NewEventSubjectMapper()
	eventPublisher := infrastructure.NewNATSEventPublisher(natsClient, subjectMapper)
	if err := eventPublisher.EnsureDomainEventStream(); err != nil {
		return fmt.Errorf("failed to ensure domain event stream: %w", err)
	}
	log.Println("Event publisher initialized successfully")

	// Initialize unit of work factory
	log.Println("Initializing unit of work factory...")
	uowFactory := infrastructure.NewUnitOfWorkFactory(db, eventPublisher)
	log.Println("Unit of work factory initialized successfully")

	// Register application subscriptions
	log.Println("Registering application subscriptions...")
	subscriber := infrastructure.NewNATSEventSubscriber(natsClient, subjectMapper)
	if err := application.RegisterApplicationSubscriptions(subscriber, uowFactory, uowFactory); err != nil {
		return fmt.Errorf("failed to register application subscriptions: %w", err)
	}
	log.Println("Application subscriptions registered successfully")

	// Initialize ingest consumer
	log.Println("Initializing ingest consumer...")
	tapInHandler := application.NewTapInHandler(uowFactory, cfg.TapInOverrideCap)
	purchaseHandler := application.NewPurchaseHandler(uowFactory)
	consumer := infrastructure.NewMessageConsumer(cfg.NATSServers, tapInHandler, purchaseHandler)

	consumerErr := make(chan error, 1)
	go func() {
		consumerErr <- consumer.Start(ctx)
	}()
	log.Println("Ingest consumer started successfully")

	// Start hold sweep worker
	holdSweep := application.NewHoldSweepWorker(uowFactory, cfg.HoldSweepInterval(), cfg.HoldTTL())
	stopSweep := holdSweep.Start(ctx)

	// Wait for context cancellation or consumer failure
	log.Printf("Service is running in %s mode...", cfg.Environment)
	select {
	case <-ctx.Done():
	case err := <-consumerErr:
		if err != nil {
			log.Printf("Ingest consumer stopped with error: %v", err)
		}
	}

	// Cleanup resources
	log.Println("Shutting down service...")

	// Stop background workers
	stopSweep()
	consumer.Stop()

	// Close NATS connection
	if err := natsClient.Close(); err != nil {
		log.Printf("Error closing NATS connection: %v", err)
	}

	// Give cleanup operations time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Flush metrics
	if err := observability.ShutdownGlobalMetrics(shutdownCtx); err != nil {
		log.Printf("Error shutting down metrics: %v", err)
	}

	// Close database connection
	log.Println("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}
