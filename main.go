package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"superfan/cmd"
	"superfan/config"
	"superfan/database"
	"superfan/domain/services"
	"superfan/domain/utils"
	"superfan/infrastructure"
)

func main() {
	// Check for migration subcommands
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if err := handleMigrationCommand(); err != nil {
			log.Fatal("Migration error:", err)
		}
		return
	}

	// Check for admin grant subcommand
	if len(os.Args) > 1 && os.Args[1] == "award-points" {
		if err := handleAwardPoints(); err != nil {
			log.Fatal("Award error:", err)
		}
		return
	}

	// Normal service operation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Println("Received shutdown signal, shutting down gracefully...")
		cancel()
	}()

	// Run the application
	if err := cmd.Run(ctx); err != nil {
		log.Fatal("Application error:", err)
	}
}

func handleMigrationCommand() error {
	if len(os.Args) < 3 {
		return fmt.Errorf("usage: superfan migrate [up|down|status] [args...]")
	}

	command := os.Args[2]
	switch command {
	case "up":
		return database.MigrateUp()
	case "down":
		steps := "1"
		if len(os.Args) > 3 {
			steps = os.Args[3]
		}
		return database.MigrateDown(steps)
	case "status":
		return database.MigrateStatus()
	default:
		return fmt.Errorf("unknown migration command: %s", command)
	}
}

// handleAwardPoints grants earned points to a fan's wallet from the command line
func handleAwardPoints() error {
	if len(os.Args) < 5 {
		return fmt.Errorf("usage: superfan award-points club-id user-id points [reason...]")
	}
	clubID, err := strconv.ParseInt(os.Args[2], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid club-id %q: %w", os.Args[2], err)
	}
	userID, err := strconv.ParseInt(os.Args[3], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid user-id %q: %w", os.Args[3], err)
	}
	points, err := strconv.ParseInt(os.Args[4], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid points %q: %w", os.Args[4], err)
	}
	reason := "admin grant"
	if len(os.Args) > 5 {
		reason = strings.Join(os.Args[5:], " ")
	}

	ctx := context.Background()
	// Load configuration
	cfg := config.Get()
	// load infra
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// CLI grants skip the stream entirely, so a no-op publisher is enough
	uowFactory := infrastructure.NewUnitOfWorkFactory(db, infrastructure.NewNoopEventPublisher())
	uow := uowFactory.CreateForClub(clubID)
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	ledger := services.NewLedgerService(
		uow.PointWalletRepository(),
		uow.PointTransactionRepository(),
		uow.ClubRepository(),
		uow.EventBus(),
		cfg.TapInOverrideCap,
	)
	wallet, err := ledger.AwardBonusPoints(ctx, userID, points, reason)
	if err != nil {
		return fmt.Errorf("failed to award points: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit grant: %w", err)
	}

	log.Printf("Awarded %s to user %d in club %d (balance now %s)",
		utils.FormatPoints(points), userID, clubID, utils.FormatPoints(wallet.BalancePts))
	return nil
}
