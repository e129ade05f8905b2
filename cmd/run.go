package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"faucet/bot"
	"faucet/config"
	"faucet/database"
	"faucet/events"
	"faucet/repository"
	"faucet/service"
	"faucet/transfer"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting faucet bot...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize event bus
	eventBus := events.NewBus()

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Initialize the external transfer invoker if configured
	var invoker service.TransferInvoker
	if cfg.TransferCommand != "" {
		invoker, err = transfer.NewScriptInvoker(cfg.TransferCommand, cfg.TransferTimeout)
		if err != nil {
			return fmt.Errorf("failed to initialize transfer invoker: %w", err)
		}
		log.Println("External transfer invoker enabled")
	} else {
		log.Println("External transfers disabled; rewards are ledger-only")
	}

	// Initialize services
	miningService := service.NewMiningService(uowFactory, service.NewClock(), invoker, cfg)
	accountService := service.NewAccountService(uowFactory)
	log.Println("Services initialized successfully")

	// Initialize Discord bot
	log.Println("Initializing Discord bot...")
	botConfig := bot.Config{
		Token:           cfg.DiscordToken,
		GuildID:         cfg.DiscordGuildID,
		TopMinerRoleID:  cfg.TopMinerRoleID,
		TopMinerEnabled: cfg.TopMinerEnabled,
	}
	discordBot, err := bot.New(botConfig, miningService, accountService, eventBus)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Println("Discord bot initialized successfully")

	// Wait for context cancellation
	log.Printf("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down bot...")

	if err := discordBot.Close(); err != nil {
		log.Printf("Error closing Discord bot: %v", err)
	}

	// Give cleanup operations time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

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
