package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken   string
	DiscordGuildID string

	// Database configuration
	DatabaseURL string

	// Mining configuration
	Cooldown             time.Duration   // wait between successive rewards
	RewardAmount         decimal.Decimal // tokens granted per claim
	RequireLinkedAccount bool            // claims are refused until an account is linked

	// External transfer configuration. An empty TransferCommand disables
	// on-chain transfers; rewards are then tracked in the local ledger only.
	TransferCommand string
	TransferTimeout time.Duration

	// Top Miner Role configuration
	TopMinerRoleID  string
	TopMinerEnabled bool

	// Environment
	Environment string // "development" or "production"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		// Discord
		DiscordToken:   os.Getenv("DISCORD_TOKEN"),
		DiscordGuildID: os.Getenv("DISCORD_GUILD_ID"),

		// Database
		DatabaseURL: os.Getenv("DATABASE_URL"),

		// Mining settings with defaults
		Cooldown:             100 * time.Minute,
		RewardAmount:         decimal.NewFromInt(1),
		RequireLinkedAccount: os.Getenv("REQUIRE_LINKED_ACCOUNT") == "true",

		// External transfer
		TransferCommand: os.Getenv("TRANSFER_COMMAND"),
		TransferTimeout: 30 * time.Second,

		// Top Miner Role
		TopMinerRoleID:  os.Getenv("TOP_MINER_ROLE_ID"),
		TopMinerEnabled: os.Getenv("TOP_MINER_ENABLED") == "true",

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if minutes := os.Getenv("COOLDOWN_MINUTES"); minutes != "" {
		parsed, err := strconv.Atoi(minutes)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("invalid COOLDOWN_MINUTES %q", minutes)
		}
		config.Cooldown = time.Duration(parsed) * time.Minute
	}
	if amount := os.Getenv("REWARD_AMOUNT"); amount != "" {
		parsed, err := decimal.NewFromString(amount)
		if err != nil || parsed.Sign() <= 0 {
			return nil, fmt.Errorf("invalid REWARD_AMOUNT %q", amount)
		}
		config.RewardAmount = parsed
	}
	if seconds := os.Getenv("TRANSFER_TIMEOUT_SECONDS"); seconds != "" {
		parsed, err := strconv.Atoi(seconds)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("invalid TRANSFER_TIMEOUT_SECONDS %q", seconds)
		}
		config.TransferTimeout = time.Duration(parsed) * time.Second
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}
