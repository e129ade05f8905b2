package bot

import (
	"context"
	"fmt"
	"strconv"

	log "github.com/sirupsen/logrus"

	"faucet/bot/features/balance"
	"faucet/bot/features/leaderboard"
	"faucet/bot/features/link"
	"faucet/bot/features/mining"
	"faucet/events"
	"faucet/service"

	"github.com/bwmarrin/discordgo"
)

// Config holds bot configuration
type Config struct {
	Token           string
	GuildID         string
	TopMinerRoleID  string
	TopMinerEnabled bool
}

type Bot struct {
	config             Config
	session            *discordgo.Session
	miningService      service.MiningService
	accountService     service.AccountService
	eventBus           *events.Bus
	miningFeature      *mining.Feature
	balanceFeature     *balance.Feature
	linkFeature        *link.Feature
	leaderboardFeature *leaderboard.Feature
}

func New(config Config, miningService service.MiningService, accountService service.AccountService, eventBus *events.Bus) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers

	bot := &Bot{
		config:             config,
		session:            dg,
		miningService:      miningService,
		accountService:     accountService,
		eventBus:           eventBus,
		miningFeature:      mining.New(miningService),
		balanceFeature:     balance.New(miningService),
		linkFeature:        link.New(accountService),
		leaderboardFeature: leaderboard.New(miningService),
	}

	// Register slash command handlers
	dg.AddHandler(bot.handleCommands)

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	// Keep the top miner role in sync with the ledger
	if bot.config.TopMinerEnabled {
		eventBus.Subscribe(events.EventTypeRewardClaimed, func(ctx context.Context, event events.Event) {
			if _, ok := event.(events.RewardClaimedEvent); ok {
				if err := bot.updateTopMinerRole(ctx); err != nil {
					log.Errorf("Failed to update top miner role: %v", err)
				}
			}
		})
		log.Info("Top miner role management enabled")
	}

	return bot, nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}

// updateTopMinerRole moves the configured role to whoever leads the ledger
func (b *Bot) updateTopMinerRole(ctx context.Context) error {
	if !b.config.TopMinerEnabled || b.config.TopMinerRoleID == "" {
		return nil // Feature disabled
	}

	top, err := b.miningService.TopMiners(ctx, 1)
	if err != nil {
		return fmt.Errorf("failed to get top miner: %w", err)
	}
	if len(top) == 0 {
		return nil // Nobody has mined yet
	}
	topMinerID := strconv.FormatInt(top[0].UserID, 10)

	members, err := b.session.GuildMembers(b.config.GuildID, "", 1000)
	if err != nil {
		return fmt.Errorf("failed to get guild members: %w", err)
	}

	// Find who currently has the role
	var currentHolders []string
	for _, member := range members {
		for _, roleID := range member.Roles {
			if roleID == b.config.TopMinerRoleID {
				currentHolders = append(currentHolders, member.User.ID)
				break
			}
		}
	}

	// Remove role from anyone who shouldn't have it
	hasRole := false
	for _, holderID := range currentHolders {
		if holderID == topMinerID {
			hasRole = true
			continue
		}
		if err := b.session.GuildMemberRoleRemove(b.config.GuildID, holderID, b.config.TopMinerRoleID); err != nil {
			log.Errorf("Failed to remove top miner role from user %s: %v", holderID, err)
		}
	}

	if !hasRole {
		if err := b.session.GuildMemberRoleAdd(b.config.GuildID, topMinerID, b.config.TopMinerRoleID); err != nil {
			return fmt.Errorf("failed to add top miner role to user %s: %w", topMinerID, err)
		}
		log.Infof("Top miner role assigned to user %s", topMinerID)
	}

	return nil
}
