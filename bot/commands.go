package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "mine",
			Description: "Mine CCC tokens (once per cooldown)",
		},
		{
			Name:        "status",
			Description: "Check your mining cooldown and balance",
		},
		{
			Name:        "balance",
			Description: "Check your current CCC balance",
		},
		{
			Name:        "link",
			Description: "Link or show your ledger account",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "account",
					Description: "Your ledger account ID (format 0.0.123456)",
					Required:    false,
				},
			},
		},
		{
			Name:        "top",
			Description: "Show the top miners",
		},
	}

	for _, cmd := range commands {
		_, err := b.session.ApplicationCommandCreate(b.session.State.User.ID, "", cmd)
		if err != nil {
			return fmt.Errorf("cannot create '%s' command: %w", cmd.Name, err)
		}
	}

	return nil
}

// handleCommands dispatches slash commands to their feature handlers
func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	if i.Member == nil || i.Member.User == nil {
		return // guild commands only
	}

	switch i.ApplicationCommandData().Name {
	case "mine", "status":
		b.miningFeature.HandleCommand(s, i)
	case "balance":
		b.balanceFeature.HandleCommand(s, i)
	case "link":
		b.linkFeature.HandleCommand(s, i)
	case "top":
		b.leaderboardFeature.HandleCommand(s, i)
	}
}
