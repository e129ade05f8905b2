package leaderboard

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"faucet/bot/common"
)

const topSize = 10

func (f *Feature) handleTop(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	users, err := f.miningService.TopMiners(ctx, topSize)
	if err != nil {
		log.Errorf("Error getting top miners: %v", err)
		common.RespondWithError(s, i, "Unable to retrieve the leaderboard. Please try again.")
		return
	}

	if len(users) == 0 {
		common.RespondWithMessage(s, i, "Nobody has mined anything yet. Be the first with `/mine`!", false)
		return
	}

	var sb strings.Builder
	sb.WriteString("**⛏️ Top Miners**\n")
	for rank, user := range users {
		name := common.GetDisplayNameInt64(s, i.GuildID, user.UserID)
		sb.WriteString(fmt.Sprintf("%d. **%s** — **%s CCC**\n", rank+1, name, common.FormatAmount(user.Balance)))
	}

	if err := common.RespondWithMessage(s, i, sb.String(), false); err != nil {
		log.Errorf("Error responding to top command: %v", err)
	}
}
