package balance

import (
	"context"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"faucet/bot/common"
)

func (f *Feature) handleBalance(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	userID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", i.Member.User.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	status, err := f.miningService.Status(ctx, userID, i.Member.User.Username)
	if err != nil {
		log.Errorf("Error getting balance for user %d: %v", userID, err)
		common.RespondWithError(s, i, "Unable to retrieve balance. Please try again.")
		return
	}

	message := fmt.Sprintf("Your current balance: **%s CCC**", common.FormatAmount(status.Balance))
	if err := common.RespondWithMessage(s, i, message, true); err != nil {
		log.Errorf("Error responding to balance command: %v", err)
	}
}
