package mining

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"faucet/bot/common"
	"faucet/service"
)

func (f *Feature) handleMine(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	userID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", i.Member.User.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	result, err := f.miningService.Claim(ctx, userID, i.Member.User.Username)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoLinkedAccount):
			common.RespondWithError(s, i, "You need to link a ledger account first. Use `/link` with your `0.0.xxxxx` account ID.")
		case errors.Is(err, service.ErrTransferTimeout):
			common.RespondWithError(s, i, "The token transfer did not confirm in time. Nothing was credited; please try again.")
		case errors.Is(err, service.ErrTransferFailed):
			common.RespondWithError(s, i, "The token transfer failed. Nothing was credited; please try again later.")
		default:
			log.Errorf("Error processing claim for user %d: %v", userID, err)
			common.RespondWithError(s, i, "Unable to process your claim. Please try again.")
		}
		return
	}

	if !result.Success {
		readyAt := time.Now().Add(result.Remaining)
		common.RespondWithMessage(s, i, fmt.Sprintf(
			"⏳ You need to wait **%s** before mining again (ready %s). Balance: **%s CCC**",
			common.FormatWait(result.Remaining),
			common.FormatDiscordTimestamp(readyAt, "R"),
			common.FormatAmount(result.Balance)), true)
		return
	}

	common.RespondWithSuccess(s, i, fmt.Sprintf(
		"Successfully mined **%s CCC**! New balance: **%s CCC**",
		common.FormatAmount(result.Reward), common.FormatAmount(result.Balance)), false)
}

func (f *Feature) handleStatus(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	userID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", i.Member.User.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	status, err := f.miningService.Status(ctx, userID, i.Member.User.Username)
	if err != nil {
		log.Errorf("Error getting mining status for user %d: %v", userID, err)
		common.RespondWithError(s, i, "Unable to retrieve mining status. Please try again.")
		return
	}

	if status.Eligible {
		common.RespondWithMessage(s, i, fmt.Sprintf(
			"⛏️ You can mine now! Balance: **%s CCC**", common.FormatAmount(status.Balance)), true)
		return
	}

	readyAt := time.Now().Add(status.Remaining)
	common.RespondWithMessage(s, i, fmt.Sprintf(
		"⏳ Next reward **%s** (in %s). Balance: **%s CCC**",
		common.FormatDiscordTimestamp(readyAt, "R"),
		common.FormatWait(status.Remaining),
		common.FormatAmount(status.Balance)), true)
}
