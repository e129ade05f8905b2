package link

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"

	"faucet/bot/common"
	"faucet/service"
)

func (f *Feature) handleLink(s *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx := context.Background()

	userID, err := strconv.ParseInt(i.Member.User.ID, 10, 64)
	if err != nil {
		log.Errorf("Error parsing Discord ID %s: %v", i.Member.User.ID, err)
		common.RespondWithError(s, i, "Unable to process request. Please try again.")
		return
	}

	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		// No argument: show the current link
		account, ok, err := f.accountService.Lookup(ctx, userID)
		if err != nil {
			log.Errorf("Error looking up account for user %d: %v", userID, err)
			common.RespondWithError(s, i, "Unable to look up your linked account. Please try again.")
			return
		}
		if !ok {
			common.RespondWithMessage(s, i, "You have no linked account yet. Use `/link account:0.0.xxxxx` to link one.", true)
			return
		}
		common.RespondWithMessage(s, i, fmt.Sprintf("Your linked account: `%s`", account), true)
		return
	}

	account := strings.TrimSpace(options[0].StringValue())
	if !common.ValidAccountID(account) {
		common.RespondWithError(s, i, "That doesn't look like a valid account ID. Please use the format `0.0.123456`.")
		return
	}

	if err := f.accountService.Link(ctx, userID, i.Member.User.Username, account); err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyLinked):
			common.RespondWithError(s, i, "You already linked a different account. Each user can link exactly one account; contact an operator to change it.")
		case errors.Is(err, service.ErrAccountLinkedToOther):
			common.RespondWithError(s, i, "That account is already linked to another user.")
		default:
			log.Errorf("Error linking account %s for user %d: %v", account, userID, err)
			common.RespondWithError(s, i, "Unable to link your account. Please try again.")
		}
		return
	}

	common.RespondWithSuccess(s, i, fmt.Sprintf("Linked account `%s`.", account), true)
}
