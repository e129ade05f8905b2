package balance

import (
	"github.com/bwmarrin/discordgo"

	"faucet/service"
)

type Feature struct {
	miningService service.MiningService
}

func New(miningService service.MiningService) *Feature {
	return &Feature{
		miningService: miningService,
	}
}

func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	f.handleBalance(s, i)
}
