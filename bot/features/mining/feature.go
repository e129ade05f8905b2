package mining

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
	switch i.ApplicationCommandData().Name {
	case "mine":
		f.handleMine(s, i)
	case "status":
		f.handleStatus(s, i)
	}
}
