package commands

import (
	"strconv"

	"github.com/akhilsharma90/go-explain-bot/pkg/bot"
	"github.com/akhilsharma90/go-explain-bot/pkg/constants"
	discord "github.com/bwmarrin/discordgo"
)

const (
	infoCommandName = "info"
)

func infoEmbed(model string, cacheCapacity int) *discord.MessageEmbed {
	return &discord.MessageEmbed{
		Title:       "Bot Version",
		Description: "Version: " + constants.Version,
		Color:       0x00bfff,
		Fields: []*discord.MessageEmbedField{
			{Name: "Model", Value: model, Inline: true},
			{Name: "Cache size", Value: strconv.Itoa(cacheCapacity), Inline: true},
		},
	}
}

func infoHandler(ctx *bot.Context, model string, cacheCapacity int) {
	err := ctx.Respond(&discord.InteractionResponse{
		Type: discord.InteractionResponseChannelMessageWithSource,
		Data: &discord.InteractionResponseData{
			// Note: only visible to the user who invoked the command
			Flags: discord.MessageFlagsEphemeral,
			Components: []discord.MessageComponent{
				discord.ActionsRow{
					Components: []discord.MessageComponent{
						&discord.Button{
							Label: "Source code",
							Style: discord.LinkButton,
							URL:   constants.SourceCodeURL,
						},
					},
				},
			},
			Embeds: []*discord.MessageEmbed{infoEmbed(model, cacheCapacity)},
		},
	})
	if err != nil {
		ctx.Logger.Error().Err(err).Msg("failed to send info")
	}
}

func InfoCommand(model string, cacheCapacity int) *bot.Command {
	return &bot.Command{
		Name:                     infoCommandName,
		Description:              "Show information about current version of the explain bot",
		DMPermission:             true,
		DefaultMemberPermissions: discord.PermissionViewChannel,
		Handler: bot.HandlerFunc(func(ctx *bot.Context) {
			infoHandler(ctx, model, cacheCapacity)
		}),
	}
}
