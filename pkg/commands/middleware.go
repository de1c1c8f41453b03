package commands

import (
	"github.com/akhilsharma90/go-explain-bot/pkg/bot"
	discord "github.com/bwmarrin/discordgo"
)

// deferResponseMiddleware acknowledges the interaction right away. Discord
// drops interactions that are not answered within three seconds, and a
// completion request usually takes longer.
func deferResponseMiddleware(ctx *bot.Context) {
	err := ctx.Respond(&discord.InteractionResponse{
		Type: discord.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		ctx.Logger.Error().Err(err).Msg("failed to defer interaction response")
		return
	}

	ctx.Next()
}
