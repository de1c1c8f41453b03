package commands

import (
	"fmt"
	"strings"

	discord "github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"github.com/akhilsharma90/go-explain-bot/pkg/answercache"
	"github.com/akhilsharma90/go-explain-bot/pkg/bot"
	"github.com/akhilsharma90/go-explain-bot/pkg/constants"
)

const (
	cacheCommandName         = "cache"
	cacheListSubcommandName  = "list"
	cacheStatsSubcommandName = "stats"

	cacheListingQuestionMaxLength = 80
)

// cacheListing renders the cached questions, oldest first, so the next one
// to be evicted is on top. The result fits into one Discord message.
func cacheListing(entries []answercache.Entry, stats answercache.Stats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**Cached answers** %d/%d · hits %d · misses %d · evictions %d",
		stats.Entries, stats.Capacity, stats.Hits, stats.Misses, stats.Evictions)

	if len(entries) == 0 {
		b.WriteString("\nThe cache is empty.")
		return b.String()
	}

	for i, e := range entries {
		line := fmt.Sprintf("\n%d. %s (asked by %s)", i+1, truncate(e.Question, cacheListingQuestionMaxLength), e.Requester)
		more := fmt.Sprintf("\n…and %d more", len(entries)-i)
		if b.Len()+len(line)+len(more) > constants.DiscordMaxMessageLength {
			b.WriteString(more)
			break
		}
		b.WriteString(line)
	}
	return b.String()
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

func cacheStatsEmbed(stats answercache.Stats) *discord.MessageEmbed {
	hitRate := "n/a"
	if lookups := stats.Hits + stats.Misses; lookups > 0 {
		hitRate = fmt.Sprintf("%.0f%%", float64(stats.Hits)*100/float64(lookups))
	}
	return &discord.MessageEmbed{
		Title: "Answer cache",
		Color: 0x00bfff,
		Fields: []*discord.MessageEmbedField{
			{Name: "Entries", Value: fmt.Sprintf("%d/%d", stats.Entries, stats.Capacity), Inline: true},
			{Name: "Hits", Value: fmt.Sprint(stats.Hits), Inline: true},
			{Name: "Misses", Value: fmt.Sprint(stats.Misses), Inline: true},
			{Name: "Evictions", Value: fmt.Sprint(stats.Evictions), Inline: true},
			{Name: "Hit rate", Value: hitRate, Inline: true},
		},
	}
}

func cacheListHandler(ctx *bot.Context, cache *answercache.Cache) {
	// Note: only visible to the user who invoked the command
	if err := ctx.RespondText(cacheListing(cache.Entries(), cache.Stats()), true); err != nil {
		ctx.Logger.Error().Err(err).Msg("failed to list cache")
	}
}

func cacheStatsHandler(ctx *bot.Context, cache *answercache.Cache) {
	err := ctx.Respond(&discord.InteractionResponse{
		Type: discord.InteractionResponseChannelMessageWithSource,
		Data: &discord.InteractionResponseData{
			Flags:  discord.MessageFlagsEphemeral,
			Embeds: []*discord.MessageEmbed{cacheStatsEmbed(cache.Stats())},
		},
	})
	if err != nil {
		ctx.Logger.Error().Err(err).Msg("failed to send cache stats")
	}
}

func CacheCommand(cache *answercache.Cache) *bot.Command {
	return &bot.Command{
		Name:                     cacheCommandName,
		Description:              "Inspect the answer cache",
		DMPermission:             false,
		DefaultMemberPermissions: discord.PermissionViewChannel,
		SubCommands: bot.NewRouter([]*bot.Command{
			{
				Name:        cacheListSubcommandName,
				Description: "Lists the cached questions, oldest first.",
				Handler: bot.HandlerFunc(func(ctx *bot.Context) {
					cacheListHandler(ctx, cache)
				}),
			},
			{
				Name:        cacheStatsSubcommandName,
				Description: "Shows cache hits, misses and evictions.",
				Handler: bot.HandlerFunc(func(ctx *bot.Context) {
					cacheStatsHandler(ctx, cache)
				}),
			},
		}, "", zerolog.Nop()),
	}
}
