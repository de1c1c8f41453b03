package commands

import (
	"fmt"
	"strings"
	"testing"

	discord "github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akhilsharma90/go-explain-bot/pkg/answercache"
	"github.com/akhilsharma90/go-explain-bot/pkg/bot"
	"github.com/akhilsharma90/go-explain-bot/pkg/explain"
	"github.com/akhilsharma90/go-explain-bot/pkg/provider"
)

func newTestRouter(t *testing.T, gen provider.Generator) (*bot.Router, *answercache.Cache) {
	t.Helper()
	cache, err := answercache.New(10)
	require.NoError(t, err)
	handler := explain.NewHandler(cache, gen)

	router := bot.NewRouter(nil, "!", zerolog.Nop())
	router.Register(ExplainCommand(handler, provider.DefaultModel))
	router.Register(HelloCommand())
	router.Register(HelpCommand(router))
	router.Register(InfoCommand(provider.DefaultModel, cache.Capacity()))
	router.Register(CacheCommand(cache))
	return router, cache
}

func TestExplainCommand(t *testing.T) {
	router, _ := newTestRouter(t, provider.GeneratorFunc(nil))
	cmd := router.Get(explainCommandName)
	require.NotNil(t, cmd)

	require.Len(t, cmd.Options, 1)
	assert.Equal(t, "question", cmd.Options[0].Name)
	assert.True(t, cmd.Options[0].Required)
	assert.Len(t, cmd.Middlewares, 1)
	assert.NotNil(t, cmd.Handler)
	assert.NotNil(t, cmd.MessageHandler)
}

func TestCommandOptionString(t *testing.T) {
	assert.Equal(t, "question", explainCommandOptionQuestion.String())
	assert.Equal(t, "ApplicationCommandOptionType(9)", explainCommandOptionType(9).String())
}

func TestGreeting(t *testing.T) {
	assert.Equal(t, "Hello <@42>! 👋", greeting(&discord.User{ID: "42", Username: "alice"}))
	assert.Equal(t, "Hello there! 👋", greeting(nil))
}

func TestHelpText(t *testing.T) {
	router, _ := newTestRouter(t, provider.GeneratorFunc(nil))

	expected := "Here are the commands you can use:\n" +
		"!explain <question> - Provides a simple explanation for the given question.\n" +
		"!hello - Greets the user.\n" +
		"!helpme - Displays this help message.\n" +
		"Slash commands: /cache, /explain, /hello, /helpme, /info"
	assert.Equal(t, expected, helpText(router.Prefix(), router.List()))
}

func TestHelpText_NoPrefix(t *testing.T) {
	router, _ := newTestRouter(t, provider.GeneratorFunc(nil))

	text := helpText("", router.List())
	assert.NotContains(t, text, "!explain")
	assert.Contains(t, text, "/explain")
}

func TestCacheListing_Empty(t *testing.T) {
	cache, err := answercache.New(3)
	require.NoError(t, err)

	assert.Equal(t,
		"**Cached answers** 0/3 · hits 0 · misses 0 · evictions 0\nThe cache is empty.",
		cacheListing(cache.Entries(), cache.Stats()))
}

func TestCacheListing_OldestFirst(t *testing.T) {
	cache, err := answercache.New(2)
	require.NoError(t, err)
	cache.Insert("A", "a", "alice")
	cache.Insert("B", "b", "bob")
	cache.Insert("C", "c", "carol")

	expected := "**Cached answers** 2/2 · hits 0 · misses 0 · evictions 1\n" +
		"1. b (asked by bob)\n" +
		"2. c (asked by carol)"
	assert.Equal(t, expected, cacheListing(cache.Entries(), cache.Stats()))
}

func TestCacheListing_FitsOneMessage(t *testing.T) {
	cache, err := answercache.New(100)
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		cache.Insert(fmt.Sprintf("question %d %s", i, strings.Repeat("x", 100)), "answer", "alice")
	}

	listing := cacheListing(cache.Entries(), cache.Stats())
	assert.LessOrEqual(t, len(listing), 2000)
	assert.Contains(t, listing, "more")
	assert.Contains(t, listing, "1. question 0 ")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "ééé…", truncate("éééééé", 4))
}

func TestCachedFooter(t *testing.T) {
	answer := explain.Answer{Text: "TCP is a reliable byte stream.", Cached: true}
	embed := cachedFooter(answer, provider.DefaultModel)

	require.NotNil(t, embed.Footer)
	tokens := provider.CountTokens(answer.Text, provider.DefaultModel)
	assert.Greater(t, tokens, 0)
	assert.Equal(t, fmt.Sprintf("Cached answer · saved ~%d tokens", tokens), embed.Footer.Text)
}

func TestInfoEmbed(t *testing.T) {
	embed := infoEmbed("gpt-4o-mini", 10)
	require.Len(t, embed.Fields, 2)
	assert.Equal(t, "gpt-4o-mini", embed.Fields[0].Value)
	assert.Equal(t, "10", embed.Fields[1].Value)
}

func TestCacheCommand(t *testing.T) {
	cache, err := answercache.New(3)
	require.NoError(t, err)
	cmd := CacheCommand(cache)

	assert.Nil(t, cmd.Handler)
	assert.True(t, cmd.IsSlash())
	ac := cmd.ApplicationCommand()
	require.Len(t, ac.Options, 2)
	assert.Equal(t, cacheListSubcommandName, ac.Options[0].Name)
	assert.Equal(t, cacheStatsSubcommandName, ac.Options[1].Name)
	for _, opt := range ac.Options {
		assert.Equal(t, discord.ApplicationCommandOptionSubCommand, opt.Type)
	}
}

func TestCacheStatsEmbed(t *testing.T) {
	embed := cacheStatsEmbed(answercache.Stats{Entries: 2, Capacity: 10, Hits: 3, Misses: 1, Evictions: 0})
	require.Len(t, embed.Fields, 5)
	assert.Equal(t, "2/10", embed.Fields[0].Value)
	assert.Equal(t, "3", embed.Fields[1].Value)
	assert.Equal(t, "75%", embed.Fields[4].Value)

	assert.Equal(t, "n/a", cacheStatsEmbed(answercache.Stats{Capacity: 10}).Fields[4].Value)
}
