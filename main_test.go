package main

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akhilsharma90/go-explain-bot/pkg/config"
	"github.com/akhilsharma90/go-explain-bot/pkg/constants"
)

func TestNewBotContext(t *testing.T) {
	cfg := config.Default()
	cfg.Discord.Token = "discord-token"
	cfg.OpenAI.APIKey = "sk-test"
	cfg.Cache.Size = 3

	bc, err := newBotContext(cfg, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, 3, bc.Cache.Capacity())
	assert.Equal(t, "gpt-4o-mini", bc.Provider.Model())
	assert.NotNil(t, bc.Explainer)

	var names []string
	for _, cmd := range bc.Bot.Router.List() {
		names = append(names, cmd.Name)
	}
	assert.Equal(t, []string{"cache", "explain", "hello", "helpme", "info"}, names)
	assert.Equal(t, "!", bc.Bot.Router.Prefix())
}

func TestNewBotContext_InvalidCacheSize(t *testing.T) {
	cfg := config.Default()
	cfg.Discord.Token = "discord-token"
	cfg.OpenAI.APIKey = "sk-test"
	cfg.Cache.Size = 0

	_, err := newBotContext(cfg, zerolog.Nop())
	assert.Error(t, err)
}

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, constants.Version+"\n", out.String())
}
