package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	discord "github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akhilsharma90/go-explain-bot/pkg/provider"
)

type apiRequest struct {
	Method string
	Path   string
	Body   map[string]any
}

// newAPISession returns a session whose REST calls go to a local server that
// records every request and answers with a message.
func newAPISession(t *testing.T) (*discord.Session, func() []apiRequest) {
	t.Helper()

	var (
		mu       sync.Mutex
		requests []apiRequest
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := apiRequest{Method: r.Method, Path: r.URL.Path}
		_ = json.NewDecoder(r.Body).Decode(&req.Body)

		mu.Lock()
		requests = append(requests, req)
		id := len(requests)
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"id": fmt.Sprintf("sent-%d", id), "channel_id": "c1"})
	}))
	t.Cleanup(server.Close)

	api, channels, webhooks := discord.EndpointAPI, discord.EndpointChannels, discord.EndpointWebhooks
	discord.EndpointAPI = server.URL + "/api/"
	discord.EndpointChannels = discord.EndpointAPI + "channels/"
	discord.EndpointWebhooks = discord.EndpointAPI + "webhooks/"
	t.Cleanup(func() {
		discord.EndpointAPI, discord.EndpointChannels, discord.EndpointWebhooks = api, channels, webhooks
	})

	s, err := discord.New("Bot test-token")
	require.NoError(t, err)
	s.State.User = &discord.User{ID: "bot-id"}

	return s, func() []apiRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]apiRequest(nil), requests...)
	}
}

func userMessage(content string) *discord.MessageCreate {
	return &discord.MessageCreate{Message: &discord.Message{
		ID:        "m1",
		ChannelID: "c1",
		Content:   content,
		Author:    &discord.User{ID: "u1", Username: "alice"},
	}}
}

func methods(requests []apiRequest) (out []string) {
	for _, r := range requests {
		kind := "message"
		switch {
		case strings.Contains(r.Path, "/reactions/"):
			kind = "reaction"
		case strings.HasSuffix(r.Path, "/typing"):
			kind = "typing"
		}
		out = append(out, r.Method+" "+kind)
	}
	return out
}

func TestExplainMessage_MissThenCachedHit(t *testing.T) {
	s, requests := newAPISession(t)
	router, cache := newTestRouter(t, provider.GeneratorFunc(func(_ context.Context, q string) (string, error) {
		return "TCP is a reliable byte stream.", nil
	}))

	router.HandleMessage(s, userMessage("!explain What is TCP?"))
	got := requests()
	assert.Equal(t, []string{"PUT reaction", "POST typing", "POST message", "DELETE reaction"}, methods(got))
	assert.Equal(t, "TCP is a reliable byte stream.", got[2].Body["content"])
	assert.Equal(t, 1, cache.Len())

	router.HandleMessage(s, userMessage("!explain   what is tcp?"))
	got = requests()[4:]
	require.Equal(t, []string{"PUT reaction", "POST typing", "POST message", "PATCH message", "DELETE reaction"}, methods(got))
	assert.Equal(t, "TCP is a reliable byte stream.", got[2].Body["content"])
	assert.Equal(t, "/api/channels/c1/messages/sent-7", got[3].Path)

	embeds, _ := got[3].Body["embeds"].([]any)
	require.Len(t, embeds, 1)
	footer := embeds[0].(map[string]any)["footer"].(map[string]any)
	assert.Contains(t, footer["text"], "Cached answer · saved ~")
}

func TestExplainMessage_ProviderFailure(t *testing.T) {
	s, requests := newAPISession(t)
	router, cache := newTestRouter(t, provider.GeneratorFunc(func(context.Context, string) (string, error) {
		return "", &provider.Error{Category: provider.CategoryRateLimit, StatusCode: 429, Err: errors.New("slow down")}
	}))

	router.HandleMessage(s, userMessage("!explain What is TCP?"))
	got := requests()
	assert.Equal(t, []string{"PUT reaction", "POST typing", "PUT reaction", "POST message", "DELETE reaction"}, methods(got))
	assert.Equal(t, "⚠️ OpenAI error: Rate limit hit. Try again later.", got[3].Body["content"])
	assert.Zero(t, cache.Len())
}

func TestCacheStatsSubcommand(t *testing.T) {
	s, requests := newAPISession(t)
	router, cache := newTestRouter(t, provider.GeneratorFunc(nil))
	cache.Insert("What is TCP?", "a byte stream", "alice")
	cache.Lookup("what is tcp?")

	router.HandleInteraction(s, &discord.InteractionCreate{Interaction: &discord.Interaction{
		ID:     "i1",
		AppID:  "app",
		Token:  "tok",
		Type:   discord.InteractionApplicationCommand,
		Member: &discord.Member{User: &discord.User{ID: "u1", Username: "alice"}},
		Data: discord.ApplicationCommandInteractionData{
			Name: cacheCommandName,
			Options: []*discord.ApplicationCommandInteractionDataOption{
				{Name: cacheStatsSubcommandName, Type: discord.ApplicationCommandOptionSubCommand},
			},
		},
	}})

	got := requests()
	require.Len(t, got, 1)
	assert.Equal(t, http.MethodPost, got[0].Method)
	assert.True(t, strings.HasSuffix(got[0].Path, "/i1/tok/callback"), got[0].Path)

	data := got[0].Body["data"].(map[string]any)
	embeds := data["embeds"].([]any)
	require.Len(t, embeds, 1)
	assert.Equal(t, "Answer cache", embeds[0].(map[string]any)["title"])
}
