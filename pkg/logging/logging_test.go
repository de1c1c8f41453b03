package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Level(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{level: "debug", want: zerolog.DebugLevel},
		{level: "warn", want: zerolog.WarnLevel},
		{level: "", want: zerolog.InfoLevel},
		{level: "nonsense", want: zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger, closer, err := New(Options{Level: tt.level, Console: &bytes.Buffer{}})
			require.NoError(t, err)
			defer closer.Close()
			assert.Equal(t, tt.want, logger.GetLevel())
		})
	}
}

func TestNew_WritesConsoleAndFile(t *testing.T) {
	var console bytes.Buffer
	path := filepath.Join(t.TempDir(), "bot.log")

	logger, closer, err := New(Options{Level: "info", File: path, Console: &console})
	require.NoError(t, err)

	logger.Info().Str("user_id", "42").Msg("answer generated")
	logger.Debug().Msg("hidden")
	require.NoError(t, closer.Close())

	assert.Contains(t, console.String(), "answer generated")
	assert.NotContains(t, console.String(), "hidden")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var line map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &line))
	assert.Equal(t, "answer generated", line["message"])
	assert.Equal(t, "42", line["user_id"])
	assert.Equal(t, "info", line["level"])
}

func TestNew_BadFile(t *testing.T) {
	_, closer, err := New(Options{File: filepath.Join(t.TempDir(), "missing", "dir", "bot.log"), Console: &bytes.Buffer{}})
	assert.Error(t, err)
	assert.NotNil(t, closer)
}
