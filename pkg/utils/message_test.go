package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitMessage_Short(t *testing.T) {
	assert.Equal(t, []string{"hello"}, SplitMessage("hello"))
	assert.Equal(t, []string{""}, SplitMessage(""))
}

func TestSplitMessage_DiscordLimit(t *testing.T) {
	long := strings.Repeat("word ", 1000)
	parts := SplitMessage(long)
	require.Greater(t, len(parts), 1)
	for _, p := range parts {
		assert.LessOrEqual(t, len(p), 2000)
	}
	assert.Equal(t, strings.Fields(long), strings.Fields(strings.Join(parts, " ")))
}

func TestSplitMessage_KeepsLines(t *testing.T) {
	parts := splitMessage("first line\nsecond line\nthird", 24)
	assert.Equal(t, []string{"first line\nsecond line", "third"}, parts)
}

func TestSplitMessage_LongLineFallsBackToWords(t *testing.T) {
	parts := splitMessage("aaa bbb ccc ddd", 8)
	assert.Equal(t, []string{"aaa bbb", "ccc ddd"}, parts)
}

func TestSplitMessage_CutsLongWord(t *testing.T) {
	parts := splitMessage("abcdefghij", 4)
	assert.Equal(t, []string{"abcd", "efgh", "ij"}, parts)
}

func TestSplitMessage_DoesNotBreakRunes(t *testing.T) {
	parts := splitMessage("ééééé", 3)
	for _, p := range parts {
		assert.True(t, utf8.ValidString(p), p)
		assert.LessOrEqual(t, len(p), 3)
	}
	assert.Equal(t, "ééééé", strings.Join(parts, ""))
}
