package utils

import (
	"strings"
	"unicode/utf8"

	"github.com/akhilsharma90/go-explain-bot/pkg/constants"
)

// SplitMessage breaks message into parts that each fit into a single Discord
// message. Lines are kept intact where possible, then words, and a word longer
// than the limit is cut. The result always has at least one element.
func SplitMessage(message string) []string {
	return splitMessage(message, constants.DiscordMaxMessageLength)
}

func splitMessage(message string, limit int) []string {
	if len(message) <= limit {
		// the message is short enough to be sent as is
		return []string{message}
	}

	var messageParts []string
	var current strings.Builder
	flush := func() {
		if part := strings.TrimSpace(current.String()); part != "" {
			messageParts = append(messageParts, part)
		}
		current.Reset()
	}
	add := func(piece, sep string) {
		if current.Len() > 0 && current.Len()+len(sep)+len(piece) > limit {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString(sep)
		}
		current.WriteString(piece)
	}

	for _, line := range strings.Split(message, "\n") {
		if len(line) <= limit {
			add(line, "\n")
			continue
		}
		// the line alone is too long, fall back to words
		for i, word := range strings.Fields(line) {
			sep := " "
			if i == 0 {
				sep = "\n"
			}
			for len(word) > limit {
				flush()
				cut := runeBoundary(word, limit)
				messageParts = append(messageParts, word[:cut])
				word = word[cut:]
			}
			add(word, sep)
		}
	}
	flush()

	if len(messageParts) == 0 {
		return []string{""}
	}
	return messageParts
}

// runeBoundary returns the largest index <= n that does not split a UTF-8
// sequence in s.
func runeBoundary(s string, n int) int {
	i := n
	for i > 0 && i < len(s) && !utf8.RuneStart(s[i]) {
		i--
	}
	if i == 0 {
		return n
	}
	return i
}
