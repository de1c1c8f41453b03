package commands

import "fmt"

type explainCommandOptionType uint8

const (
	explainCommandOptionQuestion explainCommandOptionType = 1
)

func (t explainCommandOptionType) String() string {
	switch t {
	case explainCommandOptionQuestion:
		return "question"
	}
	return fmt.Sprintf("ApplicationCommandOptionType(%d)", t)
}
