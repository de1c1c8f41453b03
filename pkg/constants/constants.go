package constants

// Version is overridden at build time with -ldflags "-X .../pkg/constants.Version=..."
var Version = "dev"

const (
	SourceCodeURL = "https://github.com/akhilsharma90/go-explain-bot"

	OpenAIBlackIconURL = "https://seeklogo.com/images/O/open-ai-logo-8B9BFEDC26-seeklogo.com.png"

	// DefaultAnswerCacheSize is the number of recent answers kept when the config does not set one.
	DefaultAnswerCacheSize = 10

	DiscordMaxMessageLength = 2000
)
