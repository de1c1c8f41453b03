package utils

import (
	discord "github.com/bwmarrin/discordgo"
)

// DiscordChannelMessageEdit replaces the content and embeds of an already sent
// message. A nil content leaves the text unchanged.
func DiscordChannelMessageEdit(s *discord.Session, messageID string, channelID string, content *string, embeds []*discord.MessageEmbed) error {
	_, err := s.ChannelMessageEditComplex(
		&discord.MessageEdit{
			Content: content,
			Embeds:  embeds,
			ID:      messageID,
			Channel: channelID,
		},
	)
	return err
}

// AttachFooterEmbed adds embed under the text of m.
func AttachFooterEmbed(s *discord.Session, m *discord.Message, embed *discord.MessageEmbed) error {
	if m == nil || embed == nil {
		return nil
	}
	return DiscordChannelMessageEdit(s, m.ID, m.ChannelID, nil, []*discord.MessageEmbed{embed})
}

// Mention formats a user mention, falling back to the username when the ID is
// unknown.
func Mention(u *discord.User) string {
	if u == nil {
		return "there"
	}
	if u.ID == "" {
		return u.Username
	}
	return u.Mention()
}
