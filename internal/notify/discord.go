package notify

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// session abstracts the discordgo.Session methods we use, enabling test mocks.
type session interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordSender posts events to a Discord channel as embeds.
type DiscordSender struct {
	session session
	channel string
}

// NewDiscordSender builds a sender using a bot token.
func NewDiscordSender(token, channel string) (*DiscordSender, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("notify: discord session: %w", err)
	}
	return &DiscordSender{session: s, channel: channel}, nil
}

// Send posts the event.
func (d *DiscordSender) Send(ctx context.Context, ev Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	embed := &discordgo.MessageEmbed{
		Title:       ev.Title,
		Description: ev.Body,
		Color:       hexColor(ev.Color),
	}
	if _, err := d.session.ChannelMessageSendEmbed(d.channel, embed, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("notify: discord post to %s: %w", d.channel, err)
	}
	return nil
}

// hexColor converts a "#rrggbb" hint into Discord's integer color. Zero on
// parse failure, which Discord renders as no sidebar.
func hexColor(hint string) int {
	hint = strings.TrimPrefix(hint, "#")
	v, err := strconv.ParseInt(hint, 16, 32)
	if err != nil {
		return 0
	}
	return int(v)
}
