package notify

import (
	"context"
	"fmt"

	slackapi "github.com/slack-go/slack"
)

// slackClient abstracts the Slack API methods we use, enabling test mocks.
type slackClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

// SlackSender posts events to a Slack channel as colored attachments.
type SlackSender struct {
	client  slackClient
	channel string
}

// NewSlackSender builds a sender using a bot token.
func NewSlackSender(token, channel string) *SlackSender {
	return &SlackSender{
		client:  slackapi.New(token),
		channel: channel,
	}
}

// Send posts the event.
func (s *SlackSender) Send(ctx context.Context, ev Event) error {
	attachment := slackapi.Attachment{
		Title: ev.Title,
		Text:  ev.Body,
		Color: ev.Color,
	}
	_, _, err := s.client.PostMessageContext(ctx, s.channel, slackapi.MsgOptionAttachments(attachment))
	if err != nil {
		return fmt.Errorf("notify: slack post to %s: %w", s.channel, err)
	}
	return nil
}
