// Package delivery implements notification.Sender transports.
package delivery

import (
	"context"

	"github.com/slack-go/slack"

	"github.com/kishhcodes/cloudgate/pkg/notification"
	"github.com/kishhcodes/cloudgate/pkg/notification/sanitization"
	gwerrors "github.com/kishhcodes/cloudgate/pkg/shared/errors"
	sharedhttp "github.com/kishhcodes/cloudgate/pkg/shared/http"
)

// SlackSender delivers remediation notifications to a Slack workspace via
// a bot token. Every message is sanitized before being posted.
type SlackSender struct {
	client *slack.Client
}

var _ notification.Sender = (*SlackSender)(nil)

// NewSlackSender builds a SlackSender authenticated with token, using an
// HTTP client tuned to fail fast rather than block a playbook action on a
// slow Slack response.
func NewSlackSender(token string) *SlackSender {
	httpClient := sharedhttp.NewClient(sharedhttp.SlackClientConfig())
	return &SlackSender{client: slack.New(token, slack.OptionHTTPClient(httpClient))}
}

// Send posts message to channel, stripping anything that looks like a
// credential first.
func (s *SlackSender) Send(ctx context.Context, channel, message string) error {
	clean := sanitization.Sanitize(message)
	_, _, err := s.client.PostMessageContext(ctx, channel, slack.MsgOptionText(clean, false))
	if err != nil {
		return gwerrors.Wrap(gwerrors.KindHandlerError, "post slack message", err)
	}
	return nil
}
