// Package slackapi adapts github.com/slack-go/slack to the listener: it
// authenticates, receives message events over Socket Mode and performs the
// outbound reaction, message and directory calls.
package slackapi

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/slack-go/slack"

	"groundhog/internal/model"
)

const conversationsPageSize = 200

// Client wraps the Slack Web API client.
type Client struct {
	api     *slack.Client
	botName string
	log     *slog.Logger
}

// Identity is the bot's own identity as reported by auth.test.
type Identity struct {
	UserID string
	BotID  string
	Team   string
}

// New creates a Client. Extra options are passed through to slack.New and
// are mostly useful to point the client at a test server.
func New(botToken, appToken, botName string, log *slog.Logger, opts ...slack.Option) *Client {
	opts = append([]slack.Option{slack.OptionAppLevelToken(appToken)}, opts...)
	return &Client{
		api:     slack.New(botToken, opts...),
		botName: botName,
		log:     log,
	}
}

// Connect verifies the bot token and returns the bot's identity. A failure
// here means the listener cannot run at all.
func (c *Client) Connect(ctx context.Context) (Identity, error) {
	resp, err := c.api.AuthTestContext(ctx)
	if err != nil {
		return Identity{}, fmt.Errorf("auth test: %w", err)
	}
	c.log.Info("slack auth ok", "user_id", resp.UserID, "bot_id", resp.BotID, "team", resp.Team)
	return Identity{UserID: resp.UserID, BotID: resp.BotID, Team: resp.Team}, nil
}

// AddReaction adds emoji to the message identified by channel and ts.
func (c *Client) AddReaction(ctx context.Context, channel, ts, emoji string) error {
	if err := c.api.AddReactionContext(ctx, emoji, slack.NewRefToMessage(channel, ts)); err != nil {
		return fmt.Errorf("reactions.add: %w", err)
	}
	return nil
}

// PostMessage posts text to channel under the configured bot name.
func (c *Client) PostMessage(ctx context.Context, channel, text string) error {
	opts := []slack.MsgOption{slack.MsgOptionText(text, false)}
	if c.botName != "" {
		opts = append(opts, slack.MsgOptionUsername(c.botName))
	}
	if _, _, err := c.api.PostMessageContext(ctx, channel, opts...); err != nil {
		return fmt.Errorf("chat.postMessage: %w", err)
	}
	return nil
}

// ListMembers returns every workspace user with the name other users see.
func (c *Client) ListMembers(ctx context.Context) ([]model.Member, error) {
	users, err := c.api.GetUsersContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("users.list: %w", err)
	}
	members := make([]model.Member, 0, len(users))
	for _, u := range users {
		members = append(members, model.Member{ID: u.ID, Name: displayName(u)})
	}
	return members, nil
}

// ListChannels returns every public channel, following pagination cursors.
func (c *Client) ListChannels(ctx context.Context) ([]model.Channel, error) {
	var out []model.Channel
	params := &slack.GetConversationsParameters{
		Types: []string{"public_channel"},
		Limit: conversationsPageSize,
	}
	for {
		channels, next, err := c.api.GetConversationsContext(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("conversations.list: %w", err)
		}
		for _, ch := range channels {
			out = append(out, model.Channel{ID: ch.ID, Name: ch.Name})
		}
		if next == "" {
			return out, nil
		}
		params.Cursor = next
	}
}

// displayName prefers the profile display name and falls back to the real
// name and finally the account handle.
func displayName(u slack.User) string {
	switch {
	case u.Profile.DisplayName != "":
		return u.Profile.DisplayName
	case u.Profile.RealName != "":
		return u.Profile.RealName
	case u.RealName != "":
		return u.RealName
	default:
		return u.Name
	}
}
