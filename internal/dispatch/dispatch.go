// Package dispatch sends reactions and replies to the chat platform.
//
// Delivery is at most once: a failed call is logged and counted, never
// retried, and the event is considered handled.
package dispatch

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"groundhog/internal/metrics"
)

// ChatAPI is the outbound half of the chat platform.
type ChatAPI interface {
	AddReaction(ctx context.Context, channel, ts, emoji string) error
	PostMessage(ctx context.Context, channel, text string) error
}

// Action is what the listener wants to happen in response to one message.
// Either field may be empty.
type Action struct {
	Emoji string
	Text  string
}

// Dispatcher paces and performs outbound calls.
type Dispatcher struct {
	api     ChatAPI
	limiter *rate.Limiter
	log     *slog.Logger
}

// New creates a Dispatcher that allows roughly one call per second with a
// small burst, in line with the platform's posting limits.
func New(api ChatAPI, log *slog.Logger) *Dispatcher {
	return NewWithLimiter(api, rate.NewLimiter(rate.Every(time.Second), 5), log)
}

// NewWithLimiter creates a Dispatcher with a custom limiter (useful for testing).
func NewWithLimiter(api ChatAPI, limiter *rate.Limiter, log *slog.Logger) *Dispatcher {
	return &Dispatcher{api: api, limiter: limiter, log: log}
}

// Dispatch performs a's reaction on the message (channel, ts) and then posts
// its reply to channel. The two calls are independent: a failed reaction
// does not suppress the reply.
func (d *Dispatcher) Dispatch(ctx context.Context, channel, ts string, a Action) {
	if a.Emoji != "" {
		d.React(ctx, channel, ts, a.Emoji)
	}
	if a.Text != "" {
		d.Post(ctx, channel, a.Text)
	}
}

// React adds emoji to the message (channel, ts).
func (d *Dispatcher) React(ctx context.Context, channel, ts, emoji string) {
	if err := d.limiter.Wait(ctx); err != nil {
		d.log.Warn("reaction not sent", "channel", channel, "ts", ts, "error", err)
		metrics.DispatchErrors.WithLabelValues("reactions.add").Inc()
		return
	}
	if err := d.api.AddReaction(ctx, channel, ts, emoji); err != nil {
		d.log.Error("add reaction", "channel", channel, "ts", ts, "emoji", emoji, "error", err)
		metrics.DispatchErrors.WithLabelValues("reactions.add").Inc()
	}
}

// Post sends text to channel.
func (d *Dispatcher) Post(ctx context.Context, channel, text string) {
	if err := d.limiter.Wait(ctx); err != nil {
		d.log.Warn("message not sent", "channel", channel, "error", err)
		metrics.DispatchErrors.WithLabelValues("chat.postMessage").Inc()
		return
	}
	if err := d.api.PostMessage(ctx, channel, text); err != nil {
		d.log.Error("post message", "channel", channel, "error", err)
		metrics.DispatchErrors.WithLabelValues("chat.postMessage").Inc()
	}
}
