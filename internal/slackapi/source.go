package slackapi

import (
	"context"
	"log/slog"

	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"

	"groundhog/internal/model"
)

const bufferSize = 512

// Source receives events over Socket Mode and hands them to the poll loop
// in batches.
type Source struct {
	sm  *socketmode.Client
	buf chan model.Event
	log *slog.Logger
}

// NewSource creates a Socket Mode source on top of c.
func NewSource(c *Client, log *slog.Logger) *Source {
	return &Source{
		sm:  socketmode.New(c.api),
		buf: make(chan model.Event, bufferSize),
		log: log,
	}
}

// Start opens the Socket Mode connection in the background. The returned
// channel yields the connection's terminal error, if any, once it stops.
func (s *Source) Start(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() {
		done <- s.sm.RunContext(ctx)
	}()
	go s.pump(ctx)
	return done
}

// Read drains the events received since the previous call without blocking.
func (s *Source) Read(_ context.Context) []model.Event {
	var batch []model.Event
	for {
		select {
		case ev := <-s.buf:
			batch = append(batch, ev)
		default:
			return batch
		}
	}
}

func (s *Source) pump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-s.sm.Events:
			if !ok {
				return
			}
			s.handle(ctx, evt)
		}
	}
}

func (s *Source) handle(ctx context.Context, evt socketmode.Event) {
	switch evt.Type {
	case socketmode.EventTypeConnecting:
		s.log.Info("socketmode connecting")
	case socketmode.EventTypeConnected:
		s.log.Info("socketmode connected")
	case socketmode.EventTypeConnectionError:
		s.log.Error("socketmode connection error", "error", evt.Data)
	case socketmode.EventTypeEventsAPI:
		if evt.Request != nil {
			s.sm.Ack(*evt.Request)
		}
		ev, ok := messageFromSocketEvent(evt)
		if !ok {
			return
		}
		select {
		case s.buf <- ev:
		case <-ctx.Done():
		}
	}
}

// messageFromSocketEvent extracts the message event carried by a Socket
// Mode envelope.
func messageFromSocketEvent(evt socketmode.Event) (model.Event, bool) {
	api, ok := evt.Data.(slackevents.EventsAPIEvent)
	if !ok || api.Type != slackevents.CallbackEvent {
		return model.Event{}, false
	}
	msg, ok := api.InnerEvent.Data.(*slackevents.MessageEvent)
	if !ok || msg == nil {
		return model.Event{}, false
	}
	return model.Event{
		Type:    model.EventTypeMessage,
		SubType: msg.SubType,
		User:    msg.User,
		BotID:   msg.BotID,
		Channel: msg.Channel,
		Text:    msg.Text,
		TS:      msg.TimeStamp,
	}, true
}
