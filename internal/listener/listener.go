// Package listener runs the poll loop that feeds chat events to the bot.
package listener

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"groundhog/internal/model"
)

// Source returns the events that arrived since the previous call.
type Source interface {
	Read(ctx context.Context) []model.Event
}

// Handler processes a single event.
type Handler interface {
	HandleEvent(ctx context.Context, ev model.Event)
}

// Listener periodically drains the source and hands each event to the handler.
type Listener struct {
	source  Source
	handler Handler
	clock   clockwork.Clock
	log     *slog.Logger
	tick    time.Duration
}

// New creates a Listener on the real clock.
func New(source Source, handler Handler, tick time.Duration, log *slog.Logger) *Listener {
	return NewWithClock(source, handler, tick, clockwork.NewRealClock(), log)
}

// NewWithClock creates a Listener with a custom clock (useful for testing).
func NewWithClock(source Source, handler Handler, tick time.Duration, clock clockwork.Clock, log *slog.Logger) *Listener {
	return &Listener{
		source:  source,
		handler: handler,
		clock:   clock,
		log:     log,
		tick:    tick,
	}
}

// Run processes one batch immediately and then one per tick, blocking until
// ctx is cancelled.
func (l *Listener) Run(ctx context.Context) {
	l.poll(ctx)

	ticker := l.clock.NewTicker(l.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			l.poll(ctx)
		}
	}
}

func (l *Listener) poll(ctx context.Context) {
	batch := l.source.Read(ctx)
	if len(batch) == 0 {
		return
	}
	l.log.Debug("processing events", "count", len(batch))

	for _, ev := range batch {
		if ctx.Err() != nil {
			return
		}
		l.handler.HandleEvent(ctx, ev)
	}
}
