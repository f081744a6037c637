// Package bot reacts to chat messages: it flags reposted links, answers
// commands addressed to the bot and applies the configured rules.
package bot

import (
	"context"
	"errors"
	"log/slog"

	"groundhog/internal/classify"
	"groundhog/internal/dispatch"
	"groundhog/internal/i18n"
	"groundhog/internal/metrics"
	"groundhog/internal/model"
	"groundhog/internal/rules"
	"groundhog/internal/storage"
)

// Dispatcher performs the side effects chosen for a message.
type Dispatcher interface {
	Dispatch(ctx context.Context, channel, ts string, a dispatch.Action)
}

// Options is the startup state the bot needs in addition to its
// collaborators. It is fixed for the life of the process.
type Options struct {
	BotUserID string
	BotID     string
	Reaction  string
	Rules     []model.Rule
	Texts     *i18n.Printer
}

// Bot holds everything needed to handle one event.
type Bot struct {
	botUserID  string
	botID      string
	reaction   string
	rules      []model.Rule
	texts      *i18n.Printer
	store      storage.Storage
	dispatcher Dispatcher
	commands   []command
	log        *slog.Logger
}

// New creates a Bot.
func New(opts Options, store storage.Storage, d Dispatcher, log *slog.Logger) *Bot {
	texts := opts.Texts
	if texts == nil {
		texts = i18n.New("en")
	}
	b := &Bot{
		botUserID:  opts.BotUserID,
		botID:      opts.BotID,
		reaction:   rules.TrimEmoji(opts.Reaction),
		rules:      opts.Rules,
		texts:      texts,
		store:      store,
		dispatcher: d,
		log:        log,
	}
	b.commands = b.commandTable()
	return b
}

// HandleEvent runs the duplicate-link, command and rule checks for ev. The
// checks are independent: each decides and dispatches on its own, and a
// failure in one does not stop the others.
func (b *Bot) HandleEvent(ctx context.Context, ev model.Event) {
	if !classify.Eligible(ev, b.botUserID, b.botID) {
		metrics.EventsTotal.WithLabelValues("ignored").Inc()
		return
	}
	metrics.EventsTotal.WithLabelValues("eligible").Inc()
	b.log.Debug("message", "channel", ev.Channel, "user", ev.User, "ts", ev.TS)

	b.checkDuplicate(ctx, ev)
	b.checkCommand(ctx, ev)
	b.checkRules(ctx, ev)
}

func (b *Bot) checkDuplicate(ctx context.Context, ev model.Event) {
	url, ok := classify.ExtractURL(ev.Text)
	if !ok {
		return
	}

	dup, found, err := classify.CheckDuplicate(ctx, b.store, ev, url)
	if err != nil {
		b.drop("duplicate check", err, "url", url, "channel", ev.Channel)
		return
	}
	if !found {
		metrics.URLsRecorded.Inc()
		b.log.Debug("url recorded", "url", url, "user", ev.User, "channel", ev.Channel)
		return
	}

	metrics.DuplicatesTotal.Inc()
	b.log.Info("duplicate url",
		"url", url,
		"offender", dup.Offender,
		"original_poster", dup.OriginalPoster,
		"original_channel", dup.OriginalChannel,
		"minutes", dup.ElapsedMinutes,
	)
	b.dispatcher.Dispatch(ctx, ev.Channel, ev.TS, dispatch.Action{
		Emoji: b.reaction,
		Text:  FormatDuplicate(b.texts, dup),
	})
}

func (b *Bot) checkCommand(ctx context.Context, ev model.Event) {
	text, ok := classify.MentionCommand(ev.Text, b.botUserID)
	if !ok {
		return
	}
	reply := b.runCommand(ctx, ev, text)
	b.dispatcher.Dispatch(ctx, ev.Channel, ev.TS, dispatch.Action{Text: reply})
}

func (b *Bot) checkRules(ctx context.Context, ev model.Event) {
	if len(b.rules) == 0 {
		return
	}

	var sender string
	if rules.NeedsSender(b.rules) {
		name, err := b.store.LookupMember(ctx, ev.User)
		if err != nil {
			// Open rules can still fire; restricted ones cannot match "".
			b.drop("resolve sender", err, "user", ev.User)
		}
		sender = name
	}

	for _, r := range classify.MatchRules(b.rules, ev, sender) {
		metrics.RulesFired.WithLabelValues(r.Trigger).Inc()
		b.log.Info("rule fired", "trigger", r.Trigger, "user", ev.User, "channel", ev.Channel)
		b.dispatcher.Dispatch(ctx, ev.Channel, ev.TS, dispatch.Action{Emoji: r.Emoji, Text: r.Text})
	}
}

// drop logs an action that will not be performed.
func (b *Bot) drop(what string, err error, args ...any) {
	args = append(args, "error", err)
	if errors.Is(err, storage.ErrUnknownEntity) {
		metrics.DroppedActions.WithLabelValues("unknown_entity").Inc()
		b.log.Warn(what+": action dropped", args...)
		return
	}
	metrics.DroppedActions.WithLabelValues("store_error").Inc()
	b.log.Error(what, args...)
}
