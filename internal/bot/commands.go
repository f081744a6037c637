package bot

import (
	"context"
	"errors"

	"groundhog/internal/classify"
	"groundhog/internal/i18n"
	"groundhog/internal/metrics"
	"groundhog/internal/model"
	"groundhog/internal/storage"
)

const cmdHelp = "help"

type command struct {
	name  string
	usage string
	run   func(ctx context.Context, ev model.Event, args string) string
}

// commandTable lists the commands in match order.
func (b *Bot) commandTable() []command {
	return []command{
		{name: "do", usage: "do", run: b.cmdDo},
		{name: cmdHelp, usage: "help", run: b.cmdHelp},
		{name: "stats", usage: "stats", run: b.cmdStats},
		{name: "seen", usage: "seen <url>", run: b.cmdSeen},
		{name: "rules", usage: "rules", run: b.cmdRules},
	}
}

func (b *Bot) runCommand(ctx context.Context, ev model.Event, text string) string {
	cmd, args, ok := matchCommand(b.commands, text)
	if !ok {
		metrics.CommandsTotal.WithLabelValues("unknown").Inc()
		b.log.Debug("unknown command", "text", text, "channel", ev.Channel)
		return b.texts.Sprintf(i18n.KeyUnknown, cmdHelp)
	}
	metrics.CommandsTotal.WithLabelValues(cmd.name).Inc()
	b.log.Debug("command", "cmd", cmd.name, "args", args, "channel", ev.Channel)
	return cmd.run(ctx, ev, args)
}

func (b *Bot) cmdDo(_ context.Context, _ model.Event, _ string) string {
	return b.texts.Sprintf(i18n.KeyDo)
}

func (b *Bot) cmdHelp(_ context.Context, _ model.Event, _ string) string {
	return FormatHelp(b.texts, b.commands)
}

func (b *Bot) cmdStats(ctx context.Context, _ model.Event, _ string) string {
	n, err := b.store.CountSeenURLs(ctx)
	if err != nil {
		b.log.Error("count seen urls", "error", err)
		n = 0
	}
	return b.texts.Sprintf(i18n.KeyStats, n)
}

func (b *Bot) cmdSeen(ctx context.Context, ev model.Event, args string) string {
	url, ok := classify.ExtractURL(args)
	if !ok {
		return b.texts.Sprintf(i18n.KeySeenUsage)
	}

	first, found, err := b.store.GetSeenURL(ctx, url)
	if err != nil {
		b.log.Error("query seen url", "url", url, "error", err)
		found = false
	}
	if !found {
		return b.texts.Sprintf(i18n.KeyNotSeen, url)
	}

	elapsed, err := classify.ElapsedMinutes(first.TS, ev.TS)
	if err != nil {
		b.log.Warn("elapsed minutes", "url", url, "error", err)
	}
	who := b.nameOr(ctx, b.store.LookupMember, first.User)
	where := b.nameOr(ctx, b.store.LookupChannel, first.Channel)
	return b.texts.Sprintf(i18n.KeySeen, url, who, where, elapsed)
}

func (b *Bot) cmdRules(_ context.Context, _ model.Event, _ string) string {
	return FormatRules(b.texts, b.rules)
}

// nameOr resolves id, answering with the raw id when the snapshot lacks it.
func (b *Bot) nameOr(ctx context.Context, lookup func(context.Context, string) (string, error), id string) string {
	name, err := lookup(ctx, id)
	if err != nil {
		if !errors.Is(err, storage.ErrUnknownEntity) {
			b.log.Error("lookup name", "id", id, "error", err)
		}
		return id
	}
	return name
}
