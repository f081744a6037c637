// Package classify holds the per-event decisions: is the message eligible,
// does it repeat a known link, is it a command for the bot, and which rules
// does it trigger. Every function inspects one immutable event and has no
// side effects beyond the seen-URL insert in CheckDuplicate.
package classify

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"groundhog/internal/model"
	"groundhog/internal/rules"
)

var (
	// Slack wraps links as <url> or <url|label>.
	urlPattern     = regexp.MustCompile(`https?://[^\s<>|]+`)
	mentionPattern = regexp.MustCompile(`(?s)^<@([WU][A-Z0-9]+)>(.*)`)
)

// Store is the part of the persistent store the duplicate check needs.
type Store interface {
	GetSeenURL(ctx context.Context, url string) (model.SeenURL, bool, error)
	InsertSeenURL(ctx context.Context, u model.SeenURL) (bool, error)
	LookupMember(ctx context.Context, id string) (string, error)
	LookupChannel(ctx context.Context, id string) (string, error)
}

// Duplicate describes a repost of an already recorded URL.
type Duplicate struct {
	Offender        string
	OriginalPoster  string
	OriginalChannel string
	ElapsedMinutes  int
	URL             string
}

// Eligible reports whether ev is a plain user message the listener should
// look at. System subtypes and the bot's own messages are skipped.
func Eligible(ev model.Event, botUserID, botID string) bool {
	if ev.Type != model.EventTypeMessage || ev.SubType != "" {
		return false
	}
	if ev.BotID != "" && ev.BotID == botID {
		return false
	}
	if ev.User == "" || ev.User == botUserID {
		return false
	}
	return strings.TrimSpace(ev.Text) != ""
}

// ExtractURL returns the first http(s) URL in text.
func ExtractURL(text string) (string, bool) {
	u := urlPattern.FindString(text)
	return u, u != ""
}

// CheckDuplicate looks url up in the seen table. A first sighting is recorded
// and reported as not a duplicate. A repost resolves the original poster and
// channel names; an id missing from the snapshot surfaces as
// storage.ErrUnknownEntity.
func CheckDuplicate(ctx context.Context, store Store, ev model.Event, url string) (Duplicate, bool, error) {
	first, found, err := store.GetSeenURL(ctx, url)
	if err != nil {
		return Duplicate{}, false, err
	}
	if !found {
		_, err := store.InsertSeenURL(ctx, model.SeenURL{URL: url, TS: ev.TS, User: ev.User, Channel: ev.Channel})
		return Duplicate{}, false, err
	}

	elapsed, err := ElapsedMinutes(first.TS, ev.TS)
	if err != nil {
		return Duplicate{}, false, err
	}
	who, err := store.LookupMember(ctx, first.User)
	if err != nil {
		return Duplicate{}, false, fmt.Errorf("resolve original poster: %w", err)
	}
	where, err := store.LookupChannel(ctx, first.Channel)
	if err != nil {
		return Duplicate{}, false, fmt.Errorf("resolve original channel: %w", err)
	}

	return Duplicate{
		Offender:        ev.User,
		OriginalPoster:  who,
		OriginalChannel: where,
		ElapsedMinutes:  elapsed,
		URL:             url,
	}, true, nil
}

// ElapsedMinutes returns floor((now-first)/60) for two platform timestamps.
// A repost stamped before the original counts as zero minutes.
func ElapsedMinutes(first, now string) (int, error) {
	from, err := model.ParseTS(first)
	if err != nil {
		return 0, err
	}
	to, err := model.ParseTS(now)
	if err != nil {
		return 0, err
	}
	if to < from {
		return 0, nil
	}
	return int((to - from) / (60 * 1_000_000)), nil
}

// ParseMention splits a message that starts with a user mention into the
// mentioned id and the trimmed remainder.
func ParseMention(text string) (userID, rest string, ok bool) {
	m := mentionPattern.FindStringSubmatch(text)
	if m == nil {
		return "", "", false
	}
	return m[1], strings.TrimSpace(m[2]), true
}

// MentionCommand returns the command text when the message opens with a
// direct mention of botUserID.
func MentionCommand(text, botUserID string) (string, bool) {
	id, rest, ok := ParseMention(text)
	if !ok || botUserID == "" || id != botUserID {
		return "", false
	}
	return rest, true
}

// MatchRules returns all rules that fire for ev. senderName may be empty when
// no rule restricts senders or the sender could not be resolved.
func MatchRules(set []model.Rule, ev model.Event, senderName string) []model.Rule {
	return rules.Match(set, ev.Text, senderName)
}
