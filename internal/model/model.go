// Package model defines the domain types shared by the listener components.
package model

import (
	"fmt"
	"strconv"
	"strings"
)

// EventTypeMessage is the only inbound event type the listener acts on.
const EventTypeMessage = "message"

// Event is one inbound message event as delivered by the chat platform.
// It is treated as immutable once read from the event source.
type Event struct {
	Type    string
	SubType string
	User    string
	BotID   string
	Channel string
	Text    string
	TS      string
}

// Micros returns the event timestamp in Unix microseconds.
func (e Event) Micros() (int64, error) {
	return ParseTS(e.TS)
}

// ParseTS parses a platform timestamp such as "1700000000.000200" into Unix
// microseconds. Integer arithmetic keeps whole-minute gaps exact.
func ParseTS(ts string) (int64, error) {
	sec, frac, _ := strings.Cut(ts, ".")
	s, err := strconv.ParseInt(sec, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse timestamp %q: %w", ts, err)
	}
	if len(frac) > 6 {
		frac = frac[:6]
	}
	var us int64
	if frac != "" {
		us, err = strconv.ParseInt(frac+strings.Repeat("0", 6-len(frac)), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("parse timestamp %q: %w", ts, err)
		}
	}
	return s*1_000_000 + us, nil
}

// SeenURL records the first sighting of a URL. Rows are never updated.
type SeenURL struct {
	URL     string
	TS      string
	User    string
	Channel string
}

// Member is a workspace user from the startup snapshot.
type Member struct {
	ID   string
	Name string
}

// Channel is a workspace channel from the startup snapshot.
type Channel struct {
	ID   string
	Name string
}

// Rule is a configured trigger plus the reaction and reply it produces.
type Rule struct {
	Trigger string   `json:"trigger"`
	Users   []string `json:"user_trigger"`
	Emoji   string   `json:"emoji"`
	Text    string   `json:"text"`
}

// NeedsSender reports whether matching the rule requires the sender's name.
func (r Rule) NeedsSender() bool {
	return len(r.Users) > 0
}
