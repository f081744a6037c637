// Package rules loads the trigger→reaction rule set and matches events against it.
package rules

import (
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"groundhog/internal/model"
)

// Match returns every rule that fires for a message, in declaration order.
// Matching never stops at the first hit: each matching rule yields its own
// reaction and reply.
//
// A rule fires when its trigger occurs in text, compared with Unicode case
// folding, and its user list is either empty or contains senderName.
func Match(rules []model.Rule, text, senderName string) []model.Rule {
	if len(rules) == 0 {
		return nil
	}

	folded := fold(text)
	var matched []model.Rule
	for _, r := range rules {
		if matchesRule(r, folded, senderName) {
			matched = append(matched, r)
		}
	}
	return matched
}

// NeedsSender reports whether any rule restricts its senders, i.e. whether
// the caller has to resolve the sender's display name before matching.
func NeedsSender(rules []model.Rule) bool {
	return slices.ContainsFunc(rules, model.Rule.NeedsSender)
}

func matchesRule(r model.Rule, foldedText, senderName string) bool {
	if !strings.Contains(foldedText, fold(r.Trigger)) {
		return false
	}
	if !r.NeedsSender() {
		return true
	}
	if senderName == "" {
		return false
	}
	return slices.Contains(r.Users, senderName)
}

func fold(s string) string {
	return cases.Fold().String(s)
}
