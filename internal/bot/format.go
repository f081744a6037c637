package bot

import (
	"fmt"
	"strings"

	"groundhog/internal/classify"
	"groundhog/internal/i18n"
	"groundhog/internal/model"
)

// FormatDuplicate renders the notice posted under a reposted link.
func FormatDuplicate(texts *i18n.Printer, d classify.Duplicate) string {
	return texts.Sprintf(i18n.KeyDuplicate, d.URL, d.OriginalPoster, d.OriginalChannel, d.ElapsedMinutes)
}

// FormatHelp lists the available commands.
func FormatHelp(texts *i18n.Printer, commands []command) string {
	usages := make([]string, len(commands))
	for i, c := range commands {
		usages[i] = "`" + c.usage + "`"
	}
	return texts.Sprintf(i18n.KeyHelp, strings.Join(usages, ", "))
}

// FormatRules lists the loaded rules, one per line.
func FormatRules(texts *i18n.Printer, rules []model.Rule) string {
	if len(rules) == 0 {
		return texts.Sprintf(i18n.KeyNoRules)
	}
	var b strings.Builder
	for _, r := range rules {
		fmt.Fprintf(&b, "\n• %q", r.Trigger)
		if r.Emoji != "" {
			fmt.Fprintf(&b, " :%s:", r.Emoji)
		}
		if len(r.Users) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(r.Users, ", "))
		}
	}
	return texts.Sprintf(i18n.KeyRules, b.String())
}
