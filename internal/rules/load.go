package rules

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"groundhog/internal/model"
)

// Load reads a JSON array of rules from path. An empty path yields no rules.
func Load(path string) ([]model.Rule, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a JSON rule document.
func Parse(data []byte) ([]model.Rule, error) {
	var rules []model.Rule
	if err := json.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("decode rules: %w", err)
	}

	for i := range rules {
		r := &rules[i]
		r.Emoji = TrimEmoji(r.Emoji)
		r.Text = strings.TrimSpace(r.Text)
		if strings.TrimSpace(r.Trigger) == "" {
			return nil, fmt.Errorf("rule %d: trigger is required", i)
		}
		if r.Emoji == "" && r.Text == "" {
			return nil, fmt.Errorf("rule %d (%q): emoji or text is required", i, r.Trigger)
		}
	}
	return rules, nil
}

// TrimEmoji turns ":thumbsup:" into "thumbsup".
func TrimEmoji(name string) string {
	return strings.Trim(strings.TrimSpace(name), ":")
}
