package bot

import "strings"

// matchCommand picks the first command whose name prefixes text and returns
// the remaining arguments.
func matchCommand(commands []command, text string) (command, string, bool) {
	for _, c := range commands {
		if strings.HasPrefix(text, c.name) {
			return c, strings.TrimSpace(text[len(c.name):]), true
		}
	}
	return command{}, "", false
}
