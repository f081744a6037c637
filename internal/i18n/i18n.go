// Package i18n holds the reply texts in every supported language.
package i18n

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys. The English text doubles as the key.
const (
	KeyDuplicate = "Hold on! Link %s was already posted by *%s* in *#%s* just *%s min.* ago."
	KeyDo        = "Sure...write some more code then I can do that!"
	KeyUnknown   = "Not sure what you mean. Try *%s*."
	KeyHelp      = "Commands: %s"
	KeyStats     = "I have seen %s distinct links so far."
	KeySeen      = "%s was first posted by *%s* in *#%s* %s min. ago."
	KeyNotSeen   = "I have not seen %s yet."
	KeySeenUsage = "Usage: *seen <url>*"
	KeyRules     = "Active rules: %s"
	KeyNoRules   = "No rules are configured."
)

var keys = []string{
	KeyDuplicate, KeyDo, KeyUnknown, KeyHelp, KeyStats,
	KeySeen, KeyNotSeen, KeySeenUsage, KeyRules, KeyNoRules,
}

var supported = []language.Tag{language.English, language.Polish}

var texts = map[language.Tag]map[string]string{
	language.Polish: {
		KeyDuplicate: "Człowieniu, ogarnij się! Masz Ty Rozum i Godność Człowieka? Link %s był już zapodany przez juzera *%s* na kanale *#%s* raptem *%s min.* temu.",
		KeyDo:        "Jasne... dopisz trochę kodu, to to zrobię!",
		KeyUnknown:   "Nie wiem, o co chodzi. Spróbuj *%s*.",
		KeyHelp:      "Komendy: %s",
		KeyStats:     "Do tej pory widziałem %s różnych linków.",
		KeySeen:      "%s pierwszy raz wrzucił(a) *%s* na kanale *#%s* %s min. temu.",
		KeyNotSeen:   "Nie widziałem jeszcze %s.",
		KeySeenUsage: "Użycie: *seen <url>*",
		KeyRules:     "Aktywne reguły: %s",
		KeyNoRules:   "Brak skonfigurowanych reguł.",
	},
}

var (
	cat     = buildCatalog()
	matcher = language.NewMatcher(supported)
)

func buildCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for _, key := range keys {
		_ = b.SetString(language.English, key, key)
	}
	for tag, m := range texts {
		for key, text := range m {
			_ = b.SetString(tag, key, text)
		}
	}
	return b
}

// Printer formats reply texts in one language.
type Printer struct {
	tag language.Tag
	p   *message.Printer
}

// New returns a Printer for the closest supported match of lang.
// Unknown selectors fall back to English.
func New(lang string) *Printer {
	tag, _ := language.MatchStrings(matcher, lang)
	base, _ := tag.Base()
	for _, t := range supported {
		if b, _ := t.Base(); b == base {
			tag = t
			break
		}
	}
	return &Printer{tag: tag, p: message.NewPrinter(tag, message.Catalog(cat))}
}

// Language returns the selected language tag.
func (p *Printer) Language() language.Tag {
	return p.tag
}

// Sprintf formats the message registered under key. Integers are rendered
// as plain digits; the printer would otherwise group them by locale.
func (p *Printer) Sprintf(key string, args ...any) string {
	plain := make([]any, len(args))
	for i, a := range args {
		if n, ok := a.(int); ok {
			a = strconv.Itoa(n)
		}
		plain[i] = a
	}
	return p.p.Sprintf(key, plain...)
}
