// Package translate formats user visible messages for the current locale.
package translate

import (
	"log"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var tag language.Tag
var printer *message.Printer

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("putater: locale: %v", err)
	}

	tag, printer = newPrinter(locales)
}

// newPrinter selects a printer for the preferred locales, defaulting to en-US.
func newPrinter(locales []string) (language.Tag, *message.Printer) {
	if len(locales) == 0 {
		locales = []string{"en-US"}
	}

	matched := message.MatchLanguage(locales...)
	return matched, message.NewPrinter(matched)
}

// Language returns the language messages are formatted for.
func Language() language.Tag {
	return tag
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}
