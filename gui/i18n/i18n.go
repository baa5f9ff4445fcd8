// Package i18n translates user-facing strings. Source strings are English
// and double as catalog keys.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

var supported = []language.Tag{language.English, language.Czech, language.German}

var (
	matcher = language.NewMatcher(supported)
	cat     = catalog.NewBuilder(catalog.Fallback(language.English))
)

func init() {
	for tag, msgs := range translations {
		for key, msg := range msgs {
			if err := cat.SetString(tag, key, msg); err != nil {
				panic(err)
			}
		}
	}
}

// Translator resolves strings for one language.
type Translator struct {
	tag language.Tag
	p   *message.Printer
}

// New returns a translator for the closest supported match of lang.
// Unparsable tags fall back to English.
func New(lang string) *Translator {
	tag := Match(lang)
	return &Translator{tag: tag, p: message.NewPrinter(tag, message.Catalog(cat))}
}

// Match returns the supported tag closest to lang.
func Match(lang string) language.Tag {
	want, err := language.Parse(lang)
	if err != nil {
		return language.English
	}
	_, idx, conf := matcher.Match(want)
	if conf == language.No {
		return language.English
	}
	return supported[idx]
}

// Supported lists the languages with a catalog.
func Supported() []language.Tag { return supported }

// Tag returns the translator's language.
func (t *Translator) Tag() language.Tag { return t.tag }

// Code returns the base language code, e.g. "cs".
func (t *Translator) Code() string {
	base, _ := t.tag.Base()
	return base.String()
}

// Tr translates s. Strings without a translation come back unchanged.
func (t *Translator) Tr(s string) string {
	if t == nil || s == "" {
		return s
	}
	return t.p.Sprintf(s)
}
