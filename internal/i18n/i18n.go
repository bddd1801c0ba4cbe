// Package i18n holds the French and Chinese interface strings.
package i18n

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"github.com/Thibisault/Intimacy-Coach/internal/content"
	"github.com/Thibisault/Intimacy-Coach/internal/plan"
)

// Lang is an interface language.
type Lang string

const (
	FR Lang = "fr"
	ZH Lang = "zh"
)

// ParseLang accepts "fr" and "zh" and any tag whose base is one of them.
func ParseLang(v string) (Lang, bool) {
	tag, err := language.Parse(v)
	if err != nil {
		return FR, false
	}
	base, _ := tag.Base()
	switch base.String() {
	case "fr":
		return FR, true
	case "zh":
		return ZH, true
	}
	return FR, false
}

// Tag returns the BCP 47 tag.
func (l Lang) Tag() language.Tag {
	if l == ZH {
		return language.Chinese
	}
	return language.French
}

// Toggle switches between French and Chinese.
func (l Lang) Toggle() Lang {
	if l == ZH {
		return FR
	}
	return ZH
}

var printers = buildPrinters()

func buildPrinters() map[Lang]*message.Printer {
	b := catalog.NewBuilder(catalog.Fallback(language.French))
	for key, fr := range messages[FR] {
		must(b.SetString(language.French, key, fr))
		zh, ok := messages[ZH][key]
		if !ok {
			zh = fr
		}
		must(b.SetString(language.Chinese, key, zh))
	}
	return map[Lang]*message.Printer{
		FR: message.NewPrinter(language.French, message.Catalog(b)),
		ZH: message.NewPrinter(language.Chinese, message.Catalog(b)),
	}
}

func must(err error) {
	if err != nil {
		panic(fmt.Sprintf("i18n: %v", err))
	}
}

// T formats the message key in l. Missing Chinese strings fall back to
// French; unknown keys are returned as is.
func T(l Lang, key string, args ...any) string {
	p, ok := printers[l]
	if !ok {
		p = printers[FR]
	}
	return p.Sprintf(key, args...)
}

// SegmentName is the display name of a segment's intensity.
func SegmentName(seg content.Segment, l Lang) string {
	names, ok := intensity[l]
	if !ok {
		names = intensity[FR]
	}
	if n, ok := names[seg]; ok {
		return n
	}
	return string(seg)
}

// ActorModeLabel names an actor rotation mode.
func ActorModeLabel(m plan.ActorMode, l Lang) string {
	return T(l, "mode_"+string(m))
}
