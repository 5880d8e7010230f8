package presentation

import (
	"fmt"
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultLocale is the display locale of the dashboard.
const DefaultLocale = "fr-FR"

var frenchMonths = [...]string{ //nolint:gochecknoglobals // lookup table
	"janvier", "février", "mars", "avril", "mai", "juin",
	"juillet", "août", "septembre", "octobre", "novembre", "décembre",
}

// dateLayouts are tried in order when parsing API dates.
var dateLayouts = []string{ //nolint:gochecknoglobals // lookup table
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Locale formats dates and numbers for one language. French gets French
// month names and day-first dates; every other language uses English forms.
type Locale struct {
	tag     language.Tag
	printer *message.Printer
	french  bool
}

// NewLocale parses a BCP 47 tag such as "fr-FR".
func NewLocale(tag string) (*Locale, error) {
	t, err := language.Parse(tag)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrLocale, tag, err)
	}
	base, _ := t.Base()
	return &Locale{
		tag:     t,
		printer: message.NewPrinter(t),
		french:  base.String() == "fr",
	}, nil
}

// Lang is the base language for the html lang attribute.
func (l *Locale) Lang() string {
	base, _ := l.tag.Base()
	return base.String()
}

// Number formats n with the locale's digit grouping.
func (l *Locale) Number(n int) string {
	return l.printer.Sprintf("%d", n)
}

// DateLong renders "26 juillet 2024" (fr) or "July 26, 2024". Unparseable
// input is returned unchanged.
func (l *Locale) DateLong(raw string) string {
	t, ok := parseDate(raw)
	if !ok {
		return raw
	}
	if l.french {
		return strconv.Itoa(t.Day()) + " " + frenchMonths[t.Month()-1] + " " + strconv.Itoa(t.Year())
	}
	return t.Format("January 2, 2006")
}

// DateShort renders "26/07/2024" (fr) or "07/26/2024".
func (l *Locale) DateShort(raw string) string {
	t, ok := parseDate(raw)
	if !ok {
		return raw
	}
	if l.french {
		return t.Format("02/01/2006")
	}
	return t.Format("01/02/2006")
}

func parseDate(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
