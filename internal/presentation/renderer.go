// Package presentation renders screen frames to HTML.
//
// Components are stateless html/template definitions embedded in the binary:
// a layout with navbar and footer, a loading indicator, an error banner with
// an optional retry form, pagination controls and one content template per
// screen. Nothing here performs I/O besides writing the response.
package presentation

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
)

// Screen templates, one per routed screen.
const (
	TemplateHome        = "home"
	TemplateCountries   = "countries"
	TemplateCountry     = "country"
	TemplateGames       = "games"
	TemplateGame        = "game"
	TemplateAthletes    = "athletes"
	TemplateAthlete     = "athlete"
	TemplatePredictions = "predictions"
	TemplateMedals      = "medals"
)

var screenTemplates = []string{ //nolint:gochecknoglobals // template registry
	TemplateHome,
	TemplateCountries,
	TemplateCountry,
	TemplateGames,
	TemplateGame,
	TemplateAthletes,
	TemplateAthlete,
	TemplatePredictions,
	TemplateMedals,
}

// Renderer executes the embedded templates.
type Renderer struct {
	locale *Locale
	pages  map[string]*template.Template
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLocale sets the display locale; DefaultLocale otherwise.
func WithLocale(l *Locale) Option {
	return func(r *Renderer) {
		if l != nil {
			r.locale = l
		}
	}
}

// NewRenderer parses every template.
func NewRenderer(opts ...Option) (*Renderer, error) {
	const op = "presentation.NewRenderer"

	r := &Renderer{pages: make(map[string]*template.Template, len(screenTemplates))}
	for _, opt := range opts {
		opt(r)
	}
	if r.locale == nil {
		l, err := NewLocale(DefaultLocale)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		r.locale = l
	}

	base, err := template.New("base").
		Funcs(r.funcs()).
		ParseFS(templatesFS, "templates/layout.html", "templates/components.html")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, name := range screenTemplates {
		t, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", op, name, err)
		}
		if _, err := t.ParseFS(templatesFS, "templates/"+name+".html"); err != nil {
			return nil, fmt.Errorf("%s: %s: %w", op, name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Locale returns the display locale.
func (r *Renderer) Locale() *Locale { return r.locale }

// Render writes the page for screen template name. Output is buffered so a
// failing template writes nothing.
func (r *Renderer) Render(w io.Writer, name string, p Page) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTemplate, name)
	}
	if p.Lang == "" {
		p.Lang = r.locale.Lang()
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", p); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrRender, name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

func (r *Renderer) funcs() template.FuncMap {
	return template.FuncMap{
		"confidence":  ConfidencePercent,
		"medalLabel":  MedalLabel,
		"medalClass":  MedalClass,
		"seasonLabel": SeasonLabel,
		"seasonClass": SeasonClass,
		"rank":        Rank,
		"orNA":        OrNA,
		"num":         r.locale.Number,
		"dateLong":    r.locale.DateLong,
		"dateShort":   r.locale.DateShort,
		"banner":      func(msg, action string) Banner { return Banner{Message: msg, Action: action} },
		"add":         func(a, b int) int { return a + b },
	}
}
