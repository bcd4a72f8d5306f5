// Package classifier decides what a single line of omnibox input refers to:
// a phone number to dial, an email address to write to, or a web target to
// open. Classification is total: any non-empty input yields exactly one
// Result, and input that is neither a phone number, an email address nor a
// URL becomes a search query.
//
// Checks run in a fixed order, first match wins: phone, email, web.
package classifier

import (
	"net/url"
	"strings"

	"omnibox_backend/platform/phone"
)

const minPhoneDigits = 10

// Kind identifies the variant of a Result.
type Kind string

const (
	KindPhone Kind = "phone"
	KindEmail Kind = "email"
	KindWeb   Kind = "web"
)

// Result is the outcome of a classification. It is one of Phone, Email or
// WebTarget.
type Result interface {
	// Kind reports which variant the result is.
	Kind() Kind
	// Target returns the canonical hand-off URI (tel:, mailto: or the URL).
	Target() string

	sealed()
}

// Phone is a dialable number reduced to digits and '+'.
type Phone struct {
	Digits string
	// E164 is set when the number is valid for the configured region.
	E164 string
}

func (Phone) Kind() Kind       { return KindPhone }
func (p Phone) Target() string { return "tel:" + p.Digits }
func (Phone) sealed()          {}

// Email carries the address exactly as entered.
type Email struct {
	Address string
}

func (Email) Kind() Kind       { return KindEmail }
func (e Email) Target() string { return "mailto:" + e.Address }
func (Email) sealed()          {}

// WebTarget is an absolute URL. WasDirectURL is false when the URL was
// synthesized from a search query.
type WebTarget struct {
	URL          string
	WasDirectURL bool
}

func (WebTarget) Kind() Kind       { return KindWeb }
func (w WebTarget) Target() string { return w.URL }
func (WebTarget) sealed()          {}

// Escaping controls how query text is encoded into a search URL.
type Escaping int

const (
	// EscapeSpaces only replaces spaces with '+'. Other reserved characters
	// pass through untouched, matching the behaviour users already rely on.
	EscapeSpaces Escaping = iota
	// EscapeQuery percent-encodes the query as a URL query component.
	EscapeQuery
)

// ParseEscaping maps "spaces" or "query" to an Escaping mode.
func ParseEscaping(name string) (Escaping, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "spaces":
		return EscapeSpaces, true
	case "query":
		return EscapeQuery, true
	default:
		return EscapeSpaces, false
	}
}

// Options configures a Classifier. Zero values select the defaults.
type Options struct {
	Templates Templates
	Escaping  Escaping
	// PhoneRegion is the default country used to compute Phone.E164.
	// Empty disables E.164 enrichment.
	PhoneRegion string
}

// Classifier is immutable once built and safe for concurrent use.
type Classifier struct {
	templates   Templates
	escaping    Escaping
	phoneRegion string
}

// New builds a Classifier from opts.
func New(opts Options) *Classifier {
	templates := opts.Templates
	defaults := DefaultTemplates()
	if templates.General == (Template{}) {
		templates.General = defaults.General
	}
	if templates.Video == (Template{}) {
		templates.Video = defaults.Video
	}

	return &Classifier{
		templates:   templates,
		escaping:    opts.Escaping,
		phoneRegion: opts.PhoneRegion,
	}
}

var defaultClassifier = New(Options{})

// Classify classifies input with the default templates and space-only escaping.
func Classify(input string, engine SearchEngine) Result {
	return defaultClassifier.Classify(input, engine)
}

// BuildQueryURL builds a search URL with the default templates.
func BuildQueryURL(query string, engine SearchEngine) string {
	return defaultClassifier.BuildQueryURL(query, engine)
}

// Templates returns the templates the classifier was built with.
func (c *Classifier) Templates() Templates {
	return c.templates
}

// Classify maps trimmed, non-empty input to a Result. It never fails.
func (c *Classifier) Classify(input string, engine SearchEngine) Result {
	if looksLikePhone(input) {
		p := Phone{Digits: NormalizePhone(input)}
		if c.phoneRegion != "" {
			if formatted, ok := phone.FormatE164(input, c.phoneRegion); ok {
				p.E164 = formatted
			}
		}
		return p
	}

	if looksLikeEmail(input) {
		return Email{Address: input}
	}

	if looksLikeURL(input) {
		return WebTarget{URL: withScheme(input), WasDirectURL: true}
	}

	return WebTarget{URL: c.BuildQueryURL(input, engine), WasDirectURL: false}
}

// NormalizePhone keeps only digits and '+', preserving their order.
func NormalizePhone(input string) string {
	return nonDialSymbol.ReplaceAllString(input, "")
}

// BuildQueryURL appends query to the engine's template as its search parameter.
func (c *Classifier) BuildQueryURL(query string, engine SearchEngine) string {
	tmpl := c.templates.For(engine)

	var encoded string
	switch c.escaping {
	case EscapeQuery:
		encoded = url.QueryEscape(query)
	default:
		encoded = strings.ReplaceAll(query, " ", "+")
	}

	return tmpl.queryURL(encoded)
}

// withScheme prefixes https:// unless the URL already names http or https.
func withScheme(raw string) string {
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return raw
	}
	return "https://" + raw
}
