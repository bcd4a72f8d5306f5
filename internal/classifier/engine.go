package classifier

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// SearchEngine selects which query template a free-text query is sent to.
type SearchEngine int

const (
	// EngineGeneral is the general web search engine.
	EngineGeneral SearchEngine = iota
	// EngineVideo is the video search engine.
	EngineVideo
)

const (
	engineGeneralName = "general"
	engineVideoName   = "video"
)

// String returns the configuration name of the engine.
func (e SearchEngine) String() string {
	switch e {
	case EngineVideo:
		return engineVideoName
	default:
		return engineGeneralName
	}
}

// ParseSearchEngine maps a configuration name to an engine. An empty name
// yields EngineGeneral.
func ParseSearchEngine(name string) (SearchEngine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", engineGeneralName:
		return EngineGeneral, nil
	case engineVideoName:
		return EngineVideo, nil
	default:
		return EngineGeneral, fmt.Errorf("unknown search engine %q", name)
	}
}

// Engines lists every supported engine in display order.
func Engines() []SearchEngine {
	return []SearchEngine{EngineGeneral, EngineVideo}
}

// Template is a base URL plus the query parameter that carries the search text.
type Template struct {
	BaseURL string `yaml:"base_url"`
	Param   string `yaml:"param"`
}

// Templates holds one query template per engine.
type Templates struct {
	General Template `yaml:"general"`
	Video   Template `yaml:"video"`
}

// DefaultTemplates returns the Google and YouTube templates.
func DefaultTemplates() Templates {
	return Templates{
		General: Template{BaseURL: "https://www.google.com/search", Param: "q"},
		Video:   Template{BaseURL: "https://www.youtube.com/results", Param: "search_query"},
	}
}

// For returns the template of the given engine.
func (t Templates) For(engine SearchEngine) Template {
	if engine == EngineVideo {
		return t.Video
	}
	return t.General
}

type templatesFile struct {
	Engines Templates `yaml:"engines"`
}

// LoadTemplates reads engine templates from a YAML file of the form
//
//	engines:
//	  general: {base_url: https://duckduckgo.com/, param: q}
//	  video:   {base_url: https://www.youtube.com/results, param: search_query}
//
// Engines missing from the file keep their default template.
func LoadTemplates(path string) (Templates, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Templates{}, fmt.Errorf("read search engines file: %w", err)
	}
	return ParseTemplates(raw)
}

// ParseTemplates decodes YAML engine templates over the defaults.
func ParseTemplates(raw []byte) (Templates, error) {
	var file templatesFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return Templates{}, fmt.Errorf("decode search engines file: %w", err)
	}

	templates := DefaultTemplates()
	if file.Engines.General != (Template{}) {
		templates.General = file.Engines.General
	}
	if file.Engines.Video != (Template{}) {
		templates.Video = file.Engines.Video
	}

	for _, engine := range Engines() {
		if err := templates.For(engine).validate(); err != nil {
			return Templates{}, fmt.Errorf("engine %s: %w", engine, err)
		}
	}
	return templates, nil
}

func (t Template) validate() error {
	if strings.TrimSpace(t.Param) == "" {
		return fmt.Errorf("param is required")
	}
	parsed, err := url.Parse(t.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("base_url must be an absolute http(s) URL")
	}
	if parsed.Host == "" {
		return fmt.Errorf("base_url must include a host")
	}
	// Generated search URLs must reclassify as direct URLs.
	if !looksLikeURL(t.queryURL("x")) {
		return fmt.Errorf("base_url %q is not recognized as a web address", t.BaseURL)
	}
	return nil
}

func (t Template) queryURL(encoded string) string {
	sep := "?"
	if strings.Contains(t.BaseURL, "?") {
		sep = "&"
	}
	return t.BaseURL + sep + t.Param + "=" + encoded
}
