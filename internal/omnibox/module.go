package omnibox

import (
	"fmt"

	"omnibox_backend/internal/classifier"
	"omnibox_backend/internal/events"
	"omnibox_backend/internal/history"
	apphttp "omnibox_backend/internal/http"
	"omnibox_backend/internal/omnibox/handler"
	"omnibox_backend/internal/omnibox/service"
	"omnibox_backend/platform/config"
	"omnibox_backend/platform/logger"
	"omnibox_backend/platform/validator"
)

// Module wires the omnibox classification HTTP routes.
type Module struct {
	handler *handler.Handler
}

// NewModule builds the classifier from cfg and wires the service and handler.
func NewModule(cfg config.SearchConfig, bus events.Bus, store history.Store, val *validator.Validator, log *logger.Logger) (*Module, error) {
	cls, defaultEngine, err := NewClassifier(cfg)
	if err != nil {
		return nil, err
	}

	svc := service.New(cls, defaultEngine, cfg.GetMaxInputLength(), bus, store, log)
	return &Module{handler: handler.New(svc, val)}, nil
}

// NewClassifier builds a classifier and default engine from configuration.
// It is shared by the API server and the CLI.
func NewClassifier(cfg config.SearchConfig) (*classifier.Classifier, classifier.SearchEngine, error) {
	templates := classifier.DefaultTemplates()
	if path := cfg.GetSearchEnginesFile(); path != "" {
		loaded, err := classifier.LoadTemplates(path)
		if err != nil {
			return nil, 0, err
		}
		templates = loaded
	}

	escaping, ok := classifier.ParseEscaping(cfg.GetQueryEscaping())
	if !ok {
		return nil, 0, fmt.Errorf("unknown query escaping %q", cfg.GetQueryEscaping())
	}

	defaultEngine, err := classifier.ParseSearchEngine(cfg.GetDefaultSearchEngine())
	if err != nil {
		return nil, 0, err
	}

	cls := classifier.New(classifier.Options{
		Templates:   templates,
		Escaping:    escaping,
		PhoneRegion: cfg.GetPhoneDefaultRegion(),
	})
	return cls, defaultEngine, nil
}

func (m *Module) Name() string {
	return "omnibox"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1)
}

var _ apphttp.Module = (*Module)(nil)
