package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"omnibox_backend/internal/classifier"
	"omnibox_backend/internal/events"
	"omnibox_backend/internal/history"
	"omnibox_backend/internal/omnibox/transport"
	"omnibox_backend/platform/apperr"
	"omnibox_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
)

const (
	defaultQRSize       = 256
	defaultHistoryLimit = 20
)

type Service struct {
	classifier     *classifier.Classifier
	defaultEngine  classifier.SearchEngine
	maxInputLength int
	bus            events.Bus
	history        history.Store
	log            *logger.Logger
}

func New(
	cls *classifier.Classifier,
	defaultEngine classifier.SearchEngine,
	maxInputLength int,
	bus events.Bus,
	store history.Store,
	log *logger.Logger,
) *Service {
	if store == nil {
		store = history.NopStore{}
	}
	return &Service{
		classifier:     cls,
		defaultEngine:  defaultEngine,
		maxInputLength: maxInputLength,
		bus:            bus,
		history:        store,
		log:            log,
	}
}

// Classify validates the host preconditions, classifies the input and
// publishes an InputClassified event.
func (s *Service) Classify(ctx context.Context, clientID string, req transport.ClassifyRequest) (*transport.ClassifyResponse, error) {
	input, resp, err := s.classify(req)
	if err != nil {
		return nil, err
	}

	wasDirectURL := resp.WasDirectURL != nil && *resp.WasDirectURL
	s.log.WithContext(ctx).Classified(resp.Kind, wasDirectURL, resp.Engine, input)
	if s.bus != nil {
		s.bus.Publish(ctx, events.InputClassified{
			BaseEvent:    events.NewBaseEvent(),
			ID:           uuid.New(),
			ClientID:     clientID,
			Input:        input,
			Kind:         resp.Kind,
			Target:       resp.Target,
			Engine:       resp.Engine,
			WasDirectURL: wasDirectURL,
		})
	}

	return resp, nil
}

// classify applies the host preconditions and classifies without side effects.
func (s *Service) classify(req transport.ClassifyRequest) (string, *transport.ClassifyResponse, error) {
	input := strings.TrimSpace(req.Input)
	if input == "" {
		return "", nil, apperr.Validation("input cannot be empty").WithOp("omnibox.Classify")
	}
	if s.maxInputLength > 0 && utf8.RuneCountInString(input) > s.maxInputLength {
		return "", nil, apperr.Validation(fmt.Sprintf("input exceeds %d characters", s.maxInputLength)).
			WithOp("omnibox.Classify").
			WithDetails(map[string]int{"maxLength": s.maxInputLength})
	}

	engine, err := s.resolveEngine(req.Engine)
	if err != nil {
		return "", nil, err
	}

	result := s.classifier.Classify(input, engine)
	return input, transport.NewClassifyResponse(result, engine), nil
}

// QRCode renders the input's canonical target as a PNG QR code, so the target
// can be handed to another device. Rendering is not a classification by the
// user and is neither logged nor recorded in history.
func (s *Service) QRCode(req transport.QRCodeRequest) ([]byte, error) {
	_, resp, err := s.classify(req.ClassifyRequest)
	if err != nil {
		return nil, err
	}

	size := req.Size
	if size == 0 {
		size = defaultQRSize
	}

	png, err := qrcode.Encode(resp.Target, qrcode.Medium, size)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to render qr code", err).WithOp("omnibox.QRCode")
	}
	return png, nil
}

// Engines lists the configured search engine templates.
func (s *Service) Engines() transport.EnginesResponse {
	templates := s.classifier.Templates()
	items := make([]transport.EngineItem, 0, len(classifier.Engines()))
	for _, engine := range classifier.Engines() {
		tmpl := templates.For(engine)
		items = append(items, transport.EngineItem{
			Name:    engine.String(),
			BaseURL: tmpl.BaseURL,
			Param:   tmpl.Param,
			Default: engine == s.defaultEngine,
		})
	}
	return transport.EnginesResponse{Items: items}
}

// History returns the client's most recent classifications.
func (s *Service) History(ctx context.Context, clientID string, req transport.HistoryRequest) (*transport.HistoryResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	entries, err := s.history.Recent(ctx, clientID, limit)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnavailable, "history unavailable", err).WithOp("omnibox.History")
	}

	items := make([]transport.HistoryItem, len(entries))
	for i, e := range entries {
		items[i] = transport.HistoryItem{
			ID:           e.ID.String(),
			Input:        e.Input,
			Kind:         e.Kind,
			Target:       e.Target,
			Engine:       e.Engine,
			WasDirectURL: e.WasDirectURL,
			CreatedAt:    e.CreatedAt,
		}
	}
	return &transport.HistoryResponse{Items: items, Total: len(items)}, nil
}

func (s *Service) resolveEngine(name string) (classifier.SearchEngine, error) {
	if strings.TrimSpace(name) == "" {
		return s.defaultEngine, nil
	}
	engine, err := classifier.ParseSearchEngine(name)
	if err != nil {
		return 0, apperr.Validation(err.Error()).WithOp("omnibox.resolveEngine")
	}
	return engine, nil
}
