package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"omnibox_backend/internal/classifier"
	"omnibox_backend/internal/events"
	"omnibox_backend/internal/history"
	"omnibox_backend/internal/omnibox/transport"
	"omnibox_backend/platform/apperr"
	"omnibox_backend/platform/logger"
)

type failingStore struct {
	history.NopStore
}

func (failingStore) Recent(context.Context, string, int) ([]history.Entry, error) {
	return nil, errors.New("connection refused")
}

func newTestService(bus events.Bus, store history.Store) *Service {
	cls := classifier.New(classifier.Options{PhoneRegion: "US"})
	return New(cls, classifier.EngineGeneral, 64, bus, store, logger.Discard())
}

func TestClassifyBuildsResponsePerVariant(t *testing.T) {
	svc := newTestService(nil, nil)
	ctx := context.Background()

	phone, err := svc.Classify(ctx, "c", transport.ClassifyRequest{Input: " (650) 253-0000 "})
	if err != nil {
		t.Fatalf("phone: %v", err)
	}
	if phone.Kind != "phone" || phone.Digits != "6502530000" || phone.E164 != "+16502530000" || phone.Target != "tel:6502530000" {
		t.Fatalf("unexpected phone response: %#v", phone)
	}
	if phone.WasDirectURL != nil {
		t.Fatalf("phone responses carry no wasDirectUrl")
	}

	email, err := svc.Classify(ctx, "c", transport.ClassifyRequest{Input: "a.b@example.com"})
	if err != nil {
		t.Fatalf("email: %v", err)
	}
	if email.Kind != "email" || email.Address != "a.b@example.com" || email.Target != "mailto:a.b@example.com" {
		t.Fatalf("unexpected email response: %#v", email)
	}

	web, err := svc.Classify(ctx, "c", transport.ClassifyRequest{Input: "cat videos", Engine: "video"})
	if err != nil {
		t.Fatalf("web: %v", err)
	}
	if web.Kind != "web" || web.Engine != "video" || web.WasDirectURL == nil || *web.WasDirectURL {
		t.Fatalf("unexpected web response: %#v", web)
	}
	if web.URL != "https://www.youtube.com/results?search_query=cat+videos" || web.Target != web.URL {
		t.Fatalf("unexpected web url %q", web.URL)
	}
}

func TestClassifyUsesDefaultEngine(t *testing.T) {
	cls := classifier.New(classifier.Options{})
	svc := New(cls, classifier.EngineVideo, 0, nil, nil, logger.Discard())

	resp, err := svc.Classify(context.Background(), "c", transport.ClassifyRequest{Input: "lofi beats"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.URL != "https://www.youtube.com/results?search_query=lofi+beats" {
		t.Fatalf("default engine not applied: %q", resp.URL)
	}
}

func TestClassifyRejectsHostPreconditions(t *testing.T) {
	svc := newTestService(nil, nil)

	tests := []transport.ClassifyRequest{
		{Input: "   "},
		{Input: strings.Repeat("a", 65)},
		{Input: "pizza", Engine: "altavista"},
	}
	for _, req := range tests {
		_, err := svc.Classify(context.Background(), "c", req)
		if !apperr.Is(err, apperr.KindValidation) {
			t.Fatalf("Classify(%q, %q) error = %v, want validation", req.Input, req.Engine, err)
		}
	}
}

func TestClassifyPublishesEventRecordedInHistory(t *testing.T) {
	bus := events.NewInMemoryBus(logger.Discard())
	store := &memoryStore{}
	history.NewRecorder(store).RegisterHandlers(bus)
	svc := newTestService(bus, store)

	if _, err := svc.Classify(context.Background(), "client-a", transport.ClassifyRequest{Input: "example.com"}); err != nil {
		t.Fatalf("classify: %v", err)
	}
	bus.Wait()

	resp, err := svc.History(context.Background(), "client-a", transport.HistoryRequest{})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if resp.Total != 1 || resp.Items[0].Target != "https://example.com" || !resp.Items[0].WasDirectURL {
		t.Fatalf("unexpected history: %#v", resp)
	}
}

func TestHistoryUnavailable(t *testing.T) {
	svc := newTestService(nil, failingStore{})
	_, err := svc.History(context.Background(), "c", transport.HistoryRequest{Limit: 5})
	if !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}
}

func TestQRCodeRendersPNGWithoutRecordingHistory(t *testing.T) {
	bus := events.NewInMemoryBus(logger.Discard())
	store := &memoryStore{}
	history.NewRecorder(store).RegisterHandlers(bus)
	svc := newTestService(bus, store)

	png, err := svc.QRCode(transport.QRCodeRequest{
		ClassifyRequest: transport.ClassifyRequest{Input: "555-123-4567"},
		Size:            128,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG\r\n\x1a\n")) {
		t.Fatalf("expected PNG data")
	}

	bus.Wait()
	resp, err := svc.History(context.Background(), "c", transport.HistoryRequest{})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if resp.Total != 0 {
		t.Fatalf("rendering a QR code must not record history, got %#v", resp.Items)
	}

	if _, err := svc.QRCode(transport.QRCodeRequest{}); !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("empty input should be a validation error, got %v", err)
	}
}

func TestEnginesMarksDefault(t *testing.T) {
	svc := newTestService(nil, nil)
	resp := svc.Engines()
	if len(resp.Items) != 2 {
		t.Fatalf("expected two engines, got %d", len(resp.Items))
	}
	if resp.Items[0].Name != "general" || !resp.Items[0].Default {
		t.Fatalf("general should be the default: %#v", resp.Items[0])
	}
	if resp.Items[1].Name != "video" || resp.Items[1].Default || resp.Items[1].Param != "search_query" {
		t.Fatalf("unexpected video engine: %#v", resp.Items[1])
	}
}
