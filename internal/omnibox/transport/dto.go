package transport

import (
	"time"

	"omnibox_backend/internal/classifier"
)

type ClassifyRequest struct {
	Input  string `json:"input" form:"q" validate:"required,singleline"`
	Engine string `json:"engine" form:"engine" validate:"omitempty,oneof=general video"`
}

type QRCodeRequest struct {
	ClassifyRequest
	Size int `form:"size" validate:"omitempty,min=64,max=1024"`
}

type ClassifyResponse struct {
	Kind         string `json:"kind"`   // "phone", "email", "web"
	Target       string `json:"target"` // tel:, mailto: or the URL to open
	Engine       string `json:"engine"`
	Digits       string `json:"digits,omitempty"`
	E164         string `json:"e164,omitempty"`
	Address      string `json:"address,omitempty"`
	URL          string `json:"url,omitempty"`
	WasDirectURL *bool  `json:"wasDirectUrl,omitempty"`
}

// NewClassifyResponse flattens a classification result for JSON output.
func NewClassifyResponse(result classifier.Result, engine classifier.SearchEngine) *ClassifyResponse {
	resp := &ClassifyResponse{
		Kind:   string(result.Kind()),
		Target: result.Target(),
		Engine: engine.String(),
	}

	switch r := result.(type) {
	case classifier.Phone:
		resp.Digits = r.Digits
		resp.E164 = r.E164
	case classifier.Email:
		resp.Address = r.Address
	case classifier.WebTarget:
		direct := r.WasDirectURL
		resp.URL = r.URL
		resp.WasDirectURL = &direct
	}
	return resp
}

type EngineItem struct {
	Name    string `json:"name"`
	BaseURL string `json:"baseUrl"`
	Param   string `json:"param"`
	Default bool   `json:"default"`
}

type EnginesResponse struct {
	Items []EngineItem `json:"items"`
}

type HistoryRequest struct {
	Limit int `form:"limit" validate:"omitempty,min=1,max=100"`
}

type HistoryItem struct {
	ID           string    `json:"id"`
	Input        string    `json:"input"`
	Kind         string    `json:"kind"`
	Target       string    `json:"target"`
	Engine       string    `json:"engine"`
	WasDirectURL bool      `json:"wasDirectUrl"`
	CreatedAt    time.Time `json:"createdAt"`
}

type HistoryResponse struct {
	Items []HistoryItem `json:"items"`
	Total int           `json:"total"`
}
