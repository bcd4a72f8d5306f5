package handler

import (
	"net/http"
	"strings"

	"omnibox_backend/internal/omnibox/service"
	"omnibox_backend/internal/omnibox/transport"
	"omnibox_backend/platform/httpkit"
	"omnibox_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/classify", h.ClassifyJSON)
	rg.GET("/classify", h.ClassifyQuery)
	rg.GET("/classify/qr", h.QRCode)
	rg.GET("/engines", h.Engines)
	rg.GET("/history", h.History)
}

// ClassifyJSON handles POST /api/v1/classify with {"input": "...", "engine": "..."}.
func (h *Handler) ClassifyJSON(c *gin.Context) {
	var req transport.ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	h.classify(c, req)
}

// ClassifyQuery handles GET /api/v1/classify?q=...&engine=...
func (h *Handler) ClassifyQuery(c *gin.Context) {
	var req transport.ClassifyRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	h.classify(c, req)
}

func (h *Handler) classify(c *gin.Context, req transport.ClassifyRequest) {
	req.Input = strings.TrimSpace(req.Input)
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Classify(c.Request.Context(), httpkit.ClientID(c), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

// QRCode handles GET /api/v1/classify/qr?q=...&engine=...&size=...
func (h *Handler) QRCode(c *gin.Context) {
	var req transport.QRCodeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	req.Input = strings.TrimSpace(req.Input)
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	png, err := h.svc.QRCode(req)
	if httpkit.HandleError(c, err) {
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

// Engines handles GET /api/v1/engines
func (h *Handler) Engines(c *gin.Context) {
	httpkit.OK(c, h.svc.Engines())
}

// History handles GET /api/v1/history?limit=...
func (h *Handler) History(c *gin.Context) {
	var req transport.HistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, err.Error())
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.History(c.Request.Context(), httpkit.ClientID(c), req)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}
