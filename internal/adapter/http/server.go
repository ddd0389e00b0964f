// Package http exposes the engine over a JSON API plus the operational
// health, readiness, and metrics endpoints.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/krishimitra/field-engine/internal/chat"
	"github.com/krishimitra/field-engine/internal/domain"
)

// Engine is the slice of the simulation engine the HTTP adapter needs.
type Engine interface {
	Ready() bool
	Telemetry() (domain.SoilReading, domain.WeatherReading)
	Alerts() []domain.Alert
	RaiseManualAlert(category domain.AlertCategory, text string) domain.Alert
	DismissAlert(id string) bool
	Crops() []domain.CropRecord
	AddCrop(name string) (domain.CropRecord, bool)
	RemoveCrop(id string) bool
	Chat() *chat.Session
}

// Server exposes the dashboard API and operational HTTP endpoints.
type Server struct {
	httpServer *http.Server
	engine     Engine
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the API routes plus /healthz,
// /readyz, and /metrics.
func NewServer(addr string, engine Engine, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		engine: engine,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/telemetry", s.handleTelemetry)
	mux.HandleFunc("GET /api/alerts", s.handleListAlerts)
	mux.HandleFunc("POST /api/alerts", s.handleRaiseAlert)
	mux.HandleFunc("DELETE /api/alerts/{id}", s.handleDismissAlert)
	mux.HandleFunc("GET /api/crops", s.handleListCrops)
	mux.HandleFunc("POST /api/crops", s.handleAddCrop)
	mux.HandleFunc("DELETE /api/crops/{id}", s.handleRemoveCrop)
	mux.HandleFunc("GET /api/chat", s.handleChatState)
	mux.HandleFunc("POST /api/chat/messages", s.handlePostMessage)
	mux.HandleFunc("POST /api/chat/image", s.handleSubmitImage)
	mux.HandleFunc("POST /api/chat/capture/start", s.handleCaptureStart)
	mux.HandleFunc("POST /api/chat/capture/stop", s.handleCaptureStop)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	if !s.engine.Ready() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  "first simulation step pending",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

type telemetryResponse struct {
	Soil    domain.SoilReading    `json:"soil"`
	Weather domain.WeatherReading `json:"weather"`
}

func (s *Server) handleTelemetry(w http.ResponseWriter, _ *http.Request) {
	soil, weather := s.engine.Telemetry()
	writeJSON(w, http.StatusOK, telemetryResponse{Soil: soil, Weather: weather})
}

func (s *Server) handleListAlerts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Alerts())
}

type raiseAlertRequest struct {
	Category string `json:"category"`
	Text     string `json:"text"`
}

func (s *Server) handleRaiseAlert(w http.ResponseWriter, r *http.Request) {
	var req raiseAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	alert := s.engine.RaiseManualAlert(domain.AlertCategory(req.Category), req.Text)
	writeJSON(w, http.StatusCreated, alert)
}

func (s *Server) handleDismissAlert(w http.ResponseWriter, r *http.Request) {
	if !s.engine.DismissAlert(r.PathValue("id")) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "alert not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListCrops(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Crops())
}

type addCropRequest struct {
	Name string `json:"name"`
}

func (s *Server) handleAddCrop(w http.ResponseWriter, r *http.Request) {
	var req addCropRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	crop, ok := s.engine.AddCrop(req.Name)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "crop name must not be empty"})
		return
	}
	writeJSON(w, http.StatusCreated, crop)
}

func (s *Server) handleRemoveCrop(w http.ResponseWriter, r *http.Request) {
	if !s.engine.RemoveCrop(r.PathValue("id")) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "crop not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type chatStateResponse struct {
	Messages     []domain.ChatMessage `json:"messages"`
	Composing    bool                 `json:"composing"`
	CaptureState domain.CaptureState  `json:"capture_state"`
}

func (s *Server) handleChatState(w http.ResponseWriter, _ *http.Request) {
	session := s.engine.Chat()
	writeJSON(w, http.StatusOK, chatStateResponse{
		Messages:     session.Messages(),
		Composing:    session.Composing(),
		CaptureState: session.CaptureState(),
	})
}

type postMessageRequest struct {
	Text string `json:"text"`
}

func (s *Server) handlePostMessage(w http.ResponseWriter, r *http.Request) {
	var req postMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message text must not be empty"})
		return
	}
	s.engine.Chat().PostUser(req.Text)
	w.WriteHeader(http.StatusAccepted)
}

type submitImageRequest struct {
	Filename string `json:"filename"`
}

func (s *Server) handleSubmitImage(w http.ResponseWriter, r *http.Request) {
	var req submitImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	s.engine.Chat().SubmitImage(req.Filename)
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleCaptureStart(w http.ResponseWriter, _ *http.Request) {
	s.engine.Chat().StartCapture()
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) handleCaptureStop(w http.ResponseWriter, _ *http.Request) {
	s.engine.Chat().StopCapture()
	w.WriteHeader(http.StatusAccepted)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
