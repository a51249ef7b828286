package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/WagdySamih/Trading-Dashboard/cmd/server/internal/tickers"
)

const defaultHistoryHours = 24

// Handler serves the read-only REST surface over the ticker service.
type Handler struct {
	service *tickers.Service
	logger  *zap.Logger
}

func NewHandler(service *tickers.Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// apiResponse mirrors the envelope the dashboard frontend expects.
type apiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.health)
	mux.HandleFunc("GET /api/tickers", h.listTickers)
	mux.HandleFunc("GET /api/tickers/{id}", h.getTicker)
	mux.HandleFunc("GET /api/tickers/{id}/history", h.getHistory)
	mux.HandleFunc("GET /api/cache/stats", h.cacheStats)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) listTickers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: h.service.All()})
}

func (h *Handler) getTicker(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	ticker, ok := h.service.Get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, apiResponse{Success: false, Error: "Ticker " + id + " not found"})
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: ticker})
}

func (h *Handler) getHistory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	hours := parseHours(r.URL.Query().Get("hours"))

	history, ok := h.service.History(id, hours)
	if !ok {
		writeJSON(w, http.StatusNotFound, apiResponse{Success: false, Error: "Ticker " + id + " not found"})
		return
	}
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: history})
}

func (h *Handler) cacheStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: h.service.CacheStats()})
}

// parseHours coerces the window parameter to a sane default rather
// than failing the request.
func parseHours(raw string) float64 {
	if raw == "" {
		return defaultHistoryHours
	}
	hours, err := strconv.ParseFloat(raw, 64)
	if err != nil || hours <= 0 {
		return defaultHistoryHours
	}
	return hours
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
