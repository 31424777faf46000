package http

import (
	"encoding/json"
	"net/http"
	"time"

	"cardtrack/internal/core"
	"cardtrack/internal/summary"
)

func (s *Server) handleSummaryCategories(w http.ResponseWriter, r *http.Request) {
	key := monthKey("categories", time.Now())
	if cached, ok := s.caches.categories.Get(key); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	shares := summary.Categories(s.store.Transactions(), time.Now())
	s.caches.categories.Set(key, shares)
	writeJSON(w, http.StatusOK, shares)
}

func (s *Server) handleSummaryCards(w http.ResponseWriter, r *http.Request) {
	key := monthKey("cards", time.Now())
	if cached, ok := s.caches.cards.Get(key); ok {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	totals := summary.Cards(s.store.Transactions(), time.Now())
	s.caches.cards.Set(key, totals)
	writeJSON(w, http.StatusOK, totals)
}

type categoryInfo struct {
	Category core.Category `json:"category"`
	Color    string        `json:"color"`
	Icon     string        `json:"icon"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories := make([]categoryInfo, 0, len(core.Categories()))
	for _, c := range core.Categories() {
		v := c.Visual()
		categories = append(categories, categoryInfo{Category: c, Color: v.Color, Icon: v.Icon})
	}
	writeJSON(w, http.StatusOK, categories)
}

type ingestRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleIngestSMS(w http.ResponseWriter, r *http.Request) {
	if s.sms == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "sms ingestion is not configured")
		return
	}

	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	tx, err := s.sms.Ingest(r.Context(), req.Text)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	// The store is loaded before the server starts listening, so
	// reaching this handler means the process is ready.
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
