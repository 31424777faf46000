package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"cardtrack/internal/core"
	"cardtrack/internal/services"
	"cardtrack/internal/summary"
)

type createTransactionRequest struct {
	CardID   string     `json:"cardId"`
	Merchant string     `json:"merchant"`
	Amount   core.Money `json:"amount"`
	Date     *string    `json:"date"`
	Category string     `json:"category"`
}

type updateTransactionRequest struct {
	CardID   *string     `json:"cardId"`
	Merchant *string     `json:"merchant"`
	Amount   *core.Money `json:"amount"`
	Date     *string     `json:"date"`
	Category *string     `json:"category"`
}

// parseTxDate accepts a full timestamp or a plain date.
func parseTxDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, core.ErrInvalidDate
	}
	return t, nil
}

// parseStrictCategory rejects labels outside the closed set instead of
// falling back to Other like the classifier path does.
func parseStrictCategory(s string) (core.Category, error) {
	for _, c := range core.Categories() {
		if strings.EqualFold(strings.TrimSpace(s), string(c)) {
			return c, nil
		}
	}
	return "", core.ErrInvalidCategory
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	cardID := r.URL.Query().Get("card")
	writeJSON(w, http.StatusOK, summary.List(s.store.Transactions(), cardID))
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	category, err := parseStrictCategory(req.Category)
	if err != nil {
		writeError(w, r, err)
		return
	}

	input := services.CreateTransactionInput{
		CardID:   req.CardID,
		Merchant: req.Merchant,
		Amount:   req.Amount,
		Category: category,
	}
	if req.Date != nil {
		date, err := parseTxDate(*req.Date)
		if err != nil {
			writeError(w, r, err)
			return
		}
		input.Date = &date
	}

	tx, err := s.txs.Create(r.Context(), input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tx)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req updateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	input := services.UpdateTransactionInput{
		CardID:   req.CardID,
		Merchant: req.Merchant,
		Amount:   req.Amount,
	}
	if req.Date != nil {
		date, err := parseTxDate(*req.Date)
		if err != nil {
			writeError(w, r, err)
			return
		}
		input.Date = &date
	}
	if req.Category != nil {
		category, err := parseStrictCategory(*req.Category)
		if err != nil {
			writeError(w, r, err)
			return
		}
		input.Category = &category
	}

	tx, err := s.txs.Update(r.Context(), id, input)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	confirmed := r.URL.Query().Get("confirm") == "true"

	if err := s.txs.Delete(r.Context(), id, confirmed); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
