package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"cardtrack/internal/core"
	"cardtrack/internal/services"
)

type createCardRequest struct {
	Name  string     `json:"name"`
	Last4 string     `json:"last4"`
	Limit core.Money `json:"limit"`
}

type updateCardRequest struct {
	Name  *string     `json:"name"`
	Last4 *string     `json:"last4"`
	Limit *core.Money `json:"limit"`
}

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.cards.List())
}

func (s *Server) handleCreateCard(w http.ResponseWriter, r *http.Request) {
	var req createCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	card, err := s.cards.Create(r.Context(), services.CreateCardInput{
		Name:  req.Name,
		Last4: req.Last4,
		Limit: req.Limit,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, card)
}

func (s *Server) handleUpdateCard(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req updateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	card, err := s.cards.Update(r.Context(), id, services.UpdateCardInput{
		Name:  req.Name,
		Last4: req.Last4,
		Limit: req.Limit,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	confirmed := r.URL.Query().Get("confirm") == "true"

	if err := s.cards.Delete(r.Context(), id, confirmed); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
