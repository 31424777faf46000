package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"cardtrack/internal/core"
	"cardtrack/internal/log"
	"cardtrack/internal/store"
)

// CardService owns the card lifecycle: uniqueness of name and last4,
// gradient assignment on create, and the deletion guard for cards that
// still have transactions.
type CardService struct {
	store *store.Store
	cache CacheInvalidator
}

func NewCardService(st *store.Store, cache CacheInvalidator) *CardService {
	return &CardService{store: st, cache: cache}
}

// CreateCardInput carries the caller-supplied fields; ID and gradient are
// assigned here.
type CreateCardInput struct {
	Name  string
	Last4 string
	Limit core.Money
}

// UpdateCardInput uses pointers so absent fields keep their stored value.
type UpdateCardInput struct {
	Name  *string
	Last4 *string
	Limit *core.Money
}

func (s *CardService) List() []core.Card {
	return s.store.Cards()
}

func (s *CardService) Get(id string) (core.Card, error) {
	card, ok := s.store.CardByID(id)
	if !ok {
		return core.Card{}, store.ErrCardNotFound
	}
	return card, nil
}

func (s *CardService) Create(ctx context.Context, in CreateCardInput) (core.Card, error) {
	card := core.Card{
		ID:       uuid.NewString(),
		Name:     strings.TrimSpace(in.Name),
		Last4:    in.Last4,
		Limit:    in.Limit,
		Gradient: core.RandomGradient(),
	}
	if err := card.Validate(); err != nil {
		return core.Card{}, err
	}
	if s.store.CardNameTaken(card.Name, "") {
		return core.Card{}, ErrNameTaken
	}
	if s.store.CardLast4Taken(card.Last4, "") {
		return core.Card{}, ErrLast4Taken
	}

	if err := s.store.PutCard(ctx, card); err != nil {
		return core.Card{}, err
	}
	s.cache.Invalidate()

	slog.InfoContext(ctx, "card created",
		log.FieldComponent, log.ComponentCards,
		log.FieldCardID, card.ID,
		log.FieldLast4, card.Last4)
	return card, nil
}

func (s *CardService) Update(ctx context.Context, id string, in UpdateCardInput) (core.Card, error) {
	card, ok := s.store.CardByID(id)
	if !ok {
		return core.Card{}, store.ErrCardNotFound
	}

	if in.Name != nil {
		card.Name = strings.TrimSpace(*in.Name)
	}
	if in.Last4 != nil {
		card.Last4 = *in.Last4
	}
	if in.Limit != nil {
		card.Limit = *in.Limit
	}
	if err := card.Validate(); err != nil {
		return core.Card{}, err
	}
	if s.store.CardNameTaken(card.Name, id) {
		return core.Card{}, ErrNameTaken
	}
	if s.store.CardLast4Taken(card.Last4, id) {
		return core.Card{}, ErrLast4Taken
	}

	if err := s.store.PutCard(ctx, card); err != nil {
		return core.Card{}, err
	}
	s.cache.Invalidate()

	slog.InfoContext(ctx, "card updated",
		log.FieldComponent, log.ComponentCards,
		log.FieldCardID, card.ID)
	return card, nil
}

// Delete removes a card. It refuses without explicit confirmation and
// while any transaction still references the card.
func (s *CardService) Delete(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	if _, ok := s.store.CardByID(id); !ok {
		return store.ErrCardNotFound
	}
	if s.store.CardHasTransactions(id) {
		return ErrCardInUse
	}

	if err := s.store.DeleteCard(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate()

	slog.InfoContext(ctx, "card deleted",
		log.FieldComponent, log.ComponentCards,
		log.FieldCardID, id)
	return nil
}
