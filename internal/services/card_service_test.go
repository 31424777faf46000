package services

import (
	"context"
	"errors"
	"testing"

	"cardtrack/internal/core"
	"cardtrack/internal/store"
)

type fakeCache struct {
	invalidations int
}

func (c *fakeCache) Invalidate() { c.invalidations++ }

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Load(context.Background(), store.NewMemoryStore())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return st
}

func TestCardService_Create(t *testing.T) {
	st := newTestStore(t)
	cache := &fakeCache{}
	svc := NewCardService(st, cache)

	card, err := svc.Create(context.Background(), CreateCardInput{
		Name:  "Visa Gold",
		Last4: "0427",
		Limit: core.Money{Cents: 100000},
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if card.ID == "" {
		t.Error("created card should have an id")
	}
	if card.Gradient == "" {
		t.Error("created card should have a gradient")
	}
	if cache.invalidations != 1 {
		t.Errorf("cache invalidations = %d, want 1", cache.invalidations)
	}
}

func TestCardService_Create_Validation(t *testing.T) {
	st := newTestStore(t)
	svc := NewCardService(st, &fakeCache{})

	tests := []struct {
		name    string
		input   CreateCardInput
		wantErr error
	}{
		{
			name:    "empty name",
			input:   CreateCardInput{Name: "  ", Last4: "1234", Limit: core.Money{Cents: 100}},
			wantErr: core.ErrEmptyName,
		},
		{
			name:    "bad last4",
			input:   CreateCardInput{Name: "Visa", Last4: "12a4", Limit: core.Money{Cents: 100}},
			wantErr: core.ErrInvalidLast4,
		},
		{
			name:    "zero limit",
			input:   CreateCardInput{Name: "Visa", Last4: "1234"},
			wantErr: core.ErrInvalidLimit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Create() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCardService_Create_Uniqueness(t *testing.T) {
	st := newTestStore(t)
	svc := NewCardService(st, &fakeCache{})

	if _, err := svc.Create(context.Background(), CreateCardInput{Name: "Visa Gold", Last4: "0427", Limit: core.Money{Cents: 100}}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Name collision is case-insensitive.
	_, err := svc.Create(context.Background(), CreateCardInput{Name: "visa gold", Last4: "9999", Limit: core.Money{Cents: 100}})
	if !errors.Is(err, ErrNameTaken) {
		t.Errorf("duplicate name error = %v, want ErrNameTaken", err)
	}

	_, err = svc.Create(context.Background(), CreateCardInput{Name: "Amex", Last4: "0427", Limit: core.Money{Cents: 100}})
	if !errors.Is(err, ErrLast4Taken) {
		t.Errorf("duplicate last4 error = %v, want ErrLast4Taken", err)
	}
}

func TestCardService_Update(t *testing.T) {
	st := newTestStore(t)
	svc := NewCardService(st, &fakeCache{})

	card, err := svc.Create(context.Background(), CreateCardInput{Name: "Visa", Last4: "1111", Limit: core.Money{Cents: 100}})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	newName := "Visa Platinum"
	updated, err := svc.Update(context.Background(), card.ID, UpdateCardInput{Name: &newName})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Name != "Visa Platinum" {
		t.Errorf("Name = %q, want Visa Platinum", updated.Name)
	}
	if updated.Last4 != "1111" || updated.Limit.Cents != 100 {
		t.Error("untouched fields should keep their values")
	}
	if updated.Gradient != card.Gradient {
		t.Error("gradient must survive updates")
	}
	if updated.ID != card.ID {
		t.Error("id must survive updates")
	}

	// Re-submitting the card's own name is not a collision.
	if _, err := svc.Update(context.Background(), card.ID, UpdateCardInput{Name: &newName}); err != nil {
		t.Errorf("Update() with own name error = %v", err)
	}
}

func TestCardService_Update_NotFound(t *testing.T) {
	st := newTestStore(t)
	svc := NewCardService(st, &fakeCache{})

	name := "x"
	_, err := svc.Update(context.Background(), "missing", UpdateCardInput{Name: &name})
	if !errors.Is(err, store.ErrCardNotFound) {
		t.Errorf("Update() error = %v, want ErrCardNotFound", err)
	}
}

func TestCardService_Delete(t *testing.T) {
	st := newTestStore(t)
	svc := NewCardService(st, &fakeCache{})

	card, err := svc.Create(context.Background(), CreateCardInput{Name: "Visa", Last4: "1111", Limit: core.Money{Cents: 100}})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := svc.Delete(context.Background(), card.ID, false); !errors.Is(err, ErrConfirmationRequired) {
		t.Errorf("unconfirmed delete error = %v, want ErrConfirmationRequired", err)
	}

	tx := core.Transaction{
		ID: "t1", CardID: card.ID, Merchant: "Shop",
		Amount: core.Money{Cents: 50}, Date: timeNowForTest(), Category: core.CategoryOther,
	}
	if err := st.PutTransaction(context.Background(), tx); err != nil {
		t.Fatalf("PutTransaction() error = %v", err)
	}
	if err := svc.Delete(context.Background(), card.ID, true); !errors.Is(err, ErrCardInUse) {
		t.Errorf("delete of referenced card error = %v, want ErrCardInUse", err)
	}

	if err := st.DeleteTransaction(context.Background(), "t1"); err != nil {
		t.Fatalf("DeleteTransaction() error = %v", err)
	}
	if err := svc.Delete(context.Background(), card.ID, true); err != nil {
		t.Errorf("Delete() error = %v", err)
	}
	if _, err := svc.Get(card.ID); !errors.Is(err, store.ErrCardNotFound) {
		t.Error("card should be gone after delete")
	}
}
