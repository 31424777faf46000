package core

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

type (
	Money struct {
		Cents int64
	}

	// Card is a tracked credit line identified by its last four digits.
	Card struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Last4    string `json:"last4"`
		Limit    Money  `json:"limit"`
		Gradient string `json:"gradient"`
	}

	// Transaction is a single dated expense attributed to a card.
	Transaction struct {
		ID       string    `json:"id"`
		CardID   string    `json:"cardId"`
		Merchant string    `json:"merchant"`
		Amount   Money     `json:"amount"`
		Date     time.Time `json:"date"`
		Category Category  `json:"category"`
	}
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrInvalidLimit    = errors.New("limit must be a positive amount")
	ErrInvalidLast4    = errors.New("last4 must be exactly four digits")
	ErrEmptyName       = errors.New("empty card name")
	ErrEmptyCardID     = errors.New("empty card reference")
	ErrEmptyMerchant   = errors.New("empty merchant")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidCategory = errors.New("invalid category")
	ErrNameTooLong     = errors.New("card name too long (max 100 characters)")
	ErrMerchantTooLong = errors.New("merchant too long (max 200 characters)")
)

var last4Pattern = regexp.MustCompile(`^[0-9]{4}$`)

// ValidLast4 reports whether s is exactly four ASCII digits.
func ValidLast4(s string) bool {
	return last4Pattern.MatchString(s)
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (c Card) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if len(c.Name) > 100 {
		return ErrNameTooLong
	}
	if !ValidLast4(c.Last4) {
		return ErrInvalidLast4
	}
	if c.Limit.Cents <= 0 {
		return ErrInvalidLimit
	}
	return nil
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.CardID) == "" {
		return ErrEmptyCardID
	}
	if strings.TrimSpace(t.Merchant) == "" {
		return ErrEmptyMerchant
	}
	if len(t.Merchant) > 200 {
		return ErrMerchantTooLong
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	if !t.Category.Valid() {
		return ErrInvalidCategory
	}
	return nil
}

// SameMonth reports whether a and b fall in the same calendar month and year.
func SameMonth(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month()
}
