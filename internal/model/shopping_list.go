package model

import (
	"fmt"
	"math/big"
	"strings"
	"time"
)

type ShoppingListItem struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Checked   bool      `json:"checked"`
	Price     string    `json:"price"`
	DateAdded time.Time `json:"date_added"`
}

// ItemChanges holds the replacement values for every non-id column of a
// shopping list row.
type ItemChanges struct {
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Checked   bool      `json:"checked"`
	Price     string    `json:"price"`
	DateAdded time.Time `json:"date_added"`
}

// Changes returns the non-id fields of the item.
func (i ShoppingListItem) Changes() ItemChanges {
	return ItemChanges{
		Name:      i.Name,
		Category:  i.Category,
		Checked:   i.Checked,
		Price:     i.Price,
		DateAdded: i.DateAdded,
	}
}

// Validate reports the first field that cannot be stored.
func (i ShoppingListItem) Validate() error {
	if i.ID <= 0 {
		return &ValidationError{Field: "id", Message: fmt.Sprintf("must be positive, got %d", i.ID)}
	}
	return i.Changes().Validate()
}

func (c ItemChanges) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return &ValidationError{Field: "name", Message: "must not be empty"}
	}
	if strings.TrimSpace(c.Category) == "" {
		return &ValidationError{Field: "category", Message: "must not be empty"}
	}
	if _, err := NormalizePrice(c.Price); err != nil {
		return &ValidationError{Field: "price", Message: err.Error()}
	}
	if c.DateAdded.IsZero() {
		return &ValidationError{Field: "date_added", Message: "must be set"}
	}
	if y := c.DateAdded.UTC().Year(); y < 1 || y > 9999 {
		return &ValidationError{Field: "date_added", Message: fmt.Sprintf("year %d is outside 1-9999", y)}
	}
	return nil
}

// Normalize returns a copy with the price in two-digit form and the
// timestamp in UTC at microsecond resolution. Call Validate first.
func (i ShoppingListItem) Normalize() ShoppingListItem {
	c := i.Changes().Normalize()
	return ShoppingListItem{
		ID:        i.ID,
		Name:      c.Name,
		Category:  c.Category,
		Checked:   c.Checked,
		Price:     c.Price,
		DateAdded: c.DateAdded,
	}
}

func (c ItemChanges) Normalize() ItemChanges {
	if p, err := NormalizePrice(c.Price); err == nil {
		c.Price = p
	}
	c.DateAdded = NormalizeTime(c.DateAdded)
	return c
}

// maxPriceDigits is the integer part a NUMERIC(12,2) column can hold.
const maxPriceDigits = 10

// NormalizePrice parses a non-negative decimal amount with at most two
// fractional digits and formats it with exactly two, e.g. "5.9" -> "5.90".
func NormalizePrice(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("must not be empty")
	}
	digits := strings.TrimPrefix(s, "-")
	if digits == "" || strings.Trim(digits, "0123456789.") != "" || strings.Count(digits, ".") > 1 || strings.Trim(digits, ".") == "" {
		return "", fmt.Errorf("%q is not a decimal amount", s)
	}
	if dot := strings.IndexByte(s, '.'); dot >= 0 && len(s)-dot-1 > 2 {
		return "", fmt.Errorf("%q has more than two fractional digits", s)
	}
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return "", fmt.Errorf("%q is not a decimal amount", s)
	}
	if r.Sign() < 0 {
		return "", fmt.Errorf("%q is negative", s)
	}
	out := r.FloatString(2)
	if len(out)-3 > maxPriceDigits {
		return "", fmt.Errorf("%q has more than %d integer digits", s, maxPriceDigits)
	}
	return out, nil
}

// NormalizeTime converts t to UTC and drops precision below a microsecond.
func NormalizeTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}
