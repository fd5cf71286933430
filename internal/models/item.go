package models

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Item is a billable line entry identified by a generated 4-character code.
type Item struct {
	Code        string          `json:"code"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Charge      decimal.Decimal `json:"charge"`
}

// Less orders items by date, earliest first.
func (i Item) Less(other Item) bool {
	return i.Date.Before(other.Date)
}

// SortByDate sorts items in place by date, keeping the original order for equal dates.
func SortByDate(items []Item) {
	sort.SliceStable(items, func(a, b int) bool {
		return items[a].Less(items[b])
	})
}

// ItemUpdate carries the fields to change. Nil fields are left untouched, so a zero
// charge is a real value and not "unset".
type ItemUpdate struct {
	Date        *time.Time
	Description *string
	Charge      *decimal.Decimal
}

// Empty reports whether the update changes nothing.
func (u ItemUpdate) Empty() bool {
	return u.Date == nil && u.Description == nil && u.Charge == nil
}

// CreateItemRequest represents the request body for logging an item.
// Date is formatted as YYYY-MM-DD.
type CreateItemRequest struct {
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Charge      decimal.Decimal `json:"charge"`
}

// UpdateItemRequest represents a partial update; omitted fields stay unchanged.
type UpdateItemRequest struct {
	Date        *string          `json:"date,omitempty"`
	Description *string          `json:"description,omitempty"`
	Charge      *decimal.Decimal `json:"charge,omitempty"`
}
