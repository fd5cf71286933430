package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestItemLess(t *testing.T) {
	a := Item{Code: "AAAA", Date: day(1990, 5, 5)}
	b := Item{Code: "BBBB", Date: day(1995, 5, 5)}

	if !a.Less(b) {
		t.Error("expected earlier item to be less")
	}
	if b.Less(a) {
		t.Error("expected later item not to be less")
	}
	if a.Less(a) {
		t.Error("expected item not to be less than itself")
	}
}

func TestSortByDate(t *testing.T) {
	items := []Item{
		{Code: "C", Date: day(2001, 1, 3)},
		{Code: "A", Date: day(2001, 1, 1)},
		{Code: "B1", Date: day(2001, 1, 2)},
		{Code: "B2", Date: day(2001, 1, 2)},
	}

	SortByDate(items)

	want := []string{"A", "B1", "B2", "C"}
	for i, code := range want {
		if items[i].Code != code {
			t.Errorf("position %d: expected %s, got %s", i, code, items[i].Code)
		}
	}
}

func TestItemUpdateEmpty(t *testing.T) {
	if !(ItemUpdate{}).Empty() {
		t.Error("expected zero update to be empty")
	}

	zero := decimal.Zero
	if (ItemUpdate{Charge: &zero}).Empty() {
		t.Error("expected zero charge to count as a supplied field")
	}
}

func TestInvoiceName(t *testing.T) {
	tests := []struct {
		number   int
		wantName string
		wantKey  string
	}{
		{1, "0001", "invoices/1.pdf"},
		{424, "0424", "invoices/424.pdf"},
		{12345, "12345", "invoices/12345.pdf"},
	}

	for _, tt := range tests {
		inv := Invoice{Number: tt.number}
		if got := inv.Name(); got != tt.wantName {
			t.Errorf("Name(%d) = %s, want %s", tt.number, got, tt.wantName)
		}
		if got := inv.PDFKey(); got != tt.wantKey {
			t.Errorf("PDFKey(%d) = %s, want %s", tt.number, got, tt.wantKey)
		}
	}
}
