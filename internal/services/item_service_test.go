package services

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"invoice-backend/internal/models"
	"invoice-backend/internal/timeutil"
)

func TestCreateItem(t *testing.T) {
	ctx := context.Background()

	t.Run("parses the date", func(t *testing.T) {
		svc := NewItemService(newFakeItems())
		item, err := svc.CreateItem(ctx, &models.CreateItemRequest{Date: "1990-05-05", Description: "work", Charge: decimal.NewFromInt(5)})
		if err != nil {
			t.Fatalf("CreateItem failed: %v", err)
		}
		if !item.Date.Equal(day(1990, 5, 5)) {
			t.Errorf("unexpected date %v", item.Date)
		}
	})

	t.Run("defaults to today", func(t *testing.T) {
		svc := NewItemService(newFakeItems())
		item, err := svc.CreateItem(ctx, &models.CreateItemRequest{Description: "work"})
		if err != nil {
			t.Fatalf("CreateItem failed: %v", err)
		}
		if !item.Date.Equal(timeutil.Today()) {
			t.Errorf("expected today, got %v", item.Date)
		}
	})

	for _, req := range []models.CreateItemRequest{
		{Date: "05/05/1990"},
		{Date: "1990-05-05", Charge: decimal.NewFromInt(-1)},
	} {
		svc := NewItemService(newFakeItems())
		if _, err := svc.CreateItem(ctx, &req); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput for %+v, got %v", req, err)
		}
	}
}

func TestUpdateItem(t *testing.T) {
	ctx := context.Background()
	items := newFakeItems()
	svc := NewItemService(items)
	item := items.add(day(1990, 5, 5), "10")

	zero := decimal.Zero
	updated, err := svc.UpdateItem(ctx, item.Code, &models.UpdateItemRequest{Charge: &zero})
	if err != nil {
		t.Fatalf("UpdateItem failed: %v", err)
	}
	if !updated.Charge.IsZero() {
		t.Errorf("expected zero charge to be applied, got %s", updated.Charge)
	}
	last := items.updates[len(items.updates)-1]
	if last.Date != nil || last.Description != nil {
		t.Errorf("expected only charge in update, got %+v", last)
	}

	newDate := "1995-05-05"
	updated, err = svc.UpdateItem(ctx, item.Code, &models.UpdateItemRequest{Date: &newDate})
	if err != nil {
		t.Fatalf("UpdateItem failed: %v", err)
	}
	if !updated.Date.Equal(day(1995, 5, 5)) {
		t.Errorf("unexpected date %v", updated.Date)
	}

	bad := "yesterday"
	if _, err := svc.UpdateItem(ctx, item.Code, &models.UpdateItemRequest{Date: &bad}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	negative := decimal.NewFromInt(-3)
	if _, err := svc.UpdateItem(ctx, item.Code, &models.UpdateItemRequest{Charge: &negative}); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}
