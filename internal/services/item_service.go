package services

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"invoice-backend/internal/cache"
	"invoice-backend/internal/models"
	"invoice-backend/internal/timeutil"
)

// ItemStore is the persistence ItemService relies on.
type ItemStore interface {
	Create(ctx context.Context, date time.Time, description string, charge decimal.Decimal) (*models.Item, error)
	Get(ctx context.Context, code string) (*models.Item, error)
	Update(ctx context.Context, code string, u models.ItemUpdate) (*models.Item, error)
	Delete(ctx context.Context, code string) error
	List(ctx context.Context) ([]*models.Item, error)
	ListUnlogged(ctx context.Context) ([]*models.Item, error)
}

type ItemService struct {
	Repo ItemStore
}

func NewItemService(repo ItemStore) *ItemService {
	return &ItemService{Repo: repo}
}

// CreateItem logs an item. A missing date means today.
func (s *ItemService) CreateItem(ctx context.Context, req *models.CreateItemRequest) (*models.Item, error) {
	date := timeutil.Today()
	if req.Date != "" {
		var err error
		if date, err = timeutil.ParseDate(req.Date); err != nil {
			return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
		}
	}
	if req.Charge.IsNegative() {
		return nil, fmt.Errorf("%w: charge cannot be negative", ErrInvalidInput)
	}

	item, err := s.Repo.Create(ctx, date, req.Description, req.Charge)
	if err != nil {
		return nil, err
	}
	cache.InvalidateItemCaches(ctx)
	return item, nil
}

func (s *ItemService) GetItem(ctx context.Context, code string) (*models.Item, error) {
	return s.Repo.Get(ctx, code)
}

// UpdateItem changes only the fields present in req.
func (s *ItemService) UpdateItem(ctx context.Context, code string, req *models.UpdateItemRequest) (*models.Item, error) {
	var u models.ItemUpdate
	if req.Date != nil {
		date, err := timeutil.ParseDate(*req.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
		}
		u.Date = &date
	}
	if req.Charge != nil && req.Charge.IsNegative() {
		return nil, fmt.Errorf("%w: charge cannot be negative", ErrInvalidInput)
	}
	u.Description = req.Description
	u.Charge = req.Charge

	item, err := s.Repo.Update(ctx, code, u)
	if err != nil {
		return nil, err
	}
	if !u.Empty() {
		// item charges feed invoice amounts too
		cache.InvalidateItemCaches(ctx)
		cache.InvalidateInvoiceCaches(ctx)
	}
	return item, nil
}

func (s *ItemService) DeleteItem(ctx context.Context, code string) error {
	if err := s.Repo.Delete(ctx, code); err != nil {
		return err
	}
	cache.InvalidateItemCaches(ctx)
	return nil
}

func (s *ItemService) ListItems(ctx context.Context) ([]*models.Item, error) {
	return s.Repo.List(ctx)
}

// ListUnlogged returns items not yet billed on any invoice.
func (s *ItemService) ListUnlogged(ctx context.Context) ([]*models.Item, error) {
	return s.Repo.ListUnlogged(ctx)
}
