package repositories

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"invoice-backend/internal/database"
	"invoice-backend/internal/models"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 4

	// maxCodeAttempts bounds the search for a free code before giving up
	maxCodeAttempts = 64
)

const itemColumns = `item_code, date, description, charge`

type ItemRepository struct {
	DB *pgxpool.Pool

	// NewCode generates candidate item codes. Defaults to GenerateCode.
	NewCode func() (string, error)
}

func NewItemRepository(db *pgxpool.Pool) *ItemRepository {
	return &ItemRepository{DB: db, NewCode: GenerateCode}
}

// GenerateCode returns a random 4-character code from A-Z and 0-9.
func GenerateCode() (string, error) {
	max := big.NewInt(int64(len(codeAlphabet)))
	var b strings.Builder
	for i := 0; i < codeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate item code: %w", err)
		}
		b.WriteByte(codeAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// Create logs a new item under a freshly generated code.
func (r *ItemRepository) Create(ctx context.Context, date time.Time, description string, charge decimal.Decimal) (*models.Item, error) {
	var item *models.Item
	err := database.WithSession(ctx, r.DB, func(s *database.Session) error {
		for attempt := 0; attempt < maxCodeAttempts; attempt++ {
			code, err := r.NewCode()
			if err != nil {
				return err
			}

			taken, err := s.Exists(ctx, "items", database.Filters{"item_code": code})
			if err != nil {
				return err
			}
			if taken {
				continue
			}

			row := s.QueryRow(ctx,
				`INSERT INTO items(item_code, date, description, charge)
				 VALUES($1, $2, $3, $4)
				 ON CONFLICT (item_code) DO NOTHING
				 RETURNING `+itemColumns,
				code, date, description, charge)
			item, err = scanItem(row)
			if errors.Is(err, pgx.ErrNoRows) {
				// lost a race for this code
				continue
			}
			return err
		}
		return ErrCodeSpaceExhausted
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *ItemRepository) Get(ctx context.Context, code string) (*models.Item, error) {
	var item *models.Item
	err := database.WithSession(ctx, r.DB, func(s *database.Session) error {
		var err error
		item, err = getItem(ctx, s, code)
		return err
	})
	return item, err
}

// Update changes only the fields set in u and returns the stored item.
func (r *ItemRepository) Update(ctx context.Context, code string, u models.ItemUpdate) (*models.Item, error) {
	if u.Empty() {
		return r.Get(ctx, code)
	}

	var sets []string
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s=$%d", column, len(args)))
	}
	if u.Date != nil {
		add("date", *u.Date)
	}
	if u.Description != nil {
		add("description", *u.Description)
	}
	if u.Charge != nil {
		add("charge", *u.Charge)
	}
	args = append(args, code)

	query := fmt.Sprintf(`UPDATE items SET %s WHERE item_code=$%d RETURNING %s`,
		strings.Join(sets, ", "), len(args), itemColumns)

	var item *models.Item
	err := database.WithSession(ctx, r.DB, func(s *database.Session) error {
		var err error
		item, err = scanItem(s.QueryRow(ctx, query, args...))
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("item %q: %w", code, ErrNotFound)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes an item. Items linked to an invoice cannot be deleted.
func (r *ItemRepository) Delete(ctx context.Context, code string) error {
	return database.WithSession(ctx, r.DB, func(s *database.Session) error {
		tag, err := s.Exec(ctx, `DELETE FROM items WHERE item_code=$1`, code)
		if isPgError(err, foreignKeyViolation) {
			return fmt.Errorf("item %q: %w", code, ErrReferenced)
		}
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("item %q: %w", code, ErrNotFound)
		}
		return nil
	})
}

// ListUnlogged returns the items not yet attached to any invoice.
func (r *ItemRepository) ListUnlogged(ctx context.Context) ([]*models.Item, error) {
	return r.list(ctx,
		`SELECT `+itemColumns+` FROM items i
		 WHERE NOT EXISTS (SELECT 1 FROM invoice_items l WHERE l.item_code = i.item_code)
		 ORDER BY date, item_code`)
}

func (r *ItemRepository) List(ctx context.Context) ([]*models.Item, error) {
	return r.list(ctx, `SELECT `+itemColumns+` FROM items ORDER BY date, item_code`)
}

func (r *ItemRepository) list(ctx context.Context, query string, args ...any) ([]*models.Item, error) {
	var items []*models.Item
	err := database.WithSession(ctx, r.DB, func(s *database.Session) error {
		var err error
		items, err = queryItems(ctx, s, query, args...)
		return err
	})
	return items, err
}

func getItem(ctx context.Context, s *database.Session, code string) (*models.Item, error) {
	row := s.QueryRow(ctx, `SELECT `+itemColumns+` FROM items WHERE item_code=$1`, code)
	item, err := scanItem(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("item %q: %w", code, ErrNotFound)
	}
	return item, err
}

func queryItems(ctx context.Context, s *database.Session, query string, args ...any) ([]*models.Item, error) {
	rows, err := s.Rows(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanItem(row pgx.Row) (*models.Item, error) {
	var item models.Item
	if err := row.Scan(&item.Code, &item.Date, &item.Description, &item.Charge); err != nil {
		return nil, err
	}
	return &item, nil
}
