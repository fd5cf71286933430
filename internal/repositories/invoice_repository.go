package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"invoice-backend/internal/database"
	"invoice-backend/internal/models"
)

// invoiceSelect loads an invoice with both persons resolved. The amount is summed from
// the linked items on every read and never stored.
const invoiceSelect = `
	SELECT i.invoice_number, i.date,
	       payer.person_name, payer.address, payer.email,
	       payee.person_name, payee.address, payee.email,
	       COALESCE((SELECT SUM(it.charge)
	                 FROM invoice_items l
	                 JOIN items it ON it.item_code = l.item_code
	                 WHERE l.invoice_number = i.invoice_number), 0) AS amount
	FROM invoices i
	JOIN persons payer ON payer.person_name = i.payer
	JOIN persons payee ON payee.person_name = i.payee`

type InvoiceRepository struct {
	DB *pgxpool.Pool
}

func NewInvoiceRepository(db *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{DB: db}
}

// Create numbers and stores an invoice and links the given items to it. Nothing is
// written when a person or item does not exist.
func (r *InvoiceRepository) Create(ctx context.Context, date time.Time, payer, payee string, itemCodes []string) (*models.Invoice, error) {
	var invoice *models.Invoice
	err := database.WithSession(ctx, r.DB, func(s *database.Session) error {
		// Serializes numbering between concurrent creators; plain reads still proceed
		if _, err := s.Exec(ctx, `LOCK TABLE invoices IN SHARE ROW EXCLUSIVE MODE`); err != nil {
			return fmt.Errorf("lock invoices: %w", err)
		}

		var number int
		if err := s.QueryRow(ctx, `SELECT COALESCE(MAX(invoice_number), 0) + 1 FROM invoices`).Scan(&number); err != nil {
			return fmt.Errorf("next invoice number: %w", err)
		}

		for _, name := range []string{payer, payee} {
			exists, err := s.Exists(ctx, "persons", database.Filters{"person_name": name})
			if err != nil {
				return err
			}
			if !exists {
				return fmt.Errorf("%q: %w", name, ErrPersonNotFound)
			}
		}

		if _, err := s.Exec(ctx,
			`INSERT INTO invoices(invoice_number, date, payer, payee) VALUES($1, $2, $3, $4)`,
			number, date, payer, payee); err != nil {
			return err
		}

		for _, code := range itemCodes {
			exists, err := s.Exists(ctx, "items", database.Filters{"item_code": code})
			if err != nil {
				return err
			}
			if !exists {
				return fmt.Errorf("%q: %w", code, ErrItemNotFound)
			}
			if _, err := s.Exec(ctx,
				`INSERT INTO invoice_items(item_code, invoice_number) VALUES($1, $2)
				 ON CONFLICT DO NOTHING`,
				code, number); err != nil {
				return err
			}
		}

		var err error
		invoice, err = getInvoice(ctx, s, number)
		return err
	})
	if err != nil {
		return nil, err
	}
	return invoice, nil
}

func (r *InvoiceRepository) Get(ctx context.Context, number int) (*models.Invoice, error) {
	var invoice *models.Invoice
	err := database.WithSession(ctx, r.DB, func(s *database.Session) error {
		var err error
		invoice, err = getInvoice(ctx, s, number)
		return err
	})
	return invoice, err
}

// List returns every invoice ordered by number.
func (r *InvoiceRepository) List(ctx context.Context) ([]*models.Invoice, error) {
	var invoices []*models.Invoice
	err := database.WithSession(ctx, r.DB, func(s *database.Session) error {
		rows, err := s.Rows(ctx, invoiceSelect+` ORDER BY i.invoice_number`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			invoice, err := scanInvoice(rows)
			if err != nil {
				return err
			}
			invoices = append(invoices, invoice)
		}
		return rows.Err()
	})
	return invoices, err
}

// Items returns the items linked to an invoice, earliest first.
func (r *InvoiceRepository) Items(ctx context.Context, number int) ([]*models.Item, error) {
	var items []*models.Item
	err := database.WithSession(ctx, r.DB, func(s *database.Session) error {
		exists, err := s.Exists(ctx, "invoices", database.Filters{"invoice_number": number})
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("invoice %d: %w", number, ErrNotFound)
		}

		items, err = queryItems(ctx, s,
			`SELECT it.item_code, it.date, it.description, it.charge
			 FROM invoice_items l
			 JOIN items it ON it.item_code = l.item_code
			 WHERE l.invoice_number = $1
			 ORDER BY it.date, it.item_code`, number)
		return err
	})
	return items, err
}

// Delete removes the invoice and its links. The linked items are kept and become unlogged.
func (r *InvoiceRepository) Delete(ctx context.Context, number int) error {
	return database.WithSession(ctx, r.DB, func(s *database.Session) error {
		if _, err := s.Exec(ctx, `DELETE FROM invoice_items WHERE invoice_number=$1`, number); err != nil {
			return err
		}
		tag, err := s.Exec(ctx, `DELETE FROM invoices WHERE invoice_number=$1`, number)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("invoice %d: %w", number, ErrNotFound)
		}
		return nil
	})
}

func getInvoice(ctx context.Context, s *database.Session, number int) (*models.Invoice, error) {
	invoice, err := scanInvoice(s.QueryRow(ctx, invoiceSelect+` WHERE i.invoice_number=$1`, number))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("invoice %d: %w", number, ErrNotFound)
	}
	return invoice, err
}

func scanInvoice(row pgx.Row) (*models.Invoice, error) {
	var inv models.Invoice
	err := row.Scan(&inv.Number, &inv.Date,
		&inv.Payer.Name, &inv.Payer.Address, &inv.Payer.Email,
		&inv.Payee.Name, &inv.Payee.Address, &inv.Payee.Email,
		&inv.Amount)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}
