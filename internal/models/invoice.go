package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Invoice links a payer and payee to a set of items. Amount is derived from the linked
// items every time the invoice is loaded.
type Invoice struct {
	Number int             `json:"number"`
	Date   time.Time       `json:"date"`
	Payer  Person          `json:"payer"`
	Payee  Person          `json:"payee"`
	Amount decimal.Decimal `json:"amount"`
}

// Name is the zero-padded display number, e.g. "0042".
func (i *Invoice) Name() string {
	return fmt.Sprintf("%04d", i.Number)
}

// PDFKey is the artifact key of the generated PDF.
func (i *Invoice) PDFKey() string {
	return PDFKey(i.Number)
}

// PDFKey is the artifact key of the PDF generated for invoice number.
func PDFKey(number int) string {
	return fmt.Sprintf("invoices/%d.pdf", number)
}

// InvoiceWithItems is an invoice together with its resolved items.
type InvoiceWithItems struct {
	Invoice
	Items []Item `json:"items"`
}

// CreateInvoiceRequest represents the request to create an invoice.
// Date is formatted as YYYY-MM-DD; Items lists item codes.
type CreateInvoiceRequest struct {
	Date  string   `json:"date"`
	Payer string   `json:"payer"`
	Payee string   `json:"payee"`
	Items []string `json:"items"`
}

// EmailInvoiceRequest carries the plain text body of an invoice email.
type EmailInvoiceRequest struct {
	Body string `json:"body"`
}

// PaymentLink is a hosted payment page for an invoice.
type PaymentLink struct {
	InvoiceNumber int             `json:"invoice_number"`
	ID            string          `json:"id"`
	URL           string          `json:"url"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
}
