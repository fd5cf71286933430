// Package render turns loaded invoices into HTML pages and PDF documents.
package render

import (
	"time"

	"invoice-backend/internal/models"
	"invoice-backend/internal/timeutil"
)

// Biller is the business issuing invoices, printed in every document header.
type Biller struct {
	Name    string
	Address string
	Email   string
	Bank    string
}

// InvoiceData is everything needed to render one invoice.
type InvoiceData struct {
	Invoice    *models.Invoice
	Items      []models.Item
	Biller     Biller
	PaymentURL string // printed as a "Pay online" link in the emailed PDF
}

func formatDate(t time.Time) string {
	return t.Format(timeutil.DisplayLayout)
}
