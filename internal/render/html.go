package render

import (
	"embed"
	"html/template"
	"io"

	"invoice-backend/internal/models"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"date": formatDate,
}).ParseFS(templateFS, "templates/*.html"))

// HTML writes the invoice page.
func HTML(w io.Writer, data *InvoiceData) error {
	return templates.ExecuteTemplate(w, "invoice.html", data)
}

// InvoiceList writes the page listing every invoice.
func InvoiceList(w io.Writer, invoices []*models.Invoice) error {
	return templates.ExecuteTemplate(w, "invoices.html", invoices)
}
