package render

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf/v2"
)

// PDF renders the invoice as an A4 document.
func PDF(data *InvoiceData) ([]byte, error) {
	inv := data.Invoice

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetTitle("Invoice "+inv.Name(), true)
	pdf.AddPage()

	// core fonts are cp1252
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, tr(data.Biller.Name), "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	if data.Biller.Address != "" {
		pdf.MultiCell(190, 5, tr(data.Biller.Address), "", "L", false)
	}
	if data.Biller.Email != "" {
		pdf.CellFormat(190, 5, tr(data.Biller.Email), "", 1, "L", false, 0, "")
	}
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(95, 8, "Invoice #"+inv.Name(), "", 0, "L", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 8, "Date: "+formatDate(inv.Date), "", 1, "R", false, 0, "")
	pdf.Ln(3)

	// Parties
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(95, 7, "Bill to", "1", 0, "L", true, 0, "")
	pdf.CellFormat(95, 7, "From", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 10)
	for _, line := range [][2]string{
		{inv.Payer.Name, inv.Payee.Name},
		{inv.Payer.Address, inv.Payee.Address},
		{inv.Payer.Email, inv.Payee.Email},
	} {
		pdf.CellFormat(95, 6, tr(line[0]), "LR", 0, "L", false, 0, "")
		pdf.CellFormat(95, 6, tr(line[1]), "LR", 1, "L", false, 0, "")
	}
	pdf.CellFormat(190, 0, "", "T", 1, "L", false, 0, "")
	pdf.Ln(5)

	// Items table
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(25, 7, "Code", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Date", "1", 0, "C", true, 0, "")
	pdf.CellFormat(100, 7, "Description", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "Charge", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, item := range data.Items {
		desc := item.Description
		if r := []rune(desc); len(r) > 60 {
			desc = string(r[:57]) + "..."
		}
		pdf.CellFormat(25, 6, item.Code, "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, formatDate(item.Date), "1", 0, "C", false, 0, "")
		pdf.CellFormat(100, 6, tr(desc), "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 6, item.Charge.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(155, 8, "Total", "1", 0, "R", true, 0, "")
	pdf.CellFormat(35, 8, inv.Amount.StringFixed(2), "1", 1, "R", true, 0, "")

	if data.Biller.Bank != "" {
		pdf.Ln(8)
		pdf.SetFont("Arial", "B", 10)
		pdf.CellFormat(190, 6, "Payment details", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(190, 5, tr(data.Biller.Bank), "", "L", false)
	}
	if data.PaymentURL != "" {
		pdf.Ln(4)
		pdf.SetFont("Arial", "U", 10)
		pdf.SetTextColor(0, 0, 200)
		pdf.CellFormat(190, 6, "Pay online", "", 1, "L", false, 0, data.PaymentURL)
		pdf.SetTextColor(0, 0, 0)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render invoice %s: %w", inv.Name(), err)
	}
	return buf.Bytes(), nil
}
