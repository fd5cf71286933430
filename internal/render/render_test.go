package render

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"invoice-backend/internal/models"
)

func sampleInvoice() *InvoiceData {
	return &InvoiceData{
		Invoice: &models.Invoice{
			Number: 7,
			Date:   time.Date(2001, 2, 3, 0, 0, 0, 0, time.UTC),
			Payer:  models.Person{Name: "Acme <Corp>", Address: "1 Road", Email: "payer@example.com"},
			Payee:  models.Person{Name: "Jane Consultant", Address: "2 Lane", Email: "payee@example.com"},
			Amount: decimal.RequireFromString("15.5"),
		},
		Items: []models.Item{
			{Code: "AB12", Date: time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC), Description: "Design work", Charge: decimal.NewFromInt(10)},
			{Code: "CD34", Date: time.Date(2001, 1, 2, 0, 0, 0, 0, time.UTC), Description: "Café meeting", Charge: decimal.RequireFromString("5.5")},
		},
		Biller:     Biller{Name: "Jane Consultant Ltd", Address: "2 Lane", Bank: "IBAN 0000"},
		PaymentURL: "https://pay.example.com/abc",
	}
}

func TestHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := HTML(&buf, sampleInvoice()); err != nil {
		t.Fatalf("HTML failed: %v", err)
	}
	page := buf.String()

	for _, want := range []string{
		"Invoice #0007",
		"03 Feb 2001",
		"AB12",
		"Design work",
		"10.00",
		"15.50",
		"IBAN 0000",
		`href="/invoice/7.pdf"`,
		"Acme &lt;Corp&gt;",
	} {
		if !strings.Contains(page, want) {
			t.Errorf("expected page to contain %q", want)
		}
	}
	if strings.Contains(page, "Acme <Corp>") {
		t.Error("expected person names to be escaped")
	}
}

func TestInvoiceList(t *testing.T) {
	t.Run("with invoices", func(t *testing.T) {
		var buf bytes.Buffer
		err := InvoiceList(&buf, []*models.Invoice{sampleInvoice().Invoice})
		if err != nil {
			t.Fatalf("InvoiceList failed: %v", err)
		}
		if !strings.Contains(buf.String(), `<a href="/invoice/7">0007</a>`) {
			t.Errorf("expected link to invoice 7, got:\n%s", buf.String())
		}
	})

	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		if err := InvoiceList(&buf, nil); err != nil {
			t.Fatalf("InvoiceList failed: %v", err)
		}
		if !strings.Contains(buf.String(), "No invoices yet") {
			t.Error("expected empty placeholder")
		}
	})
}

func TestPDF(t *testing.T) {
	data, err := PDF(sampleInvoice())
	if err != nil {
		t.Fatalf("PDF failed: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Errorf("expected PDF header, got %q", data[:min(len(data), 8)])
	}

	empty := sampleInvoice()
	empty.Items = nil
	empty.Biller = Biller{}
	empty.PaymentURL = ""
	if _, err := PDF(empty); err != nil {
		t.Errorf("PDF without items failed: %v", err)
	}
}
