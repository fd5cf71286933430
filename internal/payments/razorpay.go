// Package payments creates hosted payment links for invoices through Razorpay.
package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/shopspring/decimal"

	"invoice-backend/internal/config"
	"invoice-backend/internal/models"
)

// ErrDisabled is returned when no Razorpay keys are configured.
var ErrDisabled = errors.New("online payments are not configured")

// LinkAPI is the payment link resource of the Razorpay client.
type LinkAPI interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

type Razorpay struct {
	links    LinkAPI
	currency string
	now      func() time.Time
}

// NewRazorpay returns nil when payments are disabled in cfg.
func NewRazorpay(cfg *config.Config) *Razorpay {
	if !cfg.PaymentsEnabled() {
		return nil
	}
	client := razorpay.NewClient(cfg.Payments.KeyID, cfg.Payments.KeySecret)
	return NewWithLinks(client.PaymentLink, cfg.Payments.Currency)
}

func NewWithLinks(links LinkAPI, currency string) *Razorpay {
	return &Razorpay{links: links, currency: currency, now: time.Now}
}

// CreateLink asks Razorpay for a payment page collecting the invoice amount from the payer.
func (r *Razorpay) CreateLink(ctx context.Context, inv *models.Invoice) (*models.PaymentLink, error) {
	if r == nil {
		return nil, ErrDisabled
	}
	if !inv.Amount.IsPositive() {
		return nil, fmt.Errorf("invoice %s has nothing to pay", inv.Name())
	}

	// Razorpay amounts are in the currency's minor unit (paise)
	minor := inv.Amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()

	data := map[string]interface{}{
		"amount":       minor,
		"currency":     r.currency,
		"description":  "Invoice " + inv.Name(),
		"reference_id": fmt.Sprintf("INV-%s-%d", inv.Name(), r.now().Unix()),
		"customer": map[string]interface{}{
			"name":  inv.Payer.Name,
			"email": inv.Payer.Email,
		},
		"notify": map[string]interface{}{
			"email": false,
			"sms":   false,
		},
		"notes": map[string]interface{}{
			"invoice_number": inv.Number,
			"payee":          inv.Payee.Name,
		},
	}

	resp, err := r.links.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create razorpay payment link: %w", err)
	}

	id, _ := resp["id"].(string)
	url, _ := resp["short_url"].(string)
	if id == "" || url == "" {
		return nil, fmt.Errorf("unexpected razorpay response for invoice %s", inv.Name())
	}

	return &models.PaymentLink{
		InvoiceNumber: inv.Number,
		ID:            id,
		URL:           url,
		Amount:        inv.Amount,
		Currency:      r.currency,
	}, nil
}
