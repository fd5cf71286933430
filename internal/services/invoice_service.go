package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"invoice-backend/internal/cache"
	"invoice-backend/internal/mailer"
	"invoice-backend/internal/metrics"
	"invoice-backend/internal/models"
	"invoice-backend/internal/payments"
	"invoice-backend/internal/plot"
	"invoice-backend/internal/render"
	"invoice-backend/internal/storage"
	"invoice-backend/internal/timeutil"
)

// Artifact keys of the statistics plots
const (
	InvoiceStatisticsKey = "statistics/invoices.svg"
	ItemStatisticsKey    = "statistics/items.svg"
)

// InvoiceStore is the persistence InvoiceService relies on.
type InvoiceStore interface {
	Create(ctx context.Context, date time.Time, payer, payee string, itemCodes []string) (*models.Invoice, error)
	Get(ctx context.Context, number int) (*models.Invoice, error)
	List(ctx context.Context) ([]*models.Invoice, error)
	Items(ctx context.Context, number int) ([]*models.Item, error)
	Delete(ctx context.Context, number int) error
}

// MailSender delivers a built email.
type MailSender interface {
	Send(ctx context.Context, msg *mailer.Message) error
}

// PaymentLinker creates hosted payment pages for invoices.
type PaymentLinker interface {
	CreateLink(ctx context.Context, inv *models.Invoice) (*models.PaymentLink, error)
}

// Document is a rendered file ready to be served.
type Document struct {
	Data        []byte
	ContentType string
	Disposition string
	Filename    string
}

// ContentDisposition is the value of the Content-Disposition header.
func (d *Document) ContentDisposition() string {
	return fmt.Sprintf("%s; filename=%q", d.Disposition, d.Filename)
}

type InvoiceService struct {
	Repo     InvoiceStore
	Items    ItemStore
	Store    storage.Store
	Mailer   MailSender    // nil when SMTP is not configured
	Payments PaymentLinker // nil when online payments are disabled
	Biller   render.Biller
}

func NewInvoiceService(repo InvoiceStore, items ItemStore, store storage.Store, mail MailSender, pay PaymentLinker, biller render.Biller) *InvoiceService {
	return &InvoiceService{
		Repo:     repo,
		Items:    items,
		Store:    store,
		Mailer:   mail,
		Payments: pay,
		Biller:   biller,
	}
}

// CreateInvoice bills the given items from payee to payer. A missing date means today.
func (s *InvoiceService) CreateInvoice(ctx context.Context, req *models.CreateInvoiceRequest) (*models.Invoice, error) {
	if strings.TrimSpace(req.Payer) == "" || strings.TrimSpace(req.Payee) == "" {
		return nil, fmt.Errorf("%w: payer and payee are required", ErrInvalidInput)
	}
	date := timeutil.Today()
	if req.Date != "" {
		var err error
		if date, err = timeutil.ParseDate(req.Date); err != nil {
			return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrInvalidInput)
		}
	}

	inv, err := s.Repo.Create(ctx, date, req.Payer, req.Payee, req.Items)
	if err != nil {
		return nil, err
	}

	metrics.InvoicesCreated.Inc()
	cache.InvalidateInvoiceCaches(ctx)
	slog.Info("Invoice created", "invoice", inv.Name(), "payer", inv.Payer.Name, "amount", inv.Amount.String())
	return inv, nil
}

func (s *InvoiceService) GetInvoice(ctx context.Context, number int) (*models.Invoice, error) {
	return s.Repo.Get(ctx, number)
}

// GetInvoiceWithItems loads the invoice and its items, earliest first.
func (s *InvoiceService) GetInvoiceWithItems(ctx context.Context, number int) (*models.InvoiceWithItems, error) {
	inv, err := s.Repo.Get(ctx, number)
	if err != nil {
		return nil, err
	}
	items, err := s.InvoiceItems(ctx, number)
	if err != nil {
		return nil, err
	}
	return &models.InvoiceWithItems{Invoice: *inv, Items: items}, nil
}

func (s *InvoiceService) InvoiceItems(ctx context.Context, number int) ([]models.Item, error) {
	ptrs, err := s.Repo.Items(ctx, number)
	if err != nil {
		return nil, err
	}
	items := make([]models.Item, len(ptrs))
	for i, item := range ptrs {
		items[i] = *item
	}
	models.SortByDate(items)
	return items, nil
}

func (s *InvoiceService) ListInvoices(ctx context.Context) ([]*models.Invoice, error) {
	return s.Repo.List(ctx)
}

// DeleteInvoice removes the invoice, then its stored PDF if there is one.
func (s *InvoiceService) DeleteInvoice(ctx context.Context, number int) error {
	if err := s.Repo.Delete(ctx, number); err != nil {
		return err
	}
	cache.InvalidateInvoiceCaches(ctx)

	key := models.PDFKey(number)
	if err := s.Store.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrNotExist) {
		slog.Warn("Failed to remove invoice artifact", "key", key, "error", err)
	}
	return nil
}

// BuildPDF renders the invoice and stores the result under its PDF key.
func (s *InvoiceService) BuildPDF(ctx context.Context, number int) (*models.Invoice, []byte, error) {
	data, err := s.renderData(ctx, number)
	if err != nil {
		return nil, nil, err
	}
	pdf, err := s.buildPDF(ctx, data)
	if err != nil {
		return nil, nil, err
	}
	return data.Invoice, pdf, nil
}

func (s *InvoiceService) buildPDF(ctx context.Context, data *render.InvoiceData) ([]byte, error) {
	pdf, err := render.PDF(data)
	if err != nil {
		return nil, err
	}
	metrics.PDFsRendered.Inc()

	if err := s.Store.Put(ctx, data.Invoice.PDFKey(), pdf, "application/pdf"); err != nil {
		return nil, fmt.Errorf("store invoice %s: %w", data.Invoice.Name(), err)
	}
	return pdf, nil
}

// PDF builds the invoice for display in the browser.
func (s *InvoiceService) PDF(ctx context.Context, number int) (*Document, error) {
	return s.document(ctx, number, "inline")
}

// Download builds the invoice as a file download.
func (s *InvoiceService) Download(ctx context.Context, number int) (*Document, error) {
	return s.document(ctx, number, "attachment")
}

func (s *InvoiceService) document(ctx context.Context, number int, disposition string) (*Document, error) {
	inv, pdf, err := s.BuildPDF(ctx, number)
	if err != nil {
		return nil, err
	}
	return &Document{
		Data:        pdf,
		ContentType: "application/pdf",
		Disposition: disposition,
		Filename:    inv.Name() + ".pdf",
	}, nil
}

// HTML renders the invoice page.
func (s *InvoiceService) HTML(ctx context.Context, number int) ([]byte, error) {
	data, err := s.renderData(ctx, number)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := render.HTML(&buf, data); err != nil {
		return nil, fmt.Errorf("render invoice %s: %w", data.Invoice.Name(), err)
	}
	return buf.Bytes(), nil
}

// ListHTML renders the page listing every invoice.
func (s *InvoiceService) ListHTML(ctx context.Context) ([]byte, error) {
	invoices, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := render.InvoiceList(&buf, invoices); err != nil {
		return nil, fmt.Errorf("render invoice list: %w", err)
	}
	return buf.Bytes(), nil
}

// Email sends the invoice PDF from the payee to the payer. When online payments are
// enabled a payment link is added to both the body and the attached PDF.
func (s *InvoiceService) Email(ctx context.Context, number int, body string) error {
	if s.Mailer == nil {
		return mailer.ErrDisabled
	}
	data, err := s.renderData(ctx, number)
	if err != nil {
		return err
	}
	inv := data.Invoice
	if inv.Payer.Email == "" || inv.Payee.Email == "" {
		return fmt.Errorf("%w: payer and payee need email addresses", ErrInvalidInput)
	}

	data.PaymentURL = s.tryPaymentLink(ctx, inv)
	if data.PaymentURL != "" {
		body = strings.TrimRight(body, "\n") + "\n\nPay online: " + data.PaymentURL + "\n"
	}

	pdf, err := s.buildPDF(ctx, data)
	if err != nil {
		return err
	}

	err = s.Mailer.Send(ctx, &mailer.Message{
		From:           inv.Payee.Email,
		To:             inv.Payer.Email,
		Subject:        "Invoice " + inv.Name(),
		Body:           body,
		Attachment:     pdf,
		AttachmentName: "Invoice #" + inv.Name() + ".pdf",
	})
	if err != nil {
		metrics.EmailsSent.WithLabelValues("error").Inc()
		return err
	}

	metrics.EmailsSent.WithLabelValues("ok").Inc()
	slog.Info("Invoice emailed", "invoice", inv.Name(), "to", inv.Payer.Email)
	return nil
}

// PaymentLink creates a hosted payment page for the invoice amount.
func (s *InvoiceService) PaymentLink(ctx context.Context, number int) (*models.PaymentLink, error) {
	if s.Payments == nil {
		return nil, payments.ErrDisabled
	}
	inv, err := s.Repo.Get(ctx, number)
	if err != nil {
		return nil, err
	}
	return s.Payments.CreateLink(ctx, inv)
}

// Statistics plots invoice amounts over time.
func (s *InvoiceService) Statistics(ctx context.Context) ([]byte, error) {
	return s.statistics(ctx, cache.InvoiceStatisticsKey, InvoiceStatisticsKey, func() ([]byte, error) {
		invoices, err := s.Repo.List(ctx)
		if err != nil {
			return nil, err
		}
		sort.SliceStable(invoices, func(i, j int) bool {
			return invoices[i].Date.Before(invoices[j].Date)
		})

		points := make([]plot.Point, len(invoices))
		for i, inv := range invoices {
			points[i] = plot.Point{Date: inv.Date, Value: inv.Amount.InexactFloat64()}
		}
		return plot.SVG("Invoices", "Invoice Amounts", points)
	})
}

// ItemStatistics plots item charges over time.
func (s *InvoiceService) ItemStatistics(ctx context.Context) ([]byte, error) {
	return s.statistics(ctx, cache.ItemStatisticsKey, ItemStatisticsKey, func() ([]byte, error) {
		ptrs, err := s.Items.List(ctx)
		if err != nil {
			return nil, err
		}
		items := make([]models.Item, len(ptrs))
		for i, item := range ptrs {
			items[i] = *item
		}
		models.SortByDate(items)

		points := make([]plot.Point, len(items))
		for i, item := range items {
			points[i] = plot.Point{Date: item.Date, Value: item.Charge.InexactFloat64()}
		}
		return plot.SVG("Items", "Item Charges", points)
	})
}

func (s *InvoiceService) statistics(ctx context.Context, cacheKey, artifactKey string, draw func() ([]byte, error)) ([]byte, error) {
	if svg, ok := cache.GetCached(ctx, cacheKey); ok {
		metrics.StatisticsCacheHits.WithLabelValues("hit").Inc()
		return svg, nil
	}
	metrics.StatisticsCacheHits.WithLabelValues("miss").Inc()

	svg, err := draw()
	if err != nil {
		return nil, err
	}
	if err := s.Store.Put(ctx, artifactKey, svg, "image/svg+xml"); err != nil {
		return nil, fmt.Errorf("store %s: %w", artifactKey, err)
	}
	cache.SetCached(ctx, cacheKey, svg)
	return svg, nil
}

func (s *InvoiceService) renderData(ctx context.Context, number int) (*render.InvoiceData, error) {
	inv, err := s.Repo.Get(ctx, number)
	if err != nil {
		return nil, err
	}
	items, err := s.InvoiceItems(ctx, number)
	if err != nil {
		return nil, err
	}
	return &render.InvoiceData{Invoice: inv, Items: items, Biller: s.Biller}, nil
}

// tryPaymentLink returns "" when payments are off or the link could not be created.
func (s *InvoiceService) tryPaymentLink(ctx context.Context, inv *models.Invoice) string {
	if s.Payments == nil || !inv.Amount.IsPositive() {
		return ""
	}
	link, err := s.Payments.CreateLink(ctx, inv)
	if err != nil {
		slog.Warn("Payment link unavailable", "invoice", inv.Name(), "error", err)
		return ""
	}
	return link.URL
}
