package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"invoice-backend/internal/models"
	"invoice-backend/internal/services"
	"invoice-backend/pkg/utils"
)

type InvoiceService interface {
	CreateInvoice(ctx context.Context, req *models.CreateInvoiceRequest) (*models.Invoice, error)
	GetInvoiceWithItems(ctx context.Context, number int) (*models.InvoiceWithItems, error)
	ListInvoices(ctx context.Context) ([]*models.Invoice, error)
	DeleteInvoice(ctx context.Context, number int) error
	Email(ctx context.Context, number int, body string) error
	PaymentLink(ctx context.Context, number int) (*models.PaymentLink, error)
	PDF(ctx context.Context, number int) (*services.Document, error)
	Download(ctx context.Context, number int) (*services.Document, error)
	HTML(ctx context.Context, number int) ([]byte, error)
	ListHTML(ctx context.Context) ([]byte, error)
	Statistics(ctx context.Context) ([]byte, error)
	ItemStatistics(ctx context.Context) ([]byte, error)
}

type InvoiceHandler struct {
	Service InvoiceService
}

func NewInvoiceHandler(s InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{Service: s}
}

func (h *InvoiceHandler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req models.CreateInvoiceRequest
	if !decode(w, r, &req) {
		return
	}

	invoice, err := h.Service.CreateInvoice(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, invoice)
}

func (h *InvoiceHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	number, ok := invoiceNumber(w, r)
	if !ok {
		return
	}

	invoice, err := h.Service.GetInvoiceWithItems(r.Context(), number)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusOK, invoice)
}

func (h *InvoiceHandler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.Service.ListInvoices(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if invoices == nil {
		invoices = []*models.Invoice{}
	}
	utils.JSON(w, http.StatusOK, invoices)
}

func (h *InvoiceHandler) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	number, ok := invoiceNumber(w, r)
	if !ok {
		return
	}

	if err := h.Service.DeleteInvoice(r.Context(), number); err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("Invoice deleted", "invoice", number, "by", actor(r))
	w.WriteHeader(http.StatusNoContent)
}

// EmailInvoice sends the invoice PDF to the payer. An empty request body is allowed.
func (h *InvoiceHandler) EmailInvoice(w http.ResponseWriter, r *http.Request) {
	number, ok := invoiceNumber(w, r)
	if !ok {
		return
	}

	var req models.EmailInvoiceRequest
	if r.ContentLength != 0 && !decode(w, r, &req) {
		return
	}

	if err := h.Service.Email(r.Context(), number, req.Body); err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusAccepted, map[string]string{"status": "sent"})
}

func (h *InvoiceHandler) CreatePaymentLink(w http.ResponseWriter, r *http.Request) {
	number, ok := invoiceNumber(w, r)
	if !ok {
		return
	}

	link, err := h.Service.PaymentLink(r.Context(), number)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSON(w, http.StatusCreated, link)
}

// ViewPDF serves the PDF inline for the browser viewer.
func (h *InvoiceHandler) ViewPDF(w http.ResponseWriter, r *http.Request) {
	h.serveDocument(w, r, h.Service.PDF)
}

// DownloadPDF serves the PDF as an attachment.
func (h *InvoiceHandler) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	h.serveDocument(w, r, h.Service.Download)
}

func (h *InvoiceHandler) serveDocument(w http.ResponseWriter, r *http.Request, build func(context.Context, int) (*services.Document, error)) {
	number, ok := invoiceNumber(w, r)
	if !ok {
		return
	}

	doc, err := build(r.Context(), number)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", doc.ContentDisposition())
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(doc.Data)
}

func (h *InvoiceHandler) InvoicePage(w http.ResponseWriter, r *http.Request) {
	number, ok := invoiceNumber(w, r)
	if !ok {
		return
	}

	page, err := h.Service.HTML(r.Context(), number)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeBytes(w, "text/html; charset=utf-8", page)
}

func (h *InvoiceHandler) InvoiceListPage(w http.ResponseWriter, r *http.Request) {
	page, err := h.Service.ListHTML(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeBytes(w, "text/html; charset=utf-8", page)
}

func (h *InvoiceHandler) InvoiceStatistics(w http.ResponseWriter, r *http.Request) {
	h.serveSVG(w, r, h.Service.Statistics)
}

func (h *InvoiceHandler) ItemStatistics(w http.ResponseWriter, r *http.Request) {
	h.serveSVG(w, r, h.Service.ItemStatistics)
}

func (h *InvoiceHandler) serveSVG(w http.ResponseWriter, r *http.Request, draw func(context.Context) ([]byte, error)) {
	svg, err := draw(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", "no-cache")
	writeBytes(w, "image/svg+xml", svg)
}

func writeBytes(w http.ResponseWriter, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
