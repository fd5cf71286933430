package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"invoice-backend/internal/handlers"
	"invoice-backend/internal/middleware"
)

// NewRouter wires every route. authMiddleware may be nil, in which case the API is open.
func NewRouter(
	personHandler *handlers.PersonHandler,
	itemHandler *handlers.ItemHandler,
	invoiceHandler *handlers.InvoiceHandler,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.MetricsMiddleware)

	// Health and metrics
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.DetailedHealth).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Public HTML pages and documents
	r.HandleFunc("/invoices", invoiceHandler.InvoiceListPage).Methods("GET")
	r.HandleFunc("/invoice/{id:[0-9]+}", invoiceHandler.InvoicePage).Methods("GET")
	r.HandleFunc("/invoice/{id:[0-9]+}.pdf", invoiceHandler.ViewPDF).Methods("GET")
	r.HandleFunc("/invoice/{id:[0-9]+}/download", invoiceHandler.DownloadPDF).Methods("GET")
	r.HandleFunc("/statistics/invoices.svg", invoiceHandler.InvoiceStatistics).Methods("GET")
	r.HandleFunc("/statistics/items.svg", invoiceHandler.ItemStatistics).Methods("GET")

	if authHandler != nil {
		r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	}

	api := r.PathPrefix("/api").Subrouter()
	if authMiddleware != nil {
		api.Use(authMiddleware.RequireAuthForWrites)
	}

	// Persons
	api.HandleFunc("/persons", personHandler.ListPersons).Methods("GET")
	api.HandleFunc("/persons", personHandler.CreatePerson).Methods("POST")
	api.HandleFunc("/persons/{name}", personHandler.GetPerson).Methods("GET")
	api.HandleFunc("/persons/{name}", personHandler.DeletePerson).Methods("DELETE")

	// Items
	api.HandleFunc("/items", itemHandler.ListItems).Methods("GET")
	api.HandleFunc("/items", itemHandler.CreateItem).Methods("POST")
	api.HandleFunc("/items/unlogged", itemHandler.ListUnlogged).Methods("GET")
	api.HandleFunc("/items/{code}", itemHandler.GetItem).Methods("GET")
	api.HandleFunc("/items/{code}", itemHandler.UpdateItem).Methods("PATCH")
	api.HandleFunc("/items/{code}", itemHandler.DeleteItem).Methods("DELETE")

	// Invoices
	api.HandleFunc("/invoices", invoiceHandler.ListInvoices).Methods("GET")
	api.HandleFunc("/invoices", invoiceHandler.CreateInvoice).Methods("POST")
	api.HandleFunc("/invoices/{id:[0-9]+}", invoiceHandler.GetInvoice).Methods("GET")
	api.HandleFunc("/invoices/{id:[0-9]+}", invoiceHandler.DeleteInvoice).Methods("DELETE")
	api.HandleFunc("/invoices/{id:[0-9]+}/email", invoiceHandler.EmailInvoice).Methods("POST")
	api.HandleFunc("/invoices/{id:[0-9]+}/payment-link", invoiceHandler.CreatePaymentLink).Methods("POST")

	return r
}

// Wrap applies the middleware that must run outside route matching.
func Wrap(r *mux.Router, cors func(http.Handler) http.Handler) http.Handler {
	return middleware.RequestLogging(middleware.PanicRecovery(cors(r)))
}
