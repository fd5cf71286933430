package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"invoice-backend/internal/mailer"
	"invoice-backend/internal/models"
	"invoice-backend/internal/repositories"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type fakePersons struct {
	persons map[string]models.Person
}

func newFakePersons(names ...string) *fakePersons {
	f := &fakePersons{persons: map[string]models.Person{}}
	for _, name := range names {
		f.persons[name] = models.Person{Name: name, Email: name + "@example.com"}
	}
	return f
}

func (f *fakePersons) Create(ctx context.Context, p *models.Person) (*models.Person, error) {
	if _, ok := f.persons[p.Name]; ok {
		return nil, repositories.ErrDuplicate
	}
	f.persons[p.Name] = *p
	created := *p
	return &created, nil
}

func (f *fakePersons) Get(ctx context.Context, name string) (*models.Person, error) {
	p, ok := f.persons[name]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &p, nil
}

func (f *fakePersons) List(ctx context.Context) ([]*models.Person, error) {
	var out []*models.Person
	for _, p := range f.persons {
		p := p
		out = append(out, &p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakePersons) Delete(ctx context.Context, name string) error {
	if _, ok := f.persons[name]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.persons, name)
	return nil
}

type fakeItems struct {
	items   map[string]models.Item
	nextID  int
	updates []models.ItemUpdate
}

func newFakeItems() *fakeItems {
	return &fakeItems{items: map[string]models.Item{}}
}

func (f *fakeItems) add(date time.Time, charge string) models.Item {
	item, _ := f.Create(context.Background(), date, "work", decimal.RequireFromString(charge))
	return *item
}

func (f *fakeItems) Create(ctx context.Context, date time.Time, description string, charge decimal.Decimal) (*models.Item, error) {
	f.nextID++
	item := models.Item{Code: fmt.Sprintf("I%03d", f.nextID), Date: date, Description: description, Charge: charge}
	f.items[item.Code] = item
	return &item, nil
}

func (f *fakeItems) Get(ctx context.Context, code string) (*models.Item, error) {
	item, ok := f.items[code]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return &item, nil
}

func (f *fakeItems) Update(ctx context.Context, code string, u models.ItemUpdate) (*models.Item, error) {
	item, ok := f.items[code]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	f.updates = append(f.updates, u)
	if u.Date != nil {
		item.Date = *u.Date
	}
	if u.Description != nil {
		item.Description = *u.Description
	}
	if u.Charge != nil {
		item.Charge = *u.Charge
	}
	f.items[code] = item
	return &item, nil
}

func (f *fakeItems) Delete(ctx context.Context, code string) error {
	if _, ok := f.items[code]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.items, code)
	return nil
}

func (f *fakeItems) List(ctx context.Context) ([]*models.Item, error) {
	var out []*models.Item
	for _, item := range f.items {
		item := item
		out = append(out, &item)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (f *fakeItems) ListUnlogged(ctx context.Context) ([]*models.Item, error) {
	return f.List(ctx)
}

type fakeInvoice struct {
	invoice models.Invoice
	codes   []string
}

type fakeInvoices struct {
	persons  *fakePersons
	items    *fakeItems
	invoices map[int]*fakeInvoice
	next     int
}

func newFakeInvoices(persons *fakePersons, items *fakeItems) *fakeInvoices {
	return &fakeInvoices{persons: persons, items: items, invoices: map[int]*fakeInvoice{}}
}

func (f *fakeInvoices) Create(ctx context.Context, date time.Time, payer, payee string, codes []string) (*models.Invoice, error) {
	for _, name := range []string{payer, payee} {
		if _, ok := f.persons.persons[name]; !ok {
			return nil, repositories.ErrPersonNotFound
		}
	}
	for _, code := range codes {
		if _, ok := f.items.items[code]; !ok {
			return nil, repositories.ErrItemNotFound
		}
	}
	f.next++
	f.invoices[f.next] = &fakeInvoice{
		invoice: models.Invoice{Number: f.next, Date: date, Payer: f.persons.persons[payer], Payee: f.persons.persons[payee]},
		codes:   codes,
	}
	return f.Get(ctx, f.next)
}

func (f *fakeInvoices) Get(ctx context.Context, number int) (*models.Invoice, error) {
	stored, ok := f.invoices[number]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	inv := stored.invoice
	inv.Amount = decimal.Zero
	for _, code := range stored.codes {
		inv.Amount = inv.Amount.Add(f.items.items[code].Charge)
	}
	return &inv, nil
}

func (f *fakeInvoices) List(ctx context.Context) ([]*models.Invoice, error) {
	var out []*models.Invoice
	for number := 1; number <= f.next; number++ {
		if inv, err := f.Get(ctx, number); err == nil {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (f *fakeInvoices) Items(ctx context.Context, number int) ([]*models.Item, error) {
	stored, ok := f.invoices[number]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	var out []*models.Item
	for _, code := range stored.codes {
		item := f.items.items[code]
		out = append(out, &item)
	}
	return out, nil
}

func (f *fakeInvoices) Delete(ctx context.Context, number int) error {
	if _, ok := f.invoices[number]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.invoices, number)
	return nil
}

type fakeStore struct {
	data   map[string][]byte
	types  map[string]string
	delErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	f.data[key] = data
	f.types[key] = contentType
	return nil
}

func (f *fakeStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, ok := f.data[key]
	if !ok {
		return nil, fmt.Errorf("%s: not stored", key)
	}
	return data, nil
}

func (f *fakeStore) Delete(ctx context.Context, key string) error {
	if f.delErr != nil {
		return f.delErr
	}
	delete(f.data, key)
	return nil
}

type fakeMailer struct {
	sent []*mailer.Message
	err  error
}

func (f *fakeMailer) Send(ctx context.Context, msg *mailer.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakeLinker struct {
	calls int
	err   error
}

func (f *fakeLinker) CreateLink(ctx context.Context, inv *models.Invoice) (*models.PaymentLink, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &models.PaymentLink{InvoiceNumber: inv.Number, ID: "plink", URL: "https://pay.example.com/" + inv.Name(), Amount: inv.Amount}, nil
}
