package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/shopdesk-api/internal/domain/entity"
	"github.com/sangkips/shopdesk-api/internal/domain/enum"
	"github.com/sangkips/shopdesk-api/internal/domain/repository"
	"github.com/sangkips/shopdesk-api/pkg/email"
	"github.com/sangkips/shopdesk-api/pkg/lock"
	"github.com/sangkips/shopdesk-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var fixedNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func ptr[T any](v T) *T { return &v }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// --- shops ---

type fakeShopRepo struct {
	shops map[uuid.UUID]entity.Shop
}

func newFakeShopRepo(shops ...entity.Shop) *fakeShopRepo {
	r := &fakeShopRepo{shops: make(map[uuid.UUID]entity.Shop)}
	for _, s := range shops {
		r.shops[s.ID] = s
	}
	return r
}

func (r *fakeShopRepo) Create(_ context.Context, shop *entity.Shop) error {
	if shop.ID == uuid.Nil {
		shop.ID = uuid.New()
	}
	r.shops[shop.ID] = *shop
	return nil
}

func (r *fakeShopRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Shop, error) {
	s, ok := r.shops[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *fakeShopRepo) GetByUsername(_ context.Context, username string) (*entity.Shop, error) {
	for _, s := range r.shops {
		if s.Username == username {
			s := s
			return &s, nil
		}
	}
	return nil, nil
}

func (r *fakeShopRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]entity.Shop, error) {
	var out []entity.Shop
	for _, id := range ids {
		if s, ok := r.shops[id]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeShopRepo) Update(_ context.Context, shop *entity.Shop) error {
	r.shops[shop.ID] = *shop
	return nil
}

func (r *fakeShopRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.shops, id)
	return nil
}

func (r *fakeShopRepo) List(_ context.Context, _ *pagination.PaginationParams, filter repository.ShopFilter) ([]entity.Shop, int64, error) {
	var out []entity.Shop
	for _, s := range r.shops {
		if filter.District != "" && s.District != filter.District {
			continue
		}
		out = append(out, s)
	}
	return out, int64(len(out)), nil
}

// --- bills ---

type fakeBillRepo struct {
	bills map[uuid.UUID]entity.Bill
}

func newFakeBillRepo(bills ...entity.Bill) *fakeBillRepo {
	r := &fakeBillRepo{bills: make(map[uuid.UUID]entity.Bill)}
	for _, b := range bills {
		r.bills[b.ID] = b
	}
	return r
}

func (r *fakeBillRepo) Create(_ context.Context, bill *entity.Bill) error {
	if bill.ID == uuid.Nil {
		bill.ID = uuid.New()
	}
	r.bills[bill.ID] = *bill
	return nil
}

func (r *fakeBillRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Bill, error) {
	b, ok := r.bills[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *fakeBillRepo) GetByNumber(_ context.Context, shopID uuid.UUID, number string) (*entity.Bill, error) {
	for _, b := range r.bills {
		if b.ShopID == shopID && b.Number == number {
			b := b
			return &b, nil
		}
	}
	return nil, nil
}

func (r *fakeBillRepo) GetByIDs(_ context.Context, ids []uuid.UUID) ([]entity.Bill, error) {
	var out []entity.Bill
	for _, id := range ids {
		if b, ok := r.bills[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBillRepo) Update(_ context.Context, bill *entity.Bill) error {
	r.bills[bill.ID] = *bill
	return nil
}

func (r *fakeBillRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.bills, id)
	return nil
}

func (r *fakeBillRepo) ListByShop(_ context.Context, shopID uuid.UUID, _ *pagination.PaginationParams, _ repository.DocumentFilter) ([]entity.Bill, int64, error) {
	var out []entity.Bill
	for _, b := range r.bills {
		if b.ShopID == shopID {
			out = append(out, b)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeBillRepo) ListOutstanding(context.Context) ([]entity.Bill, error) {
	var out []entity.Bill
	for _, b := range r.bills {
		out = append(out, b)
	}
	return out, nil
}

func (r *fakeBillRepo) CountByShop(_ context.Context, shopID uuid.UUID) (int64, error) {
	var n int64
	for _, b := range r.bills {
		if b.ShopID == shopID {
			n++
		}
	}
	return n, nil
}

// --- invoices ---

type fakeInvoiceRepo struct {
	invoices map[uuid.UUID]entity.Invoice
}

func newFakeInvoiceRepo(invoices ...entity.Invoice) *fakeInvoiceRepo {
	r := &fakeInvoiceRepo{invoices: make(map[uuid.UUID]entity.Invoice)}
	for _, i := range invoices {
		r.invoices[i.ID] = i
	}
	return r
}

func (r *fakeInvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	r.invoices[inv.ID] = *inv
	return nil
}

func (r *fakeInvoiceRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Invoice, error) {
	i, ok := r.invoices[id]
	if !ok {
		return nil, nil
	}
	return &i, nil
}

func (r *fakeInvoiceRepo) GetByNumber(_ context.Context, supplierID uuid.UUID, number string) (*entity.Invoice, error) {
	for _, i := range r.invoices {
		if i.SupplierID == supplierID && i.Number == number {
			i := i
			return &i, nil
		}
	}
	return nil, nil
}

func (r *fakeInvoiceRepo) Update(_ context.Context, inv *entity.Invoice) error {
	r.invoices[inv.ID] = *inv
	return nil
}

func (r *fakeInvoiceRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.invoices, id)
	return nil
}

func (r *fakeInvoiceRepo) ListBySupplier(_ context.Context, supplierID uuid.UUID, _ *pagination.PaginationParams, _ repository.DocumentFilter) ([]entity.Invoice, int64, error) {
	var out []entity.Invoice
	for _, i := range r.invoices {
		if i.SupplierID == supplierID {
			out = append(out, i)
		}
	}
	return out, int64(len(out)), nil
}

func (r *fakeInvoiceRepo) ListOutstanding(context.Context) ([]entity.Invoice, error) {
	var out []entity.Invoice
	for _, i := range r.invoices {
		out = append(out, i)
	}
	return out, nil
}

func (r *fakeInvoiceRepo) CountBySupplier(_ context.Context, supplierID uuid.UUID) (int64, error) {
	var n int64
	for _, i := range r.invoices {
		if i.SupplierID == supplierID {
			n++
		}
	}
	return n, nil
}

// --- payments ---

type fakePaymentRepo struct {
	mu       sync.Mutex
	payments map[uuid.UUID]entity.Payment
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{payments: make(map[uuid.UUID]entity.Payment)}
}

func (r *fakePaymentRepo) Create(_ context.Context, p *entity.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.payments[p.ID] = *p
	return nil
}

func (r *fakePaymentRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.payments[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *fakePaymentRepo) Update(_ context.Context, p *entity.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payments[p.ID] = *p
	return nil
}

func (r *fakePaymentRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.payments, id)
	return nil
}

func (r *fakePaymentRepo) ListByDocument(_ context.Context, docType enum.DocumentType, docID uuid.UUID) ([]entity.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entity.Payment
	for _, p := range r.payments {
		if p.DocumentType == docType && p.DocumentID == docID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) SumByDocument(ctx context.Context, docType enum.DocumentType, docID uuid.UUID) (decimal.Decimal, error) {
	sums, err := r.SumByDocuments(ctx, docType, []uuid.UUID{docID})
	return sums[docID], err
}

func (r *fakePaymentRepo) SumByDocuments(_ context.Context, docType enum.DocumentType, docIDs []uuid.UUID) (map[uuid.UUID]decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	want := make(map[uuid.UUID]bool, len(docIDs))
	for _, id := range docIDs {
		want[id] = true
	}
	out := make(map[uuid.UUID]decimal.Decimal)
	for _, p := range r.payments {
		if p.DocumentType == docType && want[p.DocumentID] {
			out[p.DocumentID] = out[p.DocumentID].Add(p.Amount)
		}
	}
	return out, nil
}

func (r *fakePaymentRepo) CountByDocument(ctx context.Context, docType enum.DocumentType, docID uuid.UUID) (int64, error) {
	list, err := r.ListByDocument(ctx, docType, docID)
	return int64(len(list)), err
}

// --- suppliers ---

type fakeSupplierRepo struct {
	suppliers map[uuid.UUID]entity.Supplier
}

func newFakeSupplierRepo(suppliers ...entity.Supplier) *fakeSupplierRepo {
	r := &fakeSupplierRepo{suppliers: make(map[uuid.UUID]entity.Supplier)}
	for _, s := range suppliers {
		r.suppliers[s.ID] = s
	}
	return r
}

func (r *fakeSupplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.suppliers[s.ID] = *s
	return nil
}

func (r *fakeSupplierRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Supplier, error) {
	s, ok := r.suppliers[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *fakeSupplierRepo) Update(_ context.Context, s *entity.Supplier) error {
	r.suppliers[s.ID] = *s
	return nil
}

func (r *fakeSupplierRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.suppliers, id)
	return nil
}

func (r *fakeSupplierRepo) List(_ context.Context, _ *pagination.PaginationParams, _ string) ([]entity.Supplier, int64, error) {
	var out []entity.Supplier
	for _, s := range r.suppliers {
		out = append(out, s)
	}
	return out, int64(len(out)), nil
}

// --- tickets, warnings, notes, cases ---

type fakeTicketRepo struct {
	tickets map[uuid.UUID]entity.Ticket
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: make(map[uuid.UUID]entity.Ticket)}
}

func (r *fakeTicketRepo) Create(_ context.Context, t *entity.Ticket) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.tickets[t.ID] = *t
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Ticket, error) {
	t, ok := r.tickets[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *fakeTicketRepo) Update(_ context.Context, t *entity.Ticket) error {
	r.tickets[t.ID] = *t
	return nil
}

func (r *fakeTicketRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.tickets, id)
	return nil
}

func (r *fakeTicketRepo) List(_ context.Context, _ *pagination.PaginationParams, filter repository.TicketFilter) ([]entity.Ticket, int64, error) {
	var out []entity.Ticket
	for _, t := range r.tickets {
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		out = append(out, t)
	}
	return out, int64(len(out)), nil
}

type fakeWarningRepo struct {
	warnings map[uuid.UUID]entity.Warning
	shops    *fakeShopRepo
}

func newFakeWarningRepo(shops *fakeShopRepo) *fakeWarningRepo {
	return &fakeWarningRepo{warnings: make(map[uuid.UUID]entity.Warning), shops: shops}
}

func (r *fakeWarningRepo) Create(_ context.Context, w *entity.Warning) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	r.warnings[w.ID] = *w
	return nil
}

// GetByID preloads the shop like the gorm repository does.
func (r *fakeWarningRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Warning, error) {
	w, ok := r.warnings[id]
	if !ok {
		return nil, nil
	}
	w.Shop, _ = r.shops.GetByID(ctx, w.ShopID)
	return &w, nil
}

func (r *fakeWarningRepo) Update(_ context.Context, w *entity.Warning) error {
	r.warnings[w.ID] = *w
	return nil
}

func (r *fakeWarningRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.warnings, id)
	return nil
}

func (r *fakeWarningRepo) List(_ context.Context, _ *pagination.PaginationParams, _ repository.WarningFilter) ([]entity.Warning, int64, error) {
	var out []entity.Warning
	for _, w := range r.warnings {
		out = append(out, w)
	}
	return out, int64(len(out)), nil
}

type fakeNoteRepo struct {
	notes      map[uuid.UUID]entity.Note
	lastFilter repository.NoteFilter
}

func newFakeNoteRepo() *fakeNoteRepo {
	return &fakeNoteRepo{notes: make(map[uuid.UUID]entity.Note)}
}

func (r *fakeNoteRepo) Create(_ context.Context, n *entity.Note) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	r.notes[n.ID] = *n
	return nil
}

func (r *fakeNoteRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Note, error) {
	n, ok := r.notes[id]
	if !ok {
		return nil, nil
	}
	return &n, nil
}

func (r *fakeNoteRepo) Update(_ context.Context, n *entity.Note) error {
	r.notes[n.ID] = *n
	return nil
}

func (r *fakeNoteRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.notes, id)
	return nil
}

func (r *fakeNoteRepo) List(_ context.Context, _ *pagination.PaginationParams, filter repository.NoteFilter) ([]entity.Note, int64, error) {
	r.lastFilter = filter
	var out []entity.Note
	for _, n := range r.notes {
		out = append(out, n)
	}
	return out, int64(len(out)), nil
}

type fakeCaseRepo struct {
	cases map[uuid.UUID]entity.CriticalCase
}

func newFakeCaseRepo() *fakeCaseRepo {
	return &fakeCaseRepo{cases: make(map[uuid.UUID]entity.CriticalCase)}
}

func (r *fakeCaseRepo) Create(_ context.Context, c *entity.CriticalCase) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.cases[c.ID] = *c
	return nil
}

func (r *fakeCaseRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.CriticalCase, error) {
	c, ok := r.cases[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *fakeCaseRepo) Update(_ context.Context, c *entity.CriticalCase) error {
	r.cases[c.ID] = *c
	return nil
}

func (r *fakeCaseRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.cases, id)
	return nil
}

func (r *fakeCaseRepo) List(_ context.Context, _ *pagination.PaginationParams, _ repository.CriticalCaseFilter) ([]entity.CriticalCase, int64, error) {
	var out []entity.CriticalCase
	for _, c := range r.cases {
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

// --- users ---

type fakeUserRepo struct {
	users map[uuid.UUID]entity.User
}

func newFakeUserRepo(users ...entity.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[uuid.UUID]entity.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = *u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	r.users[u.ID] = *u
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.users, id)
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, _ *pagination.PaginationParams, _ string) ([]entity.User, int64, error) {
	var out []entity.User
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (r *fakeUserRepo) CountAdmins(context.Context) (int64, error) {
	var n int64
	for _, u := range r.users {
		if u.Role == enum.RoleAdmin && u.Active {
			n++
		}
	}
	return n, nil
}

type fakeResetRepo struct {
	tokens map[uuid.UUID]entity.PasswordResetToken
}

func newFakeResetRepo() *fakeResetRepo {
	return &fakeResetRepo{tokens: make(map[uuid.UUID]entity.PasswordResetToken)}
}

func (r *fakeResetRepo) Create(_ context.Context, t *entity.PasswordResetToken) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	r.tokens[t.ID] = *t
	return nil
}

func (r *fakeResetRepo) GetByTokenHash(_ context.Context, hash string) (*entity.PasswordResetToken, error) {
	for _, t := range r.tokens {
		if t.TokenHash == hash {
			t := t
			return &t, nil
		}
	}
	return nil, nil
}

func (r *fakeResetRepo) MarkUsed(_ context.Context, id uuid.UUID, at time.Time) error {
	t, ok := r.tokens[id]
	if ok {
		t.UsedAt = &at
		r.tokens[id] = t
	}
	return nil
}

func (r *fakeResetRepo) DeleteByUser(_ context.Context, userID uuid.UUID) error {
	for id, t := range r.tokens {
		if t.UserID == userID {
			delete(r.tokens, id)
		}
	}
	return nil
}

func (r *fakeResetRepo) DeleteExpired(_ context.Context, now time.Time) error {
	for id, t := range r.tokens {
		if !now.Before(t.ExpiresAt) {
			delete(r.tokens, id)
		}
	}
	return nil
}

// --- dashboard ---

type fakeDashboardRepo struct {
	calls       int
	counts      repository.Counts
	receivables repository.Outstanding
	payables    repository.Outstanding
}

func (r *fakeDashboardRepo) Counts(context.Context) (*repository.Counts, error) {
	r.calls++
	c := r.counts
	return &c, nil
}

func (r *fakeDashboardRepo) Receivables(context.Context, time.Time) (*repository.Outstanding, error) {
	o := r.receivables
	return &o, nil
}

func (r *fakeDashboardRepo) Payables(context.Context, time.Time) (*repository.Outstanding, error) {
	o := r.payables
	return &o, nil
}

// --- side effects ---

// memCache is a map backed cache.Cache that records deletes.
type memCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	deleted []string
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string][]byte)}
}

func (c *memCache) GetJSON(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *memCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = raw
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
		c.deleted = append(c.deleted, k)
	}
	return nil
}

// busyLocker never grants a lock.
type busyLocker struct{}

func (busyLocker) Obtain(context.Context, string, time.Duration) (func(), error) {
	return nil, lock.ErrNotObtained
}

type sentWarning struct {
	to  string
	msg email.WarningMessage
}

type fakeSender struct {
	err      error
	warnings []sentWarning
	resets   map[string]string
}

func (s *fakeSender) SendWarning(_ context.Context, to string, msg email.WarningMessage) error {
	if s.err != nil {
		return s.err
	}
	s.warnings = append(s.warnings, sentWarning{to: to, msg: msg})
	return nil
}

func (s *fakeSender) SendPasswordReset(_ context.Context, to, _, token string) error {
	if s.err != nil {
		return s.err
	}
	if s.resets == nil {
		s.resets = make(map[string]string)
	}
	s.resets[to] = token
	return nil
}

type memStorage struct {
	objects map[string][]byte
}

func newMemStorage() *memStorage {
	return &memStorage{objects: make(map[string][]byte)}
}

func (s *memStorage) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	s.objects[key] = data
	return "https://cdn.example.com/" + key, nil
}

func (s *memStorage) Delete(_ context.Context, key string) error {
	delete(s.objects, key)
	return nil
}

var errBoom = errors.New("boom")
