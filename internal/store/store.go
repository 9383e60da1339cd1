// Package store owns the canonical client and payment collections and all
// single-entity mutations. Every mutation persists the full snapshot through
// the configured blob backend before it is considered committed.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/paytracker/paytracker/internal/blob"
	"github.com/paytracker/paytracker/internal/domain"
	"github.com/paytracker/paytracker/internal/shared"
)

// Options configure a Store.
type Options struct {
	Blob blob.Store
	// RestrictClientDelete refuses to delete clients that still have
	// payments instead of cascading.
	RestrictClientDelete bool
	// Now overrides the clock, for tests. Defaults to time.Now.
	Now func() time.Time
}

// Store holds the in-memory collections. Access is serialized with a mutex;
// there is no finer-grained locking because the expected data volume is a
// single small business.
type Store struct {
	mu       sync.Mutex
	clients  map[string]domain.Client
	payments map[string]domain.Payment

	blob           blob.Store
	restrictDelete bool
	now            func() time.Time
}

func New(opts Options) *Store {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Store{
		clients:        make(map[string]domain.Client),
		payments:       make(map[string]domain.Payment),
		blob:           opts.Blob,
		restrictDelete: opts.RestrictClientDelete,
		now:            now,
	}
}

// Open loads the persisted snapshot, if any.
func (s *Store) Open(ctx context.Context) error {
	if s.blob == nil {
		return nil
	}
	data, err := s.blob.Load(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	if len(data) == 0 {
		return nil
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range snap.Clients {
		s.clients[c.ID] = c
	}
	for _, p := range snap.Payments {
		s.payments[p.ID] = p
	}
	return nil
}

// persistLocked serializes the current collections through the blob backend.
// Callers must hold s.mu.
func (s *Store) persistLocked(ctx context.Context) error {
	if s.blob == nil {
		return nil
	}
	data, err := json.Marshal(s.snapshotLocked())
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.blob.Save(ctx, data); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (s *Store) snapshotLocked() domain.Snapshot {
	snap := domain.Snapshot{
		Clients:  make([]domain.Client, 0, len(s.clients)),
		Payments: make([]domain.Payment, 0, len(s.payments)),
	}
	for _, c := range s.clients {
		snap.Clients = append(snap.Clients, c)
	}
	for _, p := range s.payments {
		snap.Payments = append(snap.Payments, p)
	}
	sort.Slice(snap.Clients, func(i, j int) bool { return newerFirst(snap.Clients[i].CreatedAt, snap.Clients[j].CreatedAt, snap.Clients[i].ID, snap.Clients[j].ID) })
	sort.Slice(snap.Payments, func(i, j int) bool { return newerFirst(snap.Payments[i].CreatedAt, snap.Payments[j].CreatedAt, snap.Payments[i].ID, snap.Payments[j].ID) })
	return snap
}

func newerFirst(a, b time.Time, aID, bID string) bool {
	if !a.Equal(b) {
		return a.After(b)
	}
	return aID < bID
}

// Snapshot returns a copy of the full database, newest records first.
func (s *Store) Snapshot(ctx context.Context) domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// ClientFields carries the writable fields of a client.
type ClientFields struct {
	Name    string
	Company *string
	Email   string
	Phone   *string
	Address *string
}

// ClientPatch carries a partial client update. Required fields only apply
// when present with a value; nullable fields clear on explicit null.
type ClientPatch struct {
	Name    domain.Optional[string]
	Company domain.Optional[string]
	Email   domain.Optional[string]
	Phone   domain.Optional[string]
	Address domain.Optional[string]
}

// PaymentFields carries the writable fields of a payment.
type PaymentFields struct {
	ClientID      string
	InvoiceNumber string
	Amount        domain.Money
	DueDate       time.Time
	PaidDate      *time.Time
	Status        domain.PaymentStatus
	Description   *string
}

// PaymentPatch carries a partial payment update. PaidDate keeps its
// three-way semantics: absent leaves the value, null clears it, a value
// replaces it.
type PaymentPatch struct {
	ClientID      domain.Optional[string]
	InvoiceNumber domain.Optional[string]
	Amount        domain.Optional[domain.Money]
	DueDate       domain.Optional[time.Time]
	PaidDate      domain.Optional[time.Time]
	Status        domain.Optional[domain.PaymentStatus]
	Description   domain.Optional[string]
}

// ListClients returns all clients, newest first.
func (s *Store) ListClients(ctx context.Context) []domain.Client {
	return s.Snapshot(ctx).Clients
}

// GetClient returns the client or shared.ErrNotFound.
func (s *Store) GetClient(ctx context.Context, id string) (domain.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clients[id]
	if !ok {
		return domain.Client{}, shared.ErrNotFound
	}
	return c, nil
}

func (s *Store) emailTakenLocked(email, exceptID string) bool {
	for _, c := range s.clients {
		if c.ID != exceptID && strings.EqualFold(c.Email, email) {
			return true
		}
	}
	return false
}

// CreateClient assigns an id and creation time and stores the client.
func (s *Store) CreateClient(ctx context.Context, fields ClientFields) (domain.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.emailTakenLocked(fields.Email, "") {
		return domain.Client{}, shared.ErrDuplicateEmail
	}
	client := domain.Client{
		ID:        uuid.NewString(),
		Name:      fields.Name,
		Company:   fields.Company,
		Email:     fields.Email,
		Phone:     fields.Phone,
		Address:   fields.Address,
		CreatedAt: s.now(),
	}
	s.clients[client.ID] = client
	if err := s.persistLocked(ctx); err != nil {
		delete(s.clients, client.ID)
		return domain.Client{}, err
	}
	return client, nil
}

// UpdateClient merges the patch onto an existing client.
func (s *Store) UpdateClient(ctx context.Context, id string, patch ClientPatch) (domain.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.clients[id]
	if !ok {
		return domain.Client{}, shared.ErrNotFound
	}
	updated := prev
	if patch.Name.Set && patch.Name.Valid {
		updated.Name = patch.Name.Value
	}
	if patch.Email.Set && patch.Email.Valid {
		if s.emailTakenLocked(patch.Email.Value, id) {
			return domain.Client{}, shared.ErrDuplicateEmail
		}
		updated.Email = patch.Email.Value
	}
	applyNullableString(&updated.Company, patch.Company)
	applyNullableString(&updated.Phone, patch.Phone)
	applyNullableString(&updated.Address, patch.Address)

	s.clients[id] = updated
	if err := s.persistLocked(ctx); err != nil {
		s.clients[id] = prev
		return domain.Client{}, err
	}
	return updated, nil
}

// DeleteClient removes the client. Under the default policy its payments are
// cascade-deleted; under the restrict policy the delete is refused with
// shared.ErrHasPayments while any payment references the client.
func (s *Store) DeleteClient(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.clients[id]
	if !ok {
		return shared.ErrNotFound
	}
	removed := make(map[string]domain.Payment)
	for pid, p := range s.payments {
		if p.ClientID == id {
			if s.restrictDelete {
				return shared.ErrHasPayments
			}
			removed[pid] = p
		}
	}
	for pid := range removed {
		delete(s.payments, pid)
	}
	delete(s.clients, id)
	if err := s.persistLocked(ctx); err != nil {
		s.clients[id] = prev
		for pid, p := range removed {
			s.payments[pid] = p
		}
		return err
	}
	return nil
}

// ListPayments returns all payments, newest first.
func (s *Store) ListPayments(ctx context.Context) []domain.Payment {
	return s.Snapshot(ctx).Payments
}

// GetPayment returns the payment or shared.ErrNotFound.
func (s *Store) GetPayment(ctx context.Context, id string) (domain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.payments[id]
	if !ok {
		return domain.Payment{}, shared.ErrNotFound
	}
	return p, nil
}

// PaymentsByClient returns the client's payments, newest created first.
func (s *Store) PaymentsByClient(ctx context.Context, clientID string) []domain.Payment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Payment, 0)
	for _, p := range s.payments {
		if p.ClientID == clientID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return newerFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID) })
	return out
}

// CreatePayment stores a new payment. The referenced client must exist. A
// payment submitted as pending with a due date already in the past is stored
// as overdue; this write-time classification is never re-evaluated.
func (s *Store) CreatePayment(ctx context.Context, fields PaymentFields) (domain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[fields.ClientID]; !ok {
		return domain.Payment{}, shared.ErrUnknownClient
	}
	status := fields.Status
	if status == "" {
		status = domain.PaymentPending
	}
	now := s.now()
	if status == domain.PaymentPending && fields.DueDate.Before(now) {
		status = domain.PaymentOverdue
	}
	payment := domain.Payment{
		ID:            uuid.NewString(),
		ClientID:      fields.ClientID,
		InvoiceNumber: fields.InvoiceNumber,
		Amount:        fields.Amount,
		DueDate:       fields.DueDate,
		PaidDate:      fields.PaidDate,
		Status:        status,
		Description:   fields.Description,
		CreatedAt:     now,
	}
	s.payments[payment.ID] = payment
	if err := s.persistLocked(ctx); err != nil {
		delete(s.payments, payment.ID)
		return domain.Payment{}, err
	}
	return payment, nil
}

// UpdatePayment merges the patch onto an existing payment.
func (s *Store) UpdatePayment(ctx context.Context, id string, patch PaymentPatch) (domain.Payment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.payments[id]
	if !ok {
		return domain.Payment{}, shared.ErrNotFound
	}
	updated := prev
	if patch.ClientID.Set && patch.ClientID.Valid {
		if _, ok := s.clients[patch.ClientID.Value]; !ok {
			return domain.Payment{}, shared.ErrUnknownClient
		}
		updated.ClientID = patch.ClientID.Value
	}
	if patch.InvoiceNumber.Set && patch.InvoiceNumber.Valid {
		updated.InvoiceNumber = patch.InvoiceNumber.Value
	}
	if patch.Amount.Set && patch.Amount.Valid {
		updated.Amount = patch.Amount.Value
	}
	if patch.DueDate.Set && patch.DueDate.Valid {
		updated.DueDate = patch.DueDate.Value
	}
	if patch.PaidDate.Set {
		if patch.PaidDate.Valid {
			t := patch.PaidDate.Value
			updated.PaidDate = &t
		} else {
			updated.PaidDate = nil
		}
	}
	if patch.Status.Set && patch.Status.Valid {
		updated.Status = patch.Status.Value
	}
	applyNullableString(&updated.Description, patch.Description)

	s.payments[id] = updated
	if err := s.persistLocked(ctx); err != nil {
		s.payments[id] = prev
		return domain.Payment{}, err
	}
	return updated, nil
}

// DeletePayment removes the payment or returns shared.ErrNotFound.
func (s *Store) DeletePayment(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.payments[id]
	if !ok {
		return shared.ErrNotFound
	}
	delete(s.payments, id)
	if err := s.persistLocked(ctx); err != nil {
		s.payments[id] = prev
		return err
	}
	return nil
}

// Import upserts every record of the envelope by id. The existing
// collections are not cleared first, so restoring a backup merges it into
// whatever is already present. Returns the number of records applied.
func (s *Store) Import(ctx context.Context, snap domain.Snapshot) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prevClients := s.clients
	prevPayments := s.payments
	nextClients := make(map[string]domain.Client, len(prevClients)+len(snap.Clients))
	for id, c := range prevClients {
		nextClients[id] = c
	}
	nextPayments := make(map[string]domain.Payment, len(prevPayments)+len(snap.Payments))
	for id, p := range prevPayments {
		nextPayments[id] = p
	}
	count := 0
	for _, c := range snap.Clients {
		if c.ID == "" {
			continue
		}
		nextClients[c.ID] = c
		count++
	}
	for _, p := range snap.Payments {
		if p.ID == "" {
			continue
		}
		nextPayments[p.ID] = p
		count++
	}
	s.clients = nextClients
	s.payments = nextPayments
	if err := s.persistLocked(ctx); err != nil {
		s.clients = prevClients
		s.payments = prevPayments
		return 0, err
	}
	return count, nil
}

func applyNullableString(dst **string, patch domain.Optional[string]) {
	if !patch.Set {
		return
	}
	if !patch.Valid {
		*dst = nil
		return
	}
	v := patch.Value
	*dst = &v
}
