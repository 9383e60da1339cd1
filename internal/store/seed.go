package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/paytracker/paytracker/internal/domain"
)

// SeedIfEmpty inserts one demo client with a pending and a paid payment when
// both collections are empty. Returns true when seed data was written.
func (s *Store) SeedIfEmpty(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.clients) > 0 || len(s.payments) > 0 {
		return false, nil
	}
	now := s.now()
	company := "Acme Corp"
	phone := "+63 912 345 6789"
	address := "Makati, Metro Manila"
	client := domain.Client{
		ID:        uuid.NewString(),
		Name:      "Juan Dela Cruz",
		Company:   &company,
		Email:     "juan@example.com",
		Phone:     &phone,
		Address:   &address,
		CreatedAt: now,
	}
	design := "Website design initial fee"
	retainer := "Consulting retainer"
	paidAt := now.AddDate(0, 0, -15)
	payments := []domain.Payment{
		{
			ID:            uuid.NewString(),
			ClientID:      client.ID,
			InvoiceNumber: "INV-1001",
			Amount:        domain.MustMoney("1500.00"),
			DueDate:       now.AddDate(0, 0, 7),
			Status:        domain.PaymentPending,
			Description:   &design,
			CreatedAt:     now,
		},
		{
			ID:            uuid.NewString(),
			ClientID:      client.ID,
			InvoiceNumber: "INV-0998",
			Amount:        domain.MustMoney("2500.00"),
			DueDate:       now.AddDate(0, 0, -20),
			PaidDate:      &paidAt,
			Status:        domain.PaymentPaid,
			Description:   &retainer,
			CreatedAt:     now,
		},
	}
	s.clients[client.ID] = client
	for _, p := range payments {
		s.payments[p.ID] = p
	}
	if err := s.persistLocked(ctx); err != nil {
		delete(s.clients, client.ID)
		for _, p := range payments {
			delete(s.payments, p.ID)
		}
		return false, err
	}
	return true, nil
}
