// Package stats derives presentation-ready views from store snapshots. All
// functions are pure: they never mutate records, and read-time
// reclassification (a stored "pending" payment past its due date counting as
// overdue) happens only in the computed output.
package stats

import (
	"sort"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/paytracker/paytracker/internal/domain"
)

// DefaultRecentLimit caps the recent-payments dashboard card.
const DefaultRecentLimit = 5

const unknownClientName = "Unknown Client"

var pesoPrinter = message.NewPrinter(language.English)

// FormatPeso renders a display currency string like "₱2,500.00". Only
// dashboard strings carry the sign; CSV cells stay bare numbers.
func FormatPeso(m domain.Money) string {
	return pesoPrinter.Sprintf("₱%.2f", m.InexactFloat64())
}

func isOverdueAt(p domain.Payment, now time.Time) bool {
	return p.Status != domain.PaymentPaid && p.DueDate.Before(now)
}

// ClientStats computes the derived aggregates for one client from its
// payments.
func ClientStats(client domain.Client, payments []domain.Payment, now time.Time) domain.ClientWithStats {
	totalPaid := domain.Zero
	outstanding := domain.Zero
	paidCount := 0
	var lastPaid *time.Time
	hasOverdue := false
	for _, p := range payments {
		if p.Status == domain.PaymentPaid {
			totalPaid = totalPaid.Add(p.Amount)
			paidCount++
			if p.PaidDate != nil && (lastPaid == nil || p.PaidDate.After(*lastPaid)) {
				t := *p.PaidDate
				lastPaid = &t
			}
		} else {
			outstanding = outstanding.Add(p.Amount)
		}
		if p.Status == domain.PaymentOverdue || (p.Status == domain.PaymentPending && p.DueDate.Before(now)) {
			hasOverdue = true
		}
	}

	status := domain.ClientUpToDate
	switch {
	case hasOverdue:
		status = domain.ClientOverdue
	case outstanding.IsPositive():
		status = domain.ClientPending
	}

	return domain.ClientWithStats{
		Client:          client,
		TotalPaid:       totalPaid,
		Outstanding:     outstanding,
		TotalPayments:   len(payments),
		AvgPayment:      totalPaid.DivInt(paidCount),
		LastPaymentDate: lastPaid,
		PaymentStatus:   status,
	}
}

// ClientsWithStats annotates every client in the snapshot.
func ClientsWithStats(snap domain.Snapshot, now time.Time) []domain.ClientWithStats {
	byClient := paymentsByClient(snap)
	out := make([]domain.ClientWithStats, 0, len(snap.Clients))
	for _, c := range snap.Clients {
		out = append(out, ClientStats(c, byClient[c.ID], now))
	}
	return out
}

// Dashboard aggregates across the whole snapshot.
func Dashboard(snap domain.Snapshot, now time.Time) domain.DashboardStats {
	outstanding := domain.Zero
	paidThisMonth := domain.Zero
	overdueCount := 0
	for _, p := range snap.Payments {
		if p.Status != domain.PaymentPaid {
			outstanding = outstanding.Add(p.Amount)
		}
		if p.Status == domain.PaymentPaid && p.PaidDate != nil &&
			p.PaidDate.Year() == now.Year() && p.PaidDate.Month() == now.Month() {
			paidThisMonth = paidThisMonth.Add(p.Amount)
		}
		if isOverdueAt(p, now) {
			overdueCount++
		}
	}
	return domain.DashboardStats{
		TotalClients:  len(snap.Clients),
		Outstanding:   FormatPeso(outstanding),
		PaidThisMonth: FormatPeso(paidThisMonth),
		OverdueCount:  overdueCount,
	}
}

// RecentPayments returns the most recently paid payments: status "paid"
// only, ordered by paid date (creation date when absent) descending,
// truncated to limit.
func RecentPayments(snap domain.Snapshot, limit int) []domain.PaymentWithClient {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	names := clientNames(snap)
	paid := make([]domain.Payment, 0)
	for _, p := range snap.Payments {
		if p.Status == domain.PaymentPaid {
			paid = append(paid, p)
		}
	}
	sort.Slice(paid, func(i, j int) bool {
		return effectiveDate(paid[i]).After(effectiveDate(paid[j]))
	})
	if len(paid) > limit {
		paid = paid[:limit]
	}
	return withClientNames(paid, names)
}

// OverduePayments returns every payment that is not paid and past due,
// oldest due date first, annotated with its age in whole days.
func OverduePayments(snap domain.Snapshot, now time.Time) []domain.OverduePayment {
	names := clientNames(snap)
	overdue := make([]domain.Payment, 0)
	for _, p := range snap.Payments {
		if isOverdueAt(p, now) {
			overdue = append(overdue, p)
		}
	}
	sort.Slice(overdue, func(i, j int) bool { return overdue[i].DueDate.Before(overdue[j].DueDate) })
	annotated := withClientNames(overdue, names)
	out := make([]domain.OverduePayment, 0, len(annotated))
	for _, p := range annotated {
		out = append(out, domain.OverduePayment{
			PaymentWithClient: p,
			DaysOverdue:       int(now.Sub(p.DueDate) / (24 * time.Hour)),
		})
	}
	return out
}

// PaymentsWithClients resolves client names for every payment, newest
// created first.
func PaymentsWithClients(snap domain.Snapshot) []domain.PaymentWithClient {
	return withClientNames(snap.Payments, clientNames(snap))
}

func effectiveDate(p domain.Payment) time.Time {
	if p.PaidDate != nil {
		return *p.PaidDate
	}
	return p.CreatedAt
}

func paymentsByClient(snap domain.Snapshot) map[string][]domain.Payment {
	byClient := make(map[string][]domain.Payment, len(snap.Clients))
	for _, p := range snap.Payments {
		byClient[p.ClientID] = append(byClient[p.ClientID], p)
	}
	return byClient
}

func clientNames(snap domain.Snapshot) map[string]string {
	names := make(map[string]string, len(snap.Clients))
	for _, c := range snap.Clients {
		names[c.ID] = c.Name
	}
	return names
}

func withClientNames(payments []domain.Payment, names map[string]string) []domain.PaymentWithClient {
	out := make([]domain.PaymentWithClient, 0, len(payments))
	for _, p := range payments {
		name, ok := names[p.ClientID]
		if !ok {
			name = unknownClientName
		}
		out = append(out, domain.PaymentWithClient{Payment: p, ClientName: name})
	}
	return out
}
