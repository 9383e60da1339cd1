package domain

import "time"

// PaymentStatus is the stored status of a payment.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentOverdue PaymentStatus = "overdue"
)

// Valid reports whether s is one of the known payment statuses.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentOverdue:
		return true
	}
	return false
}

// ClientStatus is the derived per-client classification.
type ClientStatus string

const (
	ClientUpToDate ClientStatus = "up-to-date"
	ClientPending  ClientStatus = "pending"
	ClientOverdue  ClientStatus = "overdue"
)

// Client is a customer tracked by the business.
type Client struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Company   *string   `json:"company"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone"`
	Address   *string   `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
}

// Payment is an invoice owed by or received from a client.
type Payment struct {
	ID            string        `json:"id"`
	ClientID      string        `json:"clientId"`
	InvoiceNumber string        `json:"invoiceNumber"`
	Amount        Money         `json:"amount"`
	DueDate       time.Time     `json:"dueDate"`
	PaidDate      *time.Time    `json:"paidDate"`
	Status        PaymentStatus `json:"status"`
	Description   *string       `json:"description"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// ClientWithStats is a client annotated with derived aggregates. Never
// persisted; recomputed from the current store state on every read.
type ClientWithStats struct {
	Client
	TotalPaid       Money        `json:"totalPaid"`
	Outstanding     Money        `json:"outstanding"`
	TotalPayments   int          `json:"totalPayments"`
	AvgPayment      Money        `json:"avgPayment"`
	LastPaymentDate *time.Time   `json:"lastPaymentDate,omitempty"`
	PaymentStatus   ClientStatus `json:"paymentStatus"`
}

// PaymentWithClient is a payment annotated with its client's name.
type PaymentWithClient struct {
	Payment
	ClientName string `json:"clientName"`
}

// OverduePayment adds the age of an overdue payment in whole days.
type OverduePayment struct {
	PaymentWithClient
	DaysOverdue int `json:"daysOverdue"`
}

// DashboardStats summarises the whole store for the dashboard cards.
// Outstanding and PaidThisMonth are display-formatted currency strings.
type DashboardStats struct {
	TotalClients  int    `json:"totalClients"`
	Outstanding   string `json:"outstanding"`
	PaidThisMonth string `json:"paidThisMonth"`
	OverdueCount  int    `json:"overdueCount"`
}

// Snapshot is the full database contents. It doubles as the persisted blob
// layout and the backup envelope.
type Snapshot struct {
	Clients  []Client  `json:"clients"`
	Payments []Payment `json:"payments"`
}
