package payments

import (
	"fmt"
	"time"

	"github.com/paytracker/paytracker/internal/domain"
	"github.com/paytracker/paytracker/internal/store"
)

// Dates arrive as strings from the clients: full RFC 3339 timestamps or bare
// dates from the form's date picker.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

type CreatePaymentRequest struct {
	ClientID      string       `json:"clientId" validate:"required"`
	InvoiceNumber string       `json:"invoiceNumber" validate:"required,max=100"`
	Amount        domain.Money `json:"amount"`
	DueDate       string       `json:"dueDate" validate:"required"`
	PaidDate      *string      `json:"paidDate"`
	Status        string       `json:"status" validate:"omitempty,oneof=pending paid overdue"`
	Description   *string      `json:"description"`
}

func (r CreatePaymentRequest) fields() (store.PaymentFields, map[string]string) {
	fields := make(map[string]string)
	if r.Amount.IsNegative() {
		fields["amount"] = "amount must not be negative"
	}
	due, err := parseDate(r.DueDate)
	if err != nil {
		fields["dueDate"] = "dueDate must be a valid date"
	}
	var paid *time.Time
	if r.PaidDate != nil {
		t, err := parseDate(*r.PaidDate)
		if err != nil {
			fields["paidDate"] = "paidDate must be a valid date"
		} else {
			paid = &t
		}
	}
	if len(fields) > 0 {
		return store.PaymentFields{}, fields
	}
	return store.PaymentFields{
		ClientID:      r.ClientID,
		InvoiceNumber: r.InvoiceNumber,
		Amount:        r.Amount,
		DueDate:       due,
		PaidDate:      paid,
		Status:        domain.PaymentStatus(r.Status),
		Description:   r.Description,
	}, nil
}

// UpdatePaymentRequest is a partial update. PaidDate keeps the three-way
// semantics: omitted leaves the stored value, null clears it, a value sets
// it.
type UpdatePaymentRequest struct {
	ClientID      domain.Optional[string]       `json:"clientId"`
	InvoiceNumber domain.Optional[string]       `json:"invoiceNumber"`
	Amount        domain.Optional[domain.Money] `json:"amount"`
	DueDate       domain.Optional[string]       `json:"dueDate"`
	PaidDate      domain.Optional[string]       `json:"paidDate"`
	Status        domain.Optional[string]       `json:"status"`
	Description   domain.Optional[string]       `json:"description"`
}

func (r UpdatePaymentRequest) patch() (store.PaymentPatch, map[string]string) {
	fields := make(map[string]string)
	patch := store.PaymentPatch{
		ClientID:      r.ClientID,
		InvoiceNumber: r.InvoiceNumber,
		Amount:        r.Amount,
		Description:   r.Description,
	}
	if r.ClientID.Set && (!r.ClientID.Valid || r.ClientID.Value == "") {
		fields["clientId"] = "clientId must not be empty"
	}
	if r.InvoiceNumber.Set && (!r.InvoiceNumber.Valid || r.InvoiceNumber.Value == "") {
		fields["invoiceNumber"] = "invoiceNumber must not be empty"
	}
	if r.Amount.Set {
		if !r.Amount.Valid {
			fields["amount"] = "amount must not be null"
		} else if r.Amount.Value.IsNegative() {
			fields["amount"] = "amount must not be negative"
		}
	}
	if r.DueDate.Set {
		if !r.DueDate.Valid {
			fields["dueDate"] = "dueDate must not be null"
		} else if t, err := parseDate(r.DueDate.Value); err != nil {
			fields["dueDate"] = "dueDate must be a valid date"
		} else {
			patch.DueDate = domain.Some(t)
		}
	}
	if r.PaidDate.Set {
		if !r.PaidDate.Valid {
			patch.PaidDate = domain.Null[time.Time]()
		} else if t, err := parseDate(r.PaidDate.Value); err != nil {
			fields["paidDate"] = "paidDate must be a valid date"
		} else {
			patch.PaidDate = domain.Some(t)
		}
	}
	if r.Status.Set {
		status := domain.PaymentStatus(r.Status.Value)
		if !r.Status.Valid || !status.Valid() {
			fields["status"] = "status must be pending, paid or overdue"
		} else {
			patch.Status = domain.Some(status)
		}
	}
	if len(fields) > 0 {
		return store.PaymentPatch{}, fields
	}
	return patch, nil
}
