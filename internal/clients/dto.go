package clients

import (
	"github.com/paytracker/paytracker/internal/domain"
	"github.com/paytracker/paytracker/internal/store"
)

type CreateClientRequest struct {
	Name    string  `json:"name" validate:"required,max=200"`
	Company *string `json:"company"`
	Email   string  `json:"email" validate:"required,email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

func (r CreateClientRequest) fields() store.ClientFields {
	return store.ClientFields{
		Name:    r.Name,
		Company: r.Company,
		Email:   r.Email,
		Phone:   r.Phone,
		Address: r.Address,
	}
}

// UpdateClientRequest is a partial update. Required fields (name, email)
// only apply when sent with a value; nullable fields clear on explicit null.
type UpdateClientRequest struct {
	Name    domain.Optional[string] `json:"name"`
	Company domain.Optional[string] `json:"company"`
	Email   domain.Optional[string] `json:"email"`
	Phone   domain.Optional[string] `json:"phone"`
	Address domain.Optional[string] `json:"address"`
}

func (r UpdateClientRequest) patch() store.ClientPatch {
	return store.ClientPatch{
		Name:    r.Name,
		Company: r.Company,
		Email:   r.Email,
		Phone:   r.Phone,
		Address: r.Address,
	}
}
