package account

import (
	"errors"
	"time"

	customerDatamodel "github.com/frahmantamala/customer-onboarding/internal/core/datamodel/customer"
)

// Account is an additional account opened for an already approved customer.
// Accounts created during onboarding live in the submission flow instead.
type Account struct {
	ID            int64     `json:"id"`
	CustomerID    int64     `json:"customer_id"`
	AccountNumber string    `json:"account_number"`
	AccountType   string    `json:"account_type"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	OpenedAt      time.Time `json:"opened_at"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

const (
	StatusActive = "active"
	StatusClosed = "closed"
)

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrCustomerNotApproved = errors.New("customer is not approved")
	ErrAlreadyClosed       = errors.New("account is already closed")
)

func FromDataModel(a *customerDatamodel.Account) *Account {
	return &Account{
		ID:            a.ID,
		CustomerID:    a.CustomerID,
		AccountNumber: a.AccountNumber,
		AccountType:   a.AccountType,
		Currency:      a.Currency,
		Status:        a.Status,
		OpenedAt:      a.OpenedAt,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
}

func FromDataModelSlice(accounts []customerDatamodel.Account) []Account {
	result := make([]Account, len(accounts))
	for i := range accounts {
		result[i] = *FromDataModel(&accounts[i])
	}
	return result
}
