package account

import "fmt"

var allowedAccountTypes = map[string]bool{
	"savings":  true,
	"checking": true,
	"deposit":  true,
}

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// CreateAccountRequest opens an account for an approved customer. The owner
// comes from the URL, the number and status from the service.
type CreateAccountRequest struct {
	AccountType string `json:"account_type"`
	Currency    string `json:"currency"`
}

func (dto CreateAccountRequest) Validate() error {
	if !allowedAccountTypes[dto.AccountType] {
		return ValidationError{Field: "account_type", Message: "must be one of savings, checking, deposit"}
	}
	if len(dto.Currency) != 3 {
		return ValidationError{Field: "currency", Message: "must be a 3-letter ISO code"}
	}
	return nil
}
