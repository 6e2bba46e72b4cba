package account

import (
	"strings"

	customerDatamodel "github.com/frahmantamala/customer-onboarding/internal/core/datamodel/customer"
	"github.com/frahmantamala/customer-onboarding/internal/core/mapping"
)

// createAccountMapper classifies every persisted account field; ownership,
// numbering and lifecycle are service-assigned.
var createAccountMapper = mapping.MustTranslator("account.open",
	map[string]mapping.Rule[CreateAccountRequest, customerDatamodel.Account]{
		"AccountType": mapping.Map(func(src *CreateAccountRequest, dst *customerDatamodel.Account) {
			dst.AccountType = src.AccountType
		}),
		"Currency": mapping.Compute(func(src *CreateAccountRequest, dst *customerDatamodel.Account) {
			dst.Currency = strings.ToUpper(src.Currency)
		}),

		"ID":            mapping.Ignore[CreateAccountRequest, customerDatamodel.Account](),
		"CustomerID":    mapping.Ignore[CreateAccountRequest, customerDatamodel.Account](),
		"AccountNumber": mapping.Ignore[CreateAccountRequest, customerDatamodel.Account](),
		"Status":        mapping.Ignore[CreateAccountRequest, customerDatamodel.Account](),
		"OpenedAt":      mapping.Ignore[CreateAccountRequest, customerDatamodel.Account](),
		"CreatedAt":     mapping.Ignore[CreateAccountRequest, customerDatamodel.Account](),
		"UpdatedAt":     mapping.Ignore[CreateAccountRequest, customerDatamodel.Account](),
	})
