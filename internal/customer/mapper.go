package customer

import (
	"strings"

	customerDatamodel "github.com/frahmantamala/customer-onboarding/internal/core/datamodel/customer"
	"github.com/frahmantamala/customer-onboarding/internal/core/mapping"
)

// Policy tables for translating untrusted request bodies into persisted
// shapes. Every destination field must be classified; tables are validated
// at package init, so an entity field added without a policy stops the
// process before it can leak a writable path.

var createCustomerMapper = mapping.MustTranslator("customer.create",
	map[string]mapping.Rule[CreateCustomerRequest, customerDatamodel.Customer]{
		"FirstName": mapping.Map(func(src *CreateCustomerRequest, dst *customerDatamodel.Customer) {
			dst.FirstName = strings.TrimSpace(src.FirstName)
		}),
		"LastName": mapping.Map(func(src *CreateCustomerRequest, dst *customerDatamodel.Customer) {
			dst.LastName = strings.TrimSpace(src.LastName)
		}),
		"Email": mapping.Compute(func(src *CreateCustomerRequest, dst *customerDatamodel.Customer) {
			dst.Email = strings.ToLower(strings.TrimSpace(src.Email))
		}),
		"Phone": mapping.Map(func(src *CreateCustomerRequest, dst *customerDatamodel.Customer) {
			dst.Phone = src.Phone
		}),
		"NationalID": mapping.Map(func(src *CreateCustomerRequest, dst *customerDatamodel.Customer) {
			dst.NationalID = strings.TrimSpace(src.NationalID)
		}),
		"DateOfBirth": mapping.Map(func(src *CreateCustomerRequest, dst *customerDatamodel.Customer) {
			dst.DateOfBirth = src.DateOfBirth
		}),
		"Address": mapping.Map(func(src *CreateCustomerRequest, dst *customerDatamodel.Customer) {
			dst.Address = src.Address
		}),
		"City": mapping.Map(func(src *CreateCustomerRequest, dst *customerDatamodel.Customer) {
			dst.City = src.City
		}),
		"CountryCode": mapping.Compute(func(src *CreateCustomerRequest, dst *customerDatamodel.Customer) {
			dst.CountryCode = strings.ToUpper(src.CountryCode)
		}),
		"Occupation": mapping.Map(func(src *CreateCustomerRequest, dst *customerDatamodel.Customer) {
			dst.Occupation = src.Occupation
		}),
		"MonthlyIncome": mapping.Map(func(src *CreateCustomerRequest, dst *customerDatamodel.Customer) {
			dst.MonthlyIncome = src.MonthlyIncome
		}),

		// Server-owned: assigned by the service or the database, never
		// taken from a request body.
		"ID":             mapping.Ignore[CreateCustomerRequest, customerDatamodel.Customer](),
		"CustomerNumber": mapping.Ignore[CreateCustomerRequest, customerDatamodel.Customer](),
		"ReviewStatus":   mapping.Ignore[CreateCustomerRequest, customerDatamodel.Customer](),
		"ReviewNote":     mapping.Ignore[CreateCustomerRequest, customerDatamodel.Customer](),
		"CreatedByID":    mapping.Ignore[CreateCustomerRequest, customerDatamodel.Customer](),
		"SubmittedAt":    mapping.Ignore[CreateCustomerRequest, customerDatamodel.Customer](),
		"ReviewedAt":     mapping.Ignore[CreateCustomerRequest, customerDatamodel.Customer](),
		"CreatedAt":      mapping.Ignore[CreateCustomerRequest, customerDatamodel.Customer](),
		"UpdatedAt":      mapping.Ignore[CreateCustomerRequest, customerDatamodel.Customer](),
	})

var updateCustomerMapper = mapping.MustTranslator("customer.update",
	map[string]mapping.Rule[UpdateCustomerRequest, customerDatamodel.Customer]{
		"FirstName": mapping.Map(func(src *UpdateCustomerRequest, dst *customerDatamodel.Customer) {
			dst.FirstName = strings.TrimSpace(src.FirstName)
		}),
		"LastName": mapping.Map(func(src *UpdateCustomerRequest, dst *customerDatamodel.Customer) {
			dst.LastName = strings.TrimSpace(src.LastName)
		}),
		"Email": mapping.Compute(func(src *UpdateCustomerRequest, dst *customerDatamodel.Customer) {
			dst.Email = strings.ToLower(strings.TrimSpace(src.Email))
		}),
		"Phone": mapping.Map(func(src *UpdateCustomerRequest, dst *customerDatamodel.Customer) {
			dst.Phone = src.Phone
		}),
		"DateOfBirth": mapping.Map(func(src *UpdateCustomerRequest, dst *customerDatamodel.Customer) {
			dst.DateOfBirth = src.DateOfBirth
		}),
		"Address": mapping.Map(func(src *UpdateCustomerRequest, dst *customerDatamodel.Customer) {
			dst.Address = src.Address
		}),
		"City": mapping.Map(func(src *UpdateCustomerRequest, dst *customerDatamodel.Customer) {
			dst.City = src.City
		}),
		"CountryCode": mapping.Compute(func(src *UpdateCustomerRequest, dst *customerDatamodel.Customer) {
			dst.CountryCode = strings.ToUpper(src.CountryCode)
		}),
		"Occupation": mapping.Map(func(src *UpdateCustomerRequest, dst *customerDatamodel.Customer) {
			dst.Occupation = src.Occupation
		}),
		"MonthlyIncome": mapping.Map(func(src *UpdateCustomerRequest, dst *customerDatamodel.Customer) {
			dst.MonthlyIncome = src.MonthlyIncome
		}),

		// NationalID is identity, immutable after submission.
		"NationalID":     mapping.Ignore[UpdateCustomerRequest, customerDatamodel.Customer](),
		"ID":             mapping.Ignore[UpdateCustomerRequest, customerDatamodel.Customer](),
		"CustomerNumber": mapping.Ignore[UpdateCustomerRequest, customerDatamodel.Customer](),
		"ReviewStatus":   mapping.Ignore[UpdateCustomerRequest, customerDatamodel.Customer](),
		"ReviewNote":     mapping.Ignore[UpdateCustomerRequest, customerDatamodel.Customer](),
		"CreatedByID":    mapping.Ignore[UpdateCustomerRequest, customerDatamodel.Customer](),
		"SubmittedAt":    mapping.Ignore[UpdateCustomerRequest, customerDatamodel.Customer](),
		"ReviewedAt":     mapping.Ignore[UpdateCustomerRequest, customerDatamodel.Customer](),
		"CreatedAt":      mapping.Ignore[UpdateCustomerRequest, customerDatamodel.Customer](),
		"UpdatedAt":      mapping.Ignore[UpdateCustomerRequest, customerDatamodel.Customer](),
	})

var accountMapper = mapping.MustTranslator("account.create",
	map[string]mapping.Rule[AccountRequest, customerDatamodel.Account]{
		"AccountType": mapping.Map(func(src *AccountRequest, dst *customerDatamodel.Account) {
			dst.AccountType = src.AccountType
		}),
		"Currency": mapping.Compute(func(src *AccountRequest, dst *customerDatamodel.Account) {
			dst.Currency = strings.ToUpper(src.Currency)
		}),

		"ID":            mapping.Ignore[AccountRequest, customerDatamodel.Account](),
		"CustomerID":    mapping.Ignore[AccountRequest, customerDatamodel.Account](),
		"AccountNumber": mapping.Ignore[AccountRequest, customerDatamodel.Account](),
		"Status":        mapping.Ignore[AccountRequest, customerDatamodel.Account](),
		"OpenedAt":      mapping.Ignore[AccountRequest, customerDatamodel.Account](),
		"CreatedAt":     mapping.Ignore[AccountRequest, customerDatamodel.Account](),
		"UpdatedAt":     mapping.Ignore[AccountRequest, customerDatamodel.Account](),
	})

var fatcaMapper = mapping.MustTranslator("fatca.create",
	map[string]mapping.Rule[FatcaRequest, customerDatamodel.FatcaRecord]{
		"IsUSPerson": mapping.Map(func(src *FatcaRequest, dst *customerDatamodel.FatcaRecord) {
			dst.IsUSPerson = src.IsUSPerson
		}),
		"USTaxID": mapping.Map(func(src *FatcaRequest, dst *customerDatamodel.FatcaRecord) {
			dst.USTaxID = src.USTaxID
		}),
		"TaxResidencyCountry": mapping.Compute(func(src *FatcaRequest, dst *customerDatamodel.FatcaRecord) {
			dst.TaxResidencyCountry = strings.ToUpper(src.TaxResidencyCountry)
		}),
		"W9Submitted": mapping.Map(func(src *FatcaRequest, dst *customerDatamodel.FatcaRecord) {
			dst.W9Submitted = src.W9Submitted
		}),

		"ID":         mapping.Ignore[FatcaRequest, customerDatamodel.FatcaRecord](),
		"CustomerID": mapping.Ignore[FatcaRequest, customerDatamodel.FatcaRecord](),
		"CreatedAt":  mapping.Ignore[FatcaRequest, customerDatamodel.FatcaRecord](),
		"UpdatedAt":  mapping.Ignore[FatcaRequest, customerDatamodel.FatcaRecord](),
	})

var documentMapper = mapping.MustTranslator("document.create",
	map[string]mapping.Rule[AttachmentRequest, customerDatamodel.Document]{
		"FileName": mapping.Map(func(src *AttachmentRequest, dst *customerDatamodel.Document) {
			dst.FileName = src.FileName
		}),
		"ContentType": mapping.Map(func(src *AttachmentRequest, dst *customerDatamodel.Document) {
			dst.ContentType = src.ContentType
		}),
		"SizeBytes": mapping.Compute(func(src *AttachmentRequest, dst *customerDatamodel.Document) {
			dst.SizeBytes = int64(len(src.Content))
		}),

		// Slot comes from the attachment map key, StorageRef from the
		// document store after upload.
		"ID":           mapping.Ignore[AttachmentRequest, customerDatamodel.Document](),
		"CustomerID":   mapping.Ignore[AttachmentRequest, customerDatamodel.Document](),
		"Slot":         mapping.Ignore[AttachmentRequest, customerDatamodel.Document](),
		"StorageRef":   mapping.Ignore[AttachmentRequest, customerDatamodel.Document](),
		"UploadStatus": mapping.Ignore[AttachmentRequest, customerDatamodel.Document](),
		"CreatedAt":    mapping.Ignore[AttachmentRequest, customerDatamodel.Document](),
		"UpdatedAt":    mapping.Ignore[AttachmentRequest, customerDatamodel.Document](),
	})
