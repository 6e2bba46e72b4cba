package customer

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const (
	maxAttachmentBytes = 5 << 20
	maxNoteLength      = 500
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

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

// AccountRequest is the client-supplied part of an account. Number, status
// and ownership are assigned by the service.
type AccountRequest struct {
	AccountType string `json:"account_type"`
	Currency    string `json:"currency"`
}

func (a AccountRequest) Validate() error {
	if !allowedAccountTypes[a.AccountType] {
		return ValidationError{Field: "account_type", Message: "must be one of savings, checking, deposit"}
	}
	if len(a.Currency) != 3 {
		return ValidationError{Field: "currency", Message: "must be a 3-letter ISO code"}
	}
	return nil
}

type FatcaRequest struct {
	IsUSPerson          bool    `json:"is_us_person"`
	USTaxID             *string `json:"us_tax_id,omitempty"`
	TaxResidencyCountry string  `json:"tax_residency_country,omitempty"`
	W9Submitted         bool    `json:"w9_submitted"`
}

func (f FatcaRequest) Validate() error {
	if f.IsUSPerson && (f.USTaxID == nil || *f.USTaxID == "") {
		return ValidationError{Field: "us_tax_id", Message: "required for US persons"}
	}
	return nil
}

// AttachmentRequest carries one named document. Content travels base64 in
// JSON; only metadata is persisted, the bytes go to the document store.
type AttachmentRequest struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Content     []byte `json:"content"`
}

func (a AttachmentRequest) Validate(slot string) error {
	if !IsKnownSlot(slot) {
		return ValidationError{Field: "attachments", Message: "unknown attachment slot: " + slot}
	}
	if strings.TrimSpace(a.FileName) == "" {
		return ValidationError{Field: slot, Message: "file name is required"}
	}
	if len(a.Content) == 0 {
		return ValidationError{Field: slot, Message: "content is required"}
	}
	if len(a.Content) > maxAttachmentBytes {
		return ValidationError{Field: slot, Message: "content exceeds the 5MB limit"}
	}
	return nil
}

// CreateCustomerRequest is the onboarding submission. Server-owned fields
// (ids, customer number, review state, audit) have no place here; anything a
// client smuggles under those names is dropped during decoding or ignored by
// the mapping policy.
type CreateCustomerRequest struct {
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone,omitempty"`
	NationalID    string    `json:"national_id"`
	DateOfBirth   time.Time `json:"date_of_birth"`
	Address       string    `json:"address,omitempty"`
	City          string    `json:"city,omitempty"`
	CountryCode   string    `json:"country_code,omitempty"`
	Occupation    string    `json:"occupation,omitempty"`
	MonthlyIncome int64     `json:"monthly_income,omitempty"`

	Accounts    []AccountRequest             `json:"accounts,omitempty"`
	Fatca       *FatcaRequest                `json:"fatca,omitempty"`
	Attachments map[string]AttachmentRequest `json:"attachments,omitempty"`
}

func (dto CreateCustomerRequest) Validate() error {
	if strings.TrimSpace(dto.FirstName) == "" {
		return ValidationError{Field: "first_name", Message: "is required"}
	}
	if strings.TrimSpace(dto.LastName) == "" {
		return ValidationError{Field: "last_name", Message: "is required"}
	}
	if !emailPattern.MatchString(dto.Email) {
		return ValidationError{Field: "email", Message: "must be a valid email address"}
	}
	if strings.TrimSpace(dto.NationalID) == "" {
		return ValidationError{Field: "national_id", Message: "is required"}
	}
	if dto.DateOfBirth.IsZero() {
		return ValidationError{Field: "date_of_birth", Message: "is required"}
	}
	if dto.DateOfBirth.After(time.Now()) {
		return ValidationError{Field: "date_of_birth", Message: "cannot be in the future"}
	}
	if dto.CountryCode != "" && len(dto.CountryCode) != 2 {
		return ValidationError{Field: "country_code", Message: "must be a 2-letter ISO code"}
	}
	if dto.MonthlyIncome < 0 {
		return ValidationError{Field: "monthly_income", Message: "cannot be negative"}
	}

	for _, acc := range dto.Accounts {
		if err := acc.Validate(); err != nil {
			return err
		}
	}
	if dto.Fatca != nil {
		if err := dto.Fatca.Validate(); err != nil {
			return err
		}
	}
	for slot, att := range dto.Attachments {
		if err := att.Validate(slot); err != nil {
			return err
		}
	}
	return nil
}

// UpdateCustomerRequest corrects personal details while the submission is
// still pending review. Identity and review fields cannot be touched here.
type UpdateCustomerRequest struct {
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone,omitempty"`
	DateOfBirth   time.Time `json:"date_of_birth"`
	Address       string    `json:"address,omitempty"`
	City          string    `json:"city,omitempty"`
	CountryCode   string    `json:"country_code,omitempty"`
	Occupation    string    `json:"occupation,omitempty"`
	MonthlyIncome int64     `json:"monthly_income,omitempty"`
}

func (dto UpdateCustomerRequest) Validate() error {
	if strings.TrimSpace(dto.FirstName) == "" {
		return ValidationError{Field: "first_name", Message: "is required"}
	}
	if strings.TrimSpace(dto.LastName) == "" {
		return ValidationError{Field: "last_name", Message: "is required"}
	}
	if !emailPattern.MatchString(dto.Email) {
		return ValidationError{Field: "email", Message: "must be a valid email address"}
	}
	if dto.DateOfBirth.IsZero() {
		return ValidationError{Field: "date_of_birth", Message: "is required"}
	}
	if dto.DateOfBirth.After(time.Now()) {
		return ValidationError{Field: "date_of_birth", Message: "cannot be in the future"}
	}
	if dto.CountryCode != "" && len(dto.CountryCode) != 2 {
		return ValidationError{Field: "country_code", Message: "must be a 2-letter ISO code"}
	}
	if dto.MonthlyIncome < 0 {
		return ValidationError{Field: "monthly_income", Message: "cannot be negative"}
	}
	return nil
}

type RejectCustomerDTO struct {
	Reason string `json:"reason"`
}

func (dto RejectCustomerDTO) Validate() error {
	if strings.TrimSpace(dto.Reason) == "" {
		return ValidationError{Field: "reason", Message: "is required when rejecting a submission"}
	}
	if len(dto.Reason) > maxNoteLength {
		return ValidationError{Field: "reason", Message: "must be at most 500 characters"}
	}
	return nil
}
