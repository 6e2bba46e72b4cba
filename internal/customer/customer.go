package customer

import (
	"errors"
	"time"

	customerDatamodel "github.com/frahmantamala/customer-onboarding/internal/core/datamodel/customer"
)

// Customer is the onboarding application as the API exposes it. Review
// fields and identifiers are server-owned.
type Customer struct {
	ID             int64      `json:"id"`
	CustomerNumber string     `json:"customer_number"`
	FirstName      string     `json:"first_name"`
	LastName       string     `json:"last_name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone,omitempty"`
	NationalID     string     `json:"national_id"`
	DateOfBirth    time.Time  `json:"date_of_birth"`
	Address        string     `json:"address,omitempty"`
	City           string     `json:"city,omitempty"`
	CountryCode    string     `json:"country_code,omitempty"`
	Occupation     string     `json:"occupation,omitempty"`
	MonthlyIncome  int64      `json:"monthly_income,omitempty"`
	ReviewStatus   string     `json:"review_status"`
	ReviewNote     string     `json:"review_note,omitempty"`
	CreatedByID    int64      `json:"created_by_id"`
	SubmittedAt    time.Time  `json:"submitted_at"`
	ReviewedAt     *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	Accounts  []Account    `json:"accounts,omitempty"`
	Fatca     *FatcaRecord `json:"fatca,omitempty"`
	Documents []Document   `json:"documents,omitempty"`
}

type Account struct {
	ID            int64     `json:"id"`
	CustomerID    int64     `json:"customer_id"`
	AccountNumber string    `json:"account_number"`
	AccountType   string    `json:"account_type"`
	Currency      string    `json:"currency"`
	Status        string    `json:"status"`
	OpenedAt      time.Time `json:"opened_at"`
}

type FatcaRecord struct {
	ID                  int64   `json:"id"`
	IsUSPerson          bool    `json:"is_us_person"`
	USTaxID             *string `json:"us_tax_id,omitempty"`
	TaxResidencyCountry string  `json:"tax_residency_country,omitempty"`
	W9Submitted         bool    `json:"w9_submitted"`
}

type Document struct {
	ID           int64  `json:"id"`
	Slot         string `json:"slot"`
	FileName     string `json:"file_name"`
	ContentType  string `json:"content_type,omitempty"`
	SizeBytes    int64  `json:"size_bytes,omitempty"`
	UploadStatus string `json:"upload_status"`
}

// Review lifecycle. A submission starts pending and is settled exactly once.
const (
	ReviewStatusPending  = "pending_review"
	ReviewStatusApproved = "approved"
	ReviewStatusRejected = "rejected"
)

// Account lifecycle. Accounts stay pending until the review approves the
// customer.
const (
	AccountStatusPending = "pending"
	AccountStatusActive  = "active"
	AccountStatusClosed  = "closed"
)

// Document upload lifecycle.
const (
	UploadStatusPending  = "pending"
	UploadStatusUploaded = "uploaded"
	UploadStatusFailed   = "failed"
)

// DocumentSlots are the named attachments a submission carries. Each slot
// holds at most one file.
var DocumentSlots = []string{
	"identification_image",
	"national_id_image",
	"personal_photo",
	"signature_sample",
	"handwritten_request",
	"employment_certificate",
}

func IsKnownSlot(slot string) bool {
	for _, s := range DocumentSlots {
		if s == slot {
			return true
		}
	}
	return false
}

var (
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrDuplicateNationalID = errors.New("a customer with this national id already exists")
	ErrInvalidReviewStatus = errors.New("invalid review status for this operation")
	ErrCannotModify        = errors.New("cannot modify customer after review has settled")
)

func (c *Customer) CanBeApproved() bool {
	return c.ReviewStatus == ReviewStatusPending
}

func (c *Customer) CanBeRejected() bool {
	return c.ReviewStatus == ReviewStatusPending
}

func (c *Customer) CanBeModified() bool {
	return c.ReviewStatus == ReviewStatusPending
}

func FromDataModel(c *customerDatamodel.Customer) *Customer {
	return &Customer{
		ID:             c.ID,
		CustomerNumber: c.CustomerNumber,
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		Email:          c.Email,
		Phone:          c.Phone,
		NationalID:     c.NationalID,
		DateOfBirth:    c.DateOfBirth,
		Address:        c.Address,
		City:           c.City,
		CountryCode:    c.CountryCode,
		Occupation:     c.Occupation,
		MonthlyIncome:  c.MonthlyIncome,
		ReviewStatus:   c.ReviewStatus,
		ReviewNote:     c.ReviewNote,
		CreatedByID:    c.CreatedByID,
		SubmittedAt:    c.SubmittedAt,
		ReviewedAt:     c.ReviewedAt,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func AccountFromDataModel(a *customerDatamodel.Account) Account {
	return Account{
		ID:            a.ID,
		CustomerID:    a.CustomerID,
		AccountNumber: a.AccountNumber,
		AccountType:   a.AccountType,
		Currency:      a.Currency,
		Status:        a.Status,
		OpenedAt:      a.OpenedAt,
	}
}

func FatcaFromDataModel(f *customerDatamodel.FatcaRecord) *FatcaRecord {
	return &FatcaRecord{
		ID:                  f.ID,
		IsUSPerson:          f.IsUSPerson,
		USTaxID:             f.USTaxID,
		TaxResidencyCountry: f.TaxResidencyCountry,
		W9Submitted:         f.W9Submitted,
	}
}

func DocumentFromDataModel(d *customerDatamodel.Document) Document {
	return Document{
		ID:           d.ID,
		Slot:         d.Slot,
		FileName:     d.FileName,
		ContentType:  d.ContentType,
		SizeBytes:    d.SizeBytes,
		UploadStatus: d.UploadStatus,
	}
}
