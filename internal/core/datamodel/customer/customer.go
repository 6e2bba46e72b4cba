package customer

import "time"

// Customer is the persisted onboarding record. ID, CustomerNumber,
// CreatedByID, review fields and audit timestamps are server-owned.
type Customer struct {
	ID             int64      `gorm:"primaryKey"`
	CustomerNumber string     `gorm:"column:customer_number;not null;uniqueIndex"`
	FirstName      string     `gorm:"column:first_name;not null"`
	LastName       string     `gorm:"column:last_name;not null"`
	Email          string     `gorm:"column:email;not null"`
	Phone          string     `gorm:"column:phone"`
	NationalID     string     `gorm:"column:national_id;not null;uniqueIndex"`
	DateOfBirth    time.Time  `gorm:"column:date_of_birth;type:date"`
	Address        string     `gorm:"column:address"`
	City           string     `gorm:"column:city"`
	CountryCode    string     `gorm:"column:country_code"`
	Occupation     string     `gorm:"column:occupation"`
	MonthlyIncome  int64      `gorm:"column:monthly_income"`
	ReviewStatus   string     `gorm:"column:review_status;default:pending_review"`
	ReviewNote     string     `gorm:"column:review_note"`
	CreatedByID    int64      `gorm:"column:created_by_id;not null"`
	SubmittedAt    time.Time  `gorm:"column:submitted_at;default:now()"`
	ReviewedAt     *time.Time `gorm:"column:reviewed_at"`
	CreatedAt      time.Time  `gorm:"column:created_at;default:now()"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;default:now()"`
}

func (Customer) TableName() string {
	return "customers"
}

// Account belongs to a customer; CustomerID always comes from the service
// layer, never from a request body.
type Account struct {
	ID            int64     `gorm:"primaryKey"`
	CustomerID    int64     `gorm:"column:customer_id;not null;index"`
	AccountNumber string    `gorm:"column:account_number;not null;uniqueIndex"`
	AccountType   string    `gorm:"column:account_type;not null"`
	Currency      string    `gorm:"column:currency;not null"`
	Status        string    `gorm:"column:status;default:pending"`
	OpenedAt      time.Time `gorm:"column:opened_at;default:now()"`
	CreatedAt     time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt     time.Time `gorm:"column:updated_at;default:now()"`
}

func (Account) TableName() string {
	return "accounts"
}

// FatcaRecord holds the FATCA compliance answers for one customer.
type FatcaRecord struct {
	ID                  int64     `gorm:"primaryKey"`
	CustomerID          int64     `gorm:"column:customer_id;not null;uniqueIndex"`
	IsUSPerson          bool      `gorm:"column:is_us_person"`
	USTaxID             *string   `gorm:"column:us_tax_id"`
	TaxResidencyCountry string    `gorm:"column:tax_residency_country"`
	W9Submitted         bool      `gorm:"column:w9_submitted"`
	CreatedAt           time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt           time.Time `gorm:"column:updated_at;default:now()"`
}

func (FatcaRecord) TableName() string {
	return "fatca_records"
}

// Document records attachment metadata; the binary lives in the external
// document store.
type Document struct {
	ID           int64     `gorm:"primaryKey"`
	CustomerID   int64     `gorm:"column:customer_id;not null;index"`
	Slot         string    `gorm:"column:slot;not null"`
	FileName     string    `gorm:"column:file_name;not null"`
	ContentType  string    `gorm:"column:content_type"`
	SizeBytes    int64     `gorm:"column:size_bytes"`
	StorageRef   *string   `gorm:"column:storage_ref"`
	UploadStatus string    `gorm:"column:upload_status;default:pending"`
	CreatedAt    time.Time `gorm:"column:created_at;default:now()"`
	UpdatedAt    time.Time `gorm:"column:updated_at;default:now()"`
}

func (Document) TableName() string {
	return "documents"
}
