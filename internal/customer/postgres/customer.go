package postgres

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	customerDatamodel "github.com/frahmantamala/customer-onboarding/internal/core/datamodel/customer"
	"github.com/frahmantamala/customer-onboarding/internal/core/pagination"
	"github.com/frahmantamala/customer-onboarding/internal/customer"
)

// CustomerRepository implements the customer.Repository interface using GORM.
type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// Create persists the submission and its children in one transaction, so a
// partial onboarding record can never be observed.
func (r *CustomerRepository) Create(c *customerDatamodel.Customer, accounts []customerDatamodel.Account, fatca *customerDatamodel.FatcaRecord, docs []customerDatamodel.Document) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return fmt.Errorf("create customer: %w", err)
		}

		for i := range accounts {
			accounts[i].CustomerID = c.ID
		}
		if len(accounts) > 0 {
			if err := tx.Create(&accounts).Error; err != nil {
				return fmt.Errorf("create accounts: %w", err)
			}
		}

		if fatca != nil {
			fatca.CustomerID = c.ID
			if err := tx.Create(fatca).Error; err != nil {
				return fmt.Errorf("create fatca record: %w", err)
			}
		}

		for i := range docs {
			docs[i].CustomerID = c.ID
		}
		if len(docs) > 0 {
			if err := tx.Create(&docs).Error; err != nil {
				return fmt.Errorf("create documents: %w", err)
			}
		}

		return nil
	})
}

func (r *CustomerRepository) GetByID(id int64) (*customerDatamodel.Customer, error) {
	var c customerDatamodel.Customer
	err := r.db.Where("id = ?", id).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, customer.ErrCustomerNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepository) GetByNationalID(nationalID string) (*customerDatamodel.Customer, error) {
	var c customerDatamodel.Customer
	err := r.db.Where("national_id = ?", nationalID).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, customer.ErrCustomerNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CustomerRepository) GetAccounts(customerID int64) ([]customerDatamodel.Account, error) {
	var accounts []customerDatamodel.Account
	err := r.db.Where("customer_id = ?", customerID).
		Order("id").
		Find(&accounts).Error
	return accounts, err
}

func (r *CustomerRepository) GetFatca(customerID int64) (*customerDatamodel.FatcaRecord, error) {
	var f customerDatamodel.FatcaRecord
	err := r.db.Where("customer_id = ?", customerID).First(&f).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}

func (r *CustomerRepository) GetDocuments(customerID int64) ([]customerDatamodel.Document, error) {
	var docs []customerDatamodel.Document
	err := r.db.Where("customer_id = ?", customerID).
		Order("slot").
		Find(&docs).Error
	return docs, err
}

// allowed sort columns for customer listing
var customerSortColumns = map[string]string{
	"submitted_at":    "submitted_at",
	"last_name":       "last_name",
	"customer_number": "customer_number",
	"review_status":   "review_status",
}

// List applies search, review-status filter, sorting and pagination. The
// parameters arrive already normalized.
func (r *CustomerRepository) List(params pagination.Params) ([]customerDatamodel.Customer, int64, error) {
	query := r.db.Model(&customerDatamodel.Customer{})

	if params.SearchTerm != "" {
		term := "%" + params.SearchTerm + "%"
		query = query.Where(
			"first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ? OR customer_number ILIKE ?",
			term, term, term, term)
	}

	if params.Status != "" {
		query = query.Where("review_status = ?", params.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count customers: %w", err)
	}

	orderBy := "submitted_at DESC"
	if col, ok := customerSortColumns[params.SortBy]; ok {
		orderBy = col
		if params.SortDescending {
			orderBy += " DESC"
		}
	}

	var customers []customerDatamodel.Customer
	err := query.Order(orderBy).
		Limit(params.PageSize).
		Offset(params.Offset()).
		Find(&customers).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}

	return customers, total, nil
}

// UpdatePersonal writes the correctable personal fields. Review and identity
// columns are never part of the update set.
func (r *CustomerRepository) UpdatePersonal(c *customerDatamodel.Customer) error {
	return r.db.Model(&customerDatamodel.Customer{}).
		Where("id = ?", c.ID).
		Updates(map[string]interface{}{
			"first_name":     c.FirstName,
			"last_name":      c.LastName,
			"email":          c.Email,
			"phone":          c.Phone,
			"date_of_birth":  c.DateOfBirth,
			"address":        c.Address,
			"city":           c.City,
			"country_code":   c.CountryCode,
			"occupation":     c.Occupation,
			"monthly_income": c.MonthlyIncome,
			"updated_at":     c.UpdatedAt,
		}).Error
}

func (r *CustomerRepository) UpdateReviewStatus(id int64, status, note string, reviewedAt time.Time) error {
	return r.db.Model(&customerDatamodel.Customer{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"review_status": status,
			"review_note":   note,
			"reviewed_at":   reviewedAt,
			"updated_at":    time.Now(),
		}).Error
}

func (r *CustomerRepository) UpdateAccountStatus(customerID int64, status string) error {
	return r.db.Model(&customerDatamodel.Account{}).
		Where("customer_id = ?", customerID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

func (r *CustomerRepository) UpdateDocumentUpload(documentID int64, status string, storageRef *string) error {
	updates := map[string]interface{}{
		"upload_status": status,
		"updated_at":    time.Now(),
	}
	if storageRef != nil {
		updates["storage_ref"] = *storageRef
	}

	return r.db.Model(&customerDatamodel.Document{}).
		Where("id = ?", documentID).
		Updates(updates).Error
}
