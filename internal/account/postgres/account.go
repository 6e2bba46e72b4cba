package postgres

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/frahmantamala/customer-onboarding/internal/account"
	customerDatamodel "github.com/frahmantamala/customer-onboarding/internal/core/datamodel/customer"
	"github.com/frahmantamala/customer-onboarding/internal/core/pagination"
)

// AccountRepository implements the account.Repository interface using GORM.
type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) GetCustomerReviewStatus(customerID int64) (string, error) {
	var status string
	err := r.db.Model(&customerDatamodel.Customer{}).
		Where("id = ?", customerID).
		Pluck("review_status", &status).Error
	if err != nil {
		return "", err
	}
	if status == "" {
		return "", account.ErrCustomerNotFound
	}
	return status, nil
}

func (r *AccountRepository) Create(a *customerDatamodel.Account) error {
	return r.db.Create(a).Error
}

func (r *AccountRepository) GetByID(id int64) (*customerDatamodel.Account, error) {
	var a customerDatamodel.Account
	err := r.db.Where("id = ?", id).First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, account.ErrAccountNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *AccountRepository) GetByCustomer(customerID int64) ([]customerDatamodel.Account, error) {
	var accounts []customerDatamodel.Account
	err := r.db.Where("customer_id = ?", customerID).
		Order("opened_at DESC").
		Find(&accounts).Error
	return accounts, err
}

// allowed sort columns for account listing
var accountSortColumns = map[string]string{
	"opened_at":      "opened_at",
	"account_number": "account_number",
	"status":         "status",
	"currency":       "currency",
}

// List applies status filter, sorting and pagination. The parameters arrive
// already normalized.
func (r *AccountRepository) List(params pagination.Params) ([]customerDatamodel.Account, int64, error) {
	query := r.db.Model(&customerDatamodel.Account{})

	if params.SearchTerm != "" {
		term := "%" + params.SearchTerm + "%"
		query = query.Where("account_number ILIKE ?", term)
	}

	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count accounts: %w", err)
	}

	orderBy := "opened_at DESC"
	if col, ok := accountSortColumns[params.SortBy]; ok {
		orderBy = col
		if params.SortDescending {
			orderBy += " DESC"
		}
	}

	var accounts []customerDatamodel.Account
	err := query.Order(orderBy).
		Limit(params.PageSize).
		Offset(params.Offset()).
		Find(&accounts).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list accounts: %w", err)
	}

	return accounts, total, nil
}

func (r *AccountRepository) UpdateStatus(id int64, status string) error {
	return r.db.Model(&customerDatamodel.Account{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}
