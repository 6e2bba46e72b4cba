package account

import (
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	customerDatamodel "github.com/frahmantamala/customer-onboarding/internal/core/datamodel/customer"
	"github.com/frahmantamala/customer-onboarding/internal/core/pagination"
	"github.com/frahmantamala/customer-onboarding/internal/customer"
)

type Repository interface {
	GetCustomerReviewStatus(customerID int64) (string, error)
	Create(a *customerDatamodel.Account) error
	GetByID(id int64) (*customerDatamodel.Account, error)
	GetByCustomer(customerID int64) ([]customerDatamodel.Account, error)
	List(params pagination.Params) ([]customerDatamodel.Account, int64, error)
	UpdateStatus(id int64, status string) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// CreateAccount opens an account for an approved customer. The owning
// customer id comes from the route, never from the body.
func (s *Service) CreateAccount(customerID int64, dto CreateAccountRequest) (*Account, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	status, err := s.repo.GetCustomerReviewStatus(customerID)
	if err != nil {
		return nil, err
	}
	if status != customer.ReviewStatusApproved {
		s.logger.Warn("account refused: customer not approved",
			"customer_id", customerID, "review_status", status)
		return nil, ErrCustomerNotApproved
	}

	now := s.now()
	dm := createAccountMapper.Translate(&dto)
	dm.CustomerID = customerID
	dm.AccountNumber = "ACC-" + strings.ToUpper(uuid.NewString()[:13])
	dm.Status = StatusActive
	dm.OpenedAt = now
	dm.CreatedAt = now
	dm.UpdatedAt = now

	if err := s.repo.Create(dm); err != nil {
		s.logger.Error("failed to create account", "error", err, "customer_id", customerID)
		return nil, err
	}

	s.logger.Info("account opened",
		"account_id", dm.ID,
		"customer_id", customerID,
		"account_type", dm.AccountType,
		"currency", dm.Currency)

	return FromDataModel(dm), nil
}

// ListAccounts pages over all accounts, optionally filtered by status.
func (s *Service) ListAccounts(params pagination.Params) (*pagination.Result[Account], error) {
	params = params.Normalize()

	dms, total, err := s.repo.List(params)
	if err != nil {
		s.logger.Error("failed to list accounts", "error", err)
		return nil, err
	}

	result := pagination.NewResult(FromDataModelSlice(dms), params, total)
	return &result, nil
}

func (s *Service) GetCustomerAccounts(customerID int64) ([]Account, error) {
	if _, err := s.repo.GetCustomerReviewStatus(customerID); err != nil {
		return nil, err
	}

	accounts, err := s.repo.GetByCustomer(customerID)
	if err != nil {
		s.logger.Error("failed to list accounts", "error", err, "customer_id", customerID)
		return nil, err
	}
	return FromDataModelSlice(accounts), nil
}

// CloseAccount closes an open account. Closing an already-closed account
// returns ErrAlreadyClosed.
func (s *Service) CloseAccount(id int64) error {
	dm, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}

	if dm.Status == StatusClosed {
		return ErrAlreadyClosed
	}

	if err := s.repo.UpdateStatus(id, StatusClosed); err != nil {
		s.logger.Error("failed to close account", "error", err, "account_id", id)
		return err
	}

	s.logger.Info("account closed", "account_id", id, "customer_id", dm.CustomerID)
	return nil
}
