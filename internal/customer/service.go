package customer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	customerDatamodel "github.com/frahmantamala/customer-onboarding/internal/core/datamodel/customer"
	"github.com/frahmantamala/customer-onboarding/internal/core/events"
	"github.com/frahmantamala/customer-onboarding/internal/core/pagination"
)

// Repository defines the data access methods for onboarding records.
type Repository interface {
	Create(c *customerDatamodel.Customer, accounts []customerDatamodel.Account, fatca *customerDatamodel.FatcaRecord, docs []customerDatamodel.Document) error
	GetByID(id int64) (*customerDatamodel.Customer, error)
	GetByNationalID(nationalID string) (*customerDatamodel.Customer, error)
	GetAccounts(customerID int64) ([]customerDatamodel.Account, error)
	GetFatca(customerID int64) (*customerDatamodel.FatcaRecord, error)
	GetDocuments(customerID int64) ([]customerDatamodel.Document, error)
	List(params pagination.Params) ([]customerDatamodel.Customer, int64, error)
	UpdatePersonal(c *customerDatamodel.Customer) error
	UpdateReviewStatus(id int64, status, note string, reviewedAt time.Time) error
	UpdateAccountStatus(customerID int64, status string) error
	UpdateDocumentUpload(documentID int64, status string, storageRef *string) error
}

// Service handles the onboarding business logic.
type Service struct {
	repo   Repository
	bus    *events.EventBus
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		bus:    bus,
		logger: logger,
		now:    time.Now,
	}
}

// CreateCustomer validates and persists a submission. All server-owned
// fields are assigned here; the request body only ever contributes through
// the mapping policy tables.
func (s *Service) CreateCustomer(ctx context.Context, creatorID int64, dto CreateCustomerRequest) (*Customer, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("customer validation failed", "error", err, "created_by", creatorID)
		return nil, err
	}

	if existing, err := s.repo.GetByNationalID(strings.TrimSpace(dto.NationalID)); err == nil && existing != nil {
		s.logger.Warn("duplicate national id on submission", "existing_customer_id", existing.ID)
		return nil, ErrDuplicateNationalID
	}

	now := s.now()

	dm := createCustomerMapper.Translate(&dto)
	dm.CustomerNumber = newCustomerNumber()
	dm.ReviewStatus = ReviewStatusPending
	dm.CreatedByID = creatorID
	dm.SubmittedAt = now
	dm.CreatedAt = now
	dm.UpdatedAt = now

	accounts := make([]customerDatamodel.Account, 0, len(dto.Accounts))
	for i := range dto.Accounts {
		acc := accountMapper.Translate(&dto.Accounts[i])
		acc.AccountNumber = newAccountNumber()
		acc.Status = AccountStatusPending
		acc.OpenedAt = now
		acc.CreatedAt = now
		acc.UpdatedAt = now
		accounts = append(accounts, *acc)
	}

	var fatca *customerDatamodel.FatcaRecord
	if dto.Fatca != nil {
		fatca = fatcaMapper.Translate(dto.Fatca)
		fatca.CreatedAt = now
		fatca.UpdatedAt = now
	}

	docs := make([]customerDatamodel.Document, 0, len(dto.Attachments))
	uploads := make([]DocumentUpload, 0, len(dto.Attachments))
	for _, slot := range DocumentSlots {
		att, ok := dto.Attachments[slot]
		if !ok {
			continue
		}
		doc := documentMapper.Translate(&att)
		doc.Slot = slot
		doc.UploadStatus = UploadStatusPending
		doc.CreatedAt = now
		doc.UpdatedAt = now
		docs = append(docs, *doc)
		uploads = append(uploads, DocumentUpload{
			Slot:        slot,
			FileName:    att.FileName,
			ContentType: att.ContentType,
			Content:     att.Content,
		})
	}

	if err := s.repo.Create(dm, accounts, fatca, docs); err != nil {
		s.logger.Error("failed to create customer", "error", err, "created_by", creatorID)
		return nil, err
	}

	if len(uploads) > 0 {
		persisted, err := s.repo.GetDocuments(dm.ID)
		if err != nil {
			s.logger.Error("failed to reload documents for upload", "error", err, "customer_id", dm.ID)
		} else {
			for i := range uploads {
				for j := range persisted {
					if persisted[j].Slot == uploads[i].Slot {
						uploads[i].DocumentID = persisted[j].ID
					}
				}
			}
			if err := s.bus.Publish(ctx, NewSubmittedEvent(dm.ID, dm.CustomerNumber, uploads)); err != nil {
				s.logger.Error("failed to publish submission event", "error", err, "customer_id", dm.ID)
			}
		}
	}

	s.logger.Info("customer submitted",
		"customer_id", dm.ID,
		"customer_number", dm.CustomerNumber,
		"created_by", creatorID,
		"accounts", len(accounts),
		"documents", len(docs))

	return s.aggregate(dm)
}

// GetCustomer loads the submission with its accounts, FATCA record and
// document metadata.
func (s *Service) GetCustomer(id int64) (*Customer, error) {
	dm, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return s.aggregate(dm)
}

func (s *Service) ListCustomers(params pagination.Params) (*pagination.Result[Customer], error) {
	params = params.Normalize()

	dms, total, err := s.repo.List(params)
	if err != nil {
		s.logger.Error("failed to list customers", "error", err)
		return nil, err
	}

	items := make([]Customer, len(dms))
	for i := range dms {
		items[i] = *FromDataModel(&dms[i])
	}

	result := pagination.NewResult(items, params, total)
	return &result, nil
}

// UpdateCustomer corrects personal details while the submission is still
// pending review. The update mapper guarantees identity and review fields
// stay untouched regardless of the request body.
func (s *Service) UpdateCustomer(id int64, dto UpdateCustomerRequest) (*Customer, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	dm, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if dm.ReviewStatus != ReviewStatusPending {
		s.logger.Warn("update refused: review already settled",
			"customer_id", id, "review_status", dm.ReviewStatus)
		return nil, ErrCannotModify
	}

	updateCustomerMapper.Apply(&dto, dm)
	dm.UpdatedAt = s.now()

	if err := s.repo.UpdatePersonal(dm); err != nil {
		s.logger.Error("failed to update customer", "error", err, "customer_id", id)
		return nil, err
	}

	return s.aggregate(dm)
}

// ApproveCustomer settles a pending review as approved and activates the
// customer's accounts.
func (s *Service) ApproveCustomer(id, reviewerID int64) error {
	dm, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("customer not found for approval", "error", err, "customer_id", id)
		return err
	}

	c := FromDataModel(dm)
	if !c.CanBeApproved() {
		s.logger.Warn("cannot approve customer in current status",
			"customer_id", id, "review_status", dm.ReviewStatus)
		return ErrInvalidReviewStatus
	}

	reviewedAt := s.now()
	if err := s.repo.UpdateReviewStatus(id, ReviewStatusApproved, "", reviewedAt); err != nil {
		s.logger.Error("failed to approve customer", "error", err, "customer_id", id)
		return err
	}

	if err := s.repo.UpdateAccountStatus(id, AccountStatusActive); err != nil {
		s.logger.Error("failed to activate accounts", "error", err, "customer_id", id)
		return err
	}

	s.logger.Info("customer approved",
		"customer_id", id,
		"reviewer_id", reviewerID)

	return nil
}

// RejectCustomer settles a pending review as rejected with a mandatory
// reason.
func (s *Service) RejectCustomer(id, reviewerID int64, reason string) error {
	if err := (RejectCustomerDTO{Reason: reason}).Validate(); err != nil {
		return err
	}

	dm, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("customer not found for rejection", "error", err, "customer_id", id)
		return err
	}

	c := FromDataModel(dm)
	if !c.CanBeRejected() {
		s.logger.Warn("cannot reject customer in current status",
			"customer_id", id, "review_status", dm.ReviewStatus)
		return ErrInvalidReviewStatus
	}

	reviewedAt := s.now()
	if err := s.repo.UpdateReviewStatus(id, ReviewStatusRejected, reason, reviewedAt); err != nil {
		s.logger.Error("failed to reject customer", "error", err, "customer_id", id)
		return err
	}

	if err := s.repo.UpdateAccountStatus(id, AccountStatusClosed); err != nil {
		s.logger.Error("failed to close accounts", "error", err, "customer_id", id)
		return err
	}

	s.logger.Info("customer rejected",
		"customer_id", id,
		"reviewer_id", reviewerID,
		"reason", reason)

	return nil
}

func (s *Service) aggregate(dm *customerDatamodel.Customer) (*Customer, error) {
	c := FromDataModel(dm)

	accounts, err := s.repo.GetAccounts(dm.ID)
	if err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}
	for i := range accounts {
		c.Accounts = append(c.Accounts, AccountFromDataModel(&accounts[i]))
	}

	fatca, err := s.repo.GetFatca(dm.ID)
	if err == nil && fatca != nil {
		c.Fatca = FatcaFromDataModel(fatca)
	}

	docs, err := s.repo.GetDocuments(dm.ID)
	if err != nil {
		return nil, fmt.Errorf("load documents: %w", err)
	}
	for i := range docs {
		c.Documents = append(c.Documents, DocumentFromDataModel(&docs[i]))
	}

	return c, nil
}

func newCustomerNumber() string {
	return "CUS-" + strings.ToUpper(uuid.NewString()[:13])
}

func newAccountNumber() string {
	return "ACC-" + strings.ToUpper(uuid.NewString()[:13])
}
