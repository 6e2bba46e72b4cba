package customer

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	customerDatamodel "github.com/frahmantamala/customer-onboarding/internal/core/datamodel/customer"
	"github.com/frahmantamala/customer-onboarding/internal/core/events"
	"github.com/frahmantamala/customer-onboarding/internal/core/pagination"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockRepository struct {
	mu         sync.Mutex
	nextID     int64
	customers  map[int64]*customerDatamodel.Customer
	accounts   map[int64][]customerDatamodel.Account
	fatca      map[int64]*customerDatamodel.FatcaRecord
	documents  map[int64][]customerDatamodel.Document
	byNational map[string]int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		nextID:     1,
		customers:  map[int64]*customerDatamodel.Customer{},
		accounts:   map[int64][]customerDatamodel.Account{},
		fatca:      map[int64]*customerDatamodel.FatcaRecord{},
		documents:  map[int64][]customerDatamodel.Document{},
		byNational: map[string]int64{},
	}
}

func (m *mockRepository) Create(c *customerDatamodel.Customer, accounts []customerDatamodel.Account, fatca *customerDatamodel.FatcaRecord, docs []customerDatamodel.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	c.ID = m.nextID
	m.nextID++
	m.customers[c.ID] = c
	m.byNational[c.NationalID] = c.ID

	for i := range accounts {
		accounts[i].ID = m.nextID
		m.nextID++
		accounts[i].CustomerID = c.ID
	}
	m.accounts[c.ID] = accounts

	if fatca != nil {
		fatca.ID = m.nextID
		m.nextID++
		fatca.CustomerID = c.ID
		m.fatca[c.ID] = fatca
	}

	for i := range docs {
		docs[i].ID = m.nextID
		m.nextID++
		docs[i].CustomerID = c.ID
	}
	m.documents[c.ID] = docs

	return nil
}

func (m *mockRepository) GetByID(id int64) (*customerDatamodel.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.customers[id]
	if !ok {
		return nil, ErrCustomerNotFound
	}
	copied := *c
	return &copied, nil
}

func (m *mockRepository) GetByNationalID(nationalID string) (*customerDatamodel.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.byNational[nationalID]
	if !ok {
		return nil, ErrCustomerNotFound
	}
	copied := *m.customers[id]
	return &copied, nil
}

func (m *mockRepository) GetAccounts(customerID int64) ([]customerDatamodel.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]customerDatamodel.Account(nil), m.accounts[customerID]...), nil
}

func (m *mockRepository) GetFatca(customerID int64) (*customerDatamodel.FatcaRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fatca[customerID], nil
}

func (m *mockRepository) GetDocuments(customerID int64) ([]customerDatamodel.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]customerDatamodel.Document(nil), m.documents[customerID]...), nil
}

func (m *mockRepository) List(params pagination.Params) ([]customerDatamodel.Customer, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []customerDatamodel.Customer
	for _, c := range m.customers {
		if params.Status != "" && c.ReviewStatus != params.Status {
			continue
		}
		out = append(out, *c)
	}
	return out, int64(len(out)), nil
}

func (m *mockRepository) UpdatePersonal(c *customerDatamodel.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.customers[c.ID]
	if !ok {
		return ErrCustomerNotFound
	}
	*stored = *c
	return nil
}

func (m *mockRepository) UpdateReviewStatus(id int64, status, note string, reviewedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.customers[id]
	if !ok {
		return ErrCustomerNotFound
	}
	c.ReviewStatus = status
	c.ReviewNote = note
	c.ReviewedAt = &reviewedAt
	return nil
}

func (m *mockRepository) UpdateAccountStatus(customerID int64, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	accounts := m.accounts[customerID]
	for i := range accounts {
		accounts[i].Status = status
	}
	return nil
}

func (m *mockRepository) UpdateDocumentUpload(documentID int64, status string, storageRef *string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, docs := range m.documents {
		for i := range docs {
			if docs[i].ID == documentID {
				docs[i].UploadStatus = status
				docs[i].StorageRef = storageRef
				return nil
			}
		}
	}
	return ErrCustomerNotFound
}

func validSubmission() CreateCustomerRequest {
	return CreateCustomerRequest{
		FirstName:   "Siti",
		LastName:    "Rahma",
		Email:       "siti@example.com",
		NationalID:  "3171234567890001",
		DateOfBirth: time.Date(1992, 3, 9, 0, 0, 0, 0, time.UTC),
		CountryCode: "id",
		Accounts: []AccountRequest{
			{AccountType: "savings", Currency: "idr"},
		},
	}
}

var _ = ginkgo.Describe("CustomerService", func() {
	var (
		repo *mockRepository
		bus  *events.EventBus
		svc  *Service
		ctx  = context.Background()
	)

	ginkgo.BeforeEach(func() {
		repo = newMockRepository()
		bus = events.NewEventBus(discardLogger())
		svc = NewService(repo, bus, discardLogger())
	})

	ginkgo.Describe("CreateCustomer", func() {
		ginkgo.It("should assign server-owned fields and start pending review", func() {
			created, err := svc.CreateCustomer(ctx, 7, validSubmission())
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(created.ID).To(gomega.BeNumerically(">", 0))
			gomega.Expect(created.CustomerNumber).To(gomega.HavePrefix("CUS-"))
			gomega.Expect(created.ReviewStatus).To(gomega.Equal(ReviewStatusPending))
			gomega.Expect(created.CreatedByID).To(gomega.Equal(int64(7)))
			gomega.Expect(created.Accounts).To(gomega.HaveLen(1))
			gomega.Expect(created.Accounts[0].AccountNumber).To(gomega.HavePrefix("ACC-"))
			gomega.Expect(created.Accounts[0].Status).To(gomega.Equal(AccountStatusPending))
		})

		ginkgo.It("should refuse a duplicate national id", func() {
			_, err := svc.CreateCustomer(ctx, 7, validSubmission())
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = svc.CreateCustomer(ctx, 7, validSubmission())
			gomega.Expect(err).To(gomega.MatchError(ErrDuplicateNationalID))
		})

		ginkgo.It("should reject an invalid submission before touching the repository", func() {
			dto := validSubmission()
			dto.Email = "not-an-email"

			_, err := svc.CreateCustomer(ctx, 7, dto)
			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(repo.customers).To(gomega.BeEmpty())
		})

		ginkgo.It("should persist attachment metadata pending upload", func() {
			dto := validSubmission()
			dto.Attachments = map[string]AttachmentRequest{
				"personal_photo": {FileName: "photo.jpg", ContentType: "image/jpeg", Content: []byte("jpegdata")},
			}

			created, err := svc.CreateCustomer(ctx, 7, dto)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(created.Documents).To(gomega.HaveLen(1))
			gomega.Expect(created.Documents[0].Slot).To(gomega.Equal("personal_photo"))
			gomega.Expect(created.Documents[0].UploadStatus).To(gomega.Equal(UploadStatusPending))
			gomega.Expect(created.Documents[0].SizeBytes).To(gomega.Equal(int64(8)))
		})

		ginkgo.It("should reject an unknown attachment slot", func() {
			dto := validSubmission()
			dto.Attachments = map[string]AttachmentRequest{
				"selfie_with_cat": {FileName: "cat.jpg", ContentType: "image/jpeg", Content: []byte("x")},
			}

			_, err := svc.CreateCustomer(ctx, 7, dto)
			gomega.Expect(err).To(gomega.HaveOccurred())
		})

		ginkgo.It("should publish a submission event carrying the uploads", func() {
			received := make(chan events.Event, 1)
			bus.Subscribe(EventCustomerSubmitted, func(_ context.Context, e events.Event) error {
				received <- e
				return nil
			})

			dto := validSubmission()
			dto.Attachments = map[string]AttachmentRequest{
				"national_id_image": {FileName: "ktp.jpg", ContentType: "image/jpeg", Content: []byte("ktp")},
			}

			_, err := svc.CreateCustomer(ctx, 7, dto)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			var event events.Event
			gomega.Eventually(received, time.Second).Should(gomega.Receive(&event))

			submitted, ok := event.(SubmittedEvent)
			gomega.Expect(ok).To(gomega.BeTrue())
			gomega.Expect(submitted.Uploads).To(gomega.HaveLen(1))
			gomega.Expect(submitted.Uploads[0].DocumentID).To(gomega.BeNumerically(">", 0))
		})
	})

	ginkgo.Describe("ApproveCustomer", func() {
		ginkgo.It("should settle the review and activate accounts", func() {
			created, err := svc.CreateCustomer(ctx, 7, validSubmission())
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(svc.ApproveCustomer(created.ID, 9)).To(gomega.Succeed())

			after, err := svc.GetCustomer(created.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(after.ReviewStatus).To(gomega.Equal(ReviewStatusApproved))
			gomega.Expect(after.ReviewedAt).ToNot(gomega.BeNil())
			gomega.Expect(after.Accounts[0].Status).To(gomega.Equal(AccountStatusActive))
		})

		ginkgo.It("should refuse to settle a review twice", func() {
			created, err := svc.CreateCustomer(ctx, 7, validSubmission())
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(svc.ApproveCustomer(created.ID, 9)).To(gomega.Succeed())
			gomega.Expect(svc.ApproveCustomer(created.ID, 9)).To(gomega.MatchError(ErrInvalidReviewStatus))
			gomega.Expect(svc.RejectCustomer(created.ID, 9, "changed my mind")).To(gomega.MatchError(ErrInvalidReviewStatus))
		})

		ginkgo.It("should report a missing customer", func() {
			gomega.Expect(svc.ApproveCustomer(999, 9)).To(gomega.MatchError(ErrCustomerNotFound))
		})
	})

	ginkgo.Describe("RejectCustomer", func() {
		ginkgo.It("should require a reason", func() {
			created, err := svc.CreateCustomer(ctx, 7, validSubmission())
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			err = svc.RejectCustomer(created.ID, 9, "  ")
			gomega.Expect(err).To(gomega.HaveOccurred())
		})

		ginkgo.It("should record the reason and close accounts", func() {
			created, err := svc.CreateCustomer(ctx, 7, validSubmission())
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(svc.RejectCustomer(created.ID, 9, "document mismatch")).To(gomega.Succeed())

			after, err := svc.GetCustomer(created.ID)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(after.ReviewStatus).To(gomega.Equal(ReviewStatusRejected))
			gomega.Expect(after.ReviewNote).To(gomega.Equal("document mismatch"))
			gomega.Expect(after.Accounts[0].Status).To(gomega.Equal(AccountStatusClosed))
		})
	})

	ginkgo.Describe("UpdateCustomer", func() {
		ginkgo.It("should correct personal details while pending", func() {
			created, err := svc.CreateCustomer(ctx, 7, validSubmission())
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			updated, err := svc.UpdateCustomer(created.ID, UpdateCustomerRequest{
				FirstName:   "Siti",
				LastName:    "Rahmawati",
				Email:       "siti@example.com",
				DateOfBirth: time.Date(1992, 3, 9, 0, 0, 0, 0, time.UTC),
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(updated.LastName).To(gomega.Equal("Rahmawati"))
			gomega.Expect(updated.NationalID).To(gomega.Equal(created.NationalID))
			gomega.Expect(updated.CustomerNumber).To(gomega.Equal(created.CustomerNumber))
		})

		ginkgo.It("should refuse edits after the review settles", func() {
			created, err := svc.CreateCustomer(ctx, 7, validSubmission())
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(svc.ApproveCustomer(created.ID, 9)).To(gomega.Succeed())

			_, err = svc.UpdateCustomer(created.ID, UpdateCustomerRequest{
				FirstName:   "Siti",
				LastName:    "Changed",
				Email:       "siti@example.com",
				DateOfBirth: time.Date(1992, 3, 9, 0, 0, 0, 0, time.UTC),
			})
			gomega.Expect(err).To(gomega.MatchError(ErrCannotModify))
		})
	})

	ginkgo.Describe("ListCustomers", func() {
		ginkgo.It("should filter by review status", func() {
			first, err := svc.CreateCustomer(ctx, 7, validSubmission())
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			second := validSubmission()
			second.NationalID = "3171234567890099"
			second.Email = "other@example.com"
			_, err = svc.CreateCustomer(ctx, 7, second)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(svc.ApproveCustomer(first.ID, 9)).To(gomega.Succeed())

			result, err := svc.ListCustomers(pagination.Params{PageNumber: 1, PageSize: 10, Status: ReviewStatusPending})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(result.TotalCount).To(gomega.Equal(int64(1)))
			gomega.Expect(result.Data[0].ReviewStatus).To(gomega.Equal(ReviewStatusPending))
		})
	})
})

type fakeDocumentStore struct {
	mu      sync.Mutex
	uploads []string
	fail    bool
}

func (f *fakeDocumentStore) Upload(_ context.Context, customerNumber, slot, fileName, contentType string, content []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return "", context.DeadlineExceeded
	}
	ref := customerNumber + "/" + slot + "/" + fileName
	f.uploads = append(f.uploads, ref)
	return ref, nil
}

var _ = ginkgo.Describe("UploadEventHandler", func() {
	var (
		repo  *mockRepository
		store *fakeDocumentStore
		h     *UploadEventHandler
		ctx   = context.Background()
	)

	ginkgo.BeforeEach(func() {
		repo = newMockRepository()
		store = &fakeDocumentStore{}
		h = NewUploadEventHandler(store, repo, discardLogger())
	})

	seedDocument := func() int64 {
		dm := &customerDatamodel.Customer{NationalID: "317", CustomerNumber: "CUS-1"}
		doc := customerDatamodel.Document{Slot: "personal_photo", FileName: "photo.jpg", UploadStatus: UploadStatusPending}
		gomega.Expect(repo.Create(dm, nil, nil, []customerDatamodel.Document{doc})).To(gomega.Succeed())
		docs, _ := repo.GetDocuments(dm.ID)
		return docs[0].ID
	}

	ginkgo.It("should upload each attachment and record the storage ref", func() {
		docID := seedDocument()
		event := NewSubmittedEvent(1, "CUS-1", []DocumentUpload{
			{DocumentID: docID, Slot: "personal_photo", FileName: "photo.jpg", ContentType: "image/jpeg", Content: []byte("x")},
		})

		gomega.Expect(h.Handle(ctx, event)).To(gomega.Succeed())

		docs, _ := repo.GetDocuments(1)
		gomega.Expect(docs[0].UploadStatus).To(gomega.Equal(UploadStatusUploaded))
		gomega.Expect(docs[0].StorageRef).ToNot(gomega.BeNil())
		gomega.Expect(*docs[0].StorageRef).To(gomega.Equal("CUS-1/personal_photo/photo.jpg"))
	})

	ginkgo.It("should mark the document failed when the store refuses", func() {
		docID := seedDocument()
		store.fail = true
		event := NewSubmittedEvent(1, "CUS-1", []DocumentUpload{
			{DocumentID: docID, Slot: "personal_photo", FileName: "photo.jpg", Content: []byte("x")},
		})

		gomega.Expect(h.Handle(ctx, event)).To(gomega.Succeed())

		docs, _ := repo.GetDocuments(1)
		gomega.Expect(docs[0].UploadStatus).To(gomega.Equal(UploadStatusFailed))
	})
})
