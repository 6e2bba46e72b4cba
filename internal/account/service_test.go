package account

import (
	"io"
	"log/slog"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	customerDatamodel "github.com/frahmantamala/customer-onboarding/internal/core/datamodel/customer"
	"github.com/frahmantamala/customer-onboarding/internal/core/pagination"
	"github.com/frahmantamala/customer-onboarding/internal/customer"
)

func TestAccount(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Account Suite")
}

type mockRepository struct {
	reviewStatus map[int64]string
	accounts     map[int64]*customerDatamodel.Account
	nextID       int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		reviewStatus: map[int64]string{
			1: customer.ReviewStatusApproved,
			2: customer.ReviewStatusPending,
		},
		accounts: map[int64]*customerDatamodel.Account{},
		nextID:   1,
	}
}

func (m *mockRepository) GetCustomerReviewStatus(customerID int64) (string, error) {
	status, ok := m.reviewStatus[customerID]
	if !ok {
		return "", ErrCustomerNotFound
	}
	return status, nil
}

func (m *mockRepository) Create(a *customerDatamodel.Account) error {
	a.ID = m.nextID
	m.nextID++
	m.accounts[a.ID] = a
	return nil
}

func (m *mockRepository) GetByID(id int64) (*customerDatamodel.Account, error) {
	a, ok := m.accounts[id]
	if !ok {
		return nil, ErrAccountNotFound
	}
	copied := *a
	return &copied, nil
}

func (m *mockRepository) GetByCustomer(customerID int64) ([]customerDatamodel.Account, error) {
	var out []customerDatamodel.Account
	for _, a := range m.accounts {
		if a.CustomerID == customerID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockRepository) List(params pagination.Params) ([]customerDatamodel.Account, int64, error) {
	var matched []customerDatamodel.Account
	for _, a := range m.accounts {
		if params.Status != "" && a.Status != params.Status {
			continue
		}
		matched = append(matched, *a)
	}

	total := int64(len(matched))
	start := params.Offset()
	if start > len(matched) {
		return nil, total, nil
	}
	end := start + params.PageSize
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (m *mockRepository) UpdateStatus(id int64, status string) error {
	a, ok := m.accounts[id]
	if !ok {
		return ErrAccountNotFound
	}
	a.Status = status
	return nil
}

var _ = ginkgo.Describe("AccountService", func() {
	var (
		repo *mockRepository
		svc  *Service
	)

	ginkgo.BeforeEach(func() {
		repo = newMockRepository()
		svc = NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	ginkgo.Describe("CreateAccount", func() {
		ginkgo.It("should open an active account for an approved customer", func() {
			created, err := svc.CreateAccount(1, CreateAccountRequest{AccountType: "savings", Currency: "idr"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(created.CustomerID).To(gomega.Equal(int64(1)))
			gomega.Expect(created.AccountNumber).To(gomega.HavePrefix("ACC-"))
			gomega.Expect(created.Status).To(gomega.Equal(StatusActive))
			gomega.Expect(created.Currency).To(gomega.Equal("IDR"))
		})

		ginkgo.It("should refuse a customer still pending review", func() {
			_, err := svc.CreateAccount(2, CreateAccountRequest{AccountType: "savings", Currency: "IDR"})
			gomega.Expect(err).To(gomega.MatchError(ErrCustomerNotApproved))
		})

		ginkgo.It("should refuse an unknown customer", func() {
			_, err := svc.CreateAccount(99, CreateAccountRequest{AccountType: "savings", Currency: "IDR"})
			gomega.Expect(err).To(gomega.MatchError(ErrCustomerNotFound))
		})

		ginkgo.It("should reject an unsupported account type", func() {
			_, err := svc.CreateAccount(1, CreateAccountRequest{AccountType: "margin", Currency: "IDR"})
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("CloseAccount", func() {
		ginkgo.It("should close an active account once", func() {
			created, err := svc.CreateAccount(1, CreateAccountRequest{AccountType: "savings", Currency: "IDR"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			gomega.Expect(svc.CloseAccount(created.ID)).To(gomega.Succeed())
			gomega.Expect(svc.CloseAccount(created.ID)).To(gomega.MatchError(ErrAlreadyClosed))
		})
	})

	ginkgo.Describe("ListAccounts", func() {
		ginkgo.It("should page accounts and filter by status", func() {
			first, err := svc.CreateAccount(1, CreateAccountRequest{AccountType: "savings", Currency: "IDR"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			_, err = svc.CreateAccount(1, CreateAccountRequest{AccountType: "checking", Currency: "USD"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(svc.CloseAccount(first.ID)).To(gomega.Succeed())

			result, err := svc.ListAccounts(pagination.Params{Status: StatusClosed})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(result.Data).To(gomega.HaveLen(1))
			gomega.Expect(result.TotalCount).To(gomega.Equal(int64(1)))
			gomega.Expect(result.Data[0].ID).To(gomega.Equal(first.ID))
		})
	})

	ginkgo.Describe("GetCustomerAccounts", func() {
		ginkgo.It("should list only the customer's accounts", func() {
			_, err := svc.CreateAccount(1, CreateAccountRequest{AccountType: "savings", Currency: "IDR"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			_, err = svc.CreateAccount(1, CreateAccountRequest{AccountType: "checking", Currency: "USD"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			accounts, err := svc.GetCustomerAccounts(1)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(accounts).To(gomega.HaveLen(2))
		})
	})
})
