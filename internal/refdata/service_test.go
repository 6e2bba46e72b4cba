package refdata

import (
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	refdataDatamodel "github.com/frahmantamala/customer-onboarding/internal/core/datamodel/refdata"
)

func TestRefdata(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Refdata Suite")
}

type mockRepository struct {
	countries []*refdataDatamodel.Country
	err       error
}

func (m *mockRepository) GetAll() ([]*refdataDatamodel.Country, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.countries, nil
}

func (m *mockRepository) GetByCode(code string) (*refdataDatamodel.Country, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, c := range m.countries {
		if c.Code == code {
			return c, nil
		}
	}
	return nil, nil
}

var _ = ginkgo.Describe("RefdataService", func() {
	var (
		repo *mockRepository
		svc  *Service
	)

	ginkgo.BeforeEach(func() {
		repo = &mockRepository{
			countries: []*refdataDatamodel.Country{
				{ID: 1, Code: "ID", Name: "Indonesia", DefaultCurrency: "IDR", IsActive: true},
				{ID: 2, Code: "SG", Name: "Singapore", DefaultCurrency: "SGD", IsActive: true},
				{ID: 3, Code: "XX", Name: "Retired", IsActive: false},
			},
		}
		svc = NewService(repo, slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	ginkgo.It("should list only active countries", func() {
		countries, err := svc.GetAllCountries()
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(countries).To(gomega.HaveLen(2))
	})

	ginkgo.It("should look up a country case-insensitively", func() {
		country, err := svc.GetCountryByCode("id")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(country).ToNot(gomega.BeNil())
		gomega.Expect(country.Name).To(gomega.Equal("Indonesia"))
	})

	ginkgo.It("should treat an inactive country as absent", func() {
		country, err := svc.GetCountryByCode("XX")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(country).To(gomega.BeNil())
		gomega.Expect(svc.IsValidCountry("XX")).To(gomega.BeFalse())
	})

	ginkgo.It("should report validity for an active country", func() {
		gomega.Expect(svc.IsValidCountry("SG")).To(gomega.BeTrue())
	})

	ginkgo.It("should fail closed on repository errors", func() {
		repo.err = errors.New("connection refused")
		gomega.Expect(svc.IsValidCountry("ID")).To(gomega.BeFalse())
	})
})
