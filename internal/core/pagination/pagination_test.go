package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func TestPagination(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Pagination Suite")
}

var _ = ginkgo.Describe("Params", func() {
	ginkgo.Describe("Normalize", func() {
		ginkgo.It("should clamp oversized page size to the maximum", func() {
			p := Params{PageNumber: 1, PageSize: 1000}.Normalize()
			gomega.Expect(p.PageSize).To(gomega.Equal(MaxPageSize))
		})

		ginkgo.It("should default a zero page size instead of erroring", func() {
			p := Params{PageNumber: 1}.Normalize()
			gomega.Expect(p.PageSize).To(gomega.Equal(DefaultPageSize))
		})

		ginkgo.It("should clamp page number to at least 1", func() {
			p := Params{PageNumber: -3, PageSize: 10}.Normalize()
			gomega.Expect(p.PageNumber).To(gomega.Equal(1))
		})

		ginkgo.It("should keep in-range values untouched", func() {
			p := Params{PageNumber: 4, PageSize: 25}.Normalize()
			gomega.Expect(p.PageNumber).To(gomega.Equal(4))
			gomega.Expect(p.PageSize).To(gomega.Equal(25))
		})
	})

	ginkgo.Describe("Offset", func() {
		ginkgo.It("should compute the row offset from page number and size", func() {
			p := Params{PageNumber: 3, PageSize: 10}.Normalize()
			gomega.Expect(p.Offset()).To(gomega.Equal(20))
		})
	})

	ginkgo.Describe("FromRequest", func() {
		ginkgo.It("should parse and normalize query parameters", func() {
			r := httptest.NewRequest("GET", "/customers?pageNumber=2&pageSize=500&searchTerm=doe&sortBy=created_at&sortDescending=true", nil)
			p := FromRequest(r)

			gomega.Expect(p.PageNumber).To(gomega.Equal(2))
			gomega.Expect(p.PageSize).To(gomega.Equal(MaxPageSize))
			gomega.Expect(p.SearchTerm).To(gomega.Equal("doe"))
			gomega.Expect(p.SortBy).To(gomega.Equal("created_at"))
			gomega.Expect(p.SortDescending).To(gomega.BeTrue())
		})

		ginkgo.It("should accept reviewStatus as the status filter", func() {
			r := httptest.NewRequest("GET", "/customers?reviewStatus=pending_review", nil)
			p := FromRequest(r)
			gomega.Expect(p.Status).To(gomega.Equal("pending_review"))
		})
	})
})

var _ = ginkgo.Describe("Result", func() {
	ginkgo.It("should report zero pages and no flags for an empty set", func() {
		res := NewResult([]string{}, Params{PageNumber: 1, PageSize: 10}, 0)

		gomega.Expect(res.TotalPages).To(gomega.Equal(0))
		gomega.Expect(res.HasNextPage).To(gomega.BeFalse())
		gomega.Expect(res.HasPreviousPage).To(gomega.BeFalse())
		gomega.Expect(res.Data).NotTo(gomega.BeNil())
	})

	ginkgo.It("should round total pages up", func() {
		res := NewResult(make([]int, 10), Params{PageNumber: 1, PageSize: 10}, 21)
		gomega.Expect(res.TotalPages).To(gomega.Equal(3))
	})

	ginkgo.It("should derive the navigation flags from page position", func() {
		middle := NewResult(make([]int, 10), Params{PageNumber: 2, PageSize: 10}, 30)
		gomega.Expect(middle.HasPreviousPage).To(gomega.BeTrue())
		gomega.Expect(middle.HasNextPage).To(gomega.BeTrue())

		last := NewResult(make([]int, 10), Params{PageNumber: 3, PageSize: 10}, 30)
		gomega.Expect(last.HasPreviousPage).To(gomega.BeTrue())
		gomega.Expect(last.HasNextPage).To(gomega.BeFalse())
	})

	ginkgo.It("should apply the contract independent of element type", func() {
		type row struct{ ID int64 }
		res := NewResult([]row{{1}, {2}}, Params{PageNumber: 1, PageSize: 2}, 4)
		gomega.Expect(res.TotalPages).To(gomega.Equal(2))
		gomega.Expect(res.HasNextPage).To(gomega.BeTrue())
	})
})
