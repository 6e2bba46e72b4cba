package auth

import (
	"context"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

// fakeAssignments is mutable between checks to model live role/permission
// administration.
type fakeAssignments struct {
	byUser map[int64][]string
	err    error
}

func (f *fakeAssignments) PermissionsForUser(_ context.Context, userID int64) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]string(nil), f.byUser[userID]...), nil
}

var _ = ginkgo.Describe("Resolver", func() {
	var (
		assignments *fakeAssignments
		resolver    *Resolver
		ctx         = context.Background()
	)

	ginkgo.BeforeEach(func() {
		assignments = &fakeAssignments{
			byUser: map[int64][]string{
				1: {"customer.read"},
				2: {"customer.read", "customer.review", "account.read"},
			},
		}
		resolver = NewResolver(assignments, testLogger())
	})

	ginkgo.It("should grant a key that is a member of the effective set", func() {
		ok, err := resolver.HasPermission(ctx, 2, "customer.review")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(ok).To(gomega.BeTrue())
	})

	ginkgo.It("should deny a key outside the effective set", func() {
		ok, err := resolver.HasPermission(ctx, 1, "customer.write")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(ok).To(gomega.BeFalse())
	})

	ginkgo.It("should match keys exactly with no wildcard expansion", func() {
		ok, _ := resolver.HasPermission(ctx, 1, "customer")
		gomega.Expect(ok).To(gomega.BeFalse())

		ok, _ = resolver.HasPermission(ctx, 1, "customer.*")
		gomega.Expect(ok).To(gomega.BeFalse())
	})

	ginkgo.It("should deny every check for an unauthenticated caller", func() {
		ok, err := resolver.HasPermission(ctx, 0, "customer.read")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(ok).To(gomega.BeFalse())
	})

	ginkgo.It("should see an assignment edit on the very next check", func() {
		ok, _ := resolver.HasPermission(ctx, 1, "customer.write")
		gomega.Expect(ok).To(gomega.BeFalse())

		assignments.byUser[1] = append(assignments.byUser[1], "customer.write")

		ok, _ = resolver.HasPermission(ctx, 1, "customer.write")
		gomega.Expect(ok).To(gomega.BeTrue())

		assignments.byUser[1] = []string{"customer.read"}

		ok, _ = resolver.HasPermission(ctx, 1, "customer.write")
		gomega.Expect(ok).To(gomega.BeFalse())
	})

	ginkgo.It("should compute the union across roles", func() {
		set, err := resolver.EffectiveSet(ctx, 2)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(set).To(gomega.HaveLen(3))
		gomega.Expect(set).To(gomega.HaveKey("account.read"))
	})
})
