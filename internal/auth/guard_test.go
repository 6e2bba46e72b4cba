package auth

import (
	"context"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("Guard", func() {
	var (
		guard       *Guard
		assignments *fakeAssignments
		ctx         = context.Background()
	)

	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)

	validSession := func() *Session {
		return &Session{Token: "token", Claims: claimsExpiringAt(now.Add(time.Hour))}
	}

	expiredSession := func() *Session {
		return &Session{Token: "token", Claims: claimsExpiringAt(now.Add(-5 * time.Minute))}
	}

	ginkgo.BeforeEach(func() {
		assignments = &fakeAssignments{
			byUser: map[int64][]string{
				1: {"customer.read"},
			},
		}
		guard = NewGuard(Evaluator{}, NewResolver(assignments, testLogger()), testLogger())
	})

	ginkgo.Context("when no session is held", func() {
		ginkgo.It("should redirect to login carrying the requested target", func() {
			d := guard.Decide(ctx, nil, RouteMeta{Path: "/customers"}, now)

			gomega.Expect(d.Allow).To(gomega.BeFalse())
			gomega.Expect(d.RedirectTo).To(gomega.Equal("/auth/login?returnUrl=%2Fcustomers"))
			gomega.Expect(d.ClearSession).To(gomega.BeFalse())
		})

		ginkgo.It("should treat a session without claims the same way", func() {
			d := guard.Decide(ctx, &Session{Token: "junk"}, RouteMeta{Path: "/customers"}, now)
			gomega.Expect(d.RedirectTo).To(gomega.ContainSubstring("/auth/login"))
		})
	})

	ginkgo.Context("when the session is expired", func() {
		ginkgo.It("should clear the session and redirect to login without a return target", func() {
			d := guard.Decide(ctx, expiredSession(), RouteMeta{Path: "/customers"}, now)

			gomega.Expect(d.Allow).To(gomega.BeFalse())
			gomega.Expect(d.ClearSession).To(gomega.BeTrue())
			gomega.Expect(d.RedirectTo).To(gomega.Equal("/auth/login"))
		})

		ginkgo.It("should decide expiry before permissions on a gated route", func() {
			// The expiry branch always wins over permission evaluation,
			// even when the permission check would also deny.
			d := guard.Decide(ctx, expiredSession(), RouteMeta{Path: "/customers", Permission: "customer.write"}, now)

			gomega.Expect(d.RedirectTo).To(gomega.Equal("/auth/login"))
			gomega.Expect(d.RedirectTo).ToNot(gomega.ContainSubstring("access-denied"))
		})
	})

	ginkgo.Context("when the session is valid", func() {
		ginkgo.It("should allow a route that declares no permission", func() {
			d := guard.Decide(ctx, validSession(), RouteMeta{Path: "/users/me"}, now)
			gomega.Expect(d.Allow).To(gomega.BeTrue())
		})

		ginkgo.It("should allow a route whose permission is held", func() {
			d := guard.Decide(ctx, validSession(), RouteMeta{Path: "/customers", Permission: "customer.read"}, now)
			gomega.Expect(d.Allow).To(gomega.BeTrue())
		})

		ginkgo.It("should redirect to access-denied when the permission is missing", func() {
			d := guard.Decide(ctx, validSession(), RouteMeta{Path: "/customers", Permission: "customer.write"}, now)

			gomega.Expect(d.Allow).To(gomega.BeFalse())
			gomega.Expect(d.RedirectTo).To(gomega.Equal("/auth/access-denied"))
			gomega.Expect(d.ClearSession).To(gomega.BeFalse())
		})

		ginkgo.It("should see a role edit on the next navigation attempt", func() {
			route := RouteMeta{Path: "/customers", Permission: "customer.write"}

			d := guard.Decide(ctx, validSession(), route, now)
			gomega.Expect(d.Allow).To(gomega.BeFalse())

			assignments.byUser[1] = append(assignments.byUser[1], "customer.write")

			d = guard.Decide(ctx, validSession(), route, now)
			gomega.Expect(d.Allow).To(gomega.BeTrue())
		})

		ginkgo.It("should fail closed when permission resolution errors", func() {
			assignments.err = context.DeadlineExceeded

			d := guard.Decide(ctx, validSession(), RouteMeta{Path: "/customers", Permission: "customer.read"}, now)
			gomega.Expect(d.Allow).To(gomega.BeFalse())
			gomega.Expect(d.RedirectTo).To(gomega.Equal("/auth/access-denied"))
		})
	})
})
