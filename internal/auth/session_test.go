package auth

import (
	"sync"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

var _ = ginkgo.Describe("SessionStore", func() {
	var store *SessionStore
	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)

	ginkgo.BeforeEach(func() {
		store = NewSessionStore(Evaluator{})
	})

	ginkgo.It("should hold no session initially", func() {
		gomega.Expect(store.Current("sess-1")).To(gomega.BeNil())
		gomega.Expect(store.IsAuthenticated("sess-1", now)).To(gomega.BeFalse())
	})

	ginkgo.It("should replace an existing session atomically", func() {
		store.Set("sess-1", "token-a", claimsExpiringAt(now.Add(time.Hour)))
		store.Set("sess-1", "token-b", claimsExpiringAt(now.Add(2*time.Hour)))

		sess := store.Current("sess-1")
		gomega.Expect(sess.Token).To(gomega.Equal("token-b"))
	})

	ginkgo.It("should isolate sessions by key", func() {
		store.Set("sess-1", "token-a", claimsExpiringAt(now.Add(time.Hour)))

		gomega.Expect(store.Current("sess-2")).To(gomega.BeNil())
	})

	ginkgo.It("should clear idempotently", func() {
		store.Set("sess-1", "token-a", claimsExpiringAt(now.Add(time.Hour)))

		store.Clear("sess-1")
		store.Clear("sess-1")

		gomega.Expect(store.Current("sess-1")).To(gomega.BeNil())
	})

	ginkgo.It("should report authenticated only while the token is unexpired", func() {
		store.Set("sess-1", "token-a", claimsExpiringAt(now.Add(time.Minute)))

		gomega.Expect(store.IsAuthenticated("sess-1", now)).To(gomega.BeTrue())
		gomega.Expect(store.IsAuthenticated("sess-1", now.Add(time.Minute))).To(gomega.BeFalse())
	})

	ginkgo.It("should survive concurrent writers without a partial state", func() {
		var wg sync.WaitGroup
		for i := 0; i < 32; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				store.Set("sess-1", "token", claimsExpiringAt(now.Add(time.Hour)))
				store.Current("sess-1")
			}()
		}
		wg.Wait()

		sess := store.Current("sess-1")
		gomega.Expect(sess).ToNot(gomega.BeNil())
		gomega.Expect(sess.Token).To(gomega.Equal("token"))
	})
})
