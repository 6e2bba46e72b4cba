package auth

import (
	"io"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func claimsExpiringAt(t time.Time) *Claims {
	return &Claims{
		UserID: "1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(t),
		},
	}
}

var _ = ginkgo.Describe("Evaluator", func() {
	now := time.Date(2026, 8, 27, 12, 0, 0, 0, time.UTC)

	ginkgo.Context("with no skew tolerance", func() {
		eval := Evaluator{}

		ginkgo.It("should treat a held nil token as expired", func() {
			gomega.Expect(eval.IsExpired(nil, now)).To(gomega.BeTrue())
		})

		ginkgo.It("should treat claims without an expiry as expired", func() {
			gomega.Expect(eval.IsExpired(&Claims{UserID: "1"}, now)).To(gomega.BeTrue())
		})

		ginkgo.It("should treat the exact expiry instant as expired", func() {
			gomega.Expect(eval.IsExpired(claimsExpiringAt(now), now)).To(gomega.BeTrue())
		})

		ginkgo.It("should treat a past expiry as expired", func() {
			gomega.Expect(eval.IsExpired(claimsExpiringAt(now.Add(-5*time.Minute)), now)).To(gomega.BeTrue())
		})

		ginkgo.It("should treat a future expiry as valid", func() {
			gomega.Expect(eval.IsExpired(claimsExpiringAt(now.Add(time.Nanosecond)), now)).To(gomega.BeFalse())
		})
	})

	ginkgo.Context("with a configured skew tolerance", func() {
		eval := Evaluator{SkewTolerance: 30 * time.Second}

		ginkgo.It("should keep a just-expired token valid inside the window", func() {
			gomega.Expect(eval.IsExpired(claimsExpiringAt(now.Add(-10*time.Second)), now)).To(gomega.BeFalse())
		})

		ginkgo.It("should expire once the window is exhausted", func() {
			gomega.Expect(eval.IsExpired(claimsExpiringAt(now.Add(-30*time.Second)), now)).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("TimeRemaining", func() {
		eval := Evaluator{}

		ginkgo.It("should report the remaining validity", func() {
			remaining := eval.TimeRemaining(claimsExpiringAt(now.Add(5*time.Minute)), now)
			gomega.Expect(remaining).To(gomega.Equal(5 * time.Minute))
		})

		ginkgo.It("should report zero for an expired or absent token", func() {
			gomega.Expect(eval.TimeRemaining(claimsExpiringAt(now.Add(-time.Minute)), now)).To(gomega.BeZero())
			gomega.Expect(eval.TimeRemaining(nil, now)).To(gomega.BeZero())
		})
	})
})

var _ = ginkgo.Describe("JWTTokenGenerator", func() {
	var tokenGen *JWTTokenGenerator

	ginkgo.BeforeEach(func() {
		tokenGen = NewJWTTokenGenerator("test-access-secret", "test-refresh-secret", 15*time.Minute, 24*time.Hour)
	})

	ginkgo.It("should round-trip claims through an access token", func() {
		token, err := tokenGen.GenerateAccessToken("42", "officer@example.com")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		claims, err := tokenGen.ValidateToken(token)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
		gomega.Expect(claims.UserID).To(gomega.Equal("42"))
		gomega.Expect(claims.Email).To(gomega.Equal("officer@example.com"))
	})

	ginkgo.It("should round-trip a refresh token", func() {
		token, err := tokenGen.GenerateRefreshToken("42", "officer@example.com")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		_, err = tokenGen.ValidateToken(token)
		gomega.Expect(err).ToNot(gomega.HaveOccurred())
	})

	ginkgo.It("should fail closed on a malformed token", func() {
		claims, err := tokenGen.ValidateToken("garbage.token.value")
		gomega.Expect(err).To(gomega.MatchError(ErrInvalidToken))
		gomega.Expect(claims).To(gomega.BeNil())
	})

	ginkgo.It("should return decoded claims alongside ErrTokenExpired", func() {
		expiredGen := NewJWTTokenGenerator("test-access-secret", "test-refresh-secret", -time.Minute, 24*time.Hour)
		token, err := expiredGen.GenerateAccessToken("42", "officer@example.com")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		claims, err := tokenGen.ValidateToken(token)
		gomega.Expect(err).To(gomega.MatchError(ErrTokenExpired))
		gomega.Expect(claims).ToNot(gomega.BeNil())
		gomega.Expect(claims.UserID).To(gomega.Equal("42"))
	})

	ginkgo.It("should reject a token signed with the wrong secret", func() {
		otherGen := NewJWTTokenGenerator("another-access-secret", "another-refresh-secret", 15*time.Minute, 24*time.Hour)
		token, err := otherGen.GenerateAccessToken("42", "officer@example.com")
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		_, err = tokenGen.ValidateToken(token)
		gomega.Expect(err).To(gomega.MatchError(ErrInvalidToken))
	})
})
