package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestAuthRepository(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "AuthRepository Suite")
}

var _ = ginkgo.Describe("Repository", func() {
	var (
		sqlDB *sql.DB
		mock  sqlmock.Sqlmock
		repo  *Repository
	)

	ginkgo.BeforeEach(func() {
		var err error
		sqlDB, mock, err = sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		db, err := gorm.Open(postgres.New(postgres.Config{
			Conn:                 sqlDB,
			PreferSimpleProtocol: true,
		}), &gorm.Config{DisableAutomaticPing: true})
		gomega.Expect(err).ToNot(gomega.HaveOccurred())

		repo = NewRepository(db)
	})

	ginkgo.AfterEach(func() {
		gomega.Expect(mock.ExpectationsWereMet()).To(gomega.Succeed())
		sqlDB.Close()
	})

	ginkgo.Describe("GetCredentials", func() {
		ginkgo.It("should scan the stored login material", func() {
			mock.ExpectQuery(`SELECT id, password_hash, is_active FROM users`).
				WithArgs("officer", "officer").
				WillReturnRows(sqlmock.NewRows([]string{"id", "password_hash", "is_active"}).
					AddRow(int64(7), "$2a$10$hash", true))

			creds, err := repo.GetCredentials("officer")
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(creds.UserID).To(gomega.Equal(int64(7)))
			gomega.Expect(creds.IsActive).To(gomega.BeTrue())
		})

		ginkgo.It("should report an unknown identifier", func() {
			mock.ExpectQuery(`SELECT id, password_hash, is_active FROM users`).
				WithArgs("ghost", "ghost").
				WillReturnRows(sqlmock.NewRows([]string{"id", "password_hash", "is_active"}))

			_, err := repo.GetCredentials("ghost")
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("PermissionsForUser", func() {
		ginkgo.It("should collect the distinct keys across active roles", func() {
			mock.ExpectQuery(`SELECT DISTINCT p.key`).
				WithArgs(int64(7)).
				WillReturnRows(sqlmock.NewRows([]string{"key"}).
					AddRow("customer.read").
					AddRow("customer.review"))

			perms, err := repo.PermissionsForUser(context.Background(), 7)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(perms).To(gomega.ConsistOf("customer.read", "customer.review"))
		})

		ginkgo.It("should return an empty set for a user with no roles", func() {
			mock.ExpectQuery(`SELECT DISTINCT p.key`).
				WithArgs(int64(9)).
				WillReturnRows(sqlmock.NewRows([]string{"key"}))

			perms, err := repo.PermissionsForUser(context.Background(), 9)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(perms).To(gomega.BeEmpty())
		})
	})

	ginkgo.Describe("TouchLastLogin", func() {
		ginkgo.It("should stamp the login and update timestamps", func() {
			at := time.Now()
			mock.ExpectExec(`UPDATE users SET last_login_at`).
				WithArgs(at, at, int64(7)).
				WillReturnResult(sqlmock.NewResult(0, 1))

			gomega.Expect(repo.TouchLastLogin(7, at)).To(gomega.Succeed())
		})
	})
})
