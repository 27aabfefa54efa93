package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/frahmantamala/project-management/internal/auth"
	"github.com/frahmantamala/project-management/internal/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func TestUserPostgres(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "User Postgres Suite")
}

var columns = []string{"id", "email", "first_name", "last_name", "role", "manager_id", "department_id", "team_id", "status", "created_at"}

func strPtr(s string) *string { return &s }

var _ = Describe("User pgx repository", func() {
	var (
		mock      pgxmock.PgxPoolIface
		repo      *Repository
		ctx       context.Context
		createdAt time.Time
	)

	BeforeEach(func() {
		var err error
		mock, err = pgxmock.NewPool()
		Expect(err).NotTo(HaveOccurred())
		repo = NewRepository(mock)
		ctx = context.Background()
		createdAt = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	})

	AfterEach(func() {
		Expect(mock.ExpectationsWereMet()).To(Succeed())
		mock.Close()
	})

	Describe("FindByID", func() {
		It("maps a row into a user", func() {
			mock.ExpectQuery(regexp.QuoteMeta(findUserByIDQuery)).
				WithArgs("e1").
				WillReturnRows(pgxmock.NewRows(columns).
					AddRow("e1", "e1@example.com", "Erin", "Ng", "EMPLOYEE", strPtr("m1"), nil, nil, "ACTIVE", createdAt))

			u, err := repo.FindByID(ctx, "e1")
			Expect(err).NotTo(HaveOccurred())
			Expect(u.ID).To(Equal("e1"))
			Expect(u.Role).To(Equal(auth.RoleEmployee))
			Expect(u.Status).To(Equal(user.StatusActive))
			Expect(u.ManagerID).NotTo(BeNil())
			Expect(*u.ManagerID).To(Equal("m1"))
			Expect(u.DepartmentID).To(BeNil())
			Expect(u.CreatedAt).To(Equal(createdAt))
		})

		It("returns ErrNotFound when no row matches", func() {
			mock.ExpectQuery(regexp.QuoteMeta(findUserByIDQuery)).
				WithArgs("ghost").
				WillReturnRows(pgxmock.NewRows(columns))

			_, err := repo.FindByID(ctx, "ghost")
			Expect(errors.Is(err, user.ErrNotFound)).To(BeTrue())
		})

		It("wraps driver errors", func() {
			mock.ExpectQuery(regexp.QuoteMeta(findUserByIDQuery)).
				WithArgs("e1").
				WillReturnError(errors.New("connection reset"))

			_, err := repo.FindByID(ctx, "e1")
			Expect(err).To(MatchError(ContainSubstring("connection reset")))
			Expect(errors.Is(err, user.ErrNotFound)).To(BeFalse())
		})
	})

	Describe("ListDirectReports", func() {
		It("queries active users for the manager", func() {
			mock.ExpectQuery(regexp.QuoteMeta(listDirectReportsQuery)).
				WithArgs("m1", "ACTIVE").
				WillReturnRows(pgxmock.NewRows(columns).
					AddRow("e2", "ann@example.com", "Ann", "Lee", "EMPLOYEE", strPtr("m1"), nil, nil, "ACTIVE", createdAt).
					AddRow("e1", "bo@example.com", "Bo", "Kim", "LEAD", strPtr("m1"), nil, nil, "ACTIVE", createdAt))

			reports, err := repo.ListDirectReports(ctx, "m1")
			Expect(err).NotTo(HaveOccurred())
			Expect(reports).To(HaveLen(2))
			Expect(reports[0].FirstName).To(Equal("Ann"))
			Expect(reports[1].Role).To(Equal(auth.RoleLead))
		})

		It("returns an empty slice for managers without reports", func() {
			mock.ExpectQuery(regexp.QuoteMeta(listDirectReportsQuery)).
				WithArgs("m9", "ACTIVE").
				WillReturnRows(pgxmock.NewRows(columns))

			reports, err := repo.ListDirectReports(ctx, "m9")
			Expect(err).NotTo(HaveOccurred())
			Expect(reports).NotTo(BeNil())
			Expect(reports).To(BeEmpty())
		})
	})

	Describe("ListReportsOf", func() {
		It("uses ANY over the manager ids", func() {
			ids := []string{"l1", "l2"}
			mock.ExpectQuery(regexp.QuoteMeta(listReportsOfQuery)).
				WithArgs(ids, "ACTIVE").
				WillReturnRows(pgxmock.NewRows(columns).
					AddRow("e5", "cy@example.com", "Cy", "Ho", "EMPLOYEE", strPtr("l2"), nil, nil, "ACTIVE", createdAt))

			reports, err := repo.ListReportsOf(ctx, ids)
			Expect(err).NotTo(HaveOccurred())
			Expect(reports).To(HaveLen(1))
			Expect(*reports[0].ManagerID).To(Equal("l2"))
		})

		It("skips the query when there are no managers", func() {
			reports, err := repo.ListReportsOf(ctx, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(reports).To(BeEmpty())
		})
	})
})
