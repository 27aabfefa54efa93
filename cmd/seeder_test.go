package cmd

import (
	"os"

	ptoDatamodel "github.com/frahmantamala/project-management/internal/core/datamodel/pto"
	timesheetDatamodel "github.com/frahmantamala/project-management/internal/core/datamodel/timesheet"
	userDatamodel "github.com/frahmantamala/project-management/internal/core/datamodel/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var _ = Describe("Org fixture", func() {
	Describe("parseOrgFixture", func() {
		It("puts managers before their reports", func() {
			f, err := parseOrgFixture([]byte(`
password: secret
users:
  - {id: e1, email: e1@example.com, role: employee, manager: l1}
  - {id: l1, email: l1@example.com, role: LEAD, manager: m1}
  - {id: m1, email: m1@example.com, role: MANAGER}
`))
			Expect(err).NotTo(HaveOccurred())

			ids := []string{}
			for _, u := range f.Users {
				ids = append(ids, u.ID)
			}
			Expect(ids).To(Equal([]string{"m1", "l1", "e1"}))
			Expect(f.Users[2].Role).To(Equal("EMPLOYEE"))
			Expect(f.Users[2].Status).To(Equal("ACTIVE"))
		})

		DescribeTable("refuses broken fixtures",
			func(doc, msg string) {
				_, err := parseOrgFixture([]byte(doc))
				Expect(err).To(MatchError(ContainSubstring(msg)))
			},
			Entry("no password", "users: []", "password"),
			Entry("unknown role", "password: x\nusers:\n  - {id: a, email: a@x, role: INTERN}", "unknown role"),
			Entry("duplicate id", "password: x\nusers:\n  - {id: a, email: a@x, role: ADMIN}\n  - {id: a, email: b@x, role: ADMIN}", "duplicate"),
			Entry("unknown manager", "password: x\nusers:\n  - {id: a, email: a@x, role: EMPLOYEE, manager: ghost}", "unknown manager"),
			Entry("cycle", "password: x\nusers:\n  - {id: a, email: a@x, role: LEAD, manager: b}\n  - {id: b, email: b@x, role: LEAD, manager: a}", "cycle"),
		)

		It("accepts the development fixture", func() {
			data, err := os.ReadFile("../db/seed/org.yml")
			Expect(err).NotTo(HaveOccurred())
			f, err := parseOrgFixture(data)
			Expect(err).NotTo(HaveOccurred())
			Expect(f.Users).NotTo(BeEmpty())
		})
	})

	Describe("seedOrg", func() {
		var db *gorm.DB

		BeforeEach(func() {
			var err error
			db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
				Logger: gormLogger.Default.LogMode(gormLogger.Silent),
			})
			Expect(err).NotTo(HaveOccurred())
			sqlDB, err := db.DB()
			Expect(err).NotTo(HaveOccurred())
			sqlDB.SetMaxOpenConns(1)
			Expect(db.AutoMigrate(&userDatamodel.User{}, &ptoDatamodel.Request{}, &timesheetDatamodel.Timesheet{})).To(Succeed())
		})

		fixture := func(role string) *orgFixture {
			f, err := parseOrgFixture([]byte(`
password: secret
users:
  - {id: m1, email: m1@example.com, first_name: Maya, role: MANAGER}
  - {id: e1, email: e1@example.com, first_name: Eli, role: ` + role + `, manager: m1}
`))
			Expect(err).NotTo(HaveOccurred())
			return f
		}

		It("stores users with hashed passwords and reporting lines", func() {
			Expect(seedOrg(db, fixture("EMPLOYEE"), bcrypt.MinCost, false)).To(Succeed())

			var e1 userDatamodel.User
			Expect(db.First(&e1, "id = ?", "e1").Error).To(Succeed())
			Expect(e1.ManagerID).NotTo(BeNil())
			Expect(*e1.ManagerID).To(Equal("m1"))
			Expect(bcrypt.CompareHashAndPassword([]byte(e1.PasswordHash), []byte("secret"))).To(Succeed())
		})

		It("is idempotent and updates existing rows", func() {
			Expect(seedOrg(db, fixture("EMPLOYEE"), bcrypt.MinCost, false)).To(Succeed())
			Expect(seedOrg(db, fixture("LEAD"), bcrypt.MinCost, false)).To(Succeed())

			var count int64
			Expect(db.Model(&userDatamodel.User{}).Count(&count).Error).To(Succeed())
			Expect(count).To(Equal(int64(2)))

			var e1 userDatamodel.User
			Expect(db.First(&e1, "id = ?", "e1").Error).To(Succeed())
			Expect(e1.Role).To(Equal("LEAD"))
		})

		It("clears existing data first when asked", func() {
			Expect(db.Create(&userDatamodel.User{ID: "old", Email: "old@example.com", FirstName: "Old", PasswordHash: "x", Role: "EMPLOYEE", Status: "ACTIVE"}).Error).To(Succeed())

			Expect(seedOrg(db, fixture("EMPLOYEE"), bcrypt.MinCost, true)).To(Succeed())

			var count int64
			Expect(db.Model(&userDatamodel.User{}).Where("id = ?", "old").Count(&count).Error).To(Succeed())
			Expect(count).To(BeZero())
		})
	})
})
