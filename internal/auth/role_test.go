package auth_test

import (
	"github.com/frahmantamala/project-management/internal/auth"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func ptr(s string) *string { return &s }

var _ = Describe("Roles", func() {
	Describe("predicates", func() {
		DescribeTable("IsAdmin / IsManager / IsLead",
			func(r auth.Role, admin, manager, lead bool) {
				Expect(auth.IsAdmin(r)).To(Equal(admin))
				Expect(auth.IsManager(r)).To(Equal(manager))
				Expect(auth.IsLead(r)).To(Equal(lead))
			},
			Entry("admin", auth.RoleAdmin, true, false, false),
			Entry("manager", auth.RoleManager, false, true, false),
			Entry("lead", auth.RoleLead, false, false, true),
			Entry("employee", auth.RoleEmployee, false, false, false),
			Entry("unknown", auth.Role("GUEST"), false, false, false),
		)
	})

	Describe("ParseRole", func() {
		It("accepts any casing", func() {
			r, err := auth.ParseRole(" manager ")
			Expect(err).NotTo(HaveOccurred())
			Expect(r).To(Equal(auth.RoleManager))
		})

		It("rejects unknown roles", func() {
			_, err := auth.ParseRole("owner")
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("CanManageUser", func() {
		It("lets admins manage anyone, with or without a manager", func() {
			Expect(auth.CanManageUser(auth.RoleAdmin, "a1", "u1", nil)).To(BeTrue())
			Expect(auth.CanManageUser(auth.RoleAdmin, "a1", "u1", ptr("m9"))).To(BeTrue())
		})

		It("lets managers manage only their direct reports", func() {
			Expect(auth.CanManageUser(auth.RoleManager, "m1", "e1", ptr("m1"))).To(BeTrue())
			Expect(auth.CanManageUser(auth.RoleManager, "m1", "e1", ptr("m2"))).To(BeFalse())
			Expect(auth.CanManageUser(auth.RoleManager, "m1", "e1", nil)).To(BeFalse())
		})

		It("denies leads and employees even when they are the recorded manager", func() {
			Expect(auth.CanManageUser(auth.RoleLead, "l1", "e1", ptr("l1"))).To(BeFalse())
			Expect(auth.CanManageUser(auth.RoleEmployee, "e0", "e1", ptr("e0"))).To(BeFalse())
		})

		It("does not match an empty acting id against an empty manager id", func() {
			Expect(auth.CanManageUser(auth.RoleManager, "", "e1", ptr(""))).To(BeFalse())
		})
	})

	DescribeTable("DashboardPath",
		func(r auth.Role, path string) {
			Expect(auth.DashboardPath(r)).To(Equal(path))
		},
		Entry("admin", auth.RoleAdmin, "/admin"),
		Entry("manager", auth.RoleManager, "/manager"),
		Entry("lead", auth.RoleLead, "/manager"),
		Entry("employee", auth.RoleEmployee, "/dashboard"),
	)
})
