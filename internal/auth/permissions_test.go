package auth_test

import (
	"sync"

	"github.com/frahmantamala/project-management/internal/auth"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const (
	a = auth.RoleAdmin
	m = auth.RoleManager
	e = auth.RoleEmployee
)

var expectedGrants = map[auth.Permission][]auth.Role{
	auth.PermUserViewAll:           {a},
	auth.PermUserViewTeam:          {a, m},
	auth.PermUserViewDirectReports: {m},
	auth.PermUserCreate:            {a},
	auth.PermUserUpdate:            {a},
	auth.PermUserDelete:            {a},

	auth.PermTeamViewAll:   {a},
	auth.PermTeamViewOwn:   {m},
	auth.PermTeamCreate:    {a},
	auth.PermTeamUpdate:    {a},
	auth.PermTeamDelete:    {a},
	auth.PermTeamManageOwn: {m},

	auth.PermProjectViewAll:       {a},
	auth.PermProjectViewTeam:      {m},
	auth.PermProjectCreate:        {a, m},
	auth.PermProjectUpdate:        {a, m},
	auth.PermProjectDelete:        {a},
	auth.PermProjectAssignMembers: {a, m},

	auth.PermAppraisalViewAll:       {a},
	auth.PermAppraisalViewTeam:      {m},
	auth.PermAppraisalCreate:        {a, m},
	auth.PermAppraisalUpdateOwn:     {a, m, e},
	auth.PermAppraisalReview:        {a, m},
	auth.PermAppraisalSetGoals:      {m},
	auth.PermAppraisalConductReview: {m},

	auth.PermPTORequest:   {a, m, e},
	auth.PermPTOApprove:   {a, m},
	auth.PermPTOViewAll:   {a},
	auth.PermPTOViewTeam:  {m},
	auth.PermPTOCancelOwn: {a, m, e},

	auth.PermTimesheetSubmit:            {a, m, e},
	auth.PermTimesheetApprove:           {a, m},
	auth.PermTimesheetViewAll:           {a},
	auth.PermTimesheetViewTeam:          {m},
	auth.PermTimesheetRequestCorrection: {m},

	auth.PermMetricsViewAll:  {a},
	auth.PermMetricsViewTeam: {m},
	auth.PermMetricsViewOwn:  {a, m, e},

	auth.PermCapacityViewAll:  {a},
	auth.PermCapacityViewTeam: {m},
	auth.PermCapacityPlan:     {a, m},

	auth.PermOneOnOneSchedule: {m},
	auth.PermOneOnOneViewOwn:  {a, m, e},

	auth.PermReportsViewAll:  {a},
	auth.PermReportsViewTeam: {m},
	auth.PermReportsExport:   {a, m},

	auth.PermSettingsManage: {a},
	auth.PermSettingsView:   {a, m},

	auth.PermAuditView: {a},
}

func granted(p auth.Permission, r auth.Role) bool {
	for _, role := range expectedGrants[p] {
		if role == r {
			return true
		}
	}
	return false
}

func crossProductEntries() []interface{} {
	var entries []interface{}
	for _, p := range auth.AllPermissions() {
		for _, r := range auth.Roles() {
			entries = append(entries, Entry(string(p)+" for "+string(r), p, r, granted(p, r)))
		}
	}
	return entries
}

var _ = Describe("Permission table", func() {
	It("declares exactly the expected permissions", func() {
		all := auth.AllPermissions()
		Expect(all).To(HaveLen(len(expectedGrants)))
		for _, p := range all {
			Expect(expectedGrants).To(HaveKey(p))
		}
	})

	It("maps every permission to a non-empty set of known roles without duplicates", func() {
		for _, p := range auth.AllPermissions() {
			roles := auth.RolesFor(p)
			Expect(roles).NotTo(BeEmpty(), string(p))

			seen := map[auth.Role]bool{}
			for _, r := range roles {
				Expect(r.Valid()).To(BeTrue())
				Expect(seen[r]).To(BeFalse(), "duplicate role %s on %s", r, p)
				seen[r] = true
			}
		}
	})

	DescribeTable("HasPermission across every role and permission",
		append([]interface{}{
			func(p auth.Permission, r auth.Role, want bool) {
				Expect(auth.HasPermission(r, p)).To(Equal(want))
			},
		}, crossProductEntries()...)...,
	)

	It("grants nothing to leads", func() {
		Expect(auth.RolePermissionsFor(auth.RoleLead)).To(BeEmpty())
	})

	Context("unknown names", func() {
		It("denies unknown permissions for every role", func() {
			for _, r := range auth.Roles() {
				Expect(auth.HasPermission(r, auth.Permission("PTO_DELETE_ALL"))).To(BeFalse())
			}
		})

		It("denies unknown roles", func() {
			Expect(auth.HasPermission(auth.Role("SUPERUSER"), auth.PermPTOApprove)).To(BeFalse())
		})

		It("reports unknown permissions as invalid", func() {
			Expect(auth.Permission("nope").Valid()).To(BeFalse())
			Expect(auth.PermAuditView.Valid()).To(BeTrue())
			Expect(auth.RolesFor("nope")).To(BeNil())
		})
	})

	Describe("HasAny", func() {
		It("is false for an empty list", func() {
			for _, r := range auth.Roles() {
				Expect(auth.HasAny(r)).To(BeFalse())
			}
		})

		It("is true when at least one permission is held", func() {
			Expect(auth.HasAny(auth.RoleEmployee, auth.PermPTOApprove, auth.PermPTORequest)).To(BeTrue())
		})

		It("is false when none are held", func() {
			Expect(auth.HasAny(auth.RoleEmployee, auth.PermPTOApprove, auth.PermAuditView)).To(BeFalse())
		})
	})

	Describe("HasAll", func() {
		It("is true for an empty list", func() {
			for _, r := range auth.Roles() {
				Expect(auth.HasAll(r)).To(BeTrue())
			}
		})

		It("requires every permission", func() {
			Expect(auth.HasAll(auth.RoleManager, auth.PermPTOApprove, auth.PermPTOViewTeam)).To(BeTrue())
			Expect(auth.HasAll(auth.RoleAdmin, auth.PermPTOApprove, auth.PermPTOViewTeam)).To(BeFalse())
		})

		It("fails on any unknown permission", func() {
			Expect(auth.HasAll(auth.RoleAdmin, auth.PermAuditView, auth.Permission("X"))).To(BeFalse())
		})
	})

	Describe("RolePermissionsFor", func() {
		It("returns exactly the permissions holding the role", func() {
			for _, r := range auth.Roles() {
				perms := auth.RolePermissionsFor(r)
				for _, p := range perms {
					Expect(auth.HasPermission(r, p)).To(BeTrue())
				}
				count := 0
				for p := range expectedGrants {
					if granted(p, r) {
						count++
					}
				}
				Expect(perms).To(HaveLen(count))
			}
		})

		It("follows declaration order", func() {
			perms := auth.RolePermissionsFor(auth.RoleEmployee)
			Expect(perms).To(Equal([]auth.Permission{
				auth.PermAppraisalUpdateOwn,
				auth.PermPTORequest,
				auth.PermPTOCancelOwn,
				auth.PermTimesheetSubmit,
				auth.PermMetricsViewOwn,
				auth.PermOneOnOneViewOwn,
			}))
		})

		It("returns a copy the caller may modify", func() {
			perms := auth.RolePermissionsFor(auth.RoleAdmin)
			perms[0] = "MUTATED"
			Expect(auth.RolePermissionsFor(auth.RoleAdmin)[0]).To(Equal(auth.PermUserViewAll))

			roles := auth.RolesFor(auth.PermPTOApprove)
			roles[0] = auth.RoleEmployee
			Expect(auth.HasPermission(auth.RoleEmployee, auth.PermPTOApprove)).To(BeFalse())
		})
	})

	It("is safe for concurrent readers", func() {
		var wg sync.WaitGroup
		for i := 0; i < 32; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer GinkgoRecover()
				for _, p := range auth.AllPermissions() {
					Expect(auth.HasPermission(auth.RoleManager, p)).To(Equal(granted(p, auth.RoleManager)))
				}
			}()
		}
		wg.Wait()
	})
})
