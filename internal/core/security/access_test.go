package security

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scopedResource struct {
	businessID string
}

func (r scopedResource) GetBusinessID() string { return r.businessID }

type privilegedResource struct {
	scopedResource
	global bool
}

func (r privilegedResource) HasGlobalRole() bool { return r.global }

func tenantActor(businessID string, roles ...Role) *Actor {
	return &Actor{UserID: "u1", BusinessID: businessID, Roles: roles}
}

func TestCanView_TenantIsolation(t *testing.T) {
	mine := scopedResource{businessID: "biz-a"}
	theirs := scopedResource{businessID: "biz-b"}

	for _, role := range []Role{RoleBusinessAdmin, RoleStaff, RoleUser} {
		actor := tenantActor("biz-a", role)
		assert.True(t, CanView(actor, mine), "role %s should see own tenant", role)
		assert.False(t, CanView(actor, theirs), "role %s must not see other tenant", role)
	}
}

func TestCanView_GlobalAdminOverride(t *testing.T) {
	admin := &Actor{UserID: "root", Roles: []Role{RoleSystemAdmin}}

	for _, bid := range []string{"biz-a", "biz-b", "biz-c"} {
		r := scopedResource{businessID: bid}
		assert.True(t, CanView(admin, r))
		assert.True(t, CanModify(admin, r))
	}
}

func TestCanView_UnscopedResourceInaccessible(t *testing.T) {
	actor := tenantActor("biz-a", RoleBusinessAdmin)

	// no business scope means inaccessible, never an error
	assert.False(t, CanView(actor, scopedResource{businessID: ""}))
	assert.False(t, CanView(actor, nil))
}

func TestCanView_NoActor(t *testing.T) {
	assert.False(t, CanView(nil, scopedResource{businessID: "biz-a"}))
}

func TestCanModify_PrivilegedAccountProtected(t *testing.T) {
	root := privilegedResource{scopedResource: scopedResource{businessID: "biz-a"}, global: true}
	regular := privilegedResource{scopedResource: scopedResource{businessID: "biz-a"}, global: false}

	tenantAdmin := tenantActor("biz-a", RoleBusinessAdmin)
	assert.True(t, CanView(tenantAdmin, root), "viewing stays allowed")
	assert.False(t, CanModify(tenantAdmin, root), "tenant admin cannot modify a global account")
	assert.True(t, CanModify(tenantAdmin, regular))

	sysAdmin := &Actor{UserID: "root", Roles: []Role{RoleSystemAdmin}}
	assert.True(t, CanModify(sysAdmin, root))
}

func TestScopeByBusiness(t *testing.T) {
	t.Run("tenant actor gets filter", func(t *testing.T) {
		scope := ScopeByBusiness(tenantActor("biz-a", RoleUser))
		require.NotNil(t, scope)

		sql, args, err := squirrel.Select("*").From("timesheets").Where(scope).ToSql()
		require.NoError(t, err)
		assert.Contains(t, sql, "business_id = ?")
		assert.Equal(t, []any{"biz-a"}, args)
	})

	t.Run("global admin unrestricted", func(t *testing.T) {
		admin := &Actor{UserID: "root", Roles: []Role{RoleSystemAdmin}}
		assert.Nil(t, ScopeByBusiness(admin))
	})
}

func TestCapabilities(t *testing.T) {
	assert.True(t, RoleBusinessAdmin.Can(ActionApproveTimesheet))
	assert.True(t, RoleStaff.Can(ActionApproveTimesheet))
	assert.False(t, RoleUser.Can(ActionApproveTimesheet))
	assert.False(t, RoleUser.Can(ActionManageUsers))
	assert.True(t, RoleSystemAdmin.Can(ActionManageCatalogs))
}
