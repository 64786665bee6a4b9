package authz

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dutyroster/rotation-engine/pkg/core/model"
)

var (
	sectorScope        = model.Scope{SiteID: "lyon", SectorID: "propulsion"}
	serviceScope       = model.Scope{SiteID: "lyon", SectorID: "propulsion", ServiceID: "turbines"}
	otherServiceScope  = model.Scope{SiteID: "lyon", SectorID: "propulsion", ServiceID: "compressors"}
	siblingSectorScope = model.Scope{SiteID: "lyon", SectorID: "avionics"}
	otherSiteScope     = model.Scope{SiteID: "toulouse", SectorID: "propulsion"}
)

func TestResolve_Admin(t *testing.T) {
	admin := model.Person{ID: "root", Role: model.RoleAdmin}

	assert.Equal(t, Manage, Resolve(admin, sectorScope))
	assert.Equal(t, Manage, Resolve(admin, serviceScope))
	assert.Equal(t, Manage, Resolve(admin, otherSiteScope))
}

func TestResolve_SectorChief(t *testing.T) {
	chief := model.Person{ID: "sc", Role: model.RoleSectorChief, SiteID: "lyon", SectorID: "propulsion"}

	assert.Equal(t, Manage, Resolve(chief, sectorScope))
	// Service rotations inside the sector belong to the service chiefs.
	assert.Equal(t, Read, Resolve(chief, serviceScope))
	// Sibling sectors at the same site are observable only.
	assert.Equal(t, Read, Resolve(chief, siblingSectorScope))
	assert.Equal(t, Denied, Resolve(chief, otherSiteScope))
}

func TestResolve_SectorEngineer(t *testing.T) {
	eng := model.Person{ID: "se", Role: model.RoleSectorEngineer, SiteID: "lyon", SectorID: "propulsion"}

	assert.Equal(t, Read, Resolve(eng, sectorScope))
	assert.Equal(t, Read, Resolve(eng, serviceScope))
	assert.Equal(t, Denied, Resolve(eng, siblingSectorScope))
	assert.Equal(t, Denied, Resolve(eng, otherSiteScope))
}

func TestResolve_ServiceChief(t *testing.T) {
	chief := model.Person{ID: "svc", Role: model.RoleServiceChief, SiteID: "lyon", SectorID: "propulsion", ServiceID: "turbines"}

	assert.Equal(t, Manage, Resolve(chief, serviceScope))
	assert.Equal(t, Read, Resolve(chief, otherServiceScope))
	assert.Equal(t, Read, Resolve(chief, sectorScope))
	assert.Equal(t, Denied, Resolve(chief, siblingSectorScope))
	assert.Equal(t, Denied, Resolve(chief, otherSiteScope))
}

func TestResolve_ServiceCollaborator(t *testing.T) {
	collab := model.Person{ID: "co", Role: model.RoleServiceCollaborator, SiteID: "lyon", SectorID: "propulsion", ServiceID: "turbines"}

	assert.Equal(t, Read, Resolve(collab, serviceScope))
	assert.Equal(t, Denied, Resolve(collab, otherServiceScope))
	assert.Equal(t, Denied, Resolve(collab, sectorScope))
	assert.Equal(t, Denied, Resolve(collab, otherSiteScope))
}

func TestResolve_UnknownRole(t *testing.T) {
	stranger := model.Person{ID: "x", Role: "janitor", SiteID: "lyon", SectorID: "propulsion"}

	assert.Equal(t, Denied, Resolve(stranger, sectorScope))
}

func TestDecision_Allows(t *testing.T) {
	assert.True(t, Manage.AllowsManage())
	assert.True(t, Manage.AllowsRead())
	assert.False(t, Read.AllowsManage())
	assert.True(t, Read.AllowsRead())
	assert.False(t, Denied.AllowsRead())
	assert.False(t, Denied.AllowsManage())
}

func TestRequireManage_Forbidden(t *testing.T) {
	collab := model.Person{ID: "co", Role: model.RoleServiceCollaborator, SiteID: "lyon", SectorID: "propulsion", ServiceID: "turbines"}

	err := RequireManage(collab, serviceScope, "reorder queue of")
	require.Error(t, err)
	assert.ErrorIs(t, err, model.ErrForbidden)

	var forbidden *model.ForbiddenError
	require.True(t, errors.As(err, &forbidden))
	assert.Equal(t, "co", forbidden.ActorID)
	assert.Equal(t, serviceScope, forbidden.Scope)
}

func TestRequireManage_Allowed(t *testing.T) {
	chief := model.Person{ID: "svc", Role: model.RoleServiceChief, SiteID: "lyon", SectorID: "propulsion", ServiceID: "turbines"}

	assert.NoError(t, RequireManage(chief, serviceScope, "reorder queue of"))
}

func TestRequireRead(t *testing.T) {
	eng := model.Person{ID: "se", Role: model.RoleSectorEngineer, SiteID: "lyon", SectorID: "propulsion"}

	assert.NoError(t, RequireRead(eng, sectorScope, "read queue of"))
	assert.ErrorIs(t, RequireRead(eng, siblingSectorScope, "read queue of"), model.ErrForbidden)
}
