// Package authz centralizes the role-to-scope permission table as one pure
// function. Every mutating and read operation resolves through here; the
// table lives in exactly one place instead of scattered call-site checks.
package authz

import "github.com/dutyroster/rotation-engine/pkg/core/model"

// Decision is the closed result of resolving a caller against a target scope.
type Decision int

const (
	// Denied permits nothing.
	Denied Decision = iota
	// Read permits statistics and display only.
	Read
	// Manage permits mutating the rotation queue and assignments, and
	// implies Read.
	Manage
)

func (d Decision) String() string {
	switch d {
	case Manage:
		return "manage"
	case Read:
		return "read"
	default:
		return "denied"
	}
}

// AllowsRead reports whether the decision permits read operations.
func (d Decision) AllowsRead() bool { return d == Read || d == Manage }

// AllowsManage reports whether the decision permits mutating operations.
func (d Decision) AllowsManage() bool { return d == Manage }

// Resolve determines what the actor may do with the target scope.
//
// The rule is least-privilege: the chief of a unit administers their own unit
// and may only observe siblings. Mutation rights never cross an
// organizational boundary without being admin.
//
//	admin                manages every scope
//	sector-chief         manages own sector's engineer scope;
//	                     reads everything in own sector and sibling sectors
//	                     at the same site
//	sector-engineer      reads own sector (assignable only)
//	service-chief        manages own service's collaborator scope;
//	                     reads other scopes within own sector
//	service-collaborator reads own service (assignable only)
func Resolve(actor model.Person, target model.Scope) Decision {
	switch actor.Role {
	case model.RoleAdmin:
		return Manage

	case model.RoleSectorChief:
		if actor.SiteID != target.SiteID {
			return Denied
		}
		if actor.SectorID == target.SectorID {
			if target.SectorLevel() {
				return Manage
			}
			// Service-level scopes inside the sector belong to their
			// service chiefs; the sector chief only observes.
			return Read
		}
		return Read

	case model.RoleSectorEngineer:
		if actor.SiteID == target.SiteID && actor.SectorID == target.SectorID {
			return Read
		}
		return Denied

	case model.RoleServiceChief:
		if actor.SiteID != target.SiteID || actor.SectorID != target.SectorID {
			return Denied
		}
		if !target.SectorLevel() && actor.ServiceID == target.ServiceID {
			return Manage
		}
		return Read

	case model.RoleServiceCollaborator:
		if actor.SiteID == target.SiteID &&
			actor.SectorID == target.SectorID &&
			!target.SectorLevel() &&
			actor.ServiceID == target.ServiceID {
			return Read
		}
		return Denied
	}

	return Denied
}

// RequireManage returns a ForbiddenError unless the actor may mutate the
// target scope.
func RequireManage(actor model.Person, target model.Scope, operation string) error {
	if Resolve(actor, target).AllowsManage() {
		return nil
	}
	return &model.ForbiddenError{ActorID: actor.ID, ActorRole: actor.Role, Scope: target, Operation: operation}
}

// RequireRead returns a ForbiddenError unless the actor may at least read the
// target scope.
func RequireRead(actor model.Person, target model.Scope, operation string) error {
	if Resolve(actor, target).AllowsRead() {
		return nil
	}
	return &model.ForbiddenError{ActorID: actor.ID, ActorRole: actor.Role, Scope: target, Operation: operation}
}
