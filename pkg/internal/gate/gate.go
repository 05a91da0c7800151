// Package gate is the single authorization checkpoint for posts, profiles
// and contributions. Every route handler asks the gate before mutating
// anything; the rules live nowhere else.
package gate

import (
	"github.com/solcafe/server/pkg/internal/models"
)

type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Actor is the authenticated subject of a request. The zero value is the
// anonymous actor.
type Actor struct {
	ID   uint
	Role models.ProfileRole
}

func (a Actor) Anonymous() bool {
	return a.ID == 0
}

// Resource is anything the gate can rule on. Models implement it.
type Resource interface {
	ResourceOwner() uint
	ResourcePublic() bool
}

// Decision is returned alongside an allow. AdminAction marks a mutation a
// privileged role performed on a resource it does not own, so callers can
// surface it instead of silently applying it.
type Decision struct {
	AdminAction bool `json:"admin_action"`
}

// Decide evaluates actor against resource for action. Rules, in precedence
// order: anonymous actors may only read public resources; admins may do
// anything; owners may read, update and delete what they own; everything
// else is denied. A nil resource stands for a collection-level create.
func Decide(actor Actor, resource Resource, action Action) (Decision, error) {
	if actor.Anonymous() {
		if action == ActionRead && resource != nil && resource.ResourcePublic() {
			return Decision{}, nil
		}
		return Decision{}, ErrUnauthorized
	}

	if actor.Role == models.RoleAdmin {
		adminAction := action != ActionRead && action != ActionCreate &&
			resource != nil && resource.ResourceOwner() != actor.ID
		return Decision{AdminAction: adminAction}, nil
	}

	if action == ActionCreate {
		return Decision{}, nil
	}

	if resource != nil && resource.ResourceOwner() == actor.ID {
		return Decision{}, nil
	}

	if action == ActionRead && resource != nil && resource.ResourcePublic() {
		return Decision{}, nil
	}

	return Decision{}, ErrForbidden
}

// CanAssignRole reports whether actor may change the role field of any
// profile, their own included. Only admins can.
func CanAssignRole(actor Actor) bool {
	return actor.Role == models.RoleAdmin
}
