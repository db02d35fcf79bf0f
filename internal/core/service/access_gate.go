package service

import (
	"github.com/storegate/backoffice/internal/core/domain"
	"github.com/storegate/backoffice/internal/core/ports"
)

// Capability names an action class a role may be granted.
type Capability string

const (
	CapabilityViewShop      Capability = "view_shop"
	CapabilityPlaceOrders   Capability = "place_orders"
	CapabilityManageCatalog Capability = "manage_catalog"
	CapabilityManageOrders  Capability = "manage_orders"
	CapabilityViewUsers     Capability = "view_users"
	CapabilityManageUsers   Capability = "manage_users"
)

// rolePermissions is the capability-set model: role → allowed actions.
// Gating decisions go through AccessGate rather than ad-hoc role
// string comparisons per screen.
var rolePermissions = map[string]map[Capability]struct{}{
	domain.RoleAdmin: {
		CapabilityViewShop:      {},
		CapabilityPlaceOrders:   {},
		CapabilityManageCatalog: {},
		CapabilityManageOrders:  {},
		CapabilityViewUsers:     {},
		CapabilityManageUsers:   {},
	},
	domain.RoleCustomer: {
		CapabilityViewShop:    {},
		CapabilityPlaceOrders: {},
	},
}

// UserAction is a per-row affordance on the users screen.
type UserAction string

const (
	UserActionEdit         UserAction = "edit"
	UserActionChangeRole   UserAction = "change_role"
	UserActionChangeStatus UserAction = "change_status"
	UserActionDelete       UserAction = "delete"
)

// AccessGate is the single authorization check point: route-level
// gating against the session, capability-level gating against the
// resolved principal.
type AccessGate struct {
	session ports.SessionService
}

func NewAccessGate(session ports.SessionService) *AccessGate {
	return &AccessGate{session: session}
}

// RequireSession is the route gate. It returns ErrNotAuthenticated when
// the session is not authenticated; callers run it before producing any
// protected output.
func (g *AccessGate) RequireSession() error {
	if !g.session.IsAuthenticated() {
		return domain.ErrNotAuthenticated
	}
	return nil
}

// Allows is the capability gate. A nil or inactive principal is denied
// everything.
func (g *AccessGate) Allows(principal *domain.User, cap Capability) bool {
	if principal == nil || !principal.IsActive {
		return false
	}
	_, ok := rolePermissions[principal.Role][cap]
	return ok
}

// UserActions returns the actions the acting principal may take on the
// target account. Denied actions are omitted entirely, never returned
// disabled. Self-targeting role, status, and delete actions are omitted
// for every role: an admin must not be able to lock themselves out.
func (g *AccessGate) UserActions(acting, target *domain.User) []UserAction {
	if !g.Allows(acting, CapabilityManageUsers) || target == nil {
		return nil
	}
	actions := []UserAction{UserActionEdit}
	if acting.ID != target.ID {
		actions = append(actions, UserActionChangeRole, UserActionChangeStatus, UserActionDelete)
	}
	return actions
}
