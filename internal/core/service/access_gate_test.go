package service

import (
	"errors"
	"slices"
	"testing"

	"github.com/storegate/backoffice/internal/core/domain"
	"github.com/storegate/backoffice/internal/core/ports"
)

func admin(id int64) *domain.User {
	return &domain.User{ID: id, Role: domain.RoleAdmin, IsActive: true}
}

func customer(id int64) *domain.User {
	return &domain.User{ID: id, Role: domain.RoleCustomer, IsActive: true}
}

func TestAccessGate_RequireSession(t *testing.T) {
	gate := NewAccessGate(&stubSession{state: ports.StateUnauthenticated})
	if err := gate.RequireSession(); !errors.Is(err, domain.ErrNotAuthenticated) {
		t.Fatalf("expected ErrNotAuthenticated, got %v", err)
	}

	gate = NewAccessGate(&stubSession{state: ports.StateAuthenticated})
	if err := gate.RequireSession(); err != nil {
		t.Fatalf("expected nil for authenticated session, got %v", err)
	}
}

func TestAccessGate_Capabilities(t *testing.T) {
	gate := NewAccessGate(&stubSession{state: ports.StateAuthenticated})

	for _, cap := range []Capability{
		CapabilityViewShop, CapabilityPlaceOrders, CapabilityManageCatalog,
		CapabilityManageOrders, CapabilityViewUsers, CapabilityManageUsers,
	} {
		if !gate.Allows(admin(1), cap) {
			t.Fatalf("admin denied %s", cap)
		}
	}

	cust := customer(2)
	if !gate.Allows(cust, CapabilityViewShop) || !gate.Allows(cust, CapabilityPlaceOrders) {
		t.Fatalf("customer denied base capabilities")
	}
	for _, cap := range []Capability{CapabilityManageCatalog, CapabilityManageOrders, CapabilityViewUsers, CapabilityManageUsers} {
		if gate.Allows(cust, cap) {
			t.Fatalf("customer allowed %s", cap)
		}
	}
}

func TestAccessGate_InactiveAndNilDenied(t *testing.T) {
	gate := NewAccessGate(&stubSession{state: ports.StateAuthenticated})

	inactive := admin(1)
	inactive.IsActive = false
	if gate.Allows(inactive, CapabilityViewShop) {
		t.Fatalf("inactive principal must be denied everything")
	}
	if gate.Allows(nil, CapabilityViewShop) {
		t.Fatalf("nil principal must be denied everything")
	}
}

func TestAccessGate_UserActions_AdminOnOther(t *testing.T) {
	gate := NewAccessGate(&stubSession{state: ports.StateAuthenticated})

	actions := gate.UserActions(admin(1), customer(2))
	for _, want := range []UserAction{UserActionEdit, UserActionChangeRole, UserActionChangeStatus, UserActionDelete} {
		if !slices.Contains(actions, want) {
			t.Fatalf("admin missing action %s on another account: %v", want, actions)
		}
	}
}

func TestAccessGate_UserActions_SelfTargetingOmitted(t *testing.T) {
	gate := NewAccessGate(&stubSession{state: ports.StateAuthenticated})

	// Destructive and role-toggling actions are omitted on the acting
	// principal's own record, for every role.
	for _, acting := range []*domain.User{admin(1), customer(2)} {
		actions := gate.UserActions(acting, acting)
		for _, forbidden := range []UserAction{UserActionChangeRole, UserActionChangeStatus, UserActionDelete} {
			if slices.Contains(actions, forbidden) {
				t.Fatalf("role %s offered self-targeting action %s", acting.Role, forbidden)
			}
		}
	}
}

func TestAccessGate_UserActions_NonAdminGetsNothing(t *testing.T) {
	gate := NewAccessGate(&stubSession{state: ports.StateAuthenticated})

	// Denial is total omission: a non-admin never receives references
	// to user-management actions, not even on another account.
	if actions := gate.UserActions(customer(2), customer(3)); actions != nil {
		t.Fatalf("customer received user actions: %v", actions)
	}
}
