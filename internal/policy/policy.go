// Package policy is the authorization rule evaluator. Every rule is a pure
// predicate over the actor and an already-loaded target entity; the
// superuser override is the explicit first branch of each rule, never
// ambient state. Handlers and services must route every read and mutating
// path through these predicates.
package policy

import (
	"propman-be-svc/internal/models"
)

// Property rules

// CanViewProperty allows the owner, any tenant holding a rental on the
// property, and superusers.
func CanViewProperty(u *models.User, p *models.Property) bool {
	if u.IsSuperuser() {
		return true
	}
	if p.LandlordID == u.ID {
		return true
	}
	for _, r := range p.Rentals {
		if r.TenantID == u.ID {
			return true
		}
	}
	return false
}

func CanCreateProperty(u *models.User) bool {
	return u.IsSuperuser() || u.IsLandlord()
}

func CanUpdateProperty(u *models.User, p *models.Property) bool {
	return u.IsSuperuser() || p.LandlordID == u.ID
}

func CanDeleteProperty(u *models.User, p *models.Property) bool {
	return u.IsSuperuser() || p.LandlordID == u.ID
}

// CanChatOnProperty mirrors property visibility
func CanChatOnProperty(u *models.User, p *models.Property) bool {
	return CanViewProperty(u, p)
}

// Rental rules. The rental's Property must be loaded for landlord checks.

func CanViewRental(u *models.User, r *models.Rental) bool {
	if u.IsSuperuser() {
		return true
	}
	if r.Property != nil && r.Property.LandlordID == u.ID {
		return true
	}
	return r.TenantID == u.ID
}

// CanCreateRental allows superusers and the landlord who owns the property
// the rental is being created for.
func CanCreateRental(u *models.User, p *models.Property) bool {
	if u.IsSuperuser() {
		return true
	}
	return u.IsLandlord() && p.LandlordID == u.ID
}

func CanUpdateRental(u *models.User, r *models.Rental) bool {
	if u.IsSuperuser() {
		return true
	}
	return r.Property != nil && r.Property.LandlordID == u.ID
}

// CanTerminateRental additionally allows the tenant to end their own lease
func CanTerminateRental(u *models.User, r *models.Rental) bool {
	return CanUpdateRental(u, r) || r.TenantID == u.ID
}

func CanDeleteRental(u *models.User, r *models.Rental) bool {
	return CanUpdateRental(u, r)
}

// Payment rules. The payment's Rental and Rental.Property must be loaded.

func CanViewPayment(u *models.User, p *models.Payment) bool {
	if u.IsSuperuser() {
		return true
	}
	if p.Rental == nil {
		return false
	}
	if p.Rental.Property != nil && p.Rental.Property.LandlordID == u.ID {
		return true
	}
	return p.Rental.TenantID == u.ID
}

// CanCreatePayment allows superusers and the tenant on the rental being paid
func CanCreatePayment(u *models.User, r *models.Rental) bool {
	return u.IsSuperuser() || r.TenantID == u.ID
}

func CanUpdatePayment(u *models.User, p *models.Payment) bool {
	if u.IsSuperuser() {
		return true
	}
	return p.Rental != nil && p.Rental.Property != nil && p.Rental.Property.LandlordID == u.ID
}

func CanDeletePayment(u *models.User, _ *models.Payment) bool {
	return u.IsSuperuser()
}

// Maintenance request rules. Property must be loaded for landlord checks.

func CanViewMaintenanceRequest(u *models.User, m *models.MaintenanceRequest) bool {
	if u.IsSuperuser() {
		return true
	}
	if m.Property != nil && m.Property.LandlordID == u.ID {
		return true
	}
	if m.AssignedTo != nil && *m.AssignedTo == u.ID {
		return true
	}
	return m.TenantID == u.ID
}

// CanCreateMaintenanceRequest is tenant-only: requests always originate
// from the occupant.
func CanCreateMaintenanceRequest(u *models.User) bool {
	return u.IsTenant()
}

func CanUpdateMaintenanceRequest(u *models.User, m *models.MaintenanceRequest) bool {
	if u.IsSuperuser() {
		return true
	}
	if m.Property != nil && m.Property.LandlordID == u.ID {
		return true
	}
	return u.IsTenant() && m.TenantID == u.ID
}

func CanDeleteMaintenanceRequest(u *models.User, m *models.MaintenanceRequest) bool {
	if u.IsSuperuser() {
		return true
	}
	return m.Property != nil && m.Property.LandlordID == u.ID
}

func CanAssignMaintenanceRequest(u *models.User, m *models.MaintenanceRequest) bool {
	return CanDeleteMaintenanceRequest(u, m)
}

// Document rules. Property (with rentals) must be loaded for tenant checks.

func CanViewDocument(u *models.User, d *models.Document) bool {
	if u.IsSuperuser() {
		return true
	}
	if d.UserID == u.ID {
		return true
	}
	if d.Property == nil {
		return false
	}
	if d.Property.LandlordID == u.ID {
		return true
	}
	for _, r := range d.Property.Rentals {
		if r.TenantID == u.ID {
			return true
		}
	}
	return false
}

func CanUpdateDocument(u *models.User, d *models.Document) bool {
	if u.IsSuperuser() {
		return true
	}
	if d.UserID == u.ID {
		return true
	}
	return d.Property != nil && d.Property.LandlordID == u.ID
}

func CanDeleteDocument(u *models.User, d *models.Document) bool {
	return CanUpdateDocument(u, d)
}

// Chat message rules

func CanViewChatMessage(u *models.User, m *models.ChatMessage) bool {
	if u.IsSuperuser() {
		return true
	}
	return m.SenderID == u.ID || m.RecipientID == u.ID
}

func CanDeleteChatMessage(u *models.User, m *models.ChatMessage) bool {
	return u.IsSuperuser() || m.SenderID == u.ID
}

// User rules

func CanViewUser(u *models.User, target *models.User) bool {
	return u.IsSuperuser() || u.ID == target.ID
}

func CanUpdateUser(u *models.User, target *models.User) bool {
	return u.IsSuperuser() || u.ID == target.ID
}

// CanDeleteUser never allows self-deletion, even for superusers
func CanDeleteUser(u *models.User, target *models.User) bool {
	return u.IsSuperuser() && u.ID != target.ID
}
