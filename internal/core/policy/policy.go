// Package policy centralizes the role/ownership authorization decisions that
// were previously re-derived inside every handler. All functions are pure:
// they never touch I/O and never return errors. Callers translate a false
// answer into domain.ErrForbidden at the boundary.
package policy

import "github.com/JefryM27/misitiofacil-Backend-sub000/internal/core/domain"

// Caller is the resolved identity attached to an inbound action. Token
// authentication happens upstream; this package only authorizes.
type Caller struct {
	ID       string
	Role     string
	IsActive bool
}

// Resource is the authorization view of an entity, built by the service layer
// from loaded records. OwnerID is the owner of the owning business (or the
// resource's own owner for templates). ClientID is set only for reservations
// booked by a registered client. Public marks resources visible to anyone
// (an active business, a public template).
type Resource struct {
	OwnerID  string
	ClientID string
	Public   bool
}

// BusinessResource builds the authorization view of a business. Businesses
// with status other than active are visible only to their owner or an admin.
func BusinessResource(b *domain.Business) Resource {
	return Resource{OwnerID: b.OwnerID, Public: b.Status == domain.BusinessActive}
}

// ReservationResource builds the authorization view of a reservation under
// its owning business.
func ReservationResource(r *domain.Reservation, b *domain.Business) Resource {
	res := Resource{OwnerID: b.OwnerID}
	if r.Client.Kind == domain.ClientKindRegistered {
		res.ClientID = r.Client.UserID
	}
	return res
}

// TemplateResource builds the authorization view of a template. Public and
// default templates are visible to every caller.
func TemplateResource(t *domain.Template) Resource {
	return Resource{OwnerID: t.OwnerID, Public: t.IsPublic || t.IsDefault}
}

// CanView reports whether the caller may read the resource.
func CanView(c Caller, r Resource) bool {
	if c.Role == domain.RoleAdmin {
		return true
	}
	if r.OwnerID != "" && c.Role == domain.RoleOwner && c.ID == r.OwnerID {
		return true
	}
	if r.ClientID != "" && c.Role == domain.RoleClient && c.ID == r.ClientID {
		return true
	}
	return r.Public
}

// CanManage reports whether the caller may mutate the resource. Only an
// admin or the owner of the resource's business may manage.
func CanManage(c Caller, r Resource) bool {
	if c.Role == domain.RoleAdmin {
		return true
	}
	return c.Role == domain.RoleOwner && r.OwnerID != "" && c.ID == r.OwnerID
}

// CanCancel reports whether the caller may cancel a reservation: anyone who
// may manage it, plus the booking client themself.
func CanCancel(c Caller, r Resource) bool {
	if CanManage(c, r) {
		return true
	}
	return c.Role == domain.RoleClient && r.ClientID != "" && c.ID == r.ClientID
}
