package domain

import "time"

// Template is a reusable site configuration a business is provisioned from.
// OwnerID is empty for system templates. A template is never deleted while a
// business references it.
type Template struct {
	ID          string     `json:"id" bson:"_id,omitempty"`
	OwnerID     string     `json:"owner_id,omitempty" bson:"owner_id,omitempty"`
	Name        string     `json:"name" bson:"name"`
	Description string     `json:"description,omitempty" bson:"description,omitempty"`
	IsPublic    bool       `json:"is_public" bson:"is_public"`
	IsDefault   bool       `json:"is_default" bson:"is_default"`
	IsActive    bool       `json:"is_active" bson:"is_active"`
	TimesUsed   int64      `json:"times_used" bson:"times_used"`
	Rating      float64    `json:"rating" bson:"rating"`
	LastUsedAt  *time.Time `json:"last_used_at,omitempty" bson:"last_used_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" bson:"updated_at"`
}

// UsableBy reports whether a caller may provision a business from this
// template: it must be active, and either shared (public or default), owned
// by the caller, or the caller is an admin.
func (t *Template) UsableBy(callerID, role string) bool {
	if !t.IsActive {
		return false
	}
	if t.IsPublic || t.IsDefault {
		return true
	}
	if role == RoleAdmin {
		return true
	}
	return t.OwnerID != "" && t.OwnerID == callerID
}
