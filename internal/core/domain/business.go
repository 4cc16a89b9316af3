package domain

import "time"

// BusinessStatus represents the lifecycle state of a business site.
type BusinessStatus string

const (
	BusinessDraft     BusinessStatus = "draft"
	BusinessActive    BusinessStatus = "active"
	BusinessInactive  BusinessStatus = "inactive"
	BusinessSuspended BusinessStatus = "suspended"
	BusinessDeleted   BusinessStatus = "deleted"
)

// validBusinessTransitions defines the allowed status changes. Suspension and
// un-suspension are admin-only; that gate lives in the service layer.
var validBusinessTransitions = map[BusinessStatus][]BusinessStatus{
	BusinessDraft:     {BusinessActive, BusinessSuspended, BusinessDeleted},
	BusinessActive:    {BusinessInactive, BusinessSuspended, BusinessDeleted},
	BusinessInactive:  {BusinessActive, BusinessSuspended, BusinessDeleted},
	BusinessSuspended: {BusinessActive, BusinessDeleted},
}

// CanTransitionTo reports whether a transition from the current status to next is valid.
func (s BusinessStatus) CanTransitionTo(next BusinessStatus) bool {
	for _, allowed := range validBusinessTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ValidBusinessStatus reports whether s is one of the known statuses.
func ValidBusinessStatus(s BusinessStatus) bool {
	switch s {
	case BusinessDraft, BusinessActive, BusinessInactive, BusinessSuspended, BusinessDeleted:
		return true
	}
	return false
}

// Business categories form a closed enum; anything else is a validation error.
const (
	CategoryBarbershop  = "barbershop"
	CategoryBeautySalon = "beauty_salon"
	CategorySpa         = "spa"
	CategoryClinic      = "clinic"
	CategoryGym         = "gym"
	CategoryRestaurant  = "restaurant"
	CategoryOther       = "other"
)

var businessCategories = map[string]struct{}{
	CategoryBarbershop:  {},
	CategoryBeautySalon: {},
	CategorySpa:         {},
	CategoryClinic:      {},
	CategoryGym:         {},
	CategoryRestaurant:  {},
	CategoryOther:       {},
}

// ValidCategory reports whether category belongs to the closed enum.
func ValidCategory(category string) bool {
	_, ok := businessCategories[category]
	return ok
}

// DayHours holds the opening window for a single weekday.
type DayHours struct {
	Open   string `json:"open,omitempty" bson:"open,omitempty"`
	Close  string `json:"close,omitempty" bson:"close,omitempty"`
	Closed bool   `json:"closed" bson:"closed"`
}

// OperatingHours maps lowercase weekday names to opening windows.
type OperatingHours map[string]DayHours

// DefaultOperatingHours returns the schedule applied when an owner does not
// supply one: Mon-Fri 09:00-18:00, Sat 09:00-16:00, Sun closed.
func DefaultOperatingHours() OperatingHours {
	hours := OperatingHours{}
	for _, day := range []string{"monday", "tuesday", "wednesday", "thursday", "friday"} {
		hours[day] = DayHours{Open: "09:00", Close: "18:00"}
	}
	hours["saturday"] = DayHours{Open: "09:00", Close: "16:00"}
	hours["sunday"] = DayHours{Closed: true}
	return hours
}

// SocialLinks groups the optional outbound links shown on a business site.
type SocialLinks struct {
	Facebook  string `json:"facebook,omitempty" bson:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty" bson:"instagram,omitempty"`
	WhatsApp  string `json:"whatsapp,omitempty" bson:"whatsapp,omitempty"`
	Website   string `json:"website,omitempty" bson:"website,omitempty"`
}

// BusinessSettings holds per-tenant booking policy flags.
type BusinessSettings struct {
	Currency           string `json:"currency" bson:"currency"`
	AllowOnlineBooking bool   `json:"allow_online_booking" bson:"allow_online_booking"`
	RequireApproval    bool   `json:"require_approval" bson:"require_approval"`
}

// BusinessAssets lists the stored media attached to a business site.
type BusinessAssets struct {
	Logo    string   `json:"logo,omitempty" bson:"logo,omitempty"`
	Cover   string   `json:"cover,omitempty" bson:"cover,omitempty"`
	Gallery []string `json:"gallery,omitempty" bson:"gallery,omitempty"`
}

// Keys returns every non-empty asset reference for cascade removal.
func (a BusinessAssets) Keys() []string {
	keys := make([]string, 0, 2+len(a.Gallery))
	if a.Logo != "" {
		keys = append(keys, a.Logo)
	}
	if a.Cover != "" {
		keys = append(keys, a.Cover)
	}
	keys = append(keys, a.Gallery...)
	return keys
}

// Business is the tenant aggregate root. TemplateID is never empty after
// creation. ServiceCount backs the atomic service quota check.
type Business struct {
	ID             string           `json:"id" bson:"_id,omitempty"`
	OwnerID        string           `json:"owner_id" bson:"owner_id"`
	Name           string           `json:"name" bson:"name"`
	Slug           string           `json:"slug" bson:"slug"`
	Category       string           `json:"category" bson:"category"`
	Status         BusinessStatus   `json:"status" bson:"status"`
	TemplateID     string           `json:"template_id" bson:"template_id"`
	Description    string           `json:"description,omitempty" bson:"description,omitempty"`
	Location       string           `json:"location,omitempty" bson:"location,omitempty"`
	Phone          string           `json:"phone,omitempty" bson:"phone,omitempty"`
	Social         SocialLinks      `json:"social" bson:"social"`
	OperatingHours OperatingHours   `json:"operating_hours" bson:"operating_hours"`
	Settings       BusinessSettings `json:"settings" bson:"settings"`
	Assets         BusinessAssets   `json:"assets" bson:"assets"`
	ServiceCount   int              `json:"service_count" bson:"service_count"`
	PublishedAt    *time.Time       `json:"published_at,omitempty" bson:"published_at,omitempty"`
	CreatedAt      time.Time        `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at" bson:"updated_at"`
}
