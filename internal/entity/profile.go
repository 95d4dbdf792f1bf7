package domain

import "time"

// SiteProfile is the singleton "about" record of the storefront.
type SiteProfile struct {
	ID              string
	Name            string
	PhotoURL        string
	Title           string
	Story           string
	Specialty       string
	ExperienceYears int
	Quote           string
	Instagram       string
	WhatsApp        string
	Email           string
	City            string
	AcceptsOrders   bool
	DeliveryAreas   string
	UpdatedAt       time.Time
}

// Admin is the local account record paired with an identity-provider user.
type Admin struct {
	ID        string
	Email     string
	Name      string
	Phone     string
	AvatarURL string
	IsActive  bool
	CreatedAt time.Time
}

// Identity is what a verified credential resolves to.
type Identity struct {
	ID    string
	Email string
	Role  string
}

// Session is returned by the identity provider on sign-in.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
	User         Identity
}
