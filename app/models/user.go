package models

const (
	// Placeholder shown for any missing optional field.
	Dash = "—"

	UnknownUser  = "Unknown user"
	UnknownEmail = "no-email@example.com"
)

// Key returns the primary key used to de-duplicate pages.
func (u User) Key() int {
	return u.ID
}

// CompanyName returns the company name, or "" when absent.
func (u *User) CompanyName() string {
	if u == nil || u.Company == nil {
		return ""
	}
	return u.Company.Name
}

// CatchPhrase returns the company catch phrase, or "" when absent.
func (u *User) CatchPhrase() string {
	if u == nil || u.Company == nil {
		return ""
	}
	return u.Company.CatchPhrase
}

// City returns the address city, or "" when absent.
func (u *User) City() string {
	if u == nil || u.Address == nil {
		return ""
	}
	return u.Address.City
}

// WebsiteURL returns an absolute link to the user's website, or "#".
func (u *User) WebsiteURL() string {
	if u == nil || u.Website == "" {
		return "#"
	}
	return "https://" + u.Website
}

// DisplayName returns the name, falling back to UnknownUser.
func (u *User) DisplayName() string {
	if u == nil || u.Name == "" {
		return UnknownUser
	}
	return u.Name
}

// DisplayEmail returns the email, falling back to UnknownEmail.
func (u *User) DisplayEmail() string {
	if u == nil || u.Email == "" {
		return UnknownEmail
	}
	return u.Email
}

// Initial returns the avatar letter for the user.
func (u *User) Initial() string {
	if u == nil {
		return Initial("")
	}
	if u.Name != "" {
		return Initial(u.Name)
	}
	return Initial(u.Email)
}

// PhoneNumber returns the phone, or "" when the user is nil.
func (u *User) PhoneNumber() string {
	if u == nil {
		return ""
	}
	return u.Phone
}

// WebsiteName returns the raw website host, or "" when the user is nil.
func (u *User) WebsiteName() string {
	if u == nil {
		return ""
	}
	return u.Website
}
