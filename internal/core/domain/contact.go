package domain

// ContactInfo holds contact details volunteered in a chat message.
type ContactInfo struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Empty reports whether nothing was extracted.
func (c ContactInfo) Empty() bool {
	return c.Name == "" && c.Email == "" && c.Phone == ""
}

// Merge fills blank fields of c from other.
func (c ContactInfo) Merge(other ContactInfo) ContactInfo {
	if c.Name == "" {
		c.Name = other.Name
	}
	if c.Email == "" {
		c.Email = other.Email
	}
	if c.Phone == "" {
		c.Phone = other.Phone
	}
	return c
}

// IsLead reports whether the details are enough to follow up:
// a name plus an email or phone number.
func (c ContactInfo) IsLead() bool {
	return c.Name != "" && (c.Email != "" || c.Phone != "")
}
