package domain

import "time"

// DateLayout is the wire and storage layout of calendar dates.
const DateLayout = "2006-01-02"

// Contact is a global address-book entry. It has no owning user.
type Contact struct {
	ID             int64
	FirstName      string
	LastName       string
	Email          string
	PhoneNumber    string
	Birthday       time.Time
	AdditionalInfo *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ContactFields is the full set of writable fields used on create.
type ContactFields struct {
	FirstName      string
	LastName       string
	Email          string
	PhoneNumber    string
	Birthday       time.Time
	AdditionalInfo *string
}

// ContactPatch carries only the fields a caller supplied; nil means unchanged.
// An empty AdditionalInfo clears the note.
type ContactPatch struct {
	FirstName      *string
	LastName       *string
	Email          *string
	PhoneNumber    *string
	Birthday       *time.Time
	AdditionalInfo *string
}

func (p ContactPatch) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Email == nil &&
		p.PhoneNumber == nil && p.Birthday == nil && p.AdditionalInfo == nil
}

// Apply returns c with every supplied field of p copied over.
func (p ContactPatch) Apply(c Contact) Contact {
	if p.FirstName != nil {
		c.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		c.LastName = *p.LastName
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.PhoneNumber != nil {
		c.PhoneNumber = *p.PhoneNumber
	}
	if p.Birthday != nil {
		c.Birthday = *p.Birthday
	}
	if p.AdditionalInfo != nil {
		c.AdditionalInfo = nil
		if v := *p.AdditionalInfo; v != "" {
			c.AdditionalInfo = &v
		}
	}
	return c
}
