package dto

import (
	"time"

	"github.com/baechuer/contacts-service/internal/domain"
)

type ContactCreateRequest struct {
	FirstName      string  `json:"first_name" validate:"required,notblank,max=50"`
	LastName       string  `json:"last_name" validate:"required,notblank,max=50"`
	Email          string  `json:"email" validate:"required,email,max=254"`
	PhoneNumber    string  `json:"phone_number" validate:"required,notblank,max=20"`
	Birthday       string  `json:"birthday" validate:"required,date"`
	AdditionalInfo *string `json:"additional_info" validate:"omitnil,max=250"`
}

func (r *ContactCreateRequest) Validate() error { return Struct(r) }

// Fields assumes Validate has passed.
func (r *ContactCreateRequest) Fields() domain.ContactFields {
	bday, _ := time.Parse(domain.DateLayout, r.Birthday)
	return domain.ContactFields{
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Email:          r.Email,
		PhoneNumber:    r.PhoneNumber,
		Birthday:       bday,
		AdditionalInfo: r.AdditionalInfo,
	}
}

// ContactPatchRequest is a partial update; absent or null fields stay
// unchanged. "additional_info": "" clears the note.
type ContactPatchRequest struct {
	FirstName      *string `json:"first_name" validate:"omitnil,notblank,max=50"`
	LastName       *string `json:"last_name" validate:"omitnil,notblank,max=50"`
	Email          *string `json:"email" validate:"omitnil,email,max=254"`
	PhoneNumber    *string `json:"phone_number" validate:"omitnil,notblank,max=20"`
	Birthday       *string `json:"birthday" validate:"omitnil,date"`
	AdditionalInfo *string `json:"additional_info" validate:"omitnil,max=250"`
}

func (r *ContactPatchRequest) Validate() error { return Struct(r) }

func (r *ContactPatchRequest) Patch() domain.ContactPatch {
	p := domain.ContactPatch{
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Email:          r.Email,
		PhoneNumber:    r.PhoneNumber,
		AdditionalInfo: r.AdditionalInfo,
	}
	if r.Birthday != nil {
		if bday, err := time.Parse(domain.DateLayout, *r.Birthday); err == nil {
			p.Birthday = &bday
		}
	}
	return p
}

type ContactView struct {
	ID             int64     `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email"`
	PhoneNumber    string    `json:"phone_number"`
	Birthday       string    `json:"birthday"`
	AdditionalInfo *string   `json:"additional_info"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func NewContactView(c domain.Contact) ContactView {
	return ContactView{
		ID:             c.ID,
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		Email:          c.Email,
		PhoneNumber:    c.PhoneNumber,
		Birthday:       c.Birthday.Format(domain.DateLayout),
		AdditionalInfo: c.AdditionalInfo,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func NewContactViews(cs []domain.Contact) []ContactView {
	out := make([]ContactView, 0, len(cs))
	for _, c := range cs {
		out = append(out, NewContactView(c))
	}
	return out
}
