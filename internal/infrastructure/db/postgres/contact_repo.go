package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/baechuer/contacts-service/internal/domain"
)

const contactColumns = `id, first_name, last_name, email, phone_number, birthday, additional_info, created_at, updated_at`

type ContactRepo struct {
	db DBTX
}

func NewContactRepo(db DBTX) *ContactRepo {
	return &ContactRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanContact(s rowScanner) (domain.Contact, error) {
	var (
		c    domain.Contact
		info sql.NullString
	)
	err := s.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.PhoneNumber,
		&c.Birthday, &info, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return domain.Contact{}, err
	}
	if info.Valid {
		v := info.String
		c.AdditionalInfo = &v
	}
	c.Birthday = dateOnly(c.Birthday)
	return c, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func (r *ContactRepo) Create(ctx context.Context, in domain.ContactFields) (domain.Contact, error) {
	const q = `
INSERT INTO contacts (first_name, last_name, email, phone_number, birthday, additional_info)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + contactColumns + `;
`
	c, err := scanContact(r.db.QueryRowContext(ctx, q,
		in.FirstName, in.LastName, in.Email, in.PhoneNumber,
		dateOnly(in.Birthday), nullable(in.AdditionalInfo),
	))
	if err != nil {
		return domain.Contact{}, domain.ErrDBUnavailable(err)
	}
	return c, nil
}

func (r *ContactRepo) Get(ctx context.Context, id int64) (domain.Contact, error) {
	const q = `
SELECT ` + contactColumns + `
FROM contacts
WHERE id = $1;
`
	c, err := scanContact(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if isNoRows(err) {
			return domain.Contact{}, domain.ErrContactNotFound()
		}
		return domain.Contact{}, domain.ErrDBUnavailable(err)
	}
	return c, nil
}

func (r *ContactRepo) List(ctx context.Context, page domain.Page) ([]domain.Contact, error) {
	const q = `
SELECT ` + contactColumns + `
FROM contacts
ORDER BY id
OFFSET $1 LIMIT $2;
`
	rows, err := r.db.QueryContext(ctx, q, page.Skip, page.Limit)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	out := []domain.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}

// Update writes only the columns present in patch. An empty patch is a read.
func (r *ContactRepo) Update(ctx context.Context, id int64, patch domain.ContactPatch) (domain.Contact, error) {
	if patch.Empty() {
		return r.Get(ctx, id)
	}

	var (
		sets []string
		args = []any{id}
	)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if patch.FirstName != nil {
		add("first_name", *patch.FirstName)
	}
	if patch.LastName != nil {
		add("last_name", *patch.LastName)
	}
	if patch.Email != nil {
		add("email", *patch.Email)
	}
	if patch.PhoneNumber != nil {
		add("phone_number", *patch.PhoneNumber)
	}
	if patch.Birthday != nil {
		add("birthday", dateOnly(*patch.Birthday))
	}
	if patch.AdditionalInfo != nil {
		info := nullable(patch.AdditionalInfo)
		info.Valid = info.String != ""
		add("additional_info", info)
	}
	sets = append(sets, "updated_at = NOW()")

	q := `
UPDATE contacts
SET ` + strings.Join(sets, ", ") + `
WHERE id = $1
RETURNING ` + contactColumns + `;
`
	c, err := scanContact(r.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		if isNoRows(err) {
			return domain.Contact{}, domain.ErrContactNotFound()
		}
		return domain.Contact{}, domain.ErrDBUnavailable(err)
	}
	return c, nil
}

func (r *ContactRepo) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM contacts WHERE id = $1;`

	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	if affected(res) == 0 {
		return domain.ErrContactNotFound()
	}
	return nil
}
