package postgres

import (
	"context"

	"github.com/baechuer/contacts-service/internal/domain"
)

const noteColumns = `id, title, content, created_at`

type NoteRepo struct {
	db DBTX
}

func NewNoteRepo(db DBTX) *NoteRepo {
	return &NoteRepo{db: db}
}

func scanNote(s rowScanner) (domain.Note, error) {
	var n domain.Note
	err := s.Scan(&n.ID, &n.Title, &n.Content, &n.CreatedAt)
	return n, err
}

func (r *NoteRepo) Create(ctx context.Context, title, content string) (domain.Note, error) {
	const q = `
INSERT INTO notes (title, content)
VALUES ($1, $2)
RETURNING ` + noteColumns + `;
`
	n, err := scanNote(r.db.QueryRowContext(ctx, q, title, content))
	if err != nil {
		return domain.Note{}, domain.ErrDBUnavailable(err)
	}
	return n, nil
}

func (r *NoteRepo) List(ctx context.Context, page domain.Page) ([]domain.Note, error) {
	const q = `
SELECT ` + noteColumns + `
FROM notes
ORDER BY id
OFFSET $1 LIMIT $2;
`
	rows, err := r.db.QueryContext(ctx, q, page.Skip, page.Limit)
	if err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	defer rows.Close()

	out := []domain.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, domain.ErrDBUnavailable(err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.ErrDBUnavailable(err)
	}
	return out, nil
}

func (r *NoteRepo) Update(ctx context.Context, id int64, patch domain.NotePatch) (domain.Note, error) {
	const q = `
UPDATE notes
SET title = COALESCE($2, title),
    content = COALESCE($3, content)
WHERE id = $1
RETURNING ` + noteColumns + `;
`
	n, err := scanNote(r.db.QueryRowContext(ctx, q, id, nullable(patch.Title), nullable(patch.Content)))
	if err != nil {
		if isNoRows(err) {
			return domain.Note{}, domain.ErrNoteNotFound()
		}
		return domain.Note{}, domain.ErrDBUnavailable(err)
	}
	return n, nil
}

func (r *NoteRepo) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM notes WHERE id = $1;`

	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	if affected(res) == 0 {
		return domain.ErrNoteNotFound()
	}
	return nil
}
