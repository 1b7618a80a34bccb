package postgres

import (
	"context"

	"github.com/baechuer/contacts-service/internal/domain"
)

type UserRepo struct {
	db DBTX
}

func NewUserRepo(db DBTX) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) one(ctx context.Context, q string, args ...any) (domain.User, error) {
	var ur userRow
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(ur.dest()...); err != nil {
		if isNoRows(err) {
			return domain.User{}, domain.ErrUserNotFound()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return ur.toDomain(), nil
}

func (r *UserRepo) Create(ctx context.Context, email, passwordHash string) (domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}
	if passwordHash == "" {
		return domain.User{}, domain.ErrMissingField("password_hash")
	}

	const q = `
INSERT INTO users (email, password_hash)
VALUES ($1, $2)
RETURNING ` + userColumns + `;
`
	var ur userRow
	if err := r.db.QueryRowContext(ctx, q, email, passwordHash).Scan(ur.dest()...); err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, domain.ErrEmailAlreadyExists()
		}
		return domain.User{}, domain.ErrDBUnavailable(err)
	}
	return ur.toDomain(), nil
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return domain.User{}, domain.ErrMissingField("email")
	}

	const q = `
SELECT ` + userColumns + `
FROM users
WHERE email = $1
LIMIT 1;
`
	return r.one(ctx, q, email)
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	const q = `
SELECT ` + userColumns + `
FROM users
WHERE id = $1
LIMIT 1;
`
	return r.one(ctx, q, id)
}

func (r *UserRepo) SetEmailVerified(ctx context.Context, id int64) error {
	const q = `
UPDATE users
SET email_verified = TRUE
WHERE id = $1;
`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return domain.ErrDBUnavailable(err)
	}
	if affected(res) == 0 {
		return domain.ErrUserNotFound()
	}
	return nil
}

func (r *UserRepo) SetAvatarURL(ctx context.Context, id int64, url string) (domain.User, error) {
	const q = `
UPDATE users
SET avatar_url = $2
WHERE id = $1
RETURNING ` + userColumns + `;
`
	return r.one(ctx, q, id, url)
}
