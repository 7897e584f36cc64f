package postgres

import (
	"context"
	"database/sql"
	"time"

	"cfb-poll/internal/domain/user"
)

const userColumns = `id, name, email, password_hash, role, email_verified,
        verification_token, reset_token, reset_expires_at, created_at, updated_at`

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*user.User, error) {
	var (
		u       user.User
		verify  sql.NullString
		reset   sql.NullString
		expires sql.NullTime
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role, &u.EmailVerified,
		&verify, &reset, &expires, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	u.VerificationToken = verify.String
	u.ResetToken = reset.String
	if expires.Valid {
		t := expires.Time
		u.ResetExpiresAt = &t
	}
	return &u, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (r *UserRepo) Create(ctx context.Context, u *user.User) error {
	query := `
        INSERT INTO users (name, email, password_hash, role, email_verified, verification_token)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at
    `
	err := r.db.QueryRowContext(ctx, query, u.Name, u.Email, u.PasswordHash, u.Role,
		u.EmailVerified, nullString(u.VerificationToken)).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if isUniqueViolation(err) {
		return user.ErrEmailTaken
	}
	return err
}

func (r *UserRepo) getOne(ctx context.Context, where string, args ...any) (*user.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, args...)
	return scanUser(row)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.getOne(ctx, `email = $1`, email)
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	return r.getOne(ctx, `id = $1`, id)
}

func (r *UserRepo) GetByVerificationToken(ctx context.Context, token string) (*user.User, error) {
	return r.getOne(ctx, `verification_token = $1`, token)
}

func (r *UserRepo) GetByResetToken(ctx context.Context, token string, now time.Time) (*user.User, error) {
	return r.getOne(ctx, `reset_token = $1 AND reset_expires_at > $2`, token, now.UTC())
}

func (r *UserRepo) List(ctx context.Context) ([]user.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	usersList := []user.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		usersList = append(usersList, *u)
	}
	return usersList, rows.Err()
}

// exec runs an UPDATE and reports sql.ErrNoRows when nothing matched.
func (r *UserRepo) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *UserRepo) UpdateRole(ctx context.Context, id int64, role string) error {
	return r.exec(ctx, `UPDATE users SET role = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`, role, id)
}

func (r *UserRepo) MarkVerified(ctx context.Context, id int64) error {
	return r.exec(ctx, `
        UPDATE users
        SET email_verified = $1, verification_token = NULL, updated_at = CURRENT_TIMESTAMP
        WHERE id = $2
    `, true, id)
}

func (r *UserRepo) SetVerificationToken(ctx context.Context, id int64, token string) error {
	return r.exec(ctx, `UPDATE users SET verification_token = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		nullString(token), id)
}

func (r *UserRepo) UpdateEmail(ctx context.Context, id int64, email, token string) error {
	err := r.exec(ctx, `
        UPDATE users
        SET email = $1, email_verified = $2, verification_token = $3, updated_at = CURRENT_TIMESTAMP
        WHERE id = $4
    `, email, false, nullString(token), id)
	if isUniqueViolation(err) {
		return user.ErrEmailTaken
	}
	return err
}

func (r *UserRepo) SetResetToken(ctx context.Context, id int64, token string, expiresAt *time.Time) error {
	var expires sql.NullTime
	if token != "" && expiresAt != nil {
		expires = sql.NullTime{Time: expiresAt.UTC(), Valid: true}
	}
	return r.exec(ctx, `
        UPDATE users
        SET reset_token = $1, reset_expires_at = $2, updated_at = CURRENT_TIMESTAMP
        WHERE id = $3
    `, nullString(token), expires, id)
}

func (r *UserRepo) UpdatePassword(ctx context.Context, id int64, hash string) error {
	return r.exec(ctx, `
        UPDATE users
        SET password_hash = $1, reset_token = NULL, reset_expires_at = NULL, updated_at = CURRENT_TIMESTAMP
        WHERE id = $2
    `, hash, id)
}
