package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const userColumns = `
  id::text, email, first_name, last_name, role, status,
  COALESCE(site_id::text, ''), COALESCE(rejection_reason, ''), last_login, created_at`

func scanUser(row pgx.Row, extra ...any) (User, error) {
	var u User
	dest := []any{&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.Role, &u.Status, &u.SiteID, &u.RejectionReason, &u.LastLogin, &u.CreatedAt}
	dest = append(dest, extra...)
	if err := row.Scan(dest...); err != nil {
		return User{}, mapUserErr(err)
	}
	return u, nil
}

// mapUserErr treats a missing row and an id that is not a uuid alike.
func mapUserErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "22P02" {
		return ErrNotFound
	}
	return err
}

func (s *Store) CreateUser(ctx context.Context, user User, passwordHash string) (User, error) {
	row := s.DB.QueryRow(ctx, `
    INSERT INTO users (email, password_hash, first_name, last_name, role, status, site_id)
    VALUES ($1, $2, $3, $4, $5, $6, $7)
    RETURNING `+userColumns, strings.ToLower(user.Email), passwordHash, user.FirstName, user.LastName, user.Role, user.Status, nullIfEmpty(user.SiteID))
	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}
	return created, nil
}

func (s *Store) UserByEmail(ctx context.Context, email string) (User, string, error) {
	var hash string
	row := s.DB.QueryRow(ctx, `SELECT `+userColumns+`, password_hash FROM users WHERE email = $1`, strings.ToLower(email))
	user, err := scanUser(row, &hash)
	if err != nil {
		return User{}, "", err
	}
	return user, hash, nil
}

func (s *Store) UserByID(ctx context.Context, userID string) (User, error) {
	return scanUser(s.DB.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID))
}

func (s *Store) ListUsersByStatus(ctx context.Context, status string) ([]User, error) {
	rows, err := s.DB.Query(ctx, `SELECT `+userColumns+` FROM users WHERE status = $1 ORDER BY created_at`, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, user)
	}
	return out, rows.Err()
}

// TransitionStatus moves a user from one status to another. ErrNotPending is
// returned when the user exists but is not in the expected status.
func (s *Store) TransitionStatus(ctx context.Context, userID, from, to, reason string) (User, error) {
	row := s.DB.QueryRow(ctx, `
    UPDATE users
    SET status = $1, rejection_reason = $2, updated_at = now()
    WHERE id = $3 AND status = $4
    RETURNING `+userColumns, to, nullIfEmpty(reason), userID, from)
	user, err := scanUser(row)
	if errors.Is(err, ErrNotFound) {
		if _, lookupErr := s.UserByID(ctx, userID); lookupErr == nil {
			return User{}, ErrNotPending
		}
	}
	return user, err
}

func (s *Store) UpdateLastLogin(ctx context.Context, userID string) error {
	_, err := s.DB.Exec(ctx, "UPDATE users SET last_login = now() WHERE id = $1", userID)
	if err != nil {
		return mapUserErr(err)
	}
	return nil
}

func (s *Store) CreatePasswordReset(ctx context.Context, userID, tokenHash string, expires time.Time) error {
	_, err := s.DB.Exec(ctx, "INSERT INTO password_resets (user_id, token_hash, expires_at) VALUES ($1, $2, $3)", userID, tokenHash, expires)
	return err
}

func (s *Store) PasswordResetUserID(ctx context.Context, tokenHash string) (string, error) {
	var userID string
	err := s.DB.QueryRow(ctx, `
    SELECT user_id::text
    FROM password_resets
    WHERE token_hash = $1 AND expires_at > now() AND used_at IS NULL
  `, tokenHash).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrInvalidToken
	}
	return userID, err
}

func (s *Store) ConsumePasswordReset(ctx context.Context, tokenHash, userID, passwordHash string) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, `
    UPDATE password_resets SET used_at = now()
    WHERE token_hash = $1 AND user_id = $2 AND used_at IS NULL AND expires_at > now()
  `, tokenHash, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrInvalidToken
	}
	if _, err := tx.Exec(ctx, "UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2", passwordHash, userID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}

// PurgeExpiredResets deletes reset tokens that expired or were used before cutoff.
func (s *Store) PurgeExpiredResets(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.DB.Exec(ctx, "DELETE FROM password_resets WHERE expires_at < $1 OR used_at < $1", cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
