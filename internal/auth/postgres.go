package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"sfpms.org/internal/ids"
)

const pgErrUniqueViolation = "23505"

var _ CredentialStore = (*PGCredentialStore)(nil)

// PGCredentialStore implements CredentialStore using PostgreSQL.
type PGCredentialStore struct {
	db *sql.DB
}

func NewPGCredentialStore(db *sql.DB) *PGCredentialStore {
	return &PGCredentialStore{db: db}
}

func (s *PGCredentialStore) Create(ctx context.Context, cred *Credential) error {
	if cred.ID == "" {
		cred.ID = ids.New()
	}
	if cred.Status == "" {
		cred.Status = UserStatusActive
	}
	if !cred.Role.Valid() {
		return ErrInvalidInput
	}
	_, err := s.db.ExecContext(ctx,
		`insert into users(id, username, email, password_hash, role, department_id, status)
		 values($1,$2,$3,$4,$5,$6,$7)`,
		cred.ID, cred.Username, normalizeIdentifier(cred.Email), cred.PasswordHash,
		cred.Role, nullString(cred.DepartmentID), cred.Status,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
			return ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (s *PGCredentialStore) FindByEmail(ctx context.Context, email string) (*Credential, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, username, email, password_hash, role, department_id, status, last_login, created_at, updated_at
		 from users where email=$1`, normalizeIdentifier(email))
	return scanCredential(row)
}

func (s *PGCredentialStore) FindByID(ctx context.Context, id string) (*Credential, error) {
	row := s.db.QueryRowContext(ctx,
		`select id, username, email, password_hash, role, department_id, status, last_login, created_at, updated_at
		 from users where id=$1`, id)
	return scanCredential(row)
}

func (s *PGCredentialStore) SetLastLogin(ctx context.Context, userID string, at time.Time) error {
	res, err := s.db.ExecContext(ctx,
		`update users set last_login=$2, updated_at=now() where id=$1`, userID, at)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanCredential(row *sql.Row) (*Credential, error) {
	var (
		cred       Credential
		department sql.NullString
		lastLogin  sql.NullTime
	)
	err := row.Scan(&cred.ID, &cred.Username, &cred.Email, &cred.PasswordHash,
		&cred.Role, &department, &cred.Status, &lastLogin, &cred.CreatedAt, &cred.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if department.Valid {
		cred.DepartmentID = department.String
	}
	if lastLogin.Valid {
		cred.LastLogin = lastLogin.Time
	}
	return &cred, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
