// Package pgstore is the PostgreSQL [campusAuth.CredentialStore], built on
// a pgx connection pool.
package pgstore

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	campusAuth "github.com/MrEthical07/campusAuth"
)

//go:embed schema.sql
var schema string

const (
	uniqueViolation = "23505"

	usernameConstraint = "credentials_username_key"
	emailConstraint    = "credentials_email_key"
)

// DB is the subset of [pgxpool.Pool] the store uses.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Store struct {
	db DB
}

var _ campusAuth.CredentialStore = (*Store)(nil)

func New(db DB) *Store {
	return &Store{db: db}
}

// Connect opens a pool with conservative defaults and pings it.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	if dsn == "" {
		return nil, errors.New("empty database dsn")
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	config.MaxConns = 10
	config.MinConns = 1
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute
	config.HealthCheckPeriod = 30 * time.Second

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// EnsureSchema creates the credentials table and its unique indexes.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("pgstore: create schema: %w", err)
	}
	return nil
}

func (s *Store) FindByUsername(ctx context.Context, username string) (campusAuth.Credential, error) {
	const q = `SELECT id, username, email, password_hash, role, created_at, updated_at
		FROM credentials WHERE username = $1`

	var (
		c    campusAuth.Credential
		role string
	)
	err := s.db.QueryRow(ctx, q, username).
		Scan(&c.ID, &c.Username, &c.Email, &c.PasswordHash, &role, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return campusAuth.Credential{}, mapError(err)
	}

	// Rows migrated from the legacy system may still carry ROLE_ tags.
	c.Role, err = campusAuth.ParseRole(role)
	if err != nil {
		return campusAuth.Credential{}, fmt.Errorf("pgstore: credential %s: %w", c.ID, err)
	}
	return c, nil
}

func (s *Store) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return s.exists(ctx, `SELECT EXISTS (SELECT 1 FROM credentials WHERE username = $1)`, username)
}

func (s *Store) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return s.exists(ctx, `SELECT EXISTS (SELECT 1 FROM credentials WHERE lower(email) = lower($1))`, email)
}

func (s *Store) exists(ctx context.Context, q string, arg string) (bool, error) {
	var ok bool
	if err := s.db.QueryRow(ctx, q, arg).Scan(&ok); err != nil {
		return false, mapError(err)
	}
	return ok, nil
}

// Save upserts by ID. created_at is kept from the first insert.
func (s *Store) Save(ctx context.Context, c campusAuth.Credential) (campusAuth.Credential, error) {
	const q = `INSERT INTO credentials (id, username, email, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			username      = EXCLUDED.username,
			email         = EXCLUDED.email,
			password_hash = EXCLUDED.password_hash,
			role          = EXCLUDED.role,
			updated_at    = EXCLUDED.updated_at
		RETURNING created_at, updated_at`

	err := s.db.QueryRow(ctx, q, c.ID, c.Username, c.Email, c.PasswordHash, string(c.Role), c.CreatedAt, c.UpdatedAt).
		Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return campusAuth.Credential{}, mapError(err)
	}
	return c, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM credentials WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return campusAuth.ErrCredentialNotFound
	}
	return nil
}

// mapError translates driver errors into campusAuth sentinels. Unique
// violations are told apart by constraint name.
func mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return campusAuth.ErrCredentialNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		switch pgErr.ConstraintName {
		case usernameConstraint:
			return campusAuth.ErrDuplicateUsername
		case emailConstraint:
			return campusAuth.ErrDuplicateEmail
		}
	}
	return fmt.Errorf("pgstore: %w", err)
}
