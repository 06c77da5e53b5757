package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

// PostgresStore implements Store on top of a pgx connection pool. Uniqueness
// and write atomicity are delegated to the database: inserts and updates
// either commit fully or are rejected with a constraint violation.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a PostgresStore using the given pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const accountColumns = "id, username, email, password_hash, first_name, last_name, created_at, is_active"

func scanAccount(row pgx.Row) (*Account, error) {
	var a Account
	err := row.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.FirstName, &a.LastName, &a.CreatedAt, &a.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error scanning account row: %w", err)
	}
	return &a, nil
}

// uniqueViolation maps a 23505 error to the sentinel matching the violated
// constraint, or nil if err is not a unique violation.
func uniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
		return nil
	}
	if strings.Contains(pgErr.ConstraintName, "username") {
		return ErrUsernameTaken
	}
	if strings.Contains(pgErr.ConstraintName, "email") {
		return ErrEmailTaken
	}
	return nil
}

func (s *PostgresStore) Create(ctx context.Context, account *Account) (*Account, error) {
	query := `INSERT INTO users (username, email, password_hash, first_name, last_name)
              VALUES ($1, $2, $3, $4, $5)
              RETURNING id, created_at, is_active`
	err := s.pool.QueryRow(ctx, query,
		account.Username, account.Email, account.PasswordHash, account.FirstName, account.LastName,
	).Scan(&account.ID, &account.CreatedAt, &account.IsActive)
	if err != nil {
		if sentinel := uniqueViolation(err); sentinel != nil {
			return nil, sentinel
		}
		return nil, fmt.Errorf("error inserting account: %w", err)
	}
	return account, nil
}

func (s *PostgresStore) GetByID(ctx context.Context, id int) (*Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE id = $1`, accountColumns)
	return scanAccount(s.pool.QueryRow(ctx, query, id))
}

func (s *PostgresStore) GetByUsername(ctx context.Context, username string) (*Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE username = $1`, accountColumns)
	return scanAccount(s.pool.QueryRow(ctx, query, username))
}

func (s *PostgresStore) Update(ctx context.Context, id int, upd ProfileUpdate) (*Account, error) {
	// Build the SET clause from the fields actually present in the update.
	var setClauses []string
	var args []interface{}
	argID := 1

	if upd.Email != nil {
		setClauses = append(setClauses, fmt.Sprintf("email = $%d", argID))
		args = append(args, strings.ToLower(*upd.Email))
		argID++
	}
	if upd.FirstName != nil {
		setClauses = append(setClauses, fmt.Sprintf("first_name = $%d", argID))
		args = append(args, *upd.FirstName)
		argID++
	}
	if upd.LastName != nil {
		setClauses = append(setClauses, fmt.Sprintf("last_name = $%d", argID))
		args = append(args, *upd.LastName)
		argID++
	}

	if len(setClauses) == 0 {
		// Nothing to change; return the current row.
		return s.GetByID(ctx, id)
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), argID, accountColumns)

	account, err := scanAccount(s.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if sentinel := uniqueViolation(err); sentinel != nil {
			return nil, sentinel
		}
		return nil, err
	}
	return account, nil
}

func (s *PostgresStore) Deactivate(ctx context.Context, id int) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET is_active = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deactivating account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) ListActive(ctx context.Context) ([]Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM users WHERE is_active ORDER BY id`, accountColumns)
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing accounts: %w", err)
	}
	defer rows.Close()

	var accounts []Account
	for rows.Next() {
		var a Account
		if err := rows.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.FirstName, &a.LastName, &a.CreatedAt, &a.IsActive); err != nil {
			return nil, fmt.Errorf("error scanning account row: %w", err)
		}
		accounts = append(accounts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

func (s *PostgresStore) DeleteAll(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM users`); err != nil {
		return fmt.Errorf("error deleting accounts: %w", err)
	}
	return nil
}
