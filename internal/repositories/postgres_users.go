package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/AnshRaj112/bookswap-backend/internal/metrics"
	"github.com/AnshRaj112/bookswap-backend/internal/models"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

type PostgresUserStore struct {
	db *sql.DB
}

func NewPostgresUserStore(db *sql.DB) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

const userColumns = `id, name, email, password, mobile, role, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u    models.User
		id   uuid.UUID
		role string
	)
	if err := row.Scan(&id, &u.Name, &u.Email, &u.PasswordHash, &u.Mobile, &role, &u.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	u.ID = id.String()
	u.Role = models.Role(role)
	return &u, nil
}

func (s *PostgresUserStore) Create(ctx context.Context, u *models.User) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	defer metrics.ObserveStore(usersCollection, "insert", time.Now())

	id := uuid.New()
	now := time.Now().UTC()
	email := NormalizeEmail(u.Email)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, name, email, password, mobile, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, id, u.Name, email, u.PasswordHash, u.Mobile, string(u.Role), now)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateEmail
		}
		return err
	}
	u.ID = id.String()
	u.Email = email
	u.CreatedAt = now
	return nil
}

func (s *PostgresUserStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	defer metrics.ObserveStore(usersCollection, "find_one", time.Now())

	return scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, uid))
}

func (s *PostgresUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()
	defer metrics.ObserveStore(usersCollection, "find_one", time.Now())

	return scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, NormalizeEmail(email)))
}

func (s *PostgresUserStore) FindByIDs(ctx context.Context, ids []string) (map[string]*models.User, error) {
	valid := make([]string, 0, len(ids))
	for _, id := range ids {
		if uid, err := uuid.Parse(id); err == nil {
			valid = append(valid, uid.String())
		}
	}
	out := make(map[string]*models.User, len(valid))
	if len(valid) == 0 {
		return out, nil
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()
	defer metrics.ObserveStore(usersCollection, "find_many", time.Now())

	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ANY($1::uuid[])`, pq.Array(valid))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out[u.ID] = u
	}
	return out, rows.Err()
}

func (s *PostgresUserStore) Update(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	email := ""
	if upd.Email != "" {
		email = NormalizeEmail(upd.Email)
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()
	defer metrics.ObserveStore(usersCollection, "update", time.Now())

	u, err := scanUser(s.db.QueryRowContext(ctx, `
		UPDATE users SET
			name = COALESCE(NULLIF($2, ''), name),
			email = COALESCE(NULLIF($3, ''), email),
			mobile = COALESCE(NULLIF($4, ''), mobile)
		WHERE id = $1
		RETURNING `+userColumns, uid, upd.Name, email, upd.Mobile))
	if err != nil && isUniqueViolation(err) {
		return nil, ErrDuplicateEmail
	}
	return u, err
}
