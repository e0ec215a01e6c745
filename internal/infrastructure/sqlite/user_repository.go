package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación de UserRepository sobre SQLite.
type UserRepo struct {
	db DBTX
}

// NewUserRepository construye el adaptador de usuarios.
func NewUserRepository(db DBTX) *UserRepo {
	return &UserRepo{db: db}
}

const userSelect = `SELECT id, name, email, password_hash, last_login_at, created_at, updated_at FROM users`

// Create persiste un nuevo usuario.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Email, u.PasswordHash, utc(u.CreatedAt), utc(u.UpdatedAt),
	); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepo) getOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	var row userRow
	if err := sqlx.GetContext(ctx, r.db, &row, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return row.entity(), nil
}

// GetByID obtiene un usuario por ID.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, userSelect+` WHERE id = ?`, id)
}

// GetByEmail obtiene un usuario por email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, userSelect+` WHERE email = ?`, email)
}

// TouchLastLogin registra la fecha del último login.
func (r *UserRepo) TouchLastLogin(ctx context.Context, id string, at time.Time) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE users SET last_login_at = ? WHERE id = ?`, utc(at), id); err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	return nil
}
