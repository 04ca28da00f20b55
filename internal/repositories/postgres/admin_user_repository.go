package postgres

import (
	"context"
	"database/sql"

	"github.com/ArowuTest/valera-classroom/internal/models"
	"github.com/ArowuTest/valera-classroom/internal/repositories"
)

var _ repositories.AdminUserRepository = (*AdminUserRepository)(nil)

// AdminUserRepository stores admin accounts in PostgreSQL.
type AdminUserRepository struct {
	db *sql.DB
}

func NewAdminUserRepository(db *sql.DB) *AdminUserRepository {
	return &AdminUserRepository{db: db}
}

func scanAdmin(row scanner) (*models.AdminUser, error) {
	var u models.AdminUser
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsAdmin, &u.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &u, nil
}

func (r *AdminUserRepository) Create(ctx context.Context, user *models.AdminUser) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO admin_users (username, password_hash, is_admin) VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, user.Username, user.PasswordHash, user.IsAdmin).Scan(&user.ID, &user.CreatedAt)
	return mapErr(err)
}

func (r *AdminUserRepository) FindByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	return scanAdmin(r.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, is_admin, created_at
		FROM admin_users WHERE username = $1
	`, username))
}

func (r *AdminUserRepository) FindByID(ctx context.Context, id int64) (*models.AdminUser, error) {
	return scanAdmin(r.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, is_admin, created_at
		FROM admin_users WHERE id = $1
	`, id))
}

func (r *AdminUserRepository) Update(ctx context.Context, user *models.AdminUser) error {
	return checkAffected(r.db.ExecContext(ctx,
		`UPDATE admin_users SET password_hash = $2, is_admin = $3 WHERE id = $1`,
		user.ID, user.PasswordHash, user.IsAdmin))
}
