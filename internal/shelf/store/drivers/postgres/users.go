package postgres

import (
	"context"

	"github.com/aussiebroadwan/shelf/internal/shelf/domain"
)

type usersRepo struct {
	q querier
}

const selectUser = `
SELECT u.id, u.email, u.password_hash, u.role_id, r.name, u.created_at
FROM users u
JOIN roles r ON r.id = u.role_id`

func (r *usersRepo) GetUserByID(ctx context.Context, id int64) (domain.User, error) {
	const op = "postgres.GetUserByID"
	return r.scanOne(ctx, op, selectUser+` WHERE u.id = $1`, id)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	const op = "postgres.GetUserByEmail"
	return r.scanOne(ctx, op, selectUser+` WHERE u.email = $1`, email)
}

func (r *usersRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	const op = "postgres.ExistsByEmail"

	var exists bool
	err := r.q.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, wrap(op, err)
	}
	return exists, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	const op = "postgres.CreateUser"

	err := r.q.QueryRowContext(ctx,
		`INSERT INTO users (email, password_hash, role_id) VALUES ($1, $2, $3) RETURNING id, created_at`,
		u.Email, u.PasswordHash, u.RoleID,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		return domain.User{}, wrap(op, err)
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return u, nil
}

func (r *usersRepo) scanOne(ctx context.Context, op, query string, args ...any) (domain.User, error) {
	var u domain.User
	err := r.q.QueryRowContext(ctx, query, args...).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.RoleID, &u.Role, &u.CreatedAt)
	if err != nil {
		return domain.User{}, wrap(op, err)
	}
	u.CreatedAt = u.CreatedAt.UTC()
	return u, nil
}
