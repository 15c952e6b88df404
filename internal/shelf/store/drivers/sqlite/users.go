package sqlite

import (
	"context"
	"time"

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
	return r.scanOne(ctx, selectUser+` WHERE u.id = ?`, id)
}

func (r *usersRepo) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	return r.scanOne(ctx, selectUser+` WHERE u.email = ?`, email)
}

func (r *usersRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.q.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = ?)`, email).Scan(&exists)
	return exists, err
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) (domain.User, error) {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	err := r.q.QueryRowContext(ctx,
		`INSERT INTO users (email, password_hash, role_id, created_at) VALUES (?, ?, ?, ?) RETURNING id`,
		u.Email, u.PasswordHash, u.RoleID, toMillis(u.CreatedAt),
	).Scan(&u.ID)
	if err != nil {
		return domain.User{}, mapConstraint(err)
	}
	u.CreatedAt = fromMillis(toMillis(u.CreatedAt))
	return u, nil
}

func (r *usersRepo) scanOne(ctx context.Context, query string, args ...any) (domain.User, error) {
	var (
		u       domain.User
		created int64
	)
	err := r.q.QueryRowContext(ctx, query, args...).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.RoleID, &u.Role, &created)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	u.CreatedAt = fromMillis(created)
	return u, nil
}
