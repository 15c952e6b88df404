package postgres

import (
	"context"

	"github.com/aussiebroadwan/shelf/internal/shelf/domain"
)

type rolesRepo struct {
	q querier
}

func (r *rolesRepo) GetRoleByName(ctx context.Context, name string) (domain.Role, error) {
	const op = "postgres.GetRoleByName"

	var role domain.Role
	err := r.q.QueryRowContext(ctx, `SELECT id, name, created_at FROM roles WHERE name = $1`, name).
		Scan(&role.ID, &role.Name, &role.CreatedAt)
	if err != nil {
		return domain.Role{}, wrap(op, err)
	}
	role.CreatedAt = role.CreatedAt.UTC()
	return role, nil
}
