package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/frahmantamala/project-management/internal/auth"
	"github.com/frahmantamala/project-management/internal/user"
	"github.com/jackc/pgx/v5"
)

// Querier is satisfied by *pgxpool.Pool, pgx.Tx and pgxmock pools.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const userColumns = `id, email, first_name, last_name, role, manager_id, department_id, team_id, status, created_at`

const (
	findUserByIDQuery = `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	listDirectReportsQuery = `SELECT ` + userColumns + ` FROM users
WHERE manager_id = $1 AND status = $2
ORDER BY first_name ASC`

	listReportsOfQuery = `SELECT ` + userColumns + ` FROM users
WHERE manager_id = ANY($1) AND status = $2
ORDER BY first_name ASC`
)

type Repository struct {
	db Querier
}

func NewRepository(db Querier) *Repository {
	return &Repository{db: db}
}

func (r *Repository) FindByID(ctx context.Context, id string) (*user.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, findUserByIDQuery, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("find user %s: %w", id, err)
	}
	return u, nil
}

func (r *Repository) ListDirectReports(ctx context.Context, managerID string) ([]*user.User, error) {
	return r.list(ctx, listDirectReportsQuery, managerID, string(user.StatusActive))
}

func (r *Repository) ListReportsOf(ctx context.Context, managerIDs []string) ([]*user.User, error) {
	if len(managerIDs) == 0 {
		return []*user.User{}, nil
	}
	return r.list(ctx, listReportsOfQuery, managerIDs, string(user.StatusActive))
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]*user.User, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]*user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

func scanUser(row pgx.Row) (*user.User, error) {
	var (
		u      user.User
		role   string
		status string
	)
	if err := row.Scan(
		&u.ID,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&role,
		&u.ManagerID,
		&u.DepartmentID,
		&u.TeamID,
		&status,
		&u.CreatedAt,
	); err != nil {
		return nil, err
	}
	u.Role = auth.Role(role)
	u.Status = user.Status(status)
	return &u, nil
}
