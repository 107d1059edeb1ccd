package repo

import (
	"context"
	"fmt"

	"github.com/ihuusa2/ihu-usa-sub002/internal/domain"
	"github.com/ihuusa2/ihu-usa-sub002/internal/infra"
	"github.com/ihuusa2/ihu-usa-sub002/internal/sqlinline"
)

// UserRepositoryPG implements domain.UserRepository on PostgreSQL.
type UserRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewUserRepository constructs a UserRepositoryPG.
func NewUserRepository(sql infra.SQLExecutor) *UserRepositoryPG {
	return &UserRepositoryPG{sql: sql}
}

func (r *UserRepositoryPG) Create(ctx context.Context, u *domain.User) error {
	row := r.sql.QueryRow(ctx, sqlinline.QInsertUser,
		u.Name, u.Email, string(u.Role), u.Phone, u.Address, u.ImageURL, u.RegistrationNumber,
		deref(u.TeamTypeID), deref(u.PasswordHash))
	if err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if infra.IsUniqueViolation(err) {
			return fmt.Errorf("%w: email %s already registered", domain.ErrConflict, u.Email)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepositoryPG) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getOne(ctx, sqlinline.QSelectUserByID, id)
}

func (r *UserRepositoryPG) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getOne(ctx, sqlinline.QSelectUserByEmail, email)
}

func (r *UserRepositoryPG) getOne(ctx context.Context, query, arg string) (*domain.User, error) {
	u, err := scanUser(r.sql.QueryRow(ctx, query, arg))
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepositoryPG) List(ctx context.Context, params domain.ListParams) ([]domain.User, int, error) {
	params = params.Normalize()
	var total int
	if err := r.sql.QueryRow(ctx, sqlinline.QCountUsers).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	items, err := r.queryUsers(ctx, sqlinline.QListUsers, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *UserRepositoryPG) ListTeamMembers(ctx context.Context) ([]domain.User, error) {
	return r.queryUsers(ctx, sqlinline.QListTeamMembers)
}

func (r *UserRepositoryPG) queryUsers(ctx context.Context, query string, args ...any) ([]domain.User, error) {
	rows, err := r.sql.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()
	items := make([]domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *u)
	}
	return items, rows.Err()
}

func (r *UserRepositoryPG) Update(ctx context.Context, u *domain.User) error {
	row := r.sql.QueryRow(ctx, sqlinline.QUpdateUser,
		u.ID, u.Name, u.Email, string(u.Role), u.Phone, u.Address, u.ImageURL, u.RegistrationNumber,
		deref(u.TeamTypeID))
	err := row.Scan(&u.UpdatedAt)
	if err == nil {
		return nil
	}
	if infra.IsUniqueViolation(err) {
		return fmt.Errorf("%w: email %s already registered", domain.ErrConflict, u.Email)
	}
	if !infra.IsNoRows(err) {
		return fmt.Errorf("update user: %w", err)
	}
	return r.guardFailure(ctx, u.ID)
}

func (r *UserRepositoryPG) SetPassword(ctx context.Context, id, passwordHash string) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QSetUserPassword, id, passwordHash)
	if err != nil {
		return fmt.Errorf("set password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UserRepositoryPG) Delete(ctx context.Context, id string) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QDeleteUser, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	return r.guardFailure(ctx, id)
}

// guardFailure explains why a guarded update or delete touched no row: the
// user is missing, or it is the last Admin.
func (r *UserRepositoryPG) guardFailure(ctx context.Context, id string) error {
	var exists bool
	if err := r.sql.QueryRow(ctx, sqlinline.QUserExists, id).Scan(&exists); err != nil {
		return fmt.Errorf("check user: %w", err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	return domain.ErrLastAdmin
}

func scanUser(row scanner) (*domain.User, error) {
	var u domain.User
	var role string
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &role, &u.Phone, &u.Address, &u.ImageURL,
		&u.RegistrationNumber, &u.TeamTypeID, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Role = domain.UserRole(role)
	return &u, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var _ domain.UserRepository = (*UserRepositoryPG)(nil)
