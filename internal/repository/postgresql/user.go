package postgresql

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/reporthub/reporthub-backend-go/internal/domain/user"
	"github.com/reporthub/reporthub-backend-go/internal/pkg/database"
)

const userColumns = `id, email, name, password_hash, role, department, admin_request,
	   oauth_provider, oauth_provider_id, reset_password_token, reset_password_expire,
	   created_at, updated_at`

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Name,
		&u.PasswordHash,
		&u.Role,
		&u.Department,
		&u.AdminRequest,
		&u.OAuthProvider,
		&u.OAuthProviderID,
		&u.ResetPasswordToken,
		&u.ResetPasswordExpire,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return user.User{}, user.ErrUserNotFound
	}
	if err != nil {
		return user.User{}, err
	}
	return u, nil
}

func collectUsers(rows pgx.Rows) ([]user.User, error) {
	defer rows.Close()
	var users []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// GetByEmail implements user.UserRepository.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(q.QueryRow(ctx, query, email))
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(q.QueryRow(ctx, query, id))
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	if newUser.ID == "" {
		newUser.ID = uuid.New().String()
	}
	if newUser.AdminRequest == "" {
		newUser.AdminRequest = user.AdminRequestNone
	}

	query := `
		INSERT INTO users (id, email, name, password_hash, role, department, admin_request,
						   oauth_provider, oauth_provider_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + userColumns

	created, err := scanUser(q.QueryRow(ctx, query,
		newUser.ID,
		newUser.Email,
		newUser.Name,
		newUser.PasswordHash,
		newUser.Role,
		newUser.Department,
		newUser.AdminRequest,
		newUser.OAuthProvider,
		newUser.OAuthProviderID,
	))
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return user.User{}, user.ErrUserEmailExists
	}
	return created, err
}

// ExistsByEmail implements user.UserRepository.
func (r *userRepositoryImpl) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// List implements user.UserRepository.
func (r *userRepositoryImpl) List(ctx context.Context) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	return collectUsers(rows)
}

// ListAdminsForDepartment implements user.UserRepository. Department matching
// honors the General fallback for admins with no department set.
func (r *userRepositoryImpl) ListAdminsForDepartment(ctx context.Context, department string) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE role = $1 AND (department = $2 OR (department = '' AND $2 = $3))
	`
	rows, err := q.Query(ctx, query, user.RoleAdmin, department, user.DefaultDepartment)
	if err != nil {
		return nil, err
	}
	return collectUsers(rows)
}

// ListByAdminRequest implements user.UserRepository.
func (r *userRepositoryImpl) ListByAdminRequest(ctx context.Context, state user.AdminRequestState) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+userColumns+` FROM users WHERE admin_request = $1 ORDER BY created_at`, state)
	if err != nil {
		return nil, err
	}
	return collectUsers(rows)
}

// ListIDs implements user.UserRepository.
func (r *userRepositoryImpl) ListIDs(ctx context.Context) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT id FROM users`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CountByRole implements user.UserRepository.
func (r *userRepositoryImpl) CountByRole(ctx context.Context, role user.Role) (int, error) {
	q := GetQuerier(ctx, r.db)

	var count int
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role = $1`, role).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// UpdateRole implements user.UserRepository.
func (r *userRepositoryImpl) UpdateRole(ctx context.Context, id string, role user.Role, department *string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users
		SET role = $1, department = COALESCE($2, department), updated_at = NOW()
		WHERE id = $3
	`
	tag, err := q.Exec(ctx, query, role, department, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// UpdateAdminRequest implements user.UserRepository.
func (r *userRepositoryImpl) UpdateAdminRequest(ctx context.Context, id string, state user.AdminRequestState, role *user.Role) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users
		SET admin_request = $1, role = COALESCE($2, role), updated_at = NOW()
		WHERE id = $3
	`
	tag, err := q.Exec(ctx, query, state, role, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// SetResetToken implements user.UserRepository.
func (r *userRepositoryImpl) SetResetToken(ctx context.Context, id string, tokenHash string, expiresAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users
		SET reset_password_token = $1, reset_password_expire = $2, updated_at = NOW()
		WHERE id = $3
	`
	tag, err := q.Exec(ctx, query, tokenHash, expiresAt, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// GetByResetToken implements user.UserRepository.
func (r *userRepositoryImpl) GetByResetToken(ctx context.Context, tokenHash string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users WHERE reset_password_token = $1`
	return scanUser(q.QueryRow(ctx, query, tokenHash))
}

// UpdatePassword implements user.UserRepository. The reset token is cleared in
// the same statement so it cannot be replayed.
func (r *userRepositoryImpl) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users
		SET password_hash = $1, reset_password_token = NULL, reset_password_expire = NULL,
			updated_at = NOW()
		WHERE id = $2
	`
	tag, err := q.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}
