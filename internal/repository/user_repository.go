package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/lawfirm-bo-api/internal/models"
)

const userColumns = `uid, email, password_hash, role, biz_num, company_name, manager_name, department, plan,
       advisory_used_count, phone_used_count, active, last_login, created_at, updated_at`

// UserRepository provides database access for accounts, usage counters,
// refresh tokens, and audit logs.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByEmail returns a user by email address.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return &user, nil
}

// FindByUID returns a user by identifier.
func (r *UserRepository) FindByUID(ctx context.Context, uid string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE uid = $1 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, uid); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find user by uid: %w", err)
	}
	return &user, nil
}

// FindOwnerByBizNum returns the owner (CEO) account of a tenant company.
func (r *UserRepository) FindOwnerByBizNum(ctx context.Context, bizNum string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE biz_num = $1 AND role = $2 LIMIT 1`
	var user models.User
	if err := r.db.GetContext(ctx, &user, query, bizNum, models.RoleOwner); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find owner by biz_num: %w", err)
	}
	return &user, nil
}

// ListByBizNum returns all accounts of a tenant company, owner first.
func (r *UserRepository) ListByBizNum(ctx context.Context, bizNum string) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE biz_num = $1
	ORDER BY CASE WHEN role = 'owner' THEN 0 ELSE 1 END, created_at ASC`
	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query, bizNum); err != nil {
		return nil, fmt.Errorf("list users by biz_num: %w", err)
	}
	return users, nil
}

// List returns accounts matching the filter with a total count for
// pagination.
func (r *UserRepository) List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error) {
	baseQuery := `FROM users WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.BizNum != "" {
		conditions = append(conditions, fmt.Sprintf("biz_num = $%d", len(args)+1))
		args = append(args, filter.BizNum)
	}
	if filter.Role != nil {
		conditions = append(conditions, fmt.Sprintf("role = $%d", len(args)+1))
		args = append(args, *filter.Role)
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(email) LIKE $%d OR LOWER(company_name) LIKE $%d OR LOWER(manager_name) LIKE $%d)", len(args)+1, len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	sortBy := filter.SortBy
	if sortBy == "" {
		sortBy = "created_at"
	}
	allowedSorts := map[string]bool{
		"email":        true,
		"created_at":   true,
		"updated_at":   true,
		"company_name": true,
		"manager_name": true,
	}
	if !allowedSorts[sortBy] {
		sortBy = "created_at"
	}

	sortOrder := strings.ToUpper(filter.SortOrder)
	if sortOrder != "ASC" && sortOrder != "DESC" {
		sortOrder = "DESC"
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d", userColumns, baseQuery, sortBy, sortOrder, pageSize, offset)

	var users []models.User
	if err := r.db.SelectContext(ctx, &users, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	var total int
	countQuery := "SELECT COUNT(*) " + baseQuery
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	return users, total, nil
}

// allowed column targets for UpdateFields; anything else is rejected.
var updatableUserColumns = map[string]bool{
	"department":   true,
	"role":         true,
	"manager_name": true,
	"plan":         true,
	"active":       true,
}

// UpdateFields applies a partial column update to an account.
func (r *UserRepository) UpdateFields(ctx context.Context, uid string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	setParts := make([]string, 0, len(fields)+1)
	args := make([]interface{}, 0, len(fields)+2)
	args = append(args, uid)
	for column, value := range fields {
		if !updatableUserColumns[column] {
			return fmt.Errorf("update users: column %q not updatable", column)
		}
		args = append(args, value)
		setParts = append(setParts, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	args = append(args, time.Now().UTC())
	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", len(args)))

	query := fmt.Sprintf("UPDATE users SET %s WHERE uid = $1", strings.Join(setParts, ", "))
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update user fields: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check user update rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// IncrementUsage atomically adds one to the named usage counter.
func (r *UserRepository) IncrementUsage(ctx context.Context, uid string, kind models.CounterKind) error {
	column, err := counterColumn(kind)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`UPDATE users SET %s = %s + 1, updated_at = $2 WHERE uid = $1`, column, column)
	if _, err := r.db.ExecContext(ctx, query, uid, time.Now().UTC()); err != nil {
		return fmt.Errorf("increment %s usage: %w", kind, err)
	}
	return nil
}

// DecrementUsage atomically subtracts one from the named usage counter,
// never going below zero.
func (r *UserRepository) DecrementUsage(ctx context.Context, uid string, kind models.CounterKind) error {
	column, err := counterColumn(kind)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`UPDATE users SET %s = GREATEST(0, %s - 1), updated_at = $2 WHERE uid = $1`, column, column)
	if _, err := r.db.ExecContext(ctx, query, uid, time.Now().UTC()); err != nil {
		return fmt.Errorf("decrement %s usage: %w", kind, err)
	}
	return nil
}

func counterColumn(kind models.CounterKind) (string, error) {
	switch kind {
	case models.CounterAdvisory:
		return "advisory_used_count", nil
	case models.CounterPhone:
		return "phone_used_count", nil
	default:
		return "", fmt.Errorf("unknown counter kind: %s", kind)
	}
}

// UpdateLastLogin updates the last_login timestamp for a user.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, uid string, ts time.Time) error {
	const query = `UPDATE users SET last_login = $2, updated_at = $3 WHERE uid = $1`
	if _, err := r.db.ExecContext(ctx, query, uid, ts, ts); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

// UpdatePassword updates the stored password hash.
func (r *UserRepository) UpdatePassword(ctx context.Context, uid, passwordHash string, updatedAt time.Time) error {
	const query = `UPDATE users SET password_hash = $2, updated_at = $3 WHERE uid = $1`
	if _, err := r.db.ExecContext(ctx, query, uid, passwordHash, updatedAt); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// CreateRefreshToken persists a refresh token session.
func (r *UserRepository) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	if token.ID == "" {
		token.ID = uuid.NewString()
	}
	const query = `INSERT INTO refresh_tokens (id, user_uid, token, expires_at, created_at, revoked, ip_address, user_agent)
	VALUES (:id, :user_uid, :token, :expires_at, :created_at, :revoked, :ip_address, :user_agent)`
	if _, err := r.db.NamedExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("create refresh token: %w", err)
	}
	return nil
}

// FindRefreshToken loads a refresh token by its opaque value.
func (r *UserRepository) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	const query = `SELECT id, user_uid, token, expires_at, created_at, revoked, revoked_at, ip_address, user_agent
	FROM refresh_tokens WHERE token = $1 LIMIT 1`
	var stored models.RefreshToken
	if err := r.db.GetContext(ctx, &stored, query, token); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find refresh token: %w", err)
	}
	return &stored, nil
}

// RevokeRefreshToken marks a refresh token as revoked.
func (r *UserRepository) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	const query = `UPDATE refresh_tokens SET revoked = TRUE, revoked_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, revokedAt); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// RevokeUserRefreshTokens revokes every active session of a user.
func (r *UserRepository) RevokeUserRefreshTokens(ctx context.Context, userUID string) error {
	const query = `UPDATE refresh_tokens SET revoked = TRUE, revoked_at = $2 WHERE user_uid = $1 AND revoked = FALSE`
	if _, err := r.db.ExecContext(ctx, query, userUID, time.Now().UTC()); err != nil {
		return fmt.Errorf("revoke user refresh tokens: %w", err)
	}
	return nil
}

// CreateAuditLog stores an audit trail record.
func (r *UserRepository) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO audit_logs (id, user_uid, action, resource, resource_id, old_values, new_values, ip_address, user_agent, created_at)
	VALUES (:id, :user_uid, :action, :resource, :resource_id, :old_values, :new_values, :ip_address, :user_agent, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, log); err != nil {
		return fmt.Errorf("create audit log: %w", err)
	}
	return nil
}
