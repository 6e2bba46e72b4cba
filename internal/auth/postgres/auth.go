package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/frahmantamala/customer-onboarding/internal/auth"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

// GetCredentials loads the stored login material for a username or email.
func (r *Repository) GetCredentials(identifier string) (*auth.Credentials, error) {
	var creds auth.Credentials
	query := `SELECT id, password_hash, is_active FROM users WHERE username = ? OR email = ?`

	row := r.db.Raw(query, identifier, identifier).Row()
	if err := row.Scan(&creds.UserID, &creds.PasswordHash, &creds.IsActive); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user not found")
		}
		return nil, err
	}
	return &creds, nil
}

func (r *Repository) GetUserWithPermissions(userID int64) (*auth.User, error) {
	var user auth.User

	query := `SELECT id, username, email FROM users WHERE id = ? AND is_active = true`

	row := r.db.Raw(query, userID).Row()
	if err := row.Scan(&user.ID, &user.Username, &user.Email); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user not found")
		}
		return nil, err
	}

	permissions, err := r.PermissionsForUser(context.Background(), userID)
	if err != nil {
		return nil, err
	}

	user.Permissions = permissions
	return &user, nil
}

// PermissionsForUser reads the union of permission keys across the user's
// active roles. Queried fresh on every call so assignment edits are visible
// on the next check.
func (r *Repository) PermissionsForUser(ctx context.Context, userID int64) ([]string, error) {
	permQuery := `SELECT DISTINCT p.key
	             FROM permissions p
	             JOIN role_permissions rp ON rp.permission_id = p.id
	             JOIN roles ro ON ro.id = rp.role_id AND ro.is_active = true
	             JOIN user_roles ur ON ur.role_id = ro.id
	             WHERE ur.user_id = ?`

	rows, err := r.db.WithContext(ctx).Raw(permQuery, userID).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var permissions []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		permissions = append(permissions, key)
	}

	return permissions, rows.Err()
}

func (r *Repository) TouchLastLogin(userID int64, at time.Time) error {
	return r.db.Exec(`UPDATE users SET last_login_at = ?, updated_at = ? WHERE id = ?`, at, at, userID).Error
}
