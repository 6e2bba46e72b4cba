package postgres

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	userDatamodel "github.com/frahmantamala/customer-onboarding/internal/core/datamodel/user"
	"github.com/frahmantamala/customer-onboarding/internal/core/pagination"
	"github.com/frahmantamala/customer-onboarding/internal/user"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetByID(userID int64) (*user.User, error) {
	var dm userDatamodel.User
	if err := r.db.First(&dm, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user.FromDataModel(&dm), nil
}

func (r *Repository) GetPermissions(userID int64) ([]string, error) {
	var keys []string
	err := r.db.Raw(`
		SELECT DISTINCT p.key
		FROM permissions p
		JOIN role_permissions rp ON rp.permission_id = p.id
		JOIN roles ro ON ro.id = rp.role_id AND ro.is_active = true
		JOIN user_roles ur ON ur.role_id = ro.id
		WHERE ur.user_id = ?`, userID).Scan(&keys).Error
	if err != nil {
		return nil, fmt.Errorf("get permissions: %w", err)
	}
	return keys, nil
}

func (r *Repository) GetRoles(userID int64) ([]user.Role, error) {
	var dms []userDatamodel.Role
	err := r.db.Raw(`
		SELECT ro.id, ro.name, ro.description, ro.is_active
		FROM roles ro
		JOIN user_roles ur ON ur.role_id = ro.id
		WHERE ur.user_id = ?
		ORDER BY ro.name`, userID).Scan(&dms).Error
	if err != nil {
		return nil, fmt.Errorf("get roles: %w", err)
	}

	roles := make([]user.Role, len(dms))
	for i := range dms {
		roles[i] = user.RoleFromDataModel(&dms[i])
	}
	return roles, nil
}

// allowed sort columns for user listing
var userSortColumns = map[string]string{
	"username":   "username",
	"email":      "email",
	"created_at": "created_at",
}

func (r *Repository) ListUsers(params pagination.Params) ([]user.User, int64, error) {
	query := r.db.Model(&userDatamodel.User{})

	if params.SearchTerm != "" {
		term := "%" + params.SearchTerm + "%"
		query = query.Where("username ILIKE ? OR email ILIKE ?", term, term)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	orderBy := "created_at DESC"
	if col, ok := userSortColumns[params.SortBy]; ok {
		orderBy = col
		if params.SortDescending {
			orderBy += " DESC"
		}
	}

	var dms []userDatamodel.User
	err := query.Order(orderBy).
		Limit(params.PageSize).
		Offset(params.Offset()).
		Find(&dms).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	users := make([]user.User, len(dms))
	for i := range dms {
		users[i] = *user.FromDataModel(&dms[i])
	}
	return users, total, nil
}

func (r *Repository) ListRoles() ([]user.Role, error) {
	var dms []userDatamodel.Role
	if err := r.db.Order("name").Find(&dms).Error; err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}

	roles := make([]user.Role, len(dms))
	for i := range dms {
		roles[i] = user.RoleFromDataModel(&dms[i])
	}
	return roles, nil
}

func (r *Repository) ListPermissions() ([]user.Permission, error) {
	var dms []userDatamodel.Permission
	if err := r.db.Order("key").Find(&dms).Error; err != nil {
		return nil, fmt.Errorf("list permissions: %w", err)
	}

	perms := make([]user.Permission, len(dms))
	for i := range dms {
		perms[i] = user.PermissionFromDataModel(&dms[i])
	}
	return perms, nil
}

// AssignRole inserts the linking tuple; a duplicate assignment is ignored so
// the call is idempotent.
func (r *Repository) AssignRole(userID, roleID int64) error {
	var role userDatamodel.Role
	if err := r.db.First(&role, roleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.ErrRoleNotFound
		}
		return fmt.Errorf("check role: %w", err)
	}

	link := userDatamodel.UserRole{UserID: userID, RoleID: roleID}
	err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
	if err != nil {
		return fmt.Errorf("assign role: %w", err)
	}
	return nil
}

func (r *Repository) RevokeRole(userID, roleID int64) error {
	err := r.db.Where("user_id = ? AND role_id = ?", userID, roleID).
		Delete(&userDatamodel.UserRole{}).Error
	if err != nil {
		return fmt.Errorf("revoke role: %w", err)
	}
	return nil
}

// GrantPermission inserts the linking tuple idempotently. Every user holding
// the role sees the new key on their next permission check.
func (r *Repository) GrantPermission(roleID, permissionID int64) error {
	var role userDatamodel.Role
	if err := r.db.First(&role, roleID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.ErrRoleNotFound
		}
		return fmt.Errorf("check role: %w", err)
	}

	var perm userDatamodel.Permission
	if err := r.db.First(&perm, permissionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.ErrPermissionNotFound
		}
		return fmt.Errorf("check permission: %w", err)
	}

	link := userDatamodel.RolePermission{RoleID: roleID, PermissionID: permissionID}
	err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
	if err != nil {
		return fmt.Errorf("grant permission: %w", err)
	}
	return nil
}

func (r *Repository) RevokePermission(roleID, permissionID int64) error {
	err := r.db.Where("role_id = ? AND permission_id = ?", roleID, permissionID).
		Delete(&userDatamodel.RolePermission{}).Error
	if err != nil {
		return fmt.Errorf("revoke permission: %w", err)
	}
	return nil
}
