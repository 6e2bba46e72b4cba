package user

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/customer-onboarding/internal/core/pagination"
)

type Repository interface {
	GetByID(userID int64) (*User, error)
	GetPermissions(userID int64) ([]string, error)
	GetRoles(userID int64) ([]Role, error)
	ListUsers(params pagination.Params) ([]User, int64, error)
	ListRoles() ([]Role, error)
	ListPermissions() ([]Permission, error)
	AssignRole(userID, roleID int64) error
	RevokeRole(userID, roleID int64) error
	GrantPermission(roleID, permissionID int64) error
	RevokePermission(roleID, permissionID int64) error
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// GetByID loads a user with roles and the effective permission set.
func (s *Service) GetByID(userID int64) (*User, error) {
	u, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	roles, err := s.repo.GetRoles(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user roles: %w", err)
	}
	u.Roles = roles

	perms, err := s.repo.GetPermissions(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user permissions: %w", err)
	}
	u.Permissions = perms

	return u, nil
}

func (s *Service) GetPermissions(userID int64) ([]string, error) {
	return s.repo.GetPermissions(userID)
}

func (s *Service) ListUsers(params pagination.Params) (*pagination.Result[User], error) {
	params = params.Normalize()

	users, total, err := s.repo.ListUsers(params)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	result := pagination.NewResult(users, params, total)
	return &result, nil
}

func (s *Service) ListRoles() ([]Role, error) {
	roles, err := s.repo.ListRoles()
	if err != nil {
		return nil, fmt.Errorf("failed to list roles: %w", err)
	}
	return roles, nil
}

func (s *Service) ListPermissions() ([]Permission, error) {
	perms, err := s.repo.ListPermissions()
	if err != nil {
		return nil, fmt.Errorf("failed to list permissions: %w", err)
	}
	return perms, nil
}

// AssignRole links a role to a user. Assigning an already held role is a
// no-op, so the operation is safe to retry.
func (s *Service) AssignRole(userID, roleID int64) error {
	if _, err := s.repo.GetByID(userID); err != nil {
		return err
	}

	if err := s.repo.AssignRole(userID, roleID); err != nil {
		return fmt.Errorf("failed to assign role %d to user %d: %w", roleID, userID, err)
	}

	s.logger.Info("role assigned", "user_id", userID, "role_id", roleID)
	return nil
}

// RevokeRole unlinks a role from a user. Revoking a role the user does not
// hold is a no-op.
func (s *Service) RevokeRole(userID, roleID int64) error {
	if _, err := s.repo.GetByID(userID); err != nil {
		return err
	}

	if err := s.repo.RevokeRole(userID, roleID); err != nil {
		return fmt.Errorf("failed to revoke role %d from user %d: %w", roleID, userID, err)
	}

	s.logger.Info("role revoked", "user_id", userID, "role_id", roleID)
	return nil
}

// GrantPermission links a permission key to a role, idempotently. The edit
// takes effect on the next permission check of every user holding the role;
// nothing is cached.
func (s *Service) GrantPermission(roleID, permissionID int64) error {
	if err := s.repo.GrantPermission(roleID, permissionID); err != nil {
		if errors.Is(err, ErrRoleNotFound) || errors.Is(err, ErrPermissionNotFound) {
			return err
		}
		return fmt.Errorf("failed to grant permission %d to role %d: %w", permissionID, roleID, err)
	}

	s.logger.Info("permission granted", "role_id", roleID, "permission_id", permissionID)
	return nil
}

func (s *Service) RevokePermission(roleID, permissionID int64) error {
	if err := s.repo.RevokePermission(roleID, permissionID); err != nil {
		return fmt.Errorf("failed to revoke permission %d from role %d: %w", permissionID, roleID, err)
	}

	s.logger.Info("permission revoked", "role_id", roleID, "permission_id", permissionID)
	return nil
}
