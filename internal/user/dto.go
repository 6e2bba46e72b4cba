package user

import "fmt"

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

type AssignRoleDTO struct {
	RoleID int64 `json:"role_id"`
}

func (d AssignRoleDTO) Validate() error {
	if d.RoleID <= 0 {
		return ValidationError{Field: "role_id", Message: "must be a positive id"}
	}
	return nil
}

type GrantPermissionDTO struct {
	PermissionID int64 `json:"permission_id"`
}

func (d GrantPermissionDTO) Validate() error {
	if d.PermissionID <= 0 {
		return ValidationError{Field: "permission_id", Message: "must be a positive id"}
	}
	return nil
}
