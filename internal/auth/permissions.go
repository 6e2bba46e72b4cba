package auth

import (
	"context"
	"log/slog"
)

// Builtin permission keys consumed by route declarations.
const (
	PermCustomerRead   = "customer.read"
	PermCustomerWrite  = "customer.write"
	PermCustomerReview = "customer.review"
	PermAccountRead    = "account.read"
	PermAccountWrite   = "account.write"
	PermUserManage     = "user.manage"
)

// BuiltinPermissions seeds the permission table.
var BuiltinPermissions = map[string]string{
	PermCustomerRead:   "List and inspect customer records",
	PermCustomerWrite:  "Submit new customer onboarding requests",
	PermCustomerReview: "Approve or reject submitted customers",
	PermAccountRead:    "List and inspect accounts",
	PermAccountWrite:   "Open accounts for existing customers",
	PermUserManage:     "Administer users, roles and permission assignments",
}

// PermissionSource yields the current permission keys for an identity.
type PermissionSource interface {
	PermissionsForUser(ctx context.Context, userID int64) ([]string, error)
}

// Resolver computes the effective permission set: the union of permission
// keys across every active role assigned to the identity. The set is
// recomputed from assignment data on each check, so a role or permission
// edit is visible on the very next check with no stale-privilege window.
type Resolver struct {
	source PermissionSource
	logger *slog.Logger
}

func NewResolver(source PermissionSource, logger *slog.Logger) *Resolver {
	return &Resolver{source: source, logger: logger}
}

// EffectiveSet returns the identity's current permission keys as a set.
func (r *Resolver) EffectiveSet(ctx context.Context, userID int64) (map[string]struct{}, error) {
	keys, err := r.source.PermissionsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set, nil
}

// HasPermission reports exact membership of key in the effective set. An
// unauthenticated caller (userID 0) always gets false.
func (r *Resolver) HasPermission(ctx context.Context, userID int64, key string) (bool, error) {
	if userID == 0 {
		return false, nil
	}

	set, err := r.EffectiveSet(ctx, userID)
	if err != nil {
		r.logger.Error("permission resolution failed", "user_id", userID, "permission", key, "error", err)
		return false, err
	}

	_, ok := set[key]
	return ok, nil
}
