package identitymock

import (
	"context"

	"lendops-backend/internal/domain/identity"
)

var (
	_ identity.RBAC  = (*RBAC)(nil)
	_ identity.Users = (*Users)(nil)
)

// RBAC is a function-backed mock of the permission collaborator. Unfilled
// fields deny everything.
type RBAC struct {
	HasPermissionFn      func(ctx context.Context, userID uint64, code string) (bool, error)
	GetUserPermissionsFn func(ctx context.Context, userID uint64) ([]string, error)
	GetUserRolesFn       func(ctx context.Context, userID uint64) ([]string, error)
}

func (m *RBAC) HasPermission(ctx context.Context, userID uint64, code string) (bool, error) {
	if m.HasPermissionFn != nil {
		return m.HasPermissionFn(ctx, userID, code)
	}
	return false, nil
}

func (m *RBAC) GetUserPermissions(ctx context.Context, userID uint64) ([]string, error) {
	if m.GetUserPermissionsFn != nil {
		return m.GetUserPermissionsFn(ctx, userID)
	}
	return nil, nil
}

func (m *RBAC) GetUserRoles(ctx context.Context, userID uint64) ([]string, error) {
	if m.GetUserRolesFn != nil {
		return m.GetUserRolesFn(ctx, userID)
	}
	return nil, nil
}

// Users is a function-backed mock of the user directory. Unfilled fields
// report no referrer and no matches.
type Users struct {
	GetReferrerIDFn func(ctx context.Context, userID uint64) (*uint64, error)
	SearchUserIDsFn func(ctx context.Context, query string) ([]uint64, error)
}

func (m *Users) GetReferrerID(ctx context.Context, userID uint64) (*uint64, error) {
	if m.GetReferrerIDFn != nil {
		return m.GetReferrerIDFn(ctx, userID)
	}
	return nil, nil
}

func (m *Users) SearchUserIDs(ctx context.Context, query string) ([]uint64, error) {
	if m.SearchUserIDsFn != nil {
		return m.SearchUserIDsFn(ctx, query)
	}
	return nil, nil
}
