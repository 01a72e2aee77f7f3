// Package identity holds the collaborator contracts for users, roles and
// permissions. Implementations live outside this service; the core only
// consumes capability checks and lookups.
package identity

import "context"

// SystemActorID is the reserved actor recorded on audit entries written by
// batch jobs rather than a human user.
const SystemActorID uint64 = 0

// Role codes with commission semantics. CTV is the referral-agent role; it
// takes precedence over USER when resolving commission rates and KPI tiers.
const (
	RoleCTV  = "CTV"
	RoleUser = "USER"
)

// RBAC is the boolean-capability view of the external role system.
type RBAC interface {
	HasPermission(ctx context.Context, userID uint64, code string) (bool, error)
	GetUserPermissions(ctx context.Context, userID uint64) ([]string, error)
	GetUserRoles(ctx context.Context, userID uint64) ([]string, error)
}

// Users resolves user facts the core needs but does not own.
type Users interface {
	// GetReferrerID returns the id of the user who referred userID, or nil
	// when the user has no referrer.
	GetReferrerID(ctx context.Context, userID uint64) (*uint64, error)
	// SearchUserIDs returns ids of users whose email, phone or name matches
	// the query. Used for the admin contract search.
	SearchUserIDs(ctx context.Context, query string) ([]uint64, error)
}

// HoldsRole reports whether code appears in roles.
func HoldsRole(roles []string, code string) bool {
	for _, r := range roles {
		if r == code {
			return true
		}
	}
	return false
}
