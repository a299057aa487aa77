package ports

import "context"

// RoleBasedAccessControl maintains per-scope role assignment and answers
// membership queries. Scopes name authorization domains; roles are defined
// per scope at creation time.
type RoleBasedAccessControl interface {
	CreateScope(ctx context.Context, scopeID string, roles []string) error
	HasRole(ctx context.Context, account string, scopeID string, role string) (bool, error)
	AssignRole(ctx context.Context, account string, scopeID string, role string) error
	RemoveRole(ctx context.Context, account string, scopeID string, role string) error
}
