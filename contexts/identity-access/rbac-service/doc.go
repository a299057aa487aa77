// Package rbacservice implements the role-based access control collaborator
// consumed by the fund-administration context.
//
// Layering:
// - ports: the scope/role boundary other modules program against
// - domain: rbac-specific errors
// - adapters: in-memory scope store used by runtime wiring and tests
//
// Boundary notes:
// - Keep this module self-contained under identity-access context.
// - Consumers depend on their own narrow authority port, not on this package;
//   the memory store satisfies those ports structurally.
package rbacservice
