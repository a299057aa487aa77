package rbacservice

import (
	"fundadmin/contexts/identity-access/rbac-service/adapters/memory"
	"fundadmin/contexts/identity-access/rbac-service/ports"
)

// Module exposes the rbac store behind its port for runtime wiring.
type Module struct {
	Authority ports.RoleBasedAccessControl
	Store     *memory.Store
}

func NewInMemoryModule() Module {
	store := memory.NewStore()
	return Module{
		Authority: store,
		Store:     store,
	}
}
