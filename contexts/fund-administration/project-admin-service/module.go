package projectadminservice

import (
	"log/slog"

	eventsadapter "fundadmin/contexts/fund-administration/project-admin-service/adapters/events"
	httpadapter "fundadmin/contexts/fund-administration/project-admin-service/adapters/http"
	"fundadmin/contexts/fund-administration/project-admin-service/adapters/memory"
	"fundadmin/contexts/fund-administration/project-admin-service/application"
	"fundadmin/contexts/fund-administration/project-admin-service/ports"
)

// Module is the project-admin-service composition root exposed to runtime
// wiring.
type Module struct {
	Handler httpadapter.Handler
	Service application.Service
	Store   *memory.Store
}

// Dependencies captures all runtime ports required by NewModule.
type Dependencies struct {
	Repository  ports.Repository
	Authority   ports.RoleAuthority
	Root        ports.RootAuthority
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Publisher   ports.EventPublisher
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	service := application.Service{
		Repo:      deps.Repository,
		Authority: deps.Authority,
		Root:      deps.Root,
		Clock:     deps.Clock,
		IDGen:     deps.IDGenerator,
		Publisher: deps.Publisher,
		Logger:    deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Service: service,
			Logger:  deps.Logger,
		},
		Service: service,
	}
}

// NewInMemoryModule builds a development/testing module with in-memory
// adapters. The role authority is owned by the identity-access context, so it
// is always injected; the bus may be nil, in which case signals are logged
// and dropped.
func NewInMemoryModule(
	authority ports.RoleAuthority,
	rootAccounts []string,
	bus eventsadapter.EventBus,
	logger *slog.Logger,
) Module {
	store := memory.NewStore(ports.DefaultLimits())
	module := NewModule(Dependencies{
		Repository:  store,
		Authority:   authority,
		Root:        memory.NewRootAuthority(rootAccounts),
		Clock:       store,
		IDGenerator: store,
		Publisher: eventsadapter.Publisher{
			Bus:    bus,
			Logger: logger,
		},
		Logger: logger,
	})
	module.Store = store
	return module
}
