package ports

import (
	"context"
	"time"

	"fundadmin/contexts/fund-administration/project-admin-service/domain/entities"
)

// Clock abstracts the ledger clock for deterministic tests.
type Clock interface {
	Now() time.Time
}

// IDGenerator mints fresh 32-byte identifiers (64-char lowercase hex).
type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// RoleAuthority is the consumed slice of the external role-based access
// control service. The dispatch surface calls HasRole before every
// administrative operation; a negative answer is an authorization failure,
// never a domain error.
type RoleAuthority interface {
	CreateScope(ctx context.Context, scopeID string, roles []string) error
	HasRole(ctx context.Context, account string, scopeID string, role string) (bool, error)
	AssignRole(ctx context.Context, account string, scopeID string, role string) error
	RemoveRole(ctx context.Context, account string, scopeID string, role string) error
}

// RootAuthority gates the privileged surface (initial setup and the sudo
// administrator pair). It is deliberately separate from RoleAuthority: the
// original system routes these through a distinct removal origin.
type RootAuthority interface {
	IsRootOrigin(ctx context.Context, account string) (bool, error)
}

// Limits are the fixed capacities of every bounded set. They are enforced at
// each insertion point; exceeding one fails the whole operation.
type Limits struct {
	MaxProjectsPerUser          int
	MaxUsersPerProject          int
	MaxDevelopersPerProject     int
	MaxInvestorsPerProject      int
	MaxIssuersPerProject        int
	MaxRegionalCenterPerProject int
	MaxExpendituresPerProject   int
	MaxChildrenPerExpenditure   int
	MaxDocumentsPerUser         int
}

func DefaultLimits() Limits {
	return Limits{
		MaxProjectsPerUser:          10,
		MaxUsersPerProject:          50,
		MaxDevelopersPerProject:     10,
		MaxInvestorsPerProject:      10,
		MaxIssuersPerProject:        10,
		MaxRegionalCenterPerProject: 10,
		MaxExpendituresPerProject:   100,
		MaxChildrenPerExpenditure:   20,
		MaxDocumentsPerUser:         5,
	}
}

// RegisterUserInput carries the full profile for a new registration.
type RegisterUserInput struct {
	Name      string
	ImageCID  string
	Email     string
	Documents []entities.Document
}

// UpdateUserInput is a partial update: nil fields leave stored values
// untouched.
type UpdateUserInput struct {
	Name      *string
	ImageCID  *string
	Email     *string
	Documents *[]entities.Document
}

type CreateProjectInput struct {
	Title          string
	Description    string
	ImageCID       string
	Address        string
	CompletionDate time.Time
}

// EditProjectInput is a partial update. Changing either date re-validates
// ordering and both dates against the current ledger time.
type EditProjectInput struct {
	Title          *string
	Description    *string
	ImageCID       *string
	Address        *string
	CreationDate   *time.Time
	CompletionDate *time.Time
}

type CreateExpenditureInput struct {
	Name           string
	Type           string
	SubType        string
	BudgetAmount   *uint64
	NAICSCode      *uint32
	JobsMultiplier *uint32
	ParentID       string
}

// ProjectMember pairs an assigned account with its single project role.
type ProjectMember struct {
	Account string
	Role    string
}

// ProjectCascade reports what a project deletion removed, for signal fan-out.
type ProjectCascade struct {
	Members      []string
	Expenditures []string
}

// Repository is the sole mutation boundary over the persistent ledger state.
// Every method is atomic: either the full read-modify-write applies or the
// store is left exactly as it was. Implementations serialize all access.
type Repository interface {
	InitialSetup(ctx context.Context, scopeID string) error
	GlobalScope(ctx context.Context) (string, error)

	RegisterUser(ctx context.Context, actor string, account string, input RegisterUserInput, now time.Time) (entities.UserProfile, error)
	UpdateUser(ctx context.Context, actor string, account string, input UpdateUserInput, now time.Time) (entities.UserProfile, error)
	DeleteUser(ctx context.Context, account string) error
	GetUser(ctx context.Context, account string) (entities.UserProfile, error)

	CreateProject(ctx context.Context, actor string, projectID string, input CreateProjectInput, now time.Time) (entities.Project, error)
	EditProject(ctx context.Context, actor string, projectID string, input EditProjectInput, now time.Time) (entities.Project, error)
	DeleteProject(ctx context.Context, projectID string, now time.Time) (ProjectCascade, error)
	GetProject(ctx context.Context, projectID string) (entities.Project, error)

	AssignUser(ctx context.Context, account string, projectID string, role string) error
	UnassignUser(ctx context.Context, account string, projectID string, role string) error
	ListProjectMembers(ctx context.Context, projectID string) ([]ProjectMember, error)
	ListUserProjects(ctx context.Context, account string) ([]string, error)

	AddAdministrator(ctx context.Context, account string) error
	RemoveAdministrator(ctx context.Context, account string) error
	ListAdministrators(ctx context.Context) ([]string, error)

	CreateExpenditure(ctx context.Context, actor string, projectID string, expenditureID string, input CreateExpenditureInput, now time.Time) (entities.Expenditure, error)
	ListProjectExpenditures(ctx context.Context, projectID string) ([]entities.Expenditure, error)
}

// EventEnvelope is the signal emitted after every successful state
// transition. Payload keys identify the affected entities.
type EventEnvelope struct {
	EventID    string            `json:"event_id"`
	EventType  string            `json:"event_type"`
	OccurredAt time.Time         `json:"occurred_at"`
	EntityType string            `json:"entity_type"`
	EntityID   string            `json:"entity_id"`
	Payload    map[string]string `json:"payload"`
}

// EventPublisher delivers envelopes to the platform bus, directly or through
// a durable outbox.
type EventPublisher interface {
	Publish(ctx context.Context, event EventEnvelope) error
}

// OutboxMessage is a pending row ready to relay to the bus.
type OutboxMessage struct {
	OutboxID  string
	EventType string
	Payload   []byte
	CreatedAt time.Time
}

// OutboxRepository models worker-side outbox polling and acknowledgement.
type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error
}
