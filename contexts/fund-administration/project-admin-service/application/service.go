package application

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"fundadmin/contexts/fund-administration/project-admin-service/domain/entities"
	domainerrors "fundadmin/contexts/fund-administration/project-admin-service/domain/errors"
	"fundadmin/contexts/fund-administration/project-admin-service/ports"
)

const (
	maxTitleLen       = 32
	maxDescriptionLen = 256
	maxCIDLen         = 64
)

// Service is the dispatch surface: it authenticates the caller against the
// role authority, validates input shape, delegates to the repository (the
// sole transaction boundary), and emits one signal per successful state
// transition.
type Service struct {
	Repo      ports.Repository
	Authority ports.RoleAuthority
	Root      ports.RootAuthority
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Publisher ports.EventPublisher
	Logger    *slog.Logger
}

func (s Service) InitialSetup(ctx context.Context, caller string) (string, error) {
	if err := s.requireRoot(ctx, caller); err != nil {
		return "", err
	}
	if _, err := s.Repo.GlobalScope(ctx); err == nil {
		return "", domainerrors.ErrGlobalScopeAlreadySet
	}

	scopeID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return "", err
	}
	if err := s.Repo.InitialSetup(ctx, scopeID); err != nil {
		return "", err
	}
	if err := s.Authority.CreateScope(ctx, scopeID, entities.Roles()); err != nil {
		return "", err
	}

	s.emit(ctx, "fund_admin.setup.completed", "scope", scopeID, nil)
	return scopeID, nil
}

func (s Service) SudoAddAdministrator(ctx context.Context, caller string, account string) error {
	if err := s.requireRoot(ctx, caller); err != nil {
		return err
	}
	if strings.TrimSpace(account) == "" {
		return domainerrors.ErrInvalidRequest
	}
	scopeID, err := s.Repo.GlobalScope(ctx)
	if err != nil {
		return err
	}

	hasRole, err := s.Authority.HasRole(ctx, account, scopeID, entities.RoleAdministrator)
	if err != nil {
		return err
	}
	if hasRole {
		return domainerrors.ErrCannotRegisterAdminRole
	}
	if err := s.Repo.AddAdministrator(ctx, account); err != nil {
		return err
	}
	if err := s.Authority.AssignRole(ctx, account, scopeID, entities.RoleAdministrator); err != nil {
		// Compensate so the ledger set and the authority never diverge.
		_ = s.Repo.RemoveAdministrator(ctx, account)
		return domainerrors.ErrCannotRegisterAdminRole
	}

	s.emit(ctx, "fund_admin.administrator.assigned", "account", account, nil)
	return nil
}

func (s Service) SudoRemoveAdministrator(ctx context.Context, caller string, account string) error {
	if err := s.requireRoot(ctx, caller); err != nil {
		return err
	}
	if strings.TrimSpace(account) == "" {
		return domainerrors.ErrInvalidRequest
	}
	scopeID, err := s.Repo.GlobalScope(ctx)
	if err != nil {
		return err
	}

	if err := s.Repo.RemoveAdministrator(ctx, account); err != nil {
		return err
	}
	if err := s.Authority.RemoveRole(ctx, account, scopeID, entities.RoleAdministrator); err != nil {
		_ = s.Repo.AddAdministrator(ctx, account)
		return domainerrors.ErrCannotRemoveAdminRole
	}

	s.emit(ctx, "fund_admin.administrator.removed", "account", account, nil)
	return nil
}

func (s Service) RegisterUser(
	ctx context.Context,
	caller string,
	account string,
	input ports.RegisterUserInput,
) (entities.UserProfile, error) {
	if err := s.requireAdministrator(ctx, caller); err != nil {
		return entities.UserProfile{}, err
	}
	if strings.TrimSpace(account) == "" ||
		strings.TrimSpace(input.Name) == "" ||
		strings.TrimSpace(input.Email) == "" {
		return entities.UserProfile{}, domainerrors.ErrInvalidRequest
	}
	if len(input.ImageCID) > maxCIDLen {
		return entities.UserProfile{}, domainerrors.ErrInvalidRequest
	}

	profile, err := s.Repo.RegisterUser(ctx, caller, account, input, s.now())
	if err != nil {
		return entities.UserProfile{}, err
	}

	s.emit(ctx, "fund_admin.user.added", "account", account, nil)
	return profile, nil
}

func (s Service) UpdateUser(
	ctx context.Context,
	caller string,
	account string,
	input ports.UpdateUserInput,
) (entities.UserProfile, error) {
	if err := s.requireAdministrator(ctx, caller); err != nil {
		return entities.UserProfile{}, err
	}
	if strings.TrimSpace(account) == "" {
		return entities.UserProfile{}, domainerrors.ErrInvalidRequest
	}
	if input.ImageCID != nil && len(*input.ImageCID) > maxCIDLen {
		return entities.UserProfile{}, domainerrors.ErrInvalidRequest
	}

	profile, err := s.Repo.UpdateUser(ctx, caller, account, input, s.now())
	if err != nil {
		return entities.UserProfile{}, err
	}

	s.emit(ctx, "fund_admin.user.updated", "account", account, nil)
	return profile, nil
}

func (s Service) DeleteUser(ctx context.Context, caller string, account string) error {
	if err := s.requireAdministrator(ctx, caller); err != nil {
		return err
	}
	if strings.TrimSpace(account) == "" {
		return domainerrors.ErrInvalidRequest
	}

	if err := s.Repo.DeleteUser(ctx, account); err != nil {
		return err
	}

	s.emit(ctx, "fund_admin.user.deleted", "account", account, nil)
	return nil
}

func (s Service) GetUser(ctx context.Context, account string) (entities.UserProfile, error) {
	if strings.TrimSpace(account) == "" {
		return entities.UserProfile{}, domainerrors.ErrInvalidRequest
	}
	return s.Repo.GetUser(ctx, account)
}

func (s Service) CreateProject(
	ctx context.Context,
	caller string,
	input ports.CreateProjectInput,
) (entities.Project, error) {
	if err := s.requireAdministrator(ctx, caller); err != nil {
		return entities.Project{}, err
	}
	if strings.TrimSpace(input.Title) == "" || len(input.Title) > maxTitleLen {
		return entities.Project{}, domainerrors.ErrInvalidRequest
	}
	if len(input.Description) > maxDescriptionLen || len(input.ImageCID) > maxCIDLen {
		return entities.Project{}, domainerrors.ErrInvalidRequest
	}

	projectID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.Project{}, err
	}
	project, err := s.Repo.CreateProject(ctx, caller, projectID, input, s.now())
	if err != nil {
		return entities.Project{}, err
	}

	s.emit(ctx, "fund_admin.project.created", "project", projectID, map[string]string{
		"owner": caller,
	})
	return project, nil
}

func (s Service) EditProject(
	ctx context.Context,
	caller string,
	projectID string,
	input ports.EditProjectInput,
) (entities.Project, error) {
	if err := s.requireAdministrator(ctx, caller); err != nil {
		return entities.Project{}, err
	}
	if strings.TrimSpace(projectID) == "" {
		return entities.Project{}, domainerrors.ErrInvalidRequest
	}
	if input.Title != nil && (strings.TrimSpace(*input.Title) == "" || len(*input.Title) > maxTitleLen) {
		return entities.Project{}, domainerrors.ErrInvalidRequest
	}
	if input.Description != nil && len(*input.Description) > maxDescriptionLen {
		return entities.Project{}, domainerrors.ErrInvalidRequest
	}
	if input.ImageCID != nil && len(*input.ImageCID) > maxCIDLen {
		return entities.Project{}, domainerrors.ErrInvalidRequest
	}

	project, err := s.Repo.EditProject(ctx, caller, projectID, input, s.now())
	if err != nil {
		return entities.Project{}, err
	}

	s.emit(ctx, "fund_admin.project.edited", "project", projectID, nil)
	return project, nil
}

func (s Service) DeleteProject(ctx context.Context, caller string, projectID string) (ports.ProjectCascade, error) {
	if err := s.requireAdministrator(ctx, caller); err != nil {
		return ports.ProjectCascade{}, err
	}
	if strings.TrimSpace(projectID) == "" {
		return ports.ProjectCascade{}, domainerrors.ErrInvalidRequest
	}

	cascade, err := s.Repo.DeleteProject(ctx, projectID, s.now())
	if err != nil {
		return ports.ProjectCascade{}, err
	}

	s.emit(ctx, "fund_admin.project.deleted", "project", projectID, map[string]string{
		"removed_members":      strings.Join(cascade.Members, ","),
		"removed_expenditures": strings.Join(cascade.Expenditures, ","),
	})
	return cascade, nil
}

func (s Service) GetProject(ctx context.Context, projectID string) (entities.Project, error) {
	if strings.TrimSpace(projectID) == "" {
		return entities.Project{}, domainerrors.ErrInvalidRequest
	}
	return s.Repo.GetProject(ctx, projectID)
}

func (s Service) AssignUser(
	ctx context.Context,
	caller string,
	account string,
	projectID string,
	role string,
) error {
	if err := s.requireAdministrator(ctx, caller); err != nil {
		return err
	}
	if strings.TrimSpace(account) == "" || strings.TrimSpace(projectID) == "" {
		return domainerrors.ErrInvalidRequest
	}
	if role == entities.RoleAdministrator {
		return domainerrors.ErrCannotAddAdminRole
	}
	if !entities.IsValidRole(role) {
		return domainerrors.ErrInvalidRequest
	}

	if err := s.Repo.AssignUser(ctx, account, projectID, role); err != nil {
		return err
	}

	s.emit(ctx, "fund_admin.user.assigned", "project", projectID, map[string]string{
		"account": account,
		"role":    role,
	})
	return nil
}

func (s Service) UnassignUser(
	ctx context.Context,
	caller string,
	account string,
	projectID string,
	role string,
) error {
	if err := s.requireAdministrator(ctx, caller); err != nil {
		return err
	}
	if strings.TrimSpace(account) == "" || strings.TrimSpace(projectID) == "" {
		return domainerrors.ErrInvalidRequest
	}

	if err := s.Repo.UnassignUser(ctx, account, projectID, role); err != nil {
		return err
	}

	s.emit(ctx, "fund_admin.user.unassigned", "project", projectID, map[string]string{
		"account": account,
		"role":    role,
	})
	return nil
}

func (s Service) ListProjectMembers(ctx context.Context, projectID string) ([]ports.ProjectMember, error) {
	if strings.TrimSpace(projectID) == "" {
		return nil, domainerrors.ErrInvalidRequest
	}
	return s.Repo.ListProjectMembers(ctx, projectID)
}

func (s Service) ListUserProjects(ctx context.Context, account string) ([]string, error) {
	if strings.TrimSpace(account) == "" {
		return nil, domainerrors.ErrInvalidRequest
	}
	return s.Repo.ListUserProjects(ctx, account)
}

func (s Service) ListAdministrators(ctx context.Context) ([]string, error) {
	return s.Repo.ListAdministrators(ctx)
}

func (s Service) CreateExpenditure(
	ctx context.Context,
	caller string,
	projectID string,
	input ports.CreateExpenditureInput,
) (entities.Expenditure, error) {
	if err := s.requireAdministrator(ctx, caller); err != nil {
		return entities.Expenditure{}, err
	}
	if strings.TrimSpace(projectID) == "" || strings.TrimSpace(input.Name) == "" {
		return entities.Expenditure{}, domainerrors.ErrInvalidRequest
	}
	if !entities.IsValidExpenditureType(input.Type) || !entities.IsValidExpenditureSubType(input.SubType) {
		return entities.Expenditure{}, domainerrors.ErrInvalidRequest
	}

	expenditureID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return entities.Expenditure{}, err
	}
	expenditure, err := s.Repo.CreateExpenditure(ctx, caller, projectID, expenditureID, input, s.now())
	if err != nil {
		return entities.Expenditure{}, err
	}

	s.emit(ctx, "fund_admin.expenditure.created", "expenditure", expenditureID, map[string]string{
		"project_id": projectID,
	})
	return expenditure, nil
}

func (s Service) ListProjectExpenditures(ctx context.Context, projectID string) ([]entities.Expenditure, error) {
	if strings.TrimSpace(projectID) == "" {
		return nil, domainerrors.ErrInvalidRequest
	}
	return s.Repo.ListProjectExpenditures(ctx, projectID)
}

func (s Service) requireRoot(ctx context.Context, caller string) error {
	if strings.TrimSpace(caller) == "" {
		return domainerrors.ErrInvalidRequest
	}
	isRoot, err := s.Root.IsRootOrigin(ctx, caller)
	if err != nil {
		return err
	}
	if !isRoot {
		return domainerrors.ErrRequiresRootOrigin
	}
	return nil
}

// requireAdministrator resolves the global scope and asks the role authority
// whether the caller is an administrator there. This runs before any domain
// validation on every administrative operation.
func (s Service) requireAdministrator(ctx context.Context, caller string) error {
	if strings.TrimSpace(caller) == "" {
		return domainerrors.ErrInvalidRequest
	}
	scopeID, err := s.Repo.GlobalScope(ctx)
	if err != nil {
		return err
	}
	hasRole, err := s.Authority.HasRole(ctx, caller, scopeID, entities.RoleAdministrator)
	if err != nil {
		return err
	}
	if !hasRole {
		return domainerrors.ErrNotAuthorized
	}
	return nil
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

func (s Service) emit(ctx context.Context, eventType string, entityType string, entityID string, payload map[string]string) {
	if s.Publisher == nil {
		return
	}
	eventID, err := s.IDGen.NewID(ctx)
	if err != nil {
		eventID = entityID
	}
	event := ports.EventEnvelope{
		EventID:    eventID,
		EventType:  eventType,
		OccurredAt: s.now(),
		EntityType: entityType,
		EntityID:   entityID,
		Payload:    payload,
	}
	if err := s.Publisher.Publish(ctx, event); err != nil {
		ResolveLogger(s.Logger).Error("signal publish failed",
			"event", "fund_admin_signal_publish_failed",
			"module", "fund-administration/project-admin-service",
			"layer", "application",
			"event_type", eventType,
			"entity_id", entityID,
			"error", err.Error(),
		)
	}
}
