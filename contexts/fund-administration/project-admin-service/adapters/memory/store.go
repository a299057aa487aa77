package memory

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"

	"github.com/google/uuid"

	"fundadmin/contexts/fund-administration/project-admin-service/domain/entities"
	domainerrors "fundadmin/contexts/fund-administration/project-admin-service/domain/errors"
	"fundadmin/contexts/fund-administration/project-admin-service/ports"
)

// Store is the in-memory ledger state. A single mutex serializes every
// operation; each mutation validates completely before it writes, so a failed
// call leaves the coupled indexes exactly as they were.
type Store struct {
	mu sync.RWMutex

	limits ports.Limits

	globalScope string

	usersByAccount   map[string]entities.UserProfile
	projectsByID     map[string]entities.Project
	expendituresByID map[string]entities.Expenditure

	// Four coupled views of the membership relation, each independently
	// bounded. Slices keep insertion order like the original bounded vectors.
	usersByProject map[string][]string
	projectsByUser map[string][]string
	roleMembers    map[string]map[string][]string
	administrators []string

	expendituresByProject map[string][]string
	childrenByExpenditure map[string][]string
}

func NewStore(limits ports.Limits) *Store {
	return &Store{
		limits:                limits,
		usersByAccount:        make(map[string]entities.UserProfile),
		projectsByID:          make(map[string]entities.Project),
		expendituresByID:      make(map[string]entities.Expenditure),
		usersByProject:        make(map[string][]string),
		projectsByUser:        make(map[string][]string),
		roleMembers:           make(map[string]map[string][]string),
		expendituresByProject: make(map[string][]string),
		childrenByExpenditure: make(map[string][]string),
	}
}

func (s *Store) InitialSetup(ctx context.Context, scopeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.globalScope != "" {
		return domainerrors.ErrGlobalScopeAlreadySet
	}
	s.globalScope = scopeID
	return nil
}

func (s *Store) GlobalScope(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.globalScope == "" {
		return "", domainerrors.ErrGlobalScopeNotSet
	}
	return s.globalScope, nil
}

func (s *Store) RegisterUser(
	ctx context.Context,
	actor string,
	account string,
	input ports.RegisterUserInput,
	now time.Time,
) (entities.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usersByAccount[account]; exists {
		return entities.UserProfile{}, domainerrors.ErrUserAlreadyRegistered
	}
	if len(input.Documents) > s.limits.MaxDocumentsPerUser {
		return entities.UserProfile{}, domainerrors.ErrMaxDocumentsReached
	}

	now = now.UTC()
	profile := entities.UserProfile{
		Account:   account,
		Name:      input.Name,
		ImageCID:  input.ImageCID,
		Email:     input.Email,
		Documents: cloneDocuments(input.Documents),
		Audit: entities.AuditTrail{
			CreatedBy:  actor,
			CreatedAt:  now,
			ModifiedBy: actor,
			ModifiedAt: now,
		},
	}
	s.usersByAccount[account] = profile
	return cloneUser(profile), nil
}

func (s *Store) UpdateUser(
	ctx context.Context,
	actor string,
	account string,
	input ports.UpdateUserInput,
	now time.Time,
) (entities.UserProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, exists := s.usersByAccount[account]
	if !exists {
		return entities.UserProfile{}, domainerrors.ErrUserNotRegistered
	}
	if input.Documents != nil && len(*input.Documents) > s.limits.MaxDocumentsPerUser {
		return entities.UserProfile{}, domainerrors.ErrMaxDocumentsReached
	}

	if input.Name != nil {
		profile.Name = *input.Name
	}
	if input.ImageCID != nil {
		profile.ImageCID = *input.ImageCID
	}
	if input.Email != nil {
		profile.Email = *input.Email
	}
	if input.Documents != nil {
		profile.Documents = cloneDocuments(*input.Documents)
	}
	profile.Audit.ModifiedBy = actor
	profile.Audit.ModifiedAt = now.UTC()

	s.usersByAccount[account] = profile
	return cloneUser(profile), nil
}

func (s *Store) DeleteUser(ctx context.Context, account string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usersByAccount[account]; !exists {
		return domainerrors.ErrUserNotRegistered
	}
	if len(s.projectsByUser[account]) > 0 {
		return domainerrors.ErrCannotDeleteUserWithAssignedProjects
	}

	delete(s.usersByAccount, account)
	delete(s.projectsByUser, account)
	return nil
}

func (s *Store) GetUser(ctx context.Context, account string) (entities.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, exists := s.usersByAccount[account]
	if !exists {
		return entities.UserProfile{}, domainerrors.ErrUserNotRegistered
	}
	return cloneUser(profile), nil
}

func (s *Store) CreateProject(
	ctx context.Context,
	actor string,
	projectID string,
	input ports.CreateProjectInput,
	now time.Time,
) (entities.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.projectsByID[projectID]; exists {
		return entities.Project{}, domainerrors.ErrProjectIDAlreadyInUse
	}

	now = now.UTC()
	completion := input.CompletionDate.UTC()
	if !completion.After(now) {
		return entities.Project{}, domainerrors.ErrCompletionDateMustBeLater
	}

	project := entities.Project{
		ProjectID:      projectID,
		Title:          input.Title,
		Description:    input.Description,
		ImageCID:       input.ImageCID,
		Address:        input.Address,
		CreationDate:   now,
		CompletionDate: completion,
		Owner:          actor,
		Audit: entities.AuditTrail{
			CreatedBy:  actor,
			CreatedAt:  now,
			ModifiedBy: actor,
			ModifiedAt: now,
		},
	}
	s.projectsByID[projectID] = project
	return project, nil
}

func (s *Store) EditProject(
	ctx context.Context,
	actor string,
	projectID string,
	input ports.EditProjectInput,
	now time.Time,
) (entities.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, exists := s.projectsByID[projectID]
	if !exists {
		return entities.Project{}, domainerrors.ErrProjectNotFound
	}
	now = now.UTC()
	if project.Closed(now) {
		return entities.Project{}, domainerrors.ErrCannotEditCompletedProject
	}

	if input.CreationDate != nil || input.CompletionDate != nil {
		creation := project.CreationDate
		completion := project.CompletionDate
		if input.CreationDate != nil {
			creation = input.CreationDate.UTC()
		}
		if input.CompletionDate != nil {
			completion = input.CompletionDate.UTC()
		}
		if err := entities.ValidateProjectDates(creation, completion, now); err != nil {
			return entities.Project{}, err
		}
		project.CreationDate = creation
		project.CompletionDate = completion
	}

	if input.Title != nil {
		project.Title = *input.Title
	}
	if input.Description != nil {
		project.Description = *input.Description
	}
	if input.ImageCID != nil {
		project.ImageCID = *input.ImageCID
	}
	if input.Address != nil {
		project.Address = *input.Address
	}
	project.Audit.ModifiedBy = actor
	project.Audit.ModifiedAt = now

	s.projectsByID[projectID] = project
	return project, nil
}

func (s *Store) DeleteProject(ctx context.Context, projectID string, now time.Time) (ports.ProjectCascade, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, exists := s.projectsByID[projectID]
	if !exists {
		return ports.ProjectCascade{}, domainerrors.ErrProjectNotFound
	}
	if project.Closed(now.UTC()) {
		return ports.ProjectCascade{}, domainerrors.ErrCannotDeleteCompletedProject
	}

	// Gather every affected key first, then apply all removals. Nothing below
	// this point can fail, so no partial cascade is ever observable.
	members := append([]string(nil), s.usersByProject[projectID]...)
	expenditures := append([]string(nil), s.expendituresByProject[projectID]...)

	for _, account := range members {
		s.projectsByUser[account] = removeString(s.projectsByUser[account], projectID)
		if len(s.projectsByUser[account]) == 0 {
			delete(s.projectsByUser, account)
		}
	}
	for _, expenditureID := range expenditures {
		delete(s.expendituresByID, expenditureID)
		delete(s.childrenByExpenditure, expenditureID)
	}
	delete(s.expendituresByProject, projectID)
	delete(s.usersByProject, projectID)
	delete(s.roleMembers, projectID)
	delete(s.projectsByID, projectID)

	return ports.ProjectCascade{Members: members, Expenditures: expenditures}, nil
}

func (s *Store) GetProject(ctx context.Context, projectID string) (entities.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	project, exists := s.projectsByID[projectID]
	if !exists {
		return entities.Project{}, domainerrors.ErrProjectNotFound
	}
	return project, nil
}

func (s *Store) AssignUser(ctx context.Context, account string, projectID string, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !entities.IsAssignableRole(role) {
		if role == entities.RoleAdministrator {
			return domainerrors.ErrCannotAddAdminRole
		}
		return domainerrors.ErrInvalidRequest
	}
	if _, exists := s.usersByAccount[account]; !exists {
		return domainerrors.ErrUserNotRegistered
	}
	if _, exists := s.projectsByID[projectID]; !exists {
		return domainerrors.ErrProjectNotFound
	}
	if containsString(s.administrators, account) {
		return domainerrors.ErrUserCannotHaveMoreThanOneRole
	}
	for _, assigned := range s.roleMembers[projectID] {
		if containsString(assigned, account) {
			return domainerrors.ErrUserAlreadyAssignedToProject
		}
	}
	if err := s.checkRoleCapacityLocked(projectID, role); err != nil {
		return err
	}
	if len(s.usersByProject[projectID]) >= s.limits.MaxUsersPerProject {
		return domainerrors.ErrMaxUsersPerProjectReached
	}
	if len(s.projectsByUser[account]) >= s.limits.MaxProjectsPerUser {
		return domainerrors.ErrMaxProjectsPerUserReached
	}

	// All preconditions hold; the three mirrored inserts commit together.
	if s.roleMembers[projectID] == nil {
		s.roleMembers[projectID] = make(map[string][]string)
	}
	s.roleMembers[projectID][role] = append(s.roleMembers[projectID][role], account)
	s.usersByProject[projectID] = append(s.usersByProject[projectID], account)
	s.projectsByUser[account] = append(s.projectsByUser[account], projectID)
	return nil
}

func (s *Store) UnassignUser(ctx context.Context, account string, projectID string, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if role == entities.RoleAdministrator {
		return domainerrors.ErrCannotRemoveAdminRole
	}
	if !entities.IsValidRole(role) {
		return domainerrors.ErrInvalidRequest
	}
	if !containsString(s.roleMembers[projectID][role], account) {
		return domainerrors.ErrUserNotAssignedToProject
	}

	s.roleMembers[projectID][role] = removeString(s.roleMembers[projectID][role], account)
	if len(s.roleMembers[projectID][role]) == 0 {
		delete(s.roleMembers[projectID], role)
	}
	s.usersByProject[projectID] = removeString(s.usersByProject[projectID], account)
	if len(s.usersByProject[projectID]) == 0 {
		delete(s.usersByProject, projectID)
	}
	s.projectsByUser[account] = removeString(s.projectsByUser[account], projectID)
	if len(s.projectsByUser[account]) == 0 {
		delete(s.projectsByUser, account)
	}
	return nil
}

func (s *Store) ListProjectMembers(ctx context.Context, projectID string) ([]ports.ProjectMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, exists := s.projectsByID[projectID]; !exists {
		return nil, domainerrors.ErrProjectNotFound
	}

	members := make([]ports.ProjectMember, 0)
	for _, role := range entities.Roles() {
		for _, account := range s.roleMembers[projectID][role] {
			members = append(members, ports.ProjectMember{Account: account, Role: role})
		}
	}
	return members, nil
}

func (s *Store) ListUserProjects(ctx context.Context, account string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, exists := s.usersByAccount[account]; !exists {
		return nil, domainerrors.ErrUserNotRegistered
	}
	return append([]string(nil), s.projectsByUser[account]...), nil
}

func (s *Store) AddAdministrator(ctx context.Context, account string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if containsString(s.administrators, account) {
		return domainerrors.ErrUserAlreadyHasRole
	}
	if len(s.projectsByUser[account]) > 0 {
		return domainerrors.ErrUserCannotHaveMoreThanOneRole
	}
	s.administrators = append(s.administrators, account)
	return nil
}

func (s *Store) RemoveAdministrator(ctx context.Context, account string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !containsString(s.administrators, account) {
		return domainerrors.ErrCannotRemoveAdminRole
	}
	s.administrators = removeString(s.administrators, account)
	return nil
}

func (s *Store) ListAdministrators(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]string(nil), s.administrators...), nil
}

func (s *Store) CreateExpenditure(
	ctx context.Context,
	actor string,
	projectID string,
	expenditureID string,
	input ports.CreateExpenditureInput,
	now time.Time,
) (entities.Expenditure, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.projectsByID[projectID]; !exists {
		return entities.Expenditure{}, domainerrors.ErrProjectNotFound
	}
	if _, exists := s.expendituresByID[expenditureID]; exists {
		return entities.Expenditure{}, domainerrors.ErrExpenditureIDAlreadyInUse
	}
	if input.ParentID != "" {
		parent, exists := s.expendituresByID[input.ParentID]
		if !exists {
			return entities.Expenditure{}, domainerrors.ErrExpenditureNotFound
		}
		if parent.ProjectID != projectID {
			return entities.Expenditure{}, domainerrors.ErrInvalidRequest
		}
		if input.SubType == entities.ExpenditureSubTypeParent {
			return entities.Expenditure{}, domainerrors.ErrCannotCreateParentExpenditure
		}
		if len(s.childrenByExpenditure[input.ParentID]) >= s.limits.MaxChildrenPerExpenditure {
			return entities.Expenditure{}, domainerrors.ErrMaxChildrenPerExpenditureReached
		}
	}
	if len(s.expendituresByProject[projectID]) >= s.limits.MaxExpendituresPerProject {
		return entities.Expenditure{}, domainerrors.ErrMaxExpendituresPerProjectReached
	}

	now = now.UTC()
	expenditure := entities.Expenditure{
		ExpenditureID:  expenditureID,
		ProjectID:      projectID,
		Name:           input.Name,
		Type:           input.Type,
		SubType:        input.SubType,
		BudgetAmount:   cloneUint64(input.BudgetAmount),
		NAICSCode:      cloneUint32(input.NAICSCode),
		JobsMultiplier: cloneUint32(input.JobsMultiplier),
		ParentID:       input.ParentID,
		Audit: entities.AuditTrail{
			CreatedBy:  actor,
			CreatedAt:  now,
			ModifiedBy: actor,
			ModifiedAt: now,
		},
	}
	s.expendituresByID[expenditureID] = expenditure
	s.expendituresByProject[projectID] = append(s.expendituresByProject[projectID], expenditureID)
	if input.ParentID != "" {
		s.childrenByExpenditure[input.ParentID] = append(s.childrenByExpenditure[input.ParentID], expenditureID)
	}
	return cloneExpenditure(expenditure), nil
}

func (s *Store) ListProjectExpenditures(ctx context.Context, projectID string) ([]entities.Expenditure, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, exists := s.projectsByID[projectID]; !exists {
		return nil, domainerrors.ErrProjectNotFound
	}

	items := make([]entities.Expenditure, 0, len(s.expendituresByProject[projectID]))
	for _, expenditureID := range s.expendituresByProject[projectID] {
		items = append(items, cloneExpenditure(s.expendituresByID[expenditureID]))
	}
	return items, nil
}

// NewID mints a fresh 32-byte identifier as 64-char lowercase hex.
func (s *Store) NewID(ctx context.Context) (string, error) {
	sum := sha256.Sum256([]byte(uuid.NewString()))
	return hex.EncodeToString(sum[:]), nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) checkRoleCapacityLocked(projectID string, role string) error {
	current := len(s.roleMembers[projectID][role])
	switch role {
	case entities.RoleDeveloper:
		if current >= s.limits.MaxDevelopersPerProject {
			return domainerrors.ErrMaxDevelopersPerProjectReached
		}
	case entities.RoleInvestor:
		if current >= s.limits.MaxInvestorsPerProject {
			return domainerrors.ErrMaxInvestorsPerProjectReached
		}
	case entities.RoleIssuer:
		if current >= s.limits.MaxIssuersPerProject {
			return domainerrors.ErrMaxIssuersPerProjectReached
		}
	case entities.RoleRegionalCenter:
		if current >= s.limits.MaxRegionalCenterPerProject {
			return domainerrors.ErrMaxRegionalCenterPerProjectReached
		}
	}
	return nil
}

func containsString(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}

func removeString(items []string, target string) []string {
	filtered := make([]string, 0, len(items))
	for _, item := range items {
		if item != target {
			filtered = append(filtered, item)
		}
	}
	if len(filtered) == 0 {
		return nil
	}
	return filtered
}

func cloneDocuments(in []entities.Document) []entities.Document {
	if len(in) == 0 {
		return nil
	}
	return append([]entities.Document(nil), in...)
}

func cloneUser(in entities.UserProfile) entities.UserProfile {
	out := in
	out.Documents = cloneDocuments(in.Documents)
	return out
}

func cloneExpenditure(in entities.Expenditure) entities.Expenditure {
	out := in
	out.BudgetAmount = cloneUint64(in.BudgetAmount)
	out.NAICSCode = cloneUint32(in.NAICSCode)
	out.JobsMultiplier = cloneUint32(in.JobsMultiplier)
	return out
}

func cloneUint64(in *uint64) *uint64 {
	if in == nil {
		return nil
	}
	value := *in
	return &value
}

func cloneUint32(in *uint32) *uint32 {
	if in == nil {
		return nil
	}
	value := *in
	return &value
}

var _ ports.Repository = (*Store)(nil)
var _ ports.Clock = (*Store)(nil)
var _ ports.IDGenerator = (*Store)(nil)
