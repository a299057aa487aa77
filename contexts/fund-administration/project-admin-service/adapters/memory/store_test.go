package memory

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"fundadmin/contexts/fund-administration/project-admin-service/domain/entities"
	domainerrors "fundadmin/contexts/fund-administration/project-admin-service/domain/errors"
	"fundadmin/contexts/fund-administration/project-admin-service/ports"
)

func testStore() *Store {
	return NewStore(ports.DefaultLimits())
}

func registerUser(t *testing.T, store *Store, account string) {
	t.Helper()
	_, err := store.RegisterUser(
		context.Background(),
		"admin_1",
		account,
		ports.RegisterUserInput{Name: "User " + account},
		time.Now().UTC(),
	)
	if err != nil {
		t.Fatalf("register user %s failed: %v", account, err)
	}
}

func createProject(t *testing.T, store *Store, projectID string) {
	t.Helper()
	createProjectAt(t, store, projectID, time.Now().UTC())
}

func createProjectAt(t *testing.T, store *Store, projectID string, now time.Time) {
	t.Helper()
	_, err := store.CreateProject(
		context.Background(),
		"admin_1",
		projectID,
		ports.CreateProjectInput{
			Title:          "Riverside Development",
			Description:    "Mixed use development",
			CompletionDate: now.Add(90 * 24 * time.Hour),
		},
		now,
	)
	if err != nil {
		t.Fatalf("create project %s failed: %v", projectID, err)
	}
}

func TestRegisterUserRejectsDuplicateAccount(t *testing.T) {
	store := testStore()
	registerUser(t, store, "acc_1")

	_, err := store.RegisterUser(context.Background(), "admin_1", "acc_1", ports.RegisterUserInput{Name: "Again"}, time.Now().UTC())
	if !errors.Is(err, domainerrors.ErrUserAlreadyRegistered) {
		t.Fatalf("expected already registered, got %v", err)
	}
}

func TestRegisterUserEnforcesDocumentCapacity(t *testing.T) {
	store := testStore()
	documents := make([]entities.Document, ports.DefaultLimits().MaxDocumentsPerUser+1)
	for i := range documents {
		documents[i] = entities.Document{Title: fmt.Sprintf("doc %d", i), CID: fmt.Sprintf("cid-%d", i)}
	}

	_, err := store.RegisterUser(context.Background(), "admin_1", "acc_1", ports.RegisterUserInput{
		Name:      "Overloaded",
		Documents: documents,
	}, time.Now().UTC())
	if !errors.Is(err, domainerrors.ErrMaxDocumentsReached) {
		t.Fatalf("expected max documents, got %v", err)
	}
	if _, err := store.GetUser(context.Background(), "acc_1"); !errors.Is(err, domainerrors.ErrUserNotRegistered) {
		t.Fatalf("failed registration must not persist a profile, got %v", err)
	}
}

func TestUpdateUserKeepsUnsetFields(t *testing.T) {
	store := testStore()
	_, err := store.RegisterUser(context.Background(), "admin_1", "acc_1", ports.RegisterUserInput{
		Name:  "Original",
		Email: "original@example.com",
	}, time.Now().UTC())
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	newName := "Renamed"
	updated, err := store.UpdateUser(context.Background(), "admin_2", "acc_1", ports.UpdateUserInput{Name: &newName}, time.Now().UTC())
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != "Renamed" {
		t.Fatalf("expected renamed, got %s", updated.Name)
	}
	if updated.Email != "original@example.com" {
		t.Fatalf("unset field must keep stored value, got %s", updated.Email)
	}
	if updated.Audit.ModifiedBy != "admin_2" {
		t.Fatalf("expected modified by admin_2, got %s", updated.Audit.ModifiedBy)
	}
	if updated.Audit.CreatedBy != "admin_1" {
		t.Fatalf("created by must survive updates, got %s", updated.Audit.CreatedBy)
	}
}

func TestDeleteUserRequiresNoAssignments(t *testing.T) {
	store := testStore()
	registerUser(t, store, "acc_1")
	createProject(t, store, "proj_1")

	if err := store.AssignUser(context.Background(), "acc_1", "proj_1", entities.RoleDeveloper); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if err := store.DeleteUser(context.Background(), "acc_1"); !errors.Is(err, domainerrors.ErrCannotDeleteUserWithAssignedProjects) {
		t.Fatalf("expected assigned-projects guard, got %v", err)
	}

	if err := store.UnassignUser(context.Background(), "acc_1", "proj_1", entities.RoleDeveloper); err != nil {
		t.Fatalf("unassign failed: %v", err)
	}
	if err := store.DeleteUser(context.Background(), "acc_1"); err != nil {
		t.Fatalf("delete after unassign failed: %v", err)
	}
}

func TestCreateProjectRejectsPastCompletionDate(t *testing.T) {
	store := testStore()
	now := time.Now().UTC()

	_, err := store.CreateProject(context.Background(), "admin_1", "proj_1", ports.CreateProjectInput{
		Title:          "Late",
		CompletionDate: now.Add(-time.Hour),
	}, now)
	if !errors.Is(err, domainerrors.ErrCompletionDateMustBeLater) {
		t.Fatalf("expected completion date rejection, got %v", err)
	}
	if _, err := store.GetProject(context.Background(), "proj_1"); !errors.Is(err, domainerrors.ErrProjectNotFound) {
		t.Fatalf("rejected project must not exist, got %v", err)
	}
}

func TestCreateProjectRejectsDuplicateID(t *testing.T) {
	store := testStore()
	createProject(t, store, "proj_1")

	_, err := store.CreateProject(context.Background(), "admin_1", "proj_1", ports.CreateProjectInput{
		Title:          "Clash",
		CompletionDate: time.Now().UTC().Add(time.Hour),
	}, time.Now().UTC())
	if !errors.Is(err, domainerrors.ErrProjectIDAlreadyInUse) {
		t.Fatalf("expected duplicate id rejection, got %v", err)
	}
}

func TestEditProjectRejectsCompletedProject(t *testing.T) {
	store := testStore()
	now := time.Now().UTC()
	_, err := store.CreateProject(context.Background(), "admin_1", "proj_1", ports.CreateProjectInput{
		Title:          "Short lived",
		CompletionDate: now.Add(time.Hour),
	}, now)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	later := now.Add(2 * time.Hour)
	newTitle := "Renamed"
	_, err = store.EditProject(context.Background(), "admin_1", "proj_1", ports.EditProjectInput{Title: &newTitle}, later)
	if !errors.Is(err, domainerrors.ErrCannotEditCompletedProject) {
		t.Fatalf("expected completed-project guard, got %v", err)
	}
}

func TestEditProjectRevalidatesDates(t *testing.T) {
	store := testStore()
	now := time.Now().UTC()
	createProjectAt(t, store, "proj_1", now)

	pastCompletion := now.Add(-time.Hour)
	_, err := store.EditProject(context.Background(), "admin_1", "proj_1", ports.EditProjectInput{
		CompletionDate: &pastCompletion,
	}, now)
	if !errors.Is(err, domainerrors.ErrDateCannotBeInThePast) {
		t.Fatalf("expected past completion rejection, got %v", err)
	}

	futureCreation := now.Add(time.Hour)
	_, err = store.EditProject(context.Background(), "admin_1", "proj_1", ports.EditProjectInput{
		CreationDate: &futureCreation,
	}, now)
	if !errors.Is(err, domainerrors.ErrCreationDateMustBeInThePast) {
		t.Fatalf("expected future creation rejection, got %v", err)
	}

	creation := now.Add(-48 * time.Hour)
	completion := now.Add(24 * time.Hour)
	project, err := store.EditProject(context.Background(), "admin_1", "proj_1", ports.EditProjectInput{
		CreationDate:   &creation,
		CompletionDate: &completion,
	}, now)
	if err != nil {
		t.Fatalf("valid date edit failed: %v", err)
	}
	if !project.CreationDate.Equal(creation) || !project.CompletionDate.Equal(completion) {
		t.Fatalf("dates not applied: %v / %v", project.CreationDate, project.CompletionDate)
	}
}

func TestAssignUserKeepsIndexesMirrored(t *testing.T) {
	store := testStore()
	registerUser(t, store, "acc_1")
	createProject(t, store, "proj_1")

	if err := store.AssignUser(context.Background(), "acc_1", "proj_1", entities.RoleInvestor); err != nil {
		t.Fatalf("assign failed: %v", err)
	}

	members, err := store.ListProjectMembers(context.Background(), "proj_1")
	if err != nil {
		t.Fatalf("list members failed: %v", err)
	}
	if len(members) != 1 || members[0].Account != "acc_1" || members[0].Role != entities.RoleInvestor {
		t.Fatalf("unexpected members: %+v", members)
	}

	projects, err := store.ListUserProjects(context.Background(), "acc_1")
	if err != nil {
		t.Fatalf("list user projects failed: %v", err)
	}
	if len(projects) != 1 || projects[0] != "proj_1" {
		t.Fatalf("unexpected user projects: %+v", projects)
	}
}

func TestAssignUserRejectsSecondRoleOnSameProject(t *testing.T) {
	store := testStore()
	registerUser(t, store, "acc_1")
	createProject(t, store, "proj_1")

	if err := store.AssignUser(context.Background(), "acc_1", "proj_1", entities.RoleDeveloper); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	err := store.AssignUser(context.Background(), "acc_1", "proj_1", entities.RoleInvestor)
	if !errors.Is(err, domainerrors.ErrUserAlreadyAssignedToProject) {
		t.Fatalf("expected one role per project, got %v", err)
	}
}

func TestAssignUserRejectsAdministratorRole(t *testing.T) {
	store := testStore()
	registerUser(t, store, "acc_1")
	createProject(t, store, "proj_1")

	err := store.AssignUser(context.Background(), "acc_1", "proj_1", entities.RoleAdministrator)
	if !errors.Is(err, domainerrors.ErrCannotAddAdminRole) {
		t.Fatalf("expected admin role rejection, got %v", err)
	}
}

func TestAssignUserRejectsAdministratorsAsMembers(t *testing.T) {
	store := testStore()
	registerUser(t, store, "acc_admin")
	createProject(t, store, "proj_1")

	if err := store.AddAdministrator(context.Background(), "acc_admin"); err != nil {
		t.Fatalf("add administrator failed: %v", err)
	}
	err := store.AssignUser(context.Background(), "acc_admin", "proj_1", entities.RoleDeveloper)
	if !errors.Is(err, domainerrors.ErrUserCannotHaveMoreThanOneRole) {
		t.Fatalf("expected role exclusivity, got %v", err)
	}
}

func TestAddAdministratorRejectsProjectMembers(t *testing.T) {
	store := testStore()
	registerUser(t, store, "acc_1")
	createProject(t, store, "proj_1")

	if err := store.AssignUser(context.Background(), "acc_1", "proj_1", entities.RoleIssuer); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	err := store.AddAdministrator(context.Background(), "acc_1")
	if !errors.Is(err, domainerrors.ErrUserCannotHaveMoreThanOneRole) {
		t.Fatalf("expected role exclusivity, got %v", err)
	}
}

func TestRoleCapacityFailureLeavesStateUnchanged(t *testing.T) {
	store := testStore()
	limits := ports.DefaultLimits()
	createProject(t, store, "proj_1")

	for i := 0; i < limits.MaxDevelopersPerProject; i++ {
		account := fmt.Sprintf("dev_%d", i)
		registerUser(t, store, account)
		if err := store.AssignUser(context.Background(), account, "proj_1", entities.RoleDeveloper); err != nil {
			t.Fatalf("assign %s failed: %v", account, err)
		}
	}

	registerUser(t, store, "dev_overflow")
	err := store.AssignUser(context.Background(), "dev_overflow", "proj_1", entities.RoleDeveloper)
	if !errors.Is(err, domainerrors.ErrMaxDevelopersPerProjectReached) {
		t.Fatalf("expected developer capacity, got %v", err)
	}

	members, err := store.ListProjectMembers(context.Background(), "proj_1")
	if err != nil {
		t.Fatalf("list members failed: %v", err)
	}
	if len(members) != limits.MaxDevelopersPerProject {
		t.Fatalf("failed insert must not grow membership, got %d members", len(members))
	}
	projects, err := store.ListUserProjects(context.Background(), "dev_overflow")
	if err != nil {
		t.Fatalf("list user projects failed: %v", err)
	}
	if len(projects) != 0 {
		t.Fatalf("failed insert must not touch the user index, got %+v", projects)
	}

	// The cap is per role: the same account still fits as an investor.
	if err := store.AssignUser(context.Background(), "dev_overflow", "proj_1", entities.RoleInvestor); err != nil {
		t.Fatalf("investor assignment after developer cap failed: %v", err)
	}
	members, err = store.ListProjectMembers(context.Background(), "proj_1")
	if err != nil {
		t.Fatalf("list members failed: %v", err)
	}
	if len(members) != limits.MaxDevelopersPerProject+1 {
		t.Fatalf("expected %d members, got %d", limits.MaxDevelopersPerProject+1, len(members))
	}
}

func TestAssignUserEnforcesProjectsPerUserCapacity(t *testing.T) {
	store := testStore()
	limits := ports.DefaultLimits()
	registerUser(t, store, "acc_busy")

	for i := 0; i < limits.MaxProjectsPerUser; i++ {
		projectID := fmt.Sprintf("proj_%d", i)
		createProject(t, store, projectID)
		if err := store.AssignUser(context.Background(), "acc_busy", projectID, entities.RoleInvestor); err != nil {
			t.Fatalf("assign to %s failed: %v", projectID, err)
		}
	}

	createProject(t, store, "proj_overflow")
	err := store.AssignUser(context.Background(), "acc_busy", "proj_overflow", entities.RoleInvestor)
	if !errors.Is(err, domainerrors.ErrMaxProjectsPerUserReached) {
		t.Fatalf("expected projects-per-user capacity, got %v", err)
	}
}

func TestUnassignUserRequiresMatchingRole(t *testing.T) {
	store := testStore()
	registerUser(t, store, "acc_1")
	createProject(t, store, "proj_1")

	if err := store.AssignUser(context.Background(), "acc_1", "proj_1", entities.RoleDeveloper); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	err := store.UnassignUser(context.Background(), "acc_1", "proj_1", entities.RoleInvestor)
	if !errors.Is(err, domainerrors.ErrUserNotAssignedToProject) {
		t.Fatalf("expected not-assigned for wrong role, got %v", err)
	}
	if err := store.UnassignUser(context.Background(), "acc_1", "proj_1", entities.RoleDeveloper); err != nil {
		t.Fatalf("unassign failed: %v", err)
	}

	members, err := store.ListProjectMembers(context.Background(), "proj_1")
	if err != nil {
		t.Fatalf("list members failed: %v", err)
	}
	if len(members) != 0 {
		t.Fatalf("expected empty membership, got %+v", members)
	}
}

func TestDeleteProjectCascadesMembershipsAndExpenditures(t *testing.T) {
	store := testStore()
	registerUser(t, store, "acc_1")
	registerUser(t, store, "acc_2")
	createProject(t, store, "proj_1")

	if err := store.AssignUser(context.Background(), "acc_1", "proj_1", entities.RoleDeveloper); err != nil {
		t.Fatalf("assign acc_1 failed: %v", err)
	}
	if err := store.AssignUser(context.Background(), "acc_2", "proj_1", entities.RoleInvestor); err != nil {
		t.Fatalf("assign acc_2 failed: %v", err)
	}
	if _, err := store.CreateExpenditure(context.Background(), "admin_1", "proj_1", "exp_1", ports.CreateExpenditureInput{
		Name:    "Land acquisition",
		Type:    entities.ExpenditureTypeHardCost,
		SubType: entities.ExpenditureSubTypeParent,
	}, time.Now().UTC()); err != nil {
		t.Fatalf("create expenditure failed: %v", err)
	}

	cascade, err := store.DeleteProject(context.Background(), "proj_1", time.Now().UTC())
	if err != nil {
		t.Fatalf("delete project failed: %v", err)
	}
	if len(cascade.Members) != 2 || len(cascade.Expenditures) != 1 {
		t.Fatalf("unexpected cascade: %+v", cascade)
	}

	if _, err := store.GetProject(context.Background(), "proj_1"); !errors.Is(err, domainerrors.ErrProjectNotFound) {
		t.Fatalf("project must be gone, got %v", err)
	}
	for _, account := range []string{"acc_1", "acc_2"} {
		projects, err := store.ListUserProjects(context.Background(), account)
		if err != nil {
			t.Fatalf("list user projects failed: %v", err)
		}
		if len(projects) != 0 {
			t.Fatalf("membership for %s must be removed, got %+v", account, projects)
		}
	}
	// Cascaded users can be deleted straight away.
	if err := store.DeleteUser(context.Background(), "acc_1"); err != nil {
		t.Fatalf("delete cascaded user failed: %v", err)
	}
}

func TestDeleteProjectRejectsCompletedProject(t *testing.T) {
	store := testStore()
	now := time.Now().UTC()
	_, err := store.CreateProject(context.Background(), "admin_1", "proj_1", ports.CreateProjectInput{
		Title:          "Nearly done",
		CompletionDate: now.Add(time.Hour),
	}, now)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	_, err = store.DeleteProject(context.Background(), "proj_1", now.Add(2*time.Hour))
	if !errors.Is(err, domainerrors.ErrCannotDeleteCompletedProject) {
		t.Fatalf("expected completed-project guard, got %v", err)
	}
}

func TestCreateExpenditureParentChildRules(t *testing.T) {
	store := testStore()
	createProject(t, store, "proj_1")

	_, err := store.CreateExpenditure(context.Background(), "admin_1", "proj_1", "exp_parent", ports.CreateExpenditureInput{
		Name:    "Construction",
		Type:    entities.ExpenditureTypeHardCost,
		SubType: entities.ExpenditureSubTypeParent,
	}, time.Now().UTC())
	if err != nil {
		t.Fatalf("create parent failed: %v", err)
	}

	_, err = store.CreateExpenditure(context.Background(), "admin_1", "proj_1", "exp_child", ports.CreateExpenditureInput{
		Name:     "Foundations",
		Type:     entities.ExpenditureTypeHardCost,
		SubType:  entities.ExpenditureSubTypeChild,
		ParentID: "exp_parent",
	}, time.Now().UTC())
	if err != nil {
		t.Fatalf("create child failed: %v", err)
	}

	_, err = store.CreateExpenditure(context.Background(), "admin_1", "proj_1", "exp_bad", ports.CreateExpenditureInput{
		Name:     "Nested parent",
		Type:     entities.ExpenditureTypeHardCost,
		SubType:  entities.ExpenditureSubTypeParent,
		ParentID: "exp_parent",
	}, time.Now().UTC())
	if !errors.Is(err, domainerrors.ErrCannotCreateParentExpenditure) {
		t.Fatalf("expected parent-under-parent rejection, got %v", err)
	}

	_, err = store.CreateExpenditure(context.Background(), "admin_1", "proj_1", "exp_orphan", ports.CreateExpenditureInput{
		Name:     "Orphan",
		Type:     entities.ExpenditureTypeSoftCost,
		SubType:  entities.ExpenditureSubTypeChild,
		ParentID: "exp_missing",
	}, time.Now().UTC())
	if !errors.Is(err, domainerrors.ErrExpenditureNotFound) {
		t.Fatalf("expected missing parent rejection, got %v", err)
	}
}

func TestCreateExpenditureEnforcesChildCapacity(t *testing.T) {
	store := testStore()
	limits := ports.DefaultLimits()
	createProject(t, store, "proj_1")

	if _, err := store.CreateExpenditure(context.Background(), "admin_1", "proj_1", "exp_parent", ports.CreateExpenditureInput{
		Name:    "Construction",
		Type:    entities.ExpenditureTypeHardCost,
		SubType: entities.ExpenditureSubTypeParent,
	}, time.Now().UTC()); err != nil {
		t.Fatalf("create parent failed: %v", err)
	}

	for i := 0; i < limits.MaxChildrenPerExpenditure; i++ {
		_, err := store.CreateExpenditure(context.Background(), "admin_1", "proj_1", fmt.Sprintf("exp_child_%d", i), ports.CreateExpenditureInput{
			Name:     fmt.Sprintf("Line %d", i),
			Type:     entities.ExpenditureTypeHardCost,
			SubType:  entities.ExpenditureSubTypeChild,
			ParentID: "exp_parent",
		}, time.Now().UTC())
		if err != nil {
			t.Fatalf("create child %d failed: %v", i, err)
		}
	}

	_, err := store.CreateExpenditure(context.Background(), "admin_1", "proj_1", "exp_overflow", ports.CreateExpenditureInput{
		Name:     "One too many",
		Type:     entities.ExpenditureTypeHardCost,
		SubType:  entities.ExpenditureSubTypeChild,
		ParentID: "exp_parent",
	}, time.Now().UTC())
	if !errors.Is(err, domainerrors.ErrMaxChildrenPerExpenditureReached) {
		t.Fatalf("expected child capacity, got %v", err)
	}
}

func TestAdministratorSetLifecycle(t *testing.T) {
	store := testStore()

	if err := store.AddAdministrator(context.Background(), "acc_admin"); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if err := store.AddAdministrator(context.Background(), "acc_admin"); !errors.Is(err, domainerrors.ErrUserAlreadyHasRole) {
		t.Fatalf("expected duplicate rejection, got %v", err)
	}

	admins, err := store.ListAdministrators(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(admins) != 1 || admins[0] != "acc_admin" {
		t.Fatalf("unexpected administrators: %+v", admins)
	}

	if err := store.RemoveAdministrator(context.Background(), "acc_admin"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	if err := store.RemoveAdministrator(context.Background(), "acc_admin"); !errors.Is(err, domainerrors.ErrCannotRemoveAdminRole) {
		t.Fatalf("expected missing admin rejection, got %v", err)
	}
}

func TestGlobalScopeLifecycle(t *testing.T) {
	store := testStore()

	if _, err := store.GlobalScope(context.Background()); !errors.Is(err, domainerrors.ErrGlobalScopeNotSet) {
		t.Fatalf("expected unset scope, got %v", err)
	}
	if err := store.InitialSetup(context.Background(), "scope_1"); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	if err := store.InitialSetup(context.Background(), "scope_2"); !errors.Is(err, domainerrors.ErrGlobalScopeAlreadySet) {
		t.Fatalf("expected already set, got %v", err)
	}

	scopeID, err := store.GlobalScope(context.Background())
	if err != nil {
		t.Fatalf("read scope failed: %v", err)
	}
	if scopeID != "scope_1" {
		t.Fatalf("expected scope_1, got %s", scopeID)
	}
}
