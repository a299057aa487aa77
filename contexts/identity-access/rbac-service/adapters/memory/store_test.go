package memory

import (
	"context"
	"errors"
	"testing"

	domainerrors "fundadmin/contexts/identity-access/rbac-service/domain/errors"
)

func TestScopeCreationIsExclusive(t *testing.T) {
	store := NewStore()

	if err := store.CreateScope(context.Background(), "scope_1", []string{"administrator"}); err != nil {
		t.Fatalf("create scope failed: %v", err)
	}
	if err := store.CreateScope(context.Background(), "scope_1", []string{"administrator"}); !errors.Is(err, domainerrors.ErrScopeAlreadyExists) {
		t.Fatalf("expected duplicate scope rejection, got %v", err)
	}
}

func TestAssignRoleRequiresDefinedRole(t *testing.T) {
	store := NewStore()
	if err := store.CreateScope(context.Background(), "scope_1", []string{"administrator", "developer"}); err != nil {
		t.Fatalf("create scope failed: %v", err)
	}

	if err := store.AssignRole(context.Background(), "acc_1", "scope_1", "auditor"); !errors.Is(err, domainerrors.ErrRoleNotDefined) {
		t.Fatalf("expected undefined role rejection, got %v", err)
	}
	if err := store.AssignRole(context.Background(), "acc_1", "scope_missing", "developer"); !errors.Is(err, domainerrors.ErrScopeNotFound) {
		t.Fatalf("expected missing scope rejection, got %v", err)
	}
}

func TestRoleAssignmentRoundTrip(t *testing.T) {
	store := NewStore()
	if err := store.CreateScope(context.Background(), "scope_1", []string{"administrator"}); err != nil {
		t.Fatalf("create scope failed: %v", err)
	}

	if err := store.AssignRole(context.Background(), "acc_1", "scope_1", "administrator"); err != nil {
		t.Fatalf("assign failed: %v", err)
	}
	if err := store.AssignRole(context.Background(), "acc_1", "scope_1", "administrator"); !errors.Is(err, domainerrors.ErrRoleAlreadyAssigned) {
		t.Fatalf("expected duplicate assignment rejection, got %v", err)
	}

	has, err := store.HasRole(context.Background(), "acc_1", "scope_1", "administrator")
	if err != nil {
		t.Fatalf("has role failed: %v", err)
	}
	if !has {
		t.Fatal("expected role to be assigned")
	}

	if err := store.RemoveRole(context.Background(), "acc_1", "scope_1", "administrator"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	has, err = store.HasRole(context.Background(), "acc_1", "scope_1", "administrator")
	if err != nil {
		t.Fatalf("has role failed: %v", err)
	}
	if has {
		t.Fatal("expected role to be removed")
	}
	if err := store.RemoveRole(context.Background(), "acc_1", "scope_1", "administrator"); !errors.Is(err, domainerrors.ErrRoleNotAssigned) {
		t.Fatalf("expected missing assignment rejection, got %v", err)
	}
}
