package memory

import (
	"context"
	"strings"
	"sync"

	domainerrors "fundadmin/contexts/identity-access/rbac-service/domain/errors"
	"fundadmin/contexts/identity-access/rbac-service/ports"
)

// Store keeps scope definitions and role assignments in memory.
type Store struct {
	mu sync.RWMutex

	rolesByScope    map[string][]string
	accountsByScope map[string]map[string][]string
}

func NewStore() *Store {
	return &Store{
		rolesByScope:    make(map[string][]string),
		accountsByScope: make(map[string]map[string][]string),
	}
}

func (s *Store) CreateScope(ctx context.Context, scopeID string, roles []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	scopeID = strings.TrimSpace(scopeID)
	if scopeID == "" || len(roles) == 0 {
		return domainerrors.ErrInvalidRequest
	}
	if _, exists := s.rolesByScope[scopeID]; exists {
		return domainerrors.ErrScopeAlreadyExists
	}

	s.rolesByScope[scopeID] = append([]string(nil), roles...)
	s.accountsByScope[scopeID] = make(map[string][]string)
	return nil
}

func (s *Store) HasRole(ctx context.Context, account string, scopeID string, role string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, exists := s.rolesByScope[scopeID]; !exists {
		return false, domainerrors.ErrScopeNotFound
	}
	return containsString(s.accountsByScope[scopeID][role], account), nil
}

func (s *Store) AssignRole(ctx context.Context, account string, scopeID string, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if strings.TrimSpace(account) == "" {
		return domainerrors.ErrInvalidRequest
	}
	roles, exists := s.rolesByScope[scopeID]
	if !exists {
		return domainerrors.ErrScopeNotFound
	}
	if !containsString(roles, role) {
		return domainerrors.ErrRoleNotDefined
	}
	if containsString(s.accountsByScope[scopeID][role], account) {
		return domainerrors.ErrRoleAlreadyAssigned
	}

	s.accountsByScope[scopeID][role] = append(s.accountsByScope[scopeID][role], account)
	return nil
}

func (s *Store) RemoveRole(ctx context.Context, account string, scopeID string, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.rolesByScope[scopeID]; !exists {
		return domainerrors.ErrScopeNotFound
	}
	if !containsString(s.accountsByScope[scopeID][role], account) {
		return domainerrors.ErrRoleNotAssigned
	}

	s.accountsByScope[scopeID][role] = removeString(s.accountsByScope[scopeID][role], account)
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
	return filtered
}

var _ ports.RoleBasedAccessControl = (*Store)(nil)
