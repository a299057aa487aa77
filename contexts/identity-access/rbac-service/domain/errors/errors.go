package errors

import "errors"

var (
	ErrInvalidRequest      = errors.New("invalid request")
	ErrScopeNotFound       = errors.New("scope not found")
	ErrScopeAlreadyExists  = errors.New("scope already exists")
	ErrRoleNotDefined      = errors.New("role is not defined in the scope")
	ErrRoleAlreadyAssigned = errors.New("role is already assigned to the account")
	ErrRoleNotAssigned     = errors.New("role is not assigned to the account")
)
