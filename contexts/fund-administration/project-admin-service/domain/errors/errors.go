package errors

import "errors"

var (
	ErrInvalidRequest = errors.New("invalid request")

	// Authorization failures are distinct from domain validation outcomes
	// and are always surfaced before any domain check runs.
	ErrNotAuthorized         = errors.New("caller is not authorized")
	ErrRequiresRootOrigin    = errors.New("operation requires the root origin")
	ErrGlobalScopeNotSet     = errors.New("global scope is not set")
	ErrGlobalScopeAlreadySet = errors.New("global scope is already set")

	ErrUserNotRegistered     = errors.New("user is not registered")
	ErrUserAlreadyRegistered = errors.New("user is already registered")
	ErrMaxDocumentsReached   = errors.New("max number of documents per user reached")

	ErrProjectNotFound              = errors.New("project not found")
	ErrProjectIDAlreadyInUse        = errors.New("project id is already in use")
	ErrDateCannotBeInThePast        = errors.New("date cannot be in the past")
	ErrCreationDateMustBeInThePast  = errors.New("creation date must be in the past")
	ErrCompletionDateMustBeLater    = errors.New("completion date must be later than creation date")
	ErrCannotEditCompletedProject   = errors.New("cannot edit a completed project")
	ErrCannotDeleteCompletedProject = errors.New("cannot delete a completed project")

	ErrUserAlreadyAssignedToProject         = errors.New("user is already assigned to the project")
	ErrUserNotAssignedToProject             = errors.New("user is not assigned to the project")
	ErrUserCannotHaveMoreThanOneRole        = errors.New("user cannot have more than one role at the same time")
	ErrCannotAddAdminRole                   = errors.New("cannot add administrator role through project assignment")
	ErrCannotRegisterAdminRole              = errors.New("cannot register administrator role")
	ErrCannotRemoveAdminRole                = errors.New("cannot remove administrator role")
	ErrUserAlreadyHasRole                   = errors.New("user already has the role")
	ErrCannotDeleteUserWithAssignedProjects = errors.New("cannot delete a user with assigned projects")

	ErrMaxUsersPerProjectReached          = errors.New("max number of users per project reached")
	ErrMaxProjectsPerUserReached          = errors.New("max number of projects per user reached")
	ErrMaxDevelopersPerProjectReached     = errors.New("max number of developers per project reached")
	ErrMaxInvestorsPerProjectReached      = errors.New("max number of investors per project reached")
	ErrMaxIssuersPerProjectReached        = errors.New("max number of issuers per project reached")
	ErrMaxRegionalCenterPerProjectReached = errors.New("max number of regional centers per project reached")

	ErrExpenditureNotFound              = errors.New("expenditure not found")
	ErrExpenditureIDAlreadyInUse        = errors.New("expenditure id is already in use")
	ErrCannotCreateParentExpenditure    = errors.New("cannot create a parent expenditure under another expenditure")
	ErrMaxExpendituresPerProjectReached = errors.New("max number of expenditures per project reached")
	ErrMaxChildrenPerExpenditureReached = errors.New("max number of children per expenditure reached")
)
