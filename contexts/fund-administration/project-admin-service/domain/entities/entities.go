package entities

import (
	"strings"
	"time"

	domainerrors "fundadmin/contexts/fund-administration/project-admin-service/domain/errors"
)

// Role names mirror the catalog registered with the role authority at
// initial setup. Administrator is process-wide; the rest are per-project.
const (
	RoleAdministrator  = "Administrator"
	RoleDeveloper      = "Developer"
	RoleInvestor       = "Investor"
	RoleIssuer         = "Issuer"
	RoleRegionalCenter = "RegionalCenter"
)

// Roles returns the full role catalog in registration order.
func Roles() []string {
	return []string{
		RoleAdministrator,
		RoleDeveloper,
		RoleInvestor,
		RoleIssuer,
		RoleRegionalCenter,
	}
}

func IsValidRole(role string) bool {
	switch role {
	case RoleAdministrator, RoleDeveloper, RoleInvestor, RoleIssuer, RoleRegionalCenter:
		return true
	default:
		return false
	}
}

// IsAssignableRole reports whether a role may be granted through project
// assignment. Administrator is excluded: it is managed only by the sudo pair.
func IsAssignableRole(role string) bool {
	return IsValidRole(role) && role != RoleAdministrator
}

// CanonicalRole maps a case-insensitive spelling to its catalog constant.
// ok is false for names outside the catalog; callers keep the raw value in
// that case so validation reports on what was actually sent.
func CanonicalRole(raw string) (string, bool) {
	for _, role := range Roles() {
		if strings.EqualFold(raw, role) {
			return role, true
		}
	}
	return "", false
}

const (
	ExpenditureTypeHardCost    = "HardCost"
	ExpenditureTypeSoftCost    = "SoftCost"
	ExpenditureTypeOperational = "Operational"
	ExpenditureTypeOthers      = "Others"
)

const (
	ExpenditureSubTypeParent = "Parent"
	ExpenditureSubTypeChild  = "Child"
)

func IsValidExpenditureType(expenditureType string) bool {
	switch expenditureType {
	case ExpenditureTypeHardCost, ExpenditureTypeSoftCost, ExpenditureTypeOperational, ExpenditureTypeOthers:
		return true
	default:
		return false
	}
}

func IsValidExpenditureSubType(subType string) bool {
	return subType == ExpenditureSubTypeParent || subType == ExpenditureSubTypeChild
}

// Document is one entry of a user's bounded document bundle.
type Document struct {
	Title string
	CID   string
}

// AuditTrail records who touched a record and when.
type AuditTrail struct {
	CreatedBy  string
	CreatedAt  time.Time
	ModifiedBy string
	ModifiedAt time.Time
}

// UserProfile exists only for accounts that were explicitly registered.
type UserProfile struct {
	Account   string
	Name      string
	ImageCID  string
	Email     string
	Documents []Document
	Audit     AuditTrail
}

// Project is keyed by a 32-byte identifier carried as 64-char lowercase hex.
type Project struct {
	ProjectID      string
	Title          string
	Description    string
	ImageCID       string
	Address        string
	CreationDate   time.Time
	CompletionDate time.Time
	Owner          string
	Audit          AuditTrail
}

// Closed reports whether the project reached its completion date. A closed
// project rejects structural edits and deletion.
func (p Project) Closed(now time.Time) bool {
	return !p.CompletionDate.After(now)
}

// ValidateProjectDates enforces the lifecycle date invariants shared by every
// repository implementation: creation may not sit in the future, completion
// may not sit in the past, and completion must strictly follow creation.
func ValidateProjectDates(creation time.Time, completion time.Time, now time.Time) error {
	if creation.After(now) {
		return domainerrors.ErrCreationDateMustBeInThePast
	}
	if !completion.After(now) {
		return domainerrors.ErrDateCannotBeInThePast
	}
	if !completion.After(creation) {
		return domainerrors.ErrCompletionDateMustBeLater
	}
	return nil
}

// Expenditure is a budget line item owned by exactly one project. A non-empty
// ParentID nests it under another expenditure of the same project.
type Expenditure struct {
	ExpenditureID  string
	ProjectID      string
	Name           string
	Type           string
	SubType        string
	BudgetAmount   *uint64
	NAICSCode      *uint32
	JobsMultiplier *uint32
	ParentID       string
	Audit          AuditTrail
}
