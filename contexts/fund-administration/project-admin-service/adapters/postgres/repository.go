package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"fundadmin/contexts/fund-administration/project-admin-service/domain/entities"
	domainerrors "fundadmin/contexts/fund-administration/project-admin-service/domain/errors"
	"fundadmin/contexts/fund-administration/project-admin-service/ports"
)

const (
	outboxStatusPending = "pending"
	outboxStatusSent    = "sent"
)

// Repository is the durable ledger adapter. Every operation runs inside one
// gorm transaction, which gives the same all-or-nothing guarantee the memory
// store gets from its single lock.
type Repository struct {
	db     *gorm.DB
	limits ports.Limits
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, limits ports.Limits, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		limits: limits,
		logger: logger,
	}
}

func (r *Repository) InitialSetup(ctx context.Context, scopeID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing scopeModel
		err := tx.First(&existing, "id = ?", 1).Error
		if err == nil {
			return domainerrors.ErrGlobalScopeAlreadySet
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return r.logError("fund_admin_repo_initial_setup_failed", err)
		}
		return tx.Create(&scopeModel{ID: 1, ScopeID: scopeID}).Error
	})
}

func (r *Repository) GlobalScope(ctx context.Context) (string, error) {
	var row scopeModel
	err := r.db.WithContext(ctx).First(&row, "id = ?", 1).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domainerrors.ErrGlobalScopeNotSet
		}
		return "", r.logError("fund_admin_repo_global_scope_failed", err)
	}
	return row.ScopeID, nil
}

func (r *Repository) RegisterUser(
	ctx context.Context,
	actor string,
	account string,
	input ports.RegisterUserInput,
	now time.Time,
) (entities.UserProfile, error) {
	if len(input.Documents) > r.limits.MaxDocumentsPerUser {
		return entities.UserProfile{}, domainerrors.ErrMaxDocumentsReached
	}

	now = now.UTC()
	profile := entities.UserProfile{
		Account:   account,
		Name:      input.Name,
		ImageCID:  input.ImageCID,
		Email:     input.Email,
		Documents: input.Documents,
		Audit: entities.AuditTrail{
			CreatedBy:  actor,
			CreatedAt:  now,
			ModifiedBy: actor,
			ModifiedAt: now,
		},
	}
	row := userModelFromEntity(profile)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return entities.UserProfile{}, domainerrors.ErrUserAlreadyRegistered
		}
		return entities.UserProfile{}, r.logError("fund_admin_repo_register_user_failed", err, "account", account)
	}
	return profile, nil
}

func (r *Repository) UpdateUser(
	ctx context.Context,
	actor string,
	account string,
	input ports.UpdateUserInput,
	now time.Time,
) (entities.UserProfile, error) {
	var updated entities.UserProfile
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row userModel
		if err := tx.First(&row, "account = ?", account).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrUserNotRegistered
			}
			return err
		}
		if input.Documents != nil && len(*input.Documents) > r.limits.MaxDocumentsPerUser {
			return domainerrors.ErrMaxDocumentsReached
		}

		if input.Name != nil {
			row.Name = *input.Name
		}
		if input.ImageCID != nil {
			row.ImageCID = *input.ImageCID
		}
		if input.Email != nil {
			row.Email = *input.Email
		}
		if input.Documents != nil {
			documents, err := json.Marshal(*input.Documents)
			if err != nil {
				return err
			}
			row.Documents = documents
		}
		row.ModifiedBy = actor
		row.ModifiedAt = now.UTC()

		if err := tx.Save(&row).Error; err != nil {
			return err
		}
		updated = row.toEntity()
		return nil
	})
	if err != nil {
		return entities.UserProfile{}, err
	}
	return updated, nil
}

func (r *Repository) DeleteUser(ctx context.Context, account string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row userModel
		if err := tx.First(&row, "account = ?", account).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrUserNotRegistered
			}
			return err
		}
		var memberships int64
		if err := tx.Model(&membershipModel{}).Where("account = ?", account).Count(&memberships).Error; err != nil {
			return err
		}
		if memberships > 0 {
			return domainerrors.ErrCannotDeleteUserWithAssignedProjects
		}
		return tx.Delete(&userModel{}, "account = ?", account).Error
	})
}

func (r *Repository) GetUser(ctx context.Context, account string) (entities.UserProfile, error) {
	var row userModel
	err := r.db.WithContext(ctx).First(&row, "account = ?", account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.UserProfile{}, domainerrors.ErrUserNotRegistered
		}
		return entities.UserProfile{}, r.logError("fund_admin_repo_get_user_failed", err, "account", account)
	}
	return row.toEntity(), nil
}

func (r *Repository) CreateProject(
	ctx context.Context,
	actor string,
	projectID string,
	input ports.CreateProjectInput,
	now time.Time,
) (entities.Project, error) {
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
	row := projectModelFromEntity(project)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return entities.Project{}, domainerrors.ErrProjectIDAlreadyInUse
		}
		return entities.Project{}, r.logError("fund_admin_repo_create_project_failed", err, "project_id", projectID)
	}
	return project, nil
}

func (r *Repository) EditProject(
	ctx context.Context,
	actor string,
	projectID string,
	input ports.EditProjectInput,
	now time.Time,
) (entities.Project, error) {
	var updated entities.Project
	now = now.UTC()
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row projectModel
		if err := tx.First(&row, "project_id = ?", projectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrProjectNotFound
			}
			return err
		}
		project := row.toEntity()
		if project.Closed(now) {
			return domainerrors.ErrCannotEditCompletedProject
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
				return err
			}
			row.CreationDate = creation
			row.CompletionDate = completion
		}
		if input.Title != nil {
			row.Title = *input.Title
		}
		if input.Description != nil {
			row.Description = *input.Description
		}
		if input.ImageCID != nil {
			row.ImageCID = *input.ImageCID
		}
		if input.Address != nil {
			row.Address = *input.Address
		}
		row.ModifiedBy = actor
		row.ModifiedAt = now

		if err := tx.Save(&row).Error; err != nil {
			return err
		}
		updated = row.toEntity()
		return nil
	})
	if err != nil {
		return entities.Project{}, err
	}
	return updated, nil
}

func (r *Repository) DeleteProject(ctx context.Context, projectID string, now time.Time) (ports.ProjectCascade, error) {
	var cascade ports.ProjectCascade
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row projectModel
		if err := tx.First(&row, "project_id = ?", projectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrProjectNotFound
			}
			return err
		}
		if row.toEntity().Closed(now.UTC()) {
			return domainerrors.ErrCannotDeleteCompletedProject
		}

		// Gather affected keys first; the removals below ride the same
		// transaction, so the cascade is atomic.
		var memberships []membershipModel
		if err := tx.Where("project_id = ?", projectID).Order("created_at").Find(&memberships).Error; err != nil {
			return err
		}
		var expenditures []expenditureModel
		if err := tx.Where("project_id = ?", projectID).Order("created_at").Find(&expenditures).Error; err != nil {
			return err
		}
		for _, membership := range memberships {
			cascade.Members = append(cascade.Members, membership.Account)
		}
		for _, expenditure := range expenditures {
			cascade.Expenditures = append(cascade.Expenditures, expenditure.ExpenditureID)
		}

		if err := tx.Delete(&membershipModel{}, "project_id = ?", projectID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&expenditureModel{}, "project_id = ?", projectID).Error; err != nil {
			return err
		}
		return tx.Delete(&projectModel{}, "project_id = ?", projectID).Error
	})
	if err != nil {
		return ports.ProjectCascade{}, err
	}
	return cascade, nil
}

func (r *Repository) GetProject(ctx context.Context, projectID string) (entities.Project, error) {
	var row projectModel
	err := r.db.WithContext(ctx).First(&row, "project_id = ?", projectID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Project{}, domainerrors.ErrProjectNotFound
		}
		return entities.Project{}, r.logError("fund_admin_repo_get_project_failed", err, "project_id", projectID)
	}
	return row.toEntity(), nil
}

func (r *Repository) AssignUser(ctx context.Context, account string, projectID string, role string) error {
	if !entities.IsAssignableRole(role) {
		if role == entities.RoleAdministrator {
			return domainerrors.ErrCannotAddAdminRole
		}
		return domainerrors.ErrInvalidRequest
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&userModel{}, "account = ?", account).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrUserNotRegistered
			}
			return err
		}
		if err := tx.First(&projectModel{}, "project_id = ?", projectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrProjectNotFound
			}
			return err
		}

		var admins int64
		if err := tx.Model(&administratorModel{}).Where("account = ?", account).Count(&admins).Error; err != nil {
			return err
		}
		if admins > 0 {
			return domainerrors.ErrUserCannotHaveMoreThanOneRole
		}

		var existing int64
		if err := tx.Model(&membershipModel{}).
			Where("project_id = ? AND account = ?", projectID, account).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return domainerrors.ErrUserAlreadyAssignedToProject
		}

		var roleCount int64
		if err := tx.Model(&membershipModel{}).
			Where("project_id = ? AND role = ?", projectID, role).
			Count(&roleCount).Error; err != nil {
			return err
		}
		if err := checkRoleCapacity(r.limits, role, int(roleCount)); err != nil {
			return err
		}

		var projectMembers int64
		if err := tx.Model(&membershipModel{}).Where("project_id = ?", projectID).Count(&projectMembers).Error; err != nil {
			return err
		}
		if int(projectMembers) >= r.limits.MaxUsersPerProject {
			return domainerrors.ErrMaxUsersPerProjectReached
		}

		var userProjects int64
		if err := tx.Model(&membershipModel{}).Where("account = ?", account).Count(&userProjects).Error; err != nil {
			return err
		}
		if int(userProjects) >= r.limits.MaxProjectsPerUser {
			return domainerrors.ErrMaxProjectsPerUserReached
		}

		row := membershipModel{
			ProjectID: projectID,
			Account:   account,
			Role:      role,
			CreatedAt: time.Now().UTC(),
		}
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrUserAlreadyAssignedToProject
			}
			return err
		}
		return nil
	})
}

func (r *Repository) UnassignUser(ctx context.Context, account string, projectID string, role string) error {
	if role == entities.RoleAdministrator {
		return domainerrors.ErrCannotRemoveAdminRole
	}
	if !entities.IsValidRole(role) {
		return domainerrors.ErrInvalidRequest
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&membershipModel{}, "project_id = ? AND account = ? AND role = ?", projectID, account, role)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrUserNotAssignedToProject
		}
		return nil
	})
}

func (r *Repository) ListProjectMembers(ctx context.Context, projectID string) ([]ports.ProjectMember, error) {
	if err := r.db.WithContext(ctx).First(&projectModel{}, "project_id = ?", projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrProjectNotFound
		}
		return nil, r.logError("fund_admin_repo_list_members_failed", err, "project_id", projectID)
	}

	var rows []membershipModel
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("role, created_at").
		Find(&rows).Error; err != nil {
		return nil, r.logError("fund_admin_repo_list_members_failed", err, "project_id", projectID)
	}

	members := make([]ports.ProjectMember, 0, len(rows))
	for _, row := range rows {
		members = append(members, ports.ProjectMember{Account: row.Account, Role: row.Role})
	}
	return members, nil
}

func (r *Repository) ListUserProjects(ctx context.Context, account string) ([]string, error) {
	if err := r.db.WithContext(ctx).First(&userModel{}, "account = ?", account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrUserNotRegistered
		}
		return nil, r.logError("fund_admin_repo_list_user_projects_failed", err, "account", account)
	}

	var rows []membershipModel
	if err := r.db.WithContext(ctx).
		Where("account = ?", account).
		Order("created_at").
		Find(&rows).Error; err != nil {
		return nil, r.logError("fund_admin_repo_list_user_projects_failed", err, "account", account)
	}

	projects := make([]string, 0, len(rows))
	for _, row := range rows {
		projects = append(projects, row.ProjectID)
	}
	return projects, nil
}

func (r *Repository) AddAdministrator(ctx context.Context, account string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var memberships int64
		if err := tx.Model(&membershipModel{}).Where("account = ?", account).Count(&memberships).Error; err != nil {
			return err
		}
		if memberships > 0 {
			return domainerrors.ErrUserCannotHaveMoreThanOneRole
		}

		row := administratorModel{Account: account, CreatedAt: time.Now().UTC()}
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrUserAlreadyHasRole
			}
			return err
		}
		return nil
	})
}

func (r *Repository) RemoveAdministrator(ctx context.Context, account string) error {
	result := r.db.WithContext(ctx).Delete(&administratorModel{}, "account = ?", account)
	if result.Error != nil {
		return r.logError("fund_admin_repo_remove_administrator_failed", result.Error, "account", account)
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrCannotRemoveAdminRole
	}
	return nil
}

func (r *Repository) ListAdministrators(ctx context.Context) ([]string, error) {
	var rows []administratorModel
	if err := r.db.WithContext(ctx).Order("created_at").Find(&rows).Error; err != nil {
		return nil, r.logError("fund_admin_repo_list_administrators_failed", err)
	}
	accounts := make([]string, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, row.Account)
	}
	return accounts, nil
}

func (r *Repository) CreateExpenditure(
	ctx context.Context,
	actor string,
	projectID string,
	expenditureID string,
	input ports.CreateExpenditureInput,
	now time.Time,
) (entities.Expenditure, error) {
	var created entities.Expenditure
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&projectModel{}, "project_id = ?", projectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrProjectNotFound
			}
			return err
		}

		if input.ParentID != "" {
			var parent expenditureModel
			if err := tx.First(&parent, "expenditure_id = ?", input.ParentID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domainerrors.ErrExpenditureNotFound
				}
				return err
			}
			if parent.ProjectID != projectID {
				return domainerrors.ErrInvalidRequest
			}
			if input.SubType == entities.ExpenditureSubTypeParent {
				return domainerrors.ErrCannotCreateParentExpenditure
			}
			var children int64
			if err := tx.Model(&expenditureModel{}).Where("parent_id = ?", input.ParentID).Count(&children).Error; err != nil {
				return err
			}
			if int(children) >= r.limits.MaxChildrenPerExpenditure {
				return domainerrors.ErrMaxChildrenPerExpenditureReached
			}
		}

		var total int64
		if err := tx.Model(&expenditureModel{}).Where("project_id = ?", projectID).Count(&total).Error; err != nil {
			return err
		}
		if int(total) >= r.limits.MaxExpendituresPerProject {
			return domainerrors.ErrMaxExpendituresPerProjectReached
		}

		now = now.UTC()
		created = entities.Expenditure{
			ExpenditureID:  expenditureID,
			ProjectID:      projectID,
			Name:           input.Name,
			Type:           input.Type,
			SubType:        input.SubType,
			BudgetAmount:   input.BudgetAmount,
			NAICSCode:      input.NAICSCode,
			JobsMultiplier: input.JobsMultiplier,
			ParentID:       input.ParentID,
			Audit: entities.AuditTrail{
				CreatedBy:  actor,
				CreatedAt:  now,
				ModifiedBy: actor,
				ModifiedAt: now,
			},
		}
		row := expenditureModelFromEntity(created)
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return domainerrors.ErrExpenditureIDAlreadyInUse
			}
			return err
		}
		return nil
	})
	if err != nil {
		return entities.Expenditure{}, err
	}
	return created, nil
}

func (r *Repository) ListProjectExpenditures(ctx context.Context, projectID string) ([]entities.Expenditure, error) {
	if err := r.db.WithContext(ctx).First(&projectModel{}, "project_id = ?", projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrProjectNotFound
		}
		return nil, r.logError("fund_admin_repo_list_expenditures_failed", err, "project_id", projectID)
	}

	var rows []expenditureModel
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at").
		Find(&rows).Error; err != nil {
		return nil, r.logError("fund_admin_repo_list_expenditures_failed", err, "project_id", projectID)
	}

	items := make([]entities.Expenditure, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

// Publish writes the signal as a pending outbox row; the relay worker moves
// it onto the bus. Implements ports.EventPublisher for durable deployments.
func (r *Repository) Publish(ctx context.Context, event ports.EventEnvelope) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	row := outboxModel{
		ID:        event.EventID,
		EventType: event.EventType,
		Payload:   payload,
		Status:    outboxStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	create := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoNothing: true,
	}).Create(&row)
	if create.Error != nil {
		return r.logError("fund_admin_repo_outbox_write_failed", create.Error, "event_id", event.EventID)
	}
	return nil
}

func (r *Repository) ListPendingOutbox(ctx context.Context, limit int) ([]ports.OutboxMessage, error) {
	if limit <= 0 {
		limit = 100
	}
	var rows []outboxModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", outboxStatusPending).
		Order("created_at").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, r.logError("fund_admin_repo_outbox_list_failed", err)
	}

	messages := make([]ports.OutboxMessage, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, ports.OutboxMessage{
			OutboxID:  row.ID,
			EventType: row.EventType,
			Payload:   row.Payload,
			CreatedAt: row.CreatedAt,
		})
	}
	return messages, nil
}

func (r *Repository) MarkOutboxSent(ctx context.Context, outboxID string, sentAt time.Time) error {
	sentAt = sentAt.UTC()
	return r.db.WithContext(ctx).Model(&outboxModel{}).
		Where("id = ?", outboxID).
		Updates(map[string]any{
			"status":  outboxStatusSent,
			"sent_at": &sentAt,
		}).Error
}

func checkRoleCapacity(limits ports.Limits, role string, current int) error {
	switch role {
	case entities.RoleDeveloper:
		if current >= limits.MaxDevelopersPerProject {
			return domainerrors.ErrMaxDevelopersPerProjectReached
		}
	case entities.RoleInvestor:
		if current >= limits.MaxInvestorsPerProject {
			return domainerrors.ErrMaxInvestorsPerProjectReached
		}
	case entities.RoleIssuer:
		if current >= limits.MaxIssuersPerProject {
			return domainerrors.ErrMaxIssuersPerProjectReached
		}
	case entities.RoleRegionalCenter:
		if current >= limits.MaxRegionalCenterPerProject {
			return domainerrors.ErrMaxRegionalCenterPerProjectReached
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "fund-administration/project-admin-service",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("postgres repository operation failed", fields...)
	return err
}

var _ ports.Repository = (*Repository)(nil)
var _ ports.OutboxRepository = (*Repository)(nil)
var _ ports.EventPublisher = (*Repository)(nil)
