package httpadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"fundadmin/contexts/fund-administration/project-admin-service/application"
	"fundadmin/contexts/fund-administration/project-admin-service/domain/entities"
	domainerrors "fundadmin/contexts/fund-administration/project-admin-service/domain/errors"
	"fundadmin/contexts/fund-administration/project-admin-service/ports"
	httptransport "fundadmin/contexts/fund-administration/project-admin-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

func (h Handler) InitialSetupHandler(ctx context.Context, caller string) (httptransport.InitialSetupResponse, error) {
	scopeID, err := h.Service.InitialSetup(ctx, strings.TrimSpace(caller))
	if err != nil {
		return httptransport.InitialSetupResponse{}, err
	}
	resp := httptransport.InitialSetupResponse{Status: "success"}
	resp.Data.ScopeID = scopeID
	return resp, nil
}

func (h Handler) AddAdministratorHandler(
	ctx context.Context,
	caller string,
	req httptransport.AdministratorRequest,
) (httptransport.AdministratorResponse, error) {
	account := strings.TrimSpace(req.Account)
	if err := h.Service.SudoAddAdministrator(ctx, strings.TrimSpace(caller), account); err != nil {
		return httptransport.AdministratorResponse{}, err
	}
	resp := httptransport.AdministratorResponse{Status: "success"}
	resp.Data.Account = account
	return resp, nil
}

func (h Handler) RemoveAdministratorHandler(
	ctx context.Context,
	caller string,
	account string,
) (httptransport.AdministratorResponse, error) {
	account = strings.TrimSpace(account)
	if err := h.Service.SudoRemoveAdministrator(ctx, strings.TrimSpace(caller), account); err != nil {
		return httptransport.AdministratorResponse{}, err
	}
	resp := httptransport.AdministratorResponse{Status: "success"}
	resp.Data.Account = account
	return resp, nil
}

func (h Handler) ListAdministratorsHandler(ctx context.Context) (httptransport.ListAdministratorsResponse, error) {
	accounts, err := h.Service.ListAdministrators(ctx)
	if err != nil {
		return httptransport.ListAdministratorsResponse{}, err
	}
	resp := httptransport.ListAdministratorsResponse{Status: "success"}
	resp.Data.Administrators = append([]string(nil), accounts...)
	return resp, nil
}

func (h Handler) RegisterUserHandler(
	ctx context.Context,
	caller string,
	req httptransport.RegisterUserRequest,
) (httptransport.UserResponse, error) {
	profile, err := h.Service.RegisterUser(ctx, strings.TrimSpace(caller), strings.TrimSpace(req.Account), ports.RegisterUserInput{
		Name:      strings.TrimSpace(req.Name),
		ImageCID:  strings.TrimSpace(req.ImageCID),
		Email:     strings.TrimSpace(req.Email),
		Documents: documentsFromPayload(req.Documents),
	})
	if err != nil {
		return httptransport.UserResponse{}, err
	}
	return userResponse(profile), nil
}

func (h Handler) UpdateUserHandler(
	ctx context.Context,
	caller string,
	account string,
	req httptransport.UpdateUserRequest,
) (httptransport.UserResponse, error) {
	input := ports.UpdateUserInput{
		Name:     req.Name,
		ImageCID: req.ImageCID,
		Email:    req.Email,
	}
	if req.Documents != nil {
		documents := documentsFromPayload(*req.Documents)
		input.Documents = &documents
	}
	profile, err := h.Service.UpdateUser(ctx, strings.TrimSpace(caller), strings.TrimSpace(account), input)
	if err != nil {
		return httptransport.UserResponse{}, err
	}
	return userResponse(profile), nil
}

func (h Handler) DeleteUserHandler(
	ctx context.Context,
	caller string,
	account string,
) (httptransport.DeleteUserResponse, error) {
	account = strings.TrimSpace(account)
	if err := h.Service.DeleteUser(ctx, strings.TrimSpace(caller), account); err != nil {
		return httptransport.DeleteUserResponse{}, err
	}
	resp := httptransport.DeleteUserResponse{Status: "success"}
	resp.Data.Account = account
	return resp, nil
}

func (h Handler) GetUserHandler(ctx context.Context, account string) (httptransport.UserResponse, error) {
	profile, err := h.Service.GetUser(ctx, strings.TrimSpace(account))
	if err != nil {
		return httptransport.UserResponse{}, err
	}
	return userResponse(profile), nil
}

func (h Handler) CreateProjectHandler(
	ctx context.Context,
	caller string,
	req httptransport.CreateProjectRequest,
) (httptransport.ProjectResponse, error) {
	completion, err := parseDate(req.CompletionDate)
	if err != nil {
		return httptransport.ProjectResponse{}, err
	}
	project, err := h.Service.CreateProject(ctx, strings.TrimSpace(caller), ports.CreateProjectInput{
		Title:          strings.TrimSpace(req.Title),
		Description:    strings.TrimSpace(req.Description),
		ImageCID:       strings.TrimSpace(req.ImageCID),
		Address:        strings.TrimSpace(req.Address),
		CompletionDate: completion,
	})
	if err != nil {
		return httptransport.ProjectResponse{}, err
	}
	return projectResponse(project), nil
}

func (h Handler) UpdateProjectHandler(
	ctx context.Context,
	caller string,
	projectID string,
	req httptransport.UpdateProjectRequest,
) (httptransport.ProjectResponse, error) {
	input := ports.EditProjectInput{
		Title:       req.Title,
		Description: req.Description,
		ImageCID:    req.ImageCID,
		Address:     req.Address,
	}
	if req.CreationDate != nil {
		creation, err := parseDate(*req.CreationDate)
		if err != nil {
			return httptransport.ProjectResponse{}, err
		}
		input.CreationDate = &creation
	}
	if req.CompletionDate != nil {
		completion, err := parseDate(*req.CompletionDate)
		if err != nil {
			return httptransport.ProjectResponse{}, err
		}
		input.CompletionDate = &completion
	}
	project, err := h.Service.EditProject(ctx, strings.TrimSpace(caller), strings.TrimSpace(projectID), input)
	if err != nil {
		return httptransport.ProjectResponse{}, err
	}
	return projectResponse(project), nil
}

func (h Handler) DeleteProjectHandler(
	ctx context.Context,
	caller string,
	projectID string,
) (httptransport.DeleteProjectResponse, error) {
	projectID = strings.TrimSpace(projectID)
	cascade, err := h.Service.DeleteProject(ctx, strings.TrimSpace(caller), projectID)
	if err != nil {
		return httptransport.DeleteProjectResponse{}, err
	}
	resp := httptransport.DeleteProjectResponse{Status: "success"}
	resp.Data.ProjectID = projectID
	resp.Data.RemovedMembers = append([]string(nil), cascade.Members...)
	resp.Data.RemovedExpenditures = append([]string(nil), cascade.Expenditures...)
	return resp, nil
}

func (h Handler) GetProjectHandler(ctx context.Context, projectID string) (httptransport.ProjectResponse, error) {
	project, err := h.Service.GetProject(ctx, strings.TrimSpace(projectID))
	if err != nil {
		return httptransport.ProjectResponse{}, err
	}
	return projectResponse(project), nil
}

func (h Handler) AssignUserHandler(
	ctx context.Context,
	caller string,
	projectID string,
	req httptransport.AssignUserRequest,
) (httptransport.AssignUserResponse, error) {
	projectID = strings.TrimSpace(projectID)
	account := strings.TrimSpace(req.Account)
	role := canonicalRole(req.Role)
	if err := h.Service.AssignUser(ctx, strings.TrimSpace(caller), account, projectID, role); err != nil {
		return httptransport.AssignUserResponse{}, err
	}
	resp := httptransport.AssignUserResponse{Status: "success"}
	resp.Data.ProjectID = projectID
	resp.Data.Account = account
	resp.Data.Role = role
	return resp, nil
}

func (h Handler) UnassignUserHandler(
	ctx context.Context,
	caller string,
	projectID string,
	req httptransport.UnassignUserRequest,
) (httptransport.UnassignUserResponse, error) {
	projectID = strings.TrimSpace(projectID)
	account := strings.TrimSpace(req.Account)
	role := canonicalRole(req.Role)
	if err := h.Service.UnassignUser(ctx, strings.TrimSpace(caller), account, projectID, role); err != nil {
		return httptransport.UnassignUserResponse{}, err
	}
	resp := httptransport.UnassignUserResponse{Status: "success"}
	resp.Data.ProjectID = projectID
	resp.Data.Account = account
	resp.Data.Role = role
	return resp, nil
}

func (h Handler) ListProjectMembersHandler(ctx context.Context, projectID string) (httptransport.ProjectMembersResponse, error) {
	projectID = strings.TrimSpace(projectID)
	members, err := h.Service.ListProjectMembers(ctx, projectID)
	if err != nil {
		return httptransport.ProjectMembersResponse{}, err
	}
	resp := httptransport.ProjectMembersResponse{Status: "success"}
	resp.Data.ProjectID = projectID
	for _, member := range members {
		row := struct {
			Account string `json:"account"`
			Role    string `json:"role"`
		}{
			Account: member.Account,
			Role:    member.Role,
		}
		resp.Data.Members = append(resp.Data.Members, row)
	}
	return resp, nil
}

func (h Handler) ListUserProjectsHandler(ctx context.Context, account string) (httptransport.UserProjectsResponse, error) {
	account = strings.TrimSpace(account)
	projects, err := h.Service.ListUserProjects(ctx, account)
	if err != nil {
		return httptransport.UserProjectsResponse{}, err
	}
	resp := httptransport.UserProjectsResponse{Status: "success"}
	resp.Data.Account = account
	resp.Data.Projects = append([]string(nil), projects...)
	return resp, nil
}

func (h Handler) CreateExpenditureHandler(
	ctx context.Context,
	caller string,
	projectID string,
	req httptransport.CreateExpenditureRequest,
) (httptransport.ExpenditureResponse, error) {
	item, err := h.Service.CreateExpenditure(ctx, strings.TrimSpace(caller), strings.TrimSpace(projectID), ports.CreateExpenditureInput{
		Name:           strings.TrimSpace(req.Name),
		Type:           strings.TrimSpace(req.Type),
		SubType:        strings.TrimSpace(req.SubType),
		BudgetAmount:   req.BudgetAmount,
		NAICSCode:      req.NAICSCode,
		JobsMultiplier: req.JobsMultiplier,
		ParentID:       strings.TrimSpace(req.ParentID),
	})
	if err != nil {
		return httptransport.ExpenditureResponse{}, err
	}
	resp := httptransport.ExpenditureResponse{Status: "success"}
	resp.Data.ExpenditureID = item.ExpenditureID
	resp.Data.ProjectID = item.ProjectID
	resp.Data.Name = item.Name
	resp.Data.Type = item.Type
	resp.Data.SubType = item.SubType
	resp.Data.BudgetAmount = item.BudgetAmount
	resp.Data.NAICSCode = item.NAICSCode
	resp.Data.JobsMultiplier = item.JobsMultiplier
	resp.Data.ParentID = item.ParentID
	resp.Data.CreatedAt = item.Audit.CreatedAt.UTC().Format(time.RFC3339)
	return resp, nil
}

func (h Handler) ListProjectExpendituresHandler(ctx context.Context, projectID string) (httptransport.ProjectExpendituresResponse, error) {
	projectID = strings.TrimSpace(projectID)
	items, err := h.Service.ListProjectExpenditures(ctx, projectID)
	if err != nil {
		return httptransport.ProjectExpendituresResponse{}, err
	}
	resp := httptransport.ProjectExpendituresResponse{Status: "success"}
	resp.Data.ProjectID = projectID
	for _, item := range items {
		row := struct {
			ExpenditureID  string  `json:"expenditure_id"`
			Name           string  `json:"name"`
			Type           string  `json:"type"`
			SubType        string  `json:"sub_type"`
			BudgetAmount   *uint64 `json:"budget_amount,omitempty"`
			NAICSCode      *uint32 `json:"naics_code,omitempty"`
			JobsMultiplier *uint32 `json:"jobs_multiplier,omitempty"`
			ParentID       string  `json:"parent_id,omitempty"`
		}{
			ExpenditureID:  item.ExpenditureID,
			Name:           item.Name,
			Type:           item.Type,
			SubType:        item.SubType,
			BudgetAmount:   item.BudgetAmount,
			NAICSCode:      item.NAICSCode,
			JobsMultiplier: item.JobsMultiplier,
			ParentID:       item.ParentID,
		}
		resp.Data.Expenditures = append(resp.Data.Expenditures, row)
	}
	return resp, nil
}

// canonicalRole folds the wire spelling onto the role catalog so clients may
// send roles in any case. Unknown names pass through untouched and fail
// validation downstream.
func canonicalRole(raw string) string {
	raw = strings.TrimSpace(raw)
	if role, ok := entities.CanonicalRole(raw); ok {
		return role
	}
	return raw
}

func parseDate(raw string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, domainerrors.ErrInvalidRequest
	}
	return parsed.UTC(), nil
}

func documentsFromPayload(in []httptransport.DocumentPayload) []entities.Document {
	if len(in) == 0 {
		return nil
	}
	out := make([]entities.Document, 0, len(in))
	for _, doc := range in {
		out = append(out, entities.Document{
			Title: strings.TrimSpace(doc.Title),
			CID:   strings.TrimSpace(doc.CID),
		})
	}
	return out
}

func userResponse(profile entities.UserProfile) httptransport.UserResponse {
	resp := httptransport.UserResponse{Status: "success"}
	resp.Data.Account = profile.Account
	resp.Data.Name = profile.Name
	resp.Data.ImageCID = profile.ImageCID
	resp.Data.Email = profile.Email
	for _, doc := range profile.Documents {
		resp.Data.Documents = append(resp.Data.Documents, httptransport.DocumentPayload{
			Title: doc.Title,
			CID:   doc.CID,
		})
	}
	resp.Data.CreatedAt = profile.Audit.CreatedAt.UTC().Format(time.RFC3339)
	resp.Data.ModifiedAt = profile.Audit.ModifiedAt.UTC().Format(time.RFC3339)
	return resp
}

func projectResponse(project entities.Project) httptransport.ProjectResponse {
	resp := httptransport.ProjectResponse{Status: "success"}
	resp.Data.ProjectID = project.ProjectID
	resp.Data.Title = project.Title
	resp.Data.Description = project.Description
	resp.Data.ImageCID = project.ImageCID
	resp.Data.Address = project.Address
	resp.Data.CreationDate = project.CreationDate.UTC().Format(time.RFC3339)
	resp.Data.CompletionDate = project.CompletionDate.UTC().Format(time.RFC3339)
	resp.Data.Owner = project.Owner
	resp.Data.CreatedAt = project.Audit.CreatedAt.UTC().Format(time.RFC3339)
	resp.Data.ModifiedAt = project.Audit.ModifiedAt.UTC().Format(time.RFC3339)
	return resp
}
