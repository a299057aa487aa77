package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	projectadminservice "fundadmin/contexts/fund-administration/project-admin-service"
	fundadminerrors "fundadmin/contexts/fund-administration/project-admin-service/domain/errors"
	fundadminhttp "fundadmin/contexts/fund-administration/project-admin-service/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "fundadmin/internal/platform/httpserver/docs"
)

type Server struct {
	mux       *http.ServeMux
	logger    *slog.Logger
	addr      string
	fundadmin projectadminservice.Module
}

func New(
	fundadminModule projectadminservice.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:       http.NewServeMux(),
		logger:    logger,
		addr:      addr,
		fundadmin: fundadminModule,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the routed mux for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/fund-admin/v1/setup", s.handleInitialSetup)

	s.mux.HandleFunc("POST /api/fund-admin/v1/administrators", s.handleAddAdministrator)
	s.mux.HandleFunc("DELETE /api/fund-admin/v1/administrators/{account}", s.handleRemoveAdministrator)
	s.mux.HandleFunc("GET /api/fund-admin/v1/administrators", s.handleListAdministrators)

	s.mux.HandleFunc("POST /api/fund-admin/v1/users", s.handleRegisterUser)
	s.mux.HandleFunc("PATCH /api/fund-admin/v1/users/{account}", s.handleUpdateUser)
	s.mux.HandleFunc("DELETE /api/fund-admin/v1/users/{account}", s.handleDeleteUser)
	s.mux.HandleFunc("GET /api/fund-admin/v1/users/{account}", s.handleGetUser)
	s.mux.HandleFunc("GET /api/fund-admin/v1/users/{account}/projects", s.handleListUserProjects)

	s.mux.HandleFunc("POST /api/fund-admin/v1/projects", s.handleCreateProject)
	s.mux.HandleFunc("PATCH /api/fund-admin/v1/projects/{project_id}", s.handleUpdateProject)
	s.mux.HandleFunc("DELETE /api/fund-admin/v1/projects/{project_id}", s.handleDeleteProject)
	s.mux.HandleFunc("GET /api/fund-admin/v1/projects/{project_id}", s.handleGetProject)

	s.mux.HandleFunc("POST /api/fund-admin/v1/projects/{project_id}/assignments", s.handleAssignUser)
	s.mux.HandleFunc("DELETE /api/fund-admin/v1/projects/{project_id}/assignments", s.handleUnassignUser)
	s.mux.HandleFunc("GET /api/fund-admin/v1/projects/{project_id}/members", s.handleListProjectMembers)

	s.mux.HandleFunc("POST /api/fund-admin/v1/projects/{project_id}/expenditures", s.handleCreateExpenditure)
	s.mux.HandleFunc("GET /api/fund-admin/v1/projects/{project_id}/expenditures", s.handleListProjectExpenditures)
}

func (s *Server) handleInitialSetup(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	resp, err := s.fundadmin.Handler.InitialSetupHandler(r.Context(), caller)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAddAdministrator(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req fundadminhttp.AdministratorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.fundadmin.Handler.AddAdministratorHandler(r.Context(), caller, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRemoveAdministrator(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	resp, err := s.fundadmin.Handler.RemoveAdministratorHandler(r.Context(), caller, r.PathValue("account"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListAdministrators(w http.ResponseWriter, r *http.Request) {
	resp, err := s.fundadmin.Handler.ListAdministratorsHandler(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRegisterUser(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req fundadminhttp.RegisterUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.fundadmin.Handler.RegisterUserHandler(r.Context(), caller, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req fundadminhttp.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.fundadmin.Handler.UpdateUserHandler(r.Context(), caller, r.PathValue("account"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	resp, err := s.fundadmin.Handler.DeleteUserHandler(r.Context(), caller, r.PathValue("account"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	resp, err := s.fundadmin.Handler.GetUserHandler(r.Context(), r.PathValue("account"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListUserProjects(w http.ResponseWriter, r *http.Request) {
	resp, err := s.fundadmin.Handler.ListUserProjectsHandler(r.Context(), r.PathValue("account"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req fundadminhttp.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.fundadmin.Handler.CreateProjectHandler(r.Context(), caller, req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req fundadminhttp.UpdateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.fundadmin.Handler.UpdateProjectHandler(r.Context(), caller, r.PathValue("project_id"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	resp, err := s.fundadmin.Handler.DeleteProjectHandler(r.Context(), caller, r.PathValue("project_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	resp, err := s.fundadmin.Handler.GetProjectHandler(r.Context(), r.PathValue("project_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAssignUser(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req fundadminhttp.AssignUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.fundadmin.Handler.AssignUserHandler(r.Context(), caller, r.PathValue("project_id"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUnassignUser(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req fundadminhttp.UnassignUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.fundadmin.Handler.UnassignUserHandler(r.Context(), caller, r.PathValue("project_id"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListProjectMembers(w http.ResponseWriter, r *http.Request) {
	resp, err := s.fundadmin.Handler.ListProjectMembersHandler(r.Context(), r.PathValue("project_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateExpenditure(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req fundadminhttp.CreateExpenditureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.fundadmin.Handler.CreateExpenditureHandler(r.Context(), caller, r.PathValue("project_id"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListProjectExpenditures(w http.ResponseWriter, r *http.Request) {
	resp, err := s.fundadmin.Handler.ListProjectExpendituresHandler(r.Context(), r.PathValue("project_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func requireCaller(w http.ResponseWriter, r *http.Request) (string, bool) {
	caller := strings.TrimSpace(r.Header.Get("X-Caller-Id"))
	if caller == "" {
		writeError(w, http.StatusUnauthorized, "missing_caller", "X-Caller-Id header is required")
		return "", false
	}
	return caller, true
}

func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, fundadminerrors.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, fundadminerrors.ErrRequiresRootOrigin),
		errors.Is(err, fundadminerrors.ErrNotAuthorized):
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, fundadminerrors.ErrGlobalScopeNotSet),
		errors.Is(err, fundadminerrors.ErrGlobalScopeAlreadySet):
		writeError(w, http.StatusConflict, "global_scope_conflict", err.Error())
	case errors.Is(err, fundadminerrors.ErrUserNotRegistered),
		errors.Is(err, fundadminerrors.ErrProjectNotFound),
		errors.Is(err, fundadminerrors.ErrExpenditureNotFound),
		errors.Is(err, fundadminerrors.ErrUserNotAssignedToProject):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, fundadminerrors.ErrUserAlreadyRegistered),
		errors.Is(err, fundadminerrors.ErrProjectIDAlreadyInUse),
		errors.Is(err, fundadminerrors.ErrExpenditureIDAlreadyInUse),
		errors.Is(err, fundadminerrors.ErrUserAlreadyAssignedToProject),
		errors.Is(err, fundadminerrors.ErrUserAlreadyHasRole),
		errors.Is(err, fundadminerrors.ErrUserCannotHaveMoreThanOneRole):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, fundadminerrors.ErrMaxDocumentsReached),
		errors.Is(err, fundadminerrors.ErrMaxUsersPerProjectReached),
		errors.Is(err, fundadminerrors.ErrMaxProjectsPerUserReached),
		errors.Is(err, fundadminerrors.ErrMaxDevelopersPerProjectReached),
		errors.Is(err, fundadminerrors.ErrMaxInvestorsPerProjectReached),
		errors.Is(err, fundadminerrors.ErrMaxIssuersPerProjectReached),
		errors.Is(err, fundadminerrors.ErrMaxRegionalCenterPerProjectReached),
		errors.Is(err, fundadminerrors.ErrMaxExpendituresPerProjectReached),
		errors.Is(err, fundadminerrors.ErrMaxChildrenPerExpenditureReached):
		writeError(w, http.StatusConflict, "capacity_reached", err.Error())
	case errors.Is(err, fundadminerrors.ErrDateCannotBeInThePast),
		errors.Is(err, fundadminerrors.ErrCreationDateMustBeInThePast),
		errors.Is(err, fundadminerrors.ErrCompletionDateMustBeLater),
		errors.Is(err, fundadminerrors.ErrCannotEditCompletedProject),
		errors.Is(err, fundadminerrors.ErrCannotDeleteCompletedProject),
		errors.Is(err, fundadminerrors.ErrCannotAddAdminRole),
		errors.Is(err, fundadminerrors.ErrCannotRegisterAdminRole),
		errors.Is(err, fundadminerrors.ErrCannotRemoveAdminRole),
		errors.Is(err, fundadminerrors.ErrCannotCreateParentExpenditure),
		errors.Is(err, fundadminerrors.ErrCannotDeleteUserWithAssignedProjects):
		writeError(w, http.StatusUnprocessableEntity, "unprocessable", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, fundadminhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
