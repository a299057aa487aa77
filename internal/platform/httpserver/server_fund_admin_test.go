package httpserver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	projectadminservice "fundadmin/contexts/fund-administration/project-admin-service"
	rbacservice "fundadmin/contexts/identity-access/rbac-service"
)

func newTestServer() *Server {
	rbac := rbacservice.NewInMemoryModule()
	module := projectadminservice.NewInMemoryModule(rbac.Authority, []string{"root_1"}, nil, nil)
	return New(module, nil, ":0")
}

func doJSON(t *testing.T, server *Server, method string, path string, caller string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal request failed: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if caller != "" {
		req.Header.Set("X-Caller-Id", caller)
	}
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	return rr
}

func setUpLedger(t *testing.T, server *Server) {
	t.Helper()
	if rr := doJSON(t, server, http.MethodPost, "/api/fund-admin/v1/setup", "root_1", nil); rr.Code != http.StatusOK {
		t.Fatalf("setup failed: %d body=%s", rr.Code, rr.Body.String())
	}
	rr := doJSON(t, server, http.MethodPost, "/api/fund-admin/v1/administrators", "root_1", map[string]string{"account": "acc_admin"})
	if rr.Code != http.StatusOK {
		t.Fatalf("add administrator failed: %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestSetupRequiresCallerHeader(t *testing.T) {
	server := newTestServer()
	rr := doJSON(t, server, http.MethodPost, "/api/fund-admin/v1/setup", "", nil)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestSetupRejectsNonRootCaller(t *testing.T) {
	server := newTestServer()
	rr := doJSON(t, server, http.MethodPost, "/api/fund-admin/v1/setup", "acc_random", nil)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestSetupRunsOnlyOnce(t *testing.T) {
	server := newTestServer()
	setUpLedger(t, server)

	rr := doJSON(t, server, http.MethodPost, "/api/fund-admin/v1/setup", "root_1", nil)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestUserRegistrationRequiresAdministrator(t *testing.T) {
	server := newTestServer()
	setUpLedger(t, server)

	payload := map[string]string{"account": "acc_1", "name": "First User", "email": "first@example.com"}

	rr := doJSON(t, server, http.MethodPost, "/api/fund-admin/v1/users", "acc_intruder", payload)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-administrator, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodPost, "/api/fund-admin/v1/users", "acc_admin", payload)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodPost, "/api/fund-admin/v1/users", "acc_admin", payload)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodGet, "/api/fund-admin/v1/users/acc_1", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestProjectRoutesMapDomainErrors(t *testing.T) {
	server := newTestServer()
	setUpLedger(t, server)

	past := time.Now().UTC().Add(-time.Hour).Format(time.RFC3339)
	rr := doJSON(t, server, http.MethodPost, "/api/fund-admin/v1/projects", "acc_admin", map[string]string{
		"title":           "Late Project",
		"description":     "Should fail",
		"completion_date": past,
	})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for past completion, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodGet, "/api/fund-admin/v1/projects/deadbeef", "", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestAssignmentFlowOverHTTP(t *testing.T) {
	server := newTestServer()
	setUpLedger(t, server)

	rr := doJSON(t, server, http.MethodPost, "/api/fund-admin/v1/users", "acc_admin", map[string]string{
		"account": "acc_1", "name": "Member", "email": "member@example.com",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("register failed: %d body=%s", rr.Code, rr.Body.String())
	}

	future := time.Now().UTC().Add(90 * 24 * time.Hour).Format(time.RFC3339)
	rr = doJSON(t, server, http.MethodPost, "/api/fund-admin/v1/projects", "acc_admin", map[string]string{
		"title":           "Harbor Revitalization",
		"description":     "Waterfront redevelopment",
		"completion_date": future,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create project failed: %d body=%s", rr.Code, rr.Body.String())
	}
	var created struct {
		Data struct {
			ProjectID string `json:"project_id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response failed: %v", err)
	}

	// Role names on the wire are case-insensitive; the canonical catalog
	// spelling is what comes back.
	base := fmt.Sprintf("/api/fund-admin/v1/projects/%s", created.Data.ProjectID)
	rr = doJSON(t, server, http.MethodPost, base+"/assignments", "acc_admin", map[string]string{
		"account": "acc_1", "role": "developer",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("assign failed: %d body=%s", rr.Code, rr.Body.String())
	}
	var assigned struct {
		Data struct {
			Role string `json:"role"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &assigned); err != nil {
		t.Fatalf("decode assign response failed: %v", err)
	}
	if assigned.Data.Role != "Developer" {
		t.Fatalf("expected canonical role Developer, got %q", assigned.Data.Role)
	}

	rr = doJSON(t, server, http.MethodPost, base+"/assignments", "acc_admin", map[string]string{
		"account": "acc_1", "role": "investor",
	})
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 for second role, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodGet, base+"/members", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("list members failed: %d body=%s", rr.Code, rr.Body.String())
	}
	var members struct {
		Data struct {
			Members []struct {
				Account string `json:"account"`
				Role    string `json:"role"`
			} `json:"members"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &members); err != nil {
		t.Fatalf("decode members failed: %v", err)
	}
	if len(members.Data.Members) != 1 || members.Data.Members[0].Role != "Developer" {
		t.Fatalf("unexpected members: %+v", members.Data.Members)
	}

	rr = doJSON(t, server, http.MethodDelete, base+"/assignments", "acc_admin", map[string]string{
		"account": "acc_1", "role": "developer",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("unassign failed: %d body=%s", rr.Code, rr.Body.String())
	}

	rr = doJSON(t, server, http.MethodDelete, base, "acc_admin", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("delete project failed: %d body=%s", rr.Code, rr.Body.String())
	}
	rr = doJSON(t, server, http.MethodGet, base, "", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d body=%s", rr.Code, rr.Body.String())
	}
}
