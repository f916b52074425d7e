package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/deependr20/hrms-sub001/config"
	"github.com/deependr20/hrms-sub001/constants"
	"github.com/deependr20/hrms-sub001/models"
	"github.com/deependr20/hrms-sub001/routes"
	"github.com/deependr20/hrms-sub001/utils"
)

type testEnv struct {
	router *gin.Engine

	admin    models.Employee
	hr       models.Employee
	mgr      models.Employee
	emp      models.Employee
	outsider models.Employee

	cleanup func(t *testing.T)
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("test-secret")

	_ = os.Setenv("HRMS_DB_DRIVER", "sqlite")
	_ = os.Setenv("HRMS_DB_DSN", "file::memory:?cache=shared")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	db, err := config.ConnectDB(cfg)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}

	tables := []any{
		&models.StatusChange{}, &models.AssignmentEvent{}, &models.TaskComment{},
		&models.TimeEntry{}, &models.TaskAssignment{}, &models.Task{},
		&models.Project{}, &models.Employee{},
	}
	if err := db.Migrator().DropTable(tables...); err != nil {
		t.Fatalf("drop tables: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Employee{}, &models.Project{}, &models.Task{},
		&models.TaskAssignment{}, &models.TimeEntry{}, &models.TaskComment{},
		&models.AssignmentEvent{}, &models.StatusChange{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	router := routes.SetupRouter(db)

	admin := models.Employee{Name: "Admin", Email: "admin@example.com", Role: constants.RoleAdmin, Department: "operations"}
	hr := models.Employee{Name: "HR", Email: "hr@example.com", Role: constants.RoleHR, Department: "people"}
	mgr := models.Employee{Name: "Manager", Email: "manager@example.com", Role: constants.RoleManager, Department: "engineering"}
	emp := models.Employee{Name: "Employee", Email: "employee@example.com", Role: constants.RoleEmployee, Department: "engineering"}
	outsider := models.Employee{Name: "Outsider", Email: "outsider@example.com", Role: constants.RoleEmployee, Department: "sales"}

	for _, e := range []*models.Employee{&admin, &hr, &mgr, &emp, &outsider} {
		h, err := utils.HashPassword("pass1234")
		if err != nil {
			t.Fatalf("hash password: %v", err)
		}
		e.Password = h
		if err := db.Create(e).Error; err != nil {
			t.Fatalf("seed employee %s: %v", e.Email, err)
		}
	}
	emp.ReportingManagerID = &mgr.ID
	if err := db.Save(&emp).Error; err != nil {
		t.Fatalf("set reporting manager: %v", err)
	}

	return &testEnv{
		router:   router,
		admin:    admin,
		hr:       hr,
		mgr:      mgr,
		emp:      emp,
		outsider: outsider,
		cleanup: func(t *testing.T) {
			t.Helper()
			_ = db.Migrator().DropTable(tables...)
		},
	}
}

func doRequest(t *testing.T, r http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func bearerFor(t *testing.T, e models.Employee) map[string]string {
	t.Helper()
	tok, err := utils.GenerateJWT(e)
	if err != nil {
		t.Fatalf("generate jwt: %v", err)
	}
	return map[string]string{"Authorization": "Bearer " + tok}
}

func envelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v body=%s", err, w.Body.String())
	}
	return resp
}

func dataField(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	data, ok := envelope(t, w)["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object in response: %s", w.Body.String())
	}
	return data
}

func taskID(t *testing.T, w *httptest.ResponseRecorder) uint {
	t.Helper()
	id, ok := dataField(t, w)["id"].(float64)
	if !ok {
		t.Fatalf("expected task id in response: %s", w.Body.String())
	}
	return uint(id)
}

func createTaskBody(title string, assignees ...uint) map[string]any {
	body := map[string]any{
		"title":    title,
		"due_date": time.Now().Add(72 * time.Hour).Format(time.RFC3339),
	}
	if len(assignees) > 0 {
		list := make([]map[string]any, 0, len(assignees))
		for _, id := range assignees {
			list = append(list, map[string]any{"employee": id})
		}
		body["assignees"] = list
	}
	return body
}

func TestAuth_RegisterAndLogin(t *testing.T) {
	env := setupTestEnv(t)
	defer env.cleanup(t)

	reg := map[string]any{
		"name":     "New Hire",
		"email":    "new@example.com",
		"password": "pass1234",
		"role":     "employee",
	}
	w := doRequest(t, env.router, http.MethodPost, "/register", reg, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("register status=%d body=%s", w.Code, w.Body.String())
	}

	w = doRequest(t, env.router, http.MethodPost, "/login", map[string]any{"email": "new@example.com", "password": "pass1234"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login status=%d body=%s", w.Code, w.Body.String())
	}
	if tok := dataField(t, w)["token"]; tok == nil || tok == "" {
		t.Fatalf("expected token in response: %s", w.Body.String())
	}

	w = doRequest(t, env.router, http.MethodPost, "/login", map[string]any{"email": "new@example.com", "password": "wrong"}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad login expected 401 got=%d body=%s", w.Code, w.Body.String())
	}
}

func TestAuthMiddleware_RejectsMissingAndMalformedTokens(t *testing.T) {
	env := setupTestEnv(t)
	defer env.cleanup(t)

	w := doRequest(t, env.router, http.MethodGet, "/tasks", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("no token expected 401 got=%d", w.Code)
	}

	w = doRequest(t, env.router, http.MethodGet, "/tasks", nil, map[string]string{"Authorization": "Bearer garbage"})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad token expected 401 got=%d", w.Code)
	}
}

func TestEmployees_AdminOnly(t *testing.T) {
	env := setupTestEnv(t)
	defer env.cleanup(t)

	w := doRequest(t, env.router, http.MethodGet, "/employees", nil, bearerFor(t, env.admin))
	if w.Code != http.StatusOK {
		t.Fatalf("GET /employees as admin status=%d body=%s", w.Code, w.Body.String())
	}

	w = doRequest(t, env.router, http.MethodGet, "/employees", nil, bearerFor(t, env.mgr))
	if w.Code != http.StatusForbidden {
		t.Fatalf("GET /employees as manager expected 403 got=%d", w.Code)
	}

	upd := map[string]any{"reporting_manager_id": env.emp.ID}
	w = doRequest(t, env.router, http.MethodPut, fmt.Sprintf("/employees/%d", env.emp.ID), upd, bearerFor(t, env.admin))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("self-manager expected 400 got=%d body=%s", w.Code, w.Body.String())
	}
}

func TestTasks_AssignmentLifecycle(t *testing.T) {
	env := setupTestEnv(t)
	defer env.cleanup(t)

	mgrAuth := bearerFor(t, env.mgr)
	empAuth := bearerFor(t, env.emp)

	w := doRequest(t, env.router, http.MethodPost, "/tasks", createTaskBody("ship payroll export", env.emp.ID), mgrAuth)
	if w.Code != http.StatusOK {
		t.Fatalf("create task status=%d body=%s", w.Code, w.Body.String())
	}
	id := taskID(t, w)
	if got := dataField(t, w)["status"]; got != "assigned" {
		t.Fatalf("expected assigned after initial assignment, got %v", got)
	}

	// Assigning the same employee again is an explicit failure, not a dup.
	assignBody := map[string]any{
		"taskId":    id,
		"action":    "assign",
		"assignees": []map[string]any{{"employee": env.emp.ID}},
	}
	w = doRequest(t, env.router, http.MethodPost, "/tasks/assign", assignBody, mgrAuth)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate assign expected 400 got=%d body=%s", w.Code, w.Body.String())
	}

	// Pending assignee cannot update progress yet.
	w = doRequest(t, env.router, http.MethodPut, fmt.Sprintf("/tasks/%d/progress", id), map[string]any{"progress": 10}, empAuth)
	if w.Code != http.StatusForbidden {
		t.Fatalf("pending assignee progress expected 403 got=%d body=%s", w.Code, w.Body.String())
	}

	w = doRequest(t, env.router, http.MethodPut, "/tasks/assign", map[string]any{"taskId": id, "action": "accept"}, empAuth)
	if w.Code != http.StatusOK {
		t.Fatalf("accept status=%d body=%s", w.Code, w.Body.String())
	}
	if got := dataField(t, w)["status"]; got != "in_progress" {
		t.Fatalf("expected in_progress after sole assignee accepted, got %v", got)
	}

	w = doRequest(t, env.router, http.MethodPut, fmt.Sprintf("/tasks/%d/progress", id), map[string]any{"progress": 100}, empAuth)
	if w.Code != http.StatusOK {
		t.Fatalf("progress 100 status=%d body=%s", w.Code, w.Body.String())
	}
	if got := dataField(t, w)["status"]; got != "review" {
		t.Fatalf("progress 100 should land in review, got %v", got)
	}

	// Completion is an explicit status action.
	w = doRequest(t, env.router, http.MethodPut, fmt.Sprintf("/tasks/%d/progress", id),
		map[string]any{"status": "completed", "completionNotes": "shipped"}, mgrAuth)
	if w.Code != http.StatusOK {
		t.Fatalf("complete status=%d body=%s", w.Code, w.Body.String())
	}
	data := dataField(t, w)
	if data["status"] != "completed" || data["completed_at"] == nil {
		t.Fatalf("expected completed with timestamp: %s", w.Body.String())
	}
}

func TestTasks_RejectAndReassign(t *testing.T) {
	env := setupTestEnv(t)
	defer env.cleanup(t)

	mgrAuth := bearerFor(t, env.mgr)

	w := doRequest(t, env.router, http.MethodPost, "/tasks", createTaskBody("migrate database", env.emp.ID), mgrAuth)
	if w.Code != http.StatusOK {
		t.Fatalf("create task status=%d body=%s", w.Code, w.Body.String())
	}
	id := taskID(t, w)

	w = doRequest(t, env.router, http.MethodPut, "/tasks/assign",
		map[string]any{"taskId": id, "action": "reject", "reason": "at capacity"}, bearerFor(t, env.emp))
	if w.Code != http.StatusOK {
		t.Fatalf("reject status=%d body=%s", w.Code, w.Body.String())
	}

	reassign := map[string]any{
		"taskId":    id,
		"action":    "reassign",
		"assignees": []map[string]any{{"employee": env.mgr.ID}},
		"reason":    "original assignee at capacity",
	}
	w = doRequest(t, env.router, http.MethodPost, "/tasks/assign", reassign, mgrAuth)
	if w.Code != http.StatusOK {
		t.Fatalf("reassign status=%d body=%s", w.Code, w.Body.String())
	}

	w = doRequest(t, env.router, http.MethodGet, fmt.Sprintf("/tasks/%d", id), nil, mgrAuth)
	if w.Code != http.StatusOK {
		t.Fatalf("get task status=%d", w.Code)
	}
	assigned, _ := dataField(t, w)["assigned_to"].([]any)
	if len(assigned) != 1 {
		t.Fatalf("expected assignment list replaced wholesale: %s", w.Body.String())
	}
}

func TestTasks_DelegationRequiresEntry(t *testing.T) {
	env := setupTestEnv(t)
	defer env.cleanup(t)

	mgrAuth := bearerFor(t, env.mgr)

	w := doRequest(t, env.router, http.MethodPost, "/tasks", createTaskBody("audit access logs", env.emp.ID), mgrAuth)
	id := taskID(t, w)

	// The manager holds no assignment entry, so delegating is forbidden.
	delegate := map[string]any{
		"taskId":    id,
		"action":    "delegate",
		"assignees": []map[string]any{{"employee": env.mgr.ID}},
	}
	w = doRequest(t, env.router, http.MethodPost, "/tasks/assign", delegate, mgrAuth)
	if w.Code != http.StatusForbidden {
		t.Fatalf("delegate without entry expected 403 got=%d body=%s", w.Code, w.Body.String())
	}

	// The assignee can delegate to a department peer.
	peer := map[string]any{
		"taskId":    id,
		"action":    "delegate",
		"assignees": []map[string]any{{"employee": env.mgr.ID}},
		"reason":    "out of office",
	}
	w = doRequest(t, env.router, http.MethodPost, "/tasks/assign", peer, bearerFor(t, env.emp))
	if w.Code != http.StatusOK {
		t.Fatalf("delegate status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestTimeEntries_ValidationAndAttestation(t *testing.T) {
	env := setupTestEnv(t)
	defer env.cleanup(t)

	mgrAuth := bearerFor(t, env.mgr)
	empAuth := bearerFor(t, env.emp)

	w := doRequest(t, env.router, http.MethodPost, "/tasks", createTaskBody("prepare onboarding", env.emp.ID), mgrAuth)
	id := taskID(t, w)

	doRequest(t, env.router, http.MethodPut, "/tasks/assign", map[string]any{"taskId": id, "action": "accept"}, empAuth)

	// Admin gets no bypass on time logging.
	w = doRequest(t, env.router, http.MethodPost, fmt.Sprintf("/tasks/%d/progress", id),
		map[string]any{"duration": 30}, bearerFor(t, env.admin))
	if w.Code != http.StatusForbidden {
		t.Fatalf("admin time log expected 403 got=%d body=%s", w.Code, w.Body.String())
	}

	// Backwards interval is rejected and the task stays unmodified.
	end := time.Now()
	start := end.Add(time.Hour)
	w = doRequest(t, env.router, http.MethodPost, fmt.Sprintf("/tasks/%d/progress", id),
		map[string]any{"startTime": start.Format(time.RFC3339), "endTime": end.Format(time.RFC3339)}, empAuth)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("negative duration expected 400 got=%d body=%s", w.Code, w.Body.String())
	}

	w = doRequest(t, env.router, http.MethodPost, fmt.Sprintf("/tasks/%d/progress", id),
		map[string]any{"duration": 90, "description": "drafted checklist"}, empAuth)
	if w.Code != http.StatusOK {
		t.Fatalf("time entry status=%d body=%s", w.Code, w.Body.String())
	}
	if got := dataField(t, w)["actual_hours"].(float64); got != 1.5 {
		t.Fatalf("actual_hours expected 1.5 got %v", got)
	}
}

func TestRollup_ParentThroughAPI(t *testing.T) {
	env := setupTestEnv(t)
	defer env.cleanup(t)

	mgrAuth := bearerFor(t, env.mgr)

	parentBody := createTaskBody("replatform billing")
	w := doRequest(t, env.router, http.MethodPost, "/tasks", parentBody, mgrAuth)
	parentID := taskID(t, w)

	subBody := createTaskBody("extract invoice service", env.mgr.ID)
	subBody["parent_task_id"] = parentID
	w = doRequest(t, env.router, http.MethodPost, "/tasks", subBody, mgrAuth)
	subID := taskID(t, w)

	doRequest(t, env.router, http.MethodPut, "/tasks/assign", map[string]any{"taskId": subID, "action": "accept"}, mgrAuth)

	w = doRequest(t, env.router, http.MethodPut, fmt.Sprintf("/tasks/%d/progress", subID),
		map[string]any{"progress": 60}, mgrAuth)
	if w.Code != http.StatusOK {
		t.Fatalf("progress status=%d body=%s", w.Code, w.Body.String())
	}

	w = doRequest(t, env.router, http.MethodGet, fmt.Sprintf("/tasks/%d", parentID), nil, mgrAuth)
	data := dataField(t, w)
	if got := data["progress"].(float64); got != 60 {
		t.Fatalf("parent progress expected 60 got %v", got)
	}
	if data["status"] != "in_progress" {
		t.Fatalf("parent status expected in_progress got %v", data["status"])
	}
}

func TestDashboard_RoleGates(t *testing.T) {
	env := setupTestEnv(t)
	defer env.cleanup(t)

	w := doRequest(t, env.router, http.MethodGet, "/tasks/dashboard?view=organization", nil, bearerFor(t, env.emp))
	if w.Code != http.StatusForbidden {
		t.Fatalf("organization view as employee expected 403 got=%d", w.Code)
	}

	w = doRequest(t, env.router, http.MethodGet, "/tasks/dashboard?view=team", nil, bearerFor(t, env.outsider))
	if w.Code != http.StatusForbidden {
		t.Fatalf("team view as employee expected 403 got=%d", w.Code)
	}

	w = doRequest(t, env.router, http.MethodPost, "/tasks", createTaskBody("quarterly report", env.emp.ID), bearerFor(t, env.mgr))
	if w.Code != http.StatusOK {
		t.Fatalf("create task status=%d body=%s", w.Code, w.Body.String())
	}

	w = doRequest(t, env.router, http.MethodGet, "/tasks/dashboard?view=team&timeframe=7", nil, bearerFor(t, env.mgr))
	if w.Code != http.StatusOK {
		t.Fatalf("team view as manager status=%d body=%s", w.Code, w.Body.String())
	}
	data := dataField(t, w)
	if got := data["total_tasks"].(float64); got != 1 {
		t.Fatalf("team dashboard expected 1 task got %v body=%s", got, w.Body.String())
	}

	w = doRequest(t, env.router, http.MethodGet, "/tasks/dashboard?view=organization", nil, bearerFor(t, env.hr))
	if w.Code != http.StatusOK {
		t.Fatalf("organization view as hr status=%d body=%s", w.Code, w.Body.String())
	}
}
