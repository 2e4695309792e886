package controllers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/gradedesk/internal/app/controllers"
	"github.com/yigit/gradedesk/internal/app/models"
	"github.com/yigit/gradedesk/internal/app/routes"
	"github.com/yigit/gradedesk/internal/app/services"
	"github.com/yigit/gradedesk/internal/app/sessions"
	"github.com/yigit/gradedesk/internal/app/views"
	"github.com/yigit/gradedesk/internal/backend"
	"github.com/yigit/gradedesk/internal/middleware"
	"github.com/yigit/gradedesk/internal/pkg/websocket"
)

const cookieName = "gradedesk_test"

type stubBackend struct {
	mu          sync.Mutex
	requests    []string
	studentPost int
	studentBody string
}

func (b *stubBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	b.requests = append(b.requests, r.Method+" "+r.URL.RequestURI())
	status, body := b.studentPost, b.studentBody
	b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && r.URL.Path == "/api/students":
		_, _ = io.WriteString(w, `[{"_id":"s1","name":"Ada Lovelace","email":"ada@example.edu","roll_number":"R1","department":"CS","semester":3,"year":2025}]`)
	case r.Method == http.MethodGet && r.URL.Path == "/api/courses":
		_, _ = io.WriteString(w, `[{"_id":"c1","code":"CS101","title":"Intro","credits":3}]`)
	case r.Method == http.MethodPost && r.URL.Path == "/api/students":
		if status == 0 {
			status = http.StatusCreated
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	case r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/api/gradesheet/"):
		_, _ = io.WriteString(w, `{"sgpa":3.5,"results":[{"course_id":"c1","score":88,"grade":"A","grade_point":4,"semester":2,"year":2025}]}`)
	default:
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{}`)
	}
}

func (b *stubBackend) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.requests)
}

type harness struct {
	t       *testing.T
	router  *gin.Engine
	backend *stubBackend
	store   *sessions.MemoryStore
	cookie  *http.Cookie
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	stub := &stubBackend{}
	srv := httptest.NewServer(stub)
	t.Cleanup(srv.Close)

	rawURL := srv.URL + "/"
	store := sessions.NewMemoryStore(time.Hour)
	console := services.NewConsoleService(
		backend.NewClient(rawURL, 2*time.Second, zerolog.Nop()),
		store,
		nil,
		zerolog.Nop(),
	)

	tmpl, err := views.Templates()
	if err != nil {
		t.Fatalf("Templates() error = %v", err)
	}
	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	routes.SetupRouter(router,
		controllers.NewConsoleController(console, rawURL, "/test"),
		controllers.NewAPIController(console),
		websocket.NewHandler(websocket.NewHub(zerolog.Nop()), middleware.SessionID, nil, zerolog.Nop()),
		middleware.SessionMiddleware(console, middleware.SessionConfig{CookieName: cookieName, TTL: time.Hour}, zerolog.Nop()),
	)

	return &harness{t: t, router: router, backend: stub, store: store}
}

func (h *harness) do(req *http.Request) *httptest.ResponseRecorder {
	h.t.Helper()
	if h.cookie != nil {
		req.AddCookie(h.cookie)
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	for _, c := range w.Result().Cookies() {
		if c.Name == cookieName {
			h.cookie = c
		}
	}
	return w
}

func (h *harness) get(path string) *httptest.ResponseRecorder {
	return h.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (h *harness) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return h.do(req)
}

func (h *harness) page() *goquery.Document {
	h.t.Helper()
	w := h.get("/")
	if w.Code != http.StatusOK {
		h.t.Fatalf("GET / status = %d, body = %s", w.Code, w.Body.String())
	}
	doc, err := goquery.NewDocumentFromReader(w.Body)
	if err != nil {
		h.t.Fatalf("parse page: %v", err)
	}
	return doc
}

func expectRedirect(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != "/" {
		t.Fatalf("response = %d %q, want 303 to /", w.Code, w.Header().Get("Location"))
	}
}

func TestIndexRendersStudentsView(t *testing.T) {
	h := newHarness(t)
	doc := h.page()

	if h.cookie == nil {
		t.Fatal("session cookie not set")
	}
	if n := doc.Find("nav.tabs button").Length(); n != 5 {
		t.Fatalf("tabs = %d, want 5", n)
	}
	if active := doc.Find("nav.tabs button.active").Text(); active != "Students" {
		t.Fatalf("active tab = %q", active)
	}
	if got := doc.Find("#student-list tbody tr[data-id=s1] td").First().Text(); got != "Ada Lovelace" {
		t.Fatalf("first student cell = %q", got)
	}
	if got := doc.Find("#add-student input[name=semester]").AttrOr("value", ""); got != "1" {
		t.Fatalf("default semester = %q", got)
	}
	footer := doc.Find("#backend-url").Text()
	if !strings.HasPrefix(footer, "Backend: http://") || !strings.HasSuffix(footer, "/") {
		t.Fatalf("footer = %q, want configured URL verbatim", footer)
	}
	if doc.Find("#status").Length() != 0 {
		t.Fatal("fresh workspace shows a status")
	}
}

func TestCreateStudentSuccessShowsNotice(t *testing.T) {
	h := newHarness(t)
	h.page()

	expectRedirect(t, h.post("/students", url.Values{
		"name": {"Grace"}, "email": {"grace@example.edu"}, "roll_number": {"R2"},
		"department": {"CS"}, "semester": {"2"}, "year": {"2025"},
	}))

	doc := h.page()
	status := doc.Find("#status")
	if status.Text() != "Student created" || !status.HasClass("notice-success") {
		t.Fatalf("status = %q classes=%q", status.Text(), status.AttrOr("class", ""))
	}
	if got := doc.Find("#add-student input[name=name]").AttrOr("value", "x"); got != "" {
		t.Fatalf("name not reset: %q", got)
	}
}

func TestCreateStudentFailureKeepsInput(t *testing.T) {
	h := newHarness(t)
	h.backend.studentPost = http.StatusConflict
	h.backend.studentBody = `{"detail":"Roll number already exists"}`
	h.page()

	expectRedirect(t, h.post("/students", url.Values{
		"name": {"Grace"}, "email": {"grace@example.edu"}, "roll_number": {"R1"},
		"department": {"CS"}, "semester": {"2"}, "year": {"2025"},
	}))

	doc := h.page()
	status := doc.Find("#status")
	if status.Text() != "Roll number already exists" || status.AttrOr("data-kind", "") != "error" {
		t.Fatalf("status = %q kind=%q", status.Text(), status.AttrOr("data-kind", ""))
	}
	if got := doc.Find("#add-student input[name=roll_number]").AttrOr("value", ""); got != "R1" {
		t.Fatalf("roll number input = %q, want kept", got)
	}
}

func TestSwitchViewRendersWithoutBackendCalls(t *testing.T) {
	h := newHarness(t)
	h.page()
	before := h.backend.count()

	expectRedirect(t, h.get("/views/courses"))
	doc := h.page()
	if active := doc.Find("nav.tabs button.active").AttrOr("data-view", ""); active != "courses" {
		t.Fatalf("active view = %q", active)
	}
	if got := doc.Find("#add-course input[name=credits]").AttrOr("value", ""); got != "3" {
		t.Fatalf("credits default = %q", got)
	}

	expectRedirect(t, h.get("/views/connectivity"))
	doc = h.page()
	if href := doc.Find("#connectivity-link").AttrOr("href", ""); href != "/test" {
		t.Fatalf("connectivity link = %q", href)
	}

	if n := h.backend.count(); n != before {
		t.Fatalf("view switches made %d backend calls", n-before)
	}

	if w := h.get("/views/bogus"); w.Code != http.StatusNotFound {
		t.Fatalf("unknown view status = %d", w.Code)
	}
}

func TestUnsubmittedInputSurvivesTabSwitch(t *testing.T) {
	h := newHarness(t)
	doc := h.page()
	before := h.backend.count()

	tab := doc.Find("nav.tabs button[data-view=courses]")
	if tab.AttrOr("form", "") != "student-form" || tab.AttrOr("formaction", "") != "/views/courses" {
		t.Fatalf("courses tab form=%q formaction=%q", tab.AttrOr("form", ""), tab.AttrOr("formaction", ""))
	}

	// A tab button submits the form of the view being left
	expectRedirect(t, h.post("/views/courses", url.Values{
		"draft": {"students"}, "name": {"Grace"}, "email": {"grace@exa"}, "roll_number": {""},
		"department": {"CS"}, "semester": {"4"}, "year": {"2025"},
	}))
	doc = h.page()
	if active := doc.Find("nav.tabs button.active").AttrOr("data-view", ""); active != "courses" {
		t.Fatalf("active view = %q", active)
	}
	if got := doc.Find("nav.tabs button[data-view=students]").AttrOr("form", ""); got != "course-form" {
		t.Fatalf("students tab submits %q, want course-form", got)
	}

	expectRedirect(t, h.post("/views/students", url.Values{
		"draft": {"courses"}, "code": {"MA1"}, "title": {""}, "credits": {"4"},
	}))
	doc = h.page()
	for field, want := range map[string]string{"name": "Grace", "email": "grace@exa", "semester": "4"} {
		if got := doc.Find("#add-student input[name=" + field + "]").AttrOr("value", ""); got != want {
			t.Fatalf("student %s = %q, want %q", field, got, want)
		}
	}
	if doc.Find("#status").Length() != 0 {
		t.Fatal("switching tabs set a status")
	}

	expectRedirect(t, h.post("/views/courses", url.Values{}))
	doc = h.page()
	if got := doc.Find("#add-course input[name=code]").AttrOr("value", ""); got != "MA1" {
		t.Fatalf("course code = %q, want MA1", got)
	}
	if got := doc.Find("#add-course input[name=credits]").AttrOr("value", ""); got != "4" {
		t.Fatalf("credits = %q, want 4", got)
	}

	if n := h.backend.count(); n != before {
		t.Fatalf("tab switches made %d backend calls", n-before)
	}
}

func TestStaleProgressStatusLeavesFormsUsable(t *testing.T) {
	h := newHarness(t)
	h.page()

	if _, err := h.store.Update(context.Background(), h.cookie.Value, func(ws *models.Workspace) error {
		ws.SetStatus(models.StatusInfo, models.OpCreateStudent, "Creating student...", time.Now())
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	for _, view := range []string{"students", "courses", "results"} {
		expectRedirect(t, h.get("/views/"+view))
		doc := h.page()
		if doc.Find("#status").Text() != "Creating student..." {
			t.Fatalf("%s: status = %q", view, doc.Find("#status").Text())
		}
		if _, disabled := doc.Find("main form.grid button[type=submit]").Attr("disabled"); disabled {
			t.Fatalf("%s: submit disabled with nothing in flight", view)
		}
	}
}

func TestSessionCookieRefreshedOnEveryRequest(t *testing.T) {
	h := newHarness(t)
	h.page()
	id := h.cookie.Value

	w := h.get("/")
	var refreshed *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == cookieName {
			refreshed = c
		}
	}
	if refreshed == nil || refreshed.Value != id || refreshed.MaxAge != 3600 {
		t.Fatalf("cookie = %+v, want %s re-issued with max age 3600", refreshed, id)
	}
}

func TestGradeSheetFlow(t *testing.T) {
	h := newHarness(t)
	h.page()

	if w := h.get("/gradesheet/export"); w.Code != http.StatusNotFound {
		t.Fatalf("export without sheet = %d", w.Code)
	}

	expectRedirect(t, h.get("/views/gradesheet"))
	expectRedirect(t, h.post("/gradesheet", url.Values{"student_id": {"s1"}, "semester": {"2"}, "year": {""}}))

	doc := h.page()
	if got := doc.Find("#grade-sheet tbody td").First().Text(); got != "CS101" {
		t.Fatalf("course cell = %q", got)
	}
	if got := doc.Find("#sgpa strong").Text(); got != "3.50" {
		t.Fatalf("sgpa = %q", got)
	}
	if _, ok := doc.Find("#grade-query option[value=s1]").Attr("selected"); !ok {
		t.Fatal("selected student not kept")
	}

	w := h.get("/gradesheet/export")
	if w.Code != http.StatusOK || !strings.Contains(w.Header().Get("Content-Disposition"), "gradesheet-R1-sem2.xlsx") {
		t.Fatalf("export = %d %q", w.Code, w.Header().Get("Content-Disposition"))
	}
}

func TestStatusAPI(t *testing.T) {
	h := newHarness(t)
	h.page()
	h.post("/courses", url.Values{"code": {""}, "title": {"T"}, "credits": {"3"}})

	w := h.get("/api/console/status")
	if w.Code != http.StatusOK {
		t.Fatalf("status code = %d", w.Code)
	}
	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Kind       string `json:"kind"`
			Message    string `json:"message"`
			Operation  string `json:"operation"`
			InProgress bool   `json:"inProgress"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if !body.Success || body.Data.Kind != "error" || body.Data.Message != "Course code is required" || body.Data.Operation != "courses.create" || body.Data.InProgress {
		t.Fatalf("body = %+v", body)
	}
}

func TestProbeBackendAPI(t *testing.T) {
	h := newHarness(t)
	w := h.get("/api/console/backend")
	if w.Code != http.StatusOK {
		t.Fatalf("probe status = %d body = %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"reachable":true`) {
		t.Fatalf("probe body = %s", w.Body.String())
	}
	if h.cookie != nil {
		t.Fatal("probe should not open a session")
	}
}
