package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"complaints-backend/config"
	"complaints-backend/internal/auth"
	"complaints-backend/internal/calendar"
	"complaints-backend/internal/db"
	"complaints-backend/internal/model"
	"complaints-backend/internal/store"
)

type testEnv struct {
	router *gin.Engine
	store  store.Store
	db     *gorm.DB
	now    time.Time
}

func testConfig() *config.Config {
	return &config.Config{
		Server:  config.ServerConfig{RateLimitPerSec: 1000, RateLimitBurst: 1000},
		Session: config.SessionConfig{Secret: "test-secret", Name: "complaints_session", MaxAgeSeconds: 3600},
	}
}

// newTestEnv wires the router to a private in-memory database with one admin
// account (warden / s3cret). The regional clock reads env.now.
func newTestEnv(t *testing.T, wrap func(store.Store) store.Store) *testEnv {
	gin.SetMode(gin.TestMode)
	auth.Cost = bcrypt.MinCost

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	gormDB, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)), db.Options(logger.Silent))
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, db.Migrate(gormDB))

	s := store.NewGormStore(gormDB)
	hash, err := auth.HashPassword("s3cret")
	require.NoError(t, err)
	_, err = s.SeedAdmin(context.Background(), "warden", hash)
	require.NoError(t, err)

	env := &testEnv{store: s, db: gormDB, now: time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)}
	zone := calendar.Regional().WithClock(func() time.Time { return env.now })
	served := s
	if wrap != nil {
		served = wrap(s)
	}
	env.router = NewRouter(served, testConfig(), zone, zerolog.Nop())
	return env
}

// client carries cookies between requests like a browser.
type client struct {
	env     *testEnv
	cookies map[string]*http.Cookie
}

func (e *testEnv) client() *client {
	return &client{env: e, cookies: map[string]*http.Cookie{}}
}

func (c *client) do(method, path, contentType string, body io.Reader) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	c.env.router.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.MaxAge < 0 {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}
	return w
}

func (c *client) get(path string) *httptest.ResponseRecorder {
	return c.do(http.MethodGet, path, "", nil)
}

func (c *client) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	return c.do(http.MethodPost, path, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
}

func (c *client) postJSON(path, body string) *httptest.ResponseRecorder {
	return c.do(http.MethodPost, path, "application/json", strings.NewReader(body))
}

func (c *client) login(t *testing.T) {
	w := c.postForm("/admin/login", url.Values{"username": {"warden"}, "password": {"s3cret"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/admin/dashboard", w.Header().Get("Location"))
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func complaintForm(studentNumber string) url.Values {
	return url.Values{
		"name_surname":   {"Ayanda Khumalo"},
		"student_number": {studentNumber},
		"student_email":  {"ayanda@example.com"},
		"block_number":   {"D"},
		"unit_number":    {"7"},
		"room_number":    {"1"},
		"complaint_text": {"Light in the corridor is flickering"},
	}
}

func TestPublicPages(t *testing.T) {
	env := newTestEnv(t, nil)
	c := env.client()

	w := c.get("/")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/complaint-form", w.Header().Get("Location"))

	w = c.get("/complaint-form")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="student_number"`)

	w = c.get("/no-such-page")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Page not found")

	w = c.get("/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestSubmitComplaint(t *testing.T) {
	env := newTestEnv(t, nil)
	require.NoError(t, env.store.AddStudent(context.Background(), &model.Student{StudentNumber: "2024001", NameSurname: "Ayanda Khumalo"}))
	c := env.client()

	t.Run("Missing field", func(t *testing.T) {
		form := complaintForm("2024001")
		form.Set("room_number", "   ")
		w := c.postForm("/submit-complaint", form)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, false, decode(t, w)["success"])
	})

	t.Run("Unknown student", func(t *testing.T) {
		w := c.postForm("/submit-complaint", complaintForm("9999999"))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		body := decode(t, w)
		assert.Equal(t, "Student number not found in our system. Please contact administration.", body["message"])

		var count int64
		env.db.Model(&model.Complaint{}).Count(&count)
		assert.Equal(t, int64(0), count)
	})

	t.Run("Numbers restart each regional day", func(t *testing.T) {
		w := c.postForm("/submit-complaint", complaintForm("2024001"))
		require.Equal(t, http.StatusOK, w.Code)
		body := decode(t, w)
		assert.Equal(t, true, body["success"])
		assert.EqualValues(t, 1, body["complaint_number"])
		assert.Equal(t, "Complaint submitted successfully! Your complaint number is: 1", body["message"])

		w = c.postForm("/submit-complaint", complaintForm("2024001"))
		assert.EqualValues(t, 2, decode(t, w)["complaint_number"])

		// 22:30 UTC is already the next regional day.
		env.now = time.Date(2024, 6, 15, 22, 30, 0, 0, time.UTC)
		w = c.postForm("/submit-complaint", complaintForm("2024001"))
		assert.EqualValues(t, 1, decode(t, w)["complaint_number"])

		var stored model.Complaint
		require.NoError(t, env.db.Order("id DESC").First(&stored).Error)
		assert.Equal(t, model.StatusPending, stored.Status)
		assert.Nil(t, stored.CompletedAt)
	})
}

func TestAdminGuard(t *testing.T) {
	env := newTestEnv(t, nil)
	c := env.client()

	for _, path := range []string{"/admin/dashboard", "/admin/students", "/admin/download-complaints/today", "/admin/logout"} {
		w := c.get(path)
		assert.Equal(t, http.StatusSeeOther, w.Code, path)
		assert.Equal(t, "/admin/login", w.Header().Get("Location"), path)
	}

	for _, path := range []string{"/admin/update-status/1", "/admin/add-student", "/admin/delete-student/1"} {
		w := c.postJSON(path, `{}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		assert.Equal(t, false, decode(t, w)["success"], path)
	}
}

func TestLoginLogout(t *testing.T) {
	env := newTestEnv(t, nil)
	c := env.client()

	w := c.postForm("/admin/login", url.Values{"username": {"warden"}, "password": {"wrong"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid credentials")
	assert.Equal(t, http.StatusSeeOther, c.get("/admin/dashboard").Code)

	c.login(t)

	w = c.get("/admin/dashboard")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "warden")

	w = c.get("/admin/login")
	assert.Equal(t, http.StatusSeeOther, w.Code, "already logged in")

	w = c.get("/admin/logout")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/login", w.Header().Get("Location"))

	w = c.get("/admin/dashboard")
	assert.Equal(t, http.StatusSeeOther, w.Code)
}

func TestStudentRoster(t *testing.T) {
	env := newTestEnv(t, nil)
	c := env.client()
	c.login(t)

	w := c.postJSON("/admin/add-student", `{"student_number":" 2024002 ","name_surname":"Lindiwe Zulu"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Student added successfully", decode(t, w)["message"])

	w = c.postJSON("/admin/add-student", `{"student_number":"2024002","name_surname":"Someone Else"}`)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "Student number already exists", decode(t, w)["message"])

	w = c.postJSON("/admin/add-student", `{"student_number":"","name_surname":"Nobody"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = c.get("/admin/students")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Lindiwe Zulu")

	students, err := env.store.ListStudents(context.Background())
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "2024002", students[0].StudentNumber)

	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusOK, c.postForm("/submit-complaint", complaintForm("2024002")).Code)
	}

	w = c.postJSON("/admin/delete-student/abc", ``)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = c.postJSON("/admin/delete-student/999", ``)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = c.postJSON(fmt.Sprintf("/admin/delete-student/%d", students[0].ID), ``)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 2, decode(t, w)["complaints_removed"])

	var left int64
	env.db.Model(&model.Complaint{}).Where("student_number = ?", "2024002").Count(&left)
	assert.Equal(t, int64(0), left)
}

func TestUpdateStatus(t *testing.T) {
	env := newTestEnv(t, nil)
	require.NoError(t, env.store.AddStudent(context.Background(), &model.Student{StudentNumber: "2024001", NameSurname: "Ayanda Khumalo"}))
	c := env.client()
	c.login(t)
	require.Equal(t, http.StatusOK, c.postForm("/submit-complaint", complaintForm("2024001")).Code)

	var complaint model.Complaint
	require.NoError(t, env.db.First(&complaint).Error)
	path := fmt.Sprintf("/admin/update-status/%d", complaint.ID)

	w := c.postJSON(path, `{"status":"archived"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	require.NoError(t, env.db.First(&complaint, complaint.ID).Error)
	assert.Equal(t, model.StatusPending, complaint.Status)

	w = c.postJSON("/admin/update-status/9999", `{"status":"completed"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	env.now = env.now.Add(time.Hour)
	w = c.postJSON(path, `{"status":"completed"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["success"])
	require.NoError(t, env.db.First(&complaint, complaint.ID).Error)
	assert.Equal(t, model.StatusCompleted, complaint.Status)
	require.NotNil(t, complaint.CompletedAt)
	assert.True(t, complaint.CompletedAt.Equal(env.now))

	w = c.postJSON(path, `{"status":"pending"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, env.db.First(&complaint, complaint.ID).Error)
	assert.Equal(t, model.StatusPending, complaint.Status)
	assert.Nil(t, complaint.CompletedAt)
}

func TestDashboardSearchDate(t *testing.T) {
	env := newTestEnv(t, nil)
	require.NoError(t, env.store.AddStudent(context.Background(), &model.Student{StudentNumber: "2024001", NameSurname: "Ayanda Khumalo"}))
	c := env.client()
	c.login(t)

	form := complaintForm("2024001")
	form.Set("complaint_text", "Complaint from the fourteenth")
	env.now = time.Date(2024, 6, 14, 12, 0, 0, 0, time.UTC)
	require.Equal(t, http.StatusOK, c.postForm("/submit-complaint", form).Code)

	form.Set("complaint_text", "Complaint from the fifteenth")
	env.now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	require.Equal(t, http.StatusOK, c.postForm("/submit-complaint", form).Code)

	body := c.get("/admin/dashboard?search_date=2024-06-14").Body.String()
	assert.Contains(t, body, "Complaint from the fourteenth")
	assert.NotContains(t, body, "Complaint from the fifteenth")

	for _, query := range []string{"", "?search_date=", "?search_date=14/06/2024"} {
		body = c.get("/admin/dashboard" + query).Body.String()
		assert.Contains(t, body, "Complaint from the fourteenth", query)
		assert.Contains(t, body, "Complaint from the fifteenth", query)
	}
}

func TestDownloadComplaints(t *testing.T) {
	env := newTestEnv(t, nil)
	require.NoError(t, env.store.AddStudent(context.Background(), &model.Student{StudentNumber: "2024001", NameSurname: "Ayanda Khumalo"}))
	c := env.client()
	c.login(t)
	require.Equal(t, http.StatusOK, c.postForm("/submit-complaint", complaintForm("2024001")).Code)

	testCases := []struct {
		period   string
		filename string
	}{
		{"today", "complaints_today_2024-06-15.pdf"},
		{"week", "complaints_week_2024-06-15.pdf"},
		{"month", "complaints_month_2024-06-15.pdf"},
		{"all", "complaints_all_2024-06-15.pdf"},
		{"2024-02", "complaints_2024-02_2024-06-15.pdf"},
		{"not-a-period", "complaints_today_2024-06-15.pdf"},
	}

	for _, tc := range testCases {
		t.Run(tc.period, func(t *testing.T) {
			w := c.get("/admin/download-complaints/" + tc.period)
			require.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
			assert.Equal(t, fmt.Sprintf(`attachment; filename="%s"`, tc.filename), w.Header().Get("Content-Disposition"))
			assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))
		})
	}
}

// failingReports breaks complaint listing while leaving logins working.
type failingReports struct {
	store.Store
}

func (failingReports) ListComplaints(context.Context, *calendar.Span) ([]model.Complaint, error) {
	return nil, assert.AnError
}

func TestDownloadComplaintsFailureRedirects(t *testing.T) {
	env := newTestEnv(t, func(s store.Store) store.Store { return failingReports{s} })
	c := env.client()
	c.login(t)

	w := c.get("/admin/download-complaints/week")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/dashboard", w.Header().Get("Location"))

	w = c.get("/admin/dashboard")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Error generating report")
	assert.Contains(t, w.Body.String(), "No complaints found")
}
