package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aulaflow/scheduler/internal/config"
	"github.com/aulaflow/scheduler/internal/directory"
	"github.com/aulaflow/scheduler/internal/model"
	"github.com/aulaflow/scheduler/internal/repository/inmem"
	"github.com/aulaflow/scheduler/internal/scheduling"
)

type testEnv struct {
	server   *Server
	teachers *directory.TeacherService
	students *directory.StudentService
	teacher  *model.Teacher
	student  *model.Student
}

func setup(t *testing.T) *testEnv {
	t.Helper()

	db := inmem.Open()
	logger := zap.NewNop()
	cfg := &config.Config{
		MaxDailySessions: 2,
		MinLeadTime:      config.DefaultMinLeadTime,
	}

	sessionStore := inmem.NewSessionStore(db)
	teacherStore := inmem.NewTeacherStore(db)
	studentStore := inmem.NewStudentStore(db)

	teachers := directory.NewTeacherService(teacherStore, logger)
	students := directory.NewStudentService(studentStore, logger)
	sessions := scheduling.NewService(sessionStore, teacherStore, studentStore, cfg, logger)

	env := &testEnv{
		server:   NewServer(Options{Addr: ":0", Sessions: sessions, Teachers: teachers, Students: students, Logger: logger}),
		teachers: teachers,
		students: students,
	}

	var err error
	env.teacher, err = teachers.Create(context.Background(), directory.TeacherInput{
		CPF: "11122233344", Name: "Ana Souza", Specialty: "English",
	})
	require.NoError(t, err)

	env.student, err = students.Create(context.Background(), directory.StudentInput{
		CPF: "55566677788", Name: "Bruno Lima", City: "Recife", WhatsApp: "+5581999990000",
	})
	require.NoError(t, err)

	return env
}

func (env *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echoHeaderContentType, "application/json")
	rec := httptest.NewRecorder()
	env.server.ServeHTTP(rec, req)
	return rec
}

const echoHeaderContentType = "Content-Type"

func decodeSession(t *testing.T, rec *httptest.ResponseRecorder) model.Session {
	t.Helper()
	var sess model.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))
	return sess
}

func TestHealthz(t *testing.T) {
	env := setup(t)

	rec := env.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateSession(t *testing.T) {
	env := setup(t)

	rec := env.do(t, http.MethodPost, "/v1/sessions", map[string]interface{}{
		"teacher_id":   env.teacher.ID,
		"student_id":   env.student.ID,
		"scheduled_at": time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		"content":      "Verbs To Be",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	sess := decodeSession(t, rec)
	assert.Equal(t, model.StatusScheduled, sess.Status)
	assert.Equal(t, "Ana Souza", sess.TeacherName)
	assert.Equal(t, "Bruno Lima", sess.StudentName)
}

func TestCreateSessionUnknownTeacher(t *testing.T) {
	env := setup(t)

	rec := env.do(t, http.MethodPost, "/v1/sessions", map[string]interface{}{
		"teacher_id":   999,
		"student_id":   env.student.ID,
		"scheduled_at": time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		"content":      "Verbs To Be",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "teacher not found")
}

func TestCreateSessionLeadTimeViolation(t *testing.T) {
	env := setup(t)

	rec := env.do(t, http.MethodPost, "/v1/sessions", map[string]interface{}{
		"teacher_id":   env.teacher.ID,
		"student_id":   env.student.ID,
		"scheduled_at": time.Now().Add(2 * time.Hour).Format(time.RFC3339),
		"content":      "Verbs To Be",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "in advance")
}

func TestCreateSessionValidation(t *testing.T) {
	env := setup(t)

	// content missing
	rec := env.do(t, http.MethodPost, "/v1/sessions", map[string]interface{}{
		"teacher_id":   env.teacher.ID,
		"student_id":   env.student.ID,
		"scheduled_at": time.Now().Add(48 * time.Hour).Format(time.RFC3339),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "fields")
	assert.Contains(t, rec.Body.String(), "content")
}

func TestSessionLifecycleOverHTTP(t *testing.T) {
	env := setup(t)

	rec := env.do(t, http.MethodPost, "/v1/sessions", map[string]interface{}{
		"teacher_id":   env.teacher.ID,
		"student_id":   env.student.ID,
		"scheduled_at": time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		"content":      "Verbs To Be",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	sess := decodeSession(t, rec)

	rec = env.do(t, http.MethodPatch, fmt.Sprintf("/v1/sessions/%s/finalize", sess.ID), map[string]interface{}{
		"notes": "Good progress",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	done := decodeSession(t, rec)
	assert.Equal(t, model.StatusFinalized, done.Status)
	assert.Equal(t, "Good progress", done.Notes)

	rec = env.do(t, http.MethodPatch, fmt.Sprintf("/v1/sessions/%s/cancel", sess.ID), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "finalized")
}

func TestListSessionsAcceptsLegacyStatusLiterals(t *testing.T) {
	env := setup(t)

	rec := env.do(t, http.MethodPost, "/v1/sessions", map[string]interface{}{
		"teacher_id":   env.teacher.ID,
		"student_id":   env.student.ID,
		"scheduled_at": time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		"content":      "Verbs To Be",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	first := decodeSession(t, rec)

	rec = env.do(t, http.MethodPost, "/v1/sessions", map[string]interface{}{
		"teacher_id":   env.teacher.ID,
		"student_id":   env.student.ID,
		"scheduled_at": time.Now().Add(49 * time.Hour).Format(time.RFC3339),
		"content":      "Past simple",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	second := decodeSession(t, rec)

	rec = env.do(t, http.MethodPatch, fmt.Sprintf("/v1/sessions/%s/cancel", second.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// the old frontend sends the Portuguese literal
	rec = env.do(t, http.MethodGet, "/v1/sessions?status=Em%20andamento", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var sessions []model.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sessions))
	require.Len(t, sessions, 1)
	assert.Equal(t, first.ID, sessions[0].ID)

	rec = env.do(t, http.MethodGet, "/v1/sessions?status=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTeacherDayEndpoint(t *testing.T) {
	env := setup(t)

	rec := env.do(t, http.MethodPost, "/v1/sessions", map[string]interface{}{
		"teacher_id":   env.teacher.ID,
		"student_id":   env.student.ID,
		"scheduled_at": time.Now().Add(48 * time.Hour).Format(time.RFC3339),
		"content":      "Verbs To Be",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	date := time.Now().Add(48 * time.Hour).Format("2006-01-02")
	rec = env.do(t, http.MethodGet, fmt.Sprintf("/v1/sessions/teacher/%d?date=%s", env.teacher.ID, date), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var view scheduling.TeacherDay
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Len(t, view.Today, 1)
	assert.Empty(t, view.History)

	rec = env.do(t, http.MethodGet, "/v1/sessions/teacher/999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTeacherCRUD(t *testing.T) {
	env := setup(t)

	rec := env.do(t, http.MethodPost, "/v1/teachers", map[string]interface{}{
		"cpf": "99988877766", "name": "Carla Mendes", "specialty": "Math",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created model.Teacher
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.True(t, created.Active)

	// duplicate CPF is a conflict
	rec = env.do(t, http.MethodPost, "/v1/teachers", map[string]interface{}{
		"cpf": "99988877766", "name": "Someone Else",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodPut, fmt.Sprintf("/v1/teachers/%d", created.ID), map[string]interface{}{
		"name": "Carla M. Mendes", "specialty": "Math",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var updated model.Teacher
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "Carla M. Mendes", updated.Name)
	assert.Equal(t, created.CPF, updated.CPF)

	rec = env.do(t, http.MethodDelete, fmt.Sprintf("/v1/teachers/%d", created.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/v1/teachers/%d", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTeacherSearchRequiresTerm(t *testing.T) {
	env := setup(t)

	rec := env.do(t, http.MethodGet, "/v1/teachers/search", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodGet, "/v1/teachers/search?q=english", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var teachers []model.Teacher
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &teachers))
	assert.Len(t, teachers, 1)
}

func TestStudentValidation(t *testing.T) {
	env := setup(t)

	rec := env.do(t, http.MethodPost, "/v1/students", map[string]interface{}{
		"cpf": "12345678901", "name": "Novo Aluno", "city": "Recife",
		"whatsapp": "+5581988880000", "email": "not-an-email",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "email")
}
