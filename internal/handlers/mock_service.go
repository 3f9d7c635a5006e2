package handlers

import (
	"context"
	"net/http"

	"station_monitor/internal/models"
	"station_monitor/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID  int
	signUpErr error
	loginOp   *models.Operator
	loginTok  string
	loginErr  error
	parseName string
	parseErr  error

	lastSignUp        models.Operator
	lastLoginUsername string
	lastLoginPassword string
	lastParseToken    string
}

func (m *mockAuth) SignUp(_ context.Context, op models.Operator, password string) (int, error) {
	m.lastSignUp = op
	return m.signUpID, m.signUpErr
}
func (m *mockAuth) Login(_ context.Context, username, password string) (*models.Operator, string, error) {
	m.lastLoginUsername = username
	m.lastLoginPassword = password
	return m.loginOp, m.loginTok, m.loginErr
}
func (m *mockAuth) ParseToken(token string) (string, error) {
	m.lastParseToken = token
	return m.parseName, m.parseErr
}

type mockLogs struct {
	entries   []models.LogEntry
	listErr   error
	appended  models.LogEntry
	appendErr error
	annotErr  error

	lastInput    service.LogInput
	lastStation  string
	lastAnnotID  int64
	lastAnnotTxt string
}

func (m *mockLogs) AppendLog(_ context.Context, in service.LogInput) (models.LogEntry, error) {
	m.lastInput = in
	return m.appended, m.appendErr
}
func (m *mockLogs) ListByStation(_ context.Context, station string) ([]models.LogEntry, error) {
	m.lastStation = station
	return m.entries, m.listErr
}
func (m *mockLogs) Annotate(_ context.Context, id int64, detail string) error {
	m.lastAnnotID = id
	m.lastAnnotTxt = detail
	return m.annotErr
}

type mockStatus struct {
	status models.StationStatus
	err    error
}

func (m *mockStatus) Status(_ context.Context, _ string) (models.StationStatus, error) {
	return m.status, m.err
}
func (m *mockStatus) LookupStatus(_ context.Context, _ string) (*models.StationStatus, error) {
	if m.err != nil {
		return nil, m.err
	}
	st := m.status
	return &st, nil
}

type mockThresholds struct {
	threshold models.Threshold
	getErr    error
	result    service.UpsertResult
	upsertErr error
	lastInput service.ThresholdInput
}

func (m *mockThresholds) GetThreshold(_ context.Context, _ string) (models.Threshold, error) {
	return m.threshold, m.getErr
}
func (m *mockThresholds) UpsertThreshold(_ context.Context, in service.ThresholdInput) (service.UpsertResult, error) {
	m.lastInput = in
	return m.result, m.upsertErr
}

type mockTimers struct {
	snap        models.TimerSnapshot
	startErr    error
	resetErr    error
	lastStart   service.StartTimerParams
	lastSession string
	resetCalls  int
}

func (m *mockTimers) StartTimer(_ context.Context, p service.StartTimerParams) (models.TimerSnapshot, error) {
	m.lastStart = p
	return m.snap, m.startErr
}
func (m *mockTimers) ResetTimer(_ context.Context, session, _ string) (models.TimerSnapshot, error) {
	m.resetCalls++
	m.lastSession = session
	return m.snap, m.resetErr
}
func (m *mockTimers) TimerSnapshot(session, _ string) models.TimerSnapshot {
	m.lastSession = session
	return m.snap
}
func (m *mockTimers) IsRunning(string) bool { return m.snap.IsStarted }
func (m *mockTimers) ResumePersisted(context.Context) (int, error) { return 0, nil }
func (m *mockTimers) StopAll() {}

type mockBoard struct {
	cards []models.BoardCard
}

func (m *mockBoard) Cards() []models.BoardCard { return m.cards }

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
