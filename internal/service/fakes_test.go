package service

import (
	"context"
	"errors"
	"sort"
	"sync"

	"station_monitor/internal/models"
)

// memLogs mirrors the SQL store: ids ascend, lists are newest first.
type memLogs struct {
	mu     sync.Mutex
	rows   []models.LogEntry
	failOn error
}

func (m *memLogs) Append(_ context.Context, e models.LogEntry) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn != nil {
		return 0, m.failOn
	}
	e.ID = int64(len(m.rows) + 1)
	m.rows = append(m.rows, e)
	return e.ID, nil
}

func (m *memLogs) ListByStation(_ context.Context, station string) ([]models.LogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.LogEntry
	for i := len(m.rows) - 1; i >= 0; i-- {
		if m.rows[i].Station == station {
			out = append(out, m.rows[i])
		}
	}
	return out, nil
}

func (m *memLogs) latest(station string, skipAnnotated bool) *models.LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.rows) - 1; i >= 0; i-- {
		r := m.rows[i]
		if r.Station != station || (skipAnnotated && r.Annotated()) {
			continue
		}
		return &r
	}
	return nil
}

func (m *memLogs) Latest(_ context.Context, station string) (*models.LogEntry, error) {
	return m.latest(station, false), nil
}

func (m *memLogs) LatestActive(_ context.Context, station string) (*models.LogEntry, error) {
	return m.latest(station, true), nil
}

func (m *memLogs) Annotate(_ context.Context, id int64, detail string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.rows {
		if m.rows[i].ID == id {
			d := detail
			m.rows[i].Detail = &d
			m.rows[i].Remark = models.RemarkAnnotated
			return true, nil
		}
	}
	return false, nil
}

type memThresholds struct {
	mu   sync.Mutex
	rows map[string]models.Threshold
	next int64
}

func newMemThresholds() *memThresholds {
	return &memThresholds{rows: map[string]models.Threshold{}}
}

func (m *memThresholds) Get(_ context.Context, station, day string) (*models.Threshold, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.rows[station+"|"+day]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (m *memThresholds) Upsert(_ context.Context, t models.Threshold) (int64, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := t.Station + "|" + t.EffectiveDay
	if old, ok := m.rows[key]; ok {
		t.ID = old.ID
		m.rows[key] = t
		return t.ID, false, nil
	}
	m.next++
	t.ID = m.next
	m.rows[key] = t
	return t.ID, true, nil
}

type memSessions struct {
	mu     sync.Mutex
	states map[string]models.TimerState
}

func newMemSessions() *memSessions {
	return &memSessions{states: map[string]models.TimerState{}}
}

func (m *memSessions) Save(_ context.Context, s models.TimerState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.states[s.Session+"|"+s.Station] = s
	return nil
}

func (m *memSessions) Load(_ context.Context, session, station string) (*models.TimerState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.states[session+"|"+station]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memSessions) Clear(_ context.Context, session, station string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.states, session+"|"+station)
	return nil
}

func (m *memSessions) ListRunning(context.Context) ([]models.TimerState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.TimerState
	for _, s := range m.states {
		if s.IsStarted {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Station < out[j].Station })
	return out, nil
}

type capturePublisher struct {
	mu   sync.Mutex
	sent []models.LogEntry
	err  error
}

func (c *capturePublisher) Publish(_ context.Context, e models.LogEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, e)
	return nil
}

func (c *capturePublisher) Close() error { return nil }

var errStorage = errors.New("storage down")

func f64(v float64) *float64 { return &v }
func str(s string) *string { return &s }
