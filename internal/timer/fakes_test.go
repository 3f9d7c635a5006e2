package timer

import (
	"context"
	"errors"
	"sync"

	"station_monitor/internal/models"
)

type memStore struct {
	mu      sync.Mutex
	states  map[string]models.TimerState
	saves   int
	cleared int
}

func newMemStore() *memStore { return &memStore{states: map[string]models.TimerState{}} }

func (m *memStore) Save(_ context.Context, s models.TimerState) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saves++
	m.states[s.Session+"|"+s.Station] = s
	return nil
}

func (m *memStore) Load(_ context.Context, session, station string) (*models.TimerState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.states[session+"|"+station]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *memStore) Clear(_ context.Context, session, station string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleared++
	delete(m.states, session+"|"+station)
	return nil
}

type recordingSink struct {
	mu      sync.Mutex
	entries []models.LogEntry
	calls   int
	err     error
}

func (r *recordingSink) AppendAlarm(_ context.Context, e models.LogEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, e)
	return nil
}

func (r *recordingSink) byStatus(status string) []models.LogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.LogEntry
	for _, e := range r.entries {
		if e.Status == status {
			out = append(out, e)
		}
	}
	return out
}

type fixedReadings struct {
	value float64
	ok    bool
	err   error
}

func (f fixedReadings) LatestReading(context.Context, string) (float64, bool, error) {
	return f.value, f.ok, f.err
}

var errDown = errors.New("store down")
