package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"station_monitor/internal/logger"
	"station_monitor/internal/metrics"
	"station_monitor/internal/models"
	"station_monitor/internal/repository"
	"station_monitor/internal/timer"
)

// DefaultSession is used when a client does not identify its session.
const DefaultSession = "default"

type TimerService struct {
	mu     sync.Mutex
	timers map[string]*timer.Timer

	sessions   repository.TimerSessions
	thresholds repository.Thresholds
	logs       *StationLogService
	log        *logger.Logger
	tick       time.Duration
	loc        *time.Location
	now        func() time.Time
}

func NewTimerService(sessions repository.TimerSessions, thresholds repository.Thresholds, logs *StationLogService, deps Deps) *TimerService {
	deps = deps.withDefaults()
	return &TimerService{
		timers:     make(map[string]*timer.Timer),
		sessions:   sessions,
		thresholds: thresholds,
		logs:       logs,
		log:        deps.Log,
		tick:       deps.TimerTick,
		loc:        deps.Location,
		now:        deps.Now,
	}
}

var _ Timers = (*TimerService)(nil)

func timerKey(session, station string) string {
	return session + "\x00" + station
}

func normalizeSession(session string) string {
	if s := strings.TrimSpace(session); s != "" {
		return s
	}
	return DefaultSession
}

func (s *TimerService) newTimer(session, station string) *timer.Timer {
	opts := []timer.Option{
		timer.WithInterval(s.tick),
		timer.WithLogger(s.log),
		timer.WithClock(s.now),
	}
	if s.sessions != nil {
		opts = append(opts, timer.WithStore(s.sessions))
	}
	if s.logs != nil {
		opts = append(opts, timer.WithAlarmSink(s.logs), timer.WithReadings(s.logs))
	}
	return timer.New(session, station, opts...)
}

func (s *TimerService) getOrCreate(session, station string) *timer.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := timerKey(session, station)
	t, ok := s.timers[key]
	if !ok {
		t = s.newTimer(session, station)
		s.timers[key] = t
	}
	return t
}

// fallbackInputs turns today's threshold (seconds) into minute inputs.
func (s *TimerService) fallbackInputs(ctx context.Context, station string) (string, string) {
	if s.thresholds == nil {
		return "", ""
	}
	t, err := s.thresholds.Get(ctx, station, today(s.now, s.loc))
	if err != nil {
		s.log.Warnw("station_threshold_lookup_failed", "station", station, "err", err)
		return "", ""
	}
	if t == nil {
		return "", ""
	}
	return minutes(t.Alarm1), minutes(t.Alarm2)
}

func minutes(seconds float64) string {
	return strconv.FormatFloat(seconds/60, 'f', -1, 64)
}

func (s *TimerService) StartTimer(ctx context.Context, p StartTimerParams) (models.TimerSnapshot, error) {
	station := strings.TrimSpace(p.Station)
	if station == "" {
		return models.TimerSnapshot{}, fmt.Errorf("%w: station is required", ErrValidation)
	}
	session := normalizeSession(p.Session)

	var a1, a2 string
	if p.Alarm1 != nil {
		a1 = *p.Alarm1
	}
	if p.Alarm2 != nil {
		a2 = *p.Alarm2
	}
	if !p.Resume && (p.Alarm1 == nil || p.Alarm2 == nil) {
		f1, f2 := s.fallbackInputs(ctx, station)
		if p.Alarm1 == nil {
			a1 = f1
		}
		if p.Alarm2 == nil {
			a2 = f2
		}
	}

	t := s.getOrCreate(session, station)
	if err := t.Start(ctx, p.Resume, a1, a2, p.Operator); err != nil {
		return t.Snapshot(), err
	}
	s.log.Infow("station_timer_started", "station", station, "session", session, "resume", p.Resume)
	s.updateGauge()
	return t.Snapshot(), nil
}

func (s *TimerService) ResetTimer(ctx context.Context, session, station string) (models.TimerSnapshot, error) {
	station = strings.TrimSpace(station)
	if station == "" {
		return models.TimerSnapshot{}, fmt.Errorf("%w: station is required", ErrValidation)
	}
	session = normalizeSession(session)

	t := s.getOrCreate(session, station)
	err := t.Reset(ctx)
	s.updateGauge()
	if err != nil {
		return t.Snapshot(), err
	}
	s.log.Infow("station_timer_reset", "station", station, "session", session)
	return t.Snapshot(), nil
}

// TimerSnapshot reports an idle run for a (session, station) never started here.
func (s *TimerService) TimerSnapshot(session, station string) models.TimerSnapshot {
	session = normalizeSession(session)
	station = strings.TrimSpace(station)

	s.mu.Lock()
	t, ok := s.timers[timerKey(session, station)]
	s.mu.Unlock()
	if !ok {
		return timer.New(session, station).Snapshot()
	}
	return t.Snapshot()
}

func (s *TimerService) IsRunning(station string) bool {
	station = strings.TrimSpace(station)
	for _, t := range s.snapshotTimers() {
		if t.Station() == station && t.IsRunning() {
			return true
		}
	}
	return false
}

// ResumePersisted restarts every run stored as started, e.g. after a restart.
func (s *TimerService) ResumePersisted(ctx context.Context) (int, error) {
	if s.sessions == nil {
		return 0, nil
	}
	states, err := s.sessions.ListRunning(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, st := range states {
		t := s.getOrCreate(st.Session, st.Station)
		if err := t.Start(ctx, true, "", "", ""); err != nil {
			s.log.Errorw("station_timer_resume_failed", "station", st.Station, "session", st.Session, "err", err)
			continue
		}
		n++
	}
	s.updateGauge()
	return n, nil
}

// StopAll halts every ticking timer but keeps persisted state for a later resume.
func (s *TimerService) StopAll() {
	for _, t := range s.snapshotTimers() {
		t.Stop()
	}
}

func (s *TimerService) snapshotTimers() []*timer.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*timer.Timer, 0, len(s.timers))
	for _, t := range s.timers {
		out = append(out, t)
	}
	return out
}

func (s *TimerService) updateGauge() {
	n := 0
	for _, t := range s.snapshotTimers() {
		if t.IsRunning() {
			n++
		}
	}
	metrics.SetRunningTimers(n)
}
