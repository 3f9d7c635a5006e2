// Package timer implements the per-station run state machine: a one-second
// tick that advances elapsed time, writes each alarm crossing once per run
// and samples a trend point every minute.
package timer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"station_monitor/internal/logger"
	"station_monitor/internal/models"
	"station_monitor/internal/status"
)

// ErrAlreadyRunning is returned by a fresh Start on a running timer.
var ErrAlreadyRunning = errors.New("station timer is running, reset it first")

// SamplePeriod is the number of ticks between trend samples.
const SamplePeriod = 60

// Store persists the resumable part of a run.
type Store interface {
	Save(ctx context.Context, s models.TimerState) error
	Load(ctx context.Context, session, station string) (*models.TimerState, error)
	Clear(ctx context.Context, session, station string) error
}

// AlarmSink receives one entry per alarm crossing.
type AlarmSink interface {
	AppendAlarm(ctx context.Context, e models.LogEntry) error
}

// ReadingSource returns the most recent external reading for a station.
// ok is false when the station has none.
type ReadingSource interface {
	LatestReading(ctx context.Context, station string) (value float64, ok bool, err error)
}

// Option configures a Timer.
type Option func(*Timer)

func WithStore(s Store) Option { return func(t *Timer) { t.store = s } }
func WithAlarmSink(s AlarmSink) Option { return func(t *Timer) { t.sink = s } }
func WithReadings(r ReadingSource) Option { return func(t *Timer) { t.readings = r } }
func WithLogger(l *logger.Logger) Option { return func(t *Timer) { t.log = l } }
func WithInterval(d time.Duration) Option { return func(t *Timer) { t.interval = d } }
func WithClock(now func() time.Time) Option { return func(t *Timer) { t.now = now } }

// Timer is owned by one (session, station) pair.
type Timer struct {
	// run serializes Start, Reset and Stop so a persisted run and its task
	// always change together. mu guards the fields below.
	run    sync.Mutex
	mu     sync.Mutex
	state  models.TimerState
	sample float64
	trend  []models.TrendPoint
	lines  models.ReferenceLines

	task     Task
	store    Store
	sink     AlarmSink
	readings ReadingSource
	log      *logger.Logger
	interval time.Duration
	now      func() time.Time
}

func New(session, station string, opts ...Option) *Timer {
	t := &Timer{
		state:    models.TimerState{Session: session, Station: station},
		interval: time.Second,
		now:      time.Now,
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.resetTrend()
	return t
}

// Start enters the running state.
//
// A fresh start (resume=false) on a running timer returns ErrAlreadyRunning
// and changes nothing. resume=true re-enters a run from the persisted elapsed
// time and fired flags, and is a no-op on a timer that is already ticking.
// Resuming a started run whose ticking was stopped restarts the ticks.
// Empty alarm inputs keep the ones saved with the run.
func (t *Timer) Start(ctx context.Context, resume bool, alarm1, alarm2, operator string) error {
	t.run.Lock()
	defer t.run.Unlock()

	t.mu.Lock()
	if t.state.IsStarted {
		t.mu.Unlock()
		if !resume {
			return ErrAlreadyRunning
		}
		if !t.task.Running() {
			t.task.Start(t.interval, t.Tick)
		}
		return nil
	}

	if resume {
		if err := t.loadLocked(ctx); err != nil {
			t.mu.Unlock()
			return err
		}
	} else {
		t.state.SecondsElapsed = 0
		t.state.Alarm1Fired = false
		t.state.Alarm2Fired = false
		t.sample = 0
	}

	if s := strings.TrimSpace(alarm1); s != "" || !resume {
		t.state.Alarm1Input = s
	}
	if s := strings.TrimSpace(alarm2); s != "" || !resume {
		t.state.Alarm2Input = s
	}
	if operator != "" {
		t.state.Operator = operator
	}
	if !resume {
		t.resetTrend()
	} else {
		t.lines = referenceLines(t.state.Alarm1Input, t.state.Alarm2Input)
	}

	t.state.IsStarted = true
	t.state.UpdatedAt = t.now().UTC()
	snap := t.state
	t.mu.Unlock()

	t.save(ctx, snap)
	if resume {
		t.samplePoint(ctx, false)
	}
	t.task.Start(t.interval, t.Tick)
	return nil
}

func (t *Timer) loadLocked(ctx context.Context) error {
	if t.store == nil {
		return nil
	}
	saved, err := t.store.Load(ctx, t.state.Session, t.state.Station)
	if err != nil {
		return fmt.Errorf("resume %s/%s: %w", t.state.Session, t.state.Station, err)
	}
	if saved == nil {
		return nil
	}
	t.state.SecondsElapsed = saved.SecondsElapsed
	t.state.Alarm1Fired = saved.Alarm1Fired
	t.state.Alarm2Fired = saved.Alarm2Fired
	t.state.Alarm1Input = saved.Alarm1Input
	t.state.Alarm2Input = saved.Alarm2Input
	t.state.Operator = saved.Operator
	return nil
}

// Tick advances the run by one second. It is driven by the internal task and
// exported so runs can be stepped deterministically.
func (t *Timer) Tick(ctx context.Context) {
	t.mu.Lock()
	if !t.state.IsStarted {
		t.mu.Unlock()
		return
	}
	t.state.SecondsElapsed++
	t.state.UpdatedAt = t.now().UTC()
	elapsed := t.state.SecondsElapsed

	a1 := thresholdSeconds(t.state.Alarm1Input)
	a2 := thresholdSeconds(t.state.Alarm2Input)

	var crossed []string
	// a threshold counts as reached on the first tick after it has fully
	// elapsed, so 3 min fires at 181 rather than 180 ("Alarm firing tick", DESIGN.md)
	if !t.state.Alarm1Fired && float64(elapsed-1) >= a1 {
		t.state.Alarm1Fired = true
		crossed = append(crossed, models.StatusAlarm1)
	}
	if !t.state.Alarm2Fired && float64(elapsed-1) >= a2 {
		t.state.Alarm2Fired = true
		crossed = append(crossed, models.StatusAlarm2)
	}
	snap := t.state
	t.mu.Unlock()

	t.save(ctx, snap)

	for _, st := range crossed {
		t.emit(ctx, snap, st, a1, a2)
	}

	if elapsed%SamplePeriod == 0 {
		t.samplePoint(ctx, true)
	}
}

// Reset stops ticking and returns the timer to idle with a clean run.
func (t *Timer) Reset(ctx context.Context) error {
	t.run.Lock()
	defer t.run.Unlock()

	// Stop waits for an in-flight tick, which needs mu.
	t.task.Stop()

	t.mu.Lock()
	t.state.SecondsElapsed = 0
	t.state.IsStarted = false
	t.state.Alarm1Fired = false
	t.state.Alarm2Fired = false
	t.state.UpdatedAt = t.now().UTC()
	t.sample = 0
	t.resetTrend()
	session, station := t.state.Session, t.state.Station
	t.mu.Unlock()

	if t.store == nil {
		return nil
	}
	if err := t.store.Clear(ctx, session, station); err != nil {
		return fmt.Errorf("clear %s/%s: %w", session, station, err)
	}
	return nil
}

// Stop halts ticking without touching state, so a later resume continues the
// run. Used on shutdown.
func (t *Timer) Stop() {
	t.run.Lock()
	defer t.run.Unlock()
	t.task.Stop()
}

// Station is fixed at construction.
func (t *Timer) Station() string {
	return t.state.Station
}

func (t *Timer) IsRunning() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state.IsStarted
}

// Snapshot returns a copy of the current run.
func (t *Timer) Snapshot() models.TimerSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	trend := make([]models.TrendPoint, len(t.trend))
	copy(trend, t.trend)

	return models.TimerSnapshot{
		TimerState:     t.state,
		Clock:          FormatClock(t.state.SecondsElapsed),
		Proximity:      string(t.proximityLocked()),
		Trend:          trend,
		ReferenceLines: t.lines,
	}
}

// proximityLocked drives the cosmetic colour of the elapsed clock.
func (t *Timer) proximityLocked() status.Level {
	return status.Classify(float64(t.state.SecondsElapsed),
		thresholdSeconds(t.state.Alarm1Input),
		thresholdSeconds(t.state.Alarm2Input))
}

func (t *Timer) emit(ctx context.Context, snap models.TimerState, st string, a1, a2 float64) {
	if t.sink == nil {
		return
	}
	e := models.LogEntry{
		Actual:  float64(snap.SecondsElapsed),
		Alarm1:  status.Finite(a1),
		Alarm2:  status.Finite(a2),
		Station: snap.Station,
		Status:  st,
		Remark:  models.RemarkNone,
		UserLog: snap.Operator,
	}
	if err := t.sink.AppendAlarm(ctx, e); err != nil {
		// not retried; the run keeps ticking
		t.log.Errorw("station_alarm_write_failed",
			"station", snap.Station, "session", snap.Session, "status", st, "err", err)
	}
}

// samplePoint appends a trend point. The counter starts from the latest
// external reading when one is available; increment advances it by one.
func (t *Timer) samplePoint(ctx context.Context, increment bool) {
	var (
		value float64
		ok    bool
		err   error
	)
	if t.readings != nil {
		value, ok, err = t.readings.LatestReading(ctx, t.state.Station)
		if err != nil {
			t.log.Warnw("station_reading_failed", "station", t.state.Station, "err", err)
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if ok && err == nil {
		t.sample = value
	}
	if increment {
		t.sample++
	}
	minute := math.Round(float64(t.state.SecondsElapsed)/60*10) / 10
	t.trend = append(t.trend, models.TrendPoint{Minute: minute, Value: t.sample})
}

func (t *Timer) save(ctx context.Context, s models.TimerState) {
	if t.store == nil {
		return
	}
	if err := t.store.Save(ctx, s); err != nil {
		t.log.Warnw("station_timer_save_failed", "station", s.Station, "session", s.Session, "err", err)
	}
}

func (t *Timer) resetTrend() {
	t.trend = t.trend[:0]
	t.lines = referenceLines(t.state.Alarm1Input, t.state.Alarm2Input)
}

func referenceLines(alarm1, alarm2 string) models.ReferenceLines {
	return models.ReferenceLines{
		Alarm1: status.Finite(status.ParseAlarm(alarm1)),
		Alarm2: status.Finite(status.ParseAlarm(alarm2)),
	}
}

// thresholdSeconds converts an operator-entered minute value.
func thresholdSeconds(minutes string) float64 {
	m := status.ParseAlarm(minutes)
	if math.IsInf(m, 1) {
		return m
	}
	return m * 60
}

// FormatClock renders elapsed seconds as HH:MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}
