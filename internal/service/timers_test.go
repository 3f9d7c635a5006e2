package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"station_monitor/internal/models"
	"station_monitor/internal/repository"
)

type testEnv struct {
	svc        *Service
	logs       *memLogs
	thresholds *memThresholds
	sessions   *memSessions
}

func newTestEnv(tick time.Duration) *testEnv {
	env := &testEnv{logs: &memLogs{}, thresholds: newMemThresholds(), sessions: newMemSessions()}
	repos := &repository.Repository{
		Logs:       env.logs,
		Thresholds: env.thresholds,
		Sessions:   env.sessions,
		Auth:       &mockAuthRepo{},
	}
	env.svc = NewService(repos, Deps{TimerTick: tick, Now: fixedNow})
	return env
}

func TestTimerService_FallsBackToTodaysThreshold(t *testing.T) {
	env := newTestEnv(time.Hour)
	defer env.svc.StopAll()
	ctx := context.Background()

	if _, err := env.svc.UpsertThreshold(ctx, ThresholdInput{Station: "S1", Alarm1: f64(300), Alarm2: f64(90)}); err != nil {
		t.Fatalf("UpsertThreshold: %v", err)
	}

	snap, err := env.svc.StartTimer(ctx, StartTimerParams{Station: "S1", Operator: "op"})
	if err != nil {
		t.Fatalf("StartTimer: %v", err)
	}
	if snap.Alarm1Input != "5" || snap.Alarm2Input != "1.5" || snap.Session != DefaultSession || !snap.IsStarted {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if snap.ReferenceLines.Alarm1 == nil || *snap.ReferenceLines.Alarm1 != 5 {
		t.Fatalf("reference lines = %+v", snap.ReferenceLines)
	}
}

func TestTimerService_ExplicitInputsWin(t *testing.T) {
	env := newTestEnv(time.Hour)
	defer env.svc.StopAll()
	ctx := context.Background()
	_, _ = env.svc.UpsertThreshold(ctx, ThresholdInput{Station: "S1", Alarm1: f64(300), Alarm2: f64(90)})

	snap, err := env.svc.StartTimer(ctx, StartTimerParams{Station: "S1", Alarm1: str("10"), Alarm2: str("")})
	if err != nil {
		t.Fatalf("StartTimer: %v", err)
	}
	if snap.Alarm1Input != "10" || snap.Alarm2Input != "" {
		t.Fatalf("inputs = %q/%q", snap.Alarm1Input, snap.Alarm2Input)
	}
}

func TestTimerService_RunningBlocksThresholdsUntilReset(t *testing.T) {
	env := newTestEnv(time.Hour)
	defer env.svc.StopAll()
	ctx := context.Background()

	if _, err := env.svc.StartTimer(ctx, StartTimerParams{Session: "tab-1", Station: "S1", Alarm1: str("5"), Alarm2: str("3")}); err != nil {
		t.Fatalf("StartTimer: %v", err)
	}
	if !env.svc.IsRunning("S1") || env.svc.IsRunning("S2") {
		t.Fatalf("IsRunning wrong")
	}

	_, err := env.svc.StartTimer(ctx, StartTimerParams{Session: "tab-1", Station: "S1"})
	if !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("second fresh start: expected ErrAlreadyRunning, got %v", err)
	}

	_, err = env.svc.UpsertThreshold(ctx, ThresholdInput{Station: "S1", Alarm1: f64(1), Alarm2: f64(1)})
	if !errors.Is(err, ErrStaleWrite) {
		t.Fatalf("upsert while running: expected ErrStaleWrite, got %v", err)
	}

	// a second session runs its own timer for the same station
	if _, err := env.svc.StartTimer(ctx, StartTimerParams{Session: "tab-2", Station: "S1", Alarm1: str("5"), Alarm2: str("3")}); err != nil {
		t.Fatalf("second session StartTimer: %v", err)
	}

	if _, err := env.svc.ResetTimer(ctx, "tab-1", "S1"); err != nil {
		t.Fatalf("ResetTimer: %v", err)
	}
	if !env.svc.IsRunning("S1") {
		t.Fatalf("tab-2 still runs S1")
	}
	snap, err := env.svc.ResetTimer(ctx, "tab-2", "S1")
	if err != nil || snap.IsStarted || snap.SecondsElapsed != 0 {
		t.Fatalf("ResetTimer tab-2 = %+v, %v", snap, err)
	}

	if _, err := env.svc.UpsertThreshold(ctx, ThresholdInput{Station: "S1", Alarm1: f64(1), Alarm2: f64(1)}); err != nil {
		t.Fatalf("upsert after reset: %v", err)
	}
	if _, ok := env.sessions.states["tab-1|S1"]; ok {
		t.Fatalf("reset did not clear persisted session")
	}
}

func TestTimerService_ResumePersisted(t *testing.T) {
	env := newTestEnv(time.Hour)
	defer env.svc.StopAll()
	ctx := context.Background()

	_ = env.sessions.Save(ctx, models.TimerState{Session: "default", Station: "S1", SecondsElapsed: 120, IsStarted: true, Alarm1Input: "5"})
	_ = env.sessions.Save(ctx, models.TimerState{Session: "default", Station: "S2", SecondsElapsed: 7})

	n, err := env.svc.ResumePersisted(ctx)
	if err != nil || n != 1 {
		t.Fatalf("ResumePersisted = %d, %v; want 1", n, err)
	}
	snap := env.svc.TimerSnapshot("", "S1")
	if !snap.IsStarted || snap.SecondsElapsed != 120 || snap.Alarm1Input != "5" || snap.Clock != "00:02:00" {
		t.Fatalf("resumed snapshot %+v", snap)
	}
	if env.svc.IsRunning("S2") {
		t.Fatalf("idle persisted session resumed")
	}
}

func TestTimerService_SnapshotOfUnknownTimerIsIdle(t *testing.T) {
	env := newTestEnv(time.Hour)
	snap := env.svc.TimerSnapshot("someone", "S9")
	if snap.IsStarted || snap.Station != "S9" || snap.Session != "someone" || snap.Clock != "00:00:00" || snap.Trend == nil {
		t.Fatalf("unexpected idle snapshot %+v", snap)
	}
}

func TestTimerService_ValidatesStation(t *testing.T) {
	env := newTestEnv(time.Hour)
	if _, err := env.svc.StartTimer(context.Background(), StartTimerParams{Station: " "}); !errors.Is(err, ErrValidation) {
		t.Fatalf("StartTimer: expected ErrValidation, got %v", err)
	}
	if _, err := env.svc.ResetTimer(context.Background(), "", ""); !errors.Is(err, ErrValidation) {
		t.Fatalf("ResetTimer: expected ErrValidation, got %v", err)
	}
}

func TestTimerService_TickingWritesAlarmRows(t *testing.T) {
	env := newTestEnv(time.Millisecond)
	defer env.svc.StopAll()
	ctx := context.Background()

	if _, err := env.svc.StartTimer(ctx, StartTimerParams{Station: "S1", Alarm1: str("0"), Alarm2: str("0"), Operator: "สมชาย ใจดี"}); err != nil {
		t.Fatalf("StartTimer: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for {
		rows, _ := env.svc.ListByStation(ctx, "S1")
		if len(rows) == 2 {
			if rows[0].UserLog != "สมชาย ใจดี" {
				t.Fatalf("userlog not stamped: %+v", rows[0])
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("alarm rows not written, got %d", len(rows))
		}
		time.Sleep(2 * time.Millisecond)
	}

	// no further rows for the same run
	time.Sleep(20 * time.Millisecond)
	if rows, _ := env.svc.ListByStation(ctx, "S1"); len(rows) != 2 {
		t.Fatalf("alarms re-fired within a run: %d rows", len(rows))
	}
}

// stallPublisher blocks every Publish until release is closed.
type stallPublisher struct {
	release chan struct{}
}

func (p *stallPublisher) Publish(context.Context, models.LogEntry) error {
	<-p.release
	return nil
}

func (p *stallPublisher) Close() error { return nil }

func TestTimerService_SlowPublisherDoesNotDelayTicks(t *testing.T) {
	env := &testEnv{logs: &memLogs{}, thresholds: newMemThresholds(), sessions: newMemSessions()}
	repos := &repository.Repository{
		Logs:       env.logs,
		Thresholds: env.thresholds,
		Sessions:   env.sessions,
		Auth:       &mockAuthRepo{},
	}
	pub := &stallPublisher{release: make(chan struct{})}
	env.svc = NewService(repos, Deps{TimerTick: 5 * time.Millisecond, Now: fixedNow, Publisher: pub})
	defer func() {
		close(pub.release)
		_ = env.svc.Close()
	}()
	ctx := context.Background()

	if _, err := env.svc.StartTimer(ctx, StartTimerParams{Station: "S1", Alarm1: str("0"), Alarm2: str("0")}); err != nil {
		t.Fatalf("StartTimer: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for {
		snap := env.svc.TimerSnapshot("", "S1")
		if snap.SecondsElapsed >= 20 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("ticks stalled behind the publisher: seconds_elapsed=%d", snap.SecondsElapsed)
		}
		time.Sleep(5 * time.Millisecond)
	}
	if rows, _ := env.svc.ListByStation(ctx, "S1"); len(rows) != 2 {
		t.Fatalf("alarm rows = %d, want 2", len(rows))
	}
}
