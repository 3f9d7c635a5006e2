package service

import (
	"context"
	"time"

	"station_monitor/internal/logger"
	"station_monitor/internal/models"
	"station_monitor/internal/notify"
	"station_monitor/internal/repository"
)

type Authorization interface {
	SignUp(ctx context.Context, op models.Operator, password string) (int, error)
	Login(ctx context.Context, username, password string) (*models.Operator, string, error)
	// ParseToken returns the display name carried by a login token.
	ParseToken(accessToken string) (string, error)
}

// StationLog exposes the append-mostly alarm log.
type StationLog interface {
	AppendLog(ctx context.Context, in LogInput) (models.LogEntry, error)
	ListByStation(ctx context.Context, station string) ([]models.LogEntry, error)
	Annotate(ctx context.Context, id int64, detail string) error
}

// StationStatus is the live classification of a station's newest unannotated row.
type StationStatus interface {
	Status(ctx context.Context, station string) (models.StationStatus, error)
	LookupStatus(ctx context.Context, station string) (*models.StationStatus, error)
}

// Thresholds reads and writes today's alarm limits.
type Thresholds interface {
	GetThreshold(ctx context.Context, station string) (models.Threshold, error)
	UpsertThreshold(ctx context.Context, in ThresholdInput) (UpsertResult, error)
}

// Timers owns the server-side station timers, one per (session, station).
type Timers interface {
	StartTimer(ctx context.Context, p StartTimerParams) (models.TimerSnapshot, error)
	ResetTimer(ctx context.Context, session, station string) (models.TimerSnapshot, error)
	TimerSnapshot(session, station string) models.TimerSnapshot
	IsRunning(station string) bool
	ResumePersisted(ctx context.Context) (int, error)
	StopAll()
}

// Board is the latest polled card per monitored station.
type Board interface {
	Cards() []models.BoardCard
}

type Service struct {
	Authorization
	StationLog
	StationStatus
	Thresholds
	Timers
	Board

	publisher notify.Publisher
}

// Deps are the collaborators and settings that do not live in the repository layer.
type Deps struct {
	Log        *logger.Logger
	Publisher  notify.Publisher
	SigningKey string
	TokenTTL   time.Duration
	TimerTick  time.Duration
	Location   *time.Location
	Now        func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	if d.Publisher == nil {
		d.Publisher = notify.Nop{}
	}
	if d.TokenTTL <= 0 {
		d.TokenTTL = time.Hour
	}
	if d.TimerTick <= 0 {
		d.TimerTick = time.Second
	}
	if d.Location == nil {
		d.Location = time.UTC
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// NewService wires the repository layer into concrete services. Board is
// left for the caller, since the poller reads from StationStatus.
func NewService(repos *repository.Repository, deps Deps) *Service {
	deps = deps.withDefaults()

	// alarm rows are appended from the tick goroutine; the broker must not stall it
	publisher := notify.NewAsync(deps.Publisher, 0, publishFailed(deps.Log))
	logs := NewStationLogService(repos.Logs, publisher, deps.Log, deps.Now)
	timers := NewTimerService(repos.Sessions, repos.Thresholds, logs, deps)
	return &Service{
		Authorization: NewAuthService(repos.Auth, deps.SigningKey, deps.TokenTTL),
		StationLog:    logs,
		StationStatus: NewStationStatusService(repos.Logs),
		Thresholds:    NewThresholdService(repos.Thresholds, timers, deps.Location, deps.Now),
		Timers:        timers,
		publisher:     publisher,
	}
}

// Close stops the timers, then flushes queued alarm events and closes the
// configured publisher.
func (s *Service) Close() error {
	if s.Timers != nil {
		s.StopAll()
	}
	if s.publisher == nil {
		return nil
	}
	return s.publisher.Close()
}

// today formats now in loc as a threshold effective day.
func today(now func() time.Time, loc *time.Location) string {
	return now().In(loc).Format("2006-01-02")
}
