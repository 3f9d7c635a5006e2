package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"station_monitor/internal/logger"
	"station_monitor/internal/metrics"
	"station_monitor/internal/models"
	"station_monitor/internal/notify"
	"station_monitor/internal/repository"
	"station_monitor/internal/timer"
)

type StationLogService struct {
	logRepo   repository.StationLogs
	publisher notify.Publisher
	log       *logger.Logger
	now       func() time.Time
}

func NewStationLogService(logRepo repository.StationLogs, publisher notify.Publisher, log *logger.Logger, now func() time.Time) *StationLogService {
	if publisher == nil {
		publisher = notify.Nop{}
	}
	if log == nil {
		log = logger.Nop()
	}
	if now == nil {
		now = time.Now
	}
	return &StationLogService{logRepo: logRepo, publisher: publisher, log: log, now: now}
}

var (
	_ StationLog          = (*StationLogService)(nil)
	_ timer.AlarmSink     = (*StationLogService)(nil)
	_ timer.ReadingSource = (*StationLogService)(nil)
)

func validateLogInput(in LogInput) error {
	if strings.TrimSpace(in.Station) == "" {
		return fmt.Errorf("%w: station is required", ErrValidation)
	}
	switch in.Status {
	case models.StatusAlarm1, models.StatusAlarm2:
	default:
		return fmt.Errorf("%w: status must be %q or %q", ErrValidation, models.StatusAlarm1, models.StatusAlarm2)
	}
	return nil
}

// AppendLog stores a row and returns it with its assigned id. Publishing is
// best effort and never fails the append.
func (s *StationLogService) AppendLog(ctx context.Context, in LogInput) (models.LogEntry, error) {
	if err := validateLogInput(in); err != nil {
		return models.LogEntry{}, err
	}

	e := models.LogEntry{
		Actual:    in.Seconds,
		Alarm1:    in.Alarm1,
		Alarm2:    in.Alarm2,
		Station:   strings.TrimSpace(in.Station),
		Status:    in.Status,
		Remark:    models.RemarkNone,
		UserLog:   in.UserLog,
		CreatedAt: s.now().UTC(),
	}
	id, err := s.logRepo.Append(ctx, e)
	if err != nil {
		return models.LogEntry{}, err
	}
	e.ID = id
	metrics.IncAlarmFired(e.Status)

	if err := s.publisher.Publish(ctx, e); err != nil {
		publishFailed(s.log)(e, err)
	}
	return e, nil
}

func publishFailed(log *logger.Logger) func(models.LogEntry, error) {
	return func(e models.LogEntry, err error) {
		metrics.IncPublishFailure()
		log.Warnw("station_log_publish_failed", "station", e.Station, "id", e.ID, "err", err)
	}
}

// AppendAlarm is the timer's write path.
func (s *StationLogService) AppendAlarm(ctx context.Context, e models.LogEntry) error {
	_, err := s.AppendLog(ctx, LogInput{
		Seconds: e.Actual,
		Alarm1:  e.Alarm1,
		Alarm2:  e.Alarm2,
		Station: e.Station,
		Status:  e.Status,
		UserLog: e.UserLog,
	})
	if err != nil {
		metrics.IncAlarmLogFailure()
	}
	return err
}

func (s *StationLogService) ListByStation(ctx context.Context, station string) ([]models.LogEntry, error) {
	return s.logRepo.ListByStation(ctx, strings.TrimSpace(station))
}

// Annotate remarks a row. A second call overwrites the detail. An empty
// detail still marks the row as remarked.
func (s *StationLogService) Annotate(ctx context.Context, id int64, detail string) error {
	detail = strings.TrimSpace(detail)
	if id <= 0 {
		return fmt.Errorf("%w: invalid log id", ErrValidation)
	}
	ok, err := s.logRepo.Annotate(ctx, id, detail)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("station log %d: %w", id, ErrNotFound)
	}
	return nil
}

// LatestReading treats the newest row's actual as the station's external reading.
func (s *StationLogService) LatestReading(ctx context.Context, station string) (float64, bool, error) {
	e, err := s.logRepo.Latest(ctx, station)
	if err != nil || e == nil {
		return 0, false, err
	}
	return e.Actual, true, nil
}
