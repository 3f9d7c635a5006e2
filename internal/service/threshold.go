package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"station_monitor/internal/metrics"
	"station_monitor/internal/models"
	"station_monitor/internal/repository"
)

// RunningChecker reports whether any session is running the station's timer.
type RunningChecker interface {
	IsRunning(station string) bool
}

type ThresholdService struct {
	repo    repository.Thresholds
	running RunningChecker
	loc     *time.Location
	now     func() time.Time
}

func NewThresholdService(repo repository.Thresholds, running RunningChecker, loc *time.Location, now func() time.Time) *ThresholdService {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &ThresholdService{repo: repo, running: running, loc: loc, now: now}
}

var _ Thresholds = (*ThresholdService)(nil)

// GetThreshold returns today's row. Yesterday's limits do not carry forward.
func (s *ThresholdService) GetThreshold(ctx context.Context, station string) (models.Threshold, error) {
	station = strings.TrimSpace(station)
	day := today(s.now, s.loc)
	t, err := s.repo.Get(ctx, station, day)
	if err != nil {
		return models.Threshold{}, err
	}
	if t == nil {
		return models.Threshold{}, fmt.Errorf("threshold %s/%s: %w", station, day, ErrNotFound)
	}
	return *t, nil
}

// UpsertThreshold writes today's limits unless the station timer is running.
func (s *ThresholdService) UpsertThreshold(ctx context.Context, in ThresholdInput) (UpsertResult, error) {
	station := strings.TrimSpace(in.Station)
	if station == "" || in.Alarm1 == nil || in.Alarm2 == nil {
		return UpsertResult{}, fmt.Errorf("%w: station, alarm_1 and alarm_2 are required", ErrValidation)
	}
	if s.running != nil && s.running.IsRunning(station) {
		metrics.IncThresholdUpsert(metrics.ResultRejected)
		return UpsertResult{}, fmt.Errorf("threshold %s: %w", station, ErrStaleWrite)
	}

	id, created, err := s.repo.Upsert(ctx, models.Threshold{
		Station:      station,
		Alarm1:       *in.Alarm1,
		Alarm2:       *in.Alarm2,
		EffectiveDay: today(s.now, s.loc),
		UpdatedAt:    s.now().UTC(),
	})
	if err != nil {
		metrics.IncThresholdUpsert(metrics.ResultError)
		return UpsertResult{}, err
	}

	res := UpsertResult{Status: metrics.ResultUpdated, ID: id}
	if created {
		res.Status = metrics.ResultCreated
	}
	metrics.IncThresholdUpsert(res.Status)
	return res, nil
}
