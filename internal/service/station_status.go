package service

import (
	"context"
	"fmt"

	"station_monitor/internal/models"
	"station_monitor/internal/repository"
	"station_monitor/internal/status"
)

type StationStatusService struct {
	logRepo repository.StationLogs
}

func NewStationStatusService(logRepo repository.StationLogs) *StationStatusService {
	return &StationStatusService{logRepo: logRepo}
}

var _ StationStatus = (*StationStatusService)(nil)

// LookupStatus classifies the newest unannotated row. Returns (nil, nil) when
// the station has none.
func (s *StationStatusService) LookupStatus(ctx context.Context, station string) (*models.StationStatus, error) {
	e, err := s.logRepo.LatestActive(ctx, station)
	if err != nil || e == nil {
		return nil, err
	}
	return &models.StationStatus{
		Actual:      e.Actual,
		Alarm1:      e.Alarm1,
		Alarm2:      e.Alarm2,
		StatusClass: status.BadgeClass(status.ClassifyEntry(*e)),
	}, nil
}

func (s *StationStatusService) Status(ctx context.Context, station string) (models.StationStatus, error) {
	st, err := s.LookupStatus(ctx, station)
	if err != nil {
		return models.StationStatus{}, err
	}
	if st == nil {
		return models.StationStatus{}, fmt.Errorf("station %s status: %w", station, ErrNotFound)
	}
	return *st, nil
}
