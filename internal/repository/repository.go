package repository

import (
	"context"
	"database/sql"

	"station_monitor/internal/models"
	"station_monitor/internal/repository/db"
)

type Authorization interface {
	Create(ctx context.Context, u models.Operator) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.Operator, error)
}

// StationLogs is the append-mostly store of alarm rows.
type StationLogs interface {
	Append(ctx context.Context, e models.LogEntry) (int64, error)
	ListByStation(ctx context.Context, station string) ([]models.LogEntry, error)
	// Latest returns the newest row for station regardless of remark.
	Latest(ctx context.Context, station string) (*models.LogEntry, error)
	// LatestActive returns the newest unannotated row for station.
	LatestActive(ctx context.Context, station string) (*models.LogEntry, error)
	// Annotate sets detail and marks the row remarked. It reports false when no row has id.
	Annotate(ctx context.Context, id int64, detail string) (bool, error)
}

type Thresholds interface {
	Get(ctx context.Context, station, day string) (*models.Threshold, error)
	// Upsert inserts or replaces the (station, effective_day) row and reports whether it was created.
	Upsert(ctx context.Context, t models.Threshold) (id int64, created bool, err error)
}

// TimerSessions persists per-session timer state so runs survive a restart.
type TimerSessions interface {
	Save(ctx context.Context, s models.TimerState) error
	Load(ctx context.Context, session, station string) (*models.TimerState, error)
	Clear(ctx context.Context, session, station string) error
	ListRunning(ctx context.Context) ([]models.TimerState, error)
}

type Repository struct {
	Logs       StationLogs
	Thresholds Thresholds
	Sessions   TimerSessions
	Auth       Authorization
}

// NewRepository wires the SQL-backed stores. Sessions can be swapped for the
// redis store afterwards.
func NewRepository(conn *sql.DB, dialect db.Dialect) *Repository {
	return &Repository{
		Logs:       NewStationLogSQL(conn, dialect),
		Thresholds: NewThresholdSQL(conn, dialect),
		Sessions:   NewTimerSessionSQL(conn, dialect),
		Auth:       NewUserRepository(conn, dialect),
	}
}
