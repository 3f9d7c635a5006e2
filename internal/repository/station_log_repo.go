package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"station_monitor/internal/models"
	"station_monitor/internal/repository/db"
)

type StationLogSQL struct {
	db      *sql.DB
	dialect db.Dialect
}

func NewStationLogSQL(conn *sql.DB, dialect db.Dialect) *StationLogSQL {
	return &StationLogSQL{db: conn, dialect: dialect}
}

var _ StationLogs = (*StationLogSQL)(nil)

const logColumns = `id, actual, alarm_1, alarm_2, station, status, remark, detail, userlog, created_at`

const (
	insertLogSQL = `INSERT INTO station_logs (actual, alarm_1, alarm_2, station, status, remark, detail, userlog, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`
	selectLogsByStationSQL = `SELECT ` + logColumns + ` FROM station_logs WHERE station = ? ORDER BY id DESC`
	selectLatestLogSQL     = `SELECT ` + logColumns + ` FROM station_logs WHERE station = ? ORDER BY id DESC LIMIT 1`
	selectLatestActiveSQL  = `SELECT ` + logColumns + ` FROM station_logs WHERE station = ? AND remark <> '1' ORDER BY id DESC LIMIT 1`
	annotateLogSQL         = `UPDATE station_logs SET detail = ?, remark = '1' WHERE id = ?`
)

// Append inserts a row and returns its id. Remark defaults to "0" and
// CreatedAt to now (UTC).
func (r *StationLogSQL) Append(ctx context.Context, e models.LogEntry) (int64, error) {
	if e.Remark == "" {
		e.Remark = models.RemarkNone
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	} else {
		e.CreatedAt = e.CreatedAt.UTC()
	}

	var id int64
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(insertLogSQL),
		e.Actual,
		e.Alarm1,
		e.Alarm2,
		strings.TrimSpace(e.Station),
		e.Status,
		e.Remark,
		e.Detail,
		e.UserLog,
		e.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert station log for %q: %w", e.Station, err)
	}
	return id, nil
}

// ListByStation returns every row for station, newest first.
func (r *StationLogSQL) ListByStation(ctx context.Context, station string) ([]models.LogEntry, error) {
	rows, err := r.db.QueryContext(ctx, r.dialect.Rebind(selectLogsByStationSQL), station)
	if err != nil {
		return nil, fmt.Errorf("list station logs for %q: %w", station, err)
	}
	defer rows.Close()

	out := make([]models.LogEntry, 0, 64)
	for rows.Next() {
		e, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *StationLogSQL) Latest(ctx context.Context, station string) (*models.LogEntry, error) {
	return r.one(ctx, selectLatestLogSQL, station)
}

func (r *StationLogSQL) LatestActive(ctx context.Context, station string) (*models.LogEntry, error) {
	return r.one(ctx, selectLatestActiveSQL, station)
}

// Annotate overwrites detail on an existing row. Re-annotating is allowed.
func (r *StationLogSQL) Annotate(ctx context.Context, id int64, detail string) (bool, error) {
	res, err := r.db.ExecContext(ctx, r.dialect.Rebind(annotateLogSQL), detail, id)
	if err != nil {
		return false, fmt.Errorf("annotate station log %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected for station log %d: %w", id, err)
	}
	return n > 0, nil
}

// one returns (nil, nil) when the station has no matching row.
func (r *StationLogSQL) one(ctx context.Context, query, station string) (*models.LogEntry, error) {
	row := r.db.QueryRowContext(ctx, r.dialect.Rebind(query), station)
	e, err := scanLog(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLog(s scanner) (models.LogEntry, error) {
	var (
		e              models.LogEntry
		alarm1, alarm2 sql.NullFloat64
		detail         sql.NullString
	)
	if err := s.Scan(&e.ID, &e.Actual, &alarm1, &alarm2, &e.Station, &e.Status, &e.Remark, &detail, &e.UserLog, &e.CreatedAt); err != nil {
		return models.LogEntry{}, err
	}
	if alarm1.Valid {
		v := alarm1.Float64
		e.Alarm1 = &v
	}
	if alarm2.Valid {
		v := alarm2.Float64
		e.Alarm2 = &v
	}
	if detail.Valid {
		d := detail.String
		e.Detail = &d
	}
	e.CreatedAt = e.CreatedAt.UTC()
	return e, nil
}
