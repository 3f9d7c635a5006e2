package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"station_monitor/internal/models"
	"station_monitor/internal/repository/db"
)

type ThresholdSQL struct {
	db      *sql.DB
	dialect db.Dialect
}

func NewThresholdSQL(conn *sql.DB, dialect db.Dialect) *ThresholdSQL {
	return &ThresholdSQL{db: conn, dialect: dialect}
}

var _ Thresholds = (*ThresholdSQL)(nil)

const (
	selectThresholdSQL = `SELECT id, station, alarm_1, alarm_2, effective_day, updated_at
		FROM station_thresholds WHERE station = ? AND effective_day = ?`

	// The unique (station, effective_day) index makes concurrent inserts for
	// the same day collapse into one row.
	upsertThresholdSQL = `INSERT INTO station_thresholds (station, alarm_1, alarm_2, effective_day, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (station, effective_day) DO UPDATE SET
			alarm_1 = excluded.alarm_1,
			alarm_2 = excluded.alarm_2,
			updated_at = excluded.updated_at
		RETURNING id`
	selectThresholdIDSQL = `SELECT id FROM station_thresholds WHERE station = ? AND effective_day = ?`
)

// Get returns the threshold row for station on day (YYYY-MM-DD). Returns (nil, nil) if none.
func (r *ThresholdSQL) Get(ctx context.Context, station, day string) (*models.Threshold, error) {
	var t models.Threshold
	err := r.db.QueryRowContext(ctx, r.dialect.Rebind(selectThresholdSQL), station, day).
		Scan(&t.ID, &t.Station, &t.Alarm1, &t.Alarm2, &t.EffectiveDay, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select threshold %s/%s: %w", station, day, err)
	}
	t.UpdatedAt = t.UpdatedAt.UTC()
	return &t, nil
}

// Upsert runs the existence check and the write in one transaction.
func (r *ThresholdSQL) Upsert(ctx context.Context, t models.Threshold) (int64, bool, error) {
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = time.Now().UTC()
	} else {
		t.UpdatedAt = t.UpdatedAt.UTC()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, false, fmt.Errorf("begin threshold transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var existing int64
	created := false
	err = tx.QueryRowContext(ctx, r.dialect.Rebind(selectThresholdIDSQL), t.Station, t.EffectiveDay).Scan(&existing)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		created = true
	case err != nil:
		return 0, false, fmt.Errorf("lookup threshold %s/%s: %w", t.Station, t.EffectiveDay, err)
	}

	var id int64
	err = tx.QueryRowContext(ctx, r.dialect.Rebind(upsertThresholdSQL),
		t.Station, t.Alarm1, t.Alarm2, t.EffectiveDay, t.UpdatedAt,
	).Scan(&id)
	if err != nil {
		return 0, false, fmt.Errorf("upsert threshold %s/%s: %w", t.Station, t.EffectiveDay, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, false, fmt.Errorf("commit threshold transaction: %w", err)
	}
	return id, created, nil
}
