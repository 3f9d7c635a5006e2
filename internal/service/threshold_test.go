package service

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubRunning map[string]bool

func (s stubRunning) IsRunning(station string) bool { return s[station] }

func TestThresholdService_UpsertCreatedThenUpdated(t *testing.T) {
	repo := newMemThresholds()
	svc := NewThresholdService(repo, stubRunning{}, time.UTC, fixedNow)
	ctx := context.Background()

	res, err := svc.UpsertThreshold(ctx, ThresholdInput{Station: "A", Alarm1: f64(600), Alarm2: f64(300)})
	if err != nil || res.Status != "created" {
		t.Fatalf("first upsert = %+v, %v; want created", res, err)
	}
	res2, err := svc.UpsertThreshold(ctx, ThresholdInput{Station: "A", Alarm1: f64(900), Alarm2: f64(450)})
	if err != nil || res2.Status != "updated" || res2.ID != res.ID {
		t.Fatalf("second upsert = %+v, %v; want updated id %d", res2, err, res.ID)
	}

	got, err := svc.GetThreshold(ctx, "A")
	if err != nil {
		t.Fatalf("GetThreshold: %v", err)
	}
	if got.Alarm1 != 900 || got.Alarm2 != 450 || got.EffectiveDay != "2026-10-14" {
		t.Fatalf("GetThreshold = %+v", got)
	}
}

func TestThresholdService_DoesNotCarryForward(t *testing.T) {
	repo := newMemThresholds()
	day := fixedNow()
	now := func() time.Time { return day }
	svc := NewThresholdService(repo, nil, time.UTC, now)
	ctx := context.Background()

	if _, err := svc.UpsertThreshold(ctx, ThresholdInput{Station: "A", Alarm1: f64(1), Alarm2: f64(1)}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	day = day.Add(24 * time.Hour)
	if _, err := svc.GetThreshold(ctx, "A"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("next day: expected ErrNotFound, got %v", err)
	}
}

func TestThresholdService_DayFollowsTimezone(t *testing.T) {
	repo := newMemThresholds()
	bangkok := time.FixedZone("ICT", 7*3600)
	// 20:00 UTC is already the next day in Bangkok
	now := func() time.Time { return time.Date(2026, 10, 14, 20, 0, 0, 0, time.UTC) }
	svc := NewThresholdService(repo, nil, bangkok, now)

	if _, err := svc.UpsertThreshold(context.Background(), ThresholdInput{Station: "A", Alarm1: f64(1), Alarm2: f64(1)}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if _, ok := repo.rows["A|2026-10-15"]; !ok {
		t.Fatalf("row not keyed by local day: %v", repo.rows)
	}
}

func TestThresholdService_Rejections(t *testing.T) {
	repo := newMemThresholds()
	svc := NewThresholdService(repo, stubRunning{"S1": true}, time.UTC, fixedNow)
	ctx := context.Background()

	tests := []struct {
		name string
		in   ThresholdInput
		want error
	}{
		{"missing station", ThresholdInput{Alarm1: f64(1), Alarm2: f64(1)}, ErrValidation},
		{"missing alarm_1", ThresholdInput{Station: "S2", Alarm2: f64(1)}, ErrValidation},
		{"missing alarm_2", ThresholdInput{Station: "S2", Alarm1: f64(1)}, ErrValidation},
		{"timer running", ThresholdInput{Station: "S1", Alarm1: f64(1), Alarm2: f64(1)}, ErrStaleWrite},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.UpsertThreshold(ctx, tt.in); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
	if len(repo.rows) != 0 {
		t.Fatalf("rejected upserts mutated the store: %v", repo.rows)
	}
}
