package service

import (
	"context"
	"errors"
	"testing"
)

func TestStationStatusService_Status(t *testing.T) {
	repo := &memLogs{}
	logs := NewStationLogService(repo, nil, nil, fixedNow)
	svc := NewStationStatusService(repo)
	ctx := context.Background()

	if _, err := svc.Status(ctx, "S1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("no rows: expected ErrNotFound, got %v", err)
	}
	if st, err := svc.LookupStatus(ctx, "S1"); st != nil || err != nil {
		t.Fatalf("LookupStatus without rows = %+v, %v", st, err)
	}

	first, _ := logs.AppendLog(ctx, LogInput{Seconds: 181, Alarm1: f64(300), Alarm2: f64(180), Station: "S1", Status: "alarm_2"})
	st, err := svc.Status(ctx, "S1")
	if err != nil || st.StatusClass != "bg-warning" || st.Actual != 181 {
		t.Fatalf("after alarm_2: %+v, %v", st, err)
	}

	second, _ := logs.AppendLog(ctx, LogInput{Seconds: 301, Alarm1: f64(300), Alarm2: f64(180), Station: "S1", Status: "alarm_1"})
	st, _ = svc.Status(ctx, "S1")
	if st.StatusClass != "bg-danger" {
		t.Fatalf("after alarm_1: %+v", st)
	}

	// annotating the newest row exposes the previous one
	if err := logs.Annotate(ctx, second.ID, "handled"); err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	st, _ = svc.Status(ctx, "S1")
	if st.StatusClass != "bg-warning" || st.Actual != 181 {
		t.Fatalf("annotated row not skipped: %+v", st)
	}

	if err := logs.Annotate(ctx, first.ID, "handled"); err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	if _, err := svc.Status(ctx, "S1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("all rows annotated: expected ErrNotFound, got %v", err)
	}
}

func TestStationStatusService_NoThresholdsIsNormal(t *testing.T) {
	repo := &memLogs{}
	logs := NewStationLogService(repo, nil, nil, fixedNow)
	_, _ = logs.AppendLog(context.Background(), LogInput{Seconds: 9999, Station: "S2", Status: "alarm_1"})

	st, err := NewStationStatusService(repo).Status(context.Background(), "S2")
	if err != nil || st.StatusClass != "bg-success" || st.Alarm1 != nil {
		t.Fatalf("status = %+v, %v; want bg-success", st, err)
	}
}
