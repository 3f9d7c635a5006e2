package dashboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestHTTPSource_LookupStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/station-status/A1":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"actual":301,"alarm_1":300,"alarm_2":180,"statusClass":"bg-danger"}`))
		case "/api/station-status/A2":
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"no data"}`))
		case "/api/station-status/A3":
			_, _ = w.Write([]byte(`not json`))
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL+"/", time.Second)
	ctx := context.Background()

	st, err := src.LookupStatus(ctx, "A1")
	if err != nil {
		t.Fatalf("A1: unexpected error: %v", err)
	}
	if st == nil || st.Actual != 301 || st.StatusClass != "bg-danger" || st.Alarm1 == nil || *st.Alarm1 != 300 {
		t.Fatalf("A1: unexpected status %+v", st)
	}

	st, err = src.LookupStatus(ctx, "A2")
	if err != nil || st != nil {
		t.Fatalf("A2: expected (nil, nil), got (%+v, %v)", st, err)
	}

	if _, err = src.LookupStatus(ctx, "A3"); err == nil {
		t.Fatalf("A3: expected decode error")
	}
	if _, err = src.LookupStatus(ctx, "A9"); err == nil {
		t.Fatalf("A9: expected status error")
	}
}

func TestHTTPSource_FeedsPoller(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"actual":190,"alarm_1":300,"alarm_2":180,"statusClass":"bg-warning"}`))
	}))
	defer srv.Close()

	p := NewPoller(NewHTTPSource(srv.URL, 0), []string{"G1"}, nil)
	c := p.PollOnce(context.Background())[0]
	if c.Level != "warning" || c.TooltipText != warningTooltip {
		t.Fatalf("unexpected card %+v", c)
	}
}
