package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"station_monitor/internal/service"

	"github.com/gin-gonic/gin"
)

// minimal router wiring only the middleware + a labelled endpoint
func newMiddlewareOnlyRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(s, nil)
	r.Use(h.requestIDMiddleware)
	r.GET("/secure", h.operatorMiddleware, func(c *gin.Context) {
		name, ok := operatorName(c)
		c.JSON(http.StatusOK, gin.H{"ok": ok, "operator": name, "session": sessionID(c), "request_id": requestID(c)})
	})
	return r
}

func TestOperatorMiddleware_Errors(t *testing.T) {
	cases := []struct {
		name     string
		header   string
		parseErr error
		errMsg   string
	}{
		{"invalid scheme", "Token abc", nil, "invalid Authorization header format"},
		{"bearer without token", "Bearer", nil, "invalid Authorization header format"},
		{"bearer with blank token", "Bearer   ", nil, "invalid Authorization header format"},
		{"expired/invalid token", "Bearer expired", errors.New("expired"), "invalid or expired token"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			s := &service.Service{Authorization: &mockAuth{parseErr: tc.parseErr}}
			r := newMiddlewareOnlyRouter(s)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/secure", nil)
			req.Header.Set("Authorization", tc.header)
			r.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status: got %d, want 401 (body=%s)", w.Code, w.Body.String())
			}
			var out struct {
				Error string `json:"error"`
			}
			_ = json.Unmarshal(w.Body.Bytes(), &out)
			if out.Error != tc.errMsg {
				t.Fatalf("error message: got %q, want %q", out.Error, tc.errMsg)
			}
		})
	}
}

func TestOperatorMiddleware_Optional(t *testing.T) {
	auth := &mockAuth{parseName: "สมชาย ใจดี"}
	r := newMiddlewareOnlyRouter(&service.Service{Authorization: auth})

	type resp struct {
		OK        bool   `json:"ok"`
		Operator  string `json:"operator"`
		Session   string `json:"session"`
		RequestID string `json:"request_id"`
	}

	// no token passes through unlabelled
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/secure", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}
	var out resp
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if out.OK || out.Operator != "" || out.Session != service.DefaultSession {
		t.Fatalf("unexpected response: %+v", out)
	}
	if out.RequestID == "" || w.Header().Get(requestIDHeader) != out.RequestID {
		t.Fatalf("request id not assigned: %+v / %q", out, w.Header().Get(requestIDHeader))
	}

	// valid token labels the request
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/secure", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	req.Header.Set(sessionIDHeader, "screen-7")
	req.Header.Set(requestIDHeader, "req-1")
	r.ServeHTTP(w, req)

	out = resp{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if !out.OK || out.Operator != "สมชาย ใจดี" || out.Session != "screen-7" || out.RequestID != "req-1" {
		t.Fatalf("unexpected response: %+v", out)
	}
	if auth.lastParseToken != "good-token" {
		t.Fatalf("ParseToken got %q, want %q", auth.lastParseToken, "good-token")
	}
}
