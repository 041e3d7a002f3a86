package main

import (
	"net/http/httptest"
	"strings"
	"testing"

	"facops/internal/auth"
	"facops/internal/testutil"
	"facops/internal/websocket"
)

func TestAuthRoutesRejectWrongMethod(t *testing.T) {
	st := testutil.SetupStore(t)
	mux := newMux(st, websocket.NewHub(), auth.New(st), t.TempDir())

	for _, path := range []string{"/auth/login", "/auth/logout"} {
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, httptest.NewRequest("GET", path, nil))
		if rr.Code != 405 {
			t.Errorf("GET %s = %d, want 405", path, rr.Code)
		}
	}

	// POST still reaches the login handler.
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest("POST", "/auth/login", strings.NewReader("{}")))
	if rr.Code == 405 {
		t.Errorf("POST /auth/login = 405, want handler response")
	}
}

func TestDatabaseInfoRoute(t *testing.T) {
	st := testutil.SetupStore(t)
	mux := newMux(st, websocket.NewHub(), auth.New(st), t.TempDir())

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest("GET", "/api/v1/admin/database", nil))
	if rr.Code != 200 {
		t.Fatalf("GET /api/v1/admin/database = %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "work_orders") {
		t.Errorf("database info missing tables: %s", rr.Body.String())
	}
}
