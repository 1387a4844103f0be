package handler

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dukerupert/habitgrid/internal/auth"
	"github.com/dukerupert/habitgrid/internal/database"
	"github.com/dukerupert/habitgrid/internal/habit"
	"github.com/dukerupert/habitgrid/internal/store"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func setupHandlerDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createUser(t *testing.T, db *sql.DB, email string) int64 {
	t.Helper()
	u, err := store.NewUserStore(db).Create(email, "x")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u.ID
}

func newEngine(db *sql.DB) *habit.Engine {
	return habit.NewEngine(store.NewHabitEventStore(db), store.NewHabitStore(db), time.UTC)
}

func jsonRequest(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func asUser(r *http.Request, userID, sessionID int64) *http.Request {
	return r.WithContext(auth.WithAuth(r.Context(), auth.AuthContext{UserID: userID, SessionID: sessionID}))
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
}
