package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/cybersim/horacero/internal/database"
	"github.com/cybersim/horacero/internal/game"
	"github.com/cybersim/horacero/internal/provider"
)

const testAdminPassword = "secret-drill"

// testRouter wires the full route tree against an in-memory store and
// a deterministic game manager with no real timers.
func testRouter(t *testing.T) (*chi.Mux, *DocStore) {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store, err := NewDocStore(ctx, db)
	if err != nil {
		t.Fatalf("init doc store: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	games := game.NewManager(logger, provider.NewStub(), store, game.Config{})
	games.SetRandSource(func() *rand.Rand { return rand.New(rand.NewSource(42)) })
	games.SetClock(func(time.Duration) <-chan time.Time {
		ch := make(chan time.Time, 1)
		ch <- time.Time{}
		return ch
	})
	t.Cleanup(games.Close)

	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	r := chi.NewRouter()
	addRoutes(r, logger, store, store, games, db, Options{
		AdminPasswordHash: string(hash),
		PollIntervalMs:    3000,
	})
	return r, store
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func adminLogin(t *testing.T, r http.Handler) []*http.Cookie {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/admin/login", AdminLoginRequest{Password: testAdminPassword}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("login: expected a session cookie")
	}
	return cookies
}

func TestSessionLookupAndJoin(t *testing.T) {
	r, store := testRouter(t)

	sess, err := store.CreateSession(context.Background(), []string{"ana@test.dev", "luis@test.dev"})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}

	w := doJSON(t, r, http.MethodGet, "/api/sessions/"+sess.Code, nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("lookup: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var view SessionView
	json.NewDecoder(w.Body).Decode(&view)
	if view.ID != sess.Code || view.Status != "waiting" {
		t.Errorf("unexpected lobby view %+v", view)
	}
	if view.PollIntervalMs != 3000 {
		t.Errorf("expected poll hint 3000, got %d", view.PollIntervalMs)
	}

	// Codes are case-insensitive on the wire.
	join := JoinRequest{Email: "ANA@test.dev", FirstName: "Ana", LastName: "Quispe"}
	w = doJSON(t, r, http.MethodPost, "/api/sessions/"+sess.Code+"/join", join, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("join: expected 200, got %d: %s", w.Code, w.Body.String())
	}
	json.NewDecoder(w.Body).Decode(&view)
	if len(view.Players) != 1 || view.Players[0].Email != "ana@test.dev" {
		t.Errorf("expected normalized joined player, got %+v", view.Players)
	}

	// Second join with the same email.
	w = doJSON(t, r, http.MethodPost, "/api/sessions/"+sess.Code+"/join", join, nil)
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate join: expected 409, got %d", w.Code)
	}

	// Uninvited email.
	eve := JoinRequest{Email: "eve@test.dev", FirstName: "Eve", LastName: "X"}
	w = doJSON(t, r, http.MethodPost, "/api/sessions/"+sess.Code+"/join", eve, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("uninvited join: expected 403, got %d", w.Code)
	}

	// Unknown code.
	w = doJSON(t, r, http.MethodGet, "/api/sessions/ZZZZZZ", nil, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown code: expected 404, got %d", w.Code)
	}

	// Missing fields.
	w = doJSON(t, r, http.MethodPost, "/api/sessions/"+sess.Code+"/join", JoinRequest{Email: "luis@test.dev"}, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("incomplete join: expected 400, got %d", w.Code)
	}
}

func TestDecisionWithoutRunningGame(t *testing.T) {
	r, store := testRouter(t)

	sess, _ := store.CreateSession(context.Background(), []string{"a@t.dev", "b@t.dev"})
	w := doJSON(t, r, http.MethodPost, "/api/sessions/"+sess.Code+"/decision", DecisionRequest{ChoiceID: "A"}, nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", w.Code, w.Body.String())
	}
}

func TestStateBeforeStart(t *testing.T) {
	r, store := testRouter(t)

	sess, _ := store.CreateSession(context.Background(), []string{"a@t.dev", "b@t.dev"})
	w := doJSON(t, r, http.MethodGet, "/api/sessions/"+sess.Code+"/state", nil, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before start, got %d", w.Code)
	}
}
