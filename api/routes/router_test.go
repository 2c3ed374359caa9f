package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rinsrhq/console-backend/internal/guard"
	"github.com/rinsrhq/console-backend/pkg/config"
	"github.com/rinsrhq/console-backend/pkg/logger"
)

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "8080"},
		JWT: config.JWTConfig{
			Secret:            "router-test-secret",
			Issuer:            "console-test",
			ExpirationMinutes: 15,
		},
		AuthRateLimit: config.AuthRateLimitConfig{
			LoginWindow:    time.Minute,
			LoginIPLimit:   10,
			RefreshWindow:  time.Minute,
			RefreshIPLimit: 10,
		},
	}
}

func newTestRouter() http.Handler {
	return NewRouter(Deps{
		Config:         testConfig(),
		Logger:         logger.New(logger.Options{ServiceName: "router-test"}),
		SessionManager: stubSessionChecker{},
		Guard:          guard.New(nil),
	})
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestPublicPingIsReachable(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/public/ping", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	router := newTestRouter()

	paths := []string{
		"/api/v1/me",
		"/api/v1/notifications/",
		"/api/v1/guard/evaluate?path=/dashboard/vendor-orders",
		"/api/v1/realtime/ws",
	}
	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401 without a token, got %d", path, rec.Code)
		}
	}
}

func TestUnknownRouteReturns404(t *testing.T) {
	router := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/does-not-exist", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
