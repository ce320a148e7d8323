package routes

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"marketplace_api/internal/adapter/http/handlers"
	"marketplace_api/internal/adapter/http/handlers/mocks"
	"marketplace_api/internal/domain/entities"
	appconfig "marketplace_api/internal/infrastructure/config"
	"marketplace_api/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap"
)

const testSecret = "routes-secret"

type routerMocks struct {
	payments      *mocks.MockIPaymentUseCase
	services      *mocks.MockIServiceUseCase
	notifications *mocks.MockINotificationUseCase
}

func newTestRouter(t *testing.T) (*gin.Engine, routerMocks) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	m := routerMocks{
		payments:      mocks.NewMockIPaymentUseCase(ctrl),
		services:      mocks.NewMockIServiceUseCase(ctrl),
		notifications: mocks.NewMockINotificationUseCase(ctrl),
	}
	cfg := &appconfig.Config{JWTSecret: testSecret}
	r, err := NewRouter(cfg, Handlers{
		Payments:      handlers.NewPaymentHandler(m.payments, nil),
		Services:      handlers.NewServiceHandler(m.services, nil),
		Notifications: handlers.NewNotificationHandler(m.notifications),
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("new router: %v", err)
	}
	return r, m
}

func bearer(t *testing.T, userID string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": userID,
		"exp":    time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return "Bearer " + token
}

func TestRouter_Ping(t *testing.T) {
	r, _ := newTestRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/ping", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestRouter_AuthenticatedRoutesRequireToken(t *testing.T) {
	r, _ := newTestRouter(t)
	paths := []struct{ method, path string }{
		{http.MethodPost, "/v1/payments"},
		{http.MethodGet, "/v1/payments/pay-1"},
		{http.MethodGet, "/v1/payments/client"},
		{http.MethodPut, "/v1/payments/pay-1/status"},
		{http.MethodPost, "/v1/payments/card-token"},
		{http.MethodGet, "/v1/services/svc-1"},
		{http.MethodGet, "/v1/notifications"},
	}
	for _, p := range paths {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(p.method, p.path, nil))
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401, got %d", p.method, p.path, w.Code)
		}
	}
}

func TestRouter_TokenReachesHandler(t *testing.T) {
	r, m := newTestRouter(t)
	m.payments.EXPECT().ListByClient(gomock.Any(), "client-1", gomock.Any()).Return(usecase.PaymentListResult{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/payments/client", nil)
	req.Header.Set("Authorization", bearer(t, "client-1"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
}

func TestRouter_WebhookIsPublic(t *testing.T) {
	r, m := newTestRouter(t)
	m.payments.EXPECT().HandleWebhook(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/payments/webhook", bytes.NewBufferString(`{"type":"payment","data":{"id":"1"}}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestRouter_StaticSegmentsWinOverIDs(t *testing.T) {
	r, m := newTestRouter(t)
	m.notifications.EXPECT().MarkAllAsRead(gomock.Any(), "user-1").Return(0, nil)
	m.payments.EXPECT().GetByID(gomock.Any(), "pay-1").Return(entities.Payment{ID: "pay-1"}, nil)

	req := httptest.NewRequest(http.MethodPut, "/v1/notifications/read-all", nil)
	req.Header.Set("Authorization", bearer(t, "user-1"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("read-all: expected 200, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/payments/pay-1", nil)
	req.Header.Set("Authorization", bearer(t, "user-1"))
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("get payment: expected 200, got %d", w.Code)
	}
}
