package service

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/safety-roster/internal/auth"
	"github.com/spec-kit/safety-roster/internal/config"
	"github.com/spec-kit/safety-roster/internal/domain"
	"github.com/spec-kit/safety-roster/internal/events"
	"github.com/spec-kit/safety-roster/internal/repository"
	apperrors "github.com/spec-kit/safety-roster/pkg/util"
)

type webhookRecorder struct {
	mu     sync.Mutex
	bodies []string
}

func (w *webhookRecorder) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	w.mu.Lock()
	w.bodies = append(w.bodies, string(body))
	w.mu.Unlock()
	rw.WriteHeader(http.StatusNoContent)
}

func (w *webhookRecorder) received() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.bodies...)
}

func setupNotified(t *testing.T, webhookURL string) (*RegistryService, *NotificationService) {
	t.Helper()
	dispatcher := events.NewInMemoryDispatcher()
	notifier := NewNotificationService(dispatcher, zap.NewNop(), config.NotificationConfig{
		WebhookURL:        webhookURL,
		WebhookRetries:    0,
		WebhookTimeoutSec: 2,
	})
	notifier.RegisterHandlers()
	svc := NewRegistryService(testConfig(), RegistryDependencies{
		StaffRepo:  repository.NewStaffRepository(newFakeStore()),
		Dispatcher: dispatcher,
	})
	return svc, notifier
}

func TestNotification_SeriousInjuryPostsWebhook(t *testing.T) {
	recorder := &webhookRecorder{}
	server := httptest.NewServer(recorder)
	defer server.Close()
	svc, notifier := setupNotified(t, server.URL)

	fields := validFields()
	fields.Status = domain.StatusSeriousInjury
	fields.Location = "3F 病棟"
	_, err := svc.Save(context.Background(), "31", fields)
	require.NoError(t, err)
	notifier.Drain()

	bodies := recorder.received()
	require.Len(t, bodies, 1)
	assert.Contains(t, bodies[0], `"type":"staff_status_reported"`)
	assert.Contains(t, bodies[0], `"staff_id":"31"`)
	assert.Contains(t, bodies[0], `"status":"serious_injury"`)
}

func TestNotification_OtherStatusesDoNotAlert(t *testing.T) {
	recorder := &webhookRecorder{}
	server := httptest.NewServer(recorder)
	defer server.Close()
	svc, notifier := setupNotified(t, server.URL)

	_, err := svc.Save(context.Background(), "32", validFields())
	require.NoError(t, err)
	notifier.Drain()

	assert.Empty(t, recorder.received())
}

func TestNotification_UnreachableWebhookDoesNotFailSave(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()
	svc, notifier := setupNotified(t, server.URL)

	fields := validFields()
	fields.Status = domain.StatusSeriousInjury
	ack, err := svc.Save(context.Background(), "33", fields)
	require.NoError(t, err)
	assert.Equal(t, "33", ack.Record.ID)
	notifier.Drain()
}

func TestAuthService_LoginCoordinator(t *testing.T) {
	authenticator, err := auth.NewSharedSecretAuthenticator("saigai", "", bcrypt.MinCost)
	require.NoError(t, err)
	cfg := config.Config{Auth: config.AuthConfig{JWTSecret: "test", AccessTokenTTLMinutes: 10}}
	svc := NewAuthService(cfg, AuthDependencies{Authenticator: authenticator})

	token, err := svc.LoginCoordinator(context.Background(), "saigai")
	require.NoError(t, err)
	claims, err := svc.TokenManager().ParseToken(token.Value)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleCoordinator, claims.Role)

	_, err = svc.LoginCoordinator(context.Background(), "wrong")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", apperrors.ToDomainError(err).Code)
}

func TestAuthService_WithoutAuthenticator(t *testing.T) {
	svc := NewAuthService(config.Config{}, AuthDependencies{})

	_, err := svc.LoginCoordinator(context.Background(), "anything")
	assert.Equal(t, http.StatusUnauthorized, apperrors.ToDomainError(err).HTTPStatus)
}
