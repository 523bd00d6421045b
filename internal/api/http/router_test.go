package http

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/safety-roster/internal/api/http/handlers"
	"github.com/spec-kit/safety-roster/internal/auth"
	"github.com/spec-kit/safety-roster/internal/config"
	"github.com/spec-kit/safety-roster/internal/observability"
	"github.com/spec-kit/safety-roster/internal/persistence"
	"github.com/spec-kit/safety-roster/internal/repository"
	"github.com/spec-kit/safety-roster/internal/service"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const coordinatorSecret = "saigai-honbu"

type envelope struct {
	Data  map[string]any `json:"data"`
	Error *struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	cfg := config.Config{
		App:   config.AppConfig{Name: "safety-roster-test"},
		Store: config.StoreConfig{TimeoutMillis: 500, FetchConcurrency: 2},
		Auth:  config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 5},
	}
	logger := zap.NewNop()
	store := persistence.NewMemory()
	metrics := observability.NewMetrics()

	registry := service.NewRegistryService(cfg, service.RegistryDependencies{
		StaffRepo: repository.NewStaffRepository(store),
		Logger:    logger,
	})
	authenticator, err := auth.NewSharedSecretAuthenticator(coordinatorSecret, "", bcrypt.MinCost)
	require.NoError(t, err)
	authService := service.NewAuthService(cfg, service.AuthDependencies{Authenticator: authenticator, Logger: logger})

	app := NewApp(cfg.App)
	RegisterMiddlewares(app, logger, metrics, 0)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, "test", store),
		Staff:          handlers.NewStaffHandler(registry),
		Auth:           handlers.NewAuthHandler(authService),
		Roster:         handlers.NewRosterHandler(registry, metrics),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager()),
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, target, body, token string) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	return resp.StatusCode, env
}

func login(t *testing.T, app *fiber.App) string {
	t.Helper()
	status, env := doRequest(t, app, fiber.MethodPost, "/auth/coordinator/login", `{"password":"`+coordinatorSecret+`"}`, "")
	require.Equal(t, fiber.StatusOK, status)
	token, _ := env.Data["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestGetStaffUnknownIDReturnsTemplate(t *testing.T) {
	app := newTestApp(t)

	status, env := doRequest(t, app, fiber.MethodGet, "/staff/７", "", "")

	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, false, env.Data["found"])
	record := env.Data["record"].(map[string]any)
	assert.Equal(t, "7", record["id"])
	assert.Equal(t, "", record["name"])
}

func TestGetStaffRejectsInvalidIdentifier(t *testing.T) {
	app := newTestApp(t)

	status, env := doRequest(t, app, fiber.MethodGet, "/staff/12a", "", "")

	assert.Equal(t, fiber.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_IDENTIFIER", env.Error.Code)
}

func TestSaveThenFetchRoundTrip(t *testing.T) {
	app := newTestApp(t)
	body := `{"name":"佐藤","department":"看護部","status":"minor_injury","location":"2F","reportable":"within_hours","comment":"足首"}`

	status, env := doRequest(t, app, fiber.MethodPut, "/staff/４２", body, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "42", env.Data["id"])
	assert.Equal(t, "軽傷", env.Data["status_label"])
	assert.NotNil(t, env.Data["updated_at"])

	status, env = doRequest(t, app, fiber.MethodGet, "/staff/42", "", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, env.Data["found"])
	record := env.Data["record"].(map[string]any)
	assert.Equal(t, "佐藤", record["name"])
	assert.Equal(t, "within_hours", record["reportable"])
	assert.Equal(t, "足首", record["comment"])
}

func TestSaveAcceptsDisplayLabels(t *testing.T) {
	app := newTestApp(t)
	body := `{"name":"鈴木","department":"薬剤部","status":"重傷","reportable":"不可能"}`

	status, env := doRequest(t, app, fiber.MethodPut, "/staff/5", body, "")

	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "serious_injury", env.Data["status"])
	assert.Equal(t, "unable", env.Data["reportable"])
}

func TestSaveValidationFailure(t *testing.T) {
	app := newTestApp(t)

	status, env := doRequest(t, app, fiber.MethodPut, "/staff/8", `{"name":"田中","department":"総務部"}`, "")

	assert.Equal(t, fiber.StatusBadRequest, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
	assert.Contains(t, env.Error.Details, "department")
	assert.Contains(t, env.Error.Details, "status")

	_, env = doRequest(t, app, fiber.MethodGet, "/staff/8", "", "")
	assert.Equal(t, false, env.Data["found"])
}

func TestRosterRequiresCoordinator(t *testing.T) {
	app := newTestApp(t)

	status, env := doRequest(t, app, fiber.MethodGet, "/roster", "", "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)

	status, _ = doRequest(t, app, fiber.MethodGet, "/roster", "", "not-a-token")
	assert.Equal(t, fiber.StatusUnauthorized, status)
}

func TestCoordinatorLoginRejectsWrongPassword(t *testing.T) {
	app := newTestApp(t)

	status, env := doRequest(t, app, fiber.MethodPost, "/auth/coordinator/login", `{"password":"guess"}`, "")

	assert.Equal(t, fiber.StatusUnauthorized, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
}

func TestRosterAggregatesSavedRecords(t *testing.T) {
	app := newTestApp(t)
	for id, st := range map[string]string{"1": "safe", "2": "safe", "3": "serious_injury"} {
		body := `{"name":"職員` + id + `","department":"診療部","status":"` + st + `"}`
		status, _ := doRequest(t, app, fiber.MethodPut, "/staff/"+id, body, "")
		require.Equal(t, fiber.StatusOK, status)
	}
	token := login(t, app)

	status, env := doRequest(t, app, fiber.MethodGet, "/roster", "", token)

	require.Equal(t, fiber.StatusOK, status)
	counts := env.Data["counts"].(map[string]any)
	assert.EqualValues(t, 3, counts["total"])
	assert.EqualValues(t, 2, counts["safe"])
	assert.EqualValues(t, 1, counts["serious_injury"])
	assert.EqualValues(t, 0, counts["unconfirmed"])
	records := env.Data["records"].([]any)
	assert.Len(t, records, 3)
	report := env.Data["report"].(map[string]any)
	assert.Equal(t, false, report["partial"])
}

func TestMetricsCountRequests(t *testing.T) {
	app := newTestApp(t)
	doRequest(t, app, fiber.MethodGet, "/options", "", "")
	token := login(t, app)

	status, env := doRequest(t, app, fiber.MethodGet, "/metrics", "", token)

	require.Equal(t, fiber.StatusOK, status)
	requests := env.Data["requests"].(map[string]any)
	assert.EqualValues(t, 1, requests["/options|GET|200"])
}

func TestOptionsListsDepartmentsAndStatuses(t *testing.T) {
	app := newTestApp(t)

	status, env := doRequest(t, app, fiber.MethodGet, "/options", "", "")

	require.Equal(t, fiber.StatusOK, status)
	assert.Len(t, env.Data["departments"], 5)
	assert.Len(t, env.Data["statuses"], 3)
	assert.Len(t, env.Data["reportable"], 4)
}

func TestHealthReady(t *testing.T) {
	app := newTestApp(t)

	status, env := doRequest(t, app, fiber.MethodGet, "/health/ready", "", "")

	assert.Equal(t, fiber.StatusOK, status)
	assert.Nil(t, env.Error)
}

func TestUnknownRouteUsesErrorEnvelope(t *testing.T) {
	app := newTestApp(t)

	status, env := doRequest(t, app, fiber.MethodGet, "/nowhere", "", "")

	assert.Equal(t, fiber.StatusNotFound, status)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}
