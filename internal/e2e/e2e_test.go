//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/gareline/internal/clock"
	"github.com/smallbiznis/gareline/internal/config"
	"github.com/smallbiznis/gareline/internal/maintenance"
	"github.com/smallbiznis/gareline/internal/migration"
	"github.com/smallbiznis/gareline/internal/observability"
	"github.com/smallbiznis/gareline/internal/scheduler"
	"github.com/smallbiznis/gareline/internal/seed"
	"github.com/smallbiznis/gareline/internal/server"
	"github.com/smallbiznis/gareline/pkg/db"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

const (
	adminEmail    = "admin@sitarail.bf"
	adminPassword = "e2e-admin-password"
)

type testEnv struct {
	app         *fx.App
	server      *server.Server
	db          *gorm.DB
	baseURL     string
	scheduler   *scheduler.Scheduler
	maintenance maintenance.Service
	seeder      *seed.AdminSeeder
	httpSrv     *httptest.Server
	tmpDir      string
}

var (
	env        *testEnv
	slackHooks atomic.Int64
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	tmpDir, err := os.MkdirTemp("", "gareline-e2e-")
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to create temp dir:", err)
		os.Exit(1)
	}
	slackSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slackHooks.Add(1)
		w.WriteHeader(http.StatusOK)
	}))

	setDefaultEnv(tmpDir)
	setEnvIfEmpty("SLACK_WEBHOOK_URL", slackSrv.URL)

	env, err = startEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to start test environment:", err)
		os.Exit(1)
	}
	env.tmpDir = tmpDir

	code := m.Run()
	env.shutdown()
	slackSrv.Close()
	os.Exit(code)
}

func TestE2E_HealthCheck(t *testing.T) {
	resp, err := http.Get(env.baseURL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
}

func TestE2E_BootstrapAdminCanLogin(t *testing.T) {
	resetDatabase(t)

	token := loginAdmin(t)
	resp, body := doJSON(t, http.MethodGet, env.baseURL+"/api/auth/me", nil, token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me failed: %d %s", resp.StatusCode, string(body))
	}

	var me struct {
		Email string `json:"email"`
		Role  string `json:"role"`
	}
	decode(t, body, &me)
	if me.Email != adminEmail || me.Role != "super_admin" {
		t.Fatalf("unexpected user: %+v", me)
	}
}

func TestE2E_RechargeLifecycle(t *testing.T) {
	resetDatabase(t)
	token := loginAdmin(t)

	zoneID := createEntity(t, token, "/api/zones", map[string]any{"name": "Centre"})
	agencyID := createEntity(t, token, "/api/agencies", map[string]any{"name": "Agence Ouaga", "zone_id": zoneID})
	gareID := createEntity(t, token, "/api/gares", map[string]any{"name": "Gare de Ouagadougou", "agency_id": agencyID})
	connectionID := createEntity(t, token, "/api/connections", map[string]any{
		"line_number":     "70112233",
		"gare_id":         gareID,
		"operator":        "Orange",
		"operator_type":   "mobile",
		"connection_type": "data",
	})

	resp, body := doJSON(t, http.MethodPost, env.baseURL+"/api/connections", map[string]any{
		"line_number":     "70112233",
		"gare_id":         gareID,
		"operator":        "Orange",
		"operator_type":   "mobile",
		"connection_type": "data",
	}, token)
	if resp.StatusCode != http.StatusBadRequest || !strings.Contains(string(body), "Ce numéro de ligne existe déjà") {
		t.Fatalf("expected duplicate line rejection, got %d %s", resp.StatusCode, string(body))
	}

	now := time.Now().UTC()
	createEntity(t, token, "/api/recharges", map[string]any{
		"connection_id": connectionID,
		"payment_type":  "prepaid",
		"start_date":    now.Add(-27 * 24 * time.Hour).Format(time.RFC3339),
		"end_date":      now.Add(3 * 24 * time.Hour).Format(time.RFC3339),
		"cost":          15000,
	})

	resp, body = doJSON(t, http.MethodDelete, env.baseURL+"/api/connections/"+connectionID, nil, token)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected active recharge guard, got %d %s", resp.StatusCode, string(body))
	}

	resp, body = doJSON(t, http.MethodGet, env.baseURL+"/api/reports/gare/"+gareID, nil, token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("gare report failed: %d %s", resp.StatusCode, string(body))
	}
	var report struct {
		Statistics struct {
			TotalRecharges    int     `json:"total_recharges"`
			ExpiringRecharges int     `json:"expiring_recharges"`
			TotalCost         float64 `json:"total_cost"`
		} `json:"statistics"`
	}
	decode(t, body, &report)
	if report.Statistics.TotalRecharges != 1 || report.Statistics.ExpiringRecharges != 1 || report.Statistics.TotalCost != 15000 {
		t.Fatalf("unexpected report statistics: %+v", report.Statistics)
	}

	resp, body = doJSON(t, http.MethodGet, env.baseURL+"/api/dashboard/stats", nil, token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("dashboard failed: %d %s", resp.StatusCode, string(body))
	}
	var stats struct {
		TotalConnections  int64 `json:"total_connections"`
		ExpiringRecharges int64 `json:"expiring_recharges"`
		PendingAlerts     int64 `json:"pending_alerts"`
	}
	decode(t, body, &stats)
	if stats.TotalConnections != 1 || stats.ExpiringRecharges != 1 || stats.PendingAlerts != 1 {
		t.Fatalf("unexpected dashboard stats: %+v", stats)
	}

	resp, body = doJSON(t, http.MethodGet, env.baseURL+"/api/reports/zone/"+zoneID+"/export?format=xlsx", nil, token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("export failed: %d %s", resp.StatusCode, string(body))
	}
	if !strings.Contains(resp.Header.Get("Content-Disposition"), ".xlsx") {
		t.Fatalf("unexpected content disposition: %q", resp.Header.Get("Content-Disposition"))
	}
}

func TestE2E_SchedulerDispatchesDueAlerts(t *testing.T) {
	resetDatabase(t)
	token := loginAdmin(t)

	zoneID := createEntity(t, token, "/api/zones", map[string]any{"name": "Hauts-Bassins"})
	agencyID := createEntity(t, token, "/api/agencies", map[string]any{"name": "Agence Bobo", "zone_id": zoneID})
	gareID := createEntity(t, token, "/api/gares", map[string]any{"name": "Gare de Bobo-Dioulasso", "agency_id": agencyID})
	connectionID := createEntity(t, token, "/api/connections", map[string]any{
		"line_number":     "76001122",
		"gare_id":         gareID,
		"operator":        "Moov",
		"operator_type":   "mobile",
		"connection_type": "voice",
	})
	now := time.Now().UTC()
	createEntity(t, token, "/api/recharges", map[string]any{
		"connection_id": connectionID,
		"payment_type":  "postpaid",
		"start_date":    now.Add(-28 * 24 * time.Hour).Format(time.RFC3339),
		"end_date":      now.Add(2 * 24 * time.Hour).Format(time.RFC3339),
		"cost":          5000,
	})

	before := slackHooks.Load()
	if err := env.scheduler.RunOnce(context.Background()); err != nil {
		t.Fatalf("scheduler run failed: %v", err)
	}

	var pending int64
	if err := env.db.Table("alerts").Where("status = ?", "pending").Count(&pending).Error; err != nil {
		t.Fatalf("count alerts: %v", err)
	}
	if pending != 0 {
		t.Fatalf("expected every due alert to be dispatched, %d still pending", pending)
	}
	if slackHooks.Load() == before {
		t.Fatalf("expected the slack webhook to receive the alert")
	}
}

func TestE2E_AccessGuard(t *testing.T) {
	resetDatabase(t)
	adminToken := loginAdmin(t)

	resp, body := doJSON(t, http.MethodPost, env.baseURL+"/api/auth/register", map[string]any{
		"email":     "agent@sitarail.bf",
		"password":  "agent-password",
		"full_name": "Agent Terrain",
		"role":      "field_agent",
	}, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("register failed: %d %s", resp.StatusCode, string(body))
	}
	agentToken := login(t, "agent@sitarail.bf", "agent-password")

	resp, body = doJSON(t, http.MethodPost, env.baseURL+"/api/zones", map[string]any{"name": "Nord"}, agentToken)
	if resp.StatusCode != http.StatusForbidden || !strings.Contains(string(body), "Only Super Admin can create zones") {
		t.Fatalf("expected zone creation to be denied, got %d %s", resp.StatusCode, string(body))
	}

	zoneID := createEntity(t, adminToken, "/api/zones", map[string]any{"name": "Nord"})
	agencyID := createEntity(t, adminToken, "/api/agencies", map[string]any{"name": "Agence Ouahigouya", "zone_id": zoneID})

	// Gare mutations are open to every authenticated role.
	createEntity(t, agentToken, "/api/gares", map[string]any{"name": "Gare de Ouahigouya", "agency_id": agencyID})

	resp, body = doJSON(t, http.MethodGet, env.baseURL+"/api/admin/audit-logs?action=zone.create&target_id="+zoneID, nil, adminToken)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("audit logs failed: %d %s", resp.StatusCode, string(body))
	}
	var logs struct {
		Data []struct {
			Action string `json:"action"`
		} `json:"data"`
	}
	decode(t, body, &logs)
	if len(logs.Data) != 1 {
		t.Fatalf("expected one zone.create audit entry, got %d", len(logs.Data))
	}
}

func startEnv() (*testEnv, error) {
	var (
		srv         *server.Server
		dbConn      *gorm.DB
		sched       *scheduler.Scheduler
		maint       maintenance.Service
		seeder      *seed.AdminSeeder
	)

	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(func() (*snowflake.Node, error) {
			return snowflake.NewNode(1)
		}),
		db.Module,
		clock.Module,
		server.Module,
		migration.Module,
		scheduler.Module,
		fx.Populate(&srv, &dbConn, &sched, &maint, &seeder),
		fx.NopLogger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := app.Start(ctx); err != nil {
		return nil, err
	}

	httpSrv := httptest.NewServer(srv.Engine())

	return &testEnv{
		app:         app,
		server:      srv,
		db:          dbConn,
		baseURL:     httpSrv.URL,
		scheduler:   sched,
		maintenance: maint,
		seeder:      seeder,
		httpSrv:     httpSrv,
	}, nil
}

func (e *testEnv) shutdown() {
	if e == nil {
		return
	}
	if e.httpSrv != nil {
		e.httpSrv.Close()
	}
	if e.app != nil {
		_ = e.app.Stop(context.Background())
	}
	if e.tmpDir != "" {
		_ = os.RemoveAll(e.tmpDir)
	}
}

func setDefaultEnv(tmpDir string) {
	setEnvIfEmpty("APP_ENV", "test")
	setEnvIfEmpty("DATABASE_TYPE", "sqlite")
	setEnvIfEmpty("DATABASE_NAME", filepath.Join(tmpDir, "gareline.db"))
	setEnvIfEmpty("DATABASE_MAX_OPEN_CONN", "1")
	setEnvIfEmpty("HTTP_ADDR", "127.0.0.1:0")
	setEnvIfEmpty("AUTH_JWT_SECRET", "e2e-secret")
	setEnvIfEmpty("BOOTSTRAP_ADMIN_EMAIL", adminEmail)
	setEnvIfEmpty("BOOTSTRAP_ADMIN_PASSWORD", adminPassword)
	setEnvIfEmpty("SCHEDULER_ENABLED", "false")
	setEnvIfEmpty("OTEL_ENABLED", "false")
	setEnvIfEmpty("LOG_LEVEL", "error")
}

func setEnvIfEmpty(key, value string) {
	if strings.TrimSpace(os.Getenv(key)) != "" {
		return
	}
	_ = os.Setenv(key, value)
}

// resetDatabase wipes every table and recreates the bootstrap admin.
func resetDatabase(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	if _, err := env.maintenance.ResetDatabase(ctx); err != nil {
		t.Fatalf("reset database: %v", err)
	}
	if err := env.seeder.EnsureBootstrapAdmin(ctx); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
}

func loginAdmin(t *testing.T) string {
	t.Helper()
	return login(t, adminEmail, adminPassword)
}

func login(t *testing.T, email, password string) string {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, env.baseURL+"/api/auth/login", map[string]any{
		"email":    email,
		"password": password,
	}, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d %s", resp.StatusCode, string(body))
	}
	var result struct {
		AccessToken string `json:"access_token"`
	}
	decode(t, body, &result)
	if result.AccessToken == "" {
		t.Fatalf("login returned no token")
	}
	return result.AccessToken
}

func createEntity(t *testing.T, token, path string, payload map[string]any) string {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, env.baseURL+path, payload, token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("create %s failed: %d %s", path, resp.StatusCode, string(body))
	}
	var envelope struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	decode(t, body, &envelope)
	if envelope.Data.ID == "" {
		t.Fatalf("create %s returned no id: %s", path, string(body))
	}
	return envelope.Data.ID
}

func decode(t *testing.T, body []byte, out any) {
	t.Helper()
	if err := json.Unmarshal(body, out); err != nil {
		t.Fatalf("decode json: %v (%s)", err, string(body))
	}
}

func doJSON(t *testing.T, method, reqURL string, payload any, token string) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("encode json: %v", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, reqURL, body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp, data
}
