package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	agencydomain "github.com/smallbiznis/gareline/internal/agency/domain"
	authdomain "github.com/smallbiznis/gareline/internal/auth/domain"
	"github.com/smallbiznis/gareline/internal/authorization"
	"github.com/smallbiznis/gareline/internal/config"
	connectiondomain "github.com/smallbiznis/gareline/internal/connection/domain"
	garedomain "github.com/smallbiznis/gareline/internal/gare/domain"
	"github.com/smallbiznis/gareline/internal/maintenance"
	reportdomain "github.com/smallbiznis/gareline/internal/report/domain"
	zonedomain "github.com/smallbiznis/gareline/internal/zone/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeAuthService struct {
	authdomain.Service
	users      map[string]*authdomain.User
	loginErr   error
	registered []authdomain.RegisterRequest
}

func (f *fakeAuthService) Authenticate(_ context.Context, rawToken string) (*authdomain.User, error) {
	user, ok := f.users[rawToken]
	if !ok {
		return nil, authdomain.ErrInvalidToken
	}
	return user, nil
}

func (f *fakeAuthService) Login(_ context.Context, req authdomain.LoginRequest) (*authdomain.LoginResult, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &authdomain.LoginResult{
		AccessToken: "token-" + req.Email,
		TokenType:   "bearer",
		User:        authdomain.UserSummary{ID: snowflake.ID(7), Email: req.Email, Role: authdomain.RoleFieldAgent},
	}, nil
}

func (f *fakeAuthService) Register(_ context.Context, req authdomain.RegisterRequest) (*authdomain.User, error) {
	for _, registered := range f.registered {
		if registered.Email == req.Email {
			return nil, authdomain.ErrUserExists
		}
	}
	f.registered = append(f.registered, req)
	return &authdomain.User{ID: snowflake.ID(len(f.registered)), Email: req.Email, Role: authdomain.RoleFieldAgent}, nil
}

type fakeZoneService struct {
	zonedomain.Service
	created []zonedomain.CreateZoneRequest
}

func (f *fakeZoneService) Create(_ context.Context, req zonedomain.CreateZoneRequest) (zonedomain.Zone, error) {
	if req.Name == "" {
		return zonedomain.Zone{}, zonedomain.ErrInvalidName
	}
	f.created = append(f.created, req)
	return zonedomain.Zone{ID: snowflake.ID(100), Name: req.Name}, nil
}

func (f *fakeZoneService) GetByID(_ context.Context, _ string) (zonedomain.Zone, error) {
	return zonedomain.Zone{}, zonedomain.ErrNotFound
}

type fakeAgencyService struct {
	agencydomain.Service
}

func (f *fakeAgencyService) Create(_ context.Context, req agencydomain.CreateAgencyRequest) (agencydomain.Agency, error) {
	return agencydomain.Agency{ID: snowflake.ID(200), Name: req.Name}, nil
}

type fakeGareService struct {
	garedomain.Service
}

func (f *fakeGareService) Create(_ context.Context, req garedomain.CreateGareRequest) (garedomain.Gare, error) {
	return garedomain.Gare{ID: snowflake.ID(300), Name: req.Name}, nil
}

type fakeConnectionService struct {
	connectiondomain.Service
}

func (f *fakeConnectionService) Create(_ context.Context, _ connectiondomain.CreateConnectionRequest) (connectiondomain.Connection, error) {
	return connectiondomain.Connection{}, connectiondomain.ErrLineNumberExists
}

func (f *fakeConnectionService) Delete(_ context.Context, _ string) error {
	return connectiondomain.ErrHasActiveRecharges
}

type fakeReportService struct {
	reportdomain.Service
}

func (f *fakeReportService) GareReport(context.Context, string) (reportdomain.GareReport, error) {
	return reportdomain.GareReport{}, nil
}

func (f *fakeReportService) AgencyReport(context.Context, string) (reportdomain.AgencyReport, error) {
	return reportdomain.AgencyReport{}, nil
}

func (f *fakeReportService) ZoneReport(context.Context, string) (reportdomain.ZoneReport, error) {
	return reportdomain.ZoneReport{}, nil
}

func (f *fakeReportService) Export(_ context.Context, scope reportdomain.Scope, _ string, format reportdomain.Format) (reportdomain.ExportFile, error) {
	if !format.Valid() {
		return reportdomain.ExportFile{}, reportdomain.ErrInvalidFormat
	}
	return reportdomain.ExportFile{
		Filename:    "rapport-" + string(scope) + "-ouaga-20250301." + string(format),
		ContentType: "application/pdf",
		Content:     []byte("%PDF-1.4"),
	}, nil
}

func (f *fakeReportService) ShareWhatsApp(_ context.Context, req reportdomain.ShareRequest) (reportdomain.ShareResult, error) {
	if req.PhoneNumber == "" {
		return reportdomain.ShareResult{}, reportdomain.ErrInvalidPhoneNumber
	}
	return reportdomain.ShareResult{
		Message:     "WhatsApp link generated",
		WhatsAppURL: "https://wa.me/" + req.PhoneNumber,
	}, nil
}

type fakeMaintenance struct {
	cleared int
}

func (f *fakeMaintenance) ResetDatabase(context.Context) (maintenance.ResetResult, error) {
	return maintenance.ResetResult{Message: "Database reset successfully", CollectionsCleared: maintenance.Tables}, nil
}

func (f *fakeMaintenance) ClearTestData(context.Context) (maintenance.ClearResult, error) {
	f.cleared++
	return maintenance.ClearResult{Message: "All test data cleared successfully", DeletedCounts: map[string]int64{"users": 2}}, nil
}

type testHarness struct {
	engine *gin.Engine
	auth   *fakeAuthService
	zones  *fakeZoneService
	maint  *fakeMaintenance
}

func newTestHarness(t *testing.T, env string) *testHarness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	enforcer, err := authorization.NewMemoryEnforcer()
	require.NoError(t, err)

	engine := gin.New()
	engine.Use(ErrorHandlingMiddleware())

	h := &testHarness{
		engine: engine,
		auth: &fakeAuthService{users: map[string]*authdomain.User{
			"super": {ID: snowflake.ID(1), Email: "super@sitarail.bf", Role: authdomain.RoleSuperAdmin, IsActive: true},
			"zone":  {ID: snowflake.ID(2), Email: "zone@sitarail.bf", Role: authdomain.RoleZoneAdmin, IsActive: true},
			"agent": {ID: snowflake.ID(3), Email: "agent@sitarail.bf", Role: authdomain.RoleFieldAgent, IsActive: true},
		}},
		zones: &fakeZoneService{},
		maint: &fakeMaintenance{},
	}

	NewServer(ServerParams{
		Gin:         engine,
		Cfg:         config.Config{Environment: env},
		Log:         zap.NewNop(),
		Authsvc:     h.auth,
		AuthzSvc:    authorization.NewService(authorization.Params{Log: zap.NewNop(), Enforcer: enforcer}),
		ZoneSvc:     h.zones,
		AgencySvc:   &fakeAgencyService{},
		GareSvc:     &fakeGareService{},
		ConnSvc:     &fakeConnectionService{},
		ReportSvc:   &fakeReportService{},
		Maintenance: h.maint,
	})
	return h
}

func (h *testHarness) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.engine.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorPayload {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Error
}

func TestRootBanner(t *testing.T) {
	h := newTestHarness(t, "development")

	rec := h.do(t, http.MethodGet, "/api/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Burkina Faso Railway Recharge Management System API")
}

func TestProtectedRoutesRequireBearerToken(t *testing.T) {
	h := newTestHarness(t, "development")

	rec := h.do(t, http.MethodGet, "/api/zones/1", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid authentication credentials", decodeError(t, rec).Message)

	rec = h.do(t, http.MethodGet, "/api/zones/1", "unknown", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeReturnsCurrentUser(t *testing.T) {
	h := newTestHarness(t, "development")

	rec := h.do(t, http.MethodGet, "/api/auth/me", "agent", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "agent@sitarail.bf")
	assert.NotContains(t, rec.Body.String(), "hashed_password")
}

func TestZoneMutationsRequireSuperAdmin(t *testing.T) {
	h := newTestHarness(t, "development")

	rec := h.do(t, http.MethodPost, "/api/zones", "agent", map[string]any{"name": "Centre"})
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Only Super Admin can create zones", decodeError(t, rec).Message)

	rec = h.do(t, http.MethodDelete, "/api/zones/1", "zone", nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Only Super Admin can delete zones", decodeError(t, rec).Message)
	assert.Empty(t, h.zones.created)

	rec = h.do(t, http.MethodPost, "/api/zones", "super", map[string]any{"name": "Centre"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, h.zones.created, 1)
}

func TestAgencyMutationsAllowZoneAdmin(t *testing.T) {
	h := newTestHarness(t, "development")

	rec := h.do(t, http.MethodPost, "/api/agencies", "zone", map[string]any{"name": "Agence Nord", "zone_id": "100"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = h.do(t, http.MethodPost, "/api/agencies", "agent", map[string]any{"name": "Agence Nord", "zone_id": "100"})
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Insufficient permissions", decodeError(t, rec).Message)
}

func TestGareMutationsOpenToEveryRole(t *testing.T) {
	h := newTestHarness(t, "development")

	for _, token := range []string{"super", "zone", "agent"} {
		rec := h.do(t, http.MethodPost, "/api/gares", token, map[string]any{"name": "Gare de Bobo", "agency_id": "200"})
		assert.Equal(t, http.StatusOK, rec.Code, token)
	}
}

func TestDomainErrorsMapToHTTPResponses(t *testing.T) {
	h := newTestHarness(t, "development")

	rec := h.do(t, http.MethodGet, "/api/zones/42", "agent", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Zone not found", decodeError(t, rec).Message)

	rec = h.do(t, http.MethodPost, "/api/connections", "agent", map[string]any{"line_number": "70000000"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Ce numéro de ligne existe déjà", decodeError(t, rec).Message)

	rec = h.do(t, http.MethodDelete, "/api/connections/9", "agent", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Impossible de supprimer une ligne avec des recharges actives", decodeError(t, rec).Message)
}

func TestValidationErrorsCarryCode(t *testing.T) {
	h := newTestHarness(t, "development")

	rec := h.do(t, http.MethodPost, "/api/zones", "super", map[string]any{"name": ""})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	payload := decodeError(t, rec)
	assert.Equal(t, "validation_error", payload.Type)
	require.Len(t, payload.Errors, 1)
	assert.Equal(t, "invalid_name", payload.Errors[0].Code)
	assert.Equal(t, "name", payload.Errors[0].Field)
}

func TestLoginErrors(t *testing.T) {
	h := newTestHarness(t, "development")

	rec := h.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "a@b.bf", "password": "x"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"token_type":"bearer"`)

	h.auth.loginErr = authdomain.ErrInvalidCredentials
	rec = h.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "a@b.bf", "password": "x"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid credentials", decodeError(t, rec).Message)

	h.auth.loginErr = authdomain.ErrUserDisabled
	rec = h.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "a@b.bf", "password": "x"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "User account is disabled", decodeError(t, rec).Message)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	h := newTestHarness(t, "development")
	body := map[string]any{"email": "new@sitarail.bf", "password": "pw", "full_name": "New", "role": "field_agent"}

	rec := h.do(t, http.MethodPost, "/api/auth/register", "", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "User created successfully")

	rec = h.do(t, http.MethodPost, "/api/auth/register", "", body)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Email already registered", decodeError(t, rec).Message)
}

func TestClearTestDataOnlyOutsideProduction(t *testing.T) {
	dev := newTestHarness(t, "development")
	rec := dev.do(t, http.MethodPost, "/api/admin/clear-test-data", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, dev.maint.cleared)

	prod := newTestHarness(t, "production")
	rec = prod.do(t, http.MethodPost, "/api/admin/clear-test-data", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Zero(t, prod.maint.cleared)
}

func TestResetDatabaseRequiresSuperAdmin(t *testing.T) {
	h := newTestHarness(t, "development")

	rec := h.do(t, http.MethodDelete, "/api/admin/reset-database", "zone", nil)
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Only Super Admin can reset database", decodeError(t, rec).Message)

	rec = h.do(t, http.MethodDelete, "/api/admin/reset-database", "super", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "collections_cleared")
}

func TestExportReportStreamsFile(t *testing.T) {
	h := newTestHarness(t, "development")

	rec := h.do(t, http.MethodGet, "/api/reports/gare/1/export?format=pdf", "agent", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "rapport-gare-ouaga-20250301.pdf")
	assert.Equal(t, "%PDF-1.4", rec.Body.String())

	rec = h.do(t, http.MethodGet, "/api/reports/gare/1/export?format=docx", "agent", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportReportRoutesEveryScope(t *testing.T) {
	h := newTestHarness(t, "development")

	for _, scope := range []string{"gare", "agency", "zone"} {
		rec := h.do(t, http.MethodGet, "/api/reports/"+scope+"/7/export?format=xlsx", "agent", nil)
		require.Equal(t, http.StatusOK, rec.Code, scope)
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "rapport-"+scope+"-", scope)

		rec = h.do(t, http.MethodGet, "/api/reports/"+scope+"/7", "agent", nil)
		assert.Equal(t, http.StatusOK, rec.Code, scope)
	}
}

func TestShareWhatsAppReadsPhoneFromQuery(t *testing.T) {
	h := newTestHarness(t, "development")
	body := map[string]any{"type": "gare", "entity_name": "Ouaga", "statistics": map[string]any{}}

	rec := h.do(t, http.MethodPost, "/api/reports/share/whatsapp?phone_number=22670000000", "agent", body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "https://wa.me/22670000000")

	rec = h.do(t, http.MethodPost, "/api/reports/share/whatsapp", "agent", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCORSHonoursAllowedOrigins(t *testing.T) {
	engine := gin.New()
	engine.Use(corsMiddleware([]string{"https://admin.sitarail.bf"}))
	engine.GET("/api/", func(c *gin.Context) { c.Status(http.StatusOK) })

	preflight := httptest.NewRequest(http.MethodOptions, "/api/", nil)
	preflight.Header.Set("Origin", "https://admin.sitarail.bf")
	preflight.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, preflight)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://admin.sitarail.bf", rec.Header().Get("Access-Control-Allow-Origin"))

	foreign := httptest.NewRequest(http.MethodGet, "/api/", nil)
	foreign.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, foreign)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSWildcardAllowsAnyOrigin(t *testing.T) {
	engine := gin.New()
	engine.Use(corsMiddleware([]string{"*"}))
	engine.GET("/api/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/api/", nil)
	req.Header.Set("Origin", "https://gare-bobo.bf")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
