package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/gareline/internal/agency"
	agencydomain "github.com/smallbiznis/gareline/internal/agency/domain"
	"github.com/smallbiznis/gareline/internal/alert"
	alertdomain "github.com/smallbiznis/gareline/internal/alert/domain"
	"github.com/smallbiznis/gareline/internal/audit"
	auditdomain "github.com/smallbiznis/gareline/internal/audit/domain"
	"github.com/smallbiznis/gareline/internal/auth"
	authdomain "github.com/smallbiznis/gareline/internal/auth/domain"
	"github.com/smallbiznis/gareline/internal/authorization"
	"github.com/smallbiznis/gareline/internal/config"
	"github.com/smallbiznis/gareline/internal/connection"
	connectiondomain "github.com/smallbiznis/gareline/internal/connection/domain"
	"github.com/smallbiznis/gareline/internal/dashboard"
	dashboarddomain "github.com/smallbiznis/gareline/internal/dashboard/domain"
	"github.com/smallbiznis/gareline/internal/gare"
	garedomain "github.com/smallbiznis/gareline/internal/gare/domain"
	"github.com/smallbiznis/gareline/internal/maintenance"
	"github.com/smallbiznis/gareline/internal/notification"
	"github.com/smallbiznis/gareline/internal/observability"
	obslogger "github.com/smallbiznis/gareline/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/gareline/internal/observability/metrics"
	obstracing "github.com/smallbiznis/gareline/internal/observability/tracing"
	"github.com/smallbiznis/gareline/internal/providers"
	"github.com/smallbiznis/gareline/internal/ratelimit"
	"github.com/smallbiznis/gareline/internal/recharge"
	rechargedomain "github.com/smallbiznis/gareline/internal/recharge/domain"
	"github.com/smallbiznis/gareline/internal/report"
	reportdomain "github.com/smallbiznis/gareline/internal/report/domain"
	"github.com/smallbiznis/gareline/internal/seed"
	"github.com/smallbiznis/gareline/internal/zone"
	zonedomain "github.com/smallbiznis/gareline/internal/zone/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	authorization.Module,
	audit.Module,
	auth.Module,
	seed.Module,
	ratelimit.Module,
	providers.Module,
	notification.Module,
	zone.Module,
	agency.Module,
	gare.Module,
	connection.Module,
	recharge.Module,
	alert.Module,
	report.Module,
	dashboard.Module,
	maintenance.Module,

	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obslogger.GinMiddleware(obslogger.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(httpMetrics.GinMiddleware())
	r.Use(corsMiddleware(cfg.CORSAllowedOrigins))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, cfg config.Config, s *Server, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           s.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", srv.Addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	log          *zap.Logger
	authsvc      authdomain.Service
	authzSvc     authorization.Service
	auditSvc     auditdomain.Service
	zoneSvc      zonedomain.Service
	agencySvc    agencydomain.Service
	gareSvc      garedomain.Service
	connSvc      connectiondomain.Service
	rechargeSvc  rechargedomain.Service
	alertSvc     alertdomain.Service
	reportSvc    reportdomain.Service
	dashboardSvc dashboarddomain.Service
	maintenance  maintenance.Service
	loginLimiter *ratelimit.LoginLimiter
	obsMetrics   *obsmetrics.Metrics
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	Log          *zap.Logger
	Authsvc      authdomain.Service
	AuthzSvc     authorization.Service
	AuditSvc     auditdomain.Service `optional:"true"`
	ZoneSvc      zonedomain.Service
	AgencySvc    agencydomain.Service
	GareSvc      garedomain.Service
	ConnSvc      connectiondomain.Service
	RechargeSvc  rechargedomain.Service
	AlertSvc     alertdomain.Service
	ReportSvc    reportdomain.Service
	DashboardSvc dashboarddomain.Service
	Maintenance  maintenance.Service
	LoginLimiter *ratelimit.LoginLimiter `optional:"true"`
	ObsMetrics   *obsmetrics.Metrics     `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		log:          p.Log.Named("http.server"),
		authsvc:      p.Authsvc,
		authzSvc:     p.AuthzSvc,
		auditSvc:     p.AuditSvc,
		zoneSvc:      p.ZoneSvc,
		agencySvc:    p.AgencySvc,
		gareSvc:      p.GareSvc,
		connSvc:      p.ConnSvc,
		rechargeSvc:  p.RechargeSvc,
		alertSvc:     p.AlertSvc,
		reportSvc:    p.ReportSvc,
		dashboardSvc: p.DashboardSvc,
		maintenance:  p.Maintenance,
		loginLimiter: p.LoginLimiter,
		obsMetrics:   p.ObsMetrics,
	}

	s.registerRoutes()

	return s
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerRoutes() {
	api := s.engine.Group("/api")

	api.GET("/", s.Root)

	auth := api.Group("/auth")
	auth.POST("/register", s.Register)
	auth.POST("/login", s.LoginRateLimit(), s.Login)
	auth.GET("/me", s.AuthRequired(), s.Me)

	protected := api.Group("", s.AuthRequired())

	// -------- Zones --------
	protected.POST("/zones", s.authorize(authorization.ObjectZone, authorization.ActionCreate, "Only Super Admin can create zones"), s.CreateZone)
	protected.GET("/zones", s.ListZones)
	protected.GET("/zones/:id", s.GetZoneByID)
	protected.PUT("/zones/:id", s.authorize(authorization.ObjectZone, authorization.ActionUpdate, "Only Super Admin can update zones"), s.UpdateZone)
	protected.DELETE("/zones/:id", s.authorize(authorization.ObjectZone, authorization.ActionDelete, "Only Super Admin can delete zones"), s.DeleteZone)

	// -------- Agencies --------
	protected.POST("/agencies", s.authorize(authorization.ObjectAgency, authorization.ActionCreate, msgInsufficientPermissions), s.CreateAgency)
	protected.GET("/agencies", s.ListAgencies)
	protected.GET("/agencies/:id", s.GetAgencyByID)
	protected.PUT("/agencies/:id", s.authorize(authorization.ObjectAgency, authorization.ActionUpdate, msgInsufficientPermissions), s.UpdateAgency)
	protected.DELETE("/agencies/:id", s.authorize(authorization.ObjectAgency, authorization.ActionDelete, msgInsufficientPermissions), s.DeleteAgency)

	// -------- Gares --------
	protected.POST("/gares", s.authorize(authorization.ObjectGare, authorization.ActionCreate, msgInsufficientPermissions), s.CreateGare)
	protected.GET("/gares", s.ListGares)
	protected.GET("/gares/:id", s.GetGareByID)
	protected.PUT("/gares/:id", s.authorize(authorization.ObjectGare, authorization.ActionUpdate, msgInsufficientPermissions), s.UpdateGare)
	protected.DELETE("/gares/:id", s.authorize(authorization.ObjectGare, authorization.ActionDelete, msgInsufficientPermissions), s.DeleteGare)

	// -------- Connections --------
	protected.POST("/connections", s.authorize(authorization.ObjectConnection, authorization.ActionCreate, msgInsufficientPermissions), s.CreateConnection)
	protected.GET("/connections", s.ListConnections)
	protected.GET("/connections/:id", s.GetConnectionByID)
	protected.PUT("/connections/:id", s.authorize(authorization.ObjectConnection, authorization.ActionUpdate, msgInsufficientPermissions), s.UpdateConnection)
	protected.DELETE("/connections/:id", s.authorize(authorization.ObjectConnection, authorization.ActionDelete, msgInsufficientPermissions), s.DeleteConnection)

	// -------- Recharges --------
	protected.POST("/recharges", s.authorize(authorization.ObjectRecharge, authorization.ActionCreate, msgInsufficientPermissions), s.CreateRecharge)
	protected.GET("/recharges", s.ListRecharges)
	protected.GET("/recharges/:id", s.GetRechargeByID)
	protected.PUT("/recharges/:id", s.authorize(authorization.ObjectRecharge, authorization.ActionUpdate, msgInsufficientPermissions), s.UpdateRecharge)
	protected.DELETE("/recharges/:id", s.authorize(authorization.ObjectRecharge, authorization.ActionDelete, msgInsufficientPermissions), s.DeleteRecharge)

	// -------- Alerts --------
	protected.GET("/alerts", s.ListAlerts)
	protected.PUT("/alerts/:id/dismiss", s.authorize(authorization.ObjectAlert, authorization.ActionDismiss, msgInsufficientPermissions), s.DismissAlert)

	// -------- Reports --------
	protected.GET("/reports/gare/:id", s.GetGareReport)
	protected.GET("/reports/agency/:id", s.GetAgencyReport)
	protected.GET("/reports/zone/:id", s.GetZoneReport)
	protected.GET("/reports/gare/:id/export", s.ExportReport(reportdomain.ScopeGare))
	protected.GET("/reports/agency/:id/export", s.ExportReport(reportdomain.ScopeAgency))
	protected.GET("/reports/zone/:id/export", s.ExportReport(reportdomain.ScopeZone))
	protected.POST("/reports/share/whatsapp", s.ShareWhatsApp)

	protected.GET("/dashboard/stats", s.GetDashboardStats)

	// -------- Admin --------
	protected.DELETE("/admin/reset-database", s.authorize(authorization.ObjectAdmin, authorization.ActionReset, "Only Super Admin can reset database"), s.ResetDatabase)
	protected.GET("/admin/audit-logs", s.authorize(authorization.ObjectAuditLog, authorization.ActionView, msgInsufficientPermissions), s.ListAuditLogs)

	if !s.cfg.IsProduction() {
		api.POST("/admin/clear-test-data", s.ClearTestData)
	}
}

func (s *Server) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Burkina Faso Railway Recharge Management System API"})
}

// audit records a mutation. Failures are logged by the audit service and never
// fail the request.
func (s *Server) audit(c *gin.Context, action, targetType, targetID string, metadata map[string]any) {
	if s.auditSvc == nil {
		return
	}
	var target *string
	if targetID != "" {
		target = &targetID
	}
	_ = s.auditSvc.AuditLog(c.Request.Context(), action, targetType, target, metadata)
}
