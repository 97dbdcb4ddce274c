package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Auraelena1/webtech-project-aura-cris-2026/config"
	"github.com/Auraelena1/webtech-project-aura-cris-2026/internal/api/handler"
	"github.com/Auraelena1/webtech-project-aura-cris-2026/internal/api/middleware"
	"github.com/Auraelena1/webtech-project-aura-cris-2026/pkg/redis"
)

// LivenessMessage GET / 的响应文本
const LivenessMessage = "Attendance Monitoring API is live and running."

// Setup 初始化并返回 Gin 路由引擎
// rdb 可为 nil，此时签到限流降级放行
func Setup(cfg *config.Config, h *handler.Handler, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 存活检查 ──
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, LivenessMessage)
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ── 分组模块 ──
	groups := r.Group("/groups")
	{
		groups.POST("", h.Group.CreateGroup)
		groups.GET("", h.Group.ListGroups)
		groups.GET("/:groupId", h.Group.GetGroup)
		groups.DELETE("/:groupId", h.Group.DeleteGroup)
		groups.POST("/:groupId/events", h.Event.CreateEvent)
		groups.GET("/:groupId/events", h.Event.ListEvents)
	}

	// ── 活动模块 ──
	events := r.Group("/events")
	{
		events.GET("/:id", h.Event.GetEvent)
		events.DELETE("/:id", h.Event.DeleteEvent)
		events.PATCH("/:id/status", h.Event.UpdateStatus)
		events.GET("/:id/qrcode", h.Event.QRCode)
		events.GET("/:id/attendance", h.Checkin.ListAttendance)
		events.GET("/:id/export", h.Export.ExportAttendance)
		events.GET("/:id/calendar", h.Export.ExportCalendar)
	}

	// ── 签到（按 IP 限流）──
	r.POST("/checkin",
		middleware.RateLimit(rdb, cfg.Checkin.RateLimit, cfg.Checkin.RateLimitWindow),
		h.Checkin.CheckIn,
	)

	return r
}
