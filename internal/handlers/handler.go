package handlers

import (
	"time"

	"station_monitor/internal/logger"
	"station_monitor/internal/metrics"
	"station_monitor/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services      *service.Service
	log           *logger.Logger
	boardInterval time.Duration
	now           func() time.Time
}

// Option customizes a Handler.
type Option func(*Handler)

// WithBoardInterval sets the default push interval of /ws/board.
func WithBoardInterval(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 {
			h.boardInterval = d
		}
	}
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, opts ...Option) *Handler {
	h := &Handler{
		services:      services,
		log:           log,
		boardInterval: defaultBoardInterval,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestIDMiddleware)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.GET("/health", h.health)

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Station API; a bearer token is optional and only labels log rows
	h.registerAPIRoutes(router)

	// Board stream (HTTP upgrade), same port
	router.GET("/ws/board", h.wsBoard)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	r.POST("/login", h.login)

	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api", h.operatorMiddleware)
	{
		h.registerStationRoutes(api)
		h.registerThresholdRoutes(api)
		h.registerTimerRoutes(api)
		api.GET("/board", h.getBoard)
	}
}

func (h *Handler) registerStationRoutes(api *gin.RouterGroup) {
	api.GET("/station-status/:station", h.getStationStatus)
	api.GET("/station/:station", h.listStationLogs)
	api.GET("/station/:station/export", h.exportStationLogs)
	// Body example: {"seconds":181,"alarm_1":300,"alarm_2":180,"station":"A1","status":"alarm_2","userlog":"สมชาย ใจดี"}
	api.POST("/station-log", h.appendStationLog)
	api.POST("/station-remark/:id", h.annotateStationLog)
}

func (h *Handler) registerThresholdRoutes(api *gin.RouterGroup) {
	api.GET("/station-threshold/:station", h.getThreshold)
	api.POST("/station-threshold", h.upsertThreshold)
}

func (h *Handler) registerTimerRoutes(api *gin.RouterGroup) {
	timers := api.Group("/station-timer/:station")
	{
		timers.GET("", h.getTimer)
		timers.POST("/start", h.startTimer)
		timers.POST("/reset", h.resetTimer)
	}
}
