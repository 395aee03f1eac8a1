package handlers

import (
	"machine_efficiency/internal/logger"
	"machine_efficiency/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	// Request instrumentation + /metrics endpoint
	registerMetrics(router)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	// Live dashboard feed (HTTP upgrade) on the same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.userIdMiddleware)
	{
		h.registerMachineRoutes(api)
		h.registerRecordRoutes(api)
		h.registerReportRoutes(api)
	}
}

func (h *Handler) registerMachineRoutes(api *gin.RouterGroup) {
	machines := api.Group("/machines")
	{
		machines.POST("", h.createMachine)
		machines.GET("", h.listMachines)
		machines.GET("/:id", h.getMachine)
		machines.DELETE("/:id", h.deleteMachine)
		machines.POST("/:id/logs", h.recordStatus)
		machines.POST("/:id/failures", h.recordFailure)
		machines.GET("/:id/report", h.machineReport)
	}
}

func (h *Handler) registerRecordRoutes(api *gin.RouterGroup) {
	api.GET("/logs", h.listLogs)
	api.GET("/failures", h.listFailures)
}

func (h *Handler) registerReportRoutes(api *gin.RouterGroup) {
	api.GET("/overview", h.fleetOverview)
	api.POST("/sample-data", h.seedSampleData)
}
