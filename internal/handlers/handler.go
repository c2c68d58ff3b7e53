package handlers

import (
	"html/template"
	"time"

	"irrigation_controller/internal/logger"
	"irrigation_controller/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services   *service.Service
	log        *logger.Logger
	wsInterval time.Duration
}

// Option configures a Handler.
type Option func(*Handler)

// WithStreamInterval sets the default push period of /ws.
func WithStreamInterval(d time.Duration) Option {
	return func(h *Handler) {
		if d > 0 && d <= maxInterval {
			h.wsInterval = d
		}
	}
}

// NewHandler constructs a new HTTP handler with dependencies. log may be nil.
func NewHandler(services *service.Service, log *logger.Logger, opts ...Option) *Handler {
	h := &Handler{services: services, log: log, wsInterval: defaultInterval}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger)
	router.SetHTMLTemplate(template.Must(template.New(statusTemplate).Parse(statusPage)))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/health", h.health)

	// status page served to the browser, same form for both zones
	router.GET("/", h.statusPage)
	router.POST("/", h.submitForm)

	h.registerAPIRoutes(router)

	// periodic status pushes over the same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		api.GET("/status", h.getStatus)
		h.registerZoneRoutes(api)
		api.GET("/logs", h.getLogs)
	}
}

func (h *Handler) registerZoneRoutes(api *gin.RouterGroup) {
	zones := api.Group("/zones")
	{
		zones.GET("/:zone", h.getZone)
		// Body example: {"enabled":true,"start_time":"06:00","min_humidity":40,"max_humidity":70}
		zones.PUT("/:zone", h.putZone)
	}
}
