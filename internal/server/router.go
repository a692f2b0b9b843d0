package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"rein-coach/internal/common/logger"
)

type RouterConfig struct {
	ServiceName    string
	AllowedOrigins []string
	Logger         logger.Logger

	PipelineHandler *PipelineHandler
	HealthHandler   *HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(cfg.ServiceName))
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	if len(cfg.AllowedOrigins) > 0 {
		r.Use(CORS(cfg.AllowedOrigins))
	}

	if cfg.HealthHandler != nil {
		r.GET("/health", cfg.HealthHandler.Health)
		r.GET("/ready", cfg.HealthHandler.Ready)
	}
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		if cfg.PipelineHandler != nil {
			api.POST("/pipeline", cfg.PipelineHandler.RunPipeline)
			api.POST("/coach", cfg.PipelineHandler.CoachCheckIn)
		}
	}

	return r
}
