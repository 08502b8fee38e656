package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"loyalty-engine/internal/handler/api"
	"loyalty-engine/internal/handler/middleware"
	"loyalty-engine/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(engine *gin.Engine, cfg config.Config, couponHandler *api.CouponHandler, pointsHandler *api.PointsHandler) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, couponHandler, pointsHandler)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(nil, cfg.Log))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, couponHandler *api.CouponHandler, pointsHandler *api.PointsHandler) {
	engine.GET("/health", healthCheck)

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		coupons := apiGroup.Group("/coupons")
		{
			addRoutes(coupons, []route{
				{Method: http.MethodGet, Path: "", Handler: couponHandler.ListAvailable},
				{Method: http.MethodGet, Path: "/all", Handler: couponHandler.ListAll},
				{Method: http.MethodPost, Path: "/exchange", Handler: couponHandler.Exchange},
				{Method: http.MethodPost, Path: "/verify", Handler: couponHandler.Verify},
				{Method: http.MethodPost, Path: "/:id/use", Handler: couponHandler.Use},
			})
		}

		points := apiGroup.Group("/points")
		{
			addRoutes(points, []route{
				{Method: http.MethodGet, Path: "", Handler: pointsHandler.GetBalance},
				{Method: http.MethodPost, Path: "/earn", Handler: pointsHandler.EarnPoints},
			})
		}

		addRoutes(apiGroup, []route{
			{Method: http.MethodGet, Path: "/history", Handler: couponHandler.GetHistory},
			{Method: http.MethodGet, Path: "/stats", Handler: couponHandler.GetStats},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
