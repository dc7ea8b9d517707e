package http

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"go.ngs.io/surface3d/internal/usecase"
)

// SetupRouter creates and configures the Gin router. An empty
// allowedOrigins allows every origin.
func SetupRouter(surfaceUC *usecase.SurfaceUseCase, allowedOrigins []string) *gin.Engine {

	router := gin.Default()

	// Setup CORS middleware.
	corsConfig := cors.DefaultConfig()
	if len(allowedOrigins) > 0 {
		corsConfig.AllowOrigins = allowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.ExposeHeaders = []string{VersionHeader}

	router.Use(cors.New(corsConfig))

	// Create handler.
	handler := NewHandler(surfaceUC)

	// API v1 routes.
	v1 := router.Group("/v1")

	// Catalogs.
	v1.GET("/presets", handler.GetPresets)
	v1.GET("/palettes", handler.GetPalettes)
	v1.GET("/formats", handler.GetFormats)
	v1.GET("/rasters", handler.GetRasters)
	v1.GET("/grids", handler.GetGrids)

	// Surfaces.
	surfaces := v1.Group("/surfaces")
	surfaces.GET("", handler.ListSurfaces)
	surfaces.POST("", handler.CreateSurface)
	surfaces.POST("/presets/:name", handler.CreateFromPreset)
	surfaces.POST("/rasters/:name", handler.CreateFromRaster)
	surfaces.POST("/grids/:name", handler.CreateFromGrid)
	surfaces.GET("/:id", handler.GetSurface)
	surfaces.PATCH("/:id", handler.UpdateView)
	surfaces.DELETE("/:id", handler.DeleteSurface)
	surfaces.PUT("/:id/grid", handler.ReplaceGrid)
	surfaces.GET("/:id/render", handler.RenderSurface)

	// Health check.
	router.GET("/health", handler.HealthCheck)

	// Swagger UI; the document is registered by the docs package.
	router.GET("/swagger/*any", func(c *gin.Context) {
		if c.Param("any") == "/" {
			c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
			return
		}
		ginSwagger.WrapHandler(swaggerFiles.Handler)(c)
	})

	return router
}
