package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/codyseavey/packtracker/internal/api/handlers"
	"github.com/codyseavey/packtracker/internal/config"
	"github.com/codyseavey/packtracker/internal/importer"
	"github.com/codyseavey/packtracker/internal/models"
	"github.com/codyseavey/packtracker/internal/services"
	"github.com/codyseavey/packtracker/internal/stats"
	"github.com/codyseavey/packtracker/internal/store"
)

// Deps is everything the router hands to its handlers
type Deps struct {
	Config    *config.Config
	Store     *store.GormStore
	Stats     *stats.Service
	Importer  *importer.Importer
	Snapshots *services.SnapshotService
}

func SetupRouter(d Deps) *gin.Engine {
	router := gin.New()
	router.Use(recovery(), requestLogger(), instrument())

	frontendPath := d.Config.FrontendDistPath
	serveFrontend := frontendPath != "" && dirExists(frontendPath)

	// No origins means same-origin only
	if len(d.Config.CORSAllowedOrigins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = d.Config.CORSAllowedOrigins
		corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "OPTIONS"}
		corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", handlers.ClientIDHeader}
		corsConfig.AllowCredentials = false
		router.Use(cors.New(corsConfig))
	}

	collectionHandler := handlers.NewCollectionHandler(d.Store, d.Config.Currency)
	logHandler := handlers.NewLogHandler(d.Store)
	statsHandler := handlers.NewStatsHandler(d.Stats, d.Snapshots, d.Config.Currency)
	importHandler := handlers.NewImportHandler(d.Store, d.Importer)

	editor := requireEditor(d.Config.EditorTokens)

	api := router.Group("/api")
	{
		api.GET("/tree", collectionHandler.GetTree)
		api.POST("/categories", editor, collectionHandler.CreateCategory)

		sets := api.Group("/sets")
		{
			sets.POST("", editor, collectionHandler.CreateSet)
			sets.GET("/:lang/:cat", collectionHandler.GetCategorySets)

			set := sets.Group("/:lang/:cat/:set")
			{
				set.GET("", collectionHandler.GetSet)
				set.GET("/cards", collectionHandler.ListItems(models.ItemCards))
				set.GET("/sealed", collectionHandler.ListItems(models.ItemSealed))
				set.PATCH("/flags", editor, collectionHandler.UpdateSetFlags)
				set.POST("/quick-edit", editor, collectionHandler.QuickEdit)
				set.POST("/import/:kind", editor, importHandler.Import)
			}
		}

		api.GET("/logs/:kind", logHandler.GetLogs)

		statsGroup := api.Group("/stats")
		{
			statsGroup.GET("", statsHandler.GetStats)
			statsGroup.GET("/snapshots", statsHandler.GetSnapshots)
			statsGroup.POST("/snapshots", editor, statsHandler.TakeSnapshot)
		}
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Serve frontend static files
	if serveFrontend {
		indexPath := filepath.Join(frontendPath, "index.html")

		router.Static("/assets", filepath.Join(frontendPath, "assets"))
		router.StaticFile("/favicon.ico", filepath.Join(frontendPath, "favicon.ico"))

		router.GET("/", func(c *gin.Context) {
			c.File(indexPath)
		})

		// SPA fallback - serve index.html for all non-API routes
		router.NoRoute(func(c *gin.Context) {
			if strings.HasPrefix(c.Request.URL.Path, "/api") {
				c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
				return
			}
			c.File(indexPath)
		})
	} else {
		router.NoRoute(func(c *gin.Context) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		})
	}

	return router
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}
