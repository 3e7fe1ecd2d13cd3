package routers

import (
	"net/http"
	"path/filepath"

	"github.com/GrainArc/TerraPrint/config"
	"github.com/GrainArc/TerraPrint/views"
	"github.com/gin-gonic/gin"
)

func MeshRouters(r *gin.Engine, uc *views.UserController) {
	apiRouter := r.Group("/api")
	{
		apiRouter.POST("/clip", uc.BuildMesh)
		apiRouter.GET("/status/:jobid", uc.JobStatus)
		apiRouter.POST("/prepare", uc.StartPrepare)
		apiRouter.GET("/prepare/:taskId", uc.GetPrepareTaskStatus)
		apiRouter.GET("/progress/:taskId", uc.PrepareWebSocket)
	}

	r.Static("/outputs", config.OutputDir)
	r.Static("/data", config.DataDir)
	r.StaticFile("/", config.StaticDir+"/index.html")

	// 前端引用的js/css等资源从web目录兜底提供
	r.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		// Clean先以/锚定，防止..逃出web目录
		rel := filepath.Clean("/" + c.Request.URL.Path)
		c.File(filepath.Join(config.StaticDir, rel))
	})
}
