package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/GrainArc/TerraPrint/config"
	"github.com/GrainArc/TerraPrint/methods"
	"github.com/GrainArc/TerraPrint/models"
	"github.com/GrainArc/TerraPrint/routers"
	"github.com/GrainArc/TerraPrint/services"
	"github.com/GrainArc/TerraPrint/views"
	"github.com/gin-gonic/gin"
)

func main() {
	for _, dir := range []string{config.HgtDir, config.DataDir, config.OutputDir, config.StaticDir} {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			log.Fatalf("创建目录失败 %s: %v", dir, err)
		}
	}

	if err := models.InitDatabase(); err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}

	boundaryPath := filepath.Join(config.DataDir, config.BoundaryFile)
	boundary, err := methods.LoadBoundary(boundaryPath)
	if err != nil {
		log.Fatalf("加载厄瓜多尔边界失败: %v", err)
	}
	log.Println("厄瓜多尔边界加载完成")

	hgtService := services.NewHgtService(config.HgtDir, config.NodataFallback)
	meshService := services.NewMeshService(hgtService, services.PipelineOptions{
		MaxDim:    config.MainConfig.MaxDim,
		Sigma:     config.Sigma,
		VScale:    config.MainConfig.VScale,
		WithColor: config.MainConfig.WithColor,
	})
	controller := views.NewUserController(boundary, meshService)

	r := gin.Default()
	routers.MeshRouters(r, controller)

	log.Printf("服务启动: %s", config.MainRouter)
	if err := r.Run(config.MainRouter); err != nil {
		log.Fatalf("服务启动失败: %v", err)
	}
}
