package views

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/GrainArc/TerraPrint/Terrain"
	"github.com/GrainArc/TerraPrint/config"
	"github.com/GrainArc/TerraPrint/methods"
	"github.com/GrainArc/TerraPrint/models"
	"github.com/GrainArc/TerraPrint/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"gorm.io/datatypes"
)

// UserController 网格服务控制器
type UserController struct {
	Boundary *methods.Boundary
	Mesh     *services.MeshService
}

func NewUserController(boundary *methods.Boundary, mesh *services.MeshService) *UserController {
	return &UserController{Boundary: boundary, Mesh: mesh}
}

// parseGeometry 解析请求体里的几何
// 兼容 {"geometry":...}、{"geojson":Feature|geometry}、完整Feature 三种形式
func parseGeometry(body []byte) (orb.Geometry, error) {
	var data map[string]json.RawMessage
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("请求体不是合法JSON: %w", err)
	}

	node, ok := data["geometry"]
	if !ok {
		if sub, exists := data["geojson"]; exists {
			var subMap map[string]json.RawMessage
			if err := json.Unmarshal(sub, &subMap); err == nil {
				var typ string
				json.Unmarshal(subMap["type"], &typ)
				if typ == "Feature" {
					node = subMap["geometry"]
				} else {
					node = sub
				}
			}
		} else {
			var typ string
			json.Unmarshal(data["type"], &typ)
			if typ == "Feature" {
				node = data["geometry"]
			}
		}
	}
	if node == nil {
		return nil, fmt.Errorf("缺少几何(请传geometry或geojson)")
	}

	geom, err := geojson.UnmarshalGeometry(node)
	if err != nil {
		return nil, fmt.Errorf("几何解析失败: %w", err)
	}
	return geom.Geometry(), nil
}

// statusCode 把流水线错误映射到HTTP状态码
func statusCode(err error) int {
	switch {
	case errors.Is(err, Terrain.ErrEmptyResult),
		errors.Is(err, Terrain.ErrAllMissingData),
		errors.Is(err, Terrain.ErrNoIntersection),
		errors.Is(err, Terrain.ErrSelectionTooLarge),
		errors.Is(err, Terrain.ErrDegenerateMesh):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// BuildMesh 选区转实体网格(同步处理)
func (uc *UserController) BuildMesh(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil || len(body) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "No JSON body",
		})
		return
	}

	geom, err := parseGeometry(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": err.Error(),
		})
		return
	}
	polygon := Terrain.NewClipPolygon(geom)

	// 瓦片目录必须有数据
	if _, err := uc.Mesh.Hgt.ListTiles(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": fmt.Sprintf("HGT check failed: %v", err),
		})
		return
	}

	// 选区必须在厄瓜多尔境内且不超面积上限
	if err := uc.Boundary.ValidateSelection(polygon, config.MainConfig.MaxAreaKm2); err != nil {
		c.JSON(statusCode(err), gin.H{
			"success": false,
			"message": err.Error(),
		})
		return
	}

	jobID := uuid.New().String()
	record := &models.MeshJob{
		JobID:   jobID,
		Status:  0,
		AreaKm2: polygon.AreaKm2(),
		Args:    datatypes.JSON(body),
	}
	models.DB.Create(record)

	solid, err := uc.Mesh.BuildSelection(polygon)
	if err != nil {
		models.DB.Model(record).Updates(map[string]interface{}{"status": 2, "message": err.Error()})
		c.JSON(statusCode(err), gin.H{
			"success": false,
			"message": fmt.Sprintf("Error procesando selección: %v", err),
		})
		return
	}

	jobDir := filepath.Join(config.OutputDir, jobID)
	result, err := uc.Mesh.ExportMesh(solid, jobDir)
	if err != nil {
		models.DB.Model(record).Updates(map[string]interface{}{"status": 2, "message": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": err.Error(),
		})
		return
	}

	models.DB.Model(record).Updates(map[string]interface{}{
		"status":   1,
		"glb_file": result.GlbFile,
		"stl_file": result.StlFile,
	})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"job_id":  jobID,
		"glb_url": fmt.Sprintf("/outputs/%s/%s", jobID, result.GlbFile),
		"stl_url": fmt.Sprintf("/outputs/%s/%s", jobID, result.StlFile),
	})
}

// JobStatus 查询任务状态
func (uc *UserController) JobStatus(c *gin.Context) {
	jobID := c.Param("jobid")

	var record models.MeshJob
	if err := models.DB.Where("job_id = ?", jobID).First(&record).Error; err != nil {
		// 数据库没有记录时回退到目录探测，老任务目录仍可查询
		jobDir := filepath.Join(config.OutputDir, jobID)
		if _, statErr := os.Stat(jobDir); statErr != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"status":  "error",
				"message": "Job no encontrado",
			})
			return
		}
		matches, _ := filepath.Glob(filepath.Join(jobDir, "*.glb"))
		if len(matches) > 0 {
			c.JSON(http.StatusOK, gin.H{
				"status":  "done",
				"glb_url": fmt.Sprintf("/outputs/%s/%s", jobID, filepath.Base(matches[0])),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "processing"})
		return
	}

	switch record.Status {
	case 1:
		c.JSON(http.StatusOK, gin.H{
			"status":  "done",
			"glb_url": fmt.Sprintf("/outputs/%s/%s", jobID, record.GlbFile),
			"stl_url": fmt.Sprintf("/outputs/%s/%s", jobID, record.StlFile),
		})
	case 2:
		c.JSON(http.StatusOK, gin.H{
			"status":  "error",
			"message": record.Message,
		})
	default:
		c.JSON(http.StatusOK, gin.H{"status": "processing"})
	}
}
