package services

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/GrainArc/TerraPrint/Exporter"
	"github.com/GrainArc/TerraPrint/Mesh"
	"github.com/GrainArc/TerraPrint/Terrain"
	"github.com/paulmach/orb"
)

// TileSource 高程瓦片来源，生产环境由HgtService经GDAL实现
type TileSource interface {
	ListTiles() ([]string, error)
	TileBounds(path string) (orb.Bound, error)
	LoadGrid(path string) (*Terrain.ElevationGrid, error)
}

// ==================== 流水线参数 ====================

// PipelineOptions 高程转实体网格流水线参数，由调用方显式传入
type PipelineOptions struct {
	MaxDim     int      //栅格最大边长，超过则块均值降采样
	Sigma      float64  //高斯平滑半径，0关闭
	VScale     float64  //垂直夸张系数
	BaseHeight *float64 //底面高度，nil时自动取最低点减10%高程范围
	WithColor  bool     //是否按高程生成顶点颜色
}

// MeshService 高程转实体网格服务
type MeshService struct {
	Hgt     TileSource
	Options PipelineOptions
}

func NewMeshService(hgt TileSource, options PipelineOptions) *MeshService {
	return &MeshService{Hgt: hgt, Options: options}
}

// ==================== 流水线 ====================

// collectTiles 裁剪所有与选区相交的瓦片
func (s *MeshService) collectTiles(polygon *Terrain.ClipPolygon) ([]*Terrain.ElevationGrid, error) {
	paths, err := s.Hgt.ListTiles()
	if err != nil {
		return nil, err
	}

	selBound := polygon.Bound()
	var clipped []*Terrain.ElevationGrid
	for _, path := range paths {
		bound, err := s.Hgt.TileBounds(path)
		if err != nil {
			log.Printf("读取瓦片范围失败 %s: %v", path, err)
			continue
		}
		if !bound.Intersects(selBound) {
			continue
		}

		grid, err := s.Hgt.LoadGrid(path)
		if err != nil {
			log.Printf("读取瓦片失败 %s: %v", path, err)
			continue
		}
		sub, err := Terrain.ClipByPolygon(grid, polygon)
		if err != nil {
			if errors.Is(err, Terrain.ErrNoIntersection) {
				continue
			}
			return nil, err
		}
		clipped = append(clipped, sub)
	}

	if len(clipped) == 0 {
		return nil, Terrain.ErrEmptyResult
	}
	return clipped, nil
}

// BuildSelection 执行完整流水线：合并→裁剪已在采集时完成→降采样→平滑→投影→建网格
// 各阶段只读输入产出新栅格，单次任务内无共享可变状态
func (s *MeshService) BuildSelection(polygon *Terrain.ClipPolygon) (*Mesh.SolidMesh, error) {
	tiles, err := s.collectTiles(polygon)
	if err != nil {
		return nil, err
	}

	merged, err := Terrain.MergeTiles(tiles)
	if err != nil {
		return nil, err
	}

	grid := Terrain.Resample(merged, s.Options.MaxDim)
	grid = Terrain.Smooth(grid, s.Options.Sigma)
	projected := Terrain.Project(grid)

	return Mesh.BuildSolidMesh(projected, Mesh.BuildOptions{
		VScale:     s.Options.VScale,
		BaseHeight: s.Options.BaseHeight,
		WithColor:  s.Options.WithColor,
	})
}

// ExportResult 网格导出结果
type ExportResult struct {
	GlbFile string
	StlFile string
}

// ExportMesh 把网格同时导出为GLB和STL到任务目录
func (s *MeshService) ExportMesh(mesh *Mesh.SolidMesh, jobDir string) (*ExportResult, error) {
	if err := os.MkdirAll(jobDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("创建任务目录失败: %w", err)
	}

	ts := time.Now().Format("20060102_150405")
	glbName := fmt.Sprintf("ecuador_%s.glb", ts)
	stlName := fmt.Sprintf("ecuador_%s.stl", ts)

	if err := Exporter.ExportGLB(mesh, filepath.Join(jobDir, glbName)); err != nil {
		return nil, err
	}
	if err := Exporter.ExportSTL(mesh, filepath.Join(jobDir, stlName)); err != nil {
		return nil, err
	}
	return &ExportResult{GlbFile: glbName, StlFile: stlName}, nil
}
