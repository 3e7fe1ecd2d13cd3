package services

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/GrainArc/Gogeo"
	"github.com/GrainArc/TerraPrint/Terrain"
	"github.com/paulmach/orb"
)

// HgtService 高程瓦片读取服务，把GDAL数据集包装成核心的ElevationGrid
type HgtService struct {
	TileDir        string
	NodataFallback float64 //瓦片未声明nodata时的兜底值
}

func NewHgtService(tileDir string, nodataFallback float64) *HgtService {
	return &HgtService{
		TileDir:        tileDir,
		NodataFallback: nodataFallback,
	}
}

// isTileFile 是否为支持的高程瓦片格式
func isTileFile(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".hgt") || strings.HasSuffix(lower, ".tif") || strings.HasSuffix(lower, ".tiff")
}

// ListTiles 列出瓦片目录下全部高程文件
func (s *HgtService) ListTiles() ([]string, error) {
	entries, err := os.ReadDir(s.TileDir)
	if err != nil {
		return nil, fmt.Errorf("读取瓦片目录失败: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !isTileFile(e.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(s.TileDir, e.Name()))
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("瓦片目录 %s 下没有高程文件", s.TileDir)
	}
	return paths, nil
}

// TileBounds 读取瓦片外包范围(minX,minY,maxX,maxY)
func (s *HgtService) TileBounds(path string) (orb.Bound, error) {
	rd, err := Gogeo.OpenRasterDataset(path, false)
	if err != nil {
		return orb.Bound{}, fmt.Errorf("打开瓦片失败: %w", err)
	}
	defer rd.Close()

	minX, minY, maxX, maxY := rd.GetBounds()
	return orb.Bound{Min: orb.Point{minX, minY}, Max: orb.Point{maxX, maxY}}, nil
}

// LoadGrid 把整幅瓦片读入内存栅格
// nodata统一转成NaN：优先用波段声明的nodata值，未声明时用兜底值
func (s *HgtService) LoadGrid(path string) (*Terrain.ElevationGrid, error) {
	rd, err := Gogeo.OpenRasterDataset(path, false)
	if err != nil {
		return nil, fmt.Errorf("打开瓦片失败: %w", err)
	}
	defer rd.Close()

	info := rd.GetInfo()
	epsg := rd.GetEPSGCode()
	if epsg == 0 {
		epsg = 4326
	}

	nodata := s.NodataFallback
	if bandInfo, err := rd.GetBandInfo(1); err == nil && bandInfo.HasNoData {
		nodata = bandInfo.NoDataValue
	}

	calc := rd.NewBandCalculator()
	data, err := calc.Calculate("B1")
	if err != nil {
		return nil, fmt.Errorf("读取波段数据失败: %w", err)
	}
	if len(data) != info.Width*info.Height {
		return nil, fmt.Errorf("波段数据长度不符: %d != %d", len(data), info.Width*info.Height)
	}

	grid := &Terrain.ElevationGrid{
		Rows:      info.Height,
		Cols:      info.Width,
		Data:      data,
		Transform: Terrain.GeoTransform(info.GeoTransform),
		EPSG:      epsg,
	}
	nan := math.NaN()
	for i, v := range grid.Data {
		if v == nodata {
			grid.Data[i] = nan
		}
	}
	return grid, nil
}
