package Terrain

import (
	"errors"
	"math"
	"sort"
)

// 统一的错误类型，调用方用errors.Is判断
var (
	ErrEmptyResult       = errors.New("no elevation tiles intersect the requested area")
	ErrAllMissingData    = errors.New("merged raster contains only nodata cells")
	ErrNoIntersection    = errors.New("polygon does not intersect the raster")
	ErrSelectionTooLarge = errors.New("selection area exceeds the configured limit")
	ErrDegenerateMesh    = errors.New("generated mesh is degenerate")
)

// GeoTransform 六参数仿射变换: (col,row) -> (x,y)
// [0]=左上角X [1]=X像素分辨率 [2]=行旋转 [3]=左上角Y [4]=列旋转 [5]=Y像素分辨率
type GeoTransform [6]float64

// Apply 像素坐标转地理坐标
func (t GeoTransform) Apply(col, row float64) (float64, float64) {
	x := t[0] + col*t[1] + row*t[2]
	y := t[3] + col*t[4] + row*t[5]
	return x, y
}

// ElevationGrid 高程栅格，nodata统一用NaN表示
type ElevationGrid struct {
	Rows      int
	Cols      int
	Data      []float64 // 行优先, len = Rows*Cols
	Transform GeoTransform
	EPSG      int
}

// NewElevationGrid 创建全nodata栅格
func NewElevationGrid(rows, cols int, transform GeoTransform, epsg int) *ElevationGrid {
	data := make([]float64, rows*cols)
	nan := math.NaN()
	for i := range data {
		data[i] = nan
	}
	return &ElevationGrid{
		Rows:      rows,
		Cols:      cols,
		Data:      data,
		Transform: transform,
		EPSG:      epsg,
	}
}

func (g *ElevationGrid) At(row, col int) float64 {
	return g.Data[row*g.Cols+col]
}

func (g *ElevationGrid) Set(row, col int, v float64) {
	g.Data[row*g.Cols+col] = v
}

// IsNoData 判断单元格是否无数据
func (g *ElevationGrid) IsNoData(row, col int) bool {
	return math.IsNaN(g.At(row, col))
}

// Clone 深拷贝，流水线各阶段不做原地修改
func (g *ElevationGrid) Clone() *ElevationGrid {
	data := make([]float64, len(g.Data))
	copy(data, g.Data)
	return &ElevationGrid{
		Rows:      g.Rows,
		Cols:      g.Cols,
		Data:      data,
		Transform: g.Transform,
		EPSG:      g.EPSG,
	}
}

// HasValidCell 是否存在有效高程
func (g *ElevationGrid) HasValidCell() bool {
	for _, v := range g.Data {
		if !math.IsNaN(v) {
			return true
		}
	}
	return false
}

// FiniteRange 有效高程的最小最大值，全nodata时ok为false
func (g *ElevationGrid) FiniteRange() (minV, maxV float64, ok bool) {
	minV = math.Inf(1)
	maxV = math.Inf(-1)
	for _, v := range g.Data {
		if math.IsNaN(v) {
			continue
		}
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
		ok = true
	}
	if !ok {
		return 0, 0, false
	}
	return minV, maxV, true
}

// MedianValid 有效高程的中位数，全nodata时返回0
func (g *ElevationGrid) MedianValid() float64 {
	valid := make([]float64, 0, len(g.Data))
	for _, v := range g.Data {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}
	if len(valid) == 0 {
		return 0
	}
	sort.Float64s(valid)
	mid := len(valid) / 2
	if len(valid)%2 == 0 {
		return (valid[mid-1] + valid[mid]) / 2
	}
	return valid[mid]
}

// ProjectedGrid 局部平面坐标下的高程栅格
type ProjectedGrid struct {
	Grid *ElevationGrid
	Xs   []float64 // 每列的X坐标(米), len = Cols
	Ys   []float64 // 每行的Y坐标(米), len = Rows
	// 换算比例(米/度)，便于复算校验
	LonScale float64
	LatScale float64
}
