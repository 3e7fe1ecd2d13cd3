package Mesh

import (
	"math"

	"github.com/GrainArc/TerraPrint/Terrain"
)

// 地形色带的分段控制点(低海拔蓝绿到高海拔白)
type rampStop struct {
	Pos   float64
	Color RGB
}

var terrainRamp = []rampStop{
	{0.00, RGB{0.20, 0.20, 0.60}},
	{0.15, RGB{0.00, 0.60, 1.00}},
	{0.25, RGB{0.00, 0.80, 0.40}},
	{0.50, RGB{1.00, 1.00, 0.60}},
	{0.75, RGB{0.50, 0.36, 0.33}},
	{1.00, RGB{1.00, 1.00, 1.00}},
}

var (
	// nodata单元的标记色(浅灰)
	noDataColor = RGB{0.9, 0.9, 0.9}
	// 全nodata时的整体灰色
	flatGrayColor = RGB{0.6, 0.6, 0.6}
	// 底层统一土色
	earthColor = RGB{0.36, 0.28, 0.18}
)

// rampColor 归一化值0..1映射到地形色带
func rampColor(norm float64) RGB {
	if norm <= terrainRamp[0].Pos {
		return terrainRamp[0].Color
	}
	for i := 1; i < len(terrainRamp); i++ {
		if norm <= terrainRamp[i].Pos {
			lo, hi := terrainRamp[i-1], terrainRamp[i]
			t := (norm - lo.Pos) / (hi.Pos - lo.Pos)
			return RGB{
				lo.Color[0] + t*(hi.Color[0]-lo.Color[0]),
				lo.Color[1] + t*(hi.Color[1]-lo.Color[1]),
				lo.Color[2] + t*(hi.Color[2]-lo.Color[2]),
			}
		}
	}
	return terrainRamp[len(terrainRamp)-1].Color
}

// HeightColors 按高程生成顶面逐单元颜色，与栅格展平顺序一致
// 归一化用有效高程的min/max，max==min时全部取0；
// 全nodata时返回整体灰色；nodata单元给浅灰标记色
func HeightColors(grid *Terrain.ElevationGrid) []RGB {
	n := grid.Rows * grid.Cols
	colors := make([]RGB, n)

	minV, maxV, ok := grid.FiniteRange()
	if !ok {
		for i := range colors {
			colors[i] = flatGrayColor
		}
		return colors
	}

	span := maxV - minV
	for i, v := range grid.Data {
		if math.IsNaN(v) {
			colors[i] = noDataColor
			continue
		}
		norm := 0.0
		if span > 0 {
			norm = (v - minV) / span
		}
		colors[i] = rampColor(norm)
	}
	return colors
}
