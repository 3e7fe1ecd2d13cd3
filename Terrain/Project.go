package Terrain

import (
	"math"
)

// MetersPerDegree 纬度方向每度约111320米
const MetersPerDegree = 111320.0

// Project 把栅格像素坐标换算为局部平面坐标(米)，锚定在首像素
// 经度比例按栅格平均纬度的余弦缩放，属于局部等距近似，
// 只在几十公里量级的范围内保持亚百分比精度
func Project(grid *ElevationGrid) *ProjectedGrid {
	t := grid.Transform

	xs := make([]float64, grid.Cols)
	ys := make([]float64, grid.Rows)
	for c := 0; c < grid.Cols; c++ {
		xs[c] = t[0] + float64(c)*t[1]
	}
	latSum := 0.0
	for r := 0; r < grid.Rows; r++ {
		ys[r] = t[3] + float64(r)*t[5]
		latSum += ys[r]
	}
	latMean := latSum / float64(grid.Rows)

	lonScale := MetersPerDegree * math.Cos(latMean*math.Pi/180)
	latScale := MetersPerDegree

	for c := range xs {
		xs[c] = (xs[c] - t[0]) * lonScale
	}
	y0 := t[3]
	for r := range ys {
		ys[r] = (ys[r] - y0) * latScale
	}

	return &ProjectedGrid{
		Grid:     grid,
		Xs:       xs,
		Ys:       ys,
		LonScale: lonScale,
		LatScale: latScale,
	}
}
