package Terrain

import (
	"math"
)

// Resample 按块均值降采样，使最大维度不超过maxDim
// 因子 = ceil(max(rows,cols)/maxDim)，输出尺寸向上取整；
// 块内忽略nodata求均值，整块nodata则输出nodata；
// 仿射变换的像素分辨率同步乘以因子，原点不变；未超限时原样返回
func Resample(grid *ElevationGrid, maxDim int) *ElevationGrid {
	if maxDim <= 0 {
		return grid
	}
	longest := grid.Rows
	if grid.Cols > longest {
		longest = grid.Cols
	}
	if longest <= maxDim {
		return grid
	}

	factor := (longest + maxDim - 1) / maxDim
	newRows := (grid.Rows + factor - 1) / factor
	newCols := (grid.Cols + factor - 1) / factor

	newTransform := grid.Transform
	newTransform[1] *= float64(factor)
	newTransform[5] *= float64(factor)

	out := NewElevationGrid(newRows, newCols, newTransform, grid.EPSG)
	for i := 0; i < newRows; i++ {
		for j := 0; j < newCols; j++ {
			sum, count := 0.0, 0
			for r := i * factor; r < (i+1)*factor && r < grid.Rows; r++ {
				for c := j * factor; c < (j+1)*factor && c < grid.Cols; c++ {
					v := grid.At(r, c)
					if math.IsNaN(v) {
						continue
					}
					sum += v
					count++
				}
			}
			if count > 0 {
				out.Set(i, j, sum/float64(count))
			}
		}
	}
	return out
}
