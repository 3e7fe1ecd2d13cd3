package Terrain

import (
	"math"
)

// gaussianKernel 一维高斯核，截断半径4σ，权重归一化
func gaussianKernel(sigma float64) []float64 {
	radius := int(math.Ceil(4 * sigma))
	if radius < 1 {
		radius = 1
	}
	kernel := make([]float64, 2*radius+1)
	sum := 0.0
	for i := -radius; i <= radius; i++ {
		w := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		kernel[i+radius] = w
		sum += w
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

// convolveRows 按行一维卷积，边界取最近值
func convolveRows(data []float64, rows, cols int, kernel []float64) []float64 {
	radius := (len(kernel) - 1) / 2
	out := make([]float64, len(data))
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			acc := 0.0
			for k := -radius; k <= radius; k++ {
				cc := c + k
				if cc < 0 {
					cc = 0
				} else if cc >= cols {
					cc = cols - 1
				}
				acc += data[r*cols+cc] * kernel[k+radius]
			}
			out[r*cols+c] = acc
		}
	}
	return out
}

// convolveCols 按列一维卷积，边界取最近值
func convolveCols(data []float64, rows, cols int, kernel []float64) []float64 {
	radius := (len(kernel) - 1) / 2
	out := make([]float64, len(data))
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			acc := 0.0
			for k := -radius; k <= radius; k++ {
				rr := r + k
				if rr < 0 {
					rr = 0
				} else if rr >= rows {
					rr = rows - 1
				}
				acc += data[rr*cols+c] * kernel[k+radius]
			}
			out[r*cols+c] = acc
		}
	}
	return out
}

// Smooth 可分离高斯平滑
// nodata单元先用有效值中位数临时填充保证卷积输入有定义，
// 平滑后把原nodata位置重新置回nodata，模糊值不会在空洞处复活；
// sigma<=0时原样返回
func Smooth(grid *ElevationGrid, sigma float64) *ElevationGrid {
	if sigma <= 0 {
		return grid
	}

	fill := grid.MedianValid()
	filled := make([]float64, len(grid.Data))
	mask := make([]bool, len(grid.Data))
	for i, v := range grid.Data {
		if math.IsNaN(v) {
			filled[i] = fill
			mask[i] = true
		} else {
			filled[i] = v
		}
	}

	kernel := gaussianKernel(sigma)
	blurred := convolveRows(filled, grid.Rows, grid.Cols, kernel)
	blurred = convolveCols(blurred, grid.Rows, grid.Cols, kernel)

	out := grid.Clone()
	nan := math.NaN()
	for i := range blurred {
		if mask[i] {
			out.Data[i] = nan
		} else {
			out.Data[i] = blurred[i]
		}
	}
	return out
}
