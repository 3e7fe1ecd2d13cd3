package Terrain

import (
	"math"
	"testing"
)

func constantGrid(rows, cols int, v float64) *ElevationGrid {
	g := NewElevationGrid(rows, cols, testTransform, 4326)
	for i := range g.Data {
		g.Data[i] = v
	}
	return g
}

func TestResampleIdentityUnderThreshold(t *testing.T) {
	g := constantGrid(4, 4, 5)
	out := Resample(g, 10)
	if out != g {
		t.Fatalf("grid under threshold should be returned unchanged")
	}
}

func TestResampleConstantGrid(t *testing.T) {
	g := constantGrid(5, 5, 7)
	out := Resample(g, 2)
	// factor = ceil(5/2) = 3, 输出 2x2
	if out.Rows != 2 || out.Cols != 2 {
		t.Fatalf("shape = %dx%d, want 2x2", out.Rows, out.Cols)
	}
	for i, v := range out.Data {
		if v != 7 {
			t.Errorf("data[%d] = %v, want 7 (mean of equal values)", i, v)
		}
	}
}

func TestResampleExactFactorTwo(t *testing.T) {
	g := constantGrid(6, 4, 1)
	out := Resample(g, 3)
	// factor = 2：两个维度都减半(向上取整)
	if out.Rows != 3 || out.Cols != 2 {
		t.Fatalf("shape = %dx%d, want 3x2", out.Rows, out.Cols)
	}
	// 原点不变，像素分辨率翻倍
	if out.Transform[0] != g.Transform[0] || out.Transform[3] != g.Transform[3] {
		t.Errorf("origin changed: %v,%v", out.Transform[0], out.Transform[3])
	}
	if out.Transform[1] != g.Transform[1]*2 || out.Transform[5] != g.Transform[5]*2 {
		t.Errorf("pixel size = %v,%v, want doubled", out.Transform[1], out.Transform[5])
	}
}

func TestResampleBlockMean(t *testing.T) {
	g := gridFrom([][]float64{
		{1, 3, 5, 7},
		{1, 3, 5, 7},
	})
	out := Resample(g, 2)
	// factor = 2, 输出 1x2，每块取均值
	if out.Rows != 1 || out.Cols != 2 {
		t.Fatalf("shape = %dx%d, want 1x2", out.Rows, out.Cols)
	}
	if out.At(0, 0) != 2 {
		t.Errorf("block (0,0) mean = %v, want 2", out.At(0, 0))
	}
	if out.At(0, 1) != 6 {
		t.Errorf("block (0,1) mean = %v, want 6", out.At(0, 1))
	}
}

func TestResampleNodataBlocks(t *testing.T) {
	nan := math.NaN()
	g := gridFrom([][]float64{
		{nan, nan, 4, nan},
		{nan, nan, nan, nan},
	})
	out := Resample(g, 2)
	// 整块nodata的输出单元保持nodata，混合块忽略nodata求均值
	if !out.IsNoData(0, 0) {
		t.Errorf("all-nodata block should stay nodata, got %v", out.At(0, 0))
	}
	if out.At(0, 1) != 4 {
		t.Errorf("mixed block mean = %v, want 4", out.At(0, 1))
	}
}
