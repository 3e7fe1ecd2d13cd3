package Terrain

import (
	"errors"
	"math"
	"testing"
)

var testTransform = GeoTransform{-79.0, 0.001, 0, -1.0, 0, -0.001}

// gridFrom 按行构造测试栅格，NaN表示nodata
func gridFrom(values [][]float64) *ElevationGrid {
	rows := len(values)
	cols := len(values[0])
	g := NewElevationGrid(rows, cols, testTransform, 4326)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			g.Set(r, c, values[r][c])
		}
	}
	return g
}

func TestMergeTilesFillsHoles(t *testing.T) {
	nan := math.NaN()
	full := gridFrom([][]float64{
		{10, 20},
		{30, 40},
	})
	holed := gridFrom([][]float64{
		{10, nan},
		{nan, 40},
	})

	merged, err := MergeTiles([]*ElevationGrid{full, holed})
	if err != nil {
		t.Fatalf("MergeTiles: %v", err)
	}
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			if merged.IsNoData(r, c) {
				t.Errorf("cell (%d,%d) should not be nodata", r, c)
			}
			if merged.At(r, c) != full.At(r, c) {
				t.Errorf("cell (%d,%d) = %v, want %v", r, c, merged.At(r, c), full.At(r, c))
			}
		}
	}
}

func TestMergeTilesNanMax(t *testing.T) {
	nan := math.NaN()
	a := gridFrom([][]float64{
		{10, 20},
		{30, 40},
	})
	b := gridFrom([][]float64{
		{15, nan},
		{nan, 35},
	})

	merged, err := MergeTiles([]*ElevationGrid{a, b})
	if err != nil {
		t.Fatalf("MergeTiles: %v", err)
	}
	want := [][]float64{
		{15, 20},
		{30, 40},
	}
	for r := 0; r < 2; r++ {
		for c := 0; c < 2; c++ {
			if merged.At(r, c) != want[r][c] {
				t.Errorf("cell (%d,%d) = %v, want %v", r, c, merged.At(r, c), want[r][c])
			}
		}
	}
}

func TestMergeTilesUnequalShapes(t *testing.T) {
	tall := gridFrom([][]float64{
		{1},
		{2},
		{3},
	})
	wide := gridFrom([][]float64{
		{7, 8},
	})

	merged, err := MergeTiles([]*ElevationGrid{tall, wide})
	if err != nil {
		t.Fatalf("MergeTiles: %v", err)
	}
	if merged.Rows != 3 || merged.Cols != 2 {
		t.Fatalf("shape = %dx%d, want 3x2", merged.Rows, merged.Cols)
	}
	// 左上角对齐：重叠处取最大值
	if got := merged.At(0, 0); got != 7 {
		t.Errorf("cell (0,0) = %v, want 7", got)
	}
	if got := merged.At(0, 1); got != 8 {
		t.Errorf("cell (0,1) = %v, want 8", got)
	}
	if got := merged.At(2, 0); got != 3 {
		t.Errorf("cell (2,0) = %v, want 3", got)
	}
	// 没有任何瓦片覆盖的角落保持nodata
	if !merged.IsNoData(2, 1) {
		t.Errorf("cell (2,1) should be nodata, got %v", merged.At(2, 1))
	}
}

func TestMergeTilesSingle(t *testing.T) {
	a := gridFrom([][]float64{
		{5, 6},
		{7, 8},
	})
	merged, err := MergeTiles([]*ElevationGrid{a})
	if err != nil {
		t.Fatalf("MergeTiles: %v", err)
	}
	for i, v := range merged.Data {
		if v != a.Data[i] {
			t.Errorf("data[%d] = %v, want %v", i, v, a.Data[i])
		}
	}
}

func TestMergeTilesEmpty(t *testing.T) {
	_, err := MergeTiles(nil)
	if !errors.Is(err, ErrEmptyResult) {
		t.Fatalf("err = %v, want ErrEmptyResult", err)
	}
}

func TestMergeTilesAllNodata(t *testing.T) {
	nan := math.NaN()
	a := gridFrom([][]float64{
		{nan, nan},
		{nan, nan},
	})
	b := gridFrom([][]float64{
		{nan, nan},
		{nan, nan},
	})
	_, err := MergeTiles([]*ElevationGrid{a, b})
	if !errors.Is(err, ErrAllMissingData) {
		t.Fatalf("err = %v, want ErrAllMissingData", err)
	}
}
