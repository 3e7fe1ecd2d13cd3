package Terrain

import (
	"math"
)

// MergeTiles 将多幅同分辨率高程瓦片合并为一幅
// 形状不一致时先按元素最大形状补齐(数据放左上角，其余填nodata)，
// 逐单元取nanmax：只要有一幅瓦片有值结果就有值，全部nodata才保持nodata
func MergeTiles(tiles []*ElevationGrid) (*ElevationGrid, error) {
	if len(tiles) == 0 {
		return nil, ErrEmptyResult
	}

	rows, cols := 0, 0
	for _, t := range tiles {
		if t.Rows > rows {
			rows = t.Rows
		}
		if t.Cols > cols {
			cols = t.Cols
		}
	}

	merged := NewElevationGrid(rows, cols, tiles[0].Transform, tiles[0].EPSG)
	for _, t := range tiles {
		for r := 0; r < t.Rows; r++ {
			for c := 0; c < t.Cols; c++ {
				v := t.At(r, c)
				if math.IsNaN(v) {
					continue
				}
				cur := merged.At(r, c)
				if math.IsNaN(cur) || v > cur {
					merged.Set(r, c, v)
				}
			}
		}
	}

	if !merged.HasValidCell() {
		return nil, ErrAllMissingData
	}
	return merged, nil
}
