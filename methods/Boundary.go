package methods

import (
	"fmt"
	"os"

	"github.com/GrainArc/TerraPrint/Terrain"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
)

// Boundary 厄瓜多尔国界，启动时加载一次后只读
type Boundary struct {
	geoms orb.MultiPolygon
	bound orb.Bound
}

// LoadBoundary 从GeoJSON文件加载国界(EPSG:4326)
func LoadBoundary(path string) (*Boundary, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取边界文件失败: %w", err)
	}
	fc, err := geojson.UnmarshalFeatureCollection(raw)
	if err != nil {
		return nil, fmt.Errorf("解析边界GeoJSON失败: %w", err)
	}

	var geoms orb.MultiPolygon
	for _, f := range fc.Features {
		switch g := f.Geometry.(type) {
		case orb.Polygon:
			geoms = append(geoms, g)
		case orb.MultiPolygon:
			geoms = append(geoms, g...)
		}
	}
	if len(geoms) == 0 {
		return nil, fmt.Errorf("边界文件 %s 中没有面要素", path)
	}
	return &Boundary{geoms: geoms, bound: geoms.Bound()}, nil
}

// Contains 点是否落在国界内
func (b *Boundary) Contains(p orb.Point) bool {
	return planar.MultiPolygonContains(b.geoms, p)
}

// Geometry 返回边界几何(只读)
func (b *Boundary) Geometry() orb.MultiPolygon {
	return b.geoms
}

// intersects 选区是否与国界相交
// 先做外包矩形粗判，再抽查选区外环顶点和外包中心是否入界，
// 反向再抽查国界顶点是否入选区，够用且不依赖完整多边形求交
func (b *Boundary) intersects(sel *Terrain.ClipPolygon) bool {
	sb := sel.Bound()
	if !b.bound.Intersects(sb) {
		return false
	}
	for _, poly := range sel.Geometry() {
		if len(poly) == 0 {
			continue
		}
		for _, p := range poly[0] {
			if b.Contains(p) {
				return true
			}
		}
	}
	if b.Contains(sb.Center()) {
		return true
	}
	for _, poly := range b.geoms {
		if len(poly) == 0 {
			continue
		}
		for _, p := range poly[0] {
			if sel.Contains(p[0], p[1]) {
				return true
			}
		}
	}
	return false
}

// ValidateSelection 校验选区落在厄瓜多尔境内且面积不超限
// 面积用选区自身的度面积乘111²换算平方公里
func (b *Boundary) ValidateSelection(sel *Terrain.ClipPolygon, maxAreaKm2 float64) error {
	if !b.intersects(sel) {
		return fmt.Errorf("选区不在厄瓜多尔境内: %w", Terrain.ErrNoIntersection)
	}
	area := sel.AreaKm2()
	if area > maxAreaKm2 {
		return fmt.Errorf("选区面积 %.1f km² 超过上限 %.0f km²: %w", area, maxAreaKm2, Terrain.ErrSelectionTooLarge)
	}
	return nil
}
