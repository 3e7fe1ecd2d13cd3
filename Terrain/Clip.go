package Terrain

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// ClipPolygon 裁剪多边形，与被裁剪栅格同坐标系，构造后不再修改
type ClipPolygon struct {
	geom orb.MultiPolygon
}

// NewClipPolygon 由orb几何构造裁剪多边形，仅支持面类型
func NewClipPolygon(geom orb.Geometry) *ClipPolygon {
	switch g := geom.(type) {
	case orb.Polygon:
		return &ClipPolygon{geom: orb.MultiPolygon{g}}
	case orb.MultiPolygon:
		return &ClipPolygon{geom: g}
	default:
		return &ClipPolygon{}
	}
}

// Geometry 返回底层几何(只读)
func (p *ClipPolygon) Geometry() orb.MultiPolygon {
	return p.geom
}

// Contains 点是否在多边形内
func (p *ClipPolygon) Contains(x, y float64) bool {
	return planar.MultiPolygonContains(p.geom, orb.Point{x, y})
}

// Bound 多边形外包矩形
func (p *ClipPolygon) Bound() orb.Bound {
	return p.geom.Bound()
}

// AreaKm2 平方公里近似面积，按度面积乘111²换算(EPSG:4326)
func (p *ClipPolygon) AreaKm2() float64 {
	return math.Abs(planar.Area(p.geom)) * 111 * 111
}

// ClipByPolygon 按多边形裁剪栅格
// 返回多边形外包矩形内的最小子栅格，矩形内但多边形外的单元置nodata，
// 结果保持矩形并携带新原点的仿射变换；不相交返回ErrNoIntersection
func ClipByPolygon(grid *ElevationGrid, polygon *ClipPolygon) (*ElevationGrid, error) {
	if len(polygon.geom) == 0 {
		return nil, ErrNoIntersection
	}

	t := grid.Transform
	bound := polygon.Bound()

	// 外包矩形角点转像素行列号(假定北向上栅格,无旋转项)
	colOf := func(x float64) float64 { return (x - t[0]) / t[1] }
	rowOf := func(y float64) float64 { return (y - t[3]) / t[5] }

	c0 := int(math.Floor(math.Min(colOf(bound.Min[0]), colOf(bound.Max[0]))))
	c1 := int(math.Ceil(math.Max(colOf(bound.Min[0]), colOf(bound.Max[0]))))
	r0 := int(math.Floor(math.Min(rowOf(bound.Min[1]), rowOf(bound.Max[1]))))
	r1 := int(math.Ceil(math.Max(rowOf(bound.Min[1]), rowOf(bound.Max[1]))))

	if c0 < 0 {
		c0 = 0
	}
	if r0 < 0 {
		r0 = 0
	}
	if c1 > grid.Cols {
		c1 = grid.Cols
	}
	if r1 > grid.Rows {
		r1 = grid.Rows
	}
	if c0 >= c1 || r0 >= r1 {
		return nil, ErrNoIntersection
	}

	newTransform := t
	newTransform[0] = t[0] + float64(c0)*t[1]
	newTransform[3] = t[3] + float64(r0)*t[5]

	out := NewElevationGrid(r1-r0, c1-c0, newTransform, grid.EPSG)
	for r := r0; r < r1; r++ {
		for c := c0; c < c1; c++ {
			// 用单元中心判断归属
			x, y := t.Apply(float64(c)+0.5, float64(r)+0.5)
			if polygon.Contains(x, y) {
				out.Set(r-r0, c-c0, grid.At(r, c))
			}
		}
	}
	return out, nil
}
