package services

import (
	"errors"
	"math"
	"sort"
	"testing"

	"github.com/GrainArc/TerraPrint/Terrain"
	"github.com/paulmach/orb"
)

// fakeTileSource 内存瓦片源，免GDAL跑完整流水线
type fakeTileSource struct {
	tiles map[string]*Terrain.ElevationGrid
}

func (f *fakeTileSource) ListTiles() ([]string, error) {
	var paths []string
	for name := range f.tiles {
		paths = append(paths, name)
	}
	sort.Strings(paths)
	return paths, nil
}

func (f *fakeTileSource) TileBounds(path string) (orb.Bound, error) {
	g := f.tiles[path]
	x0 := g.Transform[0]
	y0 := g.Transform[3]
	x1 := x0 + float64(g.Cols)*g.Transform[1]
	y1 := y0 + float64(g.Rows)*g.Transform[5]
	return orb.Bound{Min: orb.Point{x0, y1}, Max: orb.Point{x1, y0}}, nil
}

func (f *fakeTileSource) LoadGrid(path string) (*Terrain.ElevationGrid, error) {
	return f.tiles[path].Clone(), nil
}

// testTile 以(-79,-1)为左上角的4x4瓦片
func testTile(value float64) *Terrain.ElevationGrid {
	g := &Terrain.ElevationGrid{
		Rows:      4,
		Cols:      4,
		Data:      make([]float64, 16),
		Transform: Terrain.GeoTransform{-79, 0.01, 0, -1, 0, -0.01},
		EPSG:      4326,
	}
	for i := range g.Data {
		g.Data[i] = value
	}
	return g
}

// coverAll 覆盖整个测试瓦片的选区
func coverAll() *Terrain.ClipPolygon {
	ring := orb.Ring{
		{-79, -1.04}, {-78.96, -1.04}, {-78.96, -1}, {-79, -1}, {-79, -1.04},
	}
	return Terrain.NewClipPolygon(orb.Polygon{ring})
}

func newTestService(tiles map[string]*Terrain.ElevationGrid) *MeshService {
	return NewMeshService(&fakeTileSource{tiles: tiles}, PipelineOptions{
		MaxDim: 100,
		Sigma:  0,
		VScale: 1,
	})
}

// 常值瓦片跑完整流水线：合并→降采样→平滑→投影→建网格
func TestBuildSelectionPipeline(t *testing.T) {
	svc := newTestService(map[string]*Terrain.ElevationGrid{
		"a.hgt": testTile(100),
	})

	mesh, err := svc.BuildSelection(coverAll())
	if err != nil {
		t.Fatalf("BuildSelection: %v", err)
	}
	if mesh.VertexCount() != 32 {
		t.Errorf("顶点数 = %d, 期望 32", mesh.VertexCount())
	}
	if mesh.FaceCount() != 60 {
		t.Errorf("面数 = %d, 期望 60", mesh.FaceCount())
	}
	// 常值100，高程范围0，底面 = 100 - 0.1*max(1,0) = 99.9
	base := mesh.Vertices[16][2]
	if math.Abs(base-99.9) > 1e-9 {
		t.Errorf("底面高度 = %v, 期望 99.9", base)
	}
	for _, v := range mesh.Vertices[:16] {
		if v[2] != 100 {
			t.Errorf("顶面高程 = %v, 期望 100", v[2])
		}
	}
}

// 两张同位瓦片合并：一张有洞，另一张补上
func TestBuildSelectionMergesTiles(t *testing.T) {
	holed := testTile(50)
	holed.Set(1, 1, math.NaN())
	holed.Set(2, 2, math.NaN())

	svc := newTestService(map[string]*Terrain.ElevationGrid{
		"a.hgt": holed,
		"b.hgt": testTile(40),
	})

	mesh, err := svc.BuildSelection(coverAll())
	if err != nil {
		t.Fatalf("BuildSelection: %v", err)
	}
	// 洞由第二张瓦片的40补上，其余取逐格最大值50
	seen40 := 0
	for _, v := range mesh.Vertices[:16] {
		switch v[2] {
		case 40:
			seen40++
		case 50:
		default:
			t.Errorf("意外顶面高程 %v", v[2])
		}
	}
	if seen40 != 2 {
		t.Errorf("补洞顶点数 = %d, 期望 2", seen40)
	}
}

// 所有瓦片全是nodata时整条流水线报ErrAllMissingData
func TestBuildSelectionAllNodata(t *testing.T) {
	svc := newTestService(map[string]*Terrain.ElevationGrid{
		"a.hgt": testTile(math.NaN()),
	})

	_, err := svc.BuildSelection(coverAll())
	if !errors.Is(err, Terrain.ErrAllMissingData) {
		t.Errorf("err = %v, 期望 ErrAllMissingData", err)
	}
}

// 选区与任何瓦片都不相交时报ErrEmptyResult
func TestBuildSelectionNoTiles(t *testing.T) {
	svc := newTestService(map[string]*Terrain.ElevationGrid{
		"a.hgt": testTile(100),
	})

	far := Terrain.NewClipPolygon(orb.Polygon{orb.Ring{
		{10, 10}, {11, 10}, {11, 11}, {10, 11}, {10, 10},
	}})
	_, err := svc.BuildSelection(far)
	if !errors.Is(err, Terrain.ErrEmptyResult) {
		t.Errorf("err = %v, 期望 ErrEmptyResult", err)
	}
}
