package methods

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/GrainArc/TerraPrint/Terrain"
	"github.com/paulmach/orb"
)

const boundaryJSON = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"shapeName": "TestZone"},
      "geometry": {
        "type": "Polygon",
        "coordinates": [[[-80, -3], [-78, -3], [-78, -1], [-80, -1], [-80, -3]]]
      }
    }
  ]
}`

func writeBoundary(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "boundary.geojson")
	if err := os.WriteFile(path, []byte(boundaryJSON), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func selection(minX, minY, maxX, maxY float64) *Terrain.ClipPolygon {
	return Terrain.NewClipPolygon(orb.Polygon{orb.Ring{
		{minX, minY}, {maxX, minY}, {maxX, maxY}, {minX, maxY}, {minX, minY},
	}})
}

func TestLoadBoundary(t *testing.T) {
	b, err := LoadBoundary(writeBoundary(t))
	if err != nil {
		t.Fatalf("LoadBoundary: %v", err)
	}
	if !b.Contains(orb.Point{-79, -2}) {
		t.Errorf("point inside boundary not detected")
	}
	if b.Contains(orb.Point{-70, -2}) {
		t.Errorf("point outside boundary wrongly detected")
	}
}

func TestLoadBoundaryMissingFile(t *testing.T) {
	if _, err := LoadBoundary("/nonexistent/boundary.geojson"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestValidateSelectionInside(t *testing.T) {
	b, err := LoadBoundary(writeBoundary(t))
	if err != nil {
		t.Fatal(err)
	}
	sel := selection(-79.1, -2.1, -79.0, -2.0)
	if err := b.ValidateSelection(sel, 2000); err != nil {
		t.Fatalf("ValidateSelection: %v", err)
	}
}

func TestValidateSelectionOutside(t *testing.T) {
	b, err := LoadBoundary(writeBoundary(t))
	if err != nil {
		t.Fatal(err)
	}
	sel := selection(-60, -2, -59, -1)
	err = b.ValidateSelection(sel, 2000)
	if !errors.Is(err, Terrain.ErrNoIntersection) {
		t.Fatalf("err = %v, want ErrNoIntersection", err)
	}
}

func TestValidateSelectionTooLarge(t *testing.T) {
	b, err := LoadBoundary(writeBoundary(t))
	if err != nil {
		t.Fatal(err)
	}
	// 1度x1度 ≈ 12321平方公里，远超2000上限
	sel := selection(-79.5, -2.5, -78.5, -1.5)
	err = b.ValidateSelection(sel, 2000)
	if !errors.Is(err, Terrain.ErrSelectionTooLarge) {
		t.Fatalf("err = %v, want ErrSelectionTooLarge", err)
	}
}
