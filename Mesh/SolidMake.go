package Mesh

import (
	"math"

	"github.com/GrainArc/TerraPrint/Terrain"
)

// BuildOptions 实体网格构建参数
type BuildOptions struct {
	VScale     float64  // 垂直夸张系数
	BaseHeight *float64 // 底面高度，nil时取最低点减10%高程范围
	WithColor  bool     // 是否生成顶点颜色
}

// BuildSolidMesh 把投影后的高程栅格构建为封闭实体网格
// 顶层一格一顶点(nodata取最低有效高程)，底层同XY放在基准高度，
// 顶面法向朝上、底面反向，边界回路逐边缝两个三角形封闭侧壁
func BuildSolidMesh(pg *Terrain.ProjectedGrid, opts BuildOptions) (*SolidMesh, error) {
	grid := pg.Grid
	rows, cols := grid.Rows, grid.Cols
	n := rows * cols

	vs := opts.VScale
	if vs == 0 {
		vs = 1
	}

	minV, _, hasFinite := grid.FiniteRange()

	// 顶层高程：nodata用最低有效高程补齐后再做垂直缩放
	zs := make([]float64, n)
	for i, v := range grid.Data {
		if math.IsNaN(v) {
			zs[i] = minV * vs
		} else {
			zs[i] = v * vs
		}
	}

	var baseAlt float64
	if opts.BaseHeight != nil {
		baseAlt = *opts.BaseHeight
	} else if !hasFinite {
		baseAlt = 0
	} else {
		zmin, zmax := zs[0], zs[0]
		for _, z := range zs[1:] {
			if z < zmin {
				zmin = z
			}
			if z > zmax {
				zmax = z
			}
		}
		baseAlt = zmin - 0.10*math.Max(1.0, zmax-zmin)
	}

	verts := make([]Vertex, 0, 2*n)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			verts = append(verts, Vertex{pg.Xs[c], pg.Ys[r], zs[r*cols+c]})
		}
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			verts = append(verts, Vertex{pg.Xs[c], pg.Ys[r], baseAlt})
		}
	}
	offset := n

	faces := make([]Face, 0, 4*(rows-1)*(cols-1)+4*(rows+cols-2))
	// 顶面：规则三角化，法向朝上
	for r := 0; r < rows-1; r++ {
		for c := 0; c < cols-1; c++ {
			v0 := r*cols + c
			v1 := v0 + 1
			v2 := v0 + cols
			v3 := v2 + 1
			faces = append(faces, Face{v0, v2, v1})
			faces = append(faces, Face{v1, v2, v3})
		}
	}
	// 底面：同样的三角化但顶点反序，法向朝下
	for r := 0; r < rows-1; r++ {
		for c := 0; c < cols-1; c++ {
			v0 := offset + r*cols + c
			v1 := v0 + 1
			v2 := v0 + cols
			v3 := v2 + 1
			faces = append(faces, Face{v0, v1, v2})
			faces = append(faces, Face{v1, v3, v2})
		}
	}
	// 侧壁：边界回路每条边缝两个三角形
	loop := PerimeterLoop(rows, cols)
	for k := 0; k < len(loop); k++ {
		t0 := loop[k]
		t1 := loop[(k+1)%len(loop)]
		b0 := t0 + offset
		b1 := t1 + offset
		faces = append(faces, Face{t0, b0, t1})
		faces = append(faces, Face{t1, b0, b1})
	}

	mesh := &SolidMesh{Vertices: verts, Faces: faces}

	if opts.WithColor {
		topColors := HeightColors(grid)
		colors := make([]RGB, 0, 2*n)
		colors = append(colors, topColors...)
		for i := 0; i < n; i++ {
			colors = append(colors, earthColor)
		}
		mesh.Colors = colors
	}

	mesh.Cleanup()

	if mesh.VertexCount() < 4 || mesh.FaceCount() == 0 {
		return nil, Terrain.ErrDegenerateMesh
	}
	return mesh, nil
}

// Cleanup 收尾清理：去除重复面和未被引用的顶点
// 保留面和顶点的相对顺序，只做索引重映射
func (m *SolidMesh) Cleanup() {
	seen := make(map[Face]bool, len(m.Faces))
	faces := m.Faces[:0]
	for _, f := range m.Faces {
		if seen[f] {
			continue
		}
		seen[f] = true
		faces = append(faces, f)
	}
	m.Faces = faces

	used := make([]bool, len(m.Vertices))
	for _, f := range m.Faces {
		used[f[0]] = true
		used[f[1]] = true
		used[f[2]] = true
	}

	remap := make([]int, len(m.Vertices))
	verts := make([]Vertex, 0, len(m.Vertices))
	var colors []RGB
	if m.Colors != nil {
		colors = make([]RGB, 0, len(m.Colors))
	}
	for i, v := range m.Vertices {
		if !used[i] {
			remap[i] = -1
			continue
		}
		remap[i] = len(verts)
		verts = append(verts, v)
		if m.Colors != nil {
			colors = append(colors, m.Colors[i])
		}
	}
	m.Vertices = verts
	m.Colors = colors

	for i, f := range m.Faces {
		m.Faces[i] = Face{remap[f[0]], remap[f[1]], remap[f[2]]}
	}
}
