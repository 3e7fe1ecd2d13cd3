package Exporter

import (
	"fmt"

	"github.com/GrainArc/TerraPrint/Mesh"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

// ExportGLB 把实体网格序列化为GLB文件，颜色存在时写入COLOR_0
func ExportGLB(mesh *Mesh.SolidMesh, outputPath string) error {
	doc := gltf.NewDocument()

	positions := make([][3]float32, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		positions[i] = [3]float32{float32(v[0]), float32(v[1]), float32(v[2])}
	}
	indices := make([]uint32, 0, len(mesh.Faces)*3)
	for _, f := range mesh.Faces {
		indices = append(indices, uint32(f[0]), uint32(f[1]), uint32(f[2]))
	}

	attributes := map[string]uint32{
		gltf.POSITION: modeler.WritePosition(doc, positions),
	}
	if mesh.Colors != nil {
		colors := make([][3]float32, len(mesh.Colors))
		for i, c := range mesh.Colors {
			colors[i] = [3]float32{float32(c[0]), float32(c[1]), float32(c[2])}
		}
		attributes[gltf.COLOR_0] = modeler.WriteColor(doc, colors)
	}

	doc.Meshes = []*gltf.Mesh{{
		Name: "terrain",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(modeler.WriteIndices(doc, indices)),
			Attributes: attributes,
		}},
	}}
	doc.Nodes = []*gltf.Node{{Name: "terrain", Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	if err := gltf.SaveBinary(doc, outputPath); err != nil {
		return fmt.Errorf("GLB导出失败: %w", err)
	}
	return nil
}
