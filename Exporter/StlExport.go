package Exporter

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"github.com/GrainArc/TerraPrint/Mesh"
)

// faceNormal 三角面单位法向量，顶点顺序决定方向
func faceNormal(v0, v1, v2 Mesh.Vertex) [3]float32 {
	ax, ay, az := v1[0]-v0[0], v1[1]-v0[1], v1[2]-v0[2]
	bx, by, bz := v2[0]-v0[0], v2[1]-v0[1], v2[2]-v0[2]

	nx := ay*bz - az*by
	ny := az*bx - ax*bz
	nz := ax*by - ay*bx

	length := math.Sqrt(nx*nx + ny*ny + nz*nz)
	if length > 0 {
		nx /= length
		ny /= length
		nz /= length
	}
	return [3]float32{float32(nx), float32(ny), float32(nz)}
}

// ExportSTL 把实体网格写成二进制STL(打印用，不含颜色)
func ExportSTL(mesh *Mesh.SolidMesh, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("创建STL文件失败: %w", err)
	}
	defer file.Close()

	w := bufio.NewWriter(file)

	var header [80]byte
	copy(header[:], "TerraPrint solid terrain")
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(mesh.Faces))); err != nil {
		return err
	}

	for _, f := range mesh.Faces {
		v0, v1, v2 := mesh.Vertices[f[0]], mesh.Vertices[f[1]], mesh.Vertices[f[2]]
		if err := binary.Write(w, binary.LittleEndian, faceNormal(v0, v1, v2)); err != nil {
			return err
		}
		for _, v := range []Mesh.Vertex{v0, v1, v2} {
			vert := [3]float32{float32(v[0]), float32(v[1]), float32(v[2])}
			if err := binary.Write(w, binary.LittleEndian, vert); err != nil {
				return err
			}
		}
		// 属性字节计数，常规STL置0
		if err := binary.Write(w, binary.LittleEndian, uint16(0)); err != nil {
			return err
		}
	}
	return w.Flush()
}
