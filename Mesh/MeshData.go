package Mesh

// Vertex 三维顶点
type Vertex [3]float64

// Face 三角面，存顶点索引，顶点顺序决定法向
type Face [3]int

// RGB 顶点颜色，分量0..1
type RGB [3]float64

// SolidMesh 封闭实体网格：顶面+平底+侧壁
// 顶点按插入顺序编号，Colors存在时与Vertices等长同序
type SolidMesh struct {
	Vertices []Vertex
	Faces    []Face
	Colors   []RGB
}

// VertexCount 顶点数
func (m *SolidMesh) VertexCount() int {
	return len(m.Vertices)
}

// FaceCount 面数
func (m *SolidMesh) FaceCount() int {
	return len(m.Faces)
}
