package Mesh

// PerimeterLoop 生成栅格边界的有序闭合回路(不重复)
// 固定走向：顶行左->右，右列上->下(跳过已访问的角点)，
// 底行右->左(跳过角点)，左列下->上(首尾角点都跳过)
// 返回长度恒为2*(rows+cols-2)，侧壁缝合依赖这一顺序
func PerimeterLoop(rows, cols int) []int {
	loop := make([]int, 0, 2*(rows+cols-2))
	for j := 0; j < cols; j++ {
		loop = append(loop, j)
	}
	for i := 1; i < rows; i++ {
		loop = append(loop, i*cols+(cols-1))
	}
	for j := cols - 2; j >= 0; j-- {
		loop = append(loop, (rows-1)*cols+j)
	}
	for i := rows - 2; i > 0; i-- {
		loop = append(loop, i*cols)
	}
	return loop
}
