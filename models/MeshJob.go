package models

import "gorm.io/datatypes"

type MeshJob struct {
	ID        int64          `gorm:"primary_key;autoIncrement"`
	JobID     string         `gorm:"type:varchar(64);uniqueIndex"` //任务uuid，也是输出目录名
	Status    int            //任务运行状态 0 运行中 1 执行完成  2 执行失败
	GlbFile   string         `gorm:"type:varchar(255)"` //GLB输出文件名
	StlFile   string         `gorm:"type:varchar(255)"` //STL输出文件名
	AreaKm2   float64        //选区面积(平方公里)
	Message   string         `gorm:"type:varchar(500)"` //失败原因
	Args      datatypes.JSON //请求的几何与参数
	CreatedAt int64          `gorm:"autoCreateTime"`
}

func (MeshJob) TableName() string {
	return "mesh_job"
}
