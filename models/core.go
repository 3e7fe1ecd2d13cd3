package models

import (
	"log"
	"os"
	"path/filepath"

	"github.com/GrainArc/TerraPrint/config"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// InitDatabase 初始化任务记录SQLite数据库
func InitDatabase() error {
	// 确保目录存在
	if err := os.MkdirAll(config.OutputDir, os.ModePerm); err != nil {
		log.Printf("创建输出目录失败: %v", err)
		return err
	}

	dbPath := filepath.Join(config.OutputDir, "jobs.db")
	log.Printf("数据库路径: %s", dbPath)

	var err error
	DB, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Printf("连接数据库失败: %v", err)
		return err
	}

	// 自动迁移，创建表结构
	if err := DB.AutoMigrate(&MeshJob{}); err != nil {
		log.Printf("数据库迁移失败: %v", err)
		return err
	}

	log.Println("数据库初始化成功")
	return nil
}

func GetDB() *gorm.DB {
	return DB
}
