package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/GrainArc/TrackArt/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// OpenDatabase 按 DBType 打开数据库并迁移表结构
func OpenDatabase(cfg Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBType {
	case "", "sqlite":
		if dir := filepath.Dir(cfg.DBPath); dir != "." {
			if err := os.MkdirAll(dir, os.ModePerm); err != nil {
				return nil, fmt.Errorf("create database dir: %w", err)
			}
		}
		dialector = sqlite.Open(cfg.DBPath)
	case "postgres":
		dialector = postgres.Open(cfg.DSN())
	case "mysql":
		dialector = mysql.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported dbtype %q", cfg.DBType)
	}

	level := logger.Silent
	if cfg.LogLevel == "debug" {
		level = logger.Info
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("connect %s database: %w", cfg.DBType, err)
	}

	if err := db.AutoMigrate(&models.ArtProject{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return db, nil
}

// InitDatabase 初始化全局数据库
func InitDatabase(cfg Config) error {
	db, err := OpenDatabase(cfg)
	if err != nil {
		Log.Errorf("数据库初始化失败: %v", err)
		return err
	}
	DB = db
	Log.Infof("数据库初始化成功: %s", cfg.DBType)
	return nil
}

// GetDB 获取数据库实例
func GetDB() *gorm.DB {
	return DB
}
