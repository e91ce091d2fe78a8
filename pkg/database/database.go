package database

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/yockii/md2docx/pkg/config"
)

var db *gorm.DB

// Init 初始化数据库连接
func Init() error {
	dbType := strings.ToLower(config.GetString("database.type"))
	dsn, err := config.GetDSN()
	if err != nil {
		return err
	}

	logLevel := logger.Warn
	if config.GetString("server.mode") == "debug" {
		logLevel = logger.Info
	}

	conn, err := Open(dbType, dsn, logLevel)
	if err != nil {
		return err
	}

	// 获取底层SQL DB
	sqlDB, err := conn.DB()
	if err != nil {
		return fmt.Errorf("get sql.DB failed: %w", err)
	}

	// 设置连接池
	sqlDB.SetMaxIdleConns(config.GetInt("database.max_idle_conns"))
	sqlDB.SetMaxOpenConns(config.GetInt("database.max_open_conns"))
	sqlDB.SetConnMaxLifetime(time.Duration(config.GetInt("database.conn_max_lifetime")) * time.Second)

	db = conn
	return nil
}

// Open 按类型打开数据库连接
func Open(dbType, dsn string, logLevel logger.LogLevel) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NamingStrategy: schema.NamingStrategy{
			TablePrefix: "t_", // 设置表名前缀
		},
		DisableForeignKeyConstraintWhenMigrating: true, // 禁用自动创建外键
	}

	var dialector gorm.Dialector
	switch dbType {
	case "sqlite", "":
		// 确保数据库文件目录存在
		if !strings.HasPrefix(dsn, "file:") && dsn != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
				return nil, fmt.Errorf("create database dir failed: %w", err)
			}
		}
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", dbType)
	}

	conn, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("connect to database failed: %w", err)
	}
	return conn, nil
}

// SetDB 替换全局连接，供测试使用
func SetDB(conn *gorm.DB) {
	db = conn
}

// GetDB 获取数据库连接
func GetDB() *gorm.DB {
	return db
}

// Close 关闭数据库连接
func Close() error {
	if db != nil {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}
