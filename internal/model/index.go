package model

import (
	"fmt"
	"time"

	"github.com/yockii/md2docx/pkg/logger"
	"gorm.io/gorm"
)

type Model interface {
	TableComment() string
	GetID() uint64
}

type BaseModel struct {
	ID        uint64    `json:"id,string" gorm:"primaryKey"`
	CreatedAt time.Time `json:"createdAt,omitzero" gorm:"type:timestamp;not null"`
}

func (b *BaseModel) TableComment() string {
	return "基础模型"
}

func (b *BaseModel) GetID() uint64 {
	return b.ID
}

var models []Model

// AutoMigrate 按连接的数据库类型迁移所有已注册的表
func AutoMigrate(db *gorm.DB) error {
	switch dt := db.Dialector.Name(); dt {
	case "mysql":
		migrator := db.Migrator()
		for _, m := range models {
			if !migrator.HasTable(m) {
				if err := db.Set("gorm:table_options", fmt.Sprintf("ENGINE=innoDB DEFAULT CHARSET=utf8mb4 COMMENT='%s';", m.TableComment())).AutoMigrate(m); err != nil {
					return fmt.Errorf("自动迁移表失败: %w", err)
				}
			} else if err := migrator.AutoMigrate(m); err != nil {
				return fmt.Errorf("自动迁移表失败: %w", err)
			}
		}
	case "postgres":
		if err := db.AutoMigrate(modelList()...); err != nil {
			return fmt.Errorf("自动迁移表失败: %w", err)
		}
		// 添加表注释
		for _, m := range models {
			stmt := &gorm.Statement{DB: db}
			if err := stmt.Parse(m); err != nil {
				logger.Error("解析模型失败", logger.F("error", err))
				continue
			}
			if err := db.Exec(fmt.Sprintf("COMMENT ON TABLE %s IS '%s';", stmt.Table, m.TableComment())).Error; err != nil {
				logger.Error("添加表注释失败", logger.F("error", err))
			}
		}
	case "sqlite":
		// sqlite不支持表注释
		if err := db.AutoMigrate(modelList()...); err != nil {
			return fmt.Errorf("自动迁移表失败: %w", err)
		}
	default:
		return fmt.Errorf("不支持的数据库类型: %s", dt)
	}
	return nil
}

func modelList() []interface{} {
	var mList []interface{}
	for _, m := range models {
		mList = append(mList, m)
	}
	return mList
}
