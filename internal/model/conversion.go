package model

import (
	"gorm.io/gorm"

	"github.com/yockii/md2docx/pkg/util"
)

// Conversion 转换记录，不保存文档内容本身
type Conversion struct {
	BaseModel
	Title        string `json:"title" gorm:"type:varchar(200)"`
	Organisation string `json:"organisation" gorm:"type:varchar(100);index"`
	AccentColor  string `json:"accentColor" gorm:"type:varchar(6)"`
	SourceHash   string `json:"sourceHash" gorm:"type:varchar(64);index"` // markdown的sha256
	CacheKey     string `json:"cacheKey" gorm:"type:varchar(36)"`
	BlockCount   int    `json:"blockCount"`
	ByteSize     int    `json:"byteSize"`
	CacheHit     bool   `json:"cacheHit"`
}

func (c *Conversion) TableComment() string {
	return "文档转换记录表"
}

// BeforeCreate 创建前钩子
func (c *Conversion) BeforeCreate(tx *gorm.DB) error {
	if c.ID == 0 {
		c.ID = util.NewID()
	}
	return nil
}

func init() {
	models = append(models, &Conversion{})
}
