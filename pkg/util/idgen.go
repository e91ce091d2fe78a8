package util

import (
	"sync"

	snowflake "github.com/yockii/snowflake_ext"
)

var (
	idGenerator *snowflake.Worker
	idOnce      sync.Once
)

// InitNode 初始化ID生成器
func InitNode(nodeID uint64) error {
	var err error
	idGenerator, err = snowflake.NewSnowflake(nodeID)
	if err != nil {
		return err
	}
	return nil
}

// NewID 生成新的ID，未初始化时使用节点1
func NewID() uint64 {
	idOnce.Do(func() {
		if idGenerator == nil {
			_ = InitNode(1)
		}
	})
	return idGenerator.NextId()
}
