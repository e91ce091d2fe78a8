package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/yockii/md2docx/internal/constant"
	"github.com/yockii/md2docx/internal/model"
	"gorm.io/gorm"
)

type BaseService[T model.Model] struct {
	db *gorm.DB
	// buildCondition 具体服务的查询条件
	buildCondition func(query *gorm.DB, condition T) *gorm.DB
}

func NewBaseService[T model.Model](db *gorm.DB) *BaseService[T] {
	return &BaseService[T]{
		db: db,
	}
}

func (s *BaseService[T]) NewModel() T {
	var t T
	tType := reflect.TypeOf(t)

	// 如果 T 是指针类型，则需要创建指针指向的对象
	if tType.Kind() == reflect.Ptr {
		tType = tType.Elem()                        // 获取指针指向的类型
		value := reflect.New(tType).Interface().(T) // 创建指针类型的实例
		return value
	}

	// 如果 T 是值类型，则直接创建实例
	return reflect.New(tType).Elem().Interface().(T)
}

func (s *BaseService[T]) BuildCondition(query *gorm.DB, condition T) *gorm.DB {
	if s.buildCondition != nil {
		return s.buildCondition(query, condition)
	}
	return query
}

func (s *BaseService[T]) ListOrder() string {
	return "created_at DESC, id DESC"
}

// Create 创建记录
func (s *BaseService[T]) Create(ctx context.Context, record T) error {
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("%w: 创建记录失败: %v", constant.ErrDatabaseError, err)
	}
	return nil
}

// Get 查询记录
func (s *BaseService[T]) Get(ctx context.Context, id uint64) (T, error) {
	record := s.NewModel()
	if id == 0 {
		return record, constant.ErrRecordIDEmpty
	}
	if err := s.db.WithContext(ctx).First(record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return record, constant.ErrRecordNotFound
		}
		return record, fmt.Errorf("%w: 查询记录失败: %v", constant.ErrDatabaseError, err)
	}
	return record, nil
}

// List 查询记录列表
func (s *BaseService[T]) List(ctx context.Context, condition T, offset, limit int) ([]T, int64, error) {
	var records []T
	var total int64

	query := s.db.WithContext(ctx).Model(s.NewModel())

	// 构建查询条件
	query = s.BuildCondition(query, condition)

	// 查询记录总数
	if err := query.Count(&total).Error; err != nil {
		return records, 0, fmt.Errorf("%w: 查询记录总数失败: %v", constant.ErrDatabaseError, err)
	}

	// 查询记录列表
	if err := query.Offset(offset).Limit(limit).Order(s.ListOrder()).Find(&records).Error; err != nil {
		return records, 0, fmt.Errorf("%w: 查询记录失败: %v", constant.ErrDatabaseError, err)
	}

	return records, total, nil
}
