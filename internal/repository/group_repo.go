package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Auraelena1/webtech-project-aura-cris-2026/internal/model"
)

// GroupRepository 分组数据访问接口
type GroupRepository interface {
	Create(ctx context.Context, group *model.Group) error
	GetByID(ctx context.Context, id uint) (*model.Group, error)
	List(ctx context.Context) ([]model.Group, error)
	Delete(ctx context.Context, id uint) error
}

type groupRepo struct {
	db *gorm.DB
}

// NewGroupRepo 创建 GroupRepository 实例
func NewGroupRepo(db *gorm.DB) GroupRepository {
	return &groupRepo{db: db}
}

func (r *groupRepo) Create(ctx context.Context, group *model.Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

func (r *groupRepo) GetByID(ctx context.Context, id uint) (*model.Group, error) {
	var group model.Group
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepo) List(ctx context.Context) ([]model.Group, error) {
	var groups []model.Group
	err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&groups).Error
	return groups, err
}

// Delete 仅删除分组本身；下属活动与签到记录由调用方在同一事务中先行删除
func (r *groupRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Group{}).Error
}
