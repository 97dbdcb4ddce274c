package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Auraelena1/webtech-project-aura-cris-2026/internal/model"
	"github.com/Auraelena1/webtech-project-aura-cris-2026/pkg/database"
)

// EventRepository 活动数据访问接口
type EventRepository interface {
	Create(ctx context.Context, event *model.Event) error
	GetByID(ctx context.Context, id uint) (*model.Event, error)
	GetByAccessCode(ctx context.Context, code string) (*model.Event, error)
	// GetByAccessCodeForUpdate 在事务中查询并锁定活动行（PostgreSQL 使用 FOR UPDATE，SQLite 依赖单写连接）
	GetByAccessCodeForUpdate(ctx context.Context, code string) (*model.Event, error)
	ListByGroup(ctx context.Context, groupID uint) ([]model.Event, error)
	UpdateStatus(ctx context.Context, id uint, status model.EventStatus) error
	Delete(ctx context.Context, id uint) error
	DeleteByGroup(ctx context.Context, groupID uint) error
}

type eventRepo struct {
	db *gorm.DB
}

// NewEventRepo 创建 EventRepository 实例
func NewEventRepo(db *gorm.DB) EventRepository {
	return &eventRepo{db: db}
}

func (r *eventRepo) Create(ctx context.Context, event *model.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *eventRepo) GetByID(ctx context.Context, id uint) (*model.Event, error) {
	var event model.Event
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepo) GetByAccessCode(ctx context.Context, code string) (*model.Event, error) {
	var event model.Event
	err := r.db.WithContext(ctx).
		Where("access_code = ?", code).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepo) GetByAccessCodeForUpdate(ctx context.Context, code string) (*model.Event, error) {
	q := r.db.WithContext(ctx)
	if database.IsPostgres(q) {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var event model.Event
	err := q.Where("access_code = ?", code).First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepo) ListByGroup(ctx context.Context, groupID uint) ([]model.Event, error) {
	var events []model.Event
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("start_time DESC, id DESC").
		Find(&events).Error
	return events, err
}

func (r *eventRepo) UpdateStatus(ctx context.Context, id uint, status model.EventStatus) error {
	return r.db.WithContext(ctx).
		Model(&model.Event{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now().UTC(),
		}).Error
}

func (r *eventRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.Event{}).Error
}

func (r *eventRepo) DeleteByGroup(ctx context.Context, groupID uint) error {
	return r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Delete(&model.Event{}).Error
}
