package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/Auraelena1/webtech-project-aura-cris-2026/internal/model"
)

// AttendanceRepository 签到记录数据访问接口
type AttendanceRepository interface {
	Create(ctx context.Context, record *model.Attendance) error
	// ListByEvent 按签到时间倒序返回某活动的全部记录
	ListByEvent(ctx context.Context, eventID uint) ([]model.Attendance, error)
	CountByEvent(ctx context.Context, eventID uint) (int64, error)
	DeleteByEvent(ctx context.Context, eventID uint) error
	DeleteByGroup(ctx context.Context, groupID uint) error
}

type attendanceRepo struct {
	db *gorm.DB
}

// NewAttendanceRepo 创建 AttendanceRepository 实例
func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

func (r *attendanceRepo) Create(ctx context.Context, record *model.Attendance) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *attendanceRepo) ListByEvent(ctx context.Context, eventID uint) ([]model.Attendance, error) {
	var records []model.Attendance
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("check_in_time DESC, id DESC").
		Find(&records).Error
	return records, err
}

func (r *attendanceRepo) CountByEvent(ctx context.Context, eventID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Attendance{}).
		Where("event_id = ?", eventID).
		Count(&count).Error
	return count, err
}

func (r *attendanceRepo) DeleteByEvent(ctx context.Context, eventID uint) error {
	return r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Delete(&model.Attendance{}).Error
}

func (r *attendanceRepo) DeleteByGroup(ctx context.Context, groupID uint) error {
	sub := r.db.Model(&model.Event{}).Select("id").Where("group_id = ?", groupID)
	return r.db.WithContext(ctx).
		Where("event_id IN (?)", sub).
		Delete(&model.Attendance{}).Error
}
