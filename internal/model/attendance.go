package model

import (
	"time"

	"gorm.io/gorm"
)

// Attendance 签到记录，对应表 attendances，创建后不再修改
type Attendance struct {
	ID              uint      `gorm:"primaryKey;autoIncrement"   json:"id"`
	EventID         uint      `gorm:"not null;index"             json:"event_id"`
	ParticipantName string    `gorm:"type:varchar(100);not null" json:"participant_name"`
	CheckInTime     time.Time `gorm:"not null"                   json:"check_in_time"`
}

// TableName 指定表名
func (Attendance) TableName() string { return "attendances" }

// BeforeCreate 未指定签到时间时取创建时刻
func (a *Attendance) BeforeCreate(tx *gorm.DB) error {
	if a.CheckInTime.IsZero() {
		a.CheckInTime = tx.NowFunc()
	}
	return nil
}
