package model

import "time"

// EventStatus 活动签到开关
type EventStatus string

const (
	EventStatusClosed EventStatus = "CLOSED"
	EventStatusOpen   EventStatus = "OPEN"
)

// Valid 判断状态值是否合法
func (s EventStatus) Valid() bool {
	return s == EventStatusClosed || s == EventStatusOpen
}

// Event 单次活动（课堂/实验课），对应表 events
type Event struct {
	ID              uint        `gorm:"primaryKey;autoIncrement"                     json:"id"`
	GroupID         uint        `gorm:"not null;index"                               json:"group_id"`
	Name            string      `gorm:"type:varchar(100);not null"                   json:"name"`
	StartTime       time.Time   `gorm:"not null"                                     json:"start_time"`
	DurationMinutes int         `gorm:"not null"                                     json:"duration_minutes"`
	AccessCode      string      `gorm:"type:varchar(16);not null;uniqueIndex"        json:"access_code"`
	Status          EventStatus `gorm:"type:varchar(10);not null;default:'CLOSED'"   json:"status"`
	Group           *Group      `gorm:"foreignKey:GroupID"                           json:"group,omitempty"`
	BaseModel
}

// TableName 指定表名
func (Event) TableName() string { return "events" }

// EndTime 活动结束时间
func (e *Event) EndTime() time.Time {
	return e.StartTime.Add(time.Duration(e.DurationMinutes) * time.Minute)
}

// IsOpen 是否允许签到
func (e *Event) IsOpen() bool { return e.Status == EventStatusOpen }
