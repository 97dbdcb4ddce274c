package dto

import "time"

// ── 活动模块 DTO ──

// CreateEventRequest 创建活动请求
type CreateEventRequest struct {
	Name            string     `json:"name"             binding:"required,min=1,max=100"`
	StartTime       *time.Time `json:"start_time"       binding:"required"`
	DurationMinutes int        `json:"duration_minutes" binding:"required,min=1,max=1440"`
}

// UpdateEventStatusRequest 切换签到开关请求
type UpdateEventStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=OPEN CLOSED"`
}

// EventResponse 活动信息响应
type EventResponse struct {
	ID              uint      `json:"id"`
	GroupID         uint      `json:"group_id"`
	Name            string    `json:"name"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`
	AccessCode      string    `json:"access_code"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// QRCodeRequest 二维码查询参数
type QRCodeRequest struct {
	Size int `form:"size" binding:"omitempty,min=64,max=1024"`
}

// GetSize 获取二维码边长（含默认值）
func (r *QRCodeRequest) GetSize() int {
	if r.Size <= 0 {
		return 256
	}
	return r.Size
}
