package dto

import "time"

// ── 签到模块 DTO ──

// CheckinRequest 签到请求
type CheckinRequest struct {
	AccessCode      string `json:"access_code"      binding:"required,max=16"`
	ParticipantName string `json:"participant_name" binding:"required,min=1,max=100"`
}

// CheckinResponse 签到成功响应
type CheckinResponse struct {
	Message    string             `json:"message"`
	Advice     string             `json:"advice"`
	Attendance AttendanceResponse `json:"attendance"`
}

// AttendanceResponse 签到记录响应
type AttendanceResponse struct {
	ID              uint      `json:"id"`
	EventID         uint      `json:"event_id"`
	ParticipantName string    `json:"participant_name"`
	CheckInTime     time.Time `json:"check_in_time"`
}
