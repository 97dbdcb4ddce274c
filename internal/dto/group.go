package dto

import "time"

// ── 分组模块 DTO ──

// CreateGroupRequest 创建分组请求
type CreateGroupRequest struct {
	Name        string `json:"name"        binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"omitempty,max=500"`
}

// GroupResponse 分组信息响应
type GroupResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
