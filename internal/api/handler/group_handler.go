package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Auraelena1/webtech-project-aura-cris-2026/internal/dto"
	"github.com/Auraelena1/webtech-project-aura-cris-2026/internal/service"
	"github.com/Auraelena1/webtech-project-aura-cris-2026/pkg/response"
)

// GroupHandler 分组模块 HTTP 处理器
type GroupHandler struct {
	groupSvc service.GroupService
}

// NewGroupHandler 创建 GroupHandler
func NewGroupHandler(groupSvc service.GroupService) *GroupHandler {
	return &GroupHandler{groupSvc: groupSvc}
}

// CreateGroup 创建分组
// POST /groups
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	var req dto.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	group, err := h.groupSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleGroupError(c, err)
		return
	}

	response.Created(c, "Group created.", group)
}

// ListGroups 获取分组列表
// GET /groups
func (h *GroupHandler) ListGroups(c *gin.Context) {
	groups, err := h.groupSvc.List(c.Request.Context())
	if err != nil {
		h.handleGroupError(c, err)
		return
	}

	response.OK(c, groups)
}

// GetGroup 获取分组详情
// GET /groups/:groupId
func (h *GroupHandler) GetGroup(c *gin.Context) {
	id, ok := MustParseID(c, "groupId")
	if !ok {
		return
	}

	group, err := h.groupSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleGroupError(c, err)
		return
	}

	response.OK(c, group)
}

// DeleteGroup 删除分组（级联删除活动与签到记录）
// DELETE /groups/:groupId
func (h *GroupHandler) DeleteGroup(c *gin.Context) {
	id, ok := MustParseID(c, "groupId")
	if !ok {
		return
	}

	if err := h.groupSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleGroupError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *GroupHandler) handleGroupError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrGroupNotFound):
		response.NotFound(c, 11001, "Group not found.")
	case errors.Is(err, service.ErrGroupNameInvalid):
		response.BadRequest(c, 11002, "Group name must not be blank.")
	default:
		response.InternalError(c, err)
	}
}
