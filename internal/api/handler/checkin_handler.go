package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/Auraelena1/webtech-project-aura-cris-2026/internal/dto"
	"github.com/Auraelena1/webtech-project-aura-cris-2026/internal/service"
	"github.com/Auraelena1/webtech-project-aura-cris-2026/pkg/response"
)

// CheckinHandler 签到模块 HTTP 处理器
type CheckinHandler struct {
	checkinSvc service.CheckinService
}

// NewCheckinHandler 创建 CheckinHandler
func NewCheckinHandler(checkinSvc service.CheckinService) *CheckinHandler {
	return &CheckinHandler{checkinSvc: checkinSvc}
}

// CheckIn 参与者凭访问码签到
// POST /checkin
func (h *CheckinHandler) CheckIn(c *gin.Context) {
	var req dto.CheckinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	result, err := h.checkinSvc.CheckIn(c.Request.Context(), &req)
	if err != nil {
		h.handleCheckinError(c, err)
		return
	}

	response.Created(c, result.Message, result)
}

// ListAttendance 获取活动签到名单（按时间倒序）
// GET /events/:id/attendance
func (h *CheckinHandler) ListAttendance(c *gin.Context) {
	id, ok := MustParseID(c, "id")
	if !ok {
		return
	}

	list, err := h.checkinSvc.ListAttendance(c.Request.Context(), id)
	if err != nil {
		h.handleCheckinError(c, err)
		return
	}

	response.OK(c, list)
}

func (h *CheckinHandler) handleCheckinError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidAccessCode):
		response.NotFound(c, 13001, "Invalid access code.")
	case errors.Is(err, service.ErrEventClosed):
		response.Forbidden(c, 13002, "This session is currently closed.")
	case errors.Is(err, service.ErrParticipantNameInvalid):
		response.BadRequest(c, 13003, "Participant name must not be blank.")
	case errors.Is(err, service.ErrEventNotFound):
		response.NotFound(c, 12001, "Event not found.")
	default:
		response.InternalError(c, err)
	}
}
