package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Auraelena1/webtech-project-aura-cris-2026/internal/dto"
	"github.com/Auraelena1/webtech-project-aura-cris-2026/internal/service"
	"github.com/Auraelena1/webtech-project-aura-cris-2026/pkg/response"
)

// EventHandler 活动模块 HTTP 处理器
type EventHandler struct {
	eventSvc service.EventService
}

// NewEventHandler 创建 EventHandler
func NewEventHandler(eventSvc service.EventService) *EventHandler {
	return &EventHandler{eventSvc: eventSvc}
}

// CreateEvent 在分组下创建活动，初始状态为 CLOSED
// POST /groups/:groupId/events
func (h *EventHandler) CreateEvent(c *gin.Context) {
	groupID, ok := MustParseID(c, "groupId")
	if !ok {
		return
	}

	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	event, err := h.eventSvc.Create(c.Request.Context(), groupID, &req)
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.Created(c, "Event created.", event)
}

// ListEvents 获取分组下的活动
// GET /groups/:groupId/events
func (h *EventHandler) ListEvents(c *gin.Context) {
	groupID, ok := MustParseID(c, "groupId")
	if !ok {
		return
	}

	events, err := h.eventSvc.ListByGroup(c.Request.Context(), groupID)
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, events)
}

// GetEvent 获取活动详情
// GET /events/:id
func (h *EventHandler) GetEvent(c *gin.Context) {
	id, ok := MustParseID(c, "id")
	if !ok {
		return
	}

	event, err := h.eventSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, event)
}

// UpdateStatus 开放或关闭签到（幂等）
// PATCH /events/:id/status
func (h *EventHandler) UpdateStatus(c *gin.Context) {
	id, ok := MustParseID(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateEventStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	event, err := h.eventSvc.SetStatus(c.Request.Context(), id, &req)
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, event)
}

// DeleteEvent 删除活动及其签到记录
// DELETE /events/:id
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	id, ok := MustParseID(c, "id")
	if !ok {
		return
	}

	if err := h.eventSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleEventError(c, err)
		return
	}

	response.OK(c, nil)
}

// QRCode 返回访问码的 PNG 二维码
// GET /events/:id/qrcode?size=256
func (h *EventHandler) QRCode(c *gin.Context) {
	id, ok := MustParseID(c, "id")
	if !ok {
		return
	}

	var req dto.QRCodeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ValidationFailed(c, err)
		return
	}

	png, err := h.eventSvc.QRCode(c.Request.Context(), id, req.GetSize())
	if err != nil {
		h.handleEventError(c, err)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

func (h *EventHandler) handleEventError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrGroupNotFound):
		response.NotFound(c, 11001, "Group not found.")
	case errors.Is(err, service.ErrEventNotFound):
		response.NotFound(c, 12001, "Event not found.")
	case errors.Is(err, service.ErrEventNameInvalid):
		response.BadRequest(c, 12002, "Event name must not be blank.")
	case errors.Is(err, service.ErrEventStatusInvalid):
		response.BadRequest(c, 12003, "Status must be OPEN or CLOSED.")
	case errors.Is(err, service.ErrAccessCodeExhausted):
		response.ErrorWithDetails(c, http.StatusInternalServerError, 12004, "Server error.", err.Error())
	case errors.Is(err, service.ErrQRCodeGenerateFail):
		response.ErrorWithDetails(c, http.StatusInternalServerError, 12005, "Server error.", err.Error())
	default:
		response.InternalError(c, err)
	}
}
