package handler

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/Auraelena1/webtech-project-aura-cris-2026/internal/service"
	"github.com/Auraelena1/webtech-project-aura-cris-2026/pkg/report"
	"github.com/Auraelena1/webtech-project-aura-cris-2026/pkg/response"
)

const calendarContentType = "text/calendar; charset=utf-8"

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportAttendance 导出签到名单 Excel
// GET /events/:id/export
func (h *ExportHandler) ExportAttendance(c *gin.Context) {
	id, ok := MustParseID(c, "id")
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportAttendance(c.Request.Context(), id)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	sendFile(c, buf, filename, report.ContentType)
}

// ExportCalendar 导出活动日历 (.ics)
// GET /events/:id/calendar
func (h *ExportHandler) ExportCalendar(c *gin.Context) {
	id, ok := MustParseID(c, "id")
	if !ok {
		return
	}

	buf, filename, err := h.exportSvc.ExportCalendar(c.Request.Context(), id)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	sendFile(c, buf, filename, calendarContentType)
}

// sendFile 设置下载响应头并写出文件内容
func sendFile(c *gin.Context, buf *bytes.Buffer, filename, contentType string) {
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		response.NotFound(c, 12001, "Event not found.")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.ErrorWithDetails(c, http.StatusInternalServerError, 14001, "Server error.", err.Error())
	default:
		response.InternalError(c, err)
	}
}
