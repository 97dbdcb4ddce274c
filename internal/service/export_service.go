package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"github.com/Auraelena1/webtech-project-aura-cris-2026/config"
	"github.com/Auraelena1/webtech-project-aura-cris-2026/internal/model"
	"github.com/Auraelena1/webtech-project-aura-cris-2026/internal/repository"
	pkgerrors "github.com/Auraelena1/webtech-project-aura-cris-2026/pkg/errors"
	"github.com/Auraelena1/webtech-project-aura-cris-2026/pkg/report"
)

// ── 导出模块业务错误 ──

var ErrExportGenerateFail = errors.New("failed to generate export file")

// ExportService 导出业务接口
//
// 导出以 bytes.Buffer 返回，由 Handler 层设置下载响应头后写入 Response
type ExportService interface {
	// ExportAttendance 导出签到名单为 Excel
	ExportAttendance(ctx context.Context, eventID uint) (*bytes.Buffer, string, error)
	// ExportCalendar 导出活动为 iCalendar (.ics)
	ExportCalendar(ctx context.Context, eventID uint) (*bytes.Buffer, string, error)
}

type exportService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{cfg: cfg, repo: repo, logger: logger}
}

// ────────────────────── ExportAttendance ──────────────────────

func (s *exportService) ExportAttendance(ctx context.Context, eventID uint) (*bytes.Buffer, string, error) {
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, "", err
	}

	records, err := s.repo.Attendance.ListByEvent(ctx, eventID)
	if err != nil {
		s.logger.Error("查询签到名单失败", zap.Uint("event_id", eventID), zap.Error(err))
		return nil, "", err
	}

	rows := make([]report.Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, report.Row{ParticipantName: r.ParticipantName, CheckInTime: r.CheckInTime})
	}

	buf := new(bytes.Buffer)
	sheet := report.Sheet{
		Title: fmt.Sprintf("%s - %s", event.Name, event.StartTime.Format("2006-01-02 15:04")),
		Rows:  rows,
	}
	if err := report.Write(buf, sheet); err != nil {
		s.logger.Error("生成 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	return buf, report.Filename(event.Name, event.StartTime), nil
}

// ────────────────────── ExportCalendar ──────────────────────

// ExportCalendar 生成仅含一个 VEVENT 的日历，时长取 duration_minutes
func (s *exportService) ExportCalendar(ctx context.Context, eventID uint) (*bytes.Buffer, string, error) {
	event, err := s.getEvent(ctx, eventID)
	if err != nil {
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Attendance Monitoring//Events//EN")

	vevent := cal.AddEvent(fmt.Sprintf("event-%d@%s", event.ID, s.uidHost()))
	vevent.SetDtStampTime(time.Now().UTC())
	vevent.SetCreatedTime(event.CreatedAt)
	vevent.SetStartAt(event.StartTime)
	vevent.SetEndAt(event.EndTime())
	vevent.SetSummary(event.Name)
	vevent.SetDescription(fmt.Sprintf("Access code: %s", event.AccessCode))

	buf := bytes.NewBufferString(cal.Serialize())
	return buf, fmt.Sprintf("event-%d.ics", event.ID), nil
}

// ── 内部辅助方法 ──

// uidHost 取 base_url 的主机部分作为 UID 域名
func (s *exportService) uidHost() string {
	if s.cfg == nil || s.cfg.Server.BaseURL == "" {
		return "attendance.local"
	}
	if u, err := url.Parse(s.cfg.Server.BaseURL); err == nil && u.Host != "" {
		return u.Host
	}
	return s.cfg.Server.BaseURL
}

func (s *exportService) getEvent(ctx context.Context, id uint) (*model.Event, error) {
	event, err := s.repo.Event.GetByID(ctx, id)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, ErrEventNotFound
		}
		s.logger.Error("查询活动失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return event, nil
}
