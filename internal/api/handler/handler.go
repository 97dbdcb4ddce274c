package handler

import "github.com/Auraelena1/webtech-project-aura-cris-2026/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Group   *GroupHandler
	Event   *EventHandler
	Checkin *CheckinHandler
	Export  *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Group:   NewGroupHandler(svc.Group),
		Event:   NewEventHandler(svc.Event),
		Checkin: NewCheckinHandler(svc.Checkin),
		Export:  NewExportHandler(svc.Export),
	}
}
