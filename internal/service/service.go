package service

import (
	"go.uber.org/zap"

	"github.com/Auraelena1/webtech-project-aura-cris-2026/config"
	"github.com/Auraelena1/webtech-project-aura-cris-2026/internal/repository"
	"github.com/Auraelena1/webtech-project-aura-cris-2026/pkg/advice"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Group   GroupService
	Event   EventService
	Checkin CheckinService
	Export  ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	adviceProvider advice.Provider,
	logger *zap.Logger,
) *Service {
	return &Service{
		Group:   NewGroupService(repo, logger),
		Event:   NewEventService(repo, logger),
		Checkin: NewCheckinService(repo, adviceProvider, logger),
		Export:  NewExportService(cfg, repo, logger),
	}
}
