package service

import (
	"context"
	"errors"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/Auraelena1/webtech-project-aura-cris-2026/internal/dto"
	"github.com/Auraelena1/webtech-project-aura-cris-2026/internal/model"
	"github.com/Auraelena1/webtech-project-aura-cris-2026/internal/repository"
	"github.com/Auraelena1/webtech-project-aura-cris-2026/pkg/accesscode"
	pkgerrors "github.com/Auraelena1/webtech-project-aura-cris-2026/pkg/errors"
)

// ── 活动模块业务错误 ──

var (
	ErrEventNotFound       = errors.New("event not found")
	ErrEventNameInvalid    = errors.New("event name must not be blank")
	ErrEventStatusInvalid  = errors.New("status must be OPEN or CLOSED")
	ErrAccessCodeExhausted = errors.New("could not allocate a unique access code")
	ErrQRCodeGenerateFail  = errors.New("failed to render QR code")
)

// maxCodeAttempts 访问码冲突时的最大生成次数
const maxCodeAttempts = 5

// EventService 活动业务接口
type EventService interface {
	// Create 在分组下创建活动，访问码由服务端生成，初始状态为 CLOSED
	Create(ctx context.Context, groupID uint, req *dto.CreateEventRequest) (*dto.EventResponse, error)
	GetByID(ctx context.Context, id uint) (*dto.EventResponse, error)
	ListByGroup(ctx context.Context, groupID uint) ([]dto.EventResponse, error)
	// SetStatus 切换签到开关，重复设置同一状态为幂等操作
	SetStatus(ctx context.Context, id uint, req *dto.UpdateEventStatusRequest) (*dto.EventResponse, error)
	Delete(ctx context.Context, id uint) error
	// QRCode 将活动访问码渲染为 PNG 二维码
	QRCode(ctx context.Context, id uint, size int) ([]byte, error)
}

type eventService struct {
	repo     *repository.Repository
	logger   *zap.Logger
	generate func() (string, error)
}

// NewEventService 创建 EventService 实例
func NewEventService(repo *repository.Repository, logger *zap.Logger) EventService {
	return &eventService{repo: repo, logger: logger, generate: accesscode.Generate}
}

// ────────────────────── Create ──────────────────────

func (s *eventService) Create(ctx context.Context, groupID uint, req *dto.CreateEventRequest) (*dto.EventResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrEventNameInvalid
	}

	if _, err := s.repo.Group.GetByID(ctx, groupID); err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, ErrGroupNotFound
		}
		s.logger.Error("查询分组失败", zap.Uint("group_id", groupID), zap.Error(err))
		return nil, err
	}

	event := &model.Event{
		GroupID:         groupID,
		Name:            name,
		StartTime:       req.StartTime.UTC(),
		DurationMinutes: req.DurationMinutes,
		Status:          model.EventStatusClosed,
	}

	// 唯一性由唯一索引保证：冲突时重新生成访问码
	for attempt := 1; ; attempt++ {
		code, err := s.generate()
		if err != nil {
			s.logger.Error("生成访问码失败", zap.Error(err))
			return nil, err
		}
		event.ID = 0
		event.AccessCode = code

		err = s.repo.Event.Create(ctx, event)
		if err == nil {
			break
		}
		if !pkgerrors.IsDuplicateKey(err) {
			s.logger.Error("创建活动失败", zap.Error(err))
			return nil, err
		}
		s.logger.Warn("访问码冲突，重新生成", zap.String("code", code), zap.Int("attempt", attempt))
		if attempt >= maxCodeAttempts {
			return nil, ErrAccessCodeExhausted
		}
	}

	s.logger.Info("活动已创建",
		zap.Uint("event_id", event.ID),
		zap.Uint("group_id", groupID),
		zap.String("access_code", event.AccessCode),
	)
	return toEventResponse(event), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *eventService) GetByID(ctx context.Context, id uint) (*dto.EventResponse, error) {
	event, err := s.getEvent(ctx, id)
	if err != nil {
		return nil, err
	}
	return toEventResponse(event), nil
}

// ────────────────────── ListByGroup ──────────────────────

func (s *eventService) ListByGroup(ctx context.Context, groupID uint) ([]dto.EventResponse, error) {
	if _, err := s.repo.Group.GetByID(ctx, groupID); err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, ErrGroupNotFound
		}
		return nil, err
	}

	events, err := s.repo.Event.ListByGroup(ctx, groupID)
	if err != nil {
		s.logger.Error("列出活动失败", zap.Uint("group_id", groupID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.EventResponse, 0, len(events))
	for i := range events {
		result = append(result, *toEventResponse(&events[i]))
	}
	return result, nil
}

// ────────────────────── SetStatus ──────────────────────

func (s *eventService) SetStatus(ctx context.Context, id uint, req *dto.UpdateEventStatusRequest) (*dto.EventResponse, error) {
	status := model.EventStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	if !status.Valid() {
		return nil, ErrEventStatusInvalid
	}

	event, err := s.getEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	if event.Status != status {
		if err := s.repo.Event.UpdateStatus(ctx, id, status); err != nil {
			s.logger.Error("更新活动状态失败", zap.Uint("id", id), zap.Error(err))
			return nil, err
		}
		s.logger.Info("活动状态已切换",
			zap.Uint("event_id", id),
			zap.String("from", string(event.Status)),
			zap.String("to", string(status)),
		)
		if event, err = s.getEvent(ctx, id); err != nil {
			return nil, err
		}
	}

	return toEventResponse(event), nil
}

// ────────────────────── Delete ──────────────────────

func (s *eventService) Delete(ctx context.Context, id uint) error {
	if _, err := s.getEvent(ctx, id); err != nil {
		return err
	}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Attendance.DeleteByEvent(ctx, id); err != nil {
			return err
		}
		return tx.Event.Delete(ctx, id)
	})
	if err != nil {
		s.logger.Error("删除活动失败", zap.Uint("id", id), zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── QRCode ──────────────────────

func (s *eventService) QRCode(ctx context.Context, id uint, size int) ([]byte, error) {
	event, err := s.getEvent(ctx, id)
	if err != nil {
		return nil, err
	}

	png, err := qrcode.Encode(event.AccessCode, qrcode.Medium, size)
	if err != nil {
		s.logger.Error("生成二维码失败", zap.Uint("id", id), zap.Error(err))
		return nil, ErrQRCodeGenerateFail
	}
	return png, nil
}

// ── 内部辅助方法 ──

func (s *eventService) getEvent(ctx context.Context, id uint) (*model.Event, error) {
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
