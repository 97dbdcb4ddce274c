package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Auraelena1/webtech-project-aura-cris-2026/internal/dto"
	"github.com/Auraelena1/webtech-project-aura-cris-2026/internal/model"
	"github.com/Auraelena1/webtech-project-aura-cris-2026/internal/repository"
	"github.com/Auraelena1/webtech-project-aura-cris-2026/pkg/accesscode"
	"github.com/Auraelena1/webtech-project-aura-cris-2026/pkg/advice"
	pkgerrors "github.com/Auraelena1/webtech-project-aura-cris-2026/pkg/errors"
)

// ── 签到模块业务错误 ──

var (
	ErrInvalidAccessCode      = errors.New("invalid access code")
	ErrEventClosed            = errors.New("session is closed")
	ErrParticipantNameInvalid = errors.New("participant name must not be blank")
)

// CheckinService 签到业务接口
type CheckinService interface {
	// CheckIn 校验访问码与活动状态后写入一条签到记录，并附带一条鼓励语
	CheckIn(ctx context.Context, req *dto.CheckinRequest) (*dto.CheckinResponse, error)
	// ListAttendance 按签到时间倒序返回活动的签到名单
	ListAttendance(ctx context.Context, eventID uint) ([]dto.AttendanceResponse, error)
}

type checkinService struct {
	repo   *repository.Repository
	advice advice.Provider
	logger *zap.Logger
	now    func() time.Time
}

// NewCheckinService 创建 CheckinService 实例
func NewCheckinService(repo *repository.Repository, adviceProvider advice.Provider, logger *zap.Logger) CheckinService {
	return &checkinService{
		repo:   repo,
		advice: adviceProvider,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// ═══════════════════════════════════════════════════════════
// CheckIn
// ═══════════════════════════════════════════════════════════
//
// 状态检查与写入在同一事务内完成：
//   - PostgreSQL 对活动行加 FOR UPDATE 锁，与并发的状态切换互斥
//   - SQLite 只有一个写连接，事务天然串行
// 外部 advice 调用放在事务提交之后，失败只会退回默认文案

func (s *checkinService) CheckIn(ctx context.Context, req *dto.CheckinRequest) (*dto.CheckinResponse, error) {
	name := strings.TrimSpace(req.ParticipantName)
	if name == "" {
		return nil, ErrParticipantNameInvalid
	}
	code := accesscode.Normalize(req.AccessCode)
	if !accesscode.Valid(code) {
		return nil, ErrInvalidAccessCode
	}

	record := &model.Attendance{
		ParticipantName: name,
		CheckInTime:     s.now(),
	}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		event, err := tx.Event.GetByAccessCodeForUpdate(ctx, code)
		if err != nil {
			if pkgerrors.IsNotFound(err) {
				return ErrInvalidAccessCode
			}
			return err
		}
		if !event.IsOpen() {
			return ErrEventClosed
		}
		record.EventID = event.ID
		return tx.Attendance.Create(ctx, record)
	})
	if err != nil {
		if !errors.Is(err, ErrInvalidAccessCode) && !errors.Is(err, ErrEventClosed) {
			s.logger.Error("签到失败", zap.String("code", code), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("签到成功",
		zap.Uint("event_id", record.EventID),
		zap.Uint("attendance_id", record.ID),
		zap.String("participant", name),
	)

	return &dto.CheckinResponse{
		Message:    fmt.Sprintf("Check-in successful for %s!", name),
		Advice:     s.advice.Advice(ctx),
		Attendance: toAttendanceResponse(record),
	}, nil
}

// ────────────────────── ListAttendance ──────────────────────

func (s *checkinService) ListAttendance(ctx context.Context, eventID uint) ([]dto.AttendanceResponse, error) {
	if _, err := s.repo.Event.GetByID(ctx, eventID); err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, ErrEventNotFound
		}
		s.logger.Error("查询活动失败", zap.Uint("id", eventID), zap.Error(err))
		return nil, err
	}

	records, err := s.repo.Attendance.ListByEvent(ctx, eventID)
	if err != nil {
		s.logger.Error("查询签到名单失败", zap.Uint("event_id", eventID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.AttendanceResponse, 0, len(records))
	for i := range records {
		result = append(result, toAttendanceResponse(&records[i]))
	}
	return result, nil
}
