package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/Auraelena1/webtech-project-aura-cris-2026/internal/dto"
	"github.com/Auraelena1/webtech-project-aura-cris-2026/internal/model"
	"github.com/Auraelena1/webtech-project-aura-cris-2026/internal/repository"
	pkgerrors "github.com/Auraelena1/webtech-project-aura-cris-2026/pkg/errors"
)

// ── 分组模块业务错误 ──

var (
	ErrGroupNotFound    = errors.New("group not found")
	ErrGroupNameInvalid = errors.New("group name must not be blank")
)

// GroupService 分组业务接口
type GroupService interface {
	Create(ctx context.Context, req *dto.CreateGroupRequest) (*dto.GroupResponse, error)
	GetByID(ctx context.Context, id uint) (*dto.GroupResponse, error)
	List(ctx context.Context) ([]dto.GroupResponse, error)
	// Delete 删除分组及其下属活动、签到记录（单事务）
	Delete(ctx context.Context, id uint) error
}

type groupService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewGroupService 创建 GroupService 实例
func NewGroupService(repo *repository.Repository, logger *zap.Logger) GroupService {
	return &groupService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *groupService) Create(ctx context.Context, req *dto.CreateGroupRequest) (*dto.GroupResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrGroupNameInvalid
	}

	group := &model.Group{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
	}
	if err := s.repo.Group.Create(ctx, group); err != nil {
		s.logger.Error("创建分组失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("分组已创建", zap.Uint("group_id", group.ID), zap.String("name", group.Name))
	return toGroupResponse(group), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *groupService) GetByID(ctx context.Context, id uint) (*dto.GroupResponse, error) {
	group, err := s.repo.Group.GetByID(ctx, id)
	if err != nil {
		if pkgerrors.IsNotFound(err) {
			return nil, ErrGroupNotFound
		}
		s.logger.Error("查询分组失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return toGroupResponse(group), nil
}

// ────────────────────── List ──────────────────────

func (s *groupService) List(ctx context.Context) ([]dto.GroupResponse, error) {
	groups, err := s.repo.Group.List(ctx)
	if err != nil {
		s.logger.Error("列出分组失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.GroupResponse, 0, len(groups))
	for i := range groups {
		result = append(result, *toGroupResponse(&groups[i]))
	}
	return result, nil
}

// ────────────────────── Delete ──────────────────────

// Delete 按所有权顺序删除：签到记录 → 活动 → 分组
func (s *groupService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.Group.GetByID(ctx, id); err != nil {
		if pkgerrors.IsNotFound(err) {
			return ErrGroupNotFound
		}
		s.logger.Error("查询分组失败", zap.Uint("id", id), zap.Error(err))
		return err
	}

	err := s.repo.Transaction(ctx, func(tx *repository.Repository) error {
		if err := tx.Attendance.DeleteByGroup(ctx, id); err != nil {
			return err
		}
		if err := tx.Event.DeleteByGroup(ctx, id); err != nil {
			return err
		}
		return tx.Group.Delete(ctx, id)
	})
	if err != nil {
		s.logger.Error("删除分组失败", zap.Uint("id", id), zap.Error(err))
		return err
	}

	s.logger.Info("分组已删除", zap.Uint("group_id", id))
	return nil
}
