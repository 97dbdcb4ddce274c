package client

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/Auraelena1/webtech-project-aura-cris-2026/internal/dto"
)

// 扫码签到需要至少 3 个字符的姓名
const minScanNameLength = 3

var (
	ErrNameRequired = errors.New("participant name is required")
	ErrNameTooShort = errors.New("participant name must have at least 3 characters to scan")
)

// Student 参与者角色：手动输入或扫描二维码签到
type Student struct {
	api  *Client
	name string
}

// NewStudent 以给定姓名创建参与者
func NewStudent(api *Client, name string) *Student {
	return &Student{api: api, name: strings.TrimSpace(name)}
}

// CheckIn 使用手动输入的访问码签到
func (s *Student) CheckIn(ctx context.Context, code string) (*dto.CheckinResponse, error) {
	if s.name == "" {
		return nil, ErrNameRequired
	}
	return s.api.CheckIn(ctx, &dto.CheckinRequest{
		AccessCode:      strings.TrimSpace(code),
		ParticipantName: s.name,
	})
}

// CheckInFromQR 识别二维码图片中的访问码后签到
func (s *Student) CheckInFromQR(ctx context.Context, image io.Reader) (*dto.CheckinResponse, error) {
	if len([]rune(s.name)) < minScanNameLength {
		return nil, ErrNameTooShort
	}
	code, err := DecodeQR(image)
	if err != nil {
		return nil, err
	}
	return s.CheckIn(ctx, code)
}
